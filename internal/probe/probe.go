// Package probe checks whether the deployed target answers over HTTP.
package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/haatos/deckhand/internal/status"
)

const defaultTimeout = 5 * time.Second

// HTTP probes a fixed target URL with a bounded timeout.
type HTTP struct {
	url  string
	http *http.Client
}

func NewHTTP(url string, timeout time.Duration) *HTTP {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTP{
		url:  url,
		http: &http.Client{Timeout: timeout},
	}
}

// Probe issues one GET against the target and reports status code,
// round-trip latency and payload size. A 2xx or 3xx status counts as
// reachable; a transport error is returned to the caller, which
// treats failing to connect as the unreachable signal.
func (p *HTTP) Probe(ctx context.Context) (status.ProbeResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return status.ProbeResult{}, fmt.Errorf("building probe request: %w", err)
	}

	started := time.Now()
	resp, err := p.http.Do(req)
	if err != nil {
		return status.ProbeResult{}, fmt.Errorf("probing %s: %w", p.url, err)
	}
	defer resp.Body.Close()

	size, _ := io.Copy(io.Discard, resp.Body)
	latency := time.Since(started)

	return status.ProbeResult{
		Reachable:  resp.StatusCode < http.StatusBadRequest,
		StatusCode: resp.StatusCode,
		LatencyMS:  latency.Milliseconds(),
		Bytes:      size,
	}, nil
}
