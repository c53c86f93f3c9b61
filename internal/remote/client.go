// Package remote queries the deployment platform for the latest
// deployed revision and any currently active jobs.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/haatos/deckhand/internal/status"
)

const defaultTimeout = 10 * time.Second

var ErrUnexpectedStatus = errors.New("unexpected response status")

type deploymentResponse struct {
	Revision string `json:"revision"`
	Jobs     []struct {
		ID    string `json:"id"`
		State string `json:"state"`
	} `json:"jobs"`
}

// Client is a minimal JSON-over-HTTP binding to the platform's
// deployment endpoint.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

// LatestDeployment returns the platform's latest deployed revision and
// the number of jobs still active for it.
func (c *Client) LatestDeployment(ctx context.Context) (status.Deployment, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		c.baseURL+"/deployments/latest",
		nil,
	)
	if err != nil {
		return status.Deployment{}, fmt.Errorf("building deployment request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return status.Deployment{}, fmt.Errorf("querying deployment platform: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return status.Deployment{}, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var dr deploymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return status.Deployment{}, fmt.Errorf("decoding deployment response: %w", err)
	}

	active := 0
	for _, j := range dr.Jobs {
		switch j.State {
		case "queued", "building", "deploying":
			active++
		}
	}

	return status.Deployment{Revision: dr.Revision, ActiveJobs: active}, nil
}
