package watch

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/haatos/deckhand/internal/status"
	"github.com/haatos/deckhand/testutil"
)

func TestRun(t *testing.T) {
	t.Run("success - status re-evaluated on every tick until cancelled", func(t *testing.T) {
		// arrange
		source := new(testutil.MockStatusSource)
		source.On("Collect", mock.Anything).Return(status.Signals{
			CurrentRevision:        "abc123",
			LatestDeployedRevision: "abc123",
		})

		var mu sync.Mutex
		var labels []status.Label
		onLabel := func(l status.Label) {
			mu.Lock()
			labels = append(labels, l)
			mu.Unlock()
		}

		ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
		defer cancel()
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))

		// act
		err := Run(ctx, 50*time.Millisecond, source, onLabel, logger)

		// assert
		assert.NoError(t, err)
		mu.Lock()
		defer mu.Unlock()
		assert.GreaterOrEqual(t, len(labels), 2)
		for _, l := range labels {
			assert.Equal(t, status.LabelSynced, l)
		}
	})
}
