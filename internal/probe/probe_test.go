package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHTTP_Probe(t *testing.T) {
	t.Run("success - responding target is reachable", func(t *testing.T) {
		// arrange
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>ok</html>"))
		}))
		defer srv.Close()

		// act
		res, err := NewHTTP(srv.URL, time.Second).Probe(context.Background())

		// assert
		assert.NoError(t, err)
		assert.True(t, res.Reachable)
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, int64(15), res.Bytes)
		assert.GreaterOrEqual(t, res.LatencyMS, int64(0))
	})

	t.Run("success - server error status is not reachable", func(t *testing.T) {
		// arrange
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		// act
		res, err := NewHTTP(srv.URL, time.Second).Probe(context.Background())

		// assert
		assert.NoError(t, err)
		assert.False(t, res.Reachable)
		assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	})

	t.Run("failure - connection refused surfaces as an error", func(t *testing.T) {
		// arrange
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		// act
		_, err := NewHTTP(srv.URL, 100*time.Millisecond).Probe(context.Background())

		// assert
		assert.Error(t, err)
	})
}
