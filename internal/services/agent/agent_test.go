package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/iwtcode/inspectionService/pkg/errors"
)

func TestTroubleshootForwardsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/health":
			w.Write([]byte(`{"status":"healthy","agent_loaded":true}`))
		case "/api/troubleshoot":
			var req struct {
				Query string `json:"query"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			json.NewEncoder(w).Encode(map[string]string{"response": "Check nozzle for: " + req.Query})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", time.Second, nil)
	assert.True(t, c.Configured())
	assert.True(t, c.Loaded(context.Background()))

	answer, err := c.Troubleshoot(context.Background(), "orange peel")
	require.NoError(t, err)
	assert.Equal(t, "Check nozzle for: orange peel", answer)

	_, err = c.Troubleshoot(context.Background(), "  ")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestTroubleshootUnavailable(t *testing.T) {
	c := NewClient("", time.Second, nil)
	assert.False(t, c.Configured())
	assert.False(t, c.Loaded(context.Background()))
	_, err := c.Troubleshoot(context.Background(), "why")
	assert.ErrorIs(t, err, apperrors.ErrUnavailable)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"detail":"Agent not initialized"}`))
	}))
	defer srv.Close()

	c = NewClient(srv.URL, time.Second, nil)
	assert.False(t, c.Loaded(context.Background()))
	_, err = c.Troubleshoot(context.Background(), "why")
	assert.ErrorIs(t, err, apperrors.ErrUnavailable)
	assert.Contains(t, err.Error(), "Agent not initialized")
}
