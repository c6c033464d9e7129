package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/finbotd/finbot/internal/config"
	"github.com/finbotd/finbot/internal/status"
)

func newTestServer(snap *status.Snapshot) http.Handler {
	srv := NewServer(config.ServerConfig{Port: "0", Mode: "release"}, snap, zap.NewNop())
	return srv.Handler
}

func TestHealthz_ServiceUnavailableWhenDatabaseDown(t *testing.T) {
	snap := status.NewSnapshot()
	snap.RecordError("dial tcp: connection refused")

	w := httptest.NewRecorder()
	newTestServer(snap).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["database_online"])
	assert.Equal(t, "dial tcp: connection refused", body["last_error"])
}

func TestHealthz_OKWhenDatabaseOnline(t *testing.T) {
	snap := status.NewSnapshot()
	snap.RecordDatabase(true)
	snap.RecordBanking(true, "")

	w := httptest.NewRecorder()
	newTestServer(snap).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["banking_api_online"])
	assert.NotEmpty(t, body["last_banking_check"])
}

func TestMetricsEndpointIsMounted(t *testing.T) {
	w := httptest.NewRecorder()
	newTestServer(status.NewSnapshot()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
