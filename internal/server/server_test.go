package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-os/ipcmond/internal/binder"
	"github.com/lumen-os/ipcmond/internal/config"
	"github.com/lumen-os/ipcmond/internal/logging"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := config.Default()
	cfg.Monitor.SamplePeriod = 10 * time.Millisecond
	cfg.RateLimit.Enabled = false

	srv, err := New(cfg, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, srv.Close())
	})
	return srv
}

func (s *Server) get(path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	s.router.ServeHTTP(w, req)
	return w
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.IPC.PageSize = 1000

	_, err := New(cfg, logging.NewNop())
	assert.Error(t, err)
}

func TestServer_EndToEndInfoFlow(t *testing.T) {
	srv := newTestServer(t)

	w := srv.get("/ipc/info?uid=1000")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Motorola Nexus 6 shamu")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = srv.get("/ipc/info?uid=4242")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestServer_BinderTrafficVisibleInStatsAndMetrics(t *testing.T) {
	srv := newTestServer(t)

	// Simulate the kernel dispatching two info requests through the
	// binder adapter, one denied.
	for _, uid := range []uint32{1000, 9999} {
		txn := &binder.Transaction{SenderUID: uid}
		srv.InfoHandler().Handle(txn)
		srv.Driver().Complete(txn)
	}

	w := srv.get("/ipc/stats")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"transactions_total":2`)
	assert.Contains(t, w.Body.String(), `"uid_violations":1`)

	w = srv.get("/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ipcmond_transactions_total 2")
	assert.Contains(t, w.Body.String(), "ipcmond_uid_violations_total 1")
}

func TestServer_SamplerAdvancesUptime(t *testing.T) {
	srv := newTestServer(t)

	require.Eventually(t, func() bool {
		body := srv.get("/ipc/stats").Body.String()
		return !strings.Contains(body, `"uptime_seconds":0`)
	}, 2*time.Second, 10*time.Millisecond)
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(t)

	w := srv.get("/health")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"monitoring":true`)
}
