package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-os/ipcmond/internal/binder"
	"github.com/lumen-os/ipcmond/internal/clock"
	"github.com/lumen-os/ipcmond/internal/ipc"
)

func newTestRouter(t *testing.T) (*gin.Engine, *ipc.Service, *ipc.Stats) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	stats := &ipc.Stats{}
	svc := ipc.NewService(ipc.Config{
		TargetDevice: "Motorola Nexus 6 shamu",
		AllowedUIDs:  []uint32{1000, 1001},
		PageSize:     16384,
		PagesMapped:  64,
		Enforced:     true,
	}, stats, nil, nil)

	clk := clock.NewManual(1_000_000)
	monitor := ipc.NewMonitor(stats, clk, 0, nil)
	monitor.Init(binder.NewDriver())

	handlers := NewHandlers(svc, monitor, clk)

	router := gin.New()
	router.GET("/health", handlers.Health)
	router.GET("/ipc/info", handlers.GetInfo)
	router.GET("/ipc/info/raw", handlers.GetInfoRaw)
	router.GET("/ipc/targeting", handlers.GetTargeting)
	router.GET("/ipc/paging", handlers.GetPaging)
	router.GET("/ipc/stats", handlers.GetStats)
	router.GET("/ipc/reports/snapshot", handlers.SnapshotReport)
	router.GET("/ipc/reports/monitoring", handlers.MonitoringReport)

	return router, svc, stats
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestGetInfo_Authorized(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := get(router, "/ipc/info?uid=1000")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["valid"])
	assert.Equal(t, "Motorola Nexus 6 shamu", body["target_device"])
	assert.Equal(t, float64(1000), body["uid_enforced"])
	assert.Equal(t, float64(64), body["pages_mapped"])
}

func TestGetInfo_DeniedIs403AndCacheUntouched(t *testing.T) {
	router, svc, _ := newTestRouter(t)

	before := svc.CachedInfo()

	w := get(router, "/ipc/info?uid=9999")
	require.Equal(t, http.StatusForbidden, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(-13), body["code"])
	assert.Equal(t, before, svc.CachedInfo())
}

func TestGetInfo_BadRequest(t *testing.T) {
	router, _, _ := newTestRouter(t)

	assert.Equal(t, http.StatusBadRequest, get(router, "/ipc/info").Code)
	assert.Equal(t, http.StatusBadRequest, get(router, "/ipc/info?uid=abc").Code)
	assert.Equal(t, http.StatusBadRequest, get(router, "/ipc/info?uid=-1").Code)
}

func TestGetInfoRaw_ReturnsExactWireRecord(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := get(router, "/ipc/info/raw?uid=1001")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/octet-stream", w.Header().Get("Content-Type"))
	require.Equal(t, ipc.InfoWireSize, w.Body.Len())

	decoded, err := ipc.DecodeInfo(w.Body.Bytes())
	require.NoError(t, err)
	assert.True(t, decoded.Valid)
	assert.Equal(t, uint32(1001), decoded.UIDEnforced)
}

func TestGetTargetingAndPaging_Unconditional(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := get(router, "/ipc/targeting")
	require.Equal(t, http.StatusOK, w.Code)

	var targeting map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &targeting))
	assert.Equal(t, float64(2), targeting["uid_count"])
	assert.Equal(t, true, targeting["target_valid"])

	w = get(router, "/ipc/paging")
	require.Equal(t, http.StatusOK, w.Code)

	var paging map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &paging))
	assert.Equal(t, float64(16384*64), paging["total_ipc_region"])
}

func TestGetStats_ReflectsMonitor(t *testing.T) {
	router, _, stats := newTestRouter(t)

	stats.Transactions.Add(7)
	stats.ErrorsTotal.Add(2)

	w := get(router, "/ipc/stats")
	require.Equal(t, http.StatusOK, w.Code)

	var snap ipc.StatsSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, uint32(7), snap.Transactions)
	assert.Equal(t, uint32(2), snap.ErrorsTotal)
}

func TestReports(t *testing.T) {
	router, svc, _ := newTestRouter(t)
	svc.GetCombinedInfo(1000)

	for _, path := range []string{"/ipc/reports/snapshot", "/ipc/reports/monitoring"} {
		w := get(router, path)
		require.Equal(t, http.StatusOK, w.Code, path)

		var body struct {
			Lines []string `json:"lines"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.NotEmpty(t, body.Lines)
	}
}

func TestHealth(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := get(router, "/health")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, true, body["monitoring"])
}
