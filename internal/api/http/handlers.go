// Package http exposes the IPC introspection surface over HTTP. It is
// the query-caller boundary: access denials become 403 responses here,
// mirroring the binder adapter's access-denied status.
package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lumen-os/ipcmond/internal/clock"
	"github.com/lumen-os/ipcmond/internal/ipc"
)

// Handlers holds the dependencies of the HTTP surface.
type Handlers struct {
	svc     *ipc.Service
	monitor *ipc.Monitor
	clk     clock.Clock
}

// NewHandlers creates the HTTP handler set.
func NewHandlers(svc *ipc.Service, monitor *ipc.Monitor, clk clock.Clock) *Handlers {
	return &Handlers{svc: svc, monitor: monitor, clk: clk}
}

// Health reports liveness.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"monitoring": h.monitor.Initialized(),
		"service":    "ipcmond",
	})
}

// GetInfo returns the combined snapshot for the requester UID given in
// the uid query parameter.
func (h *Handlers) GetInfo(c *gin.Context) {
	uid, ok := h.requesterUID(c)
	if !ok {
		return
	}

	info := h.svc.GetCombinedInfo(uid)
	if !info.Valid {
		c.JSON(http.StatusForbidden, gin.H{
			"error": "permission denied",
			"code":  -13,
		})
		return
	}

	c.JSON(http.StatusOK, infoView(info))
}

// GetInfoRaw returns the packed wire form of the combined snapshot, the
// exact byte layout existing callers consume.
func (h *Handlers) GetInfoRaw(c *gin.Context) {
	uid, ok := h.requesterUID(c)
	if !ok {
		return
	}

	info := h.svc.GetCombinedInfo(uid)
	if !info.Valid {
		c.JSON(http.StatusForbidden, gin.H{
			"error": "permission denied",
			"code":  -13,
		})
		return
	}

	c.Data(http.StatusOK, "application/octet-stream", ipc.EncodeInfo(info))
}

// GetTargeting returns the targeting configuration. Unconditional: the
// data is static configuration, not privileged state.
func (h *Handlers) GetTargeting(c *gin.Context) {
	info := h.svc.GetTargetingInfo()
	c.JSON(http.StatusOK, gin.H{
		"target_device": info.Device(),
		"allowed_uids":  info.Allowed(),
		"uid_count":     info.UIDCount,
		"target_valid":  info.TargetValid,
		"enforced":      info.Enforced,
		"lock_active":   info.LockActive,
	})
}

// GetPaging returns the paging geometry.
func (h *Handlers) GetPaging(c *gin.Context) {
	info := h.svc.GetPagingInfo()
	c.JSON(http.StatusOK, gin.H{
		"page_size":        info.PageSize,
		"pages_mapped":     info.PagesMapped,
		"l1_table_base":    info.L1TableBase,
		"total_ipc_region": info.TotalIPCRegion,
		"cache_flags":      info.CacheFlags,
		"tlb_flushes":      info.TLBFlushes,
		"valid":            info.Valid,
	})
}

// GetStats returns a point-in-time, non-atomic read of the counter bank.
func (h *Handlers) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.monitor.Stats().Snapshot())
}

// SnapshotReport returns the formatted snapshot report lines for the
// cached snapshot.
func (h *Handlers) SnapshotReport(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"lines": ipc.FormatSnapshotReport(h.svc.CachedInfo()),
	})
}

// MonitoringReport returns the formatted monitoring report lines.
func (h *Handlers) MonitoringReport(c *gin.Context) {
	lines := ipc.FormatMonitoringReport(
		h.monitor.Stats().Snapshot(),
		h.monitor.BootTicks(),
		h.clk.Ticks(),
		h.clk.TickRate(),
	)
	c.JSON(http.StatusOK, gin.H{"lines": lines})
}

func (h *Handlers) requesterUID(c *gin.Context) (uint32, bool) {
	raw := c.Query("uid")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "uid query parameter required"})
		return 0, false
	}
	uid, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "uid must be an unsigned 32-bit integer"})
		return 0, false
	}
	return uint32(uid), true
}

func infoView(info ipc.Info) gin.H {
	return gin.H{
		"magic":               info.Magic,
		"version":             info.Version,
		"mem_page_size":       info.MemPageSize,
		"uid_enforced":        info.UIDEnforced,
		"target_device":       info.Device(),
		"pages_mapped":        info.PagesMapped,
		"active_transactions": info.ActiveTransactions,
		"lock_type":           info.Lock(),
		"binder_handle":       info.BinderHandle,
		"server_port":         info.ServerPort,
		"valid":               info.Valid,
	}
}
