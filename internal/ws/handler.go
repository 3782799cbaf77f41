// Package ws streams live monitoring state over WebSocket. Each connected
// client receives a stats snapshot once per sampler period until it
// disconnects.
package ws

import (
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/lumen-os/ipcmond/internal/ipc"
	"github.com/lumen-os/ipcmond/internal/logging"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // origin policy is enforced by the CORS layer
	},
}

// Frame is one stats push to a client.
type Frame struct {
	Type      string            `json:"type"`
	Timestamp int64             `json:"timestamp"`
	Stats     ipc.StatsSnapshot `json:"stats"`
}

// Handler manages live-stats WebSocket connections.
type Handler struct {
	stats  *ipc.Stats
	period time.Duration
	log    *logging.Logger
}

// NewHandler creates a WebSocket handler pushing snapshots every period.
func NewHandler(stats *ipc.Stats, period time.Duration, log *logging.Logger) *Handler {
	if log == nil {
		log = logging.NewNop()
	}
	return &Handler{stats: stats, period: period, log: log}
}

// HandleConnection upgrades the request and streams snapshots until the
// client goes away.
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	// Drain client frames so pings and close frames are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.period)
	defer ticker.Stop()

	if err := h.push(conn); err != nil {
		return
	}
	for range ticker.C {
		if err := h.push(conn); err != nil {
			return
		}
	}
}

func (h *Handler) push(conn *websocket.Conn) error {
	frame := Frame{
		Type:      "ipc_stats",
		Timestamp: time.Now().Unix(),
		Stats:     h.stats.Snapshot(),
	}

	payload, err := sonic.Marshal(frame)
	if err != nil {
		h.log.Warn("stats frame encode failed", zap.Error(err))
		return err
	}

	conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, payload)
}
