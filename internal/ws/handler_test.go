package ws

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumen-os/ipcmond/internal/ipc"
)

func TestHandleConnection_StreamsSnapshots(t *testing.T) {
	gin.SetMode(gin.TestMode)

	stats := &ipc.Stats{}
	stats.Transactions.Add(9)
	stats.ErrorsTotal.Add(2)

	router := gin.New()
	handler := NewHandler(stats, 10*time.Millisecond, nil)
	router.GET("/ws/stats", handler.HandleConnection)

	srv := httptest.NewServer(router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/stats"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	// The first frame arrives immediately, before the first tick.
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var frame Frame
	require.NoError(t, sonic.Unmarshal(payload, &frame))
	assert.Equal(t, "ipc_stats", frame.Type)
	assert.Equal(t, uint32(9), frame.Stats.Transactions)
	assert.Equal(t, uint32(2), frame.Stats.ErrorsTotal)

	// Subsequent frames observe live counter updates.
	stats.Transactions.Add(1)
	_, payload, err = conn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, sonic.Unmarshal(payload, &frame))
	assert.Equal(t, uint32(10), frame.Stats.Transactions)
}
