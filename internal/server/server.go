// Package server wires the IPC introspection core to its collaborators:
// the binder driver, the OS server, the HTTP/WebSocket surface, the
// Prometheus registry, and the uptime sampler loop.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apihttp "github.com/lumen-os/ipcmond/internal/api/http"
	"github.com/lumen-os/ipcmond/internal/api/middleware"
	"github.com/lumen-os/ipcmond/internal/binder"
	"github.com/lumen-os/ipcmond/internal/clock"
	"github.com/lumen-os/ipcmond/internal/config"
	"github.com/lumen-os/ipcmond/internal/ipc"
	"github.com/lumen-os/ipcmond/internal/logging"
	"github.com/lumen-os/ipcmond/internal/monitoring"
	"github.com/lumen-os/ipcmond/internal/osserver"
	"github.com/lumen-os/ipcmond/internal/ws"
)

// Server owns the process-wide IPC introspection state and its HTTP
// surface.
type Server struct {
	cfg     *config.Config
	log     *logging.Logger
	clk     clock.Clock
	stats   *ipc.Stats
	svc     *ipc.Service
	monitor *ipc.Monitor
	driver  *binder.Driver
	handler *ipc.InfoHandler

	router  *gin.Engine
	httpSrv *http.Server
	stop    chan struct{}
	done    chan struct{}
}

// New constructs and fully wires a server from configuration.
func New(cfg *config.Config, log *logging.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if log == nil {
		log = logging.NewDefault()
	}

	clk := clock.NewSystem()
	stats := &ipc.Stats{}

	// The OS server validates the configured target against the live
	// device identity. Standing in for the real kernel object, it is
	// created with the same identity, so targeting resolves valid.
	osSrv := osserver.New(osserver.Config{LiveDevice: cfg.IPC.TargetDevice})

	svc := ipc.NewService(ipc.Config{
		TargetDevice: cfg.IPC.TargetDevice,
		AllowedUIDs:  cfg.IPC.AllowedUIDs,
		PageSize:     cfg.IPC.PageSize,
		PagesMapped:  cfg.IPC.PagesMapped,
		Enforced:     cfg.IPC.Enforced,
	}, stats, osSrv, log)

	resetSet := ipc.DefaultResetSet
	if cfg.Monitor.ResetAll {
		resetSet = ipc.ResetAll
	}
	monitor := ipc.NewMonitor(stats, clk, resetSet, log)

	driver := binder.NewDriver()
	monitor.Init(driver)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	if _, err := monitoring.Register(stats, registry); err != nil {
		return nil, fmt.Errorf("failed to register ipc collector: %w", err)
	}

	s := &Server{
		cfg:     cfg,
		log:     log,
		clk:     clk,
		stats:   stats,
		svc:     svc,
		monitor: monitor,
		driver:  driver,
		handler: ipc.NewInfoHandler(svc),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	s.router = s.buildRouter(registry)

	go s.sampleLoop()

	return s, nil
}

func (s *Server) buildRouter(registry *prometheus.Registry) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if s.cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: s.cfg.RateLimit.RequestsPerSecond,
			Burst:             s.cfg.RateLimit.Burst,
		}))
	}

	handlers := apihttp.NewHandlers(s.svc, s.monitor, s.clk)
	wsHandler := ws.NewHandler(s.stats, s.cfg.Monitor.SamplePeriod, s.log)

	router.GET("/health", handlers.Health)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	ipcGroup := router.Group("/ipc")
	{
		ipcGroup.GET("/info", handlers.GetInfo)
		ipcGroup.GET("/info/raw", handlers.GetInfoRaw)
		ipcGroup.GET("/targeting", handlers.GetTargeting)
		ipcGroup.GET("/paging", handlers.GetPaging)
		ipcGroup.GET("/stats", handlers.GetStats)
		ipcGroup.GET("/reports/snapshot", handlers.SnapshotReport)
		ipcGroup.GET("/reports/monitoring", handlers.MonitoringReport)
	}

	router.GET("/ws/stats", wsHandler.HandleConnection)

	return router
}

// Driver exposes the binder driver so an embedding kernel (or test) can
// complete transactions against the armed monitor.
func (s *Server) Driver() *binder.Driver {
	return s.driver
}

// InfoHandler exposes the binder request adapter.
func (s *Server) InfoHandler() *ipc.InfoHandler {
	return s.handler
}

// Run serves HTTP until Close is called. The sampler loop is already
// running from construction time.
func (s *Server) Run() error {
	addr := net.JoinHostPort(s.cfg.Server.Host, s.cfg.Server.Port)
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.log.Info("ipcmond listening",
		zap.String("addr", addr),
		zap.String("target_device", s.cfg.IPC.TargetDevice),
		zap.Uint32s("allowed_uids", s.cfg.IPC.AllowedUIDs),
	)

	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// sampleLoop drives the uptime sampler at the configured period.
func (s *Server) sampleLoop() {
	defer close(s.done)

	ticker := time.NewTicker(s.cfg.Monitor.SamplePeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.monitor.SampleTick()
		case <-s.stop:
			return
		}
	}
}

// Close stops the sampler, shuts the HTTP server down, and dumps a final
// monitoring report to the log sink.
func (s *Server) Close() error {
	close(s.stop)
	<-s.done

	s.monitor.DumpReport()

	if s.httpSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.httpSrv.Shutdown(ctx); err != nil {
			return fmt.Errorf("http shutdown failed: %w", err)
		}
	}
	return nil
}
