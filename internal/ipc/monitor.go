package ipc

import (
	"math"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/lumen-os/ipcmond/internal/binder"
	"github.com/lumen-os/ipcmond/internal/clock"
	"github.com/lumen-os/ipcmond/internal/logging"
)

// CompletionRegistrar is the registration surface the transaction driver
// offers for its completion hook.
type CompletionRegistrar interface {
	SetCompletionHook(hook binder.CompletionHook)
}

// Monitor observes every completed binder transaction and maintains the
// stats bank. It is the error sink of the subsystem: no path through it
// may itself fail.
type Monitor struct {
	stats    *Stats
	clk      clock.Clock
	log      *logging.Logger
	resetSet ResetSet

	bootTicks   atomic.Uint64
	initialized atomic.Bool
}

// NewMonitor creates a monitor over the given counter bank and clock.
// resetSet selects which counters Init zeroes; zero means DefaultResetSet.
func NewMonitor(stats *Stats, clk clock.Clock, resetSet ResetSet, log *logging.Logger) *Monitor {
	if resetSet == 0 {
		resetSet = DefaultResetSet
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &Monitor{
		stats:    stats,
		clk:      clk,
		log:      log,
		resetSet: resetSet,
	}
}

// Init captures the boot timestamp, resets the configured counter subset,
// and arms the completion hook. It must complete before the first
// transaction completes; invoking it again resets the same subset and
// re-arms the hook.
func (m *Monitor) Init(reg CompletionRegistrar) {
	m.bootTicks.Store(m.clk.Ticks())
	m.stats.Reset(m.resetSet)
	reg.SetCompletionHook(m.OnTransactionComplete)
	m.initialized.Store(true)
	m.log.Info("IPC monitoring initialized", zap.Uint64("boot_ticks", m.bootTicks.Load()))
}

// Initialized reports whether Init has run.
func (m *Monitor) Initialized() bool {
	return m.initialized.Load()
}

// BootTicks returns the clock value captured at initialization.
func (m *Monitor) BootTicks() uint64 {
	return m.bootTicks.Load()
}

// OnTransactionComplete is invoked by the driver once per completed
// transaction. It never fails: every outcome is a counter update.
func (m *Monitor) OnTransactionComplete(txn *binder.Transaction) {
	m.stats.Transactions.Add(1)
	m.stats.ObserveMax(txn.DataSize)

	if txn.Duration > 0 {
		ns := txn.Duration.Nanoseconds()
		if ns > math.MaxUint32 {
			ns = math.MaxUint32
		}
		m.stats.ObserveLatency(uint32(ns))
	}

	if txn.ReturnError == binder.StatusOK {
		return
	}

	m.stats.ErrorsTotal.Add(1)
	switch txn.ReturnError {
	case binder.StatusAccessDenied:
		m.stats.UIDViolations.Add(1)
	case binder.StatusTargetMismatch:
		m.stats.TargetMismatches.Add(1)
	}
}

// SampleTick advances the uptime counter by one second. Called once per
// tick by the external scheduling loop.
func (m *Monitor) SampleTick() {
	m.stats.UptimeSeconds.Add(1)
}

// Stats exposes the counter bank for reporting and export.
func (m *Monitor) Stats() *Stats {
	return m.stats
}

// DumpReport writes the formatted monitoring report to the log sink.
func (m *Monitor) DumpReport() {
	lines := FormatMonitoringReport(m.stats.Snapshot(), m.BootTicks(), m.clk.Ticks(), m.clk.TickRate())
	for _, line := range lines {
		m.log.Info(line)
	}
}
