package ipc

import "sync/atomic"

// Stats is the live counter bank updated on the transaction hot path.
// Each field is an independent atomic; no ordering is guaranteed between
// fields, and composite reads via Snapshot are eventually consistent.
// Counters only ever grow, except through Reset.
type Stats struct {
	Transactions       atomic.Uint32
	PagesMappedTotal   atomic.Uint32
	LockContention     atomic.Uint32
	UIDViolations      atomic.Uint32
	TargetMismatches   atomic.Uint32
	TLBFlushes         atomic.Uint32
	MaxTransactionSize atomic.Uint32
	AvgLatencyNS       atomic.Uint32
	UptimeSeconds      atomic.Uint32
	ErrorsTotal        atomic.Uint32
}

// ResetSet selects which counters Reset zeroes.
type ResetSet uint16

const (
	ResetTransactions ResetSet = 1 << iota
	ResetPagesMappedTotal
	ResetLockContention
	ResetUIDViolations
	ResetTargetMismatches
	ResetTLBFlushes
	ResetMaxTransactionSize
	ResetAvgLatency
	ResetUptime
	ResetErrors
)

// DefaultResetSet reproduces the legacy re-initialization behavior:
// only the cumulative session counters are zeroed.
const DefaultResetSet = ResetTransactions | ResetPagesMappedTotal | ResetLockContention | ResetErrors

// ResetAll zeroes the whole bank.
const ResetAll = ResetTransactions | ResetPagesMappedTotal | ResetLockContention |
	ResetUIDViolations | ResetTargetMismatches | ResetTLBFlushes |
	ResetMaxTransactionSize | ResetAvgLatency | ResetUptime | ResetErrors

// Reset zeroes the counters selected by set.
func (s *Stats) Reset(set ResetSet) {
	for mask, c := range map[ResetSet]*atomic.Uint32{
		ResetTransactions:       &s.Transactions,
		ResetPagesMappedTotal:   &s.PagesMappedTotal,
		ResetLockContention:     &s.LockContention,
		ResetUIDViolations:      &s.UIDViolations,
		ResetTargetMismatches:   &s.TargetMismatches,
		ResetTLBFlushes:         &s.TLBFlushes,
		ResetMaxTransactionSize: &s.MaxTransactionSize,
		ResetAvgLatency:         &s.AvgLatencyNS,
		ResetUptime:             &s.UptimeSeconds,
		ResetErrors:             &s.ErrorsTotal,
	} {
		if set&mask != 0 {
			c.Store(0)
		}
	}
}

// ObserveMax raises MaxTransactionSize to size if it is larger than the
// current value.
func (s *Stats) ObserveMax(size uint32) {
	for {
		cur := s.MaxTransactionSize.Load()
		if size <= cur {
			return
		}
		if s.MaxTransactionSize.CompareAndSwap(cur, size) {
			return
		}
	}
}

// ObserveLatency folds a nanosecond latency sample into the exponentially
// weighted average (alpha = 1/8). The update is last-writer-wins under
// contention, which is acceptable for a diagnostic estimate.
func (s *Stats) ObserveLatency(ns uint32) {
	cur := s.AvgLatencyNS.Load()
	if cur == 0 {
		s.AvgLatencyNS.Store(ns)
		return
	}
	s.AvgLatencyNS.Store(cur - cur/8 + ns/8)
}

// Snapshot reads the bank field by field. The result is a point-in-time
// composite that is not atomic as a whole.
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Transactions:       s.Transactions.Load(),
		PagesMappedTotal:   s.PagesMappedTotal.Load(),
		LockContention:     s.LockContention.Load(),
		UIDViolations:      s.UIDViolations.Load(),
		TargetMismatches:   s.TargetMismatches.Load(),
		TLBFlushes:         s.TLBFlushes.Load(),
		MaxTransactionSize: s.MaxTransactionSize.Load(),
		AvgLatencyNS:       s.AvgLatencyNS.Load(),
		UptimeSeconds:      s.UptimeSeconds.Load(),
		ErrorsTotal:        s.ErrorsTotal.Load(),
	}
}

// StatsSnapshot is a plain copy of the counter bank.
type StatsSnapshot struct {
	Transactions       uint32 `json:"transactions_total"`
	PagesMappedTotal   uint32 `json:"pages_mapped_total"`
	LockContention     uint32 `json:"lock_contention"`
	UIDViolations      uint32 `json:"uid_violations"`
	TargetMismatches   uint32 `json:"target_mismatches"`
	TLBFlushes         uint32 `json:"tlb_flushes_total"`
	MaxTransactionSize uint32 `json:"max_transaction_size"`
	AvgLatencyNS       uint32 `json:"avg_latency_ns"`
	UptimeSeconds      uint32 `json:"uptime_seconds"`
	ErrorsTotal        uint32 `json:"errors_total"`
}
