package ipc

import "fmt"

// FormatSnapshotReport renders a snapshot as ordered human-readable
// lines. Pure function: malformed buffer content becomes a placeholder,
// never an error.
func FormatSnapshotReport(info Info) []string {
	return []string{
		"=== Lumen IPC Info ===",
		fmt.Sprintf("Magic: 0x%X | Version: 0x%X | Page Size: %d bytes", info.Magic, info.Version, info.MemPageSize),
		fmt.Sprintf("UID: %d | Target: %s", info.UIDEnforced, info.Device()),
		fmt.Sprintf("Pages: %d | Lock: %s | Valid: %t", info.PagesMapped, info.Lock(), info.Valid),
	}
}

// FormatMonitoringReport renders the counter bank as ordered
// human-readable lines. Uptime is derived from the boot timestamp and the
// clock's tick rate; a zero tick rate falls back to the sampled uptime
// counter.
func FormatMonitoringReport(snap StatsSnapshot, bootTicks, nowTicks, tickRate uint64) []string {
	uptime := uint64(snap.UptimeSeconds)
	if tickRate > 0 && nowTicks >= bootTicks {
		uptime = (nowTicks - bootTicks) / tickRate
	}

	return []string{
		"=== Lumen IPC Monitoring Report ===",
		fmt.Sprintf("Uptime: %ds | Transactions: %d", uptime, snap.Transactions),
		fmt.Sprintf("Pages mapped: %d | TLB flushes: %d", snap.PagesMappedTotal, snap.TLBFlushes),
		fmt.Sprintf("Errors: %d (UID: %d, Target: %d)", snap.ErrorsTotal, snap.UIDViolations, snap.TargetMismatches),
		fmt.Sprintf("Lock contention: %d", snap.LockContention),
		fmt.Sprintf("Max transaction: %d bytes | Avg latency: %dns", snap.MaxTransactionSize, snap.AvgLatencyNS),
	}
}
