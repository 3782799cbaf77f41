package ipc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatSnapshotReport(t *testing.T) {
	lines := FormatSnapshotReport(sampleInfo())

	require.Len(t, lines, 4)
	assert.Equal(t, "=== Lumen IPC Info ===", lines[0])
	assert.Contains(t, lines[1], "Magic: 0x4C554D4E")
	assert.Contains(t, lines[1], "Page Size: 16384 bytes")
	assert.Contains(t, lines[2], "UID: 1000")
	assert.Contains(t, lines[2], "Target: "+testDevice)
	assert.Contains(t, lines[3], "Lock: Global")
}

func TestFormatSnapshotReport_PlaceholderForMalformedBuffers(t *testing.T) {
	var info Info
	info.TargetDevice[0] = 0xFF // invalid UTF-8
	info.TargetDevice[1] = 0xFE

	lines := FormatSnapshotReport(info)

	assert.Contains(t, lines[2], "Target: unknown")
	assert.Contains(t, lines[3], "Lock: unknown", "empty buffer becomes the placeholder")
}

func TestFormatMonitoringReport(t *testing.T) {
	snap := StatsSnapshot{
		Transactions:       42,
		PagesMappedTotal:   64,
		UIDViolations:      2,
		TargetMismatches:   1,
		TLBFlushes:         5,
		MaxTransactionSize: 512,
		AvgLatencyNS:       900,
		LockContention:     3,
		ErrorsTotal:        4,
	}

	// 90 seconds of uptime at 1 MHz.
	lines := FormatMonitoringReport(snap, 1_000_000, 91_000_000, 1_000_000)

	require.Len(t, lines, 6)
	assert.Equal(t, "=== Lumen IPC Monitoring Report ===", lines[0])
	assert.Equal(t, "Uptime: 90s | Transactions: 42", lines[1])
	assert.Equal(t, "Pages mapped: 64 | TLB flushes: 5", lines[2])
	assert.Equal(t, "Errors: 4 (UID: 2, Target: 1)", lines[3])
	assert.Equal(t, "Lock contention: 3", lines[4])
	assert.Equal(t, "Max transaction: 512 bytes | Avg latency: 900ns", lines[5])
}

func TestFormatMonitoringReport_ZeroTickRateFallsBackToSampledUptime(t *testing.T) {
	snap := StatsSnapshot{UptimeSeconds: 17}

	lines := FormatMonitoringReport(snap, 0, 0, 0)

	assert.True(t, strings.HasPrefix(lines[1], "Uptime: 17s"))
}
