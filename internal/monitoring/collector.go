// Package monitoring exports the IPC counter bank to Prometheus. The
// collector reads the live atomics on scrape, so no sampling goroutine
// is required beyond the uptime ticker the server already runs.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lumen-os/ipcmond/internal/ipc"
)

// Collector implements prometheus.Collector over an ipc.Stats bank.
type Collector struct {
	stats *ipc.Stats

	transactions     *prometheus.Desc
	pagesMapped      *prometheus.Desc
	lockContention   *prometheus.Desc
	uidViolations    *prometheus.Desc
	targetMismatches *prometheus.Desc
	tlbFlushes       *prometheus.Desc
	maxTxnSize       *prometheus.Desc
	avgLatency       *prometheus.Desc
	uptime           *prometheus.Desc
	errorsTotal      *prometheus.Desc
}

// NewCollector creates a collector over the given counter bank.
func NewCollector(stats *ipc.Stats) *Collector {
	return &Collector{
		stats: stats,
		transactions: prometheus.NewDesc(
			"ipcmond_transactions_total",
			"Total number of completed IPC transactions", nil, nil),
		pagesMapped: prometheus.NewDesc(
			"ipcmond_pages_mapped_total",
			"Total number of IPC pages mapped", nil, nil),
		lockContention: prometheus.NewDesc(
			"ipcmond_lock_contention_total",
			"Total number of targeting-lock contention events", nil, nil),
		uidViolations: prometheus.NewDesc(
			"ipcmond_uid_violations_total",
			"Total number of access-denied transactions", nil, nil),
		targetMismatches: prometheus.NewDesc(
			"ipcmond_target_mismatches_total",
			"Total number of target-identity mismatches", nil, nil),
		tlbFlushes: prometheus.NewDesc(
			"ipcmond_tlb_flushes_total",
			"Total number of TLB flushes for the IPC region", nil, nil),
		maxTxnSize: prometheus.NewDesc(
			"ipcmond_max_transaction_size_bytes",
			"Largest transaction payload observed", nil, nil),
		avgLatency: prometheus.NewDesc(
			"ipcmond_avg_latency_nanoseconds",
			"Exponentially weighted average transaction latency", nil, nil),
		uptime: prometheus.NewDesc(
			"ipcmond_uptime_seconds",
			"Sampled monitoring uptime", nil, nil),
		errorsTotal: prometheus.NewDesc(
			"ipcmond_errors_total",
			"Total number of failed IPC transactions", nil, nil),
	}
}

// Describe sends the metric descriptors.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.transactions
	ch <- c.pagesMapped
	ch <- c.lockContention
	ch <- c.uidViolations
	ch <- c.targetMismatches
	ch <- c.tlbFlushes
	ch <- c.maxTxnSize
	ch <- c.avgLatency
	ch <- c.uptime
	ch <- c.errorsTotal
}

// Collect reads the counter bank. The read is field-by-field: per-counter
// accuracy, not a linearizable composite.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	snap := c.stats.Snapshot()

	counter := func(desc *prometheus.Desc, v uint32) {
		ch <- prometheus.MustNewConstMetric(desc, prometheus.CounterValue, float64(v))
	}
	gauge := func(desc *prometheus.Desc, v uint32) {
		ch <- prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, float64(v))
	}

	counter(c.transactions, snap.Transactions)
	counter(c.pagesMapped, snap.PagesMappedTotal)
	counter(c.lockContention, snap.LockContention)
	counter(c.uidViolations, snap.UIDViolations)
	counter(c.targetMismatches, snap.TargetMismatches)
	counter(c.tlbFlushes, snap.TLBFlushes)
	gauge(c.maxTxnSize, snap.MaxTransactionSize)
	gauge(c.avgLatency, snap.AvgLatencyNS)
	counter(c.uptime, snap.UptimeSeconds)
	counter(c.errorsTotal, snap.ErrorsTotal)
}

// Register registers the collector with the given registry, or the
// default registry when reg is nil.
func Register(stats *ipc.Stats, reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := NewCollector(stats)
	if err := reg.Register(c); err != nil {
		return nil, err
	}
	return c, nil
}
