package metric

import "github.com/prometheus/client_golang/prometheus"

// HostStats is a point-in-time view of the host.
type HostStats struct {
	OnlinePlayers int
	MaxPlayers    int
	QueueDepth    int
	Ticks         uint64
	Running       bool
}

// HostCollector reports host state at scrape time.
type HostCollector struct {
	stats func() HostStats

	onlinePlayers *prometheus.Desc
	maxPlayers    *prometheus.Desc
	queueDepth    *prometheus.Desc
	ticks         *prometheus.Desc
	up            *prometheus.Desc
}

// NewHostCollector creates a collector that calls stats on every scrape.
func NewHostCollector(stats func() HostStats) *HostCollector {
	return &HostCollector{
		stats: stats,
		onlinePlayers: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "host", "online_players"),
			"Players currently online.", nil, nil),
		maxPlayers: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "host", "max_players"),
			"Configured player cap.", nil, nil),
		queueDepth: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "host", "task_queue_depth"),
			"Tasks waiting for the logic goroutine.", nil, nil),
		ticks: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "host", "ticks_total"),
			"Ticks executed by the logic goroutine.", nil, nil),
		up: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "host", "up"),
			"Whether the logic goroutine is running.", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *HostCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.onlinePlayers
	ch <- c.maxPlayers
	ch <- c.queueDepth
	ch <- c.ticks
	ch <- c.up
}

// Collect implements prometheus.Collector.
func (c *HostCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.stats()
	up := 0.0
	if s.Running {
		up = 1
	}
	ch <- prometheus.MustNewConstMetric(c.onlinePlayers, prometheus.GaugeValue, float64(s.OnlinePlayers))
	ch <- prometheus.MustNewConstMetric(c.maxPlayers, prometheus.GaugeValue, float64(s.MaxPlayers))
	ch <- prometheus.MustNewConstMetric(c.queueDepth, prometheus.GaugeValue, float64(s.QueueDepth))
	ch <- prometheus.MustNewConstMetric(c.ticks, prometheus.CounterValue, float64(s.Ticks))
	ch <- prometheus.MustNewConstMetric(c.up, prometheus.GaugeValue, up)
}
