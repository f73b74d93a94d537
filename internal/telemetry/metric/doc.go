// Package metric provides Prometheus metrics for craftgate.
//
//   - prometheus.go: Registry with the gateway and dispatcher metrics and the /metrics handler
//   - collector.go: HostCollector, a pull collector for host state
//
// Metrics are exposed at /metrics in Prometheus text format.
package metric
