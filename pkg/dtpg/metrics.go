package dtpg

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exports a manager's run statistics as Prometheus collectors
type Metrics struct {
	mgr *Mgr

	detected   *prometheus.Desc
	untestable *prometheus.Desc
	aborted    *prometheus.Desc
	vectors    *prometheus.Desc
	satSeconds *prometheus.Desc
	cnfSeconds *prometheus.Desc
}

// NewMetrics creates a collector over the manager
func NewMetrics(mgr *Mgr) *Metrics {
	return &Metrics{
		mgr: mgr,
		detected: prometheus.NewDesc("druid_faults_detected_total",
			"Number of detected faults", nil, nil),
		untestable: prometheus.NewDesc("druid_faults_untestable_total",
			"Number of proven untestable faults", nil, nil),
		aborted: prometheus.NewDesc("druid_faults_aborted_total",
			"Number of aborted faults", nil, nil),
		vectors: prometheus.NewDesc("druid_test_vectors_total",
			"Number of generated test vectors", nil, nil),
		satSeconds: prometheus.NewDesc("druid_sat_seconds_total",
			"Cumulative SAT solving time", nil, nil),
		cnfSeconds: prometheus.NewDesc("druid_cnf_seconds_total",
			"Cumulative CNF generation time", nil, nil),
	}
}

// Describe implements prometheus.Collector
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	ch <- m.detected
	ch <- m.untestable
	ch <- m.aborted
	ch <- m.vectors
	ch <- m.satSeconds
	ch <- m.cnfSeconds
}

// Collect implements prometheus.Collector
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	s := m.mgr.Stats()
	ch <- prometheus.MustNewConstMetric(m.detected, prometheus.CounterValue, float64(s.DetCount))
	ch <- prometheus.MustNewConstMetric(m.untestable, prometheus.CounterValue, float64(s.UntestCount))
	ch <- prometheus.MustNewConstMetric(m.aborted, prometheus.CounterValue, float64(s.AbortCount))
	ch <- prometheus.MustNewConstMetric(m.vectors, prometheus.CounterValue, float64(len(m.mgr.TestVectors())))
	ch <- prometheus.MustNewConstMetric(m.satSeconds, prometheus.CounterValue, s.SatTime.Seconds())
	ch <- prometheus.MustNewConstMetric(m.cnfSeconds, prometheus.CounterValue, s.CnfTime.Seconds())
}
