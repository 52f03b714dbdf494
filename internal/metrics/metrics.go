package metrics

import "github.com/prometheus/client_golang/prometheus"

// StoreMetrics exposes counters for collection storage and change notifications.
type StoreMetrics struct {
	readsTotal      *prometheus.CounterVec
	writesTotal     *prometheus.CounterVec
	publishesTotal  *prometheus.CounterVec
	suppressedTotal *prometheus.CounterVec
}

func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	m := &StoreMetrics{
		readsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "midwife",
			Subsystem: "store",
			Name:      "reads_total",
			Help:      "Collection reads by outcome (hit, miss, corrupt)",
		}, []string{"collection", "outcome"}),
		writesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "midwife",
			Subsystem: "store",
			Name:      "writes_total",
			Help:      "Collection writes by outcome (ok, failed)",
		}, []string{"collection", "outcome"}),
		publishesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "midwife",
			Subsystem: "events",
			Name:      "publishes_total",
			Help:      "Change notifications published per topic",
		}, []string{"topic"}),
		suppressedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "midwife",
			Subsystem: "events",
			Name:      "suppressed_total",
			Help:      "Re-entrant notifications dropped per topic",
		}, []string{"topic"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.readsTotal, m.writesTotal, m.publishesTotal, m.suppressedTotal)
	return m
}

func (m *StoreMetrics) ObserveRead(collection, outcome string) {
	if m == nil {
		return
	}
	m.readsTotal.WithLabelValues(collection, outcome).Inc()
}

func (m *StoreMetrics) ObserveWrite(collection string, ok bool) {
	if m == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "failed"
	}
	m.writesTotal.WithLabelValues(collection, outcome).Inc()
}

func (m *StoreMetrics) ObservePublish(topic string) {
	if m == nil {
		return
	}
	m.publishesTotal.WithLabelValues(topic).Inc()
}

func (m *StoreMetrics) ObserveSuppressed(topic string) {
	if m == nil {
		return
	}
	m.suppressedTotal.WithLabelValues(topic).Inc()
}
