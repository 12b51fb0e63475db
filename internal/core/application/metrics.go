package application

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

const (
	metricsNamespace = "fixedrate"

	writeStatusApplied    = "applied"
	writeStatusUnchanged  = "unchanged"
	writeStatusNotApplied = "not_applied"
	writeStatusUnknown    = "unknown"
)

type writeMetrics struct {
	costEstimationFallbacks prometheus.Counter
	writes                  *prometheus.CounterVec
}

func newWriteMetrics(reg prometheus.Registerer) *writeMetrics {
	m := &writeMetrics{
		costEstimationFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cost_estimation_fallbacks_total",
			Help:      "Number of writes submitted with the default cost limit because estimation failed.",
		}),
		writes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "writes_total",
			Help:      "Number of state changing operations by kind and status.",
		}, []string{"op", "status"}),
	}
	if reg == nil {
		return m
	}

	m.costEstimationFallbacks = register(reg, m.costEstimationFallbacks).(prometheus.Counter)
	m.writes = register(reg, m.writes).(*prometheus.CounterVec)
	return m
}

// register returns the already registered collector if an identical one is
// found in the registry.
func register(reg prometheus.Registerer, c prometheus.Collector) prometheus.Collector {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return are.ExistingCollector
		}
		log.WithError(err).Warn("failed to register metric")
	}
	return c
}
