package metrics

import (
	"network_registry/internal/domain/entity"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "network_registry"

// Metrics holds the counters updated by the services.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	blockObservations *prometheus.CounterVec
	removals          *prometheus.CounterVec
	rpcErrors         *prometheus.CounterVec
}

// New creates unregistered counters.
func New() *Metrics {
	return &Metrics{
		blockObservations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "block_observations_total",
			Help:      "Block observations applied to the registry, by result.",
		}, []string{"result"}),
		removals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "removals_total",
			Help:      "Network removals by last reached step and result.",
		}, []string{"step", "result"}),
		rpcErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rpc_errors_total",
			Help:      "Failed RPC calls by chain.",
		}, []string{"chain_id"}),
	}
}

// Register registers all counters with reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.blockObservations, m.removals, m.rpcErrors} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// MustRegister is like Register but panics on error.
func (m *Metrics) MustRegister(reg prometheus.Registerer) {
	if err := m.Register(reg); err != nil {
		panic(err)
	}
}

func (m *Metrics) BlockObserved(accepted bool) {
	if m == nil {
		return
	}
	result := "stale"
	if accepted {
		result = "accepted"
	}
	m.blockObservations.WithLabelValues(result).Inc()
}

// RemovalFinished records the outcome of a removal. step is the failed step, or the last step on success.
func (m *Metrics) RemovalFinished(step entity.RemovalStep, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.removals.WithLabelValues(string(step), result).Inc()
}

func (m *Metrics) RPCError(chainID string) {
	if m == nil {
		return
	}
	m.rpcErrors.WithLabelValues(chainID).Inc()
}
