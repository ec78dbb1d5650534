package metrics

import (
	"errors"
	"math/big"
	"strings"
	"testing"

	"network_registry/internal/domain/entity"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

type staticReader struct {
	networks []entity.NetworkDescriptor
	states   map[string]entity.ChainStateEntry
}

func (r staticReader) GetState(chainID string) (entity.ChainStateEntry, bool) {
	s, ok := r.states[chainID]
	return s, ok
}

func (r staticReader) GetNetwork(string) (entity.NetworkDescriptor, bool) {
	return entity.NetworkDescriptor{}, false
}

func (r staticReader) ListNetworks() []entity.NetworkDescriptor { return r.networks }

func (r staticReader) Snapshot() map[string]entity.ChainStateEntry { return r.states }

func TestCounters(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	m := New()
	m.MustRegister(reg)

	m.BlockObserved(true)
	m.BlockObserved(true)
	m.BlockObserved(false)
	m.RemovalFinished(entity.StepBalancePurge, errors.New("x"))
	m.RPCError("137")

	require.Equal(t, 2.0, testutil.ToFloat64(m.blockObservations.WithLabelValues("accepted")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.blockObservations.WithLabelValues("stale")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.removals.WithLabelValues("balance_purge", "failure")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.rpcErrors.WithLabelValues("137")))

	require.Error(t, m.Register(reg), "double registration")
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.BlockObserved(true)
	m.RemovalFinished(entity.StepTeardown, nil)
	m.RPCError("1")
}

func TestRegistryCollector(t *testing.T) {
	height := uint64(150)
	reader := staticReader{
		networks: []entity.NetworkDescriptor{{ChainID: "1"}, {ChainID: "137"}},
		states: map[string]entity.ChainStateEntry{
			"1":   {BlockHeight: &height, BaseFeePerGas: big.NewInt(7), NetworkError: true},
			"137": {},
		},
	}

	expected := `
# HELP network_registry_base_fee_wei Base fee per gas of the latest accepted block per chain.
# TYPE network_registry_base_fee_wei gauge
network_registry_base_fee_wei{chain_id="1"} 7
# HELP network_registry_block_height Latest accepted block height per chain.
# TYPE network_registry_block_height gauge
network_registry_block_height{chain_id="1"} 150
# HELP network_registry_network_error 1 if the chain is flagged with a network error.
# TYPE network_registry_network_error gauge
network_registry_network_error{chain_id="1"} 1
network_registry_network_error{chain_id="137"} 0
# HELP network_registry_networks Number of registered network descriptors.
# TYPE network_registry_networks gauge
network_registry_networks 2
`
	require.NoError(t, testutil.CollectAndCompare(NewRegistryCollector(reader), strings.NewReader(expected)))
}
