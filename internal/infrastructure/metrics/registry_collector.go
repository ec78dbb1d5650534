package metrics

import (
	"math/big"

	"network_registry/internal/app/port"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	blockHeightDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "block_height"),
		"Latest accepted block height per chain.",
		[]string{"chain_id"}, nil,
	)
	baseFeeDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "base_fee_wei"),
		"Base fee per gas of the latest accepted block per chain.",
		[]string{"chain_id"}, nil,
	)
	networkErrorDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "network_error"),
		"1 if the chain is flagged with a network error.",
		[]string{"chain_id"}, nil,
	)
	networksDesc = prometheus.NewDesc(
		prometheus.BuildFQName(namespace, "", "networks"),
		"Number of registered network descriptors.",
		nil, nil,
	)
)

// registryCollector reads the registry at scrape time.
type registryCollector struct {
	reader port.NetworkStateReader
}

// NewRegistryCollector exports the registry state as gauges.
func NewRegistryCollector(reader port.NetworkStateReader) prometheus.Collector {
	return &registryCollector{reader: reader}
}

func (c *registryCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- blockHeightDesc
	ch <- baseFeeDesc
	ch <- networkErrorDesc
	ch <- networksDesc
}

func (c *registryCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(networksDesc, prometheus.GaugeValue, float64(len(c.reader.ListNetworks())))

	for chainID, state := range c.reader.Snapshot() {
		errValue := 0.0
		if state.NetworkError {
			errValue = 1
		}
		ch <- prometheus.MustNewConstMetric(networkErrorDesc, prometheus.GaugeValue, errValue, chainID)

		if state.BlockHeight != nil {
			ch <- prometheus.MustNewConstMetric(blockHeightDesc, prometheus.GaugeValue, float64(*state.BlockHeight), chainID)
		}
		if state.BaseFeePerGas != nil {
			fee, _ := new(big.Float).SetInt(state.BaseFeePerGas).Float64()
			ch <- prometheus.MustNewConstMetric(baseFeeDesc, prometheus.GaugeValue, fee, chainID)
		}
	}
}
