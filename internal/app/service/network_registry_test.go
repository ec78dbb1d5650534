package service

import (
	"math/big"
	"testing"

	"network_registry/internal/domain/entity"

	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func block(chainID string, height uint64, fee int64) entity.ObservedBlock {
	b := entity.ObservedBlock{ChainID: chainID, Height: height}
	if fee >= 0 {
		b.BaseFeePerGas = big.NewInt(fee)
	}
	return b
}

func descriptors(ids ...string) []entity.NetworkDescriptor {
	out := make([]entity.NetworkDescriptor, len(ids))
	for i, id := range ids {
		out[i] = entity.NetworkDescriptor{ChainID: id, Name: "chain " + id}
	}
	return out
}

func TestBootstrapEntry(t *testing.T) {
	r := NewNetworkRegistry("", zap.NewNop())

	state, ok := r.GetState(DefaultBootstrapChainID)
	require.True(t, ok)
	assert.Nil(t, state.BlockHeight)
	assert.Nil(t, state.BaseFeePerGas)
	assert.False(t, state.NetworkError)

	_, ok = r.GetNetwork(DefaultBootstrapChainID)
	assert.False(t, ok)

	custom := NewNetworkRegistry("137", zap.NewNop())
	_, ok = custom.GetState("137")
	assert.True(t, ok)
	_, ok = custom.GetState("1")
	assert.False(t, ok)
}

func TestObserveBlockMonotonic(t *testing.T) {
	r := NewNetworkRegistry("1", zap.NewNop())

	require.True(t, r.ObserveBlock(block("1", 100, 5)))
	state, ok := r.GetState("1")
	require.True(t, ok)
	assert.Equal(t, uint64(100), *state.BlockHeight)
	assert.Equal(t, int64(5), state.BaseFeePerGas.Int64())
	assert.True(t, state.NetworkError)

	assert.False(t, r.ObserveBlock(block("1", 50, -1)))
	state, _ = r.GetState("1")
	assert.Equal(t, uint64(100), *state.BlockHeight)
	assert.Equal(t, int64(5), state.BaseFeePerGas.Int64())

	// equal height is stale too
	assert.False(t, r.ObserveBlock(block("1", 100, 9)))

	require.True(t, r.ObserveBlock(block("1", 150, 7)))
	state, _ = r.GetState("1")
	assert.Equal(t, uint64(150), *state.BlockHeight)
	assert.Equal(t, int64(7), state.BaseFeePerGas.Int64())
	assert.True(t, state.NetworkError)
}

func TestObserveBlockCreatesEntryAndDropsFee(t *testing.T) {
	r := NewNetworkRegistry("1", zap.NewNop())

	// a chain without a state entry accepts any height, zero included
	require.True(t, r.ObserveBlock(block("10", 0, 1)))
	state, ok := r.GetState("10")
	require.True(t, ok)
	assert.Equal(t, uint64(0), *state.BlockHeight)

	// a block without a fee clears the stored fee
	require.True(t, r.ObserveBlock(block("10", 1, -1)))
	state, _ = r.GetState("10")
	assert.Nil(t, state.BaseFeePerGas)

	// the bootstrap entry has no height, so height 0 is stale for it
	assert.False(t, r.ObserveBlock(block("1", 0, -1)))
	assert.True(t, r.ObserveBlock(block("1", 1, -1)))
}

func TestObserveBlockCopiesFee(t *testing.T) {
	r := NewNetworkRegistry("1", zap.NewNop())
	fee := big.NewInt(42)
	r.ObserveBlock(entity.ObservedBlock{ChainID: "1", Height: 1, BaseFeePerGas: fee})
	fee.SetInt64(0)

	state, _ := r.GetState("1")
	assert.Equal(t, int64(42), state.BaseFeePerGas.Int64())

	state.BaseFeePerGas.SetInt64(1)
	*state.BlockHeight = 999
	again, _ := r.GetState("1")
	assert.Equal(t, int64(42), again.BaseFeePerGas.Int64())
	assert.Equal(t, uint64(1), *again.BlockHeight)
}

func TestSetNetworksCascade(t *testing.T) {
	r := NewNetworkRegistry("1", zap.NewNop())

	r.SetNetworks(descriptors("1", "137"))
	r.ObserveBlock(block("137", 10, 1))
	_, ok := r.GetState("137")
	require.True(t, ok)

	r.SetNetworks(descriptors("1"))
	_, ok = r.GetState("137")
	assert.False(t, ok)
	_, ok = r.GetNetwork("137")
	assert.False(t, ok)
	_, ok = r.GetNetwork("1")
	assert.True(t, ok)
}

func TestSetNetworksUpsertsAndKeepsState(t *testing.T) {
	r := NewNetworkRegistry("1", zap.NewNop())
	r.SetNetworks(descriptors("137"))
	r.ObserveBlock(block("137", 10, 1))

	updated := descriptors("137")
	updated[0].Name = "Polygon"
	r.SetNetworks(updated)

	d, ok := r.GetNetwork("137")
	require.True(t, ok)
	assert.Equal(t, "Polygon", d.Name)
	state, ok := r.GetState("137")
	require.True(t, ok)
	assert.Equal(t, uint64(10), *state.BlockHeight)

	// the stored descriptor does not alias the caller's slice
	updated[0].Name = "mutated"
	d, _ = r.GetNetwork("137")
	assert.Equal(t, "Polygon", d.Name)
}

func TestSetNetworksKeepsBootstrapEntry(t *testing.T) {
	r := NewNetworkRegistry("1", zap.NewNop())

	// the bootstrap entry has no descriptor, yet it survives any network list
	r.SetNetworks(nil)
	_, ok := r.GetState("1")
	assert.True(t, ok)

	// until the chain is listed and then dropped
	r.SetNetworks(descriptors("1"))
	r.SetNetworks(nil)
	_, ok = r.GetState("1")
	assert.False(t, ok)

	// a later block for it is swept by the next list like any other unlisted chain
	r.ObserveBlock(block("1", 5, -1))
	r.SetNetworks(descriptors("137"))
	_, ok = r.GetState("1")
	assert.False(t, ok)
}

func TestSetNetworksDropsStatesWithoutDescriptor(t *testing.T) {
	r := NewNetworkRegistry("1", zap.NewNop())

	r.ObserveBlock(block("999", 1, -1))
	r.SetNetworks(descriptors("137"))
	_, ok := r.GetState("999")
	assert.False(t, ok)

	// a block that lands after its chain was dropped does not outlive the next list
	r.SetNetworks(descriptors("1", "137"))
	r.SetNetworks(descriptors("1"))
	require.True(t, r.ObserveBlock(block("137", 10, -1)))
	r.SetNetworks(descriptors("1"))
	_, ok = r.GetState("137")
	assert.False(t, ok)

	for chainID := range r.Snapshot() {
		_, described := r.GetNetwork(chainID)
		assert.True(t, described, chainID)
	}
}

func TestSetAllNetworksError(t *testing.T) {
	r := NewNetworkRegistry("1", zap.NewNop())
	r.ObserveBlock(block("137", 10, -1))

	r.SetAllNetworksError(false)
	for chainID, s := range r.Snapshot() {
		assert.False(t, s.NetworkError, chainID)
	}
	s, _ := r.GetState("137")
	assert.Equal(t, uint64(10), *s.BlockHeight)

	r.SetAllNetworksError(true)
	for chainID, s := range r.Snapshot() {
		assert.True(t, s.NetworkError, chainID)
	}

	// it never creates entries
	assert.Len(t, r.Snapshot(), 2)
}

func TestListNetworksOrder(t *testing.T) {
	r := NewNetworkRegistry("1", zap.NewNop())
	r.SetNetworks(descriptors("137", "10", "1", "8453", "2", "abc"))

	var ids []string
	for _, d := range r.ListNetworks() {
		ids = append(ids, d.ChainID)
	}
	assert.Equal(t, []string{"1", "2", "10", "137", "8453", "abc"}, ids)
}

func TestRegistryConcurrentWriters(t *testing.T) {
	r := NewNetworkRegistry("1", zap.NewNop())
	r.SetNetworks(descriptors("1", "10", "137"))

	var wg conc.WaitGroup
	for _, chainID := range []string{"1", "10", "137"} {
		chainID := chainID
		for worker := 0; worker < 4; worker++ {
			worker := worker
			wg.Go(func() {
				for h := uint64(1); h <= 200; h++ {
					r.ObserveBlock(block(chainID, h*4+uint64(worker), int64(h)))
				}
			})
		}
	}
	wg.Go(func() {
		for i := 0; i < 100; i++ {
			r.SetAllNetworksError(i%2 == 0)
			_ = r.Snapshot()
			_ = r.ListNetworks()
		}
	})
	wg.Wait()

	for _, chainID := range []string{"1", "10", "137"} {
		s, ok := r.GetState(chainID)
		require.True(t, ok, chainID)
		assert.Equal(t, uint64(803), *s.BlockHeight, chainID)
	}
}
