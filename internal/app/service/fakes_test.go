package service

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"network_registry/internal/app/port"
	"network_registry/internal/domain/entity"
)

type fakeClient struct {
	def      entity.NetworkDescriptor
	mu       sync.Mutex
	head     entity.ObservedBlock
	headErr  error
	balances map[string]*big.Int
	balErr   error
	batches  [][]string
	// onBalances runs before every balances batch
	onBalances func()
}

func (c *fakeClient) HeadBlock(context.Context) (entity.ObservedBlock, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.head, c.headErr
}

func (c *fakeClient) setHead(height uint64, fee int64) {
	c.mu.Lock()
	c.head = entity.ObservedBlock{Height: height, BaseFeePerGas: big.NewInt(fee)}
	c.mu.Unlock()
}

func (c *fakeClient) NativeBalances(_ context.Context, addrs []string) (map[string]*big.Int, error) {
	if c.onBalances != nil {
		c.onBalances()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.batches = append(c.batches, append([]string(nil), addrs...))
	if c.balErr != nil {
		return nil, c.balErr
	}
	out := make(map[string]*big.Int, len(addrs))
	for _, a := range addrs {
		if v, ok := c.balances[a]; ok {
			out[a] = v
		}
	}
	return out, nil
}

func (c *fakeClient) Definition() entity.NetworkDescriptor { return c.def }

func (c *fakeClient) Close() {}

var errDialFailed = errors.New("dial failed")

type fakeClientProvider struct {
	mu      sync.Mutex
	clients map[string]*fakeClient
}

func newFakeClientProvider(clients ...*fakeClient) *fakeClientProvider {
	p := &fakeClientProvider{clients: make(map[string]*fakeClient)}
	for _, c := range clients {
		p.clients[c.def.ChainID] = c
	}
	return p
}

func (p *fakeClientProvider) GetClient(_ context.Context, def entity.NetworkDescriptor) (port.BlockchainClient, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	c, ok := p.clients[def.ChainID]
	if !ok {
		return nil, errDialFailed
	}
	return c, nil
}
