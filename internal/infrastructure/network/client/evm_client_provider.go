package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"network_registry/internal/app/port"
	"network_registry/internal/domain/entity"

	"golang.org/x/sync/singleflight"
)

const (
	defaultProviderConnectionTimeout = 10 * time.Second
	defaultRPCCallTimeout            = 10 * time.Second
)

// DialFunc opens a client for a network. NewEVMClient is used in production.
type DialFunc func(ctx context.Context, netDef entity.NetworkDescriptor, opts DialOptions) (port.BlockchainClient, error)

var (
	_ port.BlockchainClientProvider = (*EVMClientProvider)(nil)
	_ port.ChainTransport           = (*EVMClientProvider)(nil)
)

// EVMClientProvider caches one client per chain. It implements port.BlockchainClientProvider
// and port.ChainTransport: removing a network closes its client and refuses new ones until
// the chain is reinstated.
type EVMClientProvider struct {
	mu      sync.Mutex
	clients map[string]port.BlockchainClient
	removed map[string]struct{}
	// generation changes on every removal, a dial started before it is discarded
	generation map[string]uint64

	dials  singleflight.Group
	logger port.Logger
	opts   DialOptions
	dial   DialFunc
}

// NewEVMClientProvider creates a new EVMClientProvider. Zero timeouts are replaced with defaults.
func NewEVMClientProvider(opts DialOptions, logger port.Logger) *EVMClientProvider {
	return NewEVMClientProviderWithDialer(opts, NewEVMClient, logger)
}

// NewEVMClientProviderWithDialer is NewEVMClientProvider with a custom dialer.
func NewEVMClientProviderWithDialer(opts DialOptions, dial DialFunc, logger port.Logger) *EVMClientProvider {
	if opts.ConnectionTimeout <= 0 {
		opts.ConnectionTimeout = defaultProviderConnectionTimeout
	}
	if opts.RPCCallTimeout <= 0 {
		opts.RPCCallTimeout = defaultRPCCallTimeout
	}
	return &EVMClientProvider{
		clients:    make(map[string]port.BlockchainClient),
		removed:    make(map[string]struct{}),
		generation: make(map[string]uint64),
		logger:     logger.With("component", "EVMClientProvider"),
		opts:       opts,
		dial:       dial,
	}
}

// GetClient returns the cached client of the network, dialing it on first use.
// Concurrent callers for the same chain share one dial; dials of different chains run in parallel.
func (p *EVMClientProvider) GetClient(ctx context.Context, netDef entity.NetworkDescriptor) (port.BlockchainClient, error) {
	p.mu.Lock()
	if _, gone := p.removed[netDef.ChainID]; gone {
		p.mu.Unlock()
		return nil, fmt.Errorf("chain %s: %w", netDef.ChainID, entity.ErrNetworkRemoved)
	}
	if client, exists := p.clients[netDef.ChainID]; exists {
		p.mu.Unlock()
		return client, nil
	}
	p.mu.Unlock()

	resCh := p.dials.DoChan(netDef.ChainID, func() (interface{}, error) {
		return p.dialAndStore(ctx, netDef)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-resCh:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(port.BlockchainClient), nil
	}
}

func (p *EVMClientProvider) dialAndStore(ctx context.Context, netDef entity.NetworkDescriptor) (port.BlockchainClient, error) {
	p.mu.Lock()
	gen := p.generation[netDef.ChainID]
	p.mu.Unlock()

	p.logger.Info("Creating new EVM client", "chainID", netDef.ChainID, "network", netDef.Name, "rpc_primary", netDef.PrimaryRPCURL)
	newClient, err := p.dial(ctx, netDef, p.opts)
	if err != nil {
		p.logger.Error("Failed to create EVM client", "chainID", netDef.ChainID, "network", netDef.Name, "error", err)
		return nil, fmt.Errorf("failed to create EVM client for %s: %w", netDef.Name, err)
	}

	p.mu.Lock()
	if _, gone := p.removed[netDef.ChainID]; gone || p.generation[netDef.ChainID] != gen {
		p.mu.Unlock()
		newClient.Close()
		p.logger.Info("Network removed while dialing, client discarded", "chainID", netDef.ChainID)
		return nil, fmt.Errorf("chain %s: %w", netDef.ChainID, entity.ErrNetworkRemoved)
	}
	if existing, ok := p.clients[netDef.ChainID]; ok {
		p.mu.Unlock()
		newClient.Close()
		return existing, nil
	}
	p.clients[netDef.ChainID] = newClient
	p.mu.Unlock()
	return newClient, nil
}

// RemoveNetwork closes the client of chainID and refuses new clients for it until Reinstate.
// Removing a chain with no open client succeeds.
func (p *EVMClientProvider) RemoveNetwork(ctx context.Context, chainID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if chainID == "" {
		return entity.ErrInvalidChainID
	}

	p.mu.Lock()
	client, exists := p.clients[chainID]
	delete(p.clients, chainID)
	p.removed[chainID] = struct{}{}
	p.generation[chainID]++
	p.mu.Unlock()

	if !exists {
		p.logger.Debug("No open client for removed network", "chainID", chainID)
		return nil
	}
	client.Close()
	p.logger.Info("EVM client closed", "chainID", chainID)
	return nil
}

// Reinstate lets removed chains be dialed again.
func (p *EVMClientProvider) Reinstate(chainIDs ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, id := range chainIDs {
		if _, ok := p.removed[id]; ok {
			delete(p.removed, id)
			p.logger.Info("Network reinstated", "chainID", id)
		}
	}
}

// ChainIDs returns the chains that currently have an open client.
func (p *EVMClientProvider) ChainIDs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	ids := make([]string, 0, len(p.clients))
	for id := range p.clients {
		ids = append(ids, id)
	}
	return ids
}

// Close closes every cached client.
func (p *EVMClientProvider) Close() {
	p.mu.Lock()
	clients := p.clients
	p.clients = make(map[string]port.BlockchainClient)
	p.mu.Unlock()

	for _, c := range clients {
		c.Close()
	}
}
