package service

import (
	"context"
	"sync"

	"network_registry/internal/app/port"
	"network_registry/internal/domain/entity"

	"go.uber.org/zap"
)

var (
	_ port.NetworkRegistry   = (*ConnectionManager)(nil)
	_ port.ConnectionService = (*ConnectionManager)(nil)
)

// ConnectionManager keeps the transport and the registry's network list in step.
// RemoveNetwork disconnects the chain and unregisters it, so pollers stop seeing it.
// SetNetworks reinstates the listed chains at the transport before publishing the list.
type ConnectionManager struct {
	port.NetworkRegistry

	transport port.ChainTransport
	logger    *zap.Logger

	// serializes list updates so a removal never races a concurrent SetNetworks
	listMu sync.Mutex
}

// NewConnectionManager wraps registry. Reads and ObserveBlock go straight to the registry.
func NewConnectionManager(registry port.NetworkRegistry, transport port.ChainTransport, logger *zap.Logger) *ConnectionManager {
	return &ConnectionManager{
		NetworkRegistry: registry,
		transport:       transport,
		logger:          logger.Named("ConnectionManager"),
	}
}

// SetNetworks publishes a new network list.
func (m *ConnectionManager) SetNetworks(descriptors []entity.NetworkDescriptor) {
	ids := make([]string, len(descriptors))
	for i, d := range descriptors {
		ids[i] = d.ChainID
	}

	m.listMu.Lock()
	defer m.listMu.Unlock()
	m.transport.Reinstate(ids...)
	m.NetworkRegistry.SetNetworks(descriptors)
}

// RemoveNetwork tears the chain down at the transport and drops it from the network list.
// When the transport fails the list is left unchanged.
func (m *ConnectionManager) RemoveNetwork(ctx context.Context, chainID string) error {
	if err := m.transport.RemoveNetwork(ctx, chainID); err != nil {
		return err
	}

	m.listMu.Lock()
	defer m.listMu.Unlock()

	current := m.NetworkRegistry.ListNetworks()
	remaining := make([]entity.NetworkDescriptor, 0, len(current))
	for _, d := range current {
		if d.ChainID != chainID {
			remaining = append(remaining, d)
		}
	}
	m.NetworkRegistry.SetNetworks(remaining)

	m.logger.Info("Network unregistered",
		zap.String("chainID", chainID),
		zap.Bool("wasRegistered", len(remaining) != len(current)))
	return nil
}
