package port

import (
	"context"

	"network_registry/internal/domain/entity"
)

// NetworkStateReader is the read side of the network registry.
type NetworkStateReader interface {
	GetState(chainID string) (entity.ChainStateEntry, bool)
	GetNetwork(chainID string) (entity.NetworkDescriptor, bool)
	ListNetworks() []entity.NetworkDescriptor
	Snapshot() map[string]entity.ChainStateEntry
}

// NetworkRegistry tracks supported networks and their latest chain heads.
type NetworkRegistry interface {
	NetworkStateReader

	// ObserveBlock applies a block observation and reports whether it was accepted.
	ObserveBlock(block entity.ObservedBlock) bool
	// SetNetworks replaces the descriptor set, dropping state of removed chains.
	SetNetworks(descriptors []entity.NetworkDescriptor)
	// SetAllNetworksError sets the error flag on every tracked chain.
	SetAllNetworksError(flag bool)
}

// ErrorBroadcaster applies connectivity-level error signals to all chains.
type ErrorBroadcaster interface {
	SetAllNetworksError(flag bool)
}

// NetworkRemover removes a network and the state that depends on it.
type NetworkRemover interface {
	RemoveNetwork(ctx context.Context, chainID string) error
}
