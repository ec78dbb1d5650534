package port

import (
	"context"

	"network_registry/internal/domain/entity"
)

// SelectionStore keeps the network currently selected by the user.
type SelectionStore interface {
	GetSelected(ctx context.Context) (entity.NetworkDescriptor, error)
	SetSelected(ctx context.Context, network entity.NetworkDescriptor) error
}

// BalanceStore keeps wallet balances per chain.
type BalanceStore interface {
	PutBalances(ctx context.Context, balances []entity.Balance) error
	BalancesByChain(ctx context.Context, chainID string) ([]entity.Balance, error)
	// PurgeBalances removes every balance record of the chain.
	PurgeBalances(ctx context.Context, chainID string) error
}

// ConnectionService owns the transport-level connection of each network.
type ConnectionService interface {
	// RemoveNetwork disconnects and unregisters the chain at the transport layer.
	RemoveNetwork(ctx context.Context, chainID string) error
}

// ChainTransport is the transport layer behind a ConnectionService.
// A removed chain stays disconnected until it is reinstated.
type ChainTransport interface {
	ConnectionService
	Reinstate(chainIDs ...string)
}
