package port

import (
	"context"
	"math/big"

	"network_registry/internal/domain/entity"
)

// BlockchainClient defines the interface for interacting with a blockchain network.
// Implementations will be specific to network types (e.g., EVM).
type BlockchainClient interface {
	// HeadBlock fetches the latest block header of the network.
	HeadBlock(ctx context.Context) (entity.ObservedBlock, error)

	// NativeBalances fetches native currency balances for the given wallets in one batch.
	NativeBalances(ctx context.Context, walletAddresses []string) (map[string]*big.Int, error)

	// Definition returns the network descriptor associated with this client.
	Definition() entity.NetworkDescriptor

	// Close releases the underlying RPC connection.
	Close()
}

// NetworkDefinitionProvider defines the interface for providing network descriptors.
type NetworkDefinitionProvider interface {
	// GetAllNetworkDefinitions returns all available network descriptors as a slice.
	GetAllNetworkDefinitions() []entity.NetworkDescriptor

	// GetNetworkDefinitionByChainID returns a specific descriptor by its chain identifier.
	GetNetworkDefinitionByChainID(chainID string) (entity.NetworkDescriptor, bool)
}

// BlockchainClientProvider defines the interface for providing blockchain clients.
type BlockchainClientProvider interface {
	GetClient(ctx context.Context, networkDefinition entity.NetworkDescriptor) (BlockchainClient, error)
}
