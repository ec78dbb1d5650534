package networkdefinition

import (
	"fmt"
	"sort"
	"strings"

	"network_registry/internal/app/port"
	"network_registry/internal/domain/entity"
	"network_registry/internal/pkg/utils"
)

// Predefined network descriptors
var ( //nolint:gochecknoglobals // Global for definitions
	Ethereum = entity.NetworkDescriptor{
		ChainID:          "1",
		Name:             "Ethereum Mainnet",
		Identifier:       "ethereum",
		NativeSymbol:     "ETH",
		Decimals:         18,
		PrimaryRPCURL:    "https://ethereum-rpc.publicnode.com",
		FallbackRPCURLs:  []string{"https://rpc.ankr.com/eth", "https://ethereum.publicnode.com"},
		BlockExplorerURL: "https://etherscan.io",
	}
	BSC = entity.NetworkDescriptor{
		ChainID:          "56",
		Name:             "BNB Smart Chain",
		Identifier:       "bsc",
		NativeSymbol:     "BNB",
		Decimals:         18,
		PrimaryRPCURL:    "https://1rpc.io/bnb",
		FallbackRPCURLs:  []string{"https://bsc-dataseed2.binance.org/", "https://bsc.publicnode.com"},
		BlockExplorerURL: "https://bscscan.com",
	}
	Polygon = entity.NetworkDescriptor{
		ChainID:          "137",
		Name:             "Polygon PoS",
		Identifier:       "polygon",
		NativeSymbol:     "POL",
		Decimals:         18,
		PrimaryRPCURL:    "https://polygon-rpc.com/",
		FallbackRPCURLs:  []string{"https://rpc.ankr.com/polygon", "https://polygon.publicnode.com"},
		BlockExplorerURL: "https://polygonscan.com",
	}
	Arbitrum = entity.NetworkDescriptor{
		ChainID:          "42161",
		Name:             "Arbitrum One",
		Identifier:       "arbitrum",
		NativeSymbol:     "ETH",
		Decimals:         18,
		PrimaryRPCURL:    "https://arb1.arbitrum.io/rpc",
		FallbackRPCURLs:  []string{"https://arbitrum.llamarpc.com", "https://arbitrum.publicnode.com"},
		BlockExplorerURL: "https://arbiscan.io",
	}
	Avalanche = entity.NetworkDescriptor{
		ChainID:          "43114",
		Name:             "Avalanche C-Chain",
		Identifier:       "avalanche",
		NativeSymbol:     "AVAX",
		Decimals:         18,
		PrimaryRPCURL:    "https://api.avax.network/ext/bc/C/rpc",
		FallbackRPCURLs:  []string{"https://avalanche.public-rpc.com", "https://rpc.ankr.com/avalanche"},
		BlockExplorerURL: "https://snowtrace.io",
	}
	Base = entity.NetworkDescriptor{
		ChainID:          "8453",
		Name:             "Base Mainnet",
		Identifier:       "base",
		NativeSymbol:     "ETH",
		Decimals:         18,
		PrimaryRPCURL:    "https://1rpc.io/base",
		FallbackRPCURLs:  []string{"https://base.publicnode.com", "https://base.llamarpc.com"},
		BlockExplorerURL: "https://basescan.org",
	}
	Gnosis = entity.NetworkDescriptor{
		ChainID:          "100",
		Name:             "Gnosis Chain",
		Identifier:       "gnosis",
		NativeSymbol:     "xDAI",
		Decimals:         18,
		PrimaryRPCURL:    "https://0xrpc.io/gno",
		FallbackRPCURLs:  []string{"https://rpc.ankr.com/gnosis", "https://gnosis.publicnode.com"},
		BlockExplorerURL: "https://gnosisscan.io",
	}
	Linea = entity.NetworkDescriptor{
		ChainID:          "59144",
		Name:             "Linea Mainnet",
		Identifier:       "linea",
		NativeSymbol:     "ETH",
		Decimals:         18,
		PrimaryRPCURL:    "https://rpc.linea.build",
		FallbackRPCURLs:  []string{"https://linea.blockpi.network/v1/rpc/public"},
		BlockExplorerURL: "https://lineascan.build",
	}
	Optimism = entity.NetworkDescriptor{
		ChainID:          "10",
		Name:             "OP Mainnet",
		Identifier:       "optimism",
		NativeSymbol:     "ETH",
		Decimals:         18,
		PrimaryRPCURL:    "https://op-pokt.nodies.app",
		FallbackRPCURLs:  []string{"https://optimism.publicnode.com", "https://rpc.ankr.com/optimism"},
		BlockExplorerURL: "https://optimistic.etherscan.io",
	}
	Scroll = entity.NetworkDescriptor{
		ChainID:          "534352",
		Name:             "Scroll",
		Identifier:       "scroll",
		NativeSymbol:     "ETH",
		Decimals:         18,
		PrimaryRPCURL:    "https://rpc.scroll.io",
		FallbackRPCURLs:  []string{"https://scroll.blockpi.network/v1/rpc/public"},
		BlockExplorerURL: "https://scrollscan.com",
	}
	ZkSync = entity.NetworkDescriptor{ // zkSync Era
		ChainID:          "324",
		Name:             "zkSync Era Mainnet",
		Identifier:       "zksync",
		NativeSymbol:     "ETH",
		Decimals:         18,
		PrimaryRPCURL:    "https://mainnet.era.zksync.io",
		BlockExplorerURL: "https://explorer.zksync.io",
	}
)

var allKnownDefinitions = []entity.NetworkDescriptor{
	Ethereum, BSC, Polygon, Arbitrum, Avalanche, Base, Gnosis, Linea, Optimism, Scroll, ZkSync,
}

var _ port.NetworkDefinitionProvider = (*NetworkDefinitionProvider)(nil)

// NetworkDefinitionProvider provides the descriptors the service starts with.
type NetworkDefinitionProvider struct {
	logger            port.Logger
	byChainID         map[string]entity.NetworkDescriptor
	activeNetworkDefs []entity.NetworkDescriptor
}

// NewNetworkDefinitionProvider builds the active descriptor list.
// When networksFile is set its descriptors are used, otherwise the built-in ones.
// A non-empty identifiers list keeps only the networks whose Identifier or ChainID is listed.
func NewNetworkDefinitionProvider(logger port.Logger, networksFile string, identifiers []string) (*NetworkDefinitionProvider, error) {
	defs := allKnownDefinitions
	if networksFile != "" {
		loaded, err := utils.LoadNetworksFromJSON(networksFile)
		if err != nil {
			return nil, err
		}
		defs = loaded
		logger.Info("Network descriptors loaded from file", "path", networksFile, "count", len(loaded))
	}

	wanted := make(map[string]struct{}, len(identifiers))
	for _, id := range identifiers {
		wanted[strings.ToLower(strings.TrimSpace(id))] = struct{}{}
	}

	p := &NetworkDefinitionProvider{
		logger:    logger,
		byChainID: make(map[string]entity.NetworkDescriptor, len(defs)),
	}
	for _, def := range defs {
		if _, dup := p.byChainID[def.ChainID]; dup {
			return nil, fmt.Errorf("duplicate network descriptor for chain %s", def.ChainID)
		}
		p.byChainID[def.ChainID] = def
		if len(wanted) > 0 {
			_, byID := wanted[strings.ToLower(def.Identifier)]
			_, byChain := wanted[def.ChainID]
			if !byID && !byChain {
				continue
			}
		}
		p.activeNetworkDefs = append(p.activeNetworkDefs, def)
	}

	if len(p.activeNetworkDefs) == 0 {
		logger.Warn("No active network descriptors, registry starts empty")
	} else {
		logger.Info("NetworkDefinitionProvider initialized", "active_networks", len(p.activeNetworkDefs))
	}
	return p, nil
}

// GetAllNetworkDefinitions returns the list of active network descriptors.
func (p *NetworkDefinitionProvider) GetAllNetworkDefinitions() []entity.NetworkDescriptor {
	if p == nil {
		return []entity.NetworkDescriptor{}
	}
	out := make([]entity.NetworkDescriptor, len(p.activeNetworkDefs))
	for i, def := range p.activeNetworkDefs {
		out[i] = def.Clone()
	}
	return out
}

// GetNetworkDefinitionByChainID looks the chain up among all known descriptors, active or not.
func (p *NetworkDefinitionProvider) GetNetworkDefinitionByChainID(chainID string) (entity.NetworkDescriptor, bool) {
	if p == nil {
		return entity.NetworkDescriptor{}, false
	}
	def, ok := p.byChainID[chainID]
	if !ok {
		return entity.NetworkDescriptor{}, false
	}
	return def.Clone(), true
}

// Fallback returns the descriptor used when the selected network is removed.
// It falls back to Ethereum when chainID is unknown.
func (p *NetworkDefinitionProvider) Fallback(chainID string) entity.NetworkDescriptor {
	if def, ok := p.GetNetworkDefinitionByChainID(chainID); ok {
		return def
	}
	p.logger.Warn("Fallback network not found, using Ethereum", "chainID", chainID)
	return Ethereum.Clone()
}

// KnownChainIDs returns the chain IDs of all known descriptors, sorted.
func (p *NetworkDefinitionProvider) KnownChainIDs() []string {
	ids := make([]string, 0, len(p.byChainID))
	for id := range p.byChainID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
