package service

import (
	"math/big"
	"sort"
	"sync"

	"network_registry/internal/app/port"
	"network_registry/internal/domain/entity"

	"go.uber.org/zap"
)

// DefaultBootstrapChainID is the chain whose state entry exists before any network list is set.
const DefaultBootstrapChainID = "1"

// networkRegistryImpl implements port.NetworkRegistry.
// Both collections are guarded by one lock so a cascade delete is never observed half-done.
type networkRegistryImpl struct {
	logger   *zap.Logger
	mu       sync.RWMutex
	networks map[string]entity.NetworkDescriptor
	states   map[string]entity.ChainStateEntry
	// bootstrapID keeps its state entry without a descriptor until the chain is explicitly removed
	bootstrapID string
}

// NewNetworkRegistry creates a registry seeded with an empty state entry for bootstrapChainID.
// An empty bootstrapChainID falls back to DefaultBootstrapChainID.
func NewNetworkRegistry(bootstrapChainID string, logger *zap.Logger) port.NetworkRegistry {
	if bootstrapChainID == "" {
		bootstrapChainID = DefaultBootstrapChainID
	}
	return &networkRegistryImpl{
		logger:   logger.Named("NetworkRegistry"),
		networks: make(map[string]entity.NetworkDescriptor),
		states: map[string]entity.ChainStateEntry{
			bootstrapChainID: {},
		},
		bootstrapID: bootstrapChainID,
	}
}

// ObserveBlock stores the block if it is the first one seen for the chain or higher than the stored head.
// Every accepted block marks the chain with networkError=true; see DESIGN.md before changing this.
func (r *networkRegistryImpl) ObserveBlock(block entity.ObservedBlock) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, exists := r.states[block.ChainID]
	if exists && block.Height <= current.Height() {
		r.logger.Debug("Stale block discarded",
			zap.String("chainID", block.ChainID),
			zap.Uint64("height", block.Height),
			zap.Uint64("storedHeight", current.Height()))
		return false
	}

	height := block.Height
	next := entity.ChainStateEntry{
		BlockHeight:  &height,
		NetworkError: true,
	}
	if block.BaseFeePerGas != nil {
		next.BaseFeePerGas = new(big.Int).Set(block.BaseFeePerGas)
	}
	r.states[block.ChainID] = next

	r.logger.Debug("Block accepted",
		zap.String("chainID", block.ChainID),
		zap.Uint64("height", height),
		zap.Bool("created", !exists))
	return true
}

// SetNetworks upserts every descriptor and drops descriptors and state entries of chains missing from the list.
// State entries without a descriptor, created by blocks for unlisted chains, are dropped too.
func (r *networkRegistryImpl) SetNetworks(descriptors []entity.NetworkDescriptor) {
	keep := make(map[string]struct{}, len(descriptors))

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, d := range descriptors {
		r.networks[d.ChainID] = d.Clone()
		keep[d.ChainID] = struct{}{}
	}

	var removed, orphans []string
	for chainID := range r.networks {
		if _, ok := keep[chainID]; ok {
			continue
		}
		delete(r.networks, chainID)
		delete(r.states, chainID)
		if chainID == r.bootstrapID {
			r.bootstrapID = ""
		}
		removed = append(removed, chainID)
	}
	for chainID := range r.states {
		if _, ok := keep[chainID]; ok || chainID == r.bootstrapID {
			continue
		}
		delete(r.states, chainID)
		orphans = append(orphans, chainID)
	}

	r.logger.Info("Network list updated",
		zap.Int("networks", len(r.networks)),
		zap.Strings("removed", removed),
		zap.Strings("orphanStates", orphans))
}

// SetAllNetworksError sets networkError on every tracked state entry.
func (r *networkRegistryImpl) SetAllNetworksError(flag bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for chainID, state := range r.states {
		state.NetworkError = flag
		r.states[chainID] = state
	}
}

// GetState returns a copy of the chain's state entry.
func (r *networkRegistryImpl) GetState(chainID string) (entity.ChainStateEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.states[chainID]
	if !ok {
		return entity.ChainStateEntry{}, false
	}
	return state.Clone(), true
}

func (r *networkRegistryImpl) GetNetwork(chainID string) (entity.NetworkDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.networks[chainID]
	if !ok {
		return entity.NetworkDescriptor{}, false
	}
	return d.Clone(), true
}

// ListNetworks returns all descriptors ordered by chain ID.
func (r *networkRegistryImpl) ListNetworks() []entity.NetworkDescriptor {
	r.mu.RLock()
	out := make([]entity.NetworkDescriptor, 0, len(r.networks))
	for _, d := range r.networks {
		out = append(out, d.Clone())
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return lessChainID(out[i].ChainID, out[j].ChainID)
	})
	return out
}

// Snapshot returns a copy of every state entry keyed by chain ID.
func (r *networkRegistryImpl) Snapshot() map[string]entity.ChainStateEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]entity.ChainStateEntry, len(r.states))
	for chainID, state := range r.states {
		out[chainID] = state.Clone()
	}
	return out
}

// lessChainID orders numeric chain IDs numerically ("2" < "10") and everything else lexically.
func lessChainID(a, b string) bool {
	if len(a) != len(b) && isDigits(a) && isDigits(b) {
		return len(a) < len(b)
	}
	return a < b
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
