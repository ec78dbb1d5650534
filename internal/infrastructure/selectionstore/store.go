package selectionstore

import (
	"context"
	"sync"

	"network_registry/internal/app/port"
	"network_registry/internal/domain/entity"
)

var _ port.SelectionStore = (*Store)(nil)

// Store holds the network currently selected by the user.
type Store struct {
	mu       sync.RWMutex
	selected entity.NetworkDescriptor
}

// New creates a store with initial as the selected network.
func New(initial entity.NetworkDescriptor) *Store {
	return &Store{selected: initial.Clone()}
}

// GetSelected returns the selected network.
func (s *Store) GetSelected(ctx context.Context) (entity.NetworkDescriptor, error) {
	if err := ctx.Err(); err != nil {
		return entity.NetworkDescriptor{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected.Clone(), nil
}

// SetSelected replaces the selected network.
func (s *Store) SetSelected(ctx context.Context, network entity.NetworkDescriptor) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if network.ChainID == "" {
		return entity.ErrInvalidChainID
	}
	s.mu.Lock()
	s.selected = network.Clone()
	s.mu.Unlock()
	return nil
}
