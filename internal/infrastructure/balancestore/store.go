package balancestore

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"network_registry/internal/app/port"
	"network_registry/internal/domain/entity"

	"github.com/patrickmn/go-cache"
)

const keySeparator = "|"

var errEmptyChainID = errors.New("balance without chain id")

var _ port.BalanceStore = (*Store)(nil)

// Store keeps the latest known balances in memory, keyed by chain, wallet and token.
type Store struct {
	cache  *cache.Cache
	logger port.Logger

	// serialises purge against put so a purge never sees half of a batch
	mu sync.Mutex
}

// New creates a store. With a non-positive ttl balances never expire and stay until purged.
func New(ttl time.Duration, logger port.Logger) *Store {
	if ttl <= 0 {
		return &Store{cache: cache.New(cache.NoExpiration, 0), logger: logger}
	}
	return &Store{
		cache:  cache.New(ttl, 2*ttl),
		logger: logger,
	}
}

func balanceKey(b entity.Balance) string {
	return strings.Join([]string{
		b.ChainID,
		strings.ToLower(b.WalletAddress),
		strings.ToLower(b.TokenAddress),
	}, keySeparator)
}

// PutBalances upserts the given balances.
func (s *Store) PutBalances(ctx context.Context, balances []entity.Balance) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, b := range balances {
		if b.ChainID == "" {
			return errEmptyChainID
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range balances {
		s.cache.SetDefault(balanceKey(b), b)
	}
	return nil
}

// BalancesByChain returns the stored balances of one chain ordered by wallet and token.
func (s *Store) BalancesByChain(ctx context.Context, chainID string) ([]entity.Balance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	prefix := chainID + keySeparator

	result := make([]entity.Balance, 0)
	for key, item := range s.cache.Items() {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if b, ok := item.Object.(entity.Balance); ok {
			result = append(result, b)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].WalletAddress != result[j].WalletAddress {
			return result[i].WalletAddress < result[j].WalletAddress
		}
		return result[i].TokenAddress < result[j].TokenAddress
	})
	return result, nil
}

// PurgeBalances deletes every balance of chainID. Purging an unknown chain is not an error.
func (s *Store) PurgeBalances(ctx context.Context, chainID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	prefix := chainID + keySeparator

	s.mu.Lock()
	defer s.mu.Unlock()
	purged := 0
	for key := range s.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			s.cache.Delete(key)
			purged++
		}
	}
	s.logger.Info("Balances purged", "chainID", chainID, "count", purged)
	return nil
}

// Len returns the number of stored balances across all chains.
func (s *Store) Len() int {
	return s.cache.ItemCount()
}
