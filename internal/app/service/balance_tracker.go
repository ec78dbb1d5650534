package service

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"network_registry/internal/app/port"
	"network_registry/internal/domain/entity"
	"network_registry/internal/infrastructure/metrics"
	"network_registry/internal/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// BalanceTracker refreshes native balances of the tracked wallets on every registered network.
type BalanceTracker struct {
	wallets          port.WalletProvider
	registry         port.NetworkStateReader
	clients          port.BlockchainClientProvider
	store            port.BalanceStore
	maxAddrsPerBatch int
	maxConcurrent    int
	metrics          *metrics.Metrics
	logger           *zap.Logger
}

// NewBalanceTracker creates a tracker. maxAddrsPerBatch bounds the size of one RPC batch.
func NewBalanceTracker(
	wallets port.WalletProvider,
	registry port.NetworkStateReader,
	clients port.BlockchainClientProvider,
	store port.BalanceStore,
	maxAddrsPerBatch int,
	maxConcurrent int,
	m *metrics.Metrics,
	logger *zap.Logger,
) *BalanceTracker {
	if maxAddrsPerBatch <= 0 {
		maxAddrsPerBatch = 50
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	return &BalanceTracker{
		wallets:          wallets,
		registry:         registry,
		clients:          clients,
		store:            store,
		maxAddrsPerBatch: maxAddrsPerBatch,
		maxConcurrent:    maxConcurrent,
		metrics:          m,
		logger:           logger.Named("BalanceTracker"),
	}
}

// Run refreshes balances every interval until ctx is cancelled.
func (t *BalanceTracker) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if err := t.Refresh(ctx); err != nil {
			t.logger.Error("Balance refresh failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Refresh fetches and stores balances for all wallets on all registered networks.
// A failing network is logged and skipped.
func (t *BalanceTracker) Refresh(ctx context.Context) error {
	wallets, err := t.wallets.GetWallets()
	if err != nil {
		return fmt.Errorf("failed to load wallets: %w", err)
	}
	if len(wallets) == 0 {
		t.logger.Debug("No wallets to track")
		return nil
	}
	addresses := make([]string, len(wallets))
	for i, w := range wallets {
		addresses[i] = w.Address
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(t.maxConcurrent)
	for _, network := range t.registry.ListNetworks() {
		netDef := network
		eg.Go(func() error {
			err := t.refreshNetwork(egCtx, netDef, addresses)
			if errors.Is(err, entity.ErrNetworkRemoved) {
				t.logger.Debug("Network removed during refresh", zap.String("chainID", netDef.ChainID))
				return nil
			}
			if err != nil {
				t.metrics.RPCError(netDef.ChainID)
				t.logger.Warn("Failed to refresh balances for network",
					zap.String("chainID", netDef.ChainID),
					zap.String("network", netDef.Name),
					zap.Error(err))
			}
			return nil
		})
	}
	return eg.Wait()
}

func (t *BalanceTracker) refreshNetwork(ctx context.Context, netDef entity.NetworkDescriptor, addresses []string) error {
	client, err := t.clients.GetClient(ctx, netDef)
	if err != nil {
		return err
	}

	balances := make([]entity.Balance, 0, len(addresses))
	for _, batch := range utils.BatchStrings(addresses, t.maxAddrsPerBatch) {
		amounts, err := client.NativeBalances(ctx, batch)
		if err != nil {
			return fmt.Errorf("native balances batch of %d: %w", len(batch), err)
		}
		for _, addr := range batch {
			amount, ok := amounts[addr]
			if !ok || amount == nil {
				amount = big.NewInt(0)
			}
			balances = append(balances, entity.Balance{
				WalletAddress:    addr,
				ChainID:          netDef.ChainID,
				TokenAddress:     entity.ZeroAddress,
				TokenSymbol:      netDef.NativeSymbol,
				Decimals:         netDef.Decimals,
				IsNative:         true,
				Amount:           amount,
				FormattedBalance: utils.FormatBigInt(amount, netDef.Decimals),
			})
		}
	}

	// a removal may have purged the chain while the batches were in flight
	if _, registered := t.registry.GetNetwork(netDef.ChainID); !registered {
		return fmt.Errorf("chain %s: %w", netDef.ChainID, entity.ErrNetworkRemoved)
	}
	if err := t.store.PutBalances(ctx, balances); err != nil {
		return fmt.Errorf("store balances: %w", err)
	}
	t.logger.Debug("Balances refreshed", zap.String("chainID", netDef.ChainID), zap.Int("count", len(balances)))
	return nil
}
