package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"network_registry/internal/app/port"
	"network_registry/internal/domain/entity"
	"network_registry/internal/infrastructure/metrics"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// BlockWatcherConfig tunes the polling loop.
type BlockWatcherConfig struct {
	PollInterval          time.Duration
	MaxConcurrentNetworks int
	RateLimitPerSecond    float64
	RateBurst             int
}

// BlockWatcher polls the head of every registered network and reports it to the registry.
// RPC failures of a single chain are logged and counted, they never change the error flag.
type BlockWatcher struct {
	registry port.NetworkRegistry
	clients  port.BlockchainClientProvider
	cfg      BlockWatcherConfig
	metrics  *metrics.Metrics
	logger   *zap.Logger

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewBlockWatcher creates a watcher. Zero config values are replaced with defaults.
func NewBlockWatcher(
	registry port.NetworkRegistry,
	clients port.BlockchainClientProvider,
	cfg BlockWatcherConfig,
	m *metrics.Metrics,
	logger *zap.Logger,
) *BlockWatcher {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 12 * time.Second
	}
	if cfg.MaxConcurrentNetworks <= 0 {
		cfg.MaxConcurrentNetworks = 4
	}
	if cfg.RateLimitPerSecond <= 0 {
		cfg.RateLimitPerSecond = 2
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = 1
	}
	return &BlockWatcher{
		registry: registry,
		clients:  clients,
		cfg:      cfg,
		metrics:  m,
		logger:   logger.Named("BlockWatcher"),
		limiters: make(map[string]*rate.Limiter),
	}
}

// Run polls until ctx is cancelled.
func (w *BlockWatcher) Run(ctx context.Context) error {
	w.logger.Info("Block watcher started", zap.Duration("interval", w.cfg.PollInterval))
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		w.PollOnce(ctx)
		select {
		case <-ctx.Done():
			w.logger.Info("Block watcher stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// PollOnce fetches the head of every registered network once and returns the number of accepted blocks.
func (w *BlockWatcher) PollOnce(ctx context.Context) int {
	networks := w.registry.ListNetworks()
	if len(networks) == 0 {
		w.logger.Debug("No networks registered, nothing to poll")
		return 0
	}

	var (
		mu       sync.Mutex
		accepted int
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(w.cfg.MaxConcurrentNetworks)

	for _, network := range networks {
		netDef := network
		eg.Go(func() error {
			block, err := w.fetchHead(egCtx, netDef)
			if errors.Is(err, entity.ErrNetworkRemoved) {
				w.logger.Debug("Network removed during poll", zap.String("chainID", netDef.ChainID))
				return nil
			}
			if err != nil {
				w.metrics.RPCError(netDef.ChainID)
				w.logger.Warn("Failed to fetch chain head",
					zap.String("chainID", netDef.ChainID),
					zap.String("network", netDef.Name),
					zap.Error(err))
				return nil // one chain failing must not cancel the others
			}
			if _, registered := w.registry.GetNetwork(netDef.ChainID); !registered {
				w.logger.Debug("Network unregistered during poll, head dropped", zap.String("chainID", netDef.ChainID))
				return nil
			}
			ok := w.registry.ObserveBlock(block)
			w.metrics.BlockObserved(ok)
			if ok {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
			return nil
		})
	}
	_ = eg.Wait()

	w.forgetLimiters(networks)
	return accepted
}

func (w *BlockWatcher) fetchHead(ctx context.Context, netDef entity.NetworkDescriptor) (entity.ObservedBlock, error) {
	if err := w.limiter(netDef.ChainID).Wait(ctx); err != nil {
		return entity.ObservedBlock{}, err
	}
	client, err := w.clients.GetClient(ctx, netDef)
	if err != nil {
		return entity.ObservedBlock{}, err
	}
	block, err := client.HeadBlock(ctx)
	if err != nil {
		return entity.ObservedBlock{}, err
	}
	// клиент может вернуть пустой ChainID, ключом всегда служит дескриптор
	block.ChainID = netDef.ChainID
	return block, nil
}

func (w *BlockWatcher) limiter(chainID string) *rate.Limiter {
	w.mu.Lock()
	defer w.mu.Unlock()
	l, ok := w.limiters[chainID]
	if !ok {
		l = rate.NewLimiter(rate.Limit(w.cfg.RateLimitPerSecond), w.cfg.RateBurst)
		w.limiters[chainID] = l
	}
	return l
}

// forgetLimiters drops limiters of chains that are no longer registered.
func (w *BlockWatcher) forgetLimiters(networks []entity.NetworkDescriptor) {
	active := make(map[string]struct{}, len(networks))
	for _, n := range networks {
		active[n.ChainID] = struct{}{}
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for chainID := range w.limiters {
		if _, ok := active[chainID]; !ok {
			delete(w.limiters, chainID)
		}
	}
}
