package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"network_registry/internal/app/port"
	"network_registry/internal/domain/entity"
	"network_registry/internal/infrastructure/metrics"

	"go.uber.org/zap"
)

// DefaultRemovalStepTimeout bounds each collaborator call of a removal.
const DefaultRemovalStepTimeout = 10 * time.Second

// removalStep is one stage of the removal pipeline.
type removalStep struct {
	name entity.RemovalStep
	run  func(ctx context.Context, r *removal) error
}

// removal carries the state of a single RemoveNetwork call between steps.
type removal struct {
	chainID  string
	selected entity.NetworkDescriptor
}

// RemovalOrchestrator removes a network: it moves the selection away from the chain,
// purges its balances and tears down its connection, stopping at the first failing step.
// The registry itself is not touched; the chain disappears on the next SetNetworks.
type RemovalOrchestrator struct {
	selection   port.SelectionStore
	balances    port.BalanceStore
	connections port.ConnectionService
	fallback    entity.NetworkDescriptor
	stepTimeout time.Duration
	metrics     *metrics.Metrics
	logger      *zap.Logger

	steps []removalStep

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewRemovalOrchestrator creates an orchestrator. fallback is selected whenever the selected network is removed.
// A non-positive stepTimeout falls back to DefaultRemovalStepTimeout.
func NewRemovalOrchestrator(
	selection port.SelectionStore,
	balances port.BalanceStore,
	connections port.ConnectionService,
	fallback entity.NetworkDescriptor,
	stepTimeout time.Duration,
	m *metrics.Metrics,
	logger *zap.Logger,
) *RemovalOrchestrator {
	if stepTimeout <= 0 {
		stepTimeout = DefaultRemovalStepTimeout
	}
	o := &RemovalOrchestrator{
		selection:   selection,
		balances:    balances,
		connections: connections,
		fallback:    fallback,
		stepTimeout: stepTimeout,
		metrics:     m,
		logger:      logger.Named("RemovalOrchestrator"),
		inFlight:    make(map[string]struct{}),
	}
	o.steps = []removalStep{
		{name: entity.StepSelectionCheck, run: o.readSelection},
		{name: entity.StepFallbackSelect, run: o.selectFallback},
		{name: entity.StepBalancePurge, run: o.purgeBalances},
		{name: entity.StepTeardown, run: o.teardown},
	}
	return o
}

// RemoveNetwork runs the removal pipeline for chainID.
// Failures are returned as *entity.RemovalError naming the failed step; completed steps are not rolled back.
func (o *RemovalOrchestrator) RemoveNetwork(ctx context.Context, chainID string) error {
	if chainID == "" {
		return entity.ErrInvalidChainID
	}
	if !o.acquire(chainID) {
		return fmt.Errorf("remove network %s: %w", chainID, entity.ErrRemovalInProgress)
	}
	defer o.release(chainID)

	r := &removal{chainID: chainID}
	log := o.logger.With(zap.String("chainID", chainID))
	log.Info("Removing network")

	for _, step := range o.steps {
		if err := o.runStep(ctx, step, r); err != nil {
			log.Error("Network removal failed", zap.String("step", string(step.name)), zap.Error(err))
			o.metrics.RemovalFinished(step.name, err)
			return &entity.RemovalError{ChainID: chainID, Step: step.name, Err: err}
		}
		log.Debug("Removal step done", zap.String("step", string(step.name)))
	}

	o.metrics.RemovalFinished(entity.StepTeardown, nil)
	log.Info("Network removed")
	return nil
}

func (o *RemovalOrchestrator) runStep(ctx context.Context, step removalStep, r *removal) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	stepCtx, cancel := context.WithTimeout(ctx, o.stepTimeout)
	defer cancel()

	// Collaborators that ignore ctx still cannot hold the pipeline past the deadline.
	done := make(chan error, 1)
	go func() { done <- step.run(stepCtx, r) }()

	select {
	case err := <-done:
		return err
	case <-stepCtx.Done():
		return stepCtx.Err()
	}
}

func (o *RemovalOrchestrator) readSelection(ctx context.Context, r *removal) error {
	selected, err := o.selection.GetSelected(ctx)
	if err != nil {
		return fmt.Errorf("read selected network: %w", err)
	}
	r.selected = selected
	return nil
}

func (o *RemovalOrchestrator) selectFallback(ctx context.Context, r *removal) error {
	if r.selected.ChainID != r.chainID {
		return nil
	}
	o.logger.Info("Selected network is being removed, switching to fallback",
		zap.String("chainID", r.chainID),
		zap.String("fallbackChainID", o.fallback.ChainID))
	if err := o.selection.SetSelected(ctx, o.fallback); err != nil {
		return fmt.Errorf("select fallback network %s: %w", o.fallback.ChainID, err)
	}
	return nil
}

func (o *RemovalOrchestrator) purgeBalances(ctx context.Context, r *removal) error {
	if err := o.balances.PurgeBalances(ctx, r.chainID); err != nil {
		return fmt.Errorf("purge balances: %w", err)
	}
	return nil
}

func (o *RemovalOrchestrator) teardown(ctx context.Context, r *removal) error {
	return o.connections.RemoveNetwork(ctx, r.chainID)
}

func (o *RemovalOrchestrator) acquire(chainID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, busy := o.inFlight[chainID]; busy {
		return false
	}
	o.inFlight[chainID] = struct{}{}
	return true
}

func (o *RemovalOrchestrator) release(chainID string) {
	o.mu.Lock()
	delete(o.inFlight, chainID)
	o.mu.Unlock()
}
