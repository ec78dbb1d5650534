package service

import (
	"network_registry/internal/app/port"

	"go.uber.org/zap"
)

// errorBroadcasterImpl forwards connectivity-level error signals to the registry.
type errorBroadcasterImpl struct {
	registry port.NetworkRegistry
	logger   *zap.Logger
}

// NewErrorBroadcaster creates a broadcaster over the given registry.
func NewErrorBroadcaster(registry port.NetworkRegistry, logger *zap.Logger) port.ErrorBroadcaster {
	return &errorBroadcasterImpl{
		registry: registry,
		logger:   logger.Named("ErrorBroadcaster"),
	}
}

// SetAllNetworksError sets the error flag on every chain tracked by the registry.
func (b *errorBroadcasterImpl) SetAllNetworksError(flag bool) {
	b.registry.SetAllNetworksError(flag)
	b.logger.Info("Network error flag broadcast", zap.Bool("networkError", flag))
}
