package provider

import (
	"network_registry/internal/app/port"
	"network_registry/internal/domain/entity"
	"network_registry/internal/infrastructure/walletloader"
)

type walletProviderImpl struct {
	walletFilePath string
	logger         port.Logger
}

// NewWalletProvider creates a new WalletProvider.
// An empty path means no wallets are tracked.
func NewWalletProvider(filePath string, logger port.Logger) port.WalletProvider {
	return &walletProviderImpl{walletFilePath: filePath, logger: logger}
}

// GetWallets loads wallet addresses from the configured file on every call,
// so edits to the file are picked up by the next balance refresh.
func (p *walletProviderImpl) GetWallets() ([]entity.Wallet, error) {
	if p.walletFilePath == "" {
		return nil, nil
	}
	p.logger.Debug("Loading wallets from file", "path", p.walletFilePath)
	wallets, skipped, err := walletloader.LoadWallets(p.walletFilePath)
	if err != nil {
		p.logger.Error("Failed to load wallets", "path", p.walletFilePath, "error", err)
		return nil, err
	}
	if len(skipped) > 0 {
		p.logger.Warn("Skipping invalid wallet addresses", "path", p.walletFilePath, "line_numbers", skipped)
	}
	p.logger.Debug("Wallets loaded successfully", "count", len(wallets), "path", p.walletFilePath)
	return wallets, nil
}
