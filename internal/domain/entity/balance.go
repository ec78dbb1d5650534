package entity

import "math/big"

// Balance represents the amount of a specific token held by a wallet on a network.
type Balance struct {
	WalletAddress    string   `json:"walletAddress" yaml:"walletAddress"`
	ChainID          string   `json:"chainId" yaml:"chainId"`
	TokenAddress     string   `json:"tokenAddress" yaml:"tokenAddress"`
	TokenSymbol      string   `json:"tokenSymbol" yaml:"tokenSymbol"`
	Decimals         uint8    `json:"decimals" yaml:"decimals"`
	IsNative         bool     `json:"isNative" yaml:"isNative"`
	Amount           *big.Int `json:"-" yaml:"amount"`
	FormattedBalance string   `json:"formattedBalance" yaml:"formattedBalance"`
}

// ZeroAddress represents the Ethereum zero address. Native balances are stored under it.
const ZeroAddress = "0x0000000000000000000000000000000000000000"

// Wallet is a tracked wallet address.
type Wallet struct {
	Address string
}
