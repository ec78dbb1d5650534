package entity

import "math/big"

// ObservedBlock is a chain head reported by a block watcher.
type ObservedBlock struct {
	ChainID       string
	Height        uint64
	BaseFeePerGas *big.Int // nil for pre-London blocks
}
