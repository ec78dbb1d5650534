package entity

import "math/big"

// ChainStateEntry is the latest head information known for one chain.
// BlockHeight and BaseFeePerGas are nil until a block has been accepted;
// BaseFeePerGas stays nil for blocks without a fee market.
type ChainStateEntry struct {
	BlockHeight   *uint64  `json:"blockHeight"`
	BaseFeePerGas *big.Int `json:"baseFeePerGas"`
	NetworkError  bool     `json:"networkError"`
}

// Clone returns a deep copy of e.
func (e ChainStateEntry) Clone() ChainStateEntry {
	out := ChainStateEntry{NetworkError: e.NetworkError}
	if e.BlockHeight != nil {
		h := *e.BlockHeight
		out.BlockHeight = &h
	}
	if e.BaseFeePerGas != nil {
		out.BaseFeePerGas = new(big.Int).Set(e.BaseFeePerGas)
	}
	return out
}

// Height returns the stored height, treating an absent height as zero.
func (e ChainStateEntry) Height() uint64 {
	if e.BlockHeight == nil {
		return 0
	}
	return *e.BlockHeight
}
