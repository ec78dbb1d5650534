package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownChain is returned by lookups for a chain the registry does not track.
	ErrUnknownChain = errors.New("unknown chain")
	// ErrInvalidChainID is returned when a chain identifier is empty.
	ErrInvalidChainID = errors.New("invalid chain id")
	// ErrRemovalInProgress is returned when the same chain is already being removed.
	ErrRemovalInProgress = errors.New("removal already in progress")
	// ErrNetworkRemoved is returned when a client is requested for a chain that was torn down.
	ErrNetworkRemoved = errors.New("network removed")
)

// RemovalStep names a step of the network removal workflow.
type RemovalStep string

const (
	StepSelectionCheck RemovalStep = "selection_check"
	StepFallbackSelect RemovalStep = "fallback_select"
	StepBalancePurge   RemovalStep = "balance_purge"
	StepTeardown       RemovalStep = "teardown"
)

// RemovalError reports which step of a network removal failed.
type RemovalError struct {
	ChainID string
	Step    RemovalStep
	Err     error
}

func (e *RemovalError) Error() string {
	return fmt.Sprintf("remove network %s: %s: %v", e.ChainID, e.Step, e.Err)
}

func (e *RemovalError) Unwrap() error { return e.Err }
