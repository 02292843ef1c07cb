package calculator

import "errors"

// Errors returned while resolving a split at expense creation time.
// Read-path functions (ComputeBalances, SuggestSettlements) never return them.
var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidSplit       = errors.New("invalid split")
	ErrUnknownParticipant = errors.New("unknown participant")
)
