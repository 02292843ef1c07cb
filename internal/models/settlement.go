package models

import "github.com/shopspring/decimal"

// Settlement represents a confirmed payment between event participants.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// EventID is the event this settlement belongs to.
	EventID string

	// FromUserID is the user who paid (debtor settling up).
	FromUserID string

	// ToUserID is the user who received payment (creditor being paid).
	ToUserID string

	// Amount is the payment amount.
	Amount decimal.Decimal

	// Note is an optional description for the settlement.
	Note string

	// ProofImageURL optionally links to a payment screenshot.
	ProofImageURL string

	// SettledAt is the Unix timestamp when the money changed hands.
	// Defaults to CreatedAt.
	SettledAt int64

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64

	// CreatedBy is the user ID who recorded this settlement.
	CreatedBy string
}
