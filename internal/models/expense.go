package models

import "github.com/shopspring/decimal"

// Expense represents money one participant paid on behalf of others.
// Expenses are immutable once created.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// EventID is the event this expense belongs to.
	EventID string

	// PaidBy is the user who paid.
	PaidBy string

	// Description says what was bought (e.g., "Groceries").
	Description string

	// Amount is the total paid, with two decimal places.
	Amount decimal.Decimal

	// SplitType is "equal", "percentage" or "fixed_amount".
	SplitType string

	// SplitDetails maps each participant to their resolved share.
	// Shares are resolved to amounts at creation regardless of SplitType.
	SplitDetails map[string]SplitShare

	// Category is an optional grouping label (e.g., "food", "transport").
	Category string

	// ReceiptURL optionally links to a receipt image.
	ReceiptURL string

	// CreatedBy is the user who recorded the expense.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// SplitShare is one participant's part of an expense.
type SplitShare struct {
	Amount decimal.Decimal

	// Percentage is the original percentage for percentage splits.
	Percentage decimal.NullDecimal
}
