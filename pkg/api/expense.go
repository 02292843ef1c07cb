package api

import "github.com/shopspring/decimal"

// SplitShare is one participant's part of an expense.
// Percentage is set only for percentage splits.
type SplitShare struct {
	Amount     decimal.Decimal  `json:"amount"`
	Percentage *decimal.Decimal `json:"percentage,omitempty"`
}

type Expense struct {
	ID           string                `json:"id"`
	EventID      string                `json:"eventId"`
	PaidBy       string                `json:"paidBy"`
	Description  string                `json:"description"`
	Amount       decimal.Decimal       `json:"amount"`
	SplitType    string                `json:"splitType"`
	SplitDetails map[string]SplitShare `json:"splitDetails"`
	Category     string                `json:"category,omitempty"`
	ReceiptURL   string                `json:"receiptUrl,omitempty"`
	CreatedBy    string                `json:"createdBy"`
	CreatedAt    int64                 `json:"createdAt"`
}

// PreviewSplitRequest computes shares without storing anything.
// When EventID is set, participants must be attending the event and an
// empty Participants list means every attendee.
//
// Values holds percentages for "percentage" splits and amounts for
// "fixed_amount" splits, keyed by participant ID.
type PreviewSplitRequest struct {
	EventID      string                     `json:"eventId,omitempty"`
	Amount       decimal.Decimal            `json:"amount"`
	SplitType    string                     `json:"splitType"`
	Participants []string                   `json:"participants,omitempty"`
	Values       map[string]decimal.Decimal `json:"values,omitempty"`
}

type PreviewSplitResponse struct {
	SplitType string                `json:"splitType"`
	Shares    map[string]SplitShare `json:"shares"`
}

// CreateExpenseRequest records an expense. PaidBy defaults to the caller and
// an empty Participants list splits among every attendee.
type CreateExpenseRequest struct {
	EventID      string                     `json:"eventId"`
	PaidBy       string                     `json:"paidBy,omitempty"`
	Description  string                     `json:"description"`
	Amount       decimal.Decimal            `json:"amount"`
	SplitType    string                     `json:"splitType"`
	Participants []string                   `json:"participants,omitempty"`
	Values       map[string]decimal.Decimal `json:"values,omitempty"`
	Category     string                     `json:"category,omitempty"`
	ReceiptURL   string                     `json:"receiptUrl,omitempty"`
}

type CreateExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type ListExpensesRequest struct {
	EventID string `json:"eventId"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

type DeleteExpenseRequest struct {
	ExpenseID string `json:"expenseId"`
}

type DeleteExpenseResponse struct{}

type GetExpenseSummaryRequest struct {
	EventID string `json:"eventId"`
}

type GetExpenseSummaryResponse struct {
	Total      decimal.Decimal            `json:"total"`
	Count      int                        `json:"count"`
	ByCategory map[string]decimal.Decimal `json:"byCategory"`
	ByPayer    map[string]decimal.Decimal `json:"byPayer"`
}
