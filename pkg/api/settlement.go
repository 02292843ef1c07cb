package api

import "github.com/shopspring/decimal"

// Balance is a participant's position in an event.
// A positive NetBalance means the participant is owed money.
type Balance struct {
	ParticipantID string                     `json:"participantId"`
	Name          string                     `json:"name"`
	NetBalance    decimal.Decimal            `json:"netBalance"`
	OwedBy        map[string]decimal.Decimal `json:"owedBy"`
	OwesTo        map[string]decimal.Decimal `json:"owesTo"`
}

// SuggestedSettlement is a proposed transfer; nothing is stored.
type SuggestedSettlement struct {
	From     string          `json:"from"`
	FromName string          `json:"fromName"`
	To       string          `json:"to"`
	ToName   string          `json:"toName"`
	Amount   decimal.Decimal `json:"amount"`
}

type Settlement struct {
	ID            string          `json:"id"`
	EventID       string          `json:"eventId"`
	FromUserID    string          `json:"fromUserId"`
	ToUserID      string          `json:"toUserId"`
	Amount        decimal.Decimal `json:"amount"`
	Note          string          `json:"note,omitempty"`
	ProofImageURL string          `json:"proofImageUrl,omitempty"`
	SettledAt     int64           `json:"settledAt"`
	CreatedAt     int64           `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
}

type GetBalancesRequest struct {
	EventID string `json:"eventId"`
}

type GetBalancesResponse struct {
	Balances []*Balance `json:"balances"`
}

type SuggestSettlementsRequest struct {
	EventID string `json:"eventId"`
}

type SuggestSettlementsResponse struct {
	Settlements []*SuggestedSettlement `json:"settlements"`
}

// RecordSettlementRequest confirms a payment. SettledAt defaults to now.
type RecordSettlementRequest struct {
	EventID       string          `json:"eventId"`
	FromUserID    string          `json:"fromUserId"`
	ToUserID      string          `json:"toUserId"`
	Amount        decimal.Decimal `json:"amount"`
	Note          string          `json:"note,omitempty"`
	ProofImageURL string          `json:"proofImageUrl,omitempty"`
	SettledAt     int64           `json:"settledAt,omitempty"`
}

type RecordSettlementResponse struct {
	Settlement *Settlement `json:"settlement"`
}

type ListSettlementsRequest struct {
	EventID string `json:"eventId"`
}

type ListSettlementsResponse struct {
	Settlements []*Settlement `json:"settlements"`
}

type DeleteSettlementRequest struct {
	SettlementID string `json:"settlementId"`
}

type DeleteSettlementResponse struct{}
