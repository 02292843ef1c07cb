package calculator

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// SuggestedSettlement is a payment that would reduce outstanding debt.
// It is a recommendation only and is never persisted as is.
type SuggestedSettlement struct {
	From   string // Person who owes
	To     string // Person who is owed
	Amount decimal.Decimal
}

type position struct {
	id        string
	remaining decimal.Decimal
}

// SuggestSettlements returns a short list of payments that zeroes every
// balance.
//
// Creditors and debtors are matched greedily, largest first (ties by
// participant ID), which keeps the list at no more than n-1 payments for n
// participants with a non-zero balance.
func SuggestSettlements(balances []Balance) []SuggestedSettlement {
	var creditors, debtors []position
	for _, b := range balances {
		switch {
		case b.NetBalance.GreaterThan(Epsilon):
			creditors = append(creditors, position{id: b.ParticipantID, remaining: b.NetBalance})
		case b.NetBalance.LessThan(Epsilon.Neg()):
			debtors = append(debtors, position{id: b.ParticipantID, remaining: b.NetBalance.Abs()})
		}
	}

	slices.SortStableFunc(creditors, byMagnitude)
	slices.SortStableFunc(debtors, byMagnitude)

	settlements := []SuggestedSettlement{}
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor, creditor := &debtors[i], &creditors[j]

		amount := decimal.Min(debtor.remaining, creditor.remaining)
		settlements = append(settlements, SuggestedSettlement{
			From:   debtor.id,
			To:     creditor.id,
			Amount: amount,
		})

		debtor.remaining = debtor.remaining.Sub(amount)
		creditor.remaining = creditor.remaining.Sub(amount)

		if debtor.remaining.LessThan(Epsilon) {
			i++
		}
		if creditor.remaining.LessThan(Epsilon) {
			j++
		}
	}

	return settlements
}

func byMagnitude(a, b position) int {
	if c := b.remaining.Cmp(a.remaining); c != 0 {
		return c
	}
	return strings.Compare(a.id, b.id)
}
