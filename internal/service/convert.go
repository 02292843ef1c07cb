package service

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/eventsplit/internal/calculator"
	"github.com/mmynk/eventsplit/internal/models"
	"github.com/mmynk/eventsplit/pkg/api"
)

func userToAPI(u *models.User) *api.User {
	return &api.User{ID: u.ID, Email: u.Email, DisplayName: u.DisplayName}
}

func eventToAPI(e *models.Event) *api.Event {
	return &api.Event{
		ID:          e.ID,
		HostID:      e.HostID,
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		StartsAt:    e.StartsAt,
		CreatedAt:   e.CreatedAt,
	}
}

func attendeeToAPI(r *models.RSVP, name string) *api.Attendee {
	return &api.Attendee{UserID: r.UserID, DisplayName: name, Status: string(r.Status), PlusOnes: r.PlusOnes}
}

func sharesToModel(shares map[string]calculator.Share) map[string]models.SplitShare {
	out := make(map[string]models.SplitShare, len(shares))
	for id, s := range shares {
		out[id] = models.SplitShare{Amount: s.Amount, Percentage: s.Percentage}
	}
	return out
}

func shareToAPI(amount decimal.Decimal, pct decimal.NullDecimal) api.SplitShare {
	share := api.SplitShare{Amount: amount}
	if pct.Valid {
		p := pct.Decimal
		share.Percentage = &p
	}
	return share
}

func expenseToAPI(e *models.Expense) *api.Expense {
	details := make(map[string]api.SplitShare, len(e.SplitDetails))
	for id, s := range e.SplitDetails {
		details[id] = shareToAPI(s.Amount, s.Percentage)
	}
	return &api.Expense{
		ID:           e.ID,
		EventID:      e.EventID,
		PaidBy:       e.PaidBy,
		Description:  e.Description,
		Amount:       e.Amount,
		SplitType:    e.SplitType,
		SplitDetails: details,
		Category:     e.Category,
		ReceiptURL:   e.ReceiptURL,
		CreatedBy:    e.CreatedBy,
		CreatedAt:    e.CreatedAt,
	}
}

func settlementToAPI(s *models.Settlement) *api.Settlement {
	return &api.Settlement{
		ID:            s.ID,
		EventID:       s.EventID,
		FromUserID:    s.FromUserID,
		ToUserID:      s.ToUserID,
		Amount:        s.Amount,
		Note:          s.Note,
		ProofImageURL: s.ProofImageURL,
		SettledAt:     s.SettledAt,
		CreatedAt:     s.CreatedAt,
		CreatedBy:     s.CreatedBy,
	}
}

func balanceToAPI(b calculator.Balance) *api.Balance {
	return &api.Balance{
		ParticipantID: b.ParticipantID,
		Name:          b.Name,
		NetBalance:    b.NetBalance,
		OwedBy:        b.OwedBy,
		OwesTo:        b.OwesTo,
	}
}

func expensesForBalance(expenses []*models.Expense) []calculator.ExpenseForBalance {
	out := make([]calculator.ExpenseForBalance, len(expenses))
	for i, e := range expenses {
		shares := make(map[string]calculator.Share, len(e.SplitDetails))
		for id, s := range e.SplitDetails {
			shares[id] = calculator.Share{Amount: s.Amount, Percentage: s.Percentage}
		}
		out[i] = calculator.ExpenseForBalance{PayerID: e.PaidBy, Amount: e.Amount, SplitDetails: shares}
	}
	return out
}

func settlementsForBalance(settlements []*models.Settlement) []calculator.SettlementForBalance {
	out := make([]calculator.SettlementForBalance, len(settlements))
	for i, s := range settlements {
		out[i] = calculator.SettlementForBalance{FromUserID: s.FromUserID, ToUserID: s.ToUserID, Amount: s.Amount}
	}
	return out
}

func expensesForSummary(expenses []*models.Expense) []calculator.ExpenseForSummary {
	out := make([]calculator.ExpenseForSummary, len(expenses))
	for i, e := range expenses {
		out[i] = calculator.ExpenseForSummary{PayerID: e.PaidBy, Amount: e.Amount, Category: e.Category}
	}
	return out
}

// pollToAPI tallies a poll's votes as seen by viewer.
func pollToAPI(p *models.Poll, viewer string) *api.Poll {
	tally := p.Tally()
	out := &api.Poll{
		ID:        p.ID,
		EventID:   p.EventID,
		CreatedBy: p.CreatedBy,
		Question:  p.Question,
		Options:   make([]*api.PollOption, len(p.Options)),
		Active:    p.Active,
		CreatedAt: p.CreatedAt,
	}
	for i, label := range p.Options {
		out.Options[i] = &api.PollOption{Label: label, Votes: tally[i]}
	}
	for _, v := range p.Votes {
		if v.UserID == viewer {
			choice := v.OptionIndex
			out.MyVote = &choice
		}
	}
	return out
}
