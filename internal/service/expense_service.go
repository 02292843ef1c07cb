package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/eventsplit/internal/calculator"
	"github.com/mmynk/eventsplit/internal/metrics"
	"github.com/mmynk/eventsplit/internal/models"
	"github.com/mmynk/eventsplit/internal/storage"
	"github.com/mmynk/eventsplit/pkg/api"
	"github.com/mmynk/eventsplit/pkg/api/apiconnect"
)

// ExpenseService implements the Connect ExpenseService.
type ExpenseService struct {
	apiconnect.UnimplementedExpenseServiceHandler
	store  storage.Store
	logger *slog.Logger
}

// NewExpenseService creates a new ExpenseService with the given storage backend.
func NewExpenseService(store storage.Store, logger *slog.Logger) *ExpenseService {
	return &ExpenseService{store: store, logger: logger}
}

// PreviewSplit computes shares without storing anything. Without an event it
// splits among exactly the listed participants.
func (s *ExpenseService) PreviewSplit(ctx context.Context, req *connect.Request[api.PreviewSplitRequest]) (*connect.Response[api.PreviewSplitResponse], error) {
	userID, err := actorID(ctx)
	if err != nil {
		return nil, err
	}

	rule, err := calculator.ParseSplitRule(req.Msg.SplitType, req.Msg.Values)
	if err != nil {
		return nil, rejectSplit(err)
	}

	participants := req.Msg.Participants
	if req.Msg.EventID != "" {
		r, err := loadRoster(ctx, s.store, req.Msg.EventID, userID)
		if err != nil {
			return nil, connectError(err)
		}
		participants = selectParticipants(r, participants, req.Msg.Values)
		if err := calculator.ValidateRoster(r.participants, userID, participants); err != nil {
			return nil, rejectSplit(err)
		}
	}

	shares, err := calculator.ComputeSplit(req.Msg.Amount, participants, rule)
	if err != nil {
		return nil, rejectSplit(err)
	}

	resp := &api.PreviewSplitResponse{
		SplitType: string(rule.Type()),
		Shares:    make(map[string]api.SplitShare, len(shares)),
	}
	for id, share := range shares {
		resp.Shares[id] = shareToAPI(share.Amount, share.Percentage)
	}
	return connect.NewResponse(resp), nil
}

// CreateExpense validates the split against the event roster and stores it.
func (s *ExpenseService) CreateExpense(ctx context.Context, req *connect.Request[api.CreateExpenseRequest]) (*connect.Response[api.CreateExpenseResponse], error) {
	userID, err := actorID(ctx)
	if err != nil {
		return nil, err
	}

	description := strings.TrimSpace(req.Msg.Description)
	if description == "" {
		return nil, connectError(invalidf("description is required"))
	}

	r, err := loadRoster(ctx, s.store, req.Msg.EventID, userID)
	if err != nil {
		return nil, connectError(err)
	}

	rule, err := calculator.ParseSplitRule(req.Msg.SplitType, req.Msg.Values)
	if err != nil {
		return nil, rejectSplit(err)
	}

	payer := req.Msg.PaidBy
	if payer == "" {
		payer = userID
	}
	participants := selectParticipants(r, req.Msg.Participants, req.Msg.Values)
	if err := calculator.ValidateRoster(r.participants, payer, participants); err != nil {
		return nil, rejectSplit(err)
	}

	shares, err := calculator.ComputeSplit(req.Msg.Amount, participants, rule)
	if err != nil {
		return nil, rejectSplit(err)
	}

	expense := &models.Expense{
		EventID:      r.event.ID,
		PaidBy:       payer,
		Description:  description,
		Amount:       req.Msg.Amount,
		SplitType:    string(rule.Type()),
		SplitDetails: sharesToModel(shares),
		Category:     strings.ToLower(strings.TrimSpace(req.Msg.Category)),
		ReceiptURL:   req.Msg.ReceiptURL,
		CreatedBy:    userID,
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		s.logger.Error("CreateExpense failed", "event_id", r.event.ID, "error", err)
		return nil, connectError(err)
	}
	metrics.ExpenseCreated(expense.SplitType)

	s.logger.Info("Expense created",
		"expense_id", expense.ID,
		"event_id", expense.EventID,
		"amount", expense.Amount,
		"split_type", expense.SplitType,
	)
	return connect.NewResponse(&api.CreateExpenseResponse{Expense: expenseToAPI(expense)}), nil
}

// ListExpenses returns an event's expenses, oldest first.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	userID, err := actorID(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := loadRoster(ctx, s.store, req.Msg.EventID, userID); err != nil {
		return nil, connectError(err)
	}

	expenses, err := s.store.ListExpensesByEvent(ctx, req.Msg.EventID)
	if err != nil {
		s.logger.Error("ListExpenses failed", "event_id", req.Msg.EventID, "error", err)
		return nil, connectError(err)
	}

	resp := &api.ListExpensesResponse{Expenses: make([]*api.Expense, len(expenses))}
	for i, e := range expenses {
		resp.Expenses[i] = expenseToAPI(e)
	}
	return connect.NewResponse(resp), nil
}

// DeleteExpense removes an expense. Only its creator or the event host may.
func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	userID, err := actorID(ctx)
	if err != nil {
		return nil, err
	}

	expense, err := s.store.GetExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		return nil, connectError(err)
	}
	event, err := s.store.GetEvent(ctx, expense.EventID)
	if err != nil {
		return nil, connectError(err)
	}
	if userID != expense.CreatedBy && userID != event.HostID {
		return nil, connectError(errNotAllowed)
	}

	if err := s.store.DeleteExpense(ctx, expense.ID); err != nil {
		s.logger.Error("DeleteExpense failed", "expense_id", expense.ID, "error", err)
		return nil, connectError(err)
	}

	s.logger.Info("Expense deleted", "expense_id", expense.ID, "event_id", expense.EventID)
	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}

// GetExpenseSummary totals an event's spending by category and payer.
func (s *ExpenseService) GetExpenseSummary(ctx context.Context, req *connect.Request[api.GetExpenseSummaryRequest]) (*connect.Response[api.GetExpenseSummaryResponse], error) {
	userID, err := actorID(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := loadRoster(ctx, s.store, req.Msg.EventID, userID); err != nil {
		return nil, connectError(err)
	}

	expenses, err := s.store.ListExpensesByEvent(ctx, req.Msg.EventID)
	if err != nil {
		return nil, connectError(err)
	}

	summary := calculator.SummarizeExpenses(expensesForSummary(expenses))
	return connect.NewResponse(&api.GetExpenseSummaryResponse{
		Total:      summary.Total,
		Count:      summary.Count,
		ByCategory: summary.ByCategory,
		ByPayer:    summary.ByPayer,
	}), nil
}

// selectParticipants picks who shares an expense when the request names no
// one: everyone with a value for percentage and fixed splits, otherwise the
// whole roster.
func selectParticipants(r *roster, requested []string, values map[string]decimal.Decimal) []string {
	if len(requested) > 0 {
		return requested
	}
	if len(values) == 0 {
		return r.ids()
	}
	var selected []string
	for _, id := range r.ids() {
		if _, ok := values[id]; ok {
			selected = append(selected, id)
		}
	}
	return selected
}

// rejectSplit counts a refused split and maps it to InvalidArgument.
func rejectSplit(err error) error {
	reason := "invalid_split"
	switch {
	case errors.Is(err, calculator.ErrInvalidAmount):
		reason = "invalid_amount"
	case errors.Is(err, calculator.ErrUnknownParticipant):
		reason = "unknown_participant"
	}
	metrics.SplitRejected(reason)
	return connectError(err)
}
