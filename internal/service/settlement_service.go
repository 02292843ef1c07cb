package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/eventsplit/internal/calculator"
	"github.com/mmynk/eventsplit/internal/metrics"
	"github.com/mmynk/eventsplit/internal/models"
	"github.com/mmynk/eventsplit/internal/storage"
	"github.com/mmynk/eventsplit/pkg/api"
	"github.com/mmynk/eventsplit/pkg/api/apiconnect"
)

// SettlementService implements the Connect SettlementService.
type SettlementService struct {
	apiconnect.UnimplementedSettlementServiceHandler
	store          storage.Store
	logger         *slog.Logger
	netSettlements bool
}

// NewSettlementService creates a SettlementService. When netSettlements is
// set, recorded settlements reduce the balances they pay off.
func NewSettlementService(store storage.Store, logger *slog.Logger, netSettlements bool) *SettlementService {
	return &SettlementService{store: store, logger: logger, netSettlements: netSettlements}
}

// GetBalances returns every participant with a non-zero position.
func (s *SettlementService) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	userID, err := actorID(ctx)
	if err != nil {
		return nil, err
	}

	_, balances, err := s.balances(ctx, req.Msg.EventID, userID)
	if err != nil {
		return nil, connectError(err)
	}

	resp := &api.GetBalancesResponse{Balances: make([]*api.Balance, len(balances))}
	for i, b := range balances {
		resp.Balances[i] = balanceToAPI(b)
	}
	return connect.NewResponse(resp), nil
}

// SuggestSettlements proposes a short list of transfers that clears every
// balance. Nothing is stored.
func (s *SettlementService) SuggestSettlements(ctx context.Context, req *connect.Request[api.SuggestSettlementsRequest]) (*connect.Response[api.SuggestSettlementsResponse], error) {
	userID, err := actorID(ctx)
	if err != nil {
		return nil, err
	}

	r, balances, err := s.balances(ctx, req.Msg.EventID, userID)
	if err != nil {
		return nil, connectError(err)
	}

	suggestions := calculator.SuggestSettlements(balances)
	metrics.SuggestionSize(len(suggestions))

	resp := &api.SuggestSettlementsResponse{Settlements: make([]*api.SuggestedSettlement, len(suggestions))}
	for i, t := range suggestions {
		resp.Settlements[i] = &api.SuggestedSettlement{
			From:     t.From,
			FromName: r.name(t.From),
			To:       t.To,
			ToName:   r.name(t.To),
			Amount:   t.Amount,
		}
	}
	return connect.NewResponse(resp), nil
}

// RecordSettlement stores a confirmed payment between two participants.
// Either party or the event host may record it.
func (s *SettlementService) RecordSettlement(ctx context.Context, req *connect.Request[api.RecordSettlementRequest]) (*connect.Response[api.RecordSettlementResponse], error) {
	userID, err := actorID(ctx)
	if err != nil {
		return nil, err
	}

	r, err := loadRoster(ctx, s.store, req.Msg.EventID, userID)
	if err != nil {
		return nil, connectError(err)
	}

	msg := req.Msg
	if msg.FromUserID == msg.ToUserID {
		return nil, connectError(invalidf("cannot settle with yourself"))
	}
	if err := calculator.ValidateRoster(r.participants, msg.FromUserID, []string{msg.ToUserID}); err != nil {
		return nil, connectError(err)
	}
	if err := calculator.ValidateAmount(msg.Amount); err != nil {
		return nil, connectError(err)
	}
	if userID != msg.FromUserID && userID != msg.ToUserID && userID != r.event.HostID {
		return nil, connectError(errNotAllowed)
	}

	settlement := &models.Settlement{
		EventID:       r.event.ID,
		FromUserID:    msg.FromUserID,
		ToUserID:      msg.ToUserID,
		Amount:        msg.Amount,
		Note:          strings.TrimSpace(msg.Note),
		ProofImageURL: msg.ProofImageURL,
		SettledAt:     msg.SettledAt,
		CreatedBy:     userID,
	}
	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		s.logger.Error("RecordSettlement failed", "event_id", r.event.ID, "error", err)
		return nil, connectError(err)
	}
	metrics.SettlementRecorded()

	s.logger.Info("Settlement recorded",
		"settlement_id", settlement.ID,
		"event_id", settlement.EventID,
		"from", settlement.FromUserID,
		"to", settlement.ToUserID,
		"amount", settlement.Amount,
	)
	return connect.NewResponse(&api.RecordSettlementResponse{Settlement: settlementToAPI(settlement)}), nil
}

// ListSettlements returns an event's recorded settlements, newest first.
func (s *SettlementService) ListSettlements(ctx context.Context, req *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	userID, err := actorID(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := loadRoster(ctx, s.store, req.Msg.EventID, userID); err != nil {
		return nil, connectError(err)
	}

	settlements, err := s.store.ListSettlementsByEvent(ctx, req.Msg.EventID)
	if err != nil {
		s.logger.Error("ListSettlements failed", "event_id", req.Msg.EventID, "error", err)
		return nil, connectError(err)
	}

	resp := &api.ListSettlementsResponse{Settlements: make([]*api.Settlement, len(settlements))}
	for i, st := range settlements {
		resp.Settlements[i] = settlementToAPI(st)
	}
	return connect.NewResponse(resp), nil
}

// DeleteSettlement removes a settlement. Only whoever recorded it or the
// event host may.
func (s *SettlementService) DeleteSettlement(ctx context.Context, req *connect.Request[api.DeleteSettlementRequest]) (*connect.Response[api.DeleteSettlementResponse], error) {
	userID, err := actorID(ctx)
	if err != nil {
		return nil, err
	}

	settlement, err := s.store.GetSettlement(ctx, req.Msg.SettlementID)
	if err != nil {
		return nil, connectError(err)
	}
	event, err := s.store.GetEvent(ctx, settlement.EventID)
	if err != nil {
		return nil, connectError(err)
	}
	if userID != settlement.CreatedBy && userID != event.HostID {
		return nil, connectError(errNotAllowed)
	}

	if err := s.store.DeleteSettlement(ctx, settlement.ID); err != nil {
		s.logger.Error("DeleteSettlement failed", "settlement_id", settlement.ID, "error", err)
		return nil, connectError(err)
	}

	s.logger.Info("Settlement deleted", "settlement_id", settlement.ID, "event_id", settlement.EventID)
	return connect.NewResponse(&api.DeleteSettlementResponse{}), nil
}

// balances recomputes an event's balances from scratch.
func (s *SettlementService) balances(ctx context.Context, eventID, userID string) (*roster, []calculator.Balance, error) {
	r, err := loadRoster(ctx, s.store, eventID, userID)
	if err != nil {
		return nil, nil, err
	}

	expenses, err := s.store.ListExpensesByEvent(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}

	if !s.netSettlements {
		return r, calculator.ComputeBalances(r.participants, expensesForBalance(expenses)), nil
	}

	settlements, err := s.store.ListSettlementsByEvent(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}
	return r, calculator.ComputeNetBalances(r.participants, expensesForBalance(expenses), settlementsForBalance(settlements)), nil
}
