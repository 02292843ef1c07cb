package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/eventsplit/pkg/api"
)

func balanceFor(t *testing.T, balances []*api.Balance, id string) *api.Balance {
	t.Helper()
	for _, b := range balances {
		if b.ParticipantID == id {
			return b
		}
	}
	t.Fatalf("no balance for %s", id)
	return nil
}

func TestSettlementService_Scenarios(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	createUsers(t, c, "A", "B", "C")
	eventID := createEvent(t, c, "A", "B", "C")

	// A pays 30 split equally.
	addExpense(t, c, eventID, "A", "30")

	balances, err := c.settlements.GetBalances(ctx, as("B", &api.GetBalancesRequest{EventID: eventID}))
	require.NoError(t, err)
	require.Len(t, balances.Msg.Balances, 3)
	a := balanceFor(t, balances.Msg.Balances, "A")
	requireDecimal(t, "20", a.NetBalance)
	requireDecimal(t, "10", a.OwedBy["B"])
	requireDecimal(t, "10", a.OwedBy["C"])
	requireDecimal(t, "-10", balanceFor(t, balances.Msg.Balances, "B").NetBalance)
	requireDecimal(t, "10", balanceFor(t, balances.Msg.Balances, "C").OwesTo["A"])

	// B pays 15 split equally.
	addExpense(t, c, eventID, "B", "15")

	suggestions, err := c.settlements.SuggestSettlements(ctx, as("C", &api.SuggestSettlementsRequest{EventID: eventID}))
	require.NoError(t, err)
	require.Len(t, suggestions.Msg.Settlements, 1)
	s := suggestions.Msg.Settlements[0]
	assert.Equal(t, "C", s.From)
	assert.Equal(t, "A", s.To)
	assert.Equal(t, "A", s.ToName)
	requireDecimal(t, "15", s.Amount)
}

func TestSettlementService_SingleParticipant(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	eventID := createEvent(t, c, "A")

	addExpense(t, c, eventID, "A", "20")

	balances, err := c.settlements.GetBalances(ctx, as("A", &api.GetBalancesRequest{EventID: eventID}))
	require.NoError(t, err)
	assert.Empty(t, balances.Msg.Balances)

	suggestions, err := c.settlements.SuggestSettlements(ctx, as("A", &api.SuggestSettlementsRequest{EventID: eventID}))
	require.NoError(t, err)
	assert.Empty(t, suggestions.Msg.Settlements)
}

func TestRecordSettlement_NetsBalances(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	eventID := createEvent(t, c, "A", "B", "C")
	addExpense(t, c, eventID, "A", "30")

	recorded, err := c.settlements.RecordSettlement(ctx, as("B", &api.RecordSettlementRequest{
		EventID:    eventID,
		FromUserID: "B",
		ToUserID:   "A",
		Amount:     money("10"),
		Note:       " cash ",
	}))
	require.NoError(t, err)
	settlement := recorded.Msg.Settlement
	assert.Equal(t, "cash", settlement.Note)
	assert.Equal(t, settlement.CreatedAt, settlement.SettledAt)

	balances, err := c.settlements.GetBalances(ctx, as("A", &api.GetBalancesRequest{EventID: eventID}))
	require.NoError(t, err)
	require.Len(t, balances.Msg.Balances, 2, "B is settled")
	requireDecimal(t, "10", balanceFor(t, balances.Msg.Balances, "A").NetBalance)

	suggestions, err := c.settlements.SuggestSettlements(ctx, as("A", &api.SuggestSettlementsRequest{EventID: eventID}))
	require.NoError(t, err)
	require.Len(t, suggestions.Msg.Settlements, 1)
	assert.Equal(t, "C", suggestions.Msg.Settlements[0].From)

	list, err := c.settlements.ListSettlements(ctx, as("C", &api.ListSettlementsRequest{EventID: eventID}))
	require.NoError(t, err)
	require.Len(t, list.Msg.Settlements, 1)

	// Removing the settlement restores the debt.
	_, err = c.settlements.DeleteSettlement(ctx, as("A", &api.DeleteSettlementRequest{SettlementID: settlement.ID}))
	require.NoError(t, err)

	balances, err = c.settlements.GetBalances(ctx, as("A", &api.GetBalancesRequest{EventID: eventID}))
	require.NoError(t, err)
	requireDecimal(t, "20", balanceFor(t, balances.Msg.Balances, "A").NetBalance)
}

func TestRecordSettlement_Rejections(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	eventID := createEvent(t, c, "A", "B", "C")

	tests := []struct {
		name string
		user string
		req  *api.RecordSettlementRequest
		want connect.Code
	}{
		{
			name: "self settlement",
			user: "B",
			req:  &api.RecordSettlementRequest{EventID: eventID, FromUserID: "B", ToUserID: "B", Amount: money("5")},
			want: connect.CodeInvalidArgument,
		},
		{
			name: "non-positive amount",
			user: "B",
			req:  &api.RecordSettlementRequest{EventID: eventID, FromUserID: "B", ToUserID: "A", Amount: money("-5")},
			want: connect.CodeInvalidArgument,
		},
		{
			name: "recipient not attending",
			user: "B",
			req:  &api.RecordSettlementRequest{EventID: eventID, FromUserID: "B", ToUserID: "Z", Amount: money("5")},
			want: connect.CodeInvalidArgument,
		},
		{
			name: "third party",
			user: "C",
			req:  &api.RecordSettlementRequest{EventID: eventID, FromUserID: "B", ToUserID: "A", Amount: money("5")},
			want: connect.CodePermissionDenied,
		},
		{
			name: "outsider",
			user: "Z",
			req:  &api.RecordSettlementRequest{EventID: eventID, FromUserID: "B", ToUserID: "A", Amount: money("5")},
			want: connect.CodePermissionDenied,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.settlements.RecordSettlement(ctx, as(tt.user, tt.req))
			requireCode(t, tt.want, err)
		})
	}

	_, err := c.settlements.DeleteSettlement(ctx, as("A", &api.DeleteSettlementRequest{SettlementID: "missing"}))
	requireCode(t, connect.CodeNotFound, err)
}

func TestGetBalances_RequiresAttendance(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	eventID := createEvent(t, c, "A", "B")

	_, err := c.events.RespondToEvent(ctx, as("Z", &api.RespondToEventRequest{EventID: eventID, Status: "maybe"}))
	require.NoError(t, err)

	_, err = c.settlements.GetBalances(ctx, as("Z", &api.GetBalancesRequest{EventID: eventID}))
	requireCode(t, connect.CodePermissionDenied, err)
}

func TestRecordSettlement_SettlingSuggestionsClearsBalances(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	eventID := createEvent(t, c, "A", "B", "C")
	addExpense(t, c, eventID, "A", "30")
	addExpense(t, c, eventID, "B", "15")

	suggestions, err := c.settlements.SuggestSettlements(ctx, as("A", &api.SuggestSettlementsRequest{EventID: eventID}))
	require.NoError(t, err)
	for _, s := range suggestions.Msg.Settlements {
		_, err := c.settlements.RecordSettlement(ctx, as(s.From, &api.RecordSettlementRequest{
			EventID:    eventID,
			FromUserID: s.From,
			ToUserID:   s.To,
			Amount:     s.Amount,
		}))
		require.NoError(t, err)
	}

	balances, err := c.settlements.GetBalances(ctx, as("A", &api.GetBalancesRequest{EventID: eventID}))
	require.NoError(t, err)
	assert.Empty(t, balances.Msg.Balances)

	after, err := c.settlements.SuggestSettlements(ctx, as("A", &api.SuggestSettlementsRequest{EventID: eventID}))
	require.NoError(t, err)
	assert.Empty(t, after.Msg.Settlements)
}

func TestRecordSettlement_GrossBalancesWhenNettingIsOff(t *testing.T) {
	c := setupTestServerWithNetting(t, false)
	ctx := context.Background()
	eventID := createEvent(t, c, "A", "B", "C")
	addExpense(t, c, eventID, "A", "30")

	_, err := c.settlements.RecordSettlement(ctx, as("B", &api.RecordSettlementRequest{
		EventID:    eventID,
		FromUserID: "B",
		ToUserID:   "A",
		Amount:     money("10"),
	}))
	require.NoError(t, err)

	balances, err := c.settlements.GetBalances(ctx, as("A", &api.GetBalancesRequest{EventID: eventID}))
	require.NoError(t, err)
	require.Len(t, balances.Msg.Balances, 3)
	a := balanceFor(t, balances.Msg.Balances, "A")
	requireDecimal(t, "20", a.NetBalance)
	requireDecimal(t, "10", a.OwedBy["B"])
	requireDecimal(t, "-10", balanceFor(t, balances.Msg.Balances, "B").NetBalance)

	list, err := c.settlements.ListSettlements(ctx, as("A", &api.ListSettlementsRequest{EventID: eventID}))
	require.NoError(t, err)
	assert.Len(t, list.Msg.Settlements, 1)
}
