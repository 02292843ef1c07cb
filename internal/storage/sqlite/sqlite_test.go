package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/eventsplit/internal/models"
	"github.com/mmynk/eventsplit/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "nested", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestEvent(t *testing.T, store *SQLiteStore, hostID string) *models.Event {
	t.Helper()
	event := &models.Event{HostID: hostID, Title: "Cabin weekend", Location: "Tahoe", StartsAt: 1700000000}
	require.NoError(t, store.CreateEvent(context.Background(), event))
	return event
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSQLiteStore_Users(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := models.NewUser("alice@example.com", "Alice", "hash-a")
	bob := models.NewUser("bob@example.com", "Bob", "hash-b")
	require.NoError(t, store.CreateUser(ctx, alice))
	require.NoError(t, store.CreateUser(ctx, bob))

	t.Run("duplicate email is rejected", func(t *testing.T) {
		err := store.CreateUser(ctx, models.NewUser("alice@example.com", "Other Alice", "hash"))
		require.Error(t, err)
	})

	t.Run("lookup by email and ID", func(t *testing.T) {
		byEmail, err := store.GetUserByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, byEmail.ID)
		assert.Equal(t, "hash-a", byEmail.PasswordHash)

		byID, err := store.GetUserByID(ctx, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, "Bob", byID.DisplayName)
	})

	t.Run("missing users report ErrNotFound", func(t *testing.T) {
		_, err := store.GetUserByEmail(ctx, "nobody@example.com")
		require.ErrorIs(t, err, storage.ErrNotFound)

		_, err = store.GetUserByID(ctx, "missing")
		require.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("batch lookup omits unknown IDs", func(t *testing.T) {
		users, err := store.GetUsersByIDs(ctx, []string{alice.ID, "missing", bob.ID})
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, "Alice", users[alice.ID].DisplayName)
		assert.Equal(t, "Bob", users[bob.ID].DisplayName)

		empty, err := store.GetUsersByIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})
}

func TestSQLiteStore_Events(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	event := newTestEvent(t, store, "host")
	require.NotEmpty(t, event.ID)
	require.NotZero(t, event.CreatedAt)

	t.Run("GetEvent round-trips fields", func(t *testing.T) {
		got, err := store.GetEvent(ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, "host", got.HostID)
		assert.Equal(t, "Cabin weekend", got.Title)
		assert.Equal(t, "Tahoe", got.Location)
		assert.Equal(t, int64(1700000000), got.StartsAt)

		_, err = store.GetEvent(ctx, "missing")
		require.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("host is RSVPd going", func(t *testing.T) {
		rsvps, err := store.ListRSVPs(ctx, event.ID)
		require.NoError(t, err)
		require.Len(t, rsvps, 1)
		assert.Equal(t, "host", rsvps[0].UserID)
		assert.Equal(t, models.RSVPGoing, rsvps[0].Status)
	})

	t.Run("UpsertRSVP replaces earlier answers and keeps order", func(t *testing.T) {
		require.NoError(t, store.UpsertRSVP(ctx, &models.RSVP{EventID: event.ID, UserID: "guest", Status: models.RSVPMaybe}))
		require.NoError(t, store.UpsertRSVP(ctx, &models.RSVP{EventID: event.ID, UserID: "guest", Status: models.RSVPGoing, PlusOnes: 2}))

		rsvps, err := store.ListRSVPs(ctx, event.ID)
		require.NoError(t, err)
		require.Len(t, rsvps, 2)
		assert.Equal(t, "host", rsvps[0].UserID)
		assert.Equal(t, "guest", rsvps[1].UserID)
		assert.Equal(t, models.RSVPGoing, rsvps[1].Status)
		assert.Equal(t, 2, rsvps[1].PlusOnes)
	})

	t.Run("ListEventsForUser covers hosts and attendees", func(t *testing.T) {
		other := newTestEvent(t, store, "someone-else")
		require.NoError(t, store.UpsertRSVP(ctx, &models.RSVP{EventID: other.ID, UserID: "skeptic", Status: models.RSVPNotGoing}))

		hosted, err := store.ListEventsForUser(ctx, "host")
		require.NoError(t, err)
		require.Len(t, hosted, 1)
		assert.Equal(t, event.ID, hosted[0].ID)

		attending, err := store.ListEventsForUser(ctx, "guest")
		require.NoError(t, err)
		require.Len(t, attending, 1)

		declined, err := store.ListEventsForUser(ctx, "skeptic")
		require.NoError(t, err)
		assert.Empty(t, declined)
	})
}

func TestSQLiteStore_Expenses(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	event := newTestEvent(t, store, "alice")

	first := &models.Expense{
		EventID:     event.ID,
		PaidBy:      "alice",
		Description: "Groceries",
		Amount:      money("100"),
		SplitType:   "equal",
		Category:    "food",
		CreatedBy:   "alice",
		CreatedAt:   100,
		SplitDetails: map[string]models.SplitShare{
			"alice": {Amount: money("33.34")},
			"bob":   {Amount: money("33.33")},
			"carol": {Amount: money("33.33")},
		},
	}
	second := &models.Expense{
		EventID:     event.ID,
		PaidBy:      "bob",
		Description: "Gas",
		Amount:      money("40.50"),
		SplitType:   "percentage",
		CreatedBy:   "bob",
		CreatedAt:   200,
		SplitDetails: map[string]models.SplitShare{
			"alice": {Amount: money("30.38"), Percentage: decimal.NewNullDecimal(money("75"))},
			"bob":   {Amount: money("10.12"), Percentage: decimal.NewNullDecimal(money("25"))},
		},
	}
	require.NoError(t, store.CreateExpense(ctx, second))
	require.NoError(t, store.CreateExpense(ctx, first))
	require.NotEmpty(t, first.ID)

	t.Run("GetExpense round-trips amounts exactly", func(t *testing.T) {
		got, err := store.GetExpense(ctx, second.ID)
		require.NoError(t, err)
		assert.True(t, money("40.50").Equal(got.Amount))
		assert.Empty(t, got.Category)
		require.Len(t, got.SplitDetails, 2)
		assert.True(t, money("30.38").Equal(got.SplitDetails["alice"].Amount))
		require.True(t, got.SplitDetails["alice"].Percentage.Valid)
		assert.True(t, money("75").Equal(got.SplitDetails["alice"].Percentage.Decimal))
	})

	t.Run("equal splits store no percentage", func(t *testing.T) {
		got, err := store.GetExpense(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "food", got.Category)
		for _, share := range got.SplitDetails {
			assert.False(t, share.Percentage.Valid)
		}
	})

	t.Run("ListExpensesByEvent is oldest first", func(t *testing.T) {
		expenses, err := store.ListExpensesByEvent(ctx, event.ID)
		require.NoError(t, err)
		require.Len(t, expenses, 2)
		assert.Equal(t, first.ID, expenses[0].ID)
		assert.Equal(t, second.ID, expenses[1].ID)
		assert.Len(t, expenses[0].SplitDetails, 3)
		assert.Len(t, expenses[1].SplitDetails, 2)
	})

	t.Run("DeleteExpense", func(t *testing.T) {
		require.NoError(t, store.DeleteExpense(ctx, first.ID))
		_, err := store.GetExpense(ctx, first.ID)
		require.ErrorIs(t, err, storage.ErrNotFound)
		require.ErrorIs(t, store.DeleteExpense(ctx, first.ID), storage.ErrNotFound)
	})

	t.Run("expense for missing event is rejected", func(t *testing.T) {
		err := store.CreateExpense(ctx, &models.Expense{
			EventID: "missing", PaidBy: "alice", Description: "x", Amount: money("1"), SplitType: "equal", CreatedBy: "alice",
		})
		require.Error(t, err)
	})
}

func TestSQLiteStore_Settlements(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	event := newTestEvent(t, store, "alice")

	older := &models.Settlement{
		EventID: event.ID, FromUserID: "bob", ToUserID: "alice", Amount: money("12.50"),
		Note: "venmo", CreatedBy: "bob", CreatedAt: 100,
	}
	newer := &models.Settlement{
		EventID: event.ID, FromUserID: "carol", ToUserID: "alice", Amount: money("7"),
		ProofImageURL: "https://example.com/proof.png", SettledAt: 150, CreatedBy: "alice", CreatedAt: 200,
	}
	require.NoError(t, store.CreateSettlement(ctx, older))
	require.NoError(t, store.CreateSettlement(ctx, newer))

	t.Run("SettledAt defaults to CreatedAt", func(t *testing.T) {
		got, err := store.GetSettlement(ctx, older.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(100), got.SettledAt)
		assert.Equal(t, "venmo", got.Note)
		assert.Empty(t, got.ProofImageURL)
		assert.True(t, money("12.50").Equal(got.Amount))
	})

	t.Run("ListSettlementsByEvent is newest first", func(t *testing.T) {
		settlements, err := store.ListSettlementsByEvent(ctx, event.ID)
		require.NoError(t, err)
		require.Len(t, settlements, 2)
		assert.Equal(t, newer.ID, settlements[0].ID)
		assert.Equal(t, int64(150), settlements[0].SettledAt)
		assert.Equal(t, "https://example.com/proof.png", settlements[0].ProofImageURL)
		assert.Equal(t, older.ID, settlements[1].ID)
	})

	t.Run("DeleteSettlement", func(t *testing.T) {
		require.NoError(t, store.DeleteSettlement(ctx, older.ID))
		_, err := store.GetSettlement(ctx, older.ID)
		require.ErrorIs(t, err, storage.ErrNotFound)
		require.ErrorIs(t, store.DeleteSettlement(ctx, older.ID), storage.ErrNotFound)
	})
}

func TestSQLiteStore_UpdateAndDeleteEvent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	event := newTestEvent(t, store, "host")

	event.Title = "Beach weekend"
	event.Location = ""
	require.NoError(t, store.UpdateEvent(ctx, event))

	got, err := store.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, "Beach weekend", got.Title)
	assert.Empty(t, got.Location)
	assert.Equal(t, event.CreatedAt, got.CreatedAt)

	require.ErrorIs(t, store.UpdateEvent(ctx, &models.Event{ID: "missing", Title: "x"}), storage.ErrNotFound)

	expense := &models.Expense{
		EventID: event.ID, PaidBy: "host", Description: "Groceries", Amount: money("10"),
		SplitType: "equal", CreatedBy: "host",
		SplitDetails: map[string]models.SplitShare{"host": {Amount: money("10")}},
	}
	require.NoError(t, store.CreateExpense(ctx, expense))
	require.NoError(t, store.CreateSettlement(ctx, &models.Settlement{
		EventID: event.ID, FromUserID: "guest", ToUserID: "host", Amount: money("5"), CreatedBy: "guest",
	}))
	poll := &models.Poll{EventID: event.ID, CreatedBy: "host", Question: "Saturday dinner?", Options: []string{"Pizza", "Tacos"}}
	require.NoError(t, store.CreatePoll(ctx, poll))

	require.NoError(t, store.DeleteEvent(ctx, event.ID))

	_, err = store.GetEvent(ctx, event.ID)
	require.ErrorIs(t, err, storage.ErrNotFound)
	_, err = store.GetExpense(ctx, expense.ID)
	require.ErrorIs(t, err, storage.ErrNotFound)
	_, err = store.GetPoll(ctx, poll.ID)
	require.ErrorIs(t, err, storage.ErrNotFound)

	rsvps, err := store.ListRSVPs(ctx, event.ID)
	require.NoError(t, err)
	assert.Empty(t, rsvps)
	settlements, err := store.ListSettlementsByEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Empty(t, settlements)

	require.ErrorIs(t, store.DeleteEvent(ctx, event.ID), storage.ErrNotFound)
}

func TestSQLiteStore_Polls(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	event := newTestEvent(t, store, "host")
	first := &models.Poll{EventID: event.ID, CreatedBy: "host", Question: "Saturday dinner?", Options: []string{"Pizza", "Tacos", "Sushi"}}
	second := &models.Poll{EventID: event.ID, CreatedBy: "guest", Question: "Hike or kayak?", Options: []string{"Hike", "Kayak"}}
	require.NoError(t, store.CreatePoll(ctx, first))
	require.NoError(t, store.CreatePoll(ctx, second))
	require.NotEmpty(t, first.ID)
	assert.True(t, first.Active)

	t.Run("GetPoll keeps option order", func(t *testing.T) {
		got, err := store.GetPoll(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "Saturday dinner?", got.Question)
		assert.Equal(t, []string{"Pizza", "Tacos", "Sushi"}, got.Options)
		assert.True(t, got.Active)
		assert.Empty(t, got.Votes)

		_, err = store.GetPoll(ctx, "missing")
		require.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("UpsertVote replaces a user's earlier vote", func(t *testing.T) {
		require.NoError(t, store.UpsertVote(ctx, &models.PollVote{PollID: first.ID, UserID: "guest", OptionIndex: 0}))
		require.NoError(t, store.UpsertVote(ctx, &models.PollVote{PollID: first.ID, UserID: "host", OptionIndex: 1}))
		require.NoError(t, store.UpsertVote(ctx, &models.PollVote{PollID: first.ID, UserID: "guest", OptionIndex: 1}))

		got, err := store.GetPoll(ctx, first.ID)
		require.NoError(t, err)
		require.Len(t, got.Votes, 2)
		assert.Equal(t, []int{0, 2, 0}, got.Tally())
	})

	t.Run("ListPollsByEvent returns polls oldest first with details", func(t *testing.T) {
		polls, err := store.ListPollsByEvent(ctx, event.ID)
		require.NoError(t, err)
		require.Len(t, polls, 2)
		assert.Equal(t, first.ID, polls[0].ID)
		assert.Len(t, polls[0].Votes, 2)
		assert.Equal(t, []string{"Hike", "Kayak"}, polls[1].Options)
		assert.Empty(t, polls[1].Votes)
	})

	t.Run("ClosePoll", func(t *testing.T) {
		require.NoError(t, store.ClosePoll(ctx, second.ID))

		got, err := store.GetPoll(ctx, second.ID)
		require.NoError(t, err)
		assert.False(t, got.Active)

		require.ErrorIs(t, store.ClosePoll(ctx, "missing"), storage.ErrNotFound)
	})
}
