package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/eventsplit/internal/auth"
	"github.com/mmynk/eventsplit/internal/middleware"
	"github.com/mmynk/eventsplit/internal/models"
	"github.com/mmynk/eventsplit/internal/storage/sqlite"
	"github.com/mmynk/eventsplit/pkg/api"
	"github.com/mmynk/eventsplit/pkg/api/apiconnect"
)

const testUserHeader = "X-Test-User"

// testAuthInterceptor trusts the test user header instead of a token.
func testAuthInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if userID := req.Header().Get(testUserHeader); userID != "" {
				ctx = middleware.WithUser(ctx, userID, userID+"@example.com")
			}
			return next(ctx, req)
		}
	}
}

type testClients struct {
	auth        apiconnect.AuthServiceClient
	events      apiconnect.EventServiceClient
	expenses    apiconnect.ExpenseServiceClient
	settlements apiconnect.SettlementServiceClient
	polls       apiconnect.PollServiceClient
	store       *sqlite.SQLiteStore
}

// setupTestServer starts every service over httptest against a temp SQLite database.
// Real JWT auth guards AuthService; the other services use testAuthInterceptor.
// Recorded settlements are netted into balances.
func setupTestServer(t *testing.T) *testClients {
	t.Helper()
	return setupTestServerWithNetting(t, true)
}

func setupTestServerWithNetting(t *testing.T, netSettlements bool) *testClients {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)

	realAuth := connect.WithInterceptors(middleware.RequireAuth(jwtManager,
		apiconnect.AuthServiceRegisterProcedure,
		apiconnect.AuthServiceLoginProcedure,
	))
	testAuth := connect.WithInterceptors(testAuthInterceptor())

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(NewAuthService(authenticator, jwtManager, store, logger), realAuth))
	mux.Handle(apiconnect.NewEventServiceHandler(NewEventService(store, logger), testAuth))
	mux.Handle(apiconnect.NewExpenseServiceHandler(NewExpenseService(store, logger), testAuth))
	mux.Handle(apiconnect.NewSettlementServiceHandler(NewSettlementService(store, logger, netSettlements), testAuth))
	mux.Handle(apiconnect.NewPollServiceHandler(NewPollService(store, logger), testAuth))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testClients{
		auth:        apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL),
		events:      apiconnect.NewEventServiceClient(http.DefaultClient, server.URL),
		expenses:    apiconnect.NewExpenseServiceClient(http.DefaultClient, server.URL),
		settlements: apiconnect.NewSettlementServiceClient(http.DefaultClient, server.URL),
		polls:       apiconnect.NewPollServiceClient(http.DefaultClient, server.URL),
		store:       store,
	}
}

// as builds a request sent on behalf of userID.
func as[T any](userID string, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	if userID != "" {
		req.Header().Set(testUserHeader, userID)
	}
	return req
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal, context ...any) {
	t.Helper()
	require.Truef(t, money(want).Equal(got), "want %s, got %s %v", want, got, context)
}

func requireCode(t *testing.T, want connect.Code, err error) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, want, connect.CodeOf(err), "error: %v", err)
}

// createUsers stores accounts whose ID and display name are both name.
func createUsers(t *testing.T, c *testClients, names ...string) {
	t.Helper()
	for _, name := range names {
		user := models.NewUser(name+"@example.com", name, "unused")
		user.ID = name
		require.NoError(t, c.store.CreateUser(context.Background(), user))
	}
}

// createEvent makes host's event and RSVPs each guest as going.
func createEvent(t *testing.T, c *testClients, host string, guests ...string) string {
	t.Helper()
	ctx := context.Background()

	resp, err := c.events.CreateEvent(ctx, as(host, &api.CreateEventRequest{Title: "Cabin weekend"}))
	require.NoError(t, err)
	eventID := resp.Msg.Event.ID

	for _, g := range guests {
		_, err := c.events.RespondToEvent(ctx, as(g, &api.RespondToEventRequest{EventID: eventID, Status: "going"}))
		require.NoError(t, err)
	}
	return eventID
}

func addExpense(t *testing.T, c *testClients, eventID, payer, amount string) *api.Expense {
	t.Helper()
	resp, err := c.expenses.CreateExpense(context.Background(), as(payer, &api.CreateExpenseRequest{
		EventID:     eventID,
		Description: "Shared cost",
		Amount:      money(amount),
		SplitType:   "equal",
	}))
	require.NoError(t, err)
	return resp.Msg.Expense
}
