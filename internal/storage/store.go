// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/eventsplit/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// UserStore defines user persistence operations.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail returns ErrNotFound when no user has the email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns ErrNotFound when the user does not exist.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUsersByIDs returns the users that exist, keyed by ID.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)
}

// EventStore defines event and RSVP persistence operations.
type EventStore interface {
	// CreateEvent persists a new event and RSVPs its host as going.
	// The event.ID field will be populated by the store.
	CreateEvent(ctx context.Context, event *models.Event) error

	GetEvent(ctx context.Context, eventID string) (*models.Event, error)

	// UpdateEvent overwrites title, description, location and start time.
	UpdateEvent(ctx context.Context, event *models.Event) error

	// DeleteEvent removes an event along with everything recorded for it.
	DeleteEvent(ctx context.Context, eventID string) error

	// ListEventsForUser returns events the user hosts or is going to.
	ListEventsForUser(ctx context.Context, userID string) ([]*models.Event, error)

	// UpsertRSVP creates or replaces a user's response to an event.
	UpsertRSVP(ctx context.Context, rsvp *models.RSVP) error

	ListRSVPs(ctx context.Context, eventID string) ([]*models.RSVP, error)
}

// ExpenseStore defines expense persistence operations.
type ExpenseStore interface {
	// CreateExpense persists an expense together with its split details.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpensesByEvent returns an event's expenses, oldest first.
	ListExpensesByEvent(ctx context.Context, eventID string) ([]*models.Expense, error)

	DeleteExpense(ctx context.Context, expenseID string) error
}

// SettlementStore defines settlement persistence operations.
type SettlementStore interface {
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error
	GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error)

	// ListSettlementsByEvent returns an event's settlements, newest first.
	ListSettlementsByEvent(ctx context.Context, eventID string) ([]*models.Settlement, error)

	DeleteSettlement(ctx context.Context, settlementID string) error
}

// PollStore defines poll and vote persistence operations.
type PollStore interface {
	// CreatePoll persists a poll and its options.
	CreatePoll(ctx context.Context, poll *models.Poll) error

	// GetPoll returns a poll with its options and votes.
	GetPoll(ctx context.Context, pollID string) (*models.Poll, error)

	// ListPollsByEvent returns an event's polls, oldest first, with options and votes.
	ListPollsByEvent(ctx context.Context, eventID string) ([]*models.Poll, error)

	// ClosePoll stops a poll from accepting votes.
	ClosePoll(ctx context.Context, pollID string) error

	// UpsertVote records a user's vote, replacing any earlier one in the same poll.
	UpsertVote(ctx context.Context, vote *models.PollVote) error
}

// Store composes every storage operation.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	UserStore
	EventStore
	ExpenseStore
	SettlementStore
	PollStore

	// Close releases any resources held by the store.
	Close() error
}
