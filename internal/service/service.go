// Package service implements the eventsplit.v1 Connect services.
//
// Handlers read the authenticated user from the context once and pass the
// user ID down explicitly; storage and the calculator never see the context
// values.
package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"connectrpc.com/connect"

	"github.com/mmynk/eventsplit/internal/auth"
	"github.com/mmynk/eventsplit/internal/calculator"
	"github.com/mmynk/eventsplit/internal/middleware"
	"github.com/mmynk/eventsplit/internal/models"
	"github.com/mmynk/eventsplit/internal/storage"
)

var (
	errNotParticipant = errors.New("you must be attending this event")
	errNotAllowed     = errors.New("you are not allowed to change this record")
	errInvalidRequest = errors.New("invalid request")
	errPollClosed     = errors.New("poll is closed")
)

// actorID returns the authenticated user or an Unauthenticated error.
func actorID(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return userID, nil
}

// connectError maps domain and storage errors onto Connect codes.
func connectError(err error) error {
	var connectErr *connect.Error
	switch {
	case errors.As(err, &connectErr):
		return err
	case errors.Is(err, calculator.ErrInvalidAmount),
		errors.Is(err, calculator.ErrInvalidSplit),
		errors.Is(err, calculator.ErrUnknownParticipant),
		errors.Is(err, errInvalidRequest):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, errNotParticipant), errors.Is(err, errNotAllowed):
		return connect.NewError(connect.CodePermissionDenied, err)
	case errors.Is(err, errPollClosed):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errInvalidRequest, fmt.Sprintf(format, args...))
}

// roster is an event together with the people splitting its costs.
type roster struct {
	event        *models.Event
	participants []calculator.Participant
}

func (r *roster) includes(userID string) bool {
	return slices.ContainsFunc(r.participants, func(p calculator.Participant) bool { return p.ID == userID })
}

func (r *roster) ids() []string {
	ids := make([]string, len(r.participants))
	for i, p := range r.participants {
		ids[i] = p.ID
	}
	return ids
}

func (r *roster) name(userID string) string {
	for _, p := range r.participants {
		if p.ID == userID {
			return p.Name
		}
	}
	return userID
}

// loadRoster resolves an event's participants: everyone whose RSVP is
// going, in RSVP order. The actor must be the host or a participant. When
// nobody is going the host alone makes up the roster.
func loadRoster(ctx context.Context, store storage.Store, eventID, actor string) (*roster, error) {
	if eventID == "" {
		return nil, invalidf("event ID is required")
	}

	event, err := store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	rsvps, err := store.ListRSVPs(ctx, eventID)
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, rsvp := range rsvps {
		if rsvp.Status == models.RSVPGoing {
			ids = append(ids, rsvp.UserID)
		}
	}
	if actor != event.HostID && !slices.Contains(ids, actor) {
		return nil, errNotParticipant
	}
	if len(ids) == 0 {
		ids = []string{actor}
	}

	names, err := displayNames(ctx, store, ids)
	if err != nil {
		return nil, err
	}

	r := &roster{event: event, participants: make([]calculator.Participant, len(ids))}
	for i, id := range ids {
		r.participants[i] = calculator.Participant{ID: id, Name: names[id]}
	}
	return r, nil
}

// displayNames looks up display names, falling back to the ID for users
// without an account.
func displayNames(ctx context.Context, store storage.UserStore, ids []string) (map[string]string, error) {
	users, err := store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(ids))
	for _, id := range ids {
		names[id] = id
		if u, ok := users[id]; ok && u.DisplayName != "" {
			names[id] = u.DisplayName
		}
	}
	return names, nil
}
