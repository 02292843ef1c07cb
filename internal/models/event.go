package models

// Event represents a gathering whose confirmed attendees share expenses.
type Event struct {
	// ID is the unique identifier for the event (UUID format).
	ID string

	// HostID is the user who created the event.
	HostID string

	// Title is the display name of the event (e.g., "Lake House Weekend").
	Title string

	// Description is optional free text.
	Description string

	// Location is optional free text.
	Location string

	// StartsAt is the Unix timestamp when the event begins (0 if unset).
	StartsAt int64

	// CreatedAt is the Unix timestamp when the event was created.
	CreatedAt int64
}

// RSVPStatus is a user's response to an event.
type RSVPStatus string

const (
	RSVPGoing    RSVPStatus = "going"
	RSVPMaybe    RSVPStatus = "maybe"
	RSVPNotGoing RSVPStatus = "not_going"
)

// Valid reports whether s is a known status.
func (s RSVPStatus) Valid() bool {
	switch s {
	case RSVPGoing, RSVPMaybe, RSVPNotGoing:
		return true
	}
	return false
}

// RSVP records one user's response to an event.
// Users with status "going" are the event's expense participants.
type RSVP struct {
	EventID  string
	UserID   string
	Status   RSVPStatus
	PlusOnes int

	// UpdatedAt is the Unix timestamp of the latest response.
	UpdatedAt int64
}
