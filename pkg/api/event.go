package api

type Event struct {
	ID          string `json:"id"`
	HostID      string `json:"hostId"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	StartsAt    int64  `json:"startsAt,omitempty"`
	CreatedAt   int64  `json:"createdAt"`
}

// Attendee is an RSVP joined with the responder's display name.
type Attendee struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Status      string `json:"status"`
	PlusOnes    int    `json:"plusOnes,omitempty"`
}

type CreateEventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	StartsAt    int64  `json:"startsAt,omitempty"`
}

type CreateEventResponse struct {
	Event *Event `json:"event"`
}

type GetEventRequest struct {
	EventID string `json:"eventId"`
}

type GetEventResponse struct {
	Event     *Event      `json:"event"`
	Attendees []*Attendee `json:"attendees"`
}

type ListEventsRequest struct{}

type ListEventsResponse struct {
	Events []*Event `json:"events"`
}

// RespondToEventRequest records the caller's RSVP.
// Status is one of "going", "maybe" or "not_going".
type RespondToEventRequest struct {
	EventID  string `json:"eventId"`
	Status   string `json:"status"`
	PlusOnes int    `json:"plusOnes,omitempty"`
}

type RespondToEventResponse struct {
	Attendee *Attendee `json:"attendee"`
}

type ListAttendeesRequest struct {
	EventID string `json:"eventId"`
}

type ListAttendeesResponse struct {
	Attendees []*Attendee `json:"attendees"`
}

// UpdateEventRequest changes the fields that are set and leaves the rest.
type UpdateEventRequest struct {
	EventID     string  `json:"eventId"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Location    *string `json:"location,omitempty"`
	StartsAt    *int64  `json:"startsAt,omitempty"`
}

type UpdateEventResponse struct {
	Event *Event `json:"event"`
}

type DeleteEventRequest struct {
	EventID string `json:"eventId"`
}

type DeleteEventResponse struct{}
