package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/eventsplit/internal/models"
	"github.com/mmynk/eventsplit/internal/storage"
	"github.com/mmynk/eventsplit/pkg/api"
	"github.com/mmynk/eventsplit/pkg/api/apiconnect"
)

const maxPlusOnes = 20

// EventService implements the Connect EventService.
type EventService struct {
	apiconnect.UnimplementedEventServiceHandler
	store  storage.Store
	logger *slog.Logger
}

// NewEventService creates a new EventService with the given storage backend.
func NewEventService(store storage.Store, logger *slog.Logger) *EventService {
	return &EventService{store: store, logger: logger}
}

// CreateEvent creates an event hosted by the caller.
func (s *EventService) CreateEvent(ctx context.Context, req *connect.Request[api.CreateEventRequest]) (*connect.Response[api.CreateEventResponse], error) {
	userID, err := actorID(ctx)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Msg.Title)
	if title == "" {
		return nil, connectError(invalidf("title is required"))
	}

	event := &models.Event{
		HostID:      userID,
		Title:       title,
		Description: req.Msg.Description,
		Location:    req.Msg.Location,
		StartsAt:    req.Msg.StartsAt,
	}
	if err := s.store.CreateEvent(ctx, event); err != nil {
		s.logger.Error("CreateEvent failed", "error", err)
		return nil, connectError(err)
	}

	s.logger.Info("Event created", "event_id", event.ID, "host_id", userID)
	return connect.NewResponse(&api.CreateEventResponse{Event: eventToAPI(event)}), nil
}

// GetEvent returns an event and its attendees. Anyone signed in can view an
// event so that invitations can be shared by link.
func (s *EventService) GetEvent(ctx context.Context, req *connect.Request[api.GetEventRequest]) (*connect.Response[api.GetEventResponse], error) {
	if _, err := actorID(ctx); err != nil {
		return nil, err
	}

	event, err := s.store.GetEvent(ctx, req.Msg.EventID)
	if err != nil {
		return nil, connectError(err)
	}

	attendees, err := s.attendees(ctx, event.ID)
	if err != nil {
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.GetEventResponse{Event: eventToAPI(event), Attendees: attendees}), nil
}

// ListEvents returns the events the caller hosts or is going to.
func (s *EventService) ListEvents(ctx context.Context, req *connect.Request[api.ListEventsRequest]) (*connect.Response[api.ListEventsResponse], error) {
	userID, err := actorID(ctx)
	if err != nil {
		return nil, err
	}

	events, err := s.store.ListEventsForUser(ctx, userID)
	if err != nil {
		s.logger.Error("ListEvents failed", "user_id", userID, "error", err)
		return nil, connectError(err)
	}

	resp := &api.ListEventsResponse{Events: make([]*api.Event, len(events))}
	for i, e := range events {
		resp.Events[i] = eventToAPI(e)
	}
	return connect.NewResponse(resp), nil
}

// RespondToEvent records the caller's RSVP, replacing any earlier answer.
func (s *EventService) RespondToEvent(ctx context.Context, req *connect.Request[api.RespondToEventRequest]) (*connect.Response[api.RespondToEventResponse], error) {
	userID, err := actorID(ctx)
	if err != nil {
		return nil, err
	}

	status := models.RSVPStatus(req.Msg.Status)
	if !status.Valid() {
		return nil, connectError(invalidf("unknown RSVP status %q", req.Msg.Status))
	}
	if req.Msg.PlusOnes < 0 || req.Msg.PlusOnes > maxPlusOnes {
		return nil, connectError(invalidf("plus ones must be between 0 and %d", maxPlusOnes))
	}

	if _, err := s.store.GetEvent(ctx, req.Msg.EventID); err != nil {
		return nil, connectError(err)
	}

	rsvp := &models.RSVP{EventID: req.Msg.EventID, UserID: userID, Status: status, PlusOnes: req.Msg.PlusOnes}
	if err := s.store.UpsertRSVP(ctx, rsvp); err != nil {
		s.logger.Error("RespondToEvent failed", "event_id", req.Msg.EventID, "error", err)
		return nil, connectError(err)
	}

	names, err := displayNames(ctx, s.store, []string{userID})
	if err != nil {
		return nil, connectError(err)
	}

	s.logger.Info("RSVP recorded", "event_id", rsvp.EventID, "user_id", userID, "status", status)
	return connect.NewResponse(&api.RespondToEventResponse{Attendee: attendeeToAPI(rsvp, names[userID])}), nil
}

// ListAttendees returns every RSVP to an event.
func (s *EventService) ListAttendees(ctx context.Context, req *connect.Request[api.ListAttendeesRequest]) (*connect.Response[api.ListAttendeesResponse], error) {
	if _, err := actorID(ctx); err != nil {
		return nil, err
	}

	if _, err := s.store.GetEvent(ctx, req.Msg.EventID); err != nil {
		return nil, connectError(err)
	}

	attendees, err := s.attendees(ctx, req.Msg.EventID)
	if err != nil {
		return nil, connectError(err)
	}

	return connect.NewResponse(&api.ListAttendeesResponse{Attendees: attendees}), nil
}

// UpdateEvent changes the fields set in the request. Only the host may edit
// an event.
func (s *EventService) UpdateEvent(ctx context.Context, req *connect.Request[api.UpdateEventRequest]) (*connect.Response[api.UpdateEventResponse], error) {
	userID, err := actorID(ctx)
	if err != nil {
		return nil, err
	}

	event, err := s.hostedEvent(ctx, req.Msg.EventID, userID)
	if err != nil {
		return nil, connectError(err)
	}

	msg := req.Msg
	if msg.Title != nil {
		event.Title = strings.TrimSpace(*msg.Title)
		if event.Title == "" {
			return nil, connectError(invalidf("title is required"))
		}
	}
	if msg.Description != nil {
		event.Description = *msg.Description
	}
	if msg.Location != nil {
		event.Location = *msg.Location
	}
	if msg.StartsAt != nil {
		event.StartsAt = *msg.StartsAt
	}

	if err := s.store.UpdateEvent(ctx, event); err != nil {
		s.logger.Error("UpdateEvent failed", "event_id", event.ID, "error", err)
		return nil, connectError(err)
	}

	s.logger.Info("Event updated", "event_id", event.ID, "host_id", userID)
	return connect.NewResponse(&api.UpdateEventResponse{Event: eventToAPI(event)}), nil
}

// DeleteEvent removes an event together with its RSVPs, expenses,
// settlements and polls. Only the host may delete an event.
func (s *EventService) DeleteEvent(ctx context.Context, req *connect.Request[api.DeleteEventRequest]) (*connect.Response[api.DeleteEventResponse], error) {
	userID, err := actorID(ctx)
	if err != nil {
		return nil, err
	}

	event, err := s.hostedEvent(ctx, req.Msg.EventID, userID)
	if err != nil {
		return nil, connectError(err)
	}

	if err := s.store.DeleteEvent(ctx, event.ID); err != nil {
		s.logger.Error("DeleteEvent failed", "event_id", event.ID, "error", err)
		return nil, connectError(err)
	}

	s.logger.Info("Event deleted", "event_id", event.ID, "host_id", userID)
	return connect.NewResponse(&api.DeleteEventResponse{}), nil
}

// hostedEvent loads an event the actor hosts.
func (s *EventService) hostedEvent(ctx context.Context, eventID, actor string) (*models.Event, error) {
	if eventID == "" {
		return nil, invalidf("event ID is required")
	}
	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.HostID != actor {
		return nil, errNotAllowed
	}
	return event, nil
}

func (s *EventService) attendees(ctx context.Context, eventID string) ([]*api.Attendee, error) {
	rsvps, err := s.store.ListRSVPs(ctx, eventID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(rsvps))
	for i, r := range rsvps {
		ids[i] = r.UserID
	}
	names, err := displayNames(ctx, s.store, ids)
	if err != nil {
		return nil, err
	}

	attendees := make([]*api.Attendee, len(rsvps))
	for i, r := range rsvps {
		attendees[i] = attendeeToAPI(r, names[r.UserID])
	}
	return attendees, nil
}
