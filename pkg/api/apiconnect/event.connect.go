package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/eventsplit/pkg/api"
)

// EventServiceName is the fully-qualified name of the EventService.
const EventServiceName = "eventsplit.v1.EventService"

const (
	EventServiceCreateEventProcedure    = "/eventsplit.v1.EventService/CreateEvent"
	EventServiceGetEventProcedure       = "/eventsplit.v1.EventService/GetEvent"
	EventServiceListEventsProcedure     = "/eventsplit.v1.EventService/ListEvents"
	EventServiceRespondToEventProcedure = "/eventsplit.v1.EventService/RespondToEvent"
	EventServiceListAttendeesProcedure  = "/eventsplit.v1.EventService/ListAttendees"
	EventServiceUpdateEventProcedure    = "/eventsplit.v1.EventService/UpdateEvent"
	EventServiceDeleteEventProcedure    = "/eventsplit.v1.EventService/DeleteEvent"
)

// EventServiceClient is a client for the eventsplit.v1.EventService.
type EventServiceClient interface {
	CreateEvent(context.Context, *connect.Request[api.CreateEventRequest]) (*connect.Response[api.CreateEventResponse], error)
	GetEvent(context.Context, *connect.Request[api.GetEventRequest]) (*connect.Response[api.GetEventResponse], error)
	ListEvents(context.Context, *connect.Request[api.ListEventsRequest]) (*connect.Response[api.ListEventsResponse], error)
	RespondToEvent(context.Context, *connect.Request[api.RespondToEventRequest]) (*connect.Response[api.RespondToEventResponse], error)
	ListAttendees(context.Context, *connect.Request[api.ListAttendeesRequest]) (*connect.Response[api.ListAttendeesResponse], error)
	UpdateEvent(context.Context, *connect.Request[api.UpdateEventRequest]) (*connect.Response[api.UpdateEventResponse], error)
	DeleteEvent(context.Context, *connect.Request[api.DeleteEventRequest]) (*connect.Response[api.DeleteEventResponse], error)
}

// NewEventServiceClient constructs a client for the eventsplit.v1.EventService. baseURL is
// the server root, e.g. http://localhost:8080.
func NewEventServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) EventServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &eventServiceClient{
		createEvent:    connect.NewClient[api.CreateEventRequest, api.CreateEventResponse](httpClient, baseURL+EventServiceCreateEventProcedure, opts...),
		getEvent:       connect.NewClient[api.GetEventRequest, api.GetEventResponse](httpClient, baseURL+EventServiceGetEventProcedure, opts...),
		listEvents:     connect.NewClient[api.ListEventsRequest, api.ListEventsResponse](httpClient, baseURL+EventServiceListEventsProcedure, opts...),
		respondToEvent: connect.NewClient[api.RespondToEventRequest, api.RespondToEventResponse](httpClient, baseURL+EventServiceRespondToEventProcedure, opts...),
		listAttendees:  connect.NewClient[api.ListAttendeesRequest, api.ListAttendeesResponse](httpClient, baseURL+EventServiceListAttendeesProcedure, opts...),
		updateEvent:    connect.NewClient[api.UpdateEventRequest, api.UpdateEventResponse](httpClient, baseURL+EventServiceUpdateEventProcedure, opts...),
		deleteEvent:    connect.NewClient[api.DeleteEventRequest, api.DeleteEventResponse](httpClient, baseURL+EventServiceDeleteEventProcedure, opts...),
	}
}

type eventServiceClient struct {
	createEvent    *connect.Client[api.CreateEventRequest, api.CreateEventResponse]
	getEvent       *connect.Client[api.GetEventRequest, api.GetEventResponse]
	listEvents     *connect.Client[api.ListEventsRequest, api.ListEventsResponse]
	respondToEvent *connect.Client[api.RespondToEventRequest, api.RespondToEventResponse]
	listAttendees  *connect.Client[api.ListAttendeesRequest, api.ListAttendeesResponse]
	updateEvent    *connect.Client[api.UpdateEventRequest, api.UpdateEventResponse]
	deleteEvent    *connect.Client[api.DeleteEventRequest, api.DeleteEventResponse]
}

func (c *eventServiceClient) CreateEvent(ctx context.Context, req *connect.Request[api.CreateEventRequest]) (*connect.Response[api.CreateEventResponse], error) {
	return c.createEvent.CallUnary(ctx, req)
}

func (c *eventServiceClient) GetEvent(ctx context.Context, req *connect.Request[api.GetEventRequest]) (*connect.Response[api.GetEventResponse], error) {
	return c.getEvent.CallUnary(ctx, req)
}

func (c *eventServiceClient) ListEvents(ctx context.Context, req *connect.Request[api.ListEventsRequest]) (*connect.Response[api.ListEventsResponse], error) {
	return c.listEvents.CallUnary(ctx, req)
}

func (c *eventServiceClient) RespondToEvent(ctx context.Context, req *connect.Request[api.RespondToEventRequest]) (*connect.Response[api.RespondToEventResponse], error) {
	return c.respondToEvent.CallUnary(ctx, req)
}

func (c *eventServiceClient) ListAttendees(ctx context.Context, req *connect.Request[api.ListAttendeesRequest]) (*connect.Response[api.ListAttendeesResponse], error) {
	return c.listAttendees.CallUnary(ctx, req)
}

func (c *eventServiceClient) UpdateEvent(ctx context.Context, req *connect.Request[api.UpdateEventRequest]) (*connect.Response[api.UpdateEventResponse], error) {
	return c.updateEvent.CallUnary(ctx, req)
}

func (c *eventServiceClient) DeleteEvent(ctx context.Context, req *connect.Request[api.DeleteEventRequest]) (*connect.Response[api.DeleteEventResponse], error) {
	return c.deleteEvent.CallUnary(ctx, req)
}

// EventServiceHandler manages events and RSVPs.
type EventServiceHandler interface {
	CreateEvent(context.Context, *connect.Request[api.CreateEventRequest]) (*connect.Response[api.CreateEventResponse], error)
	GetEvent(context.Context, *connect.Request[api.GetEventRequest]) (*connect.Response[api.GetEventResponse], error)
	ListEvents(context.Context, *connect.Request[api.ListEventsRequest]) (*connect.Response[api.ListEventsResponse], error)
	RespondToEvent(context.Context, *connect.Request[api.RespondToEventRequest]) (*connect.Response[api.RespondToEventResponse], error)
	ListAttendees(context.Context, *connect.Request[api.ListAttendeesRequest]) (*connect.Response[api.ListAttendeesResponse], error)
	UpdateEvent(context.Context, *connect.Request[api.UpdateEventRequest]) (*connect.Response[api.UpdateEventResponse], error)
	DeleteEvent(context.Context, *connect.Request[api.DeleteEventRequest]) (*connect.Response[api.DeleteEventResponse], error)
}

// NewEventServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewEventServiceHandler(svc EventServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	createEventHandler := connect.NewUnaryHandler(EventServiceCreateEventProcedure, svc.CreateEvent, opts...)
	getEventHandler := connect.NewUnaryHandler(EventServiceGetEventProcedure, svc.GetEvent, opts...)
	listEventsHandler := connect.NewUnaryHandler(EventServiceListEventsProcedure, svc.ListEvents, opts...)
	respondToEventHandler := connect.NewUnaryHandler(EventServiceRespondToEventProcedure, svc.RespondToEvent, opts...)
	listAttendeesHandler := connect.NewUnaryHandler(EventServiceListAttendeesProcedure, svc.ListAttendees, opts...)
	updateEventHandler := connect.NewUnaryHandler(EventServiceUpdateEventProcedure, svc.UpdateEvent, opts...)
	deleteEventHandler := connect.NewUnaryHandler(EventServiceDeleteEventProcedure, svc.DeleteEvent, opts...)
	return "/eventsplit.v1.EventService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case EventServiceCreateEventProcedure:
			createEventHandler.ServeHTTP(w, r)
		case EventServiceGetEventProcedure:
			getEventHandler.ServeHTTP(w, r)
		case EventServiceListEventsProcedure:
			listEventsHandler.ServeHTTP(w, r)
		case EventServiceRespondToEventProcedure:
			respondToEventHandler.ServeHTTP(w, r)
		case EventServiceListAttendeesProcedure:
			listAttendeesHandler.ServeHTTP(w, r)
		case EventServiceUpdateEventProcedure:
			updateEventHandler.ServeHTTP(w, r)
		case EventServiceDeleteEventProcedure:
			deleteEventHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedEventServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedEventServiceHandler struct{}

func (UnimplementedEventServiceHandler) CreateEvent(context.Context, *connect.Request[api.CreateEventRequest]) (*connect.Response[api.CreateEventResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("eventsplit.v1.EventService.CreateEvent is not implemented"))
}

func (UnimplementedEventServiceHandler) GetEvent(context.Context, *connect.Request[api.GetEventRequest]) (*connect.Response[api.GetEventResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("eventsplit.v1.EventService.GetEvent is not implemented"))
}

func (UnimplementedEventServiceHandler) ListEvents(context.Context, *connect.Request[api.ListEventsRequest]) (*connect.Response[api.ListEventsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("eventsplit.v1.EventService.ListEvents is not implemented"))
}

func (UnimplementedEventServiceHandler) RespondToEvent(context.Context, *connect.Request[api.RespondToEventRequest]) (*connect.Response[api.RespondToEventResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("eventsplit.v1.EventService.RespondToEvent is not implemented"))
}

func (UnimplementedEventServiceHandler) ListAttendees(context.Context, *connect.Request[api.ListAttendeesRequest]) (*connect.Response[api.ListAttendeesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("eventsplit.v1.EventService.ListAttendees is not implemented"))
}

func (UnimplementedEventServiceHandler) UpdateEvent(context.Context, *connect.Request[api.UpdateEventRequest]) (*connect.Response[api.UpdateEventResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("eventsplit.v1.EventService.UpdateEvent is not implemented"))
}

func (UnimplementedEventServiceHandler) DeleteEvent(context.Context, *connect.Request[api.DeleteEventRequest]) (*connect.Response[api.DeleteEventResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("eventsplit.v1.EventService.DeleteEvent is not implemented"))
}
