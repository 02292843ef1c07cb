package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/eventsplit/pkg/api"
)

// PollServiceName is the fully-qualified name of the PollService.
const PollServiceName = "eventsplit.v1.PollService"

const (
	PollServiceCreatePollProcedure = "/eventsplit.v1.PollService/CreatePoll"
	PollServiceListPollsProcedure  = "/eventsplit.v1.PollService/ListPolls"
	PollServiceVoteInPollProcedure = "/eventsplit.v1.PollService/VoteInPoll"
	PollServiceClosePollProcedure  = "/eventsplit.v1.PollService/ClosePoll"
)

// PollServiceClient is a client for the eventsplit.v1.PollService.
type PollServiceClient interface {
	CreatePoll(context.Context, *connect.Request[api.CreatePollRequest]) (*connect.Response[api.CreatePollResponse], error)
	ListPolls(context.Context, *connect.Request[api.ListPollsRequest]) (*connect.Response[api.ListPollsResponse], error)
	VoteInPoll(context.Context, *connect.Request[api.VoteInPollRequest]) (*connect.Response[api.VoteInPollResponse], error)
	ClosePoll(context.Context, *connect.Request[api.ClosePollRequest]) (*connect.Response[api.ClosePollResponse], error)
}

// NewPollServiceClient constructs a client for the eventsplit.v1.PollService. baseURL is
// the server root, e.g. http://localhost:8080.
func NewPollServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) PollServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &pollServiceClient{
		createPoll: connect.NewClient[api.CreatePollRequest, api.CreatePollResponse](httpClient, baseURL+PollServiceCreatePollProcedure, opts...),
		listPolls:  connect.NewClient[api.ListPollsRequest, api.ListPollsResponse](httpClient, baseURL+PollServiceListPollsProcedure, opts...),
		voteInPoll: connect.NewClient[api.VoteInPollRequest, api.VoteInPollResponse](httpClient, baseURL+PollServiceVoteInPollProcedure, opts...),
		closePoll:  connect.NewClient[api.ClosePollRequest, api.ClosePollResponse](httpClient, baseURL+PollServiceClosePollProcedure, opts...),
	}
}

type pollServiceClient struct {
	createPoll *connect.Client[api.CreatePollRequest, api.CreatePollResponse]
	listPolls  *connect.Client[api.ListPollsRequest, api.ListPollsResponse]
	voteInPoll *connect.Client[api.VoteInPollRequest, api.VoteInPollResponse]
	closePoll  *connect.Client[api.ClosePollRequest, api.ClosePollResponse]
}

func (c *pollServiceClient) CreatePoll(ctx context.Context, req *connect.Request[api.CreatePollRequest]) (*connect.Response[api.CreatePollResponse], error) {
	return c.createPoll.CallUnary(ctx, req)
}

func (c *pollServiceClient) ListPolls(ctx context.Context, req *connect.Request[api.ListPollsRequest]) (*connect.Response[api.ListPollsResponse], error) {
	return c.listPolls.CallUnary(ctx, req)
}

func (c *pollServiceClient) VoteInPoll(ctx context.Context, req *connect.Request[api.VoteInPollRequest]) (*connect.Response[api.VoteInPollResponse], error) {
	return c.voteInPoll.CallUnary(ctx, req)
}

func (c *pollServiceClient) ClosePoll(ctx context.Context, req *connect.Request[api.ClosePollRequest]) (*connect.Response[api.ClosePollResponse], error) {
	return c.closePoll.CallUnary(ctx, req)
}

// PollServiceHandler manages event polls and votes.
type PollServiceHandler interface {
	CreatePoll(context.Context, *connect.Request[api.CreatePollRequest]) (*connect.Response[api.CreatePollResponse], error)
	ListPolls(context.Context, *connect.Request[api.ListPollsRequest]) (*connect.Response[api.ListPollsResponse], error)
	VoteInPoll(context.Context, *connect.Request[api.VoteInPollRequest]) (*connect.Response[api.VoteInPollResponse], error)
	ClosePoll(context.Context, *connect.Request[api.ClosePollRequest]) (*connect.Response[api.ClosePollResponse], error)
}

// NewPollServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewPollServiceHandler(svc PollServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	createPollHandler := connect.NewUnaryHandler(PollServiceCreatePollProcedure, svc.CreatePoll, opts...)
	listPollsHandler := connect.NewUnaryHandler(PollServiceListPollsProcedure, svc.ListPolls, opts...)
	voteInPollHandler := connect.NewUnaryHandler(PollServiceVoteInPollProcedure, svc.VoteInPoll, opts...)
	closePollHandler := connect.NewUnaryHandler(PollServiceClosePollProcedure, svc.ClosePoll, opts...)
	return "/eventsplit.v1.PollService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case PollServiceCreatePollProcedure:
			createPollHandler.ServeHTTP(w, r)
		case PollServiceListPollsProcedure:
			listPollsHandler.ServeHTTP(w, r)
		case PollServiceVoteInPollProcedure:
			voteInPollHandler.ServeHTTP(w, r)
		case PollServiceClosePollProcedure:
			closePollHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedPollServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedPollServiceHandler struct{}

func (UnimplementedPollServiceHandler) CreatePoll(context.Context, *connect.Request[api.CreatePollRequest]) (*connect.Response[api.CreatePollResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("eventsplit.v1.PollService.CreatePoll is not implemented"))
}

func (UnimplementedPollServiceHandler) ListPolls(context.Context, *connect.Request[api.ListPollsRequest]) (*connect.Response[api.ListPollsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("eventsplit.v1.PollService.ListPolls is not implemented"))
}

func (UnimplementedPollServiceHandler) VoteInPoll(context.Context, *connect.Request[api.VoteInPollRequest]) (*connect.Response[api.VoteInPollResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("eventsplit.v1.PollService.VoteInPoll is not implemented"))
}

func (UnimplementedPollServiceHandler) ClosePoll(context.Context, *connect.Request[api.ClosePollRequest]) (*connect.Response[api.ClosePollResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("eventsplit.v1.PollService.ClosePoll is not implemented"))
}
