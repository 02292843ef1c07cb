package service

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/eventsplit/internal/models"
	"github.com/mmynk/eventsplit/internal/storage"
	"github.com/mmynk/eventsplit/pkg/api"
	"github.com/mmynk/eventsplit/pkg/api/apiconnect"
)

const (
	minPollOptions = 2
	maxPollOptions = 10
)

// PollService implements the Connect PollService.
type PollService struct {
	apiconnect.UnimplementedPollServiceHandler
	store  storage.Store
	logger *slog.Logger
}

// NewPollService creates a new PollService with the given storage backend.
func NewPollService(store storage.Store, logger *slog.Logger) *PollService {
	return &PollService{store: store, logger: logger}
}

// CreatePoll asks the event's attendees a question.
func (s *PollService) CreatePoll(ctx context.Context, req *connect.Request[api.CreatePollRequest]) (*connect.Response[api.CreatePollResponse], error) {
	userID, err := actorID(ctx)
	if err != nil {
		return nil, err
	}

	question := strings.TrimSpace(req.Msg.Question)
	if question == "" {
		return nil, connectError(invalidf("question is required"))
	}
	options, err := pollOptions(req.Msg.Options)
	if err != nil {
		return nil, connectError(err)
	}

	if _, err := loadRoster(ctx, s.store, req.Msg.EventID, userID); err != nil {
		return nil, connectError(err)
	}

	poll := &models.Poll{EventID: req.Msg.EventID, CreatedBy: userID, Question: question, Options: options}
	if err := s.store.CreatePoll(ctx, poll); err != nil {
		s.logger.Error("CreatePoll failed", "event_id", req.Msg.EventID, "error", err)
		return nil, connectError(err)
	}

	s.logger.Info("Poll created", "poll_id", poll.ID, "event_id", poll.EventID, "options", len(options))
	return connect.NewResponse(&api.CreatePollResponse{Poll: pollToAPI(poll, userID)}), nil
}

// ListPolls returns an event's polls with their current tallies.
func (s *PollService) ListPolls(ctx context.Context, req *connect.Request[api.ListPollsRequest]) (*connect.Response[api.ListPollsResponse], error) {
	userID, err := actorID(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := loadRoster(ctx, s.store, req.Msg.EventID, userID); err != nil {
		return nil, connectError(err)
	}

	polls, err := s.store.ListPollsByEvent(ctx, req.Msg.EventID)
	if err != nil {
		s.logger.Error("ListPolls failed", "event_id", req.Msg.EventID, "error", err)
		return nil, connectError(err)
	}

	resp := &api.ListPollsResponse{Polls: make([]*api.Poll, len(polls))}
	for i, p := range polls {
		resp.Polls[i] = pollToAPI(p, userID)
	}
	return connect.NewResponse(resp), nil
}

// VoteInPoll records the caller's choice, replacing any earlier vote.
func (s *PollService) VoteInPoll(ctx context.Context, req *connect.Request[api.VoteInPollRequest]) (*connect.Response[api.VoteInPollResponse], error) {
	userID, err := actorID(ctx)
	if err != nil {
		return nil, err
	}

	poll, err := s.attendedPoll(ctx, req.Msg.PollID, userID)
	if err != nil {
		return nil, connectError(err)
	}
	if !poll.Active {
		return nil, connectError(errPollClosed)
	}
	if req.Msg.OptionIndex < 0 || req.Msg.OptionIndex >= len(poll.Options) {
		return nil, connectError(invalidf("option index %d is out of range", req.Msg.OptionIndex))
	}

	vote := &models.PollVote{PollID: poll.ID, UserID: userID, OptionIndex: req.Msg.OptionIndex}
	if err := s.store.UpsertVote(ctx, vote); err != nil {
		s.logger.Error("VoteInPoll failed", "poll_id", poll.ID, "error", err)
		return nil, connectError(err)
	}

	poll, err = s.store.GetPoll(ctx, poll.ID)
	if err != nil {
		return nil, connectError(err)
	}

	s.logger.Info("Vote recorded", "poll_id", poll.ID, "user_id", userID)
	return connect.NewResponse(&api.VoteInPollResponse{Poll: pollToAPI(poll, userID)}), nil
}

// ClosePoll stops a poll from taking votes. Its creator or the event host
// may close it.
func (s *PollService) ClosePoll(ctx context.Context, req *connect.Request[api.ClosePollRequest]) (*connect.Response[api.ClosePollResponse], error) {
	userID, err := actorID(ctx)
	if err != nil {
		return nil, err
	}

	poll, err := s.store.GetPoll(ctx, req.Msg.PollID)
	if err != nil {
		return nil, connectError(err)
	}
	event, err := s.store.GetEvent(ctx, poll.EventID)
	if err != nil {
		return nil, connectError(err)
	}
	if userID != poll.CreatedBy && userID != event.HostID {
		return nil, connectError(errNotAllowed)
	}

	if err := s.store.ClosePoll(ctx, poll.ID); err != nil {
		s.logger.Error("ClosePoll failed", "poll_id", poll.ID, "error", err)
		return nil, connectError(err)
	}
	poll.Active = false

	s.logger.Info("Poll closed", "poll_id", poll.ID, "user_id", userID)
	return connect.NewResponse(&api.ClosePollResponse{Poll: pollToAPI(poll, userID)}), nil
}

// attendedPoll loads a poll from an event the actor takes part in.
func (s *PollService) attendedPoll(ctx context.Context, pollID, actor string) (*models.Poll, error) {
	if pollID == "" {
		return nil, invalidf("poll ID is required")
	}
	poll, err := s.store.GetPoll(ctx, pollID)
	if err != nil {
		return nil, err
	}
	if _, err := loadRoster(ctx, s.store, poll.EventID, actor); err != nil {
		return nil, err
	}
	return poll, nil
}

// pollOptions trims the labels and checks there are enough distinct ones.
func pollOptions(raw []string) ([]string, error) {
	if len(raw) < minPollOptions || len(raw) > maxPollOptions {
		return nil, invalidf("a poll needs between %d and %d options", minPollOptions, maxPollOptions)
	}
	options := make([]string, 0, len(raw))
	for _, o := range raw {
		label := strings.TrimSpace(o)
		if label == "" {
			return nil, invalidf("poll options cannot be blank")
		}
		if slices.Contains(options, label) {
			return nil, invalidf("poll option %q is listed twice", label)
		}
		options = append(options, label)
	}
	return options, nil
}
