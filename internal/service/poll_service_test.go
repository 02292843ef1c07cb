package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/eventsplit/pkg/api"
)

func tallies(p *api.Poll) []int {
	counts := make([]int, len(p.Options))
	for i, o := range p.Options {
		counts[i] = o.Votes
	}
	return counts
}

func TestPollService_VoteAndClose(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	eventID := createEvent(t, c, "alice", "bob", "carol")

	created, err := c.polls.CreatePoll(ctx, as("bob", &api.CreatePollRequest{
		EventID:  eventID,
		Question: " Saturday dinner? ",
		Options:  []string{"Pizza", " Tacos ", "Sushi"},
	}))
	require.NoError(t, err)
	poll := created.Msg.Poll
	assert.Equal(t, "Saturday dinner?", poll.Question)
	assert.Equal(t, "Tacos", poll.Options[1].Label)
	assert.True(t, poll.Active)
	assert.Nil(t, poll.MyVote)

	_, err = c.polls.VoteInPoll(ctx, as("alice", &api.VoteInPollRequest{PollID: poll.ID, OptionIndex: 0}))
	require.NoError(t, err)
	_, err = c.polls.VoteInPoll(ctx, as("carol", &api.VoteInPollRequest{PollID: poll.ID, OptionIndex: 1}))
	require.NoError(t, err)

	// Voting again replaces the earlier choice.
	voted, err := c.polls.VoteInPoll(ctx, as("alice", &api.VoteInPollRequest{PollID: poll.ID, OptionIndex: 1}))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 0}, tallies(voted.Msg.Poll))
	require.NotNil(t, voted.Msg.Poll.MyVote)
	assert.Equal(t, 1, *voted.Msg.Poll.MyVote)

	listed, err := c.polls.ListPolls(ctx, as("bob", &api.ListPollsRequest{EventID: eventID}))
	require.NoError(t, err)
	require.Len(t, listed.Msg.Polls, 1)
	assert.Equal(t, []int{0, 2, 0}, tallies(listed.Msg.Polls[0]))
	assert.Nil(t, listed.Msg.Polls[0].MyVote)

	// Only the creator or the host may close a poll.
	_, err = c.polls.ClosePoll(ctx, as("carol", &api.ClosePollRequest{PollID: poll.ID}))
	requireCode(t, connect.CodePermissionDenied, err)

	closed, err := c.polls.ClosePoll(ctx, as("alice", &api.ClosePollRequest{PollID: poll.ID}))
	require.NoError(t, err)
	assert.False(t, closed.Msg.Poll.Active)
	assert.Equal(t, []int{0, 2, 0}, tallies(closed.Msg.Poll))

	_, err = c.polls.VoteInPoll(ctx, as("bob", &api.VoteInPollRequest{PollID: poll.ID, OptionIndex: 2}))
	requireCode(t, connect.CodeFailedPrecondition, err)
}

func TestPollService_Errors(t *testing.T) {
	c := setupTestServer(t)
	ctx := context.Background()
	eventID := createEvent(t, c, "alice", "bob")

	created, err := c.polls.CreatePoll(ctx, as("alice", &api.CreatePollRequest{
		EventID:  eventID,
		Question: "Hike or kayak?",
		Options:  []string{"Hike", "Kayak"},
	}))
	require.NoError(t, err)
	pollID := created.Msg.Poll.ID

	tests := []struct {
		name string
		call func() error
		want connect.Code
	}{
		{
			name: "blank question",
			call: func() error {
				_, err := c.polls.CreatePoll(ctx, as("alice", &api.CreatePollRequest{EventID: eventID, Question: " ", Options: []string{"a", "b"}}))
				return err
			},
			want: connect.CodeInvalidArgument,
		},
		{
			name: "single option",
			call: func() error {
				_, err := c.polls.CreatePoll(ctx, as("alice", &api.CreatePollRequest{EventID: eventID, Question: "q", Options: []string{"a"}}))
				return err
			},
			want: connect.CodeInvalidArgument,
		},
		{
			name: "duplicate options",
			call: func() error {
				_, err := c.polls.CreatePoll(ctx, as("alice", &api.CreatePollRequest{EventID: eventID, Question: "q", Options: []string{"a", " a"}}))
				return err
			},
			want: connect.CodeInvalidArgument,
		},
		{
			name: "outsider creates",
			call: func() error {
				_, err := c.polls.CreatePoll(ctx, as("mallory", &api.CreatePollRequest{EventID: eventID, Question: "q", Options: []string{"a", "b"}}))
				return err
			},
			want: connect.CodePermissionDenied,
		},
		{
			name: "outsider votes",
			call: func() error {
				_, err := c.polls.VoteInPoll(ctx, as("mallory", &api.VoteInPollRequest{PollID: pollID, OptionIndex: 0}))
				return err
			},
			want: connect.CodePermissionDenied,
		},
		{
			name: "option out of range",
			call: func() error {
				_, err := c.polls.VoteInPoll(ctx, as("bob", &api.VoteInPollRequest{PollID: pollID, OptionIndex: 2}))
				return err
			},
			want: connect.CodeInvalidArgument,
		},
		{
			name: "unknown poll",
			call: func() error {
				_, err := c.polls.VoteInPoll(ctx, as("bob", &api.VoteInPollRequest{PollID: "missing"}))
				return err
			},
			want: connect.CodeNotFound,
		},
		{
			name: "outsider lists",
			call: func() error {
				_, err := c.polls.ListPolls(ctx, as("mallory", &api.ListPollsRequest{EventID: eventID}))
				return err
			},
			want: connect.CodePermissionDenied,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requireCode(t, tt.want, tt.call())
		})
	}
}
