package api

// Poll is a question put to an event's attendees, with the current tally.
type Poll struct {
	ID        string        `json:"id"`
	EventID   string        `json:"eventId"`
	CreatedBy string        `json:"createdBy"`
	Question  string        `json:"question"`
	Options   []*PollOption `json:"options"`
	Active    bool          `json:"active"`

	// MyVote is the caller's chosen option index, if they voted.
	MyVote *int `json:"myVote,omitempty"`

	CreatedAt int64 `json:"createdAt"`
}

type PollOption struct {
	Label string `json:"label"`
	Votes int    `json:"votes"`
}

type CreatePollRequest struct {
	EventID  string   `json:"eventId"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type CreatePollResponse struct {
	Poll *Poll `json:"poll"`
}

type ListPollsRequest struct {
	EventID string `json:"eventId"`
}

type ListPollsResponse struct {
	Polls []*Poll `json:"polls"`
}

type VoteInPollRequest struct {
	PollID      string `json:"pollId"`
	OptionIndex int    `json:"optionIndex"`
}

type VoteInPollResponse struct {
	Poll *Poll `json:"poll"`
}

type ClosePollRequest struct {
	PollID string `json:"pollId"`
}

type ClosePollResponse struct {
	Poll *Poll `json:"poll"`
}
