package models

// Poll is a multiple-choice question asked to an event's attendees.
type Poll struct {
	// ID is the unique identifier for the poll (UUID format).
	ID string

	EventID   string
	CreatedBy string
	Question  string

	// Options are the choices in display order. Votes refer to them by index.
	Options []string

	// Active polls accept votes; closed ones keep their results.
	Active bool

	// Votes holds at most one vote per user.
	Votes []*PollVote

	// CreatedAt is the Unix timestamp when the poll was created.
	CreatedAt int64
}

// PollVote is one user's choice in a poll.
type PollVote struct {
	PollID      string
	UserID      string
	OptionIndex int

	// CreatedAt is the Unix timestamp of the latest vote.
	CreatedAt int64
}

// Tally counts the votes for each option.
func (p *Poll) Tally() []int {
	counts := make([]int, len(p.Options))
	for _, v := range p.Votes {
		if v.OptionIndex >= 0 && v.OptionIndex < len(counts) {
			counts[v.OptionIndex]++
		}
	}
	return counts
}
