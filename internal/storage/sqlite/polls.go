package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/eventsplit/internal/models"
	"github.com/mmynk/eventsplit/internal/storage"
)

const pollColumns = `id, event_id, created_by, question, active, created_at`

// CreatePoll persists a new poll and its options in one transaction.
// New polls are always active.
func (s *SQLiteStore) CreatePoll(ctx context.Context, poll *models.Poll) error {
	// Generate ID if not set
	if poll.ID == "" {
		poll.ID = uuid.New().String()
	}
	if poll.CreatedAt == 0 {
		poll.CreatedAt = time.Now().Unix()
	}
	poll.Active = true

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO polls (`+pollColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		poll.ID, poll.EventID, poll.CreatedBy, poll.Question, poll.Active, poll.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert poll: %w", err)
	}

	for i, label := range poll.Options {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO poll_options (poll_id, position, label) VALUES (?, ?, ?)",
			poll.ID, i, label,
		)
		if err != nil {
			return fmt.Errorf("failed to insert poll option: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetPoll retrieves a poll by ID, including its options and votes.
func (s *SQLiteStore) GetPoll(ctx context.Context, pollID string) (*models.Poll, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+pollColumns+` FROM polls WHERE id = ?`, pollID)
	poll, err := scanPoll(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: poll %s", storage.ErrNotFound, pollID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}

	if err := s.loadPollDetails(ctx, []*models.Poll{poll}, "p.id = ?", pollID); err != nil {
		return nil, err
	}
	return poll, nil
}

// ListPollsByEvent retrieves an event's polls, oldest first.
func (s *SQLiteStore) ListPollsByEvent(ctx context.Context, eventID string) ([]*models.Poll, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+pollColumns+` FROM polls WHERE event_id = ? ORDER BY created_at, rowid`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list polls by event: %w", err)
	}
	defer rows.Close()

	var polls []*models.Poll
	for rows.Next() {
		poll, err := scanPoll(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan poll: %w", err)
		}
		polls = append(polls, poll)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate polls: %w", err)
	}
	rows.Close()

	if err := s.loadPollDetails(ctx, polls, "p.event_id = ?", eventID); err != nil {
		return nil, err
	}
	return polls, nil
}

// ClosePoll marks a poll inactive.
func (s *SQLiteStore) ClosePoll(ctx context.Context, pollID string) error {
	result, err := s.db.ExecContext(ctx, "UPDATE polls SET active = 0 WHERE id = ?", pollID)
	if err != nil {
		return fmt.Errorf("failed to close poll: %w", err)
	}

	return requireAffected(result, "poll", pollID)
}

// UpsertVote creates or replaces a user's vote in a poll.
func (s *SQLiteStore) UpsertVote(ctx context.Context, vote *models.PollVote) error {
	if vote.CreatedAt == 0 {
		vote.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO poll_votes (poll_id, user_id, option_index, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (poll_id, user_id) DO UPDATE SET
		     option_index = excluded.option_index,
		     created_at = excluded.created_at`,
		vote.PollID, vote.UserID, vote.OptionIndex, vote.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert vote: %w", err)
	}

	return nil
}

// loadPollDetails fills in options and votes for polls matched by filter,
// a condition on the polls table aliased as p.
func (s *SQLiteStore) loadPollDetails(ctx context.Context, polls []*models.Poll, filter string, arg any) error {
	if len(polls) == 0 {
		return nil
	}
	byID := make(map[string]*models.Poll, len(polls))
	for _, p := range polls {
		byID[p.ID] = p
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT o.poll_id, o.label FROM poll_options o JOIN polls p ON p.id = o.poll_id
		 WHERE `+filter+` ORDER BY o.poll_id, o.position`,
		arg,
	)
	if err != nil {
		return fmt.Errorf("failed to get poll options: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var pollID, label string
		if err := rows.Scan(&pollID, &label); err != nil {
			return fmt.Errorf("failed to scan poll option: %w", err)
		}
		if p, ok := byID[pollID]; ok {
			p.Options = append(p.Options, label)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate poll options: %w", err)
	}
	rows.Close()

	votes, err := s.db.QueryContext(ctx,
		`SELECT v.poll_id, v.user_id, v.option_index, v.created_at
		 FROM poll_votes v JOIN polls p ON p.id = v.poll_id
		 WHERE `+filter+` ORDER BY v.created_at, v.rowid`,
		arg,
	)
	if err != nil {
		return fmt.Errorf("failed to get poll votes: %w", err)
	}
	defer votes.Close()

	for votes.Next() {
		vote := &models.PollVote{}
		if err := votes.Scan(&vote.PollID, &vote.UserID, &vote.OptionIndex, &vote.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan poll vote: %w", err)
		}
		if p, ok := byID[vote.PollID]; ok {
			p.Votes = append(p.Votes, vote)
		}
	}
	if err := votes.Err(); err != nil {
		return fmt.Errorf("failed to iterate poll votes: %w", err)
	}

	return nil
}

func scanPoll(row scanner) (*models.Poll, error) {
	poll := &models.Poll{}
	if err := row.Scan(&poll.ID, &poll.EventID, &poll.CreatedBy, &poll.Question, &poll.Active, &poll.CreatedAt); err != nil {
		return nil, err
	}
	return poll, nil
}
