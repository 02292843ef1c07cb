// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/eventsplit/internal/models"
	"github.com/mmynk/eventsplit/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Pragmas go in the DSN so every pooled connection gets them.
	dsn := dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateEvent persists a new event and RSVPs the host as going.
func (s *SQLiteStore) CreateEvent(ctx context.Context, event *models.Event) error {
	// Generate IDs if not set
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt == 0 {
		event.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO events (id, host_id, title, description, location, starts_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.HostID, event.Title, event.Description, event.Location, event.StartsAt, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO rsvps (event_id, user_id, status, plus_ones, updated_at) VALUES (?, ?, ?, 0, ?)",
		event.ID, event.HostID, models.RSVPGoing, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert host rsvp: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetEvent retrieves an event by ID.
func (s *SQLiteStore) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	event := &models.Event{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, host_id, title, description, location, starts_at, created_at
		 FROM events WHERE id = ?`,
		eventID,
	).Scan(&event.ID, &event.HostID, &event.Title, &event.Description, &event.Location, &event.StartsAt, &event.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: event %s", storage.ErrNotFound, eventID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return event, nil
}

// UpdateEvent overwrites an event's editable fields.
func (s *SQLiteStore) UpdateEvent(ctx context.Context, event *models.Event) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE events SET title = ?, description = ?, location = ?, starts_at = ? WHERE id = ?`,
		event.Title, event.Description, event.Location, event.StartsAt, event.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}

	return requireAffected(result, "event", event.ID)
}

// DeleteEvent removes an event. RSVPs, expenses, settlements and polls go
// with it through ON DELETE CASCADE.
func (s *SQLiteStore) DeleteEvent(ctx context.Context, eventID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM events WHERE id = ?", eventID)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	return requireAffected(result, "event", eventID)
}

// ListEventsForUser retrieves events the user hosts or is going to.
func (s *SQLiteStore) ListEventsForUser(ctx context.Context, userID string) ([]*models.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT e.id, e.host_id, e.title, e.description, e.location, e.starts_at, e.created_at
		 FROM events e
		 LEFT JOIN rsvps r ON r.event_id = e.id AND r.user_id = ? AND r.status = ?
		 WHERE e.host_id = ? OR r.user_id IS NOT NULL
		 ORDER BY e.starts_at, e.created_at`,
		userID, models.RSVPGoing, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event := &models.Event{}
		if err := rows.Scan(&event.ID, &event.HostID, &event.Title, &event.Description,
			&event.Location, &event.StartsAt, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}

	return events, nil
}

// UpsertRSVP creates or replaces a user's response to an event.
func (s *SQLiteStore) UpsertRSVP(ctx context.Context, rsvp *models.RSVP) error {
	if rsvp.UpdatedAt == 0 {
		rsvp.UpdatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO rsvps (event_id, user_id, status, plus_ones, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (event_id, user_id) DO UPDATE SET
		     status = excluded.status,
		     plus_ones = excluded.plus_ones,
		     updated_at = excluded.updated_at`,
		rsvp.EventID, rsvp.UserID, rsvp.Status, rsvp.PlusOnes, rsvp.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert rsvp: %w", err)
	}

	return nil
}

// ListRSVPs retrieves every response to an event in the order they were first made.
func (s *SQLiteStore) ListRSVPs(ctx context.Context, eventID string) ([]*models.RSVP, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT event_id, user_id, status, plus_ones, updated_at
		 FROM rsvps WHERE event_id = ? ORDER BY rowid`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list rsvps: %w", err)
	}
	defer rows.Close()

	var rsvps []*models.RSVP
	for rows.Next() {
		rsvp := &models.RSVP{}
		if err := rows.Scan(&rsvp.EventID, &rsvp.UserID, &rsvp.Status, &rsvp.PlusOnes, &rsvp.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rsvp: %w", err)
		}
		rsvps = append(rsvps, rsvp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rsvps: %w", err)
	}

	return rsvps, nil
}

// requireAffected turns a write that matched no rows into ErrNotFound.
func requireAffected(result sql.Result, kind, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s %s", storage.ErrNotFound, kind, id)
	}
	return nil
}
