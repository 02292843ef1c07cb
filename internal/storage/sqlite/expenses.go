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

const expenseColumns = `id, event_id, paid_by, description, amount, split_type, category, receipt_url, created_by, created_at`

// CreateExpense persists a new expense and its split details in one transaction.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	// Generate ID if not set
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (`+expenseColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.EventID, expense.PaidBy, expense.Description, expense.Amount,
		expense.SplitType, nullString(expense.Category), nullString(expense.ReceiptURL),
		expense.CreatedBy, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for participant, share := range expense.SplitDetails {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_splits (expense_id, participant_id, amount, percentage) VALUES (?, ?, ?, ?)",
			expense.ID, participant, share.Amount, share.Percentage,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense split: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetExpense retrieves an expense by ID, including its split details.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = ?`,
		expenseID,
	)
	expense, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: expense %s", storage.ErrNotFound, expenseID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	splits, err := s.loadSplits(ctx, "SELECT expense_id, participant_id, amount, percentage FROM expense_splits WHERE expense_id = ?", expenseID)
	if err != nil {
		return nil, err
	}
	expense.SplitDetails = splits[expense.ID]
	if expense.SplitDetails == nil {
		expense.SplitDetails = make(map[string]models.SplitShare)
	}

	return expense, nil
}

// ListExpensesByEvent retrieves all expenses for an event, oldest first.
func (s *SQLiteStore) ListExpensesByEvent(ctx context.Context, eventID string) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+expenseColumns+` FROM expenses WHERE event_id = ? ORDER BY created_at, rowid`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses by event: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	rows.Close()

	splits, err := s.loadSplits(ctx,
		`SELECT s.expense_id, s.participant_id, s.amount, s.percentage
		 FROM expense_splits s JOIN expenses e ON e.id = s.expense_id
		 WHERE e.event_id = ?`,
		eventID,
	)
	if err != nil {
		return nil, err
	}
	for _, expense := range expenses {
		expense.SplitDetails = splits[expense.ID]
		if expense.SplitDetails == nil {
			expense.SplitDetails = make(map[string]models.SplitShare)
		}
	}

	return expenses, nil
}

// DeleteExpense removes an expense and its split details.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	return requireAffected(result, "expense", expenseID)
}

// loadSplits runs a split query and groups the rows by expense ID.
func (s *SQLiteStore) loadSplits(ctx context.Context, query string, args ...any) (map[string]map[string]models.SplitShare, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get expense splits: %w", err)
	}
	defer rows.Close()

	splits := make(map[string]map[string]models.SplitShare)
	for rows.Next() {
		var expenseID, participant string
		var share models.SplitShare
		if err := rows.Scan(&expenseID, &participant, &share.Amount, &share.Percentage); err != nil {
			return nil, fmt.Errorf("failed to scan expense split: %w", err)
		}
		if splits[expenseID] == nil {
			splits[expenseID] = make(map[string]models.SplitShare)
		}
		splits[expenseID][participant] = share
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense splits: %w", err)
	}

	return splits, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanExpense(row scanner) (*models.Expense, error) {
	expense := &models.Expense{}
	var category, receiptURL sql.NullString

	if err := row.Scan(&expense.ID, &expense.EventID, &expense.PaidBy, &expense.Description, &expense.Amount,
		&expense.SplitType, &category, &receiptURL, &expense.CreatedBy, &expense.CreatedAt); err != nil {
		return nil, err
	}

	expense.Category = category.String
	expense.ReceiptURL = receiptURL.String
	return expense, nil
}

// nullString stores empty optional text as NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
