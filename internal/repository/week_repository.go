package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/gradebook-api/internal/models"
)

// WeekRepository manages persistence for assessment weeks.
type WeekRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewWeekRepository constructs a WeekRepository.
func NewWeekRepository(db *sqlx.DB, logger *zap.Logger) *WeekRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WeekRepository{db: db, logger: logger}
}

// List returns every week in canonical order: term ascending, week number
// ascending. When the ordered query fails (for example a missing index on a
// fresh store) it falls back to an unordered fetch sorted in memory, so
// callers always receive the canonical order.
func (r *WeekRepository) List(ctx context.Context) ([]models.Week, error) {
	const ordered = `SELECT id, term, week_number, description, created_at FROM weeks ORDER BY term ASC, week_number ASC`
	var weeks []models.Week
	if err := r.db.SelectContext(ctx, &weeks, ordered); err == nil {
		return weeks, nil
	} else {
		r.logger.Warn("ordered week fetch failed, falling back to unordered", zap.Error(err))
	}

	const unordered = `SELECT id, term, week_number, description, created_at FROM weeks`
	if err := r.db.SelectContext(ctx, &weeks, unordered); err != nil {
		return nil, fmt.Errorf("list weeks: %w", err)
	}
	sort.Slice(weeks, func(i, j int) bool {
		if weeks[i].Term != weeks[j].Term {
			return weeks[i].Term < weeks[j].Term
		}
		return weeks[i].WeekNumber < weeks[j].WeekNumber
	})
	return weeks, nil
}

// FindByID fetches one week by ID.
func (r *WeekRepository) FindByID(ctx context.Context, id string) (*models.Week, error) {
	const query = `SELECT id, term, week_number, description, created_at FROM weeks WHERE id = $1`
	var week models.Week
	if err := r.db.GetContext(ctx, &week, query, id); err != nil {
		return nil, err
	}
	return &week, nil
}

// Create inserts a new assessment week.
func (r *WeekRepository) Create(ctx context.Context, week *models.Week) error {
	if week.ID == "" {
		week.ID = uuid.NewString()
	}
	if week.CreatedAt.IsZero() {
		week.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO weeks (id, term, week_number, description, created_at)
        VALUES (:id, :term, :week_number, :description, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, week); err != nil {
		return fmt.Errorf("create week: %w", err)
	}
	return nil
}

// DeleteWithMarks removes the week and every mark referencing it inside one
// transaction.
func (r *WeekRepository) DeleteWithMarks(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete week: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM marks WHERE week_id = $1", id); err != nil {
		return fmt.Errorf("delete week marks: %w", err)
	}
	result, err := tx.ExecContext(ctx, "DELETE FROM weeks WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete week: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete week: %w", err)
	}
	return nil
}

// Count returns the number of assessment weeks.
func (r *WeekRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM weeks"); err != nil {
		return 0, fmt.Errorf("count weeks: %w", err)
	}
	return total, nil
}
