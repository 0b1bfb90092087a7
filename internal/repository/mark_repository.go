package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/gradebook-api/internal/models"
)

// MarkRepository manages persistence for mark records. The (student_id,
// week_id) pair is unique at the storage layer, so resubmitting a score
// updates in place rather than duplicating the row.
type MarkRepository struct {
	db *sqlx.DB
}

// NewMarkRepository constructs a MarkRepository.
func NewMarkRepository(db *sqlx.DB) *MarkRepository {
	return &MarkRepository{db: db}
}

const markColumns = "id, student_id, week_id, score, class, entered_by, teacher_id, created_at, updated_at"

// ListAll returns every mark record for the all-weeks analytics scope.
func (r *MarkRepository) ListAll(ctx context.Context) ([]models.Mark, error) {
	query := fmt.Sprintf("SELECT %s FROM marks", markColumns)
	var marks []models.Mark
	if err := r.db.SelectContext(ctx, &marks, query); err != nil {
		return nil, fmt.Errorf("list marks: %w", err)
	}
	return marks, nil
}

// ListByWeek returns the marks of one assessment week.
func (r *MarkRepository) ListByWeek(ctx context.Context, weekID string) ([]models.Mark, error) {
	query := fmt.Sprintf("SELECT %s FROM marks WHERE week_id = $1", markColumns)
	var marks []models.Mark
	if err := r.db.SelectContext(ctx, &marks, query, weekID); err != nil {
		return nil, fmt.Errorf("list marks by week: %w", err)
	}
	return marks, nil
}

// ListByClass returns the marks entered for one class label.
func (r *MarkRepository) ListByClass(ctx context.Context, class string) ([]models.Mark, error) {
	query := fmt.Sprintf("SELECT %s FROM marks WHERE class = $1", markColumns)
	var marks []models.Mark
	if err := r.db.SelectContext(ctx, &marks, query, class); err != nil {
		return nil, fmt.Errorf("list marks by class: %w", err)
	}
	return marks, nil
}

// ListByWeekAndClass returns the marks of one week restricted to one class,
// backing the entry sheet.
func (r *MarkRepository) ListByWeekAndClass(ctx context.Context, weekID, class string) ([]models.Mark, error) {
	query := fmt.Sprintf("SELECT %s FROM marks WHERE week_id = $1 AND class = $2", markColumns)
	var marks []models.Mark
	if err := r.db.SelectContext(ctx, &marks, query, weekID, class); err != nil {
		return nil, fmt.Errorf("list marks by week and class: %w", err)
	}
	return marks, nil
}

// UpsertBatch writes a batch of marks in one transaction. Conflicting rows
// on (student_id, week_id) are updated in place, keeping one mark per
// student per week without a read-then-write race.
func (r *MarkRepository) UpsertBatch(ctx context.Context, marks []models.Mark) error {
	if len(marks) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert marks: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const query = `INSERT INTO marks (id, student_id, week_id, score, class, entered_by, teacher_id, created_at, updated_at)
        VALUES (:id, :student_id, :week_id, :score, :class, :entered_by, :teacher_id, :created_at, :updated_at)
        ON CONFLICT (student_id, week_id) DO UPDATE
        SET score = EXCLUDED.score,
            class = EXCLUDED.class,
            entered_by = EXCLUDED.entered_by,
            teacher_id = EXCLUDED.teacher_id,
            updated_at = EXCLUDED.updated_at`
	now := time.Now().UTC()
	for i := range marks {
		if marks[i].ID == "" {
			marks[i].ID = uuid.NewString()
		}
		if marks[i].CreatedAt.IsZero() {
			marks[i].CreatedAt = now
		}
		marks[i].UpdatedAt = now
		if _, err := tx.NamedExecContext(ctx, query, marks[i]); err != nil {
			return fmt.Errorf("upsert mark for student %s week %s: %w", marks[i].StudentID, marks[i].WeekID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert marks: %w", err)
	}
	return nil
}

// Count returns the total number of mark records.
func (r *MarkRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM marks"); err != nil {
		return 0, fmt.Errorf("count marks: %w", err)
	}
	return total, nil
}
