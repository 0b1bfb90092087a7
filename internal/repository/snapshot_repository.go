package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/gradebook-api/internal/models"
)

// SnapshotRepository is the durable analytics tier: one row per scope key
// holding the full snapshot document as JSONB. It is written only by the
// explicit store operation and read back by the symmetric load; it is never
// synchronised with the fast cache automatically.
type SnapshotRepository struct {
	db *sqlx.DB
}

// NewSnapshotRepository constructs a SnapshotRepository.
func NewSnapshotRepository(db *sqlx.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// ScopeKey maps an analytics scope to its durable row key.
func ScopeKey(scope string) string {
	if scope == models.ScopeAll {
		return "overall"
	}
	return "week_" + scope
}

// Save upserts the snapshot document for its scope.
func (r *SnapshotRepository) Save(ctx context.Context, snapshot models.AnalyticsSnapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	const query = `INSERT INTO analytics_snapshots (scope_key, payload, generated_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (scope_key) DO UPDATE
        SET payload = EXCLUDED.payload, generated_at = EXCLUDED.generated_at`
	if _, err := r.db.ExecContext(ctx, query, ScopeKey(snapshot.Scope), payload, snapshot.GeneratedAt.UTC()); err != nil {
		return fmt.Errorf("save snapshot %s: %w", ScopeKey(snapshot.Scope), err)
	}
	return nil
}

// Find loads the stored snapshot for a scope. Returns sql.ErrNoRows when no
// snapshot has been stored for the scope.
func (r *SnapshotRepository) Find(ctx context.Context, scope string) (*models.StoredSnapshot, error) {
	const query = `SELECT scope_key, payload, generated_at FROM analytics_snapshots WHERE scope_key = $1`
	var row struct {
		ScopeKey    string    `db:"scope_key"`
		Payload     []byte    `db:"payload"`
		GeneratedAt time.Time `db:"generated_at"`
	}
	if err := r.db.GetContext(ctx, &row, query, ScopeKey(scope)); err != nil {
		return nil, err
	}

	stored := &models.StoredSnapshot{ScopeKey: row.ScopeKey, GeneratedAt: row.GeneratedAt}
	if err := json.Unmarshal(row.Payload, &stored.Payload); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot %s: %w", row.ScopeKey, err)
	}
	return stored, nil
}

// Delete removes the stored snapshot for a scope. Missing rows are not an
// error.
func (r *SnapshotRepository) Delete(ctx context.Context, scope string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM analytics_snapshots WHERE scope_key = $1", ScopeKey(scope)); err != nil {
		if err == sql.ErrNoRows {
			return nil
		}
		return fmt.Errorf("delete snapshot %s: %w", ScopeKey(scope), err)
	}
	return nil
}
