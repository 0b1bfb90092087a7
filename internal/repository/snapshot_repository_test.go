package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gradebook-api/internal/models"
)

func TestScopeKey(t *testing.T) {
	assert.Equal(t, "overall", ScopeKey(models.ScopeAll))
	assert.Equal(t, "week_w1", ScopeKey("w1"))
}

func TestSnapshotRepositorySaveUpserts(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSnapshotRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (scope_key) DO UPDATE")).
		WithArgs("overall", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	snapshot := models.AnalyticsSnapshot{Scope: models.ScopeAll, GeneratedAt: time.Now(), MarkCount: 3}
	require.NoError(t, repo.Save(context.Background(), snapshot))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotRepositoryFindRoundTrips(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSnapshotRepository(db)

	generated := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	payload, err := json.Marshal(models.AnalyticsSnapshot{Scope: "w1", GeneratedAt: generated, MarkCount: 2})
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("FROM analytics_snapshots WHERE scope_key = $1")).
		WithArgs("week_w1").
		WillReturnRows(sqlmock.NewRows([]string{"scope_key", "payload", "generated_at"}).
			AddRow("week_w1", payload, generated))

	stored, err := repo.Find(context.Background(), "w1")
	require.NoError(t, err)
	assert.Equal(t, "week_w1", stored.ScopeKey)
	assert.Equal(t, 2, stored.Payload.MarkCount)
	assert.Equal(t, generated, stored.Payload.GeneratedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSnapshotRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM analytics_snapshots WHERE scope_key = $1")).
		WithArgs("week_w1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "w1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotRepositoryFindMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSnapshotRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM analytics_snapshots WHERE scope_key = $1")).
		WithArgs("overall").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Find(context.Background(), models.ScopeAll)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
