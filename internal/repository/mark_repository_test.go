package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gradebook-api/internal/models"
)

func markRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "student_id", "week_id", "score", "class", "entered_by", "teacher_id", "created_at", "updated_at"})
}

func TestMarkRepositoryListByWeek(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMarkRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM marks WHERE week_id = $1")).
		WithArgs("w1").
		WillReturnRows(markRows().
			AddRow("m1", "s1", "w1", 80.0, "4E", "teacher1", "t1", time.Now(), time.Now()))

	marks, err := repo.ListByWeek(context.Background(), "w1")
	require.NoError(t, err)
	require.Len(t, marks, 1)
	assert.Equal(t, 80.0, marks[0].Score)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkRepositoryUpsertBatch(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMarkRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (student_id, week_id) DO UPDATE")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (student_id, week_id) DO UPDATE")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	marks := []models.Mark{
		{StudentID: "s1", WeekID: "w1", Score: 80, Class: "4E", EnteredBy: "teacher1", TeacherID: "t1"},
		{StudentID: "s2", WeekID: "w1", Score: 60, Class: "4E", EnteredBy: "teacher1", TeacherID: "t1"},
	}
	require.NoError(t, repo.UpsertBatch(context.Background(), marks))
	assert.NotEmpty(t, marks[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkRepositoryUpsertBatchEmptyIsNoop(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMarkRepository(db)

	require.NoError(t, repo.UpsertBatch(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkRepositoryCount(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMarkRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM marks")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	total, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
