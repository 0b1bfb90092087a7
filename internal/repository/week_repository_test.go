package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gradebook-api/internal/models"
)

func weekRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "term", "week_number", "description", "created_at"})
}

func TestWeekRepositoryListOrdered(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewWeekRepository(db, nil)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY term ASC, week_number ASC")).
		WillReturnRows(weekRows().
			AddRow("w1", 1, 1, "Opener", time.Now()).
			AddRow("w2", 1, 2, "", time.Now()))

	weeks, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, weeks, 2)
	assert.Equal(t, "w1", weeks[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWeekRepositoryListFallsBackToUnorderedSort(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewWeekRepository(db, nil)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY term ASC, week_number ASC")).
		WillReturnError(sql.ErrConnDone)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, term, week_number, description, created_at FROM weeks")).
		WillReturnRows(weekRows().
			AddRow("t2w1", 2, 1, "", time.Now()).
			AddRow("t1w2", 1, 2, "", time.Now()).
			AddRow("t1w1", 1, 1, "", time.Now()))

	weeks, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, weeks, 3)
	assert.Equal(t, "t1w1", weeks[0].ID)
	assert.Equal(t, "t1w2", weeks[1].ID)
	assert.Equal(t, "t2w1", weeks[2].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWeekRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewWeekRepository(db, nil)

	mock.ExpectExec("INSERT INTO weeks").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	week := &models.Week{Term: 1, WeekNumber: 3, Description: "Midterm"}
	require.NoError(t, repo.Create(context.Background(), week))
	assert.NotEmpty(t, week.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWeekRepositoryDeleteWithMarksCascades(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewWeekRepository(db, nil)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM marks WHERE week_id = $1")).
		WithArgs("w1").
		WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM weeks WHERE id = $1")).
		WithArgs("w1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteWithMarks(context.Background(), "w1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
