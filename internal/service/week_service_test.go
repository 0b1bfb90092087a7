package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/gradebook-api/internal/models"
	appErrors "github.com/noah-isme/gradebook-api/pkg/errors"
)

type mockWeekRepo struct {
	weeks      []models.Week
	createErr  error
	deleteErr  error
	deletedIDs []string
}

func (m *mockWeekRepo) List(_ context.Context) ([]models.Week, error) {
	return m.weeks, nil
}

func (m *mockWeekRepo) FindByID(_ context.Context, id string) (*models.Week, error) {
	for i := range m.weeks {
		if m.weeks[i].ID == id {
			return &m.weeks[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockWeekRepo) Create(_ context.Context, week *models.Week) error {
	if m.createErr != nil {
		return m.createErr
	}
	week.ID = "generated"
	m.weeks = append(m.weeks, *week)
	return nil
}

func (m *mockWeekRepo) DeleteWithMarks(_ context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedIDs = append(m.deletedIDs, id)
	return nil
}

func newWeekUnderTest(repo *mockWeekRepo) *WeekService {
	return NewWeekService(repo, nil, zap.NewNop())
}

func TestWeekCreate(t *testing.T) {
	repo := &mockWeekRepo{}
	svc := newWeekUnderTest(repo)

	week, err := svc.Create(context.Background(), CreateWeekRequest{Term: 1, WeekNumber: 3, Description: " CAT 1 "})

	require.NoError(t, err)
	assert.Equal(t, "generated", week.ID)
	assert.Equal(t, 1, week.Term)
	assert.Equal(t, 3, week.WeekNumber)
	assert.Equal(t, "CAT 1", week.Description)
}

func TestWeekCreateInvalidTerm(t *testing.T) {
	svc := newWeekUnderTest(&mockWeekRepo{})

	_, err := svc.Create(context.Background(), CreateWeekRequest{Term: 0, WeekNumber: 3})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestWeekGetNotFound(t *testing.T) {
	svc := newWeekUnderTest(&mockWeekRepo{})

	_, err := svc.Get(context.Background(), "missing")

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestWeekDeleteCascades(t *testing.T) {
	repo := &mockWeekRepo{weeks: []models.Week{{ID: "w1", Term: 1, WeekNumber: 1}}}
	svc := newWeekUnderTest(repo)

	require.NoError(t, svc.Delete(context.Background(), "w1"))
	assert.Equal(t, []string{"w1"}, repo.deletedIDs)
}

func TestWeekDeleteMissingMapsToNotFound(t *testing.T) {
	repo := &mockWeekRepo{deleteErr: sql.ErrNoRows}
	svc := newWeekUnderTest(repo)

	err := svc.Delete(context.Background(), "missing")

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
