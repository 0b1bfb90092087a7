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

type stubMarkStore struct {
	stored      []models.Mark
	upsertErr   error
	upsertCalls int
}

func (s *stubMarkStore) ListByWeekAndClass(_ context.Context, weekID, class string) ([]models.Mark, error) {
	var out []models.Mark
	for _, mark := range s.stored {
		if mark.WeekID == weekID && mark.Class == class {
			out = append(out, mark)
		}
	}
	return out, nil
}

func (s *stubMarkStore) UpsertBatch(_ context.Context, marks []models.Mark) error {
	s.upsertCalls++
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.stored = append(s.stored, marks...)
	return nil
}

type stubRoster struct {
	students []models.Student
}

func (s *stubRoster) List(_ context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	var out []models.Student
	for _, student := range s.students {
		if filter.Class == "" || student.Form == filter.Class {
			out = append(out, student)
		}
	}
	return out, len(out), nil
}

func (s *stubRoster) FindByID(_ context.Context, id string) (*models.Student, error) {
	for i := range s.students {
		if s.students[i].ID == id {
			return &s.students[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

type stubWeekFinder struct {
	weeks []models.Week
}

func (s *stubWeekFinder) FindByID(_ context.Context, id string) (*models.Week, error) {
	for i := range s.weeks {
		if s.weeks[i].ID == id {
			return &s.weeks[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

var (
	adminActor   = models.UserInfo{ID: "u-admin", Username: "head", Role: models.RoleAdmin}
	teacherActor = models.UserInfo{ID: "u-t1", Username: "mwangi", Role: models.RoleTeacher, AssignedClass: "4E"}
)

func newMarkUnderTest() (*MarkService, *stubMarkStore) {
	marks := &stubMarkStore{}
	roster := &stubRoster{students: []models.Student{
		{ID: "sx", AdmissionNo: "A001", Name: "Student X", Form: "4E"},
		{ID: "sy", AdmissionNo: "A002", Name: "Student Y", Form: "4W"},
	}}
	weeks := &stubWeekFinder{weeks: []models.Week{
		{ID: "w1", Term: 1, WeekNumber: 1},
		{ID: "w2", Term: 1, WeekNumber: 2},
	}}
	return NewMarkService(marks, roster, weeks, nil, zap.NewNop(), 0, 100), marks
}

func TestMarkStageAndCommitWeek(t *testing.T) {
	svc, store := newMarkUnderTest()
	ctx := context.Background()

	require.NoError(t, svc.Stage(ctx, adminActor, models.MarkEntry{StudentID: "sx", WeekID: "w1", Score: 80}))
	require.NoError(t, svc.Stage(ctx, adminActor, models.MarkEntry{StudentID: "sy", WeekID: "w1", Score: 60}))
	require.NoError(t, svc.Stage(ctx, adminActor, models.MarkEntry{StudentID: "sx", WeekID: "w2", Score: 90}))

	count, err := svc.Commit(ctx, adminActor, "w1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Len(t, store.stored, 2)
	for _, mark := range store.stored {
		assert.Equal(t, "w1", mark.WeekID)
		assert.Equal(t, "head", mark.EnteredBy)
		assert.Equal(t, "u-admin", mark.TeacherID)
	}

	// The w2 entry survives the w1 commit.
	count, err = svc.Commit(ctx, adminActor, "w2")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMarkStageRestagingOverwritesScore(t *testing.T) {
	svc, store := newMarkUnderTest()
	ctx := context.Background()

	require.NoError(t, svc.Stage(ctx, adminActor, models.MarkEntry{StudentID: "sx", WeekID: "w1", Score: 55}))
	require.NoError(t, svc.Stage(ctx, adminActor, models.MarkEntry{StudentID: "sx", WeekID: "w1", Score: 72}))

	count, err := svc.Commit(ctx, adminActor, "w1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	require.Len(t, store.stored, 1)
	assert.InDelta(t, 72.0, store.stored[0].Score, 1e-9)
}

func TestMarkStageRejectsOutOfRangeScore(t *testing.T) {
	svc, _ := newMarkUnderTest()

	err := svc.Stage(context.Background(), adminActor, models.MarkEntry{StudentID: "sx", WeekID: "w1", Score: 105})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestMarkStageUnknownStudentOrWeek(t *testing.T) {
	svc, _ := newMarkUnderTest()
	ctx := context.Background()

	err := svc.Stage(ctx, adminActor, models.MarkEntry{StudentID: "ghost", WeekID: "w1", Score: 50})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	err = svc.Stage(ctx, adminActor, models.MarkEntry{StudentID: "sx", WeekID: "w9", Score: 50})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestMarkStageTeacherConfinedToAssignedClass(t *testing.T) {
	svc, _ := newMarkUnderTest()
	ctx := context.Background()

	require.NoError(t, svc.Stage(ctx, teacherActor, models.MarkEntry{StudentID: "sx", WeekID: "w1", Score: 70}))

	err := svc.Stage(ctx, teacherActor, models.MarkEntry{StudentID: "sy", WeekID: "w1", Score: 70})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestMarkSessionsAreIsolatedPerUser(t *testing.T) {
	svc, _ := newMarkUnderTest()
	ctx := context.Background()

	require.NoError(t, svc.Stage(ctx, teacherActor, models.MarkEntry{StudentID: "sx", WeekID: "w1", Score: 70}))

	_, err := svc.Commit(ctx, adminActor, "w1")
	require.Error(t, err, "another user's staged entries are not visible")

	count, err := svc.Commit(ctx, teacherActor, "w1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMarkDiscardRemovesOnlyThatEntry(t *testing.T) {
	svc, _ := newMarkUnderTest()
	ctx := context.Background()

	require.NoError(t, svc.Stage(ctx, adminActor, models.MarkEntry{StudentID: "sx", WeekID: "w1", Score: 80}))
	require.NoError(t, svc.Stage(ctx, adminActor, models.MarkEntry{StudentID: "sy", WeekID: "w1", Score: 60}))

	require.NoError(t, svc.Discard(adminActor, "sx", "w1"))
	err := svc.Discard(adminActor, "sx", "w1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	count, err := svc.Commit(ctx, adminActor, "w1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMarkCommitNothingStaged(t *testing.T) {
	svc, store := newMarkUnderTest()

	_, err := svc.Commit(context.Background(), adminActor, "w1")

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Zero(t, store.upsertCalls)
}

func TestMarkCommitFailureRestoresStagedEntries(t *testing.T) {
	svc, store := newMarkUnderTest()
	ctx := context.Background()

	require.NoError(t, svc.Stage(ctx, adminActor, models.MarkEntry{StudentID: "sx", WeekID: "w1", Score: 80}))
	store.upsertErr = assert.AnError

	_, err := svc.Commit(ctx, adminActor, "w1")
	require.Error(t, err)

	store.upsertErr = nil
	count, err := svc.Commit(ctx, adminActor, "w1")
	require.NoError(t, err)
	assert.Equal(t, 1, count, "staged entries survive a failed commit")
}

func TestMarkSheetOverlaysStoredAndPending(t *testing.T) {
	svc, store := newMarkUnderTest()
	ctx := context.Background()
	store.stored = []models.Mark{{StudentID: "sx", WeekID: "w1", Score: 65, Class: "4E"}}

	require.NoError(t, svc.Stage(ctx, teacherActor, models.MarkEntry{StudentID: "sx", WeekID: "w1", Score: 71}))

	sheet, err := svc.Sheet(ctx, teacherActor, "w1", "")
	require.NoError(t, err)
	assert.Equal(t, "4E", sheet.Class, "teacher sheet is forced to the assigned class")
	require.Len(t, sheet.Rows, 1)
	require.NotNil(t, sheet.Rows[0].Score)
	assert.InDelta(t, 65.0, *sheet.Rows[0].Score, 1e-9)
	require.NotNil(t, sheet.Rows[0].Pending)
	assert.InDelta(t, 71.0, *sheet.Rows[0].Pending, 1e-9)
}

func TestMarkSheetAdminNeedsClass(t *testing.T) {
	svc, _ := newMarkUnderTest()

	_, err := svc.Sheet(context.Background(), adminActor, "w1", "")

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
