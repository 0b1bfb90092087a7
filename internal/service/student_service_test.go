package service

import (
	"bytes"
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/noah-isme/gradebook-api/internal/models"
	appErrors "github.com/noah-isme/gradebook-api/pkg/errors"
)

type mockStudentRepo struct {
	students       []models.Student
	existsErr      error
	createErr      error
	bulkErr        error
	deleteErr      error
	bulkCalls      int
	lastBulk       []models.Student
	deletedIDs     []string
	existingByAdm  map[string]bool
	listTotalCount int
}

func (m *mockStudentRepo) List(_ context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	total := m.listTotalCount
	if total == 0 {
		total = len(m.students)
	}
	return m.students, total, nil
}

func (m *mockStudentRepo) FindByID(_ context.Context, id string) (*models.Student, error) {
	for i := range m.students {
		if m.students[i].ID == id {
			return &m.students[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) ExistsByAdmissionNo(_ context.Context, admissionNo string) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	return m.existingByAdm[admissionNo], nil
}

func (m *mockStudentRepo) Create(_ context.Context, student *models.Student) error {
	if m.createErr != nil {
		return m.createErr
	}
	student.ID = "generated"
	m.students = append(m.students, *student)
	return nil
}

func (m *mockStudentRepo) BulkCreate(_ context.Context, students []models.Student) error {
	m.bulkCalls++
	if m.bulkErr != nil {
		return m.bulkErr
	}
	m.lastBulk = students
	m.students = append(m.students, students...)
	return nil
}

func (m *mockStudentRepo) DeleteWithMarks(_ context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedIDs = append(m.deletedIDs, id)
	return nil
}

func newStudentUnderTest(repo *mockStudentRepo) *StudentService {
	return NewStudentService(repo, nil, zap.NewNop(), "")
}

func TestStudentCreate(t *testing.T) {
	repo := &mockStudentRepo{existingByAdm: map[string]bool{}}
	svc := newStudentUnderTest(repo)

	student, err := svc.Create(context.Background(), CreateStudentRequest{
		AdmissionNo: "A010", Name: "New Student", Gender: "female", Form: "4E",
	})

	require.NoError(t, err)
	assert.Equal(t, "generated", student.ID)
	assert.Equal(t, "A010", student.AdmissionNo)
}

func TestStudentCreateDuplicateAdmissionNo(t *testing.T) {
	repo := &mockStudentRepo{existingByAdm: map[string]bool{"A010": true}}
	svc := newStudentUnderTest(repo)

	_, err := svc.Create(context.Background(), CreateStudentRequest{
		AdmissionNo: "A010", Name: "New Student", Gender: "female", Form: "4E",
	})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestStudentCreateInvalidGender(t *testing.T) {
	svc := newStudentUnderTest(&mockStudentRepo{existingByAdm: map[string]bool{}})

	_, err := svc.Create(context.Background(), CreateStudentRequest{
		AdmissionNo: "A010", Name: "New Student", Gender: "unknown", Form: "4E",
	})

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestStudentGetNotFound(t *testing.T) {
	svc := newStudentUnderTest(&mockStudentRepo{})

	_, err := svc.Get(context.Background(), "missing")

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestStudentDeleteCascades(t *testing.T) {
	repo := &mockStudentRepo{}
	svc := newStudentUnderTest(repo)

	require.NoError(t, svc.Delete(context.Background(), "sx"))
	assert.Equal(t, []string{"sx"}, repo.deletedIDs)
}

func TestStudentDeleteMissingMapsToNotFound(t *testing.T) {
	repo := &mockStudentRepo{deleteErr: sql.ErrNoRows}
	svc := newStudentUnderTest(repo)

	err := svc.Delete(context.Background(), "missing")

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func rosterWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	workbook := excelize.NewFile()
	defer func() { _ = workbook.Close() }()
	sheet := workbook.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, workbook.SetSheetRow(sheet, cell, &row))
	}
	buf, err := workbook.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestStudentBulkImport(t *testing.T) {
	repo := &mockStudentRepo{existingByAdm: map[string]bool{"A002": true}}
	svc := newStudentUnderTest(repo)

	buf := rosterWorkbook(t, [][]interface{}{
		{"ADM", "Name", "Gender", "Form"},
		{"A001", "Student One", "F", "4E"},
		{"A002", "Student Two", "male", "4W"},  // already registered
		{"A003", "", "female", "4E"},           // missing name
		{"A004", "Student Four", "male", "4W"},
		{"A004", "Student Four Again", "male", "4W"}, // duplicate in file
	})

	report, err := svc.BulkImport(context.Background(), buf)

	require.NoError(t, err)
	assert.Equal(t, 2, report.Created)
	assert.Equal(t, 3, report.Skipped)
	assert.Len(t, report.Errors, 3)
	assert.Equal(t, 1, repo.bulkCalls)
	require.Len(t, repo.lastBulk, 2)
	assert.Equal(t, "A001", repo.lastBulk[0].AdmissionNo)
	assert.Equal(t, "female", repo.lastBulk[0].Gender, "single-letter gender is normalised")
	assert.Equal(t, "A004", repo.lastBulk[1].AdmissionNo)
}

func TestStudentBulkImportHeadersCaseInsensitive(t *testing.T) {
	repo := &mockStudentRepo{existingByAdm: map[string]bool{}}
	svc := newStudentUnderTest(repo)

	buf := rosterWorkbook(t, [][]interface{}{
		{"adm", "name", "GENDER", "form"},
		{"A001", "Student One", "female", "4E"},
	})

	report, err := svc.BulkImport(context.Background(), buf)

	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)
}

func TestStudentBulkImportMissingColumn(t *testing.T) {
	svc := newStudentUnderTest(&mockStudentRepo{existingByAdm: map[string]bool{}})

	buf := rosterWorkbook(t, [][]interface{}{
		{"ADM", "Name", "Gender"},
		{"A001", "Student One", "female"},
	})

	_, err := svc.BulkImport(context.Background(), buf)

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestStudentBulkImportUnreadableFile(t *testing.T) {
	svc := newStudentUnderTest(&mockStudentRepo{})

	_, err := svc.BulkImport(context.Background(), bytes.NewBufferString("not a workbook"))

	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
