package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/noah-isme/gradebook-api/internal/models"
	appErrors "github.com/noah-isme/gradebook-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	ExistsByAdmissionNo(ctx context.Context, admissionNo string) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	BulkCreate(ctx context.Context, students []models.Student) error
	DeleteWithMarks(ctx context.Context, id string) error
}

// CreateStudentRequest is the payload for registering one student.
type CreateStudentRequest struct {
	AdmissionNo string `json:"admission_no" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Gender      string `json:"gender" validate:"required,oneof=male female other"`
	Form        string `json:"form" validate:"required"`
}

// StudentService implements roster management use cases.
type StudentService struct {
	repo      studentRepository
	validator *validator.Validate
	logger    *zap.Logger
	sheetName string
}

// NewStudentService constructs a StudentService.
func NewStudentService(repo studentRepository, validate *validator.Validate, logger *zap.Logger, sheetName string) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, validator: validate, logger: logger, sheetName: sheetName}
}

// List returns students with pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 500 {
		size = 100
	}
	return students, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get fetches one student.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student")
	}
	return student, nil
}

// Create registers one student, rejecting duplicate admission numbers.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}

	exists, err := s.repo.ExistsByAdmissionNo(ctx, req.AdmissionNo)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check admission number")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "admission number already registered")
	}

	student := &models.Student{
		AdmissionNo: strings.TrimSpace(req.AdmissionNo),
		Name:        strings.TrimSpace(req.Name),
		Gender:      req.Gender,
		Form:        strings.TrimSpace(req.Form),
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	return student, nil
}

// Delete removes the student and cascades over their marks.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteWithMarks(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	s.logger.Info("student deleted with marks", zap.String("student_id", id))
	return nil
}

// importHeaders are the required columns of a roster workbook, matched
// case-insensitively against the first row.
var importHeaders = []string{"ADM", "Name", "Gender", "Form"}

// BulkImport reads an .xlsx roster and registers every valid new row in one
// transaction. Rows with missing fields or already-registered admission
// numbers are skipped and reported; they never abort the batch.
func (s *StudentService) BulkImport(ctx context.Context, file io.Reader) (*models.ImportReport, error) {
	workbook, err := excelize.OpenReader(file)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unreadable workbook")
	}
	defer func() { _ = workbook.Close() }()

	sheet := s.sheetName
	if sheet == "" {
		sheet = workbook.GetSheetName(0)
	}
	rows, err := workbook.GetRows(sheet)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unreadable sheet")
	}
	if len(rows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "workbook has no rows")
	}

	columns, err := mapImportColumns(rows[0])
	if err != nil {
		return nil, err
	}

	report := &models.ImportReport{}
	seen := make(map[string]struct{})
	var batch []models.Student
	for i, row := range rows[1:] {
		cell := func(idx int) string {
			if idx < len(row) {
				return strings.TrimSpace(row[idx])
			}
			return ""
		}
		admissionNo := cell(columns["ADM"])
		name := cell(columns["Name"])
		gender := normaliseGender(cell(columns["Gender"]))
		form := cell(columns["Form"])

		if admissionNo == "" || name == "" || form == "" {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("row %d: missing required fields", i+2))
			continue
		}
		if _, dup := seen[admissionNo]; dup {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("row %d: duplicate admission number %s in file", i+2, admissionNo))
			continue
		}
		seen[admissionNo] = struct{}{}

		exists, err := s.repo.ExistsByAdmissionNo(ctx, admissionNo)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check admission number")
		}
		if exists {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("row %d: admission number %s already registered", i+2, admissionNo))
			continue
		}

		batch = append(batch, models.Student{AdmissionNo: admissionNo, Name: name, Gender: gender, Form: form})
	}

	if len(batch) > 0 {
		if err := s.repo.BulkCreate(ctx, batch); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to import students")
		}
	}
	report.Created = len(batch)
	s.logger.Info("roster import finished", zap.Int("created", report.Created), zap.Int("skipped", report.Skipped))
	return report, nil
}

func mapImportColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(importHeaders))
	for idx, raw := range header {
		name := strings.TrimSpace(raw)
		for _, want := range importHeaders {
			if strings.EqualFold(name, want) {
				columns[want] = idx
			}
		}
	}
	for _, want := range importHeaders {
		if _, ok := columns[want]; !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("missing required column %q", want))
		}
	}
	return columns, nil
}

func normaliseGender(raw string) string {
	switch strings.ToLower(raw) {
	case "male", "m":
		return "male"
	case "female", "f":
		return "female"
	default:
		return "other"
	}
}
