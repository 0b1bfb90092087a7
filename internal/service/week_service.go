package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/gradebook-api/internal/models"
	appErrors "github.com/noah-isme/gradebook-api/pkg/errors"
)

type weekRepository interface {
	List(ctx context.Context) ([]models.Week, error)
	FindByID(ctx context.Context, id string) (*models.Week, error)
	Create(ctx context.Context, week *models.Week) error
	DeleteWithMarks(ctx context.Context, id string) error
}

// CreateWeekRequest is the payload for opening an assessment week.
type CreateWeekRequest struct {
	Term        int    `json:"term" validate:"required,min=1"`
	WeekNumber  int    `json:"week_number" validate:"required,min=1"`
	Description string `json:"description"`
}

// WeekService implements assessment week management.
type WeekService struct {
	repo      weekRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewWeekService constructs a WeekService.
func NewWeekService(repo weekRepository, validate *validator.Validate, logger *zap.Logger) *WeekService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WeekService{repo: repo, validator: validate, logger: logger}
}

// List returns every week in canonical term/week-number order.
func (s *WeekService) List(ctx context.Context) ([]models.Week, error) {
	weeks, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list weeks")
	}
	return weeks, nil
}

// Get fetches one week.
func (s *WeekService) Get(ctx context.Context, id string) (*models.Week, error) {
	week, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "week not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch week")
	}
	return week, nil
}

// Create opens a new assessment week. (term, week_number) pairs are unique
// by convention only; duplicates are allowed and ordered deterministically.
func (s *WeekService) Create(ctx context.Context, req CreateWeekRequest) (*models.Week, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid week payload")
	}

	week := &models.Week{
		Term:        req.Term,
		WeekNumber:  req.WeekNumber,
		Description: strings.TrimSpace(req.Description),
	}
	if err := s.repo.Create(ctx, week); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create week")
	}
	return week, nil
}

// Delete removes the week and cascades over its marks.
func (s *WeekService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteWithMarks(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "week not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete week")
	}
	s.logger.Info("week deleted with marks", zap.String("week_id", id))
	return nil
}
