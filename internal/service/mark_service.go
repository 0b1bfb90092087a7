package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/gradebook-api/internal/models"
	appErrors "github.com/noah-isme/gradebook-api/pkg/errors"
)

type markRepository interface {
	ListByWeekAndClass(ctx context.Context, weekID, class string) ([]models.Mark, error)
	UpsertBatch(ctx context.Context, marks []models.Mark) error
}

type markStudentSource interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type markWeekSource interface {
	FindByID(ctx context.Context, id string) (*models.Week, error)
}

// entryKey identifies one pending score: which student, which week.
type entryKey struct {
	StudentID string
	WeekID    string
}

// EntrySession is the pending-edit buffer for one user. Scores staged here
// are not visible to analytics until committed; committing a week flushes
// and clears only that week's entries, pending edits for other weeks
// survive.
type EntrySession struct {
	mu      sync.Mutex
	pending map[entryKey]float64
}

func newEntrySession() *EntrySession {
	return &EntrySession{pending: make(map[entryKey]float64)}
}

func (s *EntrySession) stage(key entryKey, score float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[key] = score
}

func (s *EntrySession) discard(key entryKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pending[key]; !ok {
		return false
	}
	delete(s.pending, key)
	return true
}

// takeWeek removes and returns the session's entries for one week.
func (s *EntrySession) takeWeek(weekID string) map[entryKey]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	taken := make(map[entryKey]float64)
	for key, score := range s.pending {
		if key.WeekID == weekID {
			taken[key] = score
			delete(s.pending, key)
		}
	}
	return taken
}

// restore puts entries back after a failed commit so nothing staged is lost.
func (s *EntrySession) restore(entries map[entryKey]float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, score := range entries {
		if _, ok := s.pending[key]; !ok {
			s.pending[key] = score
		}
	}
}

func (s *EntrySession) week(weekID string) []models.MarkEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := make([]models.MarkEntry, 0)
	for key, score := range s.pending {
		if key.WeekID == weekID {
			entries = append(entries, models.MarkEntry{StudentID: key.StudentID, WeekID: key.WeekID, Score: score})
		}
	}
	return entries
}

// SheetRow is one line of the marks entry grid.
type SheetRow struct {
	StudentID   string   `json:"student_id"`
	AdmissionNo string   `json:"admission_no"`
	Name        string   `json:"name"`
	Score       *float64 `json:"score,omitempty"`
	Pending     *float64 `json:"pending,omitempty"`
}

// Sheet is the marks entry grid for one week and class.
type Sheet struct {
	WeekID string     `json:"week_id"`
	Class  string     `json:"class"`
	Rows   []SheetRow `json:"rows"`
}

// MarkService implements the marks entry workflow: an explicit staging
// buffer per user, with commits flushing one week at a time into the
// storage-level upsert.
type MarkService struct {
	marks     markRepository
	students  markStudentSource
	weeks     markWeekSource
	validator *validator.Validate
	logger    *zap.Logger
	minScore  float64
	maxScore  float64

	mu       sync.Mutex
	sessions map[string]*EntrySession
}

// NewMarkService constructs a MarkService.
func NewMarkService(marks markRepository, students markStudentSource, weeks markWeekSource, validate *validator.Validate, logger *zap.Logger, minScore, maxScore float64) *MarkService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxScore <= minScore {
		minScore, maxScore = 0, 100
	}
	return &MarkService{
		marks:     marks,
		students:  students,
		weeks:     weeks,
		validator: validate,
		logger:    logger,
		minScore:  minScore,
		maxScore:  maxScore,
		sessions:  make(map[string]*EntrySession),
	}
}

func (s *MarkService) session(userID string) *EntrySession {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[userID]
	if !ok {
		session = newEntrySession()
		s.sessions[userID] = session
	}
	return session
}

// resolveClass checks the actor may touch the student and returns the class
// label to record with the mark. Teachers are confined to their assigned
// class; admins may enter marks anywhere.
func (s *MarkService) resolveClass(ctx context.Context, actor models.UserInfo, studentID string) (string, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student")
	}
	if actor.Role == models.RoleTeacher && student.Form != actor.AssignedClass {
		return "", appErrors.Clone(appErrors.ErrForbidden, "student is outside your assigned class")
	}
	return student.Form, nil
}

// Stage records a pending score for (student, week) in the actor's session.
func (s *MarkService) Stage(ctx context.Context, actor models.UserInfo, entry models.MarkEntry) error {
	if err := s.validator.Struct(entry); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid mark payload")
	}
	if entry.Score < s.minScore || entry.Score > s.maxScore {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("score must be between %.0f and %.0f", s.minScore, s.maxScore))
	}
	if _, err := s.resolveClass(ctx, actor, entry.StudentID); err != nil {
		return err
	}
	if _, err := s.weeks.FindByID(ctx, entry.WeekID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "week not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch week")
	}

	s.session(actor.ID).stage(entryKey{StudentID: entry.StudentID, WeekID: entry.WeekID}, entry.Score)
	return nil
}

// Discard drops one pending score from the actor's session.
func (s *MarkService) Discard(actor models.UserInfo, studentID, weekID string) error {
	if studentID == "" || weekID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "student_id and week_id are required")
	}
	if !s.session(actor.ID).discard(entryKey{StudentID: studentID, WeekID: weekID}) {
		return appErrors.Clone(appErrors.ErrNotFound, "no pending mark for that student and week")
	}
	return nil
}

// Commit flushes the actor's pending scores for one week into storage and
// clears exactly those entries. Pending edits for other weeks are untouched.
// Returns the number of marks written.
func (s *MarkService) Commit(ctx context.Context, actor models.UserInfo, weekID string) (int, error) {
	if weekID == "" {
		return 0, appErrors.Clone(appErrors.ErrValidation, "week_id is required")
	}
	session := s.session(actor.ID)
	staged := session.takeWeek(weekID)
	if len(staged) == 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "no pending marks for that week")
	}

	batch := make([]models.Mark, 0, len(staged))
	for key, score := range staged {
		class, err := s.resolveClass(ctx, actor, key.StudentID)
		if err != nil {
			session.restore(staged)
			return 0, err
		}
		batch = append(batch, models.Mark{
			StudentID: key.StudentID,
			WeekID:    key.WeekID,
			Score:     score,
			Class:     class,
			EnteredBy: actor.Username,
			TeacherID: actor.ID,
		})
	}

	if err := s.marks.UpsertBatch(ctx, batch); err != nil {
		session.restore(staged)
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit marks")
	}
	s.logger.Info("marks committed",
		zap.String("week_id", weekID),
		zap.String("entered_by", actor.Username),
		zap.Int("count", len(batch)))
	return len(batch), nil
}

// Sheet builds the entry grid for one week and class: the class roster with
// any stored scores and the actor's pending edits overlaid.
func (s *MarkService) Sheet(ctx context.Context, actor models.UserInfo, weekID, class string) (*Sheet, error) {
	if weekID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "week_id is required")
	}
	if actor.Role == models.RoleTeacher {
		class = actor.AssignedClass
	}
	if class == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "class is required")
	}
	if _, err := s.weeks.FindByID(ctx, weekID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "week not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch week")
	}

	roster, _, err := s.students.List(ctx, models.StudentFilter{Class: class, PageSize: 500})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch roster")
	}
	stored, err := s.marks.ListByWeekAndClass(ctx, weekID, class)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch marks")
	}

	scores := make(map[string]float64, len(stored))
	for _, m := range stored {
		scores[m.StudentID] = m.Score
	}
	pending := make(map[string]float64)
	for _, entry := range s.session(actor.ID).week(weekID) {
		pending[entry.StudentID] = entry.Score
	}

	sheet := &Sheet{WeekID: weekID, Class: class, Rows: make([]SheetRow, 0, len(roster))}
	for _, student := range roster {
		row := SheetRow{StudentID: student.ID, AdmissionNo: student.AdmissionNo, Name: student.Name}
		if score, ok := scores[student.ID]; ok {
			v := score
			row.Score = &v
		}
		if score, ok := pending[student.ID]; ok {
			v := score
			row.Pending = &v
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet, nil
}
