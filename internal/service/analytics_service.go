package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/gradebook-api/internal/analytics"
	"github.com/noah-isme/gradebook-api/internal/models"
	appErrors "github.com/noah-isme/gradebook-api/pkg/errors"
)

// AnalyticsStudentRepository describes the roster access AnalyticsService needs.
type AnalyticsStudentRepository interface {
	ListAll(ctx context.Context) ([]models.Student, error)
	Count(ctx context.Context) (int, error)
}

// AnalyticsWeekRepository describes the week access AnalyticsService needs.
type AnalyticsWeekRepository interface {
	List(ctx context.Context) ([]models.Week, error)
	Count(ctx context.Context) (int, error)
}

// AnalyticsMarkRepository describes the mark access AnalyticsService needs.
type AnalyticsMarkRepository interface {
	ListAll(ctx context.Context) ([]models.Mark, error)
	ListByWeek(ctx context.Context, weekID string) ([]models.Mark, error)
	Count(ctx context.Context) (int, error)
}

// AnalyticsSnapshotRepository is the durable snapshot tier.
type AnalyticsSnapshotRepository interface {
	Save(ctx context.Context, snapshot models.AnalyticsSnapshot) error
	Find(ctx context.Context, scope string) (*models.StoredSnapshot, error)
	Delete(ctx context.Context, scope string) error
}

// AnalyticsOptions tunes snapshot derivation and durable storage.
type AnalyticsOptions struct {
	TopN        int
	PassMark    float64
	SnapshotCap int
}

// AnalyticsService orchestrates the analytics pipeline: batch-fetch the three
// collections, run the aggregation engine, and serve results through the
// single-slot cache. Trend and statistics views derive from the same engine
// rather than separate query paths.
type AnalyticsService struct {
	students  AnalyticsStudentRepository
	weeks     AnalyticsWeekRepository
	marks     AnalyticsMarkRepository
	snapshots AnalyticsSnapshotRepository
	cache     *AnalyticsCache
	metrics   *MetricsService
	teachers  TeacherCounter
	logger    *zap.Logger
	opts      AnalyticsOptions
}

// TeacherCounter supplies the teacher headcount for dashboard totals.
type TeacherCounter interface {
	CountByRole(ctx context.Context, role models.UserRole) (int, error)
}

// NewAnalyticsService constructs an analytics service.
func NewAnalyticsService(
	students AnalyticsStudentRepository,
	weeks AnalyticsWeekRepository,
	marks AnalyticsMarkRepository,
	snapshots AnalyticsSnapshotRepository,
	cache *AnalyticsCache,
	metrics *MetricsService,
	logger *zap.Logger,
	opts AnalyticsOptions,
) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.TopN <= 0 {
		opts.TopN = 10
	}
	if opts.PassMark <= 0 {
		opts.PassMark = 50
	}
	if opts.SnapshotCap <= 0 {
		opts.SnapshotCap = 50
	}
	return &AnalyticsService{
		students:  students,
		weeks:     weeks,
		marks:     marks,
		snapshots: snapshots,
		cache:     cache,
		metrics:   metrics,
		logger:    logger,
		opts:      opts,
	}
}

// SetTeacherCounter wires the optional teacher headcount source used by the
// dashboard totals.
func (s *AnalyticsService) SetTeacherCounter(counter TeacherCounter) {
	s.teachers = counter
}

// fetchInputs loads students, weeks and the scope-relevant marks with one
// concurrent batch per collection. Week-scoped requests only pull that
// week's marks.
func (s *AnalyticsService) fetchInputs(ctx context.Context, scope string) ([]models.Student, []models.Week, []models.Mark, error) {
	var (
		wg       sync.WaitGroup
		students []models.Student
		weeks    []models.Week
		marks    []models.Mark
		errs     [3]error
	)

	start := time.Now()
	wg.Add(3)
	go func() {
		defer wg.Done()
		students, errs[0] = s.students.ListAll(ctx)
	}()
	go func() {
		defer wg.Done()
		weeks, errs[1] = s.weeks.List(ctx)
	}()
	go func() {
		defer wg.Done()
		if scope == models.ScopeAll {
			marks, errs[2] = s.marks.ListAll(ctx)
		} else {
			marks, errs[2] = s.marks.ListByWeek(ctx, scope)
		}
	}()
	wg.Wait()

	if s.metrics != nil {
		s.metrics.ObserveDBQuery("analytics_fetch", time.Since(start))
	}
	for _, err := range errs {
		if err != nil {
			return nil, nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "fetch analytics inputs")
		}
	}
	return students, weeks, marks, nil
}

func (s *AnalyticsService) compute(ctx context.Context, scope string) (models.AnalyticsSnapshot, error) {
	students, weeks, marks, err := s.fetchInputs(ctx, scope)
	if err != nil {
		return models.AnalyticsSnapshot{}, err
	}
	return analytics.BuildSnapshot(scope, students, weeks, marks, analytics.Options{
		TopN:     s.opts.TopN,
		PassMark: s.opts.PassMark,
	}), nil
}

// Overview returns the full analytics snapshot for a scope, serving from the
// single-slot cache when it holds a fresh snapshot for the same scope. The
// boolean reports whether the result came from cache.
func (s *AnalyticsService) Overview(ctx context.Context, scope string) (models.AnalyticsSnapshot, bool, error) {
	if scope == "" {
		scope = models.ScopeAll
	}
	if s.cache != nil {
		if snapshot, ok := s.cache.Get(scope); ok {
			return snapshot, true, nil
		}
	}

	snapshot, err := s.compute(ctx, scope)
	if err != nil {
		return models.AnalyticsSnapshot{}, false, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, scope, snapshot)
	}
	return snapshot, false, nil
}

// Regenerate clears the fast cache and recomputes the scope from source
// records, caching and returning the fresh snapshot.
func (s *AnalyticsService) Regenerate(ctx context.Context, scope string) (models.AnalyticsSnapshot, error) {
	if scope == "" {
		scope = models.ScopeAll
	}
	if s.cache != nil {
		s.cache.Clear(ctx)
	}
	snapshot, err := s.compute(ctx, scope)
	if err != nil {
		return models.AnalyticsSnapshot{}, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, scope, snapshot)
	}
	s.logger.Info("analytics regenerated", zap.String("scope", scope), zap.Int("marks", snapshot.MarkCount))
	return snapshot, nil
}

// StoreSnapshot computes the scope and upserts it into the durable tier,
// capping the full merit list at the configured size the way the stored
// document is meant to be consumed. Top and bottom lists are kept whole.
func (s *AnalyticsService) StoreSnapshot(ctx context.Context, scope string) (models.AnalyticsSnapshot, error) {
	if scope == "" {
		scope = models.ScopeAll
	}
	if s.snapshots == nil {
		return models.AnalyticsSnapshot{}, appErrors.Clone(appErrors.ErrInternal, "snapshot store not configured")
	}
	snapshot, err := s.compute(ctx, scope)
	if err != nil {
		return models.AnalyticsSnapshot{}, err
	}

	stored := snapshot
	if len(stored.MeritList) > s.opts.SnapshotCap {
		stored.MeritList = stored.MeritList[:s.opts.SnapshotCap]
	}
	if err := s.snapshots.Save(ctx, stored); err != nil {
		return models.AnalyticsSnapshot{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "store analytics snapshot")
	}
	s.logger.Info("analytics snapshot stored", zap.String("scope", scope))
	return stored, nil
}

// LoadStoredSnapshot reads the durable tier for a scope. A missing snapshot
// maps to NotFound; the fast cache is never consulted or updated here.
func (s *AnalyticsService) LoadStoredSnapshot(ctx context.Context, scope string) (*models.StoredSnapshot, error) {
	if scope == "" {
		scope = models.ScopeAll
	}
	if s.snapshots == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "snapshot store not configured")
	}
	stored, err := s.snapshots.Find(ctx, scope)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no stored snapshot for scope")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load analytics snapshot")
	}
	return stored, nil
}

// DeleteStoredSnapshot removes the durable snapshot for a scope.
func (s *AnalyticsService) DeleteStoredSnapshot(ctx context.Context, scope string) error {
	if scope == "" {
		scope = models.ScopeAll
	}
	if s.snapshots == nil {
		return appErrors.Clone(appErrors.ErrInternal, "snapshot store not configured")
	}
	if err := s.snapshots.Delete(ctx, scope); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "no stored snapshot for scope")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "delete analytics snapshot")
	}
	return nil
}

// ClassStatistics returns the per-class descriptive statistics table for a
// scope, bypassing the snapshot cache so the numbers always reflect source
// records.
func (s *AnalyticsService) ClassStatistics(ctx context.Context, scope string) ([]models.ClassStatistics, error) {
	if scope == "" {
		scope = models.ScopeAll
	}
	students, _, marks, err := s.fetchInputs(ctx, scope)
	if err != nil {
		return nil, err
	}
	idx := analytics.BuildStudentIndex(students)
	agg := analytics.Aggregate(marks, idx, scope)
	return analytics.ClassStatisticsTable(agg), nil
}

// ClassTrend returns the score-over-time series for one class label.
func (s *AnalyticsService) ClassTrend(ctx context.Context, classLabel string) ([]models.WeekPerformance, error) {
	if classLabel == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "class label is required")
	}
	students, weeks, marks, err := s.fetchInputs(ctx, models.ScopeAll)
	if err != nil {
		return nil, err
	}
	studentIdx := analytics.BuildStudentIndex(students)
	weekIdx := analytics.BuildWeekIndex(weeks)
	return analytics.ClassWeekTrend(marks, studentIdx, weekIdx, classLabel), nil
}

// DashboardTotals returns entity counts and the overall average for the
// admin landing page.
func (s *AnalyticsService) DashboardTotals(ctx context.Context) (models.DashboardTotals, error) {
	var (
		wg     sync.WaitGroup
		totals models.DashboardTotals
		errs   [4]error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		totals.Students, errs[0] = s.students.Count(ctx)
	}()
	go func() {
		defer wg.Done()
		totals.Weeks, errs[1] = s.weeks.Count(ctx)
	}()
	go func() {
		defer wg.Done()
		totals.Marks, errs[2] = s.marks.Count(ctx)
	}()
	if s.teachers != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			totals.Teachers, errs[3] = s.teachers.CountByRole(ctx, models.RoleTeacher)
		}()
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return models.DashboardTotals{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "fetch dashboard totals")
		}
	}

	students, _, marks, err := s.fetchInputs(ctx, models.ScopeAll)
	if err != nil {
		return models.DashboardTotals{}, err
	}
	idx := analytics.BuildStudentIndex(students)
	agg := analytics.Aggregate(marks, idx, models.ScopeAll)
	totals.OverallAverage = agg.Total.Average()

	forms := make(map[string]struct{})
	for _, student := range students {
		if student.Form != "" {
			forms[student.Form] = struct{}{}
		}
	}
	totals.Classes = len(forms)
	return totals, nil
}

// SystemMetrics returns the instrumentation snapshot.
func (s *AnalyticsService) SystemMetrics() models.AnalyticsSystemMetrics {
	if s.metrics == nil {
		return models.AnalyticsSystemMetrics{GeneratedAt: time.Now().UTC()}
	}
	return s.metrics.Snapshot()
}
