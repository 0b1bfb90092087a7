package analytics

import (
	"time"

	"github.com/noah-isme/gradebook-api/internal/models"
)

// Options tunes snapshot derivation. Zero values fall back to a top/bottom
// list size of 10 and a pass mark of 50.
type Options struct {
	TopN     int
	PassMark float64
	Now      time.Time
}

func (o Options) withDefaults() Options {
	if o.TopN <= 0 {
		o.TopN = 10
	}
	if o.PassMark <= 0 {
		o.PassMark = 50
	}
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	return o
}

// BuildSnapshot runs the full pipeline for one scope: index, aggregate, rank.
// The result is a plain data document; formatting and rounding are left to
// the consumers.
func BuildSnapshot(scope string, students []models.Student, weeks []models.Week, marks []models.Mark, opts Options) models.AnalyticsSnapshot {
	opts = opts.withDefaults()

	studentIdx := BuildStudentIndex(students)
	weekIdx := BuildWeekIndex(weeks)
	agg := Aggregate(marks, studentIdx, scope)
	merit := MeritList(agg, studentIdx)

	snapshot := models.AnalyticsSnapshot{
		Scope:          scope,
		GeneratedAt:    opts.Now,
		StudentCount:   len(students),
		WeekCount:      len(weeks),
		MarkCount:      agg.Total.Count(),
		OverallAverage: agg.Total.Average(),
		MeritList:      merit,
		TopStudents:    TopN(merit, opts.TopN),
		BottomStudents: BottomN(merit, opts.TopN),
		ClassRankings:  ClassRankings(agg, merit, opts.PassMark),
	}
	if scope == models.ScopeAll {
		snapshot.WeekPerformance = WeekTrend(agg, weekIdx)
	}
	return snapshot
}
