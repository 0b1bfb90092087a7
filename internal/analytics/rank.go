package analytics

import (
	"sort"

	"github.com/noah-isme/gradebook-api/internal/models"
)

// MeritList derives the school-wide leaderboard from per-student
// accumulators, sorted descending by average. Ties order by admission number
// so the output is deterministic; the choice is arbitrary and carries no
// academic meaning. Rank is 1-based.
func MeritList(agg *Aggregation, studentIdx map[string]models.Student) []models.MeritEntry {
	entries := make([]models.MeritEntry, 0, len(agg.Students))
	for id, set := range agg.Students {
		student := studentIdx[id]
		entries = append(entries, models.MeritEntry{
			StudentID:   id,
			AdmissionNo: student.AdmissionNo,
			Name:        student.Name,
			Class:       student.Form,
			Average:     set.Average(),
			Highest:     set.Highest(),
			Lowest:      set.Lowest(),
			Assessments: set.Count(),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Average != entries[j].Average {
			return entries[i].Average > entries[j].Average
		}
		return entries[i].AdmissionNo < entries[j].AdmissionNo
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// TopN returns the first n merit entries.
func TopN(merit []models.MeritEntry, n int) []models.MeritEntry {
	if n <= 0 || len(merit) == 0 {
		return []models.MeritEntry{}
	}
	if n > len(merit) {
		n = len(merit)
	}
	out := make([]models.MeritEntry, n)
	copy(out, merit[:n])
	return out
}

// BottomN returns the last n merit entries reversed, so rank 1 of the result
// is the lowest average in the set.
func BottomN(merit []models.MeritEntry, n int) []models.MeritEntry {
	if n <= 0 || len(merit) == 0 {
		return []models.MeritEntry{}
	}
	if n > len(merit) {
		n = len(merit)
	}
	out := make([]models.MeritEntry, 0, n)
	for i := len(merit) - 1; i >= len(merit)-n; i-- {
		entry := merit[i]
		entry.Rank = len(out) + 1
		out = append(out, entry)
	}
	return out
}

// ClassRankings derives per-class standings. The class average is computed
// over every mark in the class rather than averaging student averages, the
// headcount counts distinct students with at least one mark, and the pass
// rate is the share of marks at or above passMark. Sorted descending by
// average with the class label breaking ties.
func ClassRankings(agg *Aggregation, merit []models.MeritEntry, passMark float64) []models.ClassRanking {
	topByClass := make(map[string]string, len(agg.Classes))
	for _, entry := range merit {
		if _, seen := topByClass[entry.Class]; !seen {
			topByClass[entry.Class] = entry.Name
		}
	}

	rankings := make([]models.ClassRanking, 0, len(agg.Classes))
	for label, set := range agg.Classes {
		rankings = append(rankings, models.ClassRanking{
			Class:        label,
			Average:      set.Average(),
			StudentCount: len(set.Students),
			MarkCount:    set.Count(),
			PassRate:     PassRate(set.Scores, passMark),
			Highest:      set.Highest(),
			Lowest:       set.Lowest(),
			TopStudent:   topByClass[label],
		})
	}

	sort.SliceStable(rankings, func(i, j int) bool {
		if rankings[i].Average != rankings[j].Average {
			return rankings[i].Average > rankings[j].Average
		}
		return rankings[i].Class < rankings[j].Class
	})
	for i := range rankings {
		rankings[i].Rank = i + 1
	}
	return rankings
}

// ClassStatisticsTable derives descriptive statistics per class, sorted by
// class label. A class with no marks never appears; callers rendering the
// empty case receive an empty slice, not nil field values.
func ClassStatisticsTable(agg *Aggregation) []models.ClassStatistics {
	stats := make([]models.ClassStatistics, 0, len(agg.Classes))
	for label, set := range agg.Classes {
		stats = append(stats, Describe(label, set.Scores))
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Class < stats[j].Class })
	return stats
}

// Describe computes the descriptive-statistics row for one score list. An
// empty list yields Count 0 with zero-valued fields rather than NaN.
func Describe(label string, scores []float64) models.ClassStatistics {
	return models.ClassStatistics{
		Class:  label,
		Count:  len(scores),
		Mean:   Mean(scores),
		Median: Median(scores),
		Mode:   Mode(scores),
		StdDev: StdDev(scores),
	}
}

// WeekTrend derives the score-over-time series from per-week accumulators,
// ordered by term then week number. Weeks missing from the index are skipped.
func WeekTrend(agg *Aggregation, weekIdx map[string]models.Week) []models.WeekPerformance {
	if agg.Weeks == nil {
		return []models.WeekPerformance{}
	}
	trend := make([]models.WeekPerformance, 0, len(agg.Weeks))
	for id, set := range agg.Weeks {
		week, ok := weekIdx[id]
		if !ok {
			continue
		}
		trend = append(trend, models.WeekPerformance{
			WeekID:      id,
			Term:        week.Term,
			WeekNumber:  week.WeekNumber,
			Description: week.Description,
			Average:     set.Average(),
			Highest:     set.Highest(),
			Lowest:      set.Lowest(),
			MarkCount:   set.Count(),
		})
	}
	sortWeekPerformance(trend)
	return trend
}

// ClassWeekTrend builds the score-over-time series for a single class,
// ordered by the canonical term/week-number key. Marks outside the class and
// marks with unresolvable students or weeks are excluded.
func ClassWeekTrend(marks []models.Mark, studentIdx map[string]models.Student, weekIdx map[string]models.Week, classLabel string) []models.WeekPerformance {
	byWeek := make(map[string]*ScoreSet)
	for _, m := range marks {
		student, ok := studentIdx[m.StudentID]
		if !ok || student.Form != classLabel {
			continue
		}
		if _, ok := weekIdx[m.WeekID]; !ok {
			continue
		}
		set := byWeek[m.WeekID]
		if set == nil {
			set = &ScoreSet{}
			byWeek[m.WeekID] = set
		}
		set.Add(m.Score)
	}

	trend := make([]models.WeekPerformance, 0, len(byWeek))
	for id, set := range byWeek {
		week := weekIdx[id]
		trend = append(trend, models.WeekPerformance{
			WeekID:      id,
			Term:        week.Term,
			WeekNumber:  week.WeekNumber,
			Description: week.Description,
			Average:     set.Average(),
			Highest:     set.Highest(),
			Lowest:      set.Lowest(),
			MarkCount:   set.Count(),
		})
	}
	sortWeekPerformance(trend)
	return trend
}

func sortWeekPerformance(trend []models.WeekPerformance) {
	sort.Slice(trend, func(i, j int) bool {
		if trend[i].Term != trend[j].Term {
			return trend[i].Term < trend[j].Term
		}
		return trend[i].WeekNumber < trend[j].WeekNumber
	})
}
