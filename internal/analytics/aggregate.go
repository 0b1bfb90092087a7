package analytics

import "github.com/noah-isme/gradebook-api/internal/models"

// ScoreSet is a running accumulator over a sequence of scores. Scores keeps
// the raw values in encounter order so descriptive statistics can be derived
// later without a second pass over the marks.
type ScoreSet struct {
	Sum    float64
	Scores []float64
}

// Add folds one score into the accumulator.
func (s *ScoreSet) Add(score float64) {
	s.Sum += score
	s.Scores = append(s.Scores, score)
}

// Count returns the number of accumulated scores.
func (s *ScoreSet) Count() int {
	return len(s.Scores)
}

// Average returns sum/count, or 0 for an empty set.
func (s *ScoreSet) Average() float64 {
	if len(s.Scores) == 0 {
		return 0
	}
	return s.Sum / float64(len(s.Scores))
}

// Highest returns the maximum accumulated score, or 0 for an empty set.
func (s *ScoreSet) Highest() float64 {
	if len(s.Scores) == 0 {
		return 0
	}
	max := s.Scores[0]
	for _, v := range s.Scores[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// Lowest returns the minimum accumulated score, or 0 for an empty set.
func (s *ScoreSet) Lowest() float64 {
	if len(s.Scores) == 0 {
		return 0
	}
	min := s.Scores[0]
	for _, v := range s.Scores[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

// ClassSet extends ScoreSet with the distinct students that contributed at
// least one mark, for headcount reporting.
type ClassSet struct {
	ScoreSet
	Students map[string]struct{}
}

// Aggregation holds the per-student, per-class and per-week accumulators for
// one scope. Weeks is populated only for the all-weeks scope.
type Aggregation struct {
	Scope    string
	Students map[string]*ScoreSet
	Classes  map[string]*ClassSet
	Weeks    map[string]*ScoreSet
	Total    ScoreSet
}

// Aggregate folds mark records into accumulators grouped by student, class
// and (for the all-weeks scope) week. Marks outside the scope never touch an
// accumulator, and marks whose student ID does not resolve in the index are
// dropped. Scores are accumulated as stored, without clamping. The fold is
// deterministic for a given input order and has no side effects, so repeated
// runs over the same input produce identical sums and counts.
func Aggregate(marks []models.Mark, studentIdx map[string]models.Student, scope string) *Aggregation {
	agg := &Aggregation{
		Scope:    scope,
		Students: make(map[string]*ScoreSet),
		Classes:  make(map[string]*ClassSet),
	}
	if scope == models.ScopeAll {
		agg.Weeks = make(map[string]*ScoreSet)
	}

	for _, m := range marks {
		if scope != models.ScopeAll && m.WeekID != scope {
			continue
		}
		student, ok := studentIdx[m.StudentID]
		if !ok {
			continue
		}

		ss := agg.Students[m.StudentID]
		if ss == nil {
			ss = &ScoreSet{}
			agg.Students[m.StudentID] = ss
		}
		ss.Add(m.Score)

		cs := agg.Classes[student.Form]
		if cs == nil {
			cs = &ClassSet{Students: make(map[string]struct{})}
			agg.Classes[student.Form] = cs
		}
		cs.Add(m.Score)
		cs.Students[m.StudentID] = struct{}{}

		if agg.Weeks != nil {
			ws := agg.Weeks[m.WeekID]
			if ws == nil {
				ws = &ScoreSet{}
				agg.Weeks[m.WeekID] = ws
			}
			ws.Add(m.Score)
		}

		agg.Total.Add(m.Score)
	}

	return agg
}
