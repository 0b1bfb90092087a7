package analytics

import "github.com/noah-isme/gradebook-api/internal/models"

// BuildStudentIndex maps student IDs to their records so mark rows can be
// denormalised without further store reads.
func BuildStudentIndex(students []models.Student) map[string]models.Student {
	idx := make(map[string]models.Student, len(students))
	for _, s := range students {
		idx[s.ID] = s
	}
	return idx
}

// BuildWeekIndex maps week IDs to their records.
func BuildWeekIndex(weeks []models.Week) map[string]models.Week {
	idx := make(map[string]models.Week, len(weeks))
	for _, w := range weeks {
		idx[w.ID] = w
	}
	return idx
}
