package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gradebook-api/internal/models"
)

func sampleStudents() []models.Student {
	return []models.Student{
		{ID: "sx", AdmissionNo: "1001", Name: "Student X", Form: "4E"},
		{ID: "sy", AdmissionNo: "1002", Name: "Student Y", Form: "4W"},
	}
}

func sampleWeeks() []models.Week {
	return []models.Week{
		{ID: "w1", Term: 1, WeekNumber: 1},
		{ID: "w2", Term: 1, WeekNumber: 2},
	}
}

func sampleMarks() []models.Mark {
	return []models.Mark{
		{StudentID: "sx", WeekID: "w1", Score: 80},
		{StudentID: "sx", WeekID: "w2", Score: 90},
		{StudentID: "sy", WeekID: "w1", Score: 60},
	}
}

func TestAggregateAllWeeksMergesPerStudent(t *testing.T) {
	idx := BuildStudentIndex(sampleStudents())

	agg := Aggregate(sampleMarks(), idx, models.ScopeAll)

	require.Contains(t, agg.Students, "sx")
	require.Contains(t, agg.Students, "sy")
	assert.InDelta(t, 85.0, agg.Students["sx"].Average(), 1e-9)
	assert.InDelta(t, 60.0, agg.Students["sy"].Average(), 1e-9)
	assert.Equal(t, 3, agg.Total.Count())
	require.Contains(t, agg.Weeks, "w1")
	assert.Equal(t, 2, agg.Weeks["w1"].Count())
}

func TestAggregateWeekScopeRestrictsAccumulation(t *testing.T) {
	idx := BuildStudentIndex(sampleStudents())

	agg := Aggregate(sampleMarks(), idx, "w1")

	assert.InDelta(t, 80.0, agg.Students["sx"].Average(), 1e-9)
	assert.InDelta(t, 60.0, agg.Students["sy"].Average(), 1e-9)
	assert.Equal(t, 2, agg.Total.Count())
	assert.Nil(t, agg.Weeks)
}

func TestAggregateDropsOrphanMarks(t *testing.T) {
	idx := BuildStudentIndex(sampleStudents())
	marks := append(sampleMarks(), models.Mark{StudentID: "ghost", WeekID: "w1", Score: 100})

	agg := Aggregate(marks, idx, models.ScopeAll)

	assert.NotContains(t, agg.Students, "ghost")
	assert.Equal(t, 3, agg.Total.Count())
	assert.InDelta(t, 85.0, agg.Students["sx"].Average(), 1e-9)
}

func TestAggregateIsIdempotent(t *testing.T) {
	idx := BuildStudentIndex(sampleStudents())
	marks := sampleMarks()

	first := Aggregate(marks, idx, models.ScopeAll)
	second := Aggregate(marks, idx, models.ScopeAll)

	assert.Equal(t, first.Total.Sum, second.Total.Sum)
	assert.Equal(t, first.Total.Count(), second.Total.Count())
	for id, set := range first.Students {
		require.Contains(t, second.Students, id)
		assert.Equal(t, set.Sum, second.Students[id].Sum)
		assert.Equal(t, set.Scores, second.Students[id].Scores)
	}
}

func TestAggregateEmptyInput(t *testing.T) {
	agg := Aggregate(nil, map[string]models.Student{}, models.ScopeAll)

	assert.Empty(t, agg.Students)
	assert.Empty(t, agg.Classes)
	assert.Zero(t, agg.Total.Count())
	assert.Zero(t, agg.Total.Average())
}

func TestAggregateDoesNotClampScores(t *testing.T) {
	idx := BuildStudentIndex(sampleStudents())
	marks := []models.Mark{{StudentID: "sx", WeekID: "w1", Score: 105}}

	agg := Aggregate(marks, idx, models.ScopeAll)

	assert.InDelta(t, 105.0, agg.Students["sx"].Highest(), 1e-9)
}

func TestClassAccumulatorTracksDistinctStudents(t *testing.T) {
	students := []models.Student{
		{ID: "a", Form: "4E"},
		{ID: "b", Form: "4E"},
	}
	marks := []models.Mark{
		{StudentID: "a", WeekID: "w1", Score: 70},
		{StudentID: "a", WeekID: "w2", Score: 75},
		{StudentID: "b", WeekID: "w1", Score: 40},
	}

	agg := Aggregate(marks, BuildStudentIndex(students), models.ScopeAll)

	require.Contains(t, agg.Classes, "4E")
	assert.Equal(t, 2, len(agg.Classes["4E"].Students))
	assert.Equal(t, 3, agg.Classes["4E"].Count())
}
