package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gradebook-api/internal/models"
)

func TestBuildSnapshotAllWeeks(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	snapshot := BuildSnapshot(models.ScopeAll, sampleStudents(), sampleWeeks(), sampleMarks(), Options{Now: now})

	assert.Equal(t, models.ScopeAll, snapshot.Scope)
	assert.Equal(t, now, snapshot.GeneratedAt)
	assert.Equal(t, 2, snapshot.StudentCount)
	assert.Equal(t, 2, snapshot.WeekCount)
	assert.Equal(t, 3, snapshot.MarkCount)
	require.Len(t, snapshot.MeritList, 2)
	assert.Equal(t, "sx", snapshot.MeritList[0].StudentID)
	assert.Len(t, snapshot.TopStudents, 2)
	assert.Len(t, snapshot.BottomStudents, 2)
	assert.Equal(t, "sy", snapshot.BottomStudents[0].StudentID)
	require.Len(t, snapshot.WeekPerformance, 2)
	assert.Equal(t, "w1", snapshot.WeekPerformance[0].WeekID)
}

func TestBuildSnapshotWeekScopeOmitsTrend(t *testing.T) {
	snapshot := BuildSnapshot("w1", sampleStudents(), sampleWeeks(), sampleMarks(), Options{})

	assert.Equal(t, 2, snapshot.MarkCount)
	assert.Empty(t, snapshot.WeekPerformance)
	assert.InDelta(t, 80.0, snapshot.MeritList[0].Average, 1e-9)
}

func TestBuildSnapshotEmptyInput(t *testing.T) {
	snapshot := BuildSnapshot(models.ScopeAll, nil, nil, nil, Options{})

	assert.Zero(t, snapshot.MarkCount)
	assert.Zero(t, snapshot.OverallAverage)
	assert.Empty(t, snapshot.MeritList)
	assert.Empty(t, snapshot.TopStudents)
	assert.Empty(t, snapshot.BottomStudents)
	assert.Empty(t, snapshot.ClassRankings)
}

func TestBuildSnapshotTopNOption(t *testing.T) {
	snapshot := BuildSnapshot(models.ScopeAll, sampleStudents(), sampleWeeks(), sampleMarks(), Options{TopN: 1})

	require.Len(t, snapshot.TopStudents, 1)
	assert.Equal(t, "sx", snapshot.TopStudents[0].StudentID)
	require.Len(t, snapshot.BottomStudents, 1)
	assert.Equal(t, "sy", snapshot.BottomStudents[0].StudentID)
}
