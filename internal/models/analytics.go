package models

import "time"

// ScopeAll selects every assessment week when building analytics. Any other
// scope value is interpreted as a single week ID.
const ScopeAll = "all"

// MeritEntry is one row of the school-wide merit list.
type MeritEntry struct {
	StudentID   string  `json:"student_id"`
	AdmissionNo string  `json:"admission_no"`
	Name        string  `json:"name"`
	Class       string  `json:"class"`
	Average     float64 `json:"average"`
	Highest     float64 `json:"highest"`
	Lowest      float64 `json:"lowest"`
	Assessments int     `json:"assessments"`
	Rank        int     `json:"rank"`
}

// ClassRanking aggregates performance for one class label.
type ClassRanking struct {
	Class        string  `json:"class"`
	Average      float64 `json:"average"`
	StudentCount int     `json:"student_count"`
	MarkCount    int     `json:"mark_count"`
	PassRate     float64 `json:"pass_rate"`
	Highest      float64 `json:"highest"`
	Lowest       float64 `json:"lowest"`
	TopStudent   string  `json:"top_student"`
	Rank         int     `json:"rank"`
}

// ClassStatistics is the descriptive-statistics table for one class. Count 0
// marks the no-data case; the remaining fields are then zero values.
type ClassStatistics struct {
	Class  string  `json:"class"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Mode   float64 `json:"mode"`
	StdDev float64 `json:"std_dev"`
}

// WeekPerformance is one point of the score-over-time trend.
type WeekPerformance struct {
	WeekID      string  `json:"week_id"`
	Term        int     `json:"term"`
	WeekNumber  int     `json:"week_number"`
	Description string  `json:"description"`
	Average     float64 `json:"average"`
	Highest     float64 `json:"highest"`
	Lowest      float64 `json:"lowest"`
	MarkCount   int     `json:"mark_count"`
}

// AnalyticsSnapshot is the full derived analytics document for one scope.
type AnalyticsSnapshot struct {
	Scope           string            `json:"scope"`
	GeneratedAt     time.Time         `json:"generated_at"`
	StudentCount    int               `json:"student_count"`
	WeekCount       int               `json:"week_count"`
	MarkCount       int               `json:"mark_count"`
	OverallAverage  float64           `json:"overall_average"`
	MeritList       []MeritEntry      `json:"merit_list"`
	TopStudents     []MeritEntry      `json:"top_students"`
	BottomStudents  []MeritEntry      `json:"bottom_students"`
	ClassRankings   []ClassRanking    `json:"class_rankings"`
	WeekPerformance []WeekPerformance `json:"week_performance,omitempty"`
}

// StoredSnapshot is one durable analytics row keyed by scope.
type StoredSnapshot struct {
	ScopeKey    string            `db:"scope_key" json:"scope_key"`
	Payload     AnalyticsSnapshot `db:"-" json:"payload"`
	GeneratedAt time.Time         `db:"generated_at" json:"generated_at"`
}

// DashboardTotals backs the admin landing page counters.
type DashboardTotals struct {
	Students       int     `json:"students"`
	Weeks          int     `json:"weeks"`
	Marks          int     `json:"marks"`
	Teachers       int     `json:"teachers"`
	Classes        int     `json:"classes"`
	OverallAverage float64 `json:"overall_average"`
}

// AnalyticsSystemMetrics represents system level analytics captured from
// instrumentation.
type AnalyticsSystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	DBQueryCount             uint64    `json:"db_query_count"`
	AverageDBQueryDurationMs float64   `json:"average_db_query_duration_ms"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
