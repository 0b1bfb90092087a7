package analytics

import (
	"math"
	"sort"
)

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range scores {
		sum += v
	}
	return sum / float64(len(scores))
}

// Median returns the middle value of the sorted scores. Even-length input
// yields the mean of the two middle values. Empty input yields 0. The input
// slice is not modified.
func Median(scores []float64) float64 {
	n := len(scores)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, scores)
	sort.Float64s(sorted)
	mid := n / 2
	if n%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// Mode returns the most frequent value. Ties resolve to the value first
// encountered in iteration order, which is arbitrary rather than a deliberate
// lowest/highest rule. Empty input yields 0.
func Mode(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	counts := make(map[float64]int, len(scores))
	for _, v := range scores {
		counts[v]++
	}
	best := scores[0]
	bestCount := 0
	for _, v := range scores {
		if counts[v] > bestCount {
			best = v
			bestCount = counts[v]
		}
	}
	return best
}

// StdDev returns the population standard deviation, the square root of the
// mean of squared deviations from the mean. Empty input yields 0.
func StdDev(scores []float64) float64 {
	n := len(scores)
	if n == 0 {
		return 0
	}
	mean := Mean(scores)
	sumSq := 0.0
	for _, v := range scores {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(n))
}

// PassRate returns the percentage of scores at or above passMark. Empty
// input yields 0.
func PassRate(scores []float64, passMark float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	passed := 0
	for _, v := range scores {
		if v >= passMark {
			passed++
		}
	}
	return float64(passed) / float64(len(scores)) * 100
}
