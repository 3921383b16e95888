package benchmark

import (
	"math"
	"time"
)

// Statistics over durations, in nanoseconds.
type Statistics struct {
	Count             int     `json:"count" yaml:"count"`
	Min               int64   `json:"min" yaml:"min"`
	Max               int64   `json:"max" yaml:"max"`
	Average           float64 `json:"average" yaml:"average"`
	Variance          float64 `json:"variance" yaml:"variance"`
	StandardDeviation float64 `json:"standardDeviation" yaml:"standardDeviation"`
}

// StatisticsByStatus computes, for every status seen in any timeline, statistics over the time jobs spent in it.
func StatisticsByStatus(timelines []*Timeline) map[string]*Statistics {
	durationsByStatus := make(map[string][]int64)
	for _, t := range timelines {
		for _, s := range t.Statuses {
			durationsByStatus[s.Status] = append(durationsByStatus[s.Status], int64(s.Duration))
		}
	}
	result := make(map[string]*Statistics, len(durationsByStatus))
	for status, durations := range durationsByStatus {
		result[status] = statistics(durations)
	}
	return result
}

// DurationStatistics computes statistics over a list of durations.
func DurationStatistics(durations []time.Duration) *Statistics {
	values := make([]int64, len(durations))
	for i, d := range durations {
		values[i] = int64(d)
	}
	return statistics(values)
}

func statistics(durations []int64) *Statistics {
	return &Statistics{
		Count:             len(durations),
		Min:               minInt64(durations),
		Max:               maxInt64(durations),
		Average:           avgInt64(durations),
		Variance:          varianceInt64(durations),
		StandardDeviation: standardDeviationInt64(durations),
	}
}

func minInt64(input []int64) int64 {
	var m int64
	for i, e := range input {
		if i == 0 || e < m {
			m = e
		}
	}
	return m
}

func maxInt64(input []int64) int64 {
	var m int64
	for i, e := range input {
		if i == 0 || e > m {
			m = e
		}
	}
	return m
}

func sumInt64(input []int64) int64 {
	var sum int64
	for _, e := range input {
		sum += e
	}
	return sum
}

func avgInt64(input []int64) float64 {
	num := len(input)
	if num == 0 {
		return 0
	}
	return float64(sumInt64(input)) / float64(num)
}

// Sample variance.
func varianceInt64(numbers []int64) float64 {
	if len(numbers) < 2 {
		return 0
	}
	var total float64
	avg := avgInt64(numbers)
	for _, number := range numbers {
		total += math.Pow(float64(number)-avg, 2)
	}
	return total / float64(len(numbers)-1)
}

func standardDeviationInt64(numbers []int64) float64 {
	return math.Sqrt(varianceInt64(numbers))
}
