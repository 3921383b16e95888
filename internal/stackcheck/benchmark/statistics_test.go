package benchmark

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDurationStatistics(t *testing.T) {
	tests := map[string]struct {
		input    []time.Duration
		expected Statistics
	}{
		"empty": {
			input:    nil,
			expected: Statistics{},
		},
		"single": {
			input:    []time.Duration{3},
			expected: Statistics{Count: 1, Min: 3, Max: 3, Average: 3},
		},
		"several": {
			input:    []time.Duration{2, 4, 4, 4, 5, 5, 7, 9},
			expected: Statistics{Count: 8, Min: 2, Max: 9, Average: 5, Variance: 32.0 / 7},
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			stats := DurationStatistics(tc.input)
			assert.Equal(t, tc.expected.Count, stats.Count)
			assert.Equal(t, tc.expected.Min, stats.Min)
			assert.Equal(t, tc.expected.Max, stats.Max)
			assert.InDelta(t, tc.expected.Average, stats.Average, 1e-9)
			assert.InDelta(t, tc.expected.Variance, stats.Variance, 1e-9)
		})
	}
}

func TestStatisticsByStatus(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := NewTimeline("a")
	a.Record("queued", start)
	a.Record("completed", start.Add(time.Second))
	b := NewTimeline("b")
	b.Record("queued", start)
	b.Record("completed", start.Add(3*time.Second))

	stats := StatisticsByStatus([]*Timeline{a, b})
	require.Contains(t, stats, "queued")
	assert.Equal(t, 2, stats["queued"].Count)
	assert.Equal(t, int64(time.Second), stats["queued"].Min)
	assert.Equal(t, int64(3*time.Second), stats["queued"].Max)
	assert.InDelta(t, float64(2*time.Second), stats["queued"].Average, 1)
}
