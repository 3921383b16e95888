package benchmark

import (
	"strings"
	"sync"
	"time"
)

// StatusDuration is one status observed while polling a job, and how long the job stayed in it.
type StatusDuration struct {
	Status   string        `json:"status" yaml:"status"`
	Received time.Time     `json:"received" yaml:"received"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// Timeline is the sequence of distinct statuses a job went through.
// Consecutive polls returning the same status extend the current entry.
type Timeline struct {
	JobId    string            `json:"jobId" yaml:"jobId"`
	Statuses []*StatusDuration `json:"statuses" yaml:"statuses"`
	mu       sync.Mutex
}

func NewTimeline(jobId string) *Timeline {
	return &Timeline{JobId: jobId}
}

// Record notes that status was observed at the given time.
func (t *Timeline) Record(status string, at time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if n := len(t.Statuses); n > 0 {
		last := t.Statuses[n-1]
		last.Duration = at.Sub(last.Received)
		if last.Status == status {
			return
		}
	}
	t.Statuses = append(t.Statuses, &StatusDuration{Status: status, Received: at})
}

// Last returns the most recently observed status, or "" if none.
func (t *Timeline) Last() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.Statuses) == 0 {
		return ""
	}
	return t.Statuses[len(t.Statuses)-1].Status
}

// Sequence renders the statuses as "queued -> running -> completed".
func (t *Timeline) Sequence() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	names := make([]string, len(t.Statuses))
	for i, s := range t.Statuses {
		names[i] = s.Status
	}
	return strings.Join(names, " -> ")
}

// CountBySequence returns a map from status sequences to the number of timelines that went through exactly that sequence.
func CountBySequence(timelines []*Timeline) map[string]int {
	counts := make(map[string]int)
	for _, t := range timelines {
		counts[t.Sequence()]++
	}
	return counts
}
