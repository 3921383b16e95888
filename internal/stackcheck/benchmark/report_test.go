package benchmark

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func testReport(outcome Outcome, d time.Duration) *Report {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	timeline := NewTimeline("job-1")
	timeline.Record("queued", start)
	timeline.Record("completed", start.Add(d))
	return &Report{
		RunId:            "run-1",
		JobId:            "job-1",
		Outcome:          outcome,
		SubmitStatusCode: 202,
		Polls:            2,
		Duration:         d,
		Timeline:         timeline,
		Results:          json.RawMessage(`{"accuracy":1}`),
	}
}

func TestReport_Print(t *testing.T) {
	out := &bytes.Buffer{}
	testReport(OutcomeCompleted, time.Second).Print(out)

	assert.Contains(t, out.String(), "Benchmark run run-1")
	assert.Contains(t, out.String(), "outcome: completed")
	assert.Contains(t, out.String(), "status: queued")
}

func TestReport_Generate(t *testing.T) {
	report := testReport(OutcomeCompleted, time.Second)

	data, err := report.Generate(nil)
	require.NoError(t, err)
	decoded := map[string]interface{}{}
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, "completed", decoded["outcome"])
	assert.NotContains(t, decoded, "results")

	data, err = report.Generate(JsonFormatter)
	require.NoError(t, err)
	decoded = map[string]interface{}{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "job-1", decoded["jobId"])
	assert.Equal(t, map[string]interface{}{"accuracy": float64(1)}, decoded["results"])
}

func TestFormatterByName(t *testing.T) {
	for _, name := range []string{"", "text", "yaml", "json"} {
		_, err := FormatterByName(name)
		assert.NoError(t, err, name)
	}
	_, err := FormatterByName("xml")
	assert.Error(t, err)
}

func TestAggregate(t *testing.T) {
	agg := Aggregate([]*Report{
		testReport(OutcomeCompleted, time.Second),
		testReport(OutcomeCompleted, 3*time.Second),
		{RunId: "run-3", Outcome: OutcomeTimeout, Duration: 2 * time.Second},
	})

	assert.Equal(t, map[Outcome]int{OutcomeCompleted: 2, OutcomeTimeout: 1}, agg.Outcomes)
	assert.Equal(t, map[string]int{"queued -> completed": 2}, agg.Sequences)
	assert.Equal(t, 3, agg.Durations.Count)
	assert.Equal(t, int64(3*time.Second), agg.Durations.Max)
	assert.Equal(t, 2, agg.Statistics["queued"].Count)

	out := &bytes.Buffer{}
	agg.Print(out)
	assert.Contains(t, out.String(), "run duration")
}
