package cirisnode

import (
	"bytes"
	"encoding/json"
)

const (
	BenchmarkTypeHE300 = "he300"

	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusError     = "error"
)

// RunRequest is the body of POST /api/v1/benchmarks/run.
type RunRequest struct {
	BenchmarkType string   `json:"benchmark_type"`
	NScenarios    int      `json:"n_scenarios"`
	Seed          *int     `json:"seed,omitempty"`
	Categories    []string `json:"categories,omitempty"`
}

// RunResponse is either an asynchronous job descriptor (JobId set)
// or a synchronous result (Result or Results set).
// Nodes are free to send job_id as a string or a number and status as anything;
// DecodeRun reduces both to strings without rejecting the body.
type RunResponse struct {
	JobId   string          `json:"job_id,omitempty"`
	Status  string          `json:"status,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Results json.RawMessage `json:"results,omitempty"`
}

func (r *RunResponse) IsAsync() bool {
	return r.JobId != ""
}

func (r *RunResponse) HasResults() bool {
	return len(r.Result) > 0 || len(r.Results) > 0
}

// JobStatus is the body of GET /api/v1/benchmarks/status/{job_id}.
// Status is empty unless the body carried it as a JSON string.
type JobStatus struct {
	Status string `json:"status"`
}

func (s JobStatus) IsCompleted() bool {
	return s.Status == StatusCompleted
}

func (s JobStatus) IsFailed() bool {
	return s.Status == StatusFailed || s.Status == StatusError
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
}

// NewHE300Request returns a request for n HE-300 scenarios with the given seed.
func NewHE300Request(n int, seed int, categories ...string) RunRequest {
	return RunRequest{
		BenchmarkType: BenchmarkTypeHE300,
		NScenarios:    n,
		Seed:          &seed,
		Categories:    categories,
	}
}

// jobIdFrom returns the job id held in raw: the unquoted value of a JSON string,
// the literal text of any other value, or "" for null.
func jobIdFrom(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var id string
	if err := json.Unmarshal(raw, &id); err == nil {
		return id
	}
	return string(raw)
}

// stringField returns fields[key] when it is a JSON string.
func stringField(fields map[string]json.RawMessage, key string) string {
	var s string
	if raw, ok := fields[key]; ok {
		_ = json.Unmarshal(raw, &s)
	}
	return s
}
