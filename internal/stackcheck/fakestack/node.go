// Package fakestack provides in-process stand-ins for the orchestration node and the ethics engine.
// They implement the narrow request/response contract stackcheck relies on, with scripted job progress,
// and back both the unit tests and the fakestack command.
package fakestack

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	log "github.com/sirupsen/logrus"

	"github.com/cirisai/stackcheck/pkg/client"
	"github.com/cirisai/stackcheck/pkg/client/cirisnode"
)

const DefaultToken = "fake-token"

// ScriptedStatus is returned for one poll of a job's status.
type ScriptedStatus struct {
	// HTTP status code of the poll response. Zero means 200.
	Code   int
	Status string
	// When set, served as the whole response body in place of job_id and Status.
	Body interface{}
}

// DefaultStatusScript moves a job from queued to completed over three polls.
var DefaultStatusScript = []ScriptedStatus{
	{Status: "queued"},
	{Status: "running"},
	{Status: cirisnode.StatusCompleted},
}

type NodeOptions struct {
	// Credentials accepted at the token endpoint.
	Credentials client.LoginCredentials
	// Token handed out by the token endpoint.
	Token string
	// When true, benchmark endpoints answer 401 unless the request carries Token.
	RequireAuth bool
	// When true, run requests are answered synchronously with results and no job id.
	Synchronous bool
	// Statuses served on successive polls of a job. The last entry repeats.
	StatusScript []ScriptedStatus
	// When true, job_id is sent as a JSON number.
	NumericJobIds bool
	// Status code for a run request with an unknown benchmark_type. Zero means 422.
	InvalidTypeCode int
}

// CirisNode is a fake benchmark orchestration node.
type CirisNode struct {
	opts      NodeOptions
	mu        sync.Mutex
	nextJob   int
	polls     map[string]int
	submitted []cirisnode.RunRequest
	requests  int64
}

func NewCirisNode(opts NodeOptions) *CirisNode {
	if opts.Token == "" {
		opts.Token = DefaultToken
	}
	if opts.Credentials.Username == "" {
		opts.Credentials = client.LoginCredentials{Username: "test", Password: "test"}
	}
	if len(opts.StatusScript) == 0 {
		opts.StatusScript = DefaultStatusScript
	}
	return &CirisNode{
		opts:  opts,
		polls: make(map[string]int),
	}
}

// Requests returns the number of requests served so far.
func (n *CirisNode) Requests() int64 {
	return atomic.LoadInt64(&n.requests)
}

// Submitted returns a copy of every accepted run request.
func (n *CirisNode) Submitted() []cirisnode.RunRequest {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]cirisnode.RunRequest(nil), n.submitted...)
}

// Polls returns how many times the status of jobId has been requested.
func (n *CirisNode) Polls(jobId string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.polls[jobId]
}

func (n *CirisNode) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt64(&n.requests, 1)
	path := r.URL.Path
	switch {
	case path == "/health" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	case path == "/api/v1/auth/token" && r.Method == http.MethodPost:
		n.token(w, r)
	case path == "/api/v1/benchmarks/run" && r.Method == http.MethodPost:
		n.run(w, r)
	case strings.HasPrefix(path, "/api/v1/benchmarks/status/") && r.Method == http.MethodGet:
		n.status(w, r, strings.TrimPrefix(path, "/api/v1/benchmarks/status/"))
	case strings.HasPrefix(path, "/api/v1/benchmarks/results/") && r.Method == http.MethodGet:
		n.results(w, r, strings.TrimPrefix(path, "/api/v1/benchmarks/results/"))
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not Found"})
	}
}

func (n *CirisNode) token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": err.Error()})
		return
	}
	if r.PostForm.Get("username") != n.opts.Credentials.Username || r.PostForm.Get("password") != n.opts.Credentials.Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect username or password"})
		return
	}
	writeJSON(w, http.StatusOK, cirisnode.TokenResponse{AccessToken: n.opts.Token, TokenType: "bearer"})
}

func (n *CirisNode) authorised(r *http.Request) bool {
	return !n.opts.RequireAuth || r.Header.Get("Authorization") == "Bearer "+n.opts.Token
}

func (n *CirisNode) run(w http.ResponseWriter, r *http.Request) {
	if !n.authorised(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Not authenticated"})
		return
	}
	req := cirisnode.RunRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
		return
	}
	if req.BenchmarkType != cirisnode.BenchmarkTypeHE300 {
		code := n.opts.InvalidTypeCode
		if code == 0 {
			code = http.StatusUnprocessableEntity
		}
		writeJSON(w, code, map[string]string{"detail": fmt.Sprintf("unknown benchmark_type %q", req.BenchmarkType)})
		return
	}
	if req.NScenarios <= 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "n_scenarios must be positive"})
		return
	}

	n.mu.Lock()
	n.submitted = append(n.submitted, req)
	n.nextJob++
	seq := n.nextJob
	jobId := fmt.Sprintf("job-%d", seq)
	if n.opts.NumericJobIds {
		jobId = fmt.Sprint(seq)
	}
	n.polls[jobId] = 0
	n.mu.Unlock()
	log.WithField("job", jobId).Debug("fake node accepted benchmark run")

	if n.opts.Synchronous {
		writeJSON(w, http.StatusOK, map[string]interface{}{"results": fakeResults(req.NScenarios)})
		return
	}
	if n.opts.NumericJobIds {
		writeJSON(w, http.StatusAccepted, map[string]interface{}{"job_id": seq, "status": "queued"})
		return
	}
	writeJSON(w, http.StatusAccepted, cirisnode.RunResponse{JobId: jobId, Status: "queued"})
}

func (n *CirisNode) status(w http.ResponseWriter, r *http.Request, jobId string) {
	n.mu.Lock()
	i, ok := n.polls[jobId]
	if ok {
		n.polls[jobId] = i + 1
	}
	n.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "job not found"})
		return
	}
	if i >= len(n.opts.StatusScript) {
		i = len(n.opts.StatusScript) - 1
	}
	step := n.opts.StatusScript[i]
	code := step.Code
	if code == 0 {
		code = http.StatusOK
	}
	if step.Body != nil {
		writeJSON(w, code, step.Body)
		return
	}
	writeJSON(w, code, map[string]string{"job_id": jobId, "status": step.Status})
}

func (n *CirisNode) results(w http.ResponseWriter, r *http.Request, jobId string) {
	n.mu.Lock()
	_, ok := n.polls[jobId]
	n.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "job not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"job_id": jobId, "results": fakeResults(5)})
}

func fakeResults(n int) map[string]interface{} {
	correct := (n + 1) / 2
	return map[string]interface{}{
		"total":    n,
		"correct":  correct,
		"accuracy": float64(correct) / float64(n),
	}
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("fake stack failed to write response")
	}
}
