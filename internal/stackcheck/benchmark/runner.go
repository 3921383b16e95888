// Package benchmark submits a benchmark run to the orchestration node and polls it to a terminal state.
package benchmark

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/cirisai/stackcheck/internal/common/stackerrors"
	"github.com/cirisai/stackcheck/pkg/client"
	"github.com/cirisai/stackcheck/pkg/client/cirisnode"
)

const (
	DefaultTimeout  = 300 * time.Second
	DefaultInterval = 2 * time.Second
)

type Outcome string

const (
	// The job was polled to completion and its results fetched.
	OutcomeCompleted Outcome = "completed"
	// The node answered the run request with results directly.
	OutcomeSynchronous Outcome = "synchronous"
	OutcomeFailed      Outcome = "failed"
	OutcomeTimeout     Outcome = "timeout"
	// The node refused the run for lack of authentication.
	OutcomeUnauthorised Outcome = "unauthorised"
	OutcomeError        Outcome = "error"
)

type Config struct {
	Request cirisnode.RunRequest
	// Overall wall-clock budget for polling.
	Timeout time.Duration
	// Time between status polls.
	Interval time.Duration
}

func (config *Config) Validate() error {
	if config.Request.BenchmarkType == "" {
		return errors.WithStack(&stackerrors.ErrInvalidArgument{
			Name:    "BenchmarkType",
			Value:   config.Request.BenchmarkType,
			Message: "not provided",
		})
	}
	if config.Request.NScenarios <= 0 {
		return errors.WithStack(&stackerrors.ErrInvalidArgument{
			Name:    "NScenarios",
			Value:   config.Request.NScenarios,
			Message: "number of scenarios must be positive",
		})
	}
	if config.Timeout <= 0 {
		return errors.WithStack(&stackerrors.ErrInvalidArgument{
			Name:    "Timeout",
			Value:   config.Timeout,
			Message: "timeout must be positive",
		})
	}
	if config.Interval <= 0 {
		return errors.WithStack(&stackerrors.ErrInvalidArgument{
			Name:    "Interval",
			Value:   config.Interval,
			Message: "poll interval must be positive",
		})
	}
	return nil
}

// Report describes one benchmark run.
type Report struct {
	RunId             string          `json:"runId" yaml:"runId"`
	JobId             string          `json:"jobId,omitempty" yaml:"jobId,omitempty"`
	Outcome           Outcome         `json:"outcome" yaml:"outcome"`
	SubmitStatusCode  int             `json:"submitStatusCode" yaml:"submitStatusCode"`
	Polls             int             `json:"polls" yaml:"polls"`
	Duration          time.Duration   `json:"duration" yaml:"duration"`
	Timeline          *Timeline       `json:"timeline,omitempty" yaml:"timeline,omitempty"`
	Results           json.RawMessage `json:"results,omitempty" yaml:"-"`
	TerminationReason string          `json:"terminationReason,omitempty" yaml:"terminationReason,omitempty"`
}

// Observer is told about every poll and every finished run. Metrics and webhooks hang off it.
type Observer interface {
	RunStarted(ctx context.Context, report *Report)
	StatusPolled(status string, code int)
	RunFinished(ctx context.Context, report *Report)
}

// Node is the part of the orchestration node client the runner needs.
type Node interface {
	RunBenchmark(ctx context.Context, req cirisnode.RunRequest) (*client.Response, error)
	Status(ctx context.Context, jobId string) (*client.Response, error)
	Results(ctx context.Context, jobId string) (*client.Response, error)
}

type Runner struct {
	node      Node
	config    Config
	observers []Observer
}

func NewRunner(node Node, config Config, observers ...Observer) *Runner {
	return &Runner{
		node:      node,
		config:    config,
		observers: observers,
	}
}

// Run submits the benchmark and, for an asynchronous job, polls its status every Interval until it completes,
// fails, or Timeout elapses. It always returns a report; the error is nil only on success.
// A 401 or 403 on submission yields an *stackerrors.ErrSkipped.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	report := &Report{RunId: uuid.NewString()}
	if err := r.config.Validate(); err != nil {
		report.Outcome = OutcomeError
		report.TerminationReason = err.Error()
		return report, err
	}

	start := time.Now()
	err := r.run(ctx, report)
	report.Duration = time.Since(start)
	if err != nil {
		report.TerminationReason = err.Error()
		if report.Outcome == "" {
			report.Outcome = OutcomeError
		}
	}
	for _, o := range r.observers {
		o.RunFinished(ctx, report)
	}
	return report, err
}

func (r *Runner) run(ctx context.Context, report *Report) error {
	logger := log.WithField("run", report.RunId)

	resp, err := r.node.RunBenchmark(ctx, r.config.Request)
	if err != nil {
		return errors.WithMessage(err, "error submitting benchmark")
	}
	report.SubmitStatusCode = resp.StatusCode
	if resp.StatusIn(http.StatusUnauthorized, http.StatusForbidden) {
		report.Outcome = OutcomeUnauthorised
		return stackerrors.Skip("authentication required (%d)", resp.StatusCode)
	}
	if err := resp.ExpectStatus(http.StatusOK, http.StatusAccepted); err != nil {
		return err
	}
	run, err := cirisnode.DecodeRun(resp)
	if err != nil {
		return err
	}

	if !run.IsAsync() {
		logger.Info("benchmark answered synchronously")
		if err := resp.RequireAnyKey("result", "results"); err != nil {
			return err
		}
		report.Outcome = OutcomeSynchronous
		report.Results = firstNonEmpty(run.Results, run.Result)
		return nil
	}

	report.JobId = run.JobId
	report.Timeline = NewTimeline(run.JobId)
	for _, o := range r.observers {
		o.RunStarted(ctx, report)
	}
	logger = logger.WithField("job", run.JobId)
	logger.Infof("benchmark submitted, polling every %s for up to %s", r.config.Interval, r.config.Timeout)

	if err := r.poll(ctx, report, logger); err != nil {
		return err
	}

	resp, err = r.node.Results(ctx, run.JobId)
	if err != nil {
		return errors.WithMessage(err, "error fetching results")
	}
	if err := resp.ExpectStatus(http.StatusOK); err != nil {
		return err
	}
	if err := resp.RequireAnyKey("result", "results"); err != nil {
		return err
	}
	results, err := cirisnode.DecodeRun(resp)
	if err != nil {
		return err
	}
	report.Results = firstNonEmpty(results.Results, results.Result)
	report.Outcome = OutcomeCompleted
	logger.Infof("benchmark completed after %d polls", report.Polls)
	return nil
}

// poll returns nil once the job is completed.
func (r *Runner) poll(ctx context.Context, report *Report, logger *log.Entry) error {
	pollCtx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	ticker := time.NewTicker(r.config.Interval)
	defer ticker.Stop()

	for {
		resp, err := r.node.Status(pollCtx, report.JobId)
		if err != nil {
			if pollCtx.Err() != nil {
				return r.pollAborted(ctx, report)
			}
			return errors.WithMessage(err, "error polling benchmark status")
		}
		report.Polls++

		if resp.StatusCode != http.StatusOK {
			logger.Debugf("status poll returned %d, retrying", resp.StatusCode)
			for _, o := range r.observers {
				o.StatusPolled("", resp.StatusCode)
			}
		} else {
			status, err := cirisnode.DecodeStatus(resp)
			if err != nil {
				return err
			}
			if status.Status != "" {
				report.Timeline.Record(status.Status, time.Now())
			}
			for _, o := range r.observers {
				o.StatusPolled(status.Status, resp.StatusCode)
			}
			switch {
			case status.IsCompleted():
				return nil
			case status.IsFailed():
				report.Outcome = OutcomeFailed
				return errors.WithStack(&stackerrors.ErrJobFailed{
					JobId:  report.JobId,
					Status: status.Status,
					Body:   resp.QuotedBody(),
				})
			}
		}

		select {
		case <-pollCtx.Done():
			return r.pollAborted(ctx, report)
		case <-ticker.C:
		}
	}
}

// pollAborted distinguishes the poll budget running out from the caller giving up.
func (r *Runner) pollAborted(ctx context.Context, report *Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	report.Outcome = OutcomeTimeout
	return errors.WithStack(&stackerrors.ErrTimeout{Operation: "benchmark " + report.JobId, After: r.config.Timeout})
}

func firstNonEmpty(values ...json.RawMessage) json.RawMessage {
	for _, v := range values {
		if len(v) > 0 {
			return v
		}
	}
	return nil
}
