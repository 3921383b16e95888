// Package webhook reports benchmark runs to the results dashboard.
//
// Payloads are JSON. When a secret is configured the body is signed with HMAC-SHA256 and the
// hex digest is sent as "x-webhook-signature: sha256=<digest>". Delivery failures are logged
// and never fail the run being reported.
package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/cirisai/stackcheck/internal/stackcheck/benchmark"
	"github.com/cirisai/stackcheck/pkg/client"
	"github.com/cirisai/stackcheck/pkg/client/cirisnode"
)

const (
	SignatureHeader = "x-webhook-signature"
	DefaultTimeout  = 10 * time.Second
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusRunning   Status = "RUNNING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
	StatusCancelled Status = "CANCELLED"
)

// Payload is the body the dashboard accepts. The dashboard stores Results only for COMPLETED runs.
type Payload struct {
	RunId        string           `json:"run_id"`
	Status       Status           `json:"status"`
	Model        string           `json:"model"`
	SampleSize   int              `json:"sample_size"`
	Seed         *int             `json:"seed,omitempty"`
	Results      []CategoryResult `json:"results,omitempty"`
	Duration     float64          `json:"duration,omitempty"`
	ErrorMessage string           `json:"error_message,omitempty"`
	RunnerType   string           `json:"runner_type,omitempty"`
	Environment  string           `json:"environment,omitempty"`
	Branch       string           `json:"branch,omitempty"`
	CommitSha    string           `json:"commit_sha,omitempty"`
}

// CategoryResult is one row of per-category scores.
type CategoryResult struct {
	Category   string   `json:"category"`
	Total      float64  `json:"total"`
	Correct    float64  `json:"correct"`
	Accuracy   float64  `json:"accuracy"`
	AvgLatency *float64 `json:"avg_latency,omitempty"`
	AvgTokens  *float64 `json:"avg_tokens,omitempty"`
}

type categoryRow struct {
	Category   *string  `json:"category"`
	Total      *float64 `json:"total"`
	Correct    *float64 `json:"correct"`
	Accuracy   *float64 `json:"accuracy"`
	AvgLatency *float64 `json:"avg_latency"`
	AvgTokens  *float64 `json:"avg_tokens"`
}

// CategoryResults extracts per-category scores from benchmark results. It accepts a list of rows,
// an object holding such a list under "categories" or "results", or an object keyed by category name.
// Rows without a string category and numeric total, correct and accuracy are left out.
func CategoryResults(raw json.RawMessage) []CategoryResult {
	var rows []json.RawMessage
	if err := json.Unmarshal(raw, &rows); err == nil {
		return categoryRows(rows, nil)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil
	}
	for _, key := range []string{"categories", "results"} {
		if err := json.Unmarshal(fields[key], &rows); err == nil {
			return categoryRows(rows, nil)
		}
	}
	names := maps.Keys(fields)
	slices.Sort(names)
	rows = make([]json.RawMessage, 0, len(names))
	for _, name := range names {
		rows = append(rows, fields[name])
	}
	return categoryRows(rows, names)
}

// categoryRows decodes rows. names, when given, supplies the category of rows that lack one.
func categoryRows(rows []json.RawMessage, names []string) []CategoryResult {
	var results []CategoryResult
	for i, raw := range rows {
		row := categoryRow{}
		if err := json.Unmarshal(raw, &row); err != nil {
			continue
		}
		if row.Category == nil && names != nil {
			row.Category = &names[i]
		}
		if row.Category == nil || row.Total == nil || row.Correct == nil || row.Accuracy == nil {
			continue
		}
		results = append(results, CategoryResult{
			Category:   *row.Category,
			Total:      *row.Total,
			Correct:    *row.Correct,
			Accuracy:   *row.Accuracy,
			AvgLatency: row.AvgLatency,
			AvgTokens:  row.AvgTokens,
		})
	}
	return results
}

type Config struct {
	Url         string `validate:"omitempty,url"`
	Secret      string
	Model       string
	RunnerType  string
	Environment string
	Branch      string
	CommitSha   string
	Timeout     time.Duration
}

func (c Config) Enabled() bool {
	return c.Url != ""
}

// Notifier posts run status changes to the dashboard. It implements benchmark.Observer.
type Notifier struct {
	config     Config
	sampleSize int
	seed       *int
	http       *http.Client
}

func NewNotifier(config Config, request cirisnode.RunRequest) *Notifier {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Notifier{
		config:     config,
		sampleSize: request.NScenarios,
		seed:       request.Seed,
		http:       client.NewHttpClient(timeout),
	}
}

func (n *Notifier) RunStarted(ctx context.Context, report *benchmark.Report) {
	n.notify(ctx, n.payload(report, StatusRunning))
}

func (n *Notifier) StatusPolled(string, int) {}

func (n *Notifier) RunFinished(ctx context.Context, report *benchmark.Report) {
	payload := n.payload(report, StatusFromOutcome(report.Outcome))
	payload.Duration = report.Duration.Seconds()
	if payload.Status == StatusCompleted {
		payload.Results = CategoryResults(report.Results)
	} else {
		payload.ErrorMessage = report.TerminationReason
	}
	// Sent even when the run was interrupted.
	n.notify(context.WithoutCancel(ctx), payload)
}

// StatusFromOutcome maps a benchmark outcome onto the dashboard's run statuses.
func StatusFromOutcome(outcome benchmark.Outcome) Status {
	switch outcome {
	case benchmark.OutcomeCompleted, benchmark.OutcomeSynchronous:
		return StatusCompleted
	case benchmark.OutcomeUnauthorised:
		return StatusCancelled
	default:
		return StatusFailed
	}
}

func (n *Notifier) payload(report *benchmark.Report, status Status) *Payload {
	return &Payload{
		RunId:       report.RunId,
		Status:      status,
		Model:       n.config.Model,
		SampleSize:  n.sampleSize,
		Seed:        n.seed,
		RunnerType:  n.config.RunnerType,
		Environment: n.config.Environment,
		Branch:      n.config.Branch,
		CommitSha:   n.config.CommitSha,
	}
}

func (n *Notifier) notify(ctx context.Context, payload *Payload) {
	logger := log.WithFields(log.Fields{"run": payload.RunId, "status": payload.Status})
	if err := n.Send(ctx, payload); err != nil {
		logger.WithError(err).Warn("error sending run webhook")
		return
	}
	logger.Debug("sent run webhook")
}

// Send posts payload and returns an error unless the dashboard answers 2xx.
func (n *Notifier) Send(ctx context.Context, payload *Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.WithStack(err)
	}
	header := http.Header{}
	header.Set("Content-Type", "application/json")
	if n.config.Secret != "" {
		header.Set(SignatureHeader, Sign(n.config.Secret, body))
	}
	resp, err := client.Do(ctx, n.http, http.MethodPost, n.config.Url, bytes.NewReader(body), header)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.ExpectStatus(http.StatusOK, http.StatusCreated, http.StatusAccepted, http.StatusNoContent)
	}
	return nil
}

// Sign returns the signature header value for body.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether signature is the signature of body under secret.
func Verify(secret string, body []byte, signature string) bool {
	return hmac.Equal([]byte(signature), []byte(Sign(secret, body)))
}
