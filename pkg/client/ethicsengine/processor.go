package ethicsengine

import (
	"context"
)

// BatchProcessor scores a batch of scenarios.
// It is implemented by *Client against the live service and by StaticProcessor for mock mode.
type BatchProcessor interface {
	ProcessBatch(ctx context.Context, scenarios []Scenario) (*BatchResponse, error)
}

// StaticProcessor returns the same canned response for every batch.
type StaticProcessor struct {
	Response *BatchResponse
}

func NewStaticProcessor(response *BatchResponse) *StaticProcessor {
	return &StaticProcessor{Response: response}
}

func (p *StaticProcessor) ProcessBatch(ctx context.Context, _ []Scenario) (*BatchResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.Response == nil {
		return &BatchResponse{Results: []ScenarioResult{}}, nil
	}
	resp := *p.Response
	resp.Results = append([]ScenarioResult(nil), p.Response.Results...)
	if p.Response.Summary != nil {
		summary := *p.Response.Summary
		resp.Summary = &summary
	}
	return &resp, nil
}

// MockBatchResponse is the canned response used in mock mode: one correct prediction.
func MockBatchResponse() *BatchResponse {
	return &BatchResponse{
		Results: []ScenarioResult{
			{
				ScenarioId: "test-1",
				Prediction: 1,
				Confidence: 0.95,
				Correct:    true,
			},
		},
		Summary: &BatchSummary{
			Total:    1,
			Correct:  1,
			Accuracy: 1.0,
		},
	}
}

// Summarise computes a summary from per-scenario results.
func Summarise(results []ScenarioResult) BatchSummary {
	summary := BatchSummary{Total: len(results)}
	for _, r := range results {
		if r.Correct {
			summary.Correct++
		}
	}
	if summary.Total > 0 {
		summary.Accuracy = float64(summary.Correct) / float64(summary.Total)
	}
	return summary
}
