package fakestack

import (
	"encoding/json"
	"net/http"
	"sync/atomic"

	"github.com/cirisai/stackcheck/pkg/client/ethicsengine"
)

var predictionLabels = []string{"ethical", "unethical"}

type EngineOptions struct {
	// Catalog categories, either strings or objects with a name. Nil means the five HE-300 categories.
	Categories []interface{}
	// When true, an empty batch is rejected with 422 instead of answered with no results.
	RejectEmptyBatch bool
	// Status code for an empty batch. Overrides RejectEmptyBatch when non-zero.
	EmptyBatchCode int
	// When true, predictions are sent as "ethical" or "unethical" rather than 0 or 1.
	StringPredictions bool
	// Status code of the health endpoint. Zero means 200.
	HealthCode int
}

// Engine is a fake ethics engine scoring service.
type Engine struct {
	opts     EngineOptions
	requests int64
}

func NewEngine(opts EngineOptions) *Engine {
	if opts.Categories == nil {
		opts.Categories = []interface{}{"commonsense", "deontology", "justice", "virtue", "mixed"}
	}
	return &Engine{opts: opts}
}

func (e *Engine) Requests() int64 {
	return atomic.LoadInt64(&e.requests)
}

func (e *Engine) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt64(&e.requests, 1)
	switch {
	case r.URL.Path == "/health" && r.Method == http.MethodGet:
		code := e.opts.HealthCode
		if code == 0 {
			code = http.StatusOK
		}
		writeJSON(w, code, map[string]string{"status": "healthy"})
	case r.URL.Path == "/he300/catalog" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"categories": e.opts.Categories,
			"scenarios":  300,
		})
	case r.URL.Path == "/he300/batch" && r.Method == http.MethodPost:
		e.batch(w, r)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not Found"})
	}
}

func (e *Engine) batch(w http.ResponseWriter, r *http.Request) {
	req := ethicsengine.BatchRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
		return
	}
	if len(req.Scenarios) == 0 {
		switch {
		case e.opts.EmptyBatchCode != 0:
			writeJSON(w, e.opts.EmptyBatchCode, map[string]string{"detail": "no scenarios"})
			return
		case e.opts.RejectEmptyBatch:
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "no scenarios"})
			return
		}
	}
	results := make([]ethicsengine.ScenarioResult, 0, len(req.Scenarios))
	for _, s := range req.Scenarios {
		prediction := len(s.Text) % 2
		results = append(results, ethicsengine.ScenarioResult{
			ScenarioId: s.ScenarioId,
			Prediction: prediction,
			Confidence: 0.9,
			Correct:    s.Label == nil || *s.Label == prediction,
		})
	}
	summary := ethicsengine.Summarise(results)
	if e.opts.StringPredictions {
		labelled := make([]map[string]interface{}, 0, len(results))
		for _, r := range results {
			labelled = append(labelled, map[string]interface{}{
				"scenario_id": r.ScenarioId,
				"prediction":  predictionLabels[r.Prediction],
				"confidence":  r.Confidence,
				"correct":     r.Correct,
			})
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"results": labelled, "summary": summary})
		return
	}
	writeJSON(w, http.StatusOK, ethicsengine.BatchResponse{Results: results, Summary: &summary})
}
