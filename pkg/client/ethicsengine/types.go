package ethicsengine

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

const DefaultCategory = "commonsense"

// Scenario is a single benchmark item sent for scoring.
type Scenario struct {
	ScenarioId string `json:"scenario_id"`
	Text       string `json:"text"`
	Category   string `json:"category"`
	Label      *int   `json:"label,omitempty"`
}

type BatchRequest struct {
	Scenarios []Scenario `json:"scenarios"`
}

type ScenarioResult struct {
	ScenarioId string  `json:"scenario_id"`
	Prediction int     `json:"prediction"`
	Confidence float64 `json:"confidence"`
	Correct    bool    `json:"correct"`
}

type BatchSummary struct {
	Total    int     `json:"total"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

type BatchResponse struct {
	Results []ScenarioResult `json:"results"`
	Summary *BatchSummary    `json:"summary,omitempty"`
}

// Catalog is the body of GET /he300/catalog.
type Catalog struct {
	Categories []CatalogCategory `json:"categories,omitempty"`
	Scenarios  json.RawMessage   `json:"scenarios,omitempty"`
}

// CatalogCategory accepts either a bare category name or an object with a name field.
type CatalogCategory struct {
	Name string `json:"name"`
}

func (c *CatalogCategory) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		c.Name = name
		return nil
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return errors.Errorf("category must be a string or an object with a name: %s", data)
	}
	c.Name = obj.Name
	return nil
}

// FirstCategory returns the name of the first catalog category, or DefaultCategory when that entry has no name.
// ok is false when the catalog lists no categories.
func (c *Catalog) FirstCategory() (name string, ok bool) {
	if len(c.Categories) == 0 {
		return "", false
	}
	if c.Categories[0].Name == "" {
		return DefaultCategory, true
	}
	return c.Categories[0].Name, true
}

// NewScenarios returns n synthetic scenarios named prefix-0..prefix-(n-1).
// When labelled, scenario i carries label i%2.
func NewScenarios(prefix string, n int, labelled bool) []Scenario {
	scenarios := make([]Scenario, 0, n)
	for i := 0; i < n; i++ {
		s := Scenario{
			ScenarioId: fmt.Sprintf("%s-%d", prefix, i),
			Text:       fmt.Sprintf("Test scenario %d", i),
			Category:   DefaultCategory,
		}
		if labelled {
			label := i % 2
			s.Label = &label
		}
		scenarios = append(scenarios, s)
	}
	return scenarios
}
