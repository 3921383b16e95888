package mocks

import (
	"golang.org/x/exp/slices"

	"github.com/cirisai/stackcheck/pkg/client/ethicsengine"
)

type ScenarioIdMatcher struct {
	Expected []string
}

// Matches a scenario batch against the expected scenario ids.
// This matching ignores the input ordering, so scenarios don't need to be passed in a known order
func (s ScenarioIdMatcher) Matches(x interface{}) bool {
	scenarios, ok := x.([]ethicsengine.Scenario)
	if !ok {
		return false
	}
	if len(scenarios) != len(s.Expected) {
		return false
	}
	ids := make([]string, len(scenarios))
	for i, scenario := range scenarios {
		ids[i] = scenario.ScenarioId
	}
	expected := slices.Clone(s.Expected)
	slices.Sort(ids)
	slices.Sort(expected)
	return slices.Equal(ids, expected)
}

// String describes what the matcher matches.
func (s ScenarioIdMatcher) String() string {
	return "checks provided scenarios have the expected ids ignoring order"
}
