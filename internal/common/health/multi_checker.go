package health

import (
	"context"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

type MultiChecker struct {
	checkers []Checker
}

func NewMultiChecker(checkers ...Checker) *MultiChecker {
	return &MultiChecker{
		checkers: checkers,
	}
}

func (mc *MultiChecker) Name() string {
	return "all"
}

// Check runs every checker in order and aggregates the failures.
// Each error is prefixed with the name of the checker that produced it.
func (mc *MultiChecker) Check(ctx context.Context) error {
	var result *multierror.Error
	for _, checker := range mc.checkers {
		if err := checker.Check(ctx); err != nil {
			result = multierror.Append(result, errors.WithMessage(err, checker.Name()))
		}
	}
	return result.ErrorOrNil()
}

// Results runs every checker and returns the outcome keyed by checker name.
func (mc *MultiChecker) Results(ctx context.Context) map[string]error {
	results := make(map[string]error, len(mc.checkers))
	for _, checker := range mc.checkers {
		results[checker.Name()] = checker.Check(ctx)
	}
	return results
}

func (mc *MultiChecker) Add(checker Checker) {
	mc.checkers = append(mc.checkers, checker)
}

func (mc *MultiChecker) Len() int {
	return len(mc.checkers)
}
