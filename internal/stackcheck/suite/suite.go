// Package suite holds the live checks run against a staging stack, grouped the way the stack's CI runs them.
package suite

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/cirisai/stackcheck/internal/common/stackerrors"
)

type Group string

const (
	GroupIntegration Group = "integration"
	GroupE2E         Group = "e2e"
	GroupResilience  Group = "resilience"
	GroupMock        Group = "mock"
)

// Groups lists every group in the order cases run.
var Groups = []Group{GroupIntegration, GroupE2E, GroupResilience, GroupMock}

func ParseGroup(s string) (Group, error) {
	for _, g := range Groups {
		if string(g) == s {
			return g, nil
		}
	}
	return "", errors.WithStack(&stackerrors.ErrInvalidArgument{
		Name:    "group",
		Value:   s,
		Message: fmt.Sprintf("expected one of %v", Groups),
	})
}

type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Case is a single named check.
type Case struct {
	Name  string
	Group Group
	// Cases that need the stack are skipped when either service is down.
	RequiresStack bool
	// Run returns nil on success and an *stackerrors.ErrSkipped (see stackerrors.Skip) to skip.
	Run func(ctx context.Context, env *Env) error
}

type Result struct {
	Name     string
	Group    Group
	Status   Status
	Duration time.Duration
	// Err is the failure or skip reason. Nil when the case passed.
	Err error
}

// Observer is told about every finished case.
type Observer interface {
	ObserveCase(result Result)
}

type Suite struct {
	// Out receives one line per case.
	Out       io.Writer
	cases     []Case
	observers []Observer
}

func New(out io.Writer, cases []Case, observers ...Observer) *Suite {
	return &Suite{
		Out:       out,
		cases:     cases,
		observers: observers,
	}
}

// Cases returns the cases in the given groups, in suite order. No groups means all cases.
func (s *Suite) Cases(groups ...Group) []Case {
	if len(groups) == 0 {
		return s.cases
	}
	selected := make(map[Group]bool, len(groups))
	for _, g := range groups {
		selected[g] = true
	}
	var cases []Case
	for _, c := range s.cases {
		if selected[c.Group] {
			cases = append(cases, c)
		}
	}
	return cases
}

// Run runs the cases of the given groups in order. The stack is probed once, and only if some
// selected case needs it. Run stops early only if ctx is cancelled; remaining cases are then not reported.
func (s *Suite) Run(ctx context.Context, env *Env, groups ...Group) []Result {
	cases := s.Cases(groups...)

	stackUp, probed := false, false
	results := make([]Result, 0, len(cases))
	for _, c := range cases {
		if ctx.Err() != nil {
			log.WithError(ctx.Err()).Warn("suite interrupted")
			break
		}
		if c.RequiresStack && !probed {
			stackUp = s.probe(ctx, env)
			probed = true
		}

		start := time.Now()
		var err error
		if c.RequiresStack && !stackUp {
			err = stackerrors.Skip("stack not running")
		} else {
			err = runCase(ctx, env, c)
		}
		result := Result{
			Name:     c.Name,
			Group:    c.Group,
			Status:   statusFromError(err),
			Duration: time.Since(start),
			Err:      err,
		}
		s.print(result)
		for _, o := range s.observers {
			o.ObserveCase(result)
		}
		results = append(results, result)
	}
	return results
}

func (s *Suite) probe(ctx context.Context, env *Env) bool {
	status := env.Prober.Stack(ctx, env.Details)
	log.WithFields(log.Fields{
		"cirisnode":    status.CirisNode,
		"ethicsengine": status.Engine,
	}).Info("probed stack")
	return status.AllUp()
}

func runCase(ctx context.Context, env *Env, c Case) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("case %s panicked: %v", c.Name, r)
		}
	}()
	return c.Run(ctx, env)
}

func statusFromError(err error) Status {
	switch {
	case err == nil:
		return StatusPassed
	case stackerrors.IsSkipped(err):
		return StatusSkipped
	default:
		return StatusFailed
	}
}

func (s *Suite) print(r Result) {
	if s.Out == nil {
		return
	}
	switch r.Status {
	case StatusPassed:
		_, _ = fmt.Fprintf(s.Out, "PASS %s/%s (%s)\n", r.Group, r.Name, r.Duration.Round(time.Millisecond))
	case StatusSkipped:
		_, _ = fmt.Fprintf(s.Out, "SKIP %s/%s: %s\n", r.Group, r.Name, r.Err)
	default:
		_, _ = fmt.Fprintf(s.Out, "FAIL %s/%s: %s\n", r.Group, r.Name, r.Err)
	}
}

// Failed reports whether any result failed. Skips don't count.
func Failed(results []Result) bool {
	for _, r := range results {
		if r.Status == StatusFailed {
			return true
		}
	}
	return false
}
