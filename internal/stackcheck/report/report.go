// Package report renders check outcomes as a console summary and as JUnit XML.
package report

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jstemmer/go-junit-report/v2/junit"
	"github.com/pkg/errors"

	"github.com/cirisai/stackcheck/internal/common/stackerrors"
	"github.com/cirisai/stackcheck/internal/stackcheck/artifacts"
	"github.com/cirisai/stackcheck/internal/stackcheck/suite"
)

// Entry is one check outcome, whichever kind of check produced it.
type Entry struct {
	Suite    string
	Name     string
	Duration time.Duration
	Skipped  bool
	// Nil when the check passed. For skips, the skip reason.
	Err error
}

func (e Entry) Failed() bool {
	return e.Err != nil && !e.Skipped
}

func FromSuite(results []suite.Result) []Entry {
	entries := make([]Entry, len(results))
	for i, r := range results {
		entries[i] = Entry{
			Suite:    string(r.Group),
			Name:     r.Name,
			Duration: r.Duration,
			Skipped:  r.Status == suite.StatusSkipped,
			Err:      r.Err,
		}
	}
	return entries
}

func FromArtifacts(results []artifacts.Result) []Entry {
	entries := make([]Entry, len(results))
	for i, r := range results {
		entries[i] = Entry{
			Suite:    "artifacts",
			Name:     r.Name,
			Duration: r.Duration,
			Err:      r.Err,
		}
	}
	return entries
}

type Counts struct {
	Passed  int
	Failed  int
	Skipped int
}

func (c Counts) Total() int {
	return c.Passed + c.Failed + c.Skipped
}

func Count(entries []Entry) Counts {
	var c Counts
	for _, e := range entries {
		switch {
		case e.Skipped:
			c.Skipped++
		case e.Err != nil:
			c.Failed++
		default:
			c.Passed++
		}
	}
	return c
}

// PrintSummary writes totals and the reason for every failure.
func PrintSummary(out io.Writer, entries []Entry, elapsed time.Duration) {
	counts := Count(entries)
	_, _ = fmt.Fprintf(out, "\n======= SUMMARY =======\n")
	_, _ = fmt.Fprintf(out, "Ran %d check(s) in %s\n", counts.Total(), elapsed.Round(time.Millisecond))
	_, _ = fmt.Fprintf(out, "Passed: %d\n", counts.Passed)
	_, _ = fmt.Fprintf(out, "Skipped: %d\n", counts.Skipped)
	_, _ = fmt.Fprintf(out, "Failed: %d\n", counts.Failed)
	for _, e := range entries {
		if e.Failed() {
			_, _ = fmt.Fprintf(out, "\t%s/%s: %s\n", e.Suite, e.Name, e.Err)
		}
	}
}

// JUnit converts entries into one JUnit test suite per Entry.Suite, in order of first appearance.
func JUnit(name string, entries []Entry, timestamp time.Time) junit.Testsuites {
	suites := junit.Testsuites{Name: name}
	var order []string
	bySuite := make(map[string]*junit.Testsuite)
	durations := make(map[string]time.Duration)
	for _, e := range entries {
		ts, ok := bySuite[e.Suite]
		if !ok {
			ts = &junit.Testsuite{Name: e.Suite, ID: len(order)}
			ts.SetTimestamp(timestamp)
			bySuite[e.Suite] = ts
			order = append(order, e.Suite)
		}
		ts.AddTestcase(testcase(e))
		durations[e.Suite] += e.Duration
	}
	var total time.Duration
	for _, name := range order {
		ts := bySuite[name]
		ts.Time = formatSeconds(durations[name])
		total += durations[name]
		suites.AddSuite(*ts)
	}
	suites.Time = formatSeconds(total)
	return suites
}

func testcase(e Entry) junit.Testcase {
	tc := junit.Testcase{
		Name:      e.Name,
		Classname: e.Suite,
		Time:      formatSeconds(e.Duration),
	}
	switch {
	case e.Skipped:
		tc.Skipped = &junit.Result{Message: reason(e.Err)}
	case e.Err != nil:
		tc.Failure = &junit.Result{
			Message: e.Err.Error(),
			Type:    string(stackerrors.KindFromError(e.Err)),
			Data:    fmt.Sprintf("%+v", e.Err),
		}
	}
	return tc
}

func reason(err error) string {
	var skipped *stackerrors.ErrSkipped
	if errors.As(err, &skipped) {
		return skipped.Reason
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

func formatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}

// WriteJUnitFile writes entries as JUnit XML to path.
func WriteJUnitFile(path string, name string, entries []Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.WithStack(err)
	}
	if err := WriteJUnit(f, name, entries); err != nil {
		_ = f.Close()
		return err
	}
	return errors.WithStack(f.Close())
}

func WriteJUnit(w io.Writer, name string, entries []Entry) error {
	suites := JUnit(name, entries, time.Now())
	return errors.WithStack(suites.WriteXML(w))
}
