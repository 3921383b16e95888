package benchmark

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Formatter func(interface{}) ([]byte, error)

func YamlFormatter(v interface{}) ([]byte, error) {
	out, err := yaml.Marshal(v)
	return out, errors.WithStack(err)
}

func JsonFormatter(v interface{}) ([]byte, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	return out, errors.WithStack(err)
}

// FormatterByName maps the --output flag values to formatters.
func FormatterByName(name string) (Formatter, error) {
	switch name {
	case "", "text":
		return nil, nil
	case "yaml":
		return YamlFormatter, nil
	case "json":
		return JsonFormatter, nil
	}
	return nil, errors.Errorf("unknown output format %q", name)
}

func (r *Report) Print(out io.Writer) {
	_, _ = fmt.Fprintf(out, "\nBenchmark run %s:\n", r.RunId)
	if r.JobId != "" {
		_, _ = fmt.Fprintf(out, "\tjob: %s\n", r.JobId)
	}
	_, _ = fmt.Fprintf(out, "\toutcome: %s\n", r.Outcome)
	_, _ = fmt.Fprintf(out, "\tsubmit status: %d\n", r.SubmitStatusCode)
	_, _ = fmt.Fprintf(out, "\tpolls: %d\n", r.Polls)
	_, _ = fmt.Fprintf(out, "\tduration: %s\n", r.Duration.Round(time.Millisecond))
	if r.Timeline != nil && len(r.Timeline.Statuses) > 0 {
		_, _ = fmt.Fprintf(out, "\tstatuses:\n")
		for _, s := range r.Timeline.Statuses {
			_, _ = fmt.Fprintf(out, "\t\tstatus: %s, received: %s, duration: %s\n", s.Status, s.Received.Format(time.RFC3339), s.Duration)
		}
	}
	if r.TerminationReason != "" {
		_, _ = fmt.Fprintf(out, "\treason: %s\n", r.TerminationReason)
	}
}

func (r *Report) Generate(formatter Formatter) ([]byte, error) {
	if formatter == nil {
		formatter = YamlFormatter
	}
	return formatter(r)
}

// AggregateReport summarises repeated runs of the same benchmark.
type AggregateReport struct {
	Runs       []*Report              `json:"runs" yaml:"runs"`
	Outcomes   map[Outcome]int        `json:"outcomes" yaml:"outcomes"`
	Sequences  map[string]int         `json:"sequences" yaml:"sequences"`
	Durations  *Statistics            `json:"durations" yaml:"durations"`
	Statistics map[string]*Statistics `json:"statistics" yaml:"statistics"`
}

func Aggregate(reports []*Report) *AggregateReport {
	agg := &AggregateReport{
		Runs:     reports,
		Outcomes: make(map[Outcome]int),
	}
	var timelines []*Timeline
	durations := make([]time.Duration, 0, len(reports))
	for _, r := range reports {
		agg.Outcomes[r.Outcome]++
		durations = append(durations, r.Duration)
		if r.Timeline != nil {
			timelines = append(timelines, r.Timeline)
		}
	}
	agg.Sequences = CountBySequence(timelines)
	agg.Statistics = StatisticsByStatus(timelines)
	agg.Durations = DurationStatistics(durations)
	return agg
}

func (a *AggregateReport) Print(out io.Writer) {
	for _, r := range a.Runs {
		r.Print(out)
	}
	_, _ = fmt.Fprintf(out, "\nOutcomes:\n")
	for outcome, count := range a.Outcomes {
		_, _ = fmt.Fprintf(out, "\t%s: %d\n", outcome, count)
	}
	if len(a.Sequences) > 0 {
		_, _ = fmt.Fprintf(out, "\nStatus sequences:\n")
		for seq, count := range a.Sequences {
			_, _ = fmt.Fprintf(out, "\t%s: %d\n", seq, count)
		}
	}
	_, _ = fmt.Fprintf(out, "\nStatistics:\n")
	printStatistics(out, "run duration", a.Durations)
	for status, stats := range a.Statistics {
		printStatistics(out, status, stats)
	}
}

func printStatistics(out io.Writer, name string, stats *Statistics) {
	_, _ = fmt.Fprintf(out, "\t* %s\n", name)
	_, _ = fmt.Fprintf(out, "\t\t - min: %s\n", time.Duration(stats.Min))
	_, _ = fmt.Fprintf(out, "\t\t - max: %s\n", time.Duration(stats.Max))
	_, _ = fmt.Fprintf(out, "\t\t - avg: %s\n", time.Duration(stats.Average))
	_, _ = fmt.Fprintf(out, "\t\t - standard deviation: %s\n", time.Duration(stats.StandardDeviation))
}

func (a *AggregateReport) Generate(formatter Formatter) ([]byte, error) {
	if formatter == nil {
		formatter = YamlFormatter
	}
	return formatter(a)
}
