package report

import (
	"bytes"
	"encoding/xml"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jstemmer/go-junit-report/v2/junit"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cirisai/stackcheck/internal/common/stackerrors"
	"github.com/cirisai/stackcheck/internal/stackcheck/artifacts"
	"github.com/cirisai/stackcheck/internal/stackcheck/suite"
)

func testEntries() []Entry {
	return FromSuite([]suite.Result{
		{Name: "cirisnode-health", Group: suite.GroupIntegration, Status: suite.StatusPassed, Duration: 10 * time.Millisecond},
		{Name: "eee-health", Group: suite.GroupIntegration, Status: suite.StatusFailed, Duration: 20 * time.Millisecond,
			Err: errors.WithStack(&stackerrors.ErrUnexpectedStatus{Method: "GET", Url: "http://eee/health", Got: 503, Want: []int{200}})},
		{Name: "small-benchmark-run", Group: suite.GroupE2E, Status: suite.StatusSkipped,
			Err: stackerrors.Skip("authentication required (401)")},
	})
}

func TestCount(t *testing.T) {
	counts := Count(testEntries())
	assert.Equal(t, Counts{Passed: 1, Failed: 1, Skipped: 1}, counts)
	assert.Equal(t, 3, counts.Total())
}

func TestPrintSummary(t *testing.T) {
	out := &bytes.Buffer{}
	PrintSummary(out, testEntries(), 2*time.Second)

	assert.Contains(t, out.String(), "Ran 3 check(s) in 2s")
	assert.Contains(t, out.String(), "Failed: 1")
	assert.Contains(t, out.String(), "integration/eee-health: GET http://eee/health returned 503")
	assert.NotContains(t, out.String(), "small-benchmark-run")
}

func TestJUnit(t *testing.T) {
	timestamp := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	suites := JUnit("stackcheck", testEntries(), timestamp)

	assert.Equal(t, "stackcheck", suites.Name)
	assert.Equal(t, 3, suites.Tests)
	assert.Equal(t, 1, suites.Failures)
	assert.Equal(t, 1, suites.Skipped)
	require.Len(t, suites.Suites, 2)

	integration := suites.Suites[0]
	assert.Equal(t, "integration", integration.Name)
	assert.Equal(t, "0.030", integration.Time)
	assert.Equal(t, "2024-01-01T00:00:00Z", integration.Timestamp)
	require.Len(t, integration.Testcases, 2)
	assert.Nil(t, integration.Testcases[0].Failure)
	require.NotNil(t, integration.Testcases[1].Failure)
	assert.Equal(t, string(stackerrors.KindUnexpectedStatus), integration.Testcases[1].Failure.Type)

	e2e := suites.Suites[1]
	assert.Equal(t, 1, e2e.ID)
	require.NotNil(t, e2e.Testcases[0].Skipped)
	assert.Equal(t, "authentication required (401)", e2e.Testcases[0].Skipped.Message)
}

func TestWriteJUnitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junit.xml")
	entries := append(testEntries(), FromArtifacts([]artifacts.Result{
		{Name: "version", Err: &stackerrors.ErrMissingArtifact{Path: "VERSION"}},
		{Name: "makefile"},
	})...)
	require.NoError(t, WriteJUnitFile(path, "stackcheck", entries))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	decoded := junit.Testsuites{}
	require.NoError(t, xml.Unmarshal(data, &decoded))
	assert.Equal(t, 5, decoded.Tests)
	assert.Equal(t, 2, decoded.Failures)
	require.Len(t, decoded.Suites, 3)
	assert.Equal(t, "artifacts", decoded.Suites[2].Name)
	assert.Equal(t, "VERSION not found", decoded.Suites[2].Testcases[0].Failure.Message)
}
