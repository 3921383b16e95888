package suite_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cirisai/stackcheck/internal/stackcheck/fakestack"
	"github.com/cirisai/stackcheck/internal/stackcheck/mocks"
	"github.com/cirisai/stackcheck/internal/stackcheck/probe"
	"github.com/cirisai/stackcheck/internal/stackcheck/suite"
	"github.com/cirisai/stackcheck/pkg/client"
	"github.com/cirisai/stackcheck/pkg/client/ethicsengine"
)

func newEnv(stack *fakestack.Stack) *suite.Env {
	env := suite.NewEnv(&client.ApiConnectionDetails{
		CirisNodeUrl:   stack.NodeUrl(),
		EeeUrl:         stack.EngineUrl(),
		BasicAuth:      client.LoginCredentials{Username: "test", Password: "test"},
		RequestTimeout: 5 * time.Second,
	}, probe.New(time.Second, nil))
	env.BenchmarkTimeout = 2 * time.Second
	env.BenchmarkInterval = 5 * time.Millisecond
	return env
}

func statuses(results []suite.Result) map[string]suite.Status {
	byName := make(map[string]suite.Status, len(results))
	for _, r := range results {
		byName[r.Name] = r.Status
	}
	return byName
}

func TestSuite_Run(t *testing.T) {
	tests := map[string]struct {
		nodeOpts   fakestack.NodeOptions
		engineOpts fakestack.EngineOptions
		expected   map[string]suite.Status
	}{
		"healthy stack": {
			expected: map[string]suite.Status{
				"cirisnode-health":       suite.StatusPassed,
				"eee-health":             suite.StatusPassed,
				"he300-catalog":          suite.StatusPassed,
				"he300-batch":            suite.StatusPassed,
				"cirisnode-triggers-eee": suite.StatusPassed,
				"small-benchmark-run":    suite.StatusPassed,
				"eee-direct-batch":       suite.StatusPassed,
				"benchmark-categories":   suite.StatusPassed,
				"invalid-benchmark-type": suite.StatusPassed,
				"empty-batch":            suite.StatusPassed,
				"concurrent-requests":    suite.StatusPassed,
				"mock-eee-response":      suite.StatusPassed,
			},
		},
		"node requires auth and rejects credentials": {
			nodeOpts: fakestack.NodeOptions{
				RequireAuth: true,
				Credentials: client.LoginCredentials{Username: "admin", Password: "secret"},
			},
			expected: map[string]suite.Status{
				"cirisnode-triggers-eee": suite.StatusPassed,
				"small-benchmark-run":    suite.StatusSkipped,
				"benchmark-categories":   suite.StatusSkipped,
				"invalid-benchmark-type": suite.StatusPassed,
			},
		},
		"synchronous node": {
			nodeOpts: fakestack.NodeOptions{Synchronous: true},
			expected: map[string]suite.Status{
				"small-benchmark-run":  suite.StatusPassed,
				"benchmark-categories": suite.StatusPassed,
			},
		},
		"benchmark job fails": {
			nodeOpts: fakestack.NodeOptions{StatusScript: []fakestack.ScriptedStatus{{Status: "failed"}}},
			expected: map[string]suite.Status{
				"small-benchmark-run": suite.StatusFailed,
			},
		},
		"catalog without categories": {
			engineOpts: fakestack.EngineOptions{Categories: []interface{}{}},
			expected: map[string]suite.Status{
				"he300-catalog":        suite.StatusPassed,
				"benchmark-categories": suite.StatusSkipped,
			},
		},
		"catalog with named categories": {
			engineOpts: fakestack.EngineOptions{Categories: []interface{}{map[string]string{"name": "justice"}}},
			expected: map[string]suite.Status{
				"benchmark-categories": suite.StatusPassed,
			},
		},
		"engine rejects empty batch": {
			engineOpts: fakestack.EngineOptions{RejectEmptyBatch: true},
			expected: map[string]suite.Status{
				"empty-batch": suite.StatusPassed,
			},
		},
		"engine answers empty batch with 400": {
			engineOpts: fakestack.EngineOptions{EmptyBatchCode: 400},
			expected: map[string]suite.Status{
				"empty-batch": suite.StatusPassed,
			},
		},
		"engine answers empty batch with 500": {
			engineOpts: fakestack.EngineOptions{EmptyBatchCode: 500},
			expected: map[string]suite.Status{
				"empty-batch": suite.StatusFailed,
				"he300-batch": suite.StatusPassed,
			},
		},
		"node answers invalid benchmark type with 400": {
			nodeOpts: fakestack.NodeOptions{InvalidTypeCode: 400},
			expected: map[string]suite.Status{
				"invalid-benchmark-type": suite.StatusPassed,
			},
		},
		"node answers invalid benchmark type with 500": {
			nodeOpts: fakestack.NodeOptions{InvalidTypeCode: 500},
			expected: map[string]suite.Status{
				"invalid-benchmark-type": suite.StatusFailed,
				"small-benchmark-run":    suite.StatusPassed,
			},
		},
		"engine returns string predictions": {
			engineOpts: fakestack.EngineOptions{StringPredictions: true},
			expected: map[string]suite.Status{
				"he300-batch":      suite.StatusPassed,
				"eee-direct-batch": suite.StatusPassed,
			},
		},
		"node sends numeric job ids": {
			nodeOpts: fakestack.NodeOptions{NumericJobIds: true},
			expected: map[string]suite.Status{
				"small-benchmark-run": suite.StatusPassed,
			},
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			stack := fakestack.Start(tc.nodeOpts, tc.engineOpts)
			defer stack.Close()
			env := newEnv(stack)
			defer env.Close()

			out := &bytes.Buffer{}
			results := suite.New(out, suite.DefaultCases()).Run(context.Background(), env)

			require.Len(t, results, len(suite.DefaultCases()))
			actual := statuses(results)
			for caseName, expected := range tc.expected {
				assert.Equal(t, expected, actual[caseName], caseName)
			}
		})
	}
}

func TestSuite_Run_StackDown(t *testing.T) {
	stack := fakestack.Start(fakestack.NodeOptions{}, fakestack.EngineOptions{})
	stack.StopNode()
	defer stack.Close()
	env := newEnv(stack)
	defer env.Close()

	out := &bytes.Buffer{}
	results := suite.New(out, suite.DefaultCases()).Run(context.Background(), env)

	for _, r := range results {
		if r.Group == suite.GroupMock {
			assert.Equal(t, suite.StatusPassed, r.Status, r.Name)
		} else {
			assert.Equal(t, suite.StatusSkipped, r.Status, r.Name)
		}
	}
	assert.False(t, suite.Failed(results))
	assert.Contains(t, out.String(), "SKIP integration/cirisnode-health: skipped: stack not running")
	assert.Equal(t, int64(1), stack.Engine.Requests(), "only the probe reaches the engine")
}

func TestSuite_Run_EngineUnhealthy(t *testing.T) {
	stack := fakestack.Start(fakestack.NodeOptions{}, fakestack.EngineOptions{HealthCode: 503})
	defer stack.Close()
	env := newEnv(stack)
	defer env.Close()

	results := suite.New(nil, suite.DefaultCases()).Run(context.Background(), env, suite.GroupIntegration)
	require.Len(t, results, 5)
	for _, r := range results {
		assert.Equal(t, suite.StatusSkipped, r.Status, r.Name)
	}
}

func TestSuite_Run_SelectsGroups(t *testing.T) {
	stack := fakestack.Start(fakestack.NodeOptions{}, fakestack.EngineOptions{})
	defer stack.Close()
	env := newEnv(stack)
	defer env.Close()

	results := suite.New(nil, suite.DefaultCases()).Run(context.Background(), env, suite.GroupResilience, suite.GroupMock)

	names := make([]string, len(results))
	for i, r := range results {
		names[i] = r.Name
	}
	assert.Equal(t, []string{"invalid-benchmark-type", "empty-batch", "concurrent-requests", "mock-eee-response"}, names)
}

func TestSuite_Run_MockGroupNeverProbes(t *testing.T) {
	stack := fakestack.Start(fakestack.NodeOptions{}, fakestack.EngineOptions{})
	defer stack.Close()
	env := newEnv(stack)
	defer env.Close()

	results := suite.New(nil, suite.DefaultCases()).Run(context.Background(), env, suite.GroupMock)
	require.Len(t, results, 1)
	assert.Equal(t, suite.StatusPassed, results[0].Status)
	assert.Equal(t, int64(0), stack.Node.Requests())
	assert.Equal(t, int64(0), stack.Engine.Requests())
}

func TestSuite_Run_MockProcessor(t *testing.T) {
	tests := map[string]struct {
		response       *ethicsengine.BatchResponse
		err            error
		expectedStatus suite.Status
	}{
		"results and summary": {
			response:       ethicsengine.MockBatchResponse(),
			expectedStatus: suite.StatusPassed,
		},
		"missing summary": {
			response:       &ethicsengine.BatchResponse{Results: []ethicsengine.ScenarioResult{}},
			expectedStatus: suite.StatusFailed,
		},
		"missing results": {
			response:       &ethicsengine.BatchResponse{Summary: &ethicsengine.BatchSummary{}},
			expectedStatus: suite.StatusFailed,
		},
		"processor error": {
			err:            errors.New("boom"),
			expectedStatus: suite.StatusFailed,
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			processor := mocks.NewMockBatchProcessor(ctrl)
			processor.EXPECT().
				ProcessBatch(gomock.Any(), mocks.ScenarioIdMatcher{Expected: []string{}}).
				Return(tc.response, tc.err)

			env := suite.NewEnv(&client.ApiConnectionDetails{}, nil)
			env.Processor = processor
			results := suite.New(nil, suite.DefaultCases()).Run(context.Background(), env, suite.GroupMock)

			require.Len(t, results, 1)
			assert.Equal(t, tc.expectedStatus, results[0].Status)
		})
	}
}

func TestSuite_Run_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	env := suite.NewEnv(&client.ApiConnectionDetails{}, nil)
	results := suite.New(nil, suite.DefaultCases()).Run(ctx, env)
	assert.Empty(t, results)
}

func TestSuite_Run_RecoversPanics(t *testing.T) {
	cases := []suite.Case{{
		Name:  "panics",
		Group: suite.GroupMock,
		Run:   func(context.Context, *suite.Env) error { panic("oops") },
	}}
	results := suite.New(nil, cases).Run(context.Background(), suite.NewEnv(&client.ApiConnectionDetails{}, nil))
	require.Len(t, results, 1)
	assert.Equal(t, suite.StatusFailed, results[0].Status)
	assert.Contains(t, results[0].Err.Error(), "oops")
}

func TestParseGroup(t *testing.T) {
	g, err := suite.ParseGroup("e2e")
	require.NoError(t, err)
	assert.Equal(t, suite.GroupE2E, g)

	_, err = suite.ParseGroup("smoke")
	assert.Error(t, err)
}

func TestEnv_Token(t *testing.T) {
	tests := map[string]struct {
		credentials      client.LoginCredentials
		staticToken      string
		expectedToken    string
		expectedRequests int64
	}{
		"exchanged token is cached": {
			credentials:      client.LoginCredentials{Username: "test", Password: "test"},
			expectedToken:    fakestack.DefaultToken,
			expectedRequests: 1,
		},
		"failed exchange falls back and is retried": {
			credentials:      client.LoginCredentials{Username: "test", Password: "wrong"},
			expectedToken:    suite.FallbackToken,
			expectedRequests: 2,
		},
		"static token skips exchange": {
			staticToken:      "static",
			expectedToken:    "static",
			expectedRequests: 0,
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			stack := fakestack.Start(fakestack.NodeOptions{}, fakestack.EngineOptions{})
			defer stack.Close()
			env := suite.NewEnv(&client.ApiConnectionDetails{
				CirisNodeUrl: stack.NodeUrl(),
				EeeUrl:       stack.EngineUrl(),
				BasicAuth:    tc.credentials,
				Token:        tc.staticToken,
			}, nil)
			defer env.Close()

			assert.Equal(t, tc.expectedToken, env.Token(context.Background()))
			assert.Equal(t, tc.expectedToken, env.Token(context.Background()))
			assert.Equal(t, tc.expectedRequests, stack.Node.Requests())
		})
	}
}
