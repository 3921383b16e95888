package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cirisai/stackcheck/internal/stackcheck/fakestack"
	"github.com/cirisai/stackcheck/pkg/client"
)

type recordingObserver struct {
	mu    sync.Mutex
	calls map[string]bool
}

func (o *recordingObserver) ObserveProbe(service string, up bool, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.calls == nil {
		o.calls = make(map[string]bool)
	}
	o.calls[service] = up
}

func TestIsUp(t *testing.T) {
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer ok.Close()

	unhealthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer unhealthy.Close()

	noContent := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer noContent.Close()

	refused := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	refused.Close()

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer slow.Close()

	p := New(200*time.Millisecond, nil)
	ctx := context.Background()

	tests := map[string]struct {
		url  string
		want bool
	}{
		"200":                {ok.URL, true},
		"503":                {unhealthy.URL, false},
		"204 is not 200":     {noContent.URL, false},
		"connection refused": {refused.URL, false},
		"timeout":            {slow.URL, false},
		"malformed url":      {"://nope", false},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, p.IsUp(ctx, tc.url))
		})
	}
}

func TestIsUp_DoesNotRetry(t *testing.T) {
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	assert.False(t, New(time.Second, nil).IsUp(context.Background(), srv.URL))
	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))
}

func TestStack(t *testing.T) {
	stack := fakestack.Start(fakestack.NodeOptions{}, fakestack.EngineOptions{})
	defer stack.Close()

	observer := &recordingObserver{}
	p := New(time.Second, observer)
	details := &client.ApiConnectionDetails{CirisNodeUrl: stack.NodeUrl(), EeeUrl: stack.EngineUrl()}

	assert.True(t, p.StackUp(context.Background(), details))
	assert.Equal(t, map[string]bool{"cirisnode": true, "ethicsengine": true}, observer.calls)

	stack.StopNode()
	status := p.Stack(context.Background(), details)
	assert.False(t, status.CirisNode)
	assert.True(t, status.Engine)
	assert.False(t, status.AllUp())
}

func TestConcurrentHealth(t *testing.T) {
	var inFlight, maxInFlight int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt64(&inFlight, 1)
		defer atomic.AddInt64(&inFlight, -1)
		for {
			m := atomic.LoadInt64(&maxInFlight)
			if n <= m || atomic.CompareAndSwapInt64(&maxInFlight, m, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	codes := ConcurrentHealth(context.Background(), client.NewHttpClient(time.Second), srv.URL, 10, 5)
	assert.Len(t, codes, 10)
	for _, code := range codes {
		assert.Equal(t, http.StatusOK, code)
	}
	assert.LessOrEqual(t, atomic.LoadInt64(&maxInFlight), int64(5))
}

func TestConcurrentHealth_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()
	codes := ConcurrentHealth(context.Background(), client.NewHttpClient(time.Second), srv.URL, 3, 5)
	assert.Equal(t, []int{0, 0, 0}, codes)
}
