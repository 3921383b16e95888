// Package probe decides whether the live stack is reachable.
//
// A probe is a gate, not a resilience mechanism: it makes one bounded GET against /health and never retries.
// Any transport error, timeout, or non-200 status counts as down.
package probe

import (
	"context"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/cirisai/stackcheck/pkg/client"
)

const DefaultTimeout = 5 * time.Second

// Observer is notified of every probe. It may be nil.
type Observer interface {
	ObserveProbe(service string, up bool, latency time.Duration)
}

type Prober struct {
	http     *http.Client
	timeout  time.Duration
	observer Observer
}

func New(timeout time.Duration, observer Observer) *Prober {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Prober{
		http:     client.NewHttpClient(timeout),
		timeout:  timeout,
		observer: observer,
	}
}

// IsUp reports whether GET {baseUrl}/health answers 200 within the probe timeout.
func (p *Prober) IsUp(ctx context.Context, baseUrl string) bool {
	return p.isUp(ctx, baseUrl, baseUrl)
}

func (p *Prober) isUp(ctx context.Context, service string, baseUrl string) bool {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	resp, err := client.Do(ctx, p.http, http.MethodGet, client.JoinUrl(baseUrl, "/health"), nil, nil)
	up := err == nil && resp.StatusCode == http.StatusOK
	latency := time.Since(start)

	logger := log.WithFields(log.Fields{"service": service, "url": baseUrl, "latency": latency})
	switch {
	case err != nil:
		logger.WithError(err).Debug("service unreachable")
	case !up:
		logger.WithField("status", resp.StatusCode).Debug("service unhealthy")
	default:
		logger.Debug("service up")
	}
	if p.observer != nil {
		p.observer.ObserveProbe(service, up, latency)
	}
	return up
}

// Status is the outcome of probing both services of the stack.
type Status struct {
	CirisNode bool
	Engine    bool
}

func (s Status) AllUp() bool {
	return s.CirisNode && s.Engine
}

// Stack probes both services concurrently.
func (p *Prober) Stack(ctx context.Context, details *client.ApiConnectionDetails) Status {
	var status Status
	g := errgroup.Group{}
	g.Go(func() error {
		status.CirisNode = p.isUp(ctx, "cirisnode", details.CirisNodeUrl)
		return nil
	})
	g.Go(func() error {
		status.Engine = p.isUp(ctx, "ethicsengine", details.EeeUrl)
		return nil
	})
	_ = g.Wait()
	return status
}

// StackUp reports whether both services are up.
func (p *Prober) StackUp(ctx context.Context, details *client.ApiConnectionDetails) bool {
	return p.Stack(ctx, details).AllUp()
}

// ConcurrentHealth issues n GET /health requests against baseUrl with at most workers in flight
// and returns the status code of each, in request order. A transport error is recorded as 0.
func ConcurrentHealth(ctx context.Context, c *http.Client, baseUrl string, n int, workers int) []int {
	codes := make([]int, n)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			resp, err := client.Do(ctx, c, http.MethodGet, client.JoinUrl(baseUrl, "/health"), nil, nil)
			if err != nil {
				log.WithError(err).Debugf("concurrent health request %d failed", i)
				return nil
			}
			codes[i] = resp.StatusCode
			return nil
		})
	}
	_ = g.Wait()
	return codes
}
