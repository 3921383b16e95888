package suite

import (
	"context"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"

	"github.com/cirisai/stackcheck/internal/stackcheck/benchmark"
	"github.com/cirisai/stackcheck/internal/stackcheck/probe"
	"github.com/cirisai/stackcheck/pkg/client"
	"github.com/cirisai/stackcheck/pkg/client/cirisnode"
	"github.com/cirisai/stackcheck/pkg/client/ethicsengine"
)

const (
	AuthTimeout  = 10 * time.Second
	BatchTimeout = 60 * time.Second

	// FallbackToken is sent when no token could be obtained from the node.
	FallbackToken = "test-token"

	// How long an exchanged token is reused before asking the node again.
	TokenTTL = 5 * time.Minute
)

// Env is what cases run against.
type Env struct {
	Details *client.ApiConnectionDetails
	Node    *cirisnode.Client
	Engine  *ethicsengine.Client
	Prober  *probe.Prober
	// Used by the mock group in place of the live engine.
	Processor ethicsengine.BatchProcessor
	// Polling parameters for benchmark runs.
	BenchmarkTimeout  time.Duration
	BenchmarkInterval time.Duration
	// Passed to every benchmark runner.
	BenchmarkObservers []benchmark.Observer

	http   *http.Client
	tokens *cache.Cache
}

// NewEnv builds clients for both services. Requests carry no client-wide timeout;
// every case bounds its calls with a context deadline instead.
func NewEnv(details *client.ApiConnectionDetails, prober *probe.Prober) *Env {
	httpClient := client.NewHttpClient(0)
	if prober == nil {
		prober = probe.New(probe.DefaultTimeout, nil)
	}
	return &Env{
		Details:           details,
		Node:              cirisnode.New(details.CirisNodeUrl, httpClient),
		Engine:            ethicsengine.New(details.EeeUrl, httpClient),
		Prober:            prober,
		Processor:         ethicsengine.NewStaticProcessor(ethicsengine.MockBatchResponse()),
		BenchmarkTimeout:  benchmark.DefaultTimeout,
		BenchmarkInterval: benchmark.DefaultInterval,
		http:              httpClient,
		tokens:            cache.New(TokenTTL, TokenTTL),
	}
}

func (e *Env) Close() {
	e.http.CloseIdleConnections()
}

func (e *Env) requestTimeout() time.Duration {
	if e.Details.RequestTimeout > 0 {
		return e.Details.RequestTimeout
	}
	return client.DefaultRequestTimeout
}

func (e *Env) withRequestTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, e.requestTimeout())
}

// Token returns the configured static token, else a token exchanged for the basic auth credentials,
// else FallbackToken. Exchanged tokens are cached for TokenTTL; failed exchanges are not.
func (e *Env) Token(ctx context.Context) string {
	if e.Details.Token != "" {
		return e.Details.Token
	}
	key := e.Details.BasicAuth.Username + "@" + e.Details.CirisNodeUrl
	if token, ok := e.tokens.Get(key); ok {
		return token.(string)
	}
	ctx, cancel := context.WithTimeout(ctx, AuthTimeout)
	defer cancel()
	token, err := e.Node.Authenticate(ctx, e.Details.BasicAuth)
	if err != nil {
		log.WithError(err).Debugf("token exchange failed, falling back to %q", FallbackToken)
		return FallbackToken
	}
	e.tokens.Set(key, token, cache.DefaultExpiration)
	return token
}

// AuthenticatedNode returns the node client carrying Token.
func (e *Env) AuthenticatedNode(ctx context.Context) *cirisnode.Client {
	return e.Node.WithToken(e.Token(ctx))
}

func (e *Env) benchmarkConfig(req cirisnode.RunRequest) benchmark.Config {
	return benchmark.Config{
		Request:  req,
		Timeout:  e.BenchmarkTimeout,
		Interval: e.BenchmarkInterval,
	}
}
