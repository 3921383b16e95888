package common

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/cirisai/stackcheck/internal/common/health"
)

// ServeMetrics serves gatherer at /metrics and checker at /health on addr.
// It returns a function that shuts the server down.
func ServeMetrics(addr string, gatherer prometheus.Gatherer, checker health.Checker) (shutdown func()) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	if checker != nil {
		health.SetupHttpMux(mux, checker)
	}
	return ServeHttp(addr, mux)
}

// ServeHttp runs handler on addr in the background. The returned function shuts the server down,
// waiting up to five seconds for in-flight requests.
func ServeHttp(addr string, handler http.Handler) (shutdown func()) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Printf("Starting http server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("http server stopped")
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Printf("Stopping http server listening on %s", addr)
		if err := srv.Shutdown(ctx); err != nil {
			log.WithError(err).Warn("error stopping http server")
		}
	}
}
