package client

import (
	"net/http"
	"time"
)

const (
	DefaultCirisNodeUrl = "http://localhost:8000"
	DefaultEeeUrl       = "http://localhost:8080"

	DefaultRequestTimeout = 30 * time.Second
)

type LoginCredentials struct {
	Username string
	Password string
}

// ApiConnectionDetails holds everything needed to reach the two services of the stack.
type ApiConnectionDetails struct {
	// Base URL of the benchmark-orchestration node, e.g. http://localhost:8000.
	CirisNodeUrl string `validate:"required,url"`
	// Base URL of the ethics engine scoring service, e.g. http://localhost:8080.
	EeeUrl string `validate:"required,url"`
	// Credentials exchanged for a bearer token at /api/v1/auth/token.
	BasicAuth LoginCredentials
	// Static bearer token. When set, no token exchange is attempted.
	Token string
	// Timeout applied to calls that don't choose their own.
	RequestTimeout time.Duration
}

type ConnectionDetails func() *ApiConnectionDetails

// NewHttpClient returns a client whose every request is bounded by timeout.
// Redirects are followed the default way; there is no retry layer.
func NewHttpClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     30 * time.Second,
		},
	}
}
