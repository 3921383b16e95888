// Package cirisnode is a minimal HTTP client for the benchmark orchestration node.
package cirisnode

import (
	"context"
	"net/http"
	"net/url"

	"github.com/pkg/errors"

	"github.com/cirisai/stackcheck/pkg/client"
)

const (
	healthPath  = "/health"
	tokenPath   = "/api/v1/auth/token"
	runPath     = "/api/v1/benchmarks/run"
	statusPath  = "/api/v1/benchmarks/status/"
	resultsPath = "/api/v1/benchmarks/results/"
)

type Client struct {
	baseUrl string
	http    *http.Client
	token   string
}

func New(baseUrl string, httpClient *http.Client) *Client {
	return &Client{
		baseUrl: baseUrl,
		http:    httpClient,
	}
}

// WithToken returns a copy of the client that sends token as a bearer token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

func (c *Client) Token() string {
	return c.token
}

func (c *Client) BaseUrl() string {
	return c.baseUrl
}

func (c *Client) Health(ctx context.Context) (*client.Response, error) {
	return client.Do(ctx, c.http, http.MethodGet, client.JoinUrl(c.baseUrl, healthPath), nil, nil)
}

// Authenticate exchanges credentials for a bearer token using a form-encoded POST.
func (c *Client) Authenticate(ctx context.Context, credentials client.LoginCredentials) (string, error) {
	resp, err := client.DoForm(ctx, c.http, client.JoinUrl(c.baseUrl, tokenPath), url.Values{
		"username": {credentials.Username},
		"password": {credentials.Password},
	}, nil)
	if err != nil {
		return "", err
	}
	if err := resp.ExpectStatus(http.StatusOK); err != nil {
		return "", err
	}
	token := &TokenResponse{}
	if err := resp.Decode(token); err != nil {
		return "", err
	}
	if token.AccessToken == "" {
		return "", errors.Errorf("no access_token in response from %s", resp.Url)
	}
	return token.AccessToken, nil
}

// RunBenchmark submits req. The raw response is returned so callers can assert on the status code;
// use DecodeRun to interpret the body.
func (c *Client) RunBenchmark(ctx context.Context, req RunRequest) (*client.Response, error) {
	return client.DoJSON(ctx, c.http, http.MethodPost, client.JoinUrl(c.baseUrl, runPath), req, client.BearerHeader(c.token))
}

func (c *Client) Status(ctx context.Context, jobId string) (*client.Response, error) {
	u := client.JoinUrl(c.baseUrl, statusPath+url.PathEscape(jobId))
	return client.Do(ctx, c.http, http.MethodGet, u, nil, client.BearerHeader(c.token))
}

func (c *Client) Results(ctx context.Context, jobId string) (*client.Response, error) {
	u := client.JoinUrl(c.baseUrl, resultsPath+url.PathEscape(jobId))
	return client.Do(ctx, c.http, http.MethodGet, u, nil, client.BearerHeader(c.token))
}

// DecodeRun reads a run or results body. Only a body that is not a JSON object is an error.
func DecodeRun(resp *client.Response) (*RunResponse, error) {
	fields, err := resp.Fields()
	if err != nil {
		return nil, err
	}
	return &RunResponse{
		JobId:   jobIdFrom(fields["job_id"]),
		Status:  stringField(fields, "status"),
		Result:  fields["result"],
		Results: fields["results"],
	}, nil
}

// DecodeStatus reads a status body. A status that is missing or not a string decodes as "",
// which is neither completed nor failed.
func DecodeStatus(resp *client.Response) (JobStatus, error) {
	fields, err := resp.Fields()
	if err != nil {
		return JobStatus{}, err
	}
	return JobStatus{Status: stringField(fields, "status")}, nil
}
