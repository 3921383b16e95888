// Package ethicsengine is a minimal HTTP client for the ethics engine scoring service.
package ethicsengine

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"github.com/cirisai/stackcheck/internal/common/stackerrors"
	"github.com/cirisai/stackcheck/pkg/client"
)

const (
	healthPath  = "/health"
	catalogPath = "/he300/catalog"
	batchPath   = "/he300/batch"
)

type Client struct {
	baseUrl string
	http    *http.Client
}

func New(baseUrl string, httpClient *http.Client) *Client {
	return &Client{
		baseUrl: baseUrl,
		http:    httpClient,
	}
}

func (c *Client) BaseUrl() string {
	return c.baseUrl
}

func (c *Client) Health(ctx context.Context) (*client.Response, error) {
	return client.Do(ctx, c.http, http.MethodGet, client.JoinUrl(c.baseUrl, healthPath), nil, nil)
}

func (c *Client) Catalog(ctx context.Context) (*client.Response, error) {
	return client.Do(ctx, c.http, http.MethodGet, client.JoinUrl(c.baseUrl, catalogPath), nil, nil)
}

// Batch posts scenarios to the batch endpoint. A nil slice is sent as an empty list.
func (c *Client) Batch(ctx context.Context, scenarios []Scenario) (*client.Response, error) {
	if scenarios == nil {
		scenarios = []Scenario{}
	}
	return client.DoJSON(ctx, c.http, http.MethodPost, client.JoinUrl(c.baseUrl, batchPath), BatchRequest{Scenarios: scenarios}, nil)
}

// ProcessBatch implements BatchProcessor against the live service. Anything but a 200 is an error.
func (c *Client) ProcessBatch(ctx context.Context, scenarios []Scenario) (*BatchResponse, error) {
	resp, err := c.Batch(ctx, scenarios)
	if err != nil {
		return nil, err
	}
	if err := resp.ExpectStatus(http.StatusOK); err != nil {
		return nil, err
	}
	batch := &BatchResponse{}
	if err := resp.Decode(batch); err != nil {
		return nil, err
	}
	return batch, nil
}

func DecodeCatalog(resp *client.Response) (*Catalog, error) {
	catalog := &Catalog{}
	if err := resp.Decode(catalog); err != nil {
		return nil, err
	}
	return catalog, nil
}

// CountResults returns the length of the results list in a batch response without interpreting the entries.
func CountResults(resp *client.Response) (int, error) {
	fields, err := resp.Fields()
	if err != nil {
		return 0, err
	}
	var results []json.RawMessage
	if err := json.Unmarshal(fields["results"], &results); err != nil {
		return 0, errors.WithStack(&stackerrors.ErrUnexpectedBody{
			Url:     resp.Url,
			Message: "results is not a list: " + resp.QuotedBody(),
		})
	}
	return len(results), nil
}
