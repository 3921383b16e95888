package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/cirisai/stackcheck/internal/common/stackerrors"
)

// Bodies larger than this are truncated when quoted in errors.
const maxQuotedBody = 512

// Response is a fully-read HTTP response.
type Response struct {
	Method     string
	Url        string
	StatusCode int
	Body       []byte
}

// Do sends a request and reads the whole body. The response body is always closed.
// Transport errors are returned as-is; any status code is a successful Do.
func Do(ctx context.Context, c *http.Client, method string, url string, body io.Reader, header http.Header) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	resp, err := c.Do(req)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WithMessagef(err, "error reading response body from %s %s", method, url)
	}
	log.WithFields(log.Fields{"method": method, "url": url, "status": resp.StatusCode}).Debug("http call")
	return &Response{
		Method:     method,
		Url:        url,
		StatusCode: resp.StatusCode,
		Body:       data,
	}, nil
}

// DoJSON marshals payload as the request body and sends it with a JSON content type.
func DoJSON(ctx context.Context, c *http.Client, method string, url string, payload interface{}, header http.Header) (*Response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	h := header.Clone()
	if h == nil {
		h = http.Header{}
	}
	h.Set("Content-Type", "application/json")
	return Do(ctx, c, method, url, bytes.NewReader(data), h)
}

// DoForm sends values url-encoded in the request body.
func DoForm(ctx context.Context, c *http.Client, url string, values url.Values, header http.Header) (*Response, error) {
	h := header.Clone()
	if h == nil {
		h = http.Header{}
	}
	h.Set("Content-Type", "application/x-www-form-urlencoded")
	return Do(ctx, c, http.MethodPost, url, strings.NewReader(values.Encode()), h)
}

// BearerHeader returns an Authorization header for token. An empty token yields an empty header.
func BearerHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

// ExpectStatus returns an *stackerrors.ErrUnexpectedStatus unless the status code is one of codes.
func (r *Response) ExpectStatus(codes ...int) error {
	for _, code := range codes {
		if r.StatusCode == code {
			return nil
		}
	}
	return errors.WithStack(&stackerrors.ErrUnexpectedStatus{
		Method: r.Method,
		Url:    r.Url,
		Got:    r.StatusCode,
		Want:   codes,
		Body:   r.QuotedBody(),
	})
}

// StatusIn reports whether the status code is one of codes.
func (r *Response) StatusIn(codes ...int) bool {
	for _, code := range codes {
		if r.StatusCode == code {
			return true
		}
	}
	return false
}

// Decode unmarshals the body into v.
func (r *Response) Decode(v interface{}) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return errors.WithStack(&stackerrors.ErrUnexpectedBody{
			Url:     r.Url,
			Message: "invalid JSON: " + err.Error(),
		})
	}
	return nil
}

// Fields decodes the body as a JSON object.
func (r *Response) Fields() (map[string]json.RawMessage, error) {
	fields := make(map[string]json.RawMessage)
	if err := r.Decode(&fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// RequireAnyKey returns an error unless the body is a JSON object containing at least one of keys.
func (r *Response) RequireAnyKey(keys ...string) error {
	fields, err := r.Fields()
	if err != nil {
		return err
	}
	for _, key := range keys {
		if _, ok := fields[key]; ok {
			return nil
		}
	}
	return errors.WithStack(&stackerrors.ErrUnexpectedBody{
		Url:     r.Url,
		Message: "expected one of keys [" + strings.Join(keys, " ") + "] in " + r.QuotedBody(),
	})
}

// QuotedBody returns the body as a string, truncated for inclusion in error messages.
func (r *Response) QuotedBody() string {
	s := string(r.Body)
	if len(s) > maxQuotedBody {
		s = s[:maxQuotedBody] + "..."
	}
	return s
}

// JoinUrl joins a base URL and a path without doubling or dropping slashes.
func JoinUrl(base string, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
