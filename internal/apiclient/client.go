// Package apiclient is the typed client for the storefront REST backend.
//
// Identity travels in the request context: the bearer token of the logged-in user and
// the anonymous cart session token are attached by WithCredentials and forwarded as
// Authorization and X-Session-Token headers on every call.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	applog "github.com/silver1953366/gravure-frontend/internal/log"
)

const (
	HeaderSessionToken = "X-Session-Token"
	maxBodyBytes       = 8 << 20
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return NewWithHTTPClient(baseURL, &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           (&net.Dialer{Timeout: 3 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   20,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   5 * time.Second,
			ExpectContinueTimeout: time.Second,
		},
	})
}

func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: hc}
}

// Credentials is the caller identity forwarded to the backend. Both fields are opaque.
type Credentials struct {
	AccessToken  string
	SessionToken string
}

type credKey struct{}

func WithCredentials(ctx context.Context, cr Credentials) context.Context {
	return context.WithValue(ctx, credKey{}, cr)
}

func CredentialsFrom(ctx context.Context) Credentials {
	cr, _ := ctx.Value(credKey{}).(Credentials)
	return cr
}

type call struct {
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
}

func jsonCall(method, path string, query url.Values, in any) (call, error) {
	c := call{method: method, path: path, query: query}
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return c, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		c.body = bytes.NewReader(b)
		c.contentType = "application/json"
	}
	return c, nil
}

// send executes the call and returns the raw body of a 2xx response.
func (c *Client) send(ctx context.Context, cl call) ([]byte, http.Header, error) {
	op := cl.method + " " + cl.path
	u := c.baseURL + cl.path
	if len(cl.query) > 0 {
		u += "?" + cl.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, cl.method, u, cl.body)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if cl.contentType != "" {
		req.Header.Set("Content-Type", cl.contentType)
	}
	cr := CredentialsFrom(ctx)
	if cr.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+cr.AccessToken)
	}
	if cr.SessionToken != "" {
		req.Header.Set(HeaderSessionToken, cr.SessionToken)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, nil, fmt.Errorf("%s: %w", op, ctxErr)
		}
		applog.FromContext(ctx).Warn("backend.unreachable", "op", op, "err", err)
		return nil, nil, &Error{Op: op, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, nil, &Error{Op: op, Status: resp.StatusCode, Message: "read body: " + err.Error()}
	}
	applog.FromContext(ctx).Debug("backend.call", "op", op, "status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil, parseError(op, resp.StatusCode, body)
	}
	return body, resp.Header, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any, envelope ...string) error {
	cl, err := jsonCall(method, path, query, in)
	if err != nil {
		return err
	}
	body, _, err := c.send(ctx, cl)
	if err != nil {
		return err
	}
	if err := decode(body, out, envelope...); err != nil {
		return fmt.Errorf("%s %s: decode: %w", method, path, err)
	}
	return nil
}

// decode unmarshals body into out. When envelope keys are given and the body is an
// object holding one of them, that member is decoded instead of the whole body.
func decode(body []byte, out any, envelope ...string) error {
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if len(envelope) > 0 {
		var obj map[string]json.RawMessage
		if json.Unmarshal(body, &obj) == nil {
			for _, k := range envelope {
				if raw, ok := obj[k]; ok && !isNull(raw) {
					return json.Unmarshal(raw, out)
				}
			}
		}
	}
	return json.Unmarshal(body, out)
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || string(bytes.TrimSpace(raw)) == "null"
}

func get[T any](ctx context.Context, c *Client, path string, query url.Values, envelope ...string) (T, error) {
	var out T
	err := c.do(ctx, http.MethodGet, path, query, nil, &out, envelope...)
	return out, err
}

// list decodes either a bare JSON array or a {"data": [...]} wrapper. A null body yields an empty slice.
func list[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	out, err := get[[]T](ctx, c, path, query, "data")
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func send[T any](ctx context.Context, c *Client, method, path string, in any, envelope ...string) (T, error) {
	var out T
	err := c.do(ctx, method, path, nil, in, &out, envelope...)
	return out, err
}

func idPath(format string, id int64) string {
	return fmt.Sprintf(format, id)
}

// IsAuthError reports whether err means the caller's token is no longer accepted.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
