package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	Prefix    = "/api"
	LoginPath = "/api/login"

	TokenHeader     = "AuthorizationToken"
	RequestIDHeader = "X-Request-ID"

	defaultTimeout = 30 * time.Second
)

// StatusError is returned for every non-2xx response.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("queue server responded %d", e.Code)
	}
	return fmt.Sprintf("queue server responded %d: %s", e.Code, e.Message)
}

func (e *StatusError) StatusCode() int { return e.Code }

// ServerMessage is the message field of the error body, if any.
func (e *StatusError) ServerMessage() string { return e.Message }

// StatusCode extracts the HTTP status from err, or 0 when the request
// never got a response.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}

// envelope is the part every queue server response shares.
type envelope struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

type ClientOpts struct {
	BaseURL     string
	Transport   http.RoundTripper
	Middlewares []Middleware
	Timeout     time.Duration
	Log         *zap.Logger
}

type Client struct {
	log  *zap.Logger
	base *url.URL
	http *http.Client
}

func NewClient(opts ClientOpts) (*Client, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "parsing base url")
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, errors.Errorf("base url %q must be absolute", opts.BaseURL)
	}

	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		log:  log,
		base: base,
		http: &http.Client{
			Transport: Chain(transport, opts.Middlewares...),
			Timeout:   timeout,
		},
	}, nil
}

// do sends body as JSON and decodes a 2xx response into out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "marshaling request")
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.JoinPath(path).String(), reader)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "sending %s %s", method, path)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "reading response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var env envelope
		// Error bodies are not always JSON.
		_ = json.Unmarshal(raw, &env)
		return &StatusError{Code: resp.StatusCode, Message: env.Message}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Wrap(err, "decoding response")
	}

	return nil
}
