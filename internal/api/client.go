package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/jmf-tools/jmf-cli/internal/debug"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 16 << 20

// Client is the API request executor.
//
// A Client holds no per-call state and is safe for concurrent use. Single-flight
// behaviour is opt-in per request through Request.Loading.
type Client struct {
	BaseURL   string
	HTTP      *http.Client
	UserAgent string
	// Timeout is used for requests that do not set their own.
	Timeout time.Duration
	// Limiter, when set, paces outgoing requests. Waiting on it happens before
	// the request timeout starts.
	Limiter *rate.Limiter
}

// Compile-time interface implementation check
var _ Executor = (*Client)(nil)

// New creates a client for the API served under baseURL.
//
// The HTTP client has no cookie jar, so no credentials are sent, and it
// refuses to follow redirects.
func New(baseURL string) *Client {
	baseTransport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		baseTransport = &http.Transport{}
	}
	transport := baseTransport.Clone()
	if transport.TLSClientConfig == nil {
		transport.TLSClientConfig = &tls.Config{}
	} else {
		transport.TLSClientConfig = transport.TLSClientConfig.Clone()
	}
	transport.TLSClientConfig.MinVersion = tls.VersionTLS12

	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Timeout: DefaultTimeout,
		HTTP: &http.Client{
			Transport: transport,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return ErrRedirect
			},
		},
	}
}

// Execute performs req and returns the data payload of a successful envelope.
//
// If req.Loading is already held the call is skipped and ErrInFlight is
// returned without touching the network. Otherwise the flag is held for the
// whole call and released on every exit path.
func (c *Client) Execute(ctx context.Context, req Request) (json.RawMessage, error) {
	if req.Loading != nil {
		if !req.Loading.TryAcquire() {
			return nil, ErrInFlight
		}
		defer req.Loading.Release()
	}
	return c.execute(ctx, req)
}

func (c *Client) timeoutFor(req Request) time.Duration {
	if req.Timeout > 0 {
		return req.Timeout
	}
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultTimeout
}

func (c *Client) execute(ctx context.Context, req Request) (json.RawMessage, error) {
	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}
	if !validMethod(method) {
		return nil, fmt.Errorf("unsupported method %q", req.Method)
	}

	var (
		url  string
		body []byte
	)
	if method == http.MethodGet {
		url = BuildURL(c.BaseURL, req.Endpoint, req.Query)
	} else {
		url = BuildURL(c.BaseURL, req.Endpoint, nil)
		var err error
		body, err = BuildBody(req.Body)
		if err != nil {
			return nil, err
		}
	}

	timeout := c.timeoutFor(req)
	fail := func(e *Error) (json.RawMessage, error) {
		e.Method = method
		e.Endpoint = req.Endpoint
		if e.Kind == KindTimeout {
			e.Timeout = timeout
		}
		debug.Logger(ctx).DebugContext(ctx, "request failed", "method", method, "url", url, "kind", e.Kind.String(), "error", e.Error())
		return nil, e
	}

	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return fail(&Error{Kind: KindNetwork, Err: err})
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(callCtx, method, url, bodyReader)
	if err != nil {
		return fail(&Error{Kind: KindNetwork, Err: fmt.Errorf("failed to create request: %w", err)})
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.UserAgent != "" {
		httpReq.Header.Set("User-Agent", c.UserAgent)
	}

	start := time.Now()
	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return fail(transportError(ctx, callCtx, err))
	}
	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	_ = resp.Body.Close()
	if err != nil {
		return fail(transportError(ctx, callCtx, err))
	}
	debug.Logger(ctx).DebugContext(ctx, "request complete", "method", method, "url", url, "status", resp.StatusCode, "duration", time.Since(start))

	status := statusText(resp)
	env, decodeErr := DecodeEnvelope(respBody)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if decodeErr != nil {
			return fail(&Error{Kind: KindHTTP, StatusCode: resp.StatusCode, Status: status})
		}
		return fail(&Error{Kind: KindAPI, StatusCode: resp.StatusCode, Status: status, Code: env.Code, Msg: env.Text()})
	}

	if decodeErr != nil {
		return fail(&Error{Kind: KindHTTP, StatusCode: resp.StatusCode, Status: status, Err: decodeErr})
	}
	if !env.OK {
		return fail(&Error{Kind: KindAPI, StatusCode: resp.StatusCode, Status: status, Code: env.Code, Msg: env.Text()})
	}
	return env.Data, nil
}

// transportError classifies a failure that happened before a full response
// was read. The call's own deadline firing is a timeout; anything else,
// including cancellation by the caller, is a network error.
func transportError(parent, call context.Context, err error) *Error {
	if errors.Is(call.Err(), context.DeadlineExceeded) && parent.Err() == nil {
		return &Error{Kind: KindTimeout, Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) && parent.Err() == nil {
		return &Error{Kind: KindTimeout, Err: err}
	}
	return &Error{Kind: KindNetwork, Err: err}
}

// statusText returns the reason phrase of the response, falling back to the
// standard text for the code.
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

// HealthCheck checks if the API server is reachable via GET /api/v1/status.
// Returns true if the server responds with any 2xx status.
func (c *Client) HealthCheck(ctx context.Context) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeoutFor(Request{}))
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, BuildURL(c.BaseURL, "/v1/status", nil), nil)
	if err != nil {
		return false, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return false, err
	}
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode >= 200 && resp.StatusCode < 300, nil
}
