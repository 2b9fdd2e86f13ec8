// Package http is the request executor shared by every console resource
// client. It attaches the bearer token, retries transient failures with
// exponential backoff, classifies terminal failures into *console.APIError
// and broadcasts session invalidation on 401.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/harvestline/agriconsole/internal/constants"
	"github.com/harvestline/agriconsole/internal/logging"
	"github.com/harvestline/agriconsole/pkg/console"
	"github.com/harvestline/agriconsole/pkg/events"
)

// Request is one logical API call.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Headers map[string]string
}

// Response is the final response of a logical call.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	RequestID  string
}

// Client executes requests against the console backend.
type Client struct {
	baseURL    string
	store      console.TokenStore
	signals    *events.Bus
	logger     console.Logger
	debug      bool
	userAgent  string
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
	httpClient *http.Client
	retry      *retryablehttp.Client
}

// Option configures a Client.
type Option func(*Client)

// WithRetryConfig sets the retry budget. maxRetries counts retries after the
// first attempt; retry n waits baseDelay * 2^n. A positive maxDelay caps each
// wait, zero leaves it uncapped.
func WithRetryConfig(maxRetries int, baseDelay, maxDelay time.Duration) Option {
	return func(c *Client) {
		if maxRetries >= 0 {
			c.maxRetries = maxRetries
		}

		if baseDelay > 0 {
			c.baseDelay = baseDelay
		}

		if maxDelay >= 0 {
			c.maxDelay = maxDelay
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger console.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithSignals sets the bus that receives one emission per 401 response.
func WithSignals(bus *events.Bus) Option {
	return func(c *Client) {
		c.signals = bus
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// WithHTTPClient replaces the underlying transport client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a client for baseURL. store may be nil, in which case no
// Authorization header is ever sent.
func NewClient(baseURL string, store console.TokenStore, opts ...Option) *Client {
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		store:      store,
		logger:     logging.Nop(),
		userAgent:  constants.DefaultUserAgent,
		maxRetries: constants.DefaultMaxRetries,
		baseDelay:  constants.DefaultRetryBaseDelay,
	}

	for _, opt := range opts {
		opt(client)
	}

	retry := retryablehttp.NewClient()
	if client.httpClient != nil {
		retry.HTTPClient = client.httpClient
	}

	retry.Logger = nil
	if client.debug {
		retry.Logger = &leveledLogger{logger: client.logger}
	}

	retry.RetryMax = client.maxRetries
	retry.RetryWaitMin = client.baseDelay
	retry.RetryWaitMax = client.maxDelay
	retry.CheckRetry = client.checkRetry
	retry.Backoff = client.backoff
	retry.RequestLogHook = client.beforeAttempt
	retry.ResponseLogHook = client.afterAttempt
	retry.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client.retry = retry

	return client
}

// callState follows one logical call across its attempts.
type callState struct {
	attempt   int
	requestID string
}

type callStateKey struct{}

func stateFrom(ctx context.Context) *callState {
	state, _ := ctx.Value(callStateKey{}).(*callState)

	return state
}

// Do executes req, retrying 429, 5xx and transport failures. On failure the
// error is a *console.APIError; the Response is returned alongside it
// whenever the server answered.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	var body interface{}

	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}

		body = data
	}

	state := &callState{requestID: uuid.NewString()}
	ctx = context.WithValue(ctx, callStateKey{}, state)

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, c.buildURL(req.Path, req.Query), body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	c.setHeaders(httpReq.Header, state.requestID)
	httpReq.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	resp, err := c.retry.Do(httpReq)
	if err != nil {
		if resp != nil {
			_ = resp.Body.Close()
		}

		return nil, c.networkError(state.requestID, err)
	}

	return c.finish(resp, state.requestID)
}

// Upload sends body as multipart/form-data in a single attempt. A 401 is
// handled like Do; every other failure is returned without retrying.
func (c *Client) Upload(ctx context.Context, path string, body *MultipartBody) (*Response, error) {
	reader, contentType, err := body.encode()
	if err != nil {
		return nil, err
	}

	requestID := uuid.NewString()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL(path, nil), reader)
	if err != nil {
		return nil, fmt.Errorf("creating upload request: %w", err)
	}

	c.setHeaders(httpReq.Header, requestID)
	httpReq.Header.Set(constants.HeaderContentType, contentType)
	c.authorize(httpReq)

	if c.debug {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method":               httpReq.Method,
			"url":                  httpReq.URL.String(),
			logging.FieldRequestID: requestID,
			"upload":               true,
		})
	}

	resp, err := c.retry.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, c.networkError(requestID, err)
	}

	c.afterAttempt(nil, resp)

	return c.finish(resp, requestID)
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

// Patch performs a PATCH request.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPatch, Path: path, Body: body})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}

func (c *Client) buildURL(path string, query url.Values) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	return target
}

func (c *Client) setHeaders(header http.Header, requestID string) {
	header.Set(constants.HeaderAccept, constants.ContentTypeJSON)
	header.Set(constants.HeaderUserAgent, c.userAgent)
	header.Set(constants.HeaderRequestID, requestID)
}

// authorize reads the token store and sets or removes the bearer header.
// A store read failure is logged and the attempt goes out unauthenticated.
func (c *Client) authorize(req *http.Request) {
	req.Header.Del(constants.HeaderAuthorization)

	if c.store == nil {
		return
	}

	token, err := c.store.Get()
	if err != nil {
		c.logger.Warn("Reading auth token failed", map[string]interface{}{
			"error":                err.Error(),
			logging.FieldRequestID: req.Header.Get(constants.HeaderRequestID),
		})

		return
	}

	if token != "" {
		req.Header.Set(constants.HeaderAuthorization, constants.BearerPrefix+token)
	}
}

// beforeAttempt runs before every attempt, including the first.
func (c *Client) beforeAttempt(_ retryablehttp.Logger, req *http.Request, attempt int) {
	if state := stateFrom(req.Context()); state != nil {
		state.attempt = attempt
	}

	c.authorize(req)

	if c.debug {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method":               req.Method,
			"url":                  req.URL.String(),
			"attempt":              attempt,
			logging.FieldRequestID: req.Header.Get(constants.HeaderRequestID),
		})
	}
}

func (c *Client) afterAttempt(_ retryablehttp.Logger, resp *http.Response) {
	if !c.debug {
		return
	}

	fields := map[string]interface{}{"status": resp.StatusCode}
	if resp.Request != nil {
		fields[logging.FieldRequestID] = resp.Request.Header.Get(constants.HeaderRequestID)
	}

	c.logger.Debug("HTTP Response", fields)
}

func (c *Client) checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return false, ctxErr
	}

	status := statusTransportFailure
	if err == nil && resp != nil {
		status = resp.StatusCode
	}

	attempt := 0

	state := stateFrom(ctx)
	if state != nil {
		attempt = state.attempt
	}

	if !ShouldRetry(status, attempt, c.maxRetries) {
		return false, nil
	}

	delay := c.backoff(c.baseDelay, c.maxDelay, attempt, resp)
	fields := map[string]interface{}{
		"retry":    attempt + 1,
		"status":   status,
		"delay":    delay,
		"delay_ms": delay.Milliseconds(),
	}

	if state != nil {
		fields[logging.FieldRequestID] = state.requestID
	}

	if err != nil {
		fields["error"] = err.Error()
	}

	c.logger.Warn("Retrying request", fields)

	return true, nil
}

// finish reads the final response and turns a failure status into an error.
func (c *Client) finish(resp *http.Response, requestID string) (*Response, error) {
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.networkError(requestID, fmt.Errorf("reading response body: %w", err))
	}

	response := &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       data,
		RequestID:  requestID,
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		c.invalidateSession(requestID)

		return response, &console.APIError{
			Kind:       console.ErrorKindUnauthorized,
			StatusCode: resp.StatusCode,
			Message:    constants.MsgUnauthorized,
			Body:       data,
		}
	case !isSuccess(resp.StatusCode):
		return response, &console.APIError{
			Kind:       ClassifyStatus(resp.StatusCode),
			StatusCode: resp.StatusCode,
			Message:    console.ErrorMessage(resp.StatusCode, data),
			Body:       data,
		}
	case len(bytes.TrimSpace(data)) > 0 && !json.Valid(data):
		return response, &console.APIError{
			Kind:       console.ErrorKindParseError,
			StatusCode: resp.StatusCode,
			Message:    "response body is not valid JSON",
			Body:       data,
		}
	}

	return response, nil
}

// invalidateSession clears the stored token and emits once.
func (c *Client) invalidateSession(requestID string) {
	fields := map[string]interface{}{logging.FieldRequestID: requestID}

	if c.store != nil {
		err := c.store.Clear()
		if err != nil {
			fields["clear_error"] = err.Error()
		}
	}

	c.logger.Warn("Session invalidated", fields)

	if c.signals != nil {
		c.signals.Emit()
	}
}

func (c *Client) networkError(requestID string, err error) *console.APIError {
	c.logger.Error("Request failed", map[string]interface{}{
		"error":                err.Error(),
		logging.FieldRequestID: requestID,
	})

	return &console.APIError{
		Kind:    console.ErrorKindNetworkError,
		Message: fmt.Sprintf("network error: %v", err),
		Err:     err,
	}
}
