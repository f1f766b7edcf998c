package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/nf-forge/towerctl/internal/pkg/helper"
	"github.com/nf-forge/towerctl/internal/pkg/version"
)

const (
	// DefaultAddress is the API endpoint of the hosted Tower service.
	DefaultAddress = "https://api.tower.nf"

	headerRequestID = "X-Request-Id"
)

type Config struct {
	Address string
	Token   string

	// Timeout bounds a single HTTP round trip, including reading the body.
	Timeout time.Duration

	// RateLimit and RateBurst throttle the requests issued by a single
	// client. A zero RateLimit disables throttling.
	RateLimit rate.Limit
	RateBurst int

	Logger *zap.Logger

	// HTTPClient overrides the client used to perform requests. Mostly
	// useful for tests.
	HTTPClient *http.Client
}

func DefaultConfig() *Config {
	return &Config{
		Address:   DefaultAddress,
		Timeout:   30 * time.Second,
		RateLimit: 10,
		RateBurst: 5,
		Logger:    zap.NewNop(),
	}
}

type Client struct {
	config     *Config
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

func NewClient(cfg *Config) *Client {

	defaultCfg := DefaultConfig()

	if cfg.Address == "" {
		cfg.Address = defaultCfg.Address
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultCfg.Timeout
	}
	if cfg.Logger == nil {
		cfg.Logger = defaultCfg.Logger
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(cfg.RateLimit, burst)
	}

	return &Client{
		config:     cfg,
		httpClient: httpClient,
		limiter:    limiter,
		logger:     cfg.Logger,
	}
}

// Address returns the API endpoint the client sends requests to.
func (c *Client) Address() string { return c.config.Address }

// Response wraps the HTTP response of an API call, so callers can inspect
// headers and status alongside the decoded object.
type Response struct {
	*http.Response
	RequestID string
}

type RequestOpt func(*http.Request)

// WithWorkspace scopes the request to the workspace. The zero ID is the
// caller's personal workspace and is not sent.
func WithWorkspace(id int64) RequestOpt {
	return func(r *http.Request) {
		if id == 0 {
			return
		}
		q := r.URL.Query()
		q.Set("workspaceId", strconv.FormatInt(id, 10))
		r.URL.RawQuery = q.Encode()
	}
}

// WithQuery sets a query parameter when value is not empty.
func WithQuery(key, value string) RequestOpt {
	return func(r *http.Request) {
		if value == "" {
			return
		}
		q := r.URL.Query()
		q.Set(key, value)
		r.URL.RawQuery = q.Encode()
	}
}

// WithPagination sets the max and offset query parameters when they are
// positive.
func WithPagination(max, offset int) RequestOpt {
	return func(r *http.Request) {
		q := r.URL.Query()
		if max > 0 {
			q.Set("max", strconv.Itoa(max))
		}
		if offset > 0 {
			q.Set("offset", strconv.Itoa(offset))
		}
		r.URL.RawQuery = q.Encode()
	}
}

func (c *Client) NewRequest(method, path string, body any, opts ...RequestOpt) (*http.Request, error) {

	u, err := url.Parse(strings.TrimSuffix(c.config.Address, "/") + path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse request URL: %w", err)
	}

	var buf io.Reader

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		buf = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, u.String(), buf)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	req.Header.Set(headerRequestID, ulid.Make().String())

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}

	for _, opt := range opts {
		opt(req)
	}

	return req, nil
}

// Do performs the request and decodes a successful JSON response into out,
// which may be nil when the caller does not need the body. Responses with a
// status code of 400 or above are returned as a *ResponseError.
func (c *Client) Do(ctx context.Context, req *http.Request, out any) (*Response, error) {

	resp, err := c.bareDo(ctx, req)
	if err != nil {
		return resp, err
	}
	defer helper.IgnoreError(resp.Body.Close)

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return resp, nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return resp, fmt.Errorf("failed to decode response body: %w", err)
	}

	return resp, nil
}

// bareDo performs the request and handles error responses, but leaves the
// body open for the caller.
func (c *Client) bareDo(ctx context.Context, req *http.Request) (*Response, error) {

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req = req.WithContext(ctx)
	reqID := req.Header.Get(headerRequestID)
	startTime := time.Now()

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("failed to perform API request",
			zap.String("request_id", reqID),
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Error(err))
		return nil, err
	}

	c.logger.Debug("performed API request",
		zap.String("request_id", reqID),
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", httpResp.StatusCode),
		zap.Duration("latency", time.Since(startTime)))

	resp := &Response{Response: httpResp, RequestID: reqID}

	if httpResp.StatusCode >= http.StatusBadRequest {
		defer helper.IgnoreError(httpResp.Body.Close)
		return resp, newResponseError(httpResp)
	}

	return resp, nil
}

type ResponseError struct {
	ErrorBody `json:"error"`
}

type ErrorBody struct {
	Msg  string `json:"message"`
	Code int    `json:"code"`
}

func newResponseError(resp *http.Response) *ResponseError {

	respErr := ResponseError{
		ErrorBody: ErrorBody{Code: resp.StatusCode},
	}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	var body struct {
		Message string `json:"message"`
	}

	if err := json.Unmarshal(data, &body); err == nil && body.Message != "" {
		respErr.Msg = body.Message
	} else if trimmed := strings.TrimSpace(string(data)); trimmed != "" {
		respErr.Msg = trimmed
	} else {
		respErr.Msg = http.StatusText(resp.StatusCode)
	}

	return &respErr
}

func (e *ResponseError) StatusCode() int { return e.Code }

func (e *ResponseError) Error() string { return e.Msg }

func (e *ResponseError) String() string { return e.Msg }

// IsNotFound reports whether err is an API response with a 404 status.
func IsNotFound(err error) bool { return hasStatus(err, http.StatusNotFound) }

// IsForbidden reports whether err is an API response with a 403 status.
func IsForbidden(err error) bool { return hasStatus(err, http.StatusForbidden) }

func hasStatus(err error, code int) bool {
	var respErr *ResponseError
	if errors.As(err, &respErr) {
		return respErr.Code == code
	}
	return false
}
