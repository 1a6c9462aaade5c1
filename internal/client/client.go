// Package client talks to the EduPath API. It owns the outbound-request
// default: base URL, bearer credential and request ids.
package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"edupath/internal/models"
	"edupath/internal/utils"
)

const apiPrefix = "/api"

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *Metrics

	mu             sync.RWMutex
	token          models.Credential
	onUnauthorized func(models.Credential)
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithRootCAs verifies the server against pool. A nil pool keeps the system
// roots.
func WithRootCAs(pool *x509.CertPool) Option {
	return func(c *Client) {
		if pool == nil {
			return
		}
		tr := http.DefaultTransport.(*http.Transport).Clone()
		tr.TLSClientConfig = &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12}
		c.httpClient.Transport = tr
	}
}

// New creates a client for baseURL, e.g. "http://localhost:8001". The /api
// prefix is added here.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/") + apiPrefix,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root including the /api prefix.
func (c *Client) BaseURL() string { return c.baseURL }

// SetToken replaces the bearer attached to every default request. An empty
// credential detaches it.
func (c *Client) SetToken(cred models.Credential) {
	c.mu.Lock()
	c.token = cred
	c.mu.Unlock()
}

// Token returns the currently attached bearer.
func (c *Client) Token() models.Credential {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// OnUnauthorized registers fn to run when a request carrying the attached
// bearer is answered with 401 and that bearer is still attached.
func (c *Client) OnUnauthorized(fn func(models.Credential)) {
	c.mu.Lock()
	c.onUnauthorized = fn
	c.mu.Unlock()
}

type call struct {
	method   string
	path     string
	endpoint string
	query    url.Values
	payload  any
	result   any
	// explicit overrides the attached bearer; used by verification.
	explicit *models.Credential
}

func (c *Client) get(ctx context.Context, path string, query url.Values, result any) error {
	return c.do(ctx, call{method: http.MethodGet, path: path, endpoint: path, query: query, result: result})
}

func (c *Client) post(ctx context.Context, path string, payload, result any) error {
	return c.do(ctx, call{method: http.MethodPost, path: path, endpoint: path, payload: payload, result: result})
}

func (c *Client) put(ctx context.Context, path string, payload, result any) error {
	return c.do(ctx, call{method: http.MethodPut, path: path, endpoint: path, payload: payload, result: result})
}

func (c *Client) do(ctx context.Context, r call) (err error) {
	start := time.Now()
	defer func() { c.metrics.observe(r.endpoint, outcome(err), time.Since(start)) }()

	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.payload != nil {
		b, err := json.Marshal(r.payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	bearer := c.Token()
	if r.explicit != nil {
		bearer = *r.explicit
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer.Value())
	}

	c.logger.Debug("EduPath API request",
		zap.String("method", r.method),
		zap.String("path", r.path),
		zap.String("request_id", reqID),
		zap.Bool("authenticated", bearer != ""))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("EduPath API unreachable", zap.String("path", r.path), zap.Error(err))
		return fmt.Errorf("%w: %v", utils.ErrNetworkOrServer, err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", utils.ErrNetworkOrServer, err)
	}

	if resp.StatusCode >= 400 {
		apiErr := parseError(resp.StatusCode, bodyBytes)
		c.logger.Info("EduPath API error",
			zap.String("path", r.path),
			zap.String("request_id", reqID),
			zap.Int("status", resp.StatusCode),
			zap.String("detail", apiErr.Message))
		if resp.StatusCode == http.StatusUnauthorized && r.explicit == nil && bearer != "" {
			c.unauthorized(bearer)
		}
		return apiErr
	}

	if r.result != nil && len(bodyBytes) > 0 {
		if err := json.Unmarshal(bodyBytes, r.result); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", utils.ErrNetworkOrServer, err)
		}
	}
	return nil
}

// unauthorized fires the hook only when the rejected bearer is still the
// attached one; a 401 for a credential that was already replaced is stale.
func (c *Client) unauthorized(rejected models.Credential) {
	c.mu.RLock()
	current, fn := c.token, c.onUnauthorized
	c.mu.RUnlock()
	if fn == nil || current != rejected {
		return
	}
	fn(rejected)
}

type detailItem struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

// parseError maps a non-2xx answer onto the error taxonomy. The body is
// {"detail": "..."} or {"detail": [{"loc": [...], "msg": "..."}]}.
func parseError(status int, body []byte) *utils.RemoteError {
	e := &utils.RemoteError{Status: status}
	switch {
	case status >= 500:
		e.Kind = utils.ErrNetworkOrServer
	case status == http.StatusUnauthorized:
		e.Kind = utils.ErrUnauthorized
	case status == http.StatusForbidden:
		e.Kind = utils.ErrForbidden
	default:
		e.Kind = utils.ErrRejected
	}

	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		e.Message = strings.TrimSpace(string(body))
		e.Message = truncate(e.Message, 200)
		return e
	}

	var msg string
	if err := json.Unmarshal(envelope.Detail, &msg); err == nil {
		e.Message = msg
		return e
	}
	var items []detailItem
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			e.Fields = append(e.Fields, utils.FieldError{Field: locField(it.Loc), Rule: "remote", Message: it.Msg})
			msgs = append(msgs, it.Msg)
		}
		e.Message = strings.Join(msgs, "; ")
	}
	return e
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func locField(loc []any) string {
	for i := len(loc) - 1; i >= 0; i-- {
		if s, ok := loc[i].(string); ok && s != "body" {
			return s
		}
	}
	return "form"
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, utils.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, utils.ErrForbidden):
		return "forbidden"
	case errors.Is(err, utils.ErrRejected):
		return "rejected"
	default:
		return "error"
	}
}
