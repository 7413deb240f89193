package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/pestcrm/internal/common"
	"github.com/dmitrijs2005/pestcrm/internal/logging"
	"github.com/google/uuid"
)

const defaultTimeout = 15 * time.Second

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// Options configures an HTTPClient. Zero values fall back to defaults.
type Options struct {
	HTTPClient *http.Client
	Timeout    time.Duration
	APIKey     string
	AppVersion string
	Logger     logging.Logger
}

// HTTPClient talks JSON to the CRM REST backend. It carries the static
// API-tier headers on every request and, once set, the bearer token.
// It is safe for concurrent use.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	apiKey     string
	appVersion string
	logger     logging.Logger

	mu    sync.RWMutex
	token string

	subsMu sync.Mutex
	subs   map[int]func()
	nextID int
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(baseURL string, opts Options) (*HTTPClient, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("base url is empty")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}
	if !strings.HasSuffix(parsed.Path, "/") {
		parsed.Path += "/"
	}

	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	return &HTTPClient{
		baseURL:    parsed,
		httpClient: hc,
		apiKey:     opts.APIKey,
		appVersion: opts.AppVersion,
		logger:     logger.With("component", "http"),
		subs:       make(map[int]func()),
	}, nil
}

func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *HTTPClient) ClearToken() {
	c.SetToken("")
}

func (c *HTTPClient) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// OnSessionExpired registers fn to run whenever a request (other than one
// sent with IgnoreExpiry) comes back 401. fn runs on the requesting
// goroutine before Do returns.
func (c *HTTPClient) OnSessionExpired(fn func()) func() {
	c.subsMu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	c.subsMu.Unlock()

	return func() {
		c.subsMu.Lock()
		delete(c.subs, id)
		c.subsMu.Unlock()
	}
}

func (c *HTTPClient) notifyExpired() {
	c.subsMu.Lock()
	fns := make([]func(), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.subsMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func (c *HTTPClient) resolve(path string, query map[string]string) (string, error) {
	rel, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return "", err
	}
	full := c.baseURL.ResolveReference(rel)
	if len(query) > 0 {
		q := full.Query()
		for k, v := range query {
			q.Set(k, v)
		}
		full.RawQuery = q.Encode()
	}
	return full.String(), nil
}

func (c *HTTPClient) Do(ctx context.Context, method, path string, in, out any, opts ...RequestOption) error {
	var o requestOptions
	for _, opt := range opts {
		opt(&o)
	}
	op := o.operationLabel
	if op == "" {
		op = method + " " + path
	}

	target, err := c.resolve(path, o.query)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	var body io.Reader
	if in != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(in); err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(common.APIKeyHeaderName, c.apiKey)
	req.Header.Set(common.AppVersionHeaderName, c.appVersion)
	req.Header.Set(common.RequestIDHeaderName, requestID)
	if token := c.Token(); token != "" && !o.anonymous {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug(ctx, "request failed", "op", op, "request_id", requestID, "error", err)
		return err
	}
	defer resp.Body.Close()

	c.logger.Debug(ctx, "request done",
		"op", op, "request_id", requestID, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Op: op, Status: resp.StatusCode, Message: readErrorMessage(resp.Body)}
		if resp.StatusCode == http.StatusUnauthorized && !o.ignoreExpiry {
			c.logger.Info(ctx, "session expired", "op", op, "request_id", requestID)
			c.notifyExpired()
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

// readErrorMessage pulls "message" (or "error") out of a JSON error body.
func readErrorMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(data) == 0 {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}
