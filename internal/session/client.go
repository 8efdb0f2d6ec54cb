package session

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

	"go.uber.org/zap"
)

const DefaultRefreshPath = "/auth/refresh"

type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   []byte

	retried bool
}

// NewJSONRequest buffers body as JSON so the request can be replayed.
func NewJSONRequest(method, path string, body any) (*Request, error) {
	req := &Request{Method: strings.ToUpper(method), Path: path}
	if body == nil {
		return req, nil
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal %s %s payload: %w", req.Method, path, err)
	}
	req.Body = payload
	return req, nil
}

// Retried reports whether the last Do replayed the request after a refresh.
func (r *Request) Retried() bool { return r.retried }

func (r *Request) mutating() bool {
	switch strings.ToUpper(r.Method) {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (r *Response) DecodeJSON(v any) error {
	if len(bytes.TrimSpace(r.Body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Client sends API requests with cookie credentials. A 401 on a fresh
// request triggers one refresh and one replay; concurrent 401s never start a
// second refresh.
type Client struct {
	BaseURL     *url.URL
	HTTPClient  *http.Client
	Tokens      TokenSource
	State       *RefreshState
	RefreshPath string
	Logger      *zap.Logger

	// OnUnauthenticated runs after a failed refresh, before the error is
	// returned.
	OnUnauthenticated func(error)

	stateOnce sync.Once
}

func NewClient(baseURL *url.URL, httpClient *http.Client, tokens TokenSource) *Client {
	return &Client{
		BaseURL:     baseURL,
		HTTPClient:  httpClient,
		Tokens:      tokens,
		State:       &RefreshState{},
		RefreshPath: DefaultRefreshPath,
	}
}

// Do sends req. A 401 triggers at most one refresh and one replay per call,
// so a Request may be reused across calls.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	req.retried = false
	resp, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return checkStatus(req, resp)
	}

	state := c.state()
	if !state.TryAcquire() {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, ErrRefreshInFlight)
	}
	defer state.Release()

	log := c.logger()
	log.Debug("access expired, refreshing session", zap.String("method", req.Method), zap.String("path", req.Path))
	if err := c.refresh(ctx); err != nil {
		log.Warn("session refresh failed", zap.Error(err))
		if c.OnUnauthenticated != nil {
			c.OnUnauthenticated(err)
		}
		return nil, err
	}

	req.retried = true
	resp, err = c.send(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, ErrAuthExpired)
	}
	return checkStatus(req, resp)
}

// DoJSON sends req and decodes a successful body into out when out is non-nil.
func (c *Client) DoJSON(ctx context.Context, req *Request, out any) error {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := resp.DecodeJSON(out); err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}
	return nil
}

func (c *Client) refresh(ctx context.Context) error {
	path := c.RefreshPath
	if path == "" {
		path = DefaultRefreshPath
	}
	resp, err := c.send(ctx, &Request{Method: http.MethodPost, Path: path})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", ErrRefreshFailed, resp.StatusCode)
	}
	return nil
}

func (c *Client) send(ctx context.Context, req *Request) (*Response, error) {
	if c.BaseURL == nil {
		return nil, fmt.Errorf("api base url is not configured")
	}
	target := c.BaseURL.JoinPath(req.Path)
	if len(req.Query) > 0 {
		target.RawQuery = req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("create %s %s request: %w", req.Method, req.Path, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.mutating() && c.Tokens != nil {
		if token, ok := c.Tokens.CSRFToken(); ok {
			httpReq.Header.Set(CSRFHeader, token)
		}
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w: %w", req.Method, req.Path, ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s %s response: %w: %w", req.Method, req.Path, ErrNetworkFailure, err)
	}
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: payload}, nil
}

func (c *Client) state() *RefreshState {
	c.stateOnce.Do(func() {
		if c.State == nil {
			c.State = &RefreshState{}
		}
	})
	return c.State
}

func (c *Client) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

func checkStatus(req *Request, resp *Response) (*Response, error) {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	statusErr := &StatusError{Method: req.Method, Path: req.Path, StatusCode: resp.StatusCode, Body: resp.Body}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %w", ErrNotFound, statusErr)
	}
	return nil, statusErr
}
