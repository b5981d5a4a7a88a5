// Package upstream is the HTTP client for the food-delivery backend REST
// API. It owns bearer-token attachment, the single-shot refresh-and-retry
// on 401, idempotency-key propagation, and the normalizing decoders for
// the backend's inconsistent list envelopes.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/DarshanKumarGP/MEAL-MATE/internal/logging"
	"github.com/DarshanKumarGP/MEAL-MATE/internal/usecase"
)

const headerIdempotencyKey = "X-Idempotency-Key"

type Config struct {
	BaseURL string
	Timeout time.Duration
}

// SaveAccessFunc persists a refreshed access token for a session.
type SaveAccessFunc func(ctx context.Context, sessionID, access string) error

type Client struct {
	base string
	hc   *http.Client
	save SaveAccessFunc
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// WithAccessSaver wires the hook that persists refreshed access tokens
// back into the session store.
func WithAccessSaver(fn SaveAccessFunc) Option {
	return func(c *Client) { c.save = fn }
}

func New(cfg Config, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &Client{
		base: strings.TrimRight(cfg.BaseURL, "/"),
		hc:   &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type call struct {
	method  string
	path    string
	query   url.Values
	body    any
	idemKey string
}

// do runs one upstream call. On 401 with a refresh token in hand it
// refreshes once, persists the new access token, and retries the original
// request; a second 401 is returned as-is.
func (c *Client) do(ctx context.Context, cr usecase.Credentials, req call, out any) error {
	data, err := c.roundTrip(ctx, cr.Access, req)
	var ue *usecase.UpstreamError
	if errors.As(err, &ue) && ue.Status == http.StatusUnauthorized && cr.Refresh != "" {
		access, rerr := c.refresh(ctx, cr.Refresh)
		if rerr != nil {
			logging.FromCtx(ctx).Warn("token refresh failed", "error", rerr)
			return err
		}
		if c.save != nil {
			if serr := c.save(ctx, cr.SessionID, access); serr != nil {
				logging.FromCtx(ctx).Warn("refreshed token not persisted", "error", serr)
			}
		}
		data, err = c.roundTrip(ctx, access, req)
	}
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
	}
	return nil
}

// doList is do for list endpoints, tolerating the backend's three
// envelope shapes and nothing else.
func doList[T any](ctx context.Context, c *Client, cr usecase.Credentials, req call) ([]T, error) {
	var raw json.RawMessage
	if err := c.do(ctx, cr, req, &raw); err != nil {
		return nil, err
	}
	return decodeList[T](raw)
}

func (c *Client) roundTrip(ctx context.Context, access string, req call) ([]byte, error) {
	u := c.base + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}

	var rd io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		rd = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, rd)
	if err != nil {
		return nil, err
	}
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")
	if access != "" {
		httpReq.Header.Set("Authorization", "Bearer "+access)
	}
	if req.idemKey != "" {
		httpReq.Header.Set(headerIdempotencyKey, req.idemKey)
	}

	resp, err := c.hc.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("upstream request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read upstream response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &usecase.UpstreamError{Status: resp.StatusCode, Message: errorMessage(data)}
	}
	return data, nil
}

// errorMessage prefers the backend's error/detail field over a generic
// string.
func errorMessage(data []byte) string {
	var e struct {
		Error   string `json:"error"`
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &e); err == nil {
		for _, m := range []string{e.Error, e.Detail, e.Message} {
			if m != "" {
				return m
			}
		}
	}
	return "request failed"
}

func (c *Client) refresh(ctx context.Context, refreshToken string) (string, error) {
	data, err := c.roundTrip(ctx, "", call{
		method: http.MethodPost,
		path:   "/auth/token/refresh/",
		body:   map[string]string{"refresh": refreshToken},
	})
	if err != nil {
		return "", err
	}
	var resp struct {
		Access string `json:"access"`
	}
	if err := json.Unmarshal(data, &resp); err != nil || resp.Access == "" {
		return "", fmt.Errorf("%w: refresh response", ErrUnexpectedShape)
	}
	return resp.Access, nil
}
