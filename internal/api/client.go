package api

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
)

const dialTimeout = 5 * time.Second

// Client talks to the journeys REST API.
type Client struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// NewClient creates a Client. A nil observer discards call events.
func NewClient(cfg Config, observer Observer) *Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		cfg:      cfg,
		http:     &http.Client{Transport: newTransport()},
		observer: observer,
	}
}

// newTransport keeps the default proxy, TLS and idle-connection settings
// and bounds connection setup.
func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.DialContext = (&net.Dialer{
		Timeout:   dialTimeout,
		KeepAlive: 30 * time.Second,
	}).DialContext
	return t
}

// envelope is the common response body of every endpoint.
type envelope struct {
	Success  bool            `json:"success"`
	Message  string          `json:"message"`
	Error    string          `json:"error"`
	Detail   json.RawMessage `json:"detail"`
	Journey  *wireJourney    `json:"journey"`
	Journeys []wireJourney   `json:"journeys"`
	Data     json.RawMessage `json:"data"`
}

// serverMessage picks the most specific human-readable message.
func (e envelope) serverMessage() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Error != "" {
		return e.Error
	}
	if len(e.Detail) == 0 || bytes.Equal(e.Detail, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(e.Detail, &s); err == nil {
		return s
	}
	return string(e.Detail)
}

type request struct {
	op     string
	method string
	path   string
	query  url.Values
	body   any
}

// do performs one round trip under the configured deadline and decodes the
// envelope. Non-2xx responses become *HTTPError; success=false becomes
// ErrRejected.
func (c *Client) do(ctx context.Context, req request) (*envelope, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout())
	defer cancel()

	env, status, err := c.roundTrip(ctx, req)
	if err != nil && ctx.Err() != nil && !errors.Is(err, ErrRejected) {
		err = fmt.Errorf("%s: %w", req.op, ErrTimeout)
	}

	c.observer.OnCallComplete(CallEvent{
		Op:        req.op,
		Method:    req.method,
		Path:      req.path,
		Status:    status,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
		ErrorCode: errorCode(err),
	})
	return env, err
}

func (c *Client) roundTrip(ctx context.Context, req request) (*envelope, int, error) {
	var body io.Reader
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return nil, 0, fmt.Errorf("marshaling %s request: %w", req.op, err)
		}
		body = bytes.NewReader(data)
	}

	target := c.cfg.BaseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return nil, 0, fmt.Errorf("creating %s request: %w", req.op, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		if isConnectionError(err) {
			return nil, 0, fmt.Errorf("%s: %w", req.op, ErrUnavailable)
		}
		return nil, 0, fmt.Errorf("%s: %w", req.op, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, httpResp.StatusCode, fmt.Errorf("reading %s response: %w", req.op, err)
	}

	var env envelope
	decodeErr := json.Unmarshal(respBody, &env)

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		httpErr := &HTTPError{
			Op:         req.op,
			StatusCode: httpResp.StatusCode,
			Status:     http.StatusText(httpResp.StatusCode),
		}
		if decodeErr == nil {
			httpErr.Message = env.serverMessage()
		}
		return nil, httpResp.StatusCode, httpErr
	}
	if decodeErr != nil {
		return nil, httpResp.StatusCode, fmt.Errorf("decoding %s response: %w", req.op, decodeErr)
	}
	if !env.Success {
		return nil, httpResp.StatusCode, rejection(req.op, env.serverMessage())
	}
	return &env, httpResp.StatusCode, nil
}

// decodeData unmarshals env.data into out.
func decodeData(op string, env *envelope, out any) error {
	if len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		return rejection(op, op+" returned no data")
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decoding %s data: %w", op, err)
	}
	return nil
}
