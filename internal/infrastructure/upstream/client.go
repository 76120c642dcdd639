// Package upstream holds the HTTP clients for the user, order and admin
// services.
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

	"github.com/rs/zerolog"

	"github.com/pear651530/Meal-Provider/internal/api/metrics"
	"github.com/pear651530/Meal-Provider/internal/core/domain"
)

// StatusError is a non-2xx answer from a backend service. It unwraps to the
// domain error matching the status code.
type StatusError struct {
	Service string
	Method  string
	Path    string
	Status  int
	Detail  string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s %s: status %d", e.Service, e.Method, e.Path, e.Status)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *StatusError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusNotFound:
		return domain.ErrNotFound
	}
	return domain.ErrUpstreamStatus
}

// HasStatus reports whether err is a StatusError with the given code.
func HasStatus(err error, status int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == status
}

// client is the shared transport of the service clients.
type client struct {
	service string
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

func newClient(service, baseURL string, timeout time.Duration, log zerolog.Logger) *client {
	return &client{
		service: service,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log.With().Str("upstream", service).Logger(),
	}
}

// request describes one call. Body is sent as-is with ContentType.
type request struct {
	method      string
	path        string
	query       url.Values
	token       string
	header      http.Header
	body        io.Reader
	contentType string
}

// send performs req and returns the response when the status is 2xx. The
// caller closes the body.
func (c *client) send(ctx context.Context, req request) (*http.Response, error) {
	target := c.baseURL + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, req.body)
	if err != nil {
		return nil, fmt.Errorf("%s %s %s: build request: %w", c.service, req.method, req.path, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	if req.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.token)
	}
	for k, vs := range req.header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	metrics.UpstreamRequestDuration.WithLabelValues(c.service).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(c.service, "unavailable").Inc()
		return nil, fmt.Errorf("%s %s %s: %w: %v", c.service, req.method, req.path, domain.ErrUpstreamUnavailable, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		metrics.UpstreamRequestsTotal.WithLabelValues(c.service, "ok").Inc()
		return resp, nil
	}
	defer resp.Body.Close()

	outcome := "client_error"
	if resp.StatusCode >= 500 {
		outcome = "server_error"
	}
	metrics.UpstreamRequestsTotal.WithLabelValues(c.service, outcome).Inc()

	se := &StatusError{
		Service: c.service,
		Method:  req.method,
		Path:    req.path,
		Status:  resp.StatusCode,
		Detail:  readDetail(resp.Body),
	}
	c.log.Debug().Int("status", se.Status).Str("path", req.path).Str("detail", se.Detail).Msg("upstream returned an error status")
	return nil, se
}

// doJSON sends in as a JSON body (when non-nil) and decodes the response into
// out (when non-nil).
func (c *client) doJSON(ctx context.Context, method, path string, query url.Values, token string, in, out any) error {
	req := request{method: method, path: path, query: query, token: token}
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s %s %s: encode body: %w", c.service, method, path, err)
		}
		req.body = bytes.NewReader(payload)
		req.contentType = "application/json"
	}

	resp, err := c.send(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s %s: decode response: %w", c.service, method, path, err)
	}
	return nil
}

// ping reports whether the service answers at all. Any HTTP status counts as
// reachable.
func (c *client) ping(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/docs", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s: %w: %v", c.service, domain.ErrUpstreamUnavailable, err)
	}
	resp.Body.Close()
	return nil
}

// readDetail extracts the "detail" message the backends put in error bodies.
func readDetail(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4<<10))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if json.Unmarshal(raw, &envelope) == nil && len(envelope.Detail) > 0 {
		var s string
		if json.Unmarshal(envelope.Detail, &s) == nil {
			return s
		}
		return string(envelope.Detail)
	}
	return strings.TrimSpace(string(raw))
}

func idPath(format string, id int64) string {
	return fmt.Sprintf(format, id)
}

func decode(resp *http.Response, out any) error {
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
