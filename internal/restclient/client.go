// Package restclient implements event.Repository against the eventide REST
// server, so the CLI and TUI can run over a remote store.
package restclient

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

	"github.com/javiermolinar/eventide/internal/event"
	"github.com/javiermolinar/eventide/internal/llm"
)

const defaultTimeout = 30 * time.Second

// Client talks to an eventide server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ event.Repository = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid server url %q", baseURL)
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// StatusError is a non-2xx reply the client has no sentinel for.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

type messageBody struct {
	Message string `json:"message"`
}

type scheduleBody struct {
	Schedule []*event.Event `json:"schedule"`
	Message  string         `json:"message"`
}

type createBody struct {
	ID int64 `json:"id"`
}

// ListByDate returns all events occurring on date.
func (c *Client) ListByDate(ctx context.Context, date string) ([]*event.Event, error) {
	return c.list(ctx, "/schedule?"+url.Values{"date": {date}}.Encode())
}

// ListByRange returns all events touching the inclusive date range.
func (c *Client) ListByRange(ctx context.Context, from, to string) ([]*event.Event, error) {
	return c.list(ctx, "/schedule/range?"+url.Values{"start": {from}, "end": {to}}.Encode())
}

// ListAll returns every stored event.
func (c *Client) ListAll(ctx context.Context) ([]*event.Event, error) {
	return c.list(ctx, "/schedule")
}

func (c *Client) list(ctx context.Context, path string) ([]*event.Event, error) {
	var body scheduleBody
	if err := c.do(ctx, http.MethodGet, path, nil, &body); err != nil {
		return nil, err
	}
	return body.Schedule, nil
}

// Get retrieves an event by ID.
func (c *Client) Get(ctx context.Context, id int64) (*event.Event, error) {
	var e event.Event
	if err := c.do(ctx, http.MethodGet, "/schedule/"+strconv.FormatInt(id, 10), nil, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Create stores a new event and sets its ID.
func (c *Client) Create(ctx context.Context, e *event.Event) error {
	if err := e.Normalize(); err != nil {
		return err
	}
	var body createBody
	if err := c.do(ctx, http.MethodPost, "/create_schedule", e, &body); err != nil {
		return err
	}
	e.ID = body.ID
	return nil
}

// Update replaces the stored fields of e.ID.
func (c *Client) Update(ctx context.Context, e *event.Event) error {
	if err := e.Normalize(); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPatch, "/update_schedule/"+strconv.FormatInt(e.ID, 10), e, nil)
}

// Delete removes an event.
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/delete_schedule/"+strconv.FormatInt(id, 10), nil, nil)
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// Optimize asks the server's optimizer for an improved schedule.
func (c *Client) Optimize(ctx context.Context, events []*event.Event, mask event.Mask) (*llm.OptimizeResult, error) {
	req := struct {
		Schedule             []*event.Event `json:"schedule"`
		AllowedModifications []string       `json:"allowed_modifications"`
	}{events, mask.Names()}

	var body scheduleBody
	err := c.do(ctx, http.MethodPost, "/optimize_schedule", req, &body)
	var se *StatusError
	if errors.As(err, &se) && se.Status == http.StatusBadRequest && se.Message == llm.MessageEmpty {
		return &llm.OptimizeResult{Message: llm.MessageEmpty}, nil
	}
	if err != nil {
		return nil, err
	}
	if body.Message != "" {
		return &llm.OptimizeResult{Message: body.Message}, nil
	}
	return &llm.OptimizeResult{Schedule: body.Schedule}, nil
}

// Summarize asks the server for a one-line summary of events.
func (c *Client) Summarize(ctx context.Context, events []*event.Event) (string, error) {
	req := struct {
		Schedule []*event.Event `json:"schedule"`
	}{events}

	var body struct {
		Summary string `json:"summary"`
	}
	if err := c.do(ctx, http.MethodPost, "/summarize_calendar", req, &body); err != nil {
		return "", err
	}
	return body.Summary, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var reader io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	var body messageBody
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if json.Unmarshal(raw, &body) != nil {
		body.Message = strings.TrimSpace(string(raw))
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return event.ErrEventNotFound
	case http.StatusConflict:
		return fmt.Errorf("%s: %w", body.Message, event.ErrLocked)
	}
	return &StatusError{Status: resp.StatusCode, Message: body.Message}
}
