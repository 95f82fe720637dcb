// Package client is a small HTTP client for the todo API.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/fastygo/todo/api/transport"
	"github.com/fastygo/todo/domain"
)

const defaultTimeout = 5 * time.Second

// APIError is returned for every non-2xx response.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("todo api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("todo api: status %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == fasthttp.StatusNotFound
}

type Client struct {
	baseURL string
	timeout time.Duration
	http    *fasthttp.Client
}

type Option func(*Client)

// WithTimeout bounds calls whose context carries no earlier deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying fasthttp client.
func WithHTTPClient(hc *fasthttp.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// New returns a client for the API rooted at baseURL, e.g. http://localhost:5000/api.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: defaultTimeout,
		http: &fasthttp.Client{
			Name: "todo-console",
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) List(ctx context.Context) ([]domain.Task, error) {
	var tasks []domain.Task
	if err := c.do(ctx, fasthttp.MethodGet, "/todos", nil, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}

func (c *Client) Get(ctx context.Context, id string) (*domain.Task, error) {
	var task domain.Task
	if err := c.do(ctx, fasthttp.MethodGet, taskPath(id), nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) Create(ctx context.Context, text string) (*domain.Task, error) {
	var task domain.Task
	if err := c.do(ctx, fasthttp.MethodPost, "/todos", transport.CreateTaskRequest{Task: text}, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Update sends only the fields set on patch.
func (c *Client) Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	var task domain.Task
	if err := c.do(ctx, fasthttp.MethodPatch, taskPath(id), patch, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Toggle flips the completion flag of task as the caller last saw it.
func (c *Client) Toggle(ctx context.Context, task domain.Task) (*domain.Task, error) {
	return c.Update(ctx, task.ID, domain.CompletedPatch(!task.Completed))
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, fasthttp.MethodDelete, taskPath(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(method)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		req.Header.SetContentType("application/json")
		req.SetBody(payload)
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	status := resp.StatusCode()
	if status < fasthttp.StatusOK || status >= fasthttp.StatusMultipleChoices {
		return decodeError(status, resp.Body())
	}
	if out == nil || status == fasthttp.StatusNoContent {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeError(status int, body []byte) error {
	apiErr := &APIError{StatusCode: status}
	var env transport.Envelope
	if err := json.Unmarshal(body, &env); err == nil {
		apiErr.Code = env.Code
		apiErr.Message = env.Message()
	}
	if apiErr.Message == "" {
		apiErr.Message = fasthttp.StatusMessage(status)
	}
	return apiErr
}

func taskPath(id string) string {
	return "/todos/" + url.PathEscape(id)
}
