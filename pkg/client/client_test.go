package client

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"

	apiHandler "github.com/fastygo/todo/api/handler"
	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/internal/middleware"
	"github.com/fastygo/todo/internal/router"
	"github.com/fastygo/todo/pkg/httpcontext"
	"github.com/fastygo/todo/repository/memory"
	taskUC "github.com/fastygo/todo/usecase/task"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	adapter := httpcontext.NewAdapter(time.Second)
	r := router.New(router.Handlers{
		Task: apiHandler.NewTaskHandler(taskUC.New(memory.NewTaskRepository(), nil), adapter, nil),
	}, router.Options{BasePath: "/api"})

	ln := fasthttputil.NewInmemoryListener()
	server := &fasthttp.Server{Handler: middleware.Chain(r.Handler, middleware.Recover(nil))}
	go func() {
		_ = server.Serve(ln)
	}()
	t.Cleanup(func() {
		_ = server.Shutdown()
		_ = ln.Close()
	})

	hc := &fasthttp.Client{
		Dial: func(addr string) (net.Conn, error) {
			return ln.Dial()
		},
	}
	return New("http://todo.test/api/", WithHTTPClient(hc), WithTimeout(2*time.Second))
}

func TestEndToEnd(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	created, err := c.Create(ctx, "  buy milk ")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" || created.Task != "buy milk" || created.Completed {
		t.Fatalf("unexpected created task %+v", created)
	}

	tasks, err := c.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != created.ID {
		t.Fatalf("list = %+v", tasks)
	}

	toggled, err := c.Toggle(ctx, *created)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !toggled.Completed || toggled.Task != "buy milk" {
		t.Fatalf("toggled = %+v", toggled)
	}

	renamed, err := c.Update(ctx, created.ID, domain.TextPatch("buy oat milk"))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if renamed.Task != "buy oat milk" || !renamed.Completed {
		t.Fatalf("renamed = %+v", renamed)
	}
	if !renamed.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("createdAt changed: %v -> %v", created.CreatedAt, renamed.CreatedAt)
	}

	got, err := c.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Task != "buy oat milk" {
		t.Errorf("get = %+v", got)
	}

	if err := c.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	tasks, err = c.List(ctx)
	if err != nil {
		t.Fatalf("list after delete: %v", err)
	}
	if len(tasks) != 0 {
		t.Fatalf("expected empty list, got %+v", tasks)
	}

	if err := c.Delete(ctx, created.ID); !IsNotFound(err) {
		t.Fatalf("second delete: expected not found, got %v", err)
	}
}

func TestValidationErrors(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, err := c.Create(ctx, "   ")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != fasthttp.StatusBadRequest || apiErr.Code != string(domain.ErrCodeInvalid) {
		t.Errorf("unexpected error %+v", apiErr)
	}
	if apiErr.Message != domain.ErrTaskRequired.Message {
		t.Errorf("message = %q", apiErr.Message)
	}

	_, err = c.Create(ctx, strings.Repeat("x", domain.MaxTaskLength+1))
	if !errors.As(err, &apiErr) || apiErr.Message != domain.ErrTaskTooLong.Message {
		t.Errorf("too long: got %v", err)
	}

	tasks, err := c.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("failed creates must not persist, got %+v", tasks)
	}
}

func TestUnknownID(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	if _, err := c.Get(ctx, "missing"); !IsNotFound(err) {
		t.Errorf("get: %v", err)
	}
	if _, err := c.Update(ctx, "missing", domain.CompletedPatch(true)); !IsNotFound(err) {
		t.Errorf("update: %v", err)
	}
}

func TestCanceledContext(t *testing.T) {
	c := newTestClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.List(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
