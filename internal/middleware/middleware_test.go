package middleware

import (
	"bytes"
	"testing"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newCtx(method, origin string, preflight bool) *fasthttp.RequestCtx {
	var req fasthttp.Request
	req.Header.SetMethod(method)
	req.SetRequestURI("/api/todos")
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	if preflight {
		req.Header.Set("Access-Control-Request-Method", "PATCH")
	}
	ctx := &fasthttp.RequestCtx{}
	ctx.Init(&req, nil, nil)
	return ctx
}

func okHandler(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetBodyString("ok")
}

func TestCORSAllowAll(t *testing.T) {
	h := CORS([]string{"*"})(okHandler)
	ctx := newCtx(fasthttp.MethodGet, "http://localhost:5173", false)
	h(ctx)

	if got := string(ctx.Response.Header.Peek("Access-Control-Allow-Origin")); got != "*" {
		t.Errorf("allow origin: got %q", got)
	}
	if string(ctx.Response.Body()) != "ok" {
		t.Error("expected next handler to run")
	}
}

func TestCORSAllowList(t *testing.T) {
	h := CORS([]string{"https://todo.example.com"})(okHandler)

	allowed := newCtx(fasthttp.MethodGet, "https://todo.example.com", false)
	h(allowed)
	if got := string(allowed.Response.Header.Peek("Access-Control-Allow-Origin")); got != "https://todo.example.com" {
		t.Errorf("allowed origin: got %q", got)
	}

	denied := newCtx(fasthttp.MethodGet, "https://evil.example.com", false)
	h(denied)
	if got := denied.Response.Header.Peek("Access-Control-Allow-Origin"); len(got) != 0 {
		t.Errorf("expected no allow header, got %q", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	called := false
	h := CORS([]string{"*"})(func(ctx *fasthttp.RequestCtx) { called = true })

	ctx := newCtx(fasthttp.MethodOptions, "http://localhost:5173", true)
	h(ctx)

	if called {
		t.Error("preflight should not reach the handler")
	}
	if ctx.Response.StatusCode() != fasthttp.StatusNoContent {
		t.Errorf("status: got %d", ctx.Response.StatusCode())
	}
	if !bytes.Contains(ctx.Response.Header.Peek("Access-Control-Allow-Methods"), []byte("PATCH")) {
		t.Error("expected PATCH in allowed methods")
	}
}

func TestRecover(t *testing.T) {
	h := Recover(nil)(func(ctx *fasthttp.RequestCtx) { panic("boom") })
	ctx := newCtx(fasthttp.MethodGet, "", false)
	h(ctx)

	if ctx.Response.StatusCode() != fasthttp.StatusInternalServerError {
		t.Errorf("status: got %d", ctx.Response.StatusCode())
	}
	if !bytes.Contains(ctx.Response.Body(), []byte(`"code":"INTERNAL"`)) {
		t.Errorf("unexpected body %s", ctx.Response.Body())
	}
}

func TestAccessLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := Chain(okHandler, AccessLog(zap.New(core)))

	ctx := newCtx(fasthttp.MethodGet, "", false)
	h(ctx)

	entries := logs.FilterMessage("request served").All()
	if len(entries) != 1 {
		t.Fatalf("expected one access log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["status"] != int64(200) {
		t.Errorf("status field: got %v", fields["status"])
	}
	if fields["request_id"] == "" {
		t.Error("expected request id field")
	}
	if len(ctx.Response.Header.Peek("X-Request-ID")) == 0 {
		t.Error("expected request id header")
	}
}
