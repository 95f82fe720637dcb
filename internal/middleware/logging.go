package middleware

import (
	"fmt"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/todo/api/transport"
	"github.com/fastygo/todo/domain"
	"github.com/fastygo/todo/pkg/httpcontext"
)

// AccessLog writes one line per request once the handler returns.
func AccessLog(logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			start := time.Now()
			reqID := httpcontext.RequestID(ctx)

			next(ctx)

			status := ctx.Response.StatusCode()
			fields := []zap.Field{
				zap.ByteString("method", ctx.Method()),
				zap.ByteString("path", ctx.Path()),
				zap.Int("status", status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", reqID),
			}
			if status >= fasthttp.StatusInternalServerError {
				logger.Warn("request served", fields...)
				return
			}
			logger.Info("request served", fields...)
		}
	}
}

// Recover turns a handler panic into a 500 envelope.
func Recover(logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("handler panic",
						zap.String("panic", fmt.Sprint(rec)),
						zap.ByteString("path", ctx.Path()),
						zap.String("request_id", httpcontext.RequestID(ctx)),
						zap.Stack("stack"))
					body := transport.NewError(string(domain.ErrCodeInternal), "internal server error", nil).String()
					ctx.Response.Header.SetContentType("application/json")
					ctx.SetStatusCode(fasthttp.StatusInternalServerError)
					ctx.SetBodyString(body)
				}
			}()
			next(ctx)
		}
	}
}

// Chain wraps h so the first middleware is the outermost.
func Chain(h fasthttp.RequestHandler, mws ...func(fasthttp.RequestHandler) fasthttp.RequestHandler) fasthttp.RequestHandler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
