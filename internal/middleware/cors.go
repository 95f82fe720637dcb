package middleware

import (
	"strings"

	"github.com/valyala/fasthttp"
)

const (
	allowMethods = "GET, POST, PATCH, DELETE, OPTIONS"
	allowHeaders = "Content-Type, X-Request-ID"
)

// CORS answers preflight requests and tags responses for allowed origins.
// An origin list containing "*" allows every caller.
func CORS(allowedOrigins []string) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	allowAll := false
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		if origin == "*" {
			allowAll = true
			continue
		}
		allowed[strings.TrimRight(origin, "/")] = struct{}{}
	}

	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			origin := string(ctx.Request.Header.Peek("Origin"))
			if origin != "" {
				if _, ok := allowed[origin]; allowAll || ok {
					h := &ctx.Response.Header
					if allowAll {
						h.Set("Access-Control-Allow-Origin", "*")
					} else {
						h.Set("Access-Control-Allow-Origin", origin)
						h.Add("Vary", "Origin")
					}
					h.Set("Access-Control-Expose-Headers", "X-Request-ID")
				}
			}

			if ctx.IsOptions() && len(ctx.Request.Header.Peek("Access-Control-Request-Method")) > 0 {
				h := &ctx.Response.Header
				h.Set("Access-Control-Allow-Methods", allowMethods)
				h.Set("Access-Control-Allow-Headers", allowHeaders)
				h.Set("Access-Control-Max-Age", "600")
				ctx.SetStatusCode(fasthttp.StatusNoContent)
				return
			}

			next(ctx)
		}
	}
}
