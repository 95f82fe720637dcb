package router

import (
	"path/filepath"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/todo/api/handler"
)

const rootMessage = "Todo API is running..."

type Handlers struct {
	Task   *apiHandler.TaskHandler
	Health *apiHandler.HealthHandler
}

// Options controls where the API is mounted and whether a console build is served.
type Options struct {
	// BasePath is "" or "/prefix" without a trailing slash.
	BasePath string
	// StaticDir, when set, is served for every unmatched path with an
	// index.html fallback.
	StaticDir string
}

type routes interface {
	GET(path string, handler fasthttp.RequestHandler)
	POST(path string, handler fasthttp.RequestHandler)
	PATCH(path string, handler fasthttp.RequestHandler)
	DELETE(path string, handler fasthttp.RequestHandler)
}

func New(handlers Handlers, opts Options) *router.Router {
	r := router.New()

	if handlers.Health != nil {
		r.GET("/health", handlers.Health.Check)
	}

	var api routes = r
	if opts.BasePath != "" {
		api = r.Group(opts.BasePath)
	}
	api.GET("/todos", handlers.Task.ListTasks)
	api.POST("/todos", handlers.Task.CreateTask)
	api.GET("/todos/{id}", handlers.Task.GetTask)
	api.PATCH("/todos/{id}", handlers.Task.UpdateTask)
	api.DELETE("/todos/{id}", handlers.Task.DeleteTask)

	if opts.StaticDir == "" {
		r.GET("/", func(ctx *fasthttp.RequestCtx) {
			ctx.SetContentType("text/plain; charset=utf-8")
			ctx.SetBodyString(rootMessage)
		})
		return r
	}

	index := filepath.Join(opts.StaticDir, "index.html")
	fs := &fasthttp.FS{
		Root:       opts.StaticDir,
		IndexNames: []string{"index.html"},
		Compress:   true,
		PathNotFound: func(ctx *fasthttp.RequestCtx) {
			ctx.SendFile(index)
		},
	}
	r.NotFound = fs.NewRequestHandler()
	return r
}
