package main

import (
	"context"
	"log"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/todo/api/handler"
	"github.com/fastygo/todo/internal/config"
	"github.com/fastygo/todo/internal/infrastructure/monitor"
	"github.com/fastygo/todo/internal/infrastructure/store"
	"github.com/fastygo/todo/internal/middleware"
	"github.com/fastygo/todo/internal/router"
	"github.com/fastygo/todo/internal/services/lifecycle"
	"github.com/fastygo/todo/pkg/httpcontext"
	"github.com/fastygo/todo/pkg/logger"
	taskUC "github.com/fastygo/todo/usecase/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:       cfg.Logger.Level,
		Encoding:    cfg.Logger.Encoding,
		Service:     cfg.AppName,
		Environment: cfg.Environment,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	appCtx, cancel := manager.SignalContext(context.Background())
	defer cancel()

	backend, err := store.Open(appCtx, cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("store connection failed", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	manager.Register("store", backend.Close)

	mon := monitor.New(backend.Driver, backend.Pinger, cfg.Monitor.Interval, zapLogger)
	if err := mon.Start(); err != nil {
		zapLogger.Fatal("monitor start failed", zap.Error(err))
	}
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop(ctx)
		return nil
	})

	taskUseCase := taskUC.New(backend.Tasks, zapLogger)
	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Task:   apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Health: apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}
	r := router.New(handlers, router.Options{
		BasePath:  cfg.HTTP.BasePath,
		StaticDir: cfg.HTTP.StaticDir,
	})

	handler := middleware.Chain(r.Handler,
		middleware.Recover(zapLogger),
		middleware.AccessLog(zapLogger),
		middleware.CORS(cfg.HTTP.AllowedOrigins),
	)

	server := &fasthttp.Server{
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Concurrency:  cfg.HTTP.MaxConn,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("base_path", cfg.HTTP.BasePath),
			zap.String("store", backend.Driver))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
