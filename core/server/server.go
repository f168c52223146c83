package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"volunteer-events-api/core/cache"
	"volunteer-events-api/core/config"
	"volunteer-events-api/core/constants"
	"volunteer-events-api/core/database"
	"volunteer-events-api/core/logger"
	"volunteer-events-api/core/middleware"
	"volunteer-events-api/core/tasks"
	"volunteer-events-api/modules/auth"
	"volunteer-events-api/modules/calendar"
	"volunteer-events-api/modules/event"
	"volunteer-events-api/modules/notification"
	"volunteer-events-api/modules/realtime"
)

// Run boots the API: configuration, storage, cache, background workers, and
// every module's routes. It blocks until the process receives SIGINT/SIGTERM
// and then shuts down gracefully.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.App.LogLevel)

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}

	if _, err := cache.InitCache(cfg.Redis); err != nil {
		return fmt.Errorf("init cache: %w", err)
	}

	tasks.InitClient(cfg.Redis)

	worker, mux := tasks.NewWorker(cfg.Redis)
	go func() {
		if err := worker.Run(mux); err != nil {
			logger.Error("task worker stopped", err)
		}
	}()

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		logger.Error("invalid timezone, falling back to local", err)
		loc = time.Local
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	mw := middleware.NewMiddleware(cache.GetCache())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notificationSvc := notification.Init(e, db, mw)
	eventSvc := event.Init(e, db, mw, notificationSvc, loc)
	calendar.Init(e, mw, eventSvc, loc)
	auth.Init(e, db, mw)
	realtime.Init(ctx, e, eventSvc)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.App.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("server stopped", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	cancel()
	worker.Shutdown()
	tasks.GetClient().Close()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}
