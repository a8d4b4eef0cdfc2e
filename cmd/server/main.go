package main

import (
	"context"
	"dashboard/internal/api"
	"dashboard/internal/config"
	"dashboard/internal/session"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"golang.org/x/time/rate"
)

func main() {
	logger := log.New("dashboard")

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}
	logger.SetLevel(cfg.LogLevel)

	// 1. Initialize Echo
	e := echo.New()
	e.HideBanner = true
	e.Logger = logger
	e.JSONSerializer = api.JSONSerializer{}
	e.HTTPErrorHandler = api.ErrorHandler

	e.Use(middleware.CORS())
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	if cfg.RateLimit > 0 {
		e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(cfg.RateLimit))))
	}

	// 2. Session store: every session generates its own snapshot on creation
	store := session.NewStore(session.Options{
		Params:      cfg.Params(),
		TableRows:   cfg.TableRows,
		TTL:         cfg.SessionTTL,
		MaxSessions: cfg.MaxSessions,
	}, logger)

	h := api.NewHandler(store)
	h.RegisterRoutes(e)

	// 3. Start Server
	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	go func() {
		logger.Infof("Server ready on %s (%d days, %d products, seed %d)",
			addr, cfg.SalesDays, cfg.InventoryCount, cfg.Seed)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server error: %v", err)
		}
	}()

	// 4. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Errorf("Shutdown error: %v", err)
	}
	logger.Info("server stopped")
}
