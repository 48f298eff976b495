package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"clubdirectory/docs"
	"clubdirectory/internal/cache"
	"clubdirectory/internal/config"
	"clubdirectory/internal/db"
	"clubdirectory/internal/handler"
	"clubdirectory/internal/metrics"
	"clubdirectory/internal/router"
	"clubdirectory/internal/service"
)

// @title Club Directory API
// @version 1.0
// @description Club membership directory: list, search, sort, create, update and delete members.
// @host localhost:4444
// @BasePath /
// @schemes http
func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := db.NewMemberRepository(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("member store init: %v", err)
	}
	log.Printf("Using %s member store", cfg.StoreDriver)

	m := metrics.New()
	opts := []service.Option{service.WithMetrics(m)}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	if cacheClient.Enabled() {
		if err := cacheClient.Ping(ctx); err != nil {
			log.Printf("Warning: redis at %s unreachable, listing uncached until it recovers: %v", cfg.RedisAddr, err)
		}
		opts = append(opts, service.WithCache(cacheClient, cfg.CacheTTL))
	}

	memberService := service.NewMemberService(repo, opts...)
	memberHandler := handler.NewMemberHandler(memberService)

	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg, memberHandler, m)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "http://"), "https://")
	} else {
		docs.SwaggerInfo.Host = "localhost:" + cfg.ServerPort
	}
	log.Printf("Swagger documentation available at: http://%s/swagger/index.html", docs.SwaggerInfo.Host)

	addr := ":" + cfg.ServerPort
	go func() {
		log.Printf("Listening on port %s", cfg.ServerPort)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server start: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
}
