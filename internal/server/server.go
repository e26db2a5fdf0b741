package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/campuslab/campusite/config"
	"github.com/campuslab/campusite/internal/chat"
	"github.com/campuslab/campusite/internal/corpus"
	"github.com/campuslab/campusite/internal/fetch"
	"github.com/campuslab/campusite/internal/ratelimit"
	"github.com/campuslab/campusite/internal/store"
	"github.com/campuslab/campusite/internal/telemetry"
	"github.com/campuslab/campusite/provider/hf"
)

// Run wires the whole backend together and serves until the listener fails.
func Run(cfg *config.Config, addr string) error {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	// Unified HTTP error handler with structured JSON and logging
	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Cookie", "Session-Id"},
		AllowCredentials: true,
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(200, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	if err := Migrate("file://migrations", cfg.Storage.Postgres.DSN(), "up", 0); err != nil {
		baseLogger.Printf("migrations: %v", err)
	}

	ctx := context.Background()
	st, err := store.NewWithDSN(ctx, cfg.Storage.Postgres.DSN())
	if err != nil {
		return err
	}

	botLogger := log.New(log.Writer(), "[BOT] ", log.LstdFlags)

	fetcher, err := fetch.NewFetcher(fetch.FetcherType(cfg.Site.Fetcher), cfg.Site.FetchTimeout)
	if err != nil {
		return err
	}
	content := corpus.Build(ctx, corpus.Config{
		TemplatesDir: cfg.Site.TemplatesDir,
		ScrapeURL:    cfg.Site.ScrapeURL,
		ChunkWords:   cfg.Site.ChunkWords,
		Fetcher:      fetcher,
	}, botLogger)

	var rdb *redis.Client
	if cfg.RateLimit.Backend == "redis" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Storage.Redis.Addr(),
			Password: cfg.Storage.Redis.Password,
			DB:       cfg.Storage.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis connection failed (%s): %w", cfg.Storage.Redis.Addr(), err)
		}
	}
	limiter, err := ratelimit.New(ratelimit.BackendType(cfg.RateLimit.Backend), cfg.RateLimit.Limit, cfg.RateLimit.Window, rdb)
	if err != nil {
		return err
	}

	llm := hf.NewClient(
		cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.BaseURL, cfg.Site.Name,
		cfg.LLM.Temperature, cfg.LLM.MaxTokens, cfg.LLM.Timeout,
	)

	svc := &chat.Service{
		Corpus:    content,
		Limiter:   limiter,
		Provider:  llm,
		Store:     st,
		TopChunks: cfg.Site.TopChunks,
		Logger:    botLogger,
		Metrics:   telemetry.NewMetrics(prometheus.DefaultRegisterer),
	}

	ch := &ChatHandler{Service: svc, Store: st, Logger: botLogger}
	ch.Register(e)

	co := &ContactHandler{Store: st, Logger: baseLogger}
	co.Register(e)

	if cfg.General.JWTSecret == "" {
		return fmt.Errorf("jwt secret not configured (general.jwt_secret)")
	}
	ad := &AdminHandler{Cfg: cfg, Store: st, Logger: baseLogger}
	ad.Register(e)

	pg := &PagesHandler{TemplatesDir: cfg.Site.TemplatesDir}
	pg.Register(e)

	if addr == "" {
		addr = cfg.General.Listen
		if addr != "" && addr[0] != ':' {
			addr = ":" + addr
		}
		if addr == "" {
			addr = ":8000"
		}
	}
	log.Printf("listening on %s", addr)
	return e.Start(addr)
}
