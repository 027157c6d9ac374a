package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"paperdigest/batch"
	"paperdigest/config"
	"paperdigest/extract"
	"paperdigest/inference"
	"paperdigest/server"
	"paperdigest/store"
)

func main() {
	// Best-effort; real deployments use the environment directly.
	_ = godotenv.Load()

	configPath := env("CONFIG_PATH", "")
	mcpTransport := env("MCP_TRANSPORT", "")
	logLevel := env("LOG_LEVEL", "info")

	// Logging.
	var lvl slog.Level
	switch logLevel {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}

	// Signal context.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		slog.Error("store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	extractor := extract.New(extract.Config{Logger: logger})

	orch := batch.New(batch.Config{
		Extractor: extractor,
		Summarizer: inference.NewClient(inference.Config{
			AccountID: cfg.Cloudflare.AccountID,
			APIToken:  cfg.Cloudflare.APIToken,
			Model:     cfg.Cloudflare.Model,
			BaseURL:   cfg.Cloudflare.BaseURL,
			Logger:    logger,
		}),
		MaxFiles:     cfg.MaxFiles,
		MaxFileBytes: cfg.MaxFileBytes(),
		Concurrency:  cfg.Concurrency,
		Logger:       logger,
	})

	svc := server.New(server.Config{
		Orchestrator: orch,
		Store:        st,
		BodyLimit:    cfg.RequestBodyLimit(),
		Logger:       logger,
	})

	// Optional MCP over stdio: expose the pipeline to local agents and exit
	// when the peer disconnects.
	if mcpTransport == "stdio" {
		mcpSrv := mcp.NewServer(&mcp.Implementation{
			Name:    "paperdigest",
			Version: "1.0.0",
		}, nil)
		extractor.RegisterMCP(mcpSrv)
		svc.RegisterMCP(mcpSrv)

		slog.Info("MCP stdio starting")
		if err := mcpSrv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
			slog.Error("MCP stdio", "error", err)
			os.Exit(1)
		}
		return
	}

	// Router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	svc.RegisterHTTP(r)

	// HTTP server. WriteTimeout leaves room for one model call per document
	// plus the combined call.
	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      10 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Listen, "model", cfg.Cloudflare.Model)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
	slog.Info("server stopped")
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
