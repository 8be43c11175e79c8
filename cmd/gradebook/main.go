package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/gradebook/gradebook/internal/api"
	"github.com/gradebook/gradebook/internal/average"
	"github.com/gradebook/gradebook/internal/config"
	"github.com/gradebook/gradebook/internal/metrics"
	"github.com/gradebook/gradebook/internal/record"
	"github.com/gradebook/gradebook/internal/ws"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	uiDir := flag.String("ui-dir", "", "serve static UI files from this directory (e.g. ui/dist); leave empty to disable")
	flag.Parse()

	// Bootstrap logger until the config tells us the level and file target.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	// .env is optional — useful in development, absent in production.
	_ = godotenv.Load()

	slog.Info("gradebook starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	logger, logClose, err := buildLogger(cfg.Log)
	if err != nil {
		slog.Error("failed to set up logging", "err", err)
		os.Exit(1)
	}
	if logClose != nil {
		defer logClose.Close()
	}
	slog.SetDefault(logger)

	slog.Info("config loaded",
		"http_port", cfg.Server.HTTPPort,
		"csv_path", cfg.Store.CSVPath,
		"workers", cfg.Compute.Workers,
		"queue_size", cfg.Compute.QueueSize,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	st, err := record.New(cfg.Store.CSVPath)
	if err != nil {
		slog.Error("failed to open record store", "path", cfg.Store.CSVPath, "err", err)
		os.Exit(1)
	}

	reg := metrics.New()
	engine := average.New(cfg.Compute.Workers, cfg.Compute.QueueSize, reg)

	// Hot reload re-sizes the worker pool without a restart.
	go func() {
		err := config.Watch(ctx, *configPath, func(c *config.Config) {
			engine.Resize(c.Compute.Workers, c.Compute.QueueSize)
			slog.Info("compute sizing updated",
				"workers", c.Compute.Workers, "queue_size", c.Compute.QueueSize)
		})
		if err != nil {
			slog.Error("config watcher stopped", "err", err)
		}
	}()

	// WebSocket hub — broadcasts fresh averages to connected clients.
	hub := ws.New(engine, st, cfg.WS.BroadcastInterval)
	go hub.Run(ctx)

	httpMux := http.NewServeMux()
	httpMux.Handle("/api/", api.New(st, engine, reg))
	httpMux.Handle("/ws/averages", hub)
	httpMux.Handle("/metrics", reg.Handler())

	// Optional: serve a pre-built UI from a local directory.
	// The "/" catch-all serves index.html for any unknown path (SPA routing).
	if *uiDir != "" {
		fs := http.FileServer(http.Dir(*uiDir))
		httpMux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			// SPA fallback: if the requested file doesn't exist, serve index.html.
			path := *uiDir + r.URL.Path
			if _, err := os.Stat(path); os.IsNotExist(err) {
				http.ServeFile(w, r, *uiDir+"/index.html")
				return
			}
			fs.ServeHTTP(w, r)
		})
		slog.Info("serving UI static files", "dir", *uiDir)
	}

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler: httpMux,
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
		}
	}()

	<-ctx.Done()
	slog.Info("gradebook shutting down")
	httpSrv.Shutdown(context.Background()) //nolint:errcheck
}

// buildLogger creates the JSON logger described by cfg. When a log file is
// configured, lines are teed to it in addition to stdout; the returned
// closer owns the file handle.
func buildLogger(cfg config.LogConfig) (*slog.Logger, io.Closer, error) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var w io.Writer = os.Stdout
	var closer io.Closer
	if cfg.Path != "" {
		f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file %q: %w", cfg.Path, err)
		}
		w = io.MultiWriter(os.Stdout, f)
		closer = f
	}

	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})), closer, nil
}
