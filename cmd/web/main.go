package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"dailyshapes/internal/config"
	"dailyshapes/internal/game"
	"dailyshapes/internal/handlers"
	"dailyshapes/internal/mechanic"
	"dailyshapes/internal/shapes"
)

const (
	sweepEvery = 15 * time.Minute
	idleTTL    = 24 * time.Hour
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	_ = mime.AddExtensionType(".js", "application/javascript")
	_ = mime.AddExtensionType(".css", "text/css")

	library, err := shapes.Default()
	if err != nil {
		slog.Error("load shapes", "error", err)
		os.Exit(1)
	}

	store := game.NewStore(library, game.Options{
		Rules: game.Rules{
			ShapesPerDay:     cfg.ShapesPerDay,
			AttemptsPerShape: cfg.AttemptsPerShape,
		},
		Session: mechanic.Options{
			Width:         cfg.CanvasSize,
			Height:        cfg.CanvasSize,
			Padding:       cfg.CanvasPadding,
			GridCells:     cfg.GridSize,
			SubtractHoles: cfg.SubtractHoles,
		},
		Location: cfg.Location(),
		Logger:   logger,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	staticFS, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		slog.Error("static files", "error", err)
		os.Exit(1)
	}
	r.Mount("/static", http.StripPrefix("/static", http.FileServer(http.FS(staticFS))))

	handlers.NewHomeHandler(store, logger).RegisterRoutes(r)
	handlers.NewGameHandler(store, cfg.Origins(), logger).RegisterRoutes(r)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sweep(ctx, store)

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", addr, "base_url", cfg.BaseURL, "timezone", cfg.Timezone)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

// sweep drops games nobody has touched for a day.
func sweep(ctx context.Context, store *game.Store) {
	ticker := time.NewTicker(sweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			store.Sweep(now, idleTTL)
		}
	}
}

//go:embed static/*
var embeddedStatic embed.FS
