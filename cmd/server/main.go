package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gogpu/gg"
	"github.com/gorilla/mux"

	"github.com/inamate/composer/internal/asset"
	"github.com/inamate/composer/internal/auth"
	"github.com/inamate/composer/internal/catalog"
	"github.com/inamate/composer/internal/config"
	"github.com/inamate/composer/internal/document"
	"github.com/inamate/composer/internal/export"
	mw "github.com/inamate/composer/internal/middleware"
	"github.com/inamate/composer/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()}))
	slog.SetDefault(logger)
	gg.SetLogger(logger)

	templates, err := loadTemplates(cfg.TemplateFile)
	if err != nil {
		slog.Error("load templates", "error", err, "file", cfg.TemplateFile)
		os.Exit(1)
	}

	raster, err := export.NewRasterizer(cfg.AssetDir, cfg.ExportMaxScale, export.WithMaxPixels(cfg.ExportMaxPixels))
	if err != nil {
		slog.Error("init rasterizer", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := session.NewHub(templates, cfg.SessionIdleTimeout)
	hubDone := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(hubDone)
	}()

	authService := auth.NewService(cfg.SessionSecret)
	sessionHandler := session.NewHandler(hub, authService, cfg.OriginHosts())
	assetHandler := asset.NewHandler(cfg.AssetDir)
	exportHandler := export.NewHandler(hub, raster, cfg.ExportDefaultScale)
	catalogHandler := catalog.NewHandler(templates)

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.Origins()))

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	r.HandleFunc("/sessions", sessionHandler.Create).Methods("POST", "OPTIONS")

	r.HandleFunc("/templates", catalogHandler.List).Methods("GET")
	r.HandleFunc("/templates/{templateId}", catalogHandler.Get).Methods("GET")
	r.HandleFunc("/presets", catalogHandler.Presets).Methods("GET")

	r.HandleFunc("/assets/upload", assetHandler.Upload).Methods("POST", "OPTIONS")
	r.PathPrefix("/assets/").Handler(assetHandler.Serve()).Methods("GET")

	// Session-scoped API routes
	api := r.PathPrefix("/api/sessions/{sessionId}").Subrouter()
	api.Use(authService.SessionMiddleware)

	api.HandleFunc("/document", sessionHandler.Document).Methods("GET", "OPTIONS")
	api.HandleFunc("/export", exportHandler.Export).Methods("POST", "OPTIONS")

	// WebSocket endpoint
	r.HandleFunc("/ws/session/{sessionId}", sessionHandler.ServeWS)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// Stop the hub first so clients see their sessions close
		cancel()
		<-hubDone

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr, "templates", len(templates.Templates))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func loadTemplates(path string) (*document.Catalog, error) {
	if path == "" {
		return document.BuiltinCatalog()
	}
	return document.LoadCatalogFile(path)
}
