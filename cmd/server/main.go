package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"walletdash/internal/config"
	"walletdash/internal/handlers/backup"
	"walletdash/internal/handlers/dashboard"
	apphttp "walletdash/internal/http"
	"walletdash/internal/log"
	"walletdash/internal/services/dataloader"
	"walletdash/internal/services/donut"
	"walletdash/internal/services/storage"
	"walletdash/internal/services/view"
	"walletdash/internal/templates"
	"walletdash/internal/version"
	"walletdash/web"
)

var (
	cfg      *config.Config
	logger   *log.Logger
	store    *storage.Storage
	loader   *dataloader.DataLoader
	renderer *templates.Renderer
	dash     *view.Dashboard
)

func main() {
	var err error
	cfg, err = config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger = log.New(log.Config{
		Level:     log.ParseLevel(cfg.LogLevel),
		Component: "server",
		JSON:      cfg.LogJSON,
		Output:    os.Stdout,
	})
	log.SetDefault(logger)

	info := version.Get()
	logger.Info("Starting wallet dashboard", "addr", cfg.ListenAddr, "version", info.Short(), "data_dir", cfg.DataDirectory)
	if warning := info.Warning(); warning != "" {
		logger.Warn(warning)
	}

	if err := SetupDependencies(cfg); err != nil {
		logger.Error("Failed to set up dependencies", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           SetupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, srv, cfg.ShutdownTimeout); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

// run serves until ctx is cancelled, then shuts the server down within timeout
func run(ctx context.Context, srv *http.Server, timeout time.Duration) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// SetupDependencies opens the data directory, loads the dataset and
// templates, and wires the handlers. A missing or unreadable dataset is
// logged and the dashboard falls back to its sample data.
func SetupDependencies(c *config.Config) error {
	cfg = c
	if logger == nil {
		logger = log.Discard()
	}

	var err error
	store, err = storage.New(c.DataDirectory)
	if err != nil {
		logger.Warn("Data directory unavailable, using sample data", "error", err)
		store = nil
	} else if store.IsEncrypted() {
		unlockStore(c)
	}

	loader = dataloader.New(store, logger)
	if err := loader.Load(); err != nil {
		logger.Warn("Dataset not loaded, using sample data", "error", err)
	}

	var templateFS fs.FS = web.Templates()
	if c.TemplatesDirectory != "" {
		templateFS = os.DirFS(c.TemplatesDirectory)
	}
	renderer, err = templates.New(templateFS, c.Debug, logger)
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	dash = view.New(loader, donut.Options{
		LineWidth:  c.Chart.LineWidth,
		PixelRatio: c.Chart.PixelRatio,
	}, logger).WithRecentLimit(c.RecentLimit)

	dashboard.Initialize(dash, renderer, c.Chart, logger)
	backup.Initialize(store, loader, logger)
	return nil
}

func unlockStore(c *config.Config) {
	passphrase, err := storage.Passphrase(c.Passphrase, os.Stdin, os.Stderr)
	if err != nil {
		logger.Warn("Encrypted data directory left locked", "error", err)
		return
	}
	if err := store.Unlock(passphrase); err != nil {
		logger.Warn("Encrypted data directory left locked", "error", err)
		return
	}
	logger.Info("Encrypted data directory unlocked")
}

// SetupRouter creates the chi router with all routes
func SetupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(web.Static()))))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusTemporaryRedirect)
	})
	r.Get("/api/health", handleHealth)

	dashboard.RegisterRoutes(r)
	backup.RegisterRoutes(r)

	return r
}

// healthResponse is the /api/health payload
type healthResponse struct {
	Status  string           `json:"status"`
	Version version.Info     `json:"version"`
	Demo    bool             `json:"demo"`
	Locked  bool             `json:"locked"`
	Dataset dataloader.Stats `json:"dataset"`
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	apphttp.JSON(w, logger, healthResponse{
		Status:  "ok",
		Version: version.Get(),
		Demo:    dash.IsDemo(),
		Locked:  store != nil && !store.IsUnlocked(),
		Dataset: loader.Stats(),
	})
}
