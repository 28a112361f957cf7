package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"golang.org/x/sync/errgroup"

	"github.com/msomdec/item-flow/internal/attachment"
	"github.com/msomdec/item-flow/internal/config"
	"github.com/msomdec/item-flow/internal/handler"
	"github.com/msomdec/item-flow/internal/repository/sqlite"
	"github.com/msomdec/item-flow/internal/service"
)

func (a *app) serve(ctx context.Context) error {
	cfg := a.cfg
	logger := slog.Default()

	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer closeDatabase(db)

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied")

	local, err := attachment.NewLocalStore(cfg.UploadsDir)
	if err != nil {
		return fmt.Errorf("open uploads dir: %w", err)
	}
	var remote attachment.RemoteStore
	if cfg.Cloudinary.Enabled() {
		cld, err := attachment.NewCloudinaryStore(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret, cfg.Cloudinary.Folder)
		if err != nil {
			return fmt.Errorf("configure cloudinary: %w", err)
		}
		remote = cld
		slog.Info("remote image storage enabled", "cloud", cfg.Cloudinary.CloudName)
	}
	manager := attachment.NewManager(local, remote)
	releaser := attachment.NewReleaser(manager, cfg.ReleaseConcurrency, cfg.ReleaseTimeout, logger)

	model, err := newModel(ctx, cfg)
	if err != nil {
		return err
	}

	itemService := service.NewItemService(db.Items(), db.Categories(), manager, releaser, cfg.StrictCategoryReferences)
	categoryService := service.NewCategoryService(db.Categories())
	suggestionService := service.NewSuggestionService(model)

	sweeper := service.NewOrphanSweeper(db.Items(), local, cfg.OrphanSweepGrace, logger)
	if cfg.OrphanSweepSchedule != "" {
		if err := sweeper.Start(cfg.OrphanSweepSchedule); err != nil {
			return err
		}
		defer sweeper.Stop()
	}

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, handler.Handlers{
		Items:       handler.NewItemHandler(itemService),
		Categories:  handler.NewCategoryHandler(categoryService),
		Suggestions: handler.NewSuggestHandler(suggestionService),
		Reset:       handler.NewResetHandler(db, cfg.IsTest()),
		UploadsDir:  local.Root(),
	})

	srv := &http.Server{
		Addr: ":" + strconv.Itoa(cfg.Port),
		Handler: handler.Wrap(mux, handler.MiddlewareConfig{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			Logger:         logger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server starting", "addr", srv.Addr, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	err = g.Wait()
	releaser.Wait()
	if n := releaser.Failures(); n > 0 {
		slog.Warn("attachment releases failed during run", "count", n)
	}
	slog.Info("server stopped")
	return err
}

// newModel returns nil when no API key is configured, which disables
// name suggestions.
func newModel(ctx context.Context, cfg config.Config) (llms.Model, error) {
	if cfg.GeminiAPIKey == "" {
		slog.Info("GEMINI_API_KEY not set, name suggestions disabled")
		return nil, nil
	}
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(cfg.GeminiAPIKey),
		googleai.WithDefaultModel(cfg.GeminiModel),
	)
	if err != nil {
		return nil, fmt.Errorf("configure gemini: %w", err)
	}
	return llm, nil
}
