package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pennyflow/pennyflow/internal/client"
	"github.com/pennyflow/pennyflow/internal/common"
	"github.com/pennyflow/pennyflow/internal/config"
	"github.com/pennyflow/pennyflow/internal/importer"
	"github.com/pennyflow/pennyflow/internal/model"
	"github.com/pennyflow/pennyflow/internal/service"
	"github.com/pennyflow/pennyflow/internal/storage"
)

// reviewStore is the full surface the CLI needs, satisfied by both the local
// importer service and the HTTP client.
type reviewStore interface {
	service.ReviewStore
	service.WorkspaceStore
}

// initStore builds the review store for this invocation: remote when a
// server URL is configured, otherwise local SQLite. The returned cleanup
// must be called before exit.
func initStore(ctx context.Context) (reviewStore, *config.App, func(), error) {
	app, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	if app.ServerURL != "" {
		c, err := client.New(app.ServerURL)
		if err != nil {
			return nil, nil, nil, err
		}
		return c, app, func() {}, nil
	}

	if err := os.MkdirAll(filepath.Dir(app.DatabasePath), 0o755); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	store, err := storage.NewSQLiteStorage(app.DatabasePath)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	cleanup := func() { _ = store.Close() }
	return importer.New(store), app, cleanup, nil
}

// resolveWorkspace fetches the configured workspace, failing fast when none
// is set rather than letting every later call 404.
func resolveWorkspace(ctx context.Context, store reviewStore, app *config.App) (*model.Workspace, error) {
	if app.WorkspaceID == "" {
		return nil, fmt.Errorf("%w: set --workspace or the workspace config key", common.ErrNoWorkspace)
	}

	ws, err := store.GetWorkspace(ctx, app.WorkspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to load workspace %s: %w", app.WorkspaceID, err)
	}
	return ws, nil
}
