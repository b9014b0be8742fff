// Package server initializes and runs the blog backend. It picks the storage
// backend, applies migrations, seeds or restores the in-memory store, serves
// the REST API and shuts everything down on SIGINT/SIGTERM.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/logging"
	"github.com/dmitrijs2005/gophblog/internal/server/config"
	"github.com/dmitrijs2005/gophblog/internal/server/httpapi"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
	"github.com/dmitrijs2005/gophblog/internal/server/repositories/posts"
	"github.com/dmitrijs2005/gophblog/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophblog/internal/server/services"
	"github.com/dmitrijs2005/gophblog/internal/server/snapshot"
)

// WelcomePost is put into an empty in-memory store at startup.
var WelcomePost = models.Post{
	Title:   "Welcome to the Blog!",
	Content: "This is your first post.",
	Author:  "System",
}

type snapshotStore interface {
	Save(ctx context.Context, snap posts.Snapshot) error
	Load(ctx context.Context) (posts.Snapshot, bool, error)
}

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	memPosts    *posts.MemoryRepository
	snapshots   snapshotStore
	server      *httpapi.HTTPServer
}

// snapshotSaveTimeout bounds the shutdown snapshot upload.
var snapshotSaveTimeout = 30 * time.Second

var logOutput io.Writer = os.Stdout

var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

var newSnapshotStore = func(ctx context.Context, c *config.Config) (snapshotStore, error) {
	return snapshot.NewS3Store(ctx, c)
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(logOutput, slog.LevelInfo)

	app := &App{config: c, logger: logger}

	if c.DatabaseDSN != "" {
		db, err := openDB(c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("db init error: %w", err)
		}
		app.db = db
		app.repomanager = repomanager.NewPostgresRepositoryManager()
	} else {
		mem := repomanager.NewMemoryRepositoryManager()
		app.repomanager = mem
		app.memPosts = mem.MemoryPosts()
	}

	if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
		app.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	if app.memPosts != nil {
		if err := app.prepareMemoryStore(ctx); err != nil {
			return nil, err
		}
	}

	ps := services.NewPostService(app.db, app.repomanager)
	us := services.NewUserService(app.db, app.repomanager, c)
	app.server = httpapi.NewHTTPServer(c, logger, ps, us)
	if err := app.server.SyncPostCount(ctx); err != nil {
		logger.Warn(ctx, "Posts gauge not initialized", "error", err)
	}

	return app, nil
}

// prepareMemoryStore restores the S3 snapshot when one is configured and
// present, and otherwise seeds the welcome post.
func (app *App) prepareMemoryStore(ctx context.Context) error {
	if app.config.S3Bucket != "" {
		st, err := newSnapshotStore(ctx, app.config)
		if err != nil {
			return fmt.Errorf("snapshot store init error: %w", err)
		}
		app.snapshots = st

		snap, ok, err := st.Load(ctx)
		if err != nil {
			return fmt.Errorf("snapshot restore error: %w", err)
		}
		if ok {
			app.memPosts.Restore(snap)
			app.logger.Info(ctx, "Restored posts snapshot", "posts", len(snap.Posts), "next_id", snap.NextID)
			return nil
		}
	}

	if app.config.SeedPosts && app.memPosts.Len() == 0 {
		if _, err := app.memPosts.Create(ctx, &WelcomePost); err != nil {
			return err
		}
	}
	return nil
}

func (app *App) saveSnapshot(ctx context.Context) {
	if app.snapshots == nil || app.memPosts == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, snapshotSaveTimeout)
	defer cancel()

	snap := app.memPosts.Snapshot()
	if err := app.snapshots.Save(ctx, snap); err != nil {
		app.logger.Error(ctx, "Snapshot save failed", "error", err)
		return
	}
	app.logger.Info(ctx, "Saved posts snapshot", "posts", len(snap.Posts))
}

func (app *App) Close() {
	if app.db != nil {
		_ = app.db.Close()
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until a signal arrives or ctx is cancelled, then saves the
// snapshot (if any) and releases the database.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "in_memory", app.db == nil)

	app.initSignalHandler(cancelFunc)

	err := app.server.Run(ctx)

	app.saveSnapshot(context.WithoutCancel(ctx))
	app.Close()

	if err != nil {
		app.logger.Error(ctx, err.Error())
	}
	return err
}
