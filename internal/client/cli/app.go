package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dmitrijs2005/gophblog/internal/client/client"
	"github.com/dmitrijs2005/gophblog/internal/client/config"
	"github.com/dmitrijs2005/gophblog/internal/client/services"
	"github.com/dmitrijs2005/gophblog/internal/client/view"
	"github.com/dmitrijs2005/gophblog/internal/logging"

	_ "modernc.org/sqlite"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type App struct {
	config   *config.Config
	db       *sql.DB
	api      client.Client
	sessions *services.SessionHolder
	view     *view.Controller
	logger   logging.Logger

	reader *bufio.Reader
	out    io.Writer

	modeMu sync.Mutex
	mode   Mode
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, c.DatabaseDSN)
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	api := client.NewHTTPClient(c.APIBaseURL, c.HealthURL(), c.RequestTimeout)
	sessions := services.NewSessionHolder(api, db, logger)
	api.SetTokenSource(sessions.Token)

	return &App{
		config:   c,
		db:       db,
		api:      api,
		sessions: sessions,
		view:     view.NewController(api, sessions, logger),
		logger:   logger.With("module", "cli"),
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}, nil
}

func (a *App) Mode() Mode {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.modeMu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.modeMu.Unlock()

	if changed {
		a.logger.Info(ctx, fmt.Sprintf("Switched to %s mode", mode))
	}
}

func (a *App) isLoggedIn() bool {
	_, ok := a.sessions.Current()
	return ok
}

// getStatus renders the prompt prefix, e.g. "(alice online)".
func (a *App) getStatus() string {
	s := ""
	if sess, ok := a.sessions.Current(); ok {
		s = sess.User.UserName + " "
	}
	s += string(a.Mode())
	if s == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", s)
}

// Run restores the session, starts the connectivity watcher and blocks in
// the REPL until the user exits or input ends.
func (a *App) Run(ctx context.Context) error {
	defer a.db.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintln(a.out, "Welcome to gophblog (type 'help' for commands)")

	a.checkOnline(ctx)
	_ = a.view.Start(ctx)
	render(a.out, a.view.State())

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader, a.out)
	return nil
}
