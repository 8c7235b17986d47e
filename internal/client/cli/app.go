package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/blogcli/internal/client/api"
	"github.com/dmitrijs2005/blogcli/internal/client/config"
	"github.com/dmitrijs2005/blogcli/internal/client/credentials"
	"github.com/dmitrijs2005/blogcli/internal/client/session"
	"github.com/dmitrijs2005/blogcli/internal/logging"

	_ "modernc.org/sqlite"
)

// App wires configuration, the local credential database, the API client and
// the session manager behind the interactive REPL.
type App struct {
	config  *config.Config
	api     *api.Client
	session *session.Manager
	db      *sql.DB
	reader  *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	store, db, err := credentials.Open(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing credentials database: %w", err)
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	apiClient := api.New(c.ServerURL, store, logger, api.WithTimeout(c.RequestTimeout))

	// Session-expired notices go straight to the terminal.
	sess := session.NewManager(apiClient, store, logger, func(msg string) {
		fmt.Println(msg)
	})

	return &App{
		config:  c,
		api:     apiClient,
		session: sess,
		db:      db,
		reader:  bufio.NewReader(os.Stdin),
	}, nil
}

// Run bootstraps the session from stored credentials and starts the REPL.
// It blocks until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	fmt.Println("Welcome to the blog CLI (type 'help' for commands)")

	if err := a.session.Bootstrap(ctx); err != nil {
		fmt.Println("Could not restore your session:", a.session.State().Err)
	}
	if user := a.session.User(); user != nil {
		fmt.Printf("Logged in as %s\n", user.Name)
	}

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}

// Close releases the local database handle.
func (a *App) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

func (a *App) getStatus() string {
	if user := a.session.User(); user != nil {
		return user.Name
	}
	return "anonymous"
}
