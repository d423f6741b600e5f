package main

import (
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/ghshelf/ghshelf/internal/github"
	"github.com/ghshelf/ghshelf/internal/shared"
	"github.com/ghshelf/ghshelf/internal/store"
	"github.com/ghshelf/ghshelf/internal/token"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	logger     *log.Logger
	output     io.Writer

	// db, when set, replaces the configured database. Tests inject an
	// in-memory connection here.
	db *sql.DB

	// newClient builds the API client for a token. Tests swap this to
	// point at a local server.
	newClient func(token string) *github.Client
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Logger     *log.Logger
	Output     io.Writer
	DB         *sql.DB
	NewClient  func(token string) *github.Client
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		logger:     opts.Logger,
		output:     opts.Output,
		db:         opts.DB,
		newClient:  opts.NewClient,
	}
	if r.newClient == nil {
		r.newClient = func(tok string) *github.Client {
			return github.New(tok, github.Opts{
				BaseURL:           r.config.GitHub.BaseURL,
				PageSize:          r.config.GitHub.PageSize,
				RequestsPerSecond: r.config.GitHub.RequestsPerSecond,
			})
		}
	}
	return r
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// openDatabase returns the working connection and a close func. An injected
// connection is reused and never closed here.
func (r *Runner) openDatabase() (*sql.DB, func(), error) {
	if r.db != nil {
		return r.db, func() {}, nil
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, func() { db.Close() }, nil
}

// openStore opens the database and wraps it in the document store.
func (r *Runner) openStore() (*store.Store, func(), error) {
	db, closeDB, err := r.openDatabase()
	if err != nil {
		return nil, nil, err
	}
	s := store.New(db, r.logger).
		WithSeed(r.config.Seed.DataPath).
		WithSettingsSeed(r.config.Seed.SettingsPath)
	return s, closeDB, nil
}

// openKeeper opens the store plus the token keeper backed by it.
func (r *Runner) openKeeper() (*store.Store, *token.Keeper, func(), error) {
	s, closeDB, err := r.openStore()
	if err != nil {
		return nil, nil, nil, err
	}
	return s, token.NewKeeper(s, r.logger), closeDB, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}
	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
