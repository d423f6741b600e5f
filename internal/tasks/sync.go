package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ghshelf/ghshelf/internal/github"
	"github.com/ghshelf/ghshelf/internal/models"
)

// State is the engine's import lifecycle state.
type State int

const (
	Idle State = iota
	Importing
	Errored
)

func (s State) String() string {
	switch s {
	case Importing:
		return "importing"
	case Errored:
		return "errored"
	default:
		return "idle"
	}
}

// ErrImportInFlight rejects a second import while one is running.
var ErrImportInFlight = errors.New("an import is already running")

// RemoteClient is the slice of the API client the engine needs.
type RemoteClient interface {
	ValidateToken(ctx context.Context) github.TokenValidation
	FetchOwned(ctx context.Context, onPage github.PageFunc) ([]models.Repo, error)
	FetchStarred(ctx context.Context, onPage github.PageFunc) ([]models.Repo, error)
}

// Storage persists collection snapshots and sync bookkeeping.
type Storage interface {
	Load() (models.Collection, error)
	Save(models.Collection) error
	RecordSyncTime(time.Time) error
}

// TokenKeeper owns the stored credential.
type TokenKeeper interface {
	Present() bool
	Clear() error
}

// Engine coordinates imports against local storage.
type Engine struct {
	client RemoteClient
	store  Storage
	tokens TokenKeeper
	logger *log.Logger

	mu    sync.Mutex
	state State
}

// NewEngine creates an import engine.
func NewEngine(client RemoteClient, store Storage, tokens TokenKeeper, logger *log.Logger) *Engine {
	return &Engine{client: client, store: store, tokens: tokens, logger: logger}
}

// State returns the engine's current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// begin transitions to Importing, rejecting concurrent imports.
func (e *Engine) begin() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == Importing {
		return ErrImportInFlight
	}
	e.state = Importing
	return nil
}

func (e *Engine) finish(s State) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
}

// Import runs the full pipeline: validate, fetch both collections, merge,
// save, and stamp the sync time. Progress updates are sent to progress with
// a non-blocking send; a nil or slow consumer never stalls the import.
//
// An invalid token is cleared before the error is returned. A rate-limited
// or network failure leaves the token and the stored snapshot untouched.
func (e *Engine) Import(ctx context.Context, progress chan<- ProgressUpdate) (MergeResult, error) {
	if err := e.begin(); err != nil {
		return MergeResult{}, err
	}

	result, err := e.runImport(ctx, progress)
	if err != nil {
		e.finish(Errored)
		e.send(progress, erroredUpdate(err))
		return MergeResult{}, err
	}

	e.finish(Idle)
	e.send(progress, doneUpdate(result.Added()))
	return result, nil
}

func (e *Engine) runImport(ctx context.Context, progress chan<- ProgressUpdate) (MergeResult, error) {
	if !e.tokens.Present() {
		return MergeResult{}, github.ErrNoToken
	}

	e.send(progress, validatingUpdate())
	validation := e.client.ValidateToken(ctx)
	if !validation.Valid {
		return MergeResult{}, e.handleAuthFailure(validation.Err)
	}
	e.logger.Info("token validated", "username", validation.Username)

	ownedTotal := 0
	owned, err := e.client.FetchOwned(ctx, func(page, items int) {
		ownedTotal += items
		e.send(progress, fetchingUpdate("owned", page, ownedTotal))
	})
	if err != nil {
		return MergeResult{}, e.handleAuthFailure(err)
	}

	starredTotal := 0
	starred, err := e.client.FetchStarred(ctx, func(page, items int) {
		starredTotal += items
		e.send(progress, fetchingUpdate("starred", page, starredTotal))
	})
	if err != nil {
		return MergeResult{}, e.handleAuthFailure(err)
	}

	e.send(progress, mergingUpdate(len(owned), len(starred)))
	existing, err := e.store.Load()
	if err != nil {
		return MergeResult{}, fmt.Errorf("failed to load collection: %w", err)
	}
	result := Merge(existing, owned, starred)

	e.send(progress, savingUpdate())
	if err := e.store.Save(result.Collection); err != nil {
		return MergeResult{}, fmt.Errorf("failed to save collection: %w", err)
	}
	if err := e.store.RecordSyncTime(time.Now()); err != nil {
		e.logger.Warn("failed to record sync time", "error", err)
	}

	e.logger.Info("import complete",
		"owned", len(result.Collection.Owned),
		"starred", len(result.Collection.Starred),
		"added", result.Added())
	return result, nil
}

// handleAuthFailure clears the stored token when the API rejected it.
// Every other failure passes through unchanged.
func (e *Engine) handleAuthFailure(err error) error {
	var invalid *github.InvalidTokenError
	if errors.As(err, &invalid) {
		if clearErr := e.tokens.Clear(); clearErr != nil {
			e.logger.Warn("failed to clear rejected token", "error", clearErr)
		} else {
			e.logger.Info("cleared rejected token")
		}
	}
	return err
}

func (e *Engine) send(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
