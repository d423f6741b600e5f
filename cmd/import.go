package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ghshelf/ghshelf/internal/github"
	"github.com/ghshelf/ghshelf/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Import fetches owned and starred repositories and merges them into the
// local collection.
func (r *Runner) Import(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("tui") {
		return r.TUI(ctx, cmd)
	}

	s, keeper, closeDB, err := r.openKeeper()
	if err != nil {
		return err
	}
	defer closeDB()

	engine := tasks.NewEngine(r.newClient(keeper.Get()), s, keeper, r.logger)

	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			if update.Phase == tasks.PhaseFetching {
				r.writePlain("  %s\n", update.Message)
			}
		}
	}()

	result, err := engine.Import(ctx, progress)
	close(progress)
	<-done
	if err != nil {
		return describeImportError(err)
	}

	if cmd.Bool("json") {
		summary := struct {
			Owned        int `json:"owned"`
			Starred      int `json:"starred"`
			AddedOwned   int `json:"addedOwned"`
			AddedStarred int `json:"addedStarred"`
		}{
			Owned:        len(result.Collection.Owned),
			Starred:      len(result.Collection.Starred),
			AddedOwned:   result.AddedOwned,
			AddedStarred: result.AddedStarred,
		}
		return r.writeJSON(summary, true)
	}

	r.writePlain("✓ Import complete\n")
	r.writePlain("  Owned: %d (%d new)\n", len(result.Collection.Owned), result.AddedOwned)
	r.writePlain("  Starred: %d (%d new)\n", len(result.Collection.Starred), result.AddedStarred)
	return nil
}

// describeImportError attaches a next step to the common failure modes.
func describeImportError(err error) error {
	var limited *github.RateLimitedError
	var invalid *github.InvalidTokenError
	switch {
	case errors.As(err, &limited):
		return fmt.Errorf("%w. Try again after the reset, or run 'ghshelf ratelimit' to check", err)
	case errors.As(err, &invalid):
		return fmt.Errorf("%w. The stored token was cleared; run 'ghshelf token set' with a fresh one", err)
	default:
		return err
	}
}

// RateLimit reports the GitHub API quota for the stored token.
func (r *Runner) RateLimit(ctx context.Context, cmd *cli.Command) error {
	_, keeper, closeDB, err := r.openKeeper()
	if err != nil {
		return err
	}
	defer closeDB()

	tok := keeper.Get()
	if tok == "" {
		return github.ErrNoToken
	}

	status := r.newClient(tok).RateLimit(ctx)
	if status == nil {
		return fmt.Errorf("failed to fetch rate limit status")
	}

	if cmd.Bool("json") {
		return r.writeJSON(status, true)
	}

	r.writePlain("Limit: %d\n", status.Limit)
	r.writePlain("Remaining: %d\n", status.Remaining)
	r.writePlain("Resets: %s\n", status.ResetAt.Local().Format(time.RFC1123))
	return nil
}
