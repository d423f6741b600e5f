package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/ghshelf/ghshelf/internal/shared"
	"github.com/urfave/cli/v3"
)

// TokenSet validates and stores a GitHub personal access token.
func (r *Runner) TokenSet(ctx context.Context, cmd *cli.Command) error {
	tok := strings.TrimSpace(cmd.StringArg("token"))
	if tok == "" {
		return fmt.Errorf("%w: token argument is required", shared.ErrMissingArgument)
	}

	if !cmd.Bool("no-verify") {
		client := r.newClient(tok)
		validation := client.ValidateToken(ctx)
		if !validation.Valid {
			return fmt.Errorf("token rejected: %w", validation.Err)
		}
		r.writePlain("✓ Token verified for %s\n", validation.Username)
	}

	_, keeper, closeDB, err := r.openKeeper()
	if err != nil {
		return err
	}
	defer closeDB()

	if err := keeper.Set(tok); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	r.logger.Info("token stored")
	r.writePlain("Token saved\n")
	return nil
}

// TokenClear removes the stored token.
func (r *Runner) TokenClear(ctx context.Context, cmd *cli.Command) error {
	_, keeper, closeDB, err := r.openKeeper()
	if err != nil {
		return err
	}
	defer closeDB()

	if err := keeper.Clear(); err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	r.writePlain("Token cleared\n")
	return nil
}

// TokenStatus reports whether a token is stored and which account it
// authenticates. The status call is best effort.
func (r *Runner) TokenStatus(ctx context.Context, cmd *cli.Command) error {
	_, keeper, closeDB, err := r.openKeeper()
	if err != nil {
		return err
	}
	defer closeDB()

	tok := keeper.Get()
	status := struct {
		Present  bool   `json:"present"`
		Valid    bool   `json:"valid"`
		Username string `json:"username,omitempty"`
	}{Present: tok != ""}

	if status.Present {
		validation := r.newClient(tok).ValidateToken(ctx)
		status.Valid = validation.Valid
		status.Username = validation.Username
	}

	if cmd.Bool("json") {
		return r.writeJSON(status, true)
	}

	switch {
	case !status.Present:
		r.writePlain("No token stored\n")
	case status.Valid:
		r.writePlain("✓ Token stored, authenticated as %s\n", status.Username)
	default:
		r.writePlain("Token stored but not currently valid\n")
	}
	return nil
}
