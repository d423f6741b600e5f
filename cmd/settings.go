package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ghshelf/ghshelf/internal/models"
	"github.com/ghshelf/ghshelf/internal/shared"
	"github.com/urfave/cli/v3"
)

// SettingsShow prints the effective display settings for both collections.
func (r *Runner) SettingsShow(ctx context.Context, cmd *cli.Command) error {
	s, closeDB, err := r.openStore()
	if err != nil {
		return err
	}
	defer closeDB()

	settings := s.LoadSettings()

	if cmd.Bool("json") {
		return r.writeJSON(settings, true)
	}

	for _, typ := range models.CollectionTypes {
		r.writePlain("%s:\n", typ)
		card := settings.Card(typ)
		for _, key := range models.ElementKeys {
			marker := "✓"
			if !card[key] {
				marker = "✗"
			}
			r.writePlain("  %s %s\n", marker, key)
		}
	}
	return nil
}

// SettingsSet toggles one card element for one collection.
func (r *Runner) SettingsSet(ctx context.Context, cmd *cli.Command) error {
	typ, err := models.ParseCollectionType(cmd.StringArg("collection"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}
	key, ok := models.ParseElementKey(cmd.StringArg("element"))
	if !ok {
		return fmt.Errorf("%w: unknown element %q", shared.ErrInvalidArgument, cmd.StringArg("element"))
	}
	value, err := strconv.ParseBool(cmd.StringArg("value"))
	if err != nil {
		return fmt.Errorf("%w: value must be true or false", shared.ErrInvalidArgument)
	}

	s, closeDB, err := r.openStore()
	if err != nil {
		return err
	}
	defer closeDB()

	settings := s.LoadSettings()
	settings.Set(typ, key, value)
	if err := s.SaveSettings(settings); err != nil {
		return err
	}

	r.writePlain("✓ %s.%s = %t\n", typ, key, value)
	return nil
}

// SettingsReset restores the defaults, making every element visible.
func (r *Runner) SettingsReset(ctx context.Context, cmd *cli.Command) error {
	s, closeDB, err := r.openStore()
	if err != nil {
		return err
	}
	defer closeDB()

	if err := s.SaveSettings(models.DefaultSettings()); err != nil {
		return err
	}
	r.writePlain("✓ Settings reset to defaults\n")
	return nil
}
