package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ghshelf/ghshelf/internal/formatter"
	"github.com/ghshelf/ghshelf/internal/shared"
	"github.com/urfave/cli/v3"
)

// Export writes the tracked collection in the requested format. JSON goes to
// a date-stamped file by default; csv and markdown print to stdout unless an
// output path is given.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	s, closeDB, err := r.openStore()
	if err != nil {
		return err
	}
	defer closeDB()

	collection, err := s.Load()
	if err != nil {
		return err
	}

	output := cmd.String("output")

	switch format := cmd.String("format"); format {
	case "json":
		path, err := formatter.WriteJSONExport(collection, output)
		if err != nil {
			return err
		}
		r.logger.Info("collection exported", "path", path)
		r.writePlain("✓ Exported to %s\n", path)
		return nil

	case "csv":
		data, err := formatter.ExportToCSV(collection)
		if err != nil {
			return err
		}
		return r.writeExport(data, output)

	case "markdown", "md":
		data, err := formatter.ExportToMarkdown(collection)
		if err != nil {
			return err
		}
		return r.writeExport(data, output)

	default:
		return fmt.Errorf("%w: unknown format %q (want json, csv, or markdown)", shared.ErrInvalidFlag, format)
	}
}

func (r *Runner) writeExport(data []byte, path string) error {
	if path == "" {
		_, err := r.output.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	r.writePlain("✓ Exported to %s\n", path)
	return nil
}
