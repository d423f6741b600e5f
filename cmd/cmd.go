// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, tokenCommand, importCommand, repoCommand, settingsCommand, exportCommand, ratelimitCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func configFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// setupCommand initializes the database, migrations, and config file.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize database and configuration",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}

// tokenCommand manages the GitHub personal access token.
func tokenCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Manage the GitHub access token",
		Commands: []*cli.Command{
			{
				Name:  "set",
				Usage: "Store a GitHub personal access token",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "token"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "no-verify",
						Usage: "Skip the API validation call",
					},
				},
				Action: r.TokenSet,
			},
			{
				Name:   "clear",
				Usage:  "Remove the stored token",
				Action: r.TokenClear,
			},
			{
				Name:  "status",
				Usage: "Show whether a token is stored and who it authenticates",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.TokenStatus,
			},
		},
	}
}

// importCommand runs the GitHub import pipeline.
func importCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "import",
		Aliases: []string{"sync"},
		Usage:   "Import owned and starred repositories from GitHub",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "tui",
				Usage: "Run the import in the interactive TUI",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the merge summary as JSON",
			},
		},
		Action: r.Import,
	}
}

// repoCommand manages manually tracked repositories.
func repoCommand(r *Runner) *cli.Command {
	collectionFlag := &cli.StringFlag{
		Name:    "collection",
		Aliases: []string{"t"},
		Usage:   "Collection to operate on (owned or starred)",
		Value:   "owned",
	}

	return &cli.Command{
		Name:  "repo",
		Usage: "Manage tracked repositories",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Add a repository by hand",
				Flags: []cli.Flag{
					collectionFlag,
					&cli.StringFlag{Name: "name", Usage: "Repository name", Required: true},
					&cli.StringFlag{Name: "url", Usage: "Repository URL", Required: true},
					&cli.StringFlag{Name: "owner", Usage: "Repository owner"},
					&cli.StringFlag{Name: "description", Usage: "Repository description"},
					&cli.StringFlag{Name: "language", Usage: "Primary language"},
					&cli.BoolFlag{Name: "private", Usage: "Mark as private"},
				},
				Action: r.RepoAdd,
			},
			{
				Name:  "edit",
				Usage: "Update fields of a tracked repository",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					collectionFlag,
					&cli.StringFlag{Name: "name", Usage: "New name"},
					&cli.StringFlag{Name: "description", Usage: "New description"},
					&cli.StringFlag{Name: "language", Usage: "New language"},
					&cli.StringFlag{Name: "url", Usage: "New URL"},
				},
				Action: r.RepoEdit,
			},
			{
				Name:    "delete",
				Aliases: []string{"rm"},
				Usage:   "Remove a tracked repository",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  []cli.Flag{collectionFlag},
				Action: r.RepoDelete,
			},
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List tracked repositories",
				Flags: []cli.Flag{
					collectionFlag,
					&cli.StringFlag{
						Name:    "search",
						Aliases: []string{"s"},
						Usage:   "Filter by name, description, language, or topic",
					},
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output", Value: true},
				},
				Action: r.RepoList,
			},
		},
	}
}

// settingsCommand manages per-collection card display settings.
func settingsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "Manage card display settings",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show current display settings",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.SettingsShow,
			},
			{
				Name:  "set",
				Usage: "Toggle one card element for a collection",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "collection"},
					&cli.StringArg{Name: "element"},
					&cli.StringArg{Name: "value"},
				},
				Action: r.SettingsSet,
			},
			{
				Name:   "reset",
				Usage:  "Restore every element to visible",
				Action: r.SettingsReset,
			},
		},
	}
}

// exportCommand writes the collection to a file or stdout.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export the tracked collection",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format (json, csv, or markdown)",
				Value:   "json",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path (default: github-repos-<date>.json, or stdout for csv/markdown)",
			},
		},
		Action: r.Export,
	}
}

// ratelimitCommand reports the GitHub API quota for the stored token.
func ratelimitCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "ratelimit",
		Usage: "Show the GitHub API rate limit for the stored token",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
		},
		Action: r.RateLimit,
	}
}

// tuiCommand returns the top-level TUI command for interactive imports.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive TUI for importing repositories",
		Action:  r.TUI,
	}
}
