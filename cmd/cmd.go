// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/trackport/internal/formatter"
	"github.com/urfave/cli/v3"
)

// setupCommand handles database setup and migrations.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Create config.toml if missing, initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:   "status",
				Usage:  "Show the current schema version",
				Action: r.SetupStatus,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recent migration",
				Action: r.SetupRollback,
			},
		},
	}
}

// serveCommand runs the JSON API.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the track catalog HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (default from config)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Listen port (default from config)",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the track list in a browser once the server is up",
			},
		},
		Action: r.Serve,
	}
}

// tracksCommand handles stored track operations.
func tracksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tracks",
		Aliases: []string{"t"},
		Usage:   "Import and manage stored tracks",
		Commands: []*cli.Command{
			{
				Name:      "import",
				Usage:     "Import a track by Spotify URL, URI or id",
				ArgsUsage: "<url-or-id>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "input"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "file",
						Aliases: []string{"f"},
						Usage:   "Import every identifier in a file, one per line (- for stdin)",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent imports for --file (default from config)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.TracksImport,
			},
			{
				Name:  "list",
				Usage: "List stored tracks, newest first",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.TracksList,
			},
			{
				Name:      "show",
				Usage:     "Show one stored track",
				ArgsUsage: "<id>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "raw",
						Usage: "Include the stored Spotify payload in JSON output",
					},
				},
				Action: r.TracksShow,
			},
			{
				Name:      "edit",
				Usage:     "Edit a track's title or BPM",
				ArgsUsage: "<id>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "title",
						Usage: "New title",
					},
					&cli.IntFlag{
						Name:  "bpm",
						Usage: "Tempo in beats per minute",
					},
					&cli.BoolFlag{
						Name:  "clear-bpm",
						Usage: "Remove the stored BPM",
					},
				},
				Action: r.TracksEdit,
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a stored track",
				ArgsUsage: "<id>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.TracksDelete,
			},
			{
				Name:  "export",
				Usage: "Export stored tracks to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "format",
						Usage: "Export format: csv, markdown, txt or json",
						Value: formatter.FormatCSV,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (- for stdout, default tracks.<ext>)",
					},
				},
				Action: r.TracksExport,
			},
		},
	}
}

// catalogCommand handles direct Spotify catalog lookups.
func catalogCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "catalog",
		Usage: "Query the Spotify catalog without storing anything",
		Commands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Search Spotify for tracks",
				ArgsUsage: "<query>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "query"},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"l"},
						Usage:   "Maximum number of results (1-50)",
						Value:   20,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.CatalogSearch,
			},
			{
				Name:      "track",
				Usage:     "Fetch one track from Spotify",
				ArgsUsage: "<url-or-id>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "input"},
				},
				Action: r.CatalogTrack,
			},
			{
				Name:      "album",
				Usage:     "Fetch one album from Spotify",
				ArgsUsage: "<url-or-id>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "input"},
				},
				Action: r.CatalogAlbum,
			},
			{
				Name:      "artist",
				Usage:     "Fetch one artist from Spotify",
				ArgsUsage: "<url-or-id>",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "input"},
				},
				Action: r.CatalogArtist,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for browsing the catalog.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive track browser",
		Action:  r.TUI,
	}
}
