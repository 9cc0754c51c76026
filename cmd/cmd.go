// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// serveCommand starts the web interface
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the songbook web server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Interface to listen on (overrides config)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the songbook in the default browser once listening",
			},
		},
		Action: r.Serve,
	}
}

// setupCommand handles setup operations for the database and configuration file.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Write the example configuration file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output path for the config file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// dbCommand handles database diagnostics and maintenance
func dbCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "db",
		Usage: "Database diagnostics",
		Commands: []*cli.Command{
			{
				Name:   "check",
				Usage:  "List tables, the songs columns and applied migrations",
				Action: r.DBCheck,
			},
			{
				Name:   "rollback",
				Usage:  "Roll back the most recent migration",
				Action: r.DBRollback,
			},
		},
	}
}

// songsCommand handles song records from the terminal
func songsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "songs",
		Aliases: []string{"song"},
		Usage:   "Manage songs",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List songs by ID",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "plain",
						Usage: "One 'ID: n, Title: t' line per song",
					},
				},
				Action: r.SongsList,
			},
			{
				Name:  "show",
				Usage: "Print a song with its lyrics",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.SongsShow,
			},
			{
				Name:  "add",
				Usage: "Add a song",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "title",
						Aliases: []string{"t"},
						Usage:   "Song title",
					},
					&cli.StringFlag{
						Name:    "lyrics",
						Aliases: []string{"l"},
						Usage:   "Song lyrics",
					},
					&cli.StringFlag{
						Name:  "lyrics-file",
						Usage: "Read lyrics from a file (- for stdin)",
					},
				},
				Action: r.SongsAdd,
			},
			{
				Name:    "delete",
				Aliases: []string{"rm"},
				Usage:   "Delete a song by ID",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.SongsDelete,
			},
			{
				Name:  "export",
				Usage: "Export every song to CSV, Markdown, text or JSON",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: csv, markdown, text, json",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (default: stdout)",
					},
					&cli.BoolFlag{
						Name:  "save",
						Usage: "Save to songbook.<ext> in the working directory",
					},
				},
				Action: r.SongsExport,
			},
			{
				Name:    "browse",
				Aliases: []string{"ui", "tui"},
				Usage:   "Browse, read and delete songs interactively",
				Action:  r.SongsBrowse,
			},
		},
	}
}
