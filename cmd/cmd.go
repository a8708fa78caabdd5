// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand initializes the config file and the session database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create the config file and initialize the session database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
		},
		Action: r.Setup,
	}
}

// authCommand handles the Google sign-in lifecycle.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the Google sign-in used for playlist writes",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Sign in with Google via the browser",
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Show the current sign-in state",
				Action: r.AuthStatus,
			},
			{
				Name:   "logout",
				Usage:  "Discard the stored session",
				Action: r.AuthLogout,
			},
		},
	}
}

// songsCommand handles catalog operations
func songsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "songs",
		Usage: "Browse the song catalog",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List songs in the catalog folder",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.SongsList,
			},
			{
				Name:  "show",
				Usage: "Print the text of one song document",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Action: r.SongsShow,
			},
		},
	}
}

// playlistCommand handles shared playlist operations
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlist",
		Aliases: []string{"pl"},
		Usage:   "Read and edit the shared playlist",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the playlist in performance order",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.PlaylistShow,
			},
			{
				Name:  "toggle",
				Usage: "Flip a song's membership: add, select, or drop it",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "song-id",
					},
				},
				Action: r.PlaylistToggle,
			},
			{
				Name:  "add",
				Usage: "Append a song to the end of the playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "song-id",
					},
				},
				Action: r.PlaylistAdd,
			},
			{
				Name:  "remove",
				Usage: "Delete a song from the playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "song-id",
					},
				},
				Action: r.PlaylistRemove,
			},
			{
				Name:      "reorder",
				Usage:     "Replace the playlist order with the given song ids",
				ArgsUsage: "song-id [song-id...]",
				Action:    r.PlaylistReorder,
			},
			{
				Name:  "export",
				Usage: "Export the playlist as JSON or CSV",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: json or csv",
						Value:   "json",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (defaults to stdout)",
					},
				},
				Action: r.PlaylistExport,
			},
		},
	}
}

// tuiCommand launches the interactive song browser.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Browse the catalog and toggle playlist membership interactively",
		Action: r.TUI,
	}
}
