// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "json",
		Usage: "Output raw JSON",
	}
}

func playlistFlag() cli.Flag {
	return &cli.Int64Flag{
		Name:     "playlist",
		Aliases:  []string{"p"},
		Usage:    "Playlist ID",
		Required: true,
	}
}

// songsCommand handles library songs
func songsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "songs",
		Usage: "Song operations",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List songs, optionally filtered by title or artist",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "search",
						Aliases: []string{"s"},
						Usage:   "Case-insensitive text to match against title or artist",
					},
					jsonFlag(),
				},
				Action: r.ListSongs,
			},
			{
				Name:   "add",
				Usage:  "Add a song to the library",
				Flags:  songFlags(false),
				Action: r.AddSong,
			},
			{
				Name:   "update",
				Usage:  "Update a song",
				Flags:  songFlags(true),
				Action: r.UpdateSong,
			},
			{
				Name:    "rm",
				Aliases: []string{"delete"},
				Usage:   "Delete a song and remove it from every playlist",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "id", Usage: "Song ID", Required: true},
				},
				Action: r.DeleteSong,
			},
		},
	}
}

func songFlags(withID bool) []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{Name: "title", Usage: "Song title", Required: true},
		&cli.StringFlag{Name: "artist", Usage: "Song artist", Required: true},
		&cli.StringFlag{Name: "file", Usage: "Path to the audio file", Required: true},
		&cli.IntFlag{Name: "duration", Usage: "Duration in seconds"},
	}
	if withID {
		flags = append([]cli.Flag{&cli.Int64Flag{Name: "id", Usage: "Song ID", Required: true}}, flags...)
	}
	return flags
}

// playlistsCommand handles playlists and their ordered entries
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"pl"},
		Usage:   "Playlist operations",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List playlists",
				Flags:   []cli.Flag{jsonFlag()},
				Action:  r.ListPlaylists,
			},
			{
				Name:  "create",
				Usage: "Create a playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "name",
					},
				},
				Action: r.CreatePlaylist,
			},
			{
				Name:  "rename",
				Usage: "Rename a playlist",
				Flags: []cli.Flag{
					playlistFlag(),
					&cli.StringFlag{Name: "name", Usage: "New name", Required: true},
				},
				Action: r.RenamePlaylist,
			},
			{
				Name:    "rm",
				Aliases: []string{"delete"},
				Usage:   "Delete a playlist",
				Flags:   []cli.Flag{playlistFlag()},
				Action:  r.DeletePlaylist,
			},
			{
				Name:   "show",
				Usage:  "Show the songs of a playlist in order",
				Flags:  []cli.Flag{playlistFlag(), jsonFlag()},
				Action: r.ShowPlaylist,
			},
			{
				Name:  "export",
				Usage: "Write a playlist to a file (csv, md, txt, m3u)",
				Flags: []cli.Flag{
					playlistFlag(),
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: csv, md, txt or m3u",
						Value:   "m3u",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path",
					},
				},
				Action: r.ExportPlaylist,
			},
			{
				Name:  "append",
				Usage: "Append a song to the end of a playlist",
				Flags: []cli.Flag{
					playlistFlag(),
					&cli.Int64Flag{Name: "song", Usage: "Song ID", Required: true},
				},
				Action: r.AppendEntry,
			},
			{
				Name:  "remove",
				Usage: "Remove the entry at a position",
				Flags: []cli.Flag{
					playlistFlag(),
					&cli.IntFlag{Name: "pos", Usage: "0-based position", Required: true},
				},
				Action: r.RemoveEntry,
			},
			{
				Name:  "move",
				Usage: "Move the entry at one position to another",
				Flags: []cli.Flag{
					playlistFlag(),
					&cli.IntFlag{Name: "from", Usage: "Current 0-based position", Required: true},
					&cli.IntFlag{Name: "to", Usage: "Target 0-based position", Required: true},
				},
				Action: r.MoveEntry,
			},
		},
	}
}
