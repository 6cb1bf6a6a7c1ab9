package main

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/mytunes/internal/formatter"
	"github.com/desertthunder/mytunes/internal/models"
	"github.com/desertthunder/mytunes/internal/shared"
	"github.com/desertthunder/mytunes/internal/ui"
)

func (r *Runner) ListPlaylists(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.open(ctx, cmd)
	if err != nil {
		return err
	}

	playlists, err := lib.ListPlaylists(ctx)
	if err != nil {
		return fmt.Errorf("failed to list playlists: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, true)
	}
	return r.writePlainln("%s", ui.PlaylistList(playlists))
}

func (r *Runner) CreatePlaylist(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: playlist name", shared.ErrMissingArgument)
	}

	lib, err := r.open(ctx, cmd)
	if err != nil {
		return err
	}

	playlist := models.NewPlaylist(name)
	if err := lib.CreatePlaylist(ctx, playlist); err != nil {
		return fmt.Errorf("failed to create playlist: %w", err)
	}
	return r.writePlainln("%s %d %s", ui.OK("✓ created"), playlist.ID, playlist)
}

func (r *Runner) RenamePlaylist(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.open(ctx, cmd)
	if err != nil {
		return err
	}

	playlist := &models.Playlist{ID: cmd.Int64("playlist"), Name: cmd.String("name")}
	if err := lib.RenamePlaylist(ctx, playlist); err != nil {
		return fmt.Errorf("failed to rename playlist: %w", err)
	}
	return r.writePlainln("%s %d %s", ui.OK("✓ renamed"), playlist.ID, playlist)
}

func (r *Runner) DeletePlaylist(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.open(ctx, cmd)
	if err != nil {
		return err
	}

	id := cmd.Int64("playlist")
	deleted, err := lib.DeletePlaylist(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}
	if !deleted {
		return r.writePlainln("%s", ui.Warn(fmt.Sprintf("no playlist with id %d", id)))
	}
	return r.writePlainln("%s %d", ui.OK("✓ deleted"), id)
}

// ShowPlaylist prints the playlist's songs with their positions.
func (r *Runner) ShowPlaylist(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.open(ctx, cmd)
	if err != nil {
		return err
	}

	songs, err := lib.ListPlaylistSongs(ctx, cmd.Int64("playlist"))
	if err != nil {
		return fmt.Errorf("failed to list playlist songs: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(songs, true)
	}
	return r.writePlainln("%s", ui.SongTable(songs, true))
}

func (r *Runner) AppendEntry(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.open(ctx, cmd)
	if err != nil {
		return err
	}

	playlistID, songID := cmd.Int64("playlist"), cmd.Int64("song")
	if err := lib.AppendEntry(ctx, playlistID, songID); err != nil {
		return fmt.Errorf("failed to append song: %w", err)
	}
	return r.writePlainln("%s song %d to playlist %d", ui.OK("✓ appended"), songID, playlistID)
}

func (r *Runner) RemoveEntry(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.open(ctx, cmd)
	if err != nil {
		return err
	}

	playlistID, pos := cmd.Int64("playlist"), cmd.Int("pos")
	if err := lib.RemoveAtPosition(ctx, playlistID, pos); err != nil {
		return fmt.Errorf("failed to remove entry: %w", err)
	}
	return r.writePlainln("%s position %d", ui.OK("✓ removed"), pos)
}

func (r *Runner) MoveEntry(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.open(ctx, cmd)
	if err != nil {
		return err
	}

	playlistID, from, to := cmd.Int64("playlist"), cmd.Int("from"), cmd.Int("to")
	if err := lib.Move(ctx, playlistID, from, to); err != nil {
		return fmt.Errorf("failed to move entry: %w", err)
	}
	return r.writePlainln("%s %d → %d", ui.OK("✓ moved"), from, to)
}

// ExportPlaylist writes the playlist in the requested format and prints the file path.
func (r *Runner) ExportPlaylist(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	lib, err := r.open(ctx, cmd)
	if err != nil {
		return err
	}

	id := cmd.Int64("playlist")
	playlists, err := lib.ListPlaylists(ctx)
	if err != nil {
		return fmt.Errorf("failed to list playlists: %w", err)
	}

	idx := slices.IndexFunc(playlists, func(p models.Playlist) bool { return p.ID == id })
	if idx < 0 {
		return fmt.Errorf("%w: %d", shared.ErrPlaylistNotFound, id)
	}

	songs, err := lib.ListPlaylistSongs(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to list playlist songs: %w", err)
	}

	path, err := formatter.WriteExport(&formatter.Export{Playlist: playlists[idx], Songs: songs}, format, cmd.String("output"))
	if err != nil {
		return err
	}

	r.logger.Info("playlist exported", "playlist", id, "format", format, "songs", len(songs))
	return r.writePlainln("%s %s", ui.OK("✓ exported"), path)
}
