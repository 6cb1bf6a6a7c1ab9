package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/mytunes/internal/models"
	"github.com/desertthunder/mytunes/internal/ui"
)

// ListSongs prints every song, or the songs matching --search.
func (r *Runner) ListSongs(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.open(ctx, cmd)
	if err != nil {
		return err
	}

	songs, err := lib.SearchSongs(ctx, cmd.String("search"))
	if err != nil {
		return fmt.Errorf("failed to list songs: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(songs, true)
	}
	return r.writePlainln("%s", ui.SongTable(songs, false))
}

// AddSong creates a song from flags and prints its ID.
func (r *Runner) AddSong(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.open(ctx, cmd)
	if err != nil {
		return err
	}

	song := models.NewSong(cmd.String("title"), cmd.String("artist"), cmd.Int("duration"), cmd.String("file"))
	if err := lib.CreateSong(ctx, song); err != nil {
		return fmt.Errorf("failed to add song: %w", err)
	}

	r.logger.Debug("song created", "id", song.ID, "backend", lib.Backend())
	return r.writePlainln("%s %d %s", ui.OK("✓ added"), song.ID, song)
}

func (r *Runner) UpdateSong(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.open(ctx, cmd)
	if err != nil {
		return err
	}

	song := models.NewSong(cmd.String("title"), cmd.String("artist"), cmd.Int("duration"), cmd.String("file"))
	song.ID = cmd.Int64("id")
	if err := lib.UpdateSong(ctx, song); err != nil {
		return fmt.Errorf("failed to update song: %w", err)
	}
	return r.writePlainln("%s %d %s", ui.OK("✓ updated"), song.ID, song)
}

func (r *Runner) DeleteSong(ctx context.Context, cmd *cli.Command) error {
	lib, err := r.open(ctx, cmd)
	if err != nil {
		return err
	}

	id := cmd.Int64("id")
	deleted, err := lib.DeleteSong(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}
	if !deleted {
		return r.writePlainln("%s", ui.Warn(fmt.Sprintf("no song with id %d", id)))
	}
	return r.writePlainln("%s %d", ui.OK("✓ deleted"), id)
}
