package library

import (
	"context"

	"github.com/desertthunder/mytunes/internal/models"
)

// ListSongs returns every song ordered by title, ignoring case.
func (l *Library) ListSongs(ctx context.Context) ([]models.Song, error) {
	return call(l, "list_songs", func(b Backend) ([]models.Song, error) {
		return b.ListSongs(ctx)
	})
}

// SearchSongs returns songs whose title or artist contains text, ignoring case.
// Blank text returns every song.
func (l *Library) SearchSongs(ctx context.Context, text string) ([]models.Song, error) {
	return call(l, "search_songs", func(b Backend) ([]models.Song, error) {
		return b.SearchSongs(ctx, text)
	})
}

// CreateSong persists song and sets its ID.
func (l *Library) CreateSong(ctx context.Context, song *models.Song) error {
	return exec(l, "create_song", func(b Backend) error {
		return b.CreateSong(ctx, song)
	})
}

func (l *Library) UpdateSong(ctx context.Context, song *models.Song) error {
	return exec(l, "update_song", func(b Backend) error {
		return b.UpdateSong(ctx, song)
	})
}

// DeleteSong removes the song from the library and from every playlist containing it.
// It reports whether the song existed.
func (l *Library) DeleteSong(ctx context.Context, id int64) (bool, error) {
	return call(l, "delete_song", func(b Backend) (bool, error) {
		return b.DeleteSong(ctx, id)
	})
}
