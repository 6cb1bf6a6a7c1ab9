package library

import (
	"context"

	"github.com/desertthunder/mytunes/internal/models"
)

// ListPlaylists returns every playlist ordered by name, ignoring case.
func (l *Library) ListPlaylists(ctx context.Context) ([]models.Playlist, error) {
	return call(l, "list_playlists", func(b Backend) ([]models.Playlist, error) {
		return b.ListPlaylists(ctx)
	})
}

func (l *Library) CreatePlaylist(ctx context.Context, playlist *models.Playlist) error {
	return exec(l, "create_playlist", func(b Backend) error {
		return b.CreatePlaylist(ctx, playlist)
	})
}

func (l *Library) RenamePlaylist(ctx context.Context, playlist *models.Playlist) error {
	return exec(l, "rename_playlist", func(b Backend) error {
		return b.RenamePlaylist(ctx, playlist)
	})
}

func (l *Library) DeletePlaylist(ctx context.Context, id int64) (bool, error) {
	return call(l, "delete_playlist", func(b Backend) (bool, error) {
		return b.DeletePlaylist(ctx, id)
	})
}

// ListPlaylistSongs returns the playlist's songs in position order.
func (l *Library) ListPlaylistSongs(ctx context.Context, playlistID int64) ([]models.Song, error) {
	return call(l, "list_playlist_songs", func(b Backend) ([]models.Song, error) {
		return b.ListPlaylistSongs(ctx, playlistID)
	})
}

// AppendEntry adds songID at the end of the playlist.
func (l *Library) AppendEntry(ctx context.Context, playlistID, songID int64) error {
	return exec(l, "append_entry", func(b Backend) error {
		return b.AppendEntry(ctx, playlistID, songID)
	})
}

// RemoveAtPosition removes the entry at position; later entries move up by one.
func (l *Library) RemoveAtPosition(ctx context.Context, playlistID int64, position int) error {
	return exec(l, "remove_entry", func(b Backend) error {
		return b.RemoveAtPosition(ctx, playlistID, position)
	})
}

// Move relocates the entry at from so that it ends up at to.
func (l *Library) Move(ctx context.Context, playlistID int64, from, to int) error {
	return exec(l, "move_entry", func(b Backend) error {
		return b.Move(ctx, playlistID, from, to)
	})
}
