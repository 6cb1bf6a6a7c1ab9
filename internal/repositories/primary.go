package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/desertthunder/mytunes/internal/models"
	"github.com/desertthunder/mytunes/internal/shared"
)

// Primary is the relational backend of the library, composed of the three repositories.
type Primary struct {
	db        *sql.DB
	dialect   shared.Dialect
	Songs     *SongRepository
	Playlists *PlaylistRepository
	Entries   *PlaylistSongRepository
}

// NewPrimary wires the repositories for db.
func NewPrimary(db *sql.DB, dialect shared.Dialect) *Primary {
	return &Primary{
		db:        db,
		dialect:   dialect,
		Songs:     NewSongRepository(db, dialect),
		Playlists: NewPlaylistRepository(db, dialect),
		Entries:   NewPlaylistSongRepository(db, dialect),
	}
}

// Init applies any pending schema migrations.
func (p *Primary) Init(ctx context.Context) error {
	if err := p.db.PingContext(ctx); err != nil {
		return classify(fmt.Errorf("failed to reach %s: %w", p.dialect, err))
	}
	if err := shared.RunMigrations(p.db, p.dialect); err != nil {
		return classify(fmt.Errorf("failed to run migrations: %w", err))
	}
	return nil
}

// Rollback reverts the most recent schema migration.
func (p *Primary) Rollback(ctx context.Context) error {
	if err := p.db.PingContext(ctx); err != nil {
		return classify(fmt.Errorf("failed to reach %s: %w", p.dialect, err))
	}
	if err := shared.RollbackMigration(p.db, p.dialect); err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}
	return nil
}

func (p *Primary) Name() string { return "primary" }

// Dialect reports the SQL dialect the primary speaks.
func (p *Primary) Dialect() shared.Dialect { return p.dialect }

// PingContext lets the health controller probe the primary.
func (p *Primary) PingContext(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func (p *Primary) Close() error {
	return p.db.Close()
}

func (p *Primary) ListSongs(ctx context.Context) ([]models.Song, error) {
	return p.Songs.List(ctx)
}

func (p *Primary) SearchSongs(ctx context.Context, text string) ([]models.Song, error) {
	return p.Songs.Search(ctx, text)
}

func (p *Primary) CreateSong(ctx context.Context, song *models.Song) error {
	return p.Songs.Create(ctx, song)
}

func (p *Primary) UpdateSong(ctx context.Context, song *models.Song) error {
	return p.Songs.Update(ctx, song)
}

func (p *Primary) DeleteSong(ctx context.Context, id int64) (bool, error) {
	return p.Songs.Delete(ctx, id)
}

func (p *Primary) ListPlaylists(ctx context.Context) ([]models.Playlist, error) {
	return p.Playlists.List(ctx)
}

func (p *Primary) CreatePlaylist(ctx context.Context, playlist *models.Playlist) error {
	return p.Playlists.Create(ctx, playlist)
}

func (p *Primary) RenamePlaylist(ctx context.Context, playlist *models.Playlist) error {
	return p.Playlists.Rename(ctx, playlist)
}

func (p *Primary) DeletePlaylist(ctx context.Context, id int64) (bool, error) {
	return p.Playlists.Delete(ctx, id)
}

func (p *Primary) ListPlaylistSongs(ctx context.Context, playlistID int64) ([]models.Song, error) {
	return p.Entries.ListSongs(ctx, playlistID)
}

func (p *Primary) AppendEntry(ctx context.Context, playlistID, songID int64) error {
	return p.Entries.Append(ctx, playlistID, songID)
}

func (p *Primary) RemoveAtPosition(ctx context.Context, playlistID int64, position int) error {
	return p.Entries.RemoveAtPosition(ctx, playlistID, position)
}

func (p *Primary) Move(ctx context.Context, playlistID int64, from, to int) error {
	return p.Entries.Move(ctx, playlistID, from, to)
}
