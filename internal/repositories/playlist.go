package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/mytunes/internal/models"
	"github.com/desertthunder/mytunes/internal/shared"
)

// PlaylistRepository persists playlists in the primary backend.
//
// Names are unique; a duplicate surfaces as [shared.ErrConstraintViolation].
type PlaylistRepository struct {
	base
}

// NewPlaylistRepository creates a new PlaylistRepository with the given database connection
func NewPlaylistRepository(db *sql.DB, dialect shared.Dialect) *PlaylistRepository {
	return &PlaylistRepository{base: base{db: db, dialect: dialect}}
}

// Create inserts a new playlist and assigns its ID
func (r *PlaylistRepository) Create(ctx context.Context, playlist *models.Playlist) error {
	playlist.Name = strings.TrimSpace(playlist.Name)
	if err := models.Check(playlist); err != nil {
		return err
	}

	id, err := r.insertID(ctx, r.db, `INSERT INTO playlists (name) VALUES (?)`, playlist.Name)
	if err != nil {
		return classify(fmt.Errorf("failed to insert playlist: %w", err))
	}

	playlist.ID = id
	return nil
}

// Get retrieves a playlist by ID
func (r *PlaylistRepository) Get(ctx context.Context, id int64) (*models.Playlist, error) {
	var p models.Playlist
	err := r.db.QueryRowContext(ctx, r.q(`SELECT id, name FROM playlists WHERE id = ?`), id).Scan(&p.ID, &p.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", shared.ErrPlaylistNotFound, id)
	}
	if err != nil {
		return nil, classify(fmt.Errorf("failed to get playlist: %w", err))
	}
	return &p, nil
}

// Rename updates the name of an existing playlist
func (r *PlaylistRepository) Rename(ctx context.Context, playlist *models.Playlist) error {
	playlist.Name = strings.TrimSpace(playlist.Name)
	if err := models.Check(playlist); err != nil {
		return err
	}

	return r.inTx(ctx, func(tx *sql.Tx) error {
		ok, err := r.exists(ctx, tx, "playlists", playlist.ID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %d", shared.ErrPlaylistNotFound, playlist.ID)
		}

		if _, err := tx.ExecContext(ctx, r.q(`UPDATE playlists SET name = ? WHERE id = ?`), playlist.Name, playlist.ID); err != nil {
			return fmt.Errorf("failed to rename playlist: %w", err)
		}
		return nil
	})
}

// Delete removes a playlist together with all of its entries
func (r *PlaylistRepository) Delete(ctx context.Context, id int64) (bool, error) {
	var deleted bool

	err := r.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, r.q(`DELETE FROM playlist_songs WHERE playlist_id = ?`), id); err != nil {
			return fmt.Errorf("failed to delete playlist entries: %w", err)
		}

		result, err := tx.ExecContext(ctx, r.q(`DELETE FROM playlists WHERE id = ?`), id)
		if err != nil {
			return fmt.Errorf("failed to delete playlist: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get affected rows: %w", err)
		}
		deleted = rows > 0
		return nil
	})

	return deleted, err
}

// List retrieves every playlist ordered by name, case-insensitively
func (r *PlaylistRepository) List(ctx context.Context) ([]models.Playlist, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM playlists ORDER BY LOWER(name) ASC, id ASC`)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to query playlists: %w", err))
	}
	defer rows.Close()

	playlists := []models.Playlist{}
	for rows.Next() {
		var p models.Playlist
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, classify(fmt.Errorf("failed to scan playlist: %w", err))
		}
		playlists = append(playlists, p)
	}

	if err := rows.Err(); err != nil {
		return nil, classify(fmt.Errorf("row iteration error: %w", err))
	}
	return playlists, nil
}
