package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/desertthunder/mytunes/internal/models"
	"github.com/desertthunder/mytunes/internal/ordering"
	"github.com/desertthunder/mytunes/internal/shared"
)

// PlaylistSongRepository maintains the ordered membership of songs in playlists.
//
// Positions are kept contiguous from 0 at rest. Every mutation runs in a single transaction; rows
// that have to shift are first parked at negative positions (see [ordering.Park]) so the
// (playlist_id, position) primary key is never violated mid-statement.
type PlaylistSongRepository struct {
	base
}

// NewPlaylistSongRepository creates a new PlaylistSongRepository with the given database connection
func NewPlaylistSongRepository(db *sql.DB, dialect shared.Dialect) *PlaylistSongRepository {
	return &PlaylistSongRepository{base: base{db: db, dialect: dialect}}
}

// ListSongs returns the songs of a playlist in position order.
// An unknown playlist yields an empty slice.
func (r *PlaylistSongRepository) ListSongs(ctx context.Context, playlistID int64) ([]models.Song, error) {
	query := `
		SELECT s.id, s.title, s.artist, s.duration_seconds, s.file_path
		FROM playlist_songs ps
		JOIN songs s ON s.id = ps.song_id
		WHERE ps.playlist_id = ?
		ORDER BY ps.position ASC
	`

	rows, err := r.db.QueryContext(ctx, r.q(query), playlistID)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to query playlist songs: %w", err))
	}
	defer rows.Close()

	songs, err := scanSongs(rows)
	if err != nil {
		return nil, classify(err)
	}
	return songs, nil
}

// ListEntries returns the raw entries of a playlist in position order.
func (r *PlaylistSongRepository) ListEntries(ctx context.Context, playlistID int64) ([]models.PlaylistEntry, error) {
	query := `SELECT playlist_id, position, song_id FROM playlist_songs WHERE playlist_id = ? ORDER BY position ASC`

	rows, err := r.db.QueryContext(ctx, r.q(query), playlistID)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to query playlist entries: %w", err))
	}
	defer rows.Close()

	entries := []models.PlaylistEntry{}
	for rows.Next() {
		var e models.PlaylistEntry
		if err := rows.Scan(&e.PlaylistID, &e.Position, &e.SongID); err != nil {
			return nil, classify(fmt.Errorf("failed to scan playlist entry: %w", err))
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, classify(fmt.Errorf("row iteration error: %w", err))
	}
	return entries, nil
}

// Append adds songID to the end of the playlist.
func (r *PlaylistSongRepository) Append(ctx context.Context, playlistID, songID int64) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if err := r.requirePlaylist(ctx, tx, playlistID); err != nil {
			return err
		}

		ok, err := r.exists(ctx, tx, "songs", songID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %d", shared.ErrSongNotFound, songID)
		}

		var next int
		query := `SELECT COALESCE(MAX(position), -1) + 1 FROM playlist_songs WHERE playlist_id = ?`
		if err := tx.QueryRowContext(ctx, r.q(query), playlistID).Scan(&next); err != nil {
			return fmt.Errorf("failed to compute next position: %w", err)
		}

		insert := `INSERT INTO playlist_songs (playlist_id, position, song_id) VALUES (?, ?, ?)`
		if _, err := tx.ExecContext(ctx, r.q(insert), playlistID, next, songID); err != nil {
			return fmt.Errorf("failed to insert playlist entry: %w", err)
		}
		return nil
	})
}

// RemoveAtPosition deletes the entry at position and closes the gap it leaves.
func (r *PlaylistSongRepository) RemoveAtPosition(ctx context.Context, playlistID int64, position int) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if err := r.requirePosition(ctx, tx, playlistID, position); err != nil {
			return err
		}

		del := `DELETE FROM playlist_songs WHERE playlist_id = ? AND position = ?`
		if _, err := tx.ExecContext(ctx, r.q(del), playlistID, position); err != nil {
			return fmt.Errorf("failed to delete playlist entry: %w", err)
		}

		park := `UPDATE playlist_songs SET position = -position - 1 WHERE playlist_id = ? AND position > ?`
		if _, err := tx.ExecContext(ctx, r.q(park), playlistID, position); err != nil {
			return fmt.Errorf("failed to park trailing entries: %w", err)
		}

		// -(-p-1) - 2 = p - 1
		shift := `UPDATE playlist_songs SET position = -position - 2 WHERE playlist_id = ? AND position < 0`
		if _, err := tx.ExecContext(ctx, r.q(shift), playlistID); err != nil {
			return fmt.Errorf("failed to shift trailing entries: %w", err)
		}
		return nil
	})
}

// Move relocates the entry at from to to with list-splice semantics.
//
// The traversed range is vacated into parking, the moved row is placed at its target, and the rest
// of the range returns shifted by one toward the vacated slot.
func (r *PlaylistSongRepository) Move(ctx context.Context, playlistID int64, from, to int) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		n, err := r.count(ctx, tx, playlistID)
		if err != nil {
			return err
		}
		if n == 0 {
			if err := r.requirePlaylist(ctx, tx, playlistID); err != nil {
				return err
			}
		}
		if err := ordering.ValidatePosition(from, n); err != nil {
			return err
		}
		if err := ordering.ValidatePosition(to, n); err != nil {
			return err
		}

		plan := ordering.PlanMove(from, to)
		if plan.Noop() {
			return nil
		}

		vacate := `UPDATE playlist_songs SET position = -position - 1 WHERE playlist_id = ? AND position BETWEEN ? AND ?`
		if _, err := tx.ExecContext(ctx, r.q(vacate), playlistID, plan.Lo, plan.Hi); err != nil {
			return fmt.Errorf("failed to vacate range: %w", err)
		}

		place := `UPDATE playlist_songs SET position = ? WHERE playlist_id = ? AND position = ?`
		if _, err := tx.ExecContext(ctx, r.q(place), plan.To, playlistID, ordering.Park(plan.From)); err != nil {
			return fmt.Errorf("failed to place moved entry: %w", err)
		}

		shift := `UPDATE playlist_songs SET position = -position - 1 + ? WHERE playlist_id = ? AND position < 0`
		if _, err := tx.ExecContext(ctx, r.q(shift), plan.Delta, playlistID); err != nil {
			return fmt.Errorf("failed to shift range: %w", err)
		}
		return nil
	})
}

// requirePosition fails with ErrPlaylistNotFound or ErrInvalidPosition unless position is occupied.
func (r *PlaylistSongRepository) requirePosition(ctx context.Context, qr queryer, playlistID int64, position int) error {
	n, err := r.count(ctx, qr, playlistID)
	if err != nil {
		return err
	}
	if n == 0 {
		if err := r.requirePlaylist(ctx, qr, playlistID); err != nil {
			return err
		}
	}
	return ordering.ValidatePosition(position, n)
}

func (r *PlaylistSongRepository) requirePlaylist(ctx context.Context, qr queryer, playlistID int64) error {
	ok, err := r.exists(ctx, qr, "playlists", playlistID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %d", shared.ErrPlaylistNotFound, playlistID)
	}
	return nil
}

func (r *PlaylistSongRepository) count(ctx context.Context, qr queryer, playlistID int64) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM playlist_songs WHERE playlist_id = ?`
	if err := qr.QueryRowContext(ctx, r.q(query), playlistID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count playlist entries: %w", err)
	}
	return n, nil
}

// playlistsContaining lists the playlists that reference songID at least once.
func (r *PlaylistSongRepository) playlistsContaining(ctx context.Context, qr queryer, songID int64) ([]int64, error) {
	query := `SELECT DISTINCT playlist_id FROM playlist_songs WHERE song_id = ? ORDER BY playlist_id`

	rows, err := qr.QueryContext(ctx, r.q(query), songID)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists for song: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan playlist id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// compact renumbers the playlist's positions to 0..n-1, preserving their order.
func (r *PlaylistSongRepository) compact(ctx context.Context, tx *sql.Tx, playlistID int64) error {
	rows, err := tx.QueryContext(ctx, r.q(`SELECT position FROM playlist_songs WHERE playlist_id = ?`), playlistID)
	if err != nil {
		return fmt.Errorf("failed to query positions: %w", err)
	}

	var positions []int
	for rows.Next() {
		var pos int
		if err := rows.Scan(&pos); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan position: %w", err)
		}
		positions = append(positions, pos)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("row iteration error: %w", err)
	}

	if ordering.Contiguous(positions) {
		return nil
	}

	park := `UPDATE playlist_songs SET position = -position - 1 WHERE playlist_id = ?`
	if _, err := tx.ExecContext(ctx, r.q(park), playlistID); err != nil {
		return fmt.Errorf("failed to park playlist entries: %w", err)
	}

	place := `UPDATE playlist_songs SET position = ? WHERE playlist_id = ? AND position = ?`
	for old, rank := range ordering.Compact(positions) {
		if _, err := tx.ExecContext(ctx, r.q(place), rank, playlistID, ordering.Park(old)); err != nil {
			return fmt.Errorf("failed to compact playlist entries: %w", err)
		}
	}
	return nil
}
