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

const songColumns = "id, title, artist, duration_seconds, file_path"

// SongRepository persists songs in the primary backend.
type SongRepository struct {
	base
	entries *PlaylistSongRepository
}

// NewSongRepository creates a new SongRepository with the given database connection
func NewSongRepository(db *sql.DB, dialect shared.Dialect) *SongRepository {
	return &SongRepository{
		base:    base{db: db, dialect: dialect},
		entries: NewPlaylistSongRepository(db, dialect),
	}
}

// Create inserts a new song and assigns its ID
func (r *SongRepository) Create(ctx context.Context, song *models.Song) error {
	song.SetDuration(song.DurationSeconds)
	if err := models.Check(song); err != nil {
		return err
	}

	query := `INSERT INTO songs (title, artist, duration_seconds, file_path) VALUES (?, ?, ?, ?)`

	id, err := r.insertID(ctx, r.db, query, song.Title, song.Artist, song.DurationSeconds, song.FilePath)
	if err != nil {
		return classify(fmt.Errorf("failed to insert song: %w", err))
	}

	song.ID = id
	return nil
}

// Get retrieves a song by ID
func (r *SongRepository) Get(ctx context.Context, id int64) (*models.Song, error) {
	query := `SELECT ` + songColumns + ` FROM songs WHERE id = ?`

	song, err := scanSong(r.db.QueryRowContext(ctx, r.q(query), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", shared.ErrSongNotFound, id)
	}
	if err != nil {
		return nil, classify(err)
	}
	return song, nil
}

// Update modifies an existing song
func (r *SongRepository) Update(ctx context.Context, song *models.Song) error {
	song.SetDuration(song.DurationSeconds)
	if err := models.Check(song); err != nil {
		return err
	}

	query := `
		UPDATE songs
		SET title = ?, artist = ?, duration_seconds = ?, file_path = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, r.q(query), song.Title, song.Artist, song.DurationSeconds, song.FilePath, song.ID)
	if err != nil {
		return classify(fmt.Errorf("failed to update song: %w", err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return classify(fmt.Errorf("failed to get affected rows: %w", err))
	}
	if rows == 0 {
		// MySQL reports zero affected rows when nothing changed, so confirm the row is really gone.
		ok, err := r.exists(ctx, r.db, "songs", song.ID)
		if err != nil {
			return classify(err)
		}
		if !ok {
			return fmt.Errorf("%w: %d", shared.ErrSongNotFound, song.ID)
		}
	}

	return nil
}

// Delete removes a song and every playlist entry that references it.
//
// Affected playlists are compacted in the same transaction so their positions stay contiguous.
func (r *SongRepository) Delete(ctx context.Context, id int64) (bool, error) {
	var deleted bool

	err := r.inTx(ctx, func(tx *sql.Tx) error {
		playlistIDs, err := r.entries.playlistsContaining(ctx, tx, id)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, r.q(`DELETE FROM playlist_songs WHERE song_id = ?`), id); err != nil {
			return fmt.Errorf("failed to delete playlist entries: %w", err)
		}

		for _, playlistID := range playlistIDs {
			if err := r.entries.compact(ctx, tx, playlistID); err != nil {
				return err
			}
		}

		result, err := tx.ExecContext(ctx, r.q(`DELETE FROM songs WHERE id = ?`), id)
		if err != nil {
			return fmt.Errorf("failed to delete song: %w", err)
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

// List retrieves every song ordered by title, case-insensitively
func (r *SongRepository) List(ctx context.Context) ([]models.Song, error) {
	query := `SELECT ` + songColumns + ` FROM songs ORDER BY LOWER(title) ASC, id ASC`
	return r.query(ctx, query)
}

// Search returns songs whose title or artist contains text, ignoring case.
// Blank text lists everything.
func (r *SongRepository) Search(ctx context.Context, text string) ([]models.Song, error) {
	if strings.TrimSpace(text) == "" {
		return r.List(ctx)
	}

	query := `
		SELECT ` + songColumns + `
		FROM songs
		WHERE LOWER(title) LIKE ? ESCAPE '!' OR LOWER(artist) LIKE ? ESCAPE '!'
		ORDER BY LOWER(title) ASC, id ASC
	`
	pattern := likePattern(text)
	return r.query(ctx, query, pattern, pattern)
}

func (r *SongRepository) query(ctx context.Context, query string, args ...any) ([]models.Song, error) {
	rows, err := r.db.QueryContext(ctx, r.q(query), args...)
	if err != nil {
		return nil, classify(fmt.Errorf("failed to query songs: %w", err))
	}
	defer rows.Close()

	songs, err := scanSongs(rows)
	if err != nil {
		return nil, classify(err)
	}
	return songs, nil
}

// scanSong scans a single row into a [models.Song]
func scanSong(row scanner) (*models.Song, error) {
	var s models.Song
	if err := row.Scan(&s.ID, &s.Title, &s.Artist, &s.DurationSeconds, &s.FilePath); err != nil {
		return nil, err
	}
	return &s, nil
}

// scanSongs drains rows into songs
func scanSongs(rows *sql.Rows) ([]models.Song, error) {
	songs := []models.Song{}
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan song: %w", err)
		}
		songs = append(songs, *song)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return songs, nil
}
