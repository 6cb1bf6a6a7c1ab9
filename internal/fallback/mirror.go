package fallback

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/desertthunder/mytunes/internal/models"
	"github.com/desertthunder/mytunes/internal/shared"
)

// Snapshot is the full contents of a mirror.
type Snapshot struct {
	Songs     []models.Song
	Playlists []models.Playlist
	Lists     map[int64][]int64 // song ids per playlist, in position order
}

// Mirror persists the fallback state to a local SQLite database.
//
// Writes are upserts. REPLACE is avoided since it deletes the conflicting row first, which would
// cascade through the foreign keys.
type Mirror struct {
	db        *sql.DB
	logger    *log.Logger
	sometimes rate.Sometimes
}

// OpenMirror opens (creating if needed) the SQLite mirror at path and applies migrations.
func OpenMirror(path string, logger *log.Logger) (*Mirror, error) {
	db, err := shared.NewDatabase(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open mirror: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := shared.RunMigrations(db, shared.SQLite); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate mirror: %w", err)
	}
	return NewMirror(db, logger), nil
}

// NewMirror wraps an already migrated database.
func NewMirror(db *sql.DB, logger *log.Logger) *Mirror {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Mirror{
		db:        db,
		logger:    shared.WithLogger(logger, "component", "mirror"),
		sometimes: rate.Sometimes{First: 3, Interval: 30 * time.Second},
	}
}

func (m *Mirror) Close() error {
	return m.db.Close()
}

// Load reads the whole mirror.
func (m *Mirror) Load(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{Lists: make(map[int64][]int64)}

	rows, err := m.db.QueryContext(ctx, `SELECT id, title, artist, duration_seconds, file_path FROM songs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	for rows.Next() {
		var s models.Song
		if err := rows.Scan(&s.ID, &s.Title, &s.Artist, &s.DurationSeconds, &s.FilePath); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan song: %w", err)
		}
		snap.Songs = append(snap.Songs, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	rows, err = m.db.QueryContext(ctx, `SELECT id, name FROM playlists ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}
	for rows.Next() {
		var p models.Playlist
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan playlist: %w", err)
		}
		snap.Playlists = append(snap.Playlists, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	rows, err = m.db.QueryContext(ctx, `SELECT playlist_id, song_id FROM playlist_songs ORDER BY playlist_id, position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist entries: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var playlistID, songID int64
		if err := rows.Scan(&playlistID, &songID); err != nil {
			return nil, fmt.Errorf("failed to scan playlist entry: %w", err)
		}
		snap.Lists[playlistID] = append(snap.Lists[playlistID], songID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return snap, nil
}

// SaveSong upserts a song.
func (m *Mirror) SaveSong(ctx context.Context, s models.Song) {
	query := `
		INSERT INTO songs (id, title, artist, duration_seconds, file_path) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			artist = excluded.artist,
			duration_seconds = excluded.duration_seconds,
			file_path = excluded.file_path
	`
	_, err := m.db.ExecContext(ctx, query, s.ID, s.Title, s.Artist, s.DurationSeconds, s.FilePath)
	m.report("save song", err, "song_id", s.ID)
}

// DeleteSong removes a song; its entries go with it.
func (m *Mirror) DeleteSong(ctx context.Context, id int64) {
	_, err := m.db.ExecContext(ctx, `DELETE FROM songs WHERE id = ?`, id)
	m.report("delete song", err, "song_id", id)
}

// SavePlaylist upserts a playlist.
func (m *Mirror) SavePlaylist(ctx context.Context, p models.Playlist) {
	query := `INSERT INTO playlists (id, name) VALUES (?, ?) ON CONFLICT(id) DO UPDATE SET name = excluded.name`
	_, err := m.db.ExecContext(ctx, query, p.ID, p.Name)
	m.report("save playlist", err, "playlist_id", p.ID)
}

// DeletePlaylist removes a playlist and its entries.
func (m *Mirror) DeletePlaylist(ctx context.Context, id int64) {
	err := m.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM playlist_songs WHERE playlist_id = ?`, id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM playlists WHERE id = ?`, id)
		return err
	})
	m.report("delete playlist", err, "playlist_id", id)
}

// SaveEntry upserts a single entry.
func (m *Mirror) SaveEntry(ctx context.Context, e models.PlaylistEntry) {
	_, err := m.db.ExecContext(ctx, upsertEntry, e.PlaylistID, e.Position, e.SongID)
	m.report("save entry", err, "playlist_id", e.PlaylistID, "position", e.Position)
}

// RewriteFrom rewrites the entries of a playlist from position from onward to match ids, then
// drops any records past the end of ids.
func (m *Mirror) RewriteFrom(ctx context.Context, playlistID int64, from int, ids []int64) {
	err := m.inTx(ctx, func(tx *sql.Tx) error {
		for pos := from; pos < len(ids); pos++ {
			if _, err := tx.ExecContext(ctx, upsertEntry, playlistID, pos, ids[pos]); err != nil {
				return err
			}
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM playlist_songs WHERE playlist_id = ? AND position >= ?`, playlistID, len(ids))
		return err
	})
	m.report("rewrite entries", err, "playlist_id", playlistID, "from", from)
}

// ReplaceEntries clears the playlist's records and writes ids in order.
func (m *Mirror) ReplaceEntries(ctx context.Context, playlistID int64, ids []int64) {
	err := m.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM playlist_songs WHERE playlist_id = ?`, playlistID); err != nil {
			return err
		}
		for pos, id := range ids {
			if _, err := tx.ExecContext(ctx, upsertEntry, playlistID, pos, id); err != nil {
				return err
			}
		}
		return nil
	})
	m.report("replace entries", err, "playlist_id", playlistID)
}

const upsertEntry = `
	INSERT INTO playlist_songs (playlist_id, position, song_id) VALUES (?, ?, ?)
	ON CONFLICT(playlist_id, position) DO UPDATE SET song_id = excluded.song_id
`

func (m *Mirror) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// report logs a failed write, throttled so a dead disk does not flood the log.
func (m *Mirror) report(op string, err error, kv ...any) {
	if err == nil {
		return
	}
	err = fmt.Errorf("%w: %s: %w", shared.ErrMirrorWrite, op, err)
	m.sometimes.Do(func() {
		m.logger.Error("mirror write failed", append([]any{"error", err}, kv...)...)
	})
}
