// Package repositories implements the primary relational backend for the music library.
//
// Each repository handles one table over a shared [*sql.DB]; [Primary] composes them into the backend contract used by the library.
// Statements are written once with `?` placeholders and rebound per [shared.Dialect], so the same code runs on PostgreSQL
// (pgx), MySQL and SQLite.
//
// Key Implementations:
//   - [SongRepository] : song CRUD, search, and delete with per-playlist compaction
//   - [PlaylistRepository] : playlist CRUD with unique names
//   - [PlaylistSongRepository] : ordered playlist membership (append, remove-at-position, move)
//
// Every mutating operation runs inside one transaction that is rolled back on any failure.
// Reordering never relies on a magic sentinel row: rows in flight are parked in negative positions derived from their own
// position ([ordering.Park]), so unique checks on (playlist_id, position) cannot fire mid-statement on any dialect.
//
// Errors are classified on the way out: driver constraint failures wrap [shared.ErrConstraintViolation],
// contract failures ([shared.ErrInvalidPosition], not-found) pass through, and everything else wraps
// [shared.ErrBackendUnreachable] so the caller can fail over.
package repositories
