package fallback

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/mytunes/internal/models"
	"github.com/desertthunder/mytunes/internal/ordering"
	"github.com/desertthunder/mytunes/internal/shared"
)

// IDBase is the floor of every identity the store issues. Primary identities are expected to stay below
// it, so an identity created on one backend is never found on the other.
const IDBase int64 = 1_000_000_000

// Store holds songs, playlists and their ordered entries in memory.
//
// A single mutex guards everything. Identities come from counters that start at [IDBase] and are
// seeded from the highest identity found in the mirror.
type Store struct {
	mu        sync.Mutex
	songs     map[int64]models.Song
	playlists map[int64]models.Playlist
	lists     map[int64][]int64
	lastSong  int64
	lastList  int64
	mirror    *Mirror
	logger    *log.Logger
}

// NewStore creates an empty store. A nil mirror keeps the store purely in memory.
func NewStore(mirror *Mirror, logger *log.Logger) *Store {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Store{
		songs:     make(map[int64]models.Song),
		playlists: make(map[int64]models.Playlist),
		lists:     make(map[int64][]int64),
		lastSong:  IDBase,
		lastList:  IDBase,
		mirror:    mirror,
		logger:    shared.WithLogger(logger, "component", "fallback"),
	}
}

// Open opens the mirror at path and loads its contents into a new store.
func Open(ctx context.Context, path string, logger *log.Logger) (*Store, error) {
	mirror, err := OpenMirror(path, logger)
	if err != nil {
		return nil, err
	}

	s := NewStore(mirror, logger)
	if err := s.Load(ctx); err != nil {
		mirror.Close()
		return nil, err
	}
	return s, nil
}

// Load replaces the in-memory state with the mirror's contents.
func (s *Store) Load(ctx context.Context) error {
	if s.mirror == nil {
		return nil
	}

	snap, err := s.mirror.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load mirror: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.songs = make(map[int64]models.Song, len(snap.Songs))
	s.playlists = make(map[int64]models.Playlist, len(snap.Playlists))
	s.lists = make(map[int64][]int64, len(snap.Playlists))
	s.lastSong, s.lastList = IDBase, IDBase

	for _, song := range snap.Songs {
		s.songs[song.ID] = song
		s.lastSong = max(s.lastSong, song.ID)
	}
	for _, p := range snap.Playlists {
		s.playlists[p.ID] = p
		s.lists[p.ID] = snap.Lists[p.ID]
		s.lastList = max(s.lastList, p.ID)
	}

	s.logger.Debug("loaded mirror", "songs", len(s.songs), "playlists", len(s.playlists))
	return nil
}

func (s *Store) Name() string { return "fallback" }

func (s *Store) Close() error {
	if s.mirror == nil {
		return nil
	}
	return s.mirror.Close()
}

func (s *Store) ListSongs(ctx context.Context) ([]models.Song, error) {
	return s.SearchSongs(ctx, "")
}

// SearchSongs matches text against title or artist ignoring case; blank text lists every song.
func (s *Store) SearchSongs(_ context.Context, text string) ([]models.Song, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	text = strings.TrimSpace(text)
	songs := []models.Song{}
	for _, song := range s.songs {
		if text == "" || shared.ContainsFold(song.Title, text) || shared.ContainsFold(song.Artist, text) {
			songs = append(songs, song)
		}
	}

	slices.SortFunc(songs, func(a, b models.Song) int {
		return cmp.Or(cmp.Compare(shared.FoldKey(a.Title), shared.FoldKey(b.Title)), cmp.Compare(a.ID, b.ID))
	})
	return songs, nil
}

func (s *Store) CreateSong(ctx context.Context, song *models.Song) error {
	song.SetDuration(song.DurationSeconds)
	if err := models.Check(song); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastSong++
	song.ID = s.lastSong
	s.songs[song.ID] = *song
	s.withMirror(func(m *Mirror) { m.SaveSong(ctx, *song) })
	return nil
}

func (s *Store) UpdateSong(ctx context.Context, song *models.Song) error {
	song.SetDuration(song.DurationSeconds)
	if err := models.Check(song); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.songs[song.ID]; !ok {
		return fmt.Errorf("%w: %d", shared.ErrSongNotFound, song.ID)
	}
	s.songs[song.ID] = *song
	s.withMirror(func(m *Mirror) { m.SaveSong(ctx, *song) })
	return nil
}

// DeleteSong removes the song and every occurrence of it from every playlist.
func (s *Store) DeleteSong(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.songs[id]; !ok {
		return false, nil
	}

	for playlistID, ids := range s.lists {
		if !slices.Contains(ids, id) {
			continue
		}
		ids = slices.DeleteFunc(slices.Clone(ids), func(songID int64) bool { return songID == id })
		s.lists[playlistID] = ids
		s.withMirror(func(m *Mirror) { m.ReplaceEntries(ctx, playlistID, ids) })
	}

	delete(s.songs, id)
	s.withMirror(func(m *Mirror) { m.DeleteSong(ctx, id) })
	return true, nil
}

// ListPlaylists returns every playlist ordered by name, ignoring case.
func (s *Store) ListPlaylists(_ context.Context) ([]models.Playlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	playlists := make([]models.Playlist, 0, len(s.playlists))
	for _, p := range s.playlists {
		playlists = append(playlists, p)
	}

	slices.SortFunc(playlists, func(a, b models.Playlist) int {
		return cmp.Or(cmp.Compare(shared.FoldKey(a.Name), shared.FoldKey(b.Name)), cmp.Compare(a.ID, b.ID))
	})
	return playlists, nil
}

func (s *Store) CreatePlaylist(ctx context.Context, playlist *models.Playlist) error {
	playlist.Name = strings.TrimSpace(playlist.Name)
	if err := models.Check(playlist); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkName(0, playlist.Name); err != nil {
		return err
	}

	s.lastList++
	playlist.ID = s.lastList
	s.playlists[playlist.ID] = *playlist
	s.lists[playlist.ID] = nil
	s.withMirror(func(m *Mirror) { m.SavePlaylist(ctx, *playlist) })
	return nil
}

func (s *Store) RenamePlaylist(ctx context.Context, playlist *models.Playlist) error {
	playlist.Name = strings.TrimSpace(playlist.Name)
	if err := models.Check(playlist); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.playlists[playlist.ID]; !ok {
		return fmt.Errorf("%w: %d", shared.ErrPlaylistNotFound, playlist.ID)
	}
	if err := s.checkName(playlist.ID, playlist.Name); err != nil {
		return err
	}

	s.playlists[playlist.ID] = *playlist
	s.withMirror(func(m *Mirror) { m.SavePlaylist(ctx, *playlist) })
	return nil
}

func (s *Store) DeletePlaylist(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.playlists[id]; !ok {
		return false, nil
	}

	delete(s.playlists, id)
	delete(s.lists, id)
	s.withMirror(func(m *Mirror) { m.DeletePlaylist(ctx, id) })
	return true, nil
}

// ListPlaylistSongs returns the playlist's songs in order; an unknown playlist is empty.
func (s *Store) ListPlaylistSongs(_ context.Context, playlistID int64) ([]models.Song, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.lists[playlistID]
	songs := make([]models.Song, 0, len(ids))
	for _, id := range ids {
		songs = append(songs, s.songs[id])
	}
	return songs, nil
}

func (s *Store) AppendEntry(ctx context.Context, playlistID, songID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.playlists[playlistID]; !ok {
		return fmt.Errorf("%w: %d", shared.ErrPlaylistNotFound, playlistID)
	}
	if _, ok := s.songs[songID]; !ok {
		return fmt.Errorf("%w: %d", shared.ErrSongNotFound, songID)
	}

	ids := ordering.Append(s.lists[playlistID], songID)
	s.lists[playlistID] = ids
	entry := models.PlaylistEntry{PlaylistID: playlistID, Position: len(ids) - 1, SongID: songID}
	s.withMirror(func(m *Mirror) { m.SaveEntry(ctx, entry) })
	return nil
}

// RemoveAtPosition splices out the entry at position. The mirror rewrites everything after it
// and drops the record that used to hold the last entry.
func (s *Store) RemoveAtPosition(ctx context.Context, playlistID int64, position int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.playlists[playlistID]; !ok {
		return fmt.Errorf("%w: %d", shared.ErrPlaylistNotFound, playlistID)
	}

	ids, err := ordering.Remove(s.lists[playlistID], position)
	if err != nil {
		return err
	}
	s.lists[playlistID] = ids
	s.withMirror(func(m *Mirror) { m.RewriteFrom(ctx, playlistID, position, ids) })
	return nil
}

func (s *Store) Move(ctx context.Context, playlistID int64, from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.playlists[playlistID]; !ok {
		return fmt.Errorf("%w: %d", shared.ErrPlaylistNotFound, playlistID)
	}

	ids, err := ordering.Move(s.lists[playlistID], from, to)
	if err != nil {
		return err
	}
	if from == to {
		return nil
	}
	s.lists[playlistID] = ids
	s.withMirror(func(m *Mirror) { m.ReplaceEntries(ctx, playlistID, ids) })
	return nil
}

// checkName rejects name if a playlist other than id already uses it.
func (s *Store) checkName(id int64, name string) error {
	for _, p := range s.playlists {
		if p.ID != id && p.Name == name {
			return fmt.Errorf("%w: playlist name %q already exists", shared.ErrConstraintViolation, name)
		}
	}
	return nil
}

func (s *Store) withMirror(fn func(m *Mirror)) {
	if s.mirror != nil {
		fn(s.mirror)
	}
}
