package models

import (
	"fmt"
	"strings"

	"github.com/desertthunder/mytunes/internal/shared"
)

// Model defines the base interface for persistent library entities.
type Model interface {
	Identity() int64 // Identity returns the backend-assigned ID, zero before persistence
	Validate() error // Validate checks if the model's data is valid and returns an error if not
}

var (
	_ Model = (*Song)(nil)
	_ Model = (*Playlist)(nil)
)

// Check validates m before it is written by a backend.
func Check(m Model) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	return nil
}

// Song is a playable audio file in the library.
type Song struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	Artist          string `json:"artist"`
	DurationSeconds int    `json:"duration_seconds"`
	FilePath        string `json:"file_path"`
}

// NewSong creates an unsaved song with its duration clamped to zero or more.
func NewSong(title, artist string, durationSeconds int, filePath string) *Song {
	s := &Song{Title: title, Artist: artist, FilePath: filePath}
	s.SetDuration(durationSeconds)
	return s
}

func (s *Song) Identity() int64 { return s.ID }

// SetDuration sets the duration in seconds; negative values become 0 (unknown).
func (s *Song) SetDuration(seconds int) {
	s.DurationSeconds = max(0, seconds)
}

// Equal compares songs by identity.
func (s Song) Equal(other Song) bool {
	return s.ID == other.ID
}

// Duration formats the duration as m:ss, or h:mm:ss past the hour.
func (s Song) Duration() string {
	secs := max(0, s.DurationSeconds)
	h, m, sec := secs/3600, (secs/60)%60, secs%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%d:%02d", m, sec)
}

func (s *Song) Validate() error {
	switch {
	case strings.TrimSpace(s.Title) == "":
		return fmt.Errorf("%w: song title is required", shared.ErrInvalidInput)
	case strings.TrimSpace(s.Artist) == "":
		return fmt.Errorf("%w: song artist is required", shared.ErrInvalidInput)
	case strings.TrimSpace(s.FilePath) == "":
		return fmt.Errorf("%w: song file path is required", shared.ErrInvalidInput)
	case s.DurationSeconds < 0:
		return fmt.Errorf("%w: song duration cannot be negative", shared.ErrInvalidInput)
	}
	return nil
}

func (s Song) String() string {
	return fmt.Sprintf("%s - %s (%s)", s.Artist, s.Title, s.Duration())
}

// Playlist is a named, ordered collection of songs.
type Playlist struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// NewPlaylist creates an unsaved playlist.
func NewPlaylist(name string) *Playlist {
	return &Playlist{Name: strings.TrimSpace(name)}
}

func (p *Playlist) Identity() int64 { return p.ID }

// Equal compares playlists by identity.
func (p Playlist) Equal(other Playlist) bool {
	return p.ID == other.ID
}

func (p *Playlist) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: playlist name is required", shared.ErrInvalidInput)
	}
	return nil
}

func (p Playlist) String() string {
	return p.Name
}

// PlaylistEntry associates a song with a position inside a playlist.
type PlaylistEntry struct {
	PlaylistID int64 `json:"playlist_id"`
	Position   int   `json:"position"`
	SongID     int64 `json:"song_id"`
}
