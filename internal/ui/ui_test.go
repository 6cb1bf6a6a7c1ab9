package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/mytunes/internal/health"
	"github.com/desertthunder/mytunes/internal/models"
)

func TestSongTable(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		if got := SongTable(nil, false); !strings.Contains(got, "no songs") {
			t.Errorf("expected placeholder, got %q", got)
		}
	})

	t.Run("rows", func(t *testing.T) {
		songs := []models.Song{
			{ID: 1, Title: "Jolene", Artist: "Dolly Parton", DurationSeconds: 161},
			{ID: 2, Title: "Hey Jude", Artist: "The Beatles", DurationSeconds: 431},
		}
		got := SongTable(songs, true)
		for _, want := range []string{"Jolene", "Dolly Parton", "2:41", "Hey Jude", "7:11", "#"} {
			if !strings.Contains(got, want) {
				t.Errorf("expected table to contain %q:\n%s", want, got)
			}
		}
	})
}

func TestPlaylistList(t *testing.T) {
	got := PlaylistList([]models.Playlist{{ID: 3, Name: "Road Trip"}, {ID: 10, Name: "Focus"}})
	if lines := strings.Split(got, "\n"); len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.Contains(got, "Road Trip") || !strings.Contains(got, "Focus") {
		t.Errorf("unexpected output: %q", got)
	}
}

func TestHealthLine(t *testing.T) {
	since := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("available", func(t *testing.T) {
		got := HealthLine(health.Status{State: health.Available, Since: since}, "primary")
		if !strings.Contains(got, "available") || strings.Contains(got, "cause") {
			t.Errorf("unexpected output: %q", got)
		}
	})

	t.Run("unavailable", func(t *testing.T) {
		status := health.Status{State: health.Unavailable, Since: since, Cause: errors.New("dial tcp: refused")}
		got := HealthLine(status, "fallback")
		for _, want := range []string{"unavailable", "fallback", "dial tcp: refused", "2025-01-02 03:04:05"} {
			if !strings.Contains(got, want) {
				t.Errorf("expected %q in %q", want, got)
			}
		}
	})
}
