package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/desertthunder/mytunes/internal/health"
	"github.com/desertthunder/mytunes/internal/models"
)

var border = NewStyle("#626262")

// SongTable renders songs as a table. Positions are shown when numbered is set, for playlist views.
func SongTable(songs []models.Song, numbered bool) string {
	if len(songs) == 0 {
		return Help("no songs")
	}

	headers := []string{"ID", "Title", "Artist", "Length"}
	if numbered {
		headers = append([]string{"#"}, headers...)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(border).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.title.UnsetMarginBottom().Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	for pos, s := range songs {
		cells := []string{strconv.FormatInt(s.ID, 10), s.Title, s.Artist, s.Duration()}
		if numbered {
			cells = append([]string{strconv.Itoa(pos)}, cells...)
		}
		t.Row(cells...)
	}
	return t.Render()
}

// PlaylistList renders one playlist per line as "id  name".
func PlaylistList(playlists []models.Playlist) string {
	if len(playlists) == 0 {
		return Help("no playlists")
	}

	var b strings.Builder
	for _, p := range playlists {
		fmt.Fprintf(&b, "%s  %s\n", Help(fmt.Sprintf("%4d", p.ID)), p.Name)
	}
	return strings.TrimRight(b.String(), "\n")
}

// HealthLine summarizes the primary backend status and the backend in use.
func HealthLine(status health.Status, backend string) string {
	state := OK(status.State.String())
	if status.State == health.Unavailable {
		state = Err(status.State.String())
	}

	line := fmt.Sprintf("primary: %s since %s (serving from %s)", state, status.Since.Format(time.DateTime), backend)
	if status.Cause != nil {
		line += "\n" + Warn("cause: "+status.Cause.Error())
	}
	return line
}
