// package formatter provides functions to export playlist data to various formats (CSV, Markdown, plain text, M3U)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/mytunes/internal/models"
	"github.com/desertthunder/mytunes/internal/shared"
)

// Export is a playlist together with its songs in position order.
type Export struct {
	Playlist models.Playlist
	Songs    []models.Song
}

// Format names an export encoding.
type Format string

const (
	CSV      Format = "csv"
	Markdown Format = "md"
	Text     Format = "txt"
	M3U      Format = "m3u"
)

// ParseFormat maps a user-supplied name to a [Format].
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "."))); f {
	case CSV, Markdown, Text, M3U:
		return f, nil
	case "markdown":
		return Markdown, nil
	case "text":
		return Text, nil
	case "m3u8":
		return M3U, nil
	default:
		return "", fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, name)
	}
}

// Render encodes export in the given format.
func Render(export *Export, format Format) ([]byte, error) {
	switch format {
	case CSV:
		return ExportToCSV(export)
	case Markdown:
		return ExportToMarkdown(export)
	case Text:
		return ExportToText(export)
	case M3U:
		return ExportToM3U(export)
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, format)
	}
}

// ExportToCSV converts an Export to CSV format with columns: Position, ID, Title, Artist, Duration, File
func ExportToCSV(export *Export) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "ID", "Title", "Artist", "Duration", "File"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for pos, song := range export.Songs {
		record := []string{
			strconv.Itoa(pos),
			strconv.FormatInt(song.ID, 10),
			song.Title,
			song.Artist,
			strconv.Itoa(song.DurationSeconds),
			song.FilePath,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts an Export to a Markdown document with a numbered song list
func ExportToMarkdown(export *Export) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", export.Playlist.Name)
	fmt.Fprintf(&buf, "**Songs**: %d\n", len(export.Songs))
	fmt.Fprintf(&buf, "**Length**: %s\n\n", totalLength(export.Songs))

	buf.WriteString("## Songs\n\n")
	for i, song := range export.Songs {
		fmt.Fprintf(&buf, "%d. %s - %s [%s]\n", i+1, song.Artist, song.Title, song.Duration())
	}

	return buf.Bytes(), nil
}

// ExportToText converts an Export to plain text format
func ExportToText(export *Export) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Playlist: %s\n", export.Playlist.Name)
	fmt.Fprintf(&buf, "Songs: %d\n\n", len(export.Songs))

	for i, song := range export.Songs {
		fmt.Fprintf(&buf, "%d. %s - %s\n", i+1, song.Artist, song.Title)
	}

	return buf.Bytes(), nil
}

// ExportToM3U converts an Export to an extended M3U playlist that media players can open
func ExportToM3U(export *Export) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("#EXTM3U\n")
	fmt.Fprintf(&buf, "#PLAYLIST:%s\n", export.Playlist.Name)
	for _, song := range export.Songs {
		// -1 marks an unknown length
		length := song.DurationSeconds
		if length == 0 {
			length = -1
		}
		fmt.Fprintf(&buf, "#EXTINF:%d,%s - %s\n%s\n", length, song.Artist, song.Title, song.FilePath)
	}

	return buf.Bytes(), nil
}

// WriteExport renders export and writes it to path.
//
// Defaults to {playlist.ID}_songs.{format} as the filename.
func WriteExport(export *Export, format Format, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("%d_songs.%s", export.Playlist.ID, format)
	}

	data, err := Render(export, format)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", format, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}

func totalLength(songs []models.Song) string {
	var total int
	for _, s := range songs {
		total += s.DurationSeconds
	}
	return models.Song{DurationSeconds: total}.Duration()
}
