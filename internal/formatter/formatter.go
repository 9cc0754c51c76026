// package formatter provides functions to export the songbook to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/songbook/internal/models"
	"github.com/desertthunder/songbook/internal/shared"
)

// Format names an export format accepted by [Export].
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
	FormatJSON     Format = "json"
)

// Formats lists every supported [Format] in display order.
var Formats = []Format{FormatCSV, FormatMarkdown, FormatText, FormatJSON}

// ParseFormat resolves a format name, accepting "md" and "txt" as aliases.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatCSV, FormatMarkdown, FormatText, FormatJSON:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	case "txt":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidFlag, name)
	}
}

// Extension returns the conventional file extension for f, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return ".md"
	case FormatText:
		return ".txt"
	default:
		return "." + string(f)
	}
}

// Export renders songs in the given format.
func Export(format Format, songs []*models.Song) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(songs)
	case FormatMarkdown:
		return ExportToMarkdown(songs)
	case FormatText:
		return ExportToText(songs)
	case FormatJSON:
		return ExportToJSON(songs)
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidFlag, format)
	}
}

// ExportToCSV converts songs to CSV format with columns: ID, Title, Lyrics
//
// Multi-line lyrics are quoted per RFC 4180.
func ExportToCSV(songs []*models.Song) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Lyrics"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, song := range songs {
		record := []string{
			strconv.FormatInt(song.ID, 10),
			song.Title,
			song.Lyrics,
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

// ExportToMarkdown converts songs to a Markdown songbook with a table of contents
func ExportToMarkdown(songs []*models.Song) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Songbook\n\n")
	buf.WriteString(fmt.Sprintf("**Songs**: %d\n\n", len(songs)))

	if len(songs) == 0 {
		return buf.Bytes(), nil
	}

	buf.WriteString("## Contents\n\n")
	for i, song := range songs {
		buf.WriteString(fmt.Sprintf("%d. [%s](#song-%d)\n", i+1, song.Title, song.ID))
	}
	buf.WriteString("\n")

	for _, song := range songs {
		buf.WriteString(fmt.Sprintf("<a id=\"song-%d\"></a>\n\n## %s\n\n", song.ID, song.Title))
		buf.WriteString("```text\n")
		buf.WriteString(song.Lyrics)
		buf.WriteString("\n```\n\n")
	}

	return buf.Bytes(), nil
}

// ExportToText converts songs to plain text format
func ExportToText(songs []*models.Song) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("Songbook\n")
	buf.WriteString(fmt.Sprintf("Songs: %d\n", len(songs)))

	for i, song := range songs {
		buf.WriteString(fmt.Sprintf("\n%d. %s\n\n", i+1, song.Title))
		buf.WriteString(song.Lyrics)
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportToJSON renders songs as an indented JSON array
func ExportToJSON(songs []*models.Song) ([]byte, error) {
	if songs == nil {
		songs = []*models.Song{}
	}
	data, err := json.MarshalIndent(songs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal songs: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteExport renders songs and writes them to path.
//
// Defaults to songbook{ext} in the working directory when path is empty.
func WriteExport(format Format, songs []*models.Song, path string) (string, error) {
	if path == "" {
		path = "songbook" + format.Extension()
	}

	data, err := Export(format, songs)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", format, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}
