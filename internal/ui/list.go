package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/songbook/internal/models"
)

var _ list.Item = songItem{}

const previewLength = 60

// songItem wraps [models.Song] to implement [list.Item].
type songItem struct {
	song *models.Song
}

func (i songItem) FilterValue() string { return i.song.Title }
func (i songItem) Title() string       { return i.song.Title }
func (i songItem) Description() string {
	return fmt.Sprintf("#%d • %s", i.song.ID, preview(i.song.Lyrics))
}

// preview returns the first line of lyrics, shortened to previewLength runes.
func preview(lyrics string) string {
	line, _, _ := strings.Cut(lyrics, "\n")
	r := []rune(strings.TrimSpace(line))
	if len(r) > previewLength {
		return string(r[:previewLength-1]) + "…"
	}
	return string(r)
}

func songItems(songs []*models.Song) []list.Item {
	items := make([]list.Item, len(songs))
	for i, s := range songs {
		items[i] = songItem{song: s}
	}
	return items
}
