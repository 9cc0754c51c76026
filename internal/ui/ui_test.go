package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/songbook/internal/models"
	"github.com/desertthunder/songbook/internal/shared"
	tu "github.com/desertthunder/songbook/internal/testing"
)

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

// send delivers msg and then runs any resulting command once, feeding its message back in.
func send(m *Model, msg tea.Msg) {
	_, cmd := m.Update(msg)
	if cmd == nil {
		return
	}
	if next, ok := cmd().(Msg); ok {
		m.Update(next)
	}
}

func newTestModel(t *testing.T, songs []*models.Song) (*Model, *[]int64) {
	t.Helper()

	var deleted []int64
	store := &tu.MockSongStore{
		ListFn: func(ctx context.Context) ([]*models.Song, error) {
			remaining := make([]*models.Song, 0, len(songs))
			for _, s := range songs {
				gone := false
				for _, id := range deleted {
					gone = gone || id == s.ID
				}
				if !gone {
					remaining = append(remaining, s)
				}
			}
			return remaining, nil
		},
		DeleteFn: func(ctx context.Context, id int64) error {
			deleted = append(deleted, id)
			return nil
		},
	}

	m := NewModel(context.Background(), store)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m.Update(m.Init()())
	return m, &deleted
}

func TestModel(t *testing.T) {
	songs := []*models.Song{
		{ID: 1, Title: "Amazing Grace", Lyrics: "Amazing grace, how sweet the sound"},
		{ID: 2, Title: "It Is Well", Lyrics: "When peace like a river"},
	}

	t.Run("loads songs on init", func(t *testing.T) {
		m, _ := newTestModel(t, songs)

		if n := len(m.list.Items()); n != 2 {
			t.Fatalf("expected 2 items, got %d", n)
		}
		if !strings.Contains(m.View(), "Amazing Grace") {
			t.Error("expected list view to show titles")
		}
	})

	t.Run("enter opens lyrics and esc returns", func(t *testing.T) {
		m, _ := newTestModel(t, songs)

		m.Update(keyPress("enter"))
		if m.State() != SongView {
			t.Fatalf("expected SongView, got %v", m.State())
		}
		if !strings.Contains(m.View(), "how sweet the sound") {
			t.Error("expected lyrics in song view")
		}

		m.Update(keyPress("esc"))
		if m.State() != ListView {
			t.Errorf("expected ListView after esc, got %v", m.State())
		}
	})

	t.Run("delete requires confirmation", func(t *testing.T) {
		m, deleted := newTestModel(t, songs)

		m.Update(keyPress("d"))
		if m.State() != ConfirmView {
			t.Fatalf("expected ConfirmView, got %v", m.State())
		}
		if !strings.Contains(m.View(), "Delete 'Amazing Grace'?") {
			t.Errorf("unexpected confirm view: %s", m.View())
		}

		m.Update(keyPress("n"))
		if m.State() != ListView || len(*deleted) != 0 {
			t.Fatalf("expected cancel without delete, got view %v deleted %v", m.State(), *deleted)
		}

		m.Update(keyPress("d"))
		send(m, keyPress("y"))
		if len(*deleted) != 1 || (*deleted)[0] != 1 {
			t.Fatalf("expected song 1 deleted, got %v", *deleted)
		}
		if m.State() != ListView {
			t.Errorf("expected ListView after delete, got %v", m.State())
		}
		if !strings.Contains(m.status, "Deleted") {
			t.Errorf("expected deleted status, got %q", m.status)
		}
	})

	t.Run("delete failure keeps the list", func(t *testing.T) {
		m, _ := newTestModel(t, songs)
		m.Update(songDeletedMsg(songs[0], errors.Join(shared.ErrPersistence, errors.New("locked"))))

		if !strings.Contains(m.status, "Delete failed") {
			t.Errorf("expected failure status, got %q", m.status)
		}
		if n := len(m.list.Items()); n != 2 {
			t.Errorf("expected list untouched, got %d items", n)
		}
	})

	t.Run("load failure quits with error", func(t *testing.T) {
		m := NewModel(context.Background(), &tu.MockSongStore{})
		_, cmd := m.Update(m.Init()())

		if m.Err() == nil || !errors.Is(m.Err(), shared.ErrPersistence) {
			t.Errorf("expected persistence error, got %v", m.Err())
		}
		if cmd == nil {
			t.Fatal("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Error("expected tea.QuitMsg")
		}
	})
}

func TestPreview(t *testing.T) {
	tc := []struct {
		name, in, want string
	}{
		{name: "first line only", in: "line one\nline two", want: "line one"},
		{name: "trimmed", in: "  padded  ", want: "padded"},
		{name: "long line", in: strings.Repeat("a", 80), want: strings.Repeat("a", previewLength-1) + "…"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := preview(tt.in); got != tt.want {
				t.Errorf("preview(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTable(t *testing.T) {
	out := Table([]string{"ID", "Title"}, [][]string{{"1", "Amazing Grace"}})
	for _, want := range []string{"ID", "Title", "Amazing Grace"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}
