package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title  lipgloss.Style
	ok     lipgloss.Style
	err    lipgloss.Style
	warn   lipgloss.Style
	help   lipgloss.Style
	header lipgloss.Style
	cell   lipgloss.Style
	border lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title:  NewBold(t).MarginBottom(1),
		ok:     NewBold(s),
		err:    NewBold(e),
		warn:   NewStyle(w),
		help:   NewEm(h),
		header: NewBold(t).Padding(0, 1),
		cell:   lipgloss.NewStyle().Padding(0, 1),
		border: NewStyle(h),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// Title renders s as a heading.
func Title(s string) string { return styles.title.Render(s) }

// Success renders s in the success color.
func Success(s string) string { return styles.ok.Render(s) }

// Error renders s in the error color.
func Error(s string) string { return styles.err.Render(s) }

// Warn renders s in the warning color.
func Warn(s string) string { return styles.warn.Render(s) }

// Help renders s as muted help text.
func Help(s string) string { return styles.help.Render(s) }

// Table renders rows under headers as a bordered [table.Table].
func Table(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styles.border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.header
			}
			return styles.cell
		})

	return t.String()
}
