// Package ui implements the interactive song browser using bubbletea's Elm architecture,
// plus the lipgloss palette and table helpers used for styled console output.
//
// The browser moves between three views:
//  1. [ListView] : Browse and filter songs
//  2. [SongView] : Read a song's lyrics in a scrollable viewport
//  3. [ConfirmView] : Confirm deleting the selected song
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving
// repository results via the Msg union type.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, d, y/n, r, q) with contextual help
// displayed via charmbracelet/bubbles/help.
package ui
