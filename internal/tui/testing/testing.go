// Package testing drives bubbletea models from tests without a terminal.
package testing

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

// KeyPress types key as runes.
func KeyPress(key string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

func key(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

// Navigation keys used by the dashboard.
func KeySpace() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}} }
func KeyDown() tea.KeyMsg  { return key(tea.KeyDown) }
func KeyLeft() tea.KeyMsg  { return key(tea.KeyLeft) }
func KeyRight() tea.KeyMsg { return key(tea.KeyRight) }
func KeyTab() tea.KeyMsg   { return key(tea.KeyTab) }

// WindowSize resizes the model under test.
func WindowSize(width, height int) tea.WindowSizeMsg {
	return tea.WindowSizeMsg{Width: width, Height: height}
}

// StripANSI drops styling so views can be compared as text.
func StripANSI(s string) string {
	return ansi.Strip(s)
}

// Send feeds msgs to model in order. Commands returned by each update are
// executed once and their messages fed back, which is enough to settle
// the synchronous commands used by the dashboard. Batches are expanded;
// tea.Quit is dropped.
func Send(model tea.Model, msgs ...tea.Msg) tea.Model {
	for _, msg := range msgs {
		var cmd tea.Cmd
		model, cmd = model.Update(msg)
		for _, follow := range collect(cmd) {
			model, _ = model.Update(follow)
		}
	}
	return model
}

func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case nil, tea.QuitMsg:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, collect(c)...)
		}
		return out
	default:
		return []tea.Msg{msg}
	}
}
