package components

import (
	"fmt"
	"strings"

	"github.com/Veraticus/claimmap/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const defaultPickerRows = 6

// PickerModel is a filter control offering a list of values. In single mode
// exactly one value is chosen with enter; in multi mode space toggles values,
// a selects all and n clears the selection.
type PickerModel struct {
	theme    themes.Theme
	selected map[string]bool
	id       string
	title    string
	options  []string
	cursor   int
	offset   int
	width    int
	rows     int
	multi    bool
	focused  bool
}

// NewPickerModel creates an empty picker.
func NewPickerModel(id, title string, multi bool, theme themes.Theme) PickerModel {
	return PickerModel{
		id:       id,
		title:    title,
		multi:    multi,
		theme:    theme,
		selected: make(map[string]bool),
		rows:     defaultPickerRows,
		width:    28,
	}
}

// ID identifies the picker in SelectionChangedMsg.
func (m PickerModel) ID() string {
	return m.id
}

// Multi reports whether the picker allows several values.
func (m PickerModel) Multi() bool {
	return m.multi
}

// SetOptions replaces the offered values and the selection. Selected values
// that are not offered are ignored. The cursor stays on its value when that
// value is still offered.
func (m *PickerModel) SetOptions(options, selected []string) {
	current := ""
	if m.cursor >= 0 && m.cursor < len(m.options) {
		current = m.options[m.cursor]
	}

	m.options = append([]string(nil), options...)
	m.selected = make(map[string]bool, len(selected))
	offered := make(map[string]bool, len(options))
	for _, o := range options {
		offered[o] = true
	}
	for _, s := range selected {
		if offered[s] {
			m.selected[s] = true
		}
	}

	m.cursor = 0
	for i, o := range m.options {
		if o == current {
			m.cursor = i
			break
		}
	}
	if !m.multi {
		for i, o := range m.options {
			if m.selected[o] {
				m.cursor = i
				break
			}
		}
	}
	m.scrollToCursor()
}

// Options returns the offered values.
func (m PickerModel) Options() []string {
	return append([]string(nil), m.options...)
}

// Selected returns the chosen values in option order. The result is never nil.
func (m PickerModel) Selected() []string {
	out := []string{}
	for _, o := range m.options {
		if m.selected[o] {
			out = append(out, o)
		}
	}
	return out
}

// Value returns the first chosen value, or "".
func (m PickerModel) Value() string {
	if s := m.Selected(); len(s) > 0 {
		return s[0]
	}
	return ""
}

// AllSelected reports whether every offered value is chosen.
func (m PickerModel) AllSelected() bool {
	return len(m.options) > 0 && len(m.Selected()) == len(m.options)
}

// Cursor returns the highlighted row.
func (m PickerModel) Cursor() int {
	return m.cursor
}

// Focus gives the picker keyboard focus.
func (m *PickerModel) Focus() {
	m.focused = true
}

// Blur removes keyboard focus.
func (m *PickerModel) Blur() {
	m.focused = false
}

// Focused reports whether the picker has keyboard focus.
func (m PickerModel) Focused() bool {
	return m.focused
}

// Resize sets the width and the number of visible rows.
func (m *PickerModel) Resize(width, rows int) {
	if width > 0 {
		m.width = width
	}
	if rows > 0 {
		m.rows = rows
	}
	m.scrollToCursor()
}

// Update handles key presses while focused.
func (m PickerModel) Update(msg tea.Msg) (PickerModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !m.focused {
		return m, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.scrollToCursor()
		}
		return m, nil

	case "down", "j":
		if m.cursor < len(m.options)-1 {
			m.cursor++
			m.scrollToCursor()
		}
		return m, nil

	case "enter", " ":
		if len(m.options) == 0 {
			return m, nil
		}
		value := m.options[m.cursor]
		if m.multi {
			m.selected = m.cloneSelection()
			m.selected[value] = !m.selected[value]
			return m, m.changed()
		}
		if m.selected[value] {
			return m, nil
		}
		m.selected = map[string]bool{value: true}
		return m, m.changed()

	case "a":
		if !m.multi || m.AllSelected() {
			return m, nil
		}
		m.selected = m.cloneSelection()
		for _, o := range m.options {
			m.selected[o] = true
		}
		return m, m.changed()

	case "n":
		if !m.multi || len(m.Selected()) == 0 {
			return m, nil
		}
		m.selected = make(map[string]bool)
		return m, m.changed()
	}

	return m, nil
}

// View renders the picker.
func (m PickerModel) View() string {
	title := m.title
	if m.multi {
		title = fmt.Sprintf("%s (%d/%d)", m.title, len(m.Selected()), len(m.options))
	}

	lines := []string{m.theme.Bold.Render(title)}
	if len(m.options) == 0 {
		lines = append(lines, m.theme.Italic.Render("(none available)"))
		return strings.Join(lines, "\n")
	}

	end := min(m.offset+m.rows, len(m.options))
	if m.offset > 0 {
		lines = append(lines, m.theme.Subtitle.Render("  ↑ more"))
	}
	for i := m.offset; i < end; i++ {
		lines = append(lines, m.renderOption(i))
	}
	if end < len(m.options) {
		lines = append(lines, m.theme.Subtitle.Render("  ↓ more"))
	}

	return strings.Join(lines, "\n")
}

func (m PickerModel) renderOption(i int) string {
	value := m.options[i]

	mark := "( )"
	if m.multi {
		mark = "[ ]"
		if m.selected[value] {
			mark = "[x]"
		}
	} else if m.selected[value] {
		mark = "(•)"
	}

	label := truncate(value, m.width-6)
	line := fmt.Sprintf("%s %s", mark, label)

	switch {
	case m.focused && i == m.cursor:
		return "› " + m.theme.Selected.Render(line)
	case m.selected[value]:
		return "  " + m.theme.Normal.Render(line)
	default:
		return "  " + lipgloss.NewStyle().Foreground(m.theme.Muted).Render(line)
	}
}

func (m *PickerModel) scrollToCursor() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.rows {
		m.offset = m.cursor - m.rows + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// cloneSelection copies the selection so updates never alias an older model.
func (m PickerModel) cloneSelection() map[string]bool {
	out := make(map[string]bool, len(m.selected))
	for k, v := range m.selected {
		if v {
			out[k] = true
		}
	}
	return out
}

func (m PickerModel) changed() tea.Cmd {
	msg := SelectionChangedMsg{ID: m.id, Selected: m.Selected()}
	return func() tea.Msg { return msg }
}

// truncate shortens s to at most width cells, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	if width <= 1 || lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
