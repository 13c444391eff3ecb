package components

// SelectionChangedMsg reports that a picker's selection changed.
type SelectionChangedMsg struct {
	ID       string
	Selected []string
}
