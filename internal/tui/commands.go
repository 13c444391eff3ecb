package tui

import (
	"github.com/Veraticus/claimmap/internal/common"
	"github.com/Veraticus/claimmap/internal/model"
	tea "github.com/charmbracelet/bubbletea"
)

// exportChart writes the current projection in the background.
func (m Model) exportChart() tea.Cmd {
	if m.config.Exporter == nil {
		return func() tea.Msg {
			return exportDoneMsg{err: &common.ExportUnavailableError{Reason: "no exporter configured"}}
		}
	}

	exporter := m.config.Exporter
	path := m.config.ExportPath
	projection := m.competitor.Projection
	title := m.competitor.Criteria.ChartTitle()

	return func() tea.Msg {
		written, err := exporter.Export(path, projection, title)
		return exportDoneMsg{path: written, err: err}
	}
}

// lookupAsset resolves the reference image for the product-mapping selection.
func (m Model) lookupAsset(c model.FilterCriteria) tea.Cmd {
	lookup := m.config.Assets
	key := c.ImageKey()
	if lookup == nil {
		return func() tea.Msg {
			return assetLoadedMsg{key: key, err: &common.AssetNotFoundError{Key: key}}
		}
	}

	return func() tea.Msg {
		asset, err := lookup.LookupCriteria(c)
		return assetLoadedMsg{key: key, asset: asset, err: err}
	}
}
