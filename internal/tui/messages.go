package tui

import "github.com/Veraticus/claimmap/internal/assets"

// exportDoneMsg reports the outcome of a chart export.
type exportDoneMsg struct {
	err  error
	path string
}

// assetLoadedMsg carries the reference image for the product-mapping view.
// key guards against results for a selection that has since changed.
type assetLoadedMsg struct {
	err   error
	key   string
	asset assets.Asset
}

// View identifies one of the dashboard tabs.
type View int

const (
	ViewProductMapping View = iota
	ViewCompetitor
)

// String returns the tab title.
func (v View) String() string {
	switch v {
	case ViewProductMapping:
		return "Product Mapping"
	case ViewCompetitor:
		return "Competitor Claim Map"
	default:
		return "Unknown"
	}
}
