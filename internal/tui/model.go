package tui

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Veraticus/claimmap/internal/assets"
	"github.com/Veraticus/claimmap/internal/common"
	"github.com/Veraticus/claimmap/internal/engine"
	"github.com/Veraticus/claimmap/internal/model"
	"github.com/Veraticus/claimmap/internal/tui/components"
	"github.com/Veraticus/claimmap/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Picker identifiers.
const (
	pickerMappingCountry    = "mapping-country"
	pickerMappingBrand      = "mapping-brand"
	pickerMappingProduct    = "mapping-product"
	pickerCompetitorCountry = "competitor-country"
	pickerCompetitorProduct = "competitor-products"
	pickerTouchpoints       = "competitor-touchpoints"
)

// statusKind selects the style of the status bar message.
type statusKind int

const (
	statusInfo statusKind = iota
	statusSuccess
	statusWarning
)

// Model holds the dashboard state. Every filter change builds new criteria
// and recomputes options, subset and projection from the immutable store.
type Model struct {
	theme              themes.Theme
	engine             *engine.Engine
	mappingErr         error
	competitorErr      error
	assetErr           error
	asset              assets.Asset
	help               help.Model
	config             Config
	keymap             KeyMap
	mappingCriteria    model.FilterCriteria
	competitorCriteria model.FilterCriteria
	mapping            engine.Result
	competitor         engine.Result
	summary            engine.Summary
	assetKey           string
	status             string
	mappingPickers     []components.PickerModel
	competitorPickers  []components.PickerModel
	chart              components.ChartModel
	width              int
	height             int
	panel              int
	statusKind         statusKind
	view               View
	assetReady         bool
	quitting           bool
}

// New builds the dashboard model and computes the initial views.
func New(opts ...Option) (Model, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Engine == nil {
		return Model{}, errors.New("engine is required")
	}

	m := Model{
		theme:  cfg.Theme,
		engine: cfg.Engine,
		config: cfg,
		keymap: DefaultKeyMap(),
		help:   help.New(),
		width:  cfg.Width,
		height: cfg.Height,
		mappingPickers: []components.PickerModel{
			components.NewPickerModel(pickerMappingCountry, "Country", false, cfg.Theme),
			components.NewPickerModel(pickerMappingBrand, "Brand", false, cfg.Theme),
			components.NewPickerModel(pickerMappingProduct, "Product", false, cfg.Theme),
		},
		competitorPickers: []components.PickerModel{
			components.NewPickerModel(pickerCompetitorCountry, "Country", false, cfg.Theme),
			components.NewPickerModel(pickerCompetitorProduct, "Products", true, cfg.Theme),
			components.NewPickerModel(pickerTouchpoints, "Touchpoints", true, cfg.Theme),
		},
		chart:              components.NewChartModel(cfg.Theme),
		mappingCriteria:    model.FilterCriteria{View: model.ViewProductMapping},
		competitorCriteria: model.FilterCriteria{View: model.ViewCompetitor},
	}

	switch cfg.Initial.View {
	case model.ViewCompetitor:
		m.view = ViewCompetitor
		m.competitorCriteria = cfg.Initial
	default:
		m.view = ViewProductMapping
		m.mappingCriteria = cfg.Initial.WithView(model.ViewProductMapping)
	}

	m.refreshMapping()
	m.refreshCompetitor()
	m.resize()
	m.focusPanel(0)
	return m, nil
}

// Init starts the reference image lookup.
func (m Model) Init() tea.Cmd {
	return m.assetCmd()
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case components.SelectionChangedMsg:
		return m, m.applySelection(msg)

	case assetLoadedMsg:
		if msg.key != m.assetKey {
			return m, nil
		}
		m.asset = msg.asset
		m.assetErr = msg.err
		m.assetReady = true
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			common.LogWarn("Chart export unavailable", common.Fields{"error": msg.err.Error()})
			m.setStatus(noticeFor(msg.err), statusWarning)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("Exported claim map to %s", msg.path), statusSuccess)
		return m, nil
	}

	return m, nil
}

// handleKey routes global keys and delegates the rest to the focused panel.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keymap.SwitchView):
		if m.view == ViewProductMapping {
			m.view = ViewCompetitor
		} else {
			m.view = ViewProductMapping
		}
		m.status = ""
		m.focusPanel(0)
		return m, nil

	case key.Matches(msg, m.keymap.NextPanel):
		m.focusPanel(m.panel + 1)
		return m, nil

	case key.Matches(msg, m.keymap.PrevPanel):
		m.focusPanel(m.panel - 1)
		return m, nil

	case key.Matches(msg, m.keymap.Export):
		if m.view != ViewCompetitor {
			m.setStatus("Switch to the competitor claim map to export.", statusInfo)
			return m, nil
		}
		m.setStatus("Exporting claim map...", statusInfo)
		return m, m.exportChart()

	case key.Matches(msg, m.keymap.Rerender):
		if m.view == ViewCompetitor {
			m.refreshCompetitor()
			m.setStatus("Re-rendered claim map", statusInfo)
		}
		return m, nil
	}

	var cmd tea.Cmd
	pickers := m.pickers()
	if m.panel < len(pickers) {
		pickers[m.panel], cmd = pickers[m.panel].Update(msg)
		return m, cmd
	}
	m.chart, cmd = m.chart.Update(msg)
	return m, cmd
}

// applySelection folds a picker change into new criteria and recomputes.
func (m *Model) applySelection(msg components.SelectionChangedMsg) tea.Cmd {
	value := ""
	if len(msg.Selected) > 0 {
		value = msg.Selected[0]
	}

	switch msg.ID {
	case pickerMappingCountry:
		m.mappingCriteria = m.mappingCriteria.WithCountry(value)
	case pickerMappingBrand:
		m.mappingCriteria = m.mappingCriteria.WithBrand(value)
	case pickerMappingProduct:
		m.mappingCriteria = m.mappingCriteria.WithProducts(value)
	case pickerCompetitorCountry:
		m.competitorCriteria = m.competitorCriteria.WithCountry(value)
	case pickerCompetitorProduct:
		m.competitorCriteria = m.competitorCriteria.WithProducts(msg.Selected...)
	case pickerTouchpoints:
		if len(msg.Selected) > 0 && len(msg.Selected) == len(m.competitorPickers[2].Options()) {
			m.competitorCriteria = m.competitorCriteria.WithDefaultTouchpoints()
		} else {
			m.competitorCriteria = m.competitorCriteria.WithTouchpoints(msg.Selected...)
		}
	default:
		return nil
	}

	m.status = ""
	if msg.ID == pickerMappingCountry || msg.ID == pickerMappingBrand || msg.ID == pickerMappingProduct {
		m.refreshMapping()
		return m.assetCmd()
	}
	m.refreshCompetitor()
	return nil
}

// refreshMapping reconciles the product-mapping criteria, defaults every
// single-select filter to its first option and reruns the engine.
func (m *Model) refreshMapping() {
	c := m.engine.Reconcile(m.mappingCriteria.WithView(model.ViewProductMapping))
	opts := m.engine.Options(c)

	if !slices.Contains(opts.Countries, c.Country) {
		c = c.WithCountry(first(opts.Countries))
		c = m.engine.Reconcile(c)
		opts = m.engine.Options(c)
	}
	if c.Brand == "" && len(opts.Brands) > 0 {
		c = c.WithBrand(opts.Brands[0])
		opts = m.engine.Options(c)
	}
	if c.Product() == "" && len(opts.Products) > 0 {
		c = c.WithProducts(opts.Products[0])
	}
	m.mappingCriteria = c

	m.mappingPickers[0].SetOptions(opts.Countries, []string{c.Country})
	m.mappingPickers[1].SetOptions(opts.Brands, []string{c.Brand})
	m.mappingPickers[2].SetOptions(opts.Products, []string{c.Product()})

	m.mapping, m.mappingErr = m.engine.Run(c)
	m.asset = assets.Asset{}
	m.assetErr = nil
	m.assetReady = false
	m.assetKey = c.ImageKey()
}

// refreshCompetitor reconciles the competitor criteria and reruns the
// engine, which draws fresh jitter.
func (m *Model) refreshCompetitor() {
	c := m.engine.Reconcile(m.competitorCriteria.WithView(model.ViewCompetitor))
	opts := m.engine.Options(c)

	if !slices.Contains(opts.Countries, c.Country) {
		c = m.engine.Reconcile(c.WithCountry(first(opts.Countries)))
		opts = m.engine.Options(c)
	}
	m.competitorCriteria = c

	touchpoints := c.Touchpoints
	if c.DefaultTouchpoints() {
		touchpoints = opts.Touchpoints
	}
	m.competitorPickers[0].SetOptions(opts.Countries, []string{c.Country})
	m.competitorPickers[1].SetOptions(opts.Products, c.Products)
	m.competitorPickers[2].SetOptions(opts.Touchpoints, touchpoints)

	m.competitor, m.competitorErr = m.engine.Run(c)
	m.summary = m.engine.Summary(m.competitor)
	m.chart.SetProjection(m.competitor.Projection)
}

// assetCmd looks up the image of the current product-mapping selection.
func (m Model) assetCmd() tea.Cmd {
	if m.mappingErr != nil || m.mappingCriteria.Product() == "" {
		return nil
	}
	return m.lookupAsset(m.mappingCriteria)
}

// pickers returns the filter controls of the active view.
func (m *Model) pickers() []components.PickerModel {
	if m.view == ViewCompetitor {
		return m.competitorPickers
	}
	return m.mappingPickers
}

// panelCount is the number of focusable panels in the active view.
func (m *Model) panelCount() int {
	n := len(m.pickers())
	if m.view == ViewCompetitor {
		n++
	}
	return n
}

// focusPanel moves keyboard focus, wrapping around the panels.
func (m *Model) focusPanel(i int) {
	n := m.panelCount()
	m.panel = ((i % n) + n) % n

	for idx := range m.mappingPickers {
		m.mappingPickers[idx].Blur()
	}
	for idx := range m.competitorPickers {
		m.competitorPickers[idx].Blur()
	}
	m.chart.Blur()

	pickers := m.pickers()
	if m.panel < len(pickers) {
		pickers[m.panel].Focus()
		return
	}
	m.chart.Focus()
}

// resize distributes the terminal between the filter column and the content.
func (m *Model) resize() {
	contentW, rows := m.layout()
	for i := range m.mappingPickers {
		m.mappingPickers[i].Resize(filterWidth-4, rows)
	}
	for i := range m.competitorPickers {
		m.competitorPickers[i].Resize(filterWidth-4, rows)
	}
	m.chart.Resize(contentW, max(m.height-8, 10))
}

func (m *Model) setStatus(msg string, kind statusKind) {
	m.status = msg
	m.statusKind = kind
}

// noticeFor turns a recoverable error into its user-facing notice.
func noticeFor(err error) string {
	if notice := common.Notice(err); notice != "" {
		return notice
	}
	return err.Error()
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
