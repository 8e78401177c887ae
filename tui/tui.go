// ABOUTME: Terminal console using bubbletea
// ABOUTME: Full-screen interface over the per-entity stores
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/farmwise/fbconsole/models"
	"github.com/farmwise/fbconsole/notify"
	"github.com/farmwise/fbconsole/stores"
)

// ViewMode represents the current TUI view.
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewEdit
	ViewConfirmDelete
	ViewDrawer
)

// EntityType represents the tab being viewed.
type EntityType int

const (
	EntityContacts EntityType = iota
	EntityFarms
	EntityEngagements
	EntityPrices
	EntityVarieties
	EntityUsers

	entityCount
)

// Deps is everything the console reads and drives. All mutation goes
// through the stores; the model holds only view state.
type Deps struct {
	Contacts    *stores.ContactStore
	Farms       *stores.FarmStore
	Engagements *stores.Store[models.ContactEngagement]
	Prices      *stores.MarketStore
	Varieties   *stores.VarietyStore
	Users       *stores.Store[models.User]
	Notifier    *notify.Queue
	Logger      *zap.Logger

	// DefaultCrop seeds the variety tab; "maize" when empty.
	DefaultCrop string
}

// Model is the main bubbletea model.
type Model struct {
	deps Deps

	viewMode   ViewMode
	entityType EntityType

	// List view state
	selectedRow int
	searching   bool
	searchInput textinput.Model

	// Edit view state
	formInputs []textinput.Model
	formLabels []string
	focusIndex int
	editingNew bool

	// Drawer state
	drawerName string

	// UI state
	width  int
	height int
	err    error
}

// NewModel creates the console model.
func NewModel(deps Deps) Model {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.DefaultCrop == "" {
		deps.DefaultCrop = "maize"
	}
	search := textinput.New()
	search.Placeholder = "search..."
	search.CharLimit = 80
	return Model{
		deps:        deps,
		viewMode:    ViewList,
		entityType:  EntityContacts,
		searchInput: search,
		width:       80,
		height:      24,
	}
}

// tickMsg redraws the screen so debounced fetches and expiring
// notifications become visible without a keypress.
type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// opDoneMsg reports the completion of a store operation run off the UI
// goroutine (save, delete, drawer load).
type opDoneMsg struct {
	err error
}

func (m Model) Init() tea.Cmd {
	m.deps.Contacts.GetAll()
	return tea.Batch(tick(), func() tea.Msg {
		_ = m.deps.Varieties.Load(context.Background(), m.deps.DefaultCrop)
		return nil
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		return m, tick()
	case opDoneMsg:
		m.err = msg.err
		if msg.err == nil {
			switch m.viewMode {
			case ViewEdit, ViewConfirmDelete:
				m.viewMode = ViewList
			}
		}
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	switch m.viewMode {
	case ViewList:
		return m.renderListView()
	case ViewEdit:
		return m.renderEditView()
	case ViewConfirmDelete:
		return m.renderConfirmDeleteView()
	case ViewDrawer:
		return m.renderDrawerView()
	}
	return ""
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Text entry modes swallow all keys except their own controls.
	if m.viewMode == ViewList && m.searching {
		return m.handleSearchKeys(msg)
	}
	if m.viewMode == ViewEdit {
		return m.handleEditKeys(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	}

	switch m.viewMode {
	case ViewList:
		return m.handleListKeys(msg)
	case ViewConfirmDelete:
		return m.handleConfirmDeleteKeys(msg)
	case ViewDrawer:
		return m.handleDrawerKeys(msg)
	}
	return m, nil
}

func (m Model) entityTypeName() string {
	switch m.entityType {
	case EntityContacts:
		return "CONTACT"
	case EntityFarms:
		return "FARM"
	case EntityEngagements:
		return "ENGAGEMENT"
	case EntityPrices:
		return "MARKET PRICE"
	case EntityVarieties:
		return "VARIETY"
	case EntityUsers:
		return "USER"
	}
	return ""
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("70")).
			MarginBottom(1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("70")).
			Background(lipgloss.Color("235")).
			Padding(0, 2)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	notifySuccessStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("10"))

	notifyErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("9")).
				Bold(true)

	notifyInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Italic(true)
)
