// ABOUTME: List view: tabs, entity tables, search mode, notification footer
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/farmwise/fbconsole/models"
	"github.com/farmwise/fbconsole/stores"
)

func (m Model) renderListView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("FARMBASE CONSOLE"))
	s.WriteString("\n\n")

	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	if m.searching {
		s.WriteString("Search: " + m.searchInput.View())
		s.WriteString("\n\n")
	}

	s.WriteString(m.renderTable())
	s.WriteString("\n")

	s.WriteString(m.renderNotifications())
	s.WriteString(m.renderListHelp())

	return s.String()
}

func (m Model) renderTabs() string {
	tabs := []string{"Contacts", "Farms", "Engagements", "Prices", "Varieties", "Users"}
	var rendered []string
	for i, tab := range tabs {
		if EntityType(i) == m.entityType {
			rendered = append(rendered, tabActiveStyle.Render(tab))
		} else {
			rendered = append(rendered, tabInactiveStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderTable() string {
	switch m.entityType {
	case EntityContacts:
		view := m.deps.Contacts.Table()
		return m.renderRows(view.Loading, view.Rows.Total, contactColumns, contactRows(view.Rows.Items))
	case EntityFarms:
		view := m.deps.Farms.Table()
		return m.renderRows(view.Loading, view.Rows.Total, farmColumns, farmRows(view.Rows.Items))
	case EntityEngagements:
		view := m.deps.Engagements.Table()
		return m.renderRows(view.Loading, view.Rows.Total, engagementColumns, engagementRows(view.Rows.Items))
	case EntityPrices:
		view, opts := m.deps.Prices.Prices()
		return m.priceTarget(opts) + "\n" +
			m.renderRows(view.Loading, view.Rows.Total, priceColumns, priceRows(view.Rows.Items))
	case EntityVarieties:
		view := m.deps.Varieties.Table()
		return m.renderRows(view.Loading, view.Rows.Total, varietyColumns, varietyRows(view.Rows.Items))
	case EntityUsers:
		view := m.deps.Users.Table()
		return m.renderRows(view.Loading, view.Rows.Total, userColumns, userRows(view.Rows.Items))
	}
	return ""
}

func (m Model) renderRows(loading bool, total *int, columns []table.Column, rows []table.Row) string {
	var s strings.Builder

	height := m.height - 12
	if height < 3 {
		height = 3
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)
	if m.selectedRow < len(rows) {
		t.SetCursor(m.selectedRow)
	}
	s.WriteString(t.View())
	s.WriteString("\n")

	if loading {
		s.WriteString(loadingStyle.Render("loading..."))
	} else if total != nil {
		s.WriteString(helpStyle.Render(fmt.Sprintf("%d row(s), %d total", len(rows), *total)))
	}
	return s.String()
}

var contactColumns = []table.Column{
	{Title: "Name", Width: 26},
	{Title: "Phone", Width: 16},
	{Title: "Role", Width: 18},
	{Title: "Farms", Width: 6},
}

func contactRows(items []models.Contact) []table.Row {
	var rows []table.Row
	for _, c := range items {
		rows = append(rows, table.Row{c.Name, c.PhoneNumber, c.Role, strconv.Itoa(len(c.Farms))})
	}
	return rows
}

var farmColumns = []table.Column{
	{Title: "Name", Width: 26},
	{Title: "Area (ha)", Width: 10},
	{Title: "Owner", Width: 20},
	{Title: "Contacts", Width: 8},
}

func farmRows(items []models.Farm) []table.Row {
	var rows []table.Row
	for _, f := range items {
		area := ""
		if f.AreaHa > 0 {
			area = strconv.FormatFloat(f.AreaHa, 'f', 1, 64)
		}
		rows = append(rows, table.Row{f.Name, area, f.Owner, strconv.Itoa(len(f.Contacts))})
	}
	return rows
}

var engagementColumns = []table.Column{
	{Title: "Contact", Width: 8},
	{Title: "Type", Width: 12},
	{Title: "Date", Width: 12},
	{Title: "Notes", Width: 34},
}

func engagementRows(items []models.ContactEngagement) []table.Row {
	var rows []table.Row
	for _, e := range items {
		notes := e.Notes
		if len(notes) > 34 {
			notes = notes[:31] + "..."
		}
		rows = append(rows, table.Row{
			strconv.FormatInt(e.ContactID, 10), e.EngagementType, e.EngagementDate, notes,
		})
	}
	return rows
}

// priceTarget names the market or commodity the price table is scoped to.
func (m Model) priceTarget(opts stores.PriceOptions) string {
	if opts.QueryType == stores.PricesByCommodity {
		for _, c := range m.deps.Prices.Commodities() {
			if c.ID == opts.CommodityID {
				return helpStyle.Render("Commodity: " + c.Name)
			}
		}
		return helpStyle.Render("Commodity: (none)")
	}
	for _, market := range m.deps.Prices.Markets() {
		if market.ID == opts.MarketID {
			return helpStyle.Render("Market: " + market.Name)
		}
	}
	return helpStyle.Render("Market: (none)")
}

var priceColumns = []table.Column{
	{Title: "Date", Width: 12},
	{Title: "Market", Width: 20},
	{Title: "Commodity", Width: 18},
	{Title: "Retail", Width: 14},
}

func priceRows(items []models.MarketPrice) []table.Row {
	var rows []table.Row
	for _, p := range items {
		retail := ""
		if p.RetailPrice != nil {
			retail = fmt.Sprintf("%.2f %s", *p.RetailPrice, p.RetailCcy)
		}
		rows = append(rows, table.Row{p.PriceDate, p.Market.Name, p.Commodity.Name, retail})
	}
	return rows
}

var varietyColumns = []table.Column{
	{Title: "Variety", Width: 18},
	{Title: "Producer", Width: 18},
	{Title: "Maturity", Width: 12},
	{Title: "Yield (t/ha)", Width: 12},
}

func varietyRows(items []models.CropVariety) []table.Row {
	var rows []table.Row
	for _, v := range items {
		rows = append(rows, table.Row{v.Variety, v.Producer, v.MaturityCategory, v.YieldTHa})
	}
	return rows
}

var userColumns = []table.Column{
	{Title: "Email", Width: 30},
	{Title: "Role", Width: 16},
	{Title: "Experimental", Width: 12},
}

func userRows(items []models.User) []table.Row {
	var rows []table.Row
	for _, u := range items {
		experimental := ""
		if u.ExperimentalFeatures {
			experimental = "yes"
		}
		rows = append(rows, table.Row{u.Email, u.Role, experimental})
	}
	return rows
}

func (m Model) renderNotifications() string {
	active := m.deps.Notifier.Active()
	if len(active) == 0 {
		return ""
	}
	var s strings.Builder
	for _, n := range active {
		var style lipgloss.Style
		switch n.Type {
		case "success":
			style = notifySuccessStyle
		case "error":
			style = notifyErrorStyle
		default:
			style = notifyInfoStyle
		}
		s.WriteString(style.Render("• " + n.Text))
		s.WriteString("\n")
	}
	return s.String()
}

func (m Model) renderListHelp() string {
	var help []string
	if m.entityType == EntityPrices {
		help = []string{
			"↑/↓: Navigate",
			"Tab: Switch tabs",
			"[/]: Page",
			"m: Next market",
			"c: Next commodity",
			"r: Refresh",
			"q: Quit",
		}
	} else {
		help = []string{
			"↑/↓: Navigate",
			"Tab: Switch tabs",
			"[/]: Page",
			"/: Search",
			"n: New",
			"e: Edit",
			"d: Delete",
			"Enter: Open",
			"q: Quit",
		}
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case "down", "j":
		if m.selectedRow < m.visibleRows()-1 {
			m.selectedRow++
		}
	case "tab":
		m.entityType = (m.entityType + 1) % entityCount
		m.selectedRow = 0
		return m, m.refreshEntity()
	case "shift+tab":
		m.entityType = (m.entityType + entityCount - 1) % entityCount
		m.selectedRow = 0
		return m, m.refreshEntity()
	case "[":
		m.changePage(-1)
	case "]":
		m.changePage(1)
	case "/":
		if m.entityType != EntityPrices {
			m.searching = true
			m.searchInput.Focus()
		}
	case "n":
		return m.openEditor(true)
	case "e":
		return m.openEditor(false)
	case "d":
		return m.openDeleteConfirm()
	case "enter":
		return m.openDrawer()
	case "m":
		if m.entityType == EntityPrices {
			m.cycleMarket()
		}
	case "c":
		if m.entityType == EntityPrices {
			m.cycleCommodity()
		}
	case "r":
		return m, m.refreshEntity()
	}
	return m, nil
}

// cycleMarket points the price table at the next market in the picker.
func (m *Model) cycleMarket() {
	markets := m.deps.Prices.Markets()
	if len(markets) == 0 {
		return
	}
	_, opts := m.deps.Prices.Prices()
	next := markets[0].ID
	for i, market := range markets {
		if market.ID == opts.MarketID {
			next = markets[(i+1)%len(markets)].ID
			break
		}
	}
	queryType := stores.PricesByMarket
	m.deps.Prices.UpdatePriceOptions(stores.PriceOptionsPatch{
		QueryType: &queryType,
		MarketID:  &next,
	})
	m.selectedRow = 0
}

// cycleCommodity points the price table at the next commodity.
func (m *Model) cycleCommodity() {
	commodities := m.deps.Prices.Commodities()
	if len(commodities) == 0 {
		return
	}
	_, opts := m.deps.Prices.Prices()
	next := commodities[0].ID
	for i, commodity := range commodities {
		if commodity.ID == opts.CommodityID {
			next = commodities[(i+1)%len(commodities)].ID
			break
		}
	}
	queryType := stores.PricesByCommodity
	m.deps.Prices.UpdatePriceOptions(stores.PriceOptionsPatch{
		QueryType:   &queryType,
		CommodityID: &next,
	})
	m.selectedRow = 0
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.applySearch("")
		return m, nil
	case "enter":
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.applySearch(m.searchInput.Value())
	m.selectedRow = 0
	return m, cmd
}

// applySearch routes the live query to the active tab's store; the stores
// debounce, so typing does not flood the API.
func (m *Model) applySearch(q string) {
	patch := stores.OptionsPatch{Q: &q}
	switch m.entityType {
	case EntityContacts:
		m.deps.Contacts.UpdateTableOptions(patch)
	case EntityFarms:
		m.deps.Farms.UpdateTableOptions(patch)
	case EntityEngagements:
		m.deps.Engagements.UpdateTableOptions(patch)
	case EntityVarieties:
		m.deps.Varieties.UpdateTableOptions(patch)
	case EntityUsers:
		m.deps.Users.UpdateTableOptions(patch)
	}
}

func (m *Model) changePage(delta int) {
	switch m.entityType {
	case EntityContacts:
		pageTo(m.deps.Contacts.Store, delta)
	case EntityFarms:
		pageTo(m.deps.Farms.Store, delta)
	case EntityEngagements:
		pageTo(m.deps.Engagements, delta)
	case EntityPrices:
		_, opts := m.deps.Prices.Prices()
		page := opts.Page + delta
		if page < 1 {
			page = 1
		}
		m.deps.Prices.UpdatePriceOptions(stores.PriceOptionsPatch{Page: &page})
	case EntityVarieties:
		page := m.deps.Varieties.Table().Options.Page + delta
		if page < 1 {
			page = 1
		}
		m.deps.Varieties.UpdateTableOptions(stores.OptionsPatch{Page: &page})
	case EntityUsers:
		pageTo(m.deps.Users, delta)
	}
	m.selectedRow = 0
}

func pageTo[T any](s *stores.Store[T], delta int) {
	page := s.Table().Options.Page + delta
	if page < 1 {
		page = 1
	}
	s.UpdateTableOptions(stores.OptionsPatch{Page: &page})
}

// refreshEntity schedules a fetch for the tab being entered. Entering the
// prices tab also loads the market and commodity pickers, off the UI
// goroutine, and selects the first market when nothing is selected yet.
func (m *Model) refreshEntity() tea.Cmd {
	switch m.entityType {
	case EntityContacts:
		m.deps.Contacts.GetAll()
	case EntityFarms:
		m.deps.Farms.GetAll()
	case EntityEngagements:
		m.deps.Engagements.GetAll()
	case EntityPrices:
		prices := m.deps.Prices
		return func() tea.Msg {
			ctx := context.Background()
			if len(prices.Markets()) == 0 {
				_ = prices.LoadMarkets(ctx)
			}
			if len(prices.Commodities()) == 0 {
				_ = prices.LoadCommodities(ctx)
			}
			_, opts := prices.Prices()
			if opts.MarketID == 0 && opts.CommodityID == 0 {
				if markets := prices.Markets(); len(markets) > 0 {
					id := markets[0].ID
					prices.UpdatePriceOptions(stores.PriceOptionsPatch{MarketID: &id})
					return nil
				}
			}
			prices.GetPrices()
			return nil
		}
	case EntityUsers:
		m.deps.Users.GetAll()
	}
	return nil
}

// visibleRows counts the active tab's rows so the cursor stays on the table.
func (m Model) visibleRows() int {
	switch m.entityType {
	case EntityContacts:
		return len(m.deps.Contacts.Table().Rows.Items)
	case EntityFarms:
		return len(m.deps.Farms.Table().Rows.Items)
	case EntityEngagements:
		return len(m.deps.Engagements.Table().Rows.Items)
	case EntityPrices:
		view, _ := m.deps.Prices.Prices()
		return len(view.Rows.Items)
	case EntityVarieties:
		return len(m.deps.Varieties.Table().Rows.Items)
	case EntityUsers:
		return len(m.deps.Users.Table().Rows.Items)
	}
	return 0
}

func (m Model) selectedContact() (models.Contact, bool) {
	items := m.deps.Contacts.Table().Rows.Items
	if m.selectedRow < len(items) {
		return items[m.selectedRow], true
	}
	return models.Contact{}, false
}

func (m Model) selectedFarm() (models.Farm, bool) {
	items := m.deps.Farms.Table().Rows.Items
	if m.selectedRow < len(items) {
		return items[m.selectedRow], true
	}
	return models.Farm{}, false
}
