// ABOUTME: Delete confirmation view; a failed delete keeps the dialog open
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) openDeleteConfirm() (tea.Model, tea.Cmd) {
	switch m.entityType {
	case EntityContacts:
		contact, ok := m.selectedContact()
		if !ok {
			return m, nil
		}
		m.deps.Contacts.RemoveShow(contact)
	case EntityFarms:
		farm, ok := m.selectedFarm()
		if !ok {
			return m, nil
		}
		m.deps.Farms.RemoveShow(farm)
	case EntityEngagements:
		items := m.deps.Engagements.Table().Rows.Items
		if m.selectedRow >= len(items) {
			return m, nil
		}
		m.deps.Engagements.RemoveShow(items[m.selectedRow])
	case EntityUsers:
		items := m.deps.Users.Table().Rows.Items
		if m.selectedRow >= len(items) {
			return m, nil
		}
		m.deps.Users.RemoveShow(items[m.selectedRow])
	default:
		return m, nil
	}

	m.viewMode = ViewConfirmDelete
	m.err = nil
	return m, nil
}

func (m Model) renderConfirmDeleteView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("DELETE " + m.entityTypeName()))
	s.WriteString("\n\n")

	s.WriteString(fmt.Sprintf("Delete this %s?\n\n", strings.ToLower(m.entityTypeName())))
	s.WriteString(m.deleteTarget())
	s.WriteString("\n\n")

	if m.err != nil {
		s.WriteString(notifyErrorStyle.Render(m.err.Error()))
		s.WriteString("\n")
	}
	s.WriteString(m.renderNotifications())
	s.WriteString(helpStyle.Render("y: Delete • n/Esc: Cancel"))

	return s.String()
}

func (m Model) deleteTarget() string {
	switch m.entityType {
	case EntityContacts:
		if sel := m.deps.Contacts.Selected(); sel != nil {
			return fmt.Sprintf("  %s (ID: %d)", sel.Name, sel.ID)
		}
	case EntityFarms:
		if sel := m.deps.Farms.Selected(); sel != nil {
			return fmt.Sprintf("  %s (ID: %d)", sel.Name, sel.ID)
		}
	case EntityEngagements:
		if sel := m.deps.Engagements.Selected(); sel != nil {
			return fmt.Sprintf("  %s on %s (ID: %d)", sel.EngagementType, sel.EngagementDate, sel.ID)
		}
	case EntityUsers:
		if sel := m.deps.Users.Selected(); sel != nil {
			return fmt.Sprintf("  %s (ID: %d)", sel.Email, sel.ID)
		}
	}
	return ""
}

func (m Model) handleConfirmDeleteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		return m, m.deleteEntity()
	case "n", "N", "esc":
		switch m.entityType {
		case EntityContacts:
			m.deps.Contacts.CloseRemove()
		case EntityFarms:
			m.deps.Farms.CloseRemove()
		case EntityEngagements:
			m.deps.Engagements.CloseRemove()
		case EntityUsers:
			m.deps.Users.CloseRemove()
		}
		m.viewMode = ViewList
		return m, nil
	}
	return m, nil
}

func (m Model) deleteEntity() tea.Cmd {
	switch m.entityType {
	case EntityContacts:
		return func() tea.Msg {
			return opDoneMsg{err: m.deps.Contacts.Remove(context.Background())}
		}
	case EntityFarms:
		return func() tea.Msg {
			return opDoneMsg{err: m.deps.Farms.Remove(context.Background())}
		}
	case EntityEngagements:
		return func() tea.Msg {
			return opDoneMsg{err: m.deps.Engagements.Remove(context.Background())}
		}
	case EntityUsers:
		return func() tea.Msg {
			return opDoneMsg{err: m.deps.Users.Remove(context.Background())}
		}
	}
	return nil
}
