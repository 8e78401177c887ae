// ABOUTME: Edit view: textinput forms backed by the store's selected record
// ABOUTME: Save branches create/update inside the store, never here
package tui

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// openEditor opens the create or edit dialog for the active tab. Prices
// and varieties are read-only reference data.
func (m Model) openEditor(create bool) (tea.Model, tea.Cmd) {
	switch m.entityType {
	case EntityContacts:
		if create {
			m.deps.Contacts.CreateEditShow(nil)
		} else {
			contact, ok := m.selectedContact()
			if !ok {
				return m, nil
			}
			m.deps.Contacts.CreateEditShow(&contact)
		}
		sel := m.deps.Contacts.Selected()
		m.formLabels = []string{"Name", "Phone", "Email", "Role", "Gender"}
		m.formInputs = buildInputs(m.formLabels, []string{
			sel.Name, sel.PhoneNumber, sel.Email, sel.Role, sel.Gender,
		})
	case EntityFarms:
		if create {
			m.deps.Farms.CreateEditShow(nil)
		} else {
			farm, ok := m.selectedFarm()
			if !ok {
				return m, nil
			}
			m.deps.Farms.CreateEditShow(&farm)
		}
		sel := m.deps.Farms.Selected()
		area := ""
		if sel.AreaHa > 0 {
			area = strconv.FormatFloat(sel.AreaHa, 'f', -1, 64)
		}
		m.formLabels = []string{"Name", "Description", "Area (ha)", "Owner"}
		m.formInputs = buildInputs(m.formLabels, []string{
			sel.Name, sel.Description, area, sel.Owner,
		})
	case EntityEngagements:
		if create {
			m.deps.Engagements.CreateEditShow(nil)
		} else {
			items := m.deps.Engagements.Table().Rows.Items
			if m.selectedRow >= len(items) {
				return m, nil
			}
			m.deps.Engagements.CreateEditShow(&items[m.selectedRow])
		}
		sel := m.deps.Engagements.Selected()
		contactID := ""
		if sel.ContactID > 0 {
			contactID = strconv.FormatInt(sel.ContactID, 10)
		}
		m.formLabels = []string{"Contact ID", "Type", "Date (YYYY-MM-DD)", "Notes"}
		m.formInputs = buildInputs(m.formLabels, []string{
			contactID, sel.EngagementType, sel.EngagementDate, sel.Notes,
		})
	case EntityUsers:
		if create {
			m.deps.Users.CreateEditShow(nil)
		} else {
			items := m.deps.Users.Table().Rows.Items
			if m.selectedRow >= len(items) {
				return m, nil
			}
			m.deps.Users.CreateEditShow(&items[m.selectedRow])
		}
		sel := m.deps.Users.Selected()
		m.formLabels = []string{"Email", "Role", "Password"}
		m.formInputs = buildInputs(m.formLabels, []string{sel.Email, sel.Role, ""})
	default:
		return m, nil
	}

	m.editingNew = create
	m.focusIndex = 0
	m.updateFormFocus()
	m.viewMode = ViewEdit
	m.err = nil
	return m, nil
}

func buildInputs(labels, values []string) []textinput.Model {
	inputs := make([]textinput.Model, len(labels))
	for i := range labels {
		in := textinput.New()
		in.Placeholder = labels[i]
		in.SetValue(values[i])
		in.CharLimit = 120
		in.Width = 40
		inputs[i] = in
	}
	return inputs
}

func (m *Model) updateFormFocus() {
	for i := range m.formInputs {
		if i == m.focusIndex {
			m.formInputs[i].Focus()
		} else {
			m.formInputs[i].Blur()
		}
	}
}

func (m Model) renderEditView() string {
	var s strings.Builder

	if m.editingNew {
		s.WriteString(titleStyle.Render("NEW " + m.entityTypeName()))
	} else {
		s.WriteString(titleStyle.Render("EDIT " + m.entityTypeName()))
	}
	s.WriteString("\n\n")

	for i, input := range m.formInputs {
		if i == m.focusIndex {
			s.WriteString("> ")
		} else {
			s.WriteString("  ")
		}
		s.WriteString(m.formLabels[i] + ": " + input.View())
		s.WriteString("\n")
	}
	s.WriteString("\n")

	if m.err != nil {
		s.WriteString(notifyErrorStyle.Render(m.err.Error()))
		s.WriteString("\n")
	}
	s.WriteString(m.renderNotifications())
	s.WriteString(helpStyle.Render("Tab: Next field • Enter: Save • Esc: Cancel"))

	return s.String()
}

func (m Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeEditor()
		m.viewMode = ViewList
		return m, nil
	case "tab", "down":
		m.focusIndex = (m.focusIndex + 1) % len(m.formInputs)
		m.updateFormFocus()
		return m, nil
	case "shift+tab", "up":
		m.focusIndex = (m.focusIndex + len(m.formInputs) - 1) % len(m.formInputs)
		m.updateFormFocus()
		return m, nil
	case "enter":
		return m, m.saveEntity()
	}

	var cmd tea.Cmd
	m.formInputs[m.focusIndex], cmd = m.formInputs[m.focusIndex].Update(msg)
	return m, cmd
}

func (m *Model) closeEditor() {
	switch m.entityType {
	case EntityContacts:
		m.deps.Contacts.CloseCreateEdit()
	case EntityFarms:
		m.deps.Farms.CloseCreateEdit()
	case EntityEngagements:
		m.deps.Engagements.CloseCreateEdit()
	case EntityUsers:
		m.deps.Users.CloseCreateEdit()
	}
}

// saveEntity writes the form back into the store selection and runs Save
// off the UI goroutine. On failure the store keeps the dialog open and the
// error lands in m.err via opDoneMsg.
func (m Model) saveEntity() tea.Cmd {
	values := make([]string, len(m.formInputs))
	for i := range m.formInputs {
		values[i] = strings.TrimSpace(m.formInputs[i].Value())
	}

	switch m.entityType {
	case EntityContacts:
		sel := m.deps.Contacts.Selected()
		if sel == nil {
			return nil
		}
		sel.Name, sel.PhoneNumber, sel.Email, sel.Role, sel.Gender =
			values[0], values[1], values[2], values[3], values[4]
		m.deps.Contacts.SetSelected(*sel)
		return func() tea.Msg {
			return opDoneMsg{err: m.deps.Contacts.Save(context.Background())}
		}
	case EntityFarms:
		sel := m.deps.Farms.Selected()
		if sel == nil {
			return nil
		}
		sel.Name, sel.Description, sel.Owner = values[0], values[1], values[3]
		if area, err := strconv.ParseFloat(values[2], 64); err == nil {
			sel.AreaHa = area
		}
		m.deps.Farms.SetSelected(*sel)
		return func() tea.Msg {
			return opDoneMsg{err: m.deps.Farms.Save(context.Background())}
		}
	case EntityEngagements:
		sel := m.deps.Engagements.Selected()
		if sel == nil {
			return nil
		}
		if id, err := strconv.ParseInt(values[0], 10, 64); err == nil {
			sel.ContactID = id
		}
		sel.EngagementType, sel.EngagementDate, sel.Notes = values[1], values[2], values[3]
		m.deps.Engagements.SetSelected(*sel)
		return func() tea.Msg {
			return opDoneMsg{err: m.deps.Engagements.Save(context.Background())}
		}
	case EntityUsers:
		sel := m.deps.Users.Selected()
		if sel == nil {
			return nil
		}
		sel.Email, sel.Role, sel.Password = values[0], values[1], values[2]
		m.deps.Users.SetSelected(*sel)
		return func() tea.Msg {
			return opDoneMsg{err: m.deps.Users.Save(context.Background())}
		}
	}
	return nil
}
