// ABOUTME: Drawer view: record-scoped sub-resources (notes, chat, memories)
// ABOUTME: Opens against the row under the cursor; contents load async
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/farmwise/fbconsole/models"
	"github.com/farmwise/fbconsole/stores"
)

// openDrawer opens the default drawer for the active tab: chat for
// contacts, notes for farms. c/m on the contact tab pick other drawers.
func (m Model) openDrawer() (tea.Model, tea.Cmd) {
	switch m.entityType {
	case EntityContacts:
		return m.openContactDrawer(stores.DrawerChat)
	case EntityFarms:
		farm, ok := m.selectedFarm()
		if !ok {
			return m, nil
		}
		m.drawerName = stores.DrawerNotes
		m.viewMode = ViewDrawer
		m.err = nil
		return m, func() tea.Msg {
			return opDoneMsg{err: m.deps.Farms.OpenNotes(context.Background(), farm)}
		}
	}
	return m, nil
}

func (m Model) openContactDrawer(name string) (tea.Model, tea.Cmd) {
	contact, ok := m.selectedContact()
	if !ok {
		return m, nil
	}
	m.drawerName = name
	m.viewMode = ViewDrawer
	m.err = nil
	return m, func() tea.Msg {
		var err error
		switch name {
		case stores.DrawerChat:
			err = m.deps.Contacts.OpenChat(context.Background(), contact)
		case stores.DrawerMemories:
			err = m.deps.Contacts.OpenMemories(context.Background(), contact)
		case stores.DrawerEngagements:
			err = m.deps.Contacts.OpenEngagements(context.Background(), contact)
		}
		return opDoneMsg{err: err}
	}
}

func (m Model) renderDrawerView() string {
	var s strings.Builder

	switch m.drawerName {
	case stores.DrawerChat:
		s.WriteString(m.renderChatDrawer())
	case stores.DrawerMemories:
		s.WriteString(m.renderMemoriesDrawer())
	case stores.DrawerEngagements:
		s.WriteString(m.renderEngagementsDrawer())
	case stores.DrawerNotes:
		s.WriteString(m.renderNotesDrawer())
	}

	s.WriteString("\n")
	if m.err != nil {
		s.WriteString(notifyErrorStyle.Render(m.err.Error()))
		s.WriteString("\n")
	}
	s.WriteString(m.renderNotifications())
	if m.entityType == EntityContacts {
		s.WriteString(helpStyle.Render("c: Chat • m: Memories • g: Engagements • Esc: Back"))
	} else {
		s.WriteString(helpStyle.Render("Esc: Back"))
	}
	return s.String()
}

func (m Model) renderChatDrawer() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render(m.drawerTitle("CHAT")))
	s.WriteString("\n\n")

	if agent := m.deps.Contacts.LastAgent(); agent != nil {
		s.WriteString(helpStyle.Render("Last agent: " + agent.Name))
		s.WriteString("\n\n")
	}

	chat := m.deps.Contacts.Chat.View()
	if chat.Loading {
		s.WriteString(loadingStyle.Render("loading..."))
		return s.String()
	}
	if len(chat.Items) == 0 {
		s.WriteString("No messages")
		return s.String()
	}
	for _, msg := range chat.Items {
		marker := "« "
		if msg.Direction == models.DirectionOutbound {
			marker = "» "
		}
		if !msg.Timestamp.IsZero() {
			s.WriteString(helpStyle.Render(msg.Timestamp.Format("2006-01-02 15:04")))
			s.WriteString(" ")
		}
		s.WriteString(marker + msg.Text)
		s.WriteString("\n")
	}
	return s.String()
}

func (m Model) renderMemoriesDrawer() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render(m.drawerTitle("MEMORIES")))
	s.WriteString("\n\n")

	memories := m.deps.Contacts.Memories.View()
	if memories.Loading {
		s.WriteString(loadingStyle.Render("loading..."))
		return s.String()
	}
	if len(memories.Items) == 0 {
		s.WriteString("No memories")
		return s.String()
	}
	for _, memory := range memories.Items {
		s.WriteString("• " + memory.Memory)
		s.WriteString("\n")
	}
	return s.String()
}

func (m Model) renderEngagementsDrawer() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render(m.drawerTitle("ENGAGEMENTS")))
	s.WriteString("\n\n")

	engagements := m.deps.Contacts.ContactEngagements.View()
	if engagements.Loading {
		s.WriteString(loadingStyle.Render("loading..."))
		return s.String()
	}
	if len(engagements.Items) == 0 {
		s.WriteString("No engagements")
		return s.String()
	}
	for _, e := range engagements.Items {
		s.WriteString(fmt.Sprintf("%s  %-10s %s\n", e.EngagementDate, e.EngagementType, e.Notes))
	}
	return s.String()
}

func (m Model) renderNotesDrawer() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render(m.drawerTitle("NOTES")))
	s.WriteString("\n\n")

	notes := m.deps.Farms.Notes.View()
	if notes.Loading {
		s.WriteString(loadingStyle.Render("loading..."))
		return s.String()
	}
	if len(notes.Items) == 0 {
		s.WriteString("No notes")
		return s.String()
	}
	for _, n := range notes.Items {
		if !n.CreatedAt.IsZero() {
			s.WriteString(helpStyle.Render(n.CreatedAt.Format("2006-01-02")))
			s.WriteString(" ")
		}
		s.WriteString(n.Content)
		if len(n.Tags) > 0 {
			s.WriteString(helpStyle.Render(" [" + strings.Join(n.Tags, ", ") + "]"))
		}
		s.WriteString("\n")
	}
	return s.String()
}

func (m Model) drawerTitle(kind string) string {
	switch m.entityType {
	case EntityContacts:
		if sel := m.deps.Contacts.Selected(); sel != nil {
			return kind + ": " + sel.Name
		}
	case EntityFarms:
		if sel := m.deps.Farms.Selected(); sel != nil {
			return kind + ": " + sel.Name
		}
	}
	return kind
}

func (m Model) handleDrawerKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		switch m.entityType {
		case EntityContacts:
			m.deps.Contacts.CloseContactDrawer(m.drawerName)
		case EntityFarms:
			m.deps.Farms.CloseNotes()
		}
		m.drawerName = ""
		m.viewMode = ViewList
		return m, nil
	case "c":
		if m.entityType == EntityContacts {
			m.deps.Contacts.CloseContactDrawer(m.drawerName)
			return m.openContactDrawer(stores.DrawerChat)
		}
	case "m":
		if m.entityType == EntityContacts {
			m.deps.Contacts.CloseContactDrawer(m.drawerName)
			return m.openContactDrawer(stores.DrawerMemories)
		}
	case "g":
		if m.entityType == EntityContacts {
			m.deps.Contacts.CloseContactDrawer(m.drawerName)
			return m.openContactDrawer(stores.DrawerEngagements)
		}
	}
	return m, nil
}
