// ABOUTME: Tests for list-view cursor movement against the loaded table
package tui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/farmwise/fbconsole/api"
	"github.com/farmwise/fbconsole/models"
	"github.com/farmwise/fbconsole/notify"
	"github.com/farmwise/fbconsole/stores"
)

func contactListModel(t *testing.T, items []models.Contact) Model {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/default/contacts", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(api.Page[models.Contact]{Items: items, Total: len(items)})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := api.NewClient(api.Config{BaseURL: srv.URL})
	contacts := stores.NewContactStore(stores.ContactDeps{
		Contacts:    api.NewContactsAPI(client),
		Engagements: api.NewEngagementsAPI(client),
		Filters:     api.NewContactFiltersAPI(client),
		Notifier:    notify.NewStaticQueue(),
		Debounce:    time.Millisecond,
	})
	return NewModel(Deps{Contacts: contacts, Notifier: notify.NewStaticQueue()})
}

func press(t *testing.T, m Model, key string) Model {
	t.Helper()
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
	return updated.(Model)
}

func TestCursorStopsAtLastRow(t *testing.T) {
	m := contactListModel(t, []models.Contact{
		{ID: 1, Name: "Amina"},
		{ID: 2, Name: "Blessing"},
	})
	m.deps.Contacts.GetAll()
	m.deps.Contacts.Flush()

	for i := 0; i < 5; i++ {
		m = press(t, m, "j")
	}
	assert.Equal(t, 1, m.selectedRow)

	m = press(t, m, "k")
	m = press(t, m, "k")
	m = press(t, m, "k")
	assert.Equal(t, 0, m.selectedRow)
}

func TestCursorStaysPutOnEmptyTable(t *testing.T) {
	m := contactListModel(t, nil)
	m.deps.Contacts.GetAll()
	m.deps.Contacts.Flush()

	m = press(t, m, "j")
	assert.Equal(t, 0, m.selectedRow)
}
