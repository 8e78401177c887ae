// ABOUTME: Tests for contact drawers (chat, memories) and farm notes flows
package stores

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmwise/fbconsole/api"
	"github.com/farmwise/fbconsole/models"
	"github.com/farmwise/fbconsole/notify"
)

func contactTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/default/contacts/7/chatstate", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(models.ChatState{
			LastAgent: &models.AgentRef{Name: "advisory-bot"},
			Messages: []models.MessageSummary{
				{Direction: models.DirectionInbound, Text: "price of maize?"},
				{Direction: models.DirectionOutbound, Text: "Mbare: 120 USD/t"},
			},
		})
	})
	mux.HandleFunc("/default/contacts/7/memories", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"results": []models.Memory{{ID: "m1", Memory: "grows maize on 2ha"}},
		})
	})
	mux.HandleFunc("/default/contact_engagements", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "7", r.URL.Query().Get("filters[contact_id]"))
		_ = json.NewEncoder(w).Encode(api.Page[models.ContactEngagement]{
			Items: []models.ContactEngagement{{ID: 1, ContactID: 7, EngagementType: models.EngagementVisit}},
			Total: 1,
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newContactTestStore(t *testing.T, baseURL string) *ContactStore {
	t.Helper()
	client := api.NewClient(api.Config{BaseURL: baseURL})
	return NewContactStore(ContactDeps{
		Contacts:    api.NewContactsAPI(client),
		Engagements: api.NewEngagementsAPI(client),
		Filters:     api.NewContactFiltersAPI(client),
		Notifier:    notify.NewStaticQueue(),
	})
}

func TestContactChatDrawer(t *testing.T) {
	srv := contactTestServer(t)
	s := newContactTestStore(t, srv.URL)

	contact := models.Contact{ID: 7, Name: "Amina"}
	require.NoError(t, s.OpenChat(context.Background(), contact))

	assert.True(t, s.Dialogs().Drawers[DrawerChat])
	require.NotNil(t, s.Selected())
	assert.Equal(t, int64(7), s.Selected().ID)

	chat := s.Chat.View()
	require.Len(t, chat.Items, 2)
	assert.Equal(t, models.DirectionInbound, chat.Items[0].Direction)

	agent := s.LastAgent()
	require.NotNil(t, agent)
	assert.Equal(t, "advisory-bot", agent.Name)

	// Closing drops the transcript so the next contact starts clean.
	s.CloseContactDrawer(DrawerChat)
	assert.False(t, s.Dialogs().Drawers[DrawerChat])
	assert.Nil(t, s.Selected())
	assert.Empty(t, s.Chat.View().Items)
	assert.Nil(t, s.LastAgent())
}

func TestContactMemoriesDrawer(t *testing.T) {
	srv := contactTestServer(t)
	s := newContactTestStore(t, srv.URL)

	require.NoError(t, s.OpenMemories(context.Background(), models.Contact{ID: 7}))

	memories := s.Memories.View()
	require.Len(t, memories.Items, 1)
	assert.Equal(t, "grows maize on 2ha", memories.Items[0].Memory)
}

func TestContactEngagementsDrawerFiltersByContact(t *testing.T) {
	srv := contactTestServer(t)
	s := newContactTestStore(t, srv.URL)

	require.NoError(t, s.OpenEngagements(context.Background(), models.Contact{ID: 7}))

	engagements := s.ContactEngagements.View()
	require.Len(t, engagements.Items, 1)
	assert.Equal(t, int64(7), engagements.Items[0].ContactID)
}

func TestFarmNotesDrawerReloadsAfterEdit(t *testing.T) {
	var (
		mu    sync.Mutex
		notes = []models.Note{{ID: 1, FarmID: 3, Content: "fenced the north field"}}
	)
	mux := http.NewServeMux()
	mux.HandleFunc("/default/farms/3/notes", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch r.Method {
		case http.MethodPost:
			var payload struct {
				Content string `json:"content"`
			}
			_ = json.NewDecoder(r.Body).Decode(&payload)
			note := models.Note{ID: int64(len(notes) + 1), FarmID: 3, Content: payload.Content}
			notes = append(notes, note)
			_ = json.NewEncoder(w).Encode(note)
		default:
			_ = json.NewEncoder(w).Encode(api.Page[models.Note]{Items: notes, Total: len(notes)})
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := api.NewClient(api.Config{BaseURL: srv.URL})
	queue := notify.NewStaticQueue()
	s := NewFarmStore(FarmDeps{Farms: api.NewFarmsAPI(client), Notifier: queue})

	require.NoError(t, s.OpenNotes(context.Background(), models.Farm{ID: 3, Name: "Hilltop"}))
	assert.Len(t, s.Notes.View().Items, 1)

	require.NoError(t, s.AddNote(context.Background(), models.Note{Content: "planted SC719"}))

	// The drawer shows the server's list, not a local append.
	view := s.Notes.View()
	require.Len(t, view.Items, 2)
	assert.Equal(t, "planted SC719", view.Items[1].Content)

	active := queue.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "Note added successfully.", active[0].Text)

	s.CloseNotes()
	assert.Empty(t, s.Notes.View().Items)
}
