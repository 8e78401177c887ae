// ABOUTME: Contact store: table plus chat, memories and engagement drawers
// ABOUTME: Saved filters feed the filter dialog options
package stores

import (
	"context"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/farmwise/fbconsole/api"
	"github.com/farmwise/fbconsole/models"
	"github.com/farmwise/fbconsole/notify"
)

// Drawer names owned by the contact store.
const (
	DrawerChat        = "chat"
	DrawerMemories    = "memories"
	DrawerEngagements = "engagements"
)

// ContactStore is the contact table plus its record-scoped drawers. The
// drawers load against the contact selected at open time.
type ContactStore struct {
	*Store[models.Contact]

	contacts    *api.ContactsAPI
	engagements *api.EngagementsAPI
	filters     *api.ContactFiltersAPI

	Chat               *SubResource[models.MessageSummary]
	Memories           *SubResource[models.Memory]
	ContactEngagements *SubResource[models.ContactEngagement]
	SavedFilters       *SubResource[models.ContactFilter]

	mu        sync.Mutex
	drawerFor int64
	lastAgent *models.AgentRef
}

type ContactDeps struct {
	Contacts    *api.ContactsAPI
	Engagements *api.EngagementsAPI
	Filters     *api.ContactFiltersAPI
	Notifier    *notify.Queue
	Logger      *zap.Logger
	Debounce    time.Duration // zero means DefaultDebounce
}

func NewContactStore(deps ContactDeps) *ContactStore {
	s := &ContactStore{
		contacts:    deps.Contacts,
		engagements: deps.Engagements,
		filters:     deps.Filters,
	}
	s.Store = New(Config[models.Contact]{
		Name:     "Contact",
		Resource: deps.Contacts,
		Notifier: deps.Notifier,
		Logger:   deps.Logger,
		Debounce: deps.Debounce,
		ID:       func(c models.Contact) int64 { return c.ID },
		SortBy:   []string{"name"},
	})

	s.Chat = NewSubResource(deps.Notifier, deps.Logger, "Failed to load chat history.",
		func(ctx context.Context) ([]models.MessageSummary, int, error) {
			state, err := deps.Contacts.GetChatState(ctx, s.drawerContact())
			if err != nil {
				return nil, 0, err
			}
			s.setLastAgent(state.LastAgent)
			return state.Messages, len(state.Messages), nil
		})
	s.Memories = NewSubResource(deps.Notifier, deps.Logger, "Failed to load memories.",
		func(ctx context.Context) ([]models.Memory, int, error) {
			memories, err := deps.Contacts.GetMemories(ctx, s.drawerContact())
			if err != nil {
				return nil, 0, err
			}
			return memories, len(memories), nil
		})
	s.ContactEngagements = NewSubResource(deps.Notifier, deps.Logger, "Failed to load engagements.",
		func(ctx context.Context) ([]models.ContactEngagement, int, error) {
			page, err := deps.Engagements.ListForContact(ctx, s.drawerContact())
			if err != nil {
				return nil, 0, err
			}
			return page.Items, page.Total, nil
		})
	s.SavedFilters = NewSubResource(deps.Notifier, deps.Logger, "Failed to load saved filters.",
		func(ctx context.Context) ([]models.ContactFilter, int, error) {
			page, err := deps.Filters.ListEnabled(ctx)
			if err != nil {
				return nil, 0, err
			}
			return page.Items, page.Total, nil
		})
	return s
}

func (s *ContactStore) drawerContact() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drawerFor
}

func (s *ContactStore) setLastAgent(agent *models.AgentRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAgent = agent
}

// LastAgent reports who handled the contact's most recent conversation.
func (s *ContactStore) LastAgent() *models.AgentRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAgent
}

// OpenChat shows the chat drawer for a contact and loads its transcript.
func (s *ContactStore) OpenChat(ctx context.Context, contact models.Contact) error {
	s.openDrawer(DrawerChat, contact)
	return s.Chat.Load(ctx)
}

// OpenMemories shows the memory drawer for a contact.
func (s *ContactStore) OpenMemories(ctx context.Context, contact models.Contact) error {
	s.openDrawer(DrawerMemories, contact)
	return s.Memories.Load(ctx)
}

// OpenEngagements shows the engagement history drawer for a contact.
func (s *ContactStore) OpenEngagements(ctx context.Context, contact models.Contact) error {
	s.openDrawer(DrawerEngagements, contact)
	return s.ContactEngagements.Load(ctx)
}

func (s *ContactStore) openDrawer(name string, contact models.Contact) {
	s.mu.Lock()
	s.drawerFor = contact.ID
	s.mu.Unlock()
	s.ShowDrawer(name, &contact)
}

// CloseContactDrawer hides a drawer and drops its loaded collection.
func (s *ContactStore) CloseContactDrawer(name string) {
	s.CloseDrawer(name)
	s.mu.Lock()
	s.drawerFor = 0
	s.lastAgent = nil
	s.mu.Unlock()
	switch name {
	case DrawerChat:
		s.Chat.Reset()
	case DrawerMemories:
		s.Memories.Reset()
	case DrawerEngagements:
		s.ContactEngagements.Reset()
	}
}

// ApplyFilter narrows the table to a saved filter's criteria and schedules
// a refresh; the page resets with the filter change.
func (s *ContactStore) ApplyFilter(filter *models.ContactFilter) {
	filters := map[string][]string{}
	if filter != nil {
		filters["filter_id"] = []string{strconv.FormatInt(filter.ID, 10)}
	}
	s.UpdateTableOptions(OptionsPatch{Filters: filters})
}
