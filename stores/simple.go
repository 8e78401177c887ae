// ABOUTME: Plain table stores with no drawers: engagements, filters, users
package stores

import (
	"time"

	"go.uber.org/zap"

	"github.com/farmwise/fbconsole/api"
	"github.com/farmwise/fbconsole/models"
	"github.com/farmwise/fbconsole/notify"
)

type SimpleDeps struct {
	Notifier *notify.Queue
	Logger   *zap.Logger
	Debounce time.Duration
}

// NewEngagementStore builds the engagement table store. Engagements are
// always created against a contact; the default record carries a visit.
func NewEngagementStore(client *api.EngagementsAPI, deps SimpleDeps) *Store[models.ContactEngagement] {
	return New(Config[models.ContactEngagement]{
		Name:     "Engagement",
		Resource: client,
		Notifier: deps.Notifier,
		Logger:   deps.Logger,
		Debounce: deps.Debounce,
		ID:       func(e models.ContactEngagement) int64 { return e.ID },
		NewDefault: func() models.ContactEngagement {
			return models.ContactEngagement{EngagementType: models.EngagementVisit}
		},
		SortBy:     []string{"engagement_date"},
		Descending: []bool{true},
	})
}

// NewFilterStore builds the saved-filter table store.
func NewFilterStore(client *api.ContactFiltersAPI, deps SimpleDeps) *Store[models.ContactFilter] {
	return New(Config[models.ContactFilter]{
		Name:     "Filter",
		Resource: client,
		Notifier: deps.Notifier,
		Logger:   deps.Logger,
		Debounce: deps.Debounce,
		ID:       func(f models.ContactFilter) int64 { return f.ID },
		NewDefault: func() models.ContactFilter {
			return models.ContactFilter{FilterType: "attribute", Enabled: true}
		},
		SortBy: []string{"name"},
	})
}

// NewUserStore builds the user admin table store.
func NewUserStore(client *api.UsersAPI, deps SimpleDeps) *Store[models.User] {
	return New(Config[models.User]{
		Name:     "User",
		Resource: client,
		Notifier: deps.Notifier,
		Logger:   deps.Logger,
		Debounce: deps.Debounce,
		ID:       func(u models.User) int64 { return u.ID },
		SortBy:   []string{"email"},
	})
}
