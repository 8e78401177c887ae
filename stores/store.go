// ABOUTME: Generic per-entity state store behind every console table view
// ABOUTME: Debounced list queries, dialog flags, save/delete flows, stale-response guard
package stores

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/farmwise/fbconsole/api"
	"github.com/farmwise/fbconsole/notify"
)

// DefaultDebounce coalesces rapid option changes into one list request.
const DefaultDebounce = 500 * time.Millisecond

// Resource is the client a store drives. The api package's resource
// clients satisfy it directly.
type Resource[T any] interface {
	List(ctx context.Context, opts api.ListOptions) (api.Page[T], error)
	Create(ctx context.Context, entity T) (*T, error)
	Update(ctx context.Context, id int64, entity T) (*T, error)
	Delete(ctx context.Context, id int64) error
}

// TableOptions is the list-view query state.
type TableOptions struct {
	Q            string
	Page         int
	ItemsPerPage int
	SortBy       []string
	Descending   []bool
	Filters      map[string][]string
}

func (o TableOptions) listOptions() api.ListOptions {
	return api.ListOptions{
		Q:            o.Q,
		Page:         o.Page,
		ItemsPerPage: o.ItemsPerPage,
		SortBy:       o.SortBy,
		Descending:   o.Descending,
		Filters:      o.Filters,
	}
}

// OptionsPatch merges into TableOptions; nil pointer fields are untouched.
// Changing Q or Filters resets the page to 1.
type OptionsPatch struct {
	Q            *string
	Page         *int
	ItemsPerPage *int
	SortBy       []string
	Descending   []bool
	Filters      map[string][]string
}

// TableRows is the committed list result.
type TableRows[T any] struct {
	Items []T
	// Total is nil until the first successful fetch.
	Total *int
}

// TableView is a consistent snapshot of the table slice for rendering.
type TableView[T any] struct {
	Rows    TableRows[T]
	Options TableOptions
	Loading bool
}

// Dialogs holds the visibility flags owned by the store.
type Dialogs struct {
	ShowCreateEdit bool
	ShowRemove     bool
	// Drawers are the entity-specific sub-resource surfaces (notes, chat,
	// memories), keyed by name.
	Drawers map[string]bool
}

// Config parametrizes a store over its entity type.
type Config[T any] struct {
	// Name is the singular label used in notifications, e.g. "Contact".
	Name     string
	Resource Resource[T]
	Notifier *notify.Queue
	Logger   *zap.Logger
	// Debounce for GetAll; zero means DefaultDebounce.
	Debounce time.Duration
	// NewDefault seeds the create dialog with an empty record.
	NewDefault func() T
	// ID extracts the record identifier; zero means "not yet created".
	ID func(T) int64
	// Defaults for the initial table options.
	ItemsPerPage int
	SortBy       []string
	Descending   []bool
}

// Store coordinates one entity's list view, selection and dialogs. All
// mutating entry points take the lock; reads hand out snapshots.
type Store[T any] struct {
	mu  sync.Mutex
	cfg Config[T]

	selected *T
	dialogs  Dialogs
	table    TableView[T]

	timer *time.Timer
	// dispatched/applied are the stale-response guard: a list response is
	// committed only if nothing newer has been committed already.
	dispatched uint64
	applied    uint64
}

func New[T any](cfg Config[T]) *Store[T] {
	if cfg.Debounce == 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.ItemsPerPage == 0 {
		cfg.ItemsPerPage = 25
	}
	return &Store[T]{
		cfg: cfg,
		dialogs: Dialogs{
			Drawers: map[string]bool{},
		},
		table: TableView[T]{
			Options: TableOptions{
				Page:         1,
				ItemsPerPage: cfg.ItemsPerPage,
				SortBy:       cfg.SortBy,
				Descending:   cfg.Descending,
			},
		},
	}
}

// Table returns a snapshot of the table slice.
func (s *Store[T]) Table() TableView[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	view := s.table
	view.Rows.Items = append([]T(nil), s.table.Rows.Items...)
	if s.table.Rows.Total != nil {
		total := *s.table.Rows.Total
		view.Rows.Total = &total
	}
	return view
}

// Selected returns a copy of the selected record, or nil.
func (s *Store[T]) Selected() *T {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return nil
	}
	sel := *s.selected
	return &sel
}

// SetSelected replaces the selected record in place; used by edit forms.
func (s *Store[T]) SetSelected(entity T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = &entity
}

// Dialogs returns the current dialog flags.
func (s *Store[T]) Dialogs() Dialogs {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.dialogs
	d.Drawers = make(map[string]bool, len(s.dialogs.Drawers))
	for k, v := range s.dialogs.Drawers {
		d.Drawers[k] = v
	}
	return d
}

// GetAll schedules a debounced list fetch. A burst of calls collapses to
// one request that reads the options current at fire time.
func (s *Store[T]) GetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.cfg.Debounce, s.fetch)
}

// Flush runs any pending debounced fetch immediately; used by tests and by
// surfaces that need a synchronous initial load.
func (s *Store[T]) Flush() {
	s.mu.Lock()
	pending := s.timer != nil && s.timer.Stop()
	s.timer = nil
	s.mu.Unlock()
	if pending {
		s.fetch()
	}
}

func (s *Store[T]) fetch() {
	s.mu.Lock()
	s.dispatched++
	seq := s.dispatched
	opts := s.table.Options
	s.table.Loading = true
	s.mu.Unlock()

	page, err := s.cfg.Resource.List(context.Background(), opts.listOptions())

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq < s.applied {
		// A newer response has already been committed; drop this one.
		return
	}
	s.applied = seq
	s.table.Loading = false
	if err != nil {
		// Previous rows stay on screen: stale but consistent.
		s.cfg.Logger.Warn("list fetch failed", zap.String("entity", s.cfg.Name), zap.Error(err))
		s.notifyError(err, fmt.Sprintf("Failed to load %ss.", lower(s.cfg.Name)))
		return
	}
	total := page.Total
	s.table.Rows = TableRows[T]{Items: page.Items, Total: &total}
}

// UpdateTableOptions merges the patch, resets the page on search or filter
// changes, and always schedules a refresh.
func (s *Store[T]) UpdateTableOptions(patch OptionsPatch) {
	s.mu.Lock()
	opts := &s.table.Options
	resetPage := false
	if patch.Q != nil {
		opts.Q = *patch.Q
		resetPage = true
	}
	if patch.Filters != nil {
		opts.Filters = patch.Filters
		resetPage = true
	}
	if patch.ItemsPerPage != nil {
		opts.ItemsPerPage = *patch.ItemsPerPage
	}
	if patch.SortBy != nil {
		opts.SortBy = patch.SortBy
	}
	if patch.Descending != nil {
		opts.Descending = patch.Descending
	}
	if patch.Page != nil {
		opts.Page = *patch.Page
	}
	if resetPage {
		opts.Page = 1
	}
	s.mu.Unlock()

	s.GetAll()
}

// CreateEditShow opens the edit dialog. With no entity it seeds the
// selection with a default record so the dialog serves create and edit
// without branching.
func (s *Store[T]) CreateEditShow(entity *T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entity != nil {
		sel := *entity
		s.selected = &sel
	} else if s.cfg.NewDefault != nil {
		def := s.cfg.NewDefault()
		s.selected = &def
	} else {
		var zero T
		s.selected = &zero
	}
	s.dialogs.ShowCreateEdit = true
}

// CloseCreateEdit hides the dialog and discards unsaved edits.
func (s *Store[T]) CloseCreateEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dialogs.ShowCreateEdit = false
	s.selected = nil
}

// Save creates or updates the selected record depending on whether it has
// an identifier yet. On success the dialog closes and the list refreshes
// from the server; the list is never patched from the save response. On
// failure the dialog stays open with the edits intact and the original
// error is returned so callers can chain on it.
func (s *Store[T]) Save(ctx context.Context) error {
	s.mu.Lock()
	if s.selected == nil {
		s.mu.Unlock()
		return nil
	}
	entity := *s.selected
	s.mu.Unlock()

	var err error
	var verb string
	if s.cfg.ID(entity) == 0 {
		_, err = s.cfg.Resource.Create(ctx, entity)
		verb = "created"
	} else {
		_, err = s.cfg.Resource.Update(ctx, s.cfg.ID(entity), entity)
		verb = "updated"
	}
	if err != nil {
		s.notifyError(err, fmt.Sprintf("Failed to save %s.", lower(s.cfg.Name)))
		return err
	}

	if s.cfg.Notifier != nil {
		s.cfg.Notifier.Success(fmt.Sprintf("%s %s successfully.", s.cfg.Name, verb))
	}
	s.CloseCreateEdit()
	s.GetAll()
	return nil
}

// RemoveShow opens the delete confirmation for the given record.
func (s *Store[T]) RemoveShow(entity T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = &entity
	s.dialogs.ShowRemove = true
}

// CloseRemove hides the confirmation and clears the selection.
func (s *Store[T]) CloseRemove() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dialogs.ShowRemove = false
	s.selected = nil
}

// Remove deletes the selected record. On success the confirmation closes
// and the list refreshes; on failure it stays open for a retry and the
// original error is returned after cleanup.
func (s *Store[T]) Remove(ctx context.Context) error {
	s.mu.Lock()
	if s.selected == nil {
		s.mu.Unlock()
		return nil
	}
	id := s.cfg.ID(*s.selected)
	s.mu.Unlock()
	if id == 0 {
		return nil
	}

	if err := s.cfg.Resource.Delete(ctx, id); err != nil {
		s.notifyError(err, fmt.Sprintf("Failed to delete %s.", lower(s.cfg.Name)))
		return err
	}

	if s.cfg.Notifier != nil {
		s.cfg.Notifier.Success(fmt.Sprintf("%s deleted successfully.", s.cfg.Name))
	}
	s.CloseRemove()
	s.GetAll()
	return nil
}

// ShowDrawer opens a named sub-resource surface for the given record.
func (s *Store[T]) ShowDrawer(name string, entity *T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entity != nil {
		sel := *entity
		s.selected = &sel
	}
	s.dialogs.Drawers[name] = true
}

// CloseDrawer hides a named drawer and clears the selection.
func (s *Store[T]) CloseDrawer(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dialogs.Drawers[name] = false
	s.selected = nil
}

// notifyError surfaces err unless the API pipeline already did. 401s are
// session teardown and never toast.
func (s *Store[T]) notifyError(err error, fallback string) {
	if s.cfg.Notifier == nil || api.IsHandled(err) || api.StatusOf(err) == 401 {
		return
	}
	s.cfg.Notifier.Error(fallback)
}

func lower(name string) string {
	if name == "" {
		return name
	}
	b := []byte(name)
	if b[0] >= 'A' && b[0] <= 'Z' {
		b[0] += 'a' - 'A'
	}
	return string(b)
}
