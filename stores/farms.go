// ABOUTME: Farm store: table plus the notes drawer with inline note CRUD
// ABOUTME: Note edits reload the drawer from the server, never patch in place
package stores

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/farmwise/fbconsole/api"
	"github.com/farmwise/fbconsole/models"
	"github.com/farmwise/fbconsole/notify"
)

const DrawerNotes = "notes"

// FarmStore is the farm table plus the notes drawer.
type FarmStore struct {
	*Store[models.Farm]

	farms    *api.FarmsAPI
	notifier *notify.Queue

	Notes *SubResource[models.Note]

	mu        sync.Mutex
	drawerFor int64
}

type FarmDeps struct {
	Farms    *api.FarmsAPI
	Notifier *notify.Queue
	Logger   *zap.Logger
	Debounce time.Duration
}

func NewFarmStore(deps FarmDeps) *FarmStore {
	s := &FarmStore{
		farms:    deps.Farms,
		notifier: deps.Notifier,
	}
	s.Store = New(Config[models.Farm]{
		Name:     "Farm",
		Resource: deps.Farms,
		Notifier: deps.Notifier,
		Logger:   deps.Logger,
		Debounce: deps.Debounce,
		ID:       func(f models.Farm) int64 { return f.ID },
		SortBy:   []string{"name"},
	})
	s.Notes = NewSubResource(deps.Notifier, deps.Logger, "Failed to load notes.",
		func(ctx context.Context) ([]models.Note, int, error) {
			page, err := deps.Farms.ListNotes(ctx, s.drawerFarm())
			if err != nil {
				return nil, 0, err
			}
			return page.Items, page.Total, nil
		})
	return s
}

func (s *FarmStore) drawerFarm() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drawerFor
}

// OpenNotes shows the notes drawer for a farm and loads its notes.
func (s *FarmStore) OpenNotes(ctx context.Context, farm models.Farm) error {
	s.mu.Lock()
	s.drawerFor = farm.ID
	s.mu.Unlock()
	s.ShowDrawer(DrawerNotes, &farm)
	return s.Notes.Load(ctx)
}

// CloseNotes hides the drawer and drops the loaded notes.
func (s *FarmStore) CloseNotes() {
	s.CloseDrawer(DrawerNotes)
	s.mu.Lock()
	s.drawerFor = 0
	s.mu.Unlock()
	s.Notes.Reset()
}

// AddNote creates a note on the drawer's farm and reloads the drawer.
func (s *FarmStore) AddNote(ctx context.Context, note models.Note) error {
	farmID := s.drawerFarm()
	if farmID == 0 {
		return nil
	}
	if _, err := s.farms.CreateNote(ctx, farmID, note); err != nil {
		s.noteError(err, "Failed to save note.")
		return err
	}
	if s.notifier != nil {
		s.notifier.Success("Note added successfully.")
	}
	return s.Notes.Load(ctx)
}

// UpdateNote edits a note on the drawer's farm and reloads the drawer.
func (s *FarmStore) UpdateNote(ctx context.Context, noteID int64, note models.Note) error {
	farmID := s.drawerFarm()
	if farmID == 0 || noteID == 0 {
		return nil
	}
	if _, err := s.farms.UpdateNote(ctx, farmID, noteID, note); err != nil {
		s.noteError(err, "Failed to save note.")
		return err
	}
	if s.notifier != nil {
		s.notifier.Success("Note updated successfully.")
	}
	return s.Notes.Load(ctx)
}

// DeleteNote removes a note from the drawer's farm and reloads the drawer.
func (s *FarmStore) DeleteNote(ctx context.Context, noteID int64) error {
	farmID := s.drawerFarm()
	if farmID == 0 || noteID == 0 {
		return nil
	}
	if err := s.farms.DeleteNote(ctx, farmID, noteID); err != nil {
		s.noteError(err, "Failed to delete note.")
		return err
	}
	if s.notifier != nil {
		s.notifier.Success("Note deleted successfully.")
	}
	return s.Notes.Load(ctx)
}

func (s *FarmStore) noteError(err error, fallback string) {
	if s.notifier == nil || api.IsHandled(err) || api.StatusOf(err) == 401 {
		return
	}
	s.notifier.Error(fallback)
}
