// ABOUTME: Tests for the generic store: debounce, page reset, save/delete flows
// ABOUTME: Uses an in-memory fake resource so no HTTP is involved
package stores

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmwise/fbconsole/api"
	"github.com/farmwise/fbconsole/models"
	"github.com/farmwise/fbconsole/notify"
)

type fakeResource struct {
	mu      sync.Mutex
	lists   []api.ListOptions
	listFn  func(api.ListOptions) (api.Page[models.Contact], error)
	created []models.Contact
	updated map[int64]models.Contact
	deleted []int64

	createErr error
	updateErr error
	deleteErr error
}

func newFakeResource() *fakeResource {
	return &fakeResource{updated: map[int64]models.Contact{}}
}

func (f *fakeResource) List(_ context.Context, opts api.ListOptions) (api.Page[models.Contact], error) {
	f.mu.Lock()
	f.lists = append(f.lists, opts)
	fn := f.listFn
	f.mu.Unlock()
	if fn != nil {
		return fn(opts)
	}
	return api.Page[models.Contact]{Items: []models.Contact{{ID: 1, Name: "Amina"}}, Total: 1}, nil
}

func (f *fakeResource) Create(_ context.Context, c models.Contact) (*models.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	c.ID = int64(len(f.created) + 100)
	f.created = append(f.created, c)
	return &c, nil
}

func (f *fakeResource) Update(_ context.Context, id int64, c models.Contact) (*models.Contact, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.updated[id] = c
	return &c, nil
}

func (f *fakeResource) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeResource) listCalls() []api.ListOptions {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]api.ListOptions(nil), f.lists...)
}

func newTestStore(res *fakeResource, q *notify.Queue) *Store[models.Contact] {
	return New(Config[models.Contact]{
		Name:     "Contact",
		Resource: res,
		Notifier: q,
		Debounce: 20 * time.Millisecond,
		ID:       func(c models.Contact) int64 { return c.ID },
	})
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition never became true")
}

func TestDebounceCollapsesBursts(t *testing.T) {
	res := newFakeResource()
	s := newTestStore(res, nil)

	for i := 0; i < 5; i++ {
		q := fmt.Sprintf("query-%d", i)
		s.UpdateTableOptions(OptionsPatch{Q: &q})
	}

	waitFor(t, func() bool { return len(res.listCalls()) > 0 })
	time.Sleep(60 * time.Millisecond)

	calls := res.listCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "query-4", calls[0].Q)
	assert.Equal(t, 1, calls[0].Page)
}

func TestSearchChangeResetsPage(t *testing.T) {
	res := newFakeResource()
	s := newTestStore(res, nil)

	page := 3
	s.UpdateTableOptions(OptionsPatch{Page: &page})
	assert.Equal(t, 3, s.Table().Options.Page)

	q := "maize"
	s.UpdateTableOptions(OptionsPatch{Q: &q})
	assert.Equal(t, 1, s.Table().Options.Page)

	// Filters reset the page too.
	page = 2
	s.UpdateTableOptions(OptionsPatch{Page: &page})
	s.UpdateTableOptions(OptionsPatch{Filters: map[string][]string{"role": {"farmer"}}})
	assert.Equal(t, 1, s.Table().Options.Page)
}

func TestFetchCommitsRowsAndTotal(t *testing.T) {
	res := newFakeResource()
	s := newTestStore(res, nil)

	s.GetAll()
	waitFor(t, func() bool { return s.Table().Rows.Total != nil })

	table := s.Table()
	require.NotNil(t, table.Rows.Total)
	assert.Equal(t, 1, *table.Rows.Total)
	require.Len(t, table.Rows.Items, 1)
	assert.Equal(t, "Amina", table.Rows.Items[0].Name)
	assert.False(t, table.Loading)
}

func TestFetchFailureKeepsPreviousRows(t *testing.T) {
	res := newFakeResource()
	queue := notify.NewStaticQueue()
	s := newTestStore(res, queue)

	s.GetAll()
	waitFor(t, func() bool { return s.Table().Rows.Total != nil })

	res.mu.Lock()
	res.listFn = func(api.ListOptions) (api.Page[models.Contact], error) {
		return api.Page[models.Contact]{}, errors.New("boom")
	}
	res.mu.Unlock()

	s.GetAll()
	waitFor(t, func() bool { return len(res.listCalls()) == 2 && !s.Table().Loading })

	table := s.Table()
	require.Len(t, table.Rows.Items, 1)
	assert.Equal(t, "Amina", table.Rows.Items[0].Name)

	active := queue.Active()
	require.Len(t, active, 1)
	assert.Equal(t, notify.TypeError, active[0].Type)
}

func TestStaleResponseDropped(t *testing.T) {
	res := newFakeResource()
	s := newTestStore(res, nil)

	release := make(chan struct{})
	var calls int
	res.mu.Lock()
	res.listFn = func(opts api.ListOptions) (api.Page[models.Contact], error) {
		res.mu.Lock()
		calls++
		n := calls
		res.mu.Unlock()
		if n == 1 {
			<-release
			return api.Page[models.Contact]{Items: []models.Contact{{ID: 1, Name: "stale"}}, Total: 1}, nil
		}
		return api.Page[models.Contact]{Items: []models.Contact{{ID: 2, Name: "fresh"}}, Total: 1}, nil
	}
	res.mu.Unlock()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); s.fetch() }()
	waitFor(t, func() bool {
		res.mu.Lock()
		defer res.mu.Unlock()
		return calls == 1
	})
	go func() { defer wg.Done(); s.fetch() }()
	waitFor(t, func() bool { return s.Table().Rows.Total != nil })

	close(release)
	wg.Wait()

	table := s.Table()
	require.Len(t, table.Rows.Items, 1)
	assert.Equal(t, "fresh", table.Rows.Items[0].Name)
}

func TestSaveCreatesWhenNoID(t *testing.T) {
	res := newFakeResource()
	queue := notify.NewStaticQueue()
	s := newTestStore(res, queue)

	s.CreateEditShow(nil)
	require.True(t, s.Dialogs().ShowCreateEdit)

	sel := s.Selected()
	require.NotNil(t, sel)
	sel.Name = "Joseph"
	s.SetSelected(*sel)

	require.NoError(t, s.Save(context.Background()))

	require.Len(t, res.created, 1)
	assert.Equal(t, "Joseph", res.created[0].Name)
	assert.Empty(t, res.updated)

	assert.False(t, s.Dialogs().ShowCreateEdit)
	assert.Nil(t, s.Selected())

	active := queue.Active()
	require.Len(t, active, 1)
	assert.Equal(t, notify.TypeSuccess, active[0].Type)
	assert.Equal(t, "Contact created successfully.", active[0].Text)

	// Save refreshes the list from the server.
	waitFor(t, func() bool { return len(res.listCalls()) == 1 })
}

func TestSaveUpdatesWhenIDPresent(t *testing.T) {
	res := newFakeResource()
	queue := notify.NewStaticQueue()
	s := newTestStore(res, queue)

	s.CreateEditShow(&models.Contact{ID: 7, Name: "Grace"})
	require.NoError(t, s.Save(context.Background()))

	assert.Empty(t, res.created)
	require.Contains(t, res.updated, int64(7))
	assert.Equal(t, "Grace", res.updated[7].Name)

	active := queue.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "Contact updated successfully.", active[0].Text)
}

func TestSaveFailureKeepsDialogAndEdits(t *testing.T) {
	res := newFakeResource()
	res.createErr = errors.New("boom")
	queue := notify.NewStaticQueue()
	s := newTestStore(res, queue)

	s.CreateEditShow(&models.Contact{Name: "Halima"})
	err := s.Save(context.Background())
	require.Error(t, err)

	assert.True(t, s.Dialogs().ShowCreateEdit)
	sel := s.Selected()
	require.NotNil(t, sel)
	assert.Equal(t, "Halima", sel.Name)

	active := queue.Active()
	require.Len(t, active, 1)
	assert.Equal(t, notify.TypeError, active[0].Type)
}

func TestSaveHandledErrorNotifiesOnce(t *testing.T) {
	res := newFakeResource()
	res.createErr = &api.Error{Status: 422, Detail: "name required", Handled: true}
	queue := notify.NewStaticQueue()
	s := newTestStore(res, queue)

	s.CreateEditShow(&models.Contact{Name: ""})
	err := s.Save(context.Background())
	require.Error(t, err)

	// The transport already raised the toast; the store must not add another.
	assert.Empty(t, queue.Active())
}

func TestSaveUnauthorizedNeverToasts(t *testing.T) {
	res := newFakeResource()
	res.createErr = &api.Error{Status: 401, Detail: "expired"}
	queue := notify.NewStaticQueue()
	s := newTestStore(res, queue)

	s.CreateEditShow(&models.Contact{Name: "x"})
	require.Error(t, s.Save(context.Background()))
	assert.Empty(t, queue.Active())
}

func TestSaveWithoutSelectionIsNoOp(t *testing.T) {
	res := newFakeResource()
	s := newTestStore(res, nil)

	require.NoError(t, s.Save(context.Background()))
	assert.Empty(t, res.created)
	assert.Empty(t, res.updated)
}

func TestRemoveFlow(t *testing.T) {
	res := newFakeResource()
	queue := notify.NewStaticQueue()
	s := newTestStore(res, queue)

	s.RemoveShow(models.Contact{ID: 9, Name: "Daniel"})
	require.True(t, s.Dialogs().ShowRemove)

	require.NoError(t, s.Remove(context.Background()))

	assert.Equal(t, []int64{9}, res.deleted)
	assert.False(t, s.Dialogs().ShowRemove)
	assert.Nil(t, s.Selected())

	active := queue.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "Contact deleted successfully.", active[0].Text)
}

func TestRemoveFailureKeepsConfirmationOpen(t *testing.T) {
	res := newFakeResource()
	res.deleteErr = errors.New("boom")
	queue := notify.NewStaticQueue()
	s := newTestStore(res, queue)

	s.RemoveShow(models.Contact{ID: 9})
	err := s.Remove(context.Background())
	require.Error(t, err)

	assert.True(t, s.Dialogs().ShowRemove)
	require.NotNil(t, s.Selected())

	active := queue.Active()
	require.Len(t, active, 1)
	assert.Equal(t, notify.TypeError, active[0].Type)
}

func TestCloseCreateEditDiscardsSelection(t *testing.T) {
	res := newFakeResource()
	s := newTestStore(res, nil)

	s.CreateEditShow(&models.Contact{ID: 3})
	s.CloseCreateEdit()

	assert.False(t, s.Dialogs().ShowCreateEdit)
	assert.Nil(t, s.Selected())
}
