// ABOUTME: One-shot loader for record-scoped collections (notes, chat, memories)
// ABOUTME: Each drawer owns items, total and a loading flag
package stores

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/farmwise/fbconsole/api"
	"github.com/farmwise/fbconsole/notify"
)

// SubView is a snapshot of a drawer's collection.
type SubView[T any] struct {
	Items   []T
	Total   int
	Loading bool
}

// SubResource loads a record-scoped collection on demand. Unlike the main
// table it has no options or debounce; opening the drawer loads it whole.
type SubResource[T any] struct {
	mu   sync.Mutex
	load func(ctx context.Context) ([]T, int, error)

	items   []T
	total   int
	loading bool

	notifier *notify.Queue
	log      *zap.Logger
	failText string
}

func NewSubResource[T any](notifier *notify.Queue, log *zap.Logger, failText string, load func(ctx context.Context) ([]T, int, error)) *SubResource[T] {
	if log == nil {
		log = zap.NewNop()
	}
	return &SubResource[T]{
		load:     load,
		notifier: notifier,
		log:      log,
		failText: failText,
	}
}

// Load fetches the collection and replaces the held items. A failed load
// clears nothing; the previous items stay visible.
func (s *SubResource[T]) Load(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	items, total, err := s.load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.log.Warn("drawer load failed", zap.Error(err))
		if s.notifier != nil && !api.IsHandled(err) && api.StatusOf(err) != 401 {
			s.notifier.Error(s.failText)
		}
		return err
	}
	s.items = items
	s.total = total
	return nil
}

// View returns a snapshot of the drawer's collection.
func (s *SubResource[T]) View() SubView[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SubView[T]{
		Items:   append([]T(nil), s.items...),
		Total:   s.total,
		Loading: s.loading,
	}
}

// Reset drops the held items; called when the drawer closes so the next
// record never flashes the previous record's data.
func (s *SubResource[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.total = 0
	s.loading = false
}
