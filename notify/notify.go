// ABOUTME: In-memory transient notification queue shared by stores and the API client
// ABOUTME: Time-ordered messages with severity and auto-expiry
package notify

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Notification type constants.
const (
	TypeSuccess = "success"
	TypeError   = "error"
	TypeWarning = "warning"
	TypeInfo    = "info"
)

// DefaultTimeout is applied when a notification does not specify one.
const DefaultTimeout = 5 * time.Second

type Notification struct {
	ID        string
	Text      string
	Type      string
	Timeout   time.Duration
	Timestamp time.Time
}

// Queue is a process-wide, time-ordered queue of transient messages.
// A display surface consumes it; stores and the API client produce into it.
type Queue struct {
	mu      sync.Mutex
	items   []Notification
	entropy *ulid.MonotonicEntropy
	// expire lets tests disable the auto-removal timers
	expire bool
}

func NewQueue() *Queue {
	return &Queue{
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
		expire:  true,
	}
}

// NewStaticQueue returns a queue without auto-expiry timers.
func NewStaticQueue() *Queue {
	q := NewQueue()
	q.expire = false
	return q
}

// Add appends a notification and schedules its removal after its timeout.
// A zero timeout gets DefaultTimeout; a negative timeout never expires.
func (q *Queue) Add(n Notification) string {
	q.mu.Lock()
	n.ID = ulid.MustNew(ulid.Timestamp(time.Now()), q.entropy).String()
	n.Timestamp = time.Now()
	if n.Timeout == 0 {
		n.Timeout = DefaultTimeout
	}
	q.items = append(q.items, n)
	q.mu.Unlock()

	if q.expire && n.Timeout > 0 {
		id := n.ID
		time.AfterFunc(n.Timeout, func() { q.Remove(id) })
	}
	return n.ID
}

// Success, Error, Warning and Info are shorthands for Add.
func (q *Queue) Success(text string) string {
	return q.Add(Notification{Text: text, Type: TypeSuccess})
}

func (q *Queue) Error(text string) string {
	return q.Add(Notification{Text: text, Type: TypeError})
}

func (q *Queue) Warning(text string) string {
	return q.Add(Notification{Text: text, Type: TypeWarning})
}

func (q *Queue) Info(text string) string {
	return q.Add(Notification{Text: text, Type: TypeInfo})
}

func (q *Queue) Remove(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, n := range q.items {
		if n.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return
		}
	}
}

func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = nil
}

// Active returns a snapshot of the queue in arrival order.
func (q *Queue) Active() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Notification, len(q.items))
	copy(out, q.items)
	return out
}
