// ABOUTME: Tests for the notification queue: ordering, expiry, shorthands
package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAssignsOrderedIDs(t *testing.T) {
	q := NewStaticQueue()

	first := q.Success("saved")
	second := q.Error("broke")
	require.NotEmpty(t, first)
	require.NotEmpty(t, second)
	// ULIDs from one monotonic source sort in insertion order.
	assert.Less(t, first, second)

	active := q.Active()
	require.Len(t, active, 2)
	assert.Equal(t, "saved", active[0].Text)
	assert.Equal(t, TypeSuccess, active[0].Type)
	assert.Equal(t, TypeError, active[1].Type)
}

func TestRemoveDropsOnlyTarget(t *testing.T) {
	q := NewStaticQueue()

	keep := q.Info("keep")
	drop := q.Warning("drop")
	q.Remove(drop)

	active := q.Active()
	require.Len(t, active, 1)
	assert.Equal(t, keep, active[0].ID)
}

func TestClearEmptiesQueue(t *testing.T) {
	q := NewStaticQueue()
	q.Success("a")
	q.Success("b")
	q.Clear()
	assert.Empty(t, q.Active())
}

func TestAutoExpiry(t *testing.T) {
	q := NewQueue()
	q.Add(Notification{Text: "blink", Type: TypeInfo, Timeout: 20 * time.Millisecond})

	require.Len(t, q.Active(), 1)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(q.Active()) == 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("notification never expired")
}

func TestNegativeTimeoutNeverExpires(t *testing.T) {
	q := NewQueue()
	q.Add(Notification{Text: "sticky", Type: TypeError, Timeout: -1})

	time.Sleep(50 * time.Millisecond)
	assert.Len(t, q.Active(), 1)
}

func TestDefaultTimeoutApplied(t *testing.T) {
	q := NewStaticQueue()
	q.Add(Notification{Text: "x", Type: TypeInfo})

	active := q.Active()
	require.Len(t, active, 1)
	assert.Equal(t, DefaultTimeout, active[0].Timeout)
}
