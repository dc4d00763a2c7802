package ws

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	mu     sync.Mutex
	events []any
}

func (f *fakeSender) Send(v any) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, v)
	return true
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()
	s := &fakeSender{}
	r.Register("c1", "u1", RoleRegular, s)

	e, ok := r.Lookup("c1")
	require.True(t, ok)
	assert.Equal(t, "u1", e.UserID)
	assert.Equal(t, RoleRegular, e.Role)

	r.Unregister("c1")
	_, ok = r.Lookup("c1")
	assert.False(t, ok)
}

func TestRegistryRegisterIdempotent(t *testing.T) {
	r := NewRegistry()
	r.Register("c1", "u1", RoleRegular, &fakeSender{})
	r.Register("c1", "u2", RoleOperator, &fakeSender{})

	e, ok := r.Lookup("c1")
	require.True(t, ok)
	assert.Equal(t, "u1", e.UserID, "second register for the same conn id must be a no-op")
	assert.Equal(t, 1, r.Count())
}

func TestRegistryUnregisterUnknownIsNoop(t *testing.T) {
	r := NewRegistry()
	r.Register("c1", "u1", RoleRegular, &fakeSender{})
	r.Unregister("missing")
	assert.Equal(t, 1, r.Count())
}

func TestRegistryConnectionsByUser(t *testing.T) {
	r := NewRegistry()
	r.Register("c1", "u1", RoleRegular, &fakeSender{})
	r.Register("c2", "u1", RoleRegular, &fakeSender{})
	r.Register("c3", "u2", RoleRegular, &fakeSender{})

	conns := r.ConnectionsByUser("u1")
	require.Len(t, conns, 2)
	ids := map[string]bool{}
	for _, e := range conns {
		ids[e.ConnID] = true
	}
	assert.True(t, ids["c1"])
	assert.True(t, ids["c2"])

	r.Unregister("c1")
	r.Unregister("c2")
	assert.Empty(t, r.ConnectionsByUser("u1"))
	assert.Len(t, r.ConnectionsByUser("u2"), 1)
}

func TestRegistryOperatorConnection(t *testing.T) {
	r := NewRegistry()
	_, ok := r.OperatorConnection()
	assert.False(t, ok)

	r.Register("c1", "u1", RoleRegular, &fakeSender{})
	r.Register("c2", "op", RoleOperator, &fakeSender{})

	e, ok := r.OperatorConnection()
	require.True(t, ok)
	assert.Equal(t, "op", e.UserID)

	r.Unregister("c2")
	_, ok = r.OperatorConnection()
	assert.False(t, ok)
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := string(rune('a' + n%26))
			r.Register("conn-"+id, "user-"+id, RoleRegular, &fakeSender{})
			r.ConnectionsByUser("user-" + id)
			r.Unregister("conn-" + id)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 0, r.Count())
}
