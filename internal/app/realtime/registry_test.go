package realtime

import (
	"fmt"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentx/internal/app/user"
)

type fakeConn struct {
	mu       sync.Mutex
	name     string
	payloads [][]byte
	full     bool
}

func (f *fakeConn) Push(payload []byte) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.full {
		return false
	}
	f.payloads = append(f.payloads, payload)
	return true
}

func (f *fakeConn) received() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]byte(nil), f.payloads...)
}

func TestRegistryRegisterLookup(t *testing.T) {
	r := NewRegistry()
	c1 := &fakeConn{name: "c1"}

	assert.Nil(t, r.Register("U1", user.RoleTalent, c1))

	got, ok := r.Lookup("U1")
	require.True(t, ok)
	assert.Same(t, c1, got)

	_, ok = r.Lookup("U2")
	assert.False(t, ok)
	assert.Equal(t, 1, r.Len())
}

func TestRegistryLastRegistrationWins(t *testing.T) {
	r := NewRegistry()
	older, newer := &fakeConn{name: "older"}, &fakeConn{name: "newer"}

	r.Register("U1", user.RoleClient, older)
	replaced := r.Register("U1", user.RoleClient, newer)
	assert.Same(t, older, replaced)

	assert.Nil(t, r.Register("U1", user.RoleClient, newer), "re-registering the same conn replaces nothing")

	assert.False(t, r.Unregister("U1", older), "stale connection must not remove its successor")
	got, ok := r.Lookup("U1")
	require.True(t, ok)
	assert.Same(t, newer, got)

	assert.True(t, r.Unregister("U1", newer))
	_, ok = r.Lookup("U1")
	assert.False(t, ok)
	assert.False(t, r.Unregister("U1", newer), "unregistering an absent user is a no-op")
}

func TestRegistryForEachSnapshot(t *testing.T) {
	r := NewRegistry()
	r.Register("A1", user.RoleAdmin, &fakeConn{})
	r.Register("T1", user.RoleTalent, &fakeConn{})

	seen := map[string]user.Role{}
	r.ForEach(func(id string, role user.Role, c Conn) {
		seen[id] = role
		// Mutating from inside the visitor must not deadlock.
		r.Register(id+"-copy", role, c)
	})

	assert.Equal(t, map[string]user.Role{"A1": user.RoleAdmin, "T1": user.RoleTalent}, seen)
	assert.Equal(t, 4, r.Len())
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("U%d", i%5)
			c := &fakeConn{}
			for j := 0; j < 100; j++ {
				r.Register(id, user.RoleTalent, c)
				r.Lookup(id)
				r.ForEach(func(string, user.Role, Conn) {})
				r.Unregister(id, c)
			}
		}(i)
	}
	wg.Wait()

	var ids []string
	r.ForEach(func(id string, _ user.Role, _ Conn) { ids = append(ids, id) })
	sort.Strings(ids)
	assert.LessOrEqual(t, len(ids), 5)
}
