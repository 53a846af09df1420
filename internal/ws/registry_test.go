package ws

import (
	"fmt"
	"io"
	"sync"
	"testing"

	"log/slog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockMember struct {
	id      string
	user    string
	active  bool
	sendErr error

	mu   sync.Mutex
	sent [][]byte
}

func newMock(id, user string) *mockMember {
	return &mockMember{id: id, user: user, active: true}
}

func (m *mockMember) ID() string   { return m.id }
func (m *mockMember) User() string { return m.user }
func (m *mockMember) Active() bool { return m.active }

func (m *mockMember) Send(b []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, b)
	return nil
}

func (m *mockMember) received() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent
}

func memberIDs(members []Member) []string {
	out := make([]string, 0, len(members))
	for _, m := range members {
		out = append(out, m.ID())
	}
	return out
}

func TestRegistry_JoinIdempotent(t *testing.T) {
	g := NewRegistry(testLogger())
	a := newMock("a", "alice")

	g.Join("r1", a)
	g.Join("r1", a)

	assert.ElementsMatch(t, []string{"a"}, memberIDs(g.Members("r1")))
	assert.Equal(t, map[string]int{"r1": 1}, g.Rooms())
}

func TestRegistry_LeaveRemovesEmptyRoom(t *testing.T) {
	g := NewRegistry(testLogger())
	a := newMock("a", "alice")
	b := newMock("b", "bob")

	g.Join("r1", a)
	g.Join("r1", b)
	g.Leave("r1", a)

	assert.ElementsMatch(t, []string{"b"}, memberIDs(g.Members("r1")))

	g.Leave("r1", b)
	assert.Empty(t, g.Members("r1"))
	assert.Empty(t, g.Rooms())
}

func TestRegistry_LeaveUnknownIsNoop(t *testing.T) {
	g := NewRegistry(testLogger())
	a := newMock("a", "alice")

	// Never joined, room never existed
	g.Leave("ghost", a)
	assert.Empty(t, g.Rooms())

	// Room exists but a is not a member
	b := newMock("b", "bob")
	g.Join("r1", b)
	g.Leave("r1", a)
	assert.ElementsMatch(t, []string{"b"}, memberIDs(g.Members("r1")))
}

func TestRegistry_RemoveConnSweepsAllRooms(t *testing.T) {
	g := NewRegistry(testLogger())
	a := newMock("a", "alice")
	b := newMock("b", "bob")

	g.Join("r1", a)
	g.Join("r2", a)
	g.Join("r2", b)

	left := g.RemoveConn(a)
	assert.ElementsMatch(t, []string{"r1", "r2"}, left)

	// r1 emptied and was garbage collected, r2 kept bob
	assert.Empty(t, g.Members("r1"))
	assert.ElementsMatch(t, []string{"b"}, memberIDs(g.Members("r2")))
	assert.Equal(t, map[string]int{"r2": 1}, g.Rooms())

	// No dangling membership for a
	assert.False(t, g.Contains("r1", a))
	assert.False(t, g.Contains("r2", a))
}

func TestRegistry_RemoveConnUnknown(t *testing.T) {
	g := NewRegistry(testLogger())
	require.Empty(t, g.RemoveConn(newMock("ghost", "g")))
}

func TestRegistry_MembersSnapshotUnknownRoom(t *testing.T) {
	g := NewRegistry(testLogger())
	// Unknown room reads as empty, not as an error
	assert.Empty(t, g.Members("nowhere"))
}

func TestRegistry_JoinAfterLeaveRestoresMembership(t *testing.T) {
	g := NewRegistry(testLogger())
	a := newMock("a", "alice")

	g.Join("r1", a)
	g.Leave("r1", a)
	g.Join("r1", a)

	assert.True(t, g.Contains("r1", a))
	assert.ElementsMatch(t, []string{"a"}, memberIDs(g.Members("r1")))
}

func TestRegistry_ConcurrentJoinLeave(t *testing.T) {
	g := NewRegistry(testLogger())

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		m := newMock(fmt.Sprintf("c%d", i), "u")
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				g.Join("r1", m)
				g.Members("r1")
				g.Leave("r1", m)
			}
		}()
	}
	wg.Wait()

	assert.Empty(t, g.Rooms())
}
