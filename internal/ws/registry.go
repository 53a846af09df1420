package ws

import (
	"sync"

	"log/slog"

	"github.com/OGCbn/CodeCollab/pkg/metrics"
)

// Registry maps room IDs to member sets. Rooms are created on first join
// and deleted when their last member leaves. A single RWMutex guards both
// the room map and the per-connection joined sets, which keeps membership
// symmetric: a connection is in a room's set iff the room is in the
// connection's set.
type Registry struct {
	mu     sync.RWMutex
	rooms  map[string]map[string]Member   // room ID -> conn ID -> member
	joined map[string]map[string]struct{} // conn ID -> room IDs
	log    *slog.Logger
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		rooms:  make(map[string]map[string]Member),
		joined: make(map[string]map[string]struct{}),
		log:    log,
	}
}

// Join adds m to the room, creating it if absent. Redundant joins are
// no-ops.
func (g *Registry) Join(roomID string, m Member) {
	g.mu.Lock()
	defer g.mu.Unlock()

	r := g.rooms[roomID]
	if r == nil {
		r = make(map[string]Member)
		g.rooms[roomID] = r
		metrics.Rooms.Inc()
		g.log.Debug("room.created", "room", roomID)
	}
	r[m.ID()] = m

	set := g.joined[m.ID()]
	if set == nil {
		set = make(map[string]struct{})
		g.joined[m.ID()] = set
	}
	set[roomID] = struct{}{}
}

// Leave removes m from the room; not being a member is a no-op. The room
// is deleted when its member set empties.
func (g *Registry) Leave(roomID string, m Member) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.leaveLocked(roomID, m.ID())
}

// RemoveConn drops the connection from every room it had joined, with
// the same empty-room cleanup as Leave. It returns the rooms left so the
// caller can clear presence. Safe to call for unknown connections.
func (g *Registry) RemoveConn(m Member) []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	var left []string
	for roomID := range g.joined[m.ID()] {
		g.leaveLocked(roomID, m.ID())
		left = append(left, roomID)
	}
	return left
}

func (g *Registry) leaveLocked(roomID, connID string) {
	r := g.rooms[roomID]
	if r == nil {
		return
	}
	if _, ok := r[connID]; !ok {
		return
	}
	delete(r, connID)
	if set := g.joined[connID]; set != nil {
		delete(set, roomID)
		if len(set) == 0 {
			delete(g.joined, connID)
		}
	}
	if len(r) == 0 {
		delete(g.rooms, roomID)
		metrics.Rooms.Dec()
		g.log.Debug("room.removed", "room", roomID)
	}
}

// Members returns a snapshot of the room's member set, empty (not an
// error) for unknown rooms.
func (g *Registry) Members(roomID string) []Member {
	g.mu.RLock()
	defer g.mu.RUnlock()

	r := g.rooms[roomID]
	out := make([]Member, 0, len(r))
	for _, m := range r {
		out = append(out, m)
	}
	return out
}

// Contains reports whether m is currently a member of the room
func (g *Registry) Contains(roomID string, m Member) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.rooms[roomID][m.ID()]
	return ok
}

// Rooms returns current room IDs with member counts
func (g *Registry) Rooms() map[string]int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make(map[string]int, len(g.rooms))
	for id, r := range g.rooms {
		out[id] = len(r)
	}
	return out
}
