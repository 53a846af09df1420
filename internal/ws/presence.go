package ws

import (
	"sync"
	"time"
)

// Presence keeps last-seen heartbeat timestamps per (room, user). It is
// advisory: a stale entry infers absence, it never disconnects anyone.
// Bookkeeping here is independent of the broadcast path.
type Presence struct {
	mu    sync.Mutex
	rooms map[string]map[string]time.Time
}

func NewPresence() *Presence {
	return &Presence{rooms: make(map[string]map[string]time.Time)}
}

// Heartbeat upserts the last-seen timestamp for user in room
func (p *Presence) Heartbeat(roomID, user string, now time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()

	r := p.rooms[roomID]
	if r == nil {
		r = make(map[string]time.Time)
		p.rooms[roomID] = r
	}
	r[user] = now
}

// LastSeen returns the recorded heartbeat for user in room
func (p *Presence) LastSeen(roomID, user string) (time.Time, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	ts, ok := p.rooms[roomID][user]
	return ts, ok
}

// Forget drops the entry for user in room, used when the user's last
// connection in that room leaves or disconnects
func (p *Presence) Forget(roomID, user string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	r := p.rooms[roomID]
	if r == nil {
		return
	}
	delete(r, user)
	if len(r) == 0 {
		delete(p.rooms, roomID)
	}
}

// EvictStale removes and returns users in room whose last heartbeat is
// older than ttl
func (p *Presence) EvictStale(roomID string, ttl time.Duration, now time.Time) []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	r := p.rooms[roomID]
	var evicted []string
	for user, ts := range r {
		if now.Sub(ts) > ttl {
			delete(r, user)
			evicted = append(evicted, user)
		}
	}
	if len(r) == 0 {
		delete(p.rooms, roomID)
	}
	return evicted
}

// RoomIDs lists rooms with at least one presence entry
func (p *Presence) RoomIDs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]string, 0, len(p.rooms))
	for id := range p.rooms {
		out = append(out, id)
	}
	return out
}
