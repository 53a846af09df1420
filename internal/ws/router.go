package ws

import (
	"encoding/json"
	"time"

	"log/slog"

	"github.com/OGCbn/CodeCollab/pkg/metrics"
)

// Options tunes router policy
type Options struct {
	// RequireMembership drops code_change/cursor_move/presence_ping from
	// connections that have not joined the target room. Off by default,
	// matching the original behaviour of relaying to any named room.
	RequireMembership bool
}

// Router classifies inbound events, validates them once, and dispatches
// to a per-type handler. It never returns an error to the transport:
// malformed input is dropped after a best-effort error notice to the
// sender, and one undeliverable recipient never affects the rest.
type Router struct {
	reg  *Registry
	pres *Presence
	log  *slog.Logger
	opts Options
	now  func() time.Time
}

func NewRouter(reg *Registry, pres *Presence, log *slog.Logger, opts Options) *Router {
	return &Router{reg: reg, pres: pres, log: log, opts: opts, now: time.Now}
}

// Route handles one inbound frame from m. Frames from connections that
// are not active are dropped, not queued.
func (rt *Router) Route(m Member, data []byte) {
	if !m.Active() {
		rt.log.Debug("relay.reject", "conn", m.ID(), "reason", "not active")
		return
	}

	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		rt.errorTo(m, "malformed event")
		return
	}
	if err := ev.Validate(); err != nil {
		rt.errorTo(m, err.Error())
		return
	}
	metrics.Events.WithLabelValues(ev.Type).Inc()

	switch ev.Type {
	case EvtJoin:
		rt.reg.Join(ev.Room, m)
		rt.broadcast(ev.Room, Event{Type: EvtSystem, Msg: ev.User + " joined"}, nil)
	case EvtLeave:
		// Snapshot first so the leaver still gets the confirmation notice
		members := rt.reg.Members(ev.Room)
		rt.reg.Leave(ev.Room, m)
		rt.forgetIfGone(ev.Room, ev.User)
		rt.deliver(members, Event{Type: EvtSystem, Msg: ev.User + " left"}, nil)
	case EvtCodeChange:
		rt.relay(m, &ev, Event{Type: EvtCodeUpdate, Delta: ev.Delta})
	case EvtCursorMove:
		rt.relay(m, &ev, Event{Type: EvtCursorUpdate, User: ev.User, Pos: ev.Pos})
	case EvtPresencePing:
		rt.pres.Heartbeat(ev.Room, ev.User, rt.now())
		rt.relay(m, &ev, Event{Type: EvtPresencePong, User: ev.User})
	}
}

// Disconnect removes m from every room it had joined and clears presence
// for users with no remaining connection there. Called exactly once per
// connection, on close.
func (rt *Router) Disconnect(m Member) {
	for _, roomID := range rt.reg.RemoveConn(m) {
		rt.forgetIfGone(roomID, m.User())
	}
}

// relay is the fan-out path for the exclude-sender events
func (rt *Router) relay(m Member, in *Event, out Event) {
	if rt.opts.RequireMembership && !rt.reg.Contains(in.Room, m) {
		rt.errorTo(m, "not a member of "+in.Room)
		return
	}
	rt.broadcast(in.Room, out, m)
}

// broadcast delivers ev to every current member of the room, skipping
// exclude when non-nil.
func (rt *Router) broadcast(roomID string, ev Event, exclude Member) {
	rt.deliver(rt.reg.Members(roomID), ev, exclude)
}

// deliver fans ev out to a member snapshot. Each delivery is
// at-most-once: a full or closed recipient queue drops that one
// delivery and leaves the rest of the snapshot unaffected.
func (rt *Router) deliver(members []Member, ev Event, exclude Member) {
	b, err := json.Marshal(ev)
	if err != nil {
		rt.log.Error("relay.encode", "type", ev.Type, "err", err)
		return
	}
	for _, peer := range members {
		if exclude != nil && peer.ID() == exclude.ID() {
			continue
		}
		if err := peer.Send(b); err != nil {
			metrics.DroppedDeliveries.Inc()
			rt.log.Debug("relay.drop", "conn", peer.ID(), "err", err)
		}
	}
}

// forgetIfGone clears the presence entry for user in room once no
// connection for that user remains a member
func (rt *Router) forgetIfGone(roomID, user string) {
	for _, peer := range rt.reg.Members(roomID) {
		if peer.User() == user {
			return
		}
	}
	rt.pres.Forget(roomID, user)
}

// errorTo surfaces a problem to the originating connection only, never
// broadcast
func (rt *Router) errorTo(m Member, msg string) {
	b, err := json.Marshal(Event{Type: EvtError, Msg: msg})
	if err != nil {
		return
	}
	_ = m.Send(b)
	rt.log.Debug("relay.error", "conn", m.ID(), "msg", msg)
}
