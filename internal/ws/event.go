package ws

import "fmt"

// Inbound event types
const (
	EvtJoin         = "join"
	EvtLeave        = "leave"
	EvtCodeChange   = "code_change"
	EvtCursorMove   = "cursor_move"
	EvtPresencePing = "presence_ping"
)

// Outbound event types
const (
	EvtSystem       = "system"
	EvtCodeUpdate   = "code_update"
	EvtCursorUpdate = "cursor_update"
	EvtPresencePong = "presence_pong"
	EvtError        = "error" // sent to the originating connection only
)

// Position is a caret location in the editor
type Position struct {
	LineNumber int `json:"lineNumber"`
	Column     int `json:"column"`
}

// Event is the wire envelope for both directions. Fields not used by a
// given type are omitted on encode. Delta is a pointer so an empty edit
// (clearing the buffer) stays distinguishable from a missing field.
type Event struct {
	Type  string    `json:"type"`
	Room  string    `json:"room,omitempty"`
	User  string    `json:"user,omitempty"`
	Delta *string   `json:"delta,omitempty"`
	Pos   *Position `json:"pos,omitempty"`
	Msg   string    `json:"msg,omitempty"`
}

// Validate checks the required fields for an inbound event. Validation
// happens once here, at the router boundary, so handlers can assume a
// well-formed event.
func (e *Event) Validate() error {
	if e.Room == "" {
		return missingField(e.Type, "room")
	}
	switch e.Type {
	case EvtJoin, EvtLeave, EvtPresencePing:
		if e.User == "" {
			return missingField(e.Type, "user")
		}
	case EvtCodeChange:
		if e.Delta == nil {
			return missingField(e.Type, "delta")
		}
	case EvtCursorMove:
		if e.User == "" {
			return missingField(e.Type, "user")
		}
		if e.Pos == nil {
			return missingField(e.Type, "pos")
		}
	default:
		return fmt.Errorf("unknown event type %q", e.Type)
	}
	return nil
}

func missingField(typ, field string) error {
	return fmt.Errorf("%s: missing %s", typ, field)
}
