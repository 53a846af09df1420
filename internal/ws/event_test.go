package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventValidate(t *testing.T) {
	delta := "x"
	pos := &Position{LineNumber: 1, Column: 2}

	tests := []struct {
		name    string
		ev      Event
		wantErr bool
	}{
		{"join ok", Event{Type: EvtJoin, Room: "r", User: "u"}, false},
		{"join no user", Event{Type: EvtJoin, Room: "r"}, true},
		{"leave ok", Event{Type: EvtLeave, Room: "r", User: "u"}, false},
		{"no room", Event{Type: EvtJoin, User: "u"}, true},
		{"code_change ok", Event{Type: EvtCodeChange, Room: "r", Delta: &delta}, false},
		{"code_change empty delta ok", Event{Type: EvtCodeChange, Room: "r", Delta: new(string)}, false},
		{"code_change no delta", Event{Type: EvtCodeChange, Room: "r"}, true},
		{"cursor_move ok", Event{Type: EvtCursorMove, Room: "r", User: "u", Pos: pos}, false},
		{"cursor_move no pos", Event{Type: EvtCursorMove, Room: "r", User: "u"}, true},
		{"cursor_move no user", Event{Type: EvtCursorMove, Room: "r", Pos: pos}, true},
		{"presence_ping ok", Event{Type: EvtPresencePing, Room: "r", User: "u"}, false},
		{"presence_ping no user", Event{Type: EvtPresencePing, Room: "r"}, true},
		{"unknown type", Event{Type: "shout", Room: "r"}, true},
		{"no type", Event{Room: "r"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ev.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
