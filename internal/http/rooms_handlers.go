package httpx

import (
	"net/http"
	"sort"

	"github.com/OGCbn/CodeCollab/internal/ws"
)

type RoomsAPI struct{ Hub *ws.Hub }

type roomDTO struct {
	ID      string `json:"id"`
	Members int    `json:"members"`
}

// List returns rooms that currently have members. Rooms are ephemeral,
// so an empty list just means nobody is collaborating right now.
func (a *RoomsAPI) List(w http.ResponseWriter, r *http.Request) {
	counts := a.Hub.Registry().Rooms()

	resp := make([]roomDTO, 0, len(counts))
	for id, n := range counts {
		resp = append(resp, roomDTO{ID: id, Members: n})
	}
	sort.Slice(resp, func(i, j int) bool { return resp[i].ID < resp[j].ID })

	writeJSON(w, map[string][]roomDTO{"rooms": resp})
}
