package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/moonhowl/werewolf-backend/internal/hub"
)

// ListLobbies is the REST mirror of the lobbiesList request, for clients
// that want the public list before opening a websocket.
func ListLobbies(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(h.List())
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
