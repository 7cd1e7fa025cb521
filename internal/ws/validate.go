package ws

import (
	"net/http"
	"strings"
)

// identity is the externally supplied {id, name} pair. The transport trusts
// whatever upstream auth put on the request; the core never sees an
// unauthenticated connection.
type identity struct {
	UserID string
	Name   string
}

func identityFrom(r *http.Request) (identity, bool) {
	id := identity{
		UserID: strings.TrimSpace(r.URL.Query().Get("uid")),
		Name:   strings.TrimSpace(r.URL.Query().Get("name")),
	}
	if id.UserID == "" {
		return identity{}, false
	}
	if id.Name == "" {
		id.Name = "Player"
	}
	return id, true
}

// parseLobbyName normalizes an untrusted lobby name. Empty after trimming
// means invalid.
func parseLobbyName(raw string) (string, bool) {
	name := strings.TrimSpace(raw)
	return name, name != ""
}

func parseTargetUserID(raw string) (string, bool) {
	id := strings.TrimSpace(raw)
	return id, id != ""
}
