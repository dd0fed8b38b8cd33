package api

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// sessionHeader carries the browser session identifier across requests.
const sessionHeader = "X-Session-ID"

// Session is the request-scoped identity: a short session ID plus the
// display name the user typed into the form. It is derived per request,
// never stored in process-global state.
type Session struct {
	ID       string `json:"session_id"`
	UserName string `json:"user_name"`
}

// sessionFromRequest reads the session ID from the request header or mints
// a fresh 8-character one, matching the IDs users see in the UI.
func sessionFromRequest(r *http.Request, userName string) Session {
	id := strings.TrimSpace(r.Header.Get(sessionHeader))
	if id == "" {
		id = uuid.NewString()[:8]
	}

	name := strings.TrimSpace(userName)
	if name == "" {
		name = "Guest"
	}

	return Session{ID: id, UserName: name}
}
