package session

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CookieName carries the server-minted session identifier.
const CookieName = "sitewright_session"

// Resolve picks the session id with the documented precedence: explicit
// request field, then session cookie, then a freshly minted identifier
// persisted into the cookie.
func Resolve(w http.ResponseWriter, r *http.Request, explicit string) string {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		return explicit
	}

	if id := FromCookie(r); id != "" {
		return id
	}

	id := Mint()
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// FromCookie returns the cookie-held session id, or "".
func FromCookie(r *http.Request) string {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(cookie.Value)
}

// Mint produces a fresh identifier of the form user_<unixtime>_<8hex>.
func Mint() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("user_%d_%s", time.Now().Unix(), suffix)
}
