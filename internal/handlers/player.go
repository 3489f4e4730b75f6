package handlers

import (
	"net/http"
	"time"

	"dailyshapes/internal/ids"
)

const playerCookieName = "dailyshapes_player"

func playerIDFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(playerCookieName)
	if err != nil || !ids.ValidPlayerID(cookie.Value) {
		return ""
	}
	return cookie.Value
}

// ensurePlayerID returns the request's player ID, issuing a new cookie when
// there is none.
func ensurePlayerID(w http.ResponseWriter, r *http.Request) string {
	if id := playerIDFromCookie(r); id != "" {
		return id
	}
	id := ids.NewPlayerID()
	http.SetCookie(w, &http.Cookie{
		Name:     playerCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(365 * 24 * time.Hour),
	})
	return id
}
