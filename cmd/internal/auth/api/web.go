package authapi

import (
	"net/http"
	"strings"
	"time"
)

// setSessionCookie attaches the session token. The contract:
//
//   - HttpOnly: scripts can never read the token (XSS containment)
//   - SameSite=Strict: the browser omits it on cross-site requests (CSRF)
//   - Secure only in production, so local HTTP dev still works
//   - MaxAge equals the token TTL; expiry is fixed, never extended
func (h *Handler) setSessionCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.CookieName,
		Value:    token,
		Path:     h.cfg.CookiePath,
		Domain:   h.cfg.CookieDomain,
		Expires:  expiresAt,
		MaxAge:   int(h.sessCfg.TokenTTL / time.Second),
		HttpOnly: true,
		Secure:   h.cfg.Production,
		SameSite: h.cfg.SameSite,
	})
}

// clearSessionCookie expires the session cookie. Logout is exactly this:
// tokens are stateless, so there is nothing server-side to revoke.
func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cfg.CookieName,
		Value:    "",
		Path:     h.cfg.CookiePath,
		Domain:   h.cfg.CookieDomain,
		Expires:  time.Unix(0, 0).UTC(),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.Production,
		SameSite: h.cfg.SameSite,
	})
}

// sessionTokenFromCookie extracts the raw token, if present.
func (h *Handler) sessionTokenFromCookie(r *http.Request) (string, bool) {
	c, err := r.Cookie(h.cfg.CookieName)
	if err != nil {
		return "", false
	}
	v := strings.TrimSpace(c.Value)
	if v == "" {
		return "", false
	}
	return v, true
}
