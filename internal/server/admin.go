package server

import (
	"net/http"
	"strings"
)

const (
	adminHeader     = "X-Admin-Token"
	adminCookieName = "admin_token"
	adminQueryParam = "token"
)

// adminToken extracts the admin credential from the request, checking the
// custom header, bearer auth, query parameter, then cookie. First match wins.
func adminToken(r *http.Request) string {
	if value := strings.TrimSpace(r.Header.Get(adminHeader)); value != "" {
		return value
	}
	if auth := r.Header.Get("Authorization"); auth != "" {
		if bearer, ok := strings.CutPrefix(auth, "Bearer "); ok {
			if value := strings.TrimSpace(bearer); value != "" {
				return value
			}
		}
	}
	if value := strings.TrimSpace(r.URL.Query().Get(adminQueryParam)); value != "" {
		return value
	}
	if cookie, err := r.Cookie(adminCookieName); err == nil {
		return strings.TrimSpace(cookie.Value)
	}
	return ""
}

// requireAdmin authorizes admin-only requests. An unset token disables the
// admin surface entirely.
func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if s.cfg.AdminToken == "" {
		writeError(w, http.StatusServiceUnavailable, "admin access is not configured")
		return false
	}
	token := adminToken(r)
	if token == "" || token != s.cfg.AdminToken {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return false
	}
	return true
}
