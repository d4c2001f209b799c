package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// parsePagination reads zero-indexed page and limit query parameters.
// Anything unparseable falls back to the defaults.
func parsePagination(r *http.Request) (page, limit int) {
	page = 0
	limit = defaultPageSize
	if raw := strings.TrimSpace(r.URL.Query().Get("page")); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			page = value
		}
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value > 0 {
			limit = value
		}
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}

// parseID reads the {id} path value. IDs are positive; zero and garbage are
// both rejected, matching the frontend's expectations.
func parseID(r *http.Request) (uint, error) {
	value, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || value <= 0 {
		return 0, errors.New("invalid id")
	}
	return uint(value), nil
}
