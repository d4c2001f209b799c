package server

import (
	"errors"
	"net/http"
	"strings"

	"pig-parade/internal/db"
	"pig-parade/internal/metrics"

	"gorm.io/gorm"
)

type submitPigRequest struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

type pigListItem struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Image        string `json:"image"`
	Location     string `json:"location"`
	Likes        int64  `json:"likes"`
	CreatedAt    int64  `json:"created_at"`
	CommentCount int64  `json:"comment_count"`
}

func (s *Server) handleSubmitPig(w http.ResponseWriter, r *http.Request) {
	var req submitPigRequest
	if err := readJSON(r.Body, &req); err != nil || req.Name == "" || req.Image == "" {
		metrics.ObserveSubmission("invalid")
		writeError(w, http.StatusBadRequest, "name and image are required")
		return
	}
	if err := validatePigName(req.Name); err != nil {
		metrics.ObserveSubmission("invalid")
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validateImagePayload(req.Image); err != nil {
		metrics.ObserveSubmission("invalid")
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ip := clientIP(r)
	allowed, err := s.submitLimiter.Allow(ip)
	if err != nil {
		s.log.Errorw("submission rate check failed", "error", err)
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	if !allowed {
		metrics.ObserveSubmission("rate_limited")
		writeError(w, http.StatusTooManyRequests, "too many submissions, try again in 10 minutes")
		return
	}

	pig := db.Pig{
		Name:     req.Name,
		Image:    req.Image,
		Location: s.resolver.Resolve(ip),
		IP:       ip,
	}
	if err := s.db.Create(&pig).Error; err != nil {
		s.log.Errorw("failed to save pig", "error", err)
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	if err := s.submitLimiter.Record(ip); err != nil {
		s.log.Warnw("failed to record submission", "error", err)
	}
	s.recordEvent("pig_submitted", &pig.ID, map[string]any{
		"name":     pig.Name,
		"location": pig.Location,
	})
	metrics.ObserveSubmission("accepted")
	s.log.Infow("pig submitted", "id", pig.ID, "name", pig.Name, "location", pig.Location)

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"id":      pig.ID,
		"message": "pig submitted",
	})
}

func (s *Server) handleListPigs(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePagination(r)
	search := strings.TrimSpace(r.URL.Query().Get("search"))
	sortKey := sortColumn(r.URL.Query().Get("sort"))

	countQuery := s.db.Model(&db.Pig{})
	listQuery := s.db.Model(&db.Pig{})
	if search != "" {
		pattern := "%" + search + "%"
		countQuery = countQuery.Where("name LIKE ?", pattern)
		listQuery = listQuery.Where("name LIKE ?", pattern)
	}

	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		s.log.Errorw("failed to count pigs", "error", err)
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	var pigs []pigListItem
	err := listQuery.
		Select("id, name, image, location, likes, created_at, " +
			"(SELECT COUNT(*) FROM comments WHERE comments.pig_id = pigs.id) AS comment_count").
		Order(sortKey + " DESC, id DESC").
		Limit(limit).
		Offset(page * limit).
		Scan(&pigs).Error
	if err != nil {
		s.log.Errorw("failed to list pigs", "error", err)
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	if pigs == nil {
		pigs = []pigListItem{}
	}

	var searchField any
	if search != "" {
		searchField = search
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"total":   total,
		"page":    page,
		"search":  searchField,
		"pigs":    pigs,
	})
}

// sortColumn maps the sort query parameter onto its ordering column.
// Unrecognized values fall back to recency.
func sortColumn(param string) string {
	switch strings.TrimSpace(param) {
	case "likes":
		return "likes"
	case "comments":
		return "comment_count"
	default:
		return "created_at"
	}
}

func (s *Server) handleGetPig(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var pig db.Pig
	if err := s.db.First(&pig, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "pig not found")
			return
		}
		s.log.Errorw("failed to load pig", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"pig":     pig,
	})
}

func (s *Server) handleLikePig(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// The increment happens at the storage layer so concurrent likes never
	// lose updates. Incrementing a missing id is a no-op; the read below is
	// what reports not-found.
	err = s.db.Model(&db.Pig{}).
		Where("id = ?", id).
		UpdateColumn("likes", gorm.Expr("likes + 1")).Error
	if err != nil {
		s.log.Errorw("failed to increment likes", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	var pig db.Pig
	if err := s.db.Select("likes").First(&pig, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "pig not found")
			return
		}
		s.log.Errorw("failed to load likes", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	metrics.ObserveLike()
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"likes":   pig.Likes,
	})
}

func (s *Server) handleDeletePig(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var pig db.Pig
	if err := s.db.Select("id", "name").First(&pig, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "pig not found")
			return
		}
		s.log.Errorw("failed to load pig", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	// Comments are left in place; nothing reads them once the pig is gone.
	if err := s.db.Delete(&db.Pig{}, id).Error; err != nil {
		s.log.Errorw("failed to delete pig", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	s.recordEvent("pig_deleted", &pig.ID, map[string]any{"name": pig.Name})
	s.log.Infow("pig deleted", "id", id, "name", pig.Name)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "pig deleted",
	})
}
