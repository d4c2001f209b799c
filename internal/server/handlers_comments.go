package server

import (
	"errors"
	"net/http"

	"pig-parade/internal/db"
	"pig-parade/internal/metrics"

	"gorm.io/gorm"
)

type addCommentRequest struct {
	Content string `json:"content"`
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	page, limit := parsePagination(r)

	var total int64
	if err := s.db.Model(&db.Comment{}).Where("pig_id = ?", id).Count(&total).Error; err != nil {
		s.log.Errorw("failed to count comments", "pig_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	var comments []db.Comment
	err = s.db.Select("id", "content", "created_at").
		Where("pig_id = ?", id).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(page * limit).
		Find(&comments).Error
	if err != nil {
		s.log.Errorw("failed to list comments", "pig_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	if comments == nil {
		comments = []db.Comment{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"total":    total,
		"page":     page,
		"comments": comments,
	})
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var exists db.Pig
	if err := s.db.Select("id").First(&exists, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "pig not found")
			return
		}
		s.log.Errorw("failed to load pig", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	var req addCommentRequest
	if err := readJSON(r.Body, &req); err != nil {
		metrics.ObserveComment("invalid")
		writeError(w, http.StatusBadRequest, "comment is required")
		return
	}
	content, err := validateComment(req.Content)
	if err != nil {
		metrics.ObserveComment("invalid")
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ip := clientIP(r)
	allowed, err := s.commentLimiter.Allow(ip)
	if err != nil {
		s.log.Errorw("comment rate check failed", "error", err)
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	if !allowed {
		metrics.ObserveComment("rate_limited")
		writeError(w, http.StatusTooManyRequests, "too many comments, try again later")
		return
	}

	comment := db.Comment{
		PigID:   id,
		Content: content,
		IP:      ip,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		s.log.Errorw("failed to save comment", "pig_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	if err := s.commentLimiter.Record(ip); err != nil {
		s.log.Warnw("failed to record comment submission", "error", err)
	}
	s.recordEvent("comment_added", &comment.PigID, map[string]any{
		"comment_id": comment.ID,
	})
	metrics.ObserveComment("accepted")
	s.log.Infow("comment added", "pig_id", id, "comment_id", comment.ID)

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"id":      comment.ID,
		"message": "comment added",
		"comment": comment,
	})
}
