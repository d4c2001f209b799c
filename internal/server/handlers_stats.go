package server

import (
	"net/http"

	"pig-parade/internal/db"
)

type galleryStats struct {
	Total      int64 `json:"total"`
	TotalLikes int64 `json:"totalLikes"`
	Countries  int64 `json:"countries"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	var stats galleryStats
	err := s.db.Model(&db.Pig{}).
		Select("COUNT(*) AS total, COALESCE(SUM(likes), 0) AS total_likes, COUNT(DISTINCT location) AS countries").
		Scan(&stats).Error
	if err != nil {
		s.log.Errorw("failed to load stats", "error", err)
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"stats":   stats,
	})
}
