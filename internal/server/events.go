package server

import (
	"encoding/json"
	"net/http"

	"pig-parade/internal/db"

	"gorm.io/datatypes"
)

// recordEvent appends an audit row. Event writes never fail the request that
// produced them; a lost audit row is logged and tolerated.
func (s *Server) recordEvent(eventType string, pigID *uint, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	event := db.Event{
		PigID:   pigID,
		Type:    eventType,
		Payload: datatypes.JSON(data),
	}
	if err := s.db.Create(&event).Error; err != nil {
		s.log.Warnw("failed to record event", "type", eventType, "error", err)
	}
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	page, limit := parsePagination(r)

	var total int64
	if err := s.db.Model(&db.Event{}).Count(&total).Error; err != nil {
		s.log.Errorw("failed to count events", "error", err)
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	var events []db.Event
	err := s.db.Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(page * limit).
		Find(&events).Error
	if err != nil {
		s.log.Errorw("failed to list events", "error", err)
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"total":   total,
		"page":    page,
		"events":  events,
	})
}
