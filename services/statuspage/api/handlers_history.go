package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iulianpascalau/status-page/services/statuspage/common"
	"github.com/iulianpascalau/status-page/services/statuspage/history"
)

// EventPayload is the incoming JSON body on /api/incidents and /api/maintenances
type EventPayload struct {
	ID        string `json:"id" binding:"required"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	UpdatedAt string `json:"updatedAt"`
}

func (s *server) handleGetHistory(c *gin.Context) {
	ctx := c.Request.Context()

	incidents, err := s.storage.GetEvents(ctx, common.IncidentEvent)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	maintenances, err := s.storage.GetEvents(ctx, common.MaintenanceEvent)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	months, err := history.Group(append(incidents, maintenances...), s.monthLabeler)
	if err != nil {
		log.Error("failed to group history events", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"serviceName": s.settings.Settings().ServiceName,
		"months":      months,
	})
}

func (s *server) handleSaveIncident(c *gin.Context) {
	s.saveEvent(c, common.IncidentEvent)
}

func (s *server) handleSaveMaintenance(c *gin.Context) {
	s.saveEvent(c, common.MaintenanceEvent)
}

func (s *server) saveEvent(c *gin.Context, kind common.EventKind) {
	var payload EventPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	updatedAt, err := normalizeTimestamp(payload.UpdatedAt)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "updatedAt must be an RFC3339 timestamp"})
		return
	}

	event := common.Event{
		Kind:      kind,
		ID:        payload.ID,
		Name:      payload.Name,
		Status:    payload.Status,
		UpdatedAt: updatedAt,
	}

	log.Debug("received event", "sender", c.Request.RemoteAddr, "kind", kind, "id", event.ID)

	err = s.storage.SaveEvent(c.Request.Context(), event)
	if err != nil {
		log.Warn("failed to save event", "kind", kind, "id", event.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "event": event})
}

// normalizeTimestamp converts the timestamp to UTC so the lexical order of the stored values follows time
func normalizeTimestamp(value string) (string, error) {
	if len(value) == 0 {
		return time.Now().UTC().Format(time.RFC3339), nil
	}

	timestamp, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return "", err
	}

	return timestamp.UTC().Format(time.RFC3339), nil
}

func (s *server) handleDeleteIncident(c *gin.Context) {
	s.deleteEvent(c, common.IncidentEvent)
}

func (s *server) handleDeleteMaintenance(c *gin.Context) {
	s.deleteEvent(c, common.MaintenanceEvent)
}

func (s *server) deleteEvent(c *gin.Context, kind common.EventKind) {
	err := s.storage.DeleteEvent(c.Request.Context(), kind, c.Param("id"))
	if errors.Is(err, common.ErrEventNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
