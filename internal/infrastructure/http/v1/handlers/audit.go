package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"dealerdesk/internal/infrastructure/storage/postgres"
)

// AuditHandler exposes the audit trail of an entity.
type AuditHandler struct {
	*BaseHandler
	service *postgres.AuditService
}

func NewAuditHandler(base *BaseHandler, service *postgres.AuditService) *AuditHandler {
	return &AuditHandler{BaseHandler: base, service: service}
}

// AuditEntryResponse is one audit record as returned to clients.
type AuditEntryResponse struct {
	ID         string          `json:"id"`
	EntityType string          `json:"entityType"`
	EntityID   string          `json:"entityId"`
	Action     string          `json:"action"`
	UserID     string          `json:"userId,omitempty"`
	Changes    json.RawMessage `json:"changes,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// History handles GET /audit/:entityType/:id - the entity's trail, newest
// first.
func (h *AuditHandler) History(c *gin.Context) {
	entityID, ok := h.PathID(c)
	if !ok {
		return
	}
	entityType := c.Param("entityType")
	limit := h.ParseIntQuery(c, "limit", 50)

	rows, err := h.service.EntityHistory(c.Request.Context(), entityType, entityID, limit)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]AuditEntryResponse, len(rows))
	for i, r := range rows {
		items[i] = AuditEntryResponse{
			ID:         r.ID.String(),
			EntityType: r.EntityType,
			EntityID:   r.EntityID.String(),
			Action:     string(r.Action),
			UserID:     r.UserID,
			Changes:    r.Changes,
			CreatedAt:  r.CreatedAt,
		}
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}
