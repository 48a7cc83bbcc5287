package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dealerdesk/internal/domain/leads"
	"dealerdesk/internal/infrastructure/http/v1/dto"
)

// LeadHandler extends the generic catalog handler with the status
// transition and conversion endpoints.
type LeadHandler struct {
	*CatalogHandler[*leads.Lead, dto.CreateLeadRequest, dto.UpdateLeadRequest]
	service    *leads.Service
	conversion *leads.ConversionService
}

// NewLeadHandler wires CRUD plus the lead-specific operations.
func NewLeadHandler(
	base *BaseHandler,
	service *leads.Service,
	conversion *leads.ConversionService,
) *LeadHandler {
	config := CatalogHandlerConfig[*leads.Lead, dto.CreateLeadRequest, dto.UpdateLeadRequest]{
		Service:    service.CatalogService,
		EntityName: "lead",

		MapCreateDTO: func(req dto.CreateLeadRequest) (*leads.Lead, error) {
			return req.ToEntity(), nil
		},

		MapUpdateDTO: func(req dto.UpdateLeadRequest, existing *leads.Lead) (*leads.Lead, error) {
			req.ApplyTo(existing)
			return existing, nil
		},

		MapToDTO: func(entity *leads.Lead) any {
			return dto.FromLead(entity)
		},
	}

	return &LeadHandler{
		CatalogHandler: NewCatalogHandler(base, config),
		service:        service,
		conversion:     conversion,
	}
}

// ChangeStatus handles PATCH /leads/:id/status.
// Transitions are validated against the lead state machine.
func (h *LeadHandler) ChangeStatus(c *gin.Context) {
	ctx := c.Request.Context()

	leadID, ok := h.PathID(c)
	if !ok {
		return
	}

	var req dto.ChangeLeadStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	lead, err := h.service.ChangeStatus(ctx, leadID, req.Status)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromLead(lead))
}

// Convert handles POST /leads/:id/convert.
// Buying leads become customers, selling leads become vendors; repeat
// calls are no-ops returning the existing counterparty reference.
func (h *LeadHandler) Convert(c *gin.Context) {
	ctx := c.Request.Context()

	leadID, ok := h.PathID(c)
	if !ok {
		return
	}

	result, err := h.conversion.Convert(ctx, leadID)
	if err != nil {
		h.Error(c, err)
		return
	}

	resp := dto.FromConversion(result)

	// First conversion creates resources; replays answer 200.
	status := http.StatusCreated
	if result.AlreadyConverted {
		status = http.StatusOK
	}
	h.CompleteIdempotency(c, status, "application/json", resp)
	c.JSON(status, resp)
}
