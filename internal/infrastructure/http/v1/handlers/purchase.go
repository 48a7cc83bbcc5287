package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"dealerdesk/internal/core/apperror"
	"dealerdesk/internal/core/id"
	"dealerdesk/internal/domain/documents/purchase"
	"dealerdesk/internal/infrastructure/http/v1/dto"
)

// PurchaseHandler serves the purchase ledger endpoints.
type PurchaseHandler struct {
	*BaseHandler
	service *purchase.Service
}

// NewPurchaseHandler creates a new purchase handler.
func NewPurchaseHandler(base *BaseHandler, service *purchase.Service) *PurchaseHandler {
	return &PurchaseHandler{BaseHandler: base, service: service}
}

// List handles GET /purchases.
func (h *PurchaseHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := purchase.ListFilter{}
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.DefaultQuery("orderBy", "-date")
	filter.IncludeDeleted = c.Query("includeDeleted") == "true"

	if v := c.Query("vendorId"); v != "" {
		parsed, err := id.Parse(v)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid vendorId format"))
			return
		}
		filter.VendorID = &parsed
	}
	if v := c.Query("vehicleId"); v != "" {
		parsed, err := id.Parse(v)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid vehicleId format"))
			return
		}
		filter.VehicleID = &parsed
	}
	if v := c.Query("settled"); v != "" {
		val := v == "true"
		filter.Settled = &val
	}
	if v := c.Query("dateFrom"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid dateFrom format (RFC3339 expected)"))
			return
		}
		filter.DateFrom = &t
	}
	if v := c.Query("dateTo"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid dateTo format (RFC3339 expected)"))
			return
		}
		filter.DateTo = &t
	}

	result, err := h.service.List(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(result.Items))
	for i, item := range result.Items {
		items[i] = dto.FromPurchase(item)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Get handles GET /purchases/:id.
func (h *PurchaseHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	docID, ok := h.PathID(c)
	if !ok {
		return
	}

	doc, err := h.service.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromPurchase(doc))
}

// Create handles POST /purchases.
// Marks the vehicle purchased and journals the initial payment in the
// same transaction as the ledger row.
func (h *PurchaseHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreatePurchaseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	input, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	doc, err := h.service.Create(ctx, input)
	if err != nil {
		h.Error(c, err)
		return
	}

	resp := dto.FromPurchase(doc)
	h.CompleteIdempotency(c, http.StatusCreated, "application/json", resp)
	c.JSON(http.StatusCreated, resp)
}

// Update handles PUT /purchases/:id.
func (h *PurchaseHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	docID, ok := h.PathID(c)
	if !ok {
		return
	}

	var req dto.UpdatePurchaseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.Update(ctx, docID, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromPurchase(doc))
}

// Delete handles DELETE /purchases/:id.
// Refused while payments exist; otherwise reverts the vehicle to listing.
func (h *PurchaseHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	docID, ok := h.PathID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(ctx, docID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// AddPayment handles POST /purchases/:id/payments.
func (h *PurchaseHandler) AddPayment(c *gin.Context) {
	ctx := c.Request.Context()

	docID, ok := h.PathID(c)
	if !ok {
		return
	}

	var req dto.AddPaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.AddPayment(ctx, docID, purchase.PaymentInput{
		Amount: req.Amount,
		Mode:   req.Mode,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	resp := dto.FromPurchase(doc)
	h.CompleteIdempotency(c, http.StatusCreated, "application/json", resp)
	c.JSON(http.StatusCreated, resp)
}

// Payments handles GET /purchases/:id/payments.
func (h *PurchaseHandler) Payments(c *gin.Context) {
	ctx := c.Request.Context()

	docID, ok := h.PathID(c)
	if !ok {
		return
	}

	entries, total, err := h.service.Payments(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": dto.FromPayments(entries), "total": total})
}
