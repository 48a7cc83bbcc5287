package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"dealerdesk/internal/core/apperror"
	"dealerdesk/internal/core/id"
	"dealerdesk/internal/domain/documents/sale"
	"dealerdesk/internal/infrastructure/http/v1/dto"
)

// SaleHandler serves the sale ledger endpoints.
type SaleHandler struct {
	*BaseHandler
	service *sale.Service
}

// NewSaleHandler creates a new sale handler.
func NewSaleHandler(base *BaseHandler, service *sale.Service) *SaleHandler {
	return &SaleHandler{BaseHandler: base, service: service}
}

// List handles GET /sales.
func (h *SaleHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := sale.ListFilter{}
	filter.Limit = h.ParseIntQuery(c, "limit", 50)
	filter.Offset = h.ParseIntQuery(c, "offset", 0)
	filter.OrderBy = c.DefaultQuery("orderBy", "-date")
	filter.IncludeDeleted = c.Query("includeDeleted") == "true"

	if v := c.Query("customerId"); v != "" {
		parsed, err := id.Parse(v)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid customerId format"))
			return
		}
		filter.CustomerID = &parsed
	}
	if v := c.Query("vehicleId"); v != "" {
		parsed, err := id.Parse(v)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid vehicleId format"))
			return
		}
		filter.VehicleID = &parsed
	}
	if v := c.Query("status"); v != "" {
		status := sale.Status(v)
		if !status.Valid() {
			h.Error(c, apperror.NewValidation("invalid status"))
			return
		}
		filter.Status = &status
	}
	if v := c.Query("isEmi"); v != "" {
		val := v == "true"
		filter.IsEMI = &val
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
		items[i] = dto.FromSale(item)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Get handles GET /sales/:id.
func (h *SaleHandler) Get(c *gin.Context) {
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

	c.JSON(http.StatusOK, dto.FromSale(doc))
}

// Create handles POST /sales.
// Moves the vehicle to sold/reserved and journals the upfront amount in
// the same transaction as the ledger row.
func (h *SaleHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateSaleRequest
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

	resp := dto.FromSale(doc)
	h.CompleteIdempotency(c, http.StatusCreated, "application/json", resp)
	c.JSON(http.StatusCreated, resp)
}

// Update handles PUT /sales/:id.
func (h *SaleHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	docID, ok := h.PathID(c)
	if !ok {
		return
	}

	var req dto.UpdateSaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.Update(ctx, docID, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromSale(doc))
}

// Delete handles DELETE /sales/:id.
// Releases the vehicle back to in_stock.
func (h *SaleHandler) Delete(c *gin.Context) {
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

// AddPayment handles POST /sales/:id/payments.
// Rejected for financed sales; installments flow through the EMI subsystem.
func (h *SaleHandler) AddPayment(c *gin.Context) {
	ctx := c.Request.Context()

	docID, ok := h.PathID(c)
	if !ok {
		return
	}

	var req dto.AddPaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.AddPayment(ctx, docID, sale.PaymentInput{
		Amount: req.Amount,
		Mode:   req.Mode,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	resp := dto.FromSale(doc)
	h.CompleteIdempotency(c, http.StatusCreated, "application/json", resp)
	c.JSON(http.StatusCreated, resp)
}

// Payments handles GET /sales/:id/payments.
func (h *SaleHandler) Payments(c *gin.Context) {
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

// EffectiveBalance handles GET /sales/:id/effective-balance.
func (h *SaleHandler) EffectiveBalance(c *gin.Context) {
	ctx := c.Request.Context()

	docID, ok := h.PathID(c)
	if !ok {
		return
	}

	balance, err := h.service.EffectiveBalance(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.EffectiveBalanceResponse{
		SaleID:           docID.String(),
		EffectiveBalance: balance.String(),
	})
}
