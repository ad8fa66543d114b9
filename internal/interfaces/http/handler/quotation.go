package handler

import (
	rentalapp "github.com/gdi/rental-backend/internal/application/rental"
	"github.com/gin-gonic/gin"
)

// QuotationHandler handles rental quotation API endpoints
type QuotationHandler struct {
	BaseHandler
	quotations *rentalapp.QuotationService
}

// NewQuotationHandler creates a new QuotationHandler
func NewQuotationHandler(quotations *rentalapp.QuotationService) *QuotationHandler {
	return &QuotationHandler{
		quotations: quotations,
	}
}

// Create creates a rental quotation with its lines
func (h *QuotationHandler) Create(c *gin.Context) {
	rc, err := requestScope(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var req rentalapp.CreateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	quotation, err := h.quotations.Create(c.Request.Context(), rc, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, quotation)
}

// GetByID returns a quotation by its ID
func (h *QuotationHandler) GetByID(c *gin.Context) {
	quotationID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid quotation ID format")
		return
	}

	quotation, err := h.quotations.GetByID(c.Request.Context(), quotationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, quotation)
}

// GetByReference returns a quotation by its document reference
func (h *QuotationHandler) GetByReference(c *gin.Context) {
	reference := c.Param("reference")
	if reference == "" {
		h.BadRequest(c, "Reference is required")
		return
	}

	quotation, err := h.quotations.GetByReference(c.Request.Context(), reference)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, quotation)
}

// List returns quotations matching the filter with pagination
func (h *QuotationHandler) List(c *gin.Context) {
	var filter rentalapp.QuotationListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.quotations.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// AddLine adds a rental line to a draft quotation
func (h *QuotationHandler) AddLine(c *gin.Context) {
	rc, err := requestScope(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	quotationID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid quotation ID format")
		return
	}

	var input rentalapp.QuotationLineInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	quotation, err := h.quotations.AddLine(c.Request.Context(), rc, quotationID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, quotation)
}

// RemoveLine removes a rental line from a draft quotation
func (h *QuotationHandler) RemoveLine(c *gin.Context) {
	quotationID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid quotation ID format")
		return
	}
	lineID, err := parseUUIDParam(c, "line_id")
	if err != nil {
		h.BadRequest(c, "Invalid line ID format")
		return
	}

	quotation, err := h.quotations.RemoveLine(c.Request.Context(), quotationID, lineID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, quotation)
}

// SetCustomerReferences records the customer reference and PO number
func (h *QuotationHandler) SetCustomerReferences(c *gin.Context) {
	quotationID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid quotation ID format")
		return
	}

	var req rentalapp.SetCustomerReferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	quotation, err := h.quotations.SetCustomerReferences(c.Request.Context(), quotationID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, quotation)
}

// Send marks a draft quotation as sent to the customer
func (h *QuotationHandler) Send(c *gin.Context) {
	rc, err := requestScope(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	quotationID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid quotation ID format")
		return
	}

	quotation, err := h.quotations.Send(c.Request.Context(), rc, quotationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, quotation)
}

// Confirm confirms a quotation, producing the rental order
func (h *QuotationHandler) Confirm(c *gin.Context) {
	rc, err := requestScope(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	quotationID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid quotation ID format")
		return
	}

	order, err := h.quotations.Confirm(c.Request.Context(), rc, quotationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}

// Cancel cancels a quotation
func (h *QuotationHandler) Cancel(c *gin.Context) {
	rc, err := requestScope(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	quotationID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid quotation ID format")
		return
	}

	quotation, err := h.quotations.Cancel(c.Request.Context(), rc, quotationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, quotation)
}
