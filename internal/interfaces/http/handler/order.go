package handler

import (
	rentalapp "github.com/gdi/rental-backend/internal/application/rental"
	"github.com/gin-gonic/gin"
)

// OrderHandler handles rental order API endpoints
type OrderHandler struct {
	BaseHandler
	orders *rentalapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders *rentalapp.OrderService) *OrderHandler {
	return &OrderHandler{
		orders: orders,
	}
}

// GetByID returns an order by its ID
func (h *OrderHandler) GetByID(c *gin.Context) {
	orderID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	order, err := h.orders.GetByID(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// GetByReference returns an order by its document reference
func (h *OrderHandler) GetByReference(c *gin.Context) {
	reference := c.Param("reference")
	if reference == "" {
		h.BadRequest(c, "Reference is required")
		return
	}

	order, err := h.orders.GetByReference(c.Request.Context(), reference)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// List returns orders matching the filter with pagination
func (h *OrderHandler) List(c *gin.Context) {
	var filter rentalapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.orders.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// StartRental starts the rental for a confirmed order: it creates the
// contract, executes the outbound stock movement and activates the lines
func (h *OrderHandler) StartRental(c *gin.Context) {
	rc, err := requestScope(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	orderID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req rentalapp.StartRentalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orders.StartRental(c.Request.Context(), rc, orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// HireOff ends the rental for the selected lines and mirrors their outbound
// movements back into stock
func (h *OrderHandler) HireOff(c *gin.Context) {
	rc, err := requestScope(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	orderID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req rentalapp.HireOffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orders.HireOff(c.Request.Context(), rc, orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Cancel cancels an order with a mandatory reason
func (h *OrderHandler) Cancel(c *gin.Context) {
	rc, err := requestScope(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	orderID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req rentalapp.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orders.Cancel(c.Request.Context(), rc, orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}
