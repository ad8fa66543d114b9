package handler

import (
	rentalapp "github.com/gdi/rental-backend/internal/application/rental"
	"github.com/gin-gonic/gin"
)

// ContractHandler handles rental contract API endpoints
type ContractHandler struct {
	BaseHandler
	contracts *rentalapp.ContractService
}

// NewContractHandler creates a new ContractHandler
func NewContractHandler(contracts *rentalapp.ContractService) *ContractHandler {
	return &ContractHandler{
		contracts: contracts,
	}
}

// GetByID returns a contract by its ID
func (h *ContractHandler) GetByID(c *gin.Context) {
	contractID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid contract ID format")
		return
	}

	contract, err := h.contracts.GetByID(c.Request.Context(), contractID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, contract)
}

// GetByOrder returns the contract created for an order
func (h *ContractHandler) GetByOrder(c *gin.Context) {
	orderID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	contract, err := h.contracts.GetByOrder(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, contract)
}

// List returns contracts matching the filter with pagination
func (h *ContractHandler) List(c *gin.Context) {
	var filter rentalapp.ContractListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.contracts.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}
