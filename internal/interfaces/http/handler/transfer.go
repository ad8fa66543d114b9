package handler

import (
	"time"

	rentalapp "github.com/gdi/rental-backend/internal/application/rental"
	"github.com/gdi/rental-backend/internal/infrastructure/stock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferHandler exposes the committed stock transfers of rental documents
type TransferHandler struct {
	BaseHandler
	inventory *stock.GormInventoryService
}

// NewTransferHandler creates a new TransferHandler
func NewTransferHandler(inventory *stock.GormInventoryService) *TransferHandler {
	return &TransferHandler{
		inventory: inventory,
	}
}

// TransferResponse is a committed transfer in API responses
type TransferResponse struct {
	ID              uuid.UUID      `json:"id"`
	Reference       string         `json:"reference"`
	Direction       string         `json:"direction"`
	OperationTypeID uuid.UUID      `json:"operation_type_id"`
	DocumentID      uuid.UUID      `json:"document_id"`
	Moves           []MoveResponse `json:"moves"`
	ExecutedAt      time.Time      `json:"executed_at"`
}

// MoveResponse is one executed move of a transfer, including the rental
// detail snapshot taken at derivation time
type MoveResponse struct {
	ID                 uuid.UUID                      `json:"id"`
	LineID             uuid.UUID                      `json:"line_id"`
	ComponentID        *uuid.UUID                     `json:"component_id,omitempty"`
	ProductID          uuid.UUID                      `json:"product_id"`
	Description        string                         `json:"description"`
	Quantity           decimal.Decimal                `json:"quantity"`
	Unit               string                         `json:"unit"`
	SequenceKey        decimal.Decimal                `json:"sequence_key"`
	ItemCode           string                         `json:"item_code"`
	UnitPrice          decimal.Decimal                `json:"unit_price"`
	Period             rentalapp.RentalPeriodResponse `json:"period"`
	SourceLocationID   uuid.UUID                      `json:"source_location_id"`
	DestLocationID     uuid.UUID                      `json:"dest_location_id"`
	MirroredFromMoveID *uuid.UUID                     `json:"mirrored_from_move_id,omitempty"`
	Details            []MoveDetailResponse           `json:"details,omitempty"`
}

// MoveDetailResponse is one lot-level sub-line of a move
type MoveDetailResponse struct {
	LotNumber string          `json:"lot_number"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// ListByOrder returns the committed transfers of a rental order, oldest first
func (h *TransferHandler) ListByOrder(c *gin.Context) {
	orderID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	transfers, err := h.inventory.FindTransfersByDocument(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]TransferResponse, 0, len(transfers))
	for i := range transfers {
		out = append(out, toTransferResponse(&transfers[i]))
	}

	h.Success(c, out)
}

func toTransferResponse(t *stock.Transfer) TransferResponse {
	moves := make([]MoveResponse, 0, len(t.Moves))
	for i := range t.Moves {
		m := &t.Moves[i]
		details := make([]MoveDetailResponse, 0, len(m.Details))
		for _, d := range m.Details {
			details = append(details, MoveDetailResponse{
				LotNumber: d.LotNumber,
				Quantity:  d.Quantity,
			})
		}
		moves = append(moves, MoveResponse{
			ID:                 m.ID,
			LineID:             m.LineID,
			ComponentID:        m.ComponentID,
			ProductID:          m.ProductID,
			Description:        m.Description,
			Quantity:           m.Quantity,
			Unit:               m.Unit,
			SequenceKey:        m.SequenceKey,
			ItemCode:           m.ItemCode,
			UnitPrice:          m.UnitPrice,
			Period:             rentalapp.ToRentalPeriodResponse(m.Period),
			SourceLocationID:   m.SourceLocationID,
			DestLocationID:     m.DestLocationID,
			MirroredFromMoveID: m.MirroredFromMoveID,
			Details:            details,
		})
	}
	return TransferResponse{
		ID:              t.ID,
		Reference:       t.Reference,
		Direction:       t.Direction,
		OperationTypeID: t.OperationTypeID,
		DocumentID:      t.DocumentID,
		Moves:           moves,
		ExecutedAt:      t.ExecutedAt,
	}
}
