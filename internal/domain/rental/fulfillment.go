package rental

import (
	"context"
	"fmt"

	"github.com/gdi/rental-backend/internal/domain/shared"
	"github.com/gdi/rental-backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementDirection is the direction of a movement request
type MovementDirection string

const (
	// MovementOut delivers goods to the counterparty
	MovementOut MovementDirection = "out"
	// MovementIn returns goods from the counterparty (extension return or
	// hire-off)
	MovementIn MovementDirection = "in"
)

// MovementEntry is one move instruction inside a MovementRequest. Entries
// carry their own locations: return entries mirror the prior outbound
// movement per line, so locations differ entry by entry. ItemCode, UnitPrice
// and Period snapshot the rental detail of the source line at derivation
// time; the committed transfer keeps them even if the line changes later.
type MovementEntry struct {
	ProductID          uuid.UUID
	Description        string
	Quantity           decimal.Decimal
	Unit               string
	SequenceKey        decimal.Decimal
	LineID             uuid.UUID
	ComponentID        *uuid.UUID
	ItemCode           string
	UnitPrice          decimal.Decimal
	Period             valueobject.RentalPeriod
	SourceLocationID   uuid.UUID
	DestLocationID     uuid.UUID
	MirroredFromMoveID *uuid.UUID
	Details            []MovementDetailLine
}

// MovementRequest is the in-memory instruction set the fulfillment engine
// hands to the inventory service. It is fully built before any persistent
// state is touched, so a late derivation failure cannot leave a document
// half-transitioned.
type MovementRequest struct {
	Direction       MovementDirection
	OperationTypeID uuid.UUID
	DocumentID      uuid.UUID
	Reference       string
	Entries         []MovementEntry
}

// IsEmpty reports whether the request carries no move entries
func (r *MovementRequest) IsEmpty() bool {
	return len(r.Entries) == 0
}

// SkippedLine records a line or component skipped during inbound derivation
// because it had no prior movement. Skips are tolerated per line; the caller
// logs them as warnings.
type SkippedLine struct {
	LineID    uuid.UUID
	ProductID uuid.UUID
	ItemCode  string
	Reason    string
}

// componentSequenceStep spaces component entries inside their parent line's
// sequence slot: parent sequence + 0.01, +0.02, ... Downstream reporting
// recovers set grouping from this fractional key, so the convention must not
// change.
var componentSequenceStep = decimal.New(1, -2)

// FulfillmentEngine derives concrete inventory movements from document
// lines, expanding composite set items into per-component moves.
type FulfillmentEngine struct {
	inventory InventoryService
}

// NewFulfillmentEngine creates a FulfillmentEngine
func NewFulfillmentEngine(inventory InventoryService) *FulfillmentEngine {
	return &FulfillmentEngine{inventory: inventory}
}

// BuildOutbound derives the delivery movement for the given lines. Unit
// lines produce one entry each; set lines produce one entry per component
// using the component's product, quantity and unit of measure but the parent
// line's locations and a fractional sequence key. A set line with no
// components contributes nothing. As a side effect every source line is
// marked active (components are not individually marked).
func (e *FulfillmentEngine) BuildOutbound(documentID uuid.UUID, reference string, lines []*LineItem, op *OperationType, counterpartyLocationID uuid.UUID) (*MovementRequest, error) {
	if op == nil {
		return nil, shared.NewDomainError(shared.ErrCodeMissingOperationType, "Delivery operation type is not configured")
	}

	req := &MovementRequest{
		Direction:       MovementOut,
		OperationTypeID: op.ID,
		DocumentID:      documentID,
		Reference:       reference,
		Entries:         make([]MovementEntry, 0, len(lines)),
	}

	for _, line := range lines {
		seq := decimal.NewFromInt(int64(line.Sequence))
		switch line.ItemType {
		case ItemTypeUnit:
			req.Entries = append(req.Entries, MovementEntry{
				ProductID:        line.ProductID,
				Description:      line.Description,
				Quantity:         line.Quantity,
				Unit:             line.Unit,
				SequenceKey:      seq,
				LineID:           line.ID,
				ItemCode:         line.ItemCode,
				UnitPrice:        line.UnitPrice,
				Period:           line.Period,
				SourceLocationID: op.SourceLocationID,
				DestLocationID:   counterpartyLocationID,
			})
		case ItemTypeSet:
			for idx := range line.Components {
				comp := &line.Components[idx]
				compID := comp.ID
				req.Entries = append(req.Entries, MovementEntry{
					ProductID:        comp.ProductID,
					Description:      comp.Description,
					Quantity:         comp.Quantity,
					Unit:             comp.Unit,
					SequenceKey:      seq.Add(componentSequenceStep.Mul(decimal.NewFromInt(int64(idx + 1)))),
					LineID:           line.ID,
					ComponentID:      &compID,
					ItemCode:         line.ItemCode,
					UnitPrice:        comp.UnitPrice,
					Period:           line.Period,
					SourceLocationID: op.SourceLocationID,
					DestLocationID:   counterpartyLocationID,
				})
			}
		}
	}

	for _, line := range lines {
		line.markActive()
	}
	return req, nil
}

// BuildInbound derives the return movement for the eligible lines, anchored
// to movement history: each entry mirrors the most recent prior outbound
// movement of its line (or, for set lines, of each component independently,
// matched by product). Goods return to the location they came from; the
// source is the operation's configured return-receiving location. Executed
// lot/serial detail is copied one return sub-line per original sub-line.
//
// A line or component with no prior movement is skipped, not an error: the
// skip is reported so the caller can log a warning. Sequence keys keep the
// outbound convention, so gaps appear where components were skipped;
// duplicates never do.
func (e *FulfillmentEngine) BuildInbound(ctx context.Context, documentID uuid.UUID, reference string, lines []*LineItem, op *OperationType) (*MovementRequest, []SkippedLine, error) {
	if op == nil {
		return nil, nil, shared.NewDomainError(shared.ErrCodeMissingOperationType, "Return operation type is not configured")
	}

	req := &MovementRequest{
		Direction:       MovementIn,
		OperationTypeID: op.ID,
		DocumentID:      documentID,
		Reference:       reference,
		Entries:         make([]MovementEntry, 0, len(lines)),
	}
	skipped := make([]SkippedLine, 0)

	for _, line := range lines {
		seq := decimal.NewFromInt(int64(line.Sequence))
		switch line.ItemType {
		case ItemTypeUnit:
			entry, skip, err := e.mirrorEntry(ctx, line, nil, line.ProductID, line.Description, line.Quantity, line.Unit, seq, op)
			if err != nil {
				return nil, nil, err
			}
			if skip != nil {
				skipped = append(skipped, *skip)
				continue
			}
			req.Entries = append(req.Entries, *entry)
		case ItemTypeSet:
			for idx := range line.Components {
				comp := &line.Components[idx]
				compSeq := seq.Add(componentSequenceStep.Mul(decimal.NewFromInt(int64(idx + 1))))
				entry, skip, err := e.mirrorEntry(ctx, line, comp, comp.ProductID, comp.Description, comp.Quantity, comp.Unit, compSeq, op)
				if err != nil {
					return nil, nil, err
				}
				if skip != nil {
					skipped = append(skipped, *skip)
					continue
				}
				req.Entries = append(req.Entries, *entry)
			}
		}
	}

	return req, skipped, nil
}

// mirrorEntry builds one return entry anchored to the prior movement of the
// line/product pair, or a skip record when the line has no history
func (e *FulfillmentEngine) mirrorEntry(ctx context.Context, line *LineItem, comp *ComponentLine, productID uuid.UUID, description string, quantity decimal.Decimal, unit string, seq decimal.Decimal, op *OperationType) (*MovementEntry, *SkippedLine, error) {
	prior, err := e.inventory.FindPriorMovement(ctx, line.ID, productID)
	if err != nil {
		return nil, nil, err
	}
	if prior == nil {
		return nil, &SkippedLine{
			LineID:    line.ID,
			ProductID: productID,
			ItemCode:  line.ItemCode,
			Reason:    fmt.Sprintf("no prior movement found for product %s", productID),
		}, nil
	}

	details := make([]MovementDetailLine, 0, len(prior.Details))
	for _, d := range prior.Details {
		details = append(details, MovementDetailLine{LotNumber: d.LotNumber, Quantity: d.Quantity})
	}

	moveID := prior.MoveID
	entry := &MovementEntry{
		ProductID:          productID,
		Description:        description,
		Quantity:           quantity,
		Unit:               unit,
		SequenceKey:        seq,
		LineID:             line.ID,
		ItemCode:           line.ItemCode,
		UnitPrice:          line.UnitPrice,
		Period:             line.Period,
		SourceLocationID:   op.SourceLocationID,
		DestLocationID:     prior.SourceLocationID,
		MirroredFromMoveID: &moveID,
		Details:            details,
	}
	if comp != nil {
		compID := comp.ID
		entry.ComponentID = &compID
		entry.UnitPrice = comp.UnitPrice
	}
	return entry, nil, nil
}
