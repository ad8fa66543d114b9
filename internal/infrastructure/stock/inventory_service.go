package stock

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gdi/rental-backend/internal/domain/rental"
	"github.com/gdi/rental-backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInventoryService implements the inventory collaborator on the stock
// tables: operation-type lookup, atomic transfer execution and prior-movement
// lookup for return mirroring.
type GormInventoryService struct {
	db *gorm.DB
}

// NewGormInventoryService creates a new GormInventoryService
func NewGormInventoryService(db *gorm.DB) *GormInventoryService {
	return &GormInventoryService{db: db}
}

// FindOperationType looks up an operation type by name, returning (nil, nil)
// when no operation type with that name is configured
func (s *GormInventoryService) FindOperationType(ctx context.Context, name string) (*rental.OperationType, error) {
	var record OperationTypeRecord
	err := s.db.WithContext(ctx).
		Where("name = ?", name).
		Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rental.OperationType{
		ID:               record.ID,
		Name:             record.Name,
		SourceLocationID: record.SourceLocationID,
		DestLocationID:   record.DestLocationID,
	}, nil
}

// CreateAndValidateTransfer persists and executes a movement request as one
// unit. The transfer, its moves and their lot details are committed in a
// single transaction; a failure leaves no partial transfer behind.
func (s *GormInventoryService) CreateAndValidateTransfer(ctx context.Context, req *rental.MovementRequest) (*rental.TransferHandle, error) {
	now := time.Now()
	transfer := Transfer{
		ID:              uuid.New(),
		Reference:       transferReference(req),
		Direction:       string(req.Direction),
		OperationTypeID: req.OperationTypeID,
		DocumentID:      req.DocumentID,
		ExecutedAt:      now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Moves").Create(&transfer).Error; err != nil {
			return err
		}
		for _, entry := range req.Entries {
			move := Move{
				ID:                 uuid.New(),
				TransferID:         transfer.ID,
				LineID:             entry.LineID,
				ComponentID:        entry.ComponentID,
				ProductID:          entry.ProductID,
				Description:        entry.Description,
				Quantity:           entry.Quantity,
				Unit:               entry.Unit,
				SequenceKey:        entry.SequenceKey,
				ItemCode:           entry.ItemCode,
				UnitPrice:          entry.UnitPrice,
				Period:             entry.Period,
				SourceLocationID:   entry.SourceLocationID,
				DestLocationID:     entry.DestLocationID,
				MirroredFromMoveID: entry.MirroredFromMoveID,
			}
			if err := tx.Omit("Details").Create(&move).Error; err != nil {
				return err
			}
			for _, detail := range entry.Details {
				row := MoveDetail{
					ID:        uuid.New(),
					MoveID:    move.ID,
					LotNumber: detail.LotNumber,
					Quantity:  detail.Quantity,
				}
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &rental.TransferHandle{ID: transfer.ID, Reference: transfer.Reference}, nil
}

// FindPriorMovement returns the most recent executed outbound move for a line
// and product, with its lot details, or (nil, nil) when the line has no
// outbound history
func (s *GormInventoryService) FindPriorMovement(ctx context.Context, lineID, productID uuid.UUID) (*rental.PriorMovement, error) {
	var move Move
	err := s.db.WithContext(ctx).
		Preload("Details").
		Joins("JOIN stock_transfers ON stock_transfers.id = stock_moves.transfer_id").
		Where("stock_moves.line_id = ? AND stock_moves.product_id = ? AND stock_transfers.direction = ?",
			lineID, productID, string(rental.MovementOut)).
		Order("stock_moves.created_at DESC").
		First(&move).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	details := make([]rental.MovementDetailLine, len(move.Details))
	for i, d := range move.Details {
		details[i] = rental.MovementDetailLine{LotNumber: d.LotNumber, Quantity: d.Quantity}
	}
	return &rental.PriorMovement{
		MoveID:           move.ID,
		TransferID:       move.TransferID,
		ProductID:        move.ProductID,
		SourceLocationID: move.SourceLocationID,
		DestLocationID:   move.DestLocationID,
		Quantity:         move.Quantity,
		Details:          details,
	}, nil
}

// FindTransfersByDocument lists the committed transfers of a document,
// oldest first
func (s *GormInventoryService) FindTransfersByDocument(ctx context.Context, documentID uuid.UUID) ([]Transfer, error) {
	var transfers []Transfer
	if err := s.db.WithContext(ctx).
		Preload("Moves", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence_key ASC")
		}).
		Preload("Moves.Details").
		Where("document_id = ?", documentID).
		Order("executed_at ASC").
		Find(&transfers).Error; err != nil {
		return nil, err
	}
	return transfers, nil
}

// transferReference derives the transfer reference from the document
// reference and direction, e.g. "RO00001/OUT"
func transferReference(req *rental.MovementRequest) string {
	return req.Reference + "/" + strings.ToUpper(string(req.Direction))
}

// GormWarehouseResolver resolves the default warehouse of a company from the
// warehouse master data
type GormWarehouseResolver struct {
	db *gorm.DB
}

// NewGormWarehouseResolver creates a new GormWarehouseResolver
func NewGormWarehouseResolver(db *gorm.DB) *GormWarehouseResolver {
	return &GormWarehouseResolver{db: db}
}

// DefaultWarehouse returns the company's default warehouse. A company without
// one is a fatal configuration error.
func (r *GormWarehouseResolver) DefaultWarehouse(ctx context.Context, companyID uuid.UUID) (*rental.Warehouse, error) {
	var record WarehouseRecord
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND is_default = ?", companyID, true).
		Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.NewDomainError(shared.ErrCodeMissingWarehouse, "No default warehouse is configured for the company")
	}
	if err != nil {
		return nil, err
	}
	return &rental.Warehouse{
		ID:              record.ID,
		Name:            record.Name,
		StockLocationID: record.StockLocationID,
	}, nil
}

// Ensure the adapters implement the domain ports
var (
	_ rental.InventoryService  = (*GormInventoryService)(nil)
	_ rental.WarehouseResolver = (*GormWarehouseResolver)(nil)
)
