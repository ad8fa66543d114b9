package stock

import (
	"time"

	"github.com/gdi/rental-backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OperationTypeRecord is a configured inventory operation with its default
// locations. The delivery and return operation types the rental flows use are
// master data rows in this table.
type OperationTypeRecord struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name             string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	SourceLocationID uuid.UUID `gorm:"type:uuid;not null"`
	DestLocationID   uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName overrides the gorm table name
func (OperationTypeRecord) TableName() string {
	return "stock_operation_types"
}

// WarehouseRecord is the warehouse master-data row
type WarehouseRecord struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name            string    `gorm:"type:varchar(100);not null"`
	CompanyID       uuid.UUID `gorm:"type:uuid;not null;index"`
	StockLocationID uuid.UUID `gorm:"type:uuid;not null"`
	IsDefault       bool      `gorm:"not null;default:false"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName overrides the gorm table name
func (WarehouseRecord) TableName() string {
	return "stock_warehouses"
}

// Transfer is one committed inventory transfer. Transfers are created and
// validated as a unit; a row in this table always represents executed moves.
type Transfer struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	Reference       string    `gorm:"type:varchar(80);not null;index"`
	Direction       string    `gorm:"type:varchar(3);not null"`
	OperationTypeID uuid.UUID `gorm:"type:uuid;not null"`
	DocumentID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Moves           []Move    `gorm:"foreignKey:TransferID"`
	ExecutedAt      time.Time `gorm:"not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName overrides the gorm table name
func (Transfer) TableName() string {
	return "stock_transfers"
}

// Move is one executed move line of a transfer. SequenceKey keeps the
// fractional component numbering (parent sequence + 0.01, 0.02, ...) that
// downstream reporting uses to recover set grouping. ItemCode, UnitPrice and
// Period are the rental detail of the source line frozen at derivation time,
// so the transfer stays a faithful delivery record.
type Move struct {
	ID                 uuid.UUID                `gorm:"type:uuid;primaryKey"`
	TransferID         uuid.UUID                `gorm:"type:uuid;not null;index"`
	LineID             uuid.UUID                `gorm:"type:uuid;not null;index:idx_moves_line_product"`
	ComponentID        *uuid.UUID               `gorm:"type:uuid"`
	ProductID          uuid.UUID                `gorm:"type:uuid;not null;index:idx_moves_line_product"`
	Description        string                   `gorm:"type:text"`
	Quantity           decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	Unit               string                   `gorm:"type:varchar(20)"`
	SequenceKey        decimal.Decimal          `gorm:"type:decimal(12,4);not null"`
	ItemCode           string                   `gorm:"type:varchar(50)"`
	UnitPrice          decimal.Decimal          `gorm:"type:decimal(18,4);not null;default:0"`
	Period             valueobject.RentalPeriod `gorm:"embedded"`
	SourceLocationID   uuid.UUID                `gorm:"type:uuid;not null"`
	DestLocationID     uuid.UUID                `gorm:"type:uuid;not null"`
	MirroredFromMoveID *uuid.UUID               `gorm:"type:uuid"`
	Details            []MoveDetail             `gorm:"foreignKey:MoveID"`
	CreatedAt          time.Time
}

// TableName overrides the gorm table name
func (Move) TableName() string {
	return "stock_moves"
}

// MoveDetail is one lot/serial-level sub-line of an executed move
type MoveDetail struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	MoveID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	LotNumber string          `gorm:"type:varchar(80)"`
	Quantity  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt time.Time
}

// TableName overrides the gorm table name
func (MoveDetail) TableName() string {
	return "stock_move_details"
}
