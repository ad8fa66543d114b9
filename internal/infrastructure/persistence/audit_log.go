package persistence

import (
	"context"
	"time"

	"github.com/gdi/rental-backend/internal/domain/rental"
	"github.com/gdi/rental-backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditEntry is one recorded document change-history row
type AuditEntry struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	AggregateType string    `gorm:"type:varchar(50);not null;index:idx_audit_aggregate"`
	AggregateID   uuid.UUID `gorm:"type:uuid;not null;index:idx_audit_aggregate"`
	Action        string    `gorm:"type:varchar(50);not null"`
	Detail        string    `gorm:"type:text"`
	CompanyID     uuid.UUID `gorm:"type:uuid"`
	UserID        uuid.UUID `gorm:"type:uuid"`
	CreatedAt     time.Time
}

// TableName overrides the gorm table name
func (AuditEntry) TableName() string {
	return "audit_entries"
}

// GormAuditLog records document transitions as append-only history rows
type GormAuditLog struct {
	db *gorm.DB
}

// NewGormAuditLog creates a new GormAuditLog
func NewGormAuditLog(db *gorm.DB) *GormAuditLog {
	return &GormAuditLog{db: db}
}

// Record appends a change-history entry for an aggregate
func (l *GormAuditLog) Record(ctx context.Context, rc rental.RequestContext, aggregateType string, aggregateID uuid.UUID, action, detail string) error {
	entry := AuditEntry{
		ID:            uuid.New(),
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		Action:        action,
		Detail:        detail,
		CompanyID:     rc.CompanyID,
		UserID:        rc.UserID,
		CreatedAt:     time.Now(),
	}
	return l.db.WithContext(ctx).Create(&entry).Error
}

// History returns the recorded entries of an aggregate, newest first
func (l *GormAuditLog) History(ctx context.Context, aggregateType string, aggregateID uuid.UUID, filter shared.Filter) ([]AuditEntry, error) {
	var entries []AuditEntry
	query := l.db.WithContext(ctx).
		Where("aggregate_type = ? AND aggregate_id = ?", aggregateType, aggregateID).
		Order("created_at DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Ensure GormAuditLog implements AuditLog
var _ rental.AuditLog = (*GormAuditLog)(nil)
