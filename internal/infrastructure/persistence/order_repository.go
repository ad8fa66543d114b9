package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/gdi/rental-backend/internal/domain/rental"
	"github.com/gdi/rental-backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds a rental order by its ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*rental.Order, error) {
	var order rental.Order
	if err := preloadLines(r.db.WithContext(ctx)).
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByReference finds a rental order by its reference number
func (r *GormOrderRepository) FindByReference(ctx context.Context, reference string) (*rental.Order, error) {
	var order rental.Order
	if err := preloadLines(r.db.WithContext(ctx)).
		Where("reference = ?", reference).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAll finds rental orders with filtering
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]rental.Order, error) {
	var orders []rental.Order
	query := r.applyFilter(
		preloadLines(r.db.WithContext(ctx)).Model(&rental.Order{}),
		filter,
	)

	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindByStatus finds rental orders by lifecycle status
func (r *GormOrderRepository) FindByStatus(ctx context.Context, status rental.OrderStatus, filter shared.Filter) ([]rental.Order, error) {
	var orders []rental.Order
	query := r.applyFilter(
		preloadLines(r.db.WithContext(ctx)).Model(&rental.Order{}).
			Where("status = ?", status),
		filter,
	)

	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Count counts rental orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&rental.Order{}),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a rental order with its lines and components
func (r *GormOrderRepository) Save(ctx context.Context, order *rental.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines").Save(order).Error; err != nil {
			return err
		}
		return saveDocumentLines(tx, order.ID, order.Lines)
	})
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, order *rental.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		currentVersion, err := currentAggregateVersion(tx, &rental.Order{}, order.ID)
		if err != nil {
			return err
		}
		if currentVersion != order.Version {
			return errConcurrentModification
		}

		order.Version++
		order.UpdatedAt = time.Now()

		result := tx.Model(&rental.Order{}).
			Where("id = ? AND version = ?", order.ID, currentVersion).
			Updates(map[string]interface{}{
				"counterparty_id":      order.CounterpartyID,
				"counterparty_name":    order.CounterpartyName,
				"delivery_location_id": order.DeliveryLocationID,
				"customer_reference":   order.CustomerReference,
				"customer_po_number":   order.CustomerPONumber,
				"pricing_list_id":      order.PricingListID,
				"currency":             order.Currency,
				"order_date":           order.OrderDate,
				"start_date":           order.Period.Start,
				"duration":             order.Period.Value,
				"duration_unit":        order.Period.Unit,
				"status":               order.Status,
				"amount_untaxed":       order.AmountUntaxed,
				"amount_tax":           order.AmountTax,
				"amount_total":         order.AmountTotal,
				"note":                 order.Note,
				"contract_id":          order.ContractID,
				"effective_end_date":   order.EffectiveEndDate,
				"hireoff_date":         order.HireoffDate,
				"hireoff_reason":       order.HireoffReason,
				"cancel_reason":        order.CancelReason,
				"version":              order.Version,
				"updated_at":           order.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errConcurrentModification
		}

		return saveDocumentLines(tx, order.ID, order.Lines)
	})
}

// Delete deletes a rental order with its lines and components
func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteDocumentLines(tx, id); err != nil {
			return err
		}
		result := tx.Delete(&rental.Order{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// applyFilter applies filter options to the query
func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)
	return applyPaginationAndOrder(query, filter, OrderSortFields)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("reference ILIKE ? OR counterparty_name ILIKE ?",
			searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "counterparty_id":
			query = query.Where("counterparty_id = ?", value)
		case "company_id":
			query = query.Where("company_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "quotation_id":
			query = query.Where("quotation_id = ?", value)
		case "order_date_from":
			if t, ok := value.(time.Time); ok {
				query = query.Where("order_date >= ?", t)
			}
		case "order_date_to":
			if t, ok := value.(time.Time); ok {
				query = query.Where("order_date <= ?", t)
			}
		}
	}

	return query
}

// Ensure GormOrderRepository implements OrderRepository
var _ rental.OrderRepository = (*GormOrderRepository)(nil)
