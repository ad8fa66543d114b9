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

// GormQuotationRepository implements QuotationRepository using GORM
type GormQuotationRepository struct {
	db *gorm.DB
}

// NewGormQuotationRepository creates a new GormQuotationRepository
func NewGormQuotationRepository(db *gorm.DB) *GormQuotationRepository {
	return &GormQuotationRepository{db: db}
}

// FindByID finds a quotation by its ID
func (r *GormQuotationRepository) FindByID(ctx context.Context, id uuid.UUID) (*rental.Quotation, error) {
	var quotation rental.Quotation
	if err := preloadLines(r.db.WithContext(ctx)).
		First(&quotation, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &quotation, nil
}

// FindByReference finds a quotation by its reference number
func (r *GormQuotationRepository) FindByReference(ctx context.Context, reference string) (*rental.Quotation, error) {
	var quotation rental.Quotation
	if err := preloadLines(r.db.WithContext(ctx)).
		Where("reference = ?", reference).
		First(&quotation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &quotation, nil
}

// FindAll finds quotations with filtering
func (r *GormQuotationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]rental.Quotation, error) {
	var quotations []rental.Quotation
	query := r.applyFilter(
		preloadLines(r.db.WithContext(ctx)).Model(&rental.Quotation{}),
		filter,
	)

	if err := query.Find(&quotations).Error; err != nil {
		return nil, err
	}
	return quotations, nil
}

// Count counts quotations matching the filter
func (r *GormQuotationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&rental.Quotation{}),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a quotation with its lines and components
func (r *GormQuotationRepository) Save(ctx context.Context, quotation *rental.Quotation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines").Save(quotation).Error; err != nil {
			return err
		}
		return saveDocumentLines(tx, quotation.ID, quotation.Lines)
	})
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormQuotationRepository) SaveWithLock(ctx context.Context, quotation *rental.Quotation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		currentVersion, err := currentAggregateVersion(tx, &rental.Quotation{}, quotation.ID)
		if err != nil {
			return err
		}
		if currentVersion != quotation.Version {
			return errConcurrentModification
		}

		quotation.Version++
		quotation.UpdatedAt = time.Now()

		result := tx.Model(&rental.Quotation{}).
			Where("id = ? AND version = ?", quotation.ID, currentVersion).
			Updates(map[string]interface{}{
				"counterparty_id":      quotation.CounterpartyID,
				"counterparty_name":    quotation.CounterpartyName,
				"delivery_location_id": quotation.DeliveryLocationID,
				"customer_reference":   quotation.CustomerReference,
				"customer_po_number":   quotation.CustomerPONumber,
				"pricing_list_id":      quotation.PricingListID,
				"currency":             quotation.Currency,
				"order_date":           quotation.OrderDate,
				"validity_date":        quotation.ValidityDate,
				"start_date":           quotation.Period.Start,
				"duration":             quotation.Period.Value,
				"duration_unit":        quotation.Period.Unit,
				"status":               quotation.Status,
				"amount_untaxed":       quotation.AmountUntaxed,
				"amount_tax":           quotation.AmountTax,
				"amount_total":         quotation.AmountTotal,
				"note":                 quotation.Note,
				"order_id":             quotation.OrderID,
				"version":              quotation.Version,
				"updated_at":           quotation.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errConcurrentModification
		}

		return saveDocumentLines(tx, quotation.ID, quotation.Lines)
	})
}

// Delete deletes a quotation with its lines and components
func (r *GormQuotationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteDocumentLines(tx, id); err != nil {
			return err
		}
		result := tx.Delete(&rental.Quotation{}, "id = ?", id)
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
func (r *GormQuotationRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)
	return applyPaginationAndOrder(query, filter, QuotationSortFields)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormQuotationRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
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

// Ensure GormQuotationRepository implements QuotationRepository
var _ rental.QuotationRepository = (*GormQuotationRepository)(nil)
