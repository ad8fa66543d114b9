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

// GormContractRepository implements ContractRepository using GORM
type GormContractRepository struct {
	db *gorm.DB
}

// NewGormContractRepository creates a new GormContractRepository
func NewGormContractRepository(db *gorm.DB) *GormContractRepository {
	return &GormContractRepository{db: db}
}

// FindByID finds a contract by its ID
func (r *GormContractRepository) FindByID(ctx context.Context, id uuid.UUID) (*rental.Contract, error) {
	var contract rental.Contract
	if err := preloadLines(r.db.WithContext(ctx)).
		First(&contract, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &contract, nil
}

// FindByOrder finds the contract generated from a rental order
func (r *GormContractRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) (*rental.Contract, error) {
	var contract rental.Contract
	if err := preloadLines(r.db.WithContext(ctx)).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		First(&contract).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &contract, nil
}

// FindAll finds contracts with filtering
func (r *GormContractRepository) FindAll(ctx context.Context, filter shared.Filter) ([]rental.Contract, error) {
	var contracts []rental.Contract
	query := r.applyFilter(
		preloadLines(r.db.WithContext(ctx)).Model(&rental.Contract{}),
		filter,
	)

	if err := query.Find(&contracts).Error; err != nil {
		return nil, err
	}
	return contracts, nil
}

// Count counts contracts matching the filter
func (r *GormContractRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&rental.Contract{}),
		filter,
	)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a contract with its lines and components
func (r *GormContractRepository) Save(ctx context.Context, contract *rental.Contract) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines").Save(contract).Error; err != nil {
			return err
		}
		return saveDocumentLines(tx, contract.ID, contract.Lines)
	})
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormContractRepository) SaveWithLock(ctx context.Context, contract *rental.Contract) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		currentVersion, err := currentAggregateVersion(tx, &rental.Contract{}, contract.ID)
		if err != nil {
			return err
		}
		if currentVersion != contract.Version {
			return errConcurrentModification
		}

		contract.Version++
		contract.UpdatedAt = time.Now()

		result := tx.Model(&rental.Contract{}).
			Where("id = ? AND version = ?", contract.ID, currentVersion).
			Updates(map[string]interface{}{
				"counterparty_id":       contract.CounterpartyID,
				"counterparty_name":     contract.CounterpartyName,
				"customer_reference":    contract.CustomerReference,
				"customer_po_number":    contract.CustomerPONumber,
				"pricing_list_id":       contract.PricingListID,
				"currency":              contract.Currency,
				"start_date":            contract.Period.Start,
				"duration":              contract.Period.Value,
				"duration_unit":         contract.Period.Unit,
				"date_definition_level": contract.DateDefinitionLevel,
				"status":                contract.Status,
				"amount_untaxed":        contract.AmountUntaxed,
				"amount_tax":            contract.AmountTax,
				"amount_total":          contract.AmountTotal,
				"effective_end_date":    contract.EffectiveEndDate,
				"hireoff_date":          contract.HireoffDate,
				"outbound_transfer_id":  contract.OutboundTransferID,
				"version":               contract.Version,
				"updated_at":            contract.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errConcurrentModification
		}

		return saveDocumentLines(tx, contract.ID, contract.Lines)
	})
}

// Delete deletes a contract with its lines and components
func (r *GormContractRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteDocumentLines(tx, id); err != nil {
			return err
		}
		result := tx.Delete(&rental.Contract{}, "id = ?", id)
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
func (r *GormContractRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)
	return applyPaginationAndOrder(query, filter, ContractSortFields)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormContractRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
		case "order_id":
			query = query.Where("order_id = ?", value)
		}
	}

	return query
}

// Ensure GormContractRepository implements ContractRepository
var _ rental.ContractRepository = (*GormContractRepository)(nil)
