package persistence

import (
	"errors"
	"strings"

	"github.com/gdi/rental-backend/internal/domain/rental"
	"github.com/gdi/rental-backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// errConcurrentModification is returned when an optimistic lock check fails
var errConcurrentModification = shared.NewDomainError("CONCURRENT_MODIFICATION", "The document has been modified by another user")

// preloadLines preloads document lines in sequence order together with their
// set components
func preloadLines(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		}).
		Preload("Lines.Components")
}

// currentAggregateVersion reads the persisted version of an aggregate row
func currentAggregateVersion(tx *gorm.DB, model interface{}, id uuid.UUID) (int, error) {
	var version int
	if err := tx.Model(model).
		Select("version").
		Where("id = ?", id).
		Take(&version).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, shared.ErrNotFound
		}
		return 0, err
	}
	return version, nil
}

// saveDocumentLines reconciles the persisted lines of a document with the
// given in-memory set: removed lines and their components are deleted,
// remaining lines and components are saved. Quotations, orders and contracts
// share the rental_line_items table, so one routine serves all three.
func saveDocumentLines(tx *gorm.DB, documentID uuid.UUID, lines []rental.LineItem) error {
	currentLineIDs := make([]uuid.UUID, len(lines))
	for i := range lines {
		currentLineIDs[i] = lines[i].ID
	}

	removed := tx.Model(&rental.LineItem{}).
		Select("id").
		Where("document_id = ?", documentID)
	if len(currentLineIDs) > 0 {
		removed = removed.Where("id NOT IN ?", currentLineIDs)
	}
	if err := tx.Where("line_id IN (?)", removed).
		Delete(&rental.ComponentLine{}).Error; err != nil {
		return err
	}

	if len(currentLineIDs) > 0 {
		if err := tx.Where("document_id = ? AND id NOT IN ?", documentID, currentLineIDs).
			Delete(&rental.LineItem{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("document_id = ?", documentID).
			Delete(&rental.LineItem{}).Error; err != nil {
			return err
		}
	}

	for i := range lines {
		line := &lines[i]
		line.DocumentID = documentID
		if err := tx.Omit("Components").Save(line).Error; err != nil {
			return err
		}
		if err := saveLineComponents(tx, line.ID, line.Components); err != nil {
			return err
		}
	}
	return nil
}

// saveLineComponents reconciles the persisted components of a set line
func saveLineComponents(tx *gorm.DB, lineID uuid.UUID, components []rental.ComponentLine) error {
	currentIDs := make([]uuid.UUID, len(components))
	for i := range components {
		currentIDs[i] = components[i].ID
	}

	if len(currentIDs) > 0 {
		if err := tx.Where("line_id = ? AND id NOT IN ?", lineID, currentIDs).
			Delete(&rental.ComponentLine{}).Error; err != nil {
			return err
		}
	} else {
		if err := tx.Where("line_id = ?", lineID).
			Delete(&rental.ComponentLine{}).Error; err != nil {
			return err
		}
	}

	for i := range components {
		components[i].LineID = lineID
		if err := tx.Save(&components[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// deleteDocumentLines removes every line and component of a document
func deleteDocumentLines(tx *gorm.DB, documentID uuid.UUID) error {
	lineIDs := tx.Model(&rental.LineItem{}).
		Select("id").
		Where("document_id = ?", documentID)
	if err := tx.Where("line_id IN (?)", lineIDs).
		Delete(&rental.ComponentLine{}).Error; err != nil {
		return err
	}
	return tx.Where("document_id = ?", documentID).
		Delete(&rental.LineItem{}).Error
}

// applyPaginationAndOrder applies pagination and whitelisted ordering
func applyPaginationAndOrder(query *gorm.DB, filter shared.Filter, sortFields map[string]bool) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, sortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(strings.Join([]string{orderBy, orderDir}, " "))
}
