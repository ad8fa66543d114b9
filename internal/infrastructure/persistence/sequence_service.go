package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdi/rental-backend/internal/domain/rental"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// defaultSequencePadding is the zero-padding width of generated references
const defaultSequencePadding = 5

// Sequence is one named document-numbering counter
type Sequence struct {
	Code      string `gorm:"type:varchar(50);primaryKey"`
	NextValue int64  `gorm:"not null;default:1"`
	Padding   int    `gorm:"not null;default:5"`
	UpdatedAt time.Time
}

// TableName overrides the gorm table name
func (Sequence) TableName() string {
	return "sequences"
}

// GormSequenceService hands out gap-free document reference numbers backed by
// a sequences table. The counter row is locked for the duration of the
// allocation so concurrent confirmations never share a number.
type GormSequenceService struct {
	db *gorm.DB
}

// NewGormSequenceService creates a new GormSequenceService
func NewGormSequenceService(db *gorm.DB) *GormSequenceService {
	return &GormSequenceService{db: db}
}

// NextReference allocates the next zero-padded value of the named sequence,
// creating the counter on first use
func (s *GormSequenceService) NextReference(ctx context.Context, sequenceCode string) (string, error) {
	var reference string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seq Sequence
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("code = ?", sequenceCode).
			Take(&seq).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			seq = Sequence{Code: sequenceCode, NextValue: 1, Padding: defaultSequencePadding}
			if err := tx.Create(&seq).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		padding := seq.Padding
		if padding <= 0 {
			padding = defaultSequencePadding
		}
		reference = fmt.Sprintf("%0*d", padding, seq.NextValue)

		return tx.Model(&Sequence{}).
			Where("code = ?", sequenceCode).
			Updates(map[string]interface{}{
				"next_value": seq.NextValue + 1,
				"updated_at": time.Now(),
			}).Error
	})
	if err != nil {
		return "", err
	}
	return reference, nil
}

// Ensure GormSequenceService implements SequenceService
var _ rental.SequenceService = (*GormSequenceService)(nil)
