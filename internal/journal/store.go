package journal

import (
	"github.com/Yulong-Cauli/Fast-Quant-Core/internal/models"
	"gorm.io/gorm"
)

// GormStore persists trade records through gorm.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an open database handle.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

var _ Store = (*GormStore)(nil)

// SaveTrade inserts one trade row.
func (s *GormStore) SaveTrade(trade *models.Trade) error {
	return s.db.Create(trade).Error
}
