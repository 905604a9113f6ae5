package menu

import (
	"context"

	"gorm.io/gorm"

	"github.com/tacoeljunior/ordering-backend/pkg/db/models"
)

// Repository reads the menu catalog. The catalog is managed out of band and
// never mutated through this service.
type Repository interface {
	ListAvailable(ctx context.Context) ([]models.MenuItem, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a menu repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListAvailable(ctx context.Context) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := r.db.WithContext(ctx).
		Where("available = ?", true).
		Order("category ASC").
		Order("sort_order ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
