package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tacoeljunior/ordering-backend/pkg/db/models"
	"github.com/tacoeljunior/ordering-backend/pkg/enums"
)

// Repository persists submitted orders.
type Repository interface {
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	CountCreatedBetween(ctx context.Context, start, end time.Time) (int64, error)
	UpdatePayment(ctx context.Context, id uuid.UUID, status enums.PaymentStatus, method *enums.PaymentMethod) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) CountCreatedBetween(ctx context.Context, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("created_at >= ? AND created_at <= ?", start, end).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// UpdatePayment touches the payment columns only; other order fields are
// never rewritten after submission.
func (r *repository) UpdatePayment(ctx context.Context, id uuid.UUID, status enums.PaymentStatus, method *enums.PaymentMethod) error {
	updates := map[string]any{"payment_status": status}
	if method != nil {
		updates["payment_method"] = *method
	}
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Updates(updates).Error
}
