package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tacoeljunior/ordering-backend/pkg/enums"
	"github.com/tacoeljunior/ordering-backend/pkg/types"
)

// Order is the write-once submission record. Items holds the cart snapshot at
// submission time; later cart mutations never touch a stored order.
type Order struct {
	ID                  uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber         string              `gorm:"column:order_number;not null"`
	CustomerName        string              `gorm:"column:customer_name;not null"`
	CustomerPhone       string              `gorm:"column:customer_phone;not null"`
	CustomerEmail       *string             `gorm:"column:customer_email"`
	PickupTime          *string             `gorm:"column:pickup_time"`
	SpecialInstructions *string             `gorm:"column:special_instructions"`
	Items               types.LineItems     `gorm:"column:items;type:jsonb;serializer:json"`
	Subtotal            decimal.Decimal     `gorm:"column:subtotal;type:numeric(10,2);not null"`
	Tax                 decimal.Decimal     `gorm:"column:tax;type:numeric(10,2);not null"`
	Total               decimal.Decimal     `gorm:"column:total;type:numeric(10,2);not null"`
	PaymentMethod       enums.PaymentMethod `gorm:"column:payment_method;type:text;not null;default:'pending'"`
	PaymentStatus       enums.PaymentStatus `gorm:"column:payment_status;type:text;not null;default:'pending'"`
	Status              enums.OrderStatus   `gorm:"column:status;type:text;not null;default:'pending'"`
	CreatedAt           time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
