package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MenuItem is one row of the restaurant's catalog. Rows are managed out of
// band by the back office; this service only reads them.
type MenuItem struct {
	ID             uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ItemName       string           `gorm:"column:item_name;not null"`
	Category       string           `gorm:"column:category;not null"`
	Price          decimal.Decimal  `gorm:"column:price;type:numeric(10,2);not null"`
	Description    *string          `gorm:"column:description"`
	ImageURL       *string          `gorm:"column:image_url"`
	Available      bool             `gorm:"column:available;not null;default:true"`
	MeatChoice     bool             `gorm:"column:meat_choice;not null;default:false"`
	HasSizeOptions bool             `gorm:"column:has_size_options;not null;default:false"`
	SmallPrice     *decimal.Decimal `gorm:"column:small_price;type:numeric(10,2)"`
	MediumPrice    *decimal.Decimal `gorm:"column:medium_price;type:numeric(10,2)"`
	LargePrice     *decimal.Decimal `gorm:"column:large_price;type:numeric(10,2)"`
	SortOrder      int              `gorm:"column:sort_order;not null;default:0"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
