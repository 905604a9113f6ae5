package types

import (
	"github.com/shopspring/decimal"

	"github.com/tacoeljunior/ordering-backend/pkg/enums"
)

// LineItem is one configured entry in a cart. The JSON field names are the
// wire/storage format consumed by the mobile client; Total is stored
// redundantly and recomputed on every mutation rather than derived lazily.
type LineItem struct {
	ID                  string          `json:"id"`
	MenuItemID          string          `json:"menuItemId"`
	ItemName            string          `json:"itemName"`
	Meat                string          `json:"meat,omitempty"`
	Size                enums.ItemSize  `json:"size,omitempty"`
	SpecialInstructions string          `json:"specialInstructions,omitempty"`
	Price               decimal.Decimal `json:"price"`
	Quantity            int             `json:"quantity"`
	ImageURL            string          `json:"imageURL,omitempty"`
	Total               decimal.Decimal `json:"total"`
}

// LineItems is the snapshot payload embedded into an order record.
type LineItems []LineItem
