package cart

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tacoeljunior/ordering-backend/pkg/enums"
	pkgerrors "github.com/tacoeljunior/ordering-backend/pkg/errors"
	"github.com/tacoeljunior/ordering-backend/pkg/types"
)

// TaxRate is the flat sales tax applied to the cart subtotal.
var TaxRate = decimal.NewFromFloat(0.08)

// AddItemInput is a line item before the service assigns its id and total.
type AddItemInput struct {
	MenuItemID          string
	ItemName            string
	Meat                string
	Size                enums.ItemSize
	SpecialInstructions string
	Price               decimal.Decimal
	Quantity            int
	ImageURL            string
}

func (in AddItemInput) validate() error {
	if strings.TrimSpace(in.MenuItemID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "menu item id required")
	}
	if strings.TrimSpace(in.ItemName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "item name required")
	}
	if in.Quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if in.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if in.Size != "" && !in.Size.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid item size")
	}
	return nil
}

// Totals are the derived cart aggregates, always recomputed from the line
// items so they cannot drift from them.
type Totals struct {
	Count    int             `json:"count"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

func computeTotals(items []types.LineItem) Totals {
	subtotal := decimal.Zero
	count := 0
	for _, item := range items {
		count += item.Quantity
		subtotal = subtotal.Add(item.Total)
	}
	tax := subtotal.Mul(TaxRate).Round(2)
	return Totals{
		Count:    count,
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}

// newLineItemID builds an identifier unique within a cart session from a
// millisecond timestamp plus a random component.
func newLineItemID() string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), suffix)
}

func newLineItem(in AddItemInput) types.LineItem {
	return types.LineItem{
		ID:                  newLineItemID(),
		MenuItemID:          in.MenuItemID,
		ItemName:            in.ItemName,
		Meat:                in.Meat,
		Size:                in.Size,
		SpecialInstructions: in.SpecialInstructions,
		Price:               in.Price,
		Quantity:            in.Quantity,
		ImageURL:            in.ImageURL,
		Total:               in.Price.Mul(decimal.NewFromInt(int64(in.Quantity))),
	}
}
