package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/tacoeljunior/ordering-backend/api/middleware"
	"github.com/tacoeljunior/ordering-backend/api/responses"
	"github.com/tacoeljunior/ordering-backend/api/validators"
	"github.com/tacoeljunior/ordering-backend/internal/cart"
	"github.com/tacoeljunior/ordering-backend/pkg/enums"
	pkgerrors "github.com/tacoeljunior/ordering-backend/pkg/errors"
	"github.com/tacoeljunior/ordering-backend/pkg/logger"
	"github.com/tacoeljunior/ordering-backend/pkg/types"
)

type CartController struct {
	svc  cart.Service
	logg *logger.Logger
}

func NewCartController(svc cart.Service, logg *logger.Logger) *CartController {
	return &CartController{svc: svc, logg: logg}
}

type addCartItemRequest struct {
	MenuItemID          string          `json:"menuItemId" validate:"required"`
	ItemName            string          `json:"itemName" validate:"required"`
	Meat                string          `json:"meat"`
	Size                string          `json:"size" validate:"omitempty,oneof=small medium large"`
	SpecialInstructions string          `json:"specialInstructions"`
	Price               decimal.Decimal `json:"price"`
	Quantity            int             `json:"quantity" validate:"required,min=1"`
	ImageURL            string          `json:"imageURL"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

type cartResponse struct {
	Items  []types.LineItem `json:"items"`
	Totals cart.Totals      `json:"totals"`
}

func (c *CartController) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := middleware.CartSessionFromContext(ctx)

	items, totals, err := c.svc.Items(ctx, sessionID)
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}
	if items == nil {
		items = []types.LineItem{}
	}

	responses.WriteSuccess(w, cartResponse{Items: items, Totals: totals})
}

func (c *CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := middleware.CartSessionFromContext(ctx)

	var body addCartItemRequest
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	item, err := c.svc.AddItem(ctx, sessionID, cart.AddItemInput{
		MenuItemID:          body.MenuItemID,
		ItemName:            body.ItemName,
		Meat:                body.Meat,
		Size:                enums.ItemSize(body.Size),
		SpecialInstructions: body.SpecialInstructions,
		Price:               body.Price,
		Quantity:            body.Quantity,
		ImageURL:            body.ImageURL,
	})
	if err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	responses.WriteSuccessStatus(w, http.StatusCreated, item)
}

func (c *CartController) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := middleware.CartSessionFromContext(ctx)

	itemID := chi.URLParam(r, "itemID")
	if itemID == "" {
		responses.WriteError(ctx, c.logg, w, pkgerrors.New(pkgerrors.CodeValidation, "item id required"))
		return
	}

	var body updateQuantityRequest
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	if err := c.svc.UpdateQuantity(ctx, sessionID, itemID, body.Quantity); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	c.Get(w, r)
}

func (c *CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := middleware.CartSessionFromContext(ctx)

	itemID := chi.URLParam(r, "itemID")
	if itemID == "" {
		responses.WriteError(ctx, c.logg, w, pkgerrors.New(pkgerrors.CodeValidation, "item id required"))
		return
	}

	if err := c.svc.RemoveItem(ctx, sessionID, itemID); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	c.Get(w, r)
}

func (c *CartController) Clear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := middleware.CartSessionFromContext(ctx)

	if err := c.svc.Clear(ctx, sessionID); err != nil {
		responses.WriteError(ctx, c.logg, w, err)
		return
	}

	responses.WriteSuccess(w, cartResponse{Items: []types.LineItem{}, Totals: cart.Totals{
		Subtotal: decimal.Zero,
		Tax:      decimal.Zero,
		Total:    decimal.Zero,
	}})
}
