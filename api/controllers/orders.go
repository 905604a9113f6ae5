package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tacoeljunior/ordering-backend/api/middleware"
	"github.com/tacoeljunior/ordering-backend/api/responses"
	"github.com/tacoeljunior/ordering-backend/api/validators"
	"github.com/tacoeljunior/ordering-backend/internal/cart"
	"github.com/tacoeljunior/ordering-backend/internal/orders"
	"github.com/tacoeljunior/ordering-backend/pkg/enums"
	pkgerrors "github.com/tacoeljunior/ordering-backend/pkg/errors"
	"github.com/tacoeljunior/ordering-backend/pkg/logger"
)

type OrdersController struct {
	svc   orders.Service
	carts cart.Service
	logg  *logger.Logger
}

func NewOrdersController(svc orders.Service, carts cart.Service, logg *logger.Logger) *OrdersController {
	return &OrdersController{svc: svc, carts: carts, logg: logg}
}

type createOrderRequest struct {
	CustomerName        string  `json:"customerName" validate:"required"`
	CustomerPhone       string  `json:"customerPhone" validate:"required"`
	CustomerEmail       *string `json:"customerEmail" validate:"omitempty,email"`
	PickupTime          *string `json:"pickupTime"`
	SpecialInstructions *string `json:"specialInstructions"`
	PaymentMethod       string  `json:"paymentMethod" validate:"omitempty,oneof=card cash pending"`
}

type updatePaymentRequest struct {
	PaymentStatus string  `json:"paymentStatus" validate:"required,oneof=pending completed failed"`
	PaymentMethod *string `json:"paymentMethod" validate:"omitempty,oneof=card cash pending"`
}

// Create submits the session's cart as an order. The cart is cleared only
// after the order has been persisted; a failed submission leaves it intact.
func (o *OrdersController) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := middleware.CartSessionFromContext(ctx)

	var body createOrderRequest
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		responses.WriteError(ctx, o.logg, w, err)
		return
	}

	items, totals, err := o.carts.Items(ctx, sessionID)
	if err != nil {
		responses.WriteError(ctx, o.logg, w, err)
		return
	}
	if len(items) == 0 {
		responses.WriteError(ctx, o.logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty"))
		return
	}

	order, err := o.svc.CreateOrder(ctx, orders.CreateOrderInput{
		CustomerName:        body.CustomerName,
		CustomerPhone:       body.CustomerPhone,
		CustomerEmail:       body.CustomerEmail,
		PickupTime:          body.PickupTime,
		SpecialInstructions: body.SpecialInstructions,
		Items:               items,
		Subtotal:            totals.Subtotal,
		Tax:                 totals.Tax,
		Total:               totals.Total,
		PaymentMethod:       enums.PaymentMethod(body.PaymentMethod),
	})
	if err != nil {
		responses.WriteError(ctx, o.logg, w, err)
		return
	}

	if err := o.carts.Clear(ctx, sessionID); err != nil {
		o.logg.Error(o.logg.WithOrderNumber(ctx, order.OrderNumber), "order.cart_clear_failed", err)
	}

	responses.WriteSuccessStatus(w, http.StatusCreated, order)
}

func (o *OrdersController) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		responses.WriteError(ctx, o.logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid order id"))
		return
	}

	order, ok := o.svc.GetOrder(ctx, id)
	if !ok {
		responses.WriteError(ctx, o.logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "order not found"))
		return
	}

	responses.WriteSuccess(w, order)
}

func (o *OrdersController) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		responses.WriteError(ctx, o.logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid order id"))
		return
	}

	var body updatePaymentRequest
	if err := validators.DecodeJSONBody(r, &body); err != nil {
		responses.WriteError(ctx, o.logg, w, err)
		return
	}

	var method *enums.PaymentMethod
	if body.PaymentMethod != nil {
		m := enums.PaymentMethod(*body.PaymentMethod)
		method = &m
	}

	if !o.svc.UpdateOrderPayment(ctx, id, enums.PaymentStatus(body.PaymentStatus), method) {
		responses.WriteError(ctx, o.logg, w, pkgerrors.New(pkgerrors.CodeDependency, "failed to update payment"))
		return
	}

	order, ok := o.svc.GetOrder(ctx, id)
	if !ok {
		responses.WriteError(ctx, o.logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "order not found"))
		return
	}

	responses.WriteSuccess(w, order)
}
