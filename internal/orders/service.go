package orders

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tacoeljunior/ordering-backend/pkg/db/models"
	"github.com/tacoeljunior/ordering-backend/pkg/enums"
	pkgerrors "github.com/tacoeljunior/ordering-backend/pkg/errors"
	"github.com/tacoeljunior/ordering-backend/pkg/logger"
	"github.com/tacoeljunior/ordering-backend/pkg/metrics"
	"github.com/tacoeljunior/ordering-backend/pkg/types"
)

// CreateOrderInput is a checkout draft. Required-field validation (customer
// name and phone) happens at the API boundary before this service is called.
type CreateOrderInput struct {
	CustomerName        string
	CustomerPhone       string
	CustomerEmail       *string
	PickupTime          *string
	SpecialInstructions *string
	Items               types.LineItems
	Subtotal            decimal.Decimal
	Tax                 decimal.Decimal
	Total               decimal.Decimal
	PaymentMethod       enums.PaymentMethod
	PaymentStatus       enums.PaymentStatus
}

// Service submits and reads back orders.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, bool)
	UpdateOrderPayment(ctx context.Context, id uuid.UUID, status enums.PaymentStatus, method *enums.PaymentMethod) bool
}

type service struct {
	repo    Repository
	logg    *logger.Logger
	metrics *metrics.AppMetrics
	now     func() time.Time
	randN   func(n int) int
}

// NewService builds an order service backed by the provided repository.
func NewService(repo Repository, logg *logger.Logger, appMetrics *metrics.AppMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:    repo,
		logg:    logg,
		metrics: appMetrics,
		now:     time.Now,
		randN:   rand.Intn,
	}, nil
}

// CreateOrder persists the draft with a fresh order number and the cart
// snapshot embedded verbatim. Later cart mutations never touch the stored
// record.
func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	orderNumber := s.nextOrderNumber(ctx)

	method := input.PaymentMethod
	if method == "" {
		method = enums.PaymentMethodPending
	}
	status := input.PaymentStatus
	if status == "" {
		status = enums.PaymentStatusPending
	}

	order := &models.Order{
		OrderNumber:         orderNumber,
		CustomerName:        input.CustomerName,
		CustomerPhone:       input.CustomerPhone,
		CustomerEmail:       input.CustomerEmail,
		PickupTime:          input.PickupTime,
		SpecialInstructions: input.SpecialInstructions,
		Items:               append(types.LineItems(nil), input.Items...),
		Subtotal:            input.Subtotal,
		Tax:                 input.Tax,
		Total:               input.Total,
		PaymentMethod:       method,
		PaymentStatus:       status,
		Status:              enums.OrderStatusPending,
	}

	stored, err := s.repo.Create(ctx, order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to create order")
	}

	s.metrics.IncOrderCreated()
	s.logg.Info(s.logg.WithOrderNumber(ctx, stored.OrderNumber), "order.created")
	return stored, nil
}

// nextOrderNumber yields ORD-YYYYMMDD-NNNN where NNNN is the same-day order
// count plus one. A failed count degrades to a random 4-digit suffix instead
// of failing the submission; the resulting number is not guaranteed unique.
func (s *service) nextOrderNumber(ctx context.Context) string {
	now := s.now()
	dateStr := now.Format("20060102")

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())

	count, err := s.repo.CountCreatedBetween(ctx, dayStart, dayEnd)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "order.number.count_failed")
		s.metrics.IncOrderNumberFallback()
		return fmt.Sprintf("ORD-%s-%04d", dateStr, s.randN(10000))
	}
	return fmt.Sprintf("ORD-%s-%04d", dateStr, count+1)
}

// GetOrder looks up an order by id. Read failures of any kind surface as
// "not found" rather than distinct error kinds.
func (s *service) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, bool) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logg.Error(ctx, "order.fetch_failed", err)
		}
		return nil, false
	}
	return order, true
}

// UpdateOrderPayment patches the payment fields only, reporting success as a
// flag rather than an error.
func (s *service) UpdateOrderPayment(ctx context.Context, id uuid.UUID, status enums.PaymentStatus, method *enums.PaymentMethod) bool {
	if err := s.repo.UpdatePayment(ctx, id, status, method); err != nil {
		s.logg.Error(ctx, "order.payment_update_failed", err)
		return false
	}
	return true
}
