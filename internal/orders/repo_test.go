package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tacoeljunior/ordering-backend/pkg/db/models"
	"github.com/tacoeljunior/ordering-backend/pkg/enums"
	"github.com/tacoeljunior/ordering-backend/pkg/types"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  order_number TEXT NOT NULL,
  customer_name TEXT NOT NULL,
  customer_phone TEXT NOT NULL,
  customer_email TEXT,
  pickup_time TEXT,
  special_instructions TEXT,
  items TEXT,
  subtotal TEXT NOT NULL,
  tax TEXT NOT NULL,
  total TEXT NOT NULL,
  payment_method TEXT NOT NULL DEFAULT 'pending',
  payment_status TEXT NOT NULL DEFAULT 'pending',
  status TEXT NOT NULL DEFAULT 'pending',
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(orders).Error)
	return db
}

func newOrder(number string, createdAt time.Time) *models.Order {
	return &models.Order{
		ID:            uuid.New(),
		OrderNumber:   number,
		CustomerName:  "Maria Lopez",
		CustomerPhone: "555-0100",
		Items: types.LineItems{
			{
				ID:         "1737550000000-abc123",
				MenuItemID: "menu-1",
				ItemName:   "Taco Plate",
				Price:      decimal.RequireFromString("9.50"),
				Quantity:   2,
				Total:      decimal.RequireFromString("19.00"),
			},
		},
		Subtotal:      decimal.RequireFromString("19.00"),
		Tax:           decimal.RequireFromString("1.52"),
		Total:         decimal.RequireFromString("20.52"),
		PaymentMethod: enums.PaymentMethodCash,
		PaymentStatus: enums.PaymentStatusPending,
		Status:        enums.OrderStatusPending,
		CreatedAt:     createdAt,
	}
}

func TestCreateAndFindByID(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupOrdersTestDB(t))

	created, err := repo.Create(ctx, newOrder("ORD-20260115-0001", time.Now()))
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "ORD-20260115-0001", found.OrderNumber)
	assert.Equal(t, "Maria Lopez", found.CustomerName)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "Taco Plate", found.Items[0].ItemName)
	assert.Equal(t, 2, found.Items[0].Quantity)
	require.True(t, found.Total.Equal(decimal.RequireFromString("20.52")))
}

func TestFindByIDMissing(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupOrdersTestDB(t))

	_, err := repo.FindByID(ctx, uuid.New())
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCountCreatedBetween(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupOrdersTestDB(t))

	day := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	_, err := repo.Create(ctx, newOrder("ORD-20260115-0001", day.Add(9*time.Hour)))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newOrder("ORD-20260115-0002", day.Add(12*time.Hour)))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newOrder("ORD-20260114-0005", day.Add(-2*time.Hour)))
	require.NoError(t, err)

	count, err := repo.CountCreatedBetween(ctx, day, day.Add(24*time.Hour-time.Second))
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestUpdatePayment(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupOrdersTestDB(t))

	created, err := repo.Create(ctx, newOrder("ORD-20260115-0001", time.Now()))
	require.NoError(t, err)

	method := enums.PaymentMethodCard
	require.NoError(t, repo.UpdatePayment(ctx, created.ID, enums.PaymentStatusCompleted, &method))

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusCompleted, found.PaymentStatus)
	assert.Equal(t, enums.PaymentMethodCard, found.PaymentMethod)
	assert.Equal(t, enums.OrderStatusPending, found.Status, "lifecycle status untouched")
	assert.Equal(t, "Maria Lopez", found.CustomerName, "non-payment fields untouched")
}

func TestUpdatePaymentWithoutMethod(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupOrdersTestDB(t))

	created, err := repo.Create(ctx, newOrder("ORD-20260115-0001", time.Now()))
	require.NoError(t, err)

	require.NoError(t, repo.UpdatePayment(ctx, created.ID, enums.PaymentStatusFailed, nil))

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusFailed, found.PaymentStatus)
	assert.Equal(t, enums.PaymentMethodCash, found.PaymentMethod, "method untouched when omitted")
}
