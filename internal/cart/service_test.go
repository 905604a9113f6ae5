package cart

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tacoeljunior/ordering-backend/pkg/logger"
	"github.com/tacoeljunior/ordering-backend/pkg/types"
)

type fakeStore struct {
	mu       sync.Mutex
	data     map[string]string
	getDelay time.Duration
	setErr   error
	setCalls int
	delCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]string)}
}

func (f *fakeStore) CartKey(sessionID string) string {
	return "tej:cart:" + sessionID
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	if f.getDelay > 0 {
		time.Sleep(f.getDelay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.data[key]
	if !ok {
		return "", goredis.Nil
	}
	return value, nil
}

func (f *fakeStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setCalls++
	if f.setErr != nil {
		return f.setErr
	}
	f.data[key] = value.(string)
	return nil
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delCalls++
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func (f *fakeStore) stored(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.data[key]
	return value, ok
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
}

func newTestService(t *testing.T, store Store) Service {
	t.Helper()
	svc, err := NewService(store, testLogger())
	require.NoError(t, err)
	return svc
}

func addInput(price string, qty int) AddItemInput {
	return AddItemInput{
		MenuItemID: "menu-1",
		ItemName:   "Taco Plate",
		Meat:       "Carne Asada",
		Price:      decimal.RequireFromString(price),
		Quantity:   qty,
	}
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, decimal.RequireFromString(want).Equal(got), "expected %s got %s", want, got)
}

func TestAddItemAppendsDistinctLines(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, newFakeStore())
	defer svc.Close()

	first, err := svc.AddItem(ctx, "s1", addInput("9.50", 1))
	require.NoError(t, err)
	second, err := svc.AddItem(ctx, "s1", addInput("9.50", 2))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	items, totals, err := svc.Items(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 3, totals.Count)
	requireDecimal(t, "28.50", totals.Subtotal)
	requireDecimal(t, "2.28", totals.Tax)
	requireDecimal(t, "30.78", totals.Total)
}

func TestTotalsHoldAcrossMutations(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, newFakeStore())
	defer svc.Close()

	a, err := svc.AddItem(ctx, "s1", addInput("3.25", 2))
	require.NoError(t, err)
	b, err := svc.AddItem(ctx, "s1", addInput("12.00", 1))
	require.NoError(t, err)

	check := func() {
		items, totals, err := svc.Items(ctx, "s1")
		require.NoError(t, err)
		subtotal := decimal.Zero
		count := 0
		for _, item := range items {
			require.True(t, item.Total.Equal(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))),
				"line total must equal price*quantity")
			require.GreaterOrEqual(t, item.Quantity, 1)
			subtotal = subtotal.Add(item.Total)
			count += item.Quantity
		}
		assert.Equal(t, count, totals.Count)
		require.True(t, totals.Subtotal.Equal(subtotal))
		require.True(t, totals.Tax.Equal(subtotal.Mul(TaxRate).Round(2)))
		require.True(t, totals.Total.Equal(totals.Subtotal.Add(totals.Tax)))
	}

	check()
	require.NoError(t, svc.UpdateQuantity(ctx, "s1", a.ID, 5))
	check()
	require.NoError(t, svc.RemoveItem(ctx, "s1", b.ID))
	check()
	require.NoError(t, svc.RemoveItem(ctx, "s1", a.ID))
	check()
}

func TestUpdateQuantityBelowOneIsNoop(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, newFakeStore())
	defer svc.Close()

	item, err := svc.AddItem(ctx, "s1", addInput("4.75", 3))
	require.NoError(t, err)

	for _, qty := range []int{0, -1} {
		require.NoError(t, svc.UpdateQuantity(ctx, "s1", item.ID, qty))
		items, _, err := svc.Items(ctx, "s1")
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 3, items[0].Quantity)
		requireDecimal(t, "14.25", items[0].Total)
	}
}

func TestRemoveUnknownIDIsNoop(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, newFakeStore())
	defer svc.Close()

	_, err := svc.AddItem(ctx, "s1", addInput("4.75", 1))
	require.NoError(t, err)

	require.NoError(t, svc.RemoveItem(ctx, "s1", "no-such-id"))
	items, totals, err := svc.Items(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, totals.Count)
}

func TestAddItemValidation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, newFakeStore())
	defer svc.Close()

	bad := addInput("4.75", 0)
	_, err := svc.AddItem(ctx, "s1", bad)
	require.Error(t, err)

	bad = addInput("-1.00", 1)
	_, err = svc.AddItem(ctx, "s1", bad)
	require.Error(t, err)

	bad = addInput("4.75", 1)
	bad.MenuItemID = ""
	_, err = svc.AddItem(ctx, "s1", bad)
	require.Error(t, err)
}

func TestPersistReloadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()

	svc := newTestService(t, store)
	var want []types.LineItem
	for _, in := range []AddItemInput{addInput("9.50", 1), addInput("3.25", 4), addInput("12.00", 2)} {
		item, err := svc.AddItem(ctx, "s1", in)
		require.NoError(t, err)
		want = append(want, item)
	}
	svc.Close()

	reloaded := newTestService(t, store)
	defer reloaded.Close()
	items, totals, err := reloaded.Items(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, items, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, items[i].ID)
		assert.Equal(t, want[i].Quantity, items[i].Quantity)
		require.True(t, want[i].Price.Equal(items[i].Price))
		require.True(t, want[i].Total.Equal(items[i].Total))
	}
	assert.Equal(t, 7, totals.Count)
}

func TestClearDeletesStoredEntry(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()

	svc := newTestService(t, store)
	_, err := svc.AddItem(ctx, "s1", addInput("9.50", 1))
	require.NoError(t, err)
	require.NoError(t, svc.Clear(ctx, "s1"))
	svc.Close()

	_, ok := store.stored(store.CartKey("s1"))
	assert.False(t, ok, "clear must remove the key, not write an empty value")

	reloaded := newTestService(t, store)
	defer reloaded.Close()
	items, totals, err := reloaded.Items(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, 0, totals.Count)
	require.True(t, totals.Subtotal.IsZero())
}

func TestConcurrentFirstAccessKeepsEveryAdd(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.getDelay = 50 * time.Millisecond

	stored := newLineItem(addInput("3.50", 1))
	payload, err := json.Marshal([]types.LineItem{stored})
	require.NoError(t, err)
	store.data[store.CartKey("s1")] = string(payload)

	svc := newTestService(t, store)
	defer svc.Close()

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AddItem(ctx, "s1", addInput("9.50", 1))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	items, totals, err := svc.Items(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, items, 3, "slow hydration must not drop concurrent adds")
	assert.Equal(t, 3, totals.Count)

	ids := make(map[string]bool, len(items))
	for _, item := range items {
		ids[item.ID] = true
	}
	assert.True(t, ids[stored.ID], "hydrated item must survive concurrent adds")
}

func TestHydrateCorruptPayloadStartsEmpty(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.data[store.CartKey("s1")] = "{not json"

	svc := newTestService(t, store)
	defer svc.Close()

	items, totals, err := svc.Items(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, 0, totals.Count)
}

func TestWriteFailureDoesNotSurface(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.setErr = assert.AnError

	svc := newTestService(t, store)
	_, err := svc.AddItem(ctx, "s1", addInput("9.50", 1))
	require.NoError(t, err)

	items, _, err := svc.Items(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, items, 1, "in-memory state stays authoritative")
	svc.Close()
}

func TestMutationsCoalesceToLastWrite(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()

	svc := newTestService(t, store)
	item, err := svc.AddItem(ctx, "s1", addInput("2.50", 1))
	require.NoError(t, err)
	for qty := 2; qty <= 6; qty++ {
		require.NoError(t, svc.UpdateQuantity(ctx, "s1", item.ID, qty))
	}
	svc.Close()

	raw, ok := store.stored(store.CartKey("s1"))
	require.True(t, ok)
	var persisted []types.LineItem
	require.NoError(t, json.Unmarshal([]byte(raw), &persisted))
	require.Len(t, persisted, 1)
	assert.Equal(t, 6, persisted[0].Quantity)
	requireDecimal(t, "15", persisted[0].Total)
}
