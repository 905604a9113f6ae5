package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/tacoeljunior/ordering-backend/api/middleware"
	"github.com/tacoeljunior/ordering-backend/internal/cart"
	"github.com/tacoeljunior/ordering-backend/pkg/logger"
	"github.com/tacoeljunior/ordering-backend/pkg/types"
)

type memStore struct {
	values map[string]string
}

func newMemStore() *memStore {
	return &memStore{values: map[string]string{}}
}

func (m *memStore) Get(ctx context.Context, key string) (string, error) {
	v, ok := m.values[key]
	if !ok {
		return "", goredis.Nil
	}
	return v, nil
}

func (m *memStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.values[key] = value.(string)
	return nil
}

func (m *memStore) Del(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

func (m *memStore) CartKey(sessionID string) string {
	return "tej:cart:" + sessionID
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
}

func newTestCartController(t *testing.T) (*CartController, cart.Service) {
	t.Helper()
	svc, err := cart.NewService(newMemStore(), testLogger())
	if err != nil {
		t.Fatalf("cart.NewService returned error: %v", err)
	}
	t.Cleanup(svc.Close)
	return NewCartController(svc, testLogger()), svc
}

func sessionRequest(method, target, body, sessionID string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	return req.WithContext(middleware.WithCartSessionID(req.Context(), sessionID))
}

func TestCartAddItemAndGet(t *testing.T) {
	ctrl, _ := newTestCartController(t)

	body := `{"menuItemId":"menu-1","itemName":"Quesadilla","meat":"birria","price":"9.50","quantity":2}`
	resp := httptest.NewRecorder()
	ctrl.AddItem(resp, sessionRequest(http.MethodPost, "/api/v1/cart/items", body, "sess-1"))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}

	var added struct {
		Data types.LineItem `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&added); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if added.Data.ID == "" {
		t.Fatal("expected generated line item id")
	}
	if !added.Data.Total.Equal(decimal.RequireFromString("19")) {
		t.Fatalf("unexpected line total: %s", added.Data.Total)
	}

	resp = httptest.NewRecorder()
	ctrl.Get(resp, sessionRequest(http.MethodGet, "/api/v1/cart", "", "sess-1"))

	var envelope struct {
		Data cartResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(envelope.Data.Items))
	}
	if envelope.Data.Totals.Count != 2 {
		t.Fatalf("expected count 2, got %d", envelope.Data.Totals.Count)
	}
	if !envelope.Data.Totals.Tax.Equal(decimal.RequireFromString("1.52")) {
		t.Fatalf("unexpected tax: %s", envelope.Data.Totals.Tax)
	}
}

func TestCartAddItemRejectsBadBody(t *testing.T) {
	ctrl, _ := newTestCartController(t)

	resp := httptest.NewRecorder()
	ctrl.AddItem(resp, sessionRequest(http.MethodPost, "/api/v1/cart/items", `{"itemName":"Taco"}`, "sess-1"))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestCartClearEmptiesSession(t *testing.T) {
	ctrl, svc := newTestCartController(t)

	_, err := svc.AddItem(context.Background(), "sess-2", cart.AddItemInput{
		MenuItemID: "menu-1",
		ItemName:   "Taco",
		Price:      decimal.RequireFromString("3.50"),
		Quantity:   3,
	})
	if err != nil {
		t.Fatalf("AddItem returned error: %v", err)
	}

	resp := httptest.NewRecorder()
	ctrl.Clear(resp, sessionRequest(http.MethodDelete, "/api/v1/cart", "", "sess-2"))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	items, totals, err := svc.Items(context.Background(), "sess-2")
	if err != nil {
		t.Fatalf("Items returned error: %v", err)
	}
	if len(items) != 0 || totals.Count != 0 {
		t.Fatalf("expected empty cart, got %d items", len(items))
	}
}
