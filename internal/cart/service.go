package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/tacoeljunior/ordering-backend/pkg/errors"
	"github.com/tacoeljunior/ordering-backend/pkg/logger"
	"github.com/tacoeljunior/ordering-backend/pkg/redis"
	"github.com/tacoeljunior/ordering-backend/pkg/types"
)

// Store is the key-value persistence surface, satisfied by pkg/redis.Client.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(sessionID string) string
}

// Service manages one cart aggregate per client session. The in-memory state
// is authoritative; the store is a best-effort durability shadow written by a
// background writer per session.
type Service interface {
	Items(ctx context.Context, sessionID string) ([]types.LineItem, Totals, error)
	AddItem(ctx context.Context, sessionID string, input AddItemInput) (types.LineItem, error)
	RemoveItem(ctx context.Context, sessionID, itemID string) error
	UpdateQuantity(ctx context.Context, sessionID, itemID string, quantity int) error
	Clear(ctx context.Context, sessionID string) error
	Close()
}

type persistOp struct {
	payload string
	del     bool
}

// session holds one aggregate. Mutations are serialized by mu; the writes
// channel carries at most one pending persistence op, newer ops replacing
// older ones (last write wins).
type session struct {
	mu     sync.Mutex
	items  []types.LineItem
	writes chan persistOp
	closed bool
}

type service struct {
	store Store
	logg  *logger.Logger

	mu       sync.Mutex
	sessions map[string]*session
	closing  bool
	wg       sync.WaitGroup
}

// NewService builds a cart service persisting to the provided store.
func NewService(store Store, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		store:    store,
		logg:     logg,
		sessions: make(map[string]*session),
	}, nil
}

// session returns the aggregate for the given id, hydrating it from the store
// on first access. Hydration failures never propagate: a missing or corrupt
// entry yields an empty cart. No persistence write is enqueued until
// hydration has completed, so a transient empty boot state cannot clobber
// stored data.
func (s *service) session(ctx context.Context, sessionID string) (*session, error) {
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart session id required")
	}

	s.mu.Lock()
	if sess, ok := s.sessions[sessionID]; ok {
		s.mu.Unlock()
		return sess, nil
	}
	if s.closing {
		s.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart service shutting down")
	}
	// The new session is published locked so concurrent requests block until
	// hydration finishes instead of racing the assignment below.
	sess := &session{writes: make(chan persistOp, 1)}
	sess.mu.Lock()
	s.sessions[sessionID] = sess
	s.wg.Add(1)
	s.mu.Unlock()

	sess.items = s.hydrate(ctx, sessionID)
	sess.mu.Unlock()
	go s.runWriter(sessionID, sess)
	return sess, nil
}

func (s *service) hydrate(ctx context.Context, sessionID string) []types.LineItem {
	raw, err := s.store.Get(ctx, s.store.CartKey(sessionID))
	if err != nil {
		if !redis.IsNil(err) {
			s.logg.Error(s.logg.WithCartSession(ctx, sessionID), "cart.hydrate.read_failed", err)
		}
		return nil
	}
	var items []types.LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logg.Error(s.logg.WithCartSession(ctx, sessionID), "cart.hydrate.parse_failed", err)
		return nil
	}
	return items
}

func (s *service) runWriter(sessionID string, sess *session) {
	defer s.wg.Done()
	key := s.store.CartKey(sessionID)
	for op := range sess.writes {
		ctx := s.logg.WithCartSession(context.Background(), sessionID)
		var err error
		if op.del {
			err = s.store.Del(ctx, key)
		} else {
			err = s.store.Set(ctx, key, op.payload, 0)
		}
		if err != nil {
			// Durability is best effort; in-memory state stays authoritative.
			s.logg.Error(ctx, "cart.persist.write_failed", err)
		}
	}
}

// enqueue schedules the op, replacing any pending one. Called with sess.mu
// held. Ops issued during shutdown are dropped; an in-flight write racing
// Close is a known gap.
func (sess *session) enqueue(op persistOp) {
	if sess.closed {
		return
	}
	for {
		select {
		case sess.writes <- op:
			return
		default:
		}
		select {
		case <-sess.writes:
		default:
		}
	}
}

func (sess *session) persist(ctx context.Context, logg *logger.Logger, sessionID string) {
	payload, err := json.Marshal(sess.items)
	if err != nil {
		logg.Error(logg.WithCartSession(ctx, sessionID), "cart.persist.marshal_failed", err)
		return
	}
	sess.enqueue(persistOp{payload: string(payload)})
}

func (s *service) Items(ctx context.Context, sessionID string) ([]types.LineItem, Totals, error) {
	sess, err := s.session(ctx, sessionID)
	if err != nil {
		return nil, Totals{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	items := append([]types.LineItem(nil), sess.items...)
	return items, computeTotals(items), nil
}

// AddItem appends a fresh line item; identical configurations are never
// merged, each add is its own line.
func (s *service) AddItem(ctx context.Context, sessionID string, input AddItemInput) (types.LineItem, error) {
	if err := input.validate(); err != nil {
		return types.LineItem{}, err
	}
	sess, err := s.session(ctx, sessionID)
	if err != nil {
		return types.LineItem{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	item := newLineItem(input)
	sess.items = append(sess.items, item)
	sess.persist(ctx, s.logg, sessionID)
	return item, nil
}

// RemoveItem drops the line item with the given id. Unknown ids are a no-op.
func (s *service) RemoveItem(ctx context.Context, sessionID, itemID string) error {
	sess, err := s.session(ctx, sessionID)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	for i, item := range sess.items {
		if item.ID == itemID {
			sess.items = append(sess.items[:i], sess.items[i+1:]...)
			sess.persist(ctx, s.logg, sessionID)
			return nil
		}
	}
	return nil
}

// UpdateQuantity replaces the item's quantity and recomputes its total.
// Quantities below 1 are rejected silently, leaving the prior state intact.
func (s *service) UpdateQuantity(ctx context.Context, sessionID, itemID string, quantity int) error {
	sess, err := s.session(ctx, sessionID)
	if err != nil {
		return err
	}
	if quantity < 1 {
		return nil
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	for i := range sess.items {
		if sess.items[i].ID == itemID {
			sess.items[i].Quantity = quantity
			sess.items[i].Total = sess.items[i].Price.Mul(decimal.NewFromInt(int64(quantity)))
			sess.persist(ctx, s.logg, sessionID)
			return nil
		}
	}
	return nil
}

// Clear empties the cart and deletes the stored entry rather than writing an
// empty value.
func (s *service) Clear(ctx context.Context, sessionID string) error {
	sess, err := s.session(ctx, sessionID)
	if err != nil {
		return err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.items = nil
	sess.enqueue(persistOp{del: true})
	return nil
}

// Close stops all session writers and waits for pending writes to flush.
func (s *service) Close() {
	s.mu.Lock()
	if s.closing {
		s.mu.Unlock()
		return
	}
	s.closing = true
	sessions := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.mu.Lock()
		if !sess.closed {
			sess.closed = true
			close(sess.writes)
		}
		sess.mu.Unlock()
	}
	s.wg.Wait()
}
