package menu

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/tacoeljunior/ordering-backend/pkg/db/models"
	pkgerrors "github.com/tacoeljunior/ordering-backend/pkg/errors"
	"github.com/tacoeljunior/ordering-backend/pkg/logger"
	"github.com/tacoeljunior/ordering-backend/pkg/metrics"
	"github.com/tacoeljunior/ordering-backend/pkg/redis"
)

// DefaultCacheTTL is the freshness window for the cached menu payload.
const DefaultCacheTTL = 60 * time.Second

// Cache is the key-value surface backing the read-through menu cache,
// satisfied by pkg/redis.Client.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	MenuCacheKey() string
	MenuCacheStampKey() string
}

// Item is the wire shape consumed by the mobile client. Prices travel as
// printable strings and the boolean flags as "Yes"/"No" sentinels; both are
// legacy truthy-string conventions the client still checks against.
type Item struct {
	ID             string  `json:"id"`
	ItemName       string  `json:"ItemName"`
	Category       string  `json:"Category"`
	Price          string  `json:"Price"`
	Description    string  `json:"Description"`
	ImageURL       string  `json:"ImageURL"`
	Available      string  `json:"Available"`
	MeatChoice     string  `json:"MeatChoice"`
	HasSizeOptions string  `json:"HasSizeOptions"`
	SmallPrice     *string `json:"SmallPrice"`
	MediumPrice    *string `json:"MediumPrice"`
	LargePrice     *string `json:"LargePrice"`
	UpdatedAt      string  `json:"updated_at,omitempty"`
}

// Service serves the menu through a short-lived read-through cache.
type Service interface {
	FetchMenu(ctx context.Context) ([]Item, error)
	Invalidate(ctx context.Context) error
}

type service struct {
	repo    Repository
	cache   Cache
	logg    *logger.Logger
	metrics *metrics.AppMetrics
	ttl     time.Duration
	now     func() time.Time
}

// NewService builds a menu service with the provided cache TTL; ttl <= 0
// falls back to DefaultCacheTTL.
func NewService(repo Repository, cache Cache, logg *logger.Logger, appMetrics *metrics.AppMetrics, ttl time.Duration) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("menu repository required")
	}
	if cache == nil {
		return nil, fmt.Errorf("menu cache required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &service{
		repo:    repo,
		cache:   cache,
		logg:    logg,
		metrics: appMetrics,
		ttl:     ttl,
		now:     time.Now,
	}, nil
}

// FetchMenu returns the cached payload while it is inside the freshness
// window, otherwise queries the catalog and refreshes the cache. Remote
// failures propagate; the freshness window alone governs cache use, never
// error recovery.
func (s *service) FetchMenu(ctx context.Context) ([]Item, error) {
	if cached := s.cachedMenu(ctx); cached != nil {
		s.metrics.IncMenuCacheHit()
		return cached, nil
	}
	s.metrics.IncMenuCacheMiss()

	rows, err := s.repo.ListAvailable(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to fetch menu")
	}
	s.metrics.IncMenuRemoteFetch()

	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, toWireItem(row))
	}

	s.cacheMenu(ctx, items)
	return items, nil
}

// Invalidate drops both cache keys unconditionally; the next FetchMenu is
// forced to hit the catalog.
func (s *service) Invalidate(ctx context.Context) error {
	if err := s.cache.Del(ctx, s.cache.MenuCacheKey(), s.cache.MenuCacheStampKey()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to clear menu cache")
	}
	return nil
}

// cachedMenu returns nil on any miss: absent keys, an expired stamp, or a
// payload that fails to parse. Corrupt cache entries are a miss, not an
// error.
func (s *service) cachedMenu(ctx context.Context) []Item {
	stampRaw, err := s.cache.Get(ctx, s.cache.MenuCacheStampKey())
	if err != nil {
		if !redis.IsNil(err) {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "menu.cache.stamp_read_failed")
		}
		return nil
	}
	stampMillis, err := strconv.ParseInt(stampRaw, 10, 64)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "menu.cache.stamp_corrupt")
		return nil
	}
	if s.now().Sub(time.UnixMilli(stampMillis)) > s.ttl {
		return nil
	}

	payload, err := s.cache.Get(ctx, s.cache.MenuCacheKey())
	if err != nil {
		if !redis.IsNil(err) {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "menu.cache.payload_read_failed")
		}
		return nil
	}
	var items []Item
	if err := json.Unmarshal([]byte(payload), &items); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "menu.cache.payload_corrupt")
		return nil
	}
	return items
}

func (s *service) cacheMenu(ctx context.Context, items []Item) {
	payload, err := json.Marshal(items)
	if err != nil {
		s.logg.Error(ctx, "menu.cache.marshal_failed", err)
		return
	}
	if err := s.cache.Set(ctx, s.cache.MenuCacheKey(), string(payload), 0); err != nil {
		s.logg.Error(ctx, "menu.cache.write_failed", err)
		return
	}
	stamp := strconv.FormatInt(s.now().UnixMilli(), 10)
	if err := s.cache.Set(ctx, s.cache.MenuCacheStampKey(), stamp, 0); err != nil {
		s.logg.Error(ctx, "menu.cache.stamp_write_failed", err)
	}
}

func toWireItem(row models.MenuItem) Item {
	item := Item{
		ID:             row.ID.String(),
		ItemName:       row.ItemName,
		Category:       row.Category,
		Price:          row.Price.String(),
		Available:      yesNo(row.Available),
		MeatChoice:     yesNo(row.MeatChoice),
		HasSizeOptions: yesNo(row.HasSizeOptions),
	}
	if row.Description != nil {
		item.Description = *row.Description
	}
	if row.ImageURL != nil {
		item.ImageURL = *row.ImageURL
	}
	if row.SmallPrice != nil {
		price := row.SmallPrice.String()
		item.SmallPrice = &price
	}
	if row.MediumPrice != nil {
		price := row.MediumPrice.String()
		item.MediumPrice = &price
	}
	if row.LargePrice != nil {
		price := row.LargePrice.String()
		item.LargePrice = &price
	}
	if !row.UpdatedAt.IsZero() {
		item.UpdatedAt = row.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return item
}

func yesNo(value bool) string {
	if value {
		return "Yes"
	}
	return "No"
}
