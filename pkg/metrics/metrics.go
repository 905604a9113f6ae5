package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// AppMetrics records counters for the ordering hot paths. All methods are
// safe on a nil receiver so call sites never have to guard.
type AppMetrics struct {
	menuCacheHits     prometheus.Counter
	menuCacheMisses   prometheus.Counter
	menuRemoteFetches prometheus.Counter
	ordersCreated     prometheus.Counter
	orderNumFallbacks prometheus.Counter
}

// New registers the application metrics on the provided registerer.
func New(reg prometheus.Registerer) *AppMetrics {
	if reg == nil {
		return &AppMetrics{}
	}
	menuCacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "menu_cache_hits_total",
		Help: "Menu fetches served from the cache.",
	})
	menuCacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "menu_cache_misses_total",
		Help: "Menu fetches that missed the cache.",
	})
	menuRemoteFetches := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "menu_remote_fetches_total",
		Help: "Menu queries answered by the catalog database.",
	})
	ordersCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders successfully submitted.",
	})
	orderNumFallbacks := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "order_number_fallbacks_total",
		Help: "Order numbers generated with the random suffix fallback.",
	})
	reg.MustRegister(menuCacheHits, menuCacheMisses, menuRemoteFetches, ordersCreated, orderNumFallbacks)
	return &AppMetrics{
		menuCacheHits:     menuCacheHits,
		menuCacheMisses:   menuCacheMisses,
		menuRemoteFetches: menuRemoteFetches,
		ordersCreated:     ordersCreated,
		orderNumFallbacks: orderNumFallbacks,
	}
}

// IncMenuCacheHit counts a menu fetch served from cache.
func (m *AppMetrics) IncMenuCacheHit() {
	if m == nil || m.menuCacheHits == nil {
		return
	}
	m.menuCacheHits.Inc()
}

// IncMenuCacheMiss counts a menu fetch that bypassed the cache.
func (m *AppMetrics) IncMenuCacheMiss() {
	if m == nil || m.menuCacheMisses == nil {
		return
	}
	m.menuCacheMisses.Inc()
}

// IncMenuRemoteFetch counts a catalog database query.
func (m *AppMetrics) IncMenuRemoteFetch() {
	if m == nil || m.menuRemoteFetches == nil {
		return
	}
	m.menuRemoteFetches.Inc()
}

// IncOrderCreated counts a submitted order.
func (m *AppMetrics) IncOrderCreated() {
	if m == nil || m.ordersCreated == nil {
		return
	}
	m.ordersCreated.Inc()
}

// IncOrderNumberFallback counts a degraded-mode order number.
func (m *AppMetrics) IncOrderNumberFallback() {
	if m == nil || m.orderNumFallbacks == nil {
		return
	}
	m.orderNumFallbacks.Inc()
}
