package controllers

import (
	"net/http"

	"github.com/tacoeljunior/ordering-backend/api/responses"
	"github.com/tacoeljunior/ordering-backend/pkg/db"
	pkgerrors "github.com/tacoeljunior/ordering-backend/pkg/errors"
	"github.com/tacoeljunior/ordering-backend/pkg/logger"
	"github.com/tacoeljunior/ordering-backend/pkg/redis"
)

type HealthController struct {
	db    *db.Client
	cache *redis.Client
	logg  *logger.Logger
}

func NewHealthController(dbClient *db.Client, cache *redis.Client, logg *logger.Logger) *HealthController {
	return &HealthController{db: dbClient, cache: cache, logg: logg}
}

func (h *HealthController) Live(w http.ResponseWriter, r *http.Request) {
	responses.WriteSuccess(w, map[string]string{"status": "ok"})
}

func (h *HealthController) Ready(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			responses.WriteError(ctx, h.logg, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unreachable"))
			return
		}
	}

	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			responses.WriteError(ctx, h.logg, w,
				pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unreachable"))
			return
		}
	}

	responses.WriteSuccess(w, map[string]string{"status": "ready"})
}
