package controllers

import (
	"net/http"

	"github.com/tacoeljunior/ordering-backend/api/responses"
	"github.com/tacoeljunior/ordering-backend/internal/menu"
	"github.com/tacoeljunior/ordering-backend/pkg/logger"
)

type MenuController struct {
	svc  menu.Service
	logg *logger.Logger
}

func NewMenuController(svc menu.Service, logg *logger.Logger) *MenuController {
	return &MenuController{svc: svc, logg: logg}
}

// List returns the available menu, served from cache when fresh.
func (m *MenuController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	items, err := m.svc.FetchMenu(ctx)
	if err != nil {
		responses.WriteError(ctx, m.logg, w, err)
		return
	}

	responses.WriteSuccess(w, map[string]any{"items": items})
}

func (m *MenuController) Meats(w http.ResponseWriter, r *http.Request) {
	responses.WriteSuccess(w, map[string]any{"meats": menu.MeatOptions})
}

// Invalidate drops the cached menu so the next fetch hits the database.
func (m *MenuController) Invalidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := m.svc.Invalidate(ctx); err != nil {
		responses.WriteError(ctx, m.logg, w, err)
		return
	}

	responses.WriteSuccess(w, map[string]string{"status": "invalidated"})
}
