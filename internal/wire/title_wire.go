package wire

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/korey-h/api-yamdb/internal/adaptor"
	"github.com/korey-h/api-yamdb/pkg/middleware"
)

func wireTitle(
	r chi.Router,
	titleHandler *adaptor.TitleHandler,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/titles", titleHandler.GetTitles)
	r.Get("/titles/{title_id}", titleHandler.GetTitleByID)

	// ==================== ADMIN ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.Admin(log))

		r.Post("/titles", titleHandler.CreateTitle)
		r.Patch("/titles/{title_id}", titleHandler.UpdateTitle)
		r.Delete("/titles/{title_id}", titleHandler.DeleteTitle)
	})
}
