package wire

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/korey-h/api-yamdb/internal/adaptor"
	"github.com/korey-h/api-yamdb/pkg/middleware"
)

func wireCategory(
	r chi.Router,
	categoryHandler *adaptor.CategoryHandler,
	log *zap.Logger,
) {
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", categoryHandler.ListCategories)

		r.With(middleware.Admin(log)).Post("/", categoryHandler.CreateCategory)
		r.With(middleware.Admin(log)).Delete("/{slug}", categoryHandler.DeleteCategory)
	})
}
