package wire

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/korey-h/api-yamdb/internal/adaptor"
	"github.com/korey-h/api-yamdb/pkg/middleware"
)

func wireGenre(
	r chi.Router,
	genreHandler *adaptor.GenreHandler,
	log *zap.Logger,
) {
	r.Route("/genres", func(r chi.Router) {
		r.Get("/", genreHandler.ListGenres)

		r.With(middleware.Admin(log)).Post("/", genreHandler.CreateGenre)
		r.With(middleware.Admin(log)).Delete("/{slug}", genreHandler.DeleteGenre)
	})
}
