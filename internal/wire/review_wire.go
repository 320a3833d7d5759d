package wire

import (
	"github.com/go-chi/chi/v5"

	"github.com/korey-h/api-yamdb/internal/adaptor"
	"github.com/korey-h/api-yamdb/pkg/middleware"
)

func wireReview(
	r chi.Router,
	reviewHandler *adaptor.ReviewHandler,
) {
	const base = "/titles/{title_id}/reviews"

	// ==================== PUBLIC ROUTES ====================
	r.Get(base, reviewHandler.GetTitleReviews)
	r.Get(base+"/{review_id}", reviewHandler.GetReview)

	// ==================== PROTECTED ROUTES (require auth) ====================
	// author/moderator/admin checks happen in the service
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Post(base, reviewHandler.CreateReview)
		r.Patch(base+"/{review_id}", reviewHandler.UpdateReview)
		r.Delete(base+"/{review_id}", reviewHandler.DeleteReview)
	})
}
