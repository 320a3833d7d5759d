package wire

import (
	"github.com/go-chi/chi/v5"

	"github.com/korey-h/api-yamdb/internal/adaptor"
	"github.com/korey-h/api-yamdb/pkg/middleware"
)

func wireComment(
	r chi.Router,
	commentHandler *adaptor.CommentHandler,
) {
	const base = "/titles/{title_id}/reviews/{review_id}/comments"

	r.Get(base, commentHandler.GetReviewComments)
	r.Get(base+"/{comment_id}", commentHandler.GetComment)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Post(base, commentHandler.CreateComment)
		r.Patch(base+"/{comment_id}", commentHandler.UpdateComment)
		r.Delete(base+"/{comment_id}", commentHandler.DeleteComment)
	})
}
