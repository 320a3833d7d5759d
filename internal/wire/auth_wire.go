package wire

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/korey-h/api-yamdb/internal/adaptor"
	"github.com/korey-h/api-yamdb/pkg/middleware"
	"github.com/korey-h/api-yamdb/pkg/utils"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	limiter := middleware.NewIPRateLimiter(config.RateLimit, log)

	// ==================== PUBLIC ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(limiter.Middleware)

		r.Post("/auth/email", authHandler.Signup)
		r.Post("/token", authHandler.ObtainToken)
	})
}
