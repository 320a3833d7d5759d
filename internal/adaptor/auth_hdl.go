package adaptor

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/korey-h/api-yamdb/internal/dto/request"
	"github.com/korey-h/api-yamdb/internal/dto/response"
	"github.com/korey-h/api-yamdb/internal/usecase"
	"github.com/korey-h/api-yamdb/pkg/utils"
)

type AuthHandler struct {
	service usecase.AuthService
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log.With(zap.String("handler", "auth")),
	}
}

// Signup handles POST /v1/auth/email
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req request.SignupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.Signup(r.Context(), &req); err != nil {
		handleServiceError(h.log, w, err, "signup")
		return
	}

	utils.WriteJSON(w, http.StatusOK, response.DetailResponse{Detail: "email was sent"})
}

// ObtainToken handles POST /v1/token
func (h *AuthHandler) ObtainToken(w http.ResponseWriter, r *http.Request) {
	var req request.TokenRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	token, err := h.service.ObtainToken(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "obtain token")
		return
	}

	utils.WriteJSON(w, http.StatusOK, token)
}
