package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/korey-h/api-yamdb/internal/dto/request"
	"github.com/korey-h/api-yamdb/internal/usecase"
	"github.com/korey-h/api-yamdb/pkg/utils"
)

const maxBodyBytes = 1 << 20

// handleServiceError maps service errors onto HTTP responses.
func handleServiceError(log *zap.Logger, w http.ResponseWriter, err error, operation string) {
	var validationErr *usecase.ValidationError

	switch {
	case errors.As(err, &validationErr):
		log.Warn(operation+" failed - validation", zap.Any("errors", validationErr.Fields))
		utils.ResponseBadRequest(w, "Validation failed", validationErr.Fields)

	case errors.Is(err, usecase.ErrAlreadyReviewed):
		log.Warn(operation+" failed - already reviewed", zap.Error(err))
		utils.ResponseBadRequest(w, "Validation failed", map[string]string{
			"non_field_errors": "You have already reviewed this title",
		})

	case errors.Is(err, usecase.ErrConfirmationMismatch):
		log.Warn(operation+" failed - confirmation mismatch")
		utils.ResponseBadRequest(w, "Confirmation code is wrong or expired.", nil)

	case errors.Is(err, usecase.ErrAlreadyExists):
		log.Warn(operation+" failed - conflict", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, "Not found")

	case errors.Is(err, usecase.ErrForbidden):
		log.Warn(operation+" failed - forbidden", zap.Error(err))
		utils.ResponseForbidden(w, "You do not have permission to perform this action")

	case errors.Is(err, usecase.ErrTooManyRequests):
		log.Warn(operation+" failed - throttled", zap.Error(err))
		utils.ResponseTooManyRequests(w, "A confirmation code was sent recently. Try again later.")

	case errors.Is(err, usecase.ErrDelivery):
		log.Error(operation+" failed - delivery", zap.Error(err))
		utils.ResponseBadGateway(w, "Failed to send email")

	default:
		log.Error(operation+" failed - internal error", zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

// decodeJSON reads a JSON body into dst, answering 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(dst)
	if err != nil {
		if errors.Is(err, io.EOF) {
			utils.ResponseBadRequest(w, "Request body is empty", nil)
			return false
		}
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}
	return true
}

// pathID parses a numeric URL parameter; malformed ids are answered with 404.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, ok := utils.ParseID(chi.URLParam(r, name))
	if !ok {
		utils.ResponseNotFound(w, "Not found")
		return 0, false
	}
	return id, true
}

func parsePagination(r *http.Request) request.PaginatedRequest {
	query := r.URL.Query()
	return request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}
}

// currentActor returns the authenticated caller, answering 401 when absent.
func currentActor(w http.ResponseWriter, r *http.Request) (usecase.Actor, bool) {
	p, ok := utils.GetPrincipalFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return usecase.Actor{}, false
	}
	return usecase.ActorFromPrincipal(p), true
}
