package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/SilverAnton/UserIteractionProj/internal/services/auth"
	matchessvc "github.com/SilverAnton/UserIteractionProj/internal/services/matches"
	"github.com/SilverAnton/UserIteractionProj/internal/transport/http/dto"
	httperrors "github.com/SilverAnton/UserIteractionProj/internal/transport/http/errors"
)

type MatchHandler struct {
	service *matchessvc.Service
}

func NewMatchHandler(service *matchessvc.Service) *MatchHandler {
	return &MatchHandler{service: service}
}

func (h *MatchHandler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MATCH_SERVICE_UNAVAILABLE", "match service is unavailable")
		return
	}

	var req dto.MatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}
	if req.TargetUserID <= 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "target_user_id is required")
		return
	}

	outcome, err := h.service.SubmitLike(r.Context(), identity.UserID, req.TargetUserID)
	if err != nil {
		switch {
		case errors.Is(err, matchessvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid match request")
		case errors.Is(err, matchessvc.ErrTargetNotFound):
			writeNotFound(w, "USER_NOT_FOUND", "target user not found")
		case errors.Is(err, matchessvc.ErrDailyLimit):
			httperrors.Write(w, http.StatusTooManyRequests, httperrors.APIError{
				Code:    "LIKE_LIMIT_REACHED",
				Message: "daily likes limit reached",
			})
		default:
			if tf, ok := matchessvc.IsTooFast(err); ok {
				httperrors.Write(w, http.StatusTooManyRequests, httperrors.RateLimitError{
					Code:          "TOO_FAST",
					Message:       "too many like actions, slow down",
					RetryAfterSec: tf.RetryAfter(),
				})
				return
			}
			writeInternal(w, "INTERNAL_ERROR", "failed to process match")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.MatchResponse{Outcome: string(outcome)})
}
