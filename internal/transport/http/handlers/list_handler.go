package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	authsvc "github.com/SilverAnton/UserIteractionProj/internal/services/auth"
	listingsvc "github.com/SilverAnton/UserIteractionProj/internal/services/listing"
)

type ListHandler struct {
	service *listingsvc.Service
}

func NewListHandler(service *listingsvc.Service) *ListHandler {
	return &ListHandler{service: service}
}

func (h *ListHandler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "LISTING_SERVICE_UNAVAILABLE", "listing service is unavailable")
		return
	}

	filters, ok := h.decodeFilters(w, r)
	if !ok {
		return
	}

	payload, err := h.service.ListUsers(r.Context(), identity.UserID, filters)
	if err != nil {
		switch {
		case errors.Is(err, listingsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid listing filters")
		case errors.Is(err, listingsvc.ErrRequesterNoLocation):
			writeBadRequest(w, "NO_LOCATION", "distance filter requires your coordinates")
		case errors.Is(err, listingsvc.ErrRequesterNotFound):
			writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to list users")
		}
		return
	}

	// The payload is already encoded; cached entries must go out byte
	// for byte.
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

func (h *ListHandler) decodeFilters(w http.ResponseWriter, r *http.Request) (listingsvc.Filters, bool) {
	query := r.URL.Query()

	filters := listingsvc.Filters{
		Gender:  optionalQueryString(query.Get("gender")),
		Name:    optionalQueryString(query.Get("name")),
		Surname: optionalQueryString(query.Get("surname")),
	}

	if raw := strings.TrimSpace(query.Get("distance_km")); raw != "" {
		distance, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeBadRequest(w, "VALIDATION_ERROR", "distance_km must be a number")
			return listingsvc.Filters{}, false
		}
		filters.DistanceKM = &distance
	}

	switch order := strings.ToLower(strings.TrimSpace(query.Get("order_by_date"))); order {
	case "", "asc", "desc":
		filters.Order = order
	default:
		writeBadRequest(w, "VALIDATION_ERROR", "order_by_date must be asc or desc")
		return listingsvc.Filters{}, false
	}

	return filters, true
}

func optionalQueryString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
