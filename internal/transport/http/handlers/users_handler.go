package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/SilverAnton/UserIteractionProj/internal/domain/model"
	userssvc "github.com/SilverAnton/UserIteractionProj/internal/services/users"
	"github.com/SilverAnton/UserIteractionProj/internal/transport/http/dto"
	httperrors "github.com/SilverAnton/UserIteractionProj/internal/transport/http/errors"
)

// maxAvatarBytes caps the decoded upload held in memory per request.
const maxAvatarBytes = 10 << 20

type UsersHandler struct {
	service *userssvc.Service
}

func NewUsersHandler(service *userssvc.Service) *UsersHandler {
	return &UsersHandler{service: service}
}

// Register accepts either multipart form data with an optional avatar
// file or a plain JSON body without one.
func (h *UsersHandler) Register(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "USERS_SERVICE_UNAVAILABLE", "users service is unavailable")
		return
	}

	input, ok := h.decodeRegister(w, r)
	if !ok {
		return
	}

	user, err := h.service.Register(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, userssvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid registration payload")
		case errors.Is(err, userssvc.ErrEmailTaken):
			writeConflict(w, "EMAIL_TAKEN", "email is already registered")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to register user")
		}
		return
	}

	httperrors.Write(w, http.StatusCreated, mapUserResponse(user))
}

func (h *UsersHandler) decodeRegister(w http.ResponseWriter, r *http.Request) (userssvc.RegisterInput, bool) {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "multipart/form-data") {
		return h.decodeMultipart(w, r)
	}

	var req dto.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return userssvc.RegisterInput{}, false
	}

	return userssvc.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Gender:    req.Gender,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}, true
}

func (h *UsersHandler) decodeMultipart(w http.ResponseWriter, r *http.Request) (userssvc.RegisterInput, bool) {
	if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid multipart form")
		return userssvc.RegisterInput{}, false
	}

	input := userssvc.RegisterInput{
		FirstName: r.FormValue("first_name"),
		LastName:  r.FormValue("last_name"),
		Email:     r.FormValue("email"),
		Password:  r.FormValue("password"),
		Gender:    r.FormValue("gender"),
	}

	lat, ok := optionalFloatField(w, r, "latitude")
	if !ok {
		return userssvc.RegisterInput{}, false
	}
	lon, ok := optionalFloatField(w, r, "longitude")
	if !ok {
		return userssvc.RegisterInput{}, false
	}
	input.Latitude = lat
	input.Longitude = lon

	file, _, err := r.FormFile("avatar")
	switch {
	case err == nil:
		defer file.Close()
		avatar, err := io.ReadAll(io.LimitReader(file, maxAvatarBytes+1))
		if err != nil {
			writeBadRequest(w, "INVALID_REQUEST", "failed to read avatar file")
			return userssvc.RegisterInput{}, false
		}
		if len(avatar) > maxAvatarBytes {
			writeBadRequest(w, "AVATAR_TOO_LARGE", "avatar file exceeds the size limit")
			return userssvc.RegisterInput{}, false
		}
		input.Avatar = avatar
	case errors.Is(err, http.ErrMissingFile):
	default:
		writeBadRequest(w, "INVALID_REQUEST", "invalid avatar file")
		return userssvc.RegisterInput{}, false
	}

	return input, true
}

func optionalFloatField(w http.ResponseWriter, r *http.Request, name string) (*float64, bool) {
	raw := strings.TrimSpace(r.FormValue(name))
	if raw == "" {
		return nil, true
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", name+" must be a number")
		return nil, false
	}
	return &value, true
}

func mapUserResponse(user model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Avatar:    user.Avatar,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Gender:    user.Gender,
		Latitude:  user.Latitude,
		Longitude: user.Longitude,
		CreatedAt: user.CreatedAt,
	}
}
