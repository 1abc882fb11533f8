package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SilverAnton/UserIteractionProj/internal/domain/model"
	pgrepo "github.com/SilverAnton/UserIteractionProj/internal/repo/postgres"
	userssvc "github.com/SilverAnton/UserIteractionProj/internal/services/users"
)

type registerStoreStub struct {
	emails map[string]bool
}

func (s *registerStoreStub) Create(_ context.Context, u pgrepo.NewUser) (model.User, error) {
	if s.emails[u.Email] {
		return model.User{}, pgrepo.ErrEmailTaken
	}
	s.emails[u.Email] = true
	return model.User{
		ID:        int64(len(s.emails)),
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Gender:    u.Gender,
	}, nil
}

func newUsersHandler() *UsersHandler {
	store := &registerStoreStub{emails: map[string]bool{}}
	return NewUsersHandler(userssvc.NewService(store, nil))
}

func registerJSONRequest(t *testing.T, email string) *http.Request {
	t.Helper()

	body, err := json.Marshal(map[string]any{
		"first_name": "Alice",
		"last_name":  "Smith",
		"email":      email,
		"password":   "secret",
		"gender":     "female",
	})
	if err != nil {
		t.Fatalf("marshal request body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/clients/create", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestRegisterJSON(t *testing.T) {
	h := newUsersHandler()

	rr := httptest.NewRecorder()
	h.Register(rr, registerJSONRequest(t, "alice@example.org"))

	if rr.Code != http.StatusCreated {
		t.Fatalf("unexpected status: got %d, body %s", rr.Code, rr.Body.String())
	}

	var payload struct {
		ID    int64  `json:"id"`
		Email string `json:"email"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.ID == 0 || payload.Email != "alice@example.org" {
		t.Fatalf("unexpected response: %+v", payload)
	}
}

func TestRegisterMultipartForm(t *testing.T) {
	h := newUsersHandler()

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	fields := map[string]string{
		"first_name": "Bob",
		"last_name":  "Jones",
		"email":      "bob@example.org",
		"password":   "secret",
		"gender":     "male",
		"latitude":   "55.75",
		"longitude":  "37.61",
	}
	for name, value := range fields {
		if err := form.WriteField(name, value); err != nil {
			t.Fatalf("write form field %s: %v", name, err)
		}
	}
	if err := form.Close(); err != nil {
		t.Fatalf("close form: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/clients/create", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())

	rr := httptest.NewRecorder()
	h.Register(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("unexpected status: got %d, body %s", rr.Code, rr.Body.String())
	}
}

func TestRegisterDuplicateEmailConflict(t *testing.T) {
	h := newUsersHandler()

	rr := httptest.NewRecorder()
	h.Register(rr, registerJSONRequest(t, "alice@example.org"))
	if rr.Code != http.StatusCreated {
		t.Fatalf("first register: got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.Register(rr, registerJSONRequest(t, "alice@example.org"))
	if rr.Code != http.StatusConflict {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusConflict)
	}

	var payload struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Code != "EMAIL_TAKEN" {
		t.Fatalf("unexpected error code: %q", payload.Code)
	}
}

func TestRegisterValidationError(t *testing.T) {
	h := newUsersHandler()

	body := []byte(`{"first_name":"","last_name":"","email":"bad","password":"","gender":"x"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/clients/create", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	h.Register(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusBadRequest)
	}
}
