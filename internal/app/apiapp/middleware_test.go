package apiapp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SilverAnton/UserIteractionProj/internal/domain/model"
	pgrepo "github.com/SilverAnton/UserIteractionProj/internal/repo/postgres"
	authsvc "github.com/SilverAnton/UserIteractionProj/internal/services/auth"
)

type userStoreStub struct {
	ids map[int64]bool
}

func (s userStoreStub) GetByEmail(context.Context, string) (model.User, error) {
	return model.User{}, pgrepo.ErrUserNotFound
}

func (s userStoreStub) Exists(_ context.Context, id int64) (bool, error) {
	return s.ids[id], nil
}

func newTestAuthService(t *testing.T) (*authsvc.Service, string) {
	t.Helper()

	manager := authsvc.NewJWTManager("test-secret", time.Hour)
	service := authsvc.NewService(manager, userStoreStub{ids: map[int64]bool{42: true}})

	token, _, err := manager.GenerateAccessToken(42)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return service, token
}

func TestAuthMiddlewarePlacesIdentity(t *testing.T) {
	service, token := newTestAuthService(t)

	var got authsvc.Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := authsvc.IdentityFromContext(r.Context())
		if !ok {
			t.Fatalf("identity missing from context")
		}
		got = identity
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/list", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rr := httptest.NewRecorder()
	AuthMiddleware(service, nil)(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d, body %s", rr.Code, rr.Body.String())
	}
	if got.UserID != 42 {
		t.Fatalf("unexpected identity: %+v", got)
	}
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	service, _ := newTestAuthService(t)

	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatalf("next handler must not run")
	})

	rr := httptest.NewRecorder()
	AuthMiddleware(service, nil)(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/list", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddlewareGarbageToken(t *testing.T) {
	service, _ := newTestAuthService(t)

	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatalf("next handler must not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/list", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")

	rr := httptest.NewRecorder()
	AuthMiddleware(service, nil)(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestAuthMiddlewareDeletedSubject(t *testing.T) {
	manager := authsvc.NewJWTManager("test-secret", time.Hour)
	service := authsvc.NewService(manager, userStoreStub{ids: map[int64]bool{}})

	token, _, err := manager.GenerateAccessToken(42)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatalf("next handler must not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/list", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rr := httptest.NewRecorder()
	AuthMiddleware(service, nil)(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestExtractBearerToken(t *testing.T) {
	cases := []struct {
		header string
		token  string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"Basic abc", "", false},
		{"Bearer", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		token, ok := extractBearerToken(tc.header)
		if ok != tc.ok || token != tc.token {
			t.Fatalf("header %q: got (%q, %v) want (%q, %v)", tc.header, token, ok, tc.token, tc.ok)
		}
	}
}
