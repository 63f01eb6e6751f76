package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/userhub/account-service/internal/core/domain"
	"github.com/userhub/account-service/internal/core/ports"
)

type stubUserService struct {
	registerFn func(ctx context.Context, input ports.RegisterInput) (*domain.User, string, error)
	profileFn  func(ctx context.Context, id string) (*domain.User, error)
}

func (s *stubUserService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, string, error) {
	return s.registerFn(ctx, input)
}

func (s *stubUserService) Profile(ctx context.Context, id string) (*domain.User, error) {
	return s.profileFn(ctx, id)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func registerBody(name, email, password string) string {
	raw, _ := json.Marshal(map[string]string{"name": name, "email": email, "password": password})
	return string(raw)
}

func TestUserHandler_Register_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubUserService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (*domain.User, string, error) {
			if input.Name != "12345" || input.Email != "me@email.com" || input.Password != "12345" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &domain.User{
				ID:           "user_1",
				Name:         input.Name,
				Email:        input.Email,
				PasswordHash: "$2a$10$hash",
			}, "token123", nil
		},
	}
	h := NewUserHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(registerBody("12345", "me@email.com", "12345")))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if got := rec.Header().Get("x-auth-token"); got != "token123" {
		t.Fatalf("expected token header, got %q", got)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["_id"] != "user_1" || resp["name"] != "12345" || resp["email"] != "me@email.com" {
		t.Fatalf("unexpected body: %+v", resp)
	}
	if _, leaked := resp["password"]; leaked {
		t.Fatalf("password leaked in response")
	}
	if strings.Contains(rec.Body.String(), "password") || strings.Contains(rec.Body.String(), "hash") {
		t.Fatalf("credential material leaked in body: %s", rec.Body.String())
	}
}

func TestUserHandler_Register_Validation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"name too short", registerBody("1234", "me@email.com", "12345")},
		{"name too long", registerBody(strings.Repeat("a", 51), "me@email.com", "12345")},
		{"email too short", registerBody("12345", "a@b", "12345")},
		{"email too long", registerBody("12345", strings.Repeat("a", 250)+"@email.com", "12345")},
		{"email not an email", registerBody("12345", "12345", "12345")},
		{"password too short", registerBody("12345", "me@email.com", "1234")},
		{"password too long", registerBody("12345", "me@email.com", strings.Repeat("a", 256))},
		{"missing fields", `{}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEcho()
			stub := &stubUserService{
				registerFn: func(ctx context.Context, input ports.RegisterInput) (*domain.User, string, error) {
					t.Fatalf("service must not be called on invalid input")
					return nil, "", nil
				},
			}
			h := NewUserHandler(stub)

			req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(tc.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			_ = h.Register(c)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestUserHandler_Register_Duplicate(t *testing.T) {
	e := newTestEcho()
	stub := &stubUserService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (*domain.User, string, error) {
			return nil, "", domain.ErrUserExists
		},
	}
	h := NewUserHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(registerBody("12345", "me@email.com", "12345")))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = h.Register(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "already registered") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestUserHandler_Register_InvalidPayload(t *testing.T) {
	e := newTestEcho()
	stub := &stubUserService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (*domain.User, string, error) {
			t.Fatalf("should not be called")
			return nil, "", nil
		},
	}
	h := NewUserHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader("not-json"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_ = h.Register(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestUserHandler_Me_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubUserService{
		profileFn: func(ctx context.Context, id string) (*domain.User, error) {
			if id != "user_1" {
				t.Fatalf("unexpected id: %s", id)
			}
			return &domain.User{
				ID:           "user_1",
				Name:         "12345",
				Email:        "me@email.com",
				PasswordHash: "$2a$10$hash",
				IsAdmin:      true,
			}, nil
		},
	}
	h := NewUserHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "user_1")

	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["_id"] != "user_1" || resp["email"] != "me@email.com" {
		t.Fatalf("unexpected body: %+v", resp)
	}
	// Allow-listed projection: nothing beyond _id, name, email escapes.
	if len(resp) != 3 {
		t.Fatalf("projection leaked extra fields: %+v", resp)
	}
}

func TestUserHandler_Me_MissingClaims(t *testing.T) {
	e := newTestEcho()
	stub := &stubUserService{
		profileFn: func(ctx context.Context, id string) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewUserHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Me(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestUserHandler_Me_UserGone(t *testing.T) {
	e := newTestEcho()
	stub := &stubUserService{
		profileFn: func(ctx context.Context, id string) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	}
	h := NewUserHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", "user_1")

	_ = h.Me(c)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
