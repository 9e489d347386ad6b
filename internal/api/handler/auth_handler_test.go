package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/authkit/identity-api/internal/core/domain"
	"github.com/authkit/identity-api/internal/core/ports"
)

type stubAuthService struct {
	signUpFn         func(ctx context.Context, input ports.SignUpInput) (*ports.AuthResult, error)
	signInFn         func(ctx context.Context, email, password string) (*ports.AuthResult, error)
	changePasswordFn func(ctx context.Context, principalID, oldPassword, newPassword string) error
}

func (s *stubAuthService) SignUp(ctx context.Context, input ports.SignUpInput) (*ports.AuthResult, error) {
	return s.signUpFn(ctx, input)
}

func (s *stubAuthService) SignIn(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	return s.signInFn(ctx, email, password)
}

func (s *stubAuthService) ChangePassword(ctx context.Context, principalID, oldPassword, newPassword string) error {
	return s.changePasswordFn(ctx, principalID, oldPassword, newPassword)
}

func newTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_SignUp_Success(t *testing.T) {
	stub := &stubAuthService{
		signUpFn: func(_ context.Context, input ports.SignUpInput) (*ports.AuthResult, error) {
			if input.Email != "alice@example.com" || input.Role != domain.RoleUser {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &ports.AuthResult{
				User:  &domain.User{ID: "u1", Name: input.Name, Email: input.Email, Role: input.Role},
				Token: "token123",
			}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/api/v1/auth/signup",
		`{"name":"alice","email":"alice@example.com","password":"secret1","role":"user"}`)

	if err := handler.SignUp(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["access_token"] != "token123" {
		t.Fatalf("expected access_token, got %v", resp["access_token"])
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["email"] != "alice@example.com" || user["role"] != "user" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Fatal("password hash leaked in response")
	}
}

func TestAuthHandler_SignUp_DuplicateEmail(t *testing.T) {
	stub := &stubAuthService{
		signUpFn: func(_ context.Context, _ ports.SignUpInput) (*ports.AuthResult, error) {
			return nil, domain.ErrDuplicateEmail
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/api/v1/auth/signup",
		`{"name":"bob","email":"bob@example.com","password":"secret1","role":"user"}`)

	err := handler.SignUp(c)
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestAuthHandler_SignUp_ValidationFailures(t *testing.T) {
	stub := &stubAuthService{
		signUpFn: func(_ context.Context, _ ports.SignUpInput) (*ports.AuthResult, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	cases := []struct {
		name string
		body string
	}{
		{"bad email", `{"name":"a","email":"not-an-email","password":"secret1","role":"user"}`},
		{"short password", `{"name":"a","email":"a@example.com","password":"12345","role":"user"}`},
		{"long password", `{"name":"a","email":"a@example.com","password":"` + strings.Repeat("x", 21) + `","role":"user"}`},
		{"unknown role", `{"name":"a","email":"a@example.com","password":"secret1","role":"root"}`},
		{"missing name", `{"email":"a@example.com","password":"secret1","role":"user"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newTestContext(t, http.MethodPost, "/api/v1/auth/signup", tc.body)
			err := handler.SignUp(c)
			var he *echo.HTTPError
			if !errors.As(err, &he) || he.Code != http.StatusUnprocessableEntity {
				t.Fatalf("expected 422, got %v", err)
			}
		})
	}
}

func TestAuthHandler_SignUp_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		signUpFn: func(_ context.Context, _ ports.SignUpInput) (*ports.AuthResult, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/api/v1/auth/signup", "not-json")

	err := handler.SignUp(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_SignIn_Success(t *testing.T) {
	stub := &stubAuthService{
		signInFn: func(_ context.Context, email, password string) (*ports.AuthResult, error) {
			if email != "alice@example.com" || password != "secret1" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return &ports.AuthResult{
				User:  &domain.User{ID: "u1", Name: "alice", Email: email, Role: domain.RoleAdmin},
				Token: "token456",
			}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/api/v1/auth/signin",
		`{"email":"alice@example.com","password":"secret1"}`)

	if err := handler.SignIn(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["access_token"] != "token456" {
		t.Fatalf("expected access_token, got %v", resp["access_token"])
	}
}

func TestAuthHandler_SignIn_BadCredentials(t *testing.T) {
	stub := &stubAuthService{
		signInFn: func(_ context.Context, _, _ string) (*ports.AuthResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/api/v1/auth/signin",
		`{"email":"alice@example.com","password":"wrong-1"}`)

	if err := handler.SignIn(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

// Malformed credentials must produce the same error as a wrong password so
// the response gives no hint about which addresses are registered.
func TestAuthHandler_SignIn_MalformedCredentialsSameSignal(t *testing.T) {
	stub := &stubAuthService{
		signInFn: func(_ context.Context, _, _ string) (*ports.AuthResult, error) {
			t.Fatal("service should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/api/v1/auth/signin",
		`{"email":"not-an-email","password":"x"}`)

	if err := handler.SignIn(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_ChangePassword_Success(t *testing.T) {
	stub := &stubAuthService{
		changePasswordFn: func(_ context.Context, principalID, oldPassword, newPassword string) error {
			if principalID != "u1" || oldPassword != "old-secret" || newPassword != "new-secret" {
				t.Fatalf("unexpected args: %s %s %s", principalID, oldPassword, newPassword)
			}
			return nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newTestContext(t, http.MethodPost, "/api/v1/auth/password",
		`{"old_password":"old-secret","new_password":"new-secret"}`)
	c.Set("principal", domain.Principal{ID: "u1", Email: "a@example.com", Role: domain.RoleUser})

	if err := handler.ChangePassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_ChangePassword_NoPrincipal(t *testing.T) {
	stub := &stubAuthService{
		changePasswordFn: func(_ context.Context, _, _, _ string) error {
			t.Fatal("service should not be called")
			return nil
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/api/v1/auth/password",
		`{"old_password":"old-secret","new_password":"new-secret"}`)

	err := handler.ChangePassword(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
