package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/travelstay/marketplace-api/internal/api/middleware"
	"github.com/travelstay/marketplace-api/internal/core/domain"
	"github.com/travelstay/marketplace-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stub user service
// ---------------------------------------------------------------------------

type stubUserService struct {
	roles        map[string]string
	resolveCalls int
	promoted     []ports.PromoteInput
	registered   map[string]*domain.User
}

func newStubUserService() *stubUserService {
	return &stubUserService{
		roles:      make(map[string]string),
		registered: make(map[string]*domain.User),
	}
}

func (s *stubUserService) Register(_ context.Context, email, name string) (*ports.RegisterResult, error) {
	if u, ok := s.registered[email]; ok {
		return &ports.RegisterResult{User: u, AlreadyExisted: true}, nil
	}
	u := &domain.User{Email: email, Name: name}
	s.registered[email] = u
	return &ports.RegisterResult{User: u}, nil
}

func (s *stubUserService) ResolveRole(_ context.Context, email string) (string, error) {
	s.resolveCalls++
	return s.roles[email], nil
}

func (s *stubUserService) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(s.registered))
	for _, u := range s.registered {
		out = append(out, u)
	}
	return out, nil
}

func (s *stubUserService) Promote(_ context.Context, input ports.PromoteInput) error {
	s.promoted = append(s.promoted, input)
	return nil
}

func newTestContext(t *testing.T, method, target, body, boundEmail string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if boundEmail != "" {
		c.Set(middleware.ContextKeyEmail, boundEmail)
	}
	return c, rec
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestUserHandler_Register_Created(t *testing.T) {
	h := NewUserHandler(newStubUserService())
	c, rec := newTestContext(t, http.MethodPost, "/users", `{"email":"alice@example.com","name":"Alice"}`, "")

	if err := h.Register(c); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestUserHandler_Register_Existing(t *testing.T) {
	svc := newStubUserService()
	svc.registered["alice@example.com"] = &domain.User{Email: "alice@example.com"}
	h := NewUserHandler(svc)
	c, rec := newTestContext(t, http.MethodPost, "/users", `{"email":"alice@example.com"}`, "")

	if err := h.Register(c); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for existing user, got %d", rec.Code)
	}

	var resp registerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Message == "" {
		t.Fatalf("expected already-exists message")
	}
}

func TestUserHandler_Register_RejectsBadEmail(t *testing.T) {
	h := NewUserHandler(newStubUserService())
	c, rec := newTestContext(t, http.MethodPost, "/users", `{"email":"not-an-email"}`, "")

	err := h.Register(c)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	var he *echo.HTTPError
	if !asHTTPError(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v (rec %d)", err, rec.Code)
	}
}

// CheckAdmin must reject a caller asking about any identity but their own
// before any store lookup happens.
func TestUserHandler_CheckAdmin_FailClosedOnMismatch(t *testing.T) {
	svc := newStubUserService()
	svc.roles["bob@example.com"] = domain.RoleAdmin
	h := NewUserHandler(svc)

	c, _ := newTestContext(t, http.MethodGet, "/users/admin/bob@example.com", "", "alice@example.com")
	c.SetParamNames("email")
	c.SetParamValues("bob@example.com")

	err := h.CheckAdmin(c)
	var he *echo.HTTPError
	if !asHTTPError(err, &he) || he.Code != http.StatusForbidden {
		t.Fatalf("expected 403 on identity mismatch, got %v", err)
	}
	if svc.resolveCalls != 0 {
		t.Fatalf("mismatch must not fall through to a role lookup, calls=%d", svc.resolveCalls)
	}
}

func TestUserHandler_CheckAdmin_Self(t *testing.T) {
	svc := newStubUserService()
	svc.roles["alice@example.com"] = domain.RoleAdmin
	h := NewUserHandler(svc)

	c, rec := newTestContext(t, http.MethodGet, "/users/admin/alice@example.com", "", "alice@example.com")
	c.SetParamNames("email")
	c.SetParamValues("alice@example.com")

	if err := h.CheckAdmin(c); err != nil {
		t.Fatalf("CheckAdmin returned error: %v", err)
	}
	var resp roleCheckResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Admin == nil || !*resp.Admin {
		t.Fatalf("expected admin=true, got %+v", resp)
	}
}

func TestUserHandler_CheckOwner_SelfWithoutRole(t *testing.T) {
	svc := newStubUserService()
	h := NewUserHandler(svc)

	c, rec := newTestContext(t, http.MethodGet, "/users/owner/alice@example.com", "", "alice@example.com")
	c.SetParamNames("email")
	c.SetParamValues("alice@example.com")

	if err := h.CheckOwner(c); err != nil {
		t.Fatalf("CheckOwner returned error: %v", err)
	}
	var resp roleCheckResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Owner == nil || *resp.Owner {
		t.Fatalf("expected owner=false, got %+v", resp)
	}
}

func TestUserHandler_PromoteOwner_PassesProfileAndActor(t *testing.T) {
	svc := newStubUserService()
	h := NewUserHandler(svc)

	c, rec := newTestContext(t, http.MethodPatch, "/users/owner/alice@example.com",
		`{"profile":{"phone":"555"}}`, "admin@example.com")
	c.SetParamNames("email")
	c.SetParamValues("alice@example.com")

	if err := h.PromoteOwner(c); err != nil {
		t.Fatalf("PromoteOwner returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(svc.promoted) != 1 {
		t.Fatalf("expected one promotion, got %d", len(svc.promoted))
	}
	got := svc.promoted[0]
	if got.Email != "alice@example.com" || got.TargetRole != domain.RoleOwner {
		t.Fatalf("unexpected promotion input: %+v", got)
	}
	if got.Actor != "admin@example.com" {
		t.Fatalf("actor not propagated: %+v", got)
	}
	if got.Profile["phone"] != "555" {
		t.Fatalf("profile not propagated: %+v", got)
	}
}

func asHTTPError(err error, target **echo.HTTPError) bool {
	he, ok := err.(*echo.HTTPError)
	if ok {
		*target = he
	}
	return ok
}
