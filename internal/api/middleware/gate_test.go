package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/travelstay/marketplace-api/internal/core/domain"
	"github.com/travelstay/marketplace-api/internal/core/ports"
	"github.com/travelstay/marketplace-api/internal/core/service"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubResolver struct {
	roles map[string]string
	calls int
}

func (r *stubResolver) ResolveRole(_ context.Context, email string) (string, error) {
	r.calls++
	return r.roles[email], nil
}

// stubListings only implements the lookup the gate needs; the rest of the
// interface is unused in these tests.
type stubListings struct {
	byID map[string]*domain.Listing
}

func (s *stubListings) FindByID(_ context.Context, id string) (*domain.Listing, error) {
	l, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	return l, nil
}

func (s *stubListings) Insert(context.Context, *domain.Listing) (*domain.Listing, error) {
	panic("not used")
}
func (s *stubListings) FindByOwner(context.Context, string) ([]*domain.Listing, error) {
	panic("not used")
}
func (s *stubListings) FindAll(context.Context) ([]*domain.Listing, error) { panic("not used") }
func (s *stubListings) UpdateFields(context.Context, string, string, ports.ListingPatch) error {
	panic("not used")
}
func (s *stubListings) SetStatus(context.Context, string, domain.ListingStatus) (*ports.StatusUpdate, error) {
	panic("not used")
}
func (s *stubListings) Delete(context.Context, string, string) error { panic("not used") }
func (s *stubListings) TopCities(context.Context, int) ([]domain.CitySummary, error) {
	panic("not used")
}

func testGate(roles map[string]string, listings map[string]*domain.Listing) (*Gate, *stubResolver, *service.TokenService) {
	tokens := service.NewTokenService("secret", time.Hour)
	resolver := &stubResolver{roles: roles}
	return NewGate(tokens, resolver, &stubListings{byID: listings}), resolver, tokens
}

func signedToken(t *testing.T, tokens *service.TokenService, email string) string {
	t.Helper()
	token, err := tokens.Issue(map[string]any{"email": email})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func runGuard(t *testing.T, gate *Gate, guard Guard, token, paramID string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if paramID != "" {
		c.SetParamNames("id")
		c.SetParamValues(paramID)
	}

	called := false
	handler := gate.Require(guard)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, called
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestGate_ValidTokenBindsIdentity(t *testing.T) {
	gate, _, tokens := testGate(nil, nil)
	token := signedToken(t, tokens, "alice@example.com")

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := gate.Require(Guard{})(func(c echo.Context) error {
		if c.Get(ContextKeyEmail) != "alice@example.com" {
			t.Fatalf("identity not bound: %v", c.Get(ContextKeyEmail))
		}
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestGate_MissingToken(t *testing.T) {
	gate, _, _ := testGate(nil, nil)

	rec, called := runGuard(t, gate, Guard{}, "", "")
	if called {
		t.Fatalf("next should not run without a token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestGate_InvalidToken(t *testing.T) {
	gate, _, _ := testGate(nil, nil)

	rec, called := runGuard(t, gate, Guard{}, "not-a-token", "")
	if called {
		t.Fatalf("next should not run with a bad token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestGate_ExpiredToken(t *testing.T) {
	gate, _, _ := testGate(nil, nil)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "alice@example.com",
		"exp":   time.Now().Add(-time.Minute).Unix(),
	})
	signed, err := expired.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	rec, called := runGuard(t, gate, Guard{}, signed, "")
	if called {
		t.Fatalf("next should not run with an expired token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestGate_TokenWithoutIdentityClaim(t *testing.T) {
	gate, _, tokens := testGate(nil, nil)
	token, err := tokens.Issue(map[string]any{"name": "no email"})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	rec, called := runGuard(t, gate, Guard{}, token, "")
	if called {
		t.Fatalf("next should not run without an identity claim")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestGate_RoleMismatch(t *testing.T) {
	gate, resolver, tokens := testGate(map[string]string{"alice@example.com": domain.RoleOwner}, nil)
	token := signedToken(t, tokens, "alice@example.com")

	rec, called := runGuard(t, gate, Guard{RequiredRole: domain.RoleAdmin}, token, "")
	if called {
		t.Fatalf("owner must not pass an admin guard")
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if resolver.calls != 1 {
		t.Fatalf("role must be resolved from the store, calls=%d", resolver.calls)
	}
}

func TestGate_RoleMatch(t *testing.T) {
	gate, _, tokens := testGate(map[string]string{"alice@example.com": domain.RoleAdmin}, nil)
	token := signedToken(t, tokens, "alice@example.com")

	rec, called := runGuard(t, gate, Guard{RequiredRole: domain.RoleAdmin}, token, "")
	if !called {
		t.Fatalf("admin should pass an admin guard")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestGate_UnknownUserHasNoRole(t *testing.T) {
	gate, _, tokens := testGate(map[string]string{}, nil)
	token := signedToken(t, tokens, "ghost@example.com")

	rec, called := runGuard(t, gate, Guard{RequiredRole: domain.RoleOwner}, token, "")
	if called {
		t.Fatalf("unknown user must not pass a role guard")
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestGate_OwnershipMismatch(t *testing.T) {
	listings := map[string]*domain.Listing{
		"l1": {ID: "l1", OwnerEmail: "bob@example.com"},
	}
	// Alice holds the owner role, but does not own l1.
	gate, _, tokens := testGate(map[string]string{"alice@example.com": domain.RoleOwner}, listings)
	token := signedToken(t, tokens, "alice@example.com")

	rec, called := runGuard(t, gate, Guard{RequiredRole: domain.RoleOwner, OwnershipScoped: true}, token, "l1")
	if called {
		t.Fatalf("non-owner must not pass an ownership guard")
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestGate_OwnershipMatch(t *testing.T) {
	listings := map[string]*domain.Listing{
		"l1": {ID: "l1", OwnerEmail: "alice@example.com"},
	}
	gate, _, tokens := testGate(map[string]string{"alice@example.com": domain.RoleOwner}, listings)
	token := signedToken(t, tokens, "alice@example.com")

	rec, called := runGuard(t, gate, Guard{RequiredRole: domain.RoleOwner, OwnershipScoped: true}, token, "l1")
	if !called {
		t.Fatalf("owner should pass the ownership guard on their own listing")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestGate_OwnershipTargetMissing(t *testing.T) {
	gate, _, tokens := testGate(map[string]string{"alice@example.com": domain.RoleOwner}, map[string]*domain.Listing{})
	token := signedToken(t, tokens, "alice@example.com")

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("missing")

	handler := gate.Require(Guard{RequiredRole: domain.RoleOwner, OwnershipScoped: true})(func(c echo.Context) error {
		t.Fatalf("next should not run for a missing listing")
		return nil
	})
	err := handler(c)
	if err == nil {
		t.Fatalf("expected error for missing listing")
	}
}
