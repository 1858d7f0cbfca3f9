package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/smartballot/voting-api/internal/core/domain"
	"github.com/smartballot/voting-api/internal/core/ports"
)

// stubGate implements ports.IdentityGate for middleware tests; only
// Authenticate is exercised here.
type stubGate struct {
	claim *domain.SessionClaim
	err   error
}

func (g *stubGate) Authenticate(token string) (*domain.SessionClaim, error) {
	return g.claim, g.err
}

func (g *stubGate) IssueToken(subjectID, email, role string) (string, error) {
	return "", nil
}

func (g *stubGate) VerifyBiometric(ctx context.Context, enrolled []float64, probeImage string) (ports.BiometricOutcome, error) {
	return ports.BiometricOutcome{}, nil
}

func (g *stubGate) ExtractTemplate(ctx context.Context, faceImage string) ([]float64, error) {
	return nil, nil
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	gate := &stubGate{claim: &domain.SessionClaim{SubjectID: "v1", Email: "a@example.com", Role: domain.RoleUser}}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(gate)(func(c echo.Context) error {
		called = true
		if c.Get("user_id") != "v1" {
			t.Fatalf("user_id not set")
		}
		if c.Get("email") != "a@example.com" {
			t.Fatalf("email not set")
		}
		if c.Get("role") != domain.RoleUser {
			t.Fatalf("role not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(&stubGate{})(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrAuthMissing) {
		t.Fatalf("expected ErrAuthMissing, got %v", err)
	}
}

func TestAuthMiddleware_InvalidHeaderFormat(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(&stubGate{})(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrAuthMalformed) {
		t.Fatalf("expected ErrAuthMalformed, got %v", err)
	}
}

func TestAuthMiddleware_RejectedToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer expired-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(&stubGate{err: domain.ErrAuthExpired})(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); !errors.Is(err, domain.ErrAuthExpired) {
		t.Fatalf("expected ErrAuthExpired, got %v", err)
	}
}
