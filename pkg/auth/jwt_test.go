package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newManager(t *testing.T) *JWTManager {
	t.Helper()
	m, err := NewJWTManager(testSecret, "ormlens")
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}
	return m
}

func TestJWTManager_ShortSecret(t *testing.T) {
	if _, err := NewJWTManager("short", ""); !errors.Is(err, ErrShortSecret) {
		t.Errorf("expected ErrShortSecret, got %v", err)
	}
}

func TestJWTManager_RoundTrip(t *testing.T) {
	m := newManager(t)

	for _, role := range []string{RoleViewer, RoleAnalyst} {
		token, err := m.Issue("ci-bot", role, time.Hour)
		if err != nil {
			t.Fatalf("Issue(%s): %v", role, err)
		}

		claims, err := m.ValidateToken(context.Background(), token)
		if err != nil {
			t.Fatalf("ValidateToken(%s): %v", role, err)
		}
		if claims.Subject != "ci-bot" || claims.Role != role || claims.Issuer != "ormlens" {
			t.Errorf("unexpected claims %+v", claims)
		}
	}
}

func TestJWTManager_IssueValidation(t *testing.T) {
	m := newManager(t)

	if _, err := m.Issue("x", "admin", time.Hour); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("expected ErrInvalidRole, got %v", err)
	}
	if _, err := m.Issue("", RoleViewer, time.Hour); !errors.Is(err, ErrInvalidClaims) {
		t.Errorf("expected ErrInvalidClaims, got %v", err)
	}
}

func TestJWTManager_Expired(t *testing.T) {
	m := newManager(t)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := m.Issue("ci-bot", RoleViewer, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	m.now = time.Now
	if _, err := m.ValidateToken(context.Background(), token); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("expected ErrExpiredToken, got %v", err)
	}
}

func TestJWTManager_Rejects(t *testing.T) {
	m := newManager(t)
	other, _ := NewJWTManager(strings.Repeat("z", 32), "ormlens")
	foreign, _ := other.Issue("ci-bot", RoleViewer, time.Hour)

	otherIssuer, _ := NewJWTManager(testSecret, "someone-else")
	wrongIssuer, _ := otherIssuer.Issue("ci-bot", RoleViewer, time.Hour)

	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role:             RoleViewer,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "ci-bot", Issuer: "ormlens"},
	}).SignedString([]byte(testSecret))

	badRole, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: "root",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "ci-bot",
			Issuer:    "ormlens",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))

	hs512, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		Role: RoleViewer,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "ci-bot",
			Issuer:    "ormlens",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"empty", "", ErrInvalidToken},
		{"garbage", "not.a.token", ErrInvalidToken},
		{"wrong secret", foreign, ErrInvalidToken},
		{"wrong issuer", wrongIssuer, ErrInvalidToken},
		{"no expiry", noExpiry, ErrInvalidToken},
		{"unknown role", badRole, ErrInvalidRole},
		{"other algorithm", hs512, ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.ValidateToken(context.Background(), tt.token); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestClaims_Allows(t *testing.T) {
	viewer := &Claims{Role: RoleViewer}
	analyst := &Claims{Role: RoleAnalyst}
	nobody := &Claims{Role: "guest"}

	if !viewer.Allows(RoleViewer) || viewer.Allows(RoleAnalyst) {
		t.Error("viewer should only allow viewer")
	}
	if !analyst.Allows(RoleViewer) || !analyst.Allows(RoleAnalyst) {
		t.Error("analyst should allow both roles")
	}
	if nobody.Allows(RoleViewer) {
		t.Error("unknown role should allow nothing")
	}
	if analyst.Allows("superuser") {
		t.Error("unknown required role should never be allowed")
	}
}

func TestClaimsContext(t *testing.T) {
	if _, ok := ClaimsFromContext(context.Background()); ok {
		t.Error("expected no claims in empty context")
	}

	ctx := WithClaims(context.Background(), &Claims{Role: RoleAnalyst})
	c, ok := ClaimsFromContext(ctx)
	if !ok || c.Role != RoleAnalyst {
		t.Errorf("expected analyst claims, got %+v", c)
	}
}
