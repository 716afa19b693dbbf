// Package auth verifies the HS256 bearer tokens that guard the ormlens
// HTTP API. Tokens are issued elsewhere; Issue exists for tooling and tests.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token has expired")
	ErrInvalidClaims = errors.New("invalid token claims")
	ErrInvalidRole   = errors.New("invalid role")
	ErrShortSecret   = errors.New("secret must be at least 32 characters")
)

// MinSecretLength is the shortest HS256 secret accepted
const MinSecretLength = 32

// Roles, from least to most privileged
const (
	RoleViewer  = "viewer"  // read cached reports
	RoleAnalyst = "analyst" // also run analyses
)

var roleRank = map[string]int{
	RoleViewer:  1,
	RoleAnalyst: 2,
}

// Claims carried by an ormlens token
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Allows reports whether the claims grant at least the given role
func (c *Claims) Allows(role string) bool {
	return roleRank[c.Role] >= roleRank[role] && roleRank[role] > 0
}

// TokenValidator validates bearer tokens
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*Claims, error)
}

// JWTManager signs and validates HS256 tokens
type JWTManager struct {
	secretKey []byte
	issuer    string
	now       func() time.Time
}

// NewJWTManager creates a manager. The secret must be at least
// MinSecretLength characters.
func NewJWTManager(secret, issuer string) (*JWTManager, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrShortSecret
	}
	return &JWTManager{secretKey: []byte(secret), issuer: issuer, now: time.Now}, nil
}

// Issue signs a token for subject with the given role and lifetime
func (m *JWTManager) Issue(subject, role string, ttl time.Duration) (string, error) {
	if _, ok := roleRank[role]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	if subject == "" {
		return "", fmt.Errorf("%w: empty subject", ErrInvalidClaims)
	}

	now := m.now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken checks signature, expiry, issuer and role.
func (m *JWTManager) ValidateToken(_ context.Context, token string) (*Claims, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return m.secretKey, nil
	}, opts...)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidClaims)
	}
	if _, ok := roleRank[claims.Role]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, claims.Role)
	}
	return &claims, nil
}
