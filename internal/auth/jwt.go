// JWT token generation and validation for the identity cookies.
//
// The original design persisted a bare username under a role-specific key
// and trusted it until logout. The server rendition keeps those semantics:
// the cookie carries a signed token whose subject is the username and whose
// role claim selects the surface it is valid for. The signature only stops
// cookie forgery; there is still no session state, no revocation, and the
// identity is trusted implicitly while the token lives.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// defaultTokenLifetime approximates the original's "until explicit logout":
// long enough that expiry never interrupts a session in practice.
const defaultTokenLifetime = 30 * 24 * time.Hour

const issuer = "breakout-edge"

// TokenService handles JWT creation and validation. It holds the HMAC
// secret used to sign and verify tokens.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// claims is the JWT payload: the registered claims (Subject holds the
// username) plus the role the token was issued for.
type claims struct {
	Role Role `json:"role"`
	jwt.RegisteredClaims
}

// Generate creates and signs an identity token for the username and role.
func (s *TokenService) Generate(username string, role Role) (string, error) {
	return s.GenerateWithDuration(username, role, defaultTokenLifetime)
}

// GenerateWithDuration creates a token with a custom expiry. Used in tests
// to exercise the expiry path without waiting a month.
func (s *TokenService) GenerateWithDuration(username string, role Role, d time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, nil
}

// Validate parses and verifies a token string for the expected role.
// Returns the username it encodes.
//
// Pinning the algorithm with WithValidMethods prevents algorithm-confusion
// attacks; the role check stops a user token from opening admin routes.
func (s *TokenService) Validate(tokenStr string, expect Role) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("auth: token expired")
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid token claims")
	}
	if c.Role != expect {
		return "", fmt.Errorf("auth: token role %q, want %q", c.Role, expect)
	}
	if c.Subject == "" {
		return "", fmt.Errorf("auth: token has no subject")
	}

	return c.Subject, nil
}
