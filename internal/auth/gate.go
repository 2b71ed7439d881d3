package auth

import (
	"fmt"

	"github.com/sakif/breakout-edge/internal/apperror"
)

// Role distinguishes the two sign-in surfaces. Each role has exactly one
// valid credential pair and its own identity cookie — a signed-in user and
// a signed-in admin are independent identities that can coexist.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// invalidCredentialsMessage is the single failure string for both roles.
// Deliberately non-specific: the gate never says which half was wrong.
const invalidCredentialsMessage = "invalid credentials"

// Gate is the credential gate: it compares a submitted pair against the one
// fixed pair configured per role. No rate limiting, no lockout, no attempt
// counting — resubmission is the only recovery.
type Gate struct {
	passwords *PasswordService
	users     map[Role]fixedCredential
}

type fixedCredential struct {
	username     string
	passwordHash string
}

// NewGate builds a Gate from the configured plaintext pairs, hashing each
// password once up front.
func NewGate(passwords *PasswordService, userName, userPassword, adminName, adminPassword string) (*Gate, error) {
	userHash, err := passwords.Hash(userPassword)
	if err != nil {
		return nil, fmt.Errorf("auth: hashing user credential: %w", err)
	}
	adminHash, err := passwords.Hash(adminPassword)
	if err != nil {
		return nil, fmt.Errorf("auth: hashing admin credential: %w", err)
	}

	return &Gate{
		passwords: passwords,
		users: map[Role]fixedCredential{
			RoleUser:  {username: userName, passwordHash: userHash},
			RoleAdmin: {username: adminName, passwordHash: adminHash},
		},
	}, nil
}

// Check verifies a submitted pair for the role. Exactly one pair succeeds
// per role; every other input fails with the same generic message.
func (g *Gate) Check(username, password string, role Role) error {
	fixed, ok := g.users[role]
	if !ok || username != fixed.username {
		return apperror.Unauthorized(invalidCredentialsMessage)
	}
	if err := g.passwords.Verify(fixed.passwordHash, password); err != nil {
		return apperror.Unauthorized(invalidCredentialsMessage)
	}
	return nil
}
