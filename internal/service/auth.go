// Package service contains the business logic layer: credential checks,
// pick accounting, catalog management, and the admin roster. Handlers parse
// HTTP and delegate here; repositories do the storage.
package service

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/breakout-edge/internal/apperror"
	"github.com/sakif/breakout-edge/internal/auth"
)

// AuthService handles sign-in, sign-up, and token issuance for both the
// user and admin surfaces.
type AuthService struct {
	gate   *auth.Gate
	tokens *auth.TokenService
	logger *slog.Logger
}

func NewAuthService(gate *auth.Gate, tokens *auth.TokenService, logger *slog.Logger) *AuthService {
	return &AuthService{
		gate:   gate,
		tokens: tokens,
		logger: logger,
	}
}

// Login checks the submitted pair against the fixed user credential and
// issues a user identity token on success.
func (s *AuthService) Login(username, password string) (string, error) {
	if err := s.gate.Check(username, password, auth.RoleUser); err != nil {
		s.logger.Info("user login rejected", slog.String("username", username))
		return "", err
	}

	token, err := s.tokens.Generate(username, auth.RoleUser)
	if err != nil {
		return "", fmt.Errorf("service/auth: issuing user token: %w", err)
	}

	s.logger.Info("user signed in", slog.String("username", username))
	return token, nil
}

// AdminLogin is Login against the fixed admin credential.
func (s *AuthService) AdminLogin(username, password string) (string, error) {
	if err := s.gate.Check(username, password, auth.RoleAdmin); err != nil {
		s.logger.Info("admin login rejected", slog.String("username", username))
		return "", err
	}

	token, err := s.tokens.Generate(username, auth.RoleAdmin)
	if err != nil {
		return "", fmt.Errorf("service/auth: issuing admin token: %w", err)
	}

	s.logger.Info("admin signed in", slog.String("username", username))
	return token, nil
}

// Register creates an identity implicitly: the submitted username becomes
// the signed-in identity and nothing else is kept. No uniqueness check, no
// stored password — two registrations with the same name share a ledger,
// and the fixed credential pair is still the only way to log in later.
func (s *AuthService) Register(username, email, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", apperror.ValidationFailed("username", "username is required")
	}
	if strings.TrimSpace(email) == "" {
		return "", apperror.ValidationFailed("email", "email is required")
	}
	if password == "" {
		return "", apperror.ValidationFailed("password", "password is required")
	}

	token, err := s.tokens.Generate(username, auth.RoleUser)
	if err != nil {
		return "", fmt.Errorf("service/auth: issuing token for %s: %w", username, err)
	}

	s.logger.Info("identity registered", slog.String("username", username))
	return token, nil
}
