package auth

import (
	"errors"
	"testing"

	"github.com/sakif/breakout-edge/internal/apperror"
)

// newTestGate builds a Gate with the stock credential pairs at minimal
// bcrypt cost.
func newTestGate(t *testing.T) *Gate {
	t.Helper()
	gate, err := NewGate(NewPasswordServiceForTest(4), "login", "123", "admin", "123")
	if err != nil {
		t.Fatalf("NewGate: %v", err)
	}
	return gate
}

// =========================================================================
// CREDENTIAL GATE TESTS
// =========================================================================

func TestGateCheck_ValidUserPair(t *testing.T) {
	gate := newTestGate(t)

	if err := gate.Check("login", "123", RoleUser); err != nil {
		t.Errorf("Check() valid user pair error = %v", err)
	}
}

func TestGateCheck_ValidAdminPair(t *testing.T) {
	gate := newTestGate(t)

	if err := gate.Check("admin", "123", RoleAdmin); err != nil {
		t.Errorf("Check() valid admin pair error = %v", err)
	}
}

func TestGateCheck_Rejections(t *testing.T) {
	gate := newTestGate(t)

	tests := []struct {
		name     string
		username string
		password string
		role     Role
	}{
		{"wrong password", "login", "1234", RoleUser},
		{"wrong username", "Login", "123", RoleUser},
		{"empty pair", "", "", RoleUser},
		{"user pair on admin surface", "login", "123", RoleAdmin},
		{"admin pair on user surface", "admin", "123", RoleUser},
		{"whitespace padding", " login", "123", RoleUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := gate.Check(tt.username, tt.password, tt.role)
			if err == nil {
				t.Fatal("Check() should reject")
			}
			if !errors.Is(err, apperror.ErrUnauthorized) {
				t.Errorf("Check() error = %v, want ErrUnauthorized", err)
			}
		})
	}
}

// Both failure modes must produce the same message so the response never
// leaks which half of the pair was wrong.
func TestGateCheck_UniformFailureMessage(t *testing.T) {
	gate := newTestGate(t)

	wrongUser := gate.Check("nobody", "123", RoleUser)
	wrongPass := gate.Check("login", "wrong", RoleUser)

	var appErr1, appErr2 *apperror.AppError
	if !errors.As(wrongUser, &appErr1) || !errors.As(wrongPass, &appErr2) {
		t.Fatal("Check() failures should be AppErrors")
	}
	if appErr1.Message != appErr2.Message {
		t.Errorf("failure messages differ: %q vs %q", appErr1.Message, appErr2.Message)
	}
}
