package auth

import (
	"context"
	"net/http"
	"time"
)

// Cookie names for the two identities. A browser can hold both at once:
// being signed in as admin does not sign you out as a user, and vice versa.
const (
	UserCookie  = "breakout_edge_user"
	AdminCookie = "breakout_edge_admin"
)

// contextKey is an unexported type for context keys in this package.
// A package-private type prevents other packages from colliding with or
// shadowing our context values.
type contextKey string

const usernameKey contextKey = "username"

// cookieFor maps a role to the cookie that carries its identity.
func cookieFor(role Role) string {
	if role == RoleAdmin {
		return AdminCookie
	}
	return UserCookie
}

// SetIdentityCookie writes the identity token for the role as an HttpOnly
// cookie. HttpOnly keeps the token out of reach of page scripts.
func SetIdentityCookie(w http.ResponseWriter, role Role, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieFor(role),
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(defaultTokenLifetime / time.Second),
	})
}

// ClearIdentityCookie removes the identity cookie for the role. This is the
// whole of logout: there is no server-side session to tear down.
func ClearIdentityCookie(w http.ResponseWriter, role Role) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieFor(role),
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// RequireUser enforces a valid user identity on API routes. On failure it
// returns 401 with a JSON body and stops the chain. The username is stored
// in the request context for handlers to read.
func RequireUser(tokens *TokenService) func(http.Handler) http.Handler {
	return requireRole(tokens, RoleUser)
}

// RequireAdmin is RequireUser for the admin surface. It only accepts tokens
// issued with the admin role; a user token gets 401 here.
func RequireAdmin(tokens *TokenService) func(http.Handler) http.Handler {
	return requireRole(tokens, RoleAdmin)
}

func requireRole(tokens *TokenService, role Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, err := identityFrom(r, tokens, role)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized","message":"valid authentication required"}`))
				return
			}

			ctx := context.WithValue(r.Context(), usernameKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUserPage guards browser-facing pages: instead of a 401 it redirects
// anonymous visitors to the sign-in page.
func RequireUserPage(tokens *TokenService) func(http.Handler) http.Handler {
	return redirectUnlessRole(tokens, RoleUser, "/login")
}

// RequireAdminPage redirects anonymous visitors to the admin sign-in page.
func RequireAdminPage(tokens *TokenService) func(http.Handler) http.Handler {
	return redirectUnlessRole(tokens, RoleAdmin, "/admin")
}

func redirectUnlessRole(tokens *TokenService, role Role, loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, err := identityFrom(r, tokens, role)
			if err != nil {
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), usernameKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RedirectIfSignedIn sends visitors who already hold a valid identity for
// the role straight to their destination. Used on the sign-in pages so a
// signed-in user cannot land on the login form again.
func RedirectIfSignedIn(tokens *TokenService, role Role, dest string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := identityFrom(r, tokens, role); err == nil {
				http.Redirect(w, r, dest, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UsernameFromContext retrieves the authenticated username from the request
// context. Returns ("", false) if the request carries no valid identity.
func UsernameFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(usernameKey).(string)
	return name, ok && name != ""
}

// identityFrom reads the role's cookie and validates its token.
func identityFrom(r *http.Request, tokens *TokenService, role Role) (string, error) {
	cookie, err := r.Cookie(cookieFor(role))
	if err != nil {
		return "", err
	}
	return tokens.Validate(cookie.Value, role)
}
