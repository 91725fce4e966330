package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/allmart/storefront/pkg/auth"
	"github.com/allmart/storefront/pkg/response"
	"github.com/allmart/storefront/pkg/session"
)

type userKey struct{}
type roleKey struct{}

// Session keys written by the auth service on sign-in.
const (
	SessionUserKey = "user_email"
	SessionRoleKey = "user_role"
)

// Authenticate resolves the caller's identity and injects it into the
// request context. It accepts either a server session (browser clients)
// or a Bearer JWT (API clients). Unknown callers pass through anonymous;
// use RequireAuth to reject them.
func Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromCtx(r)
		if email, ok := sess.GetString(SessionUserKey); ok && email != "" {
			role, _ := sess.GetString(SessionRoleKey)
			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), email, role)))
			return
		}

		if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
			token := strings.TrimPrefix(header, "Bearer ")
			if claims, err := auth.ValidateToken(token); err == nil {
				next.ServeHTTP(w, r.WithContext(withUser(r.Context(), claims.Email, claims.Role)))
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// RequireAuth rejects requests with no authenticated user (401).
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFromCtx(r); !ok {
			response.Unauthorized(w, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func withUser(ctx context.Context, email, role string) context.Context {
	ctx = context.WithValue(ctx, userKey{}, email)
	return context.WithValue(ctx, roleKey{}, role)
}

// UserFromCtx returns the authenticated user's email.
func UserFromCtx(r *http.Request) (string, bool) {
	email, ok := r.Context().Value(userKey{}).(string)
	return email, ok && email != ""
}

// RoleFromCtx returns the authenticated user's role.
func RoleFromCtx(r *http.Request) (string, bool) {
	role, ok := r.Context().Value(roleKey{}).(string)
	return role, ok && role != ""
}
