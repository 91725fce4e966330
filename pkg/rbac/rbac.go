// Package rbac provides role-based access control middleware.
package rbac

import (
	"net/http"

	"github.com/allmart/storefront/pkg/middleware"
	"github.com/allmart/storefront/pkg/response"
)

// HasRole returns middleware that allows access only to users with one of
// the given roles. Requires middleware.Authenticate to have already run.
func HasRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := middleware.RoleFromCtx(r)
			if !ok || !allowed[role] {
				response.Forbidden(w, "Insufficient privileges")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Guest blocks authenticated users (useful for login/register endpoints).
func Guest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.UserFromCtx(r); ok {
			response.Conflict(w, "Already authenticated")
			return
		}
		next.ServeHTTP(w, r)
	})
}
