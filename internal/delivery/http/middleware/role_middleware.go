package middleware

import (
	"net/http"

	"clinic-slot-engine/pkg/jwt"
	"clinic-slot-engine/pkg/response"
)

// RequireRole lets a request through when the role set by AuthMiddleware is one of
// allowedRoles.
func RequireRole(allowedRoles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, role := range allowedRoles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := GetRoleFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Role information not found")
				return
			}
			if _, ok := allowed[role]; !ok {
				response.Forbidden(w, "Role "+role+" cannot manage schedules or slots")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin guards schedule, slot and audit administration.
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(jwt.RoleAdmin)(next)
}
