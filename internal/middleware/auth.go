package middleware

import (
	"net/http"
	"strings"

	"github.com/anttituomola/tampereensaunalautat-sub000/internal/ctxkeys"
	"github.com/anttituomola/tampereensaunalautat-sub000/internal/service"
)

// RequireAuth validates the bearer JWT and attaches the caller's identity to
// the request context. A missing header is 401; a malformed header, or an
// expired or badly signed token, is 403.
func RequireAuth(authService *service.AuthService) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				errorJSON(w, http.StatusUnauthorized, "Kirjautuminen vaaditaan")
				return
			}

			raw := extractBearer(header)
			if raw == "" {
				errorJSON(w, http.StatusForbidden, "Virheellinen tai vanhentunut kirjautuminen")
				return
			}

			claims, err := authService.VerifyJWT(raw)
			if err != nil {
				errorJSON(w, http.StatusForbidden, "Virheellinen tai vanhentunut kirjautuminen")
				return
			}

			identity := &ctxkeys.Identity{
				UserID:  claims.UserID,
				Email:   claims.Email,
				IsAdmin: claims.IsAdmin,
			}
			next(w, r.WithContext(ctxkeys.WithUser(r.Context(), identity)))
		}
	}
}

// extractBearer pulls the token out of an "Authorization: Bearer x" header.
func extractBearer(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
