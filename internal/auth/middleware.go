package auth

import (
	"net/http"
	"strings"
	"time"

	pkghttp "github.com/casadocarlos/matriculas/pkg/http"
)

// RequireSession gates a route group behind bearer-token session
// validation. When enabled is false (no admin password configured) every
// request passes through unauthenticated; that open fallback is announced
// once at startup. Preflight requests always pass so CORS keeps working for
// browsers that have not logged in yet.
//
// The rejection body is identical for missing, malformed and expired
// tokens.
func RequireSession(sessions *SessionStore, enabled bool) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" || !sessions.Validate(token, time.Now()) {
				pkghttp.WriteUnauthorized(w, "Não autorizado")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
