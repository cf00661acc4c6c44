package handlers

import (
	"context"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"brightsteps/internal/models"
	"brightsteps/internal/security"
	"brightsteps/internal/service"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

const KidContextKey ContextKey = "kid"

// Middleware holds dependencies for middleware functions.
type Middleware struct {
	authService *service.AuthService
	limiter     *security.RateLimiter
	csrf        *security.CSRFGenerator
}

// NewMiddleware creates a new middleware instance.
func NewMiddleware(authService *service.AuthService, limiter *security.RateLimiter, csrf *security.CSRFGenerator) *Middleware {
	return &Middleware{
		authService: authService,
		limiter:     limiter,
		csrf:        csrf,
	}
}

// RequireKid requires a valid kid session cookie and puts the kid on the
// request context.
func (m *Middleware) RequireKid(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(KidSessionCookieName)
		if err != nil {
			respondJSON(w, http.StatusUnauthorized, errorResponse{Error: ErrUnauthorized})
			return
		}

		kid, err := m.authService.ValidateSession(cookie.Value)
		if err != nil {
			http.SetCookie(w, security.CreateDeleteCookie(r, KidSessionCookieName))
			respondJSON(w, http.StatusUnauthorized, errorResponse{Error: ErrUnauthorized})
			return
		}

		ctx := context.WithValue(r.Context(), KidContextKey, kid)
		next(w, r.WithContext(ctx))
	}
}

// RequireParentToken requires a bearer token minted by the parent PIN
// check. Used on destructive endpoints.
func (m *Middleware) RequireParentToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			respondJSON(w, http.StatusForbidden, errorResponse{Error: ErrForbidden})
			return
		}

		if err := m.authService.ValidateParentToken(token); err != nil {
			respondJSON(w, http.StatusForbidden, errorResponse{Error: ErrForbidden})
			return
		}

		next(w, r)
	}
}

// CSRFProtect requires the session's CSRF token in the request header
// on cookie-authenticated mutations. The token is issued at login and
// derived from the session ID, so a cross-site request that rides the
// cookie alone is rejected.
func (m *Middleware) CSRFProtect(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(KidSessionCookieName)
		if err != nil {
			respondJSON(w, http.StatusForbidden, errorResponse{Error: ErrForbidden})
			return
		}

		if !m.csrf.ValidateToken(cookie.Value, r.Header.Get(CSRFTokenHeader)) {
			respondJSON(w, http.StatusForbidden, errorResponse{Error: ErrForbidden})
			return
		}

		next(w, r)
	}
}

// RequireParentTokenIfPINSet gates an endpoint behind a parent token
// only once a parent PIN exists. The first PIN setup stays open so the
// gate can be bootstrapped.
func (m *Middleware) RequireParentTokenIfPINSet(next http.HandlerFunc) http.HandlerFunc {
	gated := m.RequireParentToken(next)
	return func(w http.ResponseWriter, r *http.Request) {
		hasPIN, err := m.authService.HasParentPIN()
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Failed to check parent PIN", err)
			return
		}
		if hasPIN {
			gated(w, r)
			return
		}
		next(w, r)
	}
}

// RateLimit throttles requests per client IP.
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !m.limiter.Allow(clientIP(r)) {
			respondJSON(w, http.StatusTooManyRequests, errorResponse{Error: ErrTooManyRequests})
			return
		}
		next(w, r)
	}
}

// Logging logs each request with its duration.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// GetKidFromContext returns the signed-in kid, or nil.
func GetKidFromContext(ctx context.Context) *models.Kid {
	kid, _ := ctx.Value(KidContextKey).(*models.Kid)
	return kid
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if i := strings.IndexByte(forwarded, ','); i >= 0 {
			return strings.TrimSpace(forwarded[:i])
		}
		return strings.TrimSpace(forwarded)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
