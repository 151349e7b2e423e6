// Package middleware holds the HTTP auth gate. RequireAuth establishes the
// session from the token cookie; RequireRole and RequireActiveSubscription
// layer authorization checks on top of it.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"app/internal/api/v1/response"
	"app/internal/apperr"
	"app/internal/model"
	"app/internal/repository"
	"app/internal/token"
)

// CookieName is the session cookie the auth gate reads and handlers set.
const CookieName = "token"

type contextKey int

const claimsKey contextKey = iota

// ClaimsFromContext returns the verified session claims stored by RequireAuth.
func ClaimsFromContext(ctx context.Context) (*token.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*token.Claims)
	return claims, ok
}

// RequireAuth verifies the session token from the cookie, falling back to a
// Bearer header, and stores the claims in the request context. Requests
// without a valid token get 401.
func RequireAuth(maker token.Maker, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := tokenFromRequest(r)
			if raw == "" {
				response.Error(w, apperr.E(apperr.Authentication, "please login first"), false)
				return
			}
			claims, err := maker.Verify(raw)
			if err != nil {
				logger.Debug().Err(err).Str("path", r.URL.Path).Msg("Rejected session token")
				response.Error(w, err, false)
				return
			}
			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole allows the request through only when the session role is one of
// roles. It must run after RequireAuth.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				response.Error(w, apperr.E(apperr.Authentication, "please login first"), false)
				return
			}
			for _, role := range roles {
				if claims.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			response.Error(w, apperr.E(apperr.Authorization, "you are not authorized to access this resource"), false)
		})
	}
}

// RequireActiveSubscription re-reads the user record and allows the request
// only when the stored subscription is active. The token's subscription
// snapshot is never trusted here because it can be stale. Admins pass
// without a subscription.
func RequireActiveSubscription(userRepo repository.UserRepository, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				response.Error(w, apperr.E(apperr.Authentication, "please login first"), false)
				return
			}
			if claims.Role == model.RoleAdmin {
				next.ServeHTTP(w, r)
				return
			}
			user, err := userRepo.GetUserByID(r.Context(), claims.UserID)
			if err != nil {
				response.Error(w, apperr.Wrap(apperr.Internal, "failed to load user", err), false)
				return
			}
			if user == nil {
				response.Error(w, apperr.E(apperr.Authentication, "please login first"), false)
				return
			}
			if !user.HasActiveSubscription() {
				logger.Debug().Str("user_id", user.ID).Msg("Blocked unsubscribed access to paid content")
				response.Error(w, apperr.E(apperr.Authorization, "please subscribe to access this resource"), false)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RejectIfAuthenticated blocks login and register for callers that already
// carry a valid session.
func RejectIfAuthenticated(maker token.Maker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if raw := tokenFromRequest(r); raw != "" {
				if _, err := maker.Verify(raw); err == nil {
					response.Error(w, apperr.E(apperr.Validation, "you are already logged in"), false)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}
