package middleware

import (
	"net/http"
	"strings"

	"library-management/internal/usecase"
	"library-management/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequireBearer gates a request on a JWT access token. This is the stateless
// alternative to the cookie session: nothing is checked against the database,
// so a token stays usable until it expires even after a sign-out.
func RequireBearer(tokens usecase.TokenService, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.ResponseUnauthorizedCode(w, usecase.CodeNotAuthenticated, "Bearer token is required")
				return
			}

			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenStr == authHeader || tokenStr == "" {
				utils.ResponseUnauthorizedCode(w, usecase.CodeNotAuthenticated, "Bearer token is required")
				return
			}

			subject, err := tokens.ParseAccess(tokenStr)
			if err != nil {
				logger.Warn("Bearer token rejected", zap.Error(err))
				utils.ResponseUnauthorizedCode(w, usecase.CodeInvalidSession, "Token is invalid or expired")
				return
			}

			memberID, err := uuid.Parse(subject)
			if err != nil {
				logger.Warn("Bearer token with bad subject", zap.Error(err))
				utils.ResponseUnauthorizedCode(w, usecase.CodeInvalidSession, "Token is invalid or expired")
				return
			}

			ctx := utils.SetMemberContext(r.Context(), memberID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
