package middleware

import (
	"fmt"
	"net/http"

	"library-management/internal/data/repository"
	"library-management/internal/usecase"
	"library-management/pkg/utils"

	"go.uber.org/zap"
)

// RequireSession gates a request on a valid session cookie. Absolute expiry
// is checked before idle expiry: a session past its hard lifetime must never
// be resurrected just because it was recently active. Expired sessions are
// revoked on detection so a stale credential cannot flip back to valid.
func RequireSession(sessions usecase.SessionService, cfg utils.SessionConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cfg.CookieName)
			if err != nil || cookie.Value == "" {
				utils.ResponseUnauthorizedCode(w, usecase.CodeNotAuthenticated, "Session cookie is required")
				return
			}
			sid := cookie.Value

			session, err := sessions.GetActiveSession(r.Context(), sid)
			if err != nil {
				logger.Error("Failed to validate session", zap.Error(err))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			// Revoked and never-existed are deliberately indistinguishable.
			if session == nil {
				utils.ResponseUnauthorizedCode(w, usecase.CodeInvalidSession, "Session is invalid or expired")
				return
			}

			now := sessions.Now()

			if now.Sub(session.CreatedAtUTC()) > cfg.AbsoluteTimeout() {
				// Best effort: the read-side check already decided expiry, so
				// the request fails closed even if the revoke write fails.
				if err := sessions.MarkRevoked(r.Context(), session); err != nil {
					logger.Error("Failed to revoke absolutely expired session", zap.Error(err))
				}
				utils.ResponseUnauthorizedCode(w, usecase.CodeAbsoluteExpired, "Session expired. Please sign in again")
				return
			}

			idleElapsed := now.Sub(session.LastActiveAtUTC())
			if idleElapsed > cfg.IdleTimeout() {
				if err := sessions.MarkRevoked(r.Context(), session); err != nil {
					logger.Error("Failed to revoke idle expired session", zap.Error(err))
				}
				utils.ResponseUnauthorizedCode(w, usecase.CodeIdleExpired, "Session expired due to inactivity")
				return
			}

			if cfg.SendIdleRemainingHeader {
				remaining := int((cfg.IdleTimeout() - idleElapsed).Seconds())
				if remaining < 0 {
					remaining = 0
				}
				w.Header().Set("X-Session-Idle-Remaining", fmt.Sprintf("%d", remaining))
			}

			// Concurrent requests with the same sid race only on this write;
			// last-writer-wins is fine, so a failed slide does not fail the
			// request.
			if err := sessions.SlideSession(r.Context(), session, now); err != nil {
				logger.Warn("Failed to slide session", zap.Error(err))
			}

			ctx := utils.SetMemberContext(r.Context(), session.MemberID)
			ctx = utils.SetSessionContext(ctx, sid)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Admin requires the authenticated member to hold the admin role. Must run
// after RequireSession.
func Admin(memberRepo repository.MemberRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			memberID, ok := utils.GetMemberIDFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			member, err := memberRepo.FindByID(r.Context(), memberID)
			if err != nil {
				logger.Error("Admin check: failed to get member",
					zap.Error(err), zap.String("member_id", memberID.String()))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			if member == nil || member.Role != "admin" {
				logger.Warn("Admin check: non-admin access attempt",
					zap.String("member_id", memberID.String()),
					zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, "Administrator privileges required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
