package wire

import (
	"library-management/internal/adaptor"
	"library-management/internal/usecase"
	"library-management/pkg/middleware"
	"library-management/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	activityHandler *adaptor.ActivityHandler,
	service *usecase.Service,
	config *utils.Config,
	log *zap.Logger,
) {
	requireSession := middleware.RequireSession(service.Session, config.Session, log)

	// ==================== PUBLIC ROUTES ====================
	r.Post("/api/auth/signup", authHandler.SignUp)
	r.Post("/api/auth/signin", authHandler.SignIn)
	r.Post("/api/auth/refresh", authHandler.Refresh)

	// ==================== PROTECTED ROUTES ====================
	r.With(requireSession).Get("/api/auth/me", authHandler.Me)
	r.With(requireSession).Post("/api/auth/signout", authHandler.SignOut)
	r.With(requireSession).Post("/api/auth/signout-all", authHandler.SignOutEverywhere)

	// Heartbeat exists so clients can extend the idle window without touching
	// domain data.
	r.With(requireSession).Post("/api/activity/heartbeat", activityHandler.Heartbeat)

	// ==================== TOKEN MODE ====================
	// Stateless access for API clients holding a JWT pair.
	r.With(middleware.RequireBearer(service.Token, log)).Get("/api/token/me", authHandler.Me)
}
