package wire

import (
	"library-management/internal/adaptor"
	"library-management/internal/data/repository"
	"library-management/internal/usecase"
	"library-management/pkg/middleware"
	"library-management/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireCheckout(
	r chi.Router,
	checkoutHandler *adaptor.CheckoutHandler,
	service *usecase.Service,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	requireSession := middleware.RequireSession(service.Session, config.Session, log)
	requireAdmin := middleware.Admin(repo.Member, log)

	// ==================== PROTECTED ROUTES ====================
	r.With(requireSession).Post("/api/checkouts", checkoutHandler.CreateCheckout)
	r.With(requireSession).Get("/api/checkouts", checkoutHandler.GetAllCheckouts)
	r.With(requireSession).Get("/api/checkouts/{id}", checkoutHandler.GetCheckoutByID)
	r.With(requireSession).Patch("/api/checkouts/{id}", checkoutHandler.UpdateCheckout)

	// ==================== ADMIN ROUTES ====================
	r.With(requireSession, requireAdmin).Delete("/api/admin/checkouts/{id}", checkoutHandler.DeleteCheckout)
}
