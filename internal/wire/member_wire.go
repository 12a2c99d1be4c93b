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

func wireMember(
	r chi.Router,
	memberHandler *adaptor.MemberHandler,
	service *usecase.Service,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	requireSession := middleware.RequireSession(service.Session, config.Session, log)
	requireAdmin := middleware.Admin(repo.Member, log)

	// ==================== PROTECTED ROUTES ====================
	r.With(requireSession).Get("/api/members/profile", memberHandler.GetProfile)
	r.With(requireSession).Patch("/api/members/profile", memberHandler.UpdateProfile)
	r.With(requireSession).Delete("/api/members/profile", memberHandler.DeleteAccount(config.Session))

	// ==================== ADMIN ROUTES ====================
	r.With(requireSession, requireAdmin).Get("/api/admin/members", memberHandler.GetAllMembers)
	r.With(requireSession, requireAdmin).Post("/api/admin/members", memberHandler.CreateMember)
	r.With(requireSession, requireAdmin).Get("/api/admin/members/{id}", memberHandler.GetMemberByID)
	r.With(requireSession, requireAdmin).Patch("/api/admin/members/{id}", memberHandler.UpdateMember)
	r.With(requireSession, requireAdmin).Delete("/api/admin/members/{id}", memberHandler.DeleteMember)
}
