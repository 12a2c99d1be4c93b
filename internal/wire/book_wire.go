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

func wireBook(
	r chi.Router,
	bookHandler *adaptor.BookHandler,
	service *usecase.Service,
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) {
	requireSession := middleware.RequireSession(service.Session, config.Session, log)
	requireAdmin := middleware.Admin(repo.Member, log)

	// ==================== PROTECTED ROUTES ====================
	// Browsing the catalog still needs a signed-in member.
	r.With(requireSession).Get("/api/books", bookHandler.GetAllBooks)
	r.With(requireSession).Get("/api/books/{id}", bookHandler.GetBookByID)

	// ==================== ADMIN ROUTES ====================
	r.With(requireSession, requireAdmin).Post("/api/admin/books", bookHandler.CreateBook)
	r.With(requireSession, requireAdmin).Patch("/api/admin/books/{id}", bookHandler.UpdateBook)
	r.With(requireSession, requireAdmin).Delete("/api/admin/books/{id}", bookHandler.DeleteBook)
}
