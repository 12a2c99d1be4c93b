package wire

import (
	"net/http"

	"library-management/internal/adaptor"
	"library-management/internal/data/repository"
	"library-management/internal/usecase"
	"library-management/pkg/middleware"
	"library-management/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the wired HTTP surface
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring initializes services, handlers, and routes
func Wiring(repo *repository.Repository, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(repo, config, logger)
	handler := adaptor.NewHandler(service, repo, config, logger)

	router := setupRouter(handler, service, repo, config, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

// setupRouter configures the Chi router
func setupRouter(
	handler *adaptor.Handler,
	service *usecase.Service,
	repo *repository.Repository,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	// Apply routes
	wireAuth(r, handler.Auth, handler.Activity, service, config, logger)
	wireMember(r, handler.Member, service, repo, config, logger)
	wireBook(r, handler.Book, service, repo, config, logger)
	wireCheckout(r, handler.Checkout, service, repo, config, logger)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
