package adaptor

import (
	"library-management/internal/data/repository"
	"library-management/internal/usecase"
	"library-management/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth     *AuthHandler
	Member   *MemberHandler
	Book     *BookHandler
	Checkout *CheckoutHandler
	Activity *ActivityHandler
}

func NewHandler(service *usecase.Service, repo *repository.Repository, config *utils.Config, log *zap.Logger) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(service.Auth, service.Token, config.Session, log),
		Member:   NewMemberHandler(service.Member, log),
		Book:     NewBookHandler(service.Book, log),
		Checkout: NewCheckoutHandler(service.Checkout, repo.Member, log),
		Activity: NewActivityHandler(),
	}
}
