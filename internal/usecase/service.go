package usecase

import (
	"library-management/internal/data/repository"
	"library-management/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Session  SessionService
	Token    TokenService
	Auth     AuthService
	Member   MemberService
	Book     BookService
	Checkout CheckoutService
}

func NewService(repo *repository.Repository, config *utils.Config, log *zap.Logger) *Service {
	sessions := NewSessionService(repo.Session, log)
	tokens := NewTokenService(config.JWT, log)

	return &Service{
		Session:  sessions,
		Token:    tokens,
		Auth:     NewAuthService(repo, sessions, tokens, log),
		Member:   NewMemberService(repo, sessions, log),
		Book:     NewBookService(repo, log),
		Checkout: NewCheckoutService(repo, log),
	}
}
