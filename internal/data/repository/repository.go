package repository

import (
	"library-management/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Member   MemberRepository
	Book     BookRepository
	Checkout CheckoutRepository
	Session  SessionRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Member:   NewMemberRepository(db, log),
		Book:     NewBookRepository(db, log),
		Checkout: NewCheckoutRepository(db, log),
		Session:  NewSessionRepository(db, log),
	}
}
