package entity

import (
	"time"

	"github.com/google/uuid"
)

type CheckoutStatus string

const (
	CheckoutStatusCheckedOut CheckoutStatus = "checked_out"
	CheckoutStatusReturned   CheckoutStatus = "returned"
	CheckoutStatusOverdue    CheckoutStatus = "overdue"
	CheckoutStatusLost       CheckoutStatus = "lost"
	CheckoutStatusCancelled  CheckoutStatus = "cancelled"
)

// Active means the book is still out: checked_out or overdue.
func (s CheckoutStatus) Active() bool {
	return s == CheckoutStatusCheckedOut || s == CheckoutStatusOverdue
}

type Checkout struct {
	BaseNoDelete
	BookID       uuid.UUID      `db:"book_id"`
	MemberID     uuid.UUID      `db:"member_id"`
	Status       CheckoutStatus `db:"status"`
	CheckedOutAt time.Time      `db:"checked_out_at"`
	DueAt        time.Time      `db:"due_at"`
	ReturnedAt   *time.Time     `db:"returned_at"`
	Notes        *string        `db:"notes"`
}
