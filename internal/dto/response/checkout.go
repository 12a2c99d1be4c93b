package response

import (
	"time"

	"library-management/internal/data/entity"
)

type CheckoutResponse struct {
	ID           string                `json:"id"`
	BookID       string                `json:"book_id"`
	MemberID     string                `json:"member_id"`
	Status       entity.CheckoutStatus `json:"status"`
	CheckedOutAt time.Time             `json:"checked_out_at"`
	DueAt        time.Time             `json:"due_at"`
	ReturnedAt   *time.Time            `json:"returned_at,omitempty"`
	Notes        *string               `json:"notes,omitempty"`
}

func CheckoutToResponse(checkout *entity.Checkout) CheckoutResponse {
	return CheckoutResponse{
		ID:           checkout.ID.String(),
		BookID:       checkout.BookID.String(),
		MemberID:     checkout.MemberID.String(),
		Status:       checkout.Status,
		CheckedOutAt: checkout.CheckedOutAt,
		DueAt:        checkout.DueAt,
		ReturnedAt:   checkout.ReturnedAt,
		Notes:        checkout.Notes,
	}
}
