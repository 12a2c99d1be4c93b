package request

import "time"

type CreateCheckoutRequest struct {
	BookID string `json:"book_id" validate:"required,uuid"`
	// MemberID is optional: admins may check out on behalf of a member.
	MemberID *string    `json:"member_id,omitempty" validate:"omitempty,uuid"`
	DueAt    *time.Time `json:"due_at,omitempty"`
	Notes    *string    `json:"notes,omitempty"`
}

type UpdateCheckoutRequest struct {
	Action string `json:"action" validate:"required,oneof=return extend cancel mark_lost"`
	// Days and NewDueAt apply to extend only; one of the two is required.
	Days     *int       `json:"days,omitempty" validate:"omitempty,gt=0"`
	NewDueAt *time.Time `json:"new_due_at,omitempty"`
	Notes    *string    `json:"notes,omitempty"`
}

type ListCheckoutsRequest struct {
	PaginatedRequest
	Search   *string    `json:"search,omitempty"`
	MemberID *string    `json:"member_id,omitempty" validate:"omitempty,uuid"`
	BookID   *string    `json:"book_id,omitempty" validate:"omitempty,uuid"`
	Status   *string    `json:"status,omitempty"`
	DueFrom  *time.Time `json:"due_from,omitempty"`
	DueTo    *time.Time `json:"due_to,omitempty"`
}
