package response

import (
	"time"

	"library-management/internal/data/entity"
)

type MemberResponse struct {
	ID          string            `json:"id"`
	Email       string            `json:"email"`
	DisplayName string            `json:"display_name"`
	Role        entity.MemberRole `json:"role"`
	AvatarURL   *string           `json:"avatar_url,omitempty"`
	Bio         *string           `json:"bio,omitempty"`
	Location    *string           `json:"location,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// AuthResponse carries the signed-in member plus the stateless token pair for
// API clients. The cookie-backed session id travels in Set-Cookie, never in
// the body.
type AuthResponse struct {
	Member       MemberResponse `json:"member"`
	AccessToken  string         `json:"access_token,omitempty"`
	RefreshToken string         `json:"refresh_token,omitempty"`
}

type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func MemberToResponse(member *entity.Member) MemberResponse {
	return MemberResponse{
		ID:          member.ID.String(),
		Email:       member.Email,
		DisplayName: member.DisplayName,
		Role:        member.Role,
		AvatarURL:   member.AvatarURL,
		Bio:         member.Bio,
		Location:    member.Location,
		CreatedAt:   member.CreatedAt,
	}
}
