package request

type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name,omitempty" validate:"omitempty,min=2,max=100"`
	AvatarURL   *string `json:"avatar_url,omitempty" validate:"omitempty,max=512"`
	Bio         *string `json:"bio,omitempty"`
	Location    *string `json:"location,omitempty" validate:"omitempty,max=255"`
}

type AdminCreateMemberRequest struct {
	Email       string  `json:"email" validate:"required,email"`
	DisplayName string  `json:"display_name" validate:"required,min=2,max=100"`
	Password    string  `json:"password" validate:"required,min=8"`
	Role        *string `json:"role,omitempty" validate:"omitempty,oneof=user admin"`
}

type AdminUpdateMemberRequest struct {
	DisplayName *string `json:"display_name,omitempty" validate:"omitempty,min=2,max=100"`
	AvatarURL   *string `json:"avatar_url,omitempty" validate:"omitempty,max=512"`
	Bio         *string `json:"bio,omitempty"`
	Location    *string `json:"location,omitempty" validate:"omitempty,max=255"`
	Role        *string `json:"role,omitempty" validate:"omitempty,oneof=user admin"`
}
