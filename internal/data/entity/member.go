package entity

type MemberRole string

const (
	RoleUser  MemberRole = "user"
	RoleAdmin MemberRole = "admin"
)

type Member struct {
	BaseNoDelete
	Email        string     `db:"email"`
	DisplayName  string     `db:"display_name"`
	PasswordHash string     `db:"password_hash"`
	Role         MemberRole `db:"role"`
	AvatarURL    *string    `db:"avatar_url"`
	Bio          *string    `db:"bio"`
	Location     *string    `db:"location"`
}
