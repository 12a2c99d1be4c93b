package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session is one authenticated client context for a member. The ID itself is
// the bearer credential carried in the session cookie, so it must be random
// and unguessable. At most one session per member may have Revoked = false;
// the sessions table enforces this with a partial unique index on member_id.
type Session struct {
	ID           string     `db:"id"`
	MemberID     uuid.UUID  `db:"member_id"`
	CreatedAt    time.Time  `db:"created_at"`
	LastActiveAt time.Time  `db:"last_active_at"`
	UserAgent    *string    `db:"user_agent"`
	IPAddress    *string    `db:"ip_address"`
	Revoked      bool       `db:"revoked"`
	RevokedAt    *time.Time `db:"revoked_at"`
}

// CreatedAtUTC normalizes the stored timestamp before timeout math so that
// comparisons never mix zones.
func (s *Session) CreatedAtUTC() time.Time {
	return s.CreatedAt.UTC()
}

func (s *Session) LastActiveAtUTC() time.Time {
	return s.LastActiveAt.UTC()
}
