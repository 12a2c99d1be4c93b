package entity

import (
	"time"

	"github.com/google/uuid"
)

// BaseNoDelete is the common identity and audit trail for rows that are
// removed with hard deletes.
type BaseNoDelete struct {
	ID        uuid.UUID `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
