package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"library-management/internal/data/entity"
	"library-management/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// ErrSessionConflict is returned by CreateExclusive when the partial unique
// index uq_sessions_member_active rejects the insert. That only happens when
// a concurrent sign-in for the same member committed between our revoke and
// insert; callers are expected to retry the whole sequence.
var ErrSessionConflict = errors.New("another active session exists for this member")

// pgUniqueViolation is the Postgres error code for unique_violation.
const pgUniqueViolation = "23505"

type SessionRepository interface {
	// CreateExclusive revokes every active session for the member and inserts
	// the new one inside a single transaction, so the single-active-session
	// invariant holds at commit.
	CreateExclusive(ctx context.Context, session *entity.Session) error
	FindByID(ctx context.Context, id string) (*entity.Session, error)
	Update(ctx context.Context, session *entity.Session) error
	RevokeAllActiveForMember(ctx context.Context, memberID uuid.UUID, at time.Time) (int64, error)
	DeleteRevokedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type sessionRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSessionRepository(db database.PgxIface, log *zap.Logger) SessionRepository {
	return &sessionRepository{
		db:  db,
		log: log.With(zap.String("repository", "session")),
	}
}

func (r *sessionRepository) CreateExclusive(ctx context.Context, session *entity.Session) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		r.log.Error("Failed to begin session transaction", zap.Error(err))
		return fmt.Errorf("begin session transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	revoke := `
		UPDATE sessions
		SET revoked = TRUE, revoked_at = $2
		WHERE member_id = $1 AND revoked = FALSE
	`

	if _, err := tx.Exec(ctx, revoke, session.MemberID, session.CreatedAt); err != nil {
		r.log.Error("Failed to revoke prior sessions",
			zap.Error(err),
			zap.String("member_id", session.MemberID.String()),
		)
		return fmt.Errorf("revoke prior sessions for member %s: %w", session.MemberID.String(), err)
	}

	insert := `
		INSERT INTO sessions (id, member_id, created_at, last_active_at,
		                     user_agent, ip_address, revoked)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE)
	`

	_, err = tx.Exec(ctx, insert,
		session.ID,
		session.MemberID,
		session.CreatedAt,
		session.LastActiveAt,
		session.UserAgent,
		session.IPAddress,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			r.log.Warn("Session insert lost the constraint race",
				zap.String("member_id", session.MemberID.String()),
				zap.String("constraint", pgErr.ConstraintName),
			)
			return ErrSessionConflict
		}
		r.log.Error("Failed to insert session",
			zap.Error(err),
			zap.String("member_id", session.MemberID.String()),
		)
		return fmt.Errorf("insert session for member %s: %w", session.MemberID.String(), err)
	}

	if err := tx.Commit(ctx); err != nil {
		r.log.Error("Failed to commit session transaction", zap.Error(err))
		return fmt.Errorf("commit session transaction: %w", err)
	}

	return nil
}

func (r *sessionRepository) FindByID(ctx context.Context, id string) (*entity.Session, error) {
	query := `
		SELECT id, member_id, created_at, last_active_at,
		       user_agent, ip_address, revoked, revoked_at
		FROM sessions
		WHERE id = $1
	`

	var session entity.Session
	err := r.db.QueryRow(ctx, query, id).Scan(
		&session.ID,
		&session.MemberID,
		&session.CreatedAt,
		&session.LastActiveAt,
		&session.UserAgent,
		&session.IPAddress,
		&session.Revoked,
		&session.RevokedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find session", zap.Error(err))
		return nil, fmt.Errorf("find session: %w", err)
	}

	return &session, nil
}

func (r *sessionRepository) Update(ctx context.Context, session *entity.Session) error {
	query := `
		UPDATE sessions
		SET last_active_at = $2, revoked = $3, revoked_at = $4
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		session.ID,
		session.LastActiveAt,
		session.Revoked,
		session.RevokedAt,
	)

	if err != nil {
		r.log.Error("Failed to update session",
			zap.Error(err),
			zap.String("member_id", session.MemberID.String()),
		)
		return fmt.Errorf("update session: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("session not found")
	}

	return nil
}

func (r *sessionRepository) RevokeAllActiveForMember(ctx context.Context, memberID uuid.UUID, at time.Time) (int64, error) {
	query := `
		UPDATE sessions
		SET revoked = TRUE, revoked_at = $2
		WHERE member_id = $1 AND revoked = FALSE
	`

	result, err := r.db.Exec(ctx, query, memberID, at)
	if err != nil {
		r.log.Error("Failed to revoke member sessions",
			zap.Error(err),
			zap.String("member_id", memberID.String()),
		)
		return 0, fmt.Errorf("revoke sessions for member %s: %w", memberID.String(), err)
	}

	// Zero rows affected is fine: revocation is idempotent.
	return result.RowsAffected(), nil
}

func (r *sessionRepository) DeleteRevokedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `
		DELETE FROM sessions
		WHERE revoked = TRUE AND revoked_at < $1
	`

	result, err := r.db.Exec(ctx, query, cutoff)
	if err != nil {
		r.log.Error("Failed to delete revoked sessions", zap.Error(err))
		return 0, fmt.Errorf("delete revoked sessions: %w", err)
	}

	return result.RowsAffected(), nil
}
