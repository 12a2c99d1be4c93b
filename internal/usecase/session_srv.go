package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"library-management/internal/data/entity"
	"library-management/internal/data/repository"
	"library-management/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Stable machine-readable codes for session failures, surfaced in the error
// body so clients can tell "please log in" from "your session timed out".
const (
	CodeNotAuthenticated = "not_authenticated"
	CodeInvalidSession   = "invalid_session"
	CodeIdleExpired      = "idle_expired"
	CodeAbsoluteExpired  = "absolute_expired"
)

// createSessionAttempts bounds the retry against the partial-unique
// constraint race: one retry, then the sign-in fails. Bounded latency beats
// looping on a pathological conflict.
const createSessionAttempts = 2

type SessionService interface {
	// CreateSession mints a new session for the member, revoking any prior
	// active one. After a successful return the new session is the only
	// non-revoked session for the member.
	CreateSession(ctx context.Context, memberID uuid.UUID, userAgent, ipAddr *string) (*entity.Session, error)
	// GetActiveSession returns nil for both missing and revoked sessions.
	GetActiveSession(ctx context.Context, id string) (*entity.Session, error)
	// SlideSession extends the idle window. Call only after validation.
	SlideSession(ctx context.Context, session *entity.Session, now time.Time) error
	// MarkRevoked is idempotent; a second call leaves the row unchanged.
	MarkRevoked(ctx context.Context, session *entity.Session) error
	// RevokeSession revokes by id; reports whether a session existed.
	RevokeSession(ctx context.Context, id string) (bool, error)
	// RevokeAllForMember is the "log out everywhere" bulk revoke.
	RevokeAllForMember(ctx context.Context, memberID uuid.UUID) (int64, error)
	// Now is the service clock, normalized to UTC.
	Now() time.Time
}

type sessionService struct {
	repo repository.SessionRepository
	log  *zap.Logger

	// now is swappable so tests can pin the clock.
	now func() time.Time
}

func NewSessionService(repo repository.SessionRepository, log *zap.Logger) SessionService {
	return &sessionService{
		repo: repo,
		log:  log.With(zap.String("service", "session")),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *sessionService) Now() time.Time {
	return s.now()
}

func (s *sessionService) CreateSession(ctx context.Context, memberID uuid.UUID, userAgent, ipAddr *string) (*entity.Session, error) {
	now := s.now()

	var lastErr error
	for attempt := 1; attempt <= createSessionAttempts; attempt++ {
		id, err := utils.GenerateSessionID()
		if err != nil {
			return nil, err
		}

		session := &entity.Session{
			ID:           id,
			MemberID:     memberID,
			CreatedAt:    now,
			LastActiveAt: now,
			UserAgent:    userAgent,
			IPAddress:    ipAddr,
		}

		err = s.repo.CreateExclusive(ctx, session)
		if err == nil {
			s.log.Info("Session created",
				zap.String("member_id", memberID.String()),
				zap.Int("attempt", attempt),
			)
			return session, nil
		}

		if !errors.Is(err, repository.ErrSessionConflict) {
			return nil, err
		}

		// A concurrent sign-in won the insert race; revoke-and-insert again.
		lastErr = err
	}

	s.log.Error("Session creation failed after retries",
		zap.String("member_id", memberID.String()),
		zap.Error(lastErr),
	)
	return nil, fmt.Errorf("create session for member %s: %w", memberID.String(), lastErr)
}

func (s *sessionService) GetActiveSession(ctx context.Context, id string) (*entity.Session, error) {
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil || session.Revoked {
		return nil, nil
	}
	return session, nil
}

func (s *sessionService) SlideSession(ctx context.Context, session *entity.Session, now time.Time) error {
	now = now.UTC()

	// last_active_at never regresses, and never drops below created_at.
	if now.Before(session.LastActiveAtUTC()) {
		return nil
	}
	if now.Before(session.CreatedAtUTC()) {
		return nil
	}

	session.LastActiveAt = now
	return s.repo.Update(ctx, session)
}

func (s *sessionService) MarkRevoked(ctx context.Context, session *entity.Session) error {
	if session.Revoked {
		// Back-fill revoked_at if a previous write somehow lost it.
		if session.RevokedAt == nil {
			now := s.now()
			session.RevokedAt = &now
			return s.repo.Update(ctx, session)
		}
		return nil
	}

	now := s.now()
	session.Revoked = true
	session.RevokedAt = &now

	if err := s.repo.Update(ctx, session); err != nil {
		return err
	}

	s.log.Info("Session revoked",
		zap.String("member_id", session.MemberID.String()),
	)
	return nil
}

func (s *sessionService) RevokeSession(ctx context.Context, id string) (bool, error) {
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	if session == nil {
		return false, nil
	}
	if err := s.MarkRevoked(ctx, session); err != nil {
		return false, err
	}
	return true, nil
}

func (s *sessionService) RevokeAllForMember(ctx context.Context, memberID uuid.UUID) (int64, error) {
	count, err := s.repo.RevokeAllActiveForMember(ctx, memberID, s.now())
	if err != nil {
		return 0, err
	}

	if count > 0 {
		s.log.Info("All sessions revoked for member",
			zap.String("member_id", memberID.String()),
			zap.Int64("count", count),
		)
	}
	return count, nil
}
