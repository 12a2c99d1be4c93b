package worker

import (
	"context"
	"time"

	"library-management/internal/data/repository"

	"go.uber.org/zap"
)

// reapInterval is how often revoked sessions are swept. Revoked rows are only
// audit residue, so a daily pass is plenty.
const reapInterval = 24 * time.Hour

// SessionReaper deletes revoked sessions older than the retention window.
// Active sessions are never touched; expiry is handled lazily on the read
// path, the reaper only keeps the table from growing forever.
type SessionReaper struct {
	sessions  repository.SessionRepository
	retention time.Duration
	log       *zap.Logger
}

func NewSessionReaper(sessions repository.SessionRepository, retentionDays int, log *zap.Logger) *SessionReaper {
	return &SessionReaper{
		sessions:  sessions,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		log:       log.With(zap.String("worker", "session_reaper")),
	}
}

// Run sweeps once immediately and then on every tick until the context is
// cancelled. Call it in its own goroutine.
func (r *SessionReaper) Run(ctx context.Context) {
	r.log.Info("Session reaper started", zap.Duration("retention", r.retention))

	r.sweep(ctx)

	ticker := time.NewTicker(reapInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info("Session reaper stopped")
			return
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

func (r *SessionReaper) sweep(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-r.retention)

	deleted, err := r.sessions.DeleteRevokedBefore(ctx, cutoff)
	if err != nil {
		r.log.Error("Failed to reap revoked sessions", zap.Error(err))
		return
	}

	if deleted > 0 {
		r.log.Info("Reaped revoked sessions",
			zap.Int64("deleted", deleted),
			zap.Time("cutoff", cutoff))
	}
}
