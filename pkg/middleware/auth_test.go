package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"library-management/internal/data/entity"
	"library-management/internal/usecase"
	"library-management/pkg/middleware"
	"library-management/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeSessions serves a single canned session and records lifecycle calls.
type fakeSessions struct {
	session *entity.Session
	now     time.Time

	revokedIDs []string
	slidTo     *time.Time
}

func (f *fakeSessions) CreateSession(ctx context.Context, memberID uuid.UUID, userAgent, ipAddr *string) (*entity.Session, error) {
	panic("not used")
}

func (f *fakeSessions) GetActiveSession(ctx context.Context, id string) (*entity.Session, error) {
	if f.session == nil || f.session.ID != id || f.session.Revoked {
		return nil, nil
	}
	copied := *f.session
	return &copied, nil
}

func (f *fakeSessions) SlideSession(ctx context.Context, session *entity.Session, now time.Time) error {
	f.slidTo = &now
	f.session.LastActiveAt = now
	return nil
}

func (f *fakeSessions) MarkRevoked(ctx context.Context, session *entity.Session) error {
	f.revokedIDs = append(f.revokedIDs, session.ID)
	f.session.Revoked = true
	return nil
}

func (f *fakeSessions) RevokeSession(ctx context.Context, id string) (bool, error) {
	panic("not used")
}

func (f *fakeSessions) RevokeAllForMember(ctx context.Context, memberID uuid.UUID) (int64, error) {
	panic("not used")
}

func (f *fakeSessions) Now() time.Time {
	return f.now
}

var _ usecase.SessionService = (*fakeSessions)(nil)

func testSessionConfig() utils.SessionConfig {
	return utils.SessionConfig{
		IdleTimeoutMinutes:      30,
		AbsoluteTimeoutHours:    24,
		CookieName:              "session_id",
		CookiePath:              "/",
		SendIdleRemainingHeader: true,
	}
}

func guardedRequest(t *testing.T, sessions usecase.SessionService, cfg utils.SessionConfig, cookie *http.Cookie) (*httptest.ResponseRecorder, *http.Request) {
	t.Helper()

	var captured *http.Request
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r
		w.WriteHeader(http.StatusOK)
	})

	handler := middleware.RequireSession(sessions, cfg, zap.NewNop())(next)

	req := httptest.NewRequest(http.MethodGet, "/api/members/profile", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, captured
}

func responseCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body utils.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Code
}

func activeSession(now time.Time) *entity.Session {
	return &entity.Session{
		ID:           "test-session-id",
		MemberID:     uuid.New(),
		CreatedAt:    now.Add(-1 * time.Hour),
		LastActiveAt: now.Add(-5 * time.Minute),
	}
}

func TestRequireSessionMissingCookie(t *testing.T) {
	now := time.Now().UTC()
	sessions := &fakeSessions{now: now}

	rec, _ := guardedRequest(t, sessions, testSessionConfig(), nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, usecase.CodeNotAuthenticated, responseCode(t, rec))
}

func TestRequireSessionUnknownSession(t *testing.T) {
	now := time.Now().UTC()
	sessions := &fakeSessions{now: now, session: activeSession(now)}

	rec, _ := guardedRequest(t, sessions, testSessionConfig(),
		&http.Cookie{Name: "session_id", Value: "some-other-id"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, usecase.CodeInvalidSession, responseCode(t, rec))
}

func TestRequireSessionRevokedSession(t *testing.T) {
	now := time.Now().UTC()
	session := activeSession(now)
	session.Revoked = true
	sessions := &fakeSessions{now: now, session: session}

	rec, _ := guardedRequest(t, sessions, testSessionConfig(),
		&http.Cookie{Name: "session_id", Value: session.ID})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, usecase.CodeInvalidSession, responseCode(t, rec))
}

func TestRequireSessionIdleExpiry(t *testing.T) {
	now := time.Now().UTC()
	session := activeSession(now)
	session.LastActiveAt = now.Add(-31 * time.Minute)
	sessions := &fakeSessions{now: now, session: session}

	rec, _ := guardedRequest(t, sessions, testSessionConfig(),
		&http.Cookie{Name: "session_id", Value: session.ID})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, usecase.CodeIdleExpired, responseCode(t, rec))

	// Expiry detection revokes on the spot.
	assert.Equal(t, []string{session.ID}, sessions.revokedIDs)
}

func TestRequireSessionAbsoluteExpiry(t *testing.T) {
	now := time.Now().UTC()
	session := activeSession(now)
	session.CreatedAt = now.Add(-25 * time.Hour)
	sessions := &fakeSessions{now: now, session: session}

	rec, _ := guardedRequest(t, sessions, testSessionConfig(),
		&http.Cookie{Name: "session_id", Value: session.ID})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, usecase.CodeAbsoluteExpired, responseCode(t, rec))
	assert.Equal(t, []string{session.ID}, sessions.revokedIDs)
}

func TestRequireSessionAbsoluteBeatsIdle(t *testing.T) {
	// Both windows blown: the absolute verdict must win, even though the
	// session also sat idle far past its idle window.
	now := time.Now().UTC()
	session := activeSession(now)
	session.CreatedAt = now.Add(-48 * time.Hour)
	session.LastActiveAt = now.Add(-47 * time.Hour)
	sessions := &fakeSessions{now: now, session: session}

	rec, _ := guardedRequest(t, sessions, testSessionConfig(),
		&http.Cookie{Name: "session_id", Value: session.ID})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, usecase.CodeAbsoluteExpired, responseCode(t, rec))
}

func TestRequireSessionValidSlidesAndSetsContext(t *testing.T) {
	now := time.Now().UTC()
	session := activeSession(now)
	sessions := &fakeSessions{now: now, session: session}

	rec, captured := guardedRequest(t, sessions, testSessionConfig(),
		&http.Cookie{Name: "session_id", Value: session.ID})

	require.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, sessions.slidTo)
	assert.Equal(t, now, *sessions.slidTo)

	require.NotNil(t, captured)
	memberID, ok := utils.GetMemberIDFromContext(captured.Context())
	require.True(t, ok)
	assert.Equal(t, session.MemberID, memberID)

	sessionID, ok := utils.GetSessionIDFromContext(captured.Context())
	require.True(t, ok)
	assert.Equal(t, session.ID, sessionID)
}

func TestRequireSessionIdleRemainingHeader(t *testing.T) {
	now := time.Now().UTC()
	session := activeSession(now)
	session.LastActiveAt = now.Add(-10 * time.Minute)
	sessions := &fakeSessions{now: now, session: session}

	rec, _ := guardedRequest(t, sessions, testSessionConfig(),
		&http.Cookie{Name: "session_id", Value: session.ID})

	require.Equal(t, http.StatusOK, rec.Code)

	remaining, err := strconv.Atoi(rec.Header().Get("X-Session-Idle-Remaining"))
	require.NoError(t, err)

	// 30 minute window minus 10 idle minutes, allowing a little slack.
	assert.InDelta(t, 20*60, remaining, 2)
}

func TestRequireSessionHeaderDisabled(t *testing.T) {
	now := time.Now().UTC()
	session := activeSession(now)
	sessions := &fakeSessions{now: now, session: session}

	cfg := testSessionConfig()
	cfg.SendIdleRemainingHeader = false

	rec, _ := guardedRequest(t, sessions, cfg,
		&http.Cookie{Name: "session_id", Value: session.ID})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-Session-Idle-Remaining"))
}
