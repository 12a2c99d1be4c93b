package utils

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	MemberIDKey  contextKey = "member_id"
	SessionIDKey contextKey = "session_id"
)

func GetMemberIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	memberIDVal := ctx.Value(MemberIDKey)
	if memberIDVal == nil {
		return uuid.Nil, false
	}

	memberIDStr, ok := memberIDVal.(string)
	if !ok {
		return uuid.Nil, false
	}

	memberID, err := uuid.Parse(memberIDStr)
	if err != nil {
		return uuid.Nil, false
	}

	return memberID, true
}

func SetMemberContext(ctx context.Context, memberID uuid.UUID) context.Context {
	return context.WithValue(ctx, MemberIDKey, memberID.String())
}

// GetSessionIDFromContext returns the session credential the guard validated
// for this request.
func GetSessionIDFromContext(ctx context.Context) (string, bool) {
	sessionIDVal := ctx.Value(SessionIDKey)
	if sessionIDVal == nil {
		return "", false
	}

	sessionID, ok := sessionIDVal.(string)
	return sessionID, ok
}

func SetSessionContext(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, SessionIDKey, sessionID)
}
