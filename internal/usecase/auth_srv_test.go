package usecase

import (
	"context"
	"testing"

	"library-management/internal/data/repository"
	"library-management/internal/dto/request"
	"library-management/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type authFixture struct {
	members  *fakeMemberRepo
	sessions *fakeSessionRepo
	service  AuthService
}

func setupAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	members := newFakeMemberRepo()
	sessions := newFakeSessionRepo()

	repo := &repository.Repository{
		Member:   members,
		Book:     newFakeBookRepo(),
		Checkout: newFakeCheckoutRepo(),
		Session:  sessions,
	}

	log := zap.NewNop()
	sessionSvc := NewSessionService(sessions, log)
	tokenSvc := NewTokenService(utils.JWTConfig{
		Secret:               "test-secret",
		Issuer:               "library-management-test",
		AccessExpiryMinutes:  15,
		RefreshExpiryMinutes: 60,
	}, log)

	return &authFixture{
		members:  members,
		sessions: sessions,
		service:  NewAuthService(repo, sessionSvc, tokenSvc, log),
	}
}

func TestRegisterAndSignIn(t *testing.T) {
	f := setupAuthFixture(t)

	member, err := f.service.Register(context.Background(), &request.SignUpRequest{
		Email:       "reader@example.com",
		DisplayName: "Reader",
		Password:    "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "reader@example.com", member.Email)

	resp, session, err := f.service.SignIn(context.Background(), &request.SignInRequest{
		Email:    "reader@example.com",
		Password: "correct-horse",
	}, nil, nil)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, member.ID, resp.Member.ID)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	f := setupAuthFixture(t)

	req := &request.SignUpRequest{
		Email:       "reader@example.com",
		DisplayName: "Reader",
		Password:    "correct-horse",
	}

	_, err := f.service.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = f.service.Register(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestSignInRejectsBadPassword(t *testing.T) {
	f := setupAuthFixture(t)

	_, err := f.service.Register(context.Background(), &request.SignUpRequest{
		Email:       "reader@example.com",
		DisplayName: "Reader",
		Password:    "correct-horse",
	})
	require.NoError(t, err)

	_, _, err = f.service.SignIn(context.Background(), &request.SignInRequest{
		Email:    "reader@example.com",
		Password: "wrong-password",
	}, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")

	// Unknown emails fail the same way so the response does not leak which
	// accounts exist.
	_, _, err = f.service.SignIn(context.Background(), &request.SignInRequest{
		Email:    "nobody@example.com",
		Password: "wrong-password",
	}, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")
}

func TestSignInDisplacesPreviousSession(t *testing.T) {
	f := setupAuthFixture(t)

	_, err := f.service.Register(context.Background(), &request.SignUpRequest{
		Email:       "reader@example.com",
		DisplayName: "Reader",
		Password:    "correct-horse",
	})
	require.NoError(t, err)

	signIn := &request.SignInRequest{Email: "reader@example.com", Password: "correct-horse"}

	_, first, err := f.service.SignIn(context.Background(), signIn, nil, nil)
	require.NoError(t, err)

	_, second, err := f.service.SignIn(context.Background(), signIn, nil, nil)
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)

	assert.Equal(t, 1, f.sessions.activeCount(second.MemberID))
}

func TestSignOutRevokesSession(t *testing.T) {
	f := setupAuthFixture(t)

	_, err := f.service.Register(context.Background(), &request.SignUpRequest{
		Email:       "reader@example.com",
		DisplayName: "Reader",
		Password:    "correct-horse",
	})
	require.NoError(t, err)

	_, session, err := f.service.SignIn(context.Background(), &request.SignInRequest{
		Email:    "reader@example.com",
		Password: "correct-horse",
	}, nil, nil)
	require.NoError(t, err)

	require.NoError(t, f.service.SignOut(context.Background(), session.ID))
	assert.Equal(t, 0, f.sessions.activeCount(session.MemberID))

	err = f.service.SignOut(context.Background(), "never-issued")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
