package usecase

import (
	"context"
	"fmt"
	"time"

	"library-management/internal/data/entity"
	"library-management/internal/data/repository"
	"library-management/internal/dto/request"
	"library-management/internal/dto/response"
	"library-management/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService interface {
	Register(ctx context.Context, req *request.SignUpRequest) (*response.MemberResponse, error)
	// SignIn authenticates credentials and mints a session; the caller turns
	// the returned session into the cookie.
	SignIn(ctx context.Context, req *request.SignInRequest, userAgent, ipAddr *string) (*response.AuthResponse, *entity.Session, error)
	SignOut(ctx context.Context, sessionID string) error
	SignOutEverywhere(ctx context.Context, memberID uuid.UUID) (int64, error)
	CurrentMember(ctx context.Context, memberID uuid.UUID) (*response.MemberResponse, error)
}

type authService struct {
	repo     *repository.Repository
	sessions SessionService
	tokens   TokenService
	log      *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	sessions SessionService,
	tokens TokenService,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:     repo,
		sessions: sessions,
		tokens:   tokens,
		log:      log.With(zap.String("service", "auth")),
	}
}

func (s *authService) Register(ctx context.Context, req *request.SignUpRequest) (*response.MemberResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Register validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	existing, err := s.repo.Member.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to check email", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("failed to check email")
	}
	if existing != nil {
		return nil, fmt.Errorf("email already registered")
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("failed to process password")
	}

	now := time.Now().UTC()
	member := &entity.Member{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Email:        req.Email,
		DisplayName:  req.DisplayName,
		PasswordHash: hashedPassword,
		Role:         entity.RoleUser,
	}

	if err := s.repo.Member.Create(ctx, member); err != nil {
		s.log.Error("Failed to create member", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("failed to create account")
	}

	s.log.Info("Member registered",
		zap.String("member_id", member.ID.String()),
		zap.String("email", member.Email))

	resp := response.MemberToResponse(member)
	return &resp, nil
}

func (s *authService) SignIn(ctx context.Context, req *request.SignInRequest, userAgent, ipAddr *string) (*response.AuthResponse, *entity.Session, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Sign-in validation failed", zap.Any("errors", errs))
		return nil, nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	member, err := s.repo.Member.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to find member", zap.Error(err), zap.String("email", req.Email))
		return nil, nil, fmt.Errorf("failed to find member")
	}

	if member == nil || !utils.CheckPasswordHash(req.Password, member.PasswordHash) {
		s.log.Warn("Invalid credentials", zap.String("email", req.Email))
		return nil, nil, fmt.Errorf("invalid credentials")
	}

	// Any previously active session for this member becomes unusable here:
	// signing in elsewhere is a forced logout everywhere else.
	session, err := s.sessions.CreateSession(ctx, member.ID, userAgent, ipAddr)
	if err != nil {
		s.log.Error("Failed to create session", zap.Error(err), zap.String("member_id", member.ID.String()))
		return nil, nil, fmt.Errorf("failed to create session")
	}

	resp := &response.AuthResponse{
		Member: response.MemberToResponse(member),
	}

	// The token pair is the stateless alternative for API clients; cookie
	// clients can ignore it.
	if pair, err := s.tokens.IssuePair(member); err != nil {
		s.log.Warn("Failed to issue token pair", zap.Error(err), zap.String("member_id", member.ID.String()))
	} else {
		resp.AccessToken = pair.AccessToken
		resp.RefreshToken = pair.RefreshToken
	}

	s.log.Info("Member signed in",
		zap.String("member_id", member.ID.String()),
		zap.String("email", member.Email))

	return resp, session, nil
}

func (s *authService) SignOut(ctx context.Context, sessionID string) error {
	found, err := s.sessions.RevokeSession(ctx, sessionID)
	if err != nil {
		s.log.Error("Failed to revoke session", zap.Error(err))
		return fmt.Errorf("failed to sign out")
	}
	if !found {
		return fmt.Errorf("session not found")
	}

	s.log.Info("Member signed out")
	return nil
}

func (s *authService) SignOutEverywhere(ctx context.Context, memberID uuid.UUID) (int64, error) {
	count, err := s.sessions.RevokeAllForMember(ctx, memberID)
	if err != nil {
		s.log.Error("Failed to revoke all sessions", zap.Error(err), zap.String("member_id", memberID.String()))
		return 0, fmt.Errorf("failed to sign out everywhere")
	}
	return count, nil
}

func (s *authService) CurrentMember(ctx context.Context, memberID uuid.UUID) (*response.MemberResponse, error) {
	member, err := s.repo.Member.FindByID(ctx, memberID)
	if err != nil {
		s.log.Error("Failed to load member", zap.Error(err), zap.String("member_id", memberID.String()))
		return nil, fmt.Errorf("failed to load member")
	}
	if member == nil {
		return nil, fmt.Errorf("member not found")
	}

	resp := response.MemberToResponse(member)
	return &resp, nil
}
