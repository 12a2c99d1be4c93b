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

type MemberService interface {
	GetProfile(ctx context.Context, memberID uuid.UUID) (*response.MemberResponse, error)
	UpdateProfile(ctx context.Context, memberID uuid.UUID, req *request.UpdateProfileRequest) (*response.MemberResponse, error)
	// DeleteAccount revokes every session before removing the member so no
	// live cookie outlasts the account.
	DeleteAccount(ctx context.Context, memberID uuid.UUID) error

	GetAllMembers(ctx context.Context, page, perPage int, search *string) (*response.PaginatedResponse[response.MemberResponse], error)
	GetMemberByID(ctx context.Context, id uuid.UUID) (*response.MemberResponse, error)
	AdminCreateMember(ctx context.Context, req *request.AdminCreateMemberRequest) (*response.MemberResponse, error)
	AdminUpdateMember(ctx context.Context, id uuid.UUID, req *request.AdminUpdateMemberRequest) (*response.MemberResponse, error)
	AdminDeleteMember(ctx context.Context, id uuid.UUID) error
}

type memberService struct {
	repo     *repository.Repository
	sessions SessionService
	log      *zap.Logger
}

func NewMemberService(repo *repository.Repository, sessions SessionService, log *zap.Logger) MemberService {
	return &memberService{
		repo:     repo,
		sessions: sessions,
		log:      log.With(zap.String("service", "member")),
	}
}

func (s *memberService) GetProfile(ctx context.Context, memberID uuid.UUID) (*response.MemberResponse, error) {
	member, err := s.repo.Member.FindByID(ctx, memberID)
	if err != nil {
		s.log.Error("Failed to find member", zap.Error(err), zap.String("member_id", memberID.String()))
		return nil, fmt.Errorf("failed to find member")
	}
	if member == nil {
		return nil, fmt.Errorf("member not found")
	}

	resp := response.MemberToResponse(member)
	return &resp, nil
}

func (s *memberService) UpdateProfile(ctx context.Context, memberID uuid.UUID, req *request.UpdateProfileRequest) (*response.MemberResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update profile validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	member, err := s.repo.Member.FindByID(ctx, memberID)
	if err != nil {
		s.log.Error("Failed to find member", zap.Error(err), zap.String("member_id", memberID.String()))
		return nil, fmt.Errorf("failed to find member")
	}
	if member == nil {
		return nil, fmt.Errorf("member not found")
	}

	applyMemberUpdates(member, req.DisplayName, req.AvatarURL, req.Bio, req.Location)
	member.UpdatedAt = time.Now().UTC()

	if err := s.repo.Member.Update(ctx, member); err != nil {
		s.log.Error("Failed to update member", zap.Error(err), zap.String("member_id", memberID.String()))
		return nil, fmt.Errorf("failed to update profile")
	}

	s.log.Info("Profile updated", zap.String("member_id", member.ID.String()))

	resp := response.MemberToResponse(member)
	return &resp, nil
}

func (s *memberService) DeleteAccount(ctx context.Context, memberID uuid.UUID) error {
	member, err := s.repo.Member.FindByID(ctx, memberID)
	if err != nil {
		s.log.Error("Failed to find member", zap.Error(err), zap.String("member_id", memberID.String()))
		return fmt.Errorf("failed to find member")
	}
	if member == nil {
		return fmt.Errorf("member not found")
	}

	if _, err := s.sessions.RevokeAllForMember(ctx, memberID); err != nil {
		s.log.Error("Failed to revoke sessions", zap.Error(err), zap.String("member_id", memberID.String()))
		return fmt.Errorf("failed to revoke sessions")
	}

	if err := s.repo.Member.Delete(ctx, memberID); err != nil {
		s.log.Error("Failed to delete member", zap.Error(err), zap.String("member_id", memberID.String()))
		return fmt.Errorf("failed to delete account")
	}

	s.log.Info("Account deleted", zap.String("member_id", memberID.String()))
	return nil
}

func (s *memberService) GetAllMembers(ctx context.Context, page, perPage int, search *string) (*response.PaginatedResponse[response.MemberResponse], error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 10
	}
	offset := utils.CalculateOffset(page, perPage)

	members, err := s.repo.Member.FindAll(ctx, perPage, offset, search)
	if err != nil {
		s.log.Error("Failed to list members", zap.Error(err))
		return nil, fmt.Errorf("failed to list members")
	}

	total, err := s.repo.Member.CountAll(ctx, search)
	if err != nil {
		s.log.Error("Failed to count members", zap.Error(err))
		return nil, fmt.Errorf("failed to count members")
	}

	items := make([]response.MemberResponse, 0, len(members))
	for _, member := range members {
		items = append(items, response.MemberToResponse(member))
	}

	return response.NewPaginatedResponse(items, page, perPage, total), nil
}

func (s *memberService) GetMemberByID(ctx context.Context, id uuid.UUID) (*response.MemberResponse, error) {
	return s.GetProfile(ctx, id)
}

func (s *memberService) AdminCreateMember(ctx context.Context, req *request.AdminCreateMemberRequest) (*response.MemberResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Admin create member validation failed", zap.Any("errors", errs))
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

	role := entity.RoleUser
	if req.Role != nil {
		role = entity.MemberRole(*req.Role)
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
		Role:         role,
	}

	if err := s.repo.Member.Create(ctx, member); err != nil {
		s.log.Error("Failed to create member", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("failed to create member")
	}

	s.log.Info("Member created by admin",
		zap.String("member_id", member.ID.String()),
		zap.String("role", string(member.Role)))

	resp := response.MemberToResponse(member)
	return &resp, nil
}

func (s *memberService) AdminUpdateMember(ctx context.Context, id uuid.UUID, req *request.AdminUpdateMemberRequest) (*response.MemberResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Admin update member validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	member, err := s.repo.Member.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find member", zap.Error(err), zap.String("member_id", id.String()))
		return nil, fmt.Errorf("failed to find member")
	}
	if member == nil {
		return nil, fmt.Errorf("member not found")
	}

	applyMemberUpdates(member, req.DisplayName, req.AvatarURL, req.Bio, req.Location)
	if req.Role != nil {
		member.Role = entity.MemberRole(*req.Role)
	}
	member.UpdatedAt = time.Now().UTC()

	if err := s.repo.Member.Update(ctx, member); err != nil {
		s.log.Error("Failed to update member", zap.Error(err), zap.String("member_id", id.String()))
		return nil, fmt.Errorf("failed to update member")
	}

	s.log.Info("Member updated by admin", zap.String("member_id", member.ID.String()))

	resp := response.MemberToResponse(member)
	return &resp, nil
}

func (s *memberService) AdminDeleteMember(ctx context.Context, id uuid.UUID) error {
	return s.DeleteAccount(ctx, id)
}

func applyMemberUpdates(member *entity.Member, displayName, avatarURL, bio, location *string) {
	if displayName != nil {
		member.DisplayName = *displayName
	}
	if avatarURL != nil {
		member.AvatarURL = avatarURL
	}
	if bio != nil {
		member.Bio = bio
	}
	if location != nil {
		member.Location = location
	}
}
