package repository

import (
	"context"
	"fmt"

	"library-management/internal/data/entity"
	"library-management/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type MemberRepository interface {
	Create(ctx context.Context, member *entity.Member) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Member, error)
	FindByEmail(ctx context.Context, email string) (*entity.Member, error)
	FindAll(ctx context.Context, limit, offset int, search *string) ([]*entity.Member, error)
	CountAll(ctx context.Context, search *string) (int64, error)
	Update(ctx context.Context, member *entity.Member) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type memberRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewMemberRepository(db database.PgxIface, log *zap.Logger) MemberRepository {
	return &memberRepository{
		db:  db,
		log: log.With(zap.String("repository", "member")),
	}
}

// Create inserts a new member record into the database
func (mr *memberRepository) Create(ctx context.Context, member *entity.Member) error {
	query := `
		INSERT INTO members (id, email, display_name, password_hash, role,
		                    avatar_url, bio, location, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := mr.db.Exec(ctx, query,
		member.ID,
		member.Email,
		member.DisplayName,
		member.PasswordHash,
		member.Role,
		member.AvatarURL,
		member.Bio,
		member.Location,
		member.CreatedAt,
		member.UpdatedAt,
	)

	if err != nil {
		mr.log.Error("Failed to create member",
			zap.Error(err),
			zap.String("email", member.Email),
		)
		return fmt.Errorf("create member %s: %w", member.Email, err)
	}

	return nil
}

func (mr *memberRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Member, error) {
	query := `
		SELECT id, email, display_name, password_hash, role,
		       avatar_url, bio, location, created_at, updated_at
		FROM members
		WHERE id = $1
	`

	var member entity.Member
	err := mr.db.QueryRow(ctx, query, id).Scan(
		&member.ID,
		&member.Email,
		&member.DisplayName,
		&member.PasswordHash,
		&member.Role,
		&member.AvatarURL,
		&member.Bio,
		&member.Location,
		&member.CreatedAt,
		&member.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		mr.log.Error("Failed to find member by ID",
			zap.Error(err),
			zap.String("member_id", id.String()),
		)
		return nil, fmt.Errorf("find member by ID %s: %w", id.String(), err)
	}

	return &member, nil
}

func (mr *memberRepository) FindByEmail(ctx context.Context, email string) (*entity.Member, error) {
	query := `
		SELECT id, email, display_name, password_hash, role,
		       avatar_url, bio, location, created_at, updated_at
		FROM members
		WHERE email = $1
	`

	var member entity.Member
	err := mr.db.QueryRow(ctx, query, email).Scan(
		&member.ID,
		&member.Email,
		&member.DisplayName,
		&member.PasswordHash,
		&member.Role,
		&member.AvatarURL,
		&member.Bio,
		&member.Location,
		&member.CreatedAt,
		&member.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		mr.log.Error("Failed to find member by email",
			zap.Error(err),
			zap.String("email", email),
		)
		return nil, fmt.Errorf("find member by email %s: %w", email, err)
	}

	return &member, nil
}

// FindAll retrieves a paginated list of members with optional search
// over email and display name.
func (mr *memberRepository) FindAll(ctx context.Context, limit, offset int, search *string) ([]*entity.Member, error) {
	query := `
		SELECT id, email, display_name, password_hash, role,
		       avatar_url, bio, location, created_at, updated_at
		FROM members
		WHERE ($3::text IS NULL OR email ILIKE '%' || $3 || '%' OR display_name ILIKE '%' || $3 || '%')
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := mr.db.Query(ctx, query, limit, offset, search)
	if err != nil {
		mr.log.Error("Failed to get all members",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find all members limit %d offset %d: %w", limit, offset, err)
	}
	defer rows.Close()

	var members []*entity.Member
	for rows.Next() {
		var member entity.Member
		err := rows.Scan(
			&member.ID,
			&member.Email,
			&member.DisplayName,
			&member.PasswordHash,
			&member.Role,
			&member.AvatarURL,
			&member.Bio,
			&member.Location,
			&member.CreatedAt,
			&member.UpdatedAt,
		)
		if err != nil {
			mr.log.Error("Failed to scan member row", zap.Error(err))
			return nil, fmt.Errorf("scan member row: %w", err)
		}
		members = append(members, &member)
	}

	if err := rows.Err(); err != nil {
		mr.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate members rows: %w", err)
	}

	return members, nil
}

func (mr *memberRepository) CountAll(ctx context.Context, search *string) (int64, error) {
	query := `
		SELECT COUNT(*) FROM members
		WHERE ($1::text IS NULL OR email ILIKE '%' || $1 || '%' OR display_name ILIKE '%' || $1 || '%')
	`

	var count int64
	err := mr.db.QueryRow(ctx, query, search).Scan(&count)
	if err != nil {
		mr.log.Error("Database error counting members", zap.Error(err))
		return 0, fmt.Errorf("count all members: %w", err)
	}

	return count, nil
}

func (mr *memberRepository) Update(ctx context.Context, member *entity.Member) error {
	query := `
		UPDATE members
		SET email = $2, display_name = $3, password_hash = $4, role = $5,
		    avatar_url = $6, bio = $7, location = $8, updated_at = $9
		WHERE id = $1
	`

	result, err := mr.db.Exec(ctx, query,
		member.ID,
		member.Email,
		member.DisplayName,
		member.PasswordHash,
		member.Role,
		member.AvatarURL,
		member.Bio,
		member.Location,
		member.UpdatedAt,
	)

	if err != nil {
		mr.log.Error("Failed to update member",
			zap.Error(err),
			zap.String("member_id", member.ID.String()),
		)
		return fmt.Errorf("update member %s: %w", member.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("member %s not found", member.ID.String())
	}

	return nil
}

func (mr *memberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM members WHERE id = $1`

	result, err := mr.db.Exec(ctx, query, id)
	if err != nil {
		mr.log.Error("Failed to delete member",
			zap.Error(err),
			zap.String("id", id.String()),
		)
		return fmt.Errorf("delete member %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("member %s not found", id.String())
	}

	mr.log.Info("Member deleted", zap.String("id", id.String()))
	return nil
}
