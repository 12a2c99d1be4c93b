package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"library-management/internal/data/entity"
	"library-management/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// CheckoutFilter narrows List/Count queries. Zero values mean "no filter".
type CheckoutFilter struct {
	MemberID *uuid.UUID
	BookID   *uuid.UUID
	Statuses []entity.CheckoutStatus
	DueFrom  *time.Time
	DueTo    *time.Time
	// Search matches book title/author and member display name/email.
	Search *string
}

type CheckoutRepository interface {
	Create(ctx context.Context, checkout *entity.Checkout) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Checkout, error)
	FindActiveByBookAndMember(ctx context.Context, bookID, memberID uuid.UUID) (*entity.Checkout, error)
	FindAll(ctx context.Context, limit, offset int, filter CheckoutFilter) ([]*entity.Checkout, error)
	CountAll(ctx context.Context, filter CheckoutFilter) (int64, error)
	Update(ctx context.Context, checkout *entity.Checkout) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type checkoutRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCheckoutRepository(db database.PgxIface, log *zap.Logger) CheckoutRepository {
	return &checkoutRepository{
		db:  db,
		log: log.With(zap.String("repository", "checkout")),
	}
}

const checkoutColumns = `c.id, c.book_id, c.member_id, c.status, c.checked_out_at,
		       c.due_at, c.returned_at, c.notes, c.created_at, c.updated_at`

func scanCheckout(row pgx.Row) (*entity.Checkout, error) {
	var checkout entity.Checkout
	err := row.Scan(
		&checkout.ID,
		&checkout.BookID,
		&checkout.MemberID,
		&checkout.Status,
		&checkout.CheckedOutAt,
		&checkout.DueAt,
		&checkout.ReturnedAt,
		&checkout.Notes,
		&checkout.CreatedAt,
		&checkout.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &checkout, nil
}

func (r *checkoutRepository) Create(ctx context.Context, checkout *entity.Checkout) error {
	query := `
		INSERT INTO checkouts (id, book_id, member_id, status, checked_out_at,
		                      due_at, returned_at, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		checkout.ID,
		checkout.BookID,
		checkout.MemberID,
		checkout.Status,
		checkout.CheckedOutAt,
		checkout.DueAt,
		checkout.ReturnedAt,
		checkout.Notes,
		checkout.CreatedAt,
		checkout.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create checkout",
			zap.Error(err),
			zap.String("book_id", checkout.BookID.String()),
			zap.String("member_id", checkout.MemberID.String()),
		)
		return fmt.Errorf("create checkout: %w", err)
	}

	return nil
}

func (r *checkoutRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Checkout, error) {
	query := `SELECT ` + checkoutColumns + ` FROM checkouts c WHERE c.id = $1`

	checkout, err := scanCheckout(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find checkout by ID",
			zap.Error(err),
			zap.String("checkout_id", id.String()),
		)
		return nil, fmt.Errorf("find checkout by ID %s: %w", id.String(), err)
	}

	return checkout, nil
}

// FindActiveByBookAndMember returns the member's live loan for the book, if
// one exists. Used to reject double checkouts.
func (r *checkoutRepository) FindActiveByBookAndMember(ctx context.Context, bookID, memberID uuid.UUID) (*entity.Checkout, error) {
	query := `
		SELECT ` + checkoutColumns + `
		FROM checkouts c
		WHERE c.book_id = $1 AND c.member_id = $2
		  AND c.status IN ('checked_out', 'overdue')
		LIMIT 1
	`

	checkout, err := scanCheckout(r.db.QueryRow(ctx, query, bookID, memberID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find active checkout",
			zap.Error(err),
			zap.String("book_id", bookID.String()),
			zap.String("member_id", memberID.String()),
		)
		return nil, fmt.Errorf("find active checkout: %w", err)
	}

	return checkout, nil
}

// buildFilter renders the filter into WHERE clauses and positional args,
// continuing the numbering after the fixed limit/offset parameters.
func buildFilter(filter CheckoutFilter, startIdx int) (string, []any) {
	var clauses []string
	var args []any
	idx := startIdx

	add := func(clause string, value any) {
		clauses = append(clauses, fmt.Sprintf(clause, idx))
		args = append(args, value)
		idx++
	}

	if filter.MemberID != nil {
		add("c.member_id = $%d", *filter.MemberID)
	}
	if filter.BookID != nil {
		add("c.book_id = $%d", *filter.BookID)
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		add("c.status = ANY($%d)", statuses)
	}
	if filter.DueFrom != nil {
		add("c.due_at >= $%d", *filter.DueFrom)
	}
	if filter.DueTo != nil {
		add("c.due_at <= $%d", *filter.DueTo)
	}
	if filter.Search != nil {
		pattern := "%" + *filter.Search + "%"
		clauses = append(clauses, fmt.Sprintf(
			"(b.title ILIKE $%d OR b.author ILIKE $%d OR m.display_name ILIKE $%d OR m.email ILIKE $%d)",
			idx, idx, idx, idx))
		args = append(args, pattern)
		idx++
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (r *checkoutRepository) FindAll(ctx context.Context, limit, offset int, filter CheckoutFilter) ([]*entity.Checkout, error) {
	where, filterArgs := buildFilter(filter, 3)

	query := `
		SELECT ` + checkoutColumns + `
		FROM checkouts c
		JOIN books b ON b.id = c.book_id
		JOIN members m ON m.id = c.member_id` + where + `
		ORDER BY c.checked_out_at DESC
		LIMIT $1 OFFSET $2
	`

	args := append([]any{limit, offset}, filterArgs...)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list checkouts",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find all checkouts limit %d offset %d: %w", limit, offset, err)
	}
	defer rows.Close()

	var checkouts []*entity.Checkout
	for rows.Next() {
		checkout, err := scanCheckout(rows)
		if err != nil {
			r.log.Error("Failed to scan checkout row", zap.Error(err))
			return nil, fmt.Errorf("scan checkout row: %w", err)
		}
		checkouts = append(checkouts, checkout)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate checkouts rows: %w", err)
	}

	return checkouts, nil
}

func (r *checkoutRepository) CountAll(ctx context.Context, filter CheckoutFilter) (int64, error) {
	where, args := buildFilter(filter, 1)

	query := `
		SELECT COUNT(*)
		FROM checkouts c
		JOIN books b ON b.id = c.book_id
		JOIN members m ON m.id = c.member_id` + where

	var count int64
	err := r.db.QueryRow(ctx, query, args...).Scan(&count)
	if err != nil {
		r.log.Error("Database error counting checkouts", zap.Error(err))
		return 0, fmt.Errorf("count checkouts: %w", err)
	}

	return count, nil
}

func (r *checkoutRepository) Update(ctx context.Context, checkout *entity.Checkout) error {
	query := `
		UPDATE checkouts
		SET status = $2, due_at = $3, returned_at = $4, notes = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		checkout.ID,
		checkout.Status,
		checkout.DueAt,
		checkout.ReturnedAt,
		checkout.Notes,
		checkout.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update checkout",
			zap.Error(err),
			zap.String("checkout_id", checkout.ID.String()),
		)
		return fmt.Errorf("update checkout %s: %w", checkout.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("checkout %s not found", checkout.ID.String())
	}

	return nil
}

func (r *checkoutRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM checkouts WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete checkout",
			zap.Error(err),
			zap.String("id", id.String()),
		)
		return fmt.Errorf("delete checkout %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("checkout %s not found", id.String())
	}

	return nil
}
