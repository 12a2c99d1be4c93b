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

type BookRepository interface {
	Create(ctx context.Context, book *entity.Book) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Book, error)
	FindByISBN(ctx context.Context, isbn string) (*entity.Book, error)
	FindAll(ctx context.Context, limit, offset int, search *string) ([]*entity.Book, error)
	CountAll(ctx context.Context, search *string) (int64, error)
	Update(ctx context.Context, book *entity.Book) error
	AdjustAvailableCopies(ctx context.Context, id uuid.UUID, delta int) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type bookRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookRepository(db database.PgxIface, log *zap.Logger) BookRepository {
	return &bookRepository{
		db:  db,
		log: log.With(zap.String("repository", "book")),
	}
}

const bookColumns = `id, title, author, category, publisher, description,
		       cover_image_url, isbn, language, page_count, published_at,
		       tags, available_copies, created_at, updated_at`

func (r *bookRepository) scanBook(row pgx.Row) (*entity.Book, error) {
	var book entity.Book
	err := row.Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.Category,
		&book.Publisher,
		&book.Description,
		&book.CoverImageURL,
		&book.ISBN,
		&book.Language,
		&book.PageCount,
		&book.PublishedAt,
		&book.Tags,
		&book.AvailableCopies,
		&book.CreatedAt,
		&book.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *bookRepository) Create(ctx context.Context, book *entity.Book) error {
	query := `
		INSERT INTO books (id, title, author, category, publisher, description,
		                  cover_image_url, isbn, language, page_count, published_at,
		                  tags, available_copies, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.db.Exec(ctx, query,
		book.ID,
		book.Title,
		book.Author,
		book.Category,
		book.Publisher,
		book.Description,
		book.CoverImageURL,
		book.ISBN,
		book.Language,
		book.PageCount,
		book.PublishedAt,
		book.Tags,
		book.AvailableCopies,
		book.CreatedAt,
		book.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create book",
			zap.Error(err),
			zap.String("title", book.Title),
		)
		return fmt.Errorf("create book %s: %w", book.Title, err)
	}

	return nil
}

func (r *bookRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = $1`

	book, err := r.scanBook(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find book by ID",
			zap.Error(err),
			zap.String("book_id", id.String()),
		)
		return nil, fmt.Errorf("find book by ID %s: %w", id.String(), err)
	}

	return book, nil
}

func (r *bookRepository) FindByISBN(ctx context.Context, isbn string) (*entity.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE isbn = $1`

	book, err := r.scanBook(r.db.QueryRow(ctx, query, isbn))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find book by ISBN",
			zap.Error(err),
			zap.String("isbn", isbn),
		)
		return nil, fmt.Errorf("find book by ISBN %s: %w", isbn, err)
	}

	return book, nil
}

// FindAll retrieves a paginated book list with optional case-insensitive
// search over title, author, and category.
func (r *bookRepository) FindAll(ctx context.Context, limit, offset int, search *string) ([]*entity.Book, error) {
	query := `
		SELECT ` + bookColumns + `
		FROM books
		WHERE ($3::text IS NULL
		       OR title ILIKE '%' || $3 || '%'
		       OR author ILIKE '%' || $3 || '%'
		       OR category ILIKE '%' || $3 || '%')
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset, search)
	if err != nil {
		r.log.Error("Failed to get all books",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find all books limit %d offset %d: %w", limit, offset, err)
	}
	defer rows.Close()

	var books []*entity.Book
	for rows.Next() {
		book, err := r.scanBook(rows)
		if err != nil {
			r.log.Error("Failed to scan book row", zap.Error(err))
			return nil, fmt.Errorf("scan book row: %w", err)
		}
		books = append(books, book)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate books rows: %w", err)
	}

	return books, nil
}

func (r *bookRepository) CountAll(ctx context.Context, search *string) (int64, error) {
	query := `
		SELECT COUNT(*) FROM books
		WHERE ($1::text IS NULL
		       OR title ILIKE '%' || $1 || '%'
		       OR author ILIKE '%' || $1 || '%'
		       OR category ILIKE '%' || $1 || '%')
	`

	var count int64
	err := r.db.QueryRow(ctx, query, search).Scan(&count)
	if err != nil {
		r.log.Error("Database error counting books", zap.Error(err))
		return 0, fmt.Errorf("count all books: %w", err)
	}

	return count, nil
}

func (r *bookRepository) Update(ctx context.Context, book *entity.Book) error {
	query := `
		UPDATE books
		SET title = $2, author = $3, category = $4, publisher = $5,
		    description = $6, cover_image_url = $7, isbn = $8, language = $9,
		    page_count = $10, published_at = $11, tags = $12,
		    available_copies = $13, updated_at = $14
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		book.ID,
		book.Title,
		book.Author,
		book.Category,
		book.Publisher,
		book.Description,
		book.CoverImageURL,
		book.ISBN,
		book.Language,
		book.PageCount,
		book.PublishedAt,
		book.Tags,
		book.AvailableCopies,
		book.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update book",
			zap.Error(err),
			zap.String("book_id", book.ID.String()),
		)
		return fmt.Errorf("update book %s: %w", book.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("book %s not found", book.ID.String())
	}

	return nil
}

// AdjustAvailableCopies applies a relative change to the available copy
// count, guarded so the count never goes negative.
func (r *bookRepository) AdjustAvailableCopies(ctx context.Context, id uuid.UUID, delta int) error {
	query := `
		UPDATE books
		SET available_copies = available_copies + $2, updated_at = NOW()
		WHERE id = $1 AND available_copies + $2 >= 0
	`

	result, err := r.db.Exec(ctx, query, id, delta)
	if err != nil {
		r.log.Error("Failed to adjust available copies",
			zap.Error(err),
			zap.String("book_id", id.String()),
			zap.Int("delta", delta),
		)
		return fmt.Errorf("adjust copies for book %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("book %s not found or insufficient copies", id.String())
	}

	return nil
}

func (r *bookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM books WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete book",
			zap.Error(err),
			zap.String("id", id.String()),
		)
		return fmt.Errorf("delete book %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("book %s not found", id.String())
	}

	return nil
}
