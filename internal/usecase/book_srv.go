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

type BookService interface {
	CreateBook(ctx context.Context, req *request.CreateBookRequest) (*response.BookResponse, error)
	GetBookByID(ctx context.Context, id uuid.UUID) (*response.BookResponse, error)
	GetAllBooks(ctx context.Context, page, perPage int, search *string) (*response.PaginatedResponse[response.BookResponse], error)
	UpdateBook(ctx context.Context, id uuid.UUID, req *request.UpdateBookRequest) (*response.BookResponse, error)
	DeleteBook(ctx context.Context, id uuid.UUID) error
}

type bookService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewBookService(repo *repository.Repository, log *zap.Logger) BookService {
	return &bookService{
		repo: repo,
		log:  log.With(zap.String("service", "book")),
	}
}

func (s *bookService) CreateBook(ctx context.Context, req *request.CreateBookRequest) (*response.BookResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create book validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	if req.ISBN != nil {
		existing, err := s.repo.Book.FindByISBN(ctx, *req.ISBN)
		if err != nil {
			s.log.Error("Failed to check ISBN", zap.Error(err), zap.String("isbn", *req.ISBN))
			return nil, fmt.Errorf("failed to check ISBN")
		}
		if existing != nil {
			return nil, fmt.Errorf("ISBN already registered")
		}
	}

	now := time.Now().UTC()
	book := &entity.Book{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Title:           req.Title,
		Author:          req.Author,
		Category:        req.Category,
		Publisher:       req.Publisher,
		Description:     req.Description,
		CoverImageURL:   req.CoverImageURL,
		ISBN:            req.ISBN,
		Language:        req.Language,
		PageCount:       req.PageCount,
		PublishedAt:     req.PublishedAt,
		Tags:            req.Tags,
		AvailableCopies: req.AvailableCopies,
	}

	if err := s.repo.Book.Create(ctx, book); err != nil {
		s.log.Error("Failed to create book", zap.Error(err), zap.String("title", req.Title))
		return nil, fmt.Errorf("failed to create book")
	}

	s.log.Info("Book created",
		zap.String("book_id", book.ID.String()),
		zap.String("title", book.Title))

	resp := response.BookToResponse(book)
	return &resp, nil
}

func (s *bookService) GetBookByID(ctx context.Context, id uuid.UUID) (*response.BookResponse, error) {
	book, err := s.repo.Book.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find book", zap.Error(err), zap.String("book_id", id.String()))
		return nil, fmt.Errorf("failed to find book")
	}
	if book == nil {
		return nil, fmt.Errorf("book not found")
	}

	resp := response.BookToResponse(book)
	return &resp, nil
}

func (s *bookService) GetAllBooks(ctx context.Context, page, perPage int, search *string) (*response.PaginatedResponse[response.BookResponse], error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 10
	}
	offset := utils.CalculateOffset(page, perPage)

	books, err := s.repo.Book.FindAll(ctx, perPage, offset, search)
	if err != nil {
		s.log.Error("Failed to list books", zap.Error(err))
		return nil, fmt.Errorf("failed to list books")
	}

	total, err := s.repo.Book.CountAll(ctx, search)
	if err != nil {
		s.log.Error("Failed to count books", zap.Error(err))
		return nil, fmt.Errorf("failed to count books")
	}

	items := make([]response.BookResponse, 0, len(books))
	for _, book := range books {
		items = append(items, response.BookToResponse(book))
	}

	return response.NewPaginatedResponse(items, page, perPage, total), nil
}

func (s *bookService) UpdateBook(ctx context.Context, id uuid.UUID, req *request.UpdateBookRequest) (*response.BookResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update book validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	book, err := s.repo.Book.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find book", zap.Error(err), zap.String("book_id", id.String()))
		return nil, fmt.Errorf("failed to find book")
	}
	if book == nil {
		return nil, fmt.Errorf("book not found")
	}

	if req.ISBN != nil && (book.ISBN == nil || *book.ISBN != *req.ISBN) {
		existing, err := s.repo.Book.FindByISBN(ctx, *req.ISBN)
		if err != nil {
			s.log.Error("Failed to check ISBN", zap.Error(err), zap.String("isbn", *req.ISBN))
			return nil, fmt.Errorf("failed to check ISBN")
		}
		if existing != nil && existing.ID != book.ID {
			return nil, fmt.Errorf("ISBN already registered")
		}
	}

	if req.Title != nil {
		book.Title = *req.Title
	}
	if req.Author != nil {
		book.Author = *req.Author
	}
	if req.Category != nil {
		book.Category = req.Category
	}
	if req.Publisher != nil {
		book.Publisher = req.Publisher
	}
	if req.Description != nil {
		book.Description = req.Description
	}
	if req.CoverImageURL != nil {
		book.CoverImageURL = req.CoverImageURL
	}
	if req.ISBN != nil {
		book.ISBN = req.ISBN
	}
	if req.Language != nil {
		book.Language = req.Language
	}
	if req.PageCount != nil {
		book.PageCount = req.PageCount
	}
	if req.PublishedAt != nil {
		book.PublishedAt = req.PublishedAt
	}
	if req.Tags != nil {
		book.Tags = req.Tags
	}
	if req.AvailableCopies != nil {
		book.AvailableCopies = *req.AvailableCopies
	}
	book.UpdatedAt = time.Now().UTC()

	if err := s.repo.Book.Update(ctx, book); err != nil {
		s.log.Error("Failed to update book", zap.Error(err), zap.String("book_id", id.String()))
		return nil, fmt.Errorf("failed to update book")
	}

	s.log.Info("Book updated", zap.String("book_id", book.ID.String()))

	resp := response.BookToResponse(book)
	return &resp, nil
}

func (s *bookService) DeleteBook(ctx context.Context, id uuid.UUID) error {
	book, err := s.repo.Book.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find book", zap.Error(err), zap.String("book_id", id.String()))
		return fmt.Errorf("failed to find book")
	}
	if book == nil {
		return fmt.Errorf("book not found")
	}

	if err := s.repo.Book.Delete(ctx, id); err != nil {
		s.log.Error("Failed to delete book", zap.Error(err), zap.String("book_id", id.String()))
		return fmt.Errorf("failed to delete book")
	}

	s.log.Info("Book deleted", zap.String("book_id", id.String()))
	return nil
}
