package response

import (
	"time"

	"library-management/internal/data/entity"
)

type BookResponse struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Author          string     `json:"author"`
	Category        *string    `json:"category,omitempty"`
	Publisher       *string    `json:"publisher,omitempty"`
	Description     *string    `json:"description,omitempty"`
	CoverImageURL   *string    `json:"cover_image_url,omitempty"`
	ISBN            *string    `json:"isbn,omitempty"`
	Language        *string    `json:"language,omitempty"`
	PageCount       *int       `json:"page_count,omitempty"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
	Tags            []string   `json:"tags,omitempty"`
	AvailableCopies int        `json:"available_copies"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func BookToResponse(book *entity.Book) BookResponse {
	return BookResponse{
		ID:              book.ID.String(),
		Title:           book.Title,
		Author:          book.Author,
		Category:        book.Category,
		Publisher:       book.Publisher,
		Description:     book.Description,
		CoverImageURL:   book.CoverImageURL,
		ISBN:            book.ISBN,
		Language:        book.Language,
		PageCount:       book.PageCount,
		PublishedAt:     book.PublishedAt,
		Tags:            book.Tags,
		AvailableCopies: book.AvailableCopies,
		CreatedAt:       book.CreatedAt,
		UpdatedAt:       book.UpdatedAt,
	}
}
