package request

import "time"

type CreateBookRequest struct {
	Title           string     `json:"title" validate:"required,max=255"`
	Author          string     `json:"author" validate:"required,max=255"`
	Category        *string    `json:"category,omitempty" validate:"omitempty,max=255"`
	Publisher       *string    `json:"publisher,omitempty" validate:"omitempty,max=255"`
	Description     *string    `json:"description,omitempty"`
	CoverImageURL   *string    `json:"cover_image_url,omitempty" validate:"omitempty,max=512"`
	ISBN            *string    `json:"isbn,omitempty" validate:"omitempty,max=32"`
	Language        *string    `json:"language,omitempty" validate:"omitempty,max=64"`
	PageCount       *int       `json:"page_count,omitempty" validate:"omitempty,gt=0"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
	Tags            []string   `json:"tags,omitempty"`
	AvailableCopies int        `json:"available_copies" validate:"min=0"`
}

type UpdateBookRequest struct {
	Title           *string    `json:"title,omitempty" validate:"omitempty,max=255"`
	Author          *string    `json:"author,omitempty" validate:"omitempty,max=255"`
	Category        *string    `json:"category,omitempty" validate:"omitempty,max=255"`
	Publisher       *string    `json:"publisher,omitempty" validate:"omitempty,max=255"`
	Description     *string    `json:"description,omitempty"`
	CoverImageURL   *string    `json:"cover_image_url,omitempty" validate:"omitempty,max=512"`
	ISBN            *string    `json:"isbn,omitempty" validate:"omitempty,max=32"`
	Language        *string    `json:"language,omitempty" validate:"omitempty,max=64"`
	PageCount       *int       `json:"page_count,omitempty" validate:"omitempty,gt=0"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
	Tags            []string   `json:"tags,omitempty"`
	AvailableCopies *int       `json:"available_copies,omitempty" validate:"omitempty,min=0"`
}
