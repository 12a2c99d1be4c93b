package entity

import "time"

type Book struct {
	BaseNoDelete
	Title           string     `db:"title"`
	Author          string     `db:"author"`
	Category        *string    `db:"category"`
	Publisher       *string    `db:"publisher"`
	Description     *string    `db:"description"`
	CoverImageURL   *string    `db:"cover_image_url"`
	ISBN            *string    `db:"isbn"`
	Language        *string    `db:"language"`
	PageCount       *int       `db:"page_count"`
	PublishedAt     *time.Time `db:"published_at"`
	Tags            []string   `db:"tags"`
	AvailableCopies int        `db:"available_copies"`
}
