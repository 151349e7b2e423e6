package model

import "time"

// Course is a catalog entry. Thumbnail fields reference the media store.
type Course struct {
	ID                string    `db:"id" json:"id"`
	Title             string    `db:"title" json:"title"`
	Description       string    `db:"description" json:"description"`
	Category          string    `db:"category" json:"category"`
	PriceCents        int       `db:"price_cents" json:"price_cents"`
	DiscountPercent   int       `db:"discount_percent" json:"discount_percent"`
	Language          string    `db:"language" json:"language"`
	Skills            string    `db:"skills" json:"skills"`
	ThumbnailPublicID string    `db:"thumbnail_public_id" json:"-"`
	ThumbnailURL      string    `db:"thumbnail_url" json:"thumbnail_url"`
	LectureCount      int       `db:"lecture_count" json:"lecture_count"`
	CreatedBy         string    `db:"created_by" json:"created_by"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// Lecture belongs to a course; the video fields reference the media store.
type Lecture struct {
	ID            string    `db:"id" json:"id"`
	CourseID      string    `db:"course_id" json:"course_id"`
	Title         string    `db:"title" json:"title"`
	Description   string    `db:"description" json:"description"`
	VideoPublicID string    `db:"video_public_id" json:"-"`
	VideoURL      string    `db:"video_url" json:"video_url"`
	Position      int       `db:"position" json:"position"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}
