package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"app/internal/model"
)

const courseColumns = `id, title, description, category, price_cents, discount_percent,
       language, skills, thumbnail_public_id, thumbnail_url, lecture_count,
       created_by, created_at, updated_at`

// CourseRepository defines persistence for the course catalog.
type CourseRepository interface {
	CreateCourse(ctx context.Context, c *model.Course) error
	GetCourseByID(ctx context.Context, id string) (*model.Course, error)
	ListCourses(ctx context.Context) ([]model.Course, error)
	UpdateCourse(ctx context.Context, c *model.Course) error
	DeleteCourse(ctx context.Context, id string) error
}

type courseRepo struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCourseRepo creates a CourseRepository backed by Postgres.
func NewCourseRepo(pool *pgxpool.Pool, logger zerolog.Logger) CourseRepository {
	return &courseRepo{pool: pool, logger: logger}
}

func scanCourse(row pgx.Row) (*model.Course, error) {
	var c model.Course
	err := row.Scan(
		&c.ID, &c.Title, &c.Description, &c.Category, &c.PriceCents,
		&c.DiscountPercent, &c.Language, &c.Skills, &c.ThumbnailPublicID,
		&c.ThumbnailURL, &c.LectureCount, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *courseRepo) CreateCourse(ctx context.Context, c *model.Course) error {
	const q = `
        INSERT INTO courses (id, title, description, category, price_cents, discount_percent,
                             language, skills, thumbnail_public_id, thumbnail_url, created_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING lecture_count, created_at, updated_at`
	err := r.pool.QueryRow(ctx, q,
		c.ID, c.Title, c.Description, c.Category, c.PriceCents, c.DiscountPercent,
		c.Language, c.Skills, c.ThumbnailPublicID, c.ThumbnailURL, c.CreatedBy,
	).Scan(&c.LectureCount, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert course %q: %w", c.Title, err)
	}
	return nil
}

func (r *courseRepo) GetCourseByID(ctx context.Context, id string) (*model.Course, error) {
	q := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`
	return scanCourse(r.pool.QueryRow(ctx, q, id))
}

func (r *courseRepo) ListCourses(ctx context.Context) ([]model.Course, error) {
	q := `SELECT ` + courseColumns + ` FROM courses ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(
			&c.ID, &c.Title, &c.Description, &c.Category, &c.PriceCents,
			&c.DiscountPercent, &c.Language, &c.Skills, &c.ThumbnailPublicID,
			&c.ThumbnailURL, &c.LectureCount, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan course row: %w", err)
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

func (r *courseRepo) UpdateCourse(ctx context.Context, c *model.Course) error {
	const q = `
        UPDATE courses
        SET title = $2, description = $3, category = $4, price_cents = $5,
            discount_percent = $6, language = $7, skills = $8,
            thumbnail_public_id = $9, thumbnail_url = $10, updated_at = NOW()
        WHERE id = $1`
	tag, err := r.pool.Exec(ctx, q,
		c.ID, c.Title, c.Description, c.Category, c.PriceCents, c.DiscountPercent,
		c.Language, c.Skills, c.ThumbnailPublicID, c.ThumbnailURL,
	)
	if err != nil {
		return fmt.Errorf("update course %s: %w", c.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *courseRepo) DeleteCourse(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete course %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
