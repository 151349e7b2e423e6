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

const lectureColumns = `id, course_id, title, description, video_public_id, video_url,
       position, created_at, updated_at`

// LectureRepository defines persistence for lectures within a course.
type LectureRepository interface {
	CreateLecture(ctx context.Context, l *model.Lecture) error
	GetLectureByID(ctx context.Context, id string) (*model.Lecture, error)
	ListLecturesByCourse(ctx context.Context, courseID string) ([]model.Lecture, error)
	UpdateLecture(ctx context.Context, l *model.Lecture) error
	DeleteLecture(ctx context.Context, id string) error
}

type lectureRepo struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewLectureRepo creates a LectureRepository backed by Postgres.
func NewLectureRepo(pool *pgxpool.Pool, logger zerolog.Logger) LectureRepository {
	return &lectureRepo{pool: pool, logger: logger}
}

// CreateLecture inserts the lecture and bumps the parent course's
// lecture_count in one transaction.
func (r *lectureRepo) CreateLecture(ctx context.Context, l *model.Lecture) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin insert lecture: %w", err)
	}
	defer tx.Rollback(ctx)

	const q = `
        INSERT INTO lectures (id, course_id, title, description, video_public_id, video_url, position)
        VALUES ($1, $2, $3, $4, $5, $6,
                (SELECT COALESCE(MAX(position), 0) + 1 FROM lectures WHERE course_id = $2))
        RETURNING position, created_at, updated_at`
	err = tx.QueryRow(ctx, q,
		l.ID, l.CourseID, l.Title, l.Description, l.VideoPublicID, l.VideoURL,
	).Scan(&l.Position, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert lecture %q: %w", l.Title, err)
	}
	const bump = `UPDATE courses SET lecture_count = lecture_count + 1, updated_at = NOW() WHERE id = $1`
	if _, err := tx.Exec(ctx, bump, l.CourseID); err != nil {
		return fmt.Errorf("bump lecture count for course %s: %w", l.CourseID, err)
	}
	return tx.Commit(ctx)
}

func (r *lectureRepo) GetLectureByID(ctx context.Context, id string) (*model.Lecture, error) {
	q := `SELECT ` + lectureColumns + ` FROM lectures WHERE id = $1`
	var l model.Lecture
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&l.ID, &l.CourseID, &l.Title, &l.Description, &l.VideoPublicID,
		&l.VideoURL, &l.Position, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

func (r *lectureRepo) ListLecturesByCourse(ctx context.Context, courseID string) ([]model.Lecture, error) {
	q := `SELECT ` + lectureColumns + ` FROM lectures WHERE course_id = $1 ORDER BY position`
	rows, err := r.pool.Query(ctx, q, courseID)
	if err != nil {
		return nil, fmt.Errorf("list lectures for course %s: %w", courseID, err)
	}
	defer rows.Close()

	var lectures []model.Lecture
	for rows.Next() {
		var l model.Lecture
		if err := rows.Scan(
			&l.ID, &l.CourseID, &l.Title, &l.Description, &l.VideoPublicID,
			&l.VideoURL, &l.Position, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan lecture row: %w", err)
		}
		lectures = append(lectures, l)
	}
	return lectures, rows.Err()
}

func (r *lectureRepo) UpdateLecture(ctx context.Context, l *model.Lecture) error {
	const q = `
        UPDATE lectures
        SET title = $2, description = $3, video_public_id = $4, video_url = $5, updated_at = NOW()
        WHERE id = $1`
	tag, err := r.pool.Exec(ctx, q, l.ID, l.Title, l.Description, l.VideoPublicID, l.VideoURL)
	if err != nil {
		return fmt.Errorf("update lecture %s: %w", l.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// DeleteLecture removes the lecture and decrements the parent course's
// lecture_count in one transaction.
func (r *lectureRepo) DeleteLecture(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete lecture: %w", err)
	}
	defer tx.Rollback(ctx)

	var courseID string
	err = tx.QueryRow(ctx, `DELETE FROM lectures WHERE id = $1 RETURNING course_id`, id).Scan(&courseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return pgx.ErrNoRows
		}
		return fmt.Errorf("delete lecture %s: %w", id, err)
	}
	const drop = `UPDATE courses SET lecture_count = GREATEST(lecture_count - 1, 0), updated_at = NOW() WHERE id = $1`
	if _, err := tx.Exec(ctx, drop, courseID); err != nil {
		return fmt.Errorf("drop lecture count for course %s: %w", courseID, err)
	}
	return tx.Commit(ctx)
}
