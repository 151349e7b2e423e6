package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"app/internal/apperr"
	"app/internal/model"
	"app/internal/repository"
	"app/internal/storage"
)

const thumbnailFolder = "lms/thumbnails"

// CourseInput carries the validated course fields for create and update.
type CourseInput struct {
	Title           string
	Description     string
	Category        string
	PriceCents      int
	DiscountPercent int
	Language        string
	Skills          string
	Thumbnail       *Upload
}

// CourseService manages the course catalog and its thumbnails.
type CourseService interface {
	List(ctx context.Context) ([]model.Course, error)
	Get(ctx context.Context, id string) (*model.Course, error)
	Create(ctx context.Context, createdBy string, in CourseInput) (*model.Course, error)
	Update(ctx context.Context, id string, in CourseInput) (*model.Course, error)
	Delete(ctx context.Context, id string) error
}

type courseService struct {
	courseRepo  repository.CourseRepository
	lectureRepo repository.LectureRepository
	media       storage.MediaStore
	logger      zerolog.Logger
}

// NewCourseService wires the catalog to its repository and the media store.
func NewCourseService(
	courseRepo repository.CourseRepository,
	lectureRepo repository.LectureRepository,
	media storage.MediaStore,
	logger zerolog.Logger,
) CourseService {
	return &courseService{
		courseRepo:  courseRepo,
		lectureRepo: lectureRepo,
		media:       media,
		logger:      logger.With().Str("service", "CourseService").Logger(),
	}
}

func (s *courseService) List(ctx context.Context) ([]model.Course, error) {
	courses, err := s.courseRepo.ListCourses(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to list courses", err)
	}
	return courses, nil
}

func (s *courseService) Get(ctx context.Context, id string) (*model.Course, error) {
	course, err := s.courseRepo.GetCourseByID(ctx, id)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to fetch course", err)
	}
	if course == nil {
		return nil, apperr.E(apperr.NotFound, "course not found")
	}
	return course, nil
}

// Create persists the course; a thumbnail upload failure leaves the fields
// empty and is logged, matching the avatar behavior on registration.
func (s *courseService) Create(ctx context.Context, createdBy string, in CourseInput) (*model.Course, error) {
	course := &model.Course{
		ID:              uuid.NewString(),
		Title:           in.Title,
		Description:     in.Description,
		Category:        in.Category,
		PriceCents:      in.PriceCents,
		DiscountPercent: in.DiscountPercent,
		Language:        in.Language,
		Skills:          in.Skills,
		CreatedBy:       createdBy,
	}

	if in.Thumbnail != nil {
		asset, err := s.media.Upload(ctx, thumbnailFolder, in.Thumbnail.Filename, in.Thumbnail.Body, in.Thumbnail.ContentType)
		if err != nil {
			s.logger.Error().Err(err).Str("title", in.Title).Msg("Thumbnail upload failed, creating course without one")
		} else {
			course.ThumbnailPublicID = asset.PublicID
			course.ThumbnailURL = asset.URL
		}
	}

	if err := s.courseRepo.CreateCourse(ctx, course); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to create course", err)
	}
	return course, nil
}

// Update overwrites the mutable fields; when a new thumbnail arrives the old
// media object is destroyed first.
func (s *courseService) Update(ctx context.Context, id string, in CourseInput) (*model.Course, error) {
	course, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	course.Title = in.Title
	course.Description = in.Description
	course.Category = in.Category
	course.PriceCents = in.PriceCents
	course.DiscountPercent = in.DiscountPercent
	course.Language = in.Language
	course.Skills = in.Skills

	if in.Thumbnail != nil {
		if course.ThumbnailPublicID != "" {
			if err := s.media.Destroy(ctx, course.ThumbnailPublicID); err != nil {
				s.logger.Error().Err(err).Str("course_id", id).Msg("Failed to destroy previous thumbnail, continuing")
			}
		}
		asset, err := s.media.Upload(ctx, thumbnailFolder, in.Thumbnail.Filename, in.Thumbnail.Body, in.Thumbnail.ContentType)
		if err != nil {
			return nil, apperr.Wrap(apperr.Upstream, "thumbnail upload failed", err)
		}
		course.ThumbnailPublicID = asset.PublicID
		course.ThumbnailURL = asset.URL
	}

	if err := s.courseRepo.UpdateCourse(ctx, course); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to update course", err)
	}
	return course, nil
}

// Delete removes the course row (lectures cascade) and then best-effort
// destroys the course's media objects; orphans are logged, not retried.
func (s *courseService) Delete(ctx context.Context, id string) error {
	course, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	lectures, err := s.lectureRepo.ListLecturesByCourse(ctx, id)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "failed to list lectures", err)
	}

	if err := s.courseRepo.DeleteCourse(ctx, id); err != nil {
		return apperr.Wrap(apperr.Internal, "failed to delete course", err)
	}

	if course.ThumbnailPublicID != "" {
		if err := s.media.Destroy(ctx, course.ThumbnailPublicID); err != nil {
			s.logger.Error().Err(err).Str("course_id", id).Msg("Orphaned thumbnail left in media store")
		}
	}
	for _, l := range lectures {
		if l.VideoPublicID == "" {
			continue
		}
		if err := s.media.Destroy(ctx, l.VideoPublicID); err != nil {
			s.logger.Error().Err(err).Str("lecture_id", l.ID).Msg("Orphaned lecture video left in media store")
		}
	}
	return nil
}
