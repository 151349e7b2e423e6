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

const videoFolder = "lms/videos"

// LectureInput carries the validated lecture fields for create and update.
type LectureInput struct {
	Title       string
	Description string
	Video       *Upload
}

// LectureService manages the lectures of a course and their video assets.
type LectureService interface {
	ListByCourse(ctx context.Context, courseID string) ([]model.Lecture, error)
	Create(ctx context.Context, courseID string, in LectureInput) (*model.Lecture, error)
	Update(ctx context.Context, id string, in LectureInput) (*model.Lecture, error)
	Delete(ctx context.Context, id string) error
}

type lectureService struct {
	lectureRepo repository.LectureRepository
	courseRepo  repository.CourseRepository
	media       storage.MediaStore
	logger      zerolog.Logger
}

// NewLectureService wires lecture management to its repositories and media store.
func NewLectureService(
	lectureRepo repository.LectureRepository,
	courseRepo repository.CourseRepository,
	media storage.MediaStore,
	logger zerolog.Logger,
) LectureService {
	return &lectureService{
		lectureRepo: lectureRepo,
		courseRepo:  courseRepo,
		media:       media,
		logger:      logger.With().Str("service", "LectureService").Logger(),
	}
}

func (s *lectureService) ListByCourse(ctx context.Context, courseID string) ([]model.Lecture, error) {
	course, err := s.courseRepo.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to fetch course", err)
	}
	if course == nil {
		return nil, apperr.E(apperr.NotFound, "course not found")
	}
	lectures, err := s.lectureRepo.ListLecturesByCourse(ctx, courseID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to list lectures", err)
	}
	return lectures, nil
}

// Create appends the lecture to the end of the course. The video must upload
// before the row is written so a failed upload never leaves a silent lecture.
func (s *lectureService) Create(ctx context.Context, courseID string, in LectureInput) (*model.Lecture, error) {
	course, err := s.courseRepo.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to fetch course", err)
	}
	if course == nil {
		return nil, apperr.E(apperr.NotFound, "course not found")
	}

	lecture := &model.Lecture{
		ID:          uuid.NewString(),
		CourseID:    courseID,
		Title:       in.Title,
		Description: in.Description,
	}

	if in.Video != nil {
		asset, err := s.media.Upload(ctx, videoFolder, in.Video.Filename, in.Video.Body, in.Video.ContentType)
		if err != nil {
			return nil, apperr.Wrap(apperr.Upstream, "video upload failed", err)
		}
		lecture.VideoPublicID = asset.PublicID
		lecture.VideoURL = asset.URL
	}

	if err := s.lectureRepo.CreateLecture(ctx, lecture); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to create lecture", err)
	}
	return lecture, nil
}

func (s *lectureService) Update(ctx context.Context, id string, in LectureInput) (*model.Lecture, error) {
	lecture, err := s.lectureRepo.GetLectureByID(ctx, id)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to fetch lecture", err)
	}
	if lecture == nil {
		return nil, apperr.E(apperr.NotFound, "lecture not found")
	}

	lecture.Title = in.Title
	lecture.Description = in.Description

	if in.Video != nil {
		if lecture.VideoPublicID != "" {
			if err := s.media.Destroy(ctx, lecture.VideoPublicID); err != nil {
				s.logger.Error().Err(err).Str("lecture_id", id).Msg("Failed to destroy previous video, continuing")
			}
		}
		asset, err := s.media.Upload(ctx, videoFolder, in.Video.Filename, in.Video.Body, in.Video.ContentType)
		if err != nil {
			return nil, apperr.Wrap(apperr.Upstream, "video upload failed", err)
		}
		lecture.VideoPublicID = asset.PublicID
		lecture.VideoURL = asset.URL
	}

	if err := s.lectureRepo.UpdateLecture(ctx, lecture); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to update lecture", err)
	}
	return lecture, nil
}

func (s *lectureService) Delete(ctx context.Context, id string) error {
	lecture, err := s.lectureRepo.GetLectureByID(ctx, id)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "failed to fetch lecture", err)
	}
	if lecture == nil {
		return apperr.E(apperr.NotFound, "lecture not found")
	}

	if err := s.lectureRepo.DeleteLecture(ctx, id); err != nil {
		return apperr.Wrap(apperr.Internal, "failed to delete lecture", err)
	}

	if lecture.VideoPublicID != "" {
		if err := s.media.Destroy(ctx, lecture.VideoPublicID); err != nil {
			s.logger.Error().Err(err).Str("lecture_id", id).Msg("Orphaned lecture video left in media store")
		}
	}
	return nil
}
