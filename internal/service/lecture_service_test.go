package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"app/internal/apperr"
	"app/internal/model"
	"app/internal/storage"
)

func newLectureService(lectures *mockLectureRepo, courses *mockCourseRepo, media *mockMediaStore) LectureService {
	return NewLectureService(lectures, courses, media, zerolog.Nop())
}

func TestLectureCreateRequiresCourse(t *testing.T) {
	courses := new(mockCourseRepo)
	svc := newLectureService(new(mockLectureRepo), courses, new(mockMediaStore))

	courses.On("GetCourseByID", mock.Anything, "missing").Return(nil, nil)

	_, err := svc.Create(context.Background(), "missing", LectureInput{Title: "Intro"})
	assert.ErrorIs(t, err, apperr.E(apperr.NotFound, ""))
}

func TestLectureCreateUploadsVideoBeforeRow(t *testing.T) {
	lectures := new(mockLectureRepo)
	courses := new(mockCourseRepo)
	media := new(mockMediaStore)
	svc := newLectureService(lectures, courses, media)

	courses.On("GetCourseByID", mock.Anything, "course-1").Return(&model.Course{ID: "course-1"}, nil)
	media.On("Upload", mock.Anything, "lms/videos", "intro.mp4", mock.Anything, "video/mp4").
		Return(&storage.Asset{PublicID: "lms/videos/v1.mp4", URL: "https://cdn.test/v1.mp4"}, nil)
	lectures.On("CreateLecture", mock.Anything, mock.MatchedBy(func(l *model.Lecture) bool {
		return l.CourseID == "course-1" && l.Title == "Intro" && l.VideoPublicID == "lms/videos/v1.mp4"
	})).Return(nil)

	lecture, err := svc.Create(context.Background(), "course-1", LectureInput{
		Title: "Intro",
		Video: &Upload{Filename: "intro.mp4", ContentType: "video/mp4", Body: strings.NewReader("mp4")},
	})

	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/v1.mp4", lecture.VideoURL)
	lectures.AssertExpectations(t)
}

func TestLectureCreateVideoFailureSkipsRow(t *testing.T) {
	lectures := new(mockLectureRepo)
	courses := new(mockCourseRepo)
	media := new(mockMediaStore)
	svc := newLectureService(lectures, courses, media)

	courses.On("GetCourseByID", mock.Anything, "course-1").Return(&model.Course{ID: "course-1"}, nil)
	media.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("bucket unreachable"))

	_, err := svc.Create(context.Background(), "course-1", LectureInput{
		Title: "Intro",
		Video: &Upload{Filename: "intro.mp4", ContentType: "video/mp4", Body: strings.NewReader("mp4")},
	})

	assert.ErrorIs(t, err, apperr.E(apperr.Upstream, ""))
	lectures.AssertNotCalled(t, "CreateLecture", mock.Anything, mock.Anything)
}

func TestLectureUpdateReplacesVideo(t *testing.T) {
	lectures := new(mockLectureRepo)
	media := new(mockMediaStore)
	svc := newLectureService(lectures, new(mockCourseRepo), media)

	lectures.On("GetLectureByID", mock.Anything, "lec-1").Return(&model.Lecture{
		ID:            "lec-1",
		CourseID:      "course-1",
		Title:         "Old",
		VideoPublicID: "lms/videos/old.mp4",
	}, nil)
	media.On("Destroy", mock.Anything, "lms/videos/old.mp4").Return(nil)
	media.On("Upload", mock.Anything, "lms/videos", "new.mp4", mock.Anything, "video/mp4").
		Return(&storage.Asset{PublicID: "lms/videos/new.mp4", URL: "https://cdn.test/new.mp4"}, nil)
	lectures.On("UpdateLecture", mock.Anything, mock.MatchedBy(func(l *model.Lecture) bool {
		return l.Title == "New" && l.VideoPublicID == "lms/videos/new.mp4"
	})).Return(nil)

	lecture, err := svc.Update(context.Background(), "lec-1", LectureInput{
		Title: "New",
		Video: &Upload{Filename: "new.mp4", ContentType: "video/mp4", Body: strings.NewReader("mp4")},
	})

	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/new.mp4", lecture.VideoURL)
	media.AssertExpectations(t)
}

func TestLectureDeleteDestroysVideo(t *testing.T) {
	lectures := new(mockLectureRepo)
	media := new(mockMediaStore)
	svc := newLectureService(lectures, new(mockCourseRepo), media)

	lectures.On("GetLectureByID", mock.Anything, "lec-1").Return(&model.Lecture{
		ID:            "lec-1",
		VideoPublicID: "lms/videos/v1.mp4",
	}, nil)
	lectures.On("DeleteLecture", mock.Anything, "lec-1").Return(nil)
	media.On("Destroy", mock.Anything, "lms/videos/v1.mp4").Return(errors.New("gone already"))

	assert.NoError(t, svc.Delete(context.Background(), "lec-1"))
	lectures.AssertExpectations(t)
}

func TestLectureListUnknownCourse(t *testing.T) {
	courses := new(mockCourseRepo)
	svc := newLectureService(new(mockLectureRepo), courses, new(mockMediaStore))

	courses.On("GetCourseByID", mock.Anything, "missing").Return(nil, nil)

	_, err := svc.ListByCourse(context.Background(), "missing")
	assert.ErrorIs(t, err, apperr.E(apperr.NotFound, ""))
}
