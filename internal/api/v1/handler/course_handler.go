package handler

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"app/internal/api/v1/dto"
	"app/internal/api/v1/response"
	"app/internal/service"
)

// CourseHandler serves the public catalog, paid course content and the
// admin course and lecture management endpoints.
type CourseHandler struct {
	courses  service.CourseService
	lectures service.LectureService
	validate *validator.Validate
	debug    bool
	logger   zerolog.Logger
}

func NewCourseHandler(courses service.CourseService, lectures service.LectureService, validate *validator.Validate, debug bool, logger zerolog.Logger) *CourseHandler {
	return &CourseHandler{
		courses:  courses,
		lectures: lectures,
		validate: validate,
		debug:    debug,
		logger:   logger.With().Str("handler", "CourseHandler").Logger(),
	}
}

func (h *CourseHandler) courseInput(r *http.Request) (*service.CourseInput, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, dtoParseError(err)
	}
	price, _ := strconv.Atoi(r.FormValue("price_cents"))
	discount, _ := strconv.Atoi(r.FormValue("discount_percent"))
	req := dto.CourseRequest{
		Title:           r.FormValue("title"),
		Description:     r.FormValue("description"),
		Category:        r.FormValue("category"),
		PriceCents:      price,
		DiscountPercent: discount,
		Language:        r.FormValue("language"),
		Skills:          r.FormValue("skills"),
	}
	if err := h.validate.Struct(req); err != nil {
		return nil, err
	}
	thumbnail, err := formUpload(r, "thumbnail")
	if err != nil {
		return nil, err
	}
	return &service.CourseInput{
		Title:           req.Title,
		Description:     req.Description,
		Category:        req.Category,
		PriceCents:      req.PriceCents,
		DiscountPercent: req.DiscountPercent,
		Language:        req.Language,
		Skills:          req.Skills,
		Thumbnail:       thumbnail,
	}, nil
}

// List handles GET /course and is public.
func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	courses, err := h.courses.List(r.Context())
	if err != nil {
		response.Error(w, err, h.debug)
		return
	}
	response.JSON(w, http.StatusOK, "Courses fetched successfully", response.Envelope{"courses": courses})
}

// Get handles GET /course/{id}. It sits behind the subscription gate and
// returns the course together with its lectures.
func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	course, err := h.courses.Get(r.Context(), id)
	if err != nil {
		response.Error(w, err, h.debug)
		return
	}
	lectures, err := h.lectures.ListByCourse(r.Context(), id)
	if err != nil {
		response.Error(w, err, h.debug)
		return
	}
	response.JSON(w, http.StatusOK, "Course fetched successfully", response.Envelope{
		"course":   course,
		"lectures": lectures,
	})
}

// Create handles POST /course/create for admins.
func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, err := sessionClaims(r)
	if err != nil {
		response.Error(w, err, h.debug)
		return
	}
	in, err := h.courseInput(r)
	if err != nil {
		response.Error(w, err, h.debug)
		return
	}
	course, err := h.courses.Create(r.Context(), claims.UserID, *in)
	if err != nil {
		response.Error(w, err, h.debug)
		return
	}
	response.JSON(w, http.StatusCreated, "Course created successfully", response.Envelope{"course": course})
}

// Update handles PUT /course/update/{id} for admins.
func (h *CourseHandler) Update(w http.ResponseWriter, r *http.Request) {
	in, err := h.courseInput(r)
	if err != nil {
		response.Error(w, err, h.debug)
		return
	}
	course, err := h.courses.Update(r.Context(), r.PathValue("id"), *in)
	if err != nil {
		response.Error(w, err, h.debug)
		return
	}
	response.JSON(w, http.StatusOK, "Course updated successfully", response.Envelope{"course": course})
}

// Delete handles DELETE /course/remove/{id} for admins.
func (h *CourseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.courses.Delete(r.Context(), r.PathValue("id")); err != nil {
		response.Error(w, err, h.debug)
		return
	}
	response.JSON(w, http.StatusOK, "Course deleted successfully", nil)
}

func (h *CourseHandler) lectureInput(r *http.Request) (*service.LectureInput, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, dtoParseError(err)
	}
	req := dto.LectureRequest{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
	}
	if err := h.validate.Struct(req); err != nil {
		return nil, err
	}
	video, err := formUpload(r, "video")
	if err != nil {
		return nil, err
	}
	return &service.LectureInput{
		Title:       req.Title,
		Description: req.Description,
		Video:       video,
	}, nil
}

// CreateLecture handles POST /course/create/lectures/{id} for admins.
func (h *CourseHandler) CreateLecture(w http.ResponseWriter, r *http.Request) {
	in, err := h.lectureInput(r)
	if err != nil {
		response.Error(w, err, h.debug)
		return
	}
	lecture, err := h.lectures.Create(r.Context(), r.PathValue("id"), *in)
	if err != nil {
		response.Error(w, err, h.debug)
		return
	}
	response.JSON(w, http.StatusCreated, "Lecture added successfully", response.Envelope{"lecture": lecture})
}

// UpdateLecture handles PUT /course/update/lectures/{id}/{lectureId} for admins.
func (h *CourseHandler) UpdateLecture(w http.ResponseWriter, r *http.Request) {
	in, err := h.lectureInput(r)
	if err != nil {
		response.Error(w, err, h.debug)
		return
	}
	lecture, err := h.lectures.Update(r.Context(), r.PathValue("lectureId"), *in)
	if err != nil {
		response.Error(w, err, h.debug)
		return
	}
	response.JSON(w, http.StatusOK, "Lecture updated successfully", response.Envelope{"lecture": lecture})
}

// DeleteLecture handles DELETE /course/remove/lectures/{id}/{lectureId} for admins.
func (h *CourseHandler) DeleteLecture(w http.ResponseWriter, r *http.Request) {
	if err := h.lectures.Delete(r.Context(), r.PathValue("lectureId")); err != nil {
		response.Error(w, err, h.debug)
		return
	}
	response.JSON(w, http.StatusOK, "Lecture removed successfully", nil)
}
