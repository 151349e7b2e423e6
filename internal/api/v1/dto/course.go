package dto

// CourseRequest is the multipart form for course create and update; the
// thumbnail file part is optional.
type CourseRequest struct {
	Title           string `json:"title" validate:"required,min=5,max=60"`
	Description     string `json:"description" validate:"required,min=20,max=500"`
	Category        string `json:"category" validate:"required,max=100"`
	PriceCents      int    `json:"price_cents" validate:"min=0"`
	DiscountPercent int    `json:"discount_percent" validate:"min=0,max=100"`
	Language        string `json:"language" validate:"required,max=50"`
	Skills          string `json:"skills" validate:"required"`
}

// LectureRequest is the multipart form for lecture create and update; the
// video file part is optional on update.
type LectureRequest struct {
	Title       string `json:"title" validate:"required,min=5,max=100"`
	Description string `json:"description" validate:"required,min=10,max=400"`
}
