// Package dto declares the request payloads handlers bind and validate.
package dto

// RegisterRequest is the multipart form for account creation; the avatar
// file part is read separately by the handler.
type RegisterRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=30"`
	FullName        string `json:"full_name" validate:"required,max=100"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// UpdateProfileRequest is the multipart form for profile edits; the avatar
// file part is optional.
type UpdateProfileRequest struct {
	FullName string `json:"full_name" validate:"required,max=100"`
}
