package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"app/internal/api/v1/dto"
	"app/internal/api/v1/response"
	"app/internal/model"
	"app/internal/service"
	"app/internal/token"
)

// UserHandler serves registration, login and account management.
type UserHandler struct {
	users    service.UserService
	maker    token.Maker
	validate *validator.Validate
	debug    bool
	logger   zerolog.Logger
}

func NewUserHandler(users service.UserService, maker token.Maker, validate *validator.Validate, debug bool, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		users:    users,
		maker:    maker,
		validate: validate,
		debug:    debug,
		logger:   logger.With().Str("handler", "UserHandler").Logger(),
	}
}

func (h *UserHandler) issueSession(w http.ResponseWriter, user *model.User) error {
	raw, err := h.maker.Issue(token.Identity{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		Subscription: token.Subscription{
			ID:     user.SubscriptionID,
			Status: user.SubscriptionSt,
		},
	})
	if err != nil {
		return err
	}
	setSessionCookie(w, raw)
	return nil
}

// Register handles POST /user/register. The body is a multipart form with an
// optional avatar part.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		response.Error(w, dtoParseError(err), h.debug)
		return
	}
	req := dto.RegisterRequest{
		Username:        r.FormValue("username"),
		FullName:        r.FormValue("full_name"),
		Email:           r.FormValue("email"),
		Password:        r.FormValue("password"),
		ConfirmPassword: r.FormValue("confirm_password"),
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(w, err, h.debug)
		return
	}
	avatar, err := formUpload(r, "avatar")
	if err != nil {
		response.Error(w, err, h.debug)
		return
	}

	user, err := h.users.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Avatar:   avatar,
	})
	if err != nil {
		response.Error(w, err, h.debug)
		return
	}
	if err := h.issueSession(w, user); err != nil {
		response.Error(w, err, h.debug)
		return
	}
	response.JSON(w, http.StatusCreated, "User registered successfully", response.Envelope{"user": user})
}

// Login handles POST /user/login.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err, h.debug)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(w, err, h.debug)
		return
	}

	user, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(w, err, h.debug)
		return
	}
	if err := h.issueSession(w, user); err != nil {
		response.Error(w, err, h.debug)
		return
	}
	response.JSON(w, http.StatusOK, "Logged in successfully", response.Envelope{"user": user})
}

// Logout handles GET /user/logout.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w)
	response.JSON(w, http.StatusOK, "Logged out successfully", nil)
}

// Me handles GET /user/me and returns the account behind the session.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, err := sessionClaims(r)
	if err != nil {
		response.Error(w, err, h.debug)
		return
	}
	user, err := h.users.Get(r.Context(), claims.UserID)
	if err != nil {
		response.Error(w, err, h.debug)
		return
	}
	response.JSON(w, http.StatusOK, "User fetched successfully", response.Envelope{"user": user})
}

// ForgotPassword handles POST /user/forgot-password.
func (h *UserHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ForgotPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err, h.debug)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(w, err, h.debug)
		return
	}
	if err := h.users.ForgotPassword(r.Context(), req.Email); err != nil {
		response.Error(w, err, h.debug)
		return
	}
	response.JSON(w, http.StatusOK, "Password reset link sent to your email", nil)
}

// ResetPassword handles POST /user/reset-password/{token}.
func (h *UserHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ResetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err, h.debug)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(w, err, h.debug)
		return
	}
	if err := h.users.ResetPassword(r.Context(), r.PathValue("token"), req.Password); err != nil {
		response.Error(w, err, h.debug)
		return
	}
	response.JSON(w, http.StatusOK, "Password reset successfully", nil)
}

// ChangePassword handles POST /user/change-password for a logged-in user.
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, err := sessionClaims(r)
	if err != nil {
		response.Error(w, err, h.debug)
		return
	}
	var req dto.ChangePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err, h.debug)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(w, err, h.debug)
		return
	}
	if err := h.users.ChangePassword(r.Context(), claims.UserID, req.OldPassword, req.NewPassword); err != nil {
		response.Error(w, err, h.debug)
		return
	}
	response.JSON(w, http.StatusOK, "Password changed successfully", nil)
}

// UpdateProfile handles PUT /user/update-profile. The body is a multipart form
// with an optional avatar part.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, err := sessionClaims(r)
	if err != nil {
		response.Error(w, err, h.debug)
		return
	}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		response.Error(w, dtoParseError(err), h.debug)
		return
	}
	req := dto.UpdateProfileRequest{FullName: r.FormValue("full_name")}
	if err := h.validate.Struct(req); err != nil {
		response.Error(w, err, h.debug)
		return
	}
	avatar, err := formUpload(r, "avatar")
	if err != nil {
		response.Error(w, err, h.debug)
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), claims.UserID, req.FullName, avatar)
	if err != nil {
		response.Error(w, err, h.debug)
		return
	}
	response.JSON(w, http.StatusOK, "Profile updated successfully", response.Envelope{"user": user})
}
