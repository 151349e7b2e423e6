package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"app/internal/apperr"
	"app/internal/mailer"
	"app/internal/model"
	"app/internal/repository"
	"app/internal/storage"
)

const (
	avatarFolder  = "lms/avatars"
	resetTokenTTL = 5 * time.Minute
)

// Upload is an incoming multipart file handed down from a handler.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// RegisterInput carries the validated registration fields.
type RegisterInput struct {
	Username string
	FullName string
	Email    string
	Password string
	Avatar   *Upload
}

// UserService implements account self-service: registration, login
// credentials check, profile reads and updates, and the password flows.
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.User, error)
	Get(ctx context.Context, id string) (*model.User, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, resetToken, newPassword string) error
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	UpdateProfile(ctx context.Context, userID, fullName string, avatar *Upload) (*model.User, error)
}

type userService struct {
	userRepo    repository.UserRepository
	media       storage.MediaStore
	mail        mailer.Mailer
	frontendURL string
	logger      zerolog.Logger
}

// NewUserService wires the account flows to their collaborators.
func NewUserService(
	userRepo repository.UserRepository,
	media storage.MediaStore,
	mail mailer.Mailer,
	frontendURL string,
	logger zerolog.Logger,
) UserService {
	return &userService{
		userRepo:    userRepo,
		media:       media,
		mail:        mail,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		logger:      logger.With().Str("service", "UserService").Logger(),
	}
}

// Register creates the account. The avatar upload is best effort: a media
// failure leaves the avatar fields empty and is logged, not fatal.
func (s *userService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	username := strings.ToLower(strings.TrimSpace(in.Username))

	if existing, err := s.userRepo.GetUserByUsername(ctx, username); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to check username", err)
	} else if existing != nil {
		return nil, apperr.E(apperr.Validation, "username already exists")
	}
	if existing, err := s.userRepo.GetUserByEmail(ctx, in.Email); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to check email", err)
	} else if existing != nil {
		return nil, apperr.E(apperr.Validation, "email is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to hash password", err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Username:     username,
		FullName:     in.FullName,
		Email:        in.Email,
		Role:         model.RoleUser,
		PasswordHash: string(hash),
	}

	if in.Avatar != nil {
		asset, err := s.media.Upload(ctx, avatarFolder, in.Avatar.Filename, in.Avatar.Body, in.Avatar.ContentType)
		if err != nil {
			s.logger.Error().Err(err).Str("username", username).Msg("Avatar upload failed, registering without avatar")
		} else {
			user.AvatarPublicID = asset.PublicID
			user.AvatarURL = asset.URL
		}
	}

	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "registration failed", err)
	}
	return user, nil
}

// Login checks the credentials and returns the account. A wrong password is
// a Validation failure, not Authentication: the caller has no session yet.
func (s *userService) Login(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to fetch user", err)
	}
	if user == nil {
		return nil, apperr.E(apperr.Validation, "email is not registered")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperr.E(apperr.Validation, "password is wrong")
	}
	return user, nil
}

func (s *userService) Get(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to fetch user", err)
	}
	if user == nil {
		return nil, apperr.E(apperr.NotFound, "user not found")
	}
	return user, nil
}

// ForgotPassword stores a hashed single-use reset ticket and emails the raw
// token. If the email cannot be sent the ticket is cleared again so a stale
// hash never lingers.
func (s *userService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "failed to fetch user", err)
	}
	if user == nil {
		return apperr.E(apperr.Validation, "email is not registered")
	}

	raw := make([]byte, 20)
	if _, err := rand.Read(raw); err != nil {
		return apperr.Wrap(apperr.Internal, "failed to generate reset token", err)
	}
	resetToken := hex.EncodeToString(raw)
	if err := s.userRepo.SetResetToken(ctx, user.ID, hashResetToken(resetToken), time.Now().Add(resetTokenTTL)); err != nil {
		return apperr.Wrap(apperr.Internal, "failed to store reset token", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", s.frontendURL, resetToken)
	body := fmt.Sprintf(`Reset your password by clicking on this link: <a href="%s">Reset Password</a>`, resetURL)
	if err := s.mail.Send(user.Email, "Reset Password", body); err != nil {
		if clearErr := s.userRepo.ClearResetToken(ctx, user.ID); clearErr != nil {
			s.logger.Error().Err(clearErr).Str("user_id", user.ID).Msg("Failed to clear reset token after send failure")
		}
		return apperr.Wrap(apperr.Upstream, "failed to send reset email", err)
	}
	return nil
}

// ResetPassword consumes an unexpired reset ticket.
func (s *userService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	user, err := s.userRepo.GetUserByResetToken(ctx, hashResetToken(resetToken), time.Now())
	if err != nil {
		return apperr.Wrap(apperr.Internal, "failed to fetch user", err)
	}
	if user == nil {
		return apperr.E(apperr.Validation, "reset token is invalid or expired")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "failed to hash password", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return apperr.Wrap(apperr.Internal, "failed to update password", err)
	}
	if err := s.userRepo.ClearResetToken(ctx, user.ID); err != nil {
		return apperr.Wrap(apperr.Internal, "failed to clear reset token", err)
	}
	return nil
}

func (s *userService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if oldPassword == newPassword {
		return apperr.E(apperr.Validation, "new password is the same as the old password")
	}
	user, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return apperr.E(apperr.Validation, "old password is wrong")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Wrap(apperr.Internal, "failed to hash password", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return apperr.Wrap(apperr.Internal, "failed to update password", err)
	}
	return nil
}

// UpdateProfile replaces the full name and, when an avatar is supplied,
// destroys the previous media object before uploading the new one. An upload
// failure here is surfaced, unlike during registration.
func (s *userService) UpdateProfile(ctx context.Context, userID, fullName string, avatar *Upload) (*model.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if fullName != "" {
		if err := s.userRepo.UpdateProfile(ctx, userID, fullName); err != nil {
			return nil, apperr.Wrap(apperr.Internal, "failed to update profile", err)
		}
		user.FullName = fullName
	}

	if avatar != nil {
		if user.AvatarPublicID != "" {
			if err := s.media.Destroy(ctx, user.AvatarPublicID); err != nil {
				s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to destroy previous avatar, continuing")
			}
		}
		asset, err := s.media.Upload(ctx, avatarFolder, avatar.Filename, avatar.Body, avatar.ContentType)
		if err != nil {
			return nil, apperr.Wrap(apperr.Upstream, "avatar upload failed", err)
		}
		if err := s.userRepo.UpdateAvatar(ctx, userID, asset.PublicID, asset.URL); err != nil {
			return nil, apperr.Wrap(apperr.Internal, "failed to save avatar", err)
		}
		user.AvatarPublicID = asset.PublicID
		user.AvatarURL = asset.URL
	}
	return user, nil
}

func hashResetToken(resetToken string) string {
	sum := sha256.Sum256([]byte(resetToken))
	return hex.EncodeToString(sum[:])
}
