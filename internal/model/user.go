package model

import "time"

// Roles a user account can carry.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// SubscriptionStatusActive is the only status that grants access to paid
// content. Other values ("created", "pending", "cancelled", ...) mirror what
// the payment gateway reports.
const SubscriptionStatusActive = "active"

// User represents a registered account. PasswordHash and the reset-token
// fields never leave the API; subscription fields are mutated only by the
// subscription service.
type User struct {
	ID             string     `db:"id" json:"id"`
	Username       string     `db:"username" json:"username"`
	FullName       string     `db:"full_name" json:"full_name"`
	Email          string     `db:"email" json:"email"`
	Role           string     `db:"role" json:"role"`
	PasswordHash   string     `db:"password_hash" json:"-"`
	AvatarPublicID string     `db:"avatar_public_id" json:"-"`
	AvatarURL      string     `db:"avatar_url" json:"avatar_url"`
	ResetTokenHash *string    `db:"reset_token_hash" json:"-"`
	ResetTokenExp  *time.Time `db:"reset_token_expires_at" json:"-"`
	SubscriptionID string     `db:"subscription_id" json:"-"`
	SubscriptionSt string     `db:"subscription_status" json:"-"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// HasActiveSubscription reports whether the stored billing state grants
// access to paid content.
func (u *User) HasActiveSubscription() bool {
	return u.SubscriptionSt == SubscriptionStatusActive
}

// IsAdmin reports whether the account carries the ADMIN role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
