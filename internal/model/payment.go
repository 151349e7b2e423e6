package model

import "time"

// Payment is an immutable record of a verified gateway payment. Rows are
// inserted by the subscription service after the HMAC signature check passes
// and are never updated.
type Payment struct {
	ID             string    `db:"id" json:"id"`
	PaymentID      string    `db:"payment_id" json:"payment_id"`
	SubscriptionID string    `db:"subscription_id" json:"subscription_id"`
	Signature      string    `db:"signature" json:"signature"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
