package dto

// VerifySubscriptionRequest carries the gateway callback fields the client
// relays after checkout.
type VerifySubscriptionRequest struct {
	PaymentID      string `json:"razorpay_payment_id" validate:"required"`
	SubscriptionID string `json:"razorpay_subscription_id" validate:"required"`
	Signature      string `json:"razorpay_signature" validate:"required"`
}

// ContactRequest is the public contact form relayed to the support inbox.
type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required,max=5000"`
}
