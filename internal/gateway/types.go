package gateway

type createSubscriptionRequest struct {
	PlanID         string `json:"plan_id"`
	CustomerNotify int    `json:"customer_notify"`
	TotalCount     int    `json:"total_count"`
}

// Subscription is the gateway's view of a recurring-billing instance.
// Status values are gateway-defined ("created", "active", "cancelled", ...).
type Subscription struct {
	ID        string `json:"id"`
	PlanID    string `json:"plan_id"`
	Status    string `json:"status"`
	StartAt   int64  `json:"start_at"`
	ChargeAt  int64  `json:"charge_at"`
	EndAt     int64  `json:"end_at"`
	PaidCount int    `json:"paid_count"`
	CreatedAt int64  `json:"created_at"`
}

// SubscriptionList is a page of gateway subscription records.
type SubscriptionList struct {
	Count int            `json:"count"`
	Items []Subscription `json:"items"`
}
