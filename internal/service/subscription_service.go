package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"app/internal/apperr"
	"app/internal/gateway"
	"app/internal/model"
	"app/internal/repository"
)

// SubscriptionGateway is the slice of the payment gateway the subscription
// service needs.
type SubscriptionGateway interface {
	CreateSubscription(ctx context.Context, planID string) (*gateway.Subscription, error)
	CancelSubscription(ctx context.Context, subscriptionID string) (*gateway.Subscription, error)
	ListSubscriptions(ctx context.Context, count, skip int) (*gateway.SubscriptionList, error)
}

// SubscriptionSnapshot is the {id, status} pair mirrored onto the user record.
type SubscriptionSnapshot struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// PaymentReport is the admin view over gateway subscriptions: the raw page
// plus a per-month count of subscription starts (January..December).
type PaymentReport struct {
	Subscriptions *gateway.SubscriptionList `json:"subscriptions"`
	MonthlySales  [12]int                   `json:"monthly_sales_record"`
}

// SubscriptionService drives a user's billing state:
// none -> created/pending -> active -> cancelled.
type SubscriptionService interface {
	Subscribe(ctx context.Context, userID string) (*SubscriptionSnapshot, error)
	Verify(ctx context.Context, userID, paymentID, subscriptionID, signature string) (*SubscriptionSnapshot, error)
	Cancel(ctx context.Context, userID string) (*SubscriptionSnapshot, error)
	ListPayments(ctx context.Context, count, skip int) (*PaymentReport, error)
}

type subscriptionService struct {
	userRepo    repository.UserRepository
	paymentRepo repository.PaymentRepository
	gateway     SubscriptionGateway
	planID      string
	keySecret   string
	logger      zerolog.Logger
}

// NewSubscriptionService wires the state machine to its repositories and the
// gateway. keySecret is the shared secret used for payment-signature checks.
func NewSubscriptionService(
	userRepo repository.UserRepository,
	paymentRepo repository.PaymentRepository,
	gw SubscriptionGateway,
	planID, keySecret string,
	logger zerolog.Logger,
) SubscriptionService {
	return &subscriptionService{
		userRepo:    userRepo,
		paymentRepo: paymentRepo,
		gateway:     gw,
		planID:      planID,
		keySecret:   keySecret,
		logger:      logger.With().Str("service", "SubscriptionService").Logger(),
	}
}

// Subscribe creates a gateway subscription for the plan and stores the
// returned {id, status} on the user. Calling it twice creates two gateway
// subscriptions; only the latest id is kept.
func (s *subscriptionService) Subscribe(ctx context.Context, userID string) (*SubscriptionSnapshot, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsAdmin() {
		return nil, apperr.E(apperr.Authorization, "admin cannot purchase a subscription")
	}

	sub, err := s.gateway.CreateSubscription(ctx, s.planID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to create gateway subscription")
		return nil, err
	}
	if err := s.userRepo.UpdateSubscription(ctx, userID, sub.ID, sub.Status); err != nil {
		// The gateway subscription exists but the local record does not
		// reflect it; surfaced, not compensated.
		s.logger.Error().Err(err).Str("user_id", userID).Str("subscription_id", sub.ID).
			Msg("Gateway subscription created but local save failed")
		return nil, apperr.Wrap(apperr.Internal, "failed to save subscription", err)
	}
	return &SubscriptionSnapshot{ID: sub.ID, Status: sub.Status}, nil
}

// Verify recomputes the HMAC-SHA256 signature over the payment id and the
// user's stored subscription id and, on a byte-for-byte match, records the
// payment and activates the subscription. A mismatch changes nothing; a
// replayed payment id is rejected without re-activating.
func (s *subscriptionService) Verify(ctx context.Context, userID, paymentID, subscriptionID, signature string) (*SubscriptionSnapshot, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.SubscriptionID == "" {
		return nil, apperr.E(apperr.Validation, "no subscription to verify")
	}

	expected := s.sign(paymentID, user.SubscriptionID)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		s.logger.Warn().Str("user_id", userID).Str("payment_id", paymentID).
			Msg("Payment signature mismatch")
		return nil, apperr.E(apperr.PaymentVerification, "payment could not be verified, please try again")
	}

	// The row keeps the subscription id the gateway relayed with the
	// payment; the signature was checked against the stored one.
	payment := &model.Payment{
		ID:             uuid.NewString(),
		PaymentID:      paymentID,
		SubscriptionID: subscriptionID,
		Signature:      signature,
	}
	if err := s.paymentRepo.CreatePayment(ctx, payment); err != nil {
		if errors.Is(err, repository.ErrDuplicatePayment) {
			return nil, apperr.E(apperr.Validation, "payment has already been recorded")
		}
		return nil, apperr.Wrap(apperr.Internal, "failed to record payment", err)
	}
	if err := s.userRepo.UpdateSubscription(ctx, userID, user.SubscriptionID, model.SubscriptionStatusActive); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to activate subscription", err)
	}
	return &SubscriptionSnapshot{ID: user.SubscriptionID, Status: model.SubscriptionStatusActive}, nil
}

// Cancel cancels the gateway subscription and mirrors the status the gateway
// reports (normally "cancelled") onto the user.
func (s *subscriptionService) Cancel(ctx context.Context, userID string) (*SubscriptionSnapshot, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsAdmin() {
		return nil, apperr.E(apperr.Authorization, "admin cannot cancel a subscription")
	}
	if user.SubscriptionID == "" {
		return nil, apperr.E(apperr.Validation, "no subscription to cancel")
	}

	sub, err := s.gateway.CancelSubscription(ctx, user.SubscriptionID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Str("subscription_id", user.SubscriptionID).
			Msg("Failed to cancel gateway subscription")
		return nil, err
	}
	if err := s.userRepo.UpdateSubscription(ctx, userID, user.SubscriptionID, sub.Status); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to save subscription status", err)
	}
	return &SubscriptionSnapshot{ID: user.SubscriptionID, Status: sub.Status}, nil
}

// ListPayments fetches a page of gateway subscriptions and buckets them by
// start month for the admin dashboard.
func (s *subscriptionService) ListPayments(ctx context.Context, count, skip int) (*PaymentReport, error) {
	if count <= 0 {
		count = 100
	}
	if skip < 0 {
		skip = 0
	}
	list, err := s.gateway.ListSubscriptions(ctx, count, skip)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list gateway subscriptions")
		return nil, err
	}

	report := &PaymentReport{Subscriptions: list}
	for _, item := range list.Items {
		if item.StartAt == 0 {
			continue
		}
		month := time.Unix(item.StartAt, 0).Month()
		report.MonthlySales[int(month)-1]++
	}
	return report, nil
}

func (s *subscriptionService) loadUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "failed to fetch user", err)
	}
	if user == nil {
		return nil, apperr.E(apperr.NotFound, "user not found")
	}
	return user, nil
}

func (s *subscriptionService) sign(paymentID, subscriptionID string) string {
	mac := hmac.New(sha256.New, []byte(s.keySecret))
	mac.Write([]byte(paymentID + "|" + subscriptionID))
	return hex.EncodeToString(mac.Sum(nil))
}
