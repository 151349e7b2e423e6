package handler

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"app/internal/api/v1/dto"
	"app/internal/api/v1/response"
	"app/internal/service"
	"app/internal/token"
)

// PaymentHandler serves the subscription checkout flow and the admin
// payment report.
type PaymentHandler struct {
	subscriptions service.SubscriptionService
	users         service.UserService
	maker         token.Maker
	gatewayKeyID  string
	validate      *validator.Validate
	debug         bool
	logger        zerolog.Logger
}

func NewPaymentHandler(
	subscriptions service.SubscriptionService,
	users service.UserService,
	maker token.Maker,
	gatewayKeyID string,
	validate *validator.Validate,
	debug bool,
	logger zerolog.Logger,
) *PaymentHandler {
	return &PaymentHandler{
		subscriptions: subscriptions,
		users:         users,
		maker:         maker,
		gatewayKeyID:  gatewayKeyID,
		validate:      validate,
		debug:         debug,
		logger:        logger.With().Str("handler", "PaymentHandler").Logger(),
	}
}

// refreshSession reissues the cookie so the token's billing snapshot tracks
// the change that just happened.
func (h *PaymentHandler) refreshSession(w http.ResponseWriter, r *http.Request, snap *service.SubscriptionSnapshot) {
	claims, err := sessionClaims(r)
	if err != nil {
		return
	}
	raw, err := h.maker.Issue(token.Identity{
		UserID:       claims.UserID,
		Email:        claims.Email,
		Role:         claims.Role,
		Subscription: token.Subscription{ID: snap.ID, Status: snap.Status},
	})
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to reissue session after billing change")
		return
	}
	setSessionCookie(w, raw)
}

// Apikey handles GET /payment/apikey for the checkout widget.
func (h *PaymentHandler) Apikey(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, "Razorpay key fetched successfully", response.Envelope{"key": h.gatewayKeyID})
}

// Subscribe handles POST /payment/subscribe.
func (h *PaymentHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	claims, err := sessionClaims(r)
	if err != nil {
		response.Error(w, err, h.debug)
		return
	}
	snap, err := h.subscriptions.Subscribe(r.Context(), claims.UserID)
	if err != nil {
		response.Error(w, err, h.debug)
		return
	}
	h.refreshSession(w, r, snap)
	response.JSON(w, http.StatusOK, "Subscribed successfully", response.Envelope{"subscription_id": snap.ID})
}

// VerifySubscription handles POST /payment/verify-subscription with the fields the
// gateway checkout relays back.
func (h *PaymentHandler) VerifySubscription(w http.ResponseWriter, r *http.Request) {
	claims, err := sessionClaims(r)
	if err != nil {
		response.Error(w, err, h.debug)
		return
	}
	var req dto.VerifySubscriptionRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err, h.debug)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(w, err, h.debug)
		return
	}
	snap, err := h.subscriptions.Verify(r.Context(), claims.UserID, req.PaymentID, req.SubscriptionID, req.Signature)
	if err != nil {
		response.Error(w, err, h.debug)
		return
	}
	h.refreshSession(w, r, snap)
	response.JSON(w, http.StatusOK, "Payment verified successfully", response.Envelope{"subscription": snap})
}

// Unsubscribe handles POST /payment/unsubscribe.
func (h *PaymentHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	claims, err := sessionClaims(r)
	if err != nil {
		response.Error(w, err, h.debug)
		return
	}
	snap, err := h.subscriptions.Cancel(r.Context(), claims.UserID)
	if err != nil {
		response.Error(w, err, h.debug)
		return
	}
	h.refreshSession(w, r, snap)
	response.JSON(w, http.StatusOK, "Subscription cancelled successfully", response.Envelope{"subscription": snap})
}

// ListPayments handles GET /payment for admins with count and skip query
// parameters.
func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	count, _ := strconv.Atoi(r.URL.Query().Get("count"))
	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))

	report, err := h.subscriptions.ListPayments(r.Context(), count, skip)
	if err != nil {
		response.Error(w, err, h.debug)
		return
	}
	response.JSON(w, http.StatusOK, "Payments fetched successfully", response.Envelope{
		"subscriptions":        report.Subscriptions,
		"monthly_sales_record": report.MonthlySales,
	})
}
