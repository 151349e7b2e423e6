package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"app/internal/apperr"
	"app/internal/model"
	"app/internal/service"
	"app/internal/token"
)

func newPaymentHandler(subs *mockSubscriptionService, maker token.Maker) *PaymentHandler {
	return NewPaymentHandler(subs, new(mockUserService), maker, "rzp_test_key", validator.New(), false, zerolog.Nop())
}

func TestApikeyReturnsGatewayKey(t *testing.T) {
	h := newPaymentHandler(new(mockSubscriptionService), token.NewMaker("test-secret", time.Hour))

	rec := httptest.NewRecorder()
	h.Apikey(rec, httptest.NewRequest(http.MethodGet, "/api/v1/razorpay-key", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "rzp_test_key", resp["key"])
}

func TestSubscribeRefreshesSessionCookie(t *testing.T) {
	subs := new(mockSubscriptionService)
	maker := token.NewMaker("test-secret", time.Hour)
	h := newPaymentHandler(subs, maker)

	subs.On("Subscribe", mock.Anything, "user-1").Return(&service.SubscriptionSnapshot{
		ID:     "sub_123",
		Status: "created",
	}, nil)

	req := authedRequest(t, maker, http.MethodPost, "/api/v1/subscribe", nil, token.Identity{
		UserID: "user-1",
		Email:  "alice@example.com",
		Role:   model.RoleUser,
	})
	rec := httptest.NewRecorder()
	h.Subscribe(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	cookie := sessionCookie(t, rec)
	require.NotNil(t, cookie)
	claims, err := maker.Verify(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, "sub_123", claims.Subscription.ID)
	assert.Equal(t, "created", claims.Subscription.Status)
}

func TestVerifySubscriptionRequiresAllFields(t *testing.T) {
	subs := new(mockSubscriptionService)
	maker := token.NewMaker("test-secret", time.Hour)
	h := newPaymentHandler(subs, maker)

	body := strings.NewReader(`{"razorpay_payment_id":"pay_1"}`)
	req := authedRequest(t, maker, http.MethodPost, "/api/v1/verify-subscription", body, token.Identity{
		UserID: "user-1",
		Role:   model.RoleUser,
	})
	rec := httptest.NewRecorder()
	h.VerifySubscription(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	subs.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifySubscriptionActivates(t *testing.T) {
	subs := new(mockSubscriptionService)
	maker := token.NewMaker("test-secret", time.Hour)
	h := newPaymentHandler(subs, maker)

	subs.On("Verify", mock.Anything, "user-1", "pay_1", "sub_123", "deadbeef").Return(&service.SubscriptionSnapshot{
		ID:     "sub_123",
		Status: "active",
	}, nil)

	body := strings.NewReader(`{"razorpay_payment_id":"pay_1","razorpay_subscription_id":"sub_123","razorpay_signature":"deadbeef"}`)
	req := authedRequest(t, maker, http.MethodPost, "/api/v1/verify-subscription", body, token.Identity{
		UserID: "user-1",
		Role:   model.RoleUser,
	})
	rec := httptest.NewRecorder()
	h.VerifySubscription(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	cookie := sessionCookie(t, rec)
	require.NotNil(t, cookie)
	claims, err := maker.Verify(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, "active", claims.Subscription.Status)
}

func TestVerifySubscriptionBadSignature(t *testing.T) {
	subs := new(mockSubscriptionService)
	maker := token.NewMaker("test-secret", time.Hour)
	h := newPaymentHandler(subs, maker)

	subs.On("Verify", mock.Anything, "user-1", "pay_1", "sub_123", "bad").
		Return(nil, apperr.E(apperr.PaymentVerification, "payment verification failed"))

	body := strings.NewReader(`{"razorpay_payment_id":"pay_1","razorpay_subscription_id":"sub_123","razorpay_signature":"bad"}`)
	req := authedRequest(t, maker, http.MethodPost, "/api/v1/verify-subscription", body, token.Identity{
		UserID: "user-1",
		Role:   model.RoleUser,
	})
	rec := httptest.NewRecorder()
	h.VerifySubscription(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, sessionCookie(t, rec))
}

func TestUnsubscribeAdminForbidden(t *testing.T) {
	subs := new(mockSubscriptionService)
	maker := token.NewMaker("test-secret", time.Hour)
	h := newPaymentHandler(subs, maker)

	subs.On("Cancel", mock.Anything, "admin-1").
		Return(nil, apperr.E(apperr.Authorization, "admin accounts cannot hold subscriptions"))

	req := authedRequest(t, maker, http.MethodPost, "/api/v1/unsubscribe", nil, token.Identity{
		UserID: "admin-1",
		Role:   model.RoleAdmin,
	})
	rec := httptest.NewRecorder()
	h.Unsubscribe(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestListPaymentsPassesPaging(t *testing.T) {
	subs := new(mockSubscriptionService)
	maker := token.NewMaker("test-secret", time.Hour)
	h := newPaymentHandler(subs, maker)

	report := &service.PaymentReport{}
	report.MonthlySales[0] = 2
	subs.On("ListPayments", mock.Anything, 50, 10).Return(report, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payments?count=50&skip=10", nil)
	rec := httptest.NewRecorder()
	h.ListPayments(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	subs.AssertExpectations(t)
}
