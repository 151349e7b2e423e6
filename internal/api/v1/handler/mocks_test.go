package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"app/internal/model"
	"app/internal/service"
)

// mockUserService implements service.UserService.
type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) Register(ctx context.Context, in service.RegisterInput) (*model.User, error) {
	args := m.Called(ctx, in)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockUserService) Login(ctx context.Context, email, password string) (*model.User, error) {
	args := m.Called(ctx, email, password)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockUserService) Get(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockUserService) ForgotPassword(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *mockUserService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	return m.Called(ctx, resetToken, newPassword).Error(0)
}

func (m *mockUserService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	return m.Called(ctx, userID, oldPassword, newPassword).Error(0)
}

func (m *mockUserService) UpdateProfile(ctx context.Context, userID, fullName string, avatar *service.Upload) (*model.User, error) {
	args := m.Called(ctx, userID, fullName, avatar)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

// mockSubscriptionService implements service.SubscriptionService.
type mockSubscriptionService struct {
	mock.Mock
}

func (m *mockSubscriptionService) Subscribe(ctx context.Context, userID string) (*service.SubscriptionSnapshot, error) {
	args := m.Called(ctx, userID)
	s, _ := args.Get(0).(*service.SubscriptionSnapshot)
	return s, args.Error(1)
}

func (m *mockSubscriptionService) Verify(ctx context.Context, userID, paymentID, subscriptionID, signature string) (*service.SubscriptionSnapshot, error) {
	args := m.Called(ctx, userID, paymentID, subscriptionID, signature)
	s, _ := args.Get(0).(*service.SubscriptionSnapshot)
	return s, args.Error(1)
}

func (m *mockSubscriptionService) Cancel(ctx context.Context, userID string) (*service.SubscriptionSnapshot, error) {
	args := m.Called(ctx, userID)
	s, _ := args.Get(0).(*service.SubscriptionSnapshot)
	return s, args.Error(1)
}

func (m *mockSubscriptionService) ListPayments(ctx context.Context, count, skip int) (*service.PaymentReport, error) {
	args := m.Called(ctx, count, skip)
	r, _ := args.Get(0).(*service.PaymentReport)
	return r, args.Error(1)
}

// mockMailer implements mailer.Mailer.
type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) Send(to, subject, htmlBody string) error {
	return m.Called(to, subject, htmlBody).Error(0)
}
