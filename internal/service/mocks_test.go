package service

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"app/internal/gateway"
	"app/internal/model"
	"app/internal/storage"
)

// mockUserRepo implements repository.UserRepository.
type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) CreateUser(ctx context.Context, u *model.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserRepo) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) GetUserByResetToken(ctx context.Context, tokenHash string, now time.Time) (*model.User, error) {
	args := m.Called(ctx, tokenHash, now)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, id, fullName string) error {
	return m.Called(ctx, id, fullName).Error(0)
}

func (m *mockUserRepo) UpdateAvatar(ctx context.Context, id, publicID, url string) error {
	return m.Called(ctx, id, publicID, url).Error(0)
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}

func (m *mockUserRepo) SetResetToken(ctx context.Context, id, tokenHash string, expiresAt time.Time) error {
	return m.Called(ctx, id, tokenHash, expiresAt).Error(0)
}

func (m *mockUserRepo) ClearResetToken(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockUserRepo) UpdateSubscription(ctx context.Context, id, subscriptionID, status string) error {
	return m.Called(ctx, id, subscriptionID, status).Error(0)
}

func (m *mockUserRepo) CountUsers(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockUserRepo) CountActiveSubscribers(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// mockPaymentRepo implements repository.PaymentRepository.
type mockPaymentRepo struct {
	mock.Mock
}

func (m *mockPaymentRepo) CreatePayment(ctx context.Context, p *model.Payment) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockPaymentRepo) ListPayments(ctx context.Context, limit, offset int) ([]model.Payment, error) {
	args := m.Called(ctx, limit, offset)
	ps, _ := args.Get(0).([]model.Payment)
	return ps, args.Error(1)
}

// mockGateway implements SubscriptionGateway.
type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) CreateSubscription(ctx context.Context, planID string) (*gateway.Subscription, error) {
	args := m.Called(ctx, planID)
	s, _ := args.Get(0).(*gateway.Subscription)
	return s, args.Error(1)
}

func (m *mockGateway) CancelSubscription(ctx context.Context, subscriptionID string) (*gateway.Subscription, error) {
	args := m.Called(ctx, subscriptionID)
	s, _ := args.Get(0).(*gateway.Subscription)
	return s, args.Error(1)
}

func (m *mockGateway) ListSubscriptions(ctx context.Context, count, skip int) (*gateway.SubscriptionList, error) {
	args := m.Called(ctx, count, skip)
	l, _ := args.Get(0).(*gateway.SubscriptionList)
	return l, args.Error(1)
}

// mockMediaStore implements storage.MediaStore.
type mockMediaStore struct {
	mock.Mock
}

func (m *mockMediaStore) Upload(ctx context.Context, folder, filename string, body io.Reader, contentType string) (*storage.Asset, error) {
	args := m.Called(ctx, folder, filename, body, contentType)
	a, _ := args.Get(0).(*storage.Asset)
	return a, args.Error(1)
}

func (m *mockMediaStore) Destroy(ctx context.Context, publicID string) error {
	return m.Called(ctx, publicID).Error(0)
}

// mockMailer implements mailer.Mailer.
type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) Send(to, subject, htmlBody string) error {
	return m.Called(to, subject, htmlBody).Error(0)
}

// mockCourseRepo implements repository.CourseRepository.
type mockCourseRepo struct {
	mock.Mock
}

func (m *mockCourseRepo) CreateCourse(ctx context.Context, c *model.Course) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockCourseRepo) GetCourseByID(ctx context.Context, id string) (*model.Course, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*model.Course)
	return c, args.Error(1)
}

func (m *mockCourseRepo) ListCourses(ctx context.Context) ([]model.Course, error) {
	args := m.Called(ctx)
	cs, _ := args.Get(0).([]model.Course)
	return cs, args.Error(1)
}

func (m *mockCourseRepo) UpdateCourse(ctx context.Context, c *model.Course) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockCourseRepo) DeleteCourse(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// mockLectureRepo implements repository.LectureRepository.
type mockLectureRepo struct {
	mock.Mock
}

func (m *mockLectureRepo) CreateLecture(ctx context.Context, l *model.Lecture) error {
	return m.Called(ctx, l).Error(0)
}

func (m *mockLectureRepo) GetLectureByID(ctx context.Context, id string) (*model.Lecture, error) {
	args := m.Called(ctx, id)
	l, _ := args.Get(0).(*model.Lecture)
	return l, args.Error(1)
}

func (m *mockLectureRepo) ListLecturesByCourse(ctx context.Context, courseID string) ([]model.Lecture, error) {
	args := m.Called(ctx, courseID)
	ls, _ := args.Get(0).([]model.Lecture)
	return ls, args.Error(1)
}

func (m *mockLectureRepo) UpdateLecture(ctx context.Context, l *model.Lecture) error {
	return m.Called(ctx, l).Error(0)
}

func (m *mockLectureRepo) DeleteLecture(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
