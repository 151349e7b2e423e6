package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"app/internal/service"
)

type mockStatsService struct {
	mock.Mock
}

func (m *mockStatsService) Overview(ctx context.Context) (*service.Stats, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(*service.Stats)
	return s, args.Error(1)
}

func newMiscHandler(stats *mockStatsService, mail *mockMailer) *MiscHandler {
	return NewMiscHandler(stats, mail, "support@lms.example.com", validator.New(), false, zerolog.Nop())
}

func TestPing(t *testing.T) {
	h := newMiscHandler(new(mockStatsService), new(mockMailer))

	rec := httptest.NewRecorder()
	h.Ping(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestContactRelaysToSupportInbox(t *testing.T) {
	mail := new(mockMailer)
	h := newMiscHandler(new(mockStatsService), mail)

	mail.On("Send", "support@lms.example.com", "New contact form submission", mock.MatchedBy(func(body string) bool {
		return strings.Contains(body, "Bob") && strings.Contains(body, "bob@example.com")
	})).Return(nil)

	body := `{"name":"Bob","email":"bob@example.com","message":"Hi there"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/contact", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Contact(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	mail.AssertExpectations(t)
}

func TestContactEscapesHTML(t *testing.T) {
	mail := new(mockMailer)
	h := newMiscHandler(new(mockStatsService), mail)

	mail.On("Send", mock.Anything, mock.Anything, mock.MatchedBy(func(body string) bool {
		return !strings.Contains(body, "<script>")
	})).Return(nil)

	body := `{"name":"Bob","email":"bob@example.com","message":"<script>alert(1)</script>"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/contact", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Contact(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStatsReportsCounts(t *testing.T) {
	stats := new(mockStatsService)
	h := newMiscHandler(stats, new(mockMailer))

	stats.On("Overview", mock.Anything).Return(&service.Stats{Users: 42, ActiveSubscribers: 7}, nil)

	rec := httptest.NewRecorder()
	h.Stats(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats/users", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"users":42`)
	assert.Contains(t, rec.Body.String(), `"active_subscribers":7`)
}
