package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"app/internal/apperr"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestJSONMergesPayload(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusCreated, "User registered successfully", Envelope{"user": map[string]any{"id": "u1"}})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "User registered successfully", body["message"])
	assert.NotNil(t, body["user"])
}

func TestErrorMapsKindsToStatuses(t *testing.T) {
	cases := []struct {
		kind   apperr.Kind
		status int
	}{
		{apperr.Validation, http.StatusBadRequest},
		{apperr.NotFound, http.StatusNotFound},
		{apperr.Authentication, http.StatusUnauthorized},
		{apperr.Authorization, http.StatusForbidden},
		{apperr.PaymentVerification, http.StatusBadRequest},
		{apperr.Upstream, http.StatusBadGateway},
		{apperr.Internal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		Error(rec, apperr.E(tc.kind, "boom"), false)
		assert.Equal(t, tc.status, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "boom", body["message"])
	}
}

func TestErrorHidesCauseInProduction(t *testing.T) {
	wrapped := apperr.Wrap(apperr.Internal, "something went wrong", errors.New("pq: connection refused"))

	rec := httptest.NewRecorder()
	Error(rec, wrapped, false)
	body := decode(t, rec)
	assert.NotContains(t, body, "stack")

	rec = httptest.NewRecorder()
	Error(rec, wrapped, true)
	body = decode(t, rec)
	assert.Equal(t, "pq: connection refused", body["stack"])
}

func TestErrorUnknownErrorIsInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, errors.New("surprise"), false)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "something went wrong", body["message"])
}

func TestErrorRendersValidationFieldMessages(t *testing.T) {
	type form struct {
		Email    string `validate:"required,email"`
		Password string `validate:"required,min=8"`
	}
	err := validator.New().Struct(form{Email: "not-an-email", Password: "short"})
	require.Error(t, err)

	rec := httptest.NewRecorder()
	Error(rec, err, false)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Contains(t, body["message"], "email must be a valid email address")
	assert.Contains(t, body["message"], "password must be at least 8 characters")
}
