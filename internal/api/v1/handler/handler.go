// Package handler implements the HTTP endpoints. Handlers bind and validate
// input, call one service method and write the shared JSON envelope; they
// hold no business rules of their own.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"app/internal/apperr"
	"app/internal/middleware"
	"app/internal/service"
	"app/internal/token"
)

const (
	// maxUploadBytes bounds multipart request memory before spilling to disk.
	maxUploadBytes = 32 << 20
	sessionTTL     = 7 * 24 * time.Hour
)

func dtoParseError(err error) error {
	return apperr.Wrap(apperr.Validation, "invalid multipart form", err)
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Wrap(apperr.Validation, "invalid request body", err)
	}
	return nil
}

// formUpload extracts an optional file part from a multipart form. A missing
// part returns nil without error.
func formUpload(r *http.Request, field string) (*service.Upload, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Validation, "invalid file upload", err)
	}
	return &service.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	}, nil
}

// setSessionCookie installs the token for cross-site frontend use, which
// forces SameSite=None and therefore Secure.
func setSessionCookie(w http.ResponseWriter, raw string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieName,
		Value:    raw,
		Path:     "/",
		MaxAge:   int(sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

func sessionClaims(r *http.Request) (*token.Claims, error) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		return nil, apperr.E(apperr.Authentication, "please login first")
	}
	return claims, nil
}
