// Package response writes the JSON envelope every endpoint shares:
// {"success": bool, "message": string, ...payload}.
package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"app/internal/apperr"
)

// Envelope is the wire shape of every response body.
type Envelope map[string]any

// JSON writes a success envelope with the given payload fields merged in.
func JSON(w http.ResponseWriter, status int, message string, payload Envelope) {
	body := Envelope{"success": true, "message": message}
	for k, v := range payload {
		body[k] = v
	}
	write(w, status, body)
}

// Error maps err to a status code via its kind and writes a failure envelope.
// Unknown errors are reported as a generic internal failure; outside
// production, 5xx responses carry the underlying cause in a stack field.
func Error(w http.ResponseWriter, err error, debug bool) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		write(w, http.StatusBadRequest, Envelope{
			"success": false,
			"message": validationMessage(verrs),
		})
		return
	}

	e := apperr.From(err)
	status := e.Status()
	body := Envelope{"success": false, "message": e.Msg}
	if debug && status >= http.StatusInternalServerError && e.Err != nil {
		body["stack"] = e.Err.Error()
	}
	write(w, status, body)
}

func write(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func validationMessage(verrs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return strings.Join(msgs, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "eqfield":
		return fmt.Sprintf("%s must match %s", field, strings.ToLower(fe.Param()))
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
