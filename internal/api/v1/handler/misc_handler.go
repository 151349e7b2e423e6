package handler

import (
	"fmt"
	"html"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"app/internal/api/v1/dto"
	"app/internal/api/v1/response"
	"app/internal/apperr"
	"app/internal/mailer"
	"app/internal/service"
)

// MiscHandler serves the health check, the contact form and the admin stats.
type MiscHandler struct {
	stats        service.StatsService
	mail         mailer.Mailer
	contactEmail string
	validate     *validator.Validate
	debug        bool
	logger       zerolog.Logger
}

func NewMiscHandler(stats service.StatsService, mail mailer.Mailer, contactEmail string, validate *validator.Validate, debug bool, logger zerolog.Logger) *MiscHandler {
	return &MiscHandler{
		stats:        stats,
		mail:         mail,
		contactEmail: contactEmail,
		validate:     validate,
		debug:        debug,
		logger:       logger.With().Str("handler", "MiscHandler").Logger(),
	}
}

// Ping handles GET /ping.
func (h *MiscHandler) Ping(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, "Pong", nil)
}

// Contact handles POST /contact by relaying the form to the support inbox.
func (h *MiscHandler) Contact(w http.ResponseWriter, r *http.Request) {
	var req dto.ContactRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err, h.debug)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		response.Error(w, err, h.debug)
		return
	}

	body := fmt.Sprintf(
		"<p><strong>Name:</strong> %s</p><p><strong>Email:</strong> %s</p><p>%s</p>",
		html.EscapeString(req.Name), html.EscapeString(req.Email), html.EscapeString(req.Message),
	)
	if err := h.mail.Send(h.contactEmail, "New contact form submission", body); err != nil {
		response.Error(w, apperr.Wrap(apperr.Upstream, "failed to send your message", err), h.debug)
		return
	}
	response.JSON(w, http.StatusOK, "Your message has been sent", nil)
}

// Stats handles GET /admin/stats for admins.
func (h *MiscHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Overview(r.Context())
	if err != nil {
		response.Error(w, err, h.debug)
		return
	}
	response.JSON(w, http.StatusOK, "Stats fetched successfully", response.Envelope{
		"users":              stats.Users,
		"active_subscribers": stats.ActiveSubscribers,
	})
}
