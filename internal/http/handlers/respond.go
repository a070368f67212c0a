package handlers

import (
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"worklog/internal/http/middleware"
	"worklog/internal/http/views"
	"worklog/internal/security"
	"worklog/internal/service"
)

// User-facing notices.
const (
	NoticeLoginFailed = "login failed"
	NoticeEntrySaved  = "entry saved"
	NoticeNotFound    = "entry not found"
	NoticeForbidden   = "you can only modify your own entries"
)

// responder holds what every HTML handler needs to answer a request.
type responder struct {
	views   *views.Views
	cookies *security.CookieStore
	log     logrus.FieldLogger
}

// render fills in the caller and pending notices, then writes the page.
func (h *responder) render(w http.ResponseWriter, r *http.Request, status int, name string, page views.Page) {
	if id, ok := middleware.IdentityFrom(r.Context()); ok {
		page.User = id.User
	}
	page.Flashes = append(h.cookies.Flashes(w, r), page.Flashes...)

	if err := h.views.Render(w, status, name, page); err != nil {
		h.log.WithError(err).Error("render failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *responder) redirectWithNotice(w http.ResponseWriter, r *http.Request, path, notice string) {
	if err := h.cookies.AddFlash(w, r, notice); err != nil {
		h.log.WithError(err).Warn("failed to store notice")
	}
	http.Redirect(w, r, path, http.StatusFound)
}

// handleServiceError answers with a redirect plus notice for the
// recoverable errors and a 500 for everything else.
func (h *responder) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		http.Redirect(w, r, "/login", http.StatusFound)
	case errors.Is(err, service.ErrNotFound):
		h.redirectWithNotice(w, r, "/", NoticeNotFound)
	case errors.Is(err, service.ErrForbidden):
		h.redirectWithNotice(w, r, "/", NoticeForbidden)
	default:
		h.log.WithError(err).Error("Unhandled internal server error")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *responder) identity(r *http.Request) *middleware.Identity {
	id, _ := middleware.IdentityFrom(r.Context())
	return id
}
