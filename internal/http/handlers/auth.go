package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"worklog/internal/http/views"
	"worklog/internal/security"
	"worklog/internal/service"
)

type AuthHandler struct {
	responder
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService, v *views.Views, cookies *security.CookieStore, log logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{
		responder: responder{views: v, cookies: cookies, log: log.WithField("handler", "auth")},
		auth:      auth,
	}
}

func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "login", views.Page{Title: "Login"})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")

	session, err := h.auth.Login(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.render(w, r, http.StatusUnauthorized, "login", views.Page{
				Title:    "Login",
				Username: username,
				Flashes:  []string{NoticeLoginFailed},
			})
			return
		}
		h.handleServiceError(w, r, err)
		return
	}

	// Replace any previous server-side session held by this browser.
	if old := h.cookies.SessionID(r); old != "" && old != session.ID {
		_ = h.auth.Logout(r.Context(), old)
	}
	if err := h.cookies.SetSessionID(w, r, session.ID); err != nil {
		h.log.WithError(err).Error("failed to write session cookie")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

// Logout destroys the session, if any, and returns to the login page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context(), h.cookies.SessionID(r)); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	if err := h.cookies.Clear(w, r); err != nil {
		h.log.WithError(err).Warn("failed to clear session cookie")
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}
