package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/ecommerce-admin/internal/session"
)

type loginView struct {
	Theme Theme
	Email string
	Error string
}

// handleLoginPage sends an admin who still holds a valid session back to the
// page they were last on. A session whose token no longer passes is cleared.
func (d *Dashboard) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s, err := d.sessions.Authorize(r)
	if err == nil {
		http.Redirect(w, r, navPath(s.NavIndex), http.StatusSeeOther)
		return
	}
	if s != nil {
		log.Info().Err(err).Str("session_id", s.ID).Msg("clearing rejected session")
		d.sessions.Destroy(r.Context(), w, s.ID)
	}

	d.views.render(w, http.StatusOK, "login.html", loginView{Theme: d.theme})
}

func (d *Dashboard) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		log.Warn().Err(err).Msg("Failed to parse login form")
		d.views.render(w, http.StatusBadRequest, "login.html", loginView{Theme: d.theme, Error: "Invalid login request"})
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")

	// r still carries the previous cookie; that session is replaced below.
	s, err := d.sessions.Login(r.Context(), w, email, password)
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("Login failed")
		d.views.render(w, http.StatusUnauthorized, "login.html", loginView{
			Theme: d.theme,
			Email: email,
			Error: "Invalid email or password",
		})
		return
	}

	d.sessions.Discard(r)

	log.Info().Str("session_id", s.ID).Msg("admin logged in")
	http.Redirect(w, r, navPath(s.NavIndex), http.StatusSeeOther)
}

func (d *Dashboard) handleLogout(w http.ResponseWriter, r *http.Request) {
	s := session.FromContext(r.Context())
	d.sessions.Destroy(r.Context(), w, s.ID)

	log.Info().Str("session_id", s.ID).Msg("admin logged out")
	http.Redirect(w, r, loginPath, http.StatusSeeOther)
}

type settingsView struct {
	SignedInAt   time.Time
	ExpiresAt    time.Time
	PollInterval string
}

func (d *Dashboard) handleSettings(w http.ResponseWriter, r *http.Request) {
	s := session.FromContext(r.Context())
	d.views.render(w, http.StatusOK, "settings.html", d.page("Settings", navSettings, settingsView{
		SignedInAt:   s.CreatedAt,
		ExpiresAt:    s.ExpiresAt,
		PollInterval: d.pollInterval.String(),
	}))
}
