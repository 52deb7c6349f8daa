package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
)

// Authenticator exchanges admin credentials for a bearer token.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, error)
}

type Options struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
	Now        func() time.Time
}

// Manager ties the session cookie, the store and the API login together.
type Manager struct {
	store Store
	auth  Authenticator
	opts  Options
}

func NewManager(store Store, auth Authenticator, opts Options) *Manager {
	if opts.CookieName == "" {
		opts.CookieName = "session"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Manager{store: store, auth: auth, opts: opts}
}

func (m *Manager) Now() time.Time {
	return m.opts.Now()
}

// Login authenticates against the API and starts a fresh session.
func (m *Manager) Login(ctx context.Context, w http.ResponseWriter, email, password string) (*Session, error) {
	token, err := m.auth.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("failed to login: %w", err)
	}

	expiresAt, err := CheckToken(token, m.Now())
	if err != nil {
		return nil, fmt.Errorf("login returned unusable token: %w", err)
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session id: %w", err)
	}

	s := &Session{
		ID:        id.String(),
		Token:     token,
		CreatedAt: m.Now(),
		ExpiresAt: expiresAt,
	}
	if err := m.store.Save(ctx, s); err != nil {
		return nil, err
	}

	m.setCookie(w, s.ID)
	return s, nil
}

// Current returns the session referenced by the request cookie.
func (m *Manager) Current(r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(m.opts.CookieName)
	if err != nil || cookie.Value == "" {
		return nil, ErrNotFound
	}
	return m.store.Get(r.Context(), cookie.Value)
}

// Authorize loads the request's session and checks its token. The session
// is returned only if the token is still valid.
func (m *Manager) Authorize(r *http.Request) (*Session, error) {
	s, err := m.Current(r)
	if err != nil {
		return nil, err
	}
	if _, err := CheckToken(s.Token, m.Now()); err != nil {
		return s, err
	}
	return s, nil
}

// Discard deletes the session the request's cookie points at, if any. The
// cookie itself is left for the caller to overwrite.
func (m *Manager) Discard(r *http.Request) {
	cookie, err := r.Cookie(m.opts.CookieName)
	if err != nil || cookie.Value == "" {
		return
	}
	if err := m.store.Delete(r.Context(), cookie.Value); err != nil {
		log.Error().Err(err).Str("session_id", cookie.Value).Msg("failed to delete session")
	}
}

// Destroy drops the token and nav index together and expires the cookie.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, id string) {
	if id != "" {
		if err := m.store.Delete(ctx, id); err != nil {
			log.Error().Err(err).Str("session_id", id).Msg("failed to delete session")
		}
	}
	m.clearCookie(w)
}

func (m *Manager) SetNavIndex(ctx context.Context, s *Session, index int) error {
	s.NavIndex = index
	return m.store.Save(ctx, s)
}

func (m *Manager) setCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(m.opts.TTL.Seconds()),
	})
}

func (m *Manager) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// Guard protects routes: without a session holding an unexpired token the
// request is sent to loginPath and whatever was stored is cleared.
func (m *Manager) Guard(loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, err := m.Authorize(r)
			if err != nil {
				id := ""
				if s != nil {
					id = s.ID
				}

				event := log.Info()
				if !errors.Is(err, ErrNotFound) {
					event = log.Warn()
				}
				event.Err(err).Str("path", r.URL.Path).Msg("session rejected")

				m.Destroy(r.Context(), w, id)
				http.Redirect(w, r, loginPath, http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), s)))
		})
	}
}
