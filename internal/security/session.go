package security

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const sessionIDKey = "sid"

// CookieStore keeps the server-side session id and flash notices in a
// signed cookie.
type CookieStore struct {
	store *sessions.CookieStore
	name  string
}

type CookieOptions struct {
	Name   string
	Secure bool
	MaxAge int
}

func NewCookieStore(secret []byte, opts CookieOptions) *CookieStore {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   opts.MaxAge,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &CookieStore{store: store, name: opts.Name}
}

func (s *CookieStore) get(r *http.Request) *sessions.Session {
	// A tampered or stale cookie yields a fresh session alongside the error.
	sess, _ := s.store.Get(r, s.name)
	return sess
}

// SessionID returns the session id carried by the request, or "".
func (s *CookieStore) SessionID(r *http.Request) string {
	id, _ := s.get(r).Values[sessionIDKey].(string)
	return id
}

func (s *CookieStore) SetSessionID(w http.ResponseWriter, r *http.Request, id string) error {
	sess := s.get(r)
	sess.Values[sessionIDKey] = id
	return sess.Save(r, w)
}

// Clear drops the session id but keeps the cookie for pending flashes.
func (s *CookieStore) Clear(w http.ResponseWriter, r *http.Request) error {
	sess := s.get(r)
	delete(sess.Values, sessionIDKey)
	return sess.Save(r, w)
}

func (s *CookieStore) AddFlash(w http.ResponseWriter, r *http.Request, msg string) error {
	sess := s.get(r)
	sess.AddFlash(msg)
	return sess.Save(r, w)
}

// Flashes returns and consumes the pending notices.
func (s *CookieStore) Flashes(w http.ResponseWriter, r *http.Request) []string {
	sess := s.get(r)
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = sess.Save(r, w)

	msgs := make([]string, 0, len(raw))
	for _, f := range raw {
		if m, ok := f.(string); ok {
			msgs = append(msgs, m)
		}
	}
	return msgs
}
