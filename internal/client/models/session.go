package models

import "time"

// AuthEvent names a session change reported by the auth service.
type AuthEvent string

const (
	EventSignedIn       AuthEvent = "SIGNED_IN"
	EventSignedOut      AuthEvent = "SIGNED_OUT"
	EventTokenRefreshed AuthEvent = "TOKEN_REFRESHED"
	EventUserUpdated    AuthEvent = "USER_UPDATED"
)

// User is the minimal identity derived from a session.
type User struct {
	ID                 string
	Email              string
	ConfirmationSentAt *time.Time
	EmailConfirmedAt   *time.Time
}

// Session is the client's read-only copy of what the auth service issued.
// The service owns the token; the client only caches and forwards it.
type Session struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresAt    time.Time
	User         User
}

// Expired reports whether the access token is expired at now, treating the
// last leeway of its lifetime as already expired.
func (s *Session) Expired(now time.Time, leeway time.Duration) bool {
	if s == nil {
		return true
	}
	if s.ExpiresAt.IsZero() {
		return false
	}
	return !now.Add(leeway).Before(s.ExpiresAt)
}

// Identity returns the user carried by the session, or nil when there is no
// session. Callers get a copy.
func (s *Session) Identity() *User {
	if s == nil || s.User.ID == "" {
		return nil
	}
	u := s.User
	return &u
}

func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// SignUpResult is what a sign-up request returned. Session is nil while the
// account waits for email confirmation.
type SignUpResult struct {
	User    *User
	Session *Session
}

// ConfirmationSent reports whether the service mailed a confirmation link.
func (r *SignUpResult) ConfirmationSent() bool {
	return r != nil && r.User != nil && r.User.ConfirmationSentAt != nil
}
