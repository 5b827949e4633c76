package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_Expired(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	var nilSession *Session
	assert.True(t, nilSession.Expired(now, 0))

	s := &Session{ExpiresAt: now.Add(time.Minute)}
	assert.False(t, s.Expired(now, 0))
	assert.True(t, s.Expired(now, time.Minute), "leeway reaching expiry counts as expired")
	assert.True(t, s.Expired(now.Add(2*time.Minute), 0))

	assert.False(t, (&Session{}).Expired(now, time.Hour), "unknown expiry is never expired")
}

func TestSession_Identity(t *testing.T) {
	var nilSession *Session
	assert.Nil(t, nilSession.Identity())
	assert.Nil(t, (&Session{}).Identity())

	s := &Session{User: User{ID: "u-1", Email: "a@b.com"}}
	id := s.Identity()
	require.NotNil(t, id)
	id.Email = "changed"
	assert.Equal(t, "a@b.com", s.User.Email, "identity is a copy")
}

func TestSession_Clone(t *testing.T) {
	var nilSession *Session
	assert.Nil(t, nilSession.Clone())

	s := &Session{AccessToken: "a", User: User{ID: "u"}}
	c := s.Clone()
	c.AccessToken = "b"
	assert.Equal(t, "a", s.AccessToken)
}

func TestSignUpResult_ConfirmationSent(t *testing.T) {
	sent := time.Now()
	var nilResult *SignUpResult

	assert.False(t, nilResult.ConfirmationSent())
	assert.False(t, (&SignUpResult{}).ConfirmationSent())
	assert.False(t, (&SignUpResult{User: &User{ID: "u"}}).ConfirmationSent())
	assert.True(t, (&SignUpResult{User: &User{ID: "u", ConfirmationSentAt: &sent}}).ConfirmationSent())
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole(" Admin ")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, r)

	r, err = ParseRole("user")
	require.NoError(t, err)
	assert.Equal(t, RoleUser, r)

	_, err = ParseRole("root")
	require.Error(t, err)
}

func TestProfile_IsAdmin(t *testing.T) {
	var p *Profile
	assert.False(t, p.IsAdmin())
	assert.False(t, (&Profile{Role: "user"}).IsAdmin())
	assert.False(t, (&Profile{Role: "Admin"}).IsAdmin(), "role comparison is exact")
	assert.True(t, (&Profile{Role: RoleAdmin}).IsAdmin())
}

func TestNewNotification(t *testing.T) {
	n := NewNotification("Sign in failed", "bad password", VariantDestructive)
	assert.NotEqual(t, [16]byte{}, [16]byte(n.ID))
	assert.True(t, n.Destructive())
	assert.False(t, NewNotification("ok", "", VariantDefault).Destructive())
}
