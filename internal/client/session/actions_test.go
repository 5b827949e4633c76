package session

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/dmitrijs2005/philosophies/internal/client/client"
	"github.com/dmitrijs2005/philosophies/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startedStore(t *testing.T, p *fakeProvider) (*Store, *manualScheduler, *recorder) {
	t.Helper()
	s, sch, rec := newTestStore(p)
	t.Cleanup(s.Close)
	s.Start(context.Background())
	sch.runAll()
	return s, sch, rec
}

func TestSignIn_Success(t *testing.T) {
	p := newFakeProvider()
	p.signInEmits = sessionFor("U")
	s, sch, rec := startedStore(t, p)

	var loading bool
	p.duringCall = func() { loading = s.State().Loading }

	require.NoError(t, s.SignIn(context.Background(), "u@example.com", "secret1"))
	sch.runAll()

	assert.True(t, loading, "loading while the request is in flight")
	assert.False(t, s.State().Loading)

	n := rec.last()
	assert.Equal(t, "Signed in successfully", n.Title)
	assert.Equal(t, "Welcome back!", n.Description)
	assert.False(t, n.Destructive())

	require.NotNil(t, s.State().User, "session arrives through the auth event")
	assert.Equal(t, "U", s.State().User.ID)
}

func TestSignIn_WrongPassword(t *testing.T) {
	p := newFakeProvider()
	apiErr := &client.APIError{Status: http.StatusBadRequest, Code: "invalid_grant", Message: "Invalid login credentials"}
	p.signInErr = apiErr
	s, _, rec := startedStore(t, p)
	before := s.State()

	err := s.SignIn(context.Background(), "u@example.com", "wrong")

	require.ErrorIs(t, err, apiErr)
	assert.Equal(t, "Invalid login credentials", client.UserMessage(err))

	n := rec.last()
	assert.Equal(t, "Sign in failed", n.Title)
	assert.Equal(t, "Invalid login credentials", n.Description)
	assert.True(t, n.Destructive())

	after := s.State()
	assert.Equal(t, before.User, after.User)
	assert.Equal(t, before.Session, after.Session)
	assert.False(t, after.Loading)
}

func TestSignUp_ConfirmationPending(t *testing.T) {
	sent := time.Now()
	p := newFakeProvider()
	p.signUpResult = &models.SignUpResult{User: &models.User{ID: "N", Email: "a@b.com", ConfirmationSentAt: &sent}}
	s, _, rec := startedStore(t, p)

	res, err := s.SignUp(context.Background(), "a@b.com", "secret1")

	require.NoError(t, err)
	assert.True(t, res.ConfirmationSent())
	assert.Equal(t, "http://localhost:8080", p.signUpRedirect)
	assert.Nil(t, s.State().User, "no session until the email is confirmed")

	n := rec.last()
	assert.Equal(t, "Signed up successfully", n.Title)
	assert.Equal(t, "Welcome! Please check your email for verification instructions.", n.Description)
}

func TestSignUp_NoUserReturned(t *testing.T) {
	p := newFakeProvider()
	p.signUpResult = &models.SignUpResult{}
	s, _, rec := startedStore(t, p)

	res, err := s.SignUp(context.Background(), "a@b.com", "secret1")

	require.ErrorIs(t, err, ErrNoUserReturned)
	assert.Nil(t, res)
	assert.Equal(t, "Sign up failed", rec.last().Title)
	assert.True(t, rec.last().Destructive())
}

func TestSignUp_ProviderError(t *testing.T) {
	p := newFakeProvider()
	p.signUpErr = &client.APIError{Status: http.StatusUnprocessableEntity, Message: "User already registered"}
	s, _, rec := startedStore(t, p)

	_, err := s.SignUp(context.Background(), "a@b.com", "secret1")

	require.Error(t, err)
	assert.Equal(t, "User already registered", rec.last().Description)
	assert.False(t, s.State().Loading)
}

func TestSignOut(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		p := newFakeProvider()
		p.session = sessionFor("U")
		s, _, rec := startedStore(t, p)

		s.SignOut(context.Background())

		assert.Nil(t, s.State().User)
		assert.Equal(t, "Signed out", rec.last().Title)
		assert.Equal(t, "You have been signed out successfully.", rec.last().Description)
	})

	t.Run("failure is shown, not returned", func(t *testing.T) {
		p := newFakeProvider()
		p.session = sessionFor("U")
		p.signOutErr = errors.New("network down")
		s, _, rec := startedStore(t, p)

		s.SignOut(context.Background())

		assert.Equal(t, 1, p.signOuts)
		assert.Equal(t, "Sign out failed", rec.last().Title)
		assert.Equal(t, "network down", rec.last().Description)
		assert.Nil(t, s.State().User, "local state clears through the event")
		assert.False(t, s.State().Loading)
	})
}

func TestChangePassword(t *testing.T) {
	cases := []struct {
		name      string
		password  string
		confirm   string
		remoteErr error
		wantErr   error
		wantTitle string
	}{
		{"mismatch", "secret1", "secret2", nil, ErrPasswordMismatch, "Passwords don't match"},
		{"too short", "abc", "abc", nil, ErrPasswordTooShort, "Password too short"},
		{"remote failure", "secret1", "secret1", errors.New("session expired"), nil, "Failed to update password"},
		{"ok", "secret1", "secret1", nil, nil, "Password updated"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := newFakeProvider()
			p.updatePwErr = tc.remoteErr
			s, _, rec := startedStore(t, p)

			err := s.ChangePassword(context.Background(), tc.password, tc.confirm)

			switch {
			case tc.wantErr != nil:
				require.ErrorIs(t, err, tc.wantErr)
				assert.Empty(t, p.passwords, "invalid input never reaches the service")
			case tc.remoteErr != nil:
				require.ErrorIs(t, err, tc.remoteErr)
			default:
				require.NoError(t, err)
				assert.Equal(t, []string{tc.password}, p.passwords)
			}
			assert.Equal(t, tc.wantTitle, rec.last().Title)
		})
	}
}

func TestSetRole(t *testing.T) {
	t.Run("non-admin is refused", func(t *testing.T) {
		p := newFakeProvider()
		p.session = sessionFor("U")
		s, _, rec := startedStore(t, p)

		err := s.SetRole(context.Background(), "V", models.RoleAdmin)

		require.ErrorIs(t, err, ErrForbidden)
		assert.Empty(t, p.roleUpdates)
		assert.Equal(t, "Access denied", rec.last().Title)
	})

	t.Run("admin updates another user", func(t *testing.T) {
		p := newFakeProvider()
		p.session = sessionFor("U")
		p.profiles["U"] = &models.Profile{ID: "U", Role: models.RoleAdmin}
		s, sch, rec := startedStore(t, p)

		require.NoError(t, s.SetRole(context.Background(), "V", models.RoleAdmin))
		sch.runAll()

		assert.Equal(t, models.RoleAdmin, p.roleUpdates["V"])
		assert.Equal(t, "Role updated", rec.last().Title)
		assert.Equal(t, []string{"U"}, p.profileCalls)
	})

	t.Run("demoting self reloads profile", func(t *testing.T) {
		p := newFakeProvider()
		p.session = sessionFor("U")
		p.profiles["U"] = &models.Profile{ID: "U", Role: models.RoleAdmin}
		s, sch, _ := startedStore(t, p)
		require.True(t, s.State().IsAdmin)

		require.NoError(t, s.SetRole(context.Background(), "U", models.RoleUser))
		sch.runAll()

		assert.Equal(t, []string{"U", "U"}, p.profileCalls)
		assert.False(t, s.State().IsAdmin)
	})

	t.Run("service rejection", func(t *testing.T) {
		p := newFakeProvider()
		p.session = sessionFor("U")
		p.profiles["U"] = &models.Profile{ID: "U", Role: models.RoleAdmin}
		p.roleErr = &client.APIError{Status: http.StatusForbidden, Message: "permission denied for table profiles"}
		s, _, rec := startedStore(t, p)

		err := s.SetRole(context.Background(), "V", models.RoleAdmin)

		require.ErrorIs(t, err, client.ErrUnauthorized)
		assert.Equal(t, "Role update failed", rec.last().Title)
	})
}
