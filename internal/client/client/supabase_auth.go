package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/philosophies/internal/client/models"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// GetSession returns the current session, loading it from storage on first
// use and refreshing it when the access token is about to expire.
//
// A refresh the service rejects clears the session and emits SIGNED_OUT; a
// refresh that cannot reach the service keeps the stored session for later.
func (c *SupabaseClient) GetSession(ctx context.Context) (*models.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.loadLocked(ctx); err != nil {
		c.logger.Warn(ctx, "stored session unreadable, discarding", "error", err)
		c.clearLocked(ctx)
	}
	if c.session == nil {
		return nil, nil
	}
	if !c.session.Expired(c.now(), expiryLeeway) {
		return c.session.Clone(), nil
	}

	if err := c.refreshLocked(ctx); err != nil {
		return nil, err
	}
	return c.session.Clone(), nil
}

func (c *SupabaseClient) loadLocked(ctx context.Context) error {
	if c.loaded {
		return nil
	}
	c.loaded = true
	if c.storage == nil {
		return nil
	}

	raw, err := c.storage.Get(ctx, sessionStorageKey)
	if err != nil {
		return err
	}
	if raw == nil {
		return nil
	}
	s, err := decodeSession(raw, c.now())
	if err != nil {
		return err
	}
	c.session = s
	return nil
}

func (c *SupabaseClient) refreshLocked(ctx context.Context) error {
	if c.session.RefreshToken == "" {
		c.clearLocked(ctx)
		c.emit(models.EventSignedOut, nil)
		return nil
	}

	var tr tokenResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "auth/v1/token",
		query:  url.Values{"grant_type": {"refresh_token"}},
		body:   map[string]string{"refresh_token": c.session.RefreshToken},
	}, &tr)
	if err != nil {
		if isSessionGone(err) {
			c.logger.Info(ctx, "refresh token rejected, signing out locally", "error", err)
			c.clearLocked(ctx)
			c.emit(models.EventSignedOut, nil)
		}
		return fmt.Errorf("refresh session: %w", err)
	}

	s, err := tr.toSession(c.now())
	if err != nil {
		return fmt.Errorf("refresh session: %w", err)
	}
	c.setLocked(ctx, s)
	c.emit(models.EventTokenRefreshed, s)
	return nil
}

// setLocked replaces the cached session and persists it. Persistence
// failures are logged: the in-memory session stays authoritative.
func (c *SupabaseClient) setLocked(ctx context.Context, s *models.Session) {
	c.session = s
	c.loaded = true
	if c.storage == nil {
		return
	}
	b, err := encodeSession(s)
	if err == nil {
		err = c.storage.Set(ctx, sessionStorageKey, b)
	}
	if err != nil {
		c.logger.Warn(ctx, "failed to persist session", "error", err)
	}
}

func (c *SupabaseClient) clearLocked(ctx context.Context) {
	c.session = nil
	c.loaded = true
	if c.storage == nil {
		return
	}
	if err := c.storage.Delete(ctx, sessionStorageKey); err != nil {
		c.logger.Warn(ctx, "failed to remove stored session", "error", err)
	}
}

// SignInWithPassword exchanges credentials for a session and emits SIGNED_IN.
func (c *SupabaseClient) SignInWithPassword(ctx context.Context, email, password string) error {
	var tr tokenResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "auth/v1/token",
		query:  url.Values{"grant_type": {"password"}},
		body:   credentials{Email: email, Password: password},
	}, &tr)
	if err != nil {
		return err
	}

	s, err := tr.toSession(c.now())
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLocked(ctx, s)
	c.emit(models.EventSignedIn, s)
	return nil
}

// SignUp creates an account. Confirmation links point at redirectTo. When
// the project auto-confirms, the returned session is installed and
// SIGNED_IN is emitted; otherwise the result carries only the user.
func (c *SupabaseClient) SignUp(ctx context.Context, email, password, redirectTo string) (*models.SignUpResult, error) {
	var q url.Values
	if redirectTo != "" {
		q = url.Values{"redirect_to": {redirectTo}}
	}

	var resp signUpResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "auth/v1/signup",
		query:  q,
		body:   credentials{Email: email, Password: password},
	}, &resp)
	if err != nil {
		return nil, err
	}

	result := &models.SignUpResult{User: resp.user()}
	if resp.AccessToken == "" {
		return result, nil
	}

	s, err := resp.tokenResponse.toSession(c.now())
	if err != nil {
		return nil, err
	}
	result.Session = s.Clone()
	if result.User == nil {
		result.User = s.Identity()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLocked(ctx, s)
	c.emit(models.EventSignedIn, s)
	return result, nil
}

// SignOut revokes the session remotely and always clears it locally,
// emitting SIGNED_OUT. A remote failure is still returned to the caller.
func (c *SupabaseClient) SignOut(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.loadLocked(ctx); err != nil {
		c.logger.Warn(ctx, "stored session unreadable", "error", err)
	}

	var remoteErr error
	if c.session != nil {
		remoteErr = c.do(ctx, request{
			method: http.MethodPost,
			path:   "auth/v1/logout",
			bearer: c.session.AccessToken,
		}, nil)
		if remoteErr != nil && isSessionGone(remoteErr) {
			remoteErr = nil
		}
	}

	c.clearLocked(ctx)
	c.emit(models.EventSignedOut, nil)
	return remoteErr
}

// UpdatePassword changes the signed-in user's password and emits
// USER_UPDATED.
func (c *SupabaseClient) UpdatePassword(ctx context.Context, newPassword string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.loadLocked(ctx); err != nil {
		return err
	}
	if c.session == nil {
		return ErrNoSession
	}
	if c.session.Expired(c.now(), expiryLeeway) {
		if err := c.refreshLocked(ctx); err != nil {
			return err
		}
		if c.session == nil {
			return ErrNoSession
		}
	}

	var u userWire
	err := c.do(ctx, request{
		method: http.MethodPut,
		path:   "auth/v1/user",
		body:   map[string]string{"password": newPassword},
		bearer: c.session.AccessToken,
	}, &u)
	if err != nil {
		return err
	}

	s := c.session.Clone()
	if m := u.toModel(); m != nil {
		if m.ID != s.User.ID {
			return fmt.Errorf("%w: updated user %q is not the signed-in user", ErrBadResponse, m.ID)
		}
		s.User = *m
	}
	c.setLocked(ctx, s)
	c.emit(models.EventUserUpdated, s)
	return nil
}

// bearer returns the access token for data requests, or "" (anon key) when
// nobody is signed in or the session could not be refreshed.
func (c *SupabaseClient) bearer(ctx context.Context) (string, error) {
	s, err := c.GetSession(ctx)
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			return "", err
		}
		c.logger.Warn(ctx, "using anon key for data request", "error", err)
		return "", nil
	}
	if s == nil {
		return "", nil
	}
	return s.AccessToken, nil
}
