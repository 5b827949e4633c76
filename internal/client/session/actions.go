package session

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/philosophies/internal/client/client"
	"github.com/dmitrijs2005/philosophies/internal/client/models"
)

const MinPasswordLength = 6

func describe(err error, fallback string) string {
	if msg := client.UserMessage(err); msg != "" {
		return msg
	}
	return fallback
}

// SignIn authenticates with email and password. The session itself arrives
// through the provider's SIGNED_IN event, not from here. Failures are
// shown to the user and returned.
func (s *Store) SignIn(ctx context.Context, email, password string) error {
	done := s.begin()
	defer done()

	if err := s.provider.SignInWithPassword(ctx, email, password); err != nil {
		s.logger.Warn(ctx, "error signing in", "error", err)
		s.notify("Sign in failed", describe(err, "Could not sign in. Please try again."), models.VariantDestructive)
		return err
	}

	s.logger.Info(ctx, "sign in successful")
	s.notify("Signed in successfully", "Welcome back!", models.VariantDefault)
	return nil
}

// SignUp creates an account whose confirmation link points back at the
// configured site. The result tells the caller whether a confirmation
// email was sent. A response without a user is an error.
func (s *Store) SignUp(ctx context.Context, email, password string) (*models.SignUpResult, error) {
	done := s.begin()
	defer done()

	s.logger.Debug(ctx, "attempting to sign up", "email", email)

	res, err := s.provider.SignUp(ctx, email, password, s.redirectURL)
	if err == nil && (res == nil || res.User == nil) {
		err = ErrNoUserReturned
	}
	if err != nil {
		s.logger.Warn(ctx, "error signing up", "error", err)
		s.notify("Sign up failed", describe(err, "Could not create account. Please try again."), models.VariantDestructive)
		return nil, err
	}

	s.notify("Signed up successfully", "Welcome! Please check your email for verification instructions.", models.VariantDefault)
	return res, nil
}

// SignOut ends the session. A failure is shown to the user but not
// returned: the provider clears local state either way.
func (s *Store) SignOut(ctx context.Context) {
	done := s.begin()
	defer done()

	if err := s.provider.SignOut(ctx); err != nil {
		s.logger.Warn(ctx, "error signing out", "error", err)
		s.notify("Sign out failed", describe(err, "Could not sign out. Please try again."), models.VariantDestructive)
		return
	}
	s.notify("Signed out", "You have been signed out successfully.", models.VariantDefault)
}

// ChangePassword sets a new password for the signed-in user after checking
// that confirm matches and the password is long enough.
func (s *Store) ChangePassword(ctx context.Context, password, confirm string) error {
	if password != confirm {
		s.notify("Passwords don't match", "Please make sure both passwords match", models.VariantDestructive)
		return ErrPasswordMismatch
	}
	if len(password) < MinPasswordLength {
		s.notify("Password too short",
			fmt.Sprintf("Password must be at least %d characters long", MinPasswordLength),
			models.VariantDestructive)
		return ErrPasswordTooShort
	}

	if err := s.provider.UpdatePassword(ctx, password); err != nil {
		s.logger.Warn(ctx, "error updating password", "error", err)
		s.notify("Failed to update password", describe(err, "Could not update password. Please try again."), models.VariantDestructive)
		return err
	}
	s.notify("Password updated", "Your password has been changed successfully", models.VariantDefault)
	return nil
}

// SetRole assigns role to the profile of userID. Only admins may call it;
// the service enforces the same rule. Changing one's own role reloads the
// profile.
func (s *Store) SetRole(ctx context.Context, userID string, role models.Role) error {
	st := s.State()
	if !st.IsAdmin {
		s.notify("Access denied", "Only administrators can change roles.", models.VariantDestructive)
		return ErrForbidden
	}

	if err := s.provider.UpdateProfileRole(ctx, userID, role); err != nil {
		s.logger.Warn(ctx, "error updating role", "user_id", userID, "error", err)
		s.notify("Role update failed", describe(err, "Could not update role. Please try again."), models.VariantDestructive)
		return err
	}

	s.notify("Role updated", fmt.Sprintf("%s is now %s.", userID, role), models.VariantDefault)
	if st.User != nil && st.User.ID == userID {
		s.reloadProfile()
	}
	return nil
}
