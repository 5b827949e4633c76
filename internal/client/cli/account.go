package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/philosophies/internal/client/guard"
	"github.com/dmitrijs2005/philosophies/internal/common"
)

// Account shows who is signed in and with which role.
func (a *App) Account(ctx context.Context) error {
	if !a.enter(ctx, guard.RouteAccount) {
		return nil
	}

	st := a.store.State()
	if st.User == nil {
		return nil
	}
	role := "checking..."
	switch {
	case st.Profile != nil:
		role = string(st.Profile.Role)
	case st.ProfileResolved:
		role = "user (no profile)"
	}

	fmt.Fprintln(a.out, titleStyle.Render("Account"))
	fmt.Fprintf(a.out, "Email:   %s\n", st.User.Email)
	fmt.Fprintf(a.out, "User id: %s\n", st.User.ID)
	fmt.Fprintf(a.out, "Role:    %s\n", role)
	return nil
}

// ChangePassword is the change-password form of the account page.
func (a *App) ChangePassword(ctx context.Context) error {
	if !a.enter(ctx, guard.RouteAccount) {
		return nil
	}
	fmt.Fprintln(a.out, titleStyle.Render("Change Password"))

	password, err := GetPassword(a.out, "New password: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := GetPassword(a.out, "Confirm new password: ")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	return a.store.ChangePassword(ctx, string(password), string(confirm))
}
