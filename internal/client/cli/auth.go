package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/philosophies/internal/client/client"
	"github.com/dmitrijs2005/philosophies/internal/client/guard"
	"github.com/dmitrijs2005/philosophies/internal/common"
)

// credentials prompts for email and password. The caller wipes the password.
func (a *App) credentials() (string, []byte, error) {
	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return "", nil, err
	}
	password, err := GetPassword(a.out, "Password: ")
	if err != nil {
		return "", nil, err
	}
	return email, password, nil
}

// inlineError shows a failed submit on the auth page itself, next to the
// form, as well as in the notification.
func (a *App) inlineError(err error) {
	msg := client.UserMessage(err)
	if msg == "" {
		msg = "An error occurred during authentication"
	}
	fmt.Fprintln(a.out, errorStyle.Render(msg))
}

// SignIn is the sign-in form of the auth page. A signed-in user is sent
// home instead.
func (a *App) SignIn(ctx context.Context) error {
	if !a.enter(ctx, guard.RouteAuth) {
		return nil
	}
	fmt.Fprintln(a.out, titleStyle.Render("Sign In"))

	email, password, err := a.credentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.store.SignIn(ctx, email, string(password)); err != nil {
		a.inlineError(err)
		return err
	}
	return a.Home(ctx)
}

// SignUp is the create-account form of the auth page. While the email is
// unconfirmed the user stays on the page.
func (a *App) SignUp(ctx context.Context) error {
	if !a.enter(ctx, guard.RouteAuth) {
		return nil
	}
	fmt.Fprintln(a.out, titleStyle.Render("Create Account"))

	email, password, err := a.credentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	res, err := a.store.SignUp(ctx, email, string(password))
	if err != nil {
		a.inlineError(err)
		return err
	}
	if res.ConfirmationSent() || a.store.State().User == nil {
		fmt.Fprintf(a.out, "Check your email (%s) to confirm your account, then sign in.\n", email)
		return nil
	}
	return a.Home(ctx)
}

func (a *App) SignOut(ctx context.Context) error {
	if !a.isSignedIn() {
		fmt.Fprintln(a.out, "You are not signed in.")
		return nil
	}
	a.store.SignOut(ctx)
	return a.Home(ctx)
}
