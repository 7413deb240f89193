package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/pestcrm/internal/client/guard"
	"github.com/dmitrijs2005/pestcrm/internal/client/models"
	"github.com/dmitrijs2005/pestcrm/internal/client/services"
	"github.com/dmitrijs2005/pestcrm/internal/common"
)

// Login prompts for credentials and signs in through the session state.
// On success the user continues to the page the login URL points back to,
// or the dashboard.
func (a *App) Login(ctx context.Context) error {
	if !isLoginURL(a.nav.Current()) {
		a.nav.Push(common.RouteLogin)
	}
	v, err := a.loginAndReturn(ctx)
	if err != nil || v != guard.Allow {
		return err
	}
	return a.render(ctx, a.nav.Current())
}

func (a *App) loginAndReturn(ctx context.Context) (guard.Verdict, error) {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return guard.Redirect, err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return guard.Redirect, err
	}
	defer common.WipeByteArray(password)

	if err := a.session.Login(ctx, models.Credentials{Email: email, Password: string(password)}); err != nil {
		return guard.Redirect, err
	}
	fmt.Fprintf(a.out, "Welcome, %s.\n", a.session.FullName())

	return a.enter(ctx, guard.ReturnPath(a.nav.Current()), true)
}

// Register creates an account and moves to the login page.
func (a *App) Register(ctx context.Context) error {
	a.nav.Push(common.RouteRegister)

	var req models.RegisterRequest
	var err error
	if req.FirstName, err = getSimpleText(a.reader, "First name", a.out); err != nil {
		return err
	}
	if req.LastName, err = getSimpleText(a.reader, "Last name", a.out); err != nil {
		return err
	}
	if req.Email, err = getSimpleText(a.reader, "Enter email", a.out); err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	req.Password = string(password)

	u, err := a.authService.Register(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Account created for %s. Type 'login' to sign in.\n", u.Email)
	a.nav.Replace(common.RouteLogin)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	a.nav.Reset(common.RouteHome)
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	u := a.session.User()
	if !a.session.IsAuthenticated() || u == nil {
		fmt.Fprintln(a.out, "Not logged in.")
		return nil
	}
	fmt.Fprintf(a.out, "%s <%s>\nrole: %s\nid: %s\n", a.session.FullName(), u.Email, u.Role, u.ID)
	if exp, ok := services.TokenExpiry(a.session.Token()); ok {
		fmt.Fprintf(a.out, "token expires: %s\n", exp.Local().Format("2006-01-02 15:04:05"))
	}
	return nil
}
