package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/pestcrm/internal/client/guard"
	"github.com/dmitrijs2005/pestcrm/internal/client/models"
	"github.com/dmitrijs2005/pestcrm/internal/common"
)

var ErrUnknownRoute = errors.New("unknown route")

type route struct {
	title string
	// roles is nil for public routes.
	roles []string
}

var routes = map[string]route{
	common.RouteHome:       {title: "Home"},
	common.RouteLogin:      {title: "Login"},
	common.RouteRegister:   {title: "Register"},
	common.RouteDashboard:  {title: "Dashboard", roles: []string{models.RoleUser, models.RoleAdmin}},
	common.RouteProducts:   {title: "Products", roles: []string{models.RoleAdmin}},
	common.RouteCategories: {title: "Categories", roles: []string{models.RoleAdmin}},
}

func lookupRoute(path string) (route, bool) {
	p, _, _ := strings.Cut(path, "?")
	r, ok := routes[p]
	return r, ok
}

func isLoginURL(path string) bool {
	p, _, _ := strings.Cut(path, "?")
	return p == common.RouteLogin
}

// loginURLFor returns the login page carrying from as return target, unless
// from is public and there is nothing to return to.
func loginURLFor(from string) string {
	if isLoginURL(from) {
		return from
	}
	if r, ok := lookupRoute(from); !ok || r.roles == nil {
		return common.RouteLogin
	}
	return guard.LoginURL(common.RouteLogin, from)
}

// navigator tracks the current location and the history used by "back".
type navigator struct {
	mu      sync.Mutex
	current string
	history []string
}

func newNavigator() *navigator {
	return &navigator{current: common.RouteHome}
}

func (n *navigator) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

func (n *navigator) Push(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if path == n.current {
		return
	}
	n.history = append(n.history, n.current)
	n.current = path
}

func (n *navigator) Replace(path string) {
	n.mu.Lock()
	n.current = path
	n.mu.Unlock()
}

// Back pops the history. It reports false when there is nowhere to go.
func (n *navigator) Back() (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.history) == 0 {
		return "", false
	}
	prev := n.history[len(n.history)-1]
	n.history = n.history[:len(n.history)-1]
	n.current = prev
	return prev, true
}

func (n *navigator) Reset(path string) {
	n.mu.Lock()
	n.current = path
	n.history = nil
	n.mu.Unlock()
}

// enter moves to path through the route guard. With replace set the move
// does not add a history entry. An anonymous session is sent to the login
// page and, after a successful login, on to the original target.
func (a *App) enter(ctx context.Context, path string, replace bool) (guard.Verdict, error) {
	r, ok := lookupRoute(path)
	if !ok {
		return guard.Denied, fmt.Errorf("%w: %s", ErrUnknownRoute, path)
	}

	move := a.nav.Push
	if replace {
		move = a.nav.Replace
	}

	if r.roles == nil {
		move(path)
		return guard.Allow, nil
	}

	d := guard.New(a.session, guard.WithRoles(r.roles...)).Evaluate(ctx, path)
	switch d.Verdict {
	case guard.Loading:
		fmt.Fprintln(a.out, "Session is still loading, try again in a moment.")
	case guard.Redirect:
		move(d.RedirectTo)
		fmt.Fprintf(a.out, "%s requires sign-in.\n", r.title)
		return a.loginAndReturn(ctx)
	case guard.Denied:
		move(path)
		a.renderDenied(path)
	case guard.Allow:
		move(path)
	}
	return d.Verdict, nil
}

// open enters path and renders it when allowed.
func (a *App) open(ctx context.Context, path string, replace bool) error {
	v, err := a.enter(ctx, path, replace)
	if err != nil || v != guard.Allow {
		return err
	}
	return a.render(ctx, a.nav.Current())
}

func (a *App) Open(ctx context.Context, path string) error {
	return a.open(ctx, path, false)
}

func (a *App) Home(ctx context.Context) error {
	return a.open(ctx, common.RouteHome, false)
}

func (a *App) Back(ctx context.Context) error {
	prev, ok := a.nav.Back()
	if !ok {
		fmt.Fprintln(a.out, "Nothing to go back to.")
		return nil
	}
	return a.open(ctx, prev, true)
}

func (a *App) render(ctx context.Context, path string) error {
	p, _, _ := strings.Cut(path, "?")
	switch p {
	case common.RouteHome:
		fmt.Fprintln(a.out, "Pest control products and services. Commands: catalog, enquiry, login, register.")
	case common.RouteLogin:
		fmt.Fprintln(a.out, "Type 'login' to sign in.")
	case common.RouteRegister:
		fmt.Fprintln(a.out, "Type 'register' to create an account.")
	case common.RouteDashboard:
		role, _ := a.session.UserRole()
		fmt.Fprintf(a.out, "Dashboard: signed in as %s (%s).\n", a.session.FullName(), role)
		if role == models.RoleAdmin {
			fmt.Fprintln(a.out, "Manage: products, categories.")
		}
	case common.RouteProducts:
		return a.listProducts(ctx, nil)
	case common.RouteCategories:
		return a.listCategories(ctx)
	}
	return nil
}

func (a *App) renderDenied(path string) {
	role, _ := a.session.UserRole()
	fmt.Fprintf(a.out, "Access denied: role %q may not open %s. Type 'back' to return.\n", role, path)
}
