// Package guard decides whether the current session may enter a route.
//
// A Guard is created per navigation. On its first evaluation it loads the
// session from storage exactly once, moving through Unchecked, Checking and
// Checked; later evaluations only read the session.
package guard

import (
	"context"
	"net/url"
	"slices"
	"strings"
	"sync"

	"github.com/dmitrijs2005/pestcrm/internal/client/models"
	"github.com/dmitrijs2005/pestcrm/internal/common"
)

// Session is what the guard reads. *session.Facade implements it.
type Session interface {
	LoadUser(ctx context.Context)
	IsLoading() bool
	IsAuthenticated() bool
	User() *models.User
}

type Phase int

const (
	Unchecked Phase = iota
	Checking
	Checked
)

func (p Phase) String() string {
	switch p {
	case Unchecked:
		return "unchecked"
	case Checking:
		return "checking"
	case Checked:
		return "checked"
	}
	return "unknown"
}

type Verdict int

const (
	// Loading: the session is not settled yet; show a placeholder.
	Loading Verdict = iota
	// Redirect: not signed in; go to RedirectTo.
	Redirect
	// Denied: signed in, but the role is not allowed here.
	Denied
	// Allow: render the protected content.
	Allow
)

func (v Verdict) String() string {
	switch v {
	case Loading:
		return "loading"
	case Redirect:
		return "redirect"
	case Denied:
		return "denied"
	case Allow:
		return "allow"
	}
	return "unknown"
}

type Decision struct {
	Verdict    Verdict
	RedirectTo string
}

type Option func(*Guard)

// WithRoles sets the roles allowed through. The default is "user" only.
func WithRoles(roles ...string) Option {
	return func(g *Guard) { g.roles = slices.Clone(roles) }
}

// WithLoginPath sets the redirect target for anonymous sessions.
func WithLoginPath(path string) Option {
	return func(g *Guard) { g.loginPath = path }
}

type Guard struct {
	session   Session
	roles     []string
	loginPath string

	mu    sync.Mutex
	phase Phase
}

func New(s Session, opts ...Option) *Guard {
	g := &Guard{
		session:   s,
		roles:     []string{models.RoleUser},
		loginPath: common.RouteLogin,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Guard) Phase() Phase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase
}

// Evaluate returns the decision for path. The first call performs the one
// session load; a concurrent call during that load gets Loading.
func (g *Guard) Evaluate(ctx context.Context, path string) Decision {
	g.mu.Lock()
	if g.phase == Unchecked {
		g.phase = Checking
		g.mu.Unlock()

		g.session.LoadUser(ctx)

		g.mu.Lock()
		g.phase = Checked
	}
	phase := g.phase
	g.mu.Unlock()

	if phase != Checked || g.session.IsLoading() {
		return Decision{Verdict: Loading}
	}

	user := g.session.User()
	if !g.session.IsAuthenticated() || user == nil {
		return Decision{Verdict: Redirect, RedirectTo: LoginURL(g.loginPath, path)}
	}
	if !slices.Contains(g.roles, user.Role) {
		return Decision{Verdict: Denied}
	}
	return Decision{Verdict: Allow}
}

// LoginURL is loginPath carrying from as the post-login target.
func LoginURL(loginPath, from string) string {
	if from == "" {
		return loginPath
	}
	return loginPath + "?" + url.Values{common.RedirectParam: {from}}.Encode()
}

// ReturnPath extracts the post-login target from a login URL. Anything
// missing, malformed or pointing off-site falls back to the dashboard.
func ReturnPath(loginURL string) string {
	u, err := url.Parse(loginURL)
	if err != nil {
		return common.RouteDashboard
	}
	target := u.Query().Get(common.RedirectParam)
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return common.RouteDashboard
	}
	t, err := url.Parse(target)
	if err != nil || t.IsAbs() || t.Host != "" {
		return common.RouteDashboard
	}
	return target
}
