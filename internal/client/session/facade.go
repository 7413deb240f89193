package session

import (
	"context"

	"github.com/dmitrijs2005/pestcrm/internal/client/models"
)

// Actions bundles the session operations. The value returned by
// Facade.Actions is built once, so its function fields are the same
// references for the facade's whole lifetime.
type Actions struct {
	Login      func(ctx context.Context, creds models.Credentials) error
	Logout     func(ctx context.Context)
	LoadUser   func(ctx context.Context)
	ClearError func()
}

// Facade is the read side of a Store plus its actions, shaped for UI code.
// It derives values and has no side effects of its own.
type Facade struct {
	store   *Store
	actions Actions
}

func NewFacade(store *Store) *Facade {
	return &Facade{
		store: store,
		actions: Actions{
			Login:      store.Login,
			Logout:     store.Logout,
			LoadUser:   store.LoadFromStorage,
			ClearError: store.ClearError,
		},
	}
}

func (f *Facade) Actions() Actions { return f.actions }

func (f *Facade) State() State { return f.store.State() }

func (f *Facade) Subscribe(fn func(State)) func() { return f.store.Subscribe(fn) }

func (f *Facade) User() *models.User    { return f.store.State().User }
func (f *Facade) Token() string         { return f.store.State().Token }
func (f *Facade) IsLoading() bool       { return f.store.State().IsLoading }
func (f *Facade) Err() string           { return f.store.State().Err }
func (f *Facade) IsAuthenticated() bool { return f.store.State().IsAuthenticated }

// FullName is "First Last", or "" without a user.
func (f *Facade) FullName() string {
	if u := f.User(); u != nil {
		return u.FullName()
	}
	return ""
}

// UserRole reports the role of the current user; ok is false without one.
func (f *Facade) UserRole() (role string, ok bool) {
	if u := f.User(); u != nil {
		return u.Role, true
	}
	return "", false
}

func (f *Facade) Login(ctx context.Context, creds models.Credentials) error {
	return f.actions.Login(ctx, creds)
}

func (f *Facade) Logout(ctx context.Context) { f.actions.Logout(ctx) }

func (f *Facade) LoadUser(ctx context.Context) { f.actions.LoadUser(ctx) }

func (f *Facade) ClearError() { f.actions.ClearError() }
