package session

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/dmitrijs2005/pestcrm/internal/client/apitest"
	"github.com/dmitrijs2005/pestcrm/internal/client/client"
	"github.com/dmitrijs2005/pestcrm/internal/client/models"
	"github.com/dmitrijs2005/pestcrm/internal/client/services"
	"github.com/dmitrijs2005/pestcrm/internal/client/tokenstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFacade_Derivations(t *testing.T) {
	f := NewFacade(NewStore(&fakeAuth{AuthenticateFn: acceptAll}, nil))
	ctx := context.Background()

	assert.Equal(t, "", f.FullName())
	_, ok := f.UserRole()
	assert.False(t, ok)
	assert.Nil(t, f.User())

	require.NoError(t, f.Login(ctx, models.Credentials{Email: "a@b.com", Password: "secret1"}))
	assert.Equal(t, "A B", f.FullName())
	role, ok := f.UserRole()
	assert.True(t, ok)
	assert.Equal(t, models.RoleUser, role)
	assert.True(t, f.IsAuthenticated())
	assert.False(t, f.IsLoading())
	assert.Equal(t, "tok-a@b.com", f.Token())
	assert.Empty(t, f.Err())

	f.Logout(ctx)
	assert.Equal(t, "", f.FullName())
	assert.False(t, f.IsAuthenticated())
}

func TestFacade_ErrorAndClear(t *testing.T) {
	f := NewFacade(NewStore(&fakeAuth{AuthenticateFn: rejectAll}, nil))

	require.Error(t, f.Actions().Login(context.Background(), models.Credentials{Email: "a@b.com", Password: "bad"}))
	assert.Equal(t, "Invalid email or password", f.Err())

	f.Actions().ClearError()
	assert.Empty(t, f.Err())
}

func TestFacade_ActionsAreStable(t *testing.T) {
	f := NewFacade(NewStore(&fakeAuth{AuthenticateFn: acceptAll}, nil))

	a1 := f.Actions()
	require.NoError(t, f.Login(context.Background(), models.Credentials{Email: "a@b.com", Password: "x"}))
	a2 := f.Actions()

	ptr := func(fn any) uintptr { return reflect.ValueOf(fn).Pointer() }
	assert.Equal(t, ptr(a1.Login), ptr(a2.Login))
	assert.Equal(t, ptr(a1.Logout), ptr(a2.Logout))
	assert.Equal(t, ptr(a1.LoadUser), ptr(a2.LoadUser))
	assert.Equal(t, ptr(a1.ClearError), ptr(a2.ClearError))
}

func TestFacade_Subscribe(t *testing.T) {
	f := NewFacade(NewStore(&fakeAuth{AuthenticateFn: acceptAll}, nil))
	var last State
	unsubscribe := f.Subscribe(func(st State) { last = st })
	defer unsubscribe()

	require.NoError(t, f.Login(context.Background(), models.Credentials{Email: "a@b.com", Password: "x"}))
	assert.True(t, last.IsAuthenticated)
	assert.Equal(t, f.State(), last)
}

// End to end through the real transport, token store and fake backend.
func TestFacade_AgainstBackend(t *testing.T) {
	srv := apitest.New()
	t.Cleanup(srv.Close)
	srv.AddUser(models.User{FirstName: "A", LastName: "B", Email: "a@b.com", Role: models.RoleUser}, "secret1")

	hc, err := client.NewHTTPClient(srv.URL(), client.Options{APIKey: apitest.DefaultAPIKey, AppVersion: "1.0.0"})
	require.NoError(t, err)
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "pestcrm.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ts := tokenstore.New(db)
	f := NewFacade(NewStore(services.NewAuthService(hc, ts, nil), nil))
	ctx := context.Background()

	_ = f.Login(ctx, models.Credentials{Email: "a@b.com", Password: "wrong"})
	assert.False(t, f.IsAuthenticated())
	assert.NotEmpty(t, f.Err())
	token, err := ts.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token, "nothing persisted after a rejected login")

	require.NoError(t, f.Login(ctx, models.Credentials{Email: "a@b.com", Password: "secret1"}))
	assert.Equal(t, "A B", f.FullName())
	role, _ := f.UserRole()
	assert.Equal(t, models.RoleUser, role)

	token, err = ts.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, f.Token(), token)
	stored, err := ts.User(ctx)
	require.NoError(t, err)
	assert.Equal(t, *f.User(), *stored)

	// A fresh process restores the session from disk.
	hc2, err := client.NewHTTPClient(srv.URL(), client.Options{APIKey: apitest.DefaultAPIKey, AppVersion: "1.0.0"})
	require.NoError(t, err)
	f2 := NewFacade(NewStore(services.NewAuthService(hc2, ts, nil), nil))
	f2.LoadUser(ctx)
	assert.True(t, f2.IsAuthenticated())
	assert.Equal(t, f.User(), f2.User())
	assert.Equal(t, token, hc2.Token())

	f2.Logout(ctx)
	token, err = ts.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
	u, err := ts.User(ctx)
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestFacade_RejectedLoginEndsEarlierSession(t *testing.T) {
	srv := apitest.New()
	t.Cleanup(srv.Close)
	srv.AddUser(models.User{FirstName: "Ada", LastName: "Admin", Email: "admin@b.com", Role: models.RoleAdmin}, "secret1")
	srv.AddUser(models.User{FirstName: "A", LastName: "B", Email: "a@b.com", Role: models.RoleUser}, "secret1")

	hc, err := client.NewHTTPClient(srv.URL(), client.Options{APIKey: apitest.DefaultAPIKey, AppVersion: "1.0.0"})
	require.NoError(t, err)
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "pestcrm.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ts := tokenstore.New(db)
	f := NewFacade(NewStore(services.NewAuthService(hc, ts, nil), nil))
	ctx := context.Background()

	require.NoError(t, f.Login(ctx, models.Credentials{Email: "admin@b.com", Password: "secret1"}))
	require.NotEmpty(t, hc.Token())

	err = f.Login(ctx, models.Credentials{Email: "a@b.com", Password: "wrong"})
	require.Error(t, err)
	assert.False(t, f.IsAuthenticated())
	assert.Equal(t, "Invalid email or password", f.Err())

	token, err := ts.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Empty(t, hc.Token(), "bearer removed from the transport")

	f.LoadUser(ctx)
	assert.False(t, f.IsAuthenticated())
	assert.Nil(t, f.User())
}
