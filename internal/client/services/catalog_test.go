package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/pestcrm/internal/client/apitest"
	"github.com/dmitrijs2005/pestcrm/internal/client/client"
	"github.com/dmitrijs2005/pestcrm/internal/client/models"
	"github.com/dmitrijs2005/pestcrm/internal/client/tokenstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stack struct {
	srv        *apitest.Server
	http       *client.HTTPClient
	auth       AuthService
	products   ProductService
	categories CategoryService
	public     PublicService
}

func newStack(t *testing.T) *stack {
	t.Helper()
	srv := apitest.New()
	t.Cleanup(srv.Close)

	hc, err := client.NewHTTPClient(srv.URL(), client.Options{APIKey: apitest.DefaultAPIKey, AppVersion: "1.0.0"})
	require.NoError(t, err)

	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "pestcrm.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return &stack{
		srv:        srv,
		http:       hc,
		auth:       NewAuthService(hc, tokenstore.New(db), nil),
		products:   NewProductService(hc),
		categories: NewCategoryService(hc),
		public:     NewPublicService(hc),
	}
}

func (s *stack) loginAs(t *testing.T, role string) {
	t.Helper()
	s.srv.AddUser(models.User{FirstName: "A", LastName: "B", Email: role + "@b.com", Role: role}, "secret1")
	_, err := s.auth.Login(context.Background(), models.Credentials{Email: role + "@b.com", Password: "secret1"})
	require.NoError(t, err)
}

func TestProducts_AdminCRUD(t *testing.T) {
	s := newStack(t)
	s.loginAs(t, models.RoleAdmin)
	ctx := context.Background()

	cat, err := s.categories.Create(ctx, models.Category{Name: "Rodents"})
	require.NoError(t, err)
	require.NotEmpty(t, cat.ID)

	p, err := s.products.Create(ctx, models.Product{Name: "Snap trap", Price: 4.5, Category: cat.ID, InStock: true})
	require.NoError(t, err)
	require.NotEmpty(t, p.ID)

	got, err := s.products.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Snap trap", got.Name)

	p.Price = 5
	upd, err := s.products.Update(ctx, p.ID, *p)
	require.NoError(t, err)
	assert.Equal(t, 5.0, upd.Price)

	list, err := s.products.List(ctx, cat.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = s.products.List(ctx, "other")
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, s.products.Delete(ctx, p.ID))
	_, err = s.products.Get(ctx, p.ID)
	assert.ErrorIs(t, err, client.ErrNotFound)
}

func TestCategories_AdminCRUD(t *testing.T) {
	s := newStack(t)
	s.loginAs(t, models.RoleAdmin)
	ctx := context.Background()

	c, err := s.categories.Create(ctx, models.Category{Name: "Insects"})
	require.NoError(t, err)

	c.Description = "Ants, roaches"
	upd, err := s.categories.Update(ctx, c.ID, *c)
	require.NoError(t, err)
	assert.Equal(t, "Ants, roaches", upd.Description)

	got, err := s.categories.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Insects", got.Name)

	list, err := s.categories.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, s.categories.Delete(ctx, c.ID))
	err = s.categories.Delete(ctx, c.ID)
	assert.ErrorIs(t, err, client.ErrNotFound)
}

func TestProducts_UserCannotWrite(t *testing.T) {
	s := newStack(t)
	s.loginAs(t, models.RoleUser)
	ctx := context.Background()

	_, err := s.products.List(ctx, "")
	require.NoError(t, err)

	_, err = s.products.Create(ctx, models.Product{Name: "Bait", Category: "c1"})
	assert.ErrorIs(t, err, client.ErrForbidden)
}

func TestProducts_ValidationAndEmptyID(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	_, err := s.products.Create(ctx, models.Product{Price: -1})
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = s.products.Get(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyID)

	err = s.categories.Delete(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyID)
}

func TestProducts_ExpiredSessionNotifies(t *testing.T) {
	s := newStack(t)
	s.loginAs(t, models.RoleAdmin)
	ctx := context.Background()

	expired := 0
	s.http.OnSessionExpired(func() { expired++ })

	s.srv.RevokeTokens()
	_, err := s.products.List(ctx, "")
	assert.ErrorIs(t, err, client.ErrUnauthorized)
	assert.Equal(t, 1, expired)
}

func TestLogin_AgainstBackend(t *testing.T) {
	s := newStack(t)
	s.srv.AddUser(models.User{FirstName: "A", LastName: "B", Email: "a@b.com"}, "secret1")
	ctx := context.Background()

	expired := 0
	s.http.OnSessionExpired(func() { expired++ })

	_, err := s.auth.Login(ctx, models.Credentials{Email: "a@b.com", Password: "wrong"})
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "Invalid email or password", authErr.Message)
	assert.Zero(t, expired, "bad credentials are not an expired session")
	assert.False(t, s.auth.IsAuthenticated(ctx))

	res, err := s.auth.Login(ctx, models.Credentials{Email: "a@b.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "A B", res.User.FullName())
	assert.True(t, s.auth.IsAuthenticated(ctx))

	token, u := s.auth.CurrentSession(ctx)
	assert.Equal(t, res.Token, token)
	require.NotNil(t, u)
	assert.Equal(t, res.User, *u)

	_, ok := TokenExpiry(token)
	assert.True(t, ok)
}

func TestPublic_CatalogAndEnquiry(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	c := s.srv.AddCategory(models.Category{Name: "Birds"})
	s.srv.AddProduct(models.Product{Name: "Spikes", Category: c.ID, Price: 12})
	s.srv.AddProduct(models.Product{Name: "Gel", Category: "other", Price: 3})

	all, err := s.public.Catalog(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	birds, err := s.public.Catalog(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, birds, 1)
	assert.Equal(t, "Spikes", birds[0].Name)

	cats, err := s.public.Categories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 1)

	err = s.public.SubmitEnquiry(ctx, models.Enquiry{Name: "Jo", Email: "jo@x.com", Phone: "555-0100", Service: "Termite inspection"})
	require.NoError(t, err)
	require.Len(t, s.srv.Enquiries(), 1)

	err = s.public.SubmitEnquiry(ctx, models.Enquiry{Name: "Jo"})
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Len(t, s.srv.Enquiries(), 1)
}
