package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/pestcrm/internal/client/client"
	"github.com/dmitrijs2005/pestcrm/internal/client/config"
	"github.com/dmitrijs2005/pestcrm/internal/client/services"
	"github.com/dmitrijs2005/pestcrm/internal/client/session"
	"github.com/dmitrijs2005/pestcrm/internal/client/tokenstore"
	"github.com/dmitrijs2005/pestcrm/internal/filex"
	"github.com/dmitrijs2005/pestcrm/internal/logging"
)

const dbFileName = "pestcrm.db"

type App struct {
	logger logging.Logger
	db     *sql.DB
	api    client.Client

	authService     services.AuthService
	productService  services.ProductService
	categoryService services.CategoryService
	publicService   services.PublicService
	session         *session.Facade

	nav    *navigator
	reader *bufio.Reader
	out    io.Writer

	unsubscribe func()
}

// NewApp wires the local database, API transport, services and session
// state from the config. The caller owns the returned App and must Close it.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	dir, err := filex.EnsureDataDir(c.DataDir)
	if err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, filepath.Join(dir, dbFileName))
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	api, err := client.NewHTTPClient(c.APIBaseURL, client.Options{
		Timeout:    c.RequestTimeout,
		APIKey:     c.APIKey,
		AppVersion: c.AppVersion,
		Logger:     logger,
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return newApp(db, api, logger, os.Stdin, os.Stdout), nil
}

func newApp(db *sql.DB, api client.Client, logger logging.Logger, in io.Reader, out io.Writer) *App {
	if logger == nil {
		logger = logging.Discard()
	}
	auth := services.NewAuthService(api, tokenstore.New(db), logger)
	a := &App{
		logger:          logger,
		db:              db,
		api:             api,
		authService:     auth,
		productService:  services.NewProductService(api),
		categoryService: services.NewCategoryService(api),
		publicService:   services.NewPublicService(api),
		session:         session.NewFacade(session.NewStore(auth, logger)),
		nav:             newNavigator(),
		reader:          bufio.NewReader(in),
		out:             out,
	}
	a.unsubscribe = api.OnSessionExpired(a.onSessionExpired)
	return a
}

// Run restores any stored session and blocks in the REPL until the user
// exits or input ends.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Pest CRM admin (type 'help' for commands)")
	a.session.LoadUser(ctx)
	if a.isLoggedIn() {
		fmt.Fprintf(a.out, "Welcome back, %s.\n", a.session.FullName())
	}
	runREPL(ctx, a, a.status, a.reader, a.out)
}

func (a *App) Close() error {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	return a.db.Close()
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

func (a *App) status() string {
	s := a.nav.Current()
	if a.isLoggedIn() {
		role, _ := a.session.UserRole()
		s = fmt.Sprintf("%s (%s) %s", a.session.FullName(), role, s)
	}
	return s
}

// onSessionExpired runs when any authenticated request comes back 401.
// The session is cleared through the state container and the user is
// parked on the login page with the current location as return target.
func (a *App) onSessionExpired() {
	ctx := context.Background()
	a.logger.Info(ctx, "session expired", "route", a.nav.Current())
	a.session.Logout(ctx)
	a.nav.Replace(loginURLFor(a.nav.Current()))
	fmt.Fprintln(a.out, "Your session has expired. Type 'login' to sign in again.")
}
