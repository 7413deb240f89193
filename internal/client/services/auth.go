// Package services contains the application services of the CRM admin
// client. This file defines the authentication service: login, register,
// logout and the synchronous session accessors backed by the token store.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/pestcrm/internal/client/client"
	"github.com/dmitrijs2005/pestcrm/internal/client/models"
	"github.com/dmitrijs2005/pestcrm/internal/client/tokenstore"
	"github.com/dmitrijs2005/pestcrm/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

const defaultLoginFailure = "login failed"

// AuthError is a login rejected by the backend. Message is the server's
// message when it sent one, otherwise "login failed".
type AuthError struct {
	Status  int
	Message string
	Err     error
}

func (e *AuthError) Error() string { return e.Message }

func (e *AuthError) Unwrap() error { return e.Err }

// TokenStore is the persistence the auth service needs. *tokenstore.Store
// implements it.
type TokenStore interface {
	Token(ctx context.Context) (string, error)
	User(ctx context.Context) (*models.User, error)
	Set(ctx context.Context, token string, user models.User) error
	Clear(ctx context.Context) error
}

// AuthService defines authentication operations.
//
// Contract:
//   - Login: Authenticate and then Persist. One request, no retry.
//   - Authenticate: POST /auth/login only; nothing is stored.
//   - Persist: write token and user, install the bearer token.
//   - Register: create an account on the server.
//   - Logout: clear storage and the bearer token; never fails.
//   - IsAuthenticated: token presence in storage; no network.
//   - CurrentSession: the stored token and user, or ("", nil).
type AuthService interface {
	Login(ctx context.Context, creds models.Credentials) (*models.LoginResult, error)
	Authenticate(ctx context.Context, creds models.Credentials) (*models.LoginResult, error)
	Persist(ctx context.Context, res *models.LoginResult) error
	Register(ctx context.Context, req models.RegisterRequest) (*models.User, error)
	Logout(ctx context.Context)
	IsAuthenticated(ctx context.Context) bool
	CurrentSession(ctx context.Context) (string, *models.User)
}

type authService struct {
	client client.Client
	store  TokenStore
	logger logging.Logger
}

// NewAuthService constructs an AuthService bound to the given API client
// and token store.
func NewAuthService(c client.Client, store TokenStore, logger logging.Logger) AuthService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &authService{client: c, store: store, logger: logger.With("component", "auth")}
}

func (a *authService) Login(ctx context.Context, creds models.Credentials) (*models.LoginResult, error) {
	res, err := a.Authenticate(ctx, creds)
	if err != nil {
		return nil, err
	}
	if err := a.Persist(ctx, res); err != nil {
		return nil, err
	}
	return res, nil
}

// Authenticate sends the credentials. A 401 here means bad credentials, so
// the request is sent with IgnoreExpiry and never reports an expired session.
// Transport failures are returned unmodified.
func (a *authService) Authenticate(ctx context.Context, creds models.Credentials) (*models.LoginResult, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	var res models.LoginResult
	err := a.client.Do(ctx, http.MethodPost, "/auth/login", creds, &res,
		client.Anonymous(), client.IgnoreExpiry(), client.Op("Login"))
	if err != nil {
		var apiErr *client.APIError
		if !errors.As(err, &apiErr) {
			return nil, err
		}
		msg := apiErr.Message
		if msg == "" {
			msg = defaultLoginFailure
		}
		return nil, &AuthError{Status: apiErr.Status, Message: msg, Err: apiErr}
	}
	if res.Token == "" {
		return nil, &AuthError{Status: http.StatusOK, Message: defaultLoginFailure}
	}
	return &res, nil
}

func (a *authService) Persist(ctx context.Context, res *models.LoginResult) error {
	if res == nil || res.Token == "" {
		return errors.New("persist: empty login result")
	}
	if err := a.store.Set(ctx, res.Token, res.User); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	a.client.SetToken(res.Token)
	return nil
}

func (a *authService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var u models.User
	err := a.client.Do(ctx, http.MethodPost, "/auth/register", req, &u,
		client.Anonymous(), client.IgnoreExpiry(), client.Op("Register"))
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return &u, nil
}

func (a *authService) Logout(ctx context.Context) {
	a.client.ClearToken()
	if err := a.store.Clear(ctx); err != nil {
		a.logger.Error(ctx, "failed to clear stored session", "error", err)
	}
}

func (a *authService) IsAuthenticated(ctx context.Context) bool {
	token, err := a.store.Token(ctx)
	if err != nil {
		a.logger.Warn(ctx, "failed to read token", "error", err)
		return false
	}
	return token != ""
}

// CurrentSession returns the persisted token and user and installs the
// token on the transport. Both must be present and readable; a token whose
// user record is missing or corrupt is treated as fully logged out, and the
// leftover is cleared.
func (a *authService) CurrentSession(ctx context.Context) (string, *models.User) {
	token, err := a.store.Token(ctx)
	if err != nil {
		a.logger.Warn(ctx, "failed to read token", "error", err)
		return "", nil
	}
	if token == "" {
		return "", nil
	}

	user, err := a.store.User(ctx)
	switch {
	case errors.Is(err, tokenstore.ErrCorruptUser):
		a.logger.Warn(ctx, "stored user is corrupt, discarding session", "error", err)
		a.Logout(ctx)
		return "", nil
	case err != nil:
		a.logger.Warn(ctx, "failed to read user", "error", err)
		return "", nil
	case user == nil:
		a.logger.Warn(ctx, "token stored without user, discarding session")
		a.Logout(ctx)
		return "", nil
	}

	a.client.SetToken(token)
	return token, user
}

// TokenExpiry reads the exp claim without verifying the signature. The
// client cannot verify tokens; this is for display only.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
