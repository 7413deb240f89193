// Package session holds the in-memory authentication state of the client
// and the facade the UI layer reads it through.
//
// Store is an explicit, injectable state object: the composition root
// builds one and hands it to whoever needs it. Observers register with
// Subscribe and receive a snapshot after every change.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/pestcrm/internal/client/models"
	"github.com/dmitrijs2005/pestcrm/internal/client/services"
	"github.com/dmitrijs2005/pestcrm/internal/logging"
)

// ErrSuperseded is returned by Login when a newer Login or a Logout was
// issued while the request was in flight. Its response was discarded.
var ErrSuperseded = errors.New("login superseded by a newer request")

// State is a snapshot of the session. User is a private copy.
type State struct {
	User            *models.User
	Token           string
	IsLoading       bool
	Err             string
	IsAuthenticated bool
}

func (s State) clone() State {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

// Store is the session state container. It is safe for concurrent use.
//
// Every Login and Logout bumps an epoch. A login response is applied and
// persisted only while its epoch is still the latest, so the most recently
// issued attempt decides the final state regardless of response order.
type Store struct {
	auth   services.AuthService
	logger logging.Logger

	mu    sync.Mutex
	state State
	epoch uint64

	subMu  sync.Mutex
	subs   map[int]func(State)
	nextID int
}

func NewStore(auth services.AuthService, logger logging.Logger) *Store {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Store{
		auth:   auth,
		logger: logger.With("component", "session"),
		subs:   make(map[int]func(State)),
	}
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe registers fn to receive every new state. fn must not block.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) publish(st State) {
	s.subMu.Lock()
	fns := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(st.clone())
	}
}

// update applies fn under the lock and publishes the result outside it.
func (s *Store) update(fn func(st *State)) {
	s.mu.Lock()
	fn(&s.state)
	snap := s.state.clone()
	s.mu.Unlock()
	s.publish(snap)
}

// LoadFromStorage syncs User, Token and IsAuthenticated from the token
// store. IsLoading and Err are left as they are. Calling it again without
// an intervening change yields the same state.
func (s *Store) LoadFromStorage(ctx context.Context) {
	s.update(func(st *State) {
		token, user := s.auth.CurrentSession(ctx)
		st.Token = token
		st.User = user
		st.IsAuthenticated = token != "" && user != nil
	})
}

// Login moves the session through Pending to Authenticated or Failed.
// Failed also clears the token store and the transport token. It returns the login error, or ErrSuperseded if the response arrived
// after a newer Login or Logout and was dropped.
func (s *Store) Login(ctx context.Context, creds models.Credentials) error {
	var epoch uint64
	s.update(func(st *State) {
		s.epoch++
		epoch = s.epoch
		st.IsLoading = true
		st.Err = ""
	})

	res, err := s.auth.Authenticate(ctx, creds)

	s.mu.Lock()
	if epoch != s.epoch {
		latest := s.epoch
		s.mu.Unlock()
		s.logger.Info(ctx, "stale login response discarded", "epoch", epoch, "latest", latest)
		return ErrSuperseded
	}
	if err == nil {
		err = s.auth.Persist(ctx, res)
	}
	if err != nil {
		// A rejected login ends any earlier session in storage and on the
		// transport too, so a later LoadFromStorage cannot revive it.
		s.auth.Logout(ctx)
		s.state = State{Err: errorMessage(err)}
	} else {
		u := res.User
		s.state = State{User: &u, Token: res.Token, IsAuthenticated: true}
	}
	snap := s.state.clone()
	s.mu.Unlock()
	s.publish(snap)

	if err != nil {
		s.logger.Warn(ctx, "login failed", "email", creds.Email, "error", err)
		return err
	}
	s.logger.Info(ctx, "logged in", "user_id", res.User.ID, "role", res.User.Role)
	return nil
}

// Logout clears the session and storage. Any login still in flight is
// superseded.
func (s *Store) Logout(ctx context.Context) {
	s.update(func(st *State) {
		s.epoch++
		s.auth.Logout(ctx)
		*st = State{}
	})
	s.logger.Info(ctx, "logged out")
}

func (s *Store) ClearError() {
	s.update(func(st *State) { st.Err = "" })
}

func errorMessage(err error) string {
	var authErr *services.AuthError
	if errors.As(err, &authErr) {
		return authErr.Message
	}
	return err.Error()
}
