// Package tokenstore persists the session credentials (bearer token and the
// user record) in the local database. The two keys are always written and
// cleared in one transaction, so a reader never sees one without the other
// unless the row itself is corrupt.
package tokenstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/pestcrm/internal/client/models"
	"github.com/dmitrijs2005/pestcrm/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/pestcrm/internal/dbx"
)

const (
	KeyToken = "token"
	KeyUser  = "user"
)

// ErrCorruptUser is matched by *DecodeError.
var ErrCorruptUser = errors.New("persisted user record is corrupt")

// DecodeError reports a stored user value that is not a valid User.
type DecodeError struct {
	Raw string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %v", ErrCorruptUser, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrCorruptUser }

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) repo(db dbx.DBTX) credentials.Repository {
	return credentials.NewSQLiteRepository(db)
}

// Token returns the stored bearer token, or "" if none.
func (s *Store) Token(ctx context.Context) (string, error) {
	token, _, err := s.repo(s.db).Get(ctx, KeyToken)
	if err != nil {
		return "", err
	}
	return token, nil
}

// User returns the stored user. It returns (nil, nil) when no user is stored
// and (nil, *DecodeError) when the stored value does not parse; the caller
// decides what a corrupt record means for the session.
func (s *Store) User(ctx context.Context) (*models.User, error) {
	raw, ok, err := s.repo(s.db).Get(ctx, KeyUser)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var u models.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, &DecodeError{Raw: raw, Err: err}
	}
	return &u, nil
}

// Set writes token and user together.
func (s *Store) Set(ctx context.Context, token string, user models.User) error {
	if token == "" {
		return errors.New("tokenstore: empty token")
	}
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)
		if err := repo.Set(ctx, KeyToken, token); err != nil {
			return err
		}
		return repo.Set(ctx, KeyUser, string(data))
	})
}

// Clear removes token and user together.
func (s *Store) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repo(tx).Delete(ctx, KeyToken, KeyUser)
	})
}
