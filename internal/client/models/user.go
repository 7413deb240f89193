// Package models defines the DTOs exchanged with the CRM backend and kept
// in the local session.
package models

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// Role tags known to the admin client. The backend may send others; they
// are carried through as-is and simply match no route.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the server-issued identity record. A session holds a copy by
// value, never a live reference.
type User struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// FullName joins first and last name with a single space.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Credentials is the POST /auth/login body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c Credentials) Validate() error {
	return asValidationError(validation.ValidateStruct(&c,
		validation.Field(&c.Email, validation.Required, is.Email),
		validation.Field(&c.Password, validation.Required),
	))
}

// LoginResult is the POST /auth/login response.
type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// RegisterRequest is the POST /auth/register body.
type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

func (r RegisterRequest) Validate() error {
	return asValidationError(validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required, validation.Length(1, 64)),
		validation.Field(&r.LastName, validation.Required, validation.Length(1, 64)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 128)),
	))
}
