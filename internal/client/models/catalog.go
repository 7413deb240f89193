package models

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// Category groups products in the catalog.
type Category struct {
	ID          string    `json:"id,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

func (c Category) Validate() error {
	return asValidationError(validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&c.Description, validation.Length(0, 2000)),
	))
}

// Product is a pest-control product or service offering.
// Category holds the category id.
type Product struct {
	ID          string    `json:"id,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	ImageURL    string    `json:"imageUrl"`
	InStock     bool      `json:"inStock"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

func (p Product) Validate() error {
	return asValidationError(validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&p.Price, validation.Min(0.0)),
		validation.Field(&p.Category, validation.Required),
		validation.Field(&p.ImageURL, is.URL),
	))
}

// Enquiry is a service lead submitted through the public surface.
type Enquiry struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Service string `json:"service"`
	Address string `json:"address,omitempty"`
	Message string `json:"message,omitempty"`
}

func (e Enquiry) Validate() error {
	return asValidationError(validation.ValidateStruct(&e,
		validation.Field(&e.Name, validation.Required),
		validation.Field(&e.Email, validation.Required, is.Email),
		validation.Field(&e.Phone, validation.Required, validation.Length(5, 32)),
		validation.Field(&e.Service, validation.Required),
		validation.Field(&e.Message, validation.Length(0, 4000)),
	))
}
