package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/pestcrm/internal/client/models"
)

// Catalog lists the public storefront, optionally for one category.
func (a *App) Catalog(ctx context.Context, args []string) error {
	var category string
	if len(args) > 0 {
		category = args[0]
	}
	items, err := a.publicService.Catalog(ctx, category)
	if err != nil {
		return err
	}
	renderProducts(a.out, items)
	return nil
}

// Enquiry collects a service request and submits it anonymously.
func (a *App) Enquiry(ctx context.Context) error {
	var e models.Enquiry
	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Your name", &e.Name},
		{"Email", &e.Email},
		{"Phone", &e.Phone},
		{"Service (e.g. termite inspection)", &e.Service},
		{"Address (optional)", &e.Address},
		{"Message (optional)", &e.Message},
	}
	for _, f := range fields {
		v, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	if err := a.publicService.SubmitEnquiry(ctx, e); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Thank you, we will be in touch.")
	return nil
}
