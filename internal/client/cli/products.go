package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/pestcrm/internal/client/guard"
	"github.com/dmitrijs2005/pestcrm/internal/client/models"
	"github.com/dmitrijs2005/pestcrm/internal/common"
)

var errUsage = errors.New("usage")

func usage(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

// Products dispatches "products [list|show|add|edit|delete] [id]". Every
// subcommand first enters the products page through the guard.
func (a *App) Products(ctx context.Context, args []string) error {
	v, err := a.enter(ctx, common.RouteProducts, false)
	if err != nil || v != guard.Allow {
		return err
	}

	sub, rest := "list", args
	if len(args) > 0 {
		sub, rest = args[0], args[1:]
	}

	switch sub {
	case "list":
		return a.listProducts(ctx, rest)
	case "show":
		if len(rest) == 0 {
			return usage("products show <id>")
		}
		return a.showProduct(ctx, rest[0])
	case "add":
		return a.addProduct(ctx)
	case "edit":
		if len(rest) == 0 {
			return usage("products edit <id>")
		}
		return a.editProduct(ctx, rest[0])
	case "delete":
		if len(rest) == 0 {
			return usage("products delete <id>")
		}
		return a.deleteProduct(ctx, rest[0])
	}
	return usage("products [list [category]|show <id>|add|edit <id>|delete <id>]")
}

func (a *App) listProducts(ctx context.Context, args []string) error {
	var category string
	if len(args) > 0 {
		category = args[0]
	}
	items, err := a.productService.List(ctx, category)
	if err != nil {
		return err
	}
	renderProducts(a.out, items)
	return nil
}

func (a *App) showProduct(ctx context.Context, id string) error {
	p, err := a.productService.Get(ctx, id)
	if err != nil {
		return err
	}
	renderProduct(a.out, p)
	return nil
}

// promptProduct asks for every product field, offering base as default.
func (a *App) promptProduct(base models.Product) (models.Product, error) {
	p := base
	var err error
	if p.Name, err = getWithDefault(a.reader, "Name", base.Name, a.out); err != nil {
		return p, err
	}
	if p.Description, err = getOptional(a.reader, "Description", base.Description, a.out); err != nil {
		return p, err
	}
	price, err := getWithDefault(a.reader, "Price", strconv.FormatFloat(base.Price, 'f', 2, 64), a.out)
	if err != nil {
		return p, err
	}
	if p.Price, err = strconv.ParseFloat(price, 64); err != nil {
		return p, &models.ValidationError{Fields: map[string]string{"price": "must be a number"}}
	}
	if p.Category, err = getWithDefault(a.reader, "Category id", base.Category, a.out); err != nil {
		return p, err
	}
	if p.ImageURL, err = getOptional(a.reader, "Image URL", base.ImageURL, a.out); err != nil {
		return p, err
	}
	inStock, err := getWithDefault(a.reader, "In stock (y/n)", yesNo(base.InStock), a.out)
	if err != nil {
		return p, err
	}
	p.InStock = inStock == "y" || inStock == "yes"
	return p, nil
}

func (a *App) addProduct(ctx context.Context) error {
	p, err := a.promptProduct(models.Product{InStock: true})
	if err != nil {
		return err
	}
	created, err := a.productService.Create(ctx, p)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created product %s.\n", created.ID)
	return nil
}

func (a *App) editProduct(ctx context.Context, id string) error {
	current, err := a.productService.Get(ctx, id)
	if err != nil {
		return err
	}
	p, err := a.promptProduct(*current)
	if err != nil {
		return err
	}
	if _, err := a.productService.Update(ctx, id, p); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Updated product %s.\n", id)
	return nil
}

func (a *App) deleteProduct(ctx context.Context, id string) error {
	ok, err := confirm(a.reader, fmt.Sprintf("Delete product %s?", id), a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.productService.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted product %s.\n", id)
	return nil
}

func yesNo(b bool) string {
	if b {
		return "y"
	}
	return "n"
}
