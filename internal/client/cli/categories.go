package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/pestcrm/internal/client/guard"
	"github.com/dmitrijs2005/pestcrm/internal/client/models"
	"github.com/dmitrijs2005/pestcrm/internal/common"
)

// Categories dispatches "categories [list|show|add|edit|delete] [id]".
func (a *App) Categories(ctx context.Context, args []string) error {
	v, err := a.enter(ctx, common.RouteCategories, false)
	if err != nil || v != guard.Allow {
		return err
	}

	sub, rest := "list", args
	if len(args) > 0 {
		sub, rest = args[0], args[1:]
	}

	switch sub {
	case "list":
		return a.listCategories(ctx)
	case "show":
		if len(rest) == 0 {
			return usage("categories show <id>")
		}
		return a.showCategory(ctx, rest[0])
	case "add":
		return a.addCategory(ctx)
	case "edit":
		if len(rest) == 0 {
			return usage("categories edit <id>")
		}
		return a.editCategory(ctx, rest[0])
	case "delete":
		if len(rest) == 0 {
			return usage("categories delete <id>")
		}
		return a.deleteCategory(ctx, rest[0])
	}
	return usage("categories [list|show <id>|add|edit <id>|delete <id>]")
}

func (a *App) listCategories(ctx context.Context) error {
	items, err := a.categoryService.List(ctx)
	if err != nil {
		return err
	}
	renderCategories(a.out, items)
	return nil
}

func (a *App) showCategory(ctx context.Context, id string) error {
	c, err := a.categoryService.Get(ctx, id)
	if err != nil {
		return err
	}
	renderCategory(a.out, c)
	return nil
}

func (a *App) promptCategory(base models.Category) (models.Category, error) {
	c := base
	var err error
	if c.Name, err = getWithDefault(a.reader, "Name", base.Name, a.out); err != nil {
		return c, err
	}
	if c.Description, err = getOptional(a.reader, "Description", base.Description, a.out); err != nil {
		return c, err
	}
	return c, nil
}

func (a *App) addCategory(ctx context.Context) error {
	c, err := a.promptCategory(models.Category{})
	if err != nil {
		return err
	}
	created, err := a.categoryService.Create(ctx, c)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created category %s.\n", created.ID)
	return nil
}

func (a *App) editCategory(ctx context.Context, id string) error {
	current, err := a.categoryService.Get(ctx, id)
	if err != nil {
		return err
	}
	c, err := a.promptCategory(*current)
	if err != nil {
		return err
	}
	if _, err := a.categoryService.Update(ctx, id, c); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Updated category %s.\n", id)
	return nil
}

func (a *App) deleteCategory(ctx context.Context, id string) error {
	ok, err := confirm(a.reader, fmt.Sprintf("Delete category %s?", id), a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.categoryService.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted category %s.\n", id)
	return nil
}
