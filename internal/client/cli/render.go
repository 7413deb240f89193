package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dmitrijs2005/pestcrm/internal/client/models"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func renderProducts(w io.Writer, items []models.Product) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No products.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tCATEGORY\tIN STOCK")
	for _, p := range items {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%s\t%s\n", p.ID, p.Name, p.Price, p.Category, yesNo(p.InStock))
	}
	_ = tw.Flush()
}

func renderProduct(w io.Writer, p *models.Product) {
	tw := newTable(w)
	fmt.Fprintf(tw, "ID:\t%s\n", p.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", p.Name)
	fmt.Fprintf(tw, "Description:\t%s\n", p.Description)
	fmt.Fprintf(tw, "Price:\t%.2f\n", p.Price)
	fmt.Fprintf(tw, "Category:\t%s\n", p.Category)
	fmt.Fprintf(tw, "Image:\t%s\n", p.ImageURL)
	fmt.Fprintf(tw, "In stock:\t%s\n", yesNo(p.InStock))
	_ = tw.Flush()
}

func renderCategories(w io.Writer, items []models.Category) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No categories.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tDESCRIPTION")
	for _, c := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.ID, c.Name, c.Description)
	}
	_ = tw.Flush()
}

func renderCategory(w io.Writer, c *models.Category) {
	tw := newTable(w)
	fmt.Fprintf(tw, "ID:\t%s\n", c.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", c.Name)
	fmt.Fprintf(tw, "Description:\t%s\n", c.Description)
	_ = tw.Flush()
}
