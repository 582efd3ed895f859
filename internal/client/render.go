package client

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/oksasatya/crateyy/internal/catalog"
	"github.com/oksasatya/crateyy/internal/domain/entity"
)

// ProductCard is the storefront tile for one product.
type ProductCard struct {
	ID    int64
	Name  string
	Image string
	Type  string
	Price catalog.PriceTag
}

// AdminRow is one line of the admin product table.
type AdminRow struct {
	ID       int64
	Name     string
	Category string
	Type     string
	Price    string
	Discount string
	Final    string
}

func Cards(products []entity.Product) []ProductCard {
	out := make([]ProductCard, 0, len(products))
	for _, p := range products {
		out = append(out, ProductCard{
			ID:    p.ID,
			Name:  p.Name,
			Image: p.Image,
			Type:  p.Type,
			Price: catalog.Tag(p),
		})
	}
	return out
}

func AdminRows(products []entity.Product) []AdminRow {
	out := make([]AdminRow, 0, len(products))
	for _, p := range products {
		tag := catalog.Tag(p)
		out = append(out, AdminRow{
			ID:       p.ID,
			Name:     p.Name,
			Category: p.Category,
			Type:     p.Type,
			Price:    tag.Original,
			Discount: fmt.Sprintf("%d%%", int(p.Discount)),
			Final:    tag.Final,
		})
	}
	return out
}

// PriceLabel renders "₹80.00 (₹100.00, -20%)" or just "₹100.00" without a discount.
func PriceLabel(t catalog.PriceTag) string {
	if !t.Strike {
		return "₹" + t.Final
	}
	return fmt.Sprintf("₹%s (₹%s, %s)", t.Final, t.Original, t.Badge)
}

func RenderCards(w io.Writer, cards []ProductCard) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tPRICE")
	for _, c := range cards {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", c.ID, c.Name, c.Type, PriceLabel(c.Price))
	}
	return tw.Flush()
}

func RenderAdmin(w io.Writer, rows []AdminRow) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tTYPE\tPRICE\tDISCOUNT\tFINAL")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n", r.ID, r.Name, r.Category, r.Type, r.Price, r.Discount, r.Final)
	}
	return tw.Flush()
}
