package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/estaidesoriginal/biblioteca-G/internal/cart"
	"github.com/estaidesoriginal/biblioteca-G/internal/model"

	"github.com/shopspring/decimal"
)

func (c *cli) table(header string, rows func(w *tabwriter.Writer)) {
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, header)
	rows(w)
	w.Flush()
}

func (c *cli) printGames(games []model.Game) {
	if len(games) == 0 {
		fmt.Fprintln(c.out, "no games")
		return
	}
	c.table("ID\tTITLE\tTAGS\tPROTECTION", func(w *tabwriter.Writer) {
		for _, g := range games {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", g.ID, g.Title, strings.Join(g.Tags, ","), g.Protection)
		}
	})
}

func (c *cli) printProducts(products []model.Product) {
	if len(products) == 0 {
		fmt.Fprintln(c.out, "no products")
		return
	}
	c.table("ID\tNAME\tPRICE\tSTOCK\tCATEGORIES", func(w *tabwriter.Writer) {
		for _, p := range products {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", p.ID, p.Name, money(p.PriceDecimal()), p.Stock, strings.Join(p.Categories, ","))
		}
	})
}

func (c *cli) printOrders(orders []model.Order) {
	if len(orders) == 0 {
		fmt.Fprintln(c.out, "no orders")
		return
	}
	c.table("ID\tUSER\tTOTAL\tSTATUS\tITEMS\tCREATED", func(w *tabwriter.Writer) {
		for _, o := range orders {
			created := ""
			if o.CreatedAt != nil {
				created = o.CreatedAt.Format("2006-01-02 15:04")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n", o.ID, o.UserID,
				money(decimal.NewFromFloat(o.Total)), o.Status, len(o.Items), created)
		}
	})
}

func (c *cli) printUsers(users []model.User) {
	if len(users) == 0 {
		fmt.Fprintln(c.out, "no users")
		return
	}
	c.table("ID\tNAME\tEMAIL\tROLE", func(w *tabwriter.Writer) {
		for _, u := range users {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Role)
		}
	})
}

func (c *cli) printCart() {
	lines := c.app.Cart.Lines()
	if len(lines) == 0 {
		fmt.Fprintln(c.out, "cart is empty")
		return
	}
	c.table("ID\tNAME\tQTY\tSTOCK\tSUBTOTAL", func(w *tabwriter.Writer) {
		for _, l := range lines {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n", l.Product.ID, l.Product.Name, l.Quantity, l.Product.Stock, money(l.Subtotal()))
		}
	})
	fmt.Fprintf(c.out, "total: %s\n", money(c.app.Cart.Total()))
}

func (c *cli) printStatus(st cart.Status) {
	switch st.Phase {
	case cart.Succeeded:
		fmt.Fprintf(c.out, "order placed: %s (order %s), total %s\n", st.Reference, st.OrderID, money(st.Total))
	case cart.Failed:
		fmt.Fprintf(c.out, "checkout failed: %s\n", st.Reason)
	default:
		fmt.Fprintf(c.out, "checkout %s\n", st.Phase)
	}
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
