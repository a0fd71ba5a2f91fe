package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/estaidesoriginal/biblioteca-G/internal/cart"
	"github.com/estaidesoriginal/biblioteca-G/internal/model"

	"github.com/spf13/cobra"
)

const shellHelp = `commands:
  whoami | login <email> [password] | logout
  games [query] | products [query]
  add <product-id> | inc <id> | dec <id> | rm <id> | clear | cart
  checkout | dismiss
  orders | status <order-id> <status>
  help | quit`

var errQuit = errors.New("quit")

func (c *cli) shellCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive session that keeps a cart between commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runShell(cmd.Context())
		},
	}
}

func (c *cli) runShell(ctx context.Context) error {
	c.printIdentity()
	fmt.Fprintln(c.out, `type "help" for commands`)
	for {
		fmt.Fprint(c.out, "> ")
		line, err := c.in.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			switch cmdErr := c.exec(ctx, strings.Fields(line)); {
			case errors.Is(cmdErr, errQuit):
				return nil
			case cmdErr != nil:
				fmt.Fprintf(c.out, "error: %v\n", cmdErr)
			}
		}
		if err == io.EOF {
			fmt.Fprintln(c.out)
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (c *cli) exec(ctx context.Context, f []string) error {
	a := c.app
	arg := func(i int) string {
		if i < len(f) {
			return f[i]
		}
		return ""
	}
	need := func(n int) error {
		if len(f) < n+1 {
			return fmt.Errorf("%s needs %d argument(s); see help", f[0], n)
		}
		return nil
	}

	f[0] = strings.ToLower(f[0])
	switch f[0] {
	case "help", "?":
		fmt.Fprintln(c.out, shellHelp)
	case "quit", "exit":
		return errQuit
	case "whoami":
		c.printIdentity()
	case "login":
		if err := need(1); err != nil {
			return err
		}
		password, err := c.prompt("password", arg(2))
		if err != nil {
			return err
		}
		id, err := a.Session.Login(ctx, f[1], password)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "logged in as %s (%s)\n", id.DisplayName, id.Role)
	case "logout":
		if err := a.Session.Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(c.out, "logged out")
	case "games":
		if err := a.Games.Refresh(ctx); err != nil {
			return err
		}
		c.printGames(a.Games.Search(strings.Join(f[1:], " ")))
	case "products":
		if err := a.Products.Refresh(ctx); err != nil {
			return err
		}
		c.printProducts(a.Products.Search(strings.Join(f[1:], " ")))
	case "add":
		if err := need(1); err != nil {
			return err
		}
		p, err := c.product(ctx, f[1])
		if err != nil {
			return err
		}
		if err := a.Cart.Add(p); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "%s x%d\n", p.Name, a.Cart.Quantity(p.ID))
	case "inc", "dec", "rm":
		if err := need(1); err != nil {
			return err
		}
		var err error
		switch f[0] {
		case "inc":
			err = a.Cart.Increase(f[1])
		case "dec":
			err = a.Cart.Decrease(f[1])
		default:
			err = a.Cart.Remove(f[1])
		}
		if err != nil {
			return err
		}
		c.printCart()
	case "clear":
		if err := a.Cart.Clear(); err != nil {
			return err
		}
		c.printCart()
	case "cart":
		c.printCart()
	case "checkout":
		st, err := a.Checkout(ctx)
		if err != nil && st.Phase != cart.Failed {
			return err
		}
		c.printStatus(st)
		fmt.Fprintln(c.out, `type "dismiss" to continue`)
	case "dismiss":
		a.Cart.Dismiss()
		c.printStatus(a.Cart.Status())
	case "orders":
		if err := a.Oversight.LoadOrders(ctx); err != nil {
			return err
		}
		c.printOrders(a.Oversight.Orders().Get())
	case "status":
		if err := need(2); err != nil {
			return err
		}
		st, err := model.ParseOrderStatus(f[2])
		if err != nil {
			return err
		}
		if err := a.Oversight.UpdateOrderStatus(ctx, f[1], st); err != nil {
			return err
		}
		c.printOrders(a.Oversight.Orders().Get())
	default:
		return fmt.Errorf("unknown command %q; see help", f[0])
	}
	return nil
}

// product resolves id against the products snapshot, loading it once if needed.
func (c *cli) product(ctx context.Context, id string) (model.Product, error) {
	if p, ok := c.app.Products.Find(id); ok {
		return p, nil
	}
	if err := c.app.Products.Refresh(ctx); err != nil {
		return model.Product{}, err
	}
	if p, ok := c.app.Products.Find(id); ok {
		return p, nil
	}
	return model.Product{}, fmt.Errorf("product %s not found", id)
}
