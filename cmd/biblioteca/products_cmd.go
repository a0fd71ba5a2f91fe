package main

import (
	"fmt"

	"github.com/estaidesoriginal/biblioteca-G/internal/model"

	"github.com/spf13/cobra"
)

func (c *cli) productsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"store"},
		Short:   "Browse and manage store products",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List every product",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := c.app.Products.Refresh(cmd.Context()); err != nil {
					return err
				}
				c.printProducts(c.app.Products.Snapshot())
				return nil
			},
		},
		&cobra.Command{
			Use:   "search <query>",
			Short: "Search name, description and categories",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := c.app.Products.Refresh(cmd.Context()); err != nil {
					return err
				}
				c.printProducts(c.app.Products.Search(args[0]))
				return nil
			},
		},
		c.productAddCommand(),
		c.productEditCommand(),
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a product (ADMIN, SELLER)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := c.app.Products.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(c.out, "deleted product %s\n", args[0])
				return nil
			},
		},
	)
	return cmd
}

type productFlags struct {
	name, description, price, stock, categories, image string
}

func (f *productFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "name")
	cmd.Flags().StringVar(&f.description, "description", "", "description")
	cmd.Flags().StringVar(&f.price, "price", "", "unit price, e.g. 19.99")
	cmd.Flags().StringVar(&f.stock, "stock", "", "units in stock")
	cmd.Flags().StringVar(&f.categories, "categories", "", "comma separated categories")
	cmd.Flags().StringVar(&f.image, "image", "", "image URL")
}

func (f *productFlags) apply(cmd *cobra.Command, p model.Product) (model.Product, error) {
	if cmd.Flags().Changed("name") {
		p.Name = f.name
	}
	if cmd.Flags().Changed("description") {
		p.Description = f.description
	}
	if cmd.Flags().Changed("price") {
		price, err := model.ParsePrice(f.price)
		if err != nil {
			return p, err
		}
		p.Price = price
	}
	if cmd.Flags().Changed("stock") {
		stock, err := model.ParseStock(f.stock)
		if err != nil {
			return p, err
		}
		p.Stock = stock
	}
	if cmd.Flags().Changed("categories") {
		p.Categories = model.SplitList(f.categories)
	}
	if cmd.Flags().Changed("image") {
		p.ImageURL = optional(f.image)
	}
	return p, nil
}

func (c *cli) productAddCommand() *cobra.Command {
	var f productFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a product (ADMIN, SELLER)",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := f.apply(cmd, model.Product{Categories: []string{}})
			if err != nil {
				return err
			}
			created, err := c.app.Products.Create(cmd.Context(), p)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "created product %s\n", created.ID)
			return nil
		},
	}
	f.bind(cmd)
	return cmd
}

func (c *cli) productEditCommand() *cobra.Command {
	var f productFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a product; only the given fields change (ADMIN, SELLER)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Products.Refresh(cmd.Context()); err != nil {
				return err
			}
			p, ok := c.app.Products.Find(args[0])
			if !ok {
				return fmt.Errorf("product %s not found", args[0])
			}
			p, err := f.apply(cmd, p)
			if err != nil {
				return err
			}
			if _, err := c.app.Products.Update(cmd.Context(), p); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "updated product %s\n", p.ID)
			return nil
		},
	}
	f.bind(cmd)
	return cmd
}
