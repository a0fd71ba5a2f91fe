package main

import (
	"fmt"

	"github.com/estaidesoriginal/biblioteca-G/internal/model"

	"github.com/spf13/cobra"
)

func (c *cli) ordersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Review every order (ADMIN, MANAGER)",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List orders, newest first",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := c.app.Oversight.LoadOrders(cmd.Context()); err != nil {
					return err
				}
				c.printOrders(c.app.Oversight.Orders().Get())
				return nil
			},
		},
		&cobra.Command{
			Use:   "status <order-id> <PENDING|PAID|CANCELED>",
			Short: "Change the status of an order",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				st, err := model.ParseOrderStatus(args[1])
				if err != nil {
					return err
				}
				if err := c.app.Oversight.UpdateOrderStatus(cmd.Context(), args[0], st); err != nil {
					return err
				}
				fmt.Fprintf(c.out, "order %s is now %s\n", args[0], st)
				return nil
			},
		},
	)
	return cmd
}

func (c *cli) usersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts (ADMIN)",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List user accounts",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := c.app.Oversight.LoadUsers(cmd.Context()); err != nil {
					return err
				}
				c.printUsers(c.app.Oversight.Users().Get())
				return nil
			},
		},
		&cobra.Command{
			Use:   "role <user-id> <USER|SELLER|MANAGER>",
			Short: "Change the role of a non-admin account",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				role, err := model.ParseRole(args[1])
				if err != nil {
					return err
				}
				if err := c.app.Oversight.LoadUsers(cmd.Context()); err != nil {
					return err
				}
				if err := c.app.Oversight.ChangeUserRole(cmd.Context(), args[0], role); err != nil {
					return err
				}
				fmt.Fprintf(c.out, "user %s is now %s\n", args[0], role)
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete <user-id>",
			Short: "Delete a non-admin account",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := c.app.Oversight.LoadUsers(cmd.Context()); err != nil {
					return err
				}
				if err := c.app.Oversight.DeleteUser(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(c.out, "deleted user %s\n", args[0])
				return nil
			},
		},
	)
	return cmd
}
