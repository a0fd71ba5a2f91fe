package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) loginCommand() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and persist the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if email, err = c.prompt("email", email); err != nil {
				return err
			}
			if password, err = c.prompt("password", password); err != nil {
				return err
			}
			id, err := c.app.Session.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "logged in as %s (%s)\n", id.DisplayName, id.Role)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password (prompted when empty)")
	return cmd
}

func (c *cli) registerCommand() *cobra.Command {
	var name, email, password string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if name, err = c.prompt("name", name); err != nil {
				return err
			}
			if email, err = c.prompt("email", email); err != nil {
				return err
			}
			if password, err = c.prompt("password", password); err != nil {
				return err
			}
			id, err := c.app.Session.Register(cmd.Context(), name, email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "welcome %s (%s)\n", id.DisplayName, id.Role)
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "display name")
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password (prompted when empty)")
	return cmd
}

func (c *cli) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the persisted session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Session.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "logged out")
			return nil
		},
	}
}

func (c *cli) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the active identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			c.printIdentity()
			return nil
		},
	}
}

func (c *cli) printIdentity() {
	id := c.app.Session.Current()
	if id == nil {
		fmt.Fprintln(c.out, "guest (not logged in)")
		return
	}
	fmt.Fprintf(c.out, "%s <%s> %s id=%s\n", id.DisplayName, id.Email, id.Role, id.ID)
}
