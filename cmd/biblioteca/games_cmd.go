package main

import (
	"fmt"

	"github.com/estaidesoriginal/biblioteca-G/internal/model"

	"github.com/spf13/cobra"
)

func (c *cli) gamesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "games",
		Short: "Browse and manage the game library",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List every game",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := c.app.Games.Refresh(cmd.Context()); err != nil {
					return err
				}
				c.printGames(c.app.Games.Snapshot())
				return nil
			},
		},
		&cobra.Command{
			Use:   "search <query>",
			Short: "Search title, description and tags",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := c.app.Games.Refresh(cmd.Context()); err != nil {
					return err
				}
				c.printGames(c.app.Games.Search(args[0]))
				return nil
			},
		},
		c.gameAddCommand(),
		c.gameEditCommand(),
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a game",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := c.app.Games.Refresh(cmd.Context()); err != nil {
					return err
				}
				if err := c.app.Games.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(c.out, "deleted game %s\n", args[0])
				return nil
			},
		},
		c.gameProtectCommand(),
	)
	return cmd
}

type gameFlags struct {
	title, description, tags, image, links string
	protected                              bool
}

func (f *gameFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "title")
	cmd.Flags().StringVar(&f.description, "description", "", "description")
	cmd.Flags().StringVar(&f.tags, "tags", "", "comma separated tags")
	cmd.Flags().StringVar(&f.image, "image", "", "image URL")
	cmd.Flags().StringVar(&f.links, "links", "", "comma separated external links")
}

// apply overwrites the fields whose flags were given.
func (f *gameFlags) apply(cmd *cobra.Command, g model.Game) model.Game {
	if cmd.Flags().Changed("title") {
		g.Title = f.title
	}
	if cmd.Flags().Changed("description") {
		g.Description = f.description
	}
	if cmd.Flags().Changed("tags") {
		g.Tags = model.SplitList(f.tags)
	}
	if cmd.Flags().Changed("image") {
		g.ImageURL = optional(f.image)
	}
	if cmd.Flags().Changed("links") {
		g.ExternalLinks = model.SplitList(f.links)
	}
	return g
}

func (c *cli) gameAddCommand() *cobra.Command {
	var f gameFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a game",
		RunE: func(cmd *cobra.Command, args []string) error {
			g := f.apply(cmd, model.Game{Tags: []string{}, ExternalLinks: []string{}, Protection: model.Public})
			if f.protected {
				g.Protection = model.Protected
			}
			created, err := c.app.Games.Create(cmd.Context(), g)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "created game %s\n", created.ID)
			return nil
		},
	}
	f.bind(cmd)
	cmd.Flags().BoolVar(&f.protected, "protected", false, "create the game already protected (ADMIN)")
	return cmd
}

func (c *cli) gameEditCommand() *cobra.Command {
	var f gameFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a game; only the given fields change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Games.Refresh(cmd.Context()); err != nil {
				return err
			}
			g, ok := c.app.Games.Find(args[0])
			if !ok {
				return fmt.Errorf("game %s not found", args[0])
			}
			if _, err := c.app.Games.Update(cmd.Context(), f.apply(cmd, g)); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "updated game %s\n", g.ID)
			return nil
		},
	}
	f.bind(cmd)
	return cmd
}

func (c *cli) gameProtectCommand() *cobra.Command {
	var off bool
	cmd := &cobra.Command{
		Use:   "protect <id>",
		Short: "Protect a game so only ADMIN can change it (--off to make it public)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.app.Games.Refresh(cmd.Context()); err != nil {
				return err
			}
			p := model.Protected
			if off {
				p = model.Public
			}
			if _, err := c.app.Games.SetProtection(cmd.Context(), args[0], p); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "game %s is now %s\n", args[0], p)
			return nil
		},
	}
	cmd.Flags().BoolVar(&off, "off", false, "make the game public")
	return cmd
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
