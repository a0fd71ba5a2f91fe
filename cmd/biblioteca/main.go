package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/estaidesoriginal/biblioteca-G/internal/app"
	"github.com/estaidesoriginal/biblioteca-G/internal/config"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

// cli carries the app shared by every subcommand. app is opened lazily in the
// root pre-run unless a test injected one.
type cli struct {
	app *app.App
	in  *bufio.Reader
	out io.Writer
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	return newRootCmdWith(&cli{in: bufio.NewReader(in), out: out})
}

func newRootCmdWith(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "biblioteca",
		Short:         "BibliotecaG client: game library, store, cart and administration",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.open(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.close()
		},
	}
	root.SetOut(c.out)
	root.SetErr(c.out)

	root.AddCommand(
		c.loginCommand(),
		c.registerCommand(),
		c.logoutCommand(),
		c.whoamiCommand(),
		c.gamesCommand(),
		c.productsCommand(),
		c.ordersCommand(),
		c.usersCommand(),
		c.shellCommand(),
	)
	return root
}

func (c *cli) open(ctx context.Context) error {
	if c.app != nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.LoadClient()
	if err != nil {
		return err
	}
	log := config.NewLogger(cfg.LogLevel)
	log.SetOutput(os.Stderr)

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("start client: %w", err)
	}
	a.Start(ctx)
	c.app = a
	return nil
}

func (c *cli) close() error {
	if c.app == nil {
		return nil
	}
	return c.app.Close()
}

// prompt reads one line when value is empty.
func (c *cli) prompt(label, value string) (string, error) {
	if value != "" {
		return value, nil
	}
	fmt.Fprintf(c.out, "%s: ", label)
	line, err := c.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read %s: %w", label, err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
