// Package app wires one client session: gateway, session manager, catalogs, cart
// and oversight. Everything is constructed here and passed explicitly.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/estaidesoriginal/biblioteca-G/internal/cart"
	"github.com/estaidesoriginal/biblioteca-G/internal/catalog"
	"github.com/estaidesoriginal/biblioteca-G/internal/config"
	"github.com/estaidesoriginal/biblioteca-G/internal/gateway"
	"github.com/estaidesoriginal/biblioteca-G/internal/model"
	"github.com/estaidesoriginal/biblioteca-G/internal/oversight"
	"github.com/estaidesoriginal/biblioteca-G/internal/session"

	"github.com/sirupsen/logrus"
)

type App struct {
	Log       logrus.FieldLogger
	Gateway   *gateway.Client
	Session   *session.Manager
	Games     *catalog.Games
	Products  *catalog.Products
	Cart      *cart.Engine
	Oversight *oversight.Service

	store session.Store
}

// New opens the configured session store and builds the app around it.
func New(ctx context.Context, cfg config.Client, log logrus.FieldLogger) (*App, error) {
	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return Build(cfg, store, log), nil
}

// Build assembles the components over an already open store.
func Build(cfg config.Client, store session.Store, log logrus.FieldLogger, opts ...gateway.Option) *App {
	a := &App{Log: log, store: store}

	// The gateway reads the bearer token from the session on every request.
	opts = append([]gateway.Option{
		gateway.WithLogger(log.WithField("component", "gateway")),
		gateway.WithTokenSource(func() string { return a.Session.Token() }),
	}, opts...)
	a.Gateway = gateway.New(cfg.APIURL, cfg.Timeout, opts...)

	a.Session = session.NewManager(a.Gateway, store, log)
	a.Games = catalog.NewGames(a.Gateway.Games(), a.Session, log)
	a.Products = catalog.NewProducts(a.Gateway.Products(), a.Session, log)
	a.Cart = cart.NewEngine(a.Gateway, a.Session, log)
	a.Oversight = oversight.NewService(a.Gateway, a.Session, log)

	a.Session.OnChange(a.identityChanged)
	return a
}

// OpenStore returns the session store selected by cfg.SessionStore.
func OpenStore(ctx context.Context, cfg config.Client) (session.Store, error) {
	switch cfg.SessionStore {
	case "memory":
		return session.NewMemoryStore(), nil
	case "redis":
		return session.NewRedisStore(ctx, cfg.RedisAddr, "")
	case "sqlite", "":
		if dir := filepath.Dir(cfg.SessionPath); dir != "." {
			if err := os.MkdirAll(dir, 0o700); err != nil {
				return nil, fmt.Errorf("create session dir: %w", err)
			}
		}
		return session.NewSQLiteStore(ctx, cfg.SessionPath)
	}
	return nil, fmt.Errorf("unknown session store %q", cfg.SessionStore)
}

// Start restores the persisted session, if any.
func (a *App) Start(ctx context.Context) *model.Identity {
	id, _ := a.Session.Restore(ctx)
	return id
}

// Checkout submits the cart for the active identity.
func (a *App) Checkout(ctx context.Context) (cart.Status, error) {
	return a.Cart.Checkout(ctx, a.Session.UserID())
}

// Close abandons in-flight catalog loads and closes the session store.
func (a *App) Close() error {
	a.Games.Close()
	a.Products.Close()
	return a.store.Close()
}

// identityChanged drops everything owned by the previous identity. A guest cart
// carries over into the first login.
func (a *App) identityChanged(prev, next *model.Identity) {
	if prev == nil || (next != nil && prev.ID == next.ID) {
		return
	}
	a.Cart.Reset()
	a.Oversight.Reset()
	a.Log.WithField("component", "app").Debug("per-identity state reset")
}
