// Package catalog mirrors a remote collection in an observable snapshot. Every
// write is followed by an awaited full refresh; the snapshot is never patched.
package catalog

import (
	"context"
	"fmt"

	"github.com/estaidesoriginal/biblioteca-G/internal/state"

	"github.com/sirupsen/logrus"
)

type Record interface {
	Key() string
	Matches(query string) bool
	Validate() error
}

type Remote[T Record] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, rec T) (T, error)
	Update(ctx context.Context, rec T) (T, error)
	Delete(ctx context.Context, id string) error
}

type Op int

const (
	OpCreate Op = iota
	OpUpdate
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	}
	return "unknown"
}

// Guard re-checks authorization right before a write is dispatched. current is the
// cached record (nil if not cached or on create); next is nil on delete.
type Guard[T Record] func(op Op, current, next *T) error

type Options[T Record] struct {
	// Name is used in error facets, e.g. "cannot load games".
	Name    string
	Guard   Guard[T]
	Prepare func(T) T
}

type Catalog[T Record] struct {
	name    string
	remote  Remote[T]
	guard   Guard[T]
	prepare func(T) T
	log     logrus.FieldLogger

	items *state.Value[[]T]
	errs  *state.Value[error]
}

func New[T Record](remote Remote[T], opts Options[T], log logrus.FieldLogger) *Catalog[T] {
	c := &Catalog[T]{
		name:    opts.Name,
		remote:  remote,
		guard:   opts.Guard,
		prepare: opts.Prepare,
		log:     log.WithField("component", opts.Name),
		items:   state.NewValue([]T{}),
		errs:    state.NewValue[error](nil),
	}
	if c.guard == nil {
		c.guard = func(Op, *T, *T) error { return nil }
	}
	if c.prepare == nil {
		c.prepare = func(rec T) T { return rec }
	}
	return c
}

// Items is the observable snapshot.
func (c *Catalog[T]) Items() *state.Value[[]T] { return c.items }

// Err is the error facet of the last failed operation; cleared by a successful refresh.
func (c *Catalog[T]) Err() *state.Value[error] { return c.errs }

// Snapshot returns a copy of the current items.
func (c *Catalog[T]) Snapshot() []T {
	cur := c.items.Get()
	out := make([]T, len(cur))
	copy(out, cur)
	return out
}

func (c *Catalog[T]) Find(id string) (T, bool) {
	for _, rec := range c.items.Get() {
		if rec.Key() == id {
			return rec, true
		}
	}
	var zero T
	return zero, false
}

// Refresh replaces the snapshot wholesale. On failure the previous snapshot stays
// available and the error facet is set. A result that arrives after Close is dropped.
func (c *Catalog[T]) Refresh(ctx context.Context) error {
	tok := c.items.Begin()
	list, err := c.remote.List(ctx)
	if !c.items.Valid(tok) {
		c.log.Debug("discarding stale refresh result")
		return nil
	}
	if err != nil {
		return c.fail(fmt.Errorf("cannot load %s: %w", c.name, err))
	}
	if list == nil {
		list = []T{}
	}
	if c.items.Apply(tok, list) {
		c.errs.Set(nil)
		c.log.WithField("count", len(list)).Debug("snapshot refreshed")
	}
	return nil
}

// Create submits rec and then refreshes. Nothing is inserted locally.
func (c *Catalog[T]) Create(ctx context.Context, rec T) (T, error) {
	var zero T
	rec = c.prepare(rec)
	if err := rec.Validate(); err != nil {
		return zero, c.fail(err)
	}
	if err := c.guard(OpCreate, nil, &rec); err != nil {
		return zero, c.fail(err)
	}

	created, err := c.remote.Create(ctx, rec)
	if err != nil {
		return zero, c.fail(fmt.Errorf("cannot create %s: %w", c.name, err))
	}
	c.log.WithField("id", created.Key()).Info("created")
	return created, c.Refresh(ctx)
}

// Update is a full replace of the record with the same key.
func (c *Catalog[T]) Update(ctx context.Context, rec T) (T, error) {
	var zero T
	if err := rec.Validate(); err != nil {
		return zero, c.fail(err)
	}
	if err := c.guard(OpUpdate, c.cached(rec.Key()), &rec); err != nil {
		return zero, c.fail(err)
	}

	updated, err := c.remote.Update(ctx, rec)
	if err != nil {
		return zero, c.fail(fmt.Errorf("cannot update %s: %w", c.name, err))
	}
	c.log.WithField("id", rec.Key()).Info("updated")
	return updated, c.Refresh(ctx)
}

func (c *Catalog[T]) Delete(ctx context.Context, id string) error {
	if err := c.guard(OpDelete, c.cached(id), nil); err != nil {
		return c.fail(err)
	}
	if err := c.remote.Delete(ctx, id); err != nil {
		return c.fail(fmt.Errorf("cannot delete %s: %w", c.name, err))
	}
	c.log.WithField("id", id).Info("deleted")
	return c.Refresh(ctx)
}

// Search filters the current snapshot locally. It never calls the gateway and
// never mutates the snapshot.
func (c *Catalog[T]) Search(query string) []T {
	out := []T{}
	for _, rec := range c.items.Get() {
		if rec.Matches(query) {
			out = append(out, rec)
		}
	}
	return out
}

// Close abandons in-flight refreshes; their results are discarded.
func (c *Catalog[T]) Close() { c.items.Invalidate() }

func (c *Catalog[T]) cached(id string) *T {
	if rec, ok := c.Find(id); ok {
		return &rec
	}
	return nil
}

func (c *Catalog[T]) fail(err error) error {
	c.errs.Set(err)
	c.log.WithError(err).Warn("operation failed")
	return err
}
