// Package cart owns the in-memory cart of the active session and drives checkout.
package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/estaidesoriginal/biblioteca-G/internal/apperr"
	"github.com/estaidesoriginal/biblioteca-G/internal/model"
	"github.com/estaidesoriginal/biblioteca-G/internal/policy"
	"github.com/estaidesoriginal/biblioteca-G/internal/state"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	ErrCheckoutInProgress = errors.New("checkout in progress")
	ErrResultPending      = errors.New("dismiss the previous checkout result first")
	ErrDiscarded          = errors.New("checkout result discarded: cart was reset")
	ErrNotInCart          = errors.New("product not in cart")
)

type Checkouter interface {
	Checkout(ctx context.Context, userID string, lines []model.CartLine) (model.Order, error)
}

type Phase int

const (
	Idle Phase = iota
	Submitting
	Succeeded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "success"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Status is the checkout state. OrderID, Reference and Total are set on Succeeded;
// Reason on Failed.
type Status struct {
	Phase     Phase
	OrderID   string
	Reference string
	Total     decimal.Decimal
	Reason    string
}

type Engine struct {
	remote Checkouter
	roles  policy.RoleSource
	log    logrus.FieldLogger

	// mu serialises cart mutations with the publication of a checkout result.
	mu     sync.Mutex
	lines  *state.Value[[]model.CartLine]
	status *state.Value[Status]
	errs   *state.Value[error]
}

func NewEngine(remote Checkouter, roles policy.RoleSource, log logrus.FieldLogger) *Engine {
	return &Engine{
		remote: remote,
		roles:  roles,
		log:    log.WithField("component", "cart"),
		lines:  state.NewValue([]model.CartLine{}),
		status: state.NewValue(Status{Phase: Idle}),
		errs:   state.NewValue[error](nil),
	}
}

// LinesValue is the observable cart, in insertion order.
func (e *Engine) LinesValue() *state.Value[[]model.CartLine] { return e.lines }

func (e *Engine) Err() *state.Value[error] { return e.errs }

func (e *Engine) Status() Status { return e.status.Get() }

// Lines returns a copy of the current lines.
func (e *Engine) Lines() []model.CartLine {
	cur := e.lines.Get()
	out := make([]model.CartLine, len(cur))
	copy(out, cur)
	return out
}

// Quantity of productID in the cart, 0 when absent.
func (e *Engine) Quantity(productID string) int {
	for _, l := range e.lines.Get() {
		if l.Product.ID == productID {
			return l.Quantity
		}
	}
	return 0
}

// Total is recomputed from the current lines on every call.
func (e *Engine) Total() decimal.Decimal {
	return model.CartTotal(e.lines.Get())
}

// Add puts one unit of p in the cart. The stock bound is p's snapshot at call time;
// at the bound, or with stock 0, no unit is added. A newer snapshot with less stock
// lowers an existing line to the new bound and drops it when nothing is left.
func (e *Engine) Add(p model.Product) error {
	role := e.roles.Role()
	if err := policy.Check(policy.CanAddToCart(role), "add to cart", role); err != nil {
		e.errs.Set(err)
		return err
	}
	return e.mutate(func(lines []model.CartLine) []model.CartLine {
		for i := range lines {
			if lines[i].Product.ID != p.ID {
				continue
			}
			if p.Stock <= 0 {
				return append(lines[:i], lines[i+1:]...)
			}
			lines[i].Product = p
			if lines[i].Quantity < p.Stock {
				lines[i].Quantity++
			} else {
				lines[i].Quantity = p.Stock
			}
			return lines
		}
		if p.Stock <= 0 {
			return lines
		}
		return append(lines, model.CartLine{Product: p, Quantity: 1})
	})
}

// Increase adds one unit, bounded by the stock known for the line.
func (e *Engine) Increase(productID string) error {
	return e.mutateLine(productID, func(l *model.CartLine) {
		if l.Quantity < l.Product.Stock {
			l.Quantity++
		}
	})
}

// Decrease removes one unit; the floor is 1. Use Remove to drop the line.
func (e *Engine) Decrease(productID string) error {
	return e.mutateLine(productID, func(l *model.CartLine) {
		if l.Quantity > 1 {
			l.Quantity--
		}
	})
}

func (e *Engine) Remove(productID string) error {
	found := false
	err := e.mutate(func(lines []model.CartLine) []model.CartLine {
		out := lines[:0]
		for _, l := range lines {
			if l.Product.ID == productID {
				found = true
				continue
			}
			out = append(out, l)
		}
		return out
	})
	if err == nil && !found {
		return ErrNotInCart
	}
	return err
}

// Clear empties the cart. Rejected while a checkout is submitting.
func (e *Engine) Clear() error {
	return e.mutate(func([]model.CartLine) []model.CartLine { return nil })
}

// Reset drops the cart and the checkout status and discards any in-flight
// checkout result. Called when the identity changes.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lines.Reset([]model.CartLine{})
	e.status.Reset(Status{Phase: Idle})
	e.errs.Set(nil)
}

// Checkout submits the full line snapshot for userID. On success the cart is cleared
// and the status carries the order reference and the pre-submit total. On failure the
// cart is left exactly as it was. Either result must be dismissed before the next
// checkout.
func (e *Engine) Checkout(ctx context.Context, userID string) (Status, error) {
	e.mu.Lock()
	switch e.status.Get().Phase {
	case Submitting:
		e.mu.Unlock()
		return Status{}, ErrCheckoutInProgress
	case Succeeded, Failed:
		e.mu.Unlock()
		return Status{}, ErrResultPending
	}
	role := e.roles.Role()
	snapshot := copyLines(e.lines.Get())
	var err error
	switch {
	case !policy.CanAddToCart(role):
		err = policy.Check(false, "checkout", role)
	case len(snapshot) == 0:
		err = apperr.Invalid("cart", "is empty")
	case strings.TrimSpace(userID) == "":
		err = apperr.Invalid("userId", "is required")
	}
	if err != nil {
		e.mu.Unlock()
		e.errs.Set(err)
		return Status{}, err
	}

	total := model.CartTotal(snapshot)
	tok := e.status.Begin()
	e.status.Apply(tok, Status{Phase: Submitting, Total: total})
	e.errs.Set(nil)
	e.mu.Unlock()

	log := e.log.WithFields(logrus.Fields{"user_id": userID, "lines": len(snapshot), "total": total.StringFixed(2)})
	log.Info("submitting checkout")
	order, err := e.remote.Checkout(ctx, userID, snapshot)

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.status.Valid(tok) {
		log.Warn("discarding checkout result after reset")
		return Status{}, ErrDiscarded
	}
	if err != nil {
		st := Status{Phase: Failed, Total: total, Reason: err.Error()}
		e.status.Apply(tok, st)
		e.errs.Set(fmt.Errorf("checkout failed: %w", err))
		log.WithError(err).Warn("checkout failed")
		return st, e.errs.Get()
	}

	st := Status{Phase: Succeeded, OrderID: order.ID, Reference: newReference(), Total: total}
	e.lines.Set([]model.CartLine{})
	e.status.Apply(tok, st)
	log.WithFields(logrus.Fields{"order_id": order.ID, "reference": st.Reference}).Info("checkout succeeded")
	return st, nil
}

// Dismiss returns a Succeeded or Failed checkout to Idle.
func (e *Engine) Dismiss() {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch e.status.Get().Phase {
	case Succeeded, Failed:
		e.status.Set(Status{Phase: Idle})
		e.errs.Set(nil)
	}
}

func (e *Engine) mutate(fn func([]model.CartLine) []model.CartLine) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.status.Get().Phase == Submitting {
		return ErrCheckoutInProgress
	}
	next := fn(copyLines(e.lines.Get()))
	if next == nil {
		next = []model.CartLine{}
	}
	e.lines.Set(next)
	return nil
}

func (e *Engine) mutateLine(productID string, fn func(*model.CartLine)) error {
	found := false
	err := e.mutate(func(lines []model.CartLine) []model.CartLine {
		for i := range lines {
			if lines[i].Product.ID == productID {
				found = true
				fn(&lines[i])
			}
		}
		return lines
	})
	if err == nil && !found {
		return ErrNotInCart
	}
	return err
}

func copyLines(lines []model.CartLine) []model.CartLine {
	out := make([]model.CartLine, len(lines))
	copy(out, lines)
	return out
}

// newReference is the receipt reference shown to the buyer, e.g. ORD-1A2B3C4D.
func newReference() string {
	return "ORD-" + strings.ToUpper(uuid.NewString()[:8])
}
