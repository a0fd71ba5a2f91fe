package services

import (
	"context"
	"errors"
	"strings"

	"github.com/estaidesoriginal/biblioteca-G/internal/apperr"
	"github.com/estaidesoriginal/biblioteca-G/internal/model"
	"github.com/estaidesoriginal/biblioteca-G/internal/policy"
	"github.com/estaidesoriginal/biblioteca-G/internal/repository"

	"github.com/sirupsen/logrus"
)

type OrderStore interface {
	Checkout(ctx context.Context, userID string, lines []repository.CheckoutLine) (model.Order, error)
	List(ctx context.Context) ([]model.Order, error)
	GetByID(ctx context.Context, id string) (model.Order, error)
	UpdateStatus(ctx context.Context, id string, status model.OrderStatus) error
}

// CheckoutObserver is told the outcome of every checkout attempt.
type CheckoutObserver func(outcome string)

type OrderService struct {
	Orders  OrderStore
	observe CheckoutObserver
	log     logrus.FieldLogger
}

func NewOrderService(orders OrderStore, observe CheckoutObserver, log logrus.FieldLogger) *OrderService {
	if observe == nil {
		observe = func(string) {}
	}
	return &OrderService{Orders: orders, observe: observe, log: log.WithField("component", "orders")}
}

// Checkout creates a PENDING order for userID from the submitted cart lines. The
// client's prices and stock are ignored; the locked rows are authoritative.
func (s *OrderService) Checkout(ctx context.Context, caller Caller, userID string, lines []model.CartLine) (model.Order, error) {
	if err := policy.Check(policy.CanAddToCart(caller.Role), "checkout", caller.Role); err != nil {
		s.observe("denied")
		return model.Order{}, err
	}
	if !caller.Role.Authenticated() || caller.UserID == "" {
		s.observe("denied")
		return model.Order{}, apperr.Denied("checkout as %s", caller.Role)
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		s.observe("invalid")
		return model.Order{}, apperr.Invalid("userId", "is required")
	}
	if caller.Role != model.RoleAdmin && caller.UserID != userID {
		s.observe("denied")
		return model.Order{}, apperr.Denied("checkout for another user as %s", caller.Role)
	}
	if len(lines) == 0 {
		s.observe("invalid")
		return model.Order{}, apperr.Invalid("lines", "cart is empty")
	}

	req := make([]repository.CheckoutLine, 0, len(lines))
	for _, l := range lines {
		if strings.TrimSpace(l.Product.ID) == "" {
			s.observe("invalid")
			return model.Order{}, apperr.Invalid("product", "id is required")
		}
		if l.Quantity <= 0 {
			s.observe("invalid")
			return model.Order{}, apperr.Invalid("quantity", "must be positive")
		}
		req = append(req, repository.CheckoutLine{ProductID: l.Product.ID, Quantity: l.Quantity})
	}

	order, err := s.Orders.Checkout(ctx, userID, repository.MergeLines(req))
	switch {
	case errors.Is(err, repository.ErrInsufficientStock):
		s.observe("rejected")
		return model.Order{}, err
	case err != nil:
		s.observe("error")
		return model.Order{}, err
	}
	s.observe("created")
	s.log.WithFields(logrus.Fields{"order_id": order.ID, "user_id": userID, "total": order.Total}).Info("order created")
	return order, nil
}

func (s *OrderService) List(ctx context.Context, caller Caller) ([]model.Order, error) {
	if err := policy.Check(policy.CanViewOrders(caller.Role), "view orders", caller.Role); err != nil {
		return nil, err
	}
	return s.Orders.List(ctx)
}

// UpdateStatus allows any transition between PENDING, PAID and CANCELED.
func (s *OrderService) UpdateStatus(ctx context.Context, caller Caller, id string, status string) (model.Order, error) {
	if err := policy.Check(policy.CanChangeOrderStatus(caller.Role), "change order status", caller.Role); err != nil {
		return model.Order{}, err
	}
	st, err := model.ParseOrderStatus(status)
	if err != nil {
		return model.Order{}, apperr.Invalid("status", err.Error())
	}
	if err := s.Orders.UpdateStatus(ctx, id, st); err != nil {
		return model.Order{}, err
	}
	s.log.WithFields(logrus.Fields{"order_id": id, "status": st, "by": caller.UserID}).Info("order status changed")
	return s.Orders.GetByID(ctx, id)
}
