// Package oversight holds the privileged views: every order, and every user account.
package oversight

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/estaidesoriginal/biblioteca-G/internal/apperr"
	"github.com/estaidesoriginal/biblioteca-G/internal/model"
	"github.com/estaidesoriginal/biblioteca-G/internal/policy"
	"github.com/estaidesoriginal/biblioteca-G/internal/state"

	"github.com/sirupsen/logrus"
)

type Remote interface {
	ListOrders(ctx context.Context) ([]model.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus) (model.Order, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	UpdateUserRole(ctx context.Context, id string, role model.Role) (model.User, error)
	DeleteUser(ctx context.Context, id string) error
}

type Service struct {
	remote Remote
	roles  policy.RoleSource
	log    logrus.FieldLogger

	orders    *state.Value[[]model.Order]
	ordersErr *state.Value[error]
	users     *state.Value[[]model.User]
	usersErr  *state.Value[error]
}

func NewService(remote Remote, roles policy.RoleSource, log logrus.FieldLogger) *Service {
	return &Service{
		remote:    remote,
		roles:     roles,
		log:       log.WithField("component", "oversight"),
		orders:    state.NewValue([]model.Order{}),
		ordersErr: state.NewValue[error](nil),
		users:     state.NewValue([]model.User{}),
		usersErr:  state.NewValue[error](nil),
	}
}

func (s *Service) Orders() *state.Value[[]model.Order] { return s.orders }
func (s *Service) OrdersErr() *state.Value[error] { return s.ordersErr }
func (s *Service) Users() *state.Value[[]model.User] { return s.users }
func (s *Service) UsersErr() *state.Value[error] { return s.usersErr }

// LoadOrders replaces the order snapshot, newest id first. ADMIN and MANAGER only.
func (s *Service) LoadOrders(ctx context.Context) error {
	role := s.roles.Role()
	if err := policy.Check(policy.CanViewOrders(role), "view orders", role); err != nil {
		s.ordersErr.Set(err)
		return err
	}

	tok := s.orders.Begin()
	list, err := s.remote.ListOrders(ctx)
	if !s.orders.Valid(tok) {
		return nil
	}
	if err != nil {
		err = fmt.Errorf("cannot load orders: %w", err)
		s.ordersErr.Set(err)
		s.log.WithError(err).Warn("load orders failed")
		return err
	}
	if list == nil {
		list = []model.Order{}
	}
	sortOrders(list)
	if s.orders.Apply(tok, list) {
		s.ordersErr.Set(nil)
	}
	return nil
}

// UpdateOrderStatus moves an order to any status, then reloads the orders.
func (s *Service) UpdateOrderStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	role := s.roles.Role()
	if err := policy.Check(policy.CanChangeOrderStatus(role), "change order status", role); err != nil {
		s.ordersErr.Set(err)
		return err
	}
	if _, err := model.ParseOrderStatus(string(status)); err != nil {
		err = apperr.Invalid("status", err.Error())
		s.ordersErr.Set(err)
		return err
	}

	if _, err := s.remote.UpdateOrderStatus(ctx, orderID, status); err != nil {
		err = fmt.Errorf("cannot update order %s: %w", orderID, err)
		s.ordersErr.Set(err)
		return err
	}
	s.log.WithFields(logrus.Fields{"order_id": orderID, "status": status}).Info("order status changed")
	return s.LoadOrders(ctx)
}

// LoadUsers replaces the user snapshot. ADMIN only.
func (s *Service) LoadUsers(ctx context.Context) error {
	role := s.roles.Role()
	if err := policy.Check(policy.CanManageUsers(role), "list users", role); err != nil {
		s.usersErr.Set(err)
		return err
	}

	tok := s.users.Begin()
	list, err := s.remote.ListUsers(ctx)
	if !s.users.Valid(tok) {
		return nil
	}
	if err != nil {
		err = fmt.Errorf("cannot load users: %w", err)
		s.usersErr.Set(err)
		s.log.WithError(err).Warn("load users failed")
		return err
	}
	if list == nil {
		list = []model.User{}
	}
	if s.users.Apply(tok, list) {
		s.usersErr.Set(nil)
	}
	return nil
}

// ChangeUserRole assigns USER, SELLER or MANAGER. ADMIN is never a valid target
// and ADMIN accounts cannot be re-roled; both are refused before any remote call.
func (s *Service) ChangeUserRole(ctx context.Context, userID string, target model.Role) error {
	actor := s.roles.Role()
	if err := policy.Check(policy.CanAssignRole(actor, target), "assign role "+target.String(), actor); err != nil {
		s.usersErr.Set(err)
		return err
	}
	if err := s.checkSubject(userID, actor, "change role of"); err != nil {
		return err
	}

	if _, err := s.remote.UpdateUserRole(ctx, userID, target); err != nil {
		err = fmt.Errorf("cannot change role of %s: %w", userID, err)
		s.usersErr.Set(err)
		return err
	}
	s.log.WithFields(logrus.Fields{"user_id": userID, "role": target}).Info("user role changed")
	return s.LoadUsers(ctx)
}

func (s *Service) DeleteUser(ctx context.Context, userID string) error {
	actor := s.roles.Role()
	if err := policy.Check(policy.CanManageUsers(actor), "delete user", actor); err != nil {
		s.usersErr.Set(err)
		return err
	}
	if err := s.checkSubject(userID, actor, "delete"); err != nil {
		return err
	}

	if err := s.remote.DeleteUser(ctx, userID); err != nil {
		err = fmt.Errorf("cannot delete user %s: %w", userID, err)
		s.usersErr.Set(err)
		return err
	}
	s.log.WithField("user_id", userID).Info("user deleted")
	return s.LoadUsers(ctx)
}

// DeletableUsers is the user snapshot without ADMIN accounts.
func (s *Service) DeletableUsers() []model.User {
	out := []model.User{}
	for _, u := range s.users.Get() {
		if u.Role != model.RoleAdmin {
			out = append(out, u)
		}
	}
	return out
}

// Reset empties both snapshots and discards in-flight loads.
func (s *Service) Reset() {
	s.orders.Reset([]model.Order{})
	s.users.Reset([]model.User{})
	s.ordersErr.Set(nil)
	s.usersErr.Set(nil)
}

// checkSubject requires the account to be in the loaded snapshot so its
// current role is known.
func (s *Service) checkSubject(userID string, actor model.Role, action string) error {
	for _, u := range s.users.Get() {
		if u.ID != userID {
			continue
		}
		err := policy.Check(policy.CanTouchUser(actor, u.Role), action+" "+u.Role.String()+" account", actor)
		if err != nil {
			s.usersErr.Set(err)
		}
		return err
	}
	err := apperr.Invalid("user", "not found: "+userID)
	s.usersErr.Set(err)
	return err
}

// sortOrders puts the highest id first; numeric ids compare numerically.
func sortOrders(list []model.Order) {
	sort.SliceStable(list, func(i, j int) bool {
		a, errA := strconv.ParseInt(list[i].ID, 10, 64)
		b, errB := strconv.ParseInt(list[j].ID, 10, 64)
		if errA == nil && errB == nil {
			return a > b
		}
		return list[i].ID > list[j].ID
	})
}
