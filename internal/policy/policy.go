// Package policy is the role-based authorization table. Every function is pure:
// callers pass the live role snapshot and must re-evaluate on every attempt.
package policy

import (
	"github.com/estaidesoriginal/biblioteca-G/internal/apperr"
	"github.com/estaidesoriginal/biblioteca-G/internal/model"
)

// RoleSource yields the live role snapshot. The session manager implements it.
type RoleSource interface {
	Role() model.Role
}

type Resource int

const (
	Game Resource = iota
	Product
	Order
	User
)

type Action int

const (
	Create Action = iota
	Edit
	Delete
	SetProtection
	Purchase
	View
	ChangeStatus
	ChangeRole
)

// Allowed is the full decision table. protection is only read for Game.
func Allowed(role model.Role, res Resource, act Action, protection model.Protection) bool {
	switch res {
	case Game:
		switch act {
		case Create:
			return role.Authenticated()
		case Edit, Delete:
			if protection == model.Protected {
				return role == model.RoleAdmin
			}
			return role.Authenticated()
		case SetProtection:
			return role == model.RoleAdmin
		case View:
			return true
		}
	case Product:
		switch act {
		case Create, Edit, Delete:
			return role == model.RoleAdmin || role == model.RoleSeller
		case Purchase:
			return role != model.RoleManager
		case View:
			return true
		}
	case Order:
		switch act {
		case View, ChangeStatus:
			return role == model.RoleAdmin || role == model.RoleManager
		}
	case User:
		switch act {
		case View, Delete, ChangeRole:
			return role == model.RoleAdmin
		}
	}
	return false
}

func CanCreateGame(role model.Role, p model.Protection) bool {
	if p == model.Protected {
		return Allowed(role, Game, SetProtection, p)
	}
	return Allowed(role, Game, Create, p)
}

func CanEditGame(role model.Role, p model.Protection) bool {
	return Allowed(role, Game, Edit, p)
}

func CanDeleteGame(role model.Role, p model.Protection) bool {
	return Allowed(role, Game, Delete, p)
}

func CanSetProtection(role model.Role) bool {
	return Allowed(role, Game, SetProtection, model.Public)
}

func CanManageProducts(role model.Role) bool {
	return Allowed(role, Product, Edit, model.Public)
}

func CanAddToCart(role model.Role) bool {
	return Allowed(role, Product, Purchase, model.Public)
}

func CanViewOrders(role model.Role) bool {
	return Allowed(role, Order, View, model.Public)
}

func CanChangeOrderStatus(role model.Role) bool {
	return Allowed(role, Order, ChangeStatus, model.Public)
}

func CanManageUsers(role model.Role) bool {
	return Allowed(role, User, View, model.Public)
}

// AssignableRoles are the only targets of a role change. ADMIN is never among them.
var AssignableRoles = []model.Role{model.RoleUser, model.RoleSeller, model.RoleManager}

// CanAssignRole checks both the actor and the requested target role.
func CanAssignRole(actor, target model.Role) bool {
	if !Allowed(actor, User, ChangeRole, model.Public) {
		return false
	}
	for _, r := range AssignableRoles {
		if r == target {
			return true
		}
	}
	return false
}

// CanTouchUser reports whether actor may delete or re-role an account that
// currently holds subject. ADMIN accounts are untouchable.
func CanTouchUser(actor, subject model.Role) bool {
	return actor == model.RoleAdmin && subject != model.RoleAdmin
}

// Check returns a wrapped ErrAuthorizationDenied when ok is false.
func Check(ok bool, action string, role model.Role) error {
	if ok {
		return nil
	}
	return apperr.Denied("%s as %s", action, role)
}
