package policy

import (
	"errors"
	"testing"

	"github.com/estaidesoriginal/biblioteca-G/internal/apperr"
	"github.com/estaidesoriginal/biblioteca-G/internal/model"

	"github.com/stretchr/testify/assert"
)

var allRoles = []model.Role{model.RoleGuest, model.RoleUser, model.RoleSeller, model.RoleManager, model.RoleAdmin}

func TestGameEditDelete(t *testing.T) {
	cases := []struct {
		role      model.Role
		prot      model.Protection
		permitted bool
	}{
		{model.RoleGuest, model.Public, false},
		{model.RoleUser, model.Public, true},
		{model.RoleSeller, model.Public, true},
		{model.RoleManager, model.Public, true},
		{model.RoleAdmin, model.Public, true},
		{model.RoleGuest, model.Protected, false},
		{model.RoleUser, model.Protected, false},
		{model.RoleSeller, model.Protected, false},
		{model.RoleManager, model.Protected, false},
		{model.RoleAdmin, model.Protected, true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.permitted, CanEditGame(tc.role, tc.prot), "edit %s %s", tc.role, tc.prot)
		assert.Equal(t, tc.permitted, CanDeleteGame(tc.role, tc.prot), "delete %s %s", tc.role, tc.prot)
	}
}

func TestSetProtectionAdminOnly(t *testing.T) {
	for _, r := range allRoles {
		assert.Equal(t, r == model.RoleAdmin, CanSetProtection(r), r.String())
	}
	assert.False(t, CanCreateGame(model.RoleUser, model.Protected))
	assert.True(t, CanCreateGame(model.RoleUser, model.Public))
	assert.False(t, CanCreateGame(model.RoleGuest, model.Public))
}

func TestProducts(t *testing.T) {
	for _, r := range allRoles {
		manage := r == model.RoleAdmin || r == model.RoleSeller
		assert.Equal(t, manage, CanManageProducts(r), "manage %s", r)
		assert.Equal(t, r != model.RoleManager, CanAddToCart(r), "purchase %s", r)
	}
}

func TestOrdersAndUsers(t *testing.T) {
	for _, r := range allRoles {
		orders := r == model.RoleAdmin || r == model.RoleManager
		assert.Equal(t, orders, CanViewOrders(r), r.String())
		assert.Equal(t, orders, CanChangeOrderStatus(r), r.String())
		assert.Equal(t, r == model.RoleAdmin, CanManageUsers(r), r.String())
	}
	assert.True(t, CanViewOrders(model.RoleManager))
	assert.False(t, CanAddToCart(model.RoleManager))
}

func TestAssignRole(t *testing.T) {
	assert.True(t, CanAssignRole(model.RoleAdmin, model.RoleSeller))
	assert.True(t, CanAssignRole(model.RoleAdmin, model.RoleManager))
	assert.True(t, CanAssignRole(model.RoleAdmin, model.RoleUser))
	assert.False(t, CanAssignRole(model.RoleAdmin, model.RoleAdmin))
	assert.False(t, CanAssignRole(model.RoleAdmin, model.RoleGuest))
	assert.False(t, CanAssignRole(model.RoleManager, model.RoleUser))

	assert.True(t, CanTouchUser(model.RoleAdmin, model.RoleUser))
	assert.False(t, CanTouchUser(model.RoleAdmin, model.RoleAdmin))
	assert.False(t, CanTouchUser(model.RoleManager, model.RoleUser))
}

func TestCheck(t *testing.T) {
	assert.NoError(t, Check(true, "edit game", model.RoleAdmin))
	err := Check(false, "edit game", model.RoleUser)
	assert.True(t, errors.Is(err, apperr.ErrAuthorizationDenied))
	assert.Contains(t, err.Error(), "USER")
}
