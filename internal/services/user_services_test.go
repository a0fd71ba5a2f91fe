package services

import (
	"context"
	"testing"

	"github.com/estaidesoriginal/biblioteca-G/internal/apperr"
	"github.com/estaidesoriginal/biblioteca-G/internal/model"
	"github.com/estaidesoriginal/biblioteca-G/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededUsers() *fakeUsers {
	return newFakeUsers(
		repository.UserRecord{User: model.User{ID: "u1", Name: "Root", Email: "root@x.cl", Role: model.RoleAdmin}},
		repository.UserRecord{User: model.User{ID: "u2", Name: "Bea", Email: "bea@x.cl", Role: model.RoleUser}},
	)
}

var admin = Caller{UserID: "u1", Role: model.RoleAdmin}

func TestUserListRequiresAdmin(t *testing.T) {
	s := NewUserService(seededUsers(), quiet())

	_, err := s.List(context.Background(), Caller{UserID: "m", Role: model.RoleManager})
	assert.ErrorIs(t, err, apperr.ErrAuthorizationDenied)

	list, err := s.List(context.Background(), admin)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestChangeRoleNeverGrantsAdmin(t *testing.T) {
	users := seededUsers()
	s := NewUserService(users, quiet())

	_, err := s.ChangeRole(context.Background(), admin, "u2", model.RoleAdmin)
	assert.ErrorIs(t, err, apperr.ErrAuthorizationDenied)
	assert.Empty(t, users.calls)
}

func TestChangeRole(t *testing.T) {
	users := seededUsers()
	s := NewUserService(users, quiet())

	u, err := s.ChangeRole(context.Background(), admin, "u2", model.RoleSeller)
	require.NoError(t, err)
	assert.Equal(t, model.RoleSeller, u.Role)
	assert.Equal(t, model.RoleSeller, users.byID["u2"].Role)

	_, err = s.ChangeRole(context.Background(), admin, "nobody", model.RoleSeller)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAdminAccountsCannotBeTouched(t *testing.T) {
	users := seededUsers()
	s := NewUserService(users, quiet())

	_, err := s.ChangeRole(context.Background(), admin, "u1", model.RoleUser)
	assert.ErrorIs(t, err, apperr.ErrAuthorizationDenied)
	assert.ErrorIs(t, s.Delete(context.Background(), admin, "u1"), apperr.ErrAuthorizationDenied)
	assert.NotContains(t, users.calls, "update role")
	assert.NotContains(t, users.calls, "delete")
}

func TestDeleteUser(t *testing.T) {
	users := seededUsers()
	s := NewUserService(users, quiet())

	assert.ErrorIs(t, s.Delete(context.Background(), Caller{Role: model.RoleSeller}, "u2"), apperr.ErrAuthorizationDenied)
	require.NoError(t, s.Delete(context.Background(), admin, "u2"))
	assert.NotContains(t, users.byID, "u2")
}
