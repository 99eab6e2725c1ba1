package service

import (
	"testing"

	"go-pos-inventory/internal/apperr"
	"go-pos-inventory/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	env := newTestEnv(t)

	user, err := env.userSvc.CreateUser(&CreateUserRequest{
		Username: "kasir1",
		Email:    "Kasir1@Pos.Local",
		Password: "secret123",
		FullName: "Kasir Satu",
		Role:     model.RoleCashier,
	}, env.admin)
	require.NoError(t, err)
	assert.Equal(t, "kasir1@pos.local", user.Email)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "secret123", user.Password)

	_, err = env.userSvc.CreateUser(&CreateUserRequest{
		Username: "kasir2", Email: "kasir1@pos.local", Password: "secret123", FullName: "Dup", Role: model.RoleCashier,
	}, env.admin)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = env.userSvc.CreateUser(&CreateUserRequest{
		Username: "kasir1", Email: "other@pos.local", Password: "secret123", FullName: "Dup", Role: model.RoleCashier,
	}, env.admin)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = env.userSvc.CreateUser(&CreateUserRequest{
		Username: "boss", Email: "boss@pos.local", Password: "secret123", FullName: "Boss", Role: "owner",
	}, env.admin)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestUpdateAndDeleteUser(t *testing.T) {
	env := newTestEnv(t)
	user, err := env.userSvc.CreateUser(&CreateUserRequest{
		Username: "mgr", Email: "mgr@pos.local", Password: "secret123", FullName: "Manager", Role: model.RoleCashier,
	}, env.admin)
	require.NoError(t, err)

	inactive := false
	updated, err := env.userSvc.UpdateUser(user.ID, &UpdateUserRequest{
		Username: "mgr", Email: "mgr@pos.local", FullName: "Manager", Role: model.RoleManager, IsActive: &inactive,
	}, env.admin)
	require.NoError(t, err)
	assert.Equal(t, model.RoleManager, updated.Role)
	assert.False(t, updated.IsActive)

	_, err = env.userSvc.UpdateUser(env.admin.UserID, &UpdateUserRequest{
		Username: "admin", Email: "admin@pos.local", FullName: "Admin", Role: model.RoleCashier,
	}, env.admin)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	assert.Equal(t, apperr.KindValidation, apperr.KindOf(env.userSvc.DeleteUser(env.admin.UserID, env.admin)))
	require.NoError(t, env.userSvc.DeleteUser(user.ID, env.admin))

	_, err = env.userSvc.GetUserByID(user.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	users, err := env.userSvc.GetAllUsers()
	require.NoError(t, err)
	assert.Len(t, users, 1)
	assert.Len(t, env.userSvc.GetRoles(), 3)
}
