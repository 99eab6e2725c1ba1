package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"go-pos-inventory/internal/model"
)

func TestAuthorize(t *testing.T) {
	cashier := &Identity{UserID: uuid.New(), Role: model.RoleCashier}
	manager := &Identity{UserID: uuid.New(), Role: model.RoleManager}
	admin := &Identity{UserID: uuid.New(), Role: model.RoleAdmin}

	assert.Equal(t, Unauthenticated, Authorize(nil))
	assert.Equal(t, Unauthenticated, Authorize(&Identity{Role: model.RoleAdmin}, model.RoleAdmin))

	assert.Equal(t, Allowed, Authorize(cashier))
	assert.Equal(t, Forbidden, Authorize(cashier, model.RoleManager))
	assert.Equal(t, Allowed, Authorize(manager, model.RoleManager, model.RoleCashier))
	assert.Equal(t, Forbidden, Authorize(manager, model.RoleAdmin))
	assert.Equal(t, Allowed, Authorize(admin, model.RoleManager))

	assert.True(t, Allowed.Allowed())
	assert.False(t, Forbidden.Allowed())
}
