package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	Configure("test-secret", time.Hour)
	id := uuid.New()

	token, err := GenerateToken(id, "jane", "jane@example.com", "Jane", "cashier", "v1")
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)
	assert.Equal(t, "cashier", claims.Role)
	assert.Equal(t, "v1", claims.TokenVersion)
}

func TestValidateRejectsTamperedAndMissing(t *testing.T) {
	Configure("test-secret", time.Hour)
	token, err := GenerateToken(uuid.New(), "jane", "jane@example.com", "Jane", "admin", "v1")
	require.NoError(t, err)

	Configure("another-secret", time.Hour)
	_, err = ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ValidateToken("")
	assert.ErrorIs(t, err, ErrMissingToken)
}
