package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestHTTPStatus(t *testing.T) {
	cases := map[*Error]int{
		Validation("bad"):                        400,
		InvalidTransition("received", "pending"): 400,
		Authentication("no"):                     401,
		Authorization("no"):                      403,
		NotFound("product"):                      404,
		InsufficientStock("Tea", 1, 2):           409,
		Internal(errors.New("boom")):             500,
	}
	for err, status := range cases {
		assert.Equal(t, status, err.HTTPStatus(), err.Message)
	}
}

func TestFromDB(t *testing.T) {
	assert.Nil(t, FromDB(nil, "product"))
	assert.Equal(t, KindNotFound, KindOf(FromDB(gorm.ErrRecordNotFound, "product")))
	assert.Equal(t, KindNotFound, KindOf(FromDB(fmt.Errorf("lookup: %w", gorm.ErrRecordNotFound), "product")))

	dup := FromDB(gorm.ErrDuplicatedKey, "product")
	assert.Equal(t, KindValidation, KindOf(dup))
	assert.Equal(t, "product already exists", dup.Error())

	assert.Equal(t, KindInternal, KindOf(FromDB(errors.New("connection reset"), "product")))

	original := InsufficientStock("Tea", 1, 5)
	assert.Same(t, original, FromDB(fmt.Errorf("tx: %w", original), "product"))
}

func TestKindOfUntypedError(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.Equal(t, KindAuthorization, KindOf(fmt.Errorf("wrapped: %w", Authorization("no"))))
}
