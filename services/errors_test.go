package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPersistenceErrorWrapsCause(t *testing.T) {
	cause := errors.New("disk I/O error")
	err := persistence("list waitlist", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "list waitlist: disk I/O error", err.Error())
	assert.Same(t, err, persistence("outer", err))
	assert.Nil(t, persistence("noop", nil))
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "restaurant not found", (&NotFoundError{Resource: "restaurant"}).Error())
	assert.Equal(t, "unauthorized", (&UnauthorizedError{}).Error())
	assert.Equal(t, "forbidden", (&ForbiddenError{}).Error())
}
