package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewError(t *testing.T) {
	e := NewError(ErrMessageContentTooLong)
	assert.Equal(t, ErrMessageContentTooLong, e.Code)
	assert.Equal(t, http.StatusBadRequest, e.Status)
	assert.Equal(t, "Message is too long.", e.Message)

	unknown := NewError(424242)
	assert.Equal(t, ErrUnknown, unknown.Code)
	assert.Equal(t, http.StatusInternalServerError, unknown.Status)
}

func TestNewErrorReturnsCopies(t *testing.T) {
	a := NewError(ErrForbidden)
	a.Message = "changed"

	assert.Equal(t, "Forbidden: insufficient permissions.", NewError(ErrForbidden).Message)
}

func TestErrorsIsComparesCodes(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", NewError(ErrUnauthorized))

	assert.True(t, errors.Is(wrapped, NewError(ErrUnauthorized)))
	assert.False(t, errors.Is(wrapped, NewError(ErrForbidden)))
}

func TestEveryCodeHasStatus(t *testing.T) {
	for code, e := range errorMap {
		assert.Equal(t, code, e.Code)
		assert.NotZero(t, e.Status, "code %d", code)
		assert.NotEmpty(t, e.Message, "code %d", code)
	}
}
