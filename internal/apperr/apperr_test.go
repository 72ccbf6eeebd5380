package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvalid(t *testing.T) {
	err := Invalid("la categoría %q no existe", "autoclave")
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, `la categoría "autoclave" no existe`, err.Error())

	wrapped := fmt.Errorf("crear producto: %w", err)
	assert.ErrorIs(t, wrapped, ErrValidation)
}

func TestNotFound(t *testing.T) {
	err := NotFound("producto")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "producto no encontrado", err.Error())
}
