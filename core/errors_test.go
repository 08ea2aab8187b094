package core

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounterNotFoundError(t *testing.T) {
	err := NewCounterNotFound("missing")
	assert.Equal(t, "Counter 'missing' not found", err.Error())
	assert.True(t, errors.Is(err, ErrCounterNotFound))
	assert.False(t, errors.Is(err, ErrIO))

	var target *CounterNotFoundError
	wrapped := fmt.Errorf("increment: %w", err)
	if assert.True(t, errors.As(wrapped, &target)) {
		assert.Equal(t, "missing", target.Name)
	}
}

func TestIOError(t *testing.T) {
	err := NewIOError("read input", io.EOF)
	assert.Equal(t, "read input: EOF", err.Error())
	assert.True(t, errors.Is(err, ErrIO))
	assert.True(t, errors.Is(err, io.EOF))
	assert.False(t, errors.Is(err, ErrCounterNotFound))
}
