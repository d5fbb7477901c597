package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	e1 := New("cause1")
	e2 := New("cause2").Wrap(e1)
	e := New("dummy").Wrap(e2)
	e3 := e.Unwrap()
	assert.True(t, Is(e, e1))
	assert.True(t, Is(e, e2))
	assert.True(t, e3 == e2)
}

func TestWrapKeepsSentinel(t *testing.T) {
	sentinel := New("not found")
	cause := fmt.Errorf("disk on fire")

	wrapped := sentinel.Wrap(cause)
	assert.True(t, Is(wrapped, sentinel))
	assert.True(t, Is(wrapped, cause))
	assert.Nil(t, sentinel.Unwrap(), "sentinel must not be mutated")
	assert.Equal(t, "not found: disk on fire", wrapped.Error())
	assert.Equal(t, "not found", sentinel.Error())

	other := New("not found")
	assert.False(t, Is(wrapped, other), "same message is not the same sentinel")
}

func TestWrapf(t *testing.T) {
	sentinel := New("unknown grade")
	err := fmt.Errorf("config: %w", sentinel.Wrapf("label %q", "U42"))
	assert.True(t, Is(err, sentinel))
	assert.Contains(t, err.Error(), `label "U42"`)

	var target *Error
	assert.True(t, As(err, &target))
	assert.True(t, target.Is(sentinel))
}
