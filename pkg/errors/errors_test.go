package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	err := New(ErrConfigValid, "bad config")
	assert.Equal(t, "[CONFIG_INVALID] bad config", err.Error())
	assert.Equal(t, ErrConfigValid, err.Code)
}

func TestWrap(t *testing.T) {
	inner := fmt.Errorf("file missing")
	err := Wrap(inner, ErrConfigLoad, "failed to load sync config")
	assert.Equal(t, "[CONFIG_LOAD] failed to load sync config: file missing", err.Error())
	assert.Equal(t, inner, stderrors.Unwrap(err))
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrConfigLoad, "ignored"))
	assert.Nil(t, Wrapf(nil, ErrConfigLoad, "ignored %d", 1))
}

func TestIsErrorCode(t *testing.T) {
	err := Newf(ErrLookupNotFound, "package %s not in AUR", "foo")
	assert.True(t, IsErrorCode(err, ErrLookupNotFound))
	assert.False(t, IsErrorCode(err, ErrLookupFailed))

	wrapped := fmt.Errorf("outer: %w", err)
	assert.True(t, IsErrorCode(wrapped, ErrLookupNotFound))
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, ErrCommandFailed, GetErrorCode(New(ErrCommandFailed, "aur failed")))
	assert.Equal(t, ErrUnknown, GetErrorCode(fmt.Errorf("plain")))
}

func TestWithDetail(t *testing.T) {
	err := New(ErrCommandFailed, "aur depends failed").
		WithDetail("exitCode", 1).
		WithDetail("stderr", "boom")
	assert.Equal(t, 1, err.Details["exitCode"])
	assert.Equal(t, "boom", err.Details["stderr"])
}

func TestErrorsIs(t *testing.T) {
	a := New(ErrConfigParse, "one")
	b := New(ErrConfigParse, "two")
	assert.True(t, stderrors.Is(a, b))

	c := New(ErrConfigLoad, "three")
	assert.False(t, stderrors.Is(a, c))
}
