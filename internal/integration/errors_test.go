package integration

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKind_String(t *testing.T) {
	assert.Equal(t, "Resolution", KindResolution.String())
	assert.Equal(t, "NotFound", KindNotFound.String())
	assert.Equal(t, "Incompatible", KindIncompatible.String())
	assert.Equal(t, "Transform", KindTransform.String())
	assert.Equal(t, "Serialization", KindSerialization.String())
	assert.Equal(t, "ErrorKind(0)", ErrorKind(0).String())
	assert.Equal(t, "ErrorKind(9)", ErrorKind(9).String())
}

func TestError(t *testing.T) {
	cause := errors.New("cause")
	err := newError(KindSerialization, "a.B", "foo()V", cause)

	assert.Equal(t, "method integration failed: Serialization error for a.B.foo()V: cause", err.Error())
	assert.Equal(t, "method integration failed: Resolution error for a.B", newError(KindResolution, "a.B", "", nil).Error())

	wrapped := fmt.Errorf("apply: %w", err)
	assert.ErrorIs(t, wrapped, ErrIntegrationFailed)
	assert.ErrorIs(t, wrapped, cause)
	assert.ErrorIs(t, wrapped, &Error{Kind: KindSerialization})
	assert.NotErrorIs(t, wrapped, &Error{Kind: KindTransform})
	assert.NotErrorIs(t, wrapped, &Error{Kind: KindSerialization, Class: "x.Y"})
	assert.Equal(t, KindSerialization, KindOf(wrapped))
	assert.Equal(t, ErrorKind(0), KindOf(cause))
	assert.Equal(t, ErrorKind(0), KindOf(nil))
}
