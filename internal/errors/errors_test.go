package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvalidEncodingError(t *testing.T) {
	err := NewInvalidEncodingError("bogus")

	assert.Equal(t, "Invalid encoding: bogus", err.Error())
	assert.Equal(t, "bogus", err.Encoding())
}

func TestBadArchiveError(t *testing.T) {
	cause := errors.New("zip: not a valid zip file")
	var err error = NewBadArchiveError("bad.zip", cause)

	assert.Equal(t, "Bad zip file: bad.zip", err.Error())
	assert.ErrorIs(t, err, cause)

	var bae *BadArchiveError
	assert.True(t, errors.As(err, &bae))
	assert.Equal(t, "bad.zip", bae.Filename())
}

func TestValidationErrorf(t *testing.T) {
	err := NewValidationErrorf("invalid json body: %s", "unexpected EOF")

	assert.Equal(t, "invalid json body: unexpected EOF", err.Error())
}
