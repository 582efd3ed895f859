package application

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	err := error(&ValidationError{Fields: map[string]string{"price": "must not be negative", "name": "is required"}})
	require.ErrorIs(t, err, ErrValidation)
	require.Equal(t, "validation failed: name is required; price must not be negative", err.Error())

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	require.Len(t, ve.Fields, 2)
}

func TestWrappedErrorsKeepBothCauses(t *testing.T) {
	cause := errors.New("disk full")
	err := storageErr("insert product", cause)
	require.ErrorIs(t, err, ErrStorage)
	require.ErrorIs(t, err, cause)

	err = upstreamErr("create order", cause)
	require.ErrorIs(t, err, ErrUpstream)
	require.ErrorIs(t, err, cause)
}
