package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKernelErrorUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := NewKernelError(ErrorTypeLoad, "load_dir", cause).WithPath("/manifests")

	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "/manifests")
	require.Contains(t, err.Error(), "load_dir")
}

func TestMultiErrorFiltersNil(t *testing.T) {
	err := NewMultiError([]error{nil, errors.New("a"), nil, errors.New("b")})
	require.Error(t, err)
	require.Contains(t, err.Error(), "2 errors")
}

func TestMultiErrorEmptyIsNil(t *testing.T) {
	require.NoError(t, NewMultiError(nil))
	require.NoError(t, NewMultiError([]error{nil, nil}))
}

func TestMultiErrorSingleUnwrapsDirectly(t *testing.T) {
	cause := errors.New("only one")
	err := NewMultiError([]error{cause})
	require.Equal(t, "only one", err.Error())
}
