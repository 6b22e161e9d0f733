package fault

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrap_Error(t *testing.T) {
	tests := []struct {
		name     string
		kind     error
		context  string
		cause    error
		expected string
	}{
		{
			name:     "with cause",
			kind:     InvalidInput,
			context:  "empty triangle list",
			cause:    errors.New("len(triangles) == 0"),
			expected: "accelstruct: invalid input: empty triangle list: len(triangles) == 0",
		},
		{
			name:     "without cause",
			kind:     InvariantViolation,
			context:  "node count mismatch: got 3 want 4",
			cause:    nil,
			expected: "accelstruct: invariant violation: node count mismatch: got 3 want 4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Wrap(tt.kind, tt.context, tt.cause)
			require.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestWrap_IsSentinel(t *testing.T) {
	tests := []struct {
		name string
		kind error
	}{
		{name: "invalid input", kind: InvalidInput},
		{name: "allocation failure", kind: AllocationFailure},
		{name: "invariant violation", kind: InvariantViolation},
		{name: "io failure", kind: IoFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Wrap(tt.kind, "context", errors.New("cause"))
			require.True(t, errors.Is(err, tt.kind))
			require.False(t, errors.Is(err, InvalidInput) && tt.kind != InvalidInput)
		})
	}
}

func TestWrap_UnwrapsCause(t *testing.T) {
	cause := errors.New("short read: got 4 want 16")
	err := Wrap(IoFailure, "deserializing header", cause)

	require.True(t, errors.Is(err, IoFailure))
	require.True(t, errors.Is(err, cause))
}

func TestWrap_NilCause(t *testing.T) {
	err := Wrap(AllocationFailure, "device out of memory", nil)
	require.True(t, errors.Is(err, AllocationFailure))
}
