package statusmachine_test

import (
	"testing"

	"github.com/merkulovlad/orderflow/internal/statusmachine"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestFirstWrite_AcceptsAnyKnownStatus(t *testing.T) {
	for _, s := range []string{"NEW", "CONFIRMED", "DISPATCHED", "COMPLETED", "CANCELED"} {
		require.True(t, statusmachine.IsValidTransition(nil, s), s)
	}
}

func TestFirstWrite_RejectsUnknownStatus(t *testing.T) {
	require.False(t, statusmachine.IsValidTransition(nil, "BOGUS"))
}

func TestSameStatus_IsRejected(t *testing.T) {
	require.False(t, statusmachine.IsValidTransition(ptr("NEW"), "NEW"))
	require.False(t, statusmachine.IsValidTransition(ptr("new"), "NEW"))
}

func TestSequentialProgression(t *testing.T) {
	require.True(t, statusmachine.IsValidTransition(ptr("NEW"), "CONFIRMED"))
	require.True(t, statusmachine.IsValidTransition(ptr("CONFIRMED"), "DISPATCHED"))
	require.True(t, statusmachine.IsValidTransition(ptr("DISPATCHED"), "COMPLETED"))
}

func TestSkippingIsRejected(t *testing.T) {
	require.False(t, statusmachine.IsValidTransition(ptr("NEW"), "DISPATCHED"))
	require.False(t, statusmachine.IsValidTransition(ptr("NEW"), "COMPLETED"))
}

func TestCancelFromNonTerminal(t *testing.T) {
	require.True(t, statusmachine.IsValidTransition(ptr("NEW"), "CANCELED"))
	require.True(t, statusmachine.IsValidTransition(ptr("CONFIRMED"), "CANCELED"))
	require.True(t, statusmachine.IsValidTransition(ptr("DISPATCHED"), "CANCELED"))
	require.True(t, statusmachine.IsValidTransition(ptr("NEW"), "CANCELLED"))
}

func TestCancelFromTerminalIsRejected(t *testing.T) {
	require.False(t, statusmachine.IsValidTransition(ptr("COMPLETED"), "CANCELED"))
	require.False(t, statusmachine.IsValidTransition(ptr("CANCELED"), "DISPATCHED"))
	require.False(t, statusmachine.IsValidTransition(ptr("CANCELED"), "CANCELED"))
}

func TestTerminalStatesNeverTransitionFurther(t *testing.T) {
	require.False(t, statusmachine.IsValidTransition(ptr("COMPLETED"), "CONFIRMED"))
	require.False(t, statusmachine.IsValidTransition(ptr("COMPLETED"), "NEW"))
}

func TestUnknownCurrentStatusIsRejected(t *testing.T) {
	require.False(t, statusmachine.IsValidTransition(ptr("BOGUS"), "CONFIRMED"))
}
