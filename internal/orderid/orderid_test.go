package orderid_test

import (
	"testing"

	"github.com/merkulovlad/orderflow/internal/orderid"
	"github.com/stretchr/testify/require"
)

func TestNormalize_PadsAndPrefixes(t *testing.T) {
	got, err := orderid.Normalize("a")
	require.NoError(t, err)
	require.Equal(t, "ORD-000A", got)
}

func TestNormalize_AlreadyPrefixed(t *testing.T) {
	got, err := orderid.Normalize("ord-00ab")
	require.NoError(t, err)
	require.Equal(t, "ORD-00AB", got)
}

func TestNormalize_LongerThanMinWidthUnchanged(t *testing.T) {
	got, err := orderid.Normalize("deadbeef")
	require.NoError(t, err)
	require.Equal(t, "ORD-DEADBEEF", got)
}

func TestNormalize_Idempotent(t *testing.T) {
	first, err := orderid.Normalize("f")
	require.NoError(t, err)
	second, err := orderid.Normalize(first)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestNormalize_RejectsEmpty(t *testing.T) {
	_, err := orderid.Normalize("   ")
	require.ErrorIs(t, err, orderid.ErrEmpty)
}

func TestNormalize_RejectsNonHex(t *testing.T) {
	_, err := orderid.Normalize("zzzz")
	require.ErrorIs(t, err, orderid.ErrNotHex)
}
