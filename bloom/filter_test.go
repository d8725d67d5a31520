package bloom

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erigontech/dhtstore/key"
)

func TestFilterNoFalseNegatives(t *testing.T) {
	f, err := NewFilter(8, 0.05)
	require.NoError(t, err)

	members := []key.Number160{
		{0x01}, {0x02}, {0x03}, {0x04},
	}
	for _, m := range members {
		f.Add(m)
	}
	for _, m := range members {
		require.True(t, f.Contains(m), "bloom filters must never produce false negatives")
	}
}

func TestFactoryBuildsFromKeySet(t *testing.T) {
	factory := NewFactory(0.01)
	keys := []key.Number160{{0x0a}, {0x0b}, {0x0c}}
	filter, err := factory.BuildFor(keys)
	require.NoError(t, err)
	for _, k := range keys {
		require.True(t, filter.Contains(k))
	}
}

func TestNilFilterContainsIsFalse(t *testing.T) {
	var f *Filter
	require.False(t, f.Contains(key.Number160{0x01}))
}
