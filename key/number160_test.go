package key

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNumber160Ordering(t *testing.T) {
	a := Number160{0x01}
	b := Number160{0x02}
	require.Equal(t, -1, a.Cmp(b))
	require.Equal(t, 1, b.Cmp(a))
	require.Equal(t, 0, a.Cmp(a))
	require.True(t, a.Less(b))
	require.False(t, b.Less(a))
}

func TestNumber160ZeroAndMax(t *testing.T) {
	require.True(t, Zero.IsZero())
	require.False(t, MaxValue.IsZero())
	require.Equal(t, -1, Zero.Cmp(MaxValue))
	for _, by := range MaxValue {
		require.Equal(t, byte(0xff), by)
	}
}

func TestNumber160FromBytesRejectsWrongLength(t *testing.T) {
	_, err := Number160FromBytes([]byte{1, 2, 3})
	require.Error(t, err)

	n, err := Number160FromBytes(make([]byte, Number160Bytes))
	require.NoError(t, err)
	require.True(t, n.IsZero())
}

func TestHashContentDeterministic(t *testing.T) {
	h1 := HashContent([]byte("hello"))
	h2 := HashContent([]byte("hello"))
	h3 := HashContent([]byte("world"))
	require.Equal(t, h1, h2)
	require.NotEqual(t, h1, h3)
}

func TestRandomNumber160Unique(t *testing.T) {
	a, err := RandomNumber160()
	require.NoError(t, err)
	b, err := RandomNumber160()
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}
