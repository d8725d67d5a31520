package key

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNumber640LexicographicOrder(t *testing.T) {
	loc := Number160{0x01}
	dom := Number160{0x02}
	k1 := Number640{Location: loc, Domain: dom, Content: Number160{0x10}, Version: Zero}
	k2 := Number640{Location: loc, Domain: dom, Content: Number160{0x20}, Version: Zero}
	k3 := Number640{Location: loc, Domain: dom, Content: Number160{0x20}, Version: Number160{0x01}}

	require.True(t, k1.Less(k2))
	require.True(t, k2.Less(k3))
	require.True(t, k1.Between(k1, k3))
	require.False(t, k3.Between(k1, k2))

	keys := []Number640{k3, k1, k2}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	require.Equal(t, []Number640{k1, k2, k3}, keys)
}

func TestNumber320Bucket(t *testing.T) {
	loc := Number160{0x05}
	dom := Number160{0x06}
	k := Number640{Location: loc, Domain: dom, Content: Number160{0x07}, Version: Number160{0x08}}
	require.Equal(t, Number320{Location: loc, Domain: dom}, k.Bucket())

	b := Number320{Location: loc, Domain: dom}
	require.Equal(t, Zero, b.MinKey().Content)
	require.Equal(t, MaxValue, b.MaxKey().Content)
}

func TestNumber480Projection(t *testing.T) {
	k := Number640{
		Location: Number160{0x01},
		Domain:   Number160{0x02},
		Content:  Number160{0x03},
		Version:  Number160{0x04},
	}
	n480 := k.ToNumber480()
	require.Equal(t, k.Location, n480.Location)
	require.Equal(t, k.Domain, n480.Domain)
	require.Equal(t, k.Content, n480.Content)
}
