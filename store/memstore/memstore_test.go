package memstore

import (
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/require"

	"github.com/erigontech/dhtstore/data"
	"github.com/erigontech/dhtstore/key"
	"github.com/erigontech/dhtstore/store"
)

func k(loc, dom, content, version byte) key.Number640 {
	return key.Number640{
		Location: key.Number160{loc},
		Domain:   key.Number160{dom},
		Content:  key.Number160{content},
		Version:  key.Number160{version},
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	s := New(nil)
	key1 := k(1, 2, 3, 0)
	status := s.Put(key1, data.Data{Payload: []byte("A")}, store.PutOptions{})
	require.Equal(t, store.OK, status)

	got, ok := s.GetOne(key1)
	require.True(t, ok)
	require.Equal(t, []byte("A"), got.Payload)
}

func TestPutIfAbsentIdempotence(t *testing.T) {
	s := New(nil)
	key1 := k(1, 2, 3, 0)
	require.Equal(t, store.OK, s.Put(key1, data.Data{Payload: []byte("B")}, store.PutOptions{PutIfAbsent: true}))
	require.Equal(t, store.FailedNotAbsent, s.Put(key1, data.Data{Payload: []byte("C")}, store.PutOptions{PutIfAbsent: true}))

	got, _ := s.GetOne(key1)
	require.Equal(t, []byte("B"), got.Payload)
}

func TestDomainProtectionRejectsWrongKey(t *testing.T) {
	s := New(nil)
	good, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	bad, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)

	bucket := key.Number320{Location: key.Number160{1}, Domain: key.Number160{2}}
	s.ProtectDomainWith(bucket, good.PubKey())

	key1 := k(1, 2, 3, 0)
	status := s.Put(key1, data.Data{Payload: []byte("x")}, store.PutOptions{PublicKey: bad.PubKey()})
	require.Equal(t, store.FailedSecurity, status)

	status = s.Put(key1, data.Data{Payload: []byte("x")}, store.PutOptions{PublicKey: good.PubKey()})
	require.Equal(t, store.OK, status)
}

func TestGetRangeDescendingWithLimit(t *testing.T) {
	s := New(nil)
	for _, c := range []byte{0x10, 0x20, 0x30, 0x40} {
		require.Equal(t, store.OK, s.Put(k(1, 2, c, 0), data.Data{Payload: []byte{c}}, store.PutOptions{}))
	}
	min := k(1, 2, 0x10, 0)
	max := k(1, 2, 0x40, 0)
	result := s.GetRange(min, max, 2, false)
	require.Equal(t, 2, result.Len())
	keys := result.Keys()
	require.Equal(t, byte(0x40), keys[0].Content[0])
	require.Equal(t, byte(0x30), keys[1].Content[0])
}

func TestGetRangeAscendingUnlimited(t *testing.T) {
	s := New(nil)
	for _, c := range []byte{0x10, 0x20, 0x30} {
		s.Put(k(1, 2, c, 0), data.Data{Payload: []byte{c}}, store.PutOptions{})
	}
	bucket := key.Number320{Location: key.Number160{1}, Domain: key.Number160{2}}
	result := s.GetRange(bucket.MinKey(), bucket.MaxKey(), -1, true)
	require.Equal(t, 3, result.Len())
	keys := result.Keys()
	require.Equal(t, byte(0x10), keys[0].Content[0])
	require.Equal(t, byte(0x30), keys[2].Content[0])
}

func TestRemoveOneAndEcho(t *testing.T) {
	s := New(nil)
	key1 := k(1, 2, 3, 0)
	s.Put(key1, data.Data{Payload: []byte("Z")}, store.PutOptions{})

	removed, ok := s.RemoveOne(key1, nil)
	require.True(t, ok)
	require.Equal(t, []byte("Z"), removed.Payload)

	_, ok = s.GetOne(key1)
	require.False(t, ok)
}

func TestDigestBloomBucketScopedReturnsTwoFields(t *testing.T) {
	s := New(nil)
	for _, c := range []byte{1, 2, 3} {
		s.Put(k(1, 2, c, 0), data.Data{Payload: []byte{c}}, store.PutOptions{})
	}
	bucket := key.Number320{Location: key.Number160{1}, Domain: key.Number160{2}}
	info := s.DigestRange(bucket.MinKey(), bucket.MaxKey(), nil, nil, -1, true, true)
	require.Len(t, info.ContentKeyBloomKeys, 3)
	require.Len(t, info.VersionKeyBloomKeys, 3)
	require.Nil(t, info.LocationKeyBloomKeys)
	require.Nil(t, info.DomainKeyBloomKeys)
}

func TestDigestCollectionGlobalReturnsFourFields(t *testing.T) {
	s := New(nil)
	key1 := k(1, 2, 3, 0)
	s.Put(key1, data.Data{Payload: []byte("a")}, store.PutOptions{})

	info := s.Digest(data.KeyCollection{key1}, true)
	require.Len(t, info.ContentKeyBloomKeys, 1)
	require.Len(t, info.LocationKeyBloomKeys, 1)
	require.Len(t, info.DomainKeyBloomKeys, 1)
}

func TestVersionConflictRejectsMismatchedCAS(t *testing.T) {
	s := New(nil)
	key1 := k(1, 2, 3, 0)
	s.Put(key1, data.Data{Payload: []byte("v0")}, store.PutOptions{})

	wrongVersion := key.Number160{0x99}
	status := s.Put(key1, data.Data{Payload: []byte("v1")}, store.PutOptions{CompareVersion: &wrongVersion})
	require.Equal(t, store.FailedVersionConflict, status)
}
