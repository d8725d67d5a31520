// Copyright 2024 The Erigon Authors
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Erigon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Erigon. If not, see <http://www.gnu.org/licenses/>.

package client

import (
	"context"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/require"

	"github.com/erigontech/dhtstore/bloom"
	"github.com/erigontech/dhtstore/data"
	"github.com/erigontech/dhtstore/key"
	"github.com/erigontech/dhtstore/protocol"
	"github.com/erigontech/dhtstore/protocol/message"
)

func newTestBloom() (*bloom.Filter, error) {
	f, err := bloom.NewFilter(8, bloom.DefaultFalsePositiveRate)
	if err != nil {
		return nil, err
	}
	f.Add(key.Number160{0x01})
	return f, nil
}

type recordingTransport struct {
	last     *message.Message
	forceUDP bool
	resp     *message.Response
}

func (t *recordingTransport) Dispatch(_ context.Context, msg *message.Message, forceUDP bool) (*message.Response, error) {
	t.last = msg
	t.forceUDP = forceUDP
	if t.resp != nil {
		return t.resp, nil
	}
	return &message.Response{Type: message.ResponseOK}, nil
}

func TestPutBuilderRejectsEmptyDataSet(t *testing.T) {
	tr := &recordingTransport{}
	c := New(tr, nil)
	_, err := c.Put(context.Background(), &PutBuilder{})
	require.Error(t, err)
}

func TestPutBuilderRequestTypeVariants(t *testing.T) {
	dm := data.NewDataMap()
	dm.Put(key.Number640{}, data.Data{Payload: []byte("v")})

	tr := &recordingTransport{}
	c := New(tr, nil)

	_, err := c.Put(context.Background(), &PutBuilder{Data: dm})
	require.NoError(t, err)
	require.Equal(t, protocol.R1, tr.last.RequestType)

	_, err = c.Put(context.Background(), &PutBuilder{Data: dm, PutIfAbsent: true})
	require.NoError(t, err)
	require.Equal(t, protocol.R3, tr.last.RequestType)
}

func TestAddBuilderHashedModeKeysByContent(t *testing.T) {
	dm := data.NewDataMap()
	seedKey := key.Number640{Location: key.Number160{0x01}, Domain: key.Number160{0x02}}
	dm.Put(seedKey, data.Data{Payload: []byte("payload")})

	tr := &recordingTransport{}
	c := New(tr, nil)
	_, err := c.Add(context.Background(), &AddBuilder{Data: dm})
	require.NoError(t, err)

	wantContent := key.HashContent([]byte("payload"))
	found := false
	tr.last.DataMap.Each(func(k key.Number640, v data.Data) {
		if k.Content == wantContent {
			found = true
		}
	})
	require.True(t, found)
}

func TestGetBuilderRejectsNoSelector(t *testing.T) {
	tr := &recordingTransport{}
	c := New(tr, nil)
	_, err := c.Get(context.Background(), &GetBuilder{})
	require.Error(t, err)
}

func TestGetBuilderRejectsConflictingSelectors(t *testing.T) {
	tr := &recordingTransport{}
	c := New(tr, nil)
	from, to := key.Number640{}, key.Number640{Content: key.MaxValue}
	_, err := c.Get(context.Background(), &GetBuilder{
		KeyCollection: data.KeyCollection{from, to},
		From:          &from, To: &to,
	})
	require.Error(t, err)
}

func TestGetBuilderBucketWithBloomSetsDescendingBloomVariant(t *testing.T) {
	tr := &recordingTransport{}
	c := New(tr, nil)
	loc, dom := key.Number160{0x01}, key.Number160{0x02}
	bloomFilter, err := newTestBloom()
	require.NoError(t, err)
	_, err = c.Get(context.Background(), &GetBuilder{
		Location: &loc, Domain: &dom,
		KeyBloom: bloomFilter, Ascending: false,
	})
	require.NoError(t, err)
	require.Equal(t, protocol.R4, tr.last.RequestType)
}

func TestRemoveBuilderSignsWhenRequested(t *testing.T) {
	priv, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	tr := &recordingTransport{}
	c := New(tr, priv)

	loc, dom := key.Number160{0x01}, key.Number160{0x02}
	_, err = c.Remove(context.Background(), &RemoveBuilder{
		Location: &loc, Domain: &dom, SignMessage: true,
	})
	require.NoError(t, err)
	require.NotNil(t, tr.last.Signature)
	require.True(t, tr.last.VerifySignature())
}

func TestRemoveBuilderWithoutIdentityErrorsOnSign(t *testing.T) {
	tr := &recordingTransport{}
	c := New(tr, nil)
	loc, dom := key.Number160{0x01}, key.Number160{0x02}
	_, err := c.Remove(context.Background(), &RemoveBuilder{
		Location: &loc, Domain: &dom, SignMessage: true,
	})
	require.Error(t, err)
}
