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

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/pkg/errors"

	"github.com/erigontech/dhtstore/client/aggregate"
	"github.com/erigontech/dhtstore/key"
	"github.com/erigontech/dhtstore/protocol/message"
	"github.com/erigontech/dhtstore/store"
)

// PeerTransport resolves the Transport used to reach peer for one leg of a
// DHT-level operation (§4.8). A DHT put fans the same lowered message out
// to one Transport per peer, unlike Client.Put's single fixed Transport.
type PeerTransport func(peer key.Number160) Transport

// DHTClient drives §4.8's put-future aggregation across a peer set,
// reusing Client's builder lowering and signing for each per-peer
// dispatch.
type DHTClient struct {
	identity *secp256k1.PrivateKey
	peers    PeerTransport
}

// NewDHTClient builds a DHTClient that signs every per-peer PUT with
// identity (if the builder requests it) and resolves each contacted peer
// to a Transport through peers.
func NewDHTClient(identity *secp256k1.PrivateKey, peers PeerTransport) *DHTClient {
	return &DHTClient{identity: identity, peers: peers}
}

// PutDHT lowers b once, orders candidates by Kademlia XOR distance to the
// entries' locationKey (§2's routing stage, ahead of §4.8's aggregation),
// and fans the lowered message out to the closest r of them through
// aggregate.New. If reg is non-nil the future is tracked under opID so a
// later Lookup survives the future settling. min and r follow
// config.AggregateConfig's Min/ReplicationFactor.
func (c *DHTClient) PutDHT(ctx context.Context, opID string, reg *aggregate.Registry, candidates []key.Number160, r, min int, b *PutBuilder) (*aggregate.PutFuture, error) {
	msg, err := b.build()
	if err != nil {
		return nil, err
	}

	target := key.Zero
	if msg.DataMap != nil && msg.DataMap.Len() > 0 {
		target = msg.DataMap.Keys()[0].Location
	}
	ordered := append([]key.Number160(nil), candidates...)
	key.SortByDistance(target, ordered)
	if r > 0 && len(ordered) > r {
		ordered = ordered[:r]
	}

	routing := &aggregate.RoutingFuture{Peers: ordered}
	f := aggregate.New(ctx, routing, r, min, c.peerPut(msg, b.SignMessage, b.ForceUDP))
	if reg != nil {
		reg.Track(opID, f)
	}
	return f, nil
}

// peerPut issues the already-lowered msg against one peer's Transport,
// re-signing per dispatch (a signature covers a single message instance,
// and each peer gets its own *message.Message value so concurrent sends
// never race on Signature/PublicKey).
func (c *DHTClient) peerPut(msg *message.Message, signMessage, forceUDP bool) aggregate.PeerPut {
	return func(ctx context.Context, peer key.Number160) ([]key.Number480, error) {
		transport := c.peers(peer)
		if transport == nil {
			return nil, errors.Errorf("dhtstore: no transport for peer %s", peer)
		}

		toSend := *msg
		if signMessage {
			if c.identity == nil {
				return nil, errors.New("dhtstore: signMessage requested but client has no identity key")
			}
			toSend.Sign(c.identity)
		}

		resp, err := transport.Dispatch(ctx, &toSend, forceUDP)
		if err != nil {
			return nil, err
		}
		if resp == nil {
			return nil, nil
		}
		if resp.Type == message.ResponseException {
			return nil, resp.Err
		}

		var acked []key.Number480
		if resp.KeyMapByte != nil {
			resp.KeyMapByte.Each(func(k key.Number640, status byte) {
				if store.Status(status) == store.OK {
					acked = append(acked, k.ToNumber480())
				}
			})
		}
		return acked, nil
	}
}
