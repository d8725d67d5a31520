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

package rpc

import (
	"github.com/erigontech/dhtstore/data"
	"github.com/erigontech/dhtstore/internal/rpcerr"
	"github.com/erigontech/dhtstore/key"
	"github.com/erigontech/dhtstore/protocol"
	"github.com/erigontech/dhtstore/protocol/message"
)

// handleRemove implements §4.6. Removal fails silently per-key when the
// protection check fails; the response reflects only the keys actually
// removed. With echoResults, a fresh DataMap copy is returned (never an
// alias of the store's internals, per §9's "Sharing vs copying DataMap"
// note); otherwise just the KeyCollection of removed keys.
func (s *Server) handleRemove(msg *message.Message) *message.Response {
	echo := protocol.EchoRemoved(msg.RequestType)

	var removed *data.DataMap
	switch {
	case len(msg.KeyCollection) > 0:
		removed = data.NewDataMap()
		for _, k := range msg.KeyCollection {
			if v, ok := s.store.RemoveOne(k, msg.PublicKey); ok {
				removed.Put(k, v)
			}
		}

	case msg.HasLocationDomain():
		bucket := key.Number320{Location: msg.Location(), Domain: msg.Domain()}
		removed = s.store.RemoveRange(bucket.MinKey(), bucket.MaxKey(), msg.PublicKey)

	default:
		return &message.Response{
			Type: message.ResponseException,
			Err:  rpcerr.NewDecodeError(protocol.OpRemove, "REMOVE requires a keyCollection or locationKey+domainKey"),
		}
	}

	if echo {
		// Snapshot, never alias: removed is already a fresh DataMap the
		// handler built or the store returned; Clone defends against a
		// store implementation that hands back a live internal view.
		return &message.Response{Type: message.ResponseOK, DataMap: removed.Clone()}
	}

	keys := make(data.KeyCollection, 0, removed.Len())
	keys = append(keys, removed.Keys()...)
	return &message.Response{Type: message.ResponseOK, KeyCollection: keys}
}
