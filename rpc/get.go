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
	"github.com/erigontech/dhtstore/bloom"
	"github.com/erigontech/dhtstore/internal/rpcerr"
	"github.com/erigontech/dhtstore/key"
	"github.com/erigontech/dhtstore/protocol"
	"github.com/erigontech/dhtstore/protocol/message"
)

// handleGet implements the four query shapes of §4.4. Queries 1, 3 and 4
// must not throw on empty buckets; they return an empty DataMap.
func (s *Server) handleGet(msg *message.Message) *message.Response {
	flags := protocol.DecodeScanFlags(msg.RequestType)
	limit, limitPresent := msg.Limit()
	if !limitPresent {
		limit = -1
	}

	switch {
	case len(msg.KeyCollection) == 2 && limitPresent:
		// Query shape 1: range query.
		from, to := orderRange(msg.KeyCollection[0], msg.KeyCollection[1])
		result := s.store.GetRange(from, to, limit, flags.Ascending)
		return &message.Response{Type: message.ResponseOK, DataMap: result}

	case len(msg.KeyCollection) > 0:
		// Query shape 2: explicit collection query.
		result := s.store.GetCollection(msg.KeyCollection)
		return &message.Response{Type: message.ResponseOK, DataMap: result}

	case msg.BloomFilter[0] != nil || msg.BloomFilter[1] != nil:
		// Query shape 3: bloom-filtered query over the whole bucket.
		if !msg.HasLocationDomain() {
			return &message.Response{
				Type: message.ResponseException,
				Err:  rpcerr.NewDecodeError(protocol.OpGet, "bloom-filtered query requires locationKey and domainKey"),
			}
		}
		bucket := key.Number320{Location: msg.Location(), Domain: msg.Domain()}
		result := s.store.GetFiltered(bucket.MinKey(), bucket.MaxKey(), bloomPredicate(msg.BloomFilter[0]), bloomPredicate(msg.BloomFilter[1]), limit, flags.Ascending)
		return &message.Response{Type: message.ResponseOK, DataMap: result}

	case msg.HasLocationDomain():
		// Query shape 4: bucket scan.
		bucket := key.Number320{Location: msg.Location(), Domain: msg.Domain()}
		result := s.store.GetRange(bucket.MinKey(), bucket.MaxKey(), limit, flags.Ascending)
		return &message.Response{Type: message.ResponseOK, DataMap: result}

	default:
		return &message.Response{
			Type: message.ResponseException,
			Err:  rpcerr.NewDecodeError(protocol.OpGet, "no keyCollection and locationKey/domainKey absent"),
		}
	}
}

// orderRange returns (min, max) regardless of the order the two explicit
// range endpoints arrived in on the wire.
func orderRange(a, b key.Number640) (key.Number640, key.Number640) {
	if a.Cmp(b) <= 0 {
		return a, b
	}
	return b, a
}

func bloomPredicate(f *bloom.Filter) func(key.Number160) bool {
	if f == nil {
		return nil
	}
	return f.Contains
}
