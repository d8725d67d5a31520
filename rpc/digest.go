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
	"github.com/erigontech/dhtstore/internal/rpcerr"
	"github.com/erigontech/dhtstore/key"
	"github.com/erigontech/dhtstore/protocol"
	"github.com/erigontech/dhtstore/protocol/message"
	"github.com/erigontech/dhtstore/store"
)

// handleDigest parallels GET's four query shapes (§4.5), plus SPEC_FULL's
// bulk-digest-over-explicit-collection supplement from TomP2P. Non-bloom
// responses carry a KeyMap640 of digests; bloom responses carry up to four
// bloom filters — content+version always, location+domain additionally
// when the scan was global (key-collection mode) rather than
// bucket-scoped.
func (s *Server) handleDigest(msg *message.Message) *message.Response {
	flags := protocol.DecodeScanFlags(msg.RequestType)
	limit, limitPresent := msg.Limit()
	if !limitPresent {
		limit = -1
	}

	var info store.DigestInfo
	switch {
	case len(msg.KeyCollection) == 2 && limitPresent:
		from, to := orderRange(msg.KeyCollection[0], msg.KeyCollection[1])
		info = s.store.DigestRange(from, to, nil, nil, limit, flags.Ascending, flags.ReturnBloom)

	case len(msg.KeyCollection) > 0:
		// SPEC_FULL supplement: bulk digest over an explicit collection.
		info = s.store.Digest(msg.KeyCollection, flags.ReturnBloom)

	case msg.BloomFilter[0] != nil || msg.BloomFilter[1] != nil:
		if !msg.HasLocationDomain() {
			return &message.Response{
				Type: message.ResponseException,
				Err:  rpcerr.NewDecodeError(protocol.OpDigest, "bloom-filtered digest requires locationKey and domainKey"),
			}
		}
		bucket := key.Number320{Location: msg.Location(), Domain: msg.Domain()}
		info = s.store.DigestRange(bucket.MinKey(), bucket.MaxKey(), bloomPredicate(msg.BloomFilter[0]), bloomPredicate(msg.BloomFilter[1]), limit, flags.Ascending, flags.ReturnBloom)

	case msg.HasLocationDomain():
		bucket := key.Number320{Location: msg.Location(), Domain: msg.Domain()}
		info = s.store.DigestRange(bucket.MinKey(), bucket.MaxKey(), nil, nil, limit, flags.Ascending, flags.ReturnBloom)

	default:
		return &message.Response{
			Type: message.ResponseException,
			Err:  rpcerr.NewDecodeError(protocol.OpDigest, "no keyCollection and locationKey/domainKey absent"),
		}
	}

	if !flags.ReturnBloom {
		return &message.Response{Type: message.ResponseOK, KeyMap640: info.Digests}
	}

	resp := &message.Response{Type: message.ResponseOK}
	var err error
	if resp.ContentKeyBloom, err = s.bloomFactory.BuildFor(info.ContentKeyBloomKeys); err != nil {
		return &message.Response{Type: message.ResponseException, Err: err}
	}
	if resp.VersionKeyBloom, err = s.bloomFactory.BuildFor(info.VersionKeyBloomKeys); err != nil {
		return &message.Response{Type: message.ResponseException, Err: err}
	}
	if info.LocationKeyBloomKeys != nil {
		if resp.LocationKeyBloom, err = s.bloomFactory.BuildFor(info.LocationKeyBloomKeys); err != nil {
			return &message.Response{Type: message.ResponseException, Err: err}
		}
		if resp.DomainKeyBloom, err = s.bloomFactory.BuildFor(info.DomainKeyBloomKeys); err != nil {
			return &message.Response{Type: message.ResponseException, Err: err}
		}
	}
	return resp
}
