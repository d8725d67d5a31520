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

	"github.com/erigontech/dhtstore/bloom"
	"github.com/erigontech/dhtstore/data"
	"github.com/erigontech/dhtstore/key"
	"github.com/erigontech/dhtstore/protocol"
	"github.com/erigontech/dhtstore/protocol/message"
)

// DigestBuilder mirrors GetBuilder's query shapes (§4.5) plus
// ReturnBloomFilter, which selects between a KeyMap640 digest response and
// a bloom-filter response.
type DigestBuilder struct {
	KeyCollection data.KeyCollection
	From, To      *key.Number640
	Location      *key.Number160
	Domain        *key.Number160

	KeyBloom     *bloom.Filter
	ContentBloom *bloom.Filter

	ReturnNr          *int64
	Ascending         bool
	ReturnBloomFilter bool

	SignMessage bool
	ForceUDP    bool
}

func (b *DigestBuilder) hasRange() bool  { return b.From != nil && b.To != nil }
func (b *DigestBuilder) hasBucket() bool { return b.Location != nil && b.Domain != nil }

func (b *DigestBuilder) requestType() protocol.RequestType {
	switch {
	case b.Ascending && b.ReturnBloomFilter:
		return protocol.R2
	case !b.Ascending && b.ReturnBloomFilter:
		return protocol.R4
	case !b.Ascending:
		return protocol.R3
	default:
		return protocol.R1
	}
}

func (b *DigestBuilder) build() (*message.Message, error) {
	hasCollection := len(b.KeyCollection) > 0
	hasRange := b.hasRange()
	hasBucket := b.hasBucket()

	if !hasCollection && !hasRange && !hasBucket {
		return nil, decodeErr(protocol.OpDigest, errNoKeySelector)
	}
	if hasCollection && hasRange {
		return nil, decodeErr(protocol.OpDigest, errConflictingKeySelectors)
	}

	msg := &message.Message{
		Opcode:      protocol.OpDigest,
		RequestType: b.requestType(),
		Sign:        b.SignMessage,
		ForceUDP:    b.ForceUDP,
	}
	if b.ReturnNr != nil {
		msg.Integer = b.ReturnNr
	}
	switch {
	case hasRange:
		msg.KeyCollection = data.KeyCollection{*b.From, *b.To}
		if msg.Integer == nil {
			var unlimited int64 = -1
			msg.Integer = &unlimited
		}
	case hasCollection:
		msg.KeyCollection = append(data.KeyCollection(nil), b.KeyCollection...)
	}
	if hasBucket {
		msg.Key = [2]*key.Number160{b.Location, b.Domain}
	}
	if b.KeyBloom != nil || b.ContentBloom != nil {
		msg.BloomFilter = [2]*bloom.Filter{b.KeyBloom, b.ContentBloom}
	}
	return msg, nil
}

func (c *Client) Digest(ctx context.Context, b *DigestBuilder) (*message.Response, error) {
	msg, err := b.build()
	if err != nil {
		return nil, err
	}
	return c.send(ctx, msg, b.SignMessage, b.ForceUDP)
}
