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

	"github.com/erigontech/dhtstore/data"
	"github.com/erigontech/dhtstore/key"
	"github.com/erigontech/dhtstore/protocol"
	"github.com/erigontech/dhtstore/protocol/message"
)

// RemoveBuilder carries the caller's intent for a REMOVE request (§4.6,
// §4.7). ReturnResults selects R2 (echo the removed DataMap) over R1
// (return just the removed KeyCollection).
type RemoveBuilder struct {
	KeyCollection data.KeyCollection
	Location      *key.Number160
	Domain        *key.Number160

	ReturnResults bool

	SignMessage bool
	ForceUDP    bool
}

func (b *RemoveBuilder) hasBucket() bool { return b.Location != nil && b.Domain != nil }

func (b *RemoveBuilder) requestType() protocol.RequestType {
	if b.ReturnResults {
		return protocol.R2
	}
	return protocol.R1
}

func (b *RemoveBuilder) build() (*message.Message, error) {
	hasCollection := len(b.KeyCollection) > 0
	hasBucket := b.hasBucket()

	if !hasCollection && !hasBucket {
		return nil, decodeErr(protocol.OpRemove, errNoKeySelector)
	}

	msg := &message.Message{
		Opcode:      protocol.OpRemove,
		RequestType: b.requestType(),
		Sign:        b.SignMessage,
		ForceUDP:    b.ForceUDP,
	}
	if hasCollection {
		msg.KeyCollection = append(data.KeyCollection(nil), b.KeyCollection...)
	}
	if hasBucket {
		msg.Key = [2]*key.Number160{b.Location, b.Domain}
	}
	return msg, nil
}

func (c *Client) Remove(ctx context.Context, b *RemoveBuilder) (*message.Response, error) {
	msg, err := b.build()
	if err != nil {
		return nil, err
	}
	return c.send(ctx, msg, b.SignMessage, b.ForceUDP)
}
