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

// AddBuilder carries the caller's intent for an ADD request (§4.3, §4.7).
// IsList selects list mode (distinct random content key per entry) over
// hashed mode (content-addressed, duplicates collapse).
type AddBuilder struct {
	Data *data.DataMap

	SignMessage   bool
	ForceUDP      bool
	ProtectDomain bool
	IsList        bool
}

func NewAddBuilder(dm *data.DataMap) *AddBuilder {
	b := &AddBuilder{Data: data.NewDataMap()}
	if dm != nil {
		dm.Each(func(k key.Number640, v data.Data) { b.Data.Put(k, v) })
	}
	return b
}

// requestType computes the ADD column of §4.1: R1 hashed+plain, R2
// hashed+protect, R3 list-mode+plain, R4 list-mode+protect.
func (b *AddBuilder) requestType() protocol.RequestType {
	switch {
	case b.IsList && b.ProtectDomain:
		return protocol.R4
	case b.IsList:
		return protocol.R3
	case b.ProtectDomain:
		return protocol.R2
	default:
		return protocol.R1
	}
}

func (b *AddBuilder) build() (*message.Message, error) {
	if b.Data == nil || b.Data.Len() == 0 {
		return nil, decodeErr(protocol.OpAdd, errEmptyDataSet)
	}
	dm := data.NewDataMap()
	b.Data.Each(func(k key.Number640, v data.Data) {
		if !b.IsList {
			// Hashed mode: the builder keys each entry by its content
			// hash before the message ever reaches the wire (§4.3);
			// duplicate payloads collapse onto one key server-side.
			k.Content = v.Hash()
		}
		dm.Put(k, v)
	})
	return &message.Message{
		Opcode:      protocol.OpAdd,
		RequestType: b.requestType(),
		DataMap:     dm,
		Sign:        b.SignMessage,
		ForceUDP:    b.ForceUDP,
	}, nil
}

func (c *Client) Add(ctx context.Context, b *AddBuilder) (*message.Response, error) {
	msg, err := b.build()
	if err != nil {
		return nil, err
	}
	return c.send(ctx, msg, b.SignMessage, b.ForceUDP)
}
