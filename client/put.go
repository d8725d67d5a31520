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

// PutBuilder carries the caller's intent for a PUT request (§4.7).
type PutBuilder struct {
	Data *data.DataMap

	SignMessage   bool
	ForceUDP      bool
	ProtectDomain bool
	PutIfAbsent   bool

	// CompareVersion is SPEC_FULL's TomP2P-derived versioned-CAS
	// supplement: when set, the handler rejects the write unless the
	// entry's current version matches.
	CompareVersion *key.Number160
}

// NewPutBuilder starts a PUT builder over dm.
func NewPutBuilder(dm *data.DataMap) *PutBuilder {
	b := &PutBuilder{Data: data.NewDataMap()}
	if dm != nil {
		dm.Each(func(k key.Number640, v data.Data) { b.Data.Put(k, v) })
	}
	return b
}

// requestType computes the PUT column of §4.1: R1 plain, R2
// overwrite+protect, R3 put-if-absent, R4 put-if-absent+protect.
func (b *PutBuilder) requestType() protocol.RequestType {
	switch {
	case b.PutIfAbsent && b.ProtectDomain:
		return protocol.R4
	case b.PutIfAbsent:
		return protocol.R3
	case b.ProtectDomain:
		return protocol.R2
	default:
		return protocol.R1
	}
}

func (b *PutBuilder) build() (*message.Message, error) {
	if b.Data == nil || b.Data.Len() == 0 {
		return nil, decodeErr(protocol.OpPut, errEmptyDataSet)
	}
	dm := data.NewDataMap()
	b.Data.Each(func(k key.Number640, v data.Data) { dm.Put(k, v) })
	return &message.Message{
		Opcode:         protocol.OpPut,
		RequestType:    b.requestType(),
		DataMap:        dm,
		CompareVersion: b.CompareVersion,
		Sign:           b.SignMessage,
		ForceUDP:       b.ForceUDP,
	}, nil
}

// Put lowers b and dispatches it over c's transport.
func (c *Client) Put(ctx context.Context, b *PutBuilder) (*message.Response, error) {
	msg, err := b.build()
	if err != nil {
		return nil, err
	}
	return c.send(ctx, msg, b.SignMessage, b.ForceUDP)
}
