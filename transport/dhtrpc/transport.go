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

package dhtrpc

import (
	"context"

	"github.com/pkg/errors"

	"github.com/erigontech/dhtstore/protocol/message"
)

// Transport implements client.Transport, selecting gRPC-over-TCP unless
// forceUDP is set (§4.7 step 4), in which case it fires the message over
// udp and returns a nil response (no reply path over that leg, see
// UDPSender's doc comment).
type Transport struct {
	rpc *StorageRPCClient
	udp *UDPSender
}

func NewTransport(rpc *StorageRPCClient, udp *UDPSender) *Transport {
	return &Transport{rpc: rpc, udp: udp}
}

func (t *Transport) Dispatch(ctx context.Context, msg *message.Message, forceUDP bool) (*message.Response, error) {
	if forceUDP {
		if t.udp == nil {
			return nil, errors.New("dhtrpc: forceUDP requested but no UDPSender configured")
		}
		if err := t.udp.Send(ctx, msg); err != nil {
			return nil, err
		}
		return nil, nil
	}
	if t.rpc == nil {
		return nil, errors.New("dhtrpc: no gRPC client configured")
	}
	return t.rpc.Invoke(ctx, msg)
}
