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

// Package client implements the five builders (§4.7) and the lowering
// logic that turns builder intent into a wire message, plus dispatch over
// a pluggable Transport.
package client

import (
	"context"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/pkg/errors"

	"github.com/erigontech/dhtstore/internal/rpcerr"
	"github.com/erigontech/dhtstore/protocol"
	"github.com/erigontech/dhtstore/protocol/message"
)

// Transport carries a lowered message to the server and back (§4.7 step
// 4). The concrete binding lives in transport/dhtrpc; Client only depends
// on this interface so handler-level tests never need a live socket.
type Transport interface {
	Dispatch(ctx context.Context, msg *message.Message, forceUDP bool) (*message.Response, error)
}

// Client lowers builders to messages and dispatches them over a Transport,
// optionally signing with a fixed identity key (§3's "key-pair for
// signing... read-only after startup").
type Client struct {
	transport Transport
	identity  *secp256k1.PrivateKey
}

func New(transport Transport, identity *secp256k1.PrivateKey) *Client {
	return &Client{transport: transport, identity: identity}
}

// send implements builder lowering step 2 (optional signing) and step 4
// (transport selection), shared by every operation.
func (c *Client) send(ctx context.Context, msg *message.Message, signMessage, forceUDP bool) (*message.Response, error) {
	if signMessage {
		if c.identity == nil {
			return nil, errors.New("dhtstore: signMessage requested but client has no identity key")
		}
		msg.Sign(c.identity)
	}
	return c.transport.Dispatch(ctx, msg, forceUDP)
}

var (
	// errEmptyDataSet is builder invariant 1 of §4.7: PUT/ADD require a
	// non-empty data set.
	errEmptyDataSet = errors.New("dhtstore: PUT/ADD builder requires a non-empty data set")
	// errNoKeySelector is builder invariant 2: GET/DIGEST/REMOVE require
	// a key collection, a range, or a (location,domain) pair.
	errNoKeySelector = errors.New("dhtstore: builder requires a keyCollection, a range, or a location/domain pair")
	// errConflictingKeySelectors is builder invariant 3: never both an
	// explicit collection and a range.
	errConflictingKeySelectors = errors.New("dhtstore: builder must not set both an explicit key collection and a range")
)

func decodeErr(op protocol.Opcode, err error) error {
	return rpcerr.NewDecodeError(op, err.Error())
}
