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

// Package rpcerr carries the decoding-error taxonomy shared by the server
// handlers (§7) and the client builders (§4.7): malformed requests never
// touch the store and never panic, they surface as a single typed error.
package rpcerr

import (
	"fmt"

	"github.com/erigontech/dhtstore/protocol"
)

// DecodeError is returned whenever a request or builder is malformed:
// conflicting slots, a missing required key, an illegal opcode/type
// combination (§7 "Decoding errors"). Handlers that see one respond
// EXCEPTION without touching the store.
type DecodeError struct {
	Op     protocol.Opcode
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("dhtstore: %s: %s", e.Op, e.Reason)
}

func NewDecodeError(op protocol.Opcode, reason string) *DecodeError {
	return &DecodeError{Op: op, Reason: reason}
}
