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

// Package rpc implements the five server-side storage RPC handlers
// (§4.2-§4.6) and the linear dispatch state machine that fronts them
// (§4.9). Handlers never block (§5): every EntryStore call is a
// synchronous contract.
package rpc

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/erigontech/dhtstore/bloom"
	"github.com/erigontech/dhtstore/internal/rpcerr"
	"github.com/erigontech/dhtstore/protocol"
	"github.com/erigontech/dhtstore/protocol/message"
	"github.com/erigontech/dhtstore/store"
)

// MaxListModeRetries is the default cap on ADD's list-mode
// random-content-key retry loop (§4.3, §9's resolution of the "retry loop
// is unbounded" design note). NewServer accepts an override, normally
// sourced from config.AddConfig.MaxListModeRetries.
const MaxListModeRetries = 64

// Server dispatches decoded messages to the five storage RPC handlers. It
// holds no mutable state between requests (§5); the EntryStore it wraps is
// assumed thread-safe.
type Server struct {
	store              store.EntryStore
	bloomFactory       *bloom.Factory
	logger             *zap.Logger
	metrics            *Metrics
	maxListModeRetries int
}

// NewServer builds a Server. maxListModeRetries <= 0 falls back to
// MaxListModeRetries.
func NewServer(st store.EntryStore, bloomFactory *bloom.Factory, logger *zap.Logger, metrics *Metrics, maxListModeRetries int) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if bloomFactory == nil {
		bloomFactory = bloom.NewFactory(bloom.DefaultFalsePositiveRate)
	}
	if maxListModeRetries <= 0 {
		maxListModeRetries = MaxListModeRetries
	}
	return &Server{store: st, bloomFactory: bloomFactory, logger: logger, metrics: metrics, maxListModeRetries: maxListModeRetries}
}

// Dispatch runs the finite state machine in §4.9:
//
//	Received -> Validated -> Dispatched(cmd) -> Executed ->
//	(OK | PARTIALLY_OK | EXCEPTION) -> Signed? -> Responded
func (s *Server) Dispatch(msg *message.Message) *message.Response {
	if !msg.VerifySignature() {
		s.metrics.observeResult(msg.Opcode.String(), "denied")
		return &message.Response{Type: message.ResponseDenied, Err: errors.New("dhtstore: signature does not verify")}
	}

	var resp *message.Response
	switch msg.Opcode {
	case protocol.OpPut:
		resp = s.handlePut(msg)
	case protocol.OpAdd:
		resp = s.handleAdd(msg)
	case protocol.OpGet:
		resp = s.handleGet(msg)
	case protocol.OpRemove:
		resp = s.handleRemove(msg)
	case protocol.OpDigest:
		resp = s.handleDigest(msg)
	default:
		resp = &message.Response{
			Type: message.ResponseException,
			Err:  rpcerr.NewDecodeError(msg.Opcode, "unknown opcode"),
		}
	}

	if resp.Type == message.ResponseException {
		s.logger.Debug("request rejected", zap.Stringer("op", msg.Opcode), zap.Error(resp.Err))
	}
	s.metrics.observeResult(msg.Opcode.String(), resp.Type.String())

	if msg.Sign {
		resp.Signed = true
	}
	return resp
}
