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

// Package aggregate implements the DHT-level "put future" (§4.8): fan-out
// of up to R per-peer PUT RPCs after routing, aggregated into a single
// OK/FAILED outcome once every peer has reached a terminal state (OK when
// at least min of them succeeded).
package aggregate

import (
	"context"
	"sync"
	"time"

	"github.com/maticnetwork/crand"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/erigontech/dhtstore/key"
)

// Outcome is the terminal state a PutFuture settles into (§4.8).
type Outcome int

const (
	Pending Outcome = iota
	OK
	Failed
)

func (o Outcome) String() string {
	switch o {
	case OK:
		return "OK"
	case Failed:
		return "FAILED"
	default:
		return "PENDING"
	}
}

// RoutingFuture records which peers were contacted by the routing stage
// that precedes a DHT PUT (§4.8's "reference to the preceding routing
// future").
type RoutingFuture struct {
	Peers []key.Number160
}

// PeerPut issues one per-peer PUT RPC, returning the set of Number480 keys
// that peer acknowledged storing.
type PeerPut func(ctx context.Context, peer key.Number160) ([]key.Number480, error)

// PerPeerResult is one peer's terminal contribution to the aggregate.
type PerPeerResult struct {
	Peer  key.Number160
	Keys  []key.Number480
	Err   error
	Cancelled bool
}

// PutFuture aggregates up to R concurrent per-peer PUT RPCs (§4.8).
type PutFuture struct {
	routing *RoutingFuture
	min     int

	ctx    context.Context
	cancel context.CancelFunc

	group *errgroup.Group
	sem   *semaphore.Weighted

	mu       sync.Mutex
	results  []PerPeerResult
	success  int
	settled  bool
	outcome  Outcome
	done     chan struct{}
}

// New starts fanning out peerPut over routing.Peers, concurrency bounded
// by r (the replication factor), and settles once every peer has reached
// a terminal state, with OK if at least min peers succeeded and FAILED
// otherwise (§7, §9's resolution of the "min shortfall" open question: a
// still-pending peer never forces a premature FAILED).
func New(parent context.Context, routing *RoutingFuture, r, min int, peerPut PeerPut) *PutFuture {
	ctx, cancel := context.WithCancel(parent)
	f := &PutFuture{
		routing: routing,
		min:     min,
		ctx:     ctx,
		cancel:  cancel,
		sem:     semaphore.NewWeighted(int64(r)),
		done:    make(chan struct{}),
	}
	group, gctx := errgroup.WithContext(ctx)
	f.group = group

	for _, peer := range routing.Peers {
		peer := peer
		group.Go(func() error {
			if err := f.sem.Acquire(gctx, 1); err != nil {
				f.record(PerPeerResult{Peer: peer, Cancelled: true})
				return nil
			}
			defer f.sem.Release(1)

			keys, err := peerPut(gctx, peer)
			f.record(PerPeerResult{Peer: peer, Keys: keys, Err: err})
			return nil
		})
	}

	go func() {
		_ = group.Wait()
		f.finish()
	}()
	return f
}

func (f *PutFuture) record(r PerPeerResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, r)
	if r.Err == nil && !r.Cancelled {
		f.success++
	}
}

func (f *PutFuture) finish() {
	f.mu.Lock()
	if f.settled {
		f.mu.Unlock()
		return
	}
	f.settled = true
	if f.success >= f.min {
		f.outcome = OK
	} else {
		f.outcome = Failed
	}
	f.mu.Unlock()
	close(f.done)
}

// MinReached reports whether enough peers have already succeeded to reach
// min, independent of whether the future has fully settled yet.
func (f *PutFuture) MinReached() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.success >= f.min
}

// Join blocks until every outstanding per-peer RPC is complete or
// cancelled, then returns the terminal outcome (§4.8).
func (f *PutFuture) Join(ctx context.Context) (Outcome, error) {
	select {
	case <-f.done:
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.outcome, nil
	case <-ctx.Done():
		return Pending, ctx.Err()
	}
}

// Cancel propagates cancellation to every still-pending per-peer RPC
// (§5's cancellation model). Idempotent; a no-op once the future has
// already settled. A small jittered delay smooths thundering-herd
// retries when many futures cancel at once (e.g. a caller giving up on a
// whole batch), using a fast non-cryptographic source since this is
// scheduling jitter, not security-sensitive.
func (f *PutFuture) Cancel() {
	f.mu.Lock()
	settled := f.settled
	f.mu.Unlock()
	if settled {
		return
	}
	jitter := time.Duration(crand.Intn(5)) * time.Millisecond
	time.Sleep(jitter)
	f.cancel()
}

// Results returns a snapshot of the per-peer results recorded so far.
func (f *PutFuture) Results() []PerPeerResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]PerPeerResult(nil), f.results...)
}

// Routing returns the routing future that preceded this aggregation
// (§4.8's "reference to the preceding routing future").
func (f *PutFuture) Routing() *RoutingFuture { return f.routing }
