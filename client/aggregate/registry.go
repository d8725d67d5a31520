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

package aggregate

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Registry tracks in-flight and recently-settled PutFutures by a
// caller-supplied operation ID, so a duplicate Join call arriving after
// completion is an O(1) lookup instead of re-walking a closed channel set.
type Registry struct {
	mu       sync.Mutex
	inflight map[string]*PutFuture
	done     *lru.Cache[string, Outcome]
}

// NewRegistry builds a Registry whose completed-operation cache holds up
// to capacity entries.
func NewRegistry(capacity int) (*Registry, error) {
	cache, err := lru.New[string, Outcome](capacity)
	if err != nil {
		return nil, err
	}
	return &Registry{inflight: make(map[string]*PutFuture), done: cache}, nil
}

// Track registers f under opID. When f settles, its outcome is moved into
// the completed-operation cache and the in-flight entry is dropped.
func (r *Registry) Track(opID string, f *PutFuture) {
	r.mu.Lock()
	r.inflight[opID] = f
	r.mu.Unlock()

	go func() {
		outcome, _ := f.Join(context.Background())
		r.mu.Lock()
		delete(r.inflight, opID)
		r.mu.Unlock()
		r.done.Add(opID, outcome)
	}()
}

// Lookup returns the live future for an in-flight operation, or the
// cached terminal outcome for one that already settled.
func (r *Registry) Lookup(opID string) (future *PutFuture, outcome Outcome, found bool) {
	r.mu.Lock()
	f, ok := r.inflight[opID]
	r.mu.Unlock()
	if ok {
		return f, Pending, true
	}
	if o, ok := r.done.Get(opID); ok {
		return nil, o, true
	}
	return nil, Pending, false
}
