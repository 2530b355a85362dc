/**
 * Licensed to the Apache Software Foundation (ASF) under one
 * or more contributor license agreements.  See the NOTICE file
 * distributed with this work for additional information
 * regarding copyright ownership.  The ASF licenses this file
 * to you under the Apache License, Version 2.0 (the
 * "License"); you may not use this file except in compliance
 * with the License.  You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package sesn

import (
	"sync"
	"sync/atomic"

	"github.com/soundcore-tools/scmgr/scxact/model"
)

// Holds the latest device state.  Writers serialise on mtx; readers load
// the current pointer without locking.  Published states are never
// modified.
type stateWatch struct {
	cur    atomic.Pointer[model.DeviceState]
	mtx    sync.Mutex
	subs   map[*StateSub]struct{}
	closed bool
}

func newStateWatch(initial *model.DeviceState) *stateWatch {
	w := &stateWatch{
		subs: map[*StateSub]struct{}{},
	}
	w.cur.Store(initial)
	return w
}

func (w *stateWatch) Get() *model.DeviceState {
	return w.cur.Load()
}

// Replaces the state with fn's result and notifies subscribers.  Nothing
// is published if the result is structurally equal to the current state.
func (w *stateWatch) Modify(
	fn func(prev *model.DeviceState) *model.DeviceState) bool {

	w.mtx.Lock()
	defer w.mtx.Unlock()

	if w.closed {
		return false
	}

	prev := w.cur.Load()
	next := fn(prev)
	if next == nil || next.Equal(prev) {
		return false
	}

	w.cur.Store(next)
	for sub := range w.subs {
		sub.push(next)
	}
	return true
}

func (w *stateWatch) Subscribe() *StateSub {
	w.mtx.Lock()
	defer w.mtx.Unlock()

	sub := &StateSub{
		ch: make(chan *model.DeviceState, 1),
		w:  w,
	}
	sub.ch <- w.cur.Load()

	if w.closed {
		close(sub.ch)
	} else {
		w.subs[sub] = struct{}{}
	}
	return sub
}

func (w *stateWatch) unsubscribe(sub *StateSub) {
	w.mtx.Lock()
	defer w.mtx.Unlock()

	if _, ok := w.subs[sub]; ok {
		delete(w.subs, sub)
		close(sub.ch)
	}
}

func (w *stateWatch) Close() {
	w.mtx.Lock()
	defer w.mtx.Unlock()

	if w.closed {
		return
	}
	w.closed = true

	for sub := range w.subs {
		close(sub.ch)
	}
	w.subs = map[*StateSub]struct{}{}
}

// A subscription to state changes.  The channel always holds the newest
// state not yet received: a slow reader skips intermediate states but never
// misses the latest one.  The channel is closed when the session ends.
type StateSub struct {
	ch chan *model.DeviceState
	w  *stateWatch
}

// Called with the watch lock held.
func (s *StateSub) push(st *model.DeviceState) {
	select {
	case <-s.ch:
	default:
	}

	select {
	case s.ch <- st:
	default:
	}
}

func (s *StateSub) C() <-chan *model.DeviceState {
	return s.ch
}

func (s *StateSub) Close() {
	s.w.unsubscribe(s)
}
