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

package scxutil

import (
	"sync"

	log "github.com/sirupsen/logrus"
)

// Fans a stream of values out to any number of listeners.  A listener that
// falls behind misses values rather than stalling the sender.
type Bcaster struct {
	chs    [](chan interface{})
	mtx    sync.Mutex
	closed bool
}

func (b *Bcaster) Listen(depth int) chan interface{} {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	ch := make(chan interface{}, depth)
	if b.closed {
		close(ch)
		return ch
	}

	b.chs = append(b.chs, ch)
	return ch
}

func (b *Bcaster) Unlisten(ch <-chan interface{}) {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	for i, c := range b.chs {
		if (<-chan interface{})(c) == ch {
			b.chs = append(b.chs[:i], b.chs[i+1:]...)
			close(c)
			return
		}
	}
}

func (b *Bcaster) Send(val interface{}) {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	for _, ch := range b.chs {
		select {
		case ch <- val:
		default:
			log.Debugf("bcast listener full; dropping %+v", val)
		}
	}
}

// Closes every listener.  Subsequent listeners are closed immediately.
func (b *Bcaster) Clear() {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	for _, ch := range b.chs {
		close(ch)
	}
	b.chs = nil
	b.closed = true
}

func (b *Bcaster) NumListeners() int {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	return len(b.chs)
}
