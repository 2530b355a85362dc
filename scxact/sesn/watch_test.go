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
	"testing"

	"github.com/soundcore-tools/scmgr/scxact/model"
)

func withLevel(lvl uint8) func(*model.DeviceState) *model.DeviceState {
	return func(prev *model.DeviceState) *model.DeviceState {
		next := *prev
		next.Battery.Left.Level = lvl
		return &next
	}
}

func TestWatchSubscribe(t *testing.T) {
	w := newStateWatch(&model.DeviceState{})

	sub := w.Subscribe()
	if st := <-sub.C(); st != w.Get() {
		t.Fatalf("first value is not the current state")
	}

	if !w.Modify(withLevel(3)) {
		t.Fatalf("change not published")
	}
	if st := <-sub.C(); st.Battery.Left.Level != 3 {
		t.Errorf("got level %d", st.Battery.Left.Level)
	}

	if w.Modify(withLevel(3)) {
		t.Errorf("equal state published")
	}
	select {
	case st := <-sub.C():
		t.Errorf("unexpected value: %+v", st)
	default:
	}
}

func TestWatchLatestValue(t *testing.T) {
	w := newStateWatch(&model.DeviceState{})
	sub := w.Subscribe()

	for i := uint8(1); i <= 4; i++ {
		w.Modify(withLevel(i))
	}

	st := <-sub.C()
	if st.Battery.Left.Level != 4 {
		t.Errorf("want the newest state, got level %d", st.Battery.Left.Level)
	}
}

func TestWatchClose(t *testing.T) {
	w := newStateWatch(&model.DeviceState{})
	sub := w.Subscribe()
	<-sub.C()

	w.Close()
	if _, ok := <-sub.C(); ok {
		t.Errorf("subscription open after close")
	}
	if w.Modify(withLevel(1)) {
		t.Errorf("closed watch accepted a change")
	}

	late := w.Subscribe()
	if st, ok := <-late.C(); !ok || st != w.Get() {
		t.Errorf("late subscriber did not get the final state")
	}
	if _, ok := <-late.C(); ok {
		t.Errorf("late subscription open")
	}

	// Closing a subscription after the watch is harmless.
	sub.Close()
}

func TestSubscriptionClose(t *testing.T) {
	w := newStateWatch(&model.DeviceState{})
	a := w.Subscribe()
	b := w.Subscribe()

	a.Close()
	w.Modify(withLevel(2))

	<-a.C()
	if _, ok := <-a.C(); ok {
		t.Errorf("closed subscription still receiving")
	}
	if st := <-b.C(); st.Battery.Left.Level != 2 {
		t.Errorf("got level %d", st.Battery.Left.Level)
	}
}
