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


package devmgr

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/soundcore-tools/scmgr/scxact/bledefs"
	"github.com/soundcore-tools/scmgr/scxact/product"
	"github.com/soundcore-tools/scmgr/scxact/sctest"
	"github.com/soundcore-tools/scmgr/scxact/scxutil"
	"github.com/soundcore-tools/scmgr/scxact/sesn"
	"github.com/soundcore-tools/scmgr/scxact/xport"
)

func testCfg() MgrCfg {
	cfg := NewMgrCfg()
	cfg.SesnCfg.Handshake.Timeout = sctest.FAST_TIMEOUT
	cfg.SesnCfg.Handshake.Backoff = 10 * time.Millisecond
	return cfg
}

func newMgr(t *testing.T) (*Mgr, *sctest.Xport) {
	x := sctest.NewXport()
	x.SetResponder(sctest.Addr(1),
		sctest.StateResponder(sctest.A3951Payload()))
	x.SetResponder(sctest.Addr(2),
		sctest.StateResponder(sctest.A3040Payload()))

	m := NewMgr(x, testCfg())
	if err := m.Start(); err != nil {
		t.Fatalf("%s", err.Error())
	}
	return m, x
}

func desc(n byte) bledefs.DeviceDesc {
	return bledefs.DeviceDesc{Addr: sctest.Addr(n)}
}

func TestConcurrentConnect(t *testing.T) {
	m, x := newMgr(t)
	defer m.Stop()

	x.SetConnDelay(50 * time.Millisecond)

	var wg sync.WaitGroup
	var sesns [2]*sesn.Sesn
	var errs [2]error

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sesns[i], errs[i] = m.Connect(context.Background(), desc(1))
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			t.Fatalf("connect failed: %s", err.Error())
		}
	}
	if sesns[0] != sesns[1] {
		t.Errorf("concurrent connects returned different sessions")
	}
	if n := x.NumConnects(); n != 1 {
		t.Errorf("want 1 connection, got %d", n)
	}
	if n := x.Conns()[0].NumRequests(); n != 1 {
		t.Errorf("want 1 handshake, got %d", n)
	}
}

func TestConnectReuse(t *testing.T) {
	m, x := newMgr(t)
	defer m.Stop()

	a, err := m.Connect(context.Background(), desc(1))
	if err != nil {
		t.Fatalf("%s", err.Error())
	}
	b, err := m.Connect(context.Background(), desc(2))
	if err != nil {
		t.Fatalf("%s", err.Error())
	}
	if a == b || b.Product() != product.CODE_A3040 {
		t.Errorf("sessions mixed up")
	}

	again, err := m.Connect(context.Background(), desc(1))
	if err != nil || again != a {
		t.Errorf("existing session not reused: %v", err)
	}
	if x.NumConnects() != 2 || m.NumSessions() != 2 {
		t.Errorf("%d connects, %d sessions", x.NumConnects(), m.NumSessions())
	}

	s, err := m.Session(sctest.Addr(2))
	if err != nil || s != b {
		t.Errorf("session lookup: %v", err)
	}
}

func TestConnectFailure(t *testing.T) {
	m, _ := newMgr(t)
	defer m.Stop()

	if _, err := m.Connect(context.Background(), desc(9)); err == nil {
		t.Errorf("connect to an absent device succeeded")
	}
	if m.NumSessions() != 0 {
		t.Errorf("failed connect left a session")
	}
}

func TestDisconnect(t *testing.T) {
	m, x := newMgr(t)
	defer m.Stop()

	s, err := m.Connect(context.Background(), desc(1))
	if err != nil {
		t.Fatalf("%s", err.Error())
	}

	if err := m.Disconnect(sctest.Addr(1)); err != nil {
		t.Fatalf("%s", err.Error())
	}
	if s.IsOpen() || !x.Conns()[0].IsClosed() {
		t.Errorf("session not closed")
	}
	if _, err := m.Session(sctest.Addr(1)); !scxutil.IsDeviceNotFound(err) {
		t.Errorf("lookup after disconnect: %v", err)
	}
	if err := m.Disconnect(sctest.Addr(1)); !scxutil.IsDeviceNotFound(err) {
		t.Errorf("second disconnect: %v", err)
	}

	// A new connect creates a fresh session.
	s2, err := m.Connect(context.Background(), desc(1))
	if err != nil {
		t.Fatalf("%s", err.Error())
	}
	if s2 == s || x.NumConnects() != 2 {
		t.Errorf("closed session reused")
	}
}

func TestDisconnectAll(t *testing.T) {
	m, _ := newMgr(t)
	defer m.Stop()

	a, _ := m.Connect(context.Background(), desc(1))
	b, _ := m.Connect(context.Background(), desc(2))

	m.DisconnectAll()

	if a.IsOpen() || b.IsOpen() || m.NumSessions() != 0 {
		t.Errorf("sessions survived DisconnectAll")
	}
}

func TestLinkLossForgetsSession(t *testing.T) {
	m, x := newMgr(t)
	defer m.Stop()

	s, err := m.Connect(context.Background(), desc(1))
	if err != nil {
		t.Fatalf("%s", err.Error())
	}

	x.Conns()[0].Drop()
	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatalf("session survived link loss")
	}

	if m.NumSessions() != 0 {
		t.Errorf("dead session still mapped")
	}
}

func TestScanDedupe(t *testing.T) {
	m, x := newMgr(t)
	defer m.Stop()

	x.AddSightings(
		bledefs.DeviceDesc{Addr: sctest.Addr(1)},
		bledefs.DeviceDesc{
			Addr: sctest.Addr(1),
			Name: "Soundcore Liberty Air 2 Pro",
		},
		bledefs.DeviceDesc{Addr: sctest.Addr(2), Name: "Soundcore Life Q35"},
		bledefs.DeviceDesc{Addr: sctest.Addr(2)},
		bledefs.DeviceDesc{Addr: sctest.Addr(3)},
		bledefs.DeviceDesc{
			Addr: bledefs.BleAddr{Bytes: [6]byte{0xe8, 0xee, 0xcc, 1, 2, 3}},
		},
	)

	devs, err := m.Scan(context.Background(), 0)
	if err != nil {
		t.Fatalf("%s", err.Error())
	}
	if len(devs) != 4 {
		t.Fatalf("want 4 devices, got %d", len(devs))
	}

	want := []struct {
		product product.Code
		vendor  bool
	}{
		{product.CODE_A3951, false},
		{product.CODE_A3027, false},
		{product.CODE_NONE, false},
		{product.CODE_NONE, true},
	}
	for i, d := range devs {
		if d.Product != want[i].product || d.Vendor != want[i].vendor {
			t.Errorf("%s: want %s vendor=%v", d, want[i].product,
				want[i].vendor)
		}
	}
	if devs[0].Desc.Name == "" || devs[1].Desc.Name == "" {
		t.Errorf("anonymous sighting replaced a named one")
	}
}

func TestAdapterEvents(t *testing.T) {
	m, x := newMgr(t)

	ch := m.Events(4)
	evt := xport.AdapterEvent{
		Type: xport.ADAPTER_EVENT_DISCONNECTED,
		Addr: sctest.Addr(1),
	}
	x.Emit(evt)

	select {
	case v := <-ch:
		if v.(xport.AdapterEvent) != evt {
			t.Errorf("got %v", v)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("event not delivered")
	}

	m.Stop()
	for range ch {
	}
}
