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

// Package devmgr keeps at most one session per device and fans adapter
// events out to listeners.
package devmgr

import (
	"context"
	"fmt"
	"sync"
	"time"
	"weak"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/soundcore-tools/scmgr/scxact/bledefs"
	"github.com/soundcore-tools/scmgr/scxact/product"
	"github.com/soundcore-tools/scmgr/scxact/scxutil"
	"github.com/soundcore-tools/scmgr/scxact/sesn"
	"github.com/soundcore-tools/scmgr/scxact/xport"
)

type MgrCfg struct {
	SesnCfg sesn.SesnCfg

	// Characteristics to use; nil lets the transport discover them.
	Uuids *bledefs.UuidSet

	ScanDuration time.Duration
}

func NewMgrCfg() MgrCfg {
	return MgrCfg{
		SesnCfg:      sesn.NewSesnCfg(),
		ScanDuration: 5 * time.Second,
	}
}

type DiscoveredDevice struct {
	Desc    bledefs.DeviceDesc
	Product product.Code

	// The address carries one of the vendor's prefixes.  Set for devices
	// whose name gives no product as well.
	Vendor bool
}

func (d DiscoveredDevice) String() string {
	s := fmt.Sprintf("%s [%s]", d.Desc, d.Product)
	if d.Vendor {
		s += " vendor"
	}
	return s
}

// Owns the transport and the address to session map.  The map holds weak
// references: a session nobody uses any more is collected and closes
// itself, and the next Connect creates a fresh one.
type Mgr struct {
	xp     xport.Xport
	cfg    MgrCfg
	mtx    sync.RWMutex
	sesns  map[bledefs.BleAddr]weak.Pointer[sesn.Sesn]
	bcast  scxutil.Bcaster
	stopCh chan struct{}
	wg     sync.WaitGroup
}

func NewMgr(xp xport.Xport, cfg MgrCfg) *Mgr {
	return &Mgr{
		xp:    xp,
		cfg:   cfg,
		sesns: map[bledefs.BleAddr]weak.Pointer[sesn.Sesn]{},
	}
}

// Starts the transport and the adapter event fan-out.
func (m *Mgr) Start() error {
	if err := m.xp.Start(); err != nil {
		return errors.Wrap(err, "failed to start transport")
	}

	m.stopCh = make(chan struct{})
	evtCh := m.xp.AdapterEvents()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer m.bcast.Clear()

		for {
			select {
			case evt, ok := <-evtCh:
				if !ok {
					return
				}
				log.Debugf("adapter event: %s", evt)
				m.bcast.Send(evt)

			case <-m.stopCh:
				return
			}
		}
	}()

	return nil
}

// Closes every session and stops the transport.
func (m *Mgr) Stop() error {
	m.DisconnectAll()

	if m.stopCh != nil {
		close(m.stopCh)
		m.wg.Wait()
		m.stopCh = nil
	}

	return m.xp.Stop()
}

// Returns a channel of xport.AdapterEvent values.  Release it with
// StopEvents.
func (m *Mgr) Events(depth int) <-chan interface{} {
	return m.bcast.Listen(depth)
}

func (m *Mgr) StopEvents(ch <-chan interface{}) {
	m.bcast.Unlisten(ch)
}

// Scans for devices and labels each with the product its advertised name
// suggests and whether its address is the vendor's.  Duplicate addresses are merged; a named sighting wins over an
// anonymous one.
func (m *Mgr) Scan(ctx context.Context,
	dur time.Duration) ([]DiscoveredDevice, error) {

	if dur == 0 {
		dur = m.cfg.ScanDuration
	}

	scanner, err := m.xp.BuildScanner()
	if err != nil {
		return nil, err
	}

	descs, err := scanner.Scan(ctx, dur)
	if err != nil {
		return nil, errors.Wrap(err, "scan failed")
	}

	idxMap := map[bledefs.BleAddr]int{}
	var devs []DiscoveredDevice

	for _, d := range descs {
		if i, ok := idxMap[d.Addr]; ok {
			if devs[i].Desc.Name == "" && d.Name != "" {
				devs[i] = discovered(d)
			}
			continue
		}

		idxMap[d.Addr] = len(devs)
		devs = append(devs, discovered(d))
	}

	return devs, nil
}

func discovered(d bledefs.DeviceDesc) DiscoveredDevice {
	return DiscoveredDevice{
		Desc:    d,
		Product: product.FromName(d.Name),
		Vendor:  d.Addr.IsSoundcore(),
	}
}

// Must be called with the lock held.
func (m *Mgr) liveSesn(addr bledefs.BleAddr) *sesn.Sesn {
	wp, ok := m.sesns[addr]
	if !ok {
		return nil
	}

	s := wp.Value()
	if s == nil || !s.IsOpen() {
		return nil
	}
	return s
}

// Returns the live session with a device, creating it if necessary.
// Concurrent calls for the same address share one session.
func (m *Mgr) Connect(ctx context.Context,
	desc bledefs.DeviceDesc) (*sesn.Sesn, error) {

	m.mtx.RLock()
	s := m.liveSesn(desc.Addr)
	m.mtx.RUnlock()
	if s != nil {
		return s, nil
	}

	// The write lock is held across the handshake; connects are serialised
	// so that a second caller finds the first caller's session.
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if s := m.liveSesn(desc.Addr); s != nil {
		return s, nil
	}

	log.Debugf("connecting to %s", desc)

	conn, err := m.xp.Connect(ctx, desc, m.cfg.Uuids)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect to %s", desc.Addr)
	}

	cfg := m.cfg.SesnCfg
	userCb := cfg.OnCloseCb
	cfg.OnCloseCb = func(addr bledefs.BleAddr, err error) {
		m.forget(addr)
		if userCb != nil {
			userCb(addr, err)
		}
	}

	s, err = sesn.Open(ctx, conn, cfg)
	if err != nil {
		return nil, err
	}

	m.sesns[desc.Addr] = weak.Make(s)
	return s, nil
}

// Drops a map entry whose session is gone.
func (m *Mgr) forget(addr bledefs.BleAddr) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if m.liveSesn(addr) == nil {
		delete(m.sesns, addr)
	}
}

func (m *Mgr) Session(addr bledefs.BleAddr) (*sesn.Sesn, error) {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	s := m.liveSesn(addr)
	if s == nil {
		return nil, scxutil.FmtDeviceNotFoundError(
			"no session with %s", addr)
	}
	return s, nil
}

// Removes the session from the map and closes it.  Holders of the session
// see their subscriptions end.
func (m *Mgr) Disconnect(addr bledefs.BleAddr) error {
	m.mtx.Lock()
	s := m.liveSesn(addr)
	delete(m.sesns, addr)
	m.mtx.Unlock()

	if s == nil {
		return scxutil.FmtDeviceNotFoundError("no session with %s", addr)
	}

	log.Debugf("disconnecting from %s", addr)
	if err := s.Close(); err != nil && !scxutil.IsSesnClosed(err) {
		return err
	}
	return nil
}

func (m *Mgr) DisconnectAll() {
	m.mtx.Lock()
	var live []*sesn.Sesn
	for addr := range m.sesns {
		if s := m.liveSesn(addr); s != nil {
			live = append(live, s)
		}
	}
	m.sesns = map[bledefs.BleAddr]weak.Pointer[sesn.Sesn]{}
	m.mtx.Unlock()

	for _, s := range live {
		s.Close()
	}
}

// Number of map entries whose session is still open.
func (m *Mgr) NumSessions() int {
	m.mtx.RLock()
	defer m.mtx.RUnlock()

	n := 0
	for addr := range m.sesns {
		if m.liveSesn(addr) != nil {
			n++
		}
	}
	return n
}
