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


// Package tble talks to devices through the operating system's Bluetooth
// stack with tinygo's bluetooth package.
package tble

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"tinygo.org/x/bluetooth"

	"github.com/soundcore-tools/scmgr/scxact/bledefs"
	"github.com/soundcore-tools/scmgr/scxact/scxutil"
	"github.com/soundcore-tools/scmgr/scxact/xport"
)

type XportCfg struct {
	HciIdx      int
	ConnTimeout time.Duration
	ConnTries   int
}

func NewXportCfg() XportCfg {
	return XportCfg{
		ConnTimeout: 10 * time.Second,
		ConnTries:   3,
	}
}

const EVT_CHAN_DEPTH = 16

type TbleXport struct {
	cfg     XportCfg
	adapter *bluetooth.Adapter

	// Serialises scans; the adapter runs one at a time.
	scanMtx sync.Mutex

	mtx     sync.Mutex
	conns   map[bledefs.BleAddr]*tbleConn
	evtCh   chan xport.AdapterEvent
	started bool
	stopEvt func()
}

func NewTbleXport(cfg XportCfg) *TbleXport {
	return &TbleXport{
		cfg:     cfg,
		adapter: bluetooth.DefaultAdapter,
		conns:   map[bledefs.BleAddr]*tbleConn{},
	}
}

func (tx *TbleXport) Start() error {
	if err := tx.adapter.Enable(); err != nil {
		return errors.Wrap(err, "failed to enable bluetooth adapter")
	}

	tx.mtx.Lock()
	tx.evtCh = make(chan xport.AdapterEvent, EVT_CHAN_DEPTH)
	tx.started = true
	tx.mtx.Unlock()

	stop, err := startEventSource(tx)
	if err != nil {
		// Link loss is still noticed through failed writes.
		log.Warnf("adapter events unavailable: %s", err.Error())
		stop = func() {}
	}
	tx.stopEvt = stop

	return nil
}

func (tx *TbleXport) Stop() error {
	if tx.stopEvt != nil {
		tx.stopEvt()
		tx.stopEvt = nil
	}

	tx.mtx.Lock()
	conns := make([]*tbleConn, 0, len(tx.conns))
	for _, c := range tx.conns {
		conns = append(conns, c)
	}
	if tx.started {
		close(tx.evtCh)
		tx.started = false
	}
	tx.mtx.Unlock()

	for _, c := range conns {
		c.Close()
	}

	return nil
}

func (tx *TbleXport) isStarted() bool {
	tx.mtx.Lock()
	defer tx.mtx.Unlock()

	return tx.started
}

func (tx *TbleXport) AdapterEvents() <-chan xport.AdapterEvent {
	tx.mtx.Lock()
	defer tx.mtx.Unlock()

	return tx.evtCh
}

// Called by the event source.  A disconnect of a device we hold a
// connection to ends that connection.
func (tx *TbleXport) onAdapterEvent(evt xport.AdapterEvent) {
	tx.mtx.Lock()
	c := tx.conns[evt.Addr]
	if evt.Type == xport.ADAPTER_EVENT_DISCONNECTED {
		delete(tx.conns, evt.Addr)
	}

	if tx.started {
		select {
		case tx.evtCh <- evt:
		default:
			log.Debugf("adapter event queue full; dropping %s", evt)
		}
	}
	tx.mtx.Unlock()

	if c != nil && evt.Type == xport.ADAPTER_EVENT_DISCONNECTED {
		c.shutdown()
	}
}

func (tx *TbleXport) forget(c *tbleConn) {
	tx.mtx.Lock()
	defer tx.mtx.Unlock()

	if tx.conns[c.desc.Addr] == c {
		delete(tx.conns, c.desc.Addr)
	}
}

// Runs a scan, calling fn for each result, until dur elapses, ctx is done
// or fn returns false.
func (tx *TbleXport) scan(ctx context.Context, dur time.Duration,
	fn func(r bluetooth.ScanResult) bool) error {

	tx.scanMtx.Lock()
	defer tx.scanMtx.Unlock()

	sctx, cancel := context.WithTimeout(ctx, dur)
	defer cancel()

	done := make(chan struct{})
	go func() {
		select {
		case <-sctx.Done():
			tx.adapter.StopScan()
		case <-done:
		}
	}()

	err := tx.adapter.Scan(func(a *bluetooth.Adapter, r bluetooth.ScanResult) {
		if !fn(r) {
			a.StopScan()
		}
	})
	close(done)

	if err != nil && sctx.Err() == nil {
		return errors.Wrap(err, "scan failed")
	}
	return ctx.Err()
}

type tbleScanner struct {
	tx *TbleXport
}

func (tx *TbleXport) BuildScanner() (xport.Scanner, error) {
	if !tx.isStarted() {
		return nil, scxutil.NewXportError("transport not started")
	}
	return &tbleScanner{tx: tx}, nil
}

func (s *tbleScanner) Scan(ctx context.Context,
	dur time.Duration) ([]bledefs.DeviceDesc, error) {

	var descs []bledefs.DeviceDesc
	skipped := 0

	err := s.tx.scan(ctx, dur, func(r bluetooth.ScanResult) bool {
		addr, err := bleAddr(r.Address)
		if err != nil {
			// macOS identifies peers by UUID rather than address.
			log.Debugf("skipping %s: %s", r.Address.String(), err.Error())
			skipped++
			return true
		}

		descs = append(descs, bledefs.DeviceDesc{
			Addr:   addr,
			Name:   r.LocalName(),
			Handle: r.Address,
		})
		return true
	})
	if err != nil {
		return nil, err
	}

	if len(descs) == 0 && skipped > 0 {
		log.Warnf("%d devices were reported without a MAC address; "+
			"this platform is not supported", skipped)
	}
	return descs, nil
}

// Finds the adapter's handle for a device that was not part of a scan.
func (tx *TbleXport) resolve(ctx context.Context,
	desc bledefs.DeviceDesc) (bluetooth.Address, error) {

	if a, ok := desc.Handle.(bluetooth.Address); ok {
		return a, nil
	}

	var found *bluetooth.Address
	want := desc.Addr.String()

	err := tx.scan(ctx, tx.cfg.ConnTimeout, func(r bluetooth.ScanResult) bool {
		if strings.EqualFold(r.Address.String(), want) {
			a := r.Address
			found = &a
			return false
		}
		return true
	})
	if err != nil {
		return bluetooth.Address{}, err
	}

	if found == nil {
		return bluetooth.Address{}, scxutil.FmtDeviceNotFoundError(
			"%s not seen within %s", want, tx.cfg.ConnTimeout)
	}
	return *found, nil
}

func (tx *TbleXport) connectOnce(ctx context.Context, desc bledefs.DeviceDesc,
	uuids *bledefs.UuidSet) (*tbleConn, error) {

	addr, err := tx.resolve(ctx, desc)
	if err != nil {
		return nil, err
	}

	log.Debugf("Connecting to %s", desc)

	type result struct {
		dev bluetooth.Device
		err error
	}

	// The adapter's connect has its own timeout and cannot be cancelled.
	ch := make(chan result, 1)
	go func() {
		dev, err := tx.adapter.Connect(addr, bluetooth.ConnectionParams{
			ConnectionTimeout: bluetooth.NewDuration(tx.cfg.ConnTimeout),
		})
		ch <- result{dev, err}
	}()

	var res result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if res.err != nil {
		return nil, res.err
	}

	c := newTbleConn(tx, desc, res.dev)
	if err := c.discover(uuids); err != nil {
		c.Close()
		return nil, err
	}

	return c, nil
}

func (tx *TbleXport) Connect(ctx context.Context, desc bledefs.DeviceDesc,
	uuids *bledefs.UuidSet) (xport.Conn, error) {

	if !tx.isStarted() {
		return nil, scxutil.NewXportError("transport not started")
	}

	var err error = scxutil.NewXportError("no connect attempts configured")
	for i := 0; i < tx.cfg.ConnTries; i++ {
		var c *tbleConn

		c, err = tx.connectOnce(ctx, desc, uuids)
		if err == nil {
			tx.mtx.Lock()
			tx.conns[desc.Addr] = c
			tx.mtx.Unlock()
			return c, nil
		}

		if ctx.Err() != nil || scxutil.IsMissingService(err) ||
			scxutil.IsMissingCharacteristic(err) {
			break
		}
		log.Debugf("connect attempt %d to %s failed: %s",
			i+1, desc.Addr, err.Error())
	}

	return nil, errors.Wrapf(err, "connect to %s failed", desc.Addr)
}
