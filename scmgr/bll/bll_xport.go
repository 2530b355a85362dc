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


// Package bll talks to devices through the host's HCI controller with
// go-ble.
package bll

import (
	"context"
	"sync"
	"time"

	"github.com/go-ble/ble"
	"github.com/go-ble/ble/examples/lib/dev"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/soundcore-tools/scmgr/scmgr/scutil"
	"github.com/soundcore-tools/scmgr/scxact/bledefs"
	"github.com/soundcore-tools/scmgr/scxact/scxutil"
	"github.com/soundcore-tools/scmgr/scxact/xport"
)

type XportCfg struct {
	CtlrName     string
	HciIdx       int
	PreferredMtu uint16
	ConnTimeout  time.Duration
	ConnTries    int
}

func NewXportCfg() XportCfg {
	return XportCfg{
		CtlrName:     "default",
		PreferredMtu: 512,
		ConnTimeout:  10 * time.Second,
		ConnTries:    3,
	}
}

const EVT_CHAN_DEPTH = 16

type BllXport struct {
	cfg XportCfg
	dev ble.Device

	mtx    sync.Mutex
	evtCh  chan xport.AdapterEvent
	evtsOn bool
}

func NewBllXport(cfg XportCfg) *BllXport {
	return &BllXport{
		cfg: cfg,
	}
}

func (bx *BllXport) Start() error {
	d, err := dev.NewDevice(bx.cfg.CtlrName, ble.OptDeviceID(bx.cfg.HciIdx))
	if err != nil {
		return err
	}

	ble.SetDefaultDevice(d)
	bx.dev = d

	if err := setConnParams(d); err != nil {
		log.Warnf("%s", err.Error())
	}

	bx.mtx.Lock()
	bx.evtCh = make(chan xport.AdapterEvent, EVT_CHAN_DEPTH)
	bx.evtsOn = true
	bx.mtx.Unlock()

	return nil
}

func (bx *BllXport) Stop() error {
	bx.mtx.Lock()
	if bx.evtsOn {
		close(bx.evtCh)
		bx.evtsOn = false
	}
	bx.mtx.Unlock()

	if bx.dev == nil {
		return nil
	}
	bx.dev = nil

	return ble.Stop()
}

func (bx *BllXport) AdapterEvents() <-chan xport.AdapterEvent {
	bx.mtx.Lock()
	defer bx.mtx.Unlock()

	return bx.evtCh
}

// The HCI transport only knows about its own connections, so those are the
// only ones reported.
func (bx *BllXport) emit(t xport.AdapterEventType, addr bledefs.BleAddr) {
	bx.mtx.Lock()
	defer bx.mtx.Unlock()

	if !bx.evtsOn {
		return
	}

	select {
	case bx.evtCh <- xport.AdapterEvent{Type: t, Addr: addr}:
	default:
		log.Debugf("adapter event queue full; dropping %s event", t)
	}
}

type bllScanner struct{}

func (bx *BllXport) BuildScanner() (xport.Scanner, error) {
	if bx.dev == nil {
		return nil, scxutil.NewXportError("transport not started")
	}
	return &bllScanner{}, nil
}

func (s *bllScanner) Scan(ctx context.Context,
	dur time.Duration) ([]bledefs.DeviceDesc, error) {

	var mtx sync.Mutex
	var descs []bledefs.DeviceDesc

	onAdv := func(a ble.Advertisement) {
		if !a.Connectable() {
			return
		}

		addr, err := bledefs.ParseBleAddr(a.Addr().String())
		if err != nil {
			return
		}

		mtx.Lock()
		descs = append(descs, bledefs.DeviceDesc{
			Addr:   addr,
			Name:   a.LocalName(),
			Handle: a.Addr(),
		})
		mtx.Unlock()
	}

	sctx, cancel := context.WithTimeout(ctx, dur)
	defer cancel()

	err := ble.Scan(sctx, false, onAdv, nil)
	if err != nil && !scutil.ErrorCausedBy(err, context.DeadlineExceeded) {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	mtx.Lock()
	defer mtx.Unlock()

	return descs, nil
}

func peerAddr(desc bledefs.DeviceDesc) ble.Addr {
	if a, ok := desc.Handle.(ble.Addr); ok {
		return a
	}
	return ble.NewAddr(desc.Addr.String())
}

func (bx *BllXport) dial(ctx context.Context,
	desc bledefs.DeviceDesc) (ble.Client, error) {

	cctx, cancel := context.WithTimeout(ctx, bx.cfg.ConnTimeout)
	defer cancel()

	cln, err := ble.Dial(cctx, peerAddr(desc))
	if err != nil {
		if scutil.ErrorCausedBy(err, context.DeadlineExceeded) {
			return nil, scxutil.FmtXportError(
				"failed to connect to %s after %s",
				desc.Addr, bx.cfg.ConnTimeout.String())
		}
		return nil, err
	}

	return cln, nil
}

// @return bool                 Whether to retry the connect attempt; false
//                                  on success.
//         error                The cause of a failed attempt; nil on
//                                  success.
func (bx *BllXport) connectOnce(ctx context.Context, desc bledefs.DeviceDesc,
	uuids *bledefs.UuidSet) (*bllConn, bool, error) {

	log.Debugf("Connecting to %s", desc)

	cln, err := bx.dial(ctx, desc)
	if err != nil {
		return nil, ctx.Err() == nil, err
	}

	c := newBllConn(bx, desc, cln)

	mtu, err := exchangeMtu(cln, bx.cfg.PreferredMtu)
	if err != nil {
		c.Close()
		return nil, true, err
	}
	c.attMtu = mtu

	if err := c.discover(uuids); err != nil {
		c.Close()
		return nil, false, err
	}

	if err := c.subscribe(); err != nil {
		c.Close()
		return nil, false, err
	}

	return c, false, nil
}

func (bx *BllXport) Connect(ctx context.Context, desc bledefs.DeviceDesc,
	uuids *bledefs.UuidSet) (xport.Conn, error) {

	if bx.dev == nil {
		return nil, scxutil.NewXportError("transport not started")
	}

	var err error = scxutil.NewXportError("no connect attempts configured")
	for i := 0; i < bx.cfg.ConnTries; i++ {
		var c *bllConn
		var retry bool

		c, retry, err = bx.connectOnce(ctx, desc, uuids)
		if err == nil {
			bx.emit(xport.ADAPTER_EVENT_CONNECTED, desc.Addr)
			c.listenDisconnect()
			return c, nil
		}

		if !retry {
			break
		}
		log.Debugf("connect attempt %d to %s failed: %s",
			i+1, desc.Addr, err.Error())
	}

	return nil, errors.Wrapf(err, "connect to %s failed", desc.Addr)
}
