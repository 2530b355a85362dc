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


package bll

import (
	"sync"

	"github.com/go-ble/ble"
	log "github.com/sirupsen/logrus"

	"github.com/soundcore-tools/scmgr/scxact/bledefs"
	"github.com/soundcore-tools/scmgr/scxact/scxutil"
	"github.com/soundcore-tools/scmgr/scxact/xport"
)

type bllConn struct {
	bx     *BllXport
	desc   bledefs.DeviceDesc
	cln    ble.Client
	attMtu uint16

	rdChr *ble.Characteristic
	wrChr *ble.Characteristic

	// Guards notifyCh; go-ble may deliver a notification after the link
	// has dropped.
	mtx      sync.Mutex
	notifyCh chan []byte
	closed   bool
}

func newBllConn(bx *BllXport, desc bledefs.DeviceDesc,
	cln ble.Client) *bllConn {

	return &bllConn{
		bx:       bx,
		desc:     desc,
		cln:      cln,
		notifyCh: make(chan []byte, xport.NOTIFY_CHAN_DEPTH),
	}
}

func (c *bllConn) discover(uuids *bledefs.UuidSet) error {
	log.Debugf("Discovering profile of %s", c.desc.Addr)

	p, err := c.cln.DiscoverProfile(true)
	if err != nil {
		return err
	}

	svcs := gattSvcs(p)

	var us bledefs.UuidSet
	if uuids == nil {
		if us, err = xport.SelectUuidSet(svcs); err != nil {
			return err
		}
		log.Debugf("%s: using %s", c.desc.Addr, us.String())
	} else {
		us = *uuids
		if err := xport.FindUuidSet(svcs, us); err != nil {
			return err
		}
	}

	c.rdChr = findChr(p, us.SvcUuid, us.ReadChrUuid)
	c.wrChr = findChr(p, us.SvcUuid, us.WriteChrUuid)
	if c.rdChr == nil || c.wrChr == nil {
		return scxutil.FmtMissingCharacteristicError(
			"characteristics of %s not found", us.String())
	}

	return nil
}

func (c *bllConn) onNotify(data []byte) {
	b := make([]byte, len(data))
	copy(b, data)

	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.closed {
		return
	}

	select {
	case c.notifyCh <- b:
	default:
		log.Warnf("%s: notification queue full; dropping %d bytes",
			c.desc.Addr, len(b))
	}
}

func (c *bllConn) subscribe() error {
	log.Debugf("Subscribing to %s", c.rdChr.UUID.String())
	return c.cln.Subscribe(c.rdChr, false, c.onNotify)
}

func (c *bllConn) listenDisconnect() {
	go func() {
		<-c.cln.Disconnected()
		log.Debugf("%s disconnected", c.desc.Addr)

		c.shutdown()
		c.bx.emit(xport.ADAPTER_EVENT_DISCONNECTED, c.desc.Addr)
	}()
}

// Returns false if already shut down.
func (c *bllConn) shutdown() bool {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.closed {
		return false
	}

	c.closed = true
	close(c.notifyCh)
	return true
}

func (c *bllConn) Desc() bledefs.DeviceDesc {
	return c.desc
}

func (c *bllConn) Notifications() <-chan []byte {
	return c.notifyCh
}

func (c *bllConn) Write(b []byte, wt xport.WriteType) error {
	c.mtx.Lock()
	closed := c.closed
	c.mtx.Unlock()

	if closed {
		return scxutil.FmtXportError("write to %s: disconnected", c.desc.Addr)
	}

	return c.cln.WriteCharacteristic(c.wrChr, b,
		wt == xport.WRITE_TYPE_WITHOUT_RSP)
}

func (c *bllConn) Close() error {
	if !c.shutdown() {
		return scxutil.NewSesnClosedError(
			"attempt to close a closed connection")
	}

	return c.cln.CancelConnection()
}
