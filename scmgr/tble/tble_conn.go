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


package tble

import (
	"sync"

	log "github.com/sirupsen/logrus"
	"tinygo.org/x/bluetooth"

	"github.com/soundcore-tools/scmgr/scxact/bledefs"
	"github.com/soundcore-tools/scmgr/scxact/scxutil"
	"github.com/soundcore-tools/scmgr/scxact/xport"
)

type tbleConn struct {
	tx   *TbleXport
	desc bledefs.DeviceDesc
	dev  bluetooth.Device

	rdChr *bluetooth.DeviceCharacteristic
	wrChr *bluetooth.DeviceCharacteristic

	mtx      sync.Mutex
	notifyCh chan []byte
	closed   bool
}

func newTbleConn(tx *TbleXport, desc bledefs.DeviceDesc,
	dev bluetooth.Device) *tbleConn {

	return &tbleConn{
		tx:       tx,
		desc:     desc,
		dev:      dev,
		notifyCh: make(chan []byte, xport.NOTIFY_CHAN_DEPTH),
	}
}

func uuidFromTble(u bluetooth.UUID) (bledefs.BleUuid, error) {
	return bledefs.ParseUuid(u.String())
}

func (c *tbleConn) onNotify(data []byte) {
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

// The stack does not report characteristic properties, so without a
// configured triple the read characteristic is the first one of a
// non-blacklisted service that accepts a notification subscription, and the
// write characteristic is the first other one.
func (c *tbleConn) probe(svcs []bluetooth.DeviceService) error {
	candidates := 0

	for i := range svcs {
		su, err := uuidFromTble(svcs[i].UUID())
		if err != nil || bledefs.IsBlacklistedSvc(su) {
			continue
		}
		candidates++

		chrs, err := svcs[i].DiscoverCharacteristics(nil)
		if err != nil {
			log.Debugf("%s: %s", su, err.Error())
			continue
		}

		var rd, wr *bluetooth.DeviceCharacteristic
		for j := range chrs {
			chr := &chrs[j]
			if rd == nil && chr.EnableNotifications(c.onNotify) == nil {
				rd = chr
			} else if wr == nil {
				wr = chr
			}
		}

		if rd != nil && wr != nil {
			log.Debugf("%s: using service %s", c.desc.Addr, su)
			c.rdChr = rd
			c.wrChr = wr
			return nil
		}
	}

	if candidates == 0 {
		return scxutil.NewMissingServiceError("no data service in GATT profile")
	}
	return scxutil.NewMissingCharacteristicError(
		"no service offers notify and write characteristics")
}

func (c *tbleConn) find(svcs []bluetooth.DeviceService,
	us *bledefs.UuidSet) error {

	for i := range svcs {
		su, err := uuidFromTble(svcs[i].UUID())
		if err != nil || bledefs.CompareUuids(su, us.SvcUuid) != 0 {
			continue
		}

		chrs, err := svcs[i].DiscoverCharacteristics(nil)
		if err != nil {
			return err
		}

		for j := range chrs {
			cu, err := uuidFromTble(chrs[j].UUID())
			if err != nil {
				continue
			}
			if bledefs.CompareUuids(cu, us.ReadChrUuid) == 0 {
				c.rdChr = &chrs[j]
			}
			if bledefs.CompareUuids(cu, us.WriteChrUuid) == 0 {
				c.wrChr = &chrs[j]
			}
		}

		if c.rdChr == nil || c.wrChr == nil {
			return scxutil.FmtMissingCharacteristicError(
				"characteristics of %s not found", us.String())
		}
		return c.rdChr.EnableNotifications(c.onNotify)
	}

	return scxutil.NewMissingServiceError(
		"service " + us.SvcUuid.String() + " not found")
}

func (c *tbleConn) discover(uuids *bledefs.UuidSet) error {
	log.Debugf("Discovering services of %s", c.desc.Addr)

	svcs, err := c.dev.DiscoverServices(nil)
	if err != nil {
		return err
	}

	if uuids == nil {
		return c.probe(svcs)
	}
	return c.find(svcs, uuids)
}

func (c *tbleConn) shutdown() bool {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.closed {
		return false
	}

	c.closed = true
	close(c.notifyCh)
	return true
}

func (c *tbleConn) Desc() bledefs.DeviceDesc {
	return c.desc
}

func (c *tbleConn) Notifications() <-chan []byte {
	return c.notifyCh
}

func (c *tbleConn) Write(b []byte, wt xport.WriteType) error {
	c.mtx.Lock()
	closed := c.closed
	c.mtx.Unlock()

	if closed {
		return scxutil.FmtXportError("write to %s: disconnected", c.desc.Addr)
	}

	// Acknowledged writes are not available on every platform; the device
	// accepts both.
	if wt == xport.WRITE_TYPE_WITH_RSP {
		log.Debugf("%s: sending acknowledged write without response",
			c.desc.Addr)
	}

	if _, err := c.wrChr.WriteWithoutResponse(b); err != nil {
		return scxutil.FmtXportError("write to %s: %s",
			c.desc.Addr, err.Error())
	}
	return nil
}

func (c *tbleConn) Close() error {
	if !c.shutdown() {
		return scxutil.NewSesnClosedError(
			"attempt to close a closed connection")
	}

	c.tx.forget(c)
	return c.dev.Disconnect()
}
