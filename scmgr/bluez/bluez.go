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


// Package bluez reports device connect and disconnect events from the BlueZ
// daemon over D-Bus.
package bluez

import (
	"fmt"
	"strings"
	"sync"

	"github.com/godbus/dbus/v5"
	log "github.com/sirupsen/logrus"

	"github.com/soundcore-tools/scmgr/scxact/bledefs"
	"github.com/soundcore-tools/scmgr/scxact/xport"
)

const (
	BUS_NAME     = "org.bluez"
	DEVICE_IFACE = "org.bluez.Device1"
	PROPS_IFACE  = "org.freedesktop.DBus.Properties"
	PROPS_SIGNAL = PROPS_IFACE + ".PropertiesChanged"

	EVT_CHAN_DEPTH = 16
)

func AdapterPath(hciIdx int) dbus.ObjectPath {
	return dbus.ObjectPath(fmt.Sprintf("/org/bluez/hci%d", hciIdx))
}

// "/org/bluez/hci0" + AA:BB:.. -> "/org/bluez/hci0/dev_AA_BB_..".
func DevicePath(adapter dbus.ObjectPath,
	addr bledefs.BleAddr) dbus.ObjectPath {

	dev := strings.ReplaceAll(addr.String(), ":", "_")
	return dbus.ObjectPath(string(adapter) + "/dev_" + dev)
}

func AddrFromPath(adapter dbus.ObjectPath,
	path dbus.ObjectPath) (bledefs.BleAddr, error) {

	prefix := string(adapter) + "/dev_"
	s := string(path)
	if !strings.HasPrefix(s, prefix) {
		return bledefs.BleAddr{}, fmt.Errorf("not a device of %s: %s",
			adapter, path)
	}

	// Paths of a device's own objects (services, characteristics) extend
	// the device path.
	dev := s[len(prefix):]
	if i := strings.IndexByte(dev, '/'); i >= 0 {
		return bledefs.BleAddr{}, fmt.Errorf("not a device: %s", path)
	}

	return bledefs.ParseBleAddr(strings.ReplaceAll(dev, "_", ":"))
}

// Translates a PropertiesChanged signal that flips a device's Connected
// property.
func EventFromSignal(adapter dbus.ObjectPath,
	sig *dbus.Signal) (xport.AdapterEvent, bool) {

	evt := xport.AdapterEvent{}

	if sig.Name != PROPS_SIGNAL || len(sig.Body) < 2 {
		return evt, false
	}

	iface, ok := sig.Body[0].(string)
	if !ok || iface != DEVICE_IFACE {
		return evt, false
	}

	changed, ok := sig.Body[1].(map[string]dbus.Variant)
	if !ok {
		return evt, false
	}

	v, ok := changed["Connected"]
	if !ok {
		return evt, false
	}
	connected, ok := v.Value().(bool)
	if !ok {
		return evt, false
	}

	addr, err := AddrFromPath(adapter, sig.Path)
	if err != nil {
		return evt, false
	}

	evt.Addr = addr
	if connected {
		evt.Type = xport.ADAPTER_EVENT_CONNECTED
	} else {
		evt.Type = xport.ADAPTER_EVENT_DISCONNECTED
	}
	return evt, true
}

type Watcher struct {
	adapter dbus.ObjectPath
	conn    *dbus.Conn
	sigCh   chan *dbus.Signal
	evtCh   chan xport.AdapterEvent
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// Subscribes to device property changes under the adapter.  Fails if the
// system bus or the BlueZ daemon is unavailable.
func NewWatcher(hciIdx int) (*Watcher, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, fmt.Errorf("connect to system bus: %s", err.Error())
	}

	w := &Watcher{
		adapter: AdapterPath(hciIdx),
		conn:    conn,
		sigCh:   make(chan *dbus.Signal, EVT_CHAN_DEPTH),
		evtCh:   make(chan xport.AdapterEvent, EVT_CHAN_DEPTH),
		stopCh:  make(chan struct{}),
	}

	if err := w.checkBluez(); err != nil {
		conn.Close()
		return nil, err
	}

	rule := fmt.Sprintf("type='signal',interface='%s',"+
		"member='PropertiesChanged',path_namespace='%s'",
		PROPS_IFACE, w.adapter)
	call := conn.BusObject().Call("org.freedesktop.DBus.AddMatch", 0, rule)
	if call.Err != nil {
		conn.Close()
		return nil, fmt.Errorf("add match: %s", call.Err.Error())
	}

	conn.Signal(w.sigCh)

	w.wg.Add(1)
	go w.run()

	return w, nil
}

func (w *Watcher) checkBluez() error {
	var names []string
	err := w.conn.BusObject().Call("org.freedesktop.DBus.ListNames", 0).
		Store(&names)
	if err != nil {
		return fmt.Errorf("list bus names: %s", err.Error())
	}

	for _, n := range names {
		if n == BUS_NAME {
			return nil
		}
	}

	return fmt.Errorf("%s not found on the system bus", BUS_NAME)
}

func (w *Watcher) run() {
	defer w.wg.Done()
	defer close(w.evtCh)

	for {
		select {
		case sig, ok := <-w.sigCh:
			if !ok {
				return
			}

			evt, ok := EventFromSignal(w.adapter, sig)
			if !ok {
				continue
			}

			log.Debugf("bluez: %s", evt)
			select {
			case w.evtCh <- evt:
			default:
				log.Debugf("bluez: event queue full; dropping %s", evt)
			}

		case <-w.stopCh:
			return
		}
	}
}

// Closed when the watcher stops.
func (w *Watcher) Events() <-chan xport.AdapterEvent {
	return w.evtCh
}

// Asks BlueZ to drop its link with a device.
func (w *Watcher) Disconnect(addr bledefs.BleAddr) error {
	obj := w.conn.Object(BUS_NAME, DevicePath(w.adapter, addr))
	return obj.Call(DEVICE_IFACE+".Disconnect", 0).Err
}

func (w *Watcher) Close() error {
	close(w.stopCh)
	w.conn.RemoveSignal(w.sigCh)
	w.wg.Wait()

	return w.conn.Close()
}
