//go:build !linux

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
	log "github.com/sirupsen/logrus"
	"tinygo.org/x/bluetooth"

	"github.com/soundcore-tools/scmgr/scxact/bledefs"
	"github.com/soundcore-tools/scmgr/scxact/xport"
)

func bleAddr(a bluetooth.Address) (bledefs.BleAddr, error) {
	return bledefs.ParseBleAddr(a.String())
}

func startEventSource(tx *TbleXport) (func(), error) {
	tx.adapter.SetConnectHandler(func(dev bluetooth.Device, connected bool) {
		addr, err := bleAddr(dev.Address)
		if err != nil {
			log.Debugf("connect event for %s: %s",
				dev.Address.String(), err.Error())
			return
		}

		evt := xport.AdapterEvent{
			Type: xport.ADAPTER_EVENT_DISCONNECTED,
			Addr: addr,
		}
		if connected {
			evt.Type = xport.ADAPTER_EVENT_CONNECTED
		}
		tx.onAdapterEvent(evt)
	})

	return func() {
		tx.adapter.SetConnectHandler(func(bluetooth.Device, bool) {})
	}, nil
}
