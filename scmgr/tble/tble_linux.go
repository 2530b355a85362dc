//go:build linux

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
	"tinygo.org/x/bluetooth"

	"github.com/soundcore-tools/scmgr/scmgr/bluez"
	"github.com/soundcore-tools/scmgr/scxact/bledefs"
)

// The MAC is stored least significant byte first.
func bleAddr(a bluetooth.Address) (bledefs.BleAddr, error) {
	var u64 uint64
	for i, b := range a.MAC {
		u64 |= uint64(b) << (8 * uint(i))
	}
	return bledefs.BleAddrFromUint64(u64), nil
}

// BlueZ reports every device the host connects to, including links owned
// by other applications.
func startEventSource(tx *TbleXport) (func(), error) {
	w, err := bluez.NewWatcher(tx.cfg.HciIdx)
	if err != nil {
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for evt := range w.Events() {
			tx.onAdapterEvent(evt)
		}
	}()

	return func() {
		w.Close()
		<-done
	}, nil
}
