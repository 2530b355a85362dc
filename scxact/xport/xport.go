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

// Package xport defines what the protocol engine needs from a BLE stack.
// Backends live outside the library.
package xport

import (
	"context"
	"fmt"
	"time"

	"github.com/soundcore-tools/scmgr/scxact/bledefs"
)

// Notification channels are at least this deep.
const NOTIFY_CHAN_DEPTH = 256

type WriteType int

const (
	WRITE_TYPE_WITH_RSP WriteType = iota
	WRITE_TYPE_WITHOUT_RSP
)

func (wt WriteType) String() string {
	if wt == WRITE_TYPE_WITH_RSP {
		return "with_rsp"
	}
	return "without_rsp"
}

type Scanner interface {
	// Returns the connectable peripherals seen within dur.  Results may
	// contain duplicates.
	Scan(ctx context.Context, dur time.Duration) ([]bledefs.DeviceDesc, error)
}

// An open GATT connection to one device.
type Conn interface {
	Desc() bledefs.DeviceDesc

	// Each item is one complete notification payload.  The channel is
	// closed when the connection goes down.
	Notifications() <-chan []byte

	Write(b []byte, wt WriteType) error

	Close() error
}

type AdapterEventType int

const (
	ADAPTER_EVENT_CONNECTED AdapterEventType = iota
	ADAPTER_EVENT_DISCONNECTED
)

var adapterEventTypeStringMap = map[AdapterEventType]string{
	ADAPTER_EVENT_CONNECTED:    "connected",
	ADAPTER_EVENT_DISCONNECTED: "disconnected",
}

func (t AdapterEventType) String() string {
	s := adapterEventTypeStringMap[t]
	if s == "" {
		return "???"
	}
	return s
}

type AdapterEvent struct {
	Type AdapterEventType
	Addr bledefs.BleAddr
}

func (e AdapterEvent) String() string {
	return fmt.Sprintf("%s %s", e.Type, e.Addr)
}

type Xport interface {
	Start() error
	Stop() error

	BuildScanner() (Scanner, error)

	// Connects to a device.  If uuids is nil, the backend discovers a
	// usable triple with SelectUuidSet.
	Connect(ctx context.Context, desc bledefs.DeviceDesc,
		uuids *bledefs.UuidSet) (Conn, error)

	// Adapter level connect and disconnect notifications.  The channel is
	// closed when the transport stops.
	AdapterEvents() <-chan AdapterEvent
}
