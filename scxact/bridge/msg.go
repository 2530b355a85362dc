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

package bridge

import (
	"time"

	"github.com/soundcore-tools/scmgr/scxact/bledefs"
	"github.com/soundcore-tools/scmgr/scxact/devmgr"
	"github.com/soundcore-tools/scmgr/scxact/model"
	"github.com/soundcore-tools/scmgr/scxact/xport"
)

type Command interface {
	CmdName() string
}

type ScanCmd struct {
	// Zero means the manager's default.
	Duration time.Duration
}

type ConnectCmd struct {
	Desc bledefs.DeviceDesc
}

type DisconnectCmd struct {
	Addr bledefs.BleAddr
}

type DisconnectAllCmd struct{}

type SetSoundModeCmd struct {
	Addr       bledefs.BleAddr
	SoundModes model.SoundModes
}

// Either a preset or a custom band set.  Custom takes precedence when
// non-nil.
type EqSetting struct {
	Preset model.EqualizerProfile
	Custom []int8
}

type SetEqualizerCmd struct {
	Addr    bledefs.BleAddr
	Setting EqSetting
}

func (c *ScanCmd) CmdName() string          { return "scan" }
func (c *ConnectCmd) CmdName() string       { return "connect" }
func (c *DisconnectCmd) CmdName() string    { return "disconnect" }
func (c *DisconnectAllCmd) CmdName() string { return "disconnect_all" }
func (c *SetSoundModeCmd) CmdName() string  { return "set_sound_mode" }
func (c *SetEqualizerCmd) CmdName() string  { return "set_equalizer" }

type Response interface {
	RspName() string
}

type ScanResultRsp struct {
	Devices []devmgr.DiscoveredDevice
}

type ConnectionEstablishedRsp struct {
	Addr  bledefs.BleAddr
	State *model.DeviceState
}

type ConnectionFailedRsp struct {
	Addr   bledefs.BleAddr
	Reason string
}

type NewStateRsp struct {
	Addr  bledefs.BleAddr
	State *model.DeviceState
}

type DisconnectedRsp struct {
	Addr bledefs.BleAddr
}

type DisconnectedAllRsp struct{}

type AdapterEventRsp struct {
	Event xport.AdapterEvent
}

type GenericErrorRsp struct {
	Message string
}

func (r *ScanResultRsp) RspName() string            { return "scan_result" }
func (r *ConnectionEstablishedRsp) RspName() string { return "connection_established" }
func (r *ConnectionFailedRsp) RspName() string      { return "connection_failed" }
func (r *NewStateRsp) RspName() string              { return "new_state" }
func (r *DisconnectedRsp) RspName() string          { return "disconnected" }
func (r *DisconnectedAllRsp) RspName() string       { return "disconnected_all" }
func (r *AdapterEventRsp) RspName() string          { return "adapter_event" }
func (r *GenericErrorRsp) RspName() string          { return "generic_error" }
