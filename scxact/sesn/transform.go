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

package sesn

import (
	log "github.com/sirupsen/logrus"

	. "github.com/soundcore-tools/scmgr/scxact/model"
	"github.com/soundcore-tools/scmgr/scxact/scp"
)

// Derives the next state from a packet and the previous state.  A
// transformer never writes through prev; it returns prev itself when the
// packet changes nothing.
type stateTransformer func(p scp.Packet, prev *DeviceState) *DeviceState

// Full snapshot.  The feature set stays that of the resolved product, and
// identity fields the snapshot lacks are carried over.
func xformStateUpdate(p scp.Packet, prev *DeviceState) *DeviceState {
	pkt := p.(*scp.StateUpdatePkt)

	next := *pkt.State
	next.Features = prev.Features
	if next.SerialNumber == nil {
		next.SerialNumber = prev.SerialNumber
	}
	if next.FirmwareVersion == nil {
		next.FirmwareVersion = prev.FirmwareVersion
	}
	return &next
}

func xformSoundModeUpdate(p scp.Packet, prev *DeviceState) *DeviceState {
	pkt := p.(*scp.SoundModeUpdatePkt)

	next := *prev
	next.SoundModes = pkt.SoundModes
	return &next
}

func xformBassUpUpdate(p scp.Packet, prev *DeviceState) *DeviceState {
	pkt := p.(*scp.BassUpUpdatePkt)

	if prev.BassUp == nil {
		log.Warnf("bass up update for a device without bass up; ignoring")
		return prev
	}

	next := *prev
	next.BassUp = BoolPtr(pkt.Enabled)
	return &next
}

func xformEqInfoUpdate(p scp.Packet, prev *DeviceState) *DeviceState {
	pkt := p.(*scp.EqInfoUpdatePkt)

	next := *prev
	next.Equalizer.Profile = pkt.Profile
	return &next
}

func xformInfoUpdate(p scp.Packet, prev *DeviceState) *DeviceState {
	pkt := p.(*scp.InfoUpdatePkt)

	next := *prev
	fv := pkt.Firmware
	sn := pkt.Serial
	next.FirmwareVersion = &fv
	next.SerialNumber = &sn
	return &next
}

// A side reported as BATTERY_LEVEL_UNKNOWN keeps its previous value.
func xformBattLevelUpdate(p scp.Packet, prev *DeviceState) *DeviceState {
	pkt := p.(*scp.BattLevelUpdatePkt)

	next := *prev
	if pkt.Left != BATTERY_LEVEL_UNKNOWN {
		next.Battery.Left.Level = pkt.Left
	}
	if pkt.Dual && next.Battery.Dual && pkt.Right != BATTERY_LEVEL_UNKNOWN {
		next.Battery.Right.Level = pkt.Right
	}
	return &next
}

func xformBattChargingUpdate(p scp.Packet, prev *DeviceState) *DeviceState {
	pkt := p.(*scp.BattChargingUpdatePkt)

	next := *prev
	if pkt.Left != BATTERY_LEVEL_UNKNOWN {
		next.Battery.Left.IsCharging = pkt.Left == 1
	}
	if pkt.Dual && next.Battery.Dual && pkt.Right != BATTERY_LEVEL_UNKNOWN {
		next.Battery.Right.IsCharging = pkt.Right == 1
	}
	return &next
}

func xformLdacUpdate(p scp.Packet, prev *DeviceState) *DeviceState {
	pkt := p.(*scp.LdacUpdatePkt)

	next := *prev
	next.Ldac = BoolPtr(pkt.Enabled)
	return &next
}

func xformAck(p scp.Packet, prev *DeviceState) *DeviceState {
	log.Debugf("received %s", p.Kind())
	return prev
}

var transformerMap = map[scp.PktKind]stateTransformer{
	scp.PKT_KIND_STATE_UPDATE:         xformStateUpdate,
	scp.PKT_KIND_SOUND_MODE_UPDATE:    xformSoundModeUpdate,
	scp.PKT_KIND_BASS_UP_UPDATE:       xformBassUpUpdate,
	scp.PKT_KIND_EQ_INFO_UPDATE:       xformEqInfoUpdate,
	scp.PKT_KIND_INFO_UPDATE:          xformInfoUpdate,
	scp.PKT_KIND_BATT_LEVEL_UPDATE:    xformBattLevelUpdate,
	scp.PKT_KIND_BATT_CHARGING_UPDATE: xformBattChargingUpdate,
	scp.PKT_KIND_LDAC_UPDATE:          xformLdacUpdate,
	scp.PKT_KIND_SET_SOUND_MODE_ACK:   xformAck,
	scp.PKT_KIND_SET_EQ_ACK:           xformAck,
	scp.PKT_KIND_SET_EQ_DRC_ACK:       xformAck,
}

// Applies the transformer for p's kind.  Packets without one leave the
// state unchanged.
func Transform(p scp.Packet, prev *DeviceState) *DeviceState {
	t := transformerMap[p.Kind()]
	if t == nil {
		return prev
	}
	return t(p, prev)
}
