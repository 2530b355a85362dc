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

// Package scp implements the Soundcore packet framing: checksums, packet
// kinds, inbound packet decoding and outbound command encoding.
package scp

const (
	SCP_PREFIX_LEN = 5
	SCP_CMD_LEN    = 7
	SCP_HDR_LEN    = 9

	// Header plus checksum.
	SCP_MIN_FRAME_LEN = 10
)

// Prefix of frames sent by a device.
var SCP_IN_PREFIX = [SCP_PREFIX_LEN]byte{0x09, 0xff, 0x00, 0x00, 0x01}

// Prefix of frames sent to a device.
var SCP_OUT_PREFIX = [SCP_PREFIX_LEN]byte{0x08, 0xee, 0x00, 0x00, 0x00}

type PktKind int

const (
	PKT_KIND_UNKNOWN PktKind = iota
	PKT_KIND_STATE_UPDATE
	PKT_KIND_INFO_UPDATE
	PKT_KIND_SOUND_MODE_UPDATE
	PKT_KIND_BATT_LEVEL_UPDATE
	PKT_KIND_BATT_CHARGING_UPDATE
	PKT_KIND_LDAC_UPDATE
	PKT_KIND_SET_SOUND_MODE_ACK
	PKT_KIND_SET_EQ_ACK
	PKT_KIND_SET_EQ_DRC_ACK
	PKT_KIND_BASS_UP_UPDATE
	PKT_KIND_EQ_INFO_UPDATE
)

// Two byte kind tags, big-endian on the wire.
const (
	SCP_TAG_STATE_UPDATE         uint16 = 0x0101
	SCP_TAG_BATT_LEVEL_UPDATE    uint16 = 0x0103
	SCP_TAG_BATT_CHARGING_UPDATE uint16 = 0x0104
	SCP_TAG_INFO_UPDATE          uint16 = 0x0105
	SCP_TAG_LDAC_UPDATE          uint16 = 0x017f
	SCP_TAG_EQ_INFO_UPDATE       uint16 = 0x0201
	SCP_TAG_SET_EQ_ACK           uint16 = 0x0281
	SCP_TAG_SET_EQ_DRC_ACK       uint16 = 0x0283
	SCP_TAG_BASS_UP_UPDATE       uint16 = 0x0284
	SCP_TAG_SOUND_MODE_UPDATE    uint16 = 0x0601
	SCP_TAG_SET_SOUND_MODE_ACK   uint16 = 0x0681
	SCP_TAG_UNKNOWN              uint16 = 0xffff
)

var pktKindTagMap = map[uint16]PktKind{
	SCP_TAG_STATE_UPDATE:         PKT_KIND_STATE_UPDATE,
	SCP_TAG_BATT_LEVEL_UPDATE:    PKT_KIND_BATT_LEVEL_UPDATE,
	SCP_TAG_BATT_CHARGING_UPDATE: PKT_KIND_BATT_CHARGING_UPDATE,
	SCP_TAG_INFO_UPDATE:          PKT_KIND_INFO_UPDATE,
	SCP_TAG_LDAC_UPDATE:          PKT_KIND_LDAC_UPDATE,
	SCP_TAG_EQ_INFO_UPDATE:       PKT_KIND_EQ_INFO_UPDATE,
	SCP_TAG_SET_EQ_ACK:           PKT_KIND_SET_EQ_ACK,
	SCP_TAG_SET_EQ_DRC_ACK:       PKT_KIND_SET_EQ_DRC_ACK,
	SCP_TAG_BASS_UP_UPDATE:       PKT_KIND_BASS_UP_UPDATE,
	SCP_TAG_SOUND_MODE_UPDATE:    PKT_KIND_SOUND_MODE_UPDATE,
	SCP_TAG_SET_SOUND_MODE_ACK:   PKT_KIND_SET_SOUND_MODE_ACK,
}

var pktKindStringMap = map[PktKind]string{
	PKT_KIND_UNKNOWN:              "unknown",
	PKT_KIND_STATE_UPDATE:         "state_update",
	PKT_KIND_INFO_UPDATE:          "info_update",
	PKT_KIND_SOUND_MODE_UPDATE:    "sound_mode_update",
	PKT_KIND_BATT_LEVEL_UPDATE:    "batt_level_update",
	PKT_KIND_BATT_CHARGING_UPDATE: "batt_charging_update",
	PKT_KIND_LDAC_UPDATE:          "ldac_update",
	PKT_KIND_SET_SOUND_MODE_ACK:   "set_sound_mode_ack",
	PKT_KIND_SET_EQ_ACK:           "set_eq_ack",
	PKT_KIND_SET_EQ_DRC_ACK:       "set_eq_drc_ack",
	PKT_KIND_BASS_UP_UPDATE:       "bass_up_update",
	PKT_KIND_EQ_INFO_UPDATE:       "eq_info_update",
}

func (k PktKind) String() string {
	s := pktKindStringMap[k]
	if s == "" {
		return "???"
	}
	return s
}

// Maps a kind tag to a packet kind.  Unrecognized tags are
// PKT_KIND_UNKNOWN.
func KindFromTag(tag uint16) PktKind {
	return pktKindTagMap[tag]
}

func (k PktKind) Tag() uint16 {
	for tag, kind := range pktKindTagMap {
		if kind == k {
			return tag
		}
	}
	return SCP_TAG_UNKNOWN
}

func (k PktKind) IsAck() bool {
	switch k {
	case PKT_KIND_SET_SOUND_MODE_ACK, PKT_KIND_SET_EQ_ACK,
		PKT_KIND_SET_EQ_DRC_ACK:

		return true
	default:
		return false
	}
}

// Outbound command words.
var (
	SCP_CMD_REQUEST_STATE  = outCmd(0x01, 0x01)
	SCP_CMD_SET_SOUND_MODE = outCmd(0x06, 0x81)
	SCP_CMD_SET_EQ         = outCmd(0x03, 0x87)
	SCP_CMD_SET_BASS_UP    = outCmd(0x02, 0x84)
)

func outCmd(hi byte, lo byte) [SCP_CMD_LEN]byte {
	var cmd [SCP_CMD_LEN]byte
	copy(cmd[:], SCP_OUT_PREFIX[:])
	cmd[5] = hi
	cmd[6] = lo
	return cmd
}
