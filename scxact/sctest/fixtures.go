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


// Package sctest provides device payloads and a scripted in-memory
// transport for exercising the protocol engine without hardware.
package sctest

import (
	"encoding/binary"

	"github.com/soundcore-tools/scmgr/scxact/scp"
)

// Band byte of a flat (0 dB) band.
const FLAT = 0x78

func flat(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = FLAT
	}
	return b
}

func cat(parts ...[]byte) []byte {
	var b []byte
	for _, p := range parts {
		b = append(b, p...)
	}
	return b
}

func u16(v uint16) []byte {
	return binary.LittleEndian.AppendUint16(nil, v)
}

func i32(v int32) []byte {
	return binary.LittleEndian.AppendUint32(nil, uint32(v))
}

func basicHearId(n int) []byte {
	return cat([]byte{0x01}, flat(n), flat(n), i32(0x01020304))
}

func customHearId(n int) []byte {
	return cat(basicHearId(n), []byte{0x00}, flat(n), flat(n))
}

// Six enabled gestures, each bound to play/pause in both TWS states.
func buttons() []byte {
	b := make([]byte, 0, 12)
	for i := 0; i < 6; i++ {
		b = append(b, 0x01, 0x66)
	}
	return b
}

const (
	SERIAL_A3027 = "3027A1B2C3D4E5F6"
	SERIAL_A3028 = "3028A1B2C3D4E5F6"
	SERIAL_A3029 = "3029A1B2C3D4E5F6"
	SERIAL_A3040 = "3040A1B2C3D4E5F6"
	SERIAL_A3947 = "3947A1B2C3D4E5F6"

	FIRMWARE = "02.61"
)

// Battery 3/5 charging, signature EQ, ANC transport mode.
func A3027Payload() []byte {
	return cat(
		[]byte{0x03, 0x01},
		u16(0x0000), flat(8),
		[]byte{0x00, 0x01},
		basicHearId(8),
		[]byte{0x00, 0x00, 0x00, 0x00},
		[]byte(FIRMWARE),
		[]byte(SERIAL_A3027),
		[]byte{0x01, 0x00},
	)
}

func A3028Payload() []byte {
	p := A3027Payload()
	p = p[:len(p)-2]
	copy(p[len(p)-16:], SERIAL_A3028)
	return p
}

func A3029Payload() []byte {
	return cat(
		[]byte{0x04, 0x00},
		u16(0x0000), flat(8),
		[]byte{0x02, 0x01, 0x00, 0x00},
		[]byte(FIRMWARE),
		[]byte(SERIAL_A3029),
	)
}

func A3930Payload() []byte {
	return cat(
		[]byte{0x00, 0x01},
		[]byte{0x04, 0x03, 0x00, 0x01},
		u16(0x0000), flat(8), flat(8),
		[]byte{0x00, 0x01},
		customHearId(8),
		[]byte{0x01, 0x02, 0x01, 0x00},
		[]byte{0x00},
	)
}

// Battery 4/5, signature EQ with bass up off, adaptive ANC with custom
// transparency at level 3.
func A3040Payload() []byte {
	return cat(
		[]byte{0x04, 0x00},
		[]byte(FIRMWARE),
		[]byte(SERIAL_A3040),
		u16(0x0000), flat(10),
		[]byte{0x01},
		basicHearId(10),
		[]byte{0x00, 0x51, 0x01, 0x00, 0x00, 0x03},
		[]byte{0x00, 0x00},
		[]byte{0x01, 0x02},
		[]byte{0x00, 0x00, 0x00, 0x00, 0x00},
	)
}

// Both sides 5/5 and not charging, signature EQ, normal mode.
func A3951Payload() []byte {
	return cat(
		[]byte{0x00, 0x01},
		[]byte{0x05, 0x05, 0x00, 0x00},
		u16(0x0000), flat(8), flat(8),
		[]byte{0x01},
		customHearId(8),
		[]byte{0x02, 0x01, 0x00, 0x00},
		[]byte{0x00, 0x01, 0x00},
		buttons(),
		[]byte{0x00},
		[]byte{0x00},
		[]byte{0x01, 0x02},
		[]byte{0x00},
	)
}

// The documented fields plus trailing bytes newer firmware appends.
func A3947Payload() []byte {
	return cat(
		[]byte{0x00, 0x01},
		[]byte{0x05, 0x04, 0x00, 0x01},
		[]byte(FIRMWARE),
		[]byte(SERIAL_A3947),
		u16(0x0000), flat(10), flat(10),
		[]byte{0x01},
		customHearId(10),
		[]byte{0x02, 0x11, 0x00, 0x00, 0x00, 0x02},
		[]byte{0x01, 0x01, 0x00, 0x00},
		[]byte{0x01, 0x03},
		buttons(),
		make([]byte, 8),
	)
}

// Builds a device frame carrying payload under tag.
func InFrame(tag uint16, payload []byte) []byte {
	var cmd [scp.SCP_CMD_LEN]byte
	copy(cmd[:], scp.SCP_IN_PREFIX[:])
	binary.BigEndian.PutUint16(cmd[5:], tag)

	return scp.EncodeFrame(cmd, payload)
}

func StateFrame(payload []byte) []byte {
	return InFrame(scp.SCP_TAG_STATE_UPDATE, payload)
}

// A frame that fails validation.
func GarbageFrame() []byte {
	b := StateFrame(A3951Payload())
	b[len(b)-1]++
	return b
}
