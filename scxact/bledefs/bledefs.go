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

package bledefs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/soundcore-tools/scmgr/scxact/scxutil"
)

const BLE_ATT_ATTR_MAX_LEN = 512

const BLE_ATT_MTU_DFLT = 23

// Organizationally unique identifiers assigned to the earbud vendor.
var VendorPrefixes = [][3]byte{
	{0xac, 0x12, 0x2f},
	{0xe8, 0xee, 0xcc},
}

type BleAddr struct {
	Bytes [6]byte
}

// Accepts both "AA:BB:CC:DD:EE:FF" and "AA-BB-CC-DD-EE-FF".
func ParseBleAddr(s string) (BleAddr, error) {
	ba := BleAddr{}
	b := make([]byte, len(ba.Bytes))

	sep := ":"
	if strings.Contains(s, "-") {
		sep = "-"
	}

	toks := strings.Split(strings.ToLower(s), sep)
	if len(toks) != 6 {
		return ba, scxutil.FmtInvalidMacAddressError(
			"invalid BLE addr string: %s", s)
	}

	for i, t := range toks {
		if len(t) != 2 {
			return ba, scxutil.FmtInvalidMacAddressError(
				"invalid BLE addr string: %s", s)
		}

		u64, err := strconv.ParseUint(t, 16, 8)
		if err != nil {
			return ba, scxutil.FmtInvalidMacAddressError(
				"invalid BLE addr string: %s", s)
		}
		b[i] = byte(u64)
	}

	return BleAddrFromBytes(b)
}

// Builds an address from the low 48 bits of a big-endian integer; this is
// how most host stacks represent a peer address natively.
func BleAddrFromUint64(u64 uint64) BleAddr {
	ba := BleAddr{}
	for i := 0; i < 6; i++ {
		ba.Bytes[5-i] = byte(u64 >> (8 * uint(i)))
	}
	return ba
}

func BleAddrFromBytes(b []byte) (BleAddr, error) {
	ba := BleAddr{}
	if len(b) != 6 {
		return ba, scxutil.FmtInvalidMacAddressError(
			"invalid BLE addr length: %d", len(b))
	}

	copy(ba.Bytes[:], b)
	return ba, nil
}

func (ba BleAddr) Uint64() uint64 {
	var u64 uint64
	for _, b := range ba.Bytes {
		u64 = (u64 << 8) | uint64(b)
	}
	return u64
}

func (ba BleAddr) String() string {
	var buf bytes.Buffer
	buf.Grow(len(ba.Bytes) * 3)

	for i, b := range ba.Bytes {
		if i != 0 {
			buf.WriteString(":")
		}
		fmt.Fprintf(&buf, "%02X", b)
	}

	return buf.String()
}

// Indicates whether the address belongs to one of the vendor's OUIs.
func (ba BleAddr) IsSoundcore() bool {
	for _, p := range VendorPrefixes {
		if bytes.Equal(ba.Bytes[:3], p[:]) {
			return true
		}
	}

	return false
}

func (ba BleAddr) MarshalJSON() ([]byte, error) {
	return json.Marshal(ba.String())
}

func (ba *BleAddr) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	var err error
	*ba, err = ParseBleAddr(s)
	if err != nil {
		return err
	}

	return nil
}

// Identifies a peripheral found during a scan.  Handle is whatever the
// backend needs to reach the peer again; it plays no part in identity.
type DeviceDesc struct {
	Addr   BleAddr
	Name   string
	Handle interface{} `json:"-"`
}

func (d DeviceDesc) Equal(other DeviceDesc) bool {
	return d.Addr == other.Addr
}

func (d DeviceDesc) String() string {
	if d.Name == "" {
		return d.Addr.String()
	}
	return fmt.Sprintf("%s (%s)", d.Name, d.Addr.String())
}

type BleUuid16 uint16

func (bu16 BleUuid16) String() string {
	return fmt.Sprintf("0x%04x", uint16(bu16))
}

func ParseUuid16(s string) (BleUuid16, error) {
	val, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return BleUuid16(0), fmt.Errorf("Invalid UUID: %s", s)
	}

	return BleUuid16(val), nil
}

type BleUuid128 [16]byte

func (bu128 BleUuid128) String() string {
	var buf bytes.Buffer
	buf.Grow(len(bu128)*2 + 4)

	for i, b := range bu128 {
		switch i {
		case 4, 6, 8, 10:
			buf.WriteString("-")
		}

		fmt.Fprintf(&buf, "%02x", b)
	}

	return buf.String()
}

func ParseUuid128(s string) (BleUuid128, error) {
	var bu128 BleUuid128

	if len(s) != 36 {
		return bu128, fmt.Errorf("Invalid UUID: %s", s)
	}

	boff := 0
	for i := 0; i < 36; {
		switch i {
		case 8, 13, 18, 23:
			if s[i] != '-' {
				return bu128, fmt.Errorf("Invalid UUID: %s", s)
			}
			i++

		default:
			u64, err := strconv.ParseUint(s[i:i+2], 16, 8)
			if err != nil {
				return bu128, fmt.Errorf("Invalid UUID: %s", s)
			}
			bu128[boff] = byte(u64)
			i += 2
			boff++
		}
	}

	return bu128, nil
}

// The Bluetooth base UUID; 16-bit UUIDs are aliases within it.
var bleBaseUuid = BleUuid128{
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x10, 0x00,
	0x80, 0x00, 0x00, 0x80, 0x5f, 0x9b, 0x34, 0xfb,
}

type BleUuid struct {
	// Set to 0 if the 128-bit UUID should be used.
	U16 BleUuid16

	// Ignored if U16 is nonzero.
	U128 BleUuid128
}

func (bu BleUuid) String() string {
	if bu.U16 != 0 {
		return bu.U16.String()
	} else {
		return bu.U128.String()
	}
}

// Expands a 16-bit UUID into its 128-bit form.
func (bu BleUuid) To128() BleUuid128 {
	if bu.U16 == 0 {
		return bu.U128
	}

	u := bleBaseUuid
	u[2] = byte(bu.U16 >> 8)
	u[3] = byte(bu.U16)
	return u
}

func ParseUuid(uuidStr string) (BleUuid, error) {
	bu := BleUuid{}
	var err error

	// First, try to parse as a 16-bit UUID.
	bu.U16, err = ParseUuid16(uuidStr)
	if err == nil {
		return bu, nil
	}

	// Try to parse as a 128-bit UUID.
	bu.U128, err = ParseUuid128(strings.ToLower(uuidStr))
	if err == nil {
		return bu, nil
	}

	return bu, err
}

func (bu BleUuid) MarshalJSON() ([]byte, error) {
	return json.Marshal(bu.To128().String())
}

func (bu *BleUuid) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	var err error
	*bu, err = ParseUuid(s)
	return err
}

// Compares two UUIDs, treating a 16-bit UUID as equal to its 128-bit alias.
func CompareUuids(a BleUuid, b BleUuid) int {
	a128 := a.To128()
	b128 := b.To128()
	return bytes.Compare(a128[:], b128[:])
}

// The service and characteristic triple used to talk to a device.
type UuidSet struct {
	SvcUuid      BleUuid
	ReadChrUuid  BleUuid
	WriteChrUuid BleUuid
}

func (us *UuidSet) String() string {
	return fmt.Sprintf("svc=%s read=%s write=%s",
		us.SvcUuid.String(), us.ReadChrUuid.String(), us.WriteChrUuid.String())
}

// Services that never carry the device's data channel.
var SvcBlacklist = []string{
	"00001800-0000-1000-8000-00805f9b34fb",
	"00001801-0000-1000-8000-00805f9b34fb",
	"86868686-8686-8686-8686-868686868686",
	"66666666-6666-6666-6666-666666666666",
}

func IsBlacklistedSvc(uuid BleUuid) bool {
	for _, s := range SvcBlacklist {
		bl, err := ParseUuid128(s)
		if err != nil {
			continue
		}
		if CompareUuids(uuid, BleUuid{U128: bl}) == 0 {
			return true
		}
	}

	return false
}

type BleChrFlags int

const (
	BLE_GATT_F_BROADCAST    BleChrFlags = 0x0001
	BLE_GATT_F_READ                     = 0x0002
	BLE_GATT_F_WRITE_NO_RSP             = 0x0004
	BLE_GATT_F_WRITE                    = 0x0008
	BLE_GATT_F_NOTIFY                   = 0x0010
	BLE_GATT_F_INDICATE                 = 0x0020
)

func (f BleChrFlags) Has(mask BleChrFlags) bool {
	return f&mask == mask
}
