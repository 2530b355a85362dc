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

package scparse

import (
	. "github.com/soundcore-tools/scmgr/scxact/model"
)

// Parsers for the small payloads of incremental updates.  Each consumes the
// whole payload.

func ParseSoundModeUpdate(payload []byte) (SoundModes, error) {
	r := NewReader(payload)
	r.SetCtx("sound mode")

	var sm SoundModes
	var err error

	switch len(payload) {
	case 4:
		sm, err = ParseSoundModes(r)
	case 6:
		sm, err = ParseAdaptiveSoundModes(r)
	default:
		return sm, r.Errorf("invalid length: %d", len(payload))
	}
	if err != nil {
		return sm, err
	}

	return sm, r.AllConsumed()
}

// Levels for one or both sides.  A side set to BATTERY_LEVEL_UNKNOWN
// carries no information.
type BattLevels struct {
	Dual  bool
	Left  uint8
	Right uint8
}

func ParseBattLevels(payload []byte) (BattLevels, error) {
	r := NewReader(payload)
	r.SetCtx("battery level")

	bl := BattLevels{}
	if len(payload) != 1 && len(payload) != 2 {
		return bl, r.Errorf("invalid length: %d", len(payload))
	}

	var err error
	if bl.Left, err = parseBatteryLevel(r); err != nil {
		return bl, err
	}
	if len(payload) == 2 {
		bl.Dual = true
		if bl.Right, err = parseBatteryLevel(r); err != nil {
			return bl, err
		}
	}

	return bl, nil
}

// Charging flags for one or both sides.  Values are 0, 1 or
// BATTERY_LEVEL_UNKNOWN.
type BattCharging struct {
	Dual  bool
	Left  uint8
	Right uint8
}

func parseChargingFlag(r *Reader) (uint8, error) {
	v, err := r.U8()
	if err != nil {
		return 0, err
	}
	if v > 1 && v != BATTERY_LEVEL_UNKNOWN {
		return 0, r.Errorf("invalid charging flag: 0x%02x", v)
	}
	return v, nil
}

func ParseBattCharging(payload []byte) (BattCharging, error) {
	r := NewReader(payload)
	r.SetCtx("battery charging")

	bc := BattCharging{}
	if len(payload) != 1 && len(payload) != 2 {
		return bc, r.Errorf("invalid length: %d", len(payload))
	}

	var err error
	if bc.Left, err = parseChargingFlag(r); err != nil {
		return bc, err
	}
	if len(payload) == 2 {
		bc.Dual = true
		if bc.Right, err = parseChargingFlag(r); err != nil {
			return bc, err
		}
	}

	return bc, nil
}

// Firmware and serial number.  Dual-chip earbuds report one firmware per
// side.
type DeviceInfo struct {
	Firmware      FirmwareVersion
	RightFirmware *FirmwareVersion
	Serial        SerialNumber
}

func ParseDeviceInfo(payload []byte) (DeviceInfo, error) {
	r := NewReader(payload)
	r.SetCtx("info")

	di := DeviceInfo{}
	var err error

	switch len(payload) {
	case FIRMWARE_LEN + SERIAL_LEN:
	case 2*FIRMWARE_LEN + SERIAL_LEN:
	default:
		return di, r.Errorf("invalid length: %d", len(payload))
	}

	if di.Firmware, err = ParseFirmware(r); err != nil {
		return di, err
	}
	if len(payload) == 2*FIRMWARE_LEN+SERIAL_LEN {
		fv, err := ParseFirmware(r)
		if err != nil {
			return di, err
		}
		di.RightFirmware = &fv
	}
	if di.Serial, err = ParseSerial(r); err != nil {
		return di, err
	}

	return di, nil
}

// A single strict boolean.
func ParseFlag(payload []byte) (bool, error) {
	r := NewReader(payload)
	r.SetCtx("flag")

	v, err := r.Bool()
	if err != nil {
		return false, err
	}
	return v, r.AllConsumed()
}

func ParseEqProfile(payload []byte) (EqualizerProfile, error) {
	r := NewReader(payload)
	r.SetCtx("eq info")

	p, err := parseEqProfile(r)
	if err != nil {
		return 0, err
	}
	return p, r.AllConsumed()
}
