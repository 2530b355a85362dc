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
	"testing"

	. "github.com/soundcore-tools/scmgr/scxact/model"
)

func TestParseSoundModeUpdate(t *testing.T) {
	sm, err := ParseSoundModeUpdate([]byte{0x00, 0x03, 0x01, 0x05})
	if err != nil {
		t.Fatalf("%s", err.Error())
	}
	if sm.Current != SOUND_MODE_ANC || sm.AncMode != ANC_SCENE_CUSTOM ||
		sm.TransMode != TRANS_VOCAL || sm.CustomAnc != 5 ||
		sm.CustomTrans != nil {

		t.Errorf("basic form: %s", sm)
	}

	sm, err = ParseSoundModeUpdate([]byte{0x01, 0xa1, 0x00, 0x01, 0x00, 0x04})
	if err != nil {
		t.Fatalf("%s", err.Error())
	}
	if sm.Current != SOUND_MODE_TRANSPARENCY ||
		sm.AncMode != ANC_ADAPTIVE_CUSTOM ||
		sm.TransMode != TRANS_TALK_MODE || sm.CustomAnc != 10 ||
		sm.CustomTrans == nil || *sm.CustomTrans != 4 {

		t.Errorf("adaptive form: %s", sm)
	}

	for _, b := range [][]byte{
		{0x00, 0x00, 0x00},
		{0x00, 0x00, 0x00, 0x00, 0x00},
		{0x03, 0x00, 0x00, 0x00},
		{0x00, 0x00, 0x00, 0x0b},
		{0x00, 0xb1, 0x00, 0x00, 0x00, 0x00},
	} {
		if _, err := ParseSoundModeUpdate(b); err == nil {
			t.Errorf("% x accepted", b)
		}
	}
}

func TestParseBattLevels(t *testing.T) {
	bl, err := ParseBattLevels([]byte{0x03, 0xff})
	if err != nil {
		t.Fatalf("%s", err.Error())
	}
	if !bl.Dual || bl.Left != 3 || bl.Right != BATTERY_LEVEL_UNKNOWN {
		t.Errorf("got %+v", bl)
	}

	bl, err = ParseBattLevels([]byte{0x02})
	if err != nil || bl.Dual || bl.Left != 2 {
		t.Errorf("single: got %+v, %v", bl, err)
	}

	for _, b := range [][]byte{nil, {0x06}, {0x01, 0x02, 0x03}} {
		if _, err := ParseBattLevels(b); err == nil {
			t.Errorf("% x accepted", b)
		}
	}
}

func TestParseBattCharging(t *testing.T) {
	bc, err := ParseBattCharging([]byte{0x01, 0xff})
	if err != nil {
		t.Fatalf("%s", err.Error())
	}
	if !bc.Dual || bc.Left != 1 || bc.Right != BATTERY_LEVEL_UNKNOWN {
		t.Errorf("got %+v", bc)
	}

	if _, err := ParseBattCharging([]byte{0x02}); err == nil {
		t.Errorf("charging flag 2 accepted")
	}
}

func TestParseDeviceInfo(t *testing.T) {
	di, err := ParseDeviceInfo([]byte("02.6102.623951ABCDEF012345"))
	if err != nil {
		t.Fatalf("%s", err.Error())
	}
	if di.Firmware.String() != "02.61" || di.RightFirmware == nil ||
		di.RightFirmware.String() != "02.62" ||
		di.Serial != "3951ABCDEF012345" {

		t.Errorf("dual: got %+v", di)
	}

	di, err = ParseDeviceInfo([]byte("01.003951ABCDEF012345"))
	if err != nil || di.RightFirmware != nil {
		t.Errorf("single: got %+v, %v", di, err)
	}

	if _, err := ParseDeviceInfo([]byte("0x.003951ABCDEF012345")); err == nil {
		t.Errorf("bad firmware accepted")
	}
	if _, err := ParseDeviceInfo([]byte("01.00")); err == nil {
		t.Errorf("short payload accepted")
	}
}

func TestParseFlagAndProfile(t *testing.T) {
	if v, err := ParseFlag([]byte{0x01}); err != nil || !v {
		t.Errorf("01: got %v, %v", v, err)
	}
	for _, b := range [][]byte{nil, {0x02}, {0x01, 0x00}} {
		if _, err := ParseFlag(b); err == nil {
			t.Errorf("% x accepted as flag", b)
		}
	}

	if p, err := ParseEqProfile([]byte{0xfe, 0xfe}); err != nil ||
		p != EQ_PROFILE_CUSTOM {

		t.Errorf("custom: got %s, %v", p, err)
	}
	if _, err := ParseEqProfile([]byte{0x99, 0x00}); err == nil {
		t.Errorf("unknown profile accepted")
	}
}

func TestParseButtonModel(t *testing.T) {
	b := []byte{
		0x01, 0x21, 0x00, 0x66, 0x01, 0x00,
		0x01, 0x00, 0x01, 0x00, 0x01, 0x00,
	}

	m, err := ParseButtonModel(NewReader(b))
	if err != nil {
		t.Fatalf("%s", err.Error())
	}
	if m.LeftDoubleClick.TwsConnected != BUTTON_ACTION_VOLUME_DOWN ||
		m.LeftDoubleClick.TwsDisconnected != BUTTON_ACTION_PREVIOUS_SONG ||
		!m.LeftDoubleClick.IsEnabled {

		t.Errorf("left double click: %+v", m.LeftDoubleClick)
	}
	if m.LeftLongPress.IsEnabled {
		t.Errorf("left long press enabled")
	}

	b[1] = 0x07
	if _, err := ParseButtonModel(NewReader(b)); err == nil {
		t.Errorf("invalid action accepted")
	}
}
