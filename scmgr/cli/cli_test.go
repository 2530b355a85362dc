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


package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ugorji/go/codec"

	"github.com/soundcore-tools/scmgr/scxact/bledefs"
	"github.com/soundcore-tools/scmgr/scxact/bridge"
	"github.com/soundcore-tools/scmgr/scxact/devmgr"
	. "github.com/soundcore-tools/scmgr/scxact/model"
	"github.com/soundcore-tools/scmgr/scxact/xport"
)

func sceneFeatures() *SoundModeFeatures {
	return &SoundModeFeatures{
		AncModes: []AncMode{
			ANC_SCENE_TRANSPORT, ANC_SCENE_OUTDOOR, ANC_SCENE_INDOOR,
		},
		TransModes: []TransparencyMode{TRANS_FULLY_TRANSPARENT, TRANS_VOCAL},
		HasNormal:  true,
	}
}

func adaptiveFeatures() *SoundModeFeatures {
	return &SoundModeFeatures{
		AncModes:   []AncMode{ANC_ADAPTIVE_ADAPTIVE, ANC_ADAPTIVE_CUSTOM},
		TransModes: []TransparencyMode{TRANS_TALK_MODE, TRANS_CUSTOM},
		HasNormal:  true,
	}
}

func TestParseSoundModeArgs(t *testing.T) {
	cur := SoundModes{
		Current:   SOUND_MODE_ANC,
		AncMode:   ANC_SCENE_TRANSPORT,
		TransMode: TRANS_FULLY_TRANSPARENT,
	}

	sm, err := parseSoundModeArgs(cur, sceneFeatures(),
		[]string{"transparency", "trans=vocal"})
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}
	if sm.Current != SOUND_MODE_TRANSPARENCY {
		t.Fatalf("wrong current mode: %s", sm.Current)
	}
	if sm.TransMode != TRANS_VOCAL {
		t.Fatalf("wrong transparency mode: %v", sm.TransMode)
	}
	if sm.AncMode != ANC_SCENE_TRANSPORT {
		t.Fatalf("ANC mode changed: %v", sm.AncMode)
	}

	// "custom" names a mode of both families; the device decides.
	cur.AncMode = ANC_ADAPTIVE_ADAPTIVE
	cur.TransMode = TRANS_TALK_MODE
	sm, err = parseSoundModeArgs(cur, adaptiveFeatures(),
		[]string{"anc=custom", "custom_anc=7", "custom_trans=4"})
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}
	if sm.AncMode != ANC_ADAPTIVE_CUSTOM {
		t.Fatalf("wrong ANC mode: %v", sm.AncMode)
	}
	if sm.CustomAnc != 7 {
		t.Fatalf("wrong custom ANC level: %d", sm.CustomAnc)
	}
	if sm.CustomTrans == nil || *sm.CustomTrans != 4 {
		t.Fatalf("wrong custom transparency level: %v", sm.CustomTrans)
	}
}

func TestParseSoundModeArgsErrors(t *testing.T) {
	cur := SoundModes{
		Current:   SOUND_MODE_ANC,
		AncMode:   ANC_SCENE_TRANSPORT,
		TransMode: TRANS_FULLY_TRANSPARENT,
	}

	tests := []struct {
		name string
		args []string
	}{
		{"unsupported anc", []string{"anc=adaptive"}},
		{"unsupported trans", []string{"trans=talk_mode"}},
		{"level too high", []string{"custom_anc=11"}},
		{"negative level", []string{"custom_trans=-1"}},
		{"unknown key", []string{"volume=3"}},
		{"unknown mode", []string{"loud"}},
		{"two modes", []string{"anc", "normal"}},
	}

	for _, test := range tests {
		if _, err := parseSoundModeArgs(cur, sceneFeatures(),
			test.args); err == nil {
			t.Errorf("%s: expected error", test.name)
		}
	}

	if _, err := parseSoundModeArgs(cur, nil, []string{"anc"}); err == nil {
		t.Errorf("expected error for device without sound modes")
	}
}

func TestParseEqArgs(t *testing.T) {
	es, err := parseEqArgs([]string{"treble_booster"})
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}
	if es.Preset != EQ_PROFILE_TREBLE_BOOSTER || es.Custom != nil {
		t.Fatalf("wrong setting: %+v", es)
	}

	es, err = parseEqArgs([]string{"custom", "30", "-20", "0", "120"})
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}
	exp := []int8{30, -20, 0, 120}
	if len(es.Custom) != len(exp) {
		t.Fatalf("wrong bands: %v", es.Custom)
	}
	for i, v := range exp {
		if es.Custom[i] != v {
			t.Fatalf("wrong bands: have=%v want=%v", es.Custom, exp)
		}
	}

	bad := [][]string{
		nil,
		{"custom"},
		{"custom", "121"},
		{"custom", "-121"},
		{"custom", "loud"},
		{"no_such_preset"},
		{"rock", "pop"},
	}
	for _, args := range bad {
		if _, err := parseEqArgs(args); err == nil {
			t.Errorf("expected error for %v", args)
		}
	}
}

func TestSplitKvArgs(t *testing.T) {
	kv, plain := splitKvArgs([]string{
		"anc", "connstring=peer_id=AC:12:2F:01:02:03", "type=tble",
	})

	if len(plain) != 1 || plain[0] != "anc" {
		t.Fatalf("wrong plain args: %v", plain)
	}
	if kv["connstring"] != "peer_id=AC:12:2F:01:02:03" {
		t.Fatalf("wrong connstring: %s", kv["connstring"])
	}
	if kv["type"] != "tble" {
		t.Fatalf("wrong type: %s", kv["type"])
	}
}

func TestStateMap(t *testing.T) {
	st := &DeviceState{
		Battery: NewDualBattery(
			SingleBattery{Level: 3},
			SingleBattery{Level: 5, IsCharging: true}),
		SoundModes: SoundModes{
			Current:   SOUND_MODE_ANC,
			AncMode:   ANC_SCENE_INDOOR,
			TransMode: TRANS_VOCAL,
		},
		Equalizer: NewMonoEq(EQ_PROFILE_TREBLE_BOOSTER,
			NewVolumeAdjustments([]int8{10, 20})),
		TwsStatus: BoolPtr(true),
	}

	m := stateMap(st)

	if _, ok := m["serial_number"]; ok {
		t.Fatalf("absent field present in map")
	}
	if m["tws_status"] != true {
		t.Fatalf("wrong tws_status: %v", m["tws_status"])
	}

	batt := m["battery"].(map[string]interface{})
	right := batt["Right"].(map[string]interface{})
	if right["Level"] != uint8(5) || right["IsCharging"] != true {
		t.Fatalf("wrong right battery: %v", right)
	}

	sm := m["sound_modes"].(map[string]interface{})
	if sm["Current"] != "anc" || sm["AncMode"] != "indoor" ||
		sm["TransMode"] != "vocal" {

		t.Fatalf("wrong sound modes: %v", sm)
	}
	if sm["CustomTrans"] != nil {
		t.Fatalf("unset level not nil: %v", sm["CustomTrans"])
	}

	eq := m["equalizer"].(map[string]interface{})
	if eq["Profile"] != "treble_booster" {
		t.Fatalf("wrong profile: %v", eq["Profile"])
	}
	left := eq["Left"].([]interface{})
	if len(left) != 2 || left[1] != int8(20) {
		t.Fatalf("wrong bands: %v", left)
	}
	if eq["Right"] != nil {
		t.Fatalf("mono EQ has right channel: %v", eq["Right"])
	}
}

func TestWriteText(t *testing.T) {
	m := map[string]interface{}{
		"b": 1,
		"a": map[string]interface{}{
			"c": []interface{}{int8(1), int8(2)},
		},
		"d": nil,
	}

	var buf bytes.Buffer
	writeText(&buf, m, 0)

	exp := "a:\n    c: [1 2]\nb: 1\nd: -\n"
	if buf.String() != exp {
		t.Fatalf("wrong text:\nhave:\n%s\nwant:\n%s", buf.String(), exp)
	}
}

func TestWriteJson(t *testing.T) {
	var buf bytes.Buffer
	err := writeJson(&buf, map[string]interface{}{"b": "y", "a": "x"})
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Error())
	}

	s := buf.String()
	if strings.Index(s, `"a"`) > strings.Index(s, `"b"`) {
		t.Fatalf("keys not sorted: %s", s)
	}

	var m map[string]interface{}
	if err := codec.NewDecoderBytes(buf.Bytes(),
		new(codec.JsonHandle)).Decode(&m); err != nil {

		t.Fatalf("output not JSON: %s", err.Error())
	}
	if m["a"] != "x" || m["b"] != "y" {
		t.Fatalf("wrong values: %v", m)
	}
}

func TestShellState(t *testing.T) {
	a1 := bledefs.BleAddrFromUint64(1)
	a2 := bledefs.BleAddrFromUint64(2)

	ss := newShellState()

	if _, _, _, err := ss.target(nil); err == nil {
		t.Fatalf("target without connections succeeded")
	}

	ss.apply(&bridge.ScanResultRsp{Devices: []devmgr.DiscoveredDevice{
		{Desc: bledefs.DeviceDesc{Addr: a1, Name: "Liberty 4"}},
		{Desc: bledefs.DeviceDesc{Addr: a2}},
	}})

	desc, err := ss.lookup("Liberty 4")
	if err != nil || desc.Addr != a1 {
		t.Fatalf("name lookup failed: %v %v", desc, err)
	}
	desc, err = ss.lookup(a1.String())
	if err != nil || desc.Name != "Liberty 4" {
		t.Fatalf("address lookup failed: %v %v", desc, err)
	}
	if _, err := ss.lookup("Space A40"); err == nil {
		t.Fatalf("lookup of unknown name succeeded")
	}

	// Unsolicited state for an unknown device is ignored.
	if s := ss.apply(&bridge.NewStateRsp{Addr: a1,
		State: &DeviceState{}}); s != "" {

		t.Fatalf("unexpected output: %s", s)
	}

	ss.apply(&bridge.ConnectionEstablishedRsp{Addr: a1,
		State: &DeviceState{}})

	addr, _, rest, err := ss.target([]string{"anc"})
	if err != nil || addr != a1 || len(rest) != 1 {
		t.Fatalf("wrong target: %s %v %v", addr, rest, err)
	}

	ss.apply(&bridge.ConnectionEstablishedRsp{Addr: a2,
		State: &DeviceState{}})
	if _, _, _, err := ss.target([]string{"anc"}); err == nil {
		t.Fatalf("ambiguous target succeeded")
	}

	addr, _, rest, err = ss.target([]string{a2.String(), "anc"})
	if err != nil || addr != a2 || len(rest) != 1 || rest[0] != "anc" {
		t.Fatalf("wrong target: %s %v %v", addr, rest, err)
	}

	ss.apply(&bridge.AdapterEventRsp{Event: xport.AdapterEvent{
		Type: xport.ADAPTER_EVENT_DISCONNECTED,
		Addr: a2,
	}})
	if c := ss.connected(); len(c) != 1 || c[0] != a1 {
		t.Fatalf("wrong connected devices: %v", c)
	}

	ss.apply(&bridge.DisconnectedAllRsp{})
	if c := ss.connected(); len(c) != 0 {
		t.Fatalf("devices still connected: %v", c)
	}
}
