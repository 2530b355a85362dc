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


package scparse_test

import (
	"testing"

	"github.com/soundcore-tools/scmgr/scxact/model"
	"github.com/soundcore-tools/scmgr/scxact/product"
	"github.com/soundcore-tools/scmgr/scxact/scparse"
	"github.com/soundcore-tools/scmgr/scxact/sctest"
)

func TestStateLayouts(t *testing.T) {
	tests := []struct {
		payload []byte
		code    product.Code
		dual    bool
		bands   int
		stereo  bool
	}{
		{sctest.A3027Payload(), product.CODE_A3027, false, 8, false},
		{sctest.A3028Payload(), product.CODE_A3028, false, 8, false},
		{sctest.A3029Payload(), product.CODE_A3029, false, 8, false},
		{sctest.A3930Payload(), product.CODE_A3930, true, 8, true},
		{sctest.A3040Payload(), product.CODE_A3040, false, 10, false},
		{sctest.A3951Payload(), product.CODE_A3951, true, 8, true},
		{sctest.A3947Payload(), product.CODE_A3947, true, 10, true},
	}

	for _, tst := range tests {
		ts, err := scparse.ParseStateUpdate(tst.payload)
		if err != nil {
			t.Fatalf("%s: %s", tst.code, err.Error())
		}

		st := ts.State
		if ts.Tag != tst.code {
			t.Errorf("%s: parsed as %s", tst.code, ts.Tag)
		}
		if st.Battery.Dual != tst.dual {
			t.Errorf("%s: dual battery=%v", tst.code, st.Battery.Dual)
		}
		if st.Equalizer.NumBands() != tst.bands {
			t.Errorf("%s: %d bands", tst.code, st.Equalizer.NumBands())
		}
		if st.Equalizer.IsStereo() != tst.stereo {
			t.Errorf("%s: stereo=%v", tst.code, st.Equalizer.IsStereo())
		}
		if st.Features.Equalizer == nil ||
			st.Features.Equalizer.Bands != tst.bands {

			t.Errorf("%s: features do not match layout", tst.code)
		}
	}
}

func TestA3951State(t *testing.T) {
	ts, err := scparse.ParseStateUpdate(sctest.A3951Payload())
	if err != nil {
		t.Fatalf("%s", err.Error())
	}

	st := ts.State
	want := model.NewDualBattery(
		model.SingleBattery{Level: 5},
		model.SingleBattery{Level: 5})
	if st.Battery != want {
		t.Errorf("battery: want %s, got %s", want, st.Battery)
	}
	if st.SoundModes.Current != model.SOUND_MODE_NORMAL {
		t.Errorf("current sound mode: %s", st.SoundModes.Current)
	}
	if st.SoundModes.AncMode != model.ANC_SCENE_OUTDOOR {
		t.Errorf("anc mode: %v", st.SoundModes.AncMode)
	}
	if st.HearId == nil || st.HearId.IsEmpty() {
		t.Fatalf("hear id missing")
	}
	if st.HearId.Kind != model.HEAR_ID_CUSTOM || st.HearId.Time != 0x01020304 {
		t.Errorf("hear id: %+v", *st.HearId)
	}
	if st.ButtonModel == nil ||
		st.ButtonModel.RightSingleClick.TwsDisconnected !=
			model.BUTTON_ACTION_PLAY_PAUSE {

		t.Errorf("button model: %+v", st.ButtonModel)
	}
	if st.AutoPowerOff == nil || st.AutoPowerOff.DurationIndex != 2 {
		t.Errorf("auto power off: %+v", st.AutoPowerOff)
	}
	if st.SerialNumber != nil || st.BassUp != nil {
		t.Errorf("fields absent from the layout are set")
	}
}

func TestA3040State(t *testing.T) {
	ts, err := scparse.ParseStateUpdate(sctest.A3040Payload())
	if err != nil {
		t.Fatalf("%s", err.Error())
	}

	st := ts.State
	if st.BassUp == nil || *st.BassUp {
		t.Errorf("bass up: %v", st.BassUp)
	}
	sm := st.SoundModes
	if sm.AncMode != model.ANC_ADAPTIVE_ADAPTIVE ||
		sm.TransMode != model.TRANS_CUSTOM || sm.CustomAnc != 5 ||
		sm.CustomTrans == nil || *sm.CustomTrans != 3 {

		t.Errorf("sound modes: %s", sm)
	}
	if st.SerialNumber == nil || *st.SerialNumber != sctest.SERIAL_A3040 {
		t.Errorf("serial: %v", st.SerialNumber)
	}
	if st.FirmwareVersion == nil || st.FirmwareVersion.String() != "02.61" {
		t.Errorf("firmware: %v", st.FirmwareVersion)
	}
}

func TestSerialOverridesLayout(t *testing.T) {
	p := sctest.A3029Payload()
	copy(p[len(p)-16:], sctest.SERIAL_A3027)

	ts, err := scparse.ParseStateUpdate(p)
	if err != nil {
		t.Fatalf("%s", err.Error())
	}
	if ts.Tag != product.CODE_A3027 {
		t.Errorf("want %s, got %s", product.CODE_A3027, ts.Tag)
	}
	if !ts.State.Features.Flags.Has(model.FF_WEAR_DETECTION) {
		t.Errorf("features not switched to the serial's product")
	}
}

func TestUnknownSerialKeepsLayout(t *testing.T) {
	p := sctest.A3029Payload()
	copy(p[len(p)-16:], "9999000000000000")

	ts, err := scparse.ParseStateUpdate(p)
	if err != nil {
		t.Fatalf("%s", err.Error())
	}
	if ts.Tag != product.CODE_A3029 {
		t.Errorf("want %s, got %s", product.CODE_A3029, ts.Tag)
	}
}

func TestPresetBandsAreCanonical(t *testing.T) {
	p := sctest.A3951Payload()
	p[6] = byte(model.EQ_PROFILE_BASS_BOOSTER)
	for i := 8; i < 24; i++ {
		p[i] = 0x10
	}

	ts, err := scparse.ParseStateUpdate(p)
	if err != nil {
		t.Fatalf("%s", err.Error())
	}

	want := model.EQ_PROFILE_BASS_BOOSTER.Bands(8)
	eq := ts.State.Equalizer
	if !eq.Left.Equal(want) || !eq.Right.Equal(want) {
		t.Errorf("want %v, got %s", []int8(want), eq)
	}
}

func TestCustomBandsAreKept(t *testing.T) {
	p := sctest.A3951Payload()
	p[6] = 0xfe
	p[7] = 0xfe
	p[8] = 0x80
	p[23] = 0x70

	ts, err := scparse.ParseStateUpdate(p)
	if err != nil {
		t.Fatalf("%s", err.Error())
	}

	eq := ts.State.Equalizer
	if eq.Profile != model.EQ_PROFILE_CUSTOM {
		t.Fatalf("profile: %s", eq.Profile)
	}
	if eq.Left[0] != 8 || eq.Right[7] != -8 {
		t.Errorf("custom bands: %s", eq)
	}
}

func TestRejectedStates(t *testing.T) {
	unknownProfile := sctest.A3951Payload()
	unknownProfile[7] = 0x01

	badBool := sctest.A3951Payload()
	badBool[1] = 0x02

	tests := []struct {
		name    string
		payload []byte
	}{
		{"empty", nil},
		{"truncated", sctest.A3951Payload()[:86]},
		{"extended", append(sctest.A3951Payload(), 0x00)},
		{"unknown profile", unknownProfile},
		{"bad bool", badBool},
	}

	for _, tst := range tests {
		if _, err := scparse.ParseStateUpdate(tst.payload); err == nil {
			t.Errorf("%s: accepted", tst.name)
		}
	}
}

func TestExperimentalLayouts(t *testing.T) {
	defer scparse.SetExperimental(true)

	scparse.SetExperimental(false)
	if _, err := scparse.ParseStateUpdate(sctest.A3947Payload()); err == nil {
		t.Errorf("A3947 state parsed with experimental layouts disabled")
	}

	scparse.SetExperimental(true)
	if _, err := scparse.ParseStateUpdate(sctest.A3947Payload()); err != nil {
		t.Errorf("A3947 state rejected: %s", err.Error())
	}
}

func TestParseProductState(t *testing.T) {
	ts, err := scparse.ParseProductState(product.CODE_A3930,
		sctest.A3930Payload())
	if err != nil || ts.Tag != product.CODE_A3930 {
		t.Fatalf("got %s, %v", ts.Tag, err)
	}

	if _, err := scparse.ParseProductState(product.CODE_A3951,
		sctest.A3930Payload()); err == nil {

		t.Errorf("A3930 payload parsed with the A3951 layout")
	}
	if _, err := scparse.ParseProductState(product.CODE_A3933,
		sctest.A3930Payload()); err == nil {

		t.Errorf("parsed with a product that has no layout")
	}
}
