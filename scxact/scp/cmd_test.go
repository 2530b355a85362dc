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


package scp_test

import (
	"bytes"
	"testing"

	"github.com/soundcore-tools/scmgr/scxact/model"
	"github.com/soundcore-tools/scmgr/scxact/product"
	. "github.com/soundcore-tools/scmgr/scxact/scp"
	"github.com/soundcore-tools/scmgr/scxact/scxutil"
)

func TestRequestState(t *testing.T) {
	want := []byte{
		0x08, 0xee, 0x00, 0x00, 0x00, 0x01, 0x01, 0x0a, 0x00, 0x02,
	}

	b := Encode(&RequestStateCmd{})
	if !bytes.Equal(b, want) {
		t.Errorf("want % x, got % x", want, b)
	}
}

func TestAdaptiveSoundModeCmd(t *testing.T) {
	sm := model.SoundModes{
		Current:     model.SOUND_MODE_TRANSPARENCY,
		AncMode:     model.ANC_ADAPTIVE_CUSTOM,
		TransMode:   model.TRANS_CUSTOM,
		CustomAnc:   4,
		CustomTrans: model.Uint8Ptr(2),
	}

	c := &SetSoundModeCmd{SoundModes: sm}
	want := []byte{0x01, 0x41, 0x01, 0x01, 0x00, 0x02}
	if !bytes.Equal(c.Payload(), want) {
		t.Fatalf("want % x, got % x", want, c.Payload())
	}

	cmd, err := DecodeCmd(Encode(c))
	if err != nil {
		t.Fatalf("%s", err.Error())
	}
	if got := cmd.(*SetSoundModeCmd).SoundModes; !got.Equal(sm) {
		t.Errorf("round trip: want %s, got %s", sm, got)
	}

	// An unset custom ANC level goes out as 0.
	sm.CustomAnc = model.CUSTOM_NOISE_UNSET
	c = &SetSoundModeCmd{SoundModes: sm}
	if c.Payload()[1] != 0x01 {
		t.Errorf("unset custom anc encoded as 0x%02x", c.Payload()[1])
	}
}

func hearIdState() *model.DeviceState {
	g := model.Gender(1)
	a := model.AgeRange(3)
	return &model.DeviceState{
		Gender:   &g,
		AgeRange: &a,
		HearId: &model.HearId{
			Kind:        model.HEAR_ID_CUSTOM,
			IsEnabled:   true,
			Left:        model.VolumeAdjustments{10, 10, 10, 10, 10, 10, 10, 10},
			Right:       model.VolumeAdjustments{20, 20, 20, 20, 20, 20, 20, 20},
			Time:        1234,
			HearIdType:  2,
			CustomLeft:  model.VolumeAdjustments{1, 2, 3, 4, 5, 6, 7, 8},
			CustomRight: model.VolumeAdjustments{8, 7, 6, 5, 4, 3, 2, 1},
		},
	}
}

func TestSetEqCmd(t *testing.T) {
	bldr := NewCmdBuilder(product.CODE_A3951)
	eq := model.NewStereoEq(model.EQ_PROFILE_CUSTOM,
		model.VolumeAdjustments{40, 30, 20, 10, 0, -10, -20, -30},
		model.VolumeAdjustments{0, 0, 0, 0, 0, 0, 0, 60})

	cmd := bldr.SetEq(hearIdState(), eq)
	if cmd.Cmd() != SCP_CMD_SET_EQ {
		t.Fatalf("cmd % x", cmd.Cmd())
	}

	pl := cmd.Payload()
	if len(pl) != SET_EQ_PAYLOAD_LEN {
		t.Fatalf("payload length %d", len(pl))
	}
	if pl[0] != 0xfe || pl[1] != 0xfe || pl[2] != 0xff || pl[3] != 0xff {
		t.Errorf("header % x", pl[:4])
	}
	if pl[4] != 0xa0 || pl[19] != 0xb4 {
		t.Errorf("bands % x", pl[4:20])
	}
	if pl[20] != 1 || pl[21] != 3 || pl[22] != 0 {
		t.Errorf("gender/age % x", pl[20:23])
	}

	// The DRC bands trail the payload.
	drcLeft := eq.Left.ApplyDrc().Bytes()
	if !bytes.Equal(pl[60:68], drcLeft) {
		t.Errorf("drc left: want % x, got % x", drcLeft, pl[60:68])
	}

	got, err := DecodeCmd(Encode(cmd))
	if err != nil {
		t.Fatalf("%s", err.Error())
	}
	se, ok := got.(*SetEqCmd)
	if !ok {
		t.Fatalf("decoded %T", got)
	}
	if se.Profile != model.EQ_PROFILE_CUSTOM ||
		!se.Left.Equal(eq.Left) || !se.Right.Equal(eq.Right) ||
		se.HearIdTime != 1234 || se.HearIdType != 2 ||
		!se.HearIdCustomRight.Equal(hearIdState().HearId.CustomRight) {

		t.Errorf("round trip: %+v", se.EqCmdBody)
	}
}

func TestSetEq10Cmd(t *testing.T) {
	bldr := NewCmdBuilder(product.CODE_A3040)
	eq := model.NewPresetEq(model.EQ_PROFILE_ROCK, 10, 1)

	cmd := bldr.SetEq(nil, eq)
	if cmd.Cmd() != SCP_CMD_SET_EQ {
		t.Fatalf("cmd % x", cmd.Cmd())
	}
	pl := cmd.Payload()
	if len(pl) != SET_EQ10_PAYLOAD_LEN {
		t.Fatalf("payload length %d", len(pl))
	}
	if pl[24] != byte(model.GENDER_UNKNOWN) ||
		pl[25] != byte(model.AGE_RANGE_UNKNOWN) {

		t.Errorf("missing gender/age not sent as unknown: % x", pl[24:26])
	}

	got, err := DecodeCmd(Encode(cmd))
	if err != nil {
		t.Fatalf("%s", err.Error())
	}
	se, ok := got.(*SetEq10Cmd)
	if !ok {
		t.Fatalf("decoded %T", got)
	}
	if se.Profile != model.EQ_PROFILE_ROCK || !se.Left.Equal(eq.Left) ||
		!se.Right.Equal(eq.Left) {

		t.Errorf("round trip: %+v", se.EqCmdBody)
	}

	bb := bldr.SetEq(nil, model.NewPresetEq(model.EQ_PROFILE_BASS_BOOSTER, 10, 1))
	if bb.Cmd() != SCP_CMD_SET_BASS_UP {
		t.Errorf("bass booster sent with cmd % x", bb.Cmd())
	}
	if _, err := DecodeCmd(Encode(bb)); err != nil {
		t.Errorf("bass booster eq: %s", err.Error())
	}
}

func TestSetBassUp(t *testing.T) {
	cmd, err := NewCmdBuilder(product.CODE_A3040).SetBassUp(true)
	if err != nil {
		t.Fatalf("%s", err.Error())
	}

	want := []byte{
		0x08, 0xee, 0x00, 0x00, 0x00, 0x02, 0x84, 0x0b, 0x00, 0x01,
	}
	want = append(want, Checksum(want))
	if b := Encode(cmd); !bytes.Equal(b, want) {
		t.Errorf("want % x, got % x", want, b)
	}

	got, err := DecodeCmd(Encode(cmd))
	if err != nil || !got.(*SetBassUpCmd).Enabled {
		t.Errorf("round trip: %#v, %v", got, err)
	}

	_, err = NewCmdBuilder(product.CODE_A3951).SetBassUp(true)
	if !scxutil.IsFeatureNotSupported(err) {
		t.Errorf("A3951 bass up: %v", err)
	}
}

func TestBuilderFallback(t *testing.T) {
	bldr := NewCmdBuilder(product.CODE_A3933)
	if bldr.Product() != product.CODE_A3933 {
		t.Errorf("product %s", bldr.Product())
	}

	cmd := bldr.SetEq(nil, model.NewPresetEq(model.EQ_PROFILE_JAZZ, 8, 1))
	if len(cmd.Payload()) != SET_EQ_PAYLOAD_LEN {
		t.Errorf("fallback payload length %d", len(cmd.Payload()))
	}
}
