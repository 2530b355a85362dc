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
	"github.com/soundcore-tools/scmgr/scxact/sctest"
)

// Normal mode, outdoor ANC, fully transparent.
var setSoundModeFrame = []byte{
	0x08, 0xee, 0x00, 0x00, 0x00, 0x06, 0x81, 0x0e, 0x00,
	0x02, 0x01, 0x00, 0x00, 0x8e,
}

func basicSoundModes() model.SoundModes {
	return model.SoundModes{
		Current:   model.SOUND_MODE_NORMAL,
		AncMode:   model.ANC_SCENE_OUTDOOR,
		TransMode: model.TRANS_FULLY_TRANSPARENT,
	}
}

func TestEncodeSetSoundMode(t *testing.T) {
	b := Encode(&SetSoundModeCmd{SoundModes: basicSoundModes()})
	if !bytes.Equal(b, setSoundModeFrame) {
		t.Fatalf("want % x, got % x", setSoundModeFrame, b)
	}

	cmd, err := DecodeCmd(b)
	if err != nil {
		t.Fatalf("%s", err.Error())
	}
	ssm, ok := cmd.(*SetSoundModeCmd)
	if !ok || !ssm.SoundModes.Equal(basicSoundModes()) {
		t.Errorf("decoded %#v", cmd)
	}
}

func TestDecodeFrameErrors(t *testing.T) {
	badSum := append([]byte(nil), setSoundModeFrame...)
	badSum[len(badSum)-1] = 0x8f

	badLen := append([]byte(nil), setSoundModeFrame...)
	badLen[7] = 0x0f

	badPrefix := append([]byte(nil), setSoundModeFrame...)
	badPrefix[0] = 0x07
	badPrefix[len(badPrefix)-1]--

	tests := []struct {
		name  string
		b     []byte
		check func(error) bool
	}{
		{"checksum", badSum, IsChecksumMismatch},
		{"length", badLen, IsInvalidLength},
		{"short", setSoundModeFrame[:9], IsTooShort},
		{"prefix", badPrefix, IsInvalidPrefix},
	}

	for _, tst := range tests {
		_, err := DecodeFrame(tst.b)
		if err == nil {
			t.Errorf("%s: accepted", tst.name)
			continue
		}
		if !tst.check(err) {
			t.Errorf("%s: unexpected error: %s", tst.name, err.Error())
		}
		if !IsProtocolError(err) {
			t.Errorf("%s: not a protocol error: %s", tst.name, err.Error())
		}
	}

	if _, err := Decode(badSum); !IsChecksumMismatch(err) {
		t.Errorf("Decode accepted a bad checksum: %v", err)
	}
}

func TestChecksumMismatchValues(t *testing.T) {
	b := append([]byte(nil), setSoundModeFrame...)
	b[len(b)-1] = 0x8f

	_, err := DecodeFrame(b)
	cme, ok := err.(*ChecksumMismatchError)
	if !ok {
		t.Fatalf("unexpected error: %v", err)
	}
	if cme.Expected != 0x8e || cme.Got != 0x8f {
		t.Errorf("got %+v", *cme)
	}
}

func TestDecodeRejectsOutbound(t *testing.T) {
	if _, err := Decode(setSoundModeFrame); !IsInvalidPrefix(err) {
		t.Errorf("outbound frame decoded as a device packet: %v", err)
	}
	if _, err := DecodeCmd(sctest.StateFrame(sctest.A3951Payload())); err == nil {
		t.Errorf("inbound frame decoded as a command")
	}
}

func TestDecodeStateFrame(t *testing.T) {
	b := sctest.StateFrame(sctest.A3951Payload())
	if len(b) != 97 {
		t.Fatalf("want a 97 byte frame, got %d", len(b))
	}

	pkt, err := Decode(b)
	if err != nil {
		t.Fatalf("%s", err.Error())
	}
	su, ok := pkt.(*StateUpdatePkt)
	if !ok {
		t.Fatalf("decoded %s", pkt.Kind())
	}
	if su.Tag != product.CODE_A3951 {
		t.Errorf("product %s", su.Tag)
	}
}

func TestDecodeUpdates(t *testing.T) {
	tests := []struct {
		tag  uint16
		pl   []byte
		kind PktKind
	}{
		{SCP_TAG_SOUND_MODE_UPDATE, []byte{0x00, 0x00, 0x00, 0x00}, PKT_KIND_SOUND_MODE_UPDATE},
		{SCP_TAG_BATT_LEVEL_UPDATE, []byte{0x03, 0x04}, PKT_KIND_BATT_LEVEL_UPDATE},
		{SCP_TAG_BATT_CHARGING_UPDATE, []byte{0x01}, PKT_KIND_BATT_CHARGING_UPDATE},
		{SCP_TAG_INFO_UPDATE, []byte("02.613951ABCDEF012345"), PKT_KIND_INFO_UPDATE},
		{SCP_TAG_LDAC_UPDATE, []byte{0x01}, PKT_KIND_LDAC_UPDATE},
		{SCP_TAG_BASS_UP_UPDATE, []byte{0x00}, PKT_KIND_BASS_UP_UPDATE},
		{SCP_TAG_EQ_INFO_UPDATE, []byte{0x02, 0x00}, PKT_KIND_EQ_INFO_UPDATE},
		{SCP_TAG_SET_EQ_ACK, nil, PKT_KIND_SET_EQ_ACK},
		{SCP_TAG_SET_SOUND_MODE_ACK, []byte{0x01}, PKT_KIND_SET_SOUND_MODE_ACK},
	}

	for _, tst := range tests {
		pkt, err := Decode(sctest.InFrame(tst.tag, tst.pl))
		if err != nil {
			t.Errorf("0x%04x: %s", tst.tag, err.Error())
			continue
		}
		if pkt.Kind() != tst.kind {
			t.Errorf("0x%04x: want %s, got %s", tst.tag, tst.kind, pkt.Kind())
		}
		if tst.kind.Tag() != tst.tag {
			t.Errorf("%s: tag 0x%04x", tst.kind, tst.kind.Tag())
		}
	}

	_, err := Decode(sctest.InFrame(0x0777, []byte{0x01}))
	if !IsUnknownKind(err) {
		t.Errorf("unknown tag: %v", err)
	}

	_, err = Decode(sctest.InFrame(SCP_TAG_LDAC_UPDATE, []byte{0x02}))
	if !IsPayloadParse(err) {
		t.Errorf("bad payload: %v", err)
	}
}
