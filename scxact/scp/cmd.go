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

package scp

import (
	"encoding/binary"
	"fmt"

	. "github.com/soundcore-tools/scmgr/scxact/model"
	"github.com/soundcore-tools/scmgr/scxact/scparse"
)

// A packet sent to a device.
type CmdPacket interface {
	Cmd() [SCP_CMD_LEN]byte
	Payload() []byte
}

func Encode(p CmdPacket) []byte {
	return EncodeFrame(p.Cmd(), p.Payload())
}

type RequestStateCmd struct{}

func (c *RequestStateCmd) Cmd() [SCP_CMD_LEN]byte { return SCP_CMD_REQUEST_STATE }
func (c *RequestStateCmd) Payload() []byte        { return nil }

type SetSoundModeCmd struct {
	SoundModes SoundModes
}

func (c *SetSoundModeCmd) Cmd() [SCP_CMD_LEN]byte {
	return SCP_CMD_SET_SOUND_MODE
}

// Products with scene based ANC and fixed transparency modes take the four
// byte form; all others take the six byte form.  A missing custom
// transparency level is sent as 0, and so is a custom ANC level that does
// not fit the six byte form's nibble; sessions reject such levels before
// encoding.
func (c *SetSoundModeCmd) Payload() []byte {
	sm := &c.SoundModes

	var anc, trans byte
	if sm.AncMode != nil {
		anc = sm.AncMode.Byte()
	}
	if sm.TransMode != nil {
		trans = sm.TransMode.Byte()
	}

	if sm.IsBasicForm() {
		return []byte{byte(sm.Current), anc, trans, sm.CustomAnc}
	}

	customAnc := sm.CustomAnc
	if customAnc > CUSTOM_NOISE_MAX {
		customAnc = 0
	}
	var customTrans byte
	if sm.CustomTrans != nil {
		customTrans = *sm.CustomTrans
	}

	return []byte{
		byte(sm.Current),
		customAnc<<4 | 0x01,
		trans,
		anc,
		0x00,
		customTrans,
	}
}

const HEARID_EQ_INDEX_NONE uint16 = 0xffff

// The fields shared by both EQ update layouts.  All band sets hold the
// layout's band count.
type EqCmdBody struct {
	Profile           EqualizerProfile
	HearIdEqIndex     uint16
	Left              VolumeAdjustments
	Right             VolumeAdjustments
	Gender            Gender
	AgeRange          AgeRange
	HearIdLeft        VolumeAdjustments
	HearIdRight       VolumeAdjustments
	HearIdTime        int32
	HearIdType        uint8
	HearIdCustomLeft  VolumeAdjustments
	HearIdCustomRight VolumeAdjustments
}

func (b *EqCmdBody) appendTo(buf []byte, numBands int) []byte {
	bands := func(va VolumeAdjustments) []byte {
		return va.Resize(numBands).Bytes()
	}

	buf = binary.LittleEndian.AppendUint16(buf, uint16(b.Profile))
	buf = binary.LittleEndian.AppendUint16(buf, b.HearIdEqIndex)
	buf = append(buf, bands(b.Left)...)
	buf = append(buf, bands(b.Right)...)
	buf = append(buf, byte(b.Gender), byte(b.AgeRange), 0x00)
	buf = append(buf, bands(b.HearIdLeft)...)
	buf = append(buf, bands(b.HearIdRight)...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(b.HearIdTime))
	buf = append(buf, b.HearIdType)
	buf = append(buf, bands(b.HearIdCustomLeft)...)
	buf = append(buf, bands(b.HearIdCustomRight)...)
	buf = append(buf, bands(b.Left.Resize(numBands).ApplyDrc())...)
	buf = append(buf, bands(b.Right.Resize(numBands).ApplyDrc())...)

	return buf
}

func decodeEqCmdBody(r *scparse.Reader, numBands int) (EqCmdBody, error) {
	b := EqCmdBody{}

	profile, err := r.U16()
	if err != nil {
		return b, err
	}
	b.Profile = EqualizerProfile(profile)

	if b.HearIdEqIndex, err = r.U16(); err != nil {
		return b, err
	}
	if b.Left, b.Right, err = scparse.ParseStereoEq(r, numBands); err != nil {
		return b, err
	}
	if b.Gender, err = scparse.ParseGender(r); err != nil {
		return b, err
	}
	if b.AgeRange, err = scparse.ParseAgeRange(r); err != nil {
		return b, err
	}
	if err := r.Skip(1); err != nil {
		return b, err
	}
	b.HearIdLeft, b.HearIdRight, err = scparse.ParseStereoEq(r, numBands)
	if err != nil {
		return b, err
	}
	if b.HearIdTime, err = r.I32(); err != nil {
		return b, err
	}
	if b.HearIdType, err = r.U8(); err != nil {
		return b, err
	}
	b.HearIdCustomLeft, b.HearIdCustomRight, err =
		scparse.ParseStereoEq(r, numBands)
	if err != nil {
		return b, err
	}

	// DRC bands are derived from Left and Right.
	if err := r.Skip(2 * numBands); err != nil {
		return b, err
	}

	return b, nil
}

const (
	SET_EQ_PAYLOAD_LEN   = 76
	SET_EQ10_PAYLOAD_LEN = 96
)

// EQ update for 8-band products.
type SetEqCmd struct {
	EqCmdBody
}

func (c *SetEqCmd) Cmd() [SCP_CMD_LEN]byte {
	return SCP_CMD_SET_EQ
}

func (c *SetEqCmd) Payload() []byte {
	return c.appendTo(make([]byte, 0, SET_EQ_PAYLOAD_LEN), 8)
}

// EQ update for 10-band products.  Switching to the bass booster profile
// uses the bass-up command word.
type SetEq10Cmd struct {
	EqCmdBody
	MusicType uint8
	VolumeDb  uint8
}

func (c *SetEq10Cmd) Cmd() [SCP_CMD_LEN]byte {
	if c.Profile == EQ_PROFILE_BASS_BOOSTER {
		return SCP_CMD_SET_BASS_UP
	}
	return SCP_CMD_SET_EQ
}

func (c *SetEq10Cmd) Payload() []byte {
	buf := c.appendTo(make([]byte, 0, SET_EQ10_PAYLOAD_LEN), 10)
	buf = append(buf, c.MusicType, 0x00, 0x00)
	buf = append(buf, c.VolumeDb)
	return buf
}

type SetBassUpCmd struct {
	Enabled bool
}

func (c *SetBassUpCmd) Cmd() [SCP_CMD_LEN]byte {
	return SCP_CMD_SET_BASS_UP
}

func (c *SetBassUpCmd) Payload() []byte {
	if c.Enabled {
		return []byte{0x01}
	}
	return []byte{0x00}
}

func decodeSetEq(payload []byte) (CmdPacket, error) {
	r := scparse.NewReader(payload)
	r.SetCtx("set eq")

	body, err := decodeEqCmdBody(r, 8)
	if err != nil {
		return nil, err
	}
	if err := r.AllConsumed(); err != nil {
		return nil, err
	}

	return &SetEqCmd{body}, nil
}

func decodeSetEq10(payload []byte) (CmdPacket, error) {
	r := scparse.NewReader(payload)
	r.SetCtx("set eq10")

	c := &SetEq10Cmd{}
	var err error

	if c.EqCmdBody, err = decodeEqCmdBody(r, 10); err != nil {
		return nil, err
	}
	if c.MusicType, err = r.U8(); err != nil {
		return nil, err
	}
	if err := r.Skip(2); err != nil {
		return nil, err
	}
	if c.VolumeDb, err = r.U8(); err != nil {
		return nil, err
	}
	if err := r.AllConsumed(); err != nil {
		return nil, err
	}

	return c, nil
}

// Decodes a frame produced by Encode back into its command.
func DecodeCmd(b []byte) (CmdPacket, error) {
	f, err := DecodeFrame(b)
	if err != nil {
		return nil, err
	}
	if !f.Outbound {
		return nil, &InvalidPrefixError{
			Prefix: append([]byte(nil), b[:SCP_PREFIX_LEN]...),
		}
	}

	var cmd [SCP_CMD_LEN]byte
	copy(cmd[:], b[:SCP_CMD_LEN])
	pl := f.Payload

	switch {
	case cmd == SCP_CMD_REQUEST_STATE && len(pl) == 0:
		return &RequestStateCmd{}, nil

	case cmd == SCP_CMD_SET_SOUND_MODE:
		sm, err := scparse.ParseSoundModeUpdate(pl)
		if err != nil {
			return nil, err
		}
		return &SetSoundModeCmd{sm}, nil

	case cmd == SCP_CMD_SET_EQ && len(pl) == SET_EQ_PAYLOAD_LEN:
		return decodeSetEq(pl)

	case (cmd == SCP_CMD_SET_EQ || cmd == SCP_CMD_SET_BASS_UP) &&
		len(pl) == SET_EQ10_PAYLOAD_LEN:

		return decodeSetEq10(pl)

	case cmd == SCP_CMD_SET_BASS_UP && len(pl) == 1:
		v, err := scparse.ParseFlag(pl)
		if err != nil {
			return nil, err
		}
		return &SetBassUpCmd{v}, nil

	default:
		return nil, fmt.Errorf("unrecognized command % x with %d byte payload",
			cmd[5:], len(pl))
	}
}
