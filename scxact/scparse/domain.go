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

const (
	FIRMWARE_LEN = 5
	SERIAL_LEN   = 16
	BUTTONS_LEN  = 12
)

func parseBatteryLevel(r *Reader) (uint8, error) {
	lvl, err := r.U8()
	if err != nil {
		return 0, err
	}
	if lvl > BATTERY_LEVEL_MAX && lvl != BATTERY_LEVEL_UNKNOWN {
		return 0, r.Errorf("invalid battery level: %d", lvl)
	}
	return lvl, nil
}

func ParseDualBattery(r *Reader) (Battery, error) {
	var bl, br SingleBattery
	var err error

	if bl.Level, err = parseBatteryLevel(r); err != nil {
		return Battery{}, err
	}
	if br.Level, err = parseBatteryLevel(r); err != nil {
		return Battery{}, err
	}
	if bl.IsCharging, err = r.Bool(); err != nil {
		return Battery{}, err
	}
	if br.IsCharging, err = r.Bool(); err != nil {
		return Battery{}, err
	}

	return NewDualBattery(bl, br), nil
}

func ParseSingleBattery(r *Reader) (Battery, error) {
	lvl, err := parseBatteryLevel(r)
	if err != nil {
		return Battery{}, err
	}
	chg, err := r.Bool()
	if err != nil {
		return Battery{}, err
	}

	return NewSingleBattery(lvl, chg), nil
}

func ParseFirmware(r *Reader) (FirmwareVersion, error) {
	off := r.Offset()
	s, err := r.String(FIRMWARE_LEN)
	if err != nil {
		return FirmwareVersion{}, err
	}

	fv, err := ParseFirmwareVersion(s)
	if err != nil {
		return FirmwareVersion{}, &ParseError{
			Ctx:    r.ctx,
			Off:    off,
			Reason: err.Error(),
		}
	}
	return fv, nil
}

func ParseSerial(r *Reader) (SerialNumber, error) {
	s, err := r.String(SERIAL_LEN)
	if err != nil {
		return "", err
	}
	return SerialNumber(s), nil
}

// Reads n band bytes.
func ParseMonoEq(r *Reader, n int) (VolumeAdjustments, error) {
	b, err := r.Take(n)
	if err != nil {
		return nil, err
	}

	va := make(VolumeAdjustments, n)
	for i, v := range b {
		va[i] = DecodeBand(v)
	}
	return va, nil
}

func ParseStereoEq(r *Reader, n int) (VolumeAdjustments,
	VolumeAdjustments, error) {

	left, err := ParseMonoEq(r, n)
	if err != nil {
		return nil, nil, err
	}
	right, err := ParseMonoEq(r, n)
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

func parseEqProfile(r *Reader) (EqualizerProfile, error) {
	id, err := r.U16()
	if err != nil {
		return 0, err
	}

	p := EqualizerProfile(id)
	if !p.IsKnown() {
		return 0, r.Errorf("unknown eq profile: 0x%04x", id)
	}
	return p, nil
}

// Reads a profile id followed by a mono or stereo band set.  Preset profiles
// replace the transmitted bands with their canonical ones.
func ParseEqConfiguration(r *Reader, numBands int,
	stereo bool) (EqualizerConfiguration, error) {

	p, err := parseEqProfile(r)
	if err != nil {
		return EqualizerConfiguration{}, err
	}

	if stereo {
		left, right, err := ParseStereoEq(r, numBands)
		if err != nil {
			return EqualizerConfiguration{}, err
		}
		if !p.IsCustom() {
			left = p.Bands(numBands)
			right = p.Bands(numBands)
		}
		return NewStereoEq(p, left, right), nil
	}

	va, err := ParseMonoEq(r, numBands)
	if err != nil {
		return EqualizerConfiguration{}, err
	}
	if !p.IsCustom() {
		va = p.Bands(numBands)
	}
	return NewMonoEq(p, va), nil
}

func parseCustomNoise(r *Reader) (uint8, error) {
	v, err := r.U8()
	if err != nil {
		return 0, err
	}
	if v > CUSTOM_NOISE_MAX && v != CUSTOM_NOISE_UNSET {
		return 0, r.Errorf("invalid custom noise value: %d", v)
	}
	return v, nil
}

// Four byte form: current, scene ANC mode, fixed transparency mode, custom
// ANC level.
func ParseSoundModes(r *Reader) (SoundModes, error) {
	sm := SoundModes{}

	b, err := r.U8()
	if err != nil {
		return sm, err
	}
	if sm.Current, err = CurrentSoundModeFromByte(b); err != nil {
		return sm, r.Errorf("%s", err.Error())
	}

	if b, err = r.U8(); err != nil {
		return sm, err
	}
	anc, err := SceneAncModeFromByte(b)
	if err != nil {
		return sm, r.Errorf("%s", err.Error())
	}
	sm.AncMode = anc

	if b, err = r.U8(); err != nil {
		return sm, err
	}
	trans, err := NonCustomTransModeFromByte(b)
	if err != nil {
		return sm, r.Errorf("%s", err.Error())
	}
	sm.TransMode = trans

	if sm.CustomAnc, err = parseCustomNoise(r); err != nil {
		return sm, err
	}

	return sm, nil
}

// Six byte form used by adaptive ANC products: current, packed custom ANC
// level and auto bit, customizable transparency mode, adaptive ANC mode, a
// reserved byte and the custom transparency level.
func ParseAdaptiveSoundModes(r *Reader) (SoundModes, error) {
	sm := SoundModes{}

	b, err := r.U8()
	if err != nil {
		return sm, err
	}
	if sm.Current, err = CurrentSoundModeFromByte(b); err != nil {
		return sm, r.Errorf("%s", err.Error())
	}

	if b, err = r.U8(); err != nil {
		return sm, err
	}
	sm.CustomAnc = b >> 4
	if sm.CustomAnc > CUSTOM_NOISE_MAX {
		return sm, r.Errorf("invalid custom anc value: %d", sm.CustomAnc)
	}

	if b, err = r.U8(); err != nil {
		return sm, err
	}
	trans, err := CustomTransModeFromByte(b)
	if err != nil {
		return sm, r.Errorf("%s", err.Error())
	}
	sm.TransMode = trans

	if b, err = r.U8(); err != nil {
		return sm, err
	}
	anc, err := AdaptiveAncModeFromByte(b)
	if err != nil {
		return sm, r.Errorf("%s", err.Error())
	}
	sm.AncMode = anc

	if err := r.Skip(1); err != nil {
		return sm, err
	}

	ct, err := parseCustomNoise(r)
	if err != nil {
		return sm, err
	}
	sm.CustomTrans = Uint8Ptr(ct)

	return sm, nil
}

func parseButtonAction(r *Reader, v uint8) (ButtonAction, error) {
	a := ButtonAction(v)
	if !a.IsValid() {
		return 0, r.Errorf("invalid button action: %d", v)
	}
	return a, nil
}

// Six two-byte gestures, each an enabled flag followed by the packed
// (disconnected<<4 | connected) actions.
func ParseButtonModel(r *Reader) (CustomButtonModel, error) {
	m := CustomButtonModel{}

	for _, g := range m.Gestures() {
		enabled, err := r.Bool()
		if err != nil {
			return m, err
		}
		packed, err := r.U8()
		if err != nil {
			return m, err
		}

		conn, err := parseButtonAction(r, packed&0x0f)
		if err != nil {
			return m, err
		}
		disc, err := parseButtonAction(r, packed>>4)
		if err != nil {
			return m, err
		}

		*g = TwsButtonAction{
			TwsConnected:    conn,
			TwsDisconnected: disc,
			IsEnabled:       enabled,
		}
	}

	return m, nil
}

func ParseBasicHearId(r *Reader, numBands int) (HearId, error) {
	h := HearId{Kind: HEAR_ID_BASIC}
	var err error

	if h.IsEnabled, err = r.Bool(); err != nil {
		return h, err
	}
	if h.Left, h.Right, err = ParseStereoEq(r, numBands); err != nil {
		return h, err
	}
	if h.Time, err = r.I32(); err != nil {
		return h, err
	}

	return h, nil
}

func ParseCustomHearId(r *Reader, numBands int) (HearId, error) {
	h, err := ParseBasicHearId(r, numBands)
	if err != nil {
		return h, err
	}
	h.Kind = HEAR_ID_CUSTOM

	if h.HearIdType, err = r.U8(); err != nil {
		return h, err
	}
	h.CustomLeft, h.CustomRight, err = ParseStereoEq(r, numBands)
	if err != nil {
		return h, err
	}

	return h, nil
}

func ParseAgeRange(r *Reader) (AgeRange, error) {
	v, err := r.U8()
	return AgeRange(v), err
}

func ParseGender(r *Reader) (Gender, error) {
	v, err := r.U8()
	return Gender(v), err
}

func ParseAutoPowerOff(r *Reader) (AutoPowerOff, error) {
	apo := AutoPowerOff{}
	var err error

	if apo.IsEnabled, err = r.Bool(); err != nil {
		return apo, err
	}
	if apo.DurationIndex, err = r.U8(); err != nil {
		return apo, err
	}
	return apo, nil
}

func ParseHearingProtection(r *Reader) (HearingProtection, error) {
	hp := HearingProtection{}
	var err error

	if hp.IsEnabled, err = r.Bool(); err != nil {
		return hp, err
	}
	if hp.Level, err = r.U8(); err != nil {
		return hp, err
	}
	return hp, nil
}
