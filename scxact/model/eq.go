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

package model

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Band values are tenths of a decibel.
const (
	EQ_BAND_MIN    = -120
	EQ_BAND_MAX    = 120
	EQ_BAND_OFFSET = 120
)

type EqualizerProfile uint16

const (
	EQ_PROFILE_SOUNDCORE_SIGNATURE EqualizerProfile = 0x0000
	EQ_PROFILE_ACOUSTIC            EqualizerProfile = 0x0001
	EQ_PROFILE_BASS_BOOSTER        EqualizerProfile = 0x0002
	EQ_PROFILE_BASS_REDUCER        EqualizerProfile = 0x0003
	EQ_PROFILE_CLASSICAL           EqualizerProfile = 0x0004
	EQ_PROFILE_PODCAST             EqualizerProfile = 0x0005
	EQ_PROFILE_DANCE               EqualizerProfile = 0x0006
	EQ_PROFILE_DEEP                EqualizerProfile = 0x0007
	EQ_PROFILE_ELECTRONIC          EqualizerProfile = 0x0008
	EQ_PROFILE_FLAT                EqualizerProfile = 0x0009
	EQ_PROFILE_HIP_HOP             EqualizerProfile = 0x000a
	EQ_PROFILE_JAZZ                EqualizerProfile = 0x000b
	EQ_PROFILE_LATIN               EqualizerProfile = 0x000c
	EQ_PROFILE_LOUNGE              EqualizerProfile = 0x000d
	EQ_PROFILE_PIANO               EqualizerProfile = 0x000e
	EQ_PROFILE_POP                 EqualizerProfile = 0x000f
	EQ_PROFILE_RNB                 EqualizerProfile = 0x0010
	EQ_PROFILE_ROCK                EqualizerProfile = 0x0011
	EQ_PROFILE_SMALL_SPEAKERS      EqualizerProfile = 0x0012
	EQ_PROFILE_SPOKEN_WORD         EqualizerProfile = 0x0013
	EQ_PROFILE_TREBLE_BOOSTER      EqualizerProfile = 0x0014
	EQ_PROFILE_TREBLE_REDUCER      EqualizerProfile = 0x0015
	EQ_PROFILE_CUSTOM              EqualizerProfile = 0xfefe
)

type eqPreset struct {
	name  string
	bands [8]int8
}

var eqPresetMap = map[EqualizerProfile]eqPreset{
	EQ_PROFILE_SOUNDCORE_SIGNATURE: {"soundcore_signature", [8]int8{0, 0, 0, 0, 0, 0, 0, 0}},
	EQ_PROFILE_ACOUSTIC:            {"acoustic", [8]int8{40, 10, 20, 20, 40, 40, 40, 20}},
	EQ_PROFILE_BASS_BOOSTER:        {"bass_booster", [8]int8{40, 30, 10, 0, 0, 0, 0, 0}},
	EQ_PROFILE_BASS_REDUCER:        {"bass_reducer", [8]int8{-40, -30, -10, 0, 0, 0, 0, 0}},
	EQ_PROFILE_CLASSICAL:           {"classical", [8]int8{30, 30, -20, -20, 0, 20, 30, 40}},
	EQ_PROFILE_PODCAST:             {"podcast", [8]int8{-30, 20, 40, 40, 30, 20, 0, -20}},
	EQ_PROFILE_DANCE:               {"dance", [8]int8{20, -10, 0, 20, 30, 20, 0, -20}},
	EQ_PROFILE_DEEP:                {"deep", [8]int8{20, 10, 30, 30, 20, -20, -40, -50}},
	EQ_PROFILE_ELECTRONIC:          {"electronic", [8]int8{30, 20, -20, 20, 10, 20, 30, 30}},
	EQ_PROFILE_FLAT:                {"flat", [8]int8{-20, -20, -10, 0, 0, 0, -20, -20}},
	EQ_PROFILE_HIP_HOP:             {"hip_hop", [8]int8{20, 30, -10, -10, 20, -10, 20, 30}},
	EQ_PROFILE_JAZZ:                {"jazz", [8]int8{20, 0, 20, 30, 30, 20, 20, 30}},
	EQ_PROFILE_LATIN:               {"latin", [8]int8{0, 0, -20, -20, -20, 0, 30, 50}},
	EQ_PROFILE_LOUNGE:              {"lounge", [8]int8{-10, 20, 40, 30, 0, -20, 20, 10}},
	EQ_PROFILE_PIANO:               {"piano", [8]int8{0, 30, 30, 20, 40, 50, 30, 40}},
	EQ_PROFILE_POP:                 {"pop", [8]int8{-10, 10, 30, 30, 10, -10, -20, -30}},
	EQ_PROFILE_RNB:                 {"rnb", [8]int8{60, 20, -20, -20, 20, 30, 30, 40}},
	EQ_PROFILE_ROCK:                {"rock", [8]int8{30, 20, -10, -10, 10, 30, 30, 30}},
	EQ_PROFILE_SMALL_SPEAKERS:      {"small_speakers", [8]int8{40, 30, 10, 0, -20, -30, -40, -40}},
	EQ_PROFILE_SPOKEN_WORD:         {"spoken_word", [8]int8{-30, -20, 10, 20, 20, 10, 0, -30}},
	EQ_PROFILE_TREBLE_BOOSTER:      {"treble_booster", [8]int8{-20, -20, -20, -10, 10, 20, 20, 40}},
	EQ_PROFILE_TREBLE_REDUCER:      {"treble_reducer", [8]int8{0, 0, 0, -20, -30, -40, -40, -60}},
}

func (p EqualizerProfile) IsCustom() bool {
	return p == EQ_PROFILE_CUSTOM
}

func (p EqualizerProfile) IsKnown() bool {
	if p.IsCustom() {
		return true
	}
	_, ok := eqPresetMap[p]
	return ok
}

func (p EqualizerProfile) String() string {
	if p.IsCustom() {
		return "custom"
	}
	if pr, ok := eqPresetMap[p]; ok {
		return pr.name
	}
	return fmt.Sprintf("0x%04x", uint16(p))
}

func (p EqualizerProfile) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func EqualizerProfileFromString(s string) (EqualizerProfile, error) {
	if s == "custom" {
		return EQ_PROFILE_CUSTOM, nil
	}
	for p, pr := range eqPresetMap {
		if pr.name == s {
			return p, nil
		}
	}

	return 0, fmt.Errorf("Invalid EQ profile string: %s", s)
}

// Lists the preset profiles in id order.
func EqualizerPresets() []EqualizerProfile {
	ps := make([]EqualizerProfile, 0, len(eqPresetMap))
	for p := range eqPresetMap {
		ps = append(ps, p)
	}
	sort.Slice(ps, func(i, j int) bool { return ps[i] < ps[j] })
	return ps
}

// Returns the canonical bands of a preset, extended with flat bands when
// numBands exceeds eight.  Custom and unknown profiles are all zeroes.
func (p EqualizerProfile) Bands(numBands int) VolumeAdjustments {
	va := make(VolumeAdjustments, numBands)
	if pr, ok := eqPresetMap[p]; ok {
		for i := 0; i < numBands && i < len(pr.bands); i++ {
			va[i] = pr.bands[i]
		}
	}
	return va
}

type VolumeAdjustments []int8

func ClampBand(v int) int8 {
	if v < EQ_BAND_MIN {
		return EQ_BAND_MIN
	}
	if v > EQ_BAND_MAX {
		return EQ_BAND_MAX
	}
	return int8(v)
}

func EncodeBand(v int8) byte {
	return byte(int(ClampBand(int(v))) + EQ_BAND_OFFSET)
}

func DecodeBand(b byte) int8 {
	return ClampBand(int(b) - EQ_BAND_OFFSET)
}

func NewVolumeAdjustments(vals []int8) VolumeAdjustments {
	va := make(VolumeAdjustments, len(vals))
	for i, v := range vals {
		va[i] = ClampBand(int(v))
	}
	return va
}

func (va VolumeAdjustments) Bytes() []byte {
	b := make([]byte, len(va))
	for i, v := range va {
		b[i] = EncodeBand(v)
	}
	return b
}

// Returns a copy resized to n bands; new bands are flat.
func (va VolumeAdjustments) Resize(n int) VolumeAdjustments {
	out := make(VolumeAdjustments, n)
	copy(out, va)
	return out
}

func (va VolumeAdjustments) Equal(other VolumeAdjustments) bool {
	if len(va) != len(other) {
		return false
	}
	for i := range va {
		if va[i] != other[i] {
			return false
		}
	}
	return true
}

// Derives the band set the device applies when dynamic range compression
// is active: every band is lowered by the largest boost so that no band
// exceeds 0 dB.
func (va VolumeAdjustments) ApplyDrc() VolumeAdjustments {
	peak := 0
	for _, v := range va {
		if int(v) > peak {
			peak = int(v)
		}
	}

	out := make(VolumeAdjustments, len(va))
	for i, v := range va {
		out[i] = ClampBand(int(v) - peak)
	}
	return out
}

// Either a mono or a stereo EQ.  Right is nil for mono configurations.
type EqualizerConfiguration struct {
	Profile EqualizerProfile
	Left    VolumeAdjustments
	Right   VolumeAdjustments
}

func NewMonoEq(profile EqualizerProfile,
	va VolumeAdjustments) EqualizerConfiguration {

	return EqualizerConfiguration{
		Profile: profile,
		Left:    va,
	}
}

func NewStereoEq(profile EqualizerProfile,
	left VolumeAdjustments, right VolumeAdjustments) EqualizerConfiguration {

	return EqualizerConfiguration{
		Profile: profile,
		Left:    left,
		Right:   right,
	}
}

// Builds a configuration for a preset, using the preset's canonical bands
// on every channel.
func NewPresetEq(profile EqualizerProfile,
	numBands int, numChannels int) EqualizerConfiguration {

	if numChannels > 1 {
		return NewStereoEq(profile,
			profile.Bands(numBands), profile.Bands(numBands))
	}
	return NewMonoEq(profile, profile.Bands(numBands))
}

// Builds a custom configuration from a single band set.
func NewCustomEq(vals []int8, numBands int,
	numChannels int) EqualizerConfiguration {

	va := NewVolumeAdjustments(vals).Resize(numBands)
	if numChannels > 1 {
		return NewStereoEq(EQ_PROFILE_CUSTOM, va, va.Resize(numBands))
	}
	return NewMonoEq(EQ_PROFILE_CUSTOM, va)
}

func (c *EqualizerConfiguration) IsStereo() bool {
	return c.Right != nil
}

func (c *EqualizerConfiguration) NumBands() int {
	return len(c.Left)
}

// Returns the right channel; for mono configurations this is the left.
func (c *EqualizerConfiguration) RightOrLeft() VolumeAdjustments {
	if c.Right != nil {
		return c.Right
	}
	return c.Left
}

func (c EqualizerConfiguration) Equal(other EqualizerConfiguration) bool {
	if c.Profile != other.Profile || c.IsStereo() != other.IsStereo() {
		return false
	}
	return c.Left.Equal(other.Left) && c.Right.Equal(other.Right)
}

func (c EqualizerConfiguration) String() string {
	if c.IsStereo() {
		return fmt.Sprintf("profile=%s left=%v right=%v",
			c.Profile, []int8(c.Left), []int8(c.Right))
	}
	return fmt.Sprintf("profile=%s bands=%v", c.Profile, []int8(c.Left))
}
