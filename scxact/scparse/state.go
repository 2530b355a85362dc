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
	"sync/atomic"

	log "github.com/sirupsen/logrus"

	. "github.com/soundcore-tools/scmgr/scxact/model"
	"github.com/soundcore-tools/scmgr/scxact/product"
)

// A parsed state snapshot and the product whose layout it matched.
type TaggedState struct {
	Tag   product.Code
	State *DeviceState
}

// Sequences parsers over a reader; after the first failure every further
// step is a no-op and the failure is reported by done().
type seq struct {
	r   *Reader
	err error
}

func get[T any](s *seq, fn func(*Reader) (T, error)) T {
	var zero T
	if s.err != nil {
		return zero
	}

	v, err := fn(s.r)
	if err != nil {
		s.err = err
		return zero
	}
	return v
}

func ptr[T any](s *seq, fn func(*Reader) (T, error)) *T {
	v := get(s, fn)
	if s.err != nil {
		return nil
	}
	return &v
}

func (s *seq) skip(n int) {
	if s.err == nil {
		s.err = s.r.Skip(n)
	}
}

func (s *seq) done(strict bool) error {
	if s.err != nil {
		return s.err
	}
	if strict {
		return s.r.AllConsumed()
	}
	return nil
}

func eqConfig(numBands int,
	stereo bool) func(*Reader) (EqualizerConfiguration, error) {

	return func(r *Reader) (EqualizerConfiguration, error) {
		return ParseEqConfiguration(r, numBands, stereo)
	}
}

func basicHearId(numBands int) func(*Reader) (HearId, error) {
	return func(r *Reader) (HearId, error) {
		return ParseBasicHearId(r, numBands)
	}
}

func customHearId(numBands int) func(*Reader) (HearId, error) {
	return func(r *Reader) (HearId, error) {
		return ParseCustomHearId(r, numBands)
	}
}

var boolp = (*Reader).Bool
var u8p = (*Reader).U8

// Shared by the A3027 and A3028, which differ only in the two trailing
// toggles.
func parseQ3x(s *seq, st *DeviceState) {
	st.Battery = get(s, ParseSingleBattery)
	st.Equalizer = get(s, eqConfig(8, false))
	st.Gender = ptr(s, ParseGender)
	st.AgeRange = ptr(s, ParseAgeRange)
	st.HearId = ptr(s, basicHearId(8))
	st.SoundModes = get(s, ParseSoundModes)
	st.FirmwareVersion = ptr(s, ParseFirmware)
	st.SerialNumber = ptr(s, ParseSerial)
}

func parseA3027(r *Reader) (*DeviceState, error) {
	s := &seq{r: r}
	st := &DeviceState{}

	parseQ3x(s, st)
	st.WearDetection = ptr(s, boolp)
	st.TouchTone = ptr(s, boolp)

	return st, s.done(true)
}

func parseA3028(r *Reader) (*DeviceState, error) {
	s := &seq{r: r}
	st := &DeviceState{}

	parseQ3x(s, st)

	return st, s.done(true)
}

func parseA3029(r *Reader) (*DeviceState, error) {
	s := &seq{r: r}
	st := &DeviceState{}

	st.Battery = get(s, ParseSingleBattery)
	st.Equalizer = get(s, eqConfig(8, false))
	st.SoundModes = get(s, ParseSoundModes)
	st.FirmwareVersion = ptr(s, ParseFirmware)
	st.SerialNumber = ptr(s, ParseSerial)

	return st, s.done(true)
}

func parseA3930(r *Reader) (*DeviceState, error) {
	s := &seq{r: r}
	st := &DeviceState{}

	st.HostDevice = ptr(s, u8p)
	st.TwsStatus = ptr(s, boolp)
	st.Battery = get(s, ParseDualBattery)
	st.Equalizer = get(s, eqConfig(8, true))
	st.Gender = ptr(s, ParseGender)
	st.AgeRange = ptr(s, ParseAgeRange)
	st.HearId = ptr(s, customHearId(8))
	st.SoundModes = get(s, ParseSoundModes)
	st.SideTone = ptr(s, boolp)

	return st, s.done(true)
}

func parseA3040(r *Reader) (*DeviceState, error) {
	s := &seq{r: r}
	st := &DeviceState{}

	st.Battery = get(s, ParseSingleBattery)
	st.FirmwareVersion = ptr(s, ParseFirmware)
	st.SerialNumber = ptr(s, ParseSerial)
	st.Equalizer = get(s, eqConfig(10, false))
	st.AgeRange = ptr(s, ParseAgeRange)
	st.HearId = ptr(s, basicHearId(10))
	st.SoundModes = get(s, ParseAdaptiveSoundModes)
	st.AmbientSoundNotice = ptr(s, boolp)
	st.PowerOnBatteryNotice = ptr(s, boolp)
	st.AutoPowerOff = ptr(s, ParseAutoPowerOff)
	st.Ldac = ptr(s, boolp)
	st.BassUp = ptr(s, boolp)
	st.TouchTone = ptr(s, boolp)
	st.PromptLanguage = ptr(s, u8p)
	st.DeviceColor = ptr(s, u8p)

	return st, s.done(true)
}

func parseA3951(r *Reader) (*DeviceState, error) {
	s := &seq{r: r}
	st := &DeviceState{}

	st.HostDevice = ptr(s, u8p)
	st.TwsStatus = ptr(s, boolp)
	st.Battery = get(s, ParseDualBattery)
	st.Equalizer = get(s, eqConfig(8, true))
	st.AgeRange = ptr(s, ParseAgeRange)
	st.HearId = ptr(s, customHearId(8))
	st.SoundModes = get(s, ParseSoundModes)
	st.SideTone = ptr(s, boolp)
	st.WearDetection = ptr(s, boolp)
	st.TouchTone = ptr(s, boolp)
	st.ButtonModel = ptr(s, ParseButtonModel)
	st.Gender = ptr(s, ParseGender)

	// Multipoint toggle; not mirrored.
	get(s, boolp)

	st.AutoPowerOff = ptr(s, ParseAutoPowerOff)
	s.skip(1)

	return st, s.done(true)
}

// Only the leading fields are decoded; newer firmware appends more.
func parseA3947(r *Reader) (*DeviceState, error) {
	s := &seq{r: r}
	st := &DeviceState{}

	st.HostDevice = ptr(s, u8p)
	st.TwsStatus = ptr(s, boolp)
	st.Battery = get(s, ParseDualBattery)
	st.FirmwareVersion = ptr(s, ParseFirmware)
	st.SerialNumber = ptr(s, ParseSerial)
	st.Equalizer = get(s, eqConfig(10, true))
	st.AgeRange = ptr(s, ParseAgeRange)
	st.HearId = ptr(s, customHearId(10))
	st.SoundModes = get(s, ParseAdaptiveSoundModes)
	st.TouchTone = ptr(s, boolp)
	st.WearDetection = ptr(s, boolp)
	st.InEarBeep = ptr(s, boolp)
	st.ThreeDimensionalEffect = ptr(s, boolp)
	st.HearingProtection = ptr(s, ParseHearingProtection)
	st.ButtonModel = ptr(s, ParseButtonModel)

	return st, s.done(false)
}

type stateParser struct {
	code         product.Code
	fn           func(r *Reader) (*DeviceState, error)
	experimental bool
}

// Strict-length layouts come first so that they fail fast; the open-ended
// A3947 layout is last.
var stateParsers = []stateParser{
	{product.CODE_A3027, parseA3027, false},
	{product.CODE_A3028, parseA3028, false},
	{product.CODE_A3029, parseA3029, false},
	{product.CODE_A3930, parseA3930, false},
	{product.CODE_A3040, parseA3040, false},
	{product.CODE_A3951, parseA3951, false},
	{product.CODE_A3947, parseA3947, true},
}

var experimental atomic.Bool

func init() {
	experimental.Store(true)
}

// Enables or disables parsers for layouts that are not fully understood
// (currently the A3947).
func SetExperimental(enabled bool) {
	experimental.Store(enabled)
}

func ExperimentalEnabled() bool {
	return experimental.Load()
}

func runParser(sp stateParser, payload []byte) (TaggedState, error) {
	r := NewReader(payload)
	r.SetCtx(string(sp.code))

	st, err := sp.fn(r)
	if err != nil {
		return TaggedState{}, err
	}

	st.Features = product.Features(sp.code)
	return TaggedState{Tag: sp.code, State: st}, nil
}

// Parses a state payload with the layout of one specific product.  The
// serial number is not consulted.
func ParseProductState(code product.Code,
	payload []byte) (TaggedState, error) {

	for _, sp := range stateParsers {
		if sp.code == code {
			return runParser(sp, payload)
		}
	}

	return TaggedState{}, &ParseError{
		Ctx:    string(code),
		Reason: "no state parser for product",
	}
}

// Tries every product layout in order; the first match wins.  If the state
// carries a serial number whose prefix names a known product, that product
// replaces the matched one.
func ParseStateUpdate(payload []byte) (TaggedState, error) {
	for _, sp := range stateParsers {
		if sp.experimental && !ExperimentalEnabled() {
			continue
		}

		ts, err := runParser(sp, payload)
		if err != nil {
			log.Debugf("state parser %s rejected %d bytes: %s",
				sp.code, len(payload), err.Error())
			continue
		}

		if ts.State.SerialNumber != nil {
			c := product.FromSerial(*ts.State.SerialNumber)
			if c != product.CODE_NONE && c != ts.Tag {
				log.Debugf("serial %s overrides product %s with %s",
					*ts.State.SerialNumber, ts.Tag, c)
				ts.Tag = c
				if product.HasParser(c) {
					ts.State.Features = product.Features(c)
				}
			}
		}

		return ts, nil
	}

	return TaggedState{}, &ParseError{
		Ctx:    "state",
		Reason: "no product layout matches payload",
	}
}
