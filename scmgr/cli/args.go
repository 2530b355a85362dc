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
	"strings"

	"github.com/spf13/cast"

	"mynewt.apache.org/newt/util"

	"github.com/soundcore-tools/scmgr/scxact/bridge"
	. "github.com/soundcore-tools/scmgr/scxact/model"
)

// Splits "key=value" arguments.  Arguments without '=' are returned
// separately, in order.
func splitKvArgs(args []string) (map[string]string, []string) {
	kv := map[string]string{}
	var plain []string

	for _, a := range args {
		parts := strings.SplitN(a, "=", 2)
		if len(parts) == 2 {
			kv[parts[0]] = parts[1]
		} else {
			plain = append(plain, a)
		}
	}

	return kv, plain
}

func findAncMode(f *SoundModeFeatures, name string) (AncMode, error) {
	for _, m := range f.AncModes {
		if m.String() == name {
			return m, nil
		}
	}
	return nil, util.FmtNewtError("ANC mode %s not supported by the device",
		name)
}

func findTransMode(f *SoundModeFeatures, name string) (TransparencyMode,
	error) {

	for _, m := range f.TransModes {
		if m.String() == name {
			return m, nil
		}
	}
	return nil, util.FmtNewtError(
		"transparency mode %s not supported by the device", name)
}

func parseNoiseLevel(s string) (uint8, error) {
	n, err := cast.ToIntE(s)
	if err != nil {
		return 0, err
	}
	if n < 0 || n > CUSTOM_NOISE_MAX {
		return 0, util.FmtNewtError("level out of range: %d", n)
	}
	return uint8(n), nil
}

// Builds the sound modes requested by:
//     [current] [anc=<mode>] [trans=<mode>] [custom_anc=<0-10>]
//         [custom_trans=<0-10>]
// Unspecified fields keep their current values.  Mode names are resolved
// against the device's features since some names exist in more than one
// mode family.
func parseSoundModeArgs(cur SoundModes, f *SoundModeFeatures,
	args []string) (SoundModes, error) {

	sm := cur

	if f == nil {
		return sm, util.NewNewtError("device has no sound modes")
	}

	kv, plain := splitKvArgs(args)
	if len(plain) > 1 {
		return sm, util.FmtNewtError("unexpected argument: %s", plain[1])
	}
	if len(plain) == 1 {
		m, err := CurrentSoundModeFromString(plain[0])
		if err != nil {
			return sm, util.ChildNewtError(err)
		}
		sm.Current = m
	}

	for k, v := range kv {
		switch k {
		case "anc":
			m, err := findAncMode(f, v)
			if err != nil {
				return sm, err
			}
			sm.AncMode = m

		case "trans":
			m, err := findTransMode(f, v)
			if err != nil {
				return sm, err
			}
			sm.TransMode = m

		case "custom_anc":
			n, err := parseNoiseLevel(v)
			if err != nil {
				return sm, util.FmtNewtError("invalid custom_anc: %s", v)
			}
			sm.CustomAnc = n

		case "custom_trans":
			n, err := parseNoiseLevel(v)
			if err != nil {
				return sm, util.FmtNewtError("invalid custom_trans: %s", v)
			}
			sm.CustomTrans = Uint8Ptr(n)

		default:
			return sm, util.FmtNewtError("unknown setting: %s", k)
		}
	}

	return sm, nil
}

// Parses either a preset name or "custom" followed by band values in
// tenths of a dB.
func parseEqArgs(args []string) (bridge.EqSetting, error) {
	es := bridge.EqSetting{}

	if len(args) == 0 {
		return es, util.NewNewtError("missing EQ profile")
	}

	if args[0] != EQ_PROFILE_CUSTOM.String() {
		if len(args) > 1 {
			return es, util.FmtNewtError("unexpected argument: %s", args[1])
		}

		p, err := EqualizerProfileFromString(args[0])
		if err != nil {
			return es, util.ChildNewtError(err)
		}
		es.Preset = p
		return es, nil
	}

	if len(args) == 1 {
		return es, util.NewNewtError("custom EQ needs band values")
	}

	es.Custom = make([]int8, 0, len(args)-1)
	for _, a := range args[1:] {
		v, err := cast.ToIntE(a)
		if err != nil || v < EQ_BAND_MIN || v > EQ_BAND_MAX {
			return es, util.FmtNewtError("invalid band value: %s", a)
		}
		es.Custom = append(es.Custom, int8(v))
	}

	return es, nil
}
