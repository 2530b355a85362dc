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
	"strings"
)

type FeatureFlags uint32

const (
	FF_DRC                     FeatureFlags = 1 << 0
	FF_HEARID                  FeatureFlags = 1 << 1
	FF_WEAR_DETECTION          FeatureFlags = 1 << 2
	FF_CUSTOM_BUTTONS          FeatureFlags = 1 << 3
	FF_TOUCH_TONE              FeatureFlags = 1 << 4
	FF_GAME_MODE               FeatureFlags = 1 << 5
	FF_AUTO_POWER_OFF_ON       FeatureFlags = 1 << 6
	FF_IN_EAR_BEEP             FeatureFlags = 1 << 7
	FF_LANG_PROMPT             FeatureFlags = 1 << 8
	FF_HEARING_PROTECTION      FeatureFlags = 1 << 9
	FF_AMBIENT_SOUND_NOTICE    FeatureFlags = 1 << 10
	FF_POWER_ON_BATTERY_NOTICE FeatureFlags = 1 << 11
	FF_SUPPORT_TWO_CONNECTIONS FeatureFlags = 1 << 12
	FF_MULTIPLE_DEVICE_LIST    FeatureFlags = 1 << 13
)

var featureFlagNames = []struct {
	flag FeatureFlags
	name string
}{
	{FF_DRC, "drc"},
	{FF_HEARID, "hearid"},
	{FF_WEAR_DETECTION, "wear_detection"},
	{FF_CUSTOM_BUTTONS, "custom_buttons"},
	{FF_TOUCH_TONE, "touch_tone"},
	{FF_GAME_MODE, "game_mode"},
	{FF_AUTO_POWER_OFF_ON, "auto_power_off_on"},
	{FF_IN_EAR_BEEP, "in_ear_beep"},
	{FF_LANG_PROMPT, "lang_prompt"},
	{FF_HEARING_PROTECTION, "hearing_protection"},
	{FF_AMBIENT_SOUND_NOTICE, "ambient_sound_notice"},
	{FF_POWER_ON_BATTERY_NOTICE, "power_on_battery_notice"},
	{FF_SUPPORT_TWO_CONNECTIONS, "support_two_connections"},
	{FF_MULTIPLE_DEVICE_LIST, "multiple_device_list"},
}

func (f FeatureFlags) Has(mask FeatureFlags) bool {
	return f&mask == mask
}

func (f FeatureFlags) Names() []string {
	var names []string
	for _, fn := range featureFlagNames {
		if f.Has(fn.flag) {
			names = append(names, fn.name)
		}
	}
	return names
}

func (f FeatureFlags) String() string {
	return strings.Join(f.Names(), ",")
}

func (f FeatureFlags) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Names())
}

type SoundModeFeatures struct {
	AncModes   []AncMode
	TransModes []TransparencyMode
	HasNormal  bool
}

func (f *SoundModeFeatures) AllowsAnc(m AncMode) bool {
	for _, a := range f.AncModes {
		if a == m {
			return true
		}
	}
	return false
}

func (f *SoundModeFeatures) AllowsTrans(m TransparencyMode) bool {
	for _, t := range f.TransModes {
		if t == m {
			return true
		}
	}
	return false
}

type EqualizerFeatures struct {
	Bands     int
	Channels  int
	HasBassUp bool
}

type DeviceFeatures struct {
	SoundModes *SoundModeFeatures
	Equalizer  *EqualizerFeatures
	Flags      FeatureFlags
}
