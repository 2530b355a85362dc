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

package product

import (
	. "github.com/soundcore-tools/scmgr/scxact/model"
)

var sceneAncModes = []AncMode{
	ANC_SCENE_TRANSPORT,
	ANC_SCENE_OUTDOOR,
	ANC_SCENE_INDOOR,
}

var sceneAncModesCustom = []AncMode{
	ANC_SCENE_TRANSPORT,
	ANC_SCENE_OUTDOOR,
	ANC_SCENE_INDOOR,
	ANC_SCENE_CUSTOM,
}

var adaptiveAncModes = []AncMode{
	ANC_ADAPTIVE_ADAPTIVE,
	ANC_ADAPTIVE_CUSTOM,
}

var nonCustomTransModes = []TransparencyMode{
	TRANS_FULLY_TRANSPARENT,
	TRANS_VOCAL,
}

var customTransModes = []TransparencyMode{
	TRANS_TALK_MODE,
	TRANS_CUSTOM,
}

func sceneSoundModes() *SoundModeFeatures {
	return &SoundModeFeatures{
		AncModes:   sceneAncModes,
		TransModes: nonCustomTransModes,
		HasNormal:  true,
	}
}

func sceneCustomSoundModes() *SoundModeFeatures {
	return &SoundModeFeatures{
		AncModes:   sceneAncModesCustom,
		TransModes: nonCustomTransModes,
		HasNormal:  true,
	}
}

func adaptiveSoundModes() *SoundModeFeatures {
	return &SoundModeFeatures{
		AncModes:   adaptiveAncModes,
		TransModes: customTransModes,
		HasNormal:  true,
	}
}

type featureCtor func() DeviceFeatures

var featureCtorMap = map[Code]featureCtor{
	CODE_A3027: func() DeviceFeatures {
		return DeviceFeatures{
			SoundModes: sceneSoundModes(),
			Equalizer:  &EqualizerFeatures{Bands: 8, Channels: 1},
			Flags:      FF_HEARID | FF_WEAR_DETECTION | FF_TOUCH_TONE,
		}
	},
	CODE_A3028: func() DeviceFeatures {
		return DeviceFeatures{
			SoundModes: sceneSoundModes(),
			Equalizer:  &EqualizerFeatures{Bands: 8, Channels: 1},
			Flags:      FF_HEARID,
		}
	},
	CODE_A3029: func() DeviceFeatures {
		return DeviceFeatures{
			SoundModes: sceneSoundModes(),
			Equalizer:  &EqualizerFeatures{Bands: 8, Channels: 1},
		}
	},
	CODE_A3930: func() DeviceFeatures {
		return DeviceFeatures{
			SoundModes: sceneCustomSoundModes(),
			Equalizer:  &EqualizerFeatures{Bands: 8, Channels: 2},
			Flags:      FF_HEARID | FF_CUSTOM_BUTTONS | FF_DRC,
		}
	},
	CODE_A3040: func() DeviceFeatures {
		return DeviceFeatures{
			SoundModes: adaptiveSoundModes(),
			Equalizer: &EqualizerFeatures{
				Bands:     10,
				Channels:  1,
				HasBassUp: true,
			},
			Flags: FF_AMBIENT_SOUND_NOTICE | FF_POWER_ON_BATTERY_NOTICE |
				FF_AUTO_POWER_OFF_ON | FF_LANG_PROMPT | FF_HEARID |
				FF_SUPPORT_TWO_CONNECTIONS,
		}
	},
	CODE_A3951: func() DeviceFeatures {
		return DeviceFeatures{
			SoundModes: sceneCustomSoundModes(),
			Equalizer:  &EqualizerFeatures{Bands: 8, Channels: 2},
			Flags: FF_DRC | FF_HEARID | FF_WEAR_DETECTION |
				FF_CUSTOM_BUTTONS | FF_TOUCH_TONE,
		}
	},
	CODE_A3947: func() DeviceFeatures {
		return DeviceFeatures{
			SoundModes: adaptiveSoundModes(),
			Equalizer:  &EqualizerFeatures{Bands: 10, Channels: 2},
			Flags: FF_DRC | FF_HEARID | FF_WEAR_DETECTION |
				FF_CUSTOM_BUTTONS | FF_TOUCH_TONE | FF_GAME_MODE |
				FF_IN_EAR_BEEP | FF_HEARING_PROTECTION |
				FF_MULTIPLE_DEVICE_LIST,
		}
	},
}

// Returns the feature set of a product.  Products without a state parser
// (name-only codes) get a bare sound mode and 8-band mono EQ set.
func Features(c Code) DeviceFeatures {
	if ctor, ok := featureCtorMap[c]; ok {
		return ctor()
	}

	return DeviceFeatures{
		SoundModes: sceneSoundModes(),
		Equalizer:  &EqualizerFeatures{Bands: 8, Channels: 1},
	}
}

// Indicates whether a state parser exists for the product.
func HasParser(c Code) bool {
	_, ok := featureCtorMap[c]
	return ok
}
