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
	"reflect"
)

// The local mirror of a device.  The first four fields are always present;
// the rest depend on the product and are nil when the device does not
// report them.
//
// States are values: code that derives a new state replaces pointer and
// slice fields instead of writing through them, so a published state is
// never modified after the fact.
type DeviceState struct {
	Features   DeviceFeatures         `codec:"features"`
	Battery    Battery                `codec:"battery"`
	SoundModes SoundModes             `codec:"sound_modes"`
	Equalizer  EqualizerConfiguration `codec:"equalizer"`

	SerialNumber           *SerialNumber      `codec:"serial_number,omitempty"`
	FirmwareVersion        *FirmwareVersion   `codec:"firmware_version,omitempty"`
	HostDevice             *uint8             `codec:"host_device,omitempty"`
	TwsStatus              *bool              `codec:"tws_status,omitempty"`
	ButtonModel            *CustomButtonModel `codec:"button_model,omitempty"`
	SideTone               *bool              `codec:"side_tone,omitempty"`
	TouchTone              *bool              `codec:"touch_tone,omitempty"`
	WearDetection          *bool              `codec:"wear_detection,omitempty"`
	InEarBeep              *bool              `codec:"in_ear_beep,omitempty"`
	HearId                 *HearId            `codec:"hear_id,omitempty"`
	AgeRange               *AgeRange          `codec:"age_range,omitempty"`
	Gender                 *Gender            `codec:"gender,omitempty"`
	BassUp                 *bool              `codec:"bass_up,omitempty"`
	AutoPowerOff           *AutoPowerOff      `codec:"auto_power_off,omitempty"`
	AmbientSoundNotice     *bool              `codec:"ambient_sound_notice,omitempty"`
	PowerOnBatteryNotice   *bool              `codec:"power_on_battery_notice,omitempty"`
	ThreeDimensionalEffect *bool              `codec:"three_dimensional_effect,omitempty"`
	DeviceColor            *uint8             `codec:"device_color,omitempty"`
	Ldac                   *bool              `codec:"ldac,omitempty"`
	PromptLanguage         *uint8             `codec:"prompt_language,omitempty"`
	HearingProtection      *HearingProtection `codec:"hearing_protection,omitempty"`
}

// Structural equality.
func (s *DeviceState) Equal(other *DeviceState) bool {
	return reflect.DeepEqual(s, other)
}
