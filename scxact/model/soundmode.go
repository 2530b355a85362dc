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
)

type CurrentSoundMode uint8

const (
	SOUND_MODE_ANC          CurrentSoundMode = 0
	SOUND_MODE_TRANSPARENCY CurrentSoundMode = 1
	SOUND_MODE_NORMAL       CurrentSoundMode = 2
)

var currentSoundModeStringMap = map[CurrentSoundMode]string{
	SOUND_MODE_ANC:          "anc",
	SOUND_MODE_TRANSPARENCY: "transparency",
	SOUND_MODE_NORMAL:       "normal",
}

func (m CurrentSoundMode) String() string {
	s := currentSoundModeStringMap[m]
	if s == "" {
		return "???"
	}
	return s
}

func CurrentSoundModeFromString(s string) (CurrentSoundMode, error) {
	for m, name := range currentSoundModeStringMap {
		if s == name {
			return m, nil
		}
	}

	return 0, fmt.Errorf("Invalid sound mode string: %s", s)
}

func CurrentSoundModeFromByte(b byte) (CurrentSoundMode, error) {
	m := CurrentSoundMode(b)
	if _, ok := currentSoundModeStringMap[m]; !ok {
		return 0, fmt.Errorf("invalid current sound mode: %d", b)
	}
	return m, nil
}

func (m CurrentSoundMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// An ANC mode is either scene based or adaptive.  The concrete type
// determines which wire form a sound mode change uses.
type AncMode interface {
	Byte() byte
	IsSceneBased() bool
	String() string
}

type SceneAncMode uint8

const (
	ANC_SCENE_TRANSPORT SceneAncMode = 0
	ANC_SCENE_OUTDOOR   SceneAncMode = 1
	ANC_SCENE_INDOOR    SceneAncMode = 2
	ANC_SCENE_CUSTOM    SceneAncMode = 3
)

var sceneAncModeStringMap = map[SceneAncMode]string{
	ANC_SCENE_TRANSPORT: "transport",
	ANC_SCENE_OUTDOOR:   "outdoor",
	ANC_SCENE_INDOOR:    "indoor",
	ANC_SCENE_CUSTOM:    "custom",
}

func (m SceneAncMode) Byte() byte         { return byte(m) }
func (m SceneAncMode) IsSceneBased() bool { return true }
func (m SceneAncMode) String() string {
	if s, ok := sceneAncModeStringMap[m]; ok {
		return s
	}
	return "???"
}

func SceneAncModeFromByte(b byte) (SceneAncMode, error) {
	m := SceneAncMode(b)
	if _, ok := sceneAncModeStringMap[m]; !ok {
		return 0, fmt.Errorf("invalid scene ANC mode: %d", b)
	}
	return m, nil
}

type AdaptiveAncMode uint8

const (
	ANC_ADAPTIVE_ADAPTIVE AdaptiveAncMode = 0
	ANC_ADAPTIVE_CUSTOM   AdaptiveAncMode = 1
)

var adaptiveAncModeStringMap = map[AdaptiveAncMode]string{
	ANC_ADAPTIVE_ADAPTIVE: "adaptive",
	ANC_ADAPTIVE_CUSTOM:   "custom",
}

func (m AdaptiveAncMode) Byte() byte         { return byte(m) }
func (m AdaptiveAncMode) IsSceneBased() bool { return false }
func (m AdaptiveAncMode) String() string {
	if s, ok := adaptiveAncModeStringMap[m]; ok {
		return s
	}
	return "???"
}

func AdaptiveAncModeFromByte(b byte) (AdaptiveAncMode, error) {
	m := AdaptiveAncMode(b)
	if _, ok := adaptiveAncModeStringMap[m]; !ok {
		return 0, fmt.Errorf("invalid adaptive ANC mode: %d", b)
	}
	return m, nil
}

// A transparency mode is either fixed or customizable.
type TransparencyMode interface {
	Byte() byte
	IsCustomizable() bool
	String() string
}

type NonCustomTransMode uint8

const (
	TRANS_FULLY_TRANSPARENT NonCustomTransMode = 0
	TRANS_VOCAL             NonCustomTransMode = 1
)

var nonCustomTransModeStringMap = map[NonCustomTransMode]string{
	TRANS_FULLY_TRANSPARENT: "fully_transparent",
	TRANS_VOCAL:             "vocal",
}

func (m NonCustomTransMode) Byte() byte           { return byte(m) }
func (m NonCustomTransMode) IsCustomizable() bool { return false }
func (m NonCustomTransMode) String() string {
	if s, ok := nonCustomTransModeStringMap[m]; ok {
		return s
	}
	return "???"
}

func NonCustomTransModeFromByte(b byte) (NonCustomTransMode, error) {
	m := NonCustomTransMode(b)
	if _, ok := nonCustomTransModeStringMap[m]; !ok {
		return 0, fmt.Errorf("invalid transparency mode: %d", b)
	}
	return m, nil
}

type CustomTransMode uint8

const (
	TRANS_TALK_MODE CustomTransMode = 0
	TRANS_CUSTOM    CustomTransMode = 1
)

var customTransModeStringMap = map[CustomTransMode]string{
	TRANS_TALK_MODE: "talk_mode",
	TRANS_CUSTOM:    "custom",
}

func (m CustomTransMode) Byte() byte           { return byte(m) }
func (m CustomTransMode) IsCustomizable() bool { return true }
func (m CustomTransMode) String() string {
	if s, ok := customTransModeStringMap[m]; ok {
		return s
	}
	return "???"
}

func CustomTransModeFromByte(b byte) (CustomTransMode, error) {
	m := CustomTransMode(b)
	if _, ok := customTransModeStringMap[m]; !ok {
		return 0, fmt.Errorf("invalid customizable transparency mode: %d", b)
	}
	return m, nil
}

const CUSTOM_NOISE_MAX = 10

// Unset value of a custom ANC level.
const CUSTOM_NOISE_UNSET = 0xff

type SoundModes struct {
	Current     CurrentSoundMode
	AncMode     AncMode
	TransMode   TransparencyMode
	CustomAnc   uint8
	CustomTrans *uint8
}

// Indicates whether the sound modes fit the short four byte wire form.
func (sm *SoundModes) IsBasicForm() bool {
	return sm.AncMode != nil && sm.AncMode.IsSceneBased() &&
		sm.TransMode != nil && !sm.TransMode.IsCustomizable() &&
		sm.CustomTrans == nil
}

func (sm SoundModes) Equal(other SoundModes) bool {
	if sm.Current != other.Current || sm.CustomAnc != other.CustomAnc {
		return false
	}
	if sm.AncMode != other.AncMode || sm.TransMode != other.TransMode {
		return false
	}
	if (sm.CustomTrans == nil) != (other.CustomTrans == nil) {
		return false
	}
	return sm.CustomTrans == nil || *sm.CustomTrans == *other.CustomTrans
}

func (sm SoundModes) String() string {
	s := fmt.Sprintf("current=%s anc=%v trans=%v custom_anc=%d",
		sm.Current, sm.AncMode, sm.TransMode, sm.CustomAnc)
	if sm.CustomTrans != nil {
		s += fmt.Sprintf(" custom_trans=%d", *sm.CustomTrans)
	}
	return s
}

func Uint8Ptr(v uint8) *uint8 {
	return &v
}

func BoolPtr(v bool) *bool {
	return &v
}
