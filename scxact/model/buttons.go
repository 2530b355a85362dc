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

type ButtonAction uint8

const (
	BUTTON_ACTION_VOLUME_UP       ButtonAction = 0
	BUTTON_ACTION_VOLUME_DOWN     ButtonAction = 1
	BUTTON_ACTION_PREVIOUS_SONG   ButtonAction = 2
	BUTTON_ACTION_NEXT_SONG       ButtonAction = 3
	BUTTON_ACTION_AMBIENT_SOUND   ButtonAction = 4
	BUTTON_ACTION_VOICE_ASSISTANT ButtonAction = 5
	BUTTON_ACTION_PLAY_PAUSE      ButtonAction = 6
)

var buttonActionStringMap = map[ButtonAction]string{
	BUTTON_ACTION_VOLUME_UP:       "volume_up",
	BUTTON_ACTION_VOLUME_DOWN:     "volume_down",
	BUTTON_ACTION_PREVIOUS_SONG:   "previous_song",
	BUTTON_ACTION_NEXT_SONG:       "next_song",
	BUTTON_ACTION_AMBIENT_SOUND:   "ambient_sound",
	BUTTON_ACTION_VOICE_ASSISTANT: "voice_assistant",
	BUTTON_ACTION_PLAY_PAUSE:      "play_pause",
}

func (a ButtonAction) String() string {
	if s, ok := buttonActionStringMap[a]; ok {
		return s
	}
	return "???"
}

func (a ButtonAction) IsValid() bool {
	_, ok := buttonActionStringMap[a]
	return ok
}

// The action bound to one gesture, depending on whether the earbuds are
// paired with each other.
type TwsButtonAction struct {
	TwsConnected    ButtonAction
	TwsDisconnected ButtonAction
	IsEnabled       bool
}

type CustomButtonModel struct {
	LeftDoubleClick  TwsButtonAction
	LeftLongPress    TwsButtonAction
	RightDoubleClick TwsButtonAction
	RightLongPress   TwsButtonAction
	LeftSingleClick  TwsButtonAction
	RightSingleClick TwsButtonAction
}

// Returns pointers to the gestures in wire order.
func (m *CustomButtonModel) Gestures() []*TwsButtonAction {
	return []*TwsButtonAction{
		&m.LeftDoubleClick,
		&m.LeftLongPress,
		&m.RightDoubleClick,
		&m.RightLongPress,
		&m.LeftSingleClick,
		&m.RightSingleClick,
	}
}
