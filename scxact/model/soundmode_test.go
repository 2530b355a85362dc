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
	"testing"
)

func TestSoundModesEqual(t *testing.T) {
	a := SoundModes{
		Current:   SOUND_MODE_ANC,
		AncMode:   ANC_SCENE_INDOOR,
		TransMode: TRANS_VOCAL,
	}
	b := a
	if !a.Equal(b) {
		t.Fatalf("copies compare unequal")
	}

	b.CustomTrans = Uint8Ptr(0)
	if a.Equal(b) {
		t.Errorf("custom transparency ignored")
	}

	// Scene and adaptive modes with the same byte are distinct.
	c := a
	c.AncMode = ANC_ADAPTIVE_ADAPTIVE
	d := a
	d.AncMode = ANC_SCENE_TRANSPORT
	if c.Equal(d) {
		t.Errorf("adaptive and scene modes compare equal")
	}
}

func TestIsBasicForm(t *testing.T) {
	tests := []struct {
		sm    SoundModes
		basic bool
	}{
		{SoundModes{AncMode: ANC_SCENE_OUTDOOR, TransMode: TRANS_FULLY_TRANSPARENT}, true},
		{SoundModes{AncMode: ANC_ADAPTIVE_ADAPTIVE, TransMode: TRANS_FULLY_TRANSPARENT}, false},
		{SoundModes{AncMode: ANC_SCENE_OUTDOOR, TransMode: TRANS_TALK_MODE}, false},
		{SoundModes{AncMode: ANC_SCENE_OUTDOOR, TransMode: TRANS_VOCAL, CustomTrans: Uint8Ptr(2)}, false},
		{SoundModes{}, false},
	}

	for i, tst := range tests {
		if got := tst.sm.IsBasicForm(); got != tst.basic {
			t.Errorf("case %d (%s): want %v, got %v", i, tst.sm, tst.basic, got)
		}
	}
}

func TestModeBytes(t *testing.T) {
	if _, err := CurrentSoundModeFromByte(3); err == nil {
		t.Errorf("current mode 3 accepted")
	}
	if _, err := SceneAncModeFromByte(4); err == nil {
		t.Errorf("scene anc mode 4 accepted")
	}
	if _, err := AdaptiveAncModeFromByte(2); err == nil {
		t.Errorf("adaptive anc mode 2 accepted")
	}
	if m, err := CurrentSoundModeFromString("normal"); err != nil || m != SOUND_MODE_NORMAL {
		t.Errorf("normal: got %v, %v", m, err)
	}
}
