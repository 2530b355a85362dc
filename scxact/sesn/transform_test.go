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


package sesn

import (
	"testing"

	. "github.com/soundcore-tools/scmgr/scxact/model"
	"github.com/soundcore-tools/scmgr/scxact/product"
	"github.com/soundcore-tools/scmgr/scxact/scp"
	"github.com/soundcore-tools/scmgr/scxact/scparse"
	"github.com/soundcore-tools/scmgr/scxact/sctest"
)

func baseState(t *testing.T, payload []byte) *DeviceState {
	ts, err := scparse.ParseStateUpdate(payload)
	if err != nil {
		t.Fatalf("%s", err.Error())
	}
	return ts.State
}

func TestTransformIdempotent(t *testing.T) {
	prev := baseState(t, sctest.A3040Payload())

	pkts := []scp.Packet{
		&scp.SoundModeUpdatePkt{SoundModes: SoundModes{
			Current:     SOUND_MODE_ANC,
			AncMode:     ANC_ADAPTIVE_CUSTOM,
			TransMode:   TRANS_TALK_MODE,
			CustomAnc:   2,
			CustomTrans: Uint8Ptr(1),
		}},
		&scp.BassUpUpdatePkt{Enabled: true},
		&scp.EqInfoUpdatePkt{Profile: EQ_PROFILE_POP},
		&scp.LdacUpdatePkt{Enabled: true},
		&scp.BattLevelUpdatePkt{BattLevels: scparse.BattLevels{Left: 1}},
		&scp.BattChargingUpdatePkt{
			BattCharging: scparse.BattCharging{Left: 1},
		},
		&scp.InfoUpdatePkt{DeviceInfo: scparse.DeviceInfo{
			Firmware: FirmwareVersion{Major: 3, Minor: 1},
			Serial:   sctest.SERIAL_A3040,
		}},
	}

	for _, p := range pkts {
		once := Transform(p, prev)
		twice := Transform(p, once)
		if !once.Equal(twice) {
			t.Errorf("%s: second application changed the state", p.Kind())
		}
		if once == prev {
			t.Errorf("%s: no change", p.Kind())
		}
	}
}

func TestTransformDoesNotMutate(t *testing.T) {
	prev := baseState(t, sctest.A3040Payload())
	snapshot := *prev
	bassUp := *prev.BassUp

	Transform(&scp.BassUpUpdatePkt{Enabled: !bassUp}, prev)
	Transform(&scp.BattLevelUpdatePkt{
		BattLevels: scparse.BattLevels{Left: 0},
	}, prev)

	if !prev.Equal(&snapshot) || *prev.BassUp != bassUp {
		t.Errorf("previous state modified")
	}
}

func TestTransformStateUpdate(t *testing.T) {
	prev := baseState(t, sctest.A3951Payload())
	sn := SerialNumber("3951ABCDEF012345")
	prev.SerialNumber = &sn

	ts, err := scparse.ParseStateUpdate(sctest.A3951Payload())
	if err != nil {
		t.Fatalf("%s", err.Error())
	}
	ts.State.Battery.Left.Level = 1
	ts.State.Features = product.Features(product.CODE_A3027)

	next := Transform(&scp.StateUpdatePkt{TaggedState: ts}, prev)
	if next.Battery.Left.Level != 1 {
		t.Errorf("snapshot not applied")
	}
	if next.SerialNumber == nil || *next.SerialNumber != sn {
		t.Errorf("serial number lost: %v", next.SerialNumber)
	}
	if next.Features.Equalizer.Channels != 2 {
		t.Errorf("features replaced by the snapshot's")
	}
}

func TestTransformIgnored(t *testing.T) {
	prev := baseState(t, sctest.A3951Payload())

	tests := []scp.Packet{
		// The A3951 has no bass up.
		&scp.BassUpUpdatePkt{Enabled: true},
		&scp.AckPkt{AckKind: scp.PKT_KIND_SET_EQ_ACK},
		&scp.BattLevelUpdatePkt{BattLevels: scparse.BattLevels{
			Dual:  true,
			Left:  BATTERY_LEVEL_UNKNOWN,
			Right: BATTERY_LEVEL_UNKNOWN,
		}},
		&scp.BattChargingUpdatePkt{BattCharging: scparse.BattCharging{
			Left: BATTERY_LEVEL_UNKNOWN,
		}},
	}

	for _, p := range tests {
		if next := Transform(p, prev); !next.Equal(prev) {
			t.Errorf("%s changed the state", p.Kind())
		}
	}
}

func TestTransformCharging(t *testing.T) {
	prev := baseState(t, sctest.A3951Payload())

	next := Transform(&scp.BattChargingUpdatePkt{
		BattCharging: scparse.BattCharging{Dual: true, Left: 0, Right: 1},
	}, prev)

	if next.Battery.Left.IsCharging || !next.Battery.Right.IsCharging {
		t.Errorf("battery %s", next.Battery)
	}
}
