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

package scp

import (
	"fmt"

	"github.com/soundcore-tools/scmgr/scxact/model"
	"github.com/soundcore-tools/scmgr/scxact/scparse"
)

// A decoded device packet.
type Packet interface {
	Kind() PktKind
}

type StateUpdatePkt struct {
	scparse.TaggedState
}

type SoundModeUpdatePkt struct {
	SoundModes model.SoundModes
}

type BattLevelUpdatePkt struct {
	scparse.BattLevels
}

type BattChargingUpdatePkt struct {
	scparse.BattCharging
}

type InfoUpdatePkt struct {
	scparse.DeviceInfo
}

type LdacUpdatePkt struct {
	Enabled bool
}

type BassUpUpdatePkt struct {
	Enabled bool
}

type EqInfoUpdatePkt struct {
	Profile model.EqualizerProfile
}

// Acknowledges a set command.  The payload is kept but not interpreted.
type AckPkt struct {
	AckKind PktKind
	Payload []byte
}

func (p *StateUpdatePkt) Kind() PktKind        { return PKT_KIND_STATE_UPDATE }
func (p *SoundModeUpdatePkt) Kind() PktKind    { return PKT_KIND_SOUND_MODE_UPDATE }
func (p *BattLevelUpdatePkt) Kind() PktKind    { return PKT_KIND_BATT_LEVEL_UPDATE }
func (p *BattChargingUpdatePkt) Kind() PktKind { return PKT_KIND_BATT_CHARGING_UPDATE }
func (p *InfoUpdatePkt) Kind() PktKind         { return PKT_KIND_INFO_UPDATE }
func (p *LdacUpdatePkt) Kind() PktKind         { return PKT_KIND_LDAC_UPDATE }
func (p *BassUpUpdatePkt) Kind() PktKind       { return PKT_KIND_BASS_UP_UPDATE }
func (p *EqInfoUpdatePkt) Kind() PktKind       { return PKT_KIND_EQ_INFO_UPDATE }
func (p *AckPkt) Kind() PktKind                { return p.AckKind }

type pktDecoder func(payload []byte) (Packet, error)

func decodeStateUpdate(payload []byte) (Packet, error) {
	ts, err := scparse.ParseStateUpdate(payload)
	if err != nil {
		return nil, err
	}
	return &StateUpdatePkt{ts}, nil
}

func decodeSoundModeUpdate(payload []byte) (Packet, error) {
	sm, err := scparse.ParseSoundModeUpdate(payload)
	if err != nil {
		return nil, err
	}
	return &SoundModeUpdatePkt{sm}, nil
}

func decodeBattLevelUpdate(payload []byte) (Packet, error) {
	bl, err := scparse.ParseBattLevels(payload)
	if err != nil {
		return nil, err
	}
	return &BattLevelUpdatePkt{bl}, nil
}

func decodeBattChargingUpdate(payload []byte) (Packet, error) {
	bc, err := scparse.ParseBattCharging(payload)
	if err != nil {
		return nil, err
	}
	return &BattChargingUpdatePkt{bc}, nil
}

func decodeInfoUpdate(payload []byte) (Packet, error) {
	di, err := scparse.ParseDeviceInfo(payload)
	if err != nil {
		return nil, err
	}
	return &InfoUpdatePkt{di}, nil
}

func decodeLdacUpdate(payload []byte) (Packet, error) {
	v, err := scparse.ParseFlag(payload)
	if err != nil {
		return nil, err
	}
	return &LdacUpdatePkt{v}, nil
}

func decodeBassUpUpdate(payload []byte) (Packet, error) {
	v, err := scparse.ParseFlag(payload)
	if err != nil {
		return nil, err
	}
	return &BassUpUpdatePkt{v}, nil
}

func decodeEqInfoUpdate(payload []byte) (Packet, error) {
	p, err := scparse.ParseEqProfile(payload)
	if err != nil {
		return nil, err
	}
	return &EqInfoUpdatePkt{p}, nil
}

func ackDecoder(kind PktKind) pktDecoder {
	return func(payload []byte) (Packet, error) {
		return &AckPkt{
			AckKind: kind,
			Payload: append([]byte(nil), payload...),
		}, nil
	}
}

var pktDecoderMap = map[PktKind]pktDecoder{
	PKT_KIND_STATE_UPDATE:         decodeStateUpdate,
	PKT_KIND_SOUND_MODE_UPDATE:    decodeSoundModeUpdate,
	PKT_KIND_BATT_LEVEL_UPDATE:    decodeBattLevelUpdate,
	PKT_KIND_BATT_CHARGING_UPDATE: decodeBattChargingUpdate,
	PKT_KIND_INFO_UPDATE:          decodeInfoUpdate,
	PKT_KIND_LDAC_UPDATE:          decodeLdacUpdate,
	PKT_KIND_BASS_UP_UPDATE:       decodeBassUpUpdate,
	PKT_KIND_EQ_INFO_UPDATE:       decodeEqInfoUpdate,
	PKT_KIND_SET_SOUND_MODE_ACK:   ackDecoder(PKT_KIND_SET_SOUND_MODE_ACK),
	PKT_KIND_SET_EQ_ACK:           ackDecoder(PKT_KIND_SET_EQ_ACK),
	PKT_KIND_SET_EQ_DRC_ACK:       ackDecoder(PKT_KIND_SET_EQ_DRC_ACK),
}

// Decodes the payload of an already validated frame.
func DecodePayload(f *Frame) (Packet, error) {
	dec := pktDecoderMap[f.Kind]
	if dec == nil {
		return nil, &UnknownKindError{Tag: f.Tag}
	}

	p, err := dec(f.Payload)
	if err != nil {
		return nil, &PayloadParseError{
			Kind:   f.Kind,
			Reason: err.Error(),
		}
	}
	return p, nil
}

// Validates a device frame and decodes it into a typed packet.
func Decode(b []byte) (Packet, error) {
	f, err := DecodeFrame(b)
	if err != nil {
		return nil, err
	}
	if f.Outbound {
		return nil, &InvalidPrefixError{
			Prefix: append([]byte(nil), b[:SCP_PREFIX_LEN]...),
		}
	}

	return DecodePayload(f)
}

func PacketString(p Packet) string {
	return fmt.Sprintf("%s %+v", p.Kind(), p)
}
