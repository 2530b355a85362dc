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
	log "github.com/sirupsen/logrus"

	. "github.com/soundcore-tools/scmgr/scxact/model"
	"github.com/soundcore-tools/scmgr/scxact/product"
	"github.com/soundcore-tools/scmgr/scxact/scxutil"
)

type EqVariant int

const (
	EQ_VARIANT_A3951 EqVariant = iota
	EQ_VARIANT_A3040
)

var eqVariantMap = map[product.Code]EqVariant{
	product.CODE_A3027: EQ_VARIANT_A3951,
	product.CODE_A3028: EQ_VARIANT_A3951,
	product.CODE_A3029: EQ_VARIANT_A3951,
	product.CODE_A3930: EQ_VARIANT_A3951,
	product.CODE_A3951: EQ_VARIANT_A3951,
	product.CODE_A3040: EQ_VARIANT_A3040,
	product.CODE_A3947: EQ_VARIANT_A3040,
}

// Builds the commands understood by one product.
type CmdBuilder struct {
	code    product.Code
	variant EqVariant
}

func NewCmdBuilder(code product.Code) *CmdBuilder {
	v, ok := eqVariantMap[code]
	if !ok {
		log.Warnf("no command set for product %s; using the A3951 set",
			code)
		v = EQ_VARIANT_A3951
	}

	return &CmdBuilder{
		code:    code,
		variant: v,
	}
}

func (b *CmdBuilder) Product() product.Code {
	return b.code
}

func (b *CmdBuilder) RequestState() CmdPacket {
	return &RequestStateCmd{}
}

func (b *CmdBuilder) SetSoundMode(sm SoundModes) CmdPacket {
	return &SetSoundModeCmd{SoundModes: sm}
}

func (b *CmdBuilder) SetBassUp(enabled bool) (CmdPacket, error) {
	if b.variant != EQ_VARIANT_A3040 {
		return nil, scxutil.NewFeatureNotSupportedError("bass up")
	}
	return &SetBassUpCmd{Enabled: enabled}, nil
}

func (b *CmdBuilder) numBands() int {
	if b.variant == EQ_VARIANT_A3040 {
		return 10
	}
	return 8
}

func zeroBands(n int) VolumeAdjustments {
	return make(VolumeAdjustments, n)
}

// Fills in the hear-id section of an EQ update from the current state.
// Missing values are sent as unknown or flat.
func (b *CmdBuilder) eqCmdBody(st *DeviceState,
	eq EqualizerConfiguration) EqCmdBody {

	n := b.numBands()

	body := EqCmdBody{
		Profile:           eq.Profile,
		HearIdEqIndex:     HEARID_EQ_INDEX_NONE,
		Left:              eq.Left.Resize(n),
		Right:             eq.RightOrLeft().Resize(n),
		Gender:            GENDER_UNKNOWN,
		AgeRange:          AGE_RANGE_UNKNOWN,
		HearIdLeft:        zeroBands(n),
		HearIdRight:       zeroBands(n),
		HearIdCustomLeft:  zeroBands(n),
		HearIdCustomRight: zeroBands(n),
	}

	if st == nil {
		return body
	}

	if st.Gender != nil {
		body.Gender = *st.Gender
	}
	if st.AgeRange != nil {
		body.AgeRange = *st.AgeRange
	}
	if h := st.HearId; h != nil {
		body.HearIdLeft = h.Left.Resize(n)
		body.HearIdRight = h.Right.Resize(n)
		body.HearIdTime = h.Time
		body.HearIdType = h.HearIdType
		if h.Kind == HEAR_ID_CUSTOM {
			body.HearIdCustomLeft = h.CustomLeft.Resize(n)
			body.HearIdCustomRight = h.CustomRight.Resize(n)
		}
	}

	return body
}

func (b *CmdBuilder) SetEq(st *DeviceState,
	eq EqualizerConfiguration) CmdPacket {

	body := b.eqCmdBody(st, eq)
	if b.variant == EQ_VARIANT_A3040 {
		return &SetEq10Cmd{EqCmdBody: body}
	}
	return &SetEqCmd{EqCmdBody: body}
}
