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
	"fmt"
	"strconv"
	"strings"
)

type HearIdKind int

const (
	HEAR_ID_BASIC HearIdKind = iota
	HEAR_ID_CUSTOM
)

// A personalised hearing profile.  Basic profiles carry only the measured
// bands; custom ones add a type tag and a user-adjusted band set.
type HearId struct {
	Kind      HearIdKind
	IsEnabled bool
	Left      VolumeAdjustments
	Right     VolumeAdjustments
	Time      int32

	// Custom only.
	HearIdType  uint8
	CustomLeft  VolumeAdjustments
	CustomRight VolumeAdjustments
}

func (h HearId) Equal(other HearId) bool {
	return h.Kind == other.Kind &&
		h.IsEnabled == other.IsEnabled &&
		h.Time == other.Time &&
		h.HearIdType == other.HearIdType &&
		h.Left.Equal(other.Left) &&
		h.Right.Equal(other.Right) &&
		h.CustomLeft.Equal(other.CustomLeft) &&
		h.CustomRight.Equal(other.CustomRight)
}

// Indicates whether any measurement is present.
func (h *HearId) IsEmpty() bool {
	return len(h.Left) == 0 && len(h.Right) == 0
}

type AgeRange uint8

const AGE_RANGE_UNKNOWN AgeRange = 0xff

type Gender uint8

const GENDER_UNKNOWN Gender = 0xff

type FirmwareVersion struct {
	Major uint8
	Minor uint8
}

func ParseFirmwareVersion(s string) (FirmwareVersion, error) {
	fv := FirmwareVersion{}

	toks := strings.Split(s, ".")
	if len(toks) != 2 || len(toks[0]) != 2 || len(toks[1]) != 2 {
		return fv, fmt.Errorf("invalid firmware version: %q", s)
	}

	major, err := strconv.ParseUint(toks[0], 10, 8)
	if err != nil {
		return fv, fmt.Errorf("invalid firmware version: %q", s)
	}
	minor, err := strconv.ParseUint(toks[1], 10, 8)
	if err != nil {
		return fv, fmt.Errorf("invalid firmware version: %q", s)
	}

	fv.Major = uint8(major)
	fv.Minor = uint8(minor)
	return fv, nil
}

func (fv FirmwareVersion) String() string {
	return fmt.Sprintf("%02d.%02d", fv.Major, fv.Minor)
}

type SerialNumber string

type AutoPowerOff struct {
	IsEnabled     bool
	DurationIndex uint8
}

type HearingProtection struct {
	IsEnabled bool
	Level     uint8
}
