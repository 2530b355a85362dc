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
)

const BATTERY_LEVEL_MAX = 5

// Reported by a side whose level is not known, e.g. an earbud that is out of
// its case and out of range.
const BATTERY_LEVEL_UNKNOWN = 0xff

type SingleBattery struct {
	Level      uint8
	IsCharging bool
}

func (b SingleBattery) String() string {
	lvl := "?"
	if b.Level != BATTERY_LEVEL_UNKNOWN {
		lvl = fmt.Sprintf("%d/%d", b.Level, BATTERY_LEVEL_MAX)
	}
	if b.IsCharging {
		return lvl + " (charging)"
	}
	return lvl
}

// Dual batteries are reported per earbud.  A single battery lives in Left.
type Battery struct {
	Dual  bool
	Left  SingleBattery
	Right SingleBattery
}

func NewSingleBattery(level uint8, charging bool) Battery {
	return Battery{
		Left: SingleBattery{Level: level, IsCharging: charging},
	}
}

func NewDualBattery(left SingleBattery, right SingleBattery) Battery {
	return Battery{
		Dual:  true,
		Left:  left,
		Right: right,
	}
}

func (b Battery) String() string {
	if b.Dual {
		return fmt.Sprintf("left=%s right=%s", b.Left, b.Right)
	}
	return b.Left.String()
}
