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

// Package product identifies device families and the features each one
// offers.
package product

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/soundcore-tools/scmgr/scxact/model"
)

// A four digit model number, e.g. "A3951".
type Code string

const (
	CODE_NONE  Code = ""
	CODE_A3027 Code = "A3027"
	CODE_A3028 Code = "A3028"
	CODE_A3029 Code = "A3029"
	CODE_A3030 Code = "A3030"
	CODE_A3033 Code = "A3033"
	CODE_A3040 Code = "A3040"
	CODE_A3926 Code = "A3926"
	CODE_A3930 Code = "A3930"
	CODE_A3931 Code = "A3931"
	CODE_A3933 Code = "A3933"
	CODE_A3935 Code = "A3935"
	CODE_A3947 Code = "A3947"
	CODE_A3951 Code = "A3951"
)

var codeNameMap = map[Code]string{
	CODE_A3027: "Soundcore Life Q35",
	CODE_A3028: "Soundcore Life Q30",
	CODE_A3029: "Soundcore Life Tune",
	CODE_A3030: "Soundcore Life Tune Pro",
	CODE_A3033: "Soundcore Life 2 Neo",
	CODE_A3040: "Soundcore Space Q45",
	CODE_A3926: "Soundcore Life Dot 2S",
	CODE_A3930: "Soundcore Liberty 2 Pro",
	CODE_A3931: "Soundcore Life Dot 2 NC",
	CODE_A3933: "Soundcore Life Note 3",
	CODE_A3935: "Soundcore Life A2 NC",
	CODE_A3947: "Soundcore Liberty 4 NC",
	CODE_A3951: "Soundcore Liberty Air 2 Pro",
}

func (c Code) String() string {
	if c == CODE_NONE {
		return "unknown"
	}
	return string(c)
}

func (c Code) Name() string {
	if n, ok := codeNameMap[c]; ok {
		return n
	}
	return "Unknown device"
}

func (c Code) IsKnown() bool {
	_, ok := codeNameMap[c]
	return ok
}

func (c Code) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func ParseCode(s string) (Code, error) {
	c := Code(strings.ToUpper(s))
	if !strings.HasPrefix(string(c), "A") {
		c = "A" + c
	}

	if !c.IsKnown() {
		return CODE_NONE, fmt.Errorf("unknown product code: %s", s)
	}
	return c, nil
}

// Resolves the product from a serial number; the first four digits are the
// model number.  Returns CODE_NONE if the prefix is not a known model.
func FromSerial(sn model.SerialNumber) Code {
	if len(sn) < 4 {
		return CODE_NONE
	}

	c := Code("A" + string(sn[:4]))
	if !c.IsKnown() {
		return CODE_NONE
	}
	return c
}

// Advertised name fragments.  Longer, more specific names come before the
// names they contain.
var nameTable = []struct {
	fragment string
	code     Code
}{
	{"Liberty Air 2 Pro", CODE_A3951},
	{"Liberty 4 NC", CODE_A3947},
	{"Liberty 2 Pro", CODE_A3930},
	{"Life Dot 2 NC", CODE_A3931},
	{"Life Dot 2S", CODE_A3926},
	{"Life Tune Pro", CODE_A3030},
	{"Life Tune", CODE_A3029},
	{"Life Note 3", CODE_A3933},
	{"Life A2 NC", CODE_A3935},
	{"Life 2 Neo", CODE_A3033},
	{"Space Q45", CODE_A3040},
	{"Life Q35", CODE_A3027},
	{"Life Q30", CODE_A3028},
}

// Infers the product from an advertised name by substring match.
func FromName(name string) Code {
	for _, e := range nameTable {
		if strings.Contains(name, e.fragment) {
			return e.code
		}
	}
	return CODE_NONE
}
