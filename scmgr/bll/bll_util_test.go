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


package bll

import (
	"testing"

	"github.com/go-ble/ble"

	"github.com/soundcore-tools/scmgr/scxact/bledefs"
	"github.com/soundcore-tools/scmgr/scxact/xport"
)

const (
	dataSvc = "011cf5da-0000-1000-8000-00805f9b34fb"
	readChr = "00007777-0000-1000-8000-00805f9b34fb"
	wrChr   = "00007778-0000-1000-8000-00805f9b34fb"
)

func uuid(t *testing.T, s string) bledefs.BleUuid {
	u, err := bledefs.ParseUuid(s)
	if err != nil {
		t.Fatalf("%s", err.Error())
	}
	return u
}

func testProfile() *ble.Profile {
	return &ble.Profile{
		Services: []*ble.Service{
			{
				UUID: ble.UUID16(0x1800),
				Characteristics: []*ble.Characteristic{
					{
						UUID:     ble.UUID16(0x2a00),
						Property: ble.CharRead | ble.CharNotify,
					},
				},
			},
			{
				UUID: ble.MustParse(dataSvc),
				Characteristics: []*ble.Characteristic{
					{
						UUID:     ble.MustParse(readChr),
						Property: ble.CharRead | ble.CharNotify,
					},
					{
						UUID:     ble.MustParse(wrChr),
						Property: ble.CharWrite | ble.CharWriteNR,
					},
				},
			},
		},
	}
}

func TestUuidFromBllUuid(t *testing.T) {
	u, err := UuidFromBllUuid(ble.UUID16(0x1800))
	if err != nil {
		t.Fatalf("%s", err.Error())
	}
	if u.U16 != 0x1800 {
		t.Errorf("got %s", u)
	}

	u, err = UuidFromBllUuid(ble.MustParse(dataSvc))
	if err != nil {
		t.Fatalf("%s", err.Error())
	}
	if bledefs.CompareUuids(u, uuid(t, dataSvc)) != 0 {
		t.Errorf("got %s", u)
	}

	if _, err := UuidFromBllUuid(ble.UUID{1, 2, 3}); err == nil {
		t.Errorf("expected error")
	}
}

func TestProfileSelection(t *testing.T) {
	p := testProfile()

	us, err := xport.SelectUuidSet(gattSvcs(p))
	if err != nil {
		t.Fatalf("%s", err.Error())
	}

	if bledefs.CompareUuids(us.SvcUuid, uuid(t, dataSvc)) != 0 ||
		bledefs.CompareUuids(us.ReadChrUuid, uuid(t, readChr)) != 0 ||
		bledefs.CompareUuids(us.WriteChrUuid, uuid(t, wrChr)) != 0 {

		t.Fatalf("got %s", us.String())
	}

	if c := findChr(p, us.SvcUuid, us.WriteChrUuid); c != p.Services[1].Characteristics[1] {
		t.Errorf("wrong write characteristic")
	}
	if c := findChr(p, us.SvcUuid, uuid(t, "0x2a00")); c != nil {
		t.Errorf("found a characteristic of another service")
	}
}
