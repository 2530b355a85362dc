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

package xport

import (
	. "github.com/soundcore-tools/scmgr/scxact/bledefs"
	"github.com/soundcore-tools/scmgr/scxact/scxutil"
)

// Backend-neutral views of a discovered GATT profile.

type GattChr struct {
	Uuid  BleUuid
	Flags BleChrFlags
}

type GattSvc struct {
	Uuid BleUuid
	Chrs []GattChr
}

func (c *GattChr) IsReadable() bool {
	return c.Flags.Has(BLE_GATT_F_NOTIFY | BLE_GATT_F_READ)
}

func (c *GattChr) IsWritable() bool {
	return c.Flags.Has(BLE_GATT_F_WRITE | BLE_GATT_F_WRITE_NO_RSP)
}

// Picks the first non-blacklisted service that has a notify+read
// characteristic and a write+write-without-response characteristic.
func SelectUuidSet(svcs []GattSvc) (UuidSet, error) {
	var candidates int

	for _, s := range svcs {
		if IsBlacklistedSvc(s.Uuid) {
			continue
		}
		candidates++

		var rd, wr *GattChr
		for i := range s.Chrs {
			c := &s.Chrs[i]
			if rd == nil && c.IsReadable() {
				rd = c
			} else if wr == nil && c.IsWritable() {
				wr = c
			}
		}

		if rd != nil && wr != nil {
			return UuidSet{
				SvcUuid:      s.Uuid,
				ReadChrUuid:  rd.Uuid,
				WriteChrUuid: wr.Uuid,
			}, nil
		}
	}

	if candidates == 0 {
		return UuidSet{}, scxutil.NewMissingServiceError(
			"no data service in GATT profile")
	}
	return UuidSet{}, scxutil.NewMissingCharacteristicError(
		"no service offers notify and write characteristics")
}

// Looks up the characteristics of a known triple in a discovered profile.
func FindUuidSet(svcs []GattSvc, us UuidSet) error {
	for _, s := range svcs {
		if CompareUuids(s.Uuid, us.SvcUuid) != 0 {
			continue
		}

		var haveRd, haveWr bool
		for _, c := range s.Chrs {
			if CompareUuids(c.Uuid, us.ReadChrUuid) == 0 {
				haveRd = true
			}
			if CompareUuids(c.Uuid, us.WriteChrUuid) == 0 {
				haveWr = true
			}
		}

		if !haveRd {
			return scxutil.FmtMissingCharacteristicError(
				"service %s has no characteristic %s",
				us.SvcUuid.String(), us.ReadChrUuid.String())
		}
		if !haveWr {
			return scxutil.FmtMissingCharacteristicError(
				"service %s has no characteristic %s",
				us.SvcUuid.String(), us.WriteChrUuid.String())
		}
		return nil
	}

	return scxutil.NewMissingServiceError(
		"service " + us.SvcUuid.String() + " not found")
}
