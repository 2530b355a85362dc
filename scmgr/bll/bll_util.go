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
	"encoding/binary"
	"fmt"
	"runtime"
	"time"

	"github.com/go-ble/ble"
	log "github.com/sirupsen/logrus"

	"github.com/soundcore-tools/scmgr/scxact/bledefs"
	"github.com/soundcore-tools/scmgr/scxact/xport"
)

func UuidFromBllUuid(bllUuid ble.UUID) (bledefs.BleUuid, error) {
	uuid := bledefs.BleUuid{}

	switch len(bllUuid) {
	case 2:
		uuid.U16 = bledefs.BleUuid16(binary.LittleEndian.Uint16(bllUuid))
		return uuid, nil

	case 16:
		for i, b := range bllUuid {
			uuid.U128[15-i] = b
		}
		return uuid, nil

	default:
		return uuid, fmt.Errorf("Invalid UUID: %#v", bllUuid)
	}
}

// Converts a discovered profile to the backend-neutral form.  Services and
// characteristics with malformed UUIDs are skipped.
func gattSvcs(p *ble.Profile) []xport.GattSvc {
	var svcs []xport.GattSvc

	for _, s := range p.Services {
		su, err := UuidFromBllUuid(s.UUID)
		if err != nil {
			log.Debugf("skipping service: %s", err.Error())
			continue
		}

		svc := xport.GattSvc{Uuid: su}
		for _, c := range s.Characteristics {
			cu, err := UuidFromBllUuid(c.UUID)
			if err != nil {
				continue
			}
			svc.Chrs = append(svc.Chrs, xport.GattChr{
				Uuid:  cu,
				Flags: bledefs.BleChrFlags(c.Property),
			})
		}

		svcs = append(svcs, svc)
	}

	return svcs
}

func findChr(p *ble.Profile, svcUuid bledefs.BleUuid,
	chrUuid bledefs.BleUuid) *ble.Characteristic {

	for _, s := range p.Services {
		su, err := UuidFromBllUuid(s.UUID)
		if err != nil || bledefs.CompareUuids(su, svcUuid) != 0 {
			continue
		}

		for _, c := range s.Characteristics {
			cu, err := UuidFromBllUuid(c.UUID)
			if err == nil && bledefs.CompareUuids(cu, chrUuid) == 0 {
				return c
			}
		}
	}

	return nil
}

func exchangeMtu(cln ble.Client, preferredMtu uint16) (uint16, error) {
	log.Debugf("Exchanging MTU")

	// macOS does not exchange on request; the library reports the default
	// until the OS has done it by itself.
	var mtu int
	for i := 0; i < 3; i++ {
		var err error
		mtu, err = cln.ExchangeMTU(int(preferredMtu))
		if err != nil {
			return 0, err
		}

		if runtime.GOOS != "darwin" || mtu != bledefs.BLE_ATT_MTU_DFLT {
			break
		}

		log.Debugf("MTU still %d; waiting for the OS exchange", mtu)
		time.Sleep(time.Second)
	}

	log.Debugf("Exchanged MTU; ATT MTU = %d", mtu)
	return uint16(mtu), nil
}
