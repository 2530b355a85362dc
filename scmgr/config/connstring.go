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


package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"

	"mynewt.apache.org/newt/util"

	"github.com/soundcore-tools/scmgr/scmgr/scutil"
	"github.com/soundcore-tools/scmgr/scxact/bledefs"
)

// Settings parsed from a connection profile's connstring.  Both backends
// share the same keys.
type BleConfig struct {
	PeerId   string
	PeerName string
	CtlrName string

	ConnTimeout time.Duration
	ConnTries   int
	WriteRsp    bool

	// Nil unless all three UUIDs are given.
	Uuids *bledefs.UuidSet

	HciIdx int
}

func NewBleConfig() *BleConfig {
	return &BleConfig{
		CtlrName:    "default",
		ConnTimeout: 10 * time.Second,
		ConnTries:   3,
	}
}

func einvalConnString(f string, args ...interface{}) error {
	suffix := fmt.Sprintf(f, args...)
	return util.FmtNewtError("Invalid connstring; %s", suffix)
}

// Parses a comma-separated list of key=value pairs.
func ParseConnString(cs string) (*BleConfig, error) {
	bc := NewBleConfig()

	if strings.TrimSpace(cs) == "" {
		return bc, nil
	}

	var svc, rd, wr string

	parts := strings.Split(cs, ",")
	for _, p := range parts {
		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			return nil, einvalConnString("expected comma-separated "+
				"key=value pairs; no '=' in: %s", p)
		}

		k := strings.TrimSpace(kv[0])
		v := strings.TrimSpace(kv[1])

		var err error
		switch k {
		case "peer_id":
			if _, err := bledefs.ParseBleAddr(v); err != nil {
				return nil, einvalConnString("invalid peer_id: %s", v)
			}
			bc.PeerId = v

		case "peer_name":
			bc.PeerName = v

		case "ctlr_name":
			bc.CtlrName = v

		case "conn_timeout":
			// Plain numbers are seconds; "500ms" style strings are also
			// accepted.
			var secs float64
			if secs, err = cast.ToFloat64E(v); err == nil {
				bc.ConnTimeout = time.Duration(secs * float64(time.Second))
			} else if bc.ConnTimeout, err = cast.ToDurationE(v); err != nil {
				return nil, einvalConnString("invalid conn_timeout: %s", v)
			}

		case "conn_tries":
			if bc.ConnTries, err = cast.ToIntE(v); err != nil ||
				bc.ConnTries < 1 {

				return nil, einvalConnString("invalid conn_tries: %s", v)
			}

		case "write_rsp":
			if bc.WriteRsp, err = cast.ToBoolE(v); err != nil {
				return nil, einvalConnString("invalid write_rsp: %s", v)
			}

		case "svc_uuid":
			svc = v
		case "read_uuid":
			rd = v
		case "write_uuid":
			wr = v

		default:
			return nil, einvalConnString("unrecognized key: %s", k)
		}
	}

	if svc != "" || rd != "" || wr != "" {
		us, err := parseUuidSet(svc, rd, wr)
		if err != nil {
			return nil, err
		}
		bc.Uuids = us
	}

	return bc, nil
}

func parseUuidSet(svc string, rd string, wr string) (*bledefs.UuidSet, error) {
	if svc == "" || rd == "" || wr == "" {
		return nil, einvalConnString(
			"svc_uuid, read_uuid and write_uuid must be given together")
	}

	us := &bledefs.UuidSet{}

	var err error
	if us.SvcUuid, err = bledefs.ParseUuid(svc); err != nil {
		return nil, einvalConnString("invalid svc_uuid: %s", svc)
	}
	if us.ReadChrUuid, err = bledefs.ParseUuid(rd); err != nil {
		return nil, einvalConnString("invalid read_uuid: %s", rd)
	}
	if us.WriteChrUuid, err = bledefs.ParseUuid(wr); err != nil {
		return nil, einvalConnString("invalid write_uuid: %s", wr)
	}

	return us, nil
}

// Applies the command-line overrides.
func (bc *BleConfig) ApplyFlags() {
	if scutil.DeviceName != "" {
		bc.PeerName = scutil.DeviceName
	}
	if scutil.BleWriteRsp {
		bc.WriteRsp = true
	}
	bc.HciIdx = scutil.HciIdx
}

// Address and name of the configured peer.
func (bc *BleConfig) PeerDesc() (bledefs.DeviceDesc, error) {
	desc := bledefs.DeviceDesc{Name: bc.PeerName}

	if bc.PeerId != "" {
		addr, err := bledefs.ParseBleAddr(bc.PeerId)
		if err != nil {
			return desc, util.ChildNewtError(err)
		}
		desc.Addr = addr
	} else if bc.PeerName == "" {
		return desc, util.NewNewtError("connection lacks a peer specifier; " +
			"set peer_id or peer_name")
	}

	return desc, nil
}
