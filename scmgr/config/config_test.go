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
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/soundcore-tools/scmgr/scxact/bledefs"
)

func TestParseConnString(t *testing.T) {
	bc, err := ParseConnString("peer_id=AC:12:2F:01:02:03, peer_name=Liberty," +
		"conn_timeout=2.5,conn_tries=5,write_rsp=true,ctlr_name=hci1")
	if err != nil {
		t.Fatalf("%s", err.Error())
	}

	if bc.PeerId != "AC:12:2F:01:02:03" || bc.PeerName != "Liberty" {
		t.Errorf("peer: %+v", bc)
	}
	if bc.ConnTimeout != 2500*time.Millisecond {
		t.Errorf("conn_timeout: %s", bc.ConnTimeout)
	}
	if bc.ConnTries != 5 || !bc.WriteRsp || bc.CtlrName != "hci1" {
		t.Errorf("got %+v", bc)
	}
	if bc.Uuids != nil {
		t.Errorf("unexpected uuids: %s", bc.Uuids.String())
	}
}

func TestParseConnStringDefaults(t *testing.T) {
	bc, err := ParseConnString("  ")
	if err != nil {
		t.Fatalf("%s", err.Error())
	}
	if *bc != *NewBleConfig() {
		t.Errorf("got %+v", bc)
	}

	bc, err = ParseConnString("conn_timeout=750ms")
	if err != nil {
		t.Fatalf("%s", err.Error())
	}
	if bc.ConnTimeout != 750*time.Millisecond {
		t.Errorf("conn_timeout: %s", bc.ConnTimeout)
	}
}

func TestParseConnStringUuids(t *testing.T) {
	bc, err := ParseConnString(
		"svc_uuid=011cf5da-0000-1000-8000-00805f9b34fb," +
			"read_uuid=00007777-0000-1000-8000-00805f9b34fb," +
			"write_uuid=00007778-0000-1000-8000-00805f9b34fb")
	if err != nil {
		t.Fatalf("%s", err.Error())
	}
	if bc.Uuids == nil {
		t.Fatalf("uuids not parsed")
	}

	want, _ := bledefs.ParseUuid("00007777-0000-1000-8000-00805f9b34fb")
	if bledefs.CompareUuids(bc.Uuids.ReadChrUuid, want) != 0 {
		t.Errorf("read uuid: %s", bc.Uuids.ReadChrUuid)
	}
}

func TestParseConnStringErrors(t *testing.T) {
	bad := []string{
		"peer_id",
		"peer_id=nonsense",
		"conn_timeout=soon",
		"conn_tries=0",
		"write_rsp=maybe",
		"colour=blue",
		"svc_uuid=011cf5da-0000-1000-8000-00805f9b34fb",
		"svc_uuid=x,read_uuid=y,write_uuid=z",
	}

	for _, cs := range bad {
		if _, err := ParseConnString(cs); err == nil {
			t.Errorf("%q: expected error", cs)
		}
	}
}

func TestPeerDesc(t *testing.T) {
	bc := NewBleConfig()
	if _, err := bc.PeerDesc(); err == nil {
		t.Errorf("expected error without a peer")
	}

	bc.PeerName = "Soundcore Life Q30"
	desc, err := bc.PeerDesc()
	if err != nil || desc.Name != bc.PeerName {
		t.Errorf("got %+v, %v", desc, err)
	}

	bc.PeerId = "ac:12:2f:01:02:03"
	desc, err = bc.PeerDesc()
	if err != nil {
		t.Fatalf("%s", err.Error())
	}
	if desc.Addr.String() != "AC:12:2F:01:02:03" {
		t.Errorf("addr: %s", desc.Addr)
	}
}

func TestConnTypes(t *testing.T) {
	for _, s := range []string{"ble", "tble"} {
		ct, err := ConnTypeFromString(s)
		if err != nil {
			t.Fatalf("%s", err.Error())
		}
		if ConnTypeToString(ct) != s {
			t.Errorf("round trip of %s gave %s", s, ConnTypeToString(ct))
		}
	}

	if _, err := ConnTypeFromString("???"); err == nil {
		t.Errorf("expected error")
	}
}

func TestConnProfileMgr(t *testing.T) {
	dir, err := ioutil.TempDir("", "scmgr")
	if err != nil {
		t.Fatalf("%s", err.Error())
	}
	defer os.RemoveAll(dir)

	filename := filepath.Join(dir, "profiles.json")

	cpm, err := NewConnProfileMgr(filename)
	if err != nil {
		t.Fatalf("%s", err.Error())
	}
	if len(cpm.GetConnProfileList()) != 0 {
		t.Fatalf("profiles without a file")
	}

	if err := cpm.AddConnProfile(&ConnProfile{Name: "x"}); err == nil {
		t.Errorf("profile without a type accepted")
	}
	if err := cpm.AddConnProfile(&ConnProfile{
		Name:       "x",
		Type:       CONN_TYPE_BLL,
		ConnString: "bogus",
	}); err == nil {
		t.Errorf("profile with a bad connstring accepted")
	}

	for _, name := range []string{"zed", "alpha"} {
		err := cpm.AddConnProfile(&ConnProfile{
			Name:       name,
			Type:       CONN_TYPE_TBLE,
			ConnString: "peer_name=" + name,
		})
		if err != nil {
			t.Fatalf("%s", err.Error())
		}
	}

	// A second manager sees the saved profiles.
	cpm2, err := NewConnProfileMgr(filename)
	if err != nil {
		t.Fatalf("%s", err.Error())
	}

	list := cpm2.GetConnProfileList()
	if len(list) != 2 || list[0].Name != "alpha" || list[1].Name != "zed" {
		t.Fatalf("got %v", list)
	}
	if list[0].Type != CONN_TYPE_TBLE {
		t.Errorf("type: %s", ConnTypeToString(list[0].Type))
	}

	if err := cpm2.DeleteConnProfile("zed"); err != nil {
		t.Fatalf("%s", err.Error())
	}
	if err := cpm2.DeleteConnProfile("zed"); err == nil {
		t.Errorf("deleted a missing profile")
	}
	if _, err := cpm2.GetConnProfile("zed"); err == nil {
		t.Errorf("deleted profile still present")
	}
}

func TestSettings(t *testing.T) {
	s, err := ParseSettings([]byte(`
log_level: debug
scan_duration: 3s
handshake:
  tries: 5
  timeout: 250ms
experimental_a3947: false
output: json
`))
	if err != nil {
		t.Fatalf("%s", err.Error())
	}

	if s.LogLevel != "debug" || s.ScanDuration != 3*time.Second {
		t.Errorf("got %+v", s)
	}
	if s.ExperimentalA3947 || s.Output != OUTPUT_JSON {
		t.Errorf("got %+v", s)
	}

	mc := s.MgrCfg()
	hc := mc.SesnCfg.Handshake
	if hc.Tries != 5 || hc.Timeout != 250*time.Millisecond {
		t.Errorf("handshake: %+v", hc)
	}
	// Unset keys keep their defaults.
	if hc.Backoff != DefaultSettings().Handshake.Backoff {
		t.Errorf("backoff: %s", hc.Backoff)
	}
}

func TestSettingsInvalid(t *testing.T) {
	bad := []string{
		"log_level: loud",
		"output: xml",
		"handshake:\n  tries: 0",
		"scan_duration: -1s",
		"scan_duration: [1]",
	}

	for _, b := range bad {
		if _, err := ParseSettings([]byte(b)); err == nil {
			t.Errorf("%q: expected error", b)
		}
	}
}

func TestLoadSettingsMissing(t *testing.T) {
	s, err := LoadSettings(filepath.Join(os.TempDir(), "scmgr-none.yaml"))
	if err != nil {
		t.Fatalf("%s", err.Error())
	}
	if s != DefaultSettings() {
		t.Errorf("got %+v", s)
	}
}
