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


package cli

import (
	"context"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"mynewt.apache.org/newt/util"

	"github.com/soundcore-tools/scmgr/scmgr/bll"
	"github.com/soundcore-tools/scmgr/scmgr/config"
	"github.com/soundcore-tools/scmgr/scmgr/scutil"
	"github.com/soundcore-tools/scmgr/scmgr/tble"
	"github.com/soundcore-tools/scmgr/scxact/bledefs"
	"github.com/soundcore-tools/scmgr/scxact/devmgr"
	"github.com/soundcore-tools/scmgr/scxact/scxutil"
	"github.com/soundcore-tools/scmgr/scxact/sesn"
	"github.com/soundcore-tools/scmgr/scxact/xport"
)

var globalSettings = config.DefaultSettings()
var globalBleCfg *config.BleConfig
var globalXport xport.Xport
var globalMgr *devmgr.Mgr
var globalSesn *sesn.Sesn

var onExit = func() {}

func ScSetOnExit(fn func()) {
	onExit = fn
}

func scUsage(cmd *cobra.Command, err error) {
	if err != nil {
		if nerr, ok := err.(*util.NewtError); ok {
			log.Debugf("%s", nerr.StackTrace)
			fmt.Fprintf(os.Stderr, "Error: %s\n", nerr.Text)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
		}
	}

	if cmd != nil {
		fmt.Printf("\n")
		fmt.Printf("%s - ", cmd.Name())
		cmd.Help()
	}

	onExit()
	os.Exit(1)
}

// Reports a failed operation without printing usage.
func scFail(err error) {
	scUsage(nil, err)
}

// The profile named by --conn, with --conntype and --connstring applied on
// top.  Without a profile the flags alone describe the connection.
func getConnProfile() (*config.ConnProfile, error) {
	cp := &config.ConnProfile{
		Type: config.CONN_TYPE_TBLE,
	}

	if scutil.ConnProfile != "" {
		p, err := config.GlobalConnProfileMgr().GetConnProfile(
			scutil.ConnProfile)
		if err != nil {
			return nil, err
		}
		*cp = *p
	}

	if scutil.ConnType != "" {
		ct, err := config.ConnTypeFromString(scutil.ConnType)
		if err != nil {
			return nil, err
		}
		cp.Type = ct
	}
	if scutil.ConnString != "" {
		cp.ConnString = scutil.ConnString
	}

	return cp, nil
}

func getBleConfig() (*config.BleConfig, config.ConnType, error) {
	cp, err := getConnProfile()
	if err != nil {
		return nil, config.CONN_TYPE_NONE, err
	}

	if globalBleCfg == nil {
		bc, err := config.ParseConnString(cp.ConnString)
		if err != nil {
			return nil, cp.Type, err
		}
		bc.ApplyFlags()
		globalBleCfg = bc
	}

	return globalBleCfg, cp.Type, nil
}

func GetXport() (xport.Xport, error) {
	if globalXport != nil {
		return globalXport, nil
	}

	bc, ct, err := getBleConfig()
	if err != nil {
		return nil, err
	}

	switch ct {
	case config.CONN_TYPE_BLL:
		cfg := bll.NewXportCfg()
		cfg.CtlrName = bc.CtlrName
		cfg.HciIdx = bc.HciIdx
		cfg.ConnTimeout = bc.ConnTimeout
		cfg.ConnTries = bc.ConnTries
		globalXport = bll.NewBllXport(cfg)

	case config.CONN_TYPE_TBLE:
		cfg := tble.NewXportCfg()
		cfg.HciIdx = bc.HciIdx
		cfg.ConnTimeout = bc.ConnTimeout
		cfg.ConnTries = bc.ConnTries
		globalXport = tble.NewTbleXport(cfg)

	default:
		return nil, util.FmtNewtError("Unknown connection type: %s (%d)",
			config.ConnTypeToString(ct), int(ct))
	}

	return globalXport, nil
}

// Returns the running device manager, starting the transport on first use.
func GetMgr() (*devmgr.Mgr, error) {
	if globalMgr != nil {
		return globalMgr, nil
	}

	bc, _, err := getBleConfig()
	if err != nil {
		return nil, err
	}

	x, err := GetXport()
	if err != nil {
		return nil, err
	}

	mc := globalSettings.MgrCfg()
	mc.Uuids = bc.Uuids
	if bc.WriteRsp {
		mc.SesnCfg.WriteType = xport.WRITE_TYPE_WITH_RSP
	}

	m := devmgr.NewMgr(x, mc)
	if err := m.Start(); err != nil {
		return nil, util.ChildNewtError(err)
	}

	globalMgr = m
	return globalMgr, nil
}

func GetMgrIfOpen() (*devmgr.Mgr, error) {
	if globalMgr == nil {
		return nil, fmt.Errorf("manager not initialized")
	}

	return globalMgr, nil
}

// Scans for a device advertising the given name.
func findByName(m *devmgr.Mgr, name string) (bledefs.DeviceDesc, error) {
	log.Debugf("Scanning for %s", name)

	devs, err := m.Scan(context.Background(), 0)
	if err != nil {
		return bledefs.DeviceDesc{}, err
	}

	for _, d := range devs {
		if d.Desc.Name == name {
			return d.Desc, nil
		}
	}

	return bledefs.DeviceDesc{}, scxutil.FmtDeviceNotFoundError(
		"no device named \"%s\" found", name)
}

// Returns the session with the configured peer, connecting on first use.
func GetSesn() (*sesn.Sesn, error) {
	if globalSesn != nil {
		return globalSesn, nil
	}

	bc, _, err := getBleConfig()
	if err != nil {
		return nil, err
	}

	desc, err := bc.PeerDesc()
	if err != nil {
		return nil, err
	}

	m, err := GetMgr()
	if err != nil {
		return nil, err
	}

	if bc.PeerId == "" {
		desc, err = findByName(m, desc.Name)
		if err != nil {
			return nil, util.ChildNewtError(err)
		}
	}

	s, err := m.Connect(context.Background(), desc)
	if err != nil {
		if scxutil.IsDeviceNotFound(err) {
			return nil, util.FmtNewtError("device %s not reachable",
				desc.Addr)
		}
		return nil, util.ChildNewtError(err)
	}

	globalSesn = s
	return globalSesn, nil
}

func GetSesnIfOpen() (*sesn.Sesn, error) {
	if globalSesn == nil {
		return nil, fmt.Errorf("session not initialized")
	}

	return globalSesn, nil
}

// A context bounded by the --timeout flag.
func cmdContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), scutil.TimeoutDuration())
}
