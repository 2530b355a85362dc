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
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"mynewt.apache.org/newt/util"

	"github.com/soundcore-tools/scmgr/scmgr/config"
	"github.com/soundcore-tools/scmgr/scmgr/scutil"
	"github.com/soundcore-tools/scmgr/scxact/scparse"
	"github.com/soundcore-tools/scmgr/scxact/scxutil"
)

var ScmgrLogLevel log.Level

func Commands() *cobra.Command {
	logLevelStr := ""
	scCmd := &cobra.Command{
		Use:   scutil.ToolInfo.ExeName,
		Short: scutil.ToolInfo.ShortName + " manages Soundcore earbuds and headphones",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			s, err := config.LoadGlobalSettings()
			if err != nil {
				scUsage(nil, err)
			}
			globalSettings = s

			if logLevelStr == "" {
				logLevelStr = s.LogLevel
			}
			ScmgrLogLevel, err = log.ParseLevel(logLevelStr)
			if err != nil {
				scUsage(nil, util.ChildNewtError(err))
			}

			err = util.Init(ScmgrLogLevel, "", util.VERBOSITY_DEFAULT)
			if err != nil {
				scUsage(nil, err)
			}
			scxutil.SetLogLevel(ScmgrLogLevel)

			scparse.SetExperimental(s.ExperimentalA3947)
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.HelpFunc()(cmd, args)
		},
	}

	scCmd.PersistentFlags().StringVarP(&scutil.ConnProfile, "conn", "c", "",
		"connection profile to use")

	scCmd.PersistentFlags().Float64VarP(&scutil.Timeout, "timeout", "t", 10.0,
		"timeout in seconds (partial seconds allowed)")

	scCmd.PersistentFlags().StringVarP(&logLevelStr, "loglevel", "l", "",
		"log level to use; overrides the settings file")

	scCmd.PersistentFlags().StringVar(&scutil.DeviceName, "name",
		"", "name of target BLE device; overrides profile setting")

	scCmd.PersistentFlags().BoolVar(&scutil.BleWriteRsp, "write-rsp", false,
		"Send BLE acked write requests instead of unacked write commands")

	scCmd.PersistentFlags().StringVar(&scutil.ConnType, "conntype", "",
		"Connection type to use instead of using the profile's type")

	scCmd.PersistentFlags().StringVar(&scutil.ConnString, "connstring", "",
		"Connection key-value pairs to use instead of using the profile's "+
			"connstring")

	scCmd.PersistentFlags().IntVarP(&scutil.HciIdx, "hci", "i",
		0, "HCI index for the controller on Linux machine")

	scCmd.PersistentFlags().BoolVar(&scutil.JsonOutput, "json", false,
		"Print results as JSON")

	versCmd := &cobra.Command{
		Use:     "version",
		Short:   "Display the " + scutil.ToolInfo.ShortName + " version number",
		Example: "  " + scutil.ToolInfo.ExeName + " version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s %s\n",
				scutil.ToolInfo.LongName,
				scutil.ToolInfo.VersionString)
		},
	}
	scCmd.AddCommand(versCmd)

	scCmd.AddCommand(connProfileCmd())
	scCmd.AddCommand(scanCmd())
	scCmd.AddCommand(stateCmd())
	scCmd.AddCommand(soundModeCmd())
	scCmd.AddCommand(eqCmd())
	scCmd.AddCommand(watchCmd())
	scCmd.AddCommand(refreshCmd())
	scCmd.AddCommand(interactiveCmd())

	return scCmd
}
