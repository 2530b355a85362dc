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

	"github.com/spf13/cobra"

	"mynewt.apache.org/newt/util"

	"github.com/soundcore-tools/scmgr/scmgr/config"
	"github.com/soundcore-tools/scmgr/scmgr/scutil"
)

func connProfileAddCmd(cmd *cobra.Command, args []string) {
	cpm := config.GlobalConnProfileMgr()

	if len(args) == 0 {
		scUsage(cmd, util.NewNewtError("Need connection profile name"))
	}

	cp := &config.ConnProfile{
		Name: args[0],
		Type: config.CONN_TYPE_NONE,
	}

	kv, plain := splitKvArgs(args[1:])
	if len(plain) > 0 {
		scUsage(cmd, util.NewNewtError("Expected varname=value; got "+
			plain[0]))
	}

	for k, v := range kv {
		switch k {
		case "type":
			var err error
			cp.Type, err = config.ConnTypeFromString(v)
			if err != nil {
				scUsage(cmd, err)
			}
		case "connstring":
			cp.ConnString = v
		default:
			scUsage(cmd, util.NewNewtError("Unknown variable "+k))
		}
	}

	if cp.Type == config.CONN_TYPE_NONE {
		scUsage(cmd, util.NewNewtError("Must specify a connection type"))
	}

	if err := cpm.AddConnProfile(cp); err != nil {
		scUsage(cmd, err)
	}

	fmt.Printf("Connection profile %s successfully added\n", cp.Name)
}

func connProfileShowCmd(cmd *cobra.Command, args []string) {
	cpm := config.GlobalConnProfileMgr()

	name := ""
	if len(args) > 0 {
		name = args[0]
	}

	found := false
	for _, cp := range cpm.GetConnProfileList() {
		if name != "" && cp.Name != name {
			continue
		}

		if !found {
			found = true
			fmt.Printf("Connection profiles: \n")
		}
		fmt.Printf("  %s: type=%s, connstring='%s'\n",
			cp.Name, config.ConnTypeToString(cp.Type), cp.ConnString)
	}

	if !found {
		if name == "" {
			fmt.Printf("No connection profiles found!\n")
		} else {
			fmt.Printf("No connection profiles found matching %s\n", name)
		}
	}
}

func connProfileDelCmd(cmd *cobra.Command, args []string) {
	cpm := config.GlobalConnProfileMgr()

	if len(args) == 0 {
		scUsage(cmd, util.NewNewtError("Need connection profile name"))
	}

	name := args[0]
	if err := cpm.DeleteConnProfile(name); err != nil {
		scUsage(cmd, err)
	}

	fmt.Printf("Connection profile %s successfully deleted.\n", name)
}

func connProfileCmd() *cobra.Command {
	cpCmd := &cobra.Command{
		Use:   "conn",
		Short: "Manage " + scutil.ToolInfo.ShortName + " connection profiles",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.HelpFunc()(cmd, args)
		},
	}

	addHelpText := "Add a connection profile.  Variables:\n"
	addHelpText += "  type        ble (go-ble HCI) or tble (system stack)\n"
	addHelpText += "  connstring  comma-separated key=value pairs: peer_id,\n"
	addHelpText += "              peer_name, ctlr_name, conn_timeout,\n"
	addHelpText += "              conn_tries, write_rsp, svc_uuid, read_uuid,\n"
	addHelpText += "              write_uuid\n"

	addCmd := &cobra.Command{
		Use:     "add <conn_profile> <varname=value ...>",
		Short:   "Add a " + scutil.ToolInfo.ShortName + " connection profile",
		Long:    addHelpText,
		Example: "  " + scutil.ToolInfo.ExeName + " conn add buds type=tble connstring=peer_id=AC:12:2F:01:02:03",
		Run:     connProfileAddCmd,
	}
	cpCmd.AddCommand(addCmd)

	deleCmd := &cobra.Command{
		Use:   "delete <conn_profile>",
		Short: "Delete a " + scutil.ToolInfo.ShortName + " connection profile",
		Run:   connProfileDelCmd,
	}
	cpCmd.AddCommand(deleCmd)

	connShowHelpText := "Show information for the conn_profile connection "
	connShowHelpText += "profile or for all\nconnection profiles "
	connShowHelpText += "if conn_profile is not specified.\n"

	showCmd := &cobra.Command{
		Use:   "show [conn_profile]",
		Short: "Show " + scutil.ToolInfo.ShortName + " connection profiles",
		Long:  connShowHelpText,
		Run:   connProfileShowCmd,
	}
	cpCmd.AddCommand(showCmd)

	return cpCmd
}
