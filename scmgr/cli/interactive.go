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
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"gopkg.in/abiosoft/ishell.v2"

	"mynewt.apache.org/newt/util"

	"github.com/soundcore-tools/scmgr/scmgr/scutil"
	"github.com/soundcore-tools/scmgr/scxact/bledefs"
	"github.com/soundcore-tools/scmgr/scxact/bridge"
	"github.com/soundcore-tools/scmgr/scxact/devmgr"
	"github.com/soundcore-tools/scmgr/scxact/model"
	"github.com/soundcore-tools/scmgr/scxact/xport"
)

// What the shell knows about devices, built from bridge responses.
type shellState struct {
	mtx    sync.Mutex
	seen   map[bledefs.BleAddr]devmgr.DiscoveredDevice
	states map[bledefs.BleAddr]*model.DeviceState
}

func newShellState() *shellState {
	return &shellState{
		seen:   map[bledefs.BleAddr]devmgr.DiscoveredDevice{},
		states: map[bledefs.BleAddr]*model.DeviceState{},
	}
}

// Records a response and returns the text to show for it.
func (ss *shellState) apply(rsp bridge.Response) string {
	ss.mtx.Lock()
	defer ss.mtx.Unlock()

	switch r := rsp.(type) {
	case *bridge.ScanResultRsp:
		lines := []string{fmt.Sprintf("%d device(s) found", len(r.Devices))}
		for _, d := range r.Devices {
			ss.seen[d.Desc.Addr] = d
			lines = append(lines, "  "+d.String())
		}
		return strings.Join(lines, "\n")

	case *bridge.ConnectionEstablishedRsp:
		ss.states[r.Addr] = r.State
		return fmt.Sprintf("connected to %s; battery %s", r.Addr,
			r.State.Battery)

	case *bridge.ConnectionFailedRsp:
		return fmt.Sprintf("connection to %s failed: %s", r.Addr, r.Reason)

	case *bridge.NewStateRsp:
		if _, ok := ss.states[r.Addr]; !ok {
			return ""
		}
		ss.states[r.Addr] = r.State
		return fmt.Sprintf("%s: state updated", r.Addr)

	case *bridge.DisconnectedRsp:
		delete(ss.states, r.Addr)
		return fmt.Sprintf("disconnected from %s", r.Addr)

	case *bridge.DisconnectedAllRsp:
		ss.states = map[bledefs.BleAddr]*model.DeviceState{}
		return "disconnected from all devices"

	case *bridge.AdapterEventRsp:
		if r.Event.Type == xport.ADAPTER_EVENT_DISCONNECTED {
			delete(ss.states, r.Event.Addr)
		}
		return fmt.Sprintf("adapter: %s", r.Event)

	case *bridge.GenericErrorRsp:
		return "Error: " + r.Message

	default:
		return fmt.Sprintf("unexpected response: %s", rsp.RspName())
	}
}

// Resolves a device argument: an address, or the name of a scanned device.
func (ss *shellState) lookup(arg string) (bledefs.DeviceDesc, error) {
	ss.mtx.Lock()
	defer ss.mtx.Unlock()

	if addr, err := bledefs.ParseBleAddr(arg); err == nil {
		if d, ok := ss.seen[addr]; ok {
			return d.Desc, nil
		}
		return bledefs.DeviceDesc{Addr: addr}, nil
	}

	for _, d := range ss.seen {
		if d.Desc.Name == arg {
			return d.Desc, nil
		}
	}

	return bledefs.DeviceDesc{}, util.FmtNewtError(
		"unknown device %s; scan first or give an address", arg)
}

// Picks the connected device a command applies to.  A leading address
// argument selects it; otherwise the only connected device is used.
func (ss *shellState) target(args []string) (bledefs.BleAddr,
	*model.DeviceState, []string, error) {

	ss.mtx.Lock()
	defer ss.mtx.Unlock()

	if len(args) > 0 {
		if addr, err := bledefs.ParseBleAddr(args[0]); err == nil {
			st := ss.states[addr]
			if st == nil {
				return addr, nil, nil, util.FmtNewtError(
					"not connected to %s", addr)
			}
			return addr, st, args[1:], nil
		}
	}

	if len(ss.states) != 1 {
		return bledefs.BleAddr{}, nil, nil, util.NewNewtError(
			"specify a connected device address")
	}
	for addr, st := range ss.states {
		return addr, st, args, nil
	}
	panic("unreachable")
}

func (ss *shellState) connected() []bledefs.BleAddr {
	ss.mtx.Lock()
	defer ss.mtx.Unlock()

	addrs := make([]bledefs.BleAddr, 0, len(ss.states))
	for addr := range ss.states {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool {
		return addrs[i].Uint64() < addrs[j].Uint64()
	})
	return addrs
}

type shellCmds struct {
	ss *shellState
	in chan<- bridge.Command
}

func (sc *shellCmds) scan(c *ishell.Context) {
	cmd := &bridge.ScanCmd{}
	if len(c.Args) > 0 {
		secs, err := cast.ToFloat64E(c.Args[0])
		if err != nil || secs <= 0 {
			c.Println("Error: invalid duration:", c.Args[0])
			return
		}
		cmd.Duration = time.Duration(secs * float64(time.Second))
	}
	sc.in <- cmd
}

func (sc *shellCmds) connect(c *ishell.Context) {
	if len(c.Args) != 1 {
		c.Println("Usage: connect <address | name>")
		return
	}

	desc, err := sc.ss.lookup(c.Args[0])
	if err != nil {
		c.Println("Error:", err)
		return
	}
	sc.in <- &bridge.ConnectCmd{Desc: desc}
}

func (sc *shellCmds) disconnect(c *ishell.Context) {
	if len(c.Args) == 1 && c.Args[0] == "all" {
		sc.in <- &bridge.DisconnectAllCmd{}
		return
	}

	addr, _, _, err := sc.ss.target(c.Args)
	if err != nil {
		c.Println("Error:", err)
		return
	}
	sc.in <- &bridge.DisconnectCmd{Addr: addr}
}

func (sc *shellCmds) soundMode(c *ishell.Context) {
	addr, st, args, err := sc.ss.target(c.Args)
	if err != nil {
		c.Println("Error:", err)
		return
	}
	if len(args) == 0 {
		c.Println(st.SoundModes.String())
		return
	}

	sm, err := parseSoundModeArgs(st.SoundModes, st.Features.SoundModes, args)
	if err != nil {
		c.Println("Error:", err)
		return
	}
	sc.in <- &bridge.SetSoundModeCmd{Addr: addr, SoundModes: sm}
}

func (sc *shellCmds) eq(c *ishell.Context) {
	addr, st, args, err := sc.ss.target(c.Args)
	if err != nil {
		c.Println("Error:", err)
		return
	}
	if len(args) == 0 {
		c.Println(st.Equalizer.String())
		return
	}

	es, err := parseEqArgs(args)
	if err != nil {
		c.Println("Error:", err)
		return
	}
	sc.in <- &bridge.SetEqualizerCmd{Addr: addr, Setting: es}
}

func (sc *shellCmds) state(c *ishell.Context) {
	_, st, _, err := sc.ss.target(c.Args)
	if err != nil {
		c.Println("Error:", err)
		return
	}

	var b strings.Builder
	if err := printState(&b, st); err != nil {
		c.Println("Error:", err)
		return
	}
	c.Print(b.String())
}

func (sc *shellCmds) list(c *ishell.Context) {
	addrs := sc.ss.connected()
	if len(addrs) == 0 {
		c.Println("No connected devices")
		return
	}
	for _, addr := range addrs {
		c.Println(addr.String())
	}
}

func startInteractive(cmd *cobra.Command, args []string) {
	m, err := GetMgr()
	if err != nil {
		scFail(err)
	}

	ss := newShellState()
	in := make(chan bridge.Command)
	out := make(chan bridge.Response, bridge.EVENT_DEPTH)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// by default, new shell includes 'exit', 'help' and 'clear' commands.
	shell := ishell.New()
	shell.SetPrompt("> ")

	doneCh := make(chan struct{})
	go func() {
		defer close(doneCh)
		bridge.New(m).Run(ctx, in, out)
	}()

	go func() {
		for rsp := range out {
			if s := ss.apply(rsp); s != "" {
				shell.Println(s)
			}
		}
	}()

	shell.Println()
	shell.Println(" " + scutil.ToolInfo.LongName + " shell mode")
	shell.Println()

	sc := &shellCmds{ss: ss, in: in}

	shell.AddCmd(&ishell.Cmd{
		Name: "scan",
		Help: "Scan for devices: scan [seconds]",
		Func: sc.scan,
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "connect",
		Help: "Connect to a device: connect <address | name>",
		Func: sc.connect,
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "disconnect",
		Help: "Disconnect from a device: disconnect [address | all]",
		Func: sc.disconnect,
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "soundmode",
		Help: "Show or set sound modes: soundmode [address] [mode] [name=value ...]",
		Func: sc.soundMode,
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "eq",
		Help: "Show or set the equalizer: eq [address] [preset | custom <band> ...]",
		Func: sc.eq,
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "state",
		Help: "Show a device's state: state [address]",
		Func: sc.state,
	})

	shell.AddCmd(&ishell.Cmd{
		Name: "devices",
		Help: "List connected devices",
		Func: sc.list,
	})

	shell.Run()
	shell.Close()

	close(in)
	<-doneCh
}

func interactiveCmd() *cobra.Command {
	shellCmd := &cobra.Command{
		Use:   "interactive",
		Short: "Run " + scutil.ToolInfo.ShortName + " interactive mode",
		Run:   startInteractive,
	}

	return shellCmd
}
