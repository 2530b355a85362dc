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
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"gopkg.in/cheggaaa/pb.v1"

	"mynewt.apache.org/newt/util"

	"github.com/soundcore-tools/scmgr/scmgr/scutil"
	"github.com/soundcore-tools/scmgr/scxact/devmgr"
)

const SCAN_TICK = 100 * time.Millisecond

// Scans while a progress bar tracks the elapsed time.
func scanWithProgress(m *devmgr.Mgr,
	dur time.Duration) ([]devmgr.DiscoveredDevice, error) {

	if jsonOutput() {
		return m.Scan(context.Background(), dur)
	}

	bar := pb.New(int(dur / SCAN_TICK))
	bar.ShowCounters = false
	bar.Start()

	stopCh := make(chan struct{})
	go func() {
		t := time.NewTicker(SCAN_TICK)
		defer t.Stop()

		for {
			select {
			case <-t.C:
				bar.Increment()
			case <-stopCh:
				return
			}
		}
	}()

	devs, err := m.Scan(context.Background(), dur)
	close(stopCh)
	bar.Finish()

	return devs, err
}

func scanRunCmd(cmd *cobra.Command, args []string) {
	dur := globalSettings.ScanDuration
	if len(args) > 0 {
		secs, err := cast.ToFloat64E(args[0])
		if err != nil || secs <= 0 {
			scUsage(cmd, util.FmtNewtError("invalid duration: %s", args[0]))
		}
		dur = time.Duration(secs * float64(time.Second))
	}

	m, err := GetMgr()
	if err != nil {
		scFail(err)
	}

	devs, err := scanWithProgress(m, dur)
	if err != nil {
		scFail(util.ChildNewtError(err))
	}

	if err := printScan(os.Stdout, devs); err != nil {
		scFail(err)
	}
}

func stateRunCmd(cmd *cobra.Command, args []string) {
	s, err := GetSesn()
	if err != nil {
		scFail(err)
	}

	if err := printState(os.Stdout, s.LatestState()); err != nil {
		scFail(err)
	}
}

func soundModeRunCmd(cmd *cobra.Command, args []string) {
	s, err := GetSesn()
	if err != nil {
		scFail(err)
	}

	st := s.LatestState()
	if len(args) == 0 {
		fmt.Printf("%s\n", st.SoundModes)
		return
	}

	sm, err := parseSoundModeArgs(st.SoundModes, st.Features.SoundModes, args)
	if err != nil {
		scUsage(cmd, err)
	}

	ctx, cancel := cmdContext()
	defer cancel()

	if err := s.SetSoundMode(ctx, sm); err != nil {
		scFail(util.ChildNewtError(err))
	}

	fmt.Printf("%s\n", s.LatestState().SoundModes)
}

func eqRunCmd(cmd *cobra.Command, args []string) {
	s, err := GetSesn()
	if err != nil {
		scFail(err)
	}

	if len(args) == 0 {
		fmt.Printf("%s\n", s.LatestState().Equalizer)
		return
	}

	es, err := parseEqArgs(args)
	if err != nil {
		scUsage(cmd, err)
	}

	ctx, cancel := cmdContext()
	defer cancel()

	if err := s.SetEqualizer(ctx, es.Config()); err != nil {
		scFail(util.ChildNewtError(err))
	}

	fmt.Printf("%s\n", s.LatestState().Equalizer)
}

func watchRunCmd(cmd *cobra.Command, args []string) {
	s, err := GetSesn()
	if err != nil {
		scFail(err)
	}

	sub := s.Subscribe()
	defer sub.Close()

	for {
		select {
		case st, ok := <-sub.C():
			if !ok {
				fmt.Printf("Session with %s ended\n", s.Addr())
				return
			}
			if !jsonOutput() {
				fmt.Printf("--- %s\n", time.Now().Format(time.RFC3339))
			}
			if err := printState(os.Stdout, st); err != nil {
				scFail(err)
			}

		case <-s.Done():
			fmt.Printf("Session with %s ended\n", s.Addr())
			return
		}
	}
}

func refreshRunCmd(cmd *cobra.Command, args []string) {
	s, err := GetSesn()
	if err != nil {
		scFail(err)
	}

	sub := s.Subscribe()
	defer sub.Close()

	// Discard the current state; only a change counts as a response.
	<-sub.C()

	ctx, cancel := cmdContext()
	defer cancel()

	if err := s.Refresh(ctx); err != nil {
		scFail(util.ChildNewtError(err))
	}

	select {
	case st, ok := <-sub.C():
		if ok {
			printState(os.Stdout, st)
			return
		}
	case <-ctx.Done():
		if scutil.ErrorCausedBy(ctx.Err(), context.DeadlineExceeded) {
			fmt.Fprintf(os.Stderr, "No change reported before timeout\n")
		}
	}

	printState(os.Stdout, s.LatestState())
}

func scanCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "scan [seconds]",
		Short:   "Scan for Soundcore devices",
		Example: "  " + scutil.ToolInfo.ExeName + " scan 10",
		Run:     scanRunCmd,
	}
}

func stateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Show a device's state",
		Run:   stateRunCmd,
	}
}

func soundModeCmd() *cobra.Command {
	help := "Show or change the sound modes.  Arguments:\n"
	help += "  anc | transparency | normal    mode to switch to\n"
	help += "  anc=<mode>                     ANC mode\n"
	help += "  trans=<mode>                   transparency mode\n"
	help += "  custom_anc=<0-10>              custom ANC level\n"
	help += "  custom_trans=<0-10>            custom transparency level\n"

	return &cobra.Command{
		Use:     "soundmode [mode] [name=value ...]",
		Short:   "Show or change the sound modes",
		Long:    help,
		Example: "  " + scutil.ToolInfo.ExeName + " soundmode anc anc=indoor",
		Run:     soundModeRunCmd,
	}
}

func eqCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eq [preset | custom <band> ...]",
		Short: "Show or change the equalizer",
		Long: "Show or change the equalizer.  Custom band values are in " +
			"tenths of a dB,\nfrom -120 to 120.\n",
		Example: "  " + scutil.ToolInfo.ExeName + " eq treble_booster\n" +
			"  " + scutil.ToolInfo.ExeName + " eq custom 30 20 10 0 0 0 0 0",
		Run: eqRunCmd,
	}
}

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print a device's state every time it changes",
		Run:   watchRunCmd,
	}
}

func refreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Ask a device to resend its state",
		Run:   refreshRunCmd,
	}
}
