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

// Package sesn implements the per-device session: the initial handshake,
// packet ingestion and command emission.
package sesn

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/soundcore-tools/scmgr/scxact/bledefs"
	. "github.com/soundcore-tools/scmgr/scxact/model"
	"github.com/soundcore-tools/scmgr/scxact/product"
	"github.com/soundcore-tools/scmgr/scxact/scp"
	"github.com/soundcore-tools/scmgr/scxact/scxutil"
	"github.com/soundcore-tools/scmgr/scxact/task"
	"github.com/soundcore-tools/scmgr/scxact/xport"
)

// Everything a session owns.  The ingestion goroutine and queued commands
// reference only the core, so the Sesn handle can be collected while they
// run.
type sesnCore struct {
	desc    bledefs.DeviceDesc
	conn    xport.Conn
	code    product.Code
	bldr    *scp.CmdBuilder
	watch   *stateWatch
	queue   *task.TaskQueue
	cfg     SesnCfg
	stopCh  chan struct{}
	doneCh  chan struct{}
	closeMu sync.Mutex
	closed  bool
}

// A live session with one device.  When the last reference to a Sesn is
// dropped the session closes itself.
type Sesn struct {
	core *sesnCore
}

// Performs the handshake over an established connection and starts
// ingesting packets.  On failure the connection is closed.
func Open(ctx context.Context, conn xport.Conn, cfg SesnCfg) (*Sesn, error) {
	ch := conn.Notifications()
	desc := conn.Desc()

	ts, err := handshake(ctx, conn, ch, cfg)
	if err != nil {
		conn.Close()
		return nil, err
	}

	log.Debugf("session with %s: product %s (%s)",
		desc, ts.Tag, ts.Tag.Name())

	c := &sesnCore{
		desc:   desc,
		conn:   conn,
		code:   ts.Tag,
		bldr:   scp.NewCmdBuilder(ts.Tag),
		watch:  newStateWatch(ts.State),
		queue:  task.NewTaskQueue("sesn " + desc.Addr.String()),
		cfg:    cfg,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}

	if err := c.queue.Start(cfg.CmdQueueDepth); err != nil {
		conn.Close()
		return nil, err
	}

	go c.ingest(ch)

	s := &Sesn{core: c}
	runtime.AddCleanup(s, func(c *sesnCore) {
		log.Debugf("session with %s released", c.desc.Addr)
		c.close(nil)
	}, c)

	return s, nil
}

func (c *sesnCore) ingest(ch <-chan []byte) {
	for {
		select {
		case <-c.stopCh:
			return

		case b, ok := <-ch:
			if !ok {
				c.close(scxutil.FmtXportError(
					"connection to %s lost", c.desc.Addr))
				return
			}
			c.ingestOne(b)
		}
	}
}

func (c *sesnCore) ingestOne(b []byte) {
	if len(b) == 0 {
		return
	}

	pkt, err := scp.Decode(b)
	if err != nil {
		if scp.IsUnknownKind(err) {
			log.Debugf("%s: %s", c.desc.Addr, err.Error())
		} else {
			log.Warnf("%s: dropping frame: %s", c.desc.Addr, err.Error())
		}
		scxutil.LogFrame("rx", b)
		return
	}

	if c.watch.Modify(func(prev *DeviceState) *DeviceState {
		return Transform(pkt, prev)
	}) {
		log.Debugf("%s: state changed by %s", c.desc.Addr, pkt.Kind())
	}
}

func (c *sesnCore) isOpen() bool {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()

	return !c.closed
}

func (c *sesnCore) close(cause error) error {
	c.closeMu.Lock()
	if c.closed {
		c.closeMu.Unlock()
		return scxutil.NewSesnClosedError(
			"attempt to close an already closed session")
	}
	c.closed = true
	c.closeMu.Unlock()

	close(c.stopCh)

	stopCause := cause
	if stopCause == nil {
		stopCause = scxutil.NewSesnClosedError("session closed")
	}
	c.queue.Stop(stopCause)

	err := c.conn.Close()
	c.watch.Close()
	close(c.doneCh)

	if c.cfg.OnCloseCb != nil {
		c.cfg.OnCloseCb(c.desc.Addr, cause)
	}

	return err
}

func (c *sesnCore) write(p scp.CmdPacket) error {
	b := scp.Encode(p)
	scxutil.LogFrame("tx", b)

	if err := c.conn.Write(b, c.cfg.WriteType); err != nil {
		return errors.Wrapf(err, "write to %s failed", c.desc.Addr)
	}
	return nil
}

// Runs fn on the command queue.
func (c *sesnCore) run(ctx context.Context, fn func() error) error {
	if !c.isOpen() {
		return scxutil.NewSesnClosedError("session closed")
	}
	return c.queue.Run(ctx, fn)
}

func (s *Sesn) Desc() bledefs.DeviceDesc {
	return s.core.desc
}

func (s *Sesn) Addr() bledefs.BleAddr {
	return s.core.desc.Addr
}

func (s *Sesn) Product() product.Code {
	return s.core.code
}

func (s *Sesn) IsOpen() bool {
	return s.core.isOpen()
}

// Closed when the session has terminated.
func (s *Sesn) Done() <-chan struct{} {
	return s.core.doneCh
}

func (s *Sesn) Close() error {
	return s.core.close(nil)
}

func (s *Sesn) LatestState() *DeviceState {
	return s.core.watch.Get()
}

// Returns a subscription whose channel yields the current state first and
// then every change.
func (s *Sesn) Subscribe() *StateSub {
	return s.core.watch.Subscribe()
}

// Asks the device to resend its full state.
func (s *Sesn) Refresh(ctx context.Context) error {
	c := s.core
	return c.run(ctx, func() error {
		return c.write(c.bldr.RequestState())
	})
}

func checkSoundModes(f *DeviceFeatures, sm SoundModes) error {
	smf := f.SoundModes
	if smf == nil {
		return scxutil.NewFeatureNotSupportedError("sound modes")
	}

	if sm.AncMode == nil || !smf.AllowsAnc(sm.AncMode) {
		return scxutil.NewFeatureNotSupportedError(
			"anc mode " + stringOrNil(sm.AncMode))
	}
	if sm.TransMode == nil || !smf.AllowsTrans(sm.TransMode) {
		return scxutil.NewFeatureNotSupportedError(
			"transparency mode " + stringOrNil(sm.TransMode))
	}
	if sm.Current == SOUND_MODE_NORMAL && !smf.HasNormal {
		return scxutil.NewFeatureNotSupportedError("normal sound mode")
	}
	if sm.CustomTrans != nil && !sm.TransMode.IsCustomizable() {
		return scxutil.NewFeatureNotSupportedError("custom transparency")
	}

	// The six byte form packs the custom ANC level into a nibble and has no
	// unset value.
	if !sm.IsBasicForm() && sm.CustomAnc > CUSTOM_NOISE_MAX {
		return scxutil.NewFeatureNotSupportedError(
			fmt.Sprintf("custom anc level %d", sm.CustomAnc))
	}

	return nil
}

func stringOrNil(v interface{ String() string }) string {
	if v == nil {
		return "<nil>"
	}
	return v.String()
}

// Sends a sound mode change and applies it locally without waiting for the
// device to confirm.  Does nothing if the modes are already in effect.
func (s *Sesn) SetSoundMode(ctx context.Context, sm SoundModes) error {
	c := s.core

	return c.run(ctx, func() error {
		cur := c.watch.Get()
		if cur.SoundModes.Equal(sm) {
			return nil
		}

		if err := checkSoundModes(&cur.Features, sm); err != nil {
			return err
		}

		if err := c.write(c.bldr.SetSoundMode(sm)); err != nil {
			return err
		}

		c.watch.Modify(func(prev *DeviceState) *DeviceState {
			next := *prev
			next.SoundModes = sm
			return &next
		})
		return nil
	})
}

// Fits a requested EQ to the device: presets get their canonical bands,
// custom band sets are resized, and the channel layout follows the device.
func normalizeEq(ef *EqualizerFeatures,
	eq EqualizerConfiguration) EqualizerConfiguration {

	if !eq.Profile.IsCustom() {
		return NewPresetEq(eq.Profile, ef.Bands, ef.Channels)
	}

	left := eq.Left.Resize(ef.Bands)
	if ef.Channels > 1 {
		return NewStereoEq(eq.Profile, left,
			eq.RightOrLeft().Resize(ef.Bands))
	}
	return NewMonoEq(eq.Profile, left)
}

func (c *sesnCore) setEq(eq EqualizerConfiguration) error {
	cur := c.watch.Get()

	ef := cur.Features.Equalizer
	if ef == nil {
		return scxutil.NewFeatureNotSupportedError("equalizer")
	}
	if !eq.Profile.IsKnown() {
		return errors.Errorf("unknown eq profile: %s", eq.Profile)
	}

	eq = normalizeEq(ef, eq)
	if cur.Equalizer.Equal(eq) {
		return nil
	}

	from := cur.Equalizer.Profile
	to := eq.Profile

	// Bass up is the device's own rendition of the bass booster preset.
	if ef.HasBassUp &&
		from == EQ_PROFILE_SOUNDCORE_SIGNATURE &&
		to == EQ_PROFILE_BASS_BOOSTER {

		cmd, err := c.bldr.SetBassUp(true)
		if err != nil {
			return err
		}
		if err := c.write(cmd); err != nil {
			return err
		}

		c.watch.Modify(func(prev *DeviceState) *DeviceState {
			next := *prev
			next.BassUp = BoolPtr(true)
			next.Equalizer = eq
			return &next
		})
		return nil
	}

	if ef.HasBassUp &&
		from == EQ_PROFILE_BASS_BOOSTER &&
		to == EQ_PROFILE_SOUNDCORE_SIGNATURE {

		cmd, err := c.bldr.SetBassUp(false)
		if err != nil {
			return err
		}
		if err := c.write(cmd); err != nil {
			return err
		}

		c.watch.Modify(func(prev *DeviceState) *DeviceState {
			next := *prev
			next.BassUp = BoolPtr(false)
			return &next
		})
	}

	if err := c.write(c.bldr.SetEq(cur, eq)); err != nil {
		return err
	}

	c.watch.Modify(func(prev *DeviceState) *DeviceState {
		next := *prev
		next.Equalizer = eq
		return &next
	})
	return nil
}

// Sends an EQ change and applies it locally.  The device acknowledges EQ
// changes but the acknowledgement is not awaited, and a lost change is not
// retried.
func (s *Sesn) SetEqualizer(ctx context.Context,
	eq EqualizerConfiguration) error {

	c := s.core
	return c.run(ctx, func() error {
		return c.setEq(eq)
	})
}
