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

// Package bridge runs a single command loop in front of a device manager.
// Front ends send commands and read responses and state changes from one
// output channel.
package bridge

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/soundcore-tools/scmgr/scxact/bledefs"
	"github.com/soundcore-tools/scmgr/scxact/devmgr"
	"github.com/soundcore-tools/scmgr/scxact/model"
	"github.com/soundcore-tools/scmgr/scxact/sesn"
	"github.com/soundcore-tools/scmgr/scxact/xport"
)

// The manager operations the bridge uses.
type Manager interface {
	Scan(ctx context.Context, dur time.Duration) ([]devmgr.DiscoveredDevice,
		error)
	Connect(ctx context.Context, desc bledefs.DeviceDesc) (*sesn.Sesn, error)
	Disconnect(addr bledefs.BleAddr) error
	DisconnectAll()
	Session(addr bledefs.BleAddr) (*sesn.Sesn, error)
	Events(depth int) <-chan interface{}
	StopEvents(ch <-chan interface{})
}

const EVENT_DEPTH = 16

type Bridge struct {
	mgr Manager

	// Guards out against sends after it has been closed.  Senders hold the
	// read lock.
	outMtx    sync.RWMutex
	out       chan<- Response
	outClosed bool

	fwdMtx sync.Mutex
	fwds   map[bledefs.BleAddr]*forwarder
	wg     sync.WaitGroup
	stopCh chan struct{}
}

// Copies state changes of one session to the output channel.  It holds a
// strong reference to the session, which therefore stays alive until it is
// disconnected.
type forwarder struct {
	sesn *sesn.Sesn
	sub  *sesn.StateSub
}

func New(mgr Manager) *Bridge {
	return &Bridge{
		mgr:  mgr,
		fwds: map[bledefs.BleAddr]*forwarder{},
	}
}

// Processes commands until in is closed or ctx is done, then closes out.
// Command failures are reported as responses; Run itself only returns the
// reason it stopped.
func (b *Bridge) Run(ctx context.Context, in <-chan Command,
	out chan<- Response) error {

	b.out = out
	b.stopCh = make(chan struct{})

	evtCh := b.mgr.Events(EVENT_DEPTH)
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.forwardEvents(evtCh)
	}()

	err := b.loop(ctx, in)

	b.mgr.StopEvents(evtCh)
	close(b.stopCh)
	b.stopForwarders()
	b.wg.Wait()

	b.outMtx.Lock()
	b.outClosed = true
	close(b.out)
	b.outMtx.Unlock()

	return err
}

func (b *Bridge) loop(ctx context.Context, in <-chan Command) error {
	for {
		select {
		case cmd, ok := <-in:
			if !ok {
				return nil
			}

			log.Debugf("bridge: handling %s", cmd.CmdName())
			rsp, after := b.handle(ctx, cmd)
			if !b.send(ctx, rsp) {
				return ctx.Err()
			}
			if after != nil {
				after()
			}

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Blocking send.  Returns false if ctx ends first.
func (b *Bridge) send(ctx context.Context, rsp Response) bool {
	b.outMtx.RLock()
	defer b.outMtx.RUnlock()

	if b.outClosed {
		return false
	}

	select {
	case b.out <- rsp:
		return true
	case <-ctx.Done():
		return false
	}
}

// Non-blocking send for unsolicited events; a full output channel drops the
// event.  Front ends resynchronise from the latest state.
func (b *Bridge) trySend(rsp Response) {
	b.outMtx.RLock()
	defer b.outMtx.RUnlock()

	if b.outClosed {
		return
	}

	select {
	case b.out <- rsp:
	default:
		log.Debugf("bridge: output full; dropping %s", rsp.RspName())
	}
}

func (b *Bridge) forwardEvents(ch <-chan interface{}) {
	for {
		select {
		case v, ok := <-ch:
			if !ok {
				return
			}
			if evt, ok := v.(xport.AdapterEvent); ok {
				b.trySend(&AdapterEventRsp{Event: evt})
			}

		case <-b.stopCh:
			return
		}
	}
}

func errRsp(err error) Response {
	return &GenericErrorRsp{Message: err.Error()}
}

// Returns the response to a command, and optionally work to do once the
// response has been sent.
func (b *Bridge) handle(ctx context.Context, cmd Command) (Response, func()) {
	switch c := cmd.(type) {
	case *ScanCmd:
		devs, err := b.mgr.Scan(ctx, c.Duration)
		if err != nil {
			return errRsp(err), nil
		}
		return &ScanResultRsp{Devices: devs}, nil

	case *ConnectCmd:
		return b.connect(ctx, c.Desc)

	case *DisconnectCmd:
		if err := b.mgr.Disconnect(c.Addr); err != nil {
			return errRsp(err), nil
		}
		return &DisconnectedRsp{Addr: c.Addr}, nil

	case *DisconnectAllCmd:
		b.mgr.DisconnectAll()
		return &DisconnectedAllRsp{}, nil

	case *SetSoundModeCmd:
		s, err := b.mgr.Session(c.Addr)
		if err != nil {
			return errRsp(err), nil
		}
		if err := s.SetSoundMode(ctx, c.SoundModes); err != nil {
			return errRsp(err), nil
		}
		return &NewStateRsp{Addr: c.Addr, State: s.LatestState()}, nil

	case *SetEqualizerCmd:
		s, err := b.mgr.Session(c.Addr)
		if err != nil {
			return errRsp(err), nil
		}
		if err := s.SetEqualizer(ctx, c.Setting.Config()); err != nil {
			return errRsp(err), nil
		}
		return &NewStateRsp{Addr: c.Addr, State: s.LatestState()}, nil

	default:
		return errRsp(fmt.Errorf("unsupported command: %T", cmd)), nil
	}
}

func (es EqSetting) Config() model.EqualizerConfiguration {
	if es.Custom != nil {
		return model.NewMonoEq(model.EQ_PROFILE_CUSTOM,
			model.NewVolumeAdjustments(es.Custom))
	}
	return model.EqualizerConfiguration{Profile: es.Preset}
}

func (b *Bridge) connect(ctx context.Context,
	desc bledefs.DeviceDesc) (Response, func()) {

	s, err := b.mgr.Connect(ctx, desc)
	if err != nil {
		return &ConnectionFailedRsp{
			Addr:   desc.Addr,
			Reason: err.Error(),
		}, nil
	}

	b.fwdMtx.Lock()
	defer b.fwdMtx.Unlock()

	if f := b.fwds[desc.Addr]; f != nil && f.sesn == s {
		return &ConnectionEstablishedRsp{
			Addr:  desc.Addr,
			State: s.LatestState(),
		}, nil
	}

	// The first value of a subscription is the current state.
	sub := s.Subscribe()
	st := <-sub.C()

	f := &forwarder{sesn: s, sub: sub}
	b.fwds[desc.Addr] = f

	rsp := &ConnectionEstablishedRsp{Addr: desc.Addr, State: st}
	return rsp, func() {
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			b.forwardStates(desc.Addr, f)
		}()
	}
}

func (b *Bridge) forwardStates(addr bledefs.BleAddr, f *forwarder) {
	defer func() {
		b.fwdMtx.Lock()
		if b.fwds[addr] == f {
			delete(b.fwds, addr)
		}
		b.fwdMtx.Unlock()
	}()

	for st := range f.sub.C() {
		b.trySend(&NewStateRsp{Addr: addr, State: st})
	}

	log.Debugf("bridge: state stream of %s ended", addr)
}

// Ends every forwarder by closing its subscription.
func (b *Bridge) stopForwarders() {
	b.fwdMtx.Lock()
	fwds := make([]*forwarder, 0, len(b.fwds))
	for _, f := range b.fwds {
		fwds = append(fwds, f)
	}
	b.fwdMtx.Unlock()

	for _, f := range fwds {
		f.sub.Close()
	}
}
