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


package sctest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/soundcore-tools/scmgr/scxact/bledefs"
	"github.com/soundcore-tools/scmgr/scxact/scp"
	"github.com/soundcore-tools/scmgr/scxact/xport"
)

// Decides what a fake device sends back after a write.  n counts the state
// requests received so far, starting at 1 for the first.
type Responder func(cmd scp.CmdPacket, n int) [][]byte

// Answers the nth state request with script[n-1].  Requests beyond the
// script go unanswered; other commands are never answered.
func ScriptedResponder(script ...[][]byte) Responder {
	return func(cmd scp.CmdPacket, n int) [][]byte {
		if _, ok := cmd.(*scp.RequestStateCmd); !ok {
			return nil
		}
		if n > len(script) {
			return nil
		}
		return script[n-1]
	}
}

// Answers every state request with the same payload.
func StateResponder(payload []byte) Responder {
	return func(cmd scp.CmdPacket, n int) [][]byte {
		if _, ok := cmd.(*scp.RequestStateCmd); !ok {
			return nil
		}
		return [][]byte{StateFrame(payload)}
	}
}

type Conn struct {
	desc      bledefs.DeviceDesc
	responder Responder
	notifyCh  chan []byte

	mtx      sync.Mutex
	writes   [][]byte
	requests int
	closed   bool
}

func NewConn(desc bledefs.DeviceDesc, responder Responder) *Conn {
	return &Conn{
		desc:      desc,
		responder: responder,
		notifyCh:  make(chan []byte, xport.NOTIFY_CHAN_DEPTH),
	}
}

func (c *Conn) Desc() bledefs.DeviceDesc {
	return c.desc
}

func (c *Conn) Notifications() <-chan []byte {
	return c.notifyCh
}

func (c *Conn) Write(b []byte, wt xport.WriteType) error {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.closed {
		return fmt.Errorf("write to closed connection")
	}

	c.writes = append(c.writes, append([]byte(nil), b...))

	cmd, err := scp.DecodeCmd(b)
	if err != nil {
		return err
	}
	if _, ok := cmd.(*scp.RequestStateCmd); ok {
		c.requests++
	}

	if c.responder != nil {
		for _, f := range c.responder(cmd, c.requests) {
			c.notifyCh <- f
		}
	}
	return nil
}

// Delivers a frame as if the device had sent it.
func (c *Conn) Notify(b []byte) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if !c.closed {
		c.notifyCh <- b
	}
}

func (c *Conn) Close() error {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if c.closed {
		return fmt.Errorf("connection already closed")
	}
	c.closed = true
	close(c.notifyCh)
	return nil
}

// Simulates the link dropping.
func (c *Conn) Drop() {
	c.Close()
}

func (c *Conn) IsClosed() bool {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	return c.closed
}

// Returns copies of every frame written so far.
func (c *Conn) Writes() [][]byte {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	return append([][]byte(nil), c.writes...)
}

// Decodes every written frame.
func (c *Conn) Cmds() []scp.CmdPacket {
	var cmds []scp.CmdPacket
	for _, b := range c.Writes() {
		cmd, err := scp.DecodeCmd(b)
		if err != nil {
			panic(err)
		}
		cmds = append(cmds, cmd)
	}
	return cmds
}

func (c *Conn) NumRequests() int {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	return c.requests
}

type scanner struct {
	x *Xport
}

func (s *scanner) Scan(ctx context.Context,
	dur time.Duration) ([]bledefs.DeviceDesc, error) {

	s.x.mtx.Lock()
	defer s.x.mtx.Unlock()

	return append([]bledefs.DeviceDesc(nil), s.x.sightings...), nil
}

// An in-memory transport.  Every connection gets a fresh Conn driven by
// the responder registered for its address.
type Xport struct {
	mtx        sync.Mutex
	responders map[bledefs.BleAddr]Responder
	sightings  []bledefs.DeviceDesc
	conns      []*Conn
	connDelay  time.Duration
	evtCh      chan xport.AdapterEvent
	started    bool
}

func NewXport() *Xport {
	return &Xport{
		responders: map[bledefs.BleAddr]Responder{},
		evtCh:      make(chan xport.AdapterEvent, 16),
	}
}

func (x *Xport) SetResponder(addr bledefs.BleAddr, r Responder) {
	x.mtx.Lock()
	defer x.mtx.Unlock()

	x.responders[addr] = r
}

// Adds descs to the results of subsequent scans.
func (x *Xport) AddSightings(descs ...bledefs.DeviceDesc) {
	x.mtx.Lock()
	defer x.mtx.Unlock()

	x.sightings = append(x.sightings, descs...)
}

// Delays every connect; widens the window for racing connects.
func (x *Xport) SetConnDelay(d time.Duration) {
	x.mtx.Lock()
	defer x.mtx.Unlock()

	x.connDelay = d
}

func (x *Xport) Start() error {
	x.mtx.Lock()
	defer x.mtx.Unlock()

	x.started = true
	return nil
}

func (x *Xport) Stop() error {
	x.mtx.Lock()
	defer x.mtx.Unlock()

	if x.started {
		x.started = false
		close(x.evtCh)
	}
	return nil
}

func (x *Xport) BuildScanner() (xport.Scanner, error) {
	return &scanner{x: x}, nil
}

func (x *Xport) Connect(ctx context.Context, desc bledefs.DeviceDesc,
	uuids *bledefs.UuidSet) (xport.Conn, error) {

	x.mtx.Lock()
	r, ok := x.responders[desc.Addr]
	delay := x.connDelay
	x.mtx.Unlock()

	if !ok {
		return nil, fmt.Errorf("no device at %s", desc.Addr)
	}

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	c := NewConn(desc, r)

	x.mtx.Lock()
	x.conns = append(x.conns, c)
	x.mtx.Unlock()

	return c, nil
}

func (x *Xport) AdapterEvents() <-chan xport.AdapterEvent {
	return x.evtCh
}

// Injects an adapter event.
func (x *Xport) Emit(evt xport.AdapterEvent) {
	x.evtCh <- evt
}

func (x *Xport) Conns() []*Conn {
	x.mtx.Lock()
	defer x.mtx.Unlock()

	return append([]*Conn(nil), x.conns...)
}

func (x *Xport) NumConnects() int {
	return len(x.Conns())
}

// Returns the address 00:00:00:00:00:n.
func Addr(n byte) bledefs.BleAddr {
	return bledefs.BleAddr{Bytes: [6]byte{0, 0, 0, 0, 0, n}}
}

// Fast handshake timings for tests that do not exercise retries.
const FAST_TIMEOUT = 200 * time.Millisecond
