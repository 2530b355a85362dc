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

package sesn

import (
	"time"

	"github.com/soundcore-tools/scmgr/scxact/bledefs"
	"github.com/soundcore-tools/scmgr/scxact/xport"
)

type OnCloseFn func(addr bledefs.BleAddr, err error)

type HandshakeCfg struct {
	Tries   int
	Timeout time.Duration
	Backoff time.Duration
}

// Worst case duration of a failed handshake.
func (hc HandshakeCfg) MaxDuration() time.Duration {
	return time.Duration(hc.Tries) * (hc.Timeout + hc.Backoff)
}

type SesnCfg struct {
	Handshake HandshakeCfg

	// Write type of commands.  Devices accept both; without response is
	// what the vendor app uses.
	WriteType xport.WriteType

	CmdQueueDepth int

	// Called once when the session terminates, with the cause.  A nil
	// cause means the session was closed locally.
	OnCloseCb OnCloseFn
}

func NewSesnCfg() SesnCfg {
	return SesnCfg{
		Handshake: HandshakeCfg{
			Tries:   3,
			Timeout: 1000 * time.Millisecond,
			Backoff: 500 * time.Millisecond,
		},
		WriteType:     xport.WRITE_TYPE_WITHOUT_RSP,
		CmdQueueDepth: 16,
	}
}
