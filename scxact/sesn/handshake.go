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
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/soundcore-tools/scmgr/scxact/scp"
	"github.com/soundcore-tools/scmgr/scxact/scparse"
	"github.com/soundcore-tools/scmgr/scxact/scxutil"
	"github.com/soundcore-tools/scmgr/scxact/xport"
)

// Waits up to the configured timeout for a state update, discarding
// everything else that arrives meanwhile.  Returns false on timeout.
func awaitStateUpdate(ctx context.Context, ch <-chan []byte,
	timeout time.Duration) (scparse.TaggedState, bool, error) {

	timer := time.NewTimer(timeout)
	defer scxutil.StopAndDrainTimer(timer)

	for {
		select {
		case b, ok := <-ch:
			if !ok {
				return scparse.TaggedState{}, false,
					scxutil.NewXportError("connection closed during handshake")
			}
			if len(b) == 0 {
				continue
			}

			pkt, err := scp.Decode(b)
			if err != nil {
				log.Debugf("handshake: dropping frame: %s", err.Error())
				scxutil.LogFrame("handshake rx", b)
				continue
			}

			su, ok := pkt.(*scp.StateUpdatePkt)
			if !ok {
				log.Debugf("handshake: ignoring %s", pkt.Kind())
				continue
			}
			return su.TaggedState, true, nil

		case <-timer.C:
			return scparse.TaggedState{}, false, nil

		case <-ctx.Done():
			return scparse.TaggedState{}, false, ctx.Err()
		}
	}
}

// Requests the device state until a state update arrives or the tries are
// used up.  Malformed frames are dropped without ending the current try.
func handshake(ctx context.Context, conn xport.Conn, ch <-chan []byte,
	cfg SesnCfg) (scparse.TaggedState, error) {

	req := scp.Encode(&scp.RequestStateCmd{})
	hc := cfg.Handshake

	for i := 0; i < hc.Tries; i++ {
		log.Debugf("handshake with %s: try %d of %d",
			conn.Desc().Addr, i+1, hc.Tries)

		if err := conn.Write(req, cfg.WriteType); err != nil {
			return scparse.TaggedState{}, errors.Wrapf(err,
				"failed to request state from %s", conn.Desc().Addr)
		}

		ts, ok, err := awaitStateUpdate(ctx, ch, hc.Timeout)
		if err != nil {
			return scparse.TaggedState{}, err
		}
		if ok {
			return ts, nil
		}

		select {
		case <-time.After(hc.Backoff):
		case <-ctx.Done():
			return scparse.TaggedState{}, ctx.Err()
		}
	}

	return scparse.TaggedState{}, scxutil.NewMissingInitialStateError(
		conn.Desc().Addr.String())
}
