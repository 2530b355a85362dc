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

package scp

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Low byte of the sum of all bytes.
func Checksum(b []byte) uint8 {
	var sum uint8
	for _, v := range b {
		sum += v
	}
	return sum
}

// A validated frame.  Payload aliases the decoded buffer.
type Frame struct {
	Outbound bool
	Tag      uint16
	Kind     PktKind
	Payload  []byte
}

// Lays out cmd, the little-endian total length, the payload and the
// checksum.
func EncodeFrame(cmd [SCP_CMD_LEN]byte, payload []byte) []byte {
	total := SCP_HDR_LEN + len(payload) + 1

	b := make([]byte, 0, total)
	b = append(b, cmd[:]...)
	b = binary.LittleEndian.AppendUint16(b, uint16(total))
	b = append(b, payload...)
	b = append(b, Checksum(b))

	return b
}

// Validates the length, checksum and prefix of a frame and splits it into
// tag and payload.  Unrecognized tags yield PKT_KIND_UNKNOWN.
func DecodeFrame(b []byte) (*Frame, error) {
	if len(b) < SCP_MIN_FRAME_LEN {
		return nil, &TooShortError{Len: len(b)}
	}

	field := int(binary.LittleEndian.Uint16(b[7:9]))
	if field != len(b) {
		return nil, &InvalidLengthError{Field: field, Got: len(b)}
	}

	last := len(b) - 1
	if sum := Checksum(b[:last]); sum != b[last] {
		return nil, &ChecksumMismatchError{Expected: sum, Got: b[last]}
	}

	f := &Frame{}
	switch {
	case bytes.Equal(b[:SCP_PREFIX_LEN], SCP_IN_PREFIX[:]):
	case bytes.Equal(b[:SCP_PREFIX_LEN], SCP_OUT_PREFIX[:]):
		f.Outbound = true
	default:
		return nil, &InvalidPrefixError{
			Prefix: append([]byte(nil), b[:SCP_PREFIX_LEN]...),
		}
	}

	f.Tag = binary.BigEndian.Uint16(b[5:7])
	f.Kind = KindFromTag(f.Tag)
	f.Payload = b[SCP_HDR_LEN:last]

	return f, nil
}

func (f *Frame) String() string {
	dir := "in"
	if f.Outbound {
		dir = "out"
	}
	return fmt.Sprintf("dir=%s tag=0x%04x kind=%s len=%d",
		dir, f.Tag, f.Kind, len(f.Payload))
}
