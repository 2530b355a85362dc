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
	"fmt"

	"github.com/pkg/errors"
)

// Protocol errors.  None of these is fatal to a session; the offending frame
// is dropped.

type ChecksumMismatchError struct {
	Expected uint8
	Got      uint8
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch: expected 0x%02x, got 0x%02x",
		e.Expected, e.Got)
}

func IsChecksumMismatch(err error) bool {
	_, ok := errors.Cause(err).(*ChecksumMismatchError)
	return ok
}

type TooShortError struct {
	Len int
}

func (e *TooShortError) Error() string {
	return fmt.Sprintf("frame too short: %d bytes", e.Len)
}

func IsTooShort(err error) bool {
	_, ok := errors.Cause(err).(*TooShortError)
	return ok
}

// The length field disagrees with the number of bytes received.
type InvalidLengthError struct {
	Field int
	Got   int
}

func (e *InvalidLengthError) Error() string {
	return fmt.Sprintf("frame length field is %d, frame has %d bytes",
		e.Field, e.Got)
}

func IsInvalidLength(err error) bool {
	_, ok := errors.Cause(err).(*InvalidLengthError)
	return ok
}

type InvalidPrefixError struct {
	Prefix []byte
}

func (e *InvalidPrefixError) Error() string {
	return fmt.Sprintf("invalid frame prefix: % x", e.Prefix)
}

func IsInvalidPrefix(err error) bool {
	_, ok := errors.Cause(err).(*InvalidPrefixError)
	return ok
}

type UnknownKindError struct {
	Tag uint16
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown packet kind: 0x%04x", e.Tag)
}

func IsUnknownKind(err error) bool {
	_, ok := errors.Cause(err).(*UnknownKindError)
	return ok
}

type PayloadParseError struct {
	Kind   PktKind
	Reason string
}

func (e *PayloadParseError) Error() string {
	return fmt.Sprintf("failed to parse %s payload: %s", e.Kind, e.Reason)
}

func IsPayloadParse(err error) bool {
	_, ok := errors.Cause(err).(*PayloadParseError)
	return ok
}

// Indicates whether the error is a protocol error, i.e., one that only
// discards the frame it was raised for.
func IsProtocolError(err error) bool {
	return IsChecksumMismatch(err) || IsTooShort(err) ||
		IsInvalidLength(err) || IsInvalidPrefix(err) ||
		IsUnknownKind(err) || IsPayloadParse(err)
}
