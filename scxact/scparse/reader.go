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

// Package scparse decodes the payloads of device packets.  Parsers consume
// bytes from a Reader and return typed values; a failed parse leaves the
// reader at the offending offset and reports it in a ParseError.
package scparse

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"
)

type ParseError struct {
	Ctx    string
	Off    int
	Reason string
}

func (e *ParseError) Error() string {
	if e.Ctx == "" {
		return fmt.Sprintf("offset %d: %s", e.Off, e.Reason)
	}
	return fmt.Sprintf("%s: offset %d: %s", e.Ctx, e.Off, e.Reason)
}

func IsParseError(err error) bool {
	_, ok := err.(*ParseError)
	return ok
}

// A cursor over a payload.  Bytes taken from the tail shrink the readable
// window; they are never handed out twice.
type Reader struct {
	b   []byte
	off int
	end int
	ctx string
}

func NewReader(b []byte) *Reader {
	return &Reader{
		b:   b,
		end: len(b),
	}
}

// Sets the context label reported by subsequent errors.
func (r *Reader) SetCtx(ctx string) {
	r.ctx = ctx
}

func (r *Reader) Errorf(format string, args ...interface{}) *ParseError {
	return &ParseError{
		Ctx:    r.ctx,
		Off:    r.off,
		Reason: fmt.Sprintf(format, args...),
	}
}

func (r *Reader) Offset() int {
	return r.off
}

func (r *Reader) Remaining() int {
	return r.end - r.off
}

func (r *Reader) Take(n int) ([]byte, error) {
	if n < 0 || r.Remaining() < n {
		return nil, r.Errorf("need %d bytes, have %d", n, r.Remaining())
	}

	b := r.b[r.off : r.off+n]
	r.off += n
	return b, nil
}

// Consumes n bytes without interpreting them.
func (r *Reader) Skip(n int) error {
	_, err := r.Take(n)
	return err
}

func (r *Reader) U8() (uint8, error) {
	b, err := r.Take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) U16() (uint16, error) {
	b, err := r.Take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *Reader) U32() (uint32, error) {
	b, err := r.Take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *Reader) I32() (int32, error) {
	u, err := r.U32()
	return int32(u), err
}

// Reads a strict boolean: 01 is true, 00 is false, anything else fails.
func (r *Reader) Bool() (bool, error) {
	off := r.off
	b, err := r.U8()
	if err != nil {
		return false, err
	}

	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		r.off = off
		return false, r.Errorf("invalid bool: 0x%02x", b)
	}
}

// Reads a fixed length UTF-8 string.
func (r *Reader) String(n int) (string, error) {
	off := r.off
	b, err := r.Take(n)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		r.off = off
		return "", r.Errorf("invalid utf-8 string")
	}
	return string(b), nil
}

// Fails unless every byte has been consumed.
func (r *Reader) AllConsumed() error {
	if r.Remaining() != 0 {
		return r.Errorf("%d trailing bytes", r.Remaining())
	}
	return nil
}
