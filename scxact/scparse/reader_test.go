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


package scparse

import (
	"testing"
)

func TestReaderBounds(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02, 0x03, 0x04, 0x05})
	r.SetCtx("test")

	v16, err := r.U16()
	if err != nil || v16 != 0x0201 {
		t.Fatalf("U16: got 0x%04x, %v", v16, err)
	}

	if r.Remaining() != 3 {
		t.Fatalf("want 3 bytes remaining, got %d", r.Remaining())
	}

	if _, err := r.U32(); err == nil {
		t.Fatalf("U32 past the window succeeded")
	} else if pe, ok := err.(*ParseError); !ok || pe.Off != 2 || pe.Ctx != "test" {
		t.Errorf("unexpected error: %v", err)
	}

	if err := r.AllConsumed(); err == nil {
		t.Errorf("AllConsumed with 3 bytes left succeeded")
	}
	if err := r.Skip(3); err != nil {
		t.Fatalf("Skip: %s", err.Error())
	}
	if err := r.AllConsumed(); err != nil {
		t.Errorf("AllConsumed: %s", err.Error())
	}
}

func TestReaderBool(t *testing.T) {
	r := NewReader([]byte{0x00, 0x01, 0x02})

	for _, want := range []bool{false, true} {
		v, err := r.Bool()
		if err != nil || v != want {
			t.Fatalf("want %v, got %v, %v", want, v, err)
		}
	}

	if _, err := r.Bool(); !IsParseError(err) {
		t.Fatalf("0x02 accepted as bool: %v", err)
	}
	if r.Offset() != 2 {
		t.Errorf("failed bool moved the cursor to %d", r.Offset())
	}
}

func TestReaderString(t *testing.T) {
	r := NewReader([]byte("02.61\xff\xfe"))

	s, err := r.String(5)
	if err != nil || s != "02.61" {
		t.Fatalf("got %q, %v", s, err)
	}
	if _, err := r.String(2); err == nil {
		t.Errorf("invalid utf-8 accepted")
	}
}
