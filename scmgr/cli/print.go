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
	"encoding/hex"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"

	"github.com/fatih/structs"
	"github.com/ugorji/go/codec"

	"mynewt.apache.org/newt/util"

	"github.com/soundcore-tools/scmgr/scmgr/config"
	"github.com/soundcore-tools/scmgr/scmgr/scutil"
	"github.com/soundcore-tools/scmgr/scxact/devmgr"
	"github.com/soundcore-tools/scmgr/scxact/model"
	"github.com/soundcore-tools/scmgr/scxact/product"
)

func jsonOutput() bool {
	return scutil.JsonOutput || globalSettings.Output == config.OUTPUT_JSON
}

// Converts a struct into a map keyed by its codec tags.
func structMap(v interface{}) map[string]interface{} {
	s := structs.New(v)
	s.TagName = "codec"
	return normalize(s.Map()).(map[string]interface{})
}

// Reduces a value produced by structs.Map to maps, slices, numbers and
// strings.
func normalize(v interface{}) interface{} {
	if v == nil {
		return nil
	}

	switch t := v.(type) {
	case map[string]interface{}:
		m := make(map[string]interface{}, len(t))
		for k, e := range t {
			m[k] = normalize(e)
		}
		return m

	case []byte:
		return hex.EncodeToString(t)

	case fmt.Stringer:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Ptr && rv.IsNil() {
			return nil
		}
		return t.String()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr:
		if rv.IsNil() {
			return nil
		}
		return normalize(rv.Elem().Interface())

	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil
		}
		l := make([]interface{}, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			l[i] = normalize(rv.Index(i).Interface())
		}
		return l

	case reflect.Struct:
		return structMap(v)

	default:
		return v
	}
}

func stateMap(st *model.DeviceState) map[string]interface{} {
	return structMap(st)
}

func scanMaps(devs []devmgr.DiscoveredDevice) []interface{} {
	l := make([]interface{}, len(devs))
	for i, d := range devs {
		l[i] = map[string]interface{}{
			"address": d.Desc.Addr.String(),
			"name":    d.Desc.Name,
			"product": d.Product.String(),
			"vendor":  d.Vendor,
		}
	}
	return l
}

func writeJson(w io.Writer, v interface{}) error {
	h := new(codec.JsonHandle)
	h.Indent = 2
	h.Canonical = true

	var b []byte
	if err := codec.NewEncoderBytes(&b, h).Encode(v); err != nil {
		return util.ChildNewtError(err)
	}

	_, err := fmt.Fprintf(w, "%s\n", b)
	return err
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func scalarString(v interface{}) string {
	if l, ok := v.([]interface{}); ok {
		parts := make([]string, len(l))
		for i, e := range l {
			parts[i] = scalarString(e)
		}
		return "[" + strings.Join(parts, " ") + "]"
	}
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%v", v)
}

func writeText(w io.Writer, m map[string]interface{}, indent int) {
	pad := strings.Repeat("    ", indent)

	for _, k := range sortedKeys(m) {
		if sub, ok := m[k].(map[string]interface{}); ok {
			fmt.Fprintf(w, "%s%s:\n", pad, k)
			writeText(w, sub, indent+1)
		} else {
			fmt.Fprintf(w, "%s%s: %s\n", pad, k, scalarString(m[k]))
		}
	}
}

func printMap(w io.Writer, m map[string]interface{}) error {
	if jsonOutput() {
		return writeJson(w, m)
	}

	writeText(w, m, 0)
	return nil
}

func printState(w io.Writer, st *model.DeviceState) error {
	return printMap(w, stateMap(st))
}

func printScan(w io.Writer, devs []devmgr.DiscoveredDevice) error {
	if jsonOutput() {
		return writeJson(w, scanMaps(devs))
	}

	if len(devs) == 0 {
		fmt.Fprintf(w, "No devices found\n")
		return nil
	}

	for _, d := range devs {
		name := d.Desc.Name
		if name == "" {
			name = "<unnamed>"
		}
		prod := d.Product.String()
		if d.Product == product.CODE_NONE && d.Vendor {
			prod = "soundcore?"
		}
		fmt.Fprintf(w, "%s  %-32s %s\n", d.Desc.Addr, name, prod)
	}
	return nil
}
