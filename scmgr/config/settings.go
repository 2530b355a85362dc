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


package config

import (
	"io/ioutil"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"mynewt.apache.org/newt/util"

	"github.com/soundcore-tools/scmgr/scmgr/scutil"
	"github.com/soundcore-tools/scmgr/scxact/devmgr"
)

const (
	OUTPUT_TEXT = "text"
	OUTPUT_JSON = "json"
)

type HandshakeSettings struct {
	Tries   int           `yaml:"tries"`
	Timeout time.Duration `yaml:"timeout"`
	Backoff time.Duration `yaml:"backoff"`
}

// Tool settings read from ~/.scmgr.yaml.  Every field is optional.
type Settings struct {
	LogLevel          string            `yaml:"log_level"`
	ScanDuration      time.Duration     `yaml:"scan_duration"`
	Handshake         HandshakeSettings `yaml:"handshake"`
	ExperimentalA3947 bool              `yaml:"experimental_a3947"`
	Output            string            `yaml:"output"`
}

func DefaultSettings() Settings {
	mc := devmgr.NewMgrCfg()
	hc := mc.SesnCfg.Handshake

	return Settings{
		LogLevel:     "info",
		ScanDuration: mc.ScanDuration,
		Handshake: HandshakeSettings{
			Tries:   hc.Tries,
			Timeout: hc.Timeout,
			Backoff: hc.Backoff,
		},
		ExperimentalA3947: true,
		Output:            OUTPUT_TEXT,
	}
}

func ParseSettings(b []byte) (Settings, error) {
	s := DefaultSettings()

	if err := yaml.Unmarshal(b, &s); err != nil {
		return s, util.FmtNewtError("invalid settings: %s", err.Error())
	}

	if err := s.Validate(); err != nil {
		return s, err
	}

	return s, nil
}

// Reads settings from a file.  A missing file yields the defaults.
func LoadSettings(filename string) (Settings, error) {
	log.Debugf("Reading settings from %s", filename)

	b, err := ioutil.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return DefaultSettings(), util.ChildNewtError(err)
	}

	s, err := ParseSettings(b)
	if err != nil {
		return s, util.FmtNewtError("%s: %s", filename, err.Error())
	}
	return s, nil
}

func LoadGlobalSettings() (Settings, error) {
	filename, err := homeFilename(scutil.ToolInfo.SettingsFile)
	if err != nil {
		return DefaultSettings(), err
	}

	return LoadSettings(filename)
}

func (s *Settings) Validate() error {
	if _, err := log.ParseLevel(s.LogLevel); err != nil {
		return util.FmtNewtError("invalid log_level: %s", s.LogLevel)
	}
	if s.ScanDuration <= 0 {
		return util.FmtNewtError("scan_duration must be positive")
	}
	if s.Handshake.Tries < 1 {
		return util.FmtNewtError("handshake.tries must be at least 1")
	}
	if s.Handshake.Timeout <= 0 || s.Handshake.Backoff < 0 {
		return util.FmtNewtError("invalid handshake timing")
	}
	if s.Output != OUTPUT_TEXT && s.Output != OUTPUT_JSON {
		return util.FmtNewtError("invalid output: %s", s.Output)
	}

	return nil
}

// Manager configuration reflecting the settings.
func (s *Settings) MgrCfg() devmgr.MgrCfg {
	mc := devmgr.NewMgrCfg()

	mc.ScanDuration = s.ScanDuration
	mc.SesnCfg.Handshake.Tries = s.Handshake.Tries
	mc.SesnCfg.Handshake.Timeout = s.Handshake.Timeout
	mc.SesnCfg.Handshake.Backoff = s.Handshake.Backoff

	return mc
}
