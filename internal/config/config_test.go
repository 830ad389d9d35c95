/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */


package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvTelemetryOptIn, EnvTelemetryURL, EnvHistoryDir, EnvLogLevel, EnvLogFormat, EnvLogSource, EnvLogFile} {
		t.Setenv(k, "")
	}
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if !reflect.DeepEqual(cfg, Defaults()) {
		t.Fatalf("expected defaults, got %#v", cfg)
	}
}

func TestLoadMergesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
general:
  telemetry_opt_in: true
  history_dir: /tmp/hist
  history_keep: 5
logging:
  level: DEBUG
toolbar:
  hotkeys:
    Pen: ctrl+p
  item_size: 32
undo:
  min_interval_ms: 100
`
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if !cfg.General.TelemetryOptIn || cfg.General.HistoryDir != "/tmp/hist" || cfg.General.HistoryKeep != 5 {
		t.Fatalf("general not merged: %#v", cfg.General)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "console" {
		t.Fatalf("logging not merged: %#v", cfg.Logging)
	}
	if cfg.Toolbar.Hotkeys["pen"] != "ctrl+p" || cfg.Toolbar.ItemSize != 32 || cfg.Toolbar.ItemPadding != 2 {
		t.Fatalf("toolbar not merged: %#v", cfg.Toolbar)
	}
	if cfg.Undo.MinInterval() != 100*time.Millisecond || cfg.Undo.MaxPerGlyph != 100 {
		t.Fatalf("undo not merged: %#v", cfg.Undo)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("general: [oops"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFrom(path)
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if cfg.Toolbar.ItemSize != 40 {
		t.Fatalf("expected defaults alongside error, got %#v", cfg.Toolbar)
	}
}

func TestEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvConfigPath, filepath.Join(t.TempDir(), "config.yaml"))
	t.Setenv(EnvTelemetryOptIn, "yes")
	t.Setenv(EnvLogLevel, "ERROR")
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvLogSource, "1")
	t.Setenv(EnvLogFile, "/var/log/gle.log")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.General.TelemetryOptIn {
		t.Fatalf("telemetry env override not applied")
	}
	if cfg.Logging.Level != "error" || cfg.Logging.Format != "json" || !cfg.Logging.Source || cfg.Logging.File != "/var/log/gle.log" {
		t.Fatalf("env overrides not applied to logging: %#v", cfg.Logging)
	}
	if name, ok := EnvOverrideFor("logging.level"); !ok || name != EnvLogLevel {
		t.Fatalf("EnvOverrideFor(logging.level) = %q, %v", name, ok)
	}
	if _, ok := EnvOverrideFor("general.history_dir"); ok {
		t.Fatalf("history_dir should not be overridden")
	}
	want := []string{"general.telemetry_opt_in", "logging.file", "logging.format", "logging.level", "logging.source"}
	if got := OverriddenKeys(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := Defaults()
	cfg.Toolbar.Hotkeys = map[string]string{"knife": "k"}
	cfg.General.HistoryDir = "/data"
	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if !reflect.DeepEqual(got, cfg) {
		t.Fatalf("expected %#v, got %#v", cfg, got)
	}
}

func TestLoggingOptions(t *testing.T) {
	o := LoggingConfig{Level: "warn", Format: "json", Source: true, File: "x.log"}.Options()
	if o.Level != "warn" || o.Format != "json" || !o.AddSource || o.File != "x.log" {
		t.Fatalf("unexpected options %+v", o)
	}
}
