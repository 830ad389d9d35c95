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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	applog "glyphedit/internal/log"
)

// AppConfig is the user-editable configuration persisted as YAML in the user
// scope. Environment variables override it at runtime and are never saved.
//
// config_version: bump when the structure changes incompatibly.
type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	General       GeneralConfig `yaml:"general"`
	Logging       LoggingConfig `yaml:"logging"`
	Toolbar       ToolbarConfig `yaml:"toolbar"`
	Undo          UndoConfig    `yaml:"undo"`
}

type GeneralConfig struct {
	TelemetryOptIn bool   `yaml:"telemetry_opt_in"`
	TelemetryURL   string `yaml:"telemetry_url"`
	// HistoryDir holds .glyphedit/history.sqlite; empty means the working directory.
	HistoryDir string `yaml:"history_dir"`
	// HistoryKeep caps the stored snapshots per glyph; 0 keeps all.
	HistoryKeep int `yaml:"history_keep"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

// ToolbarConfig tweaks the tool strip. Hotkeys maps tool names to chords such
// as "shift+u"; tools keep their default order.
type ToolbarConfig struct {
	Hotkeys     map[string]string `yaml:"hotkeys,omitempty"`
	ItemSize    float64           `yaml:"item_size"`
	ItemPadding float64           `yaml:"item_padding"`
}

type UndoConfig struct {
	MaxBytes      int `yaml:"max_bytes"`
	MaxPerGlyph   int `yaml:"max_per_glyph"`
	MinIntervalMs int `yaml:"min_interval_ms"`
}

// MinInterval returns MinIntervalMs as a duration.
func (u UndoConfig) MinInterval() time.Duration {
	return time.Duration(u.MinIntervalMs) * time.Millisecond
}

// Options converts the logging section for log.Init.
func (l LoggingConfig) Options() applog.Options {
	return applog.Options{Level: l.Level, Format: l.Format, AddSource: l.Source, File: l.File}
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{HistoryKeep: 50},
		Logging:       LoggingConfig{Level: "info", Format: "console"},
		Toolbar:       ToolbarConfig{ItemSize: 40, ItemPadding: 2},
		Undo:          UndoConfig{MaxBytes: 16 * 1024 * 1024, MaxPerGlyph: 100, MinIntervalMs: 250},
	}
}

// Env var names used as overrides.
const (
	EnvConfigPath     = "GLE_CONFIG"
	EnvTelemetryOptIn = "GLE_TELEMETRY_OPT_IN"
	EnvTelemetryURL   = "GLE_TELEMETRY_URL"
	EnvHistoryDir     = "GLE_HISTORY_DIR"
	EnvLogLevel       = "GLE_LOG_LEVEL"
	EnvLogFormat      = "GLE_LOG_FORMAT"
	EnvLogSource      = "GLE_LOG_SOURCE"
	EnvLogFile        = "GLE_LOG_FILE"
)

var envKeys = map[string]string{
	"general.telemetry_opt_in": EnvTelemetryOptIn,
	"general.telemetry_url":    EnvTelemetryURL,
	"general.history_dir":      EnvHistoryDir,
	"logging.level":            EnvLogLevel,
	"logging.format":           EnvLogFormat,
	"logging.source":           EnvLogSource,
	"logging.file":             EnvLogFile,
}

// ConfigPath returns the per-user config file path. GLE_CONFIG wins if set.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "GlyphEdit")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "GlyphEdit")
	default:
		if x := os.Getenv("XDG_CONFIG_HOME"); x != "" {
			base = filepath.Join(x, "glyphedit")
		} else if h := os.Getenv("HOME"); h != "" {
			base = filepath.Join(h, ".config", "glyphedit")
		}
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config from ConfigPath.
func Load() (AppConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		cfg := Defaults()
		applyEnvOverrides(&cfg)
		return cfg, err
	}
	return LoadFrom(path)
}

// LoadFrom applies defaults, merges the YAML file at path when it exists and
// finally applies environment overrides. A missing file is not an error; a
// malformed one is.
func LoadFrom(path string) (AppConfig, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			applyEnvOverrides(&cfg)
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
		mergeInto(&cfg, &fileCfg)
	case !errors.Is(err, os.ErrNotExist):
		applyEnvOverrides(&cfg)
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes cfg to ConfigPath.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTo(path, cfg)
}

// SaveTo writes cfg as YAML to path, creating parent directories.
func SaveTo(path string, cfg AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	// booleans are copied as-is so a saved false sticks
	dst.General.TelemetryOptIn = src.General.TelemetryOptIn
	if v := strings.TrimSpace(src.General.TelemetryURL); v != "" {
		dst.General.TelemetryURL = v
	}
	if v := strings.TrimSpace(src.General.HistoryDir); v != "" {
		dst.General.HistoryDir = v
	}
	if src.General.HistoryKeep > 0 {
		dst.General.HistoryKeep = src.General.HistoryKeep
	}

	if v := strings.TrimSpace(src.Logging.Level); v != "" {
		dst.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(src.Logging.Format); v != "" {
		dst.Logging.Format = strings.ToLower(v)
	}
	dst.Logging.Source = src.Logging.Source
	if v := strings.TrimSpace(src.Logging.File); v != "" {
		dst.Logging.File = v
	}

	if len(src.Toolbar.Hotkeys) > 0 {
		if dst.Toolbar.Hotkeys == nil {
			dst.Toolbar.Hotkeys = make(map[string]string, len(src.Toolbar.Hotkeys))
		}
		for k, v := range src.Toolbar.Hotkeys {
			dst.Toolbar.Hotkeys[strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(v)
		}
	}
	if src.Toolbar.ItemSize > 0 {
		dst.Toolbar.ItemSize = src.Toolbar.ItemSize
	}
	if src.Toolbar.ItemPadding > 0 {
		dst.Toolbar.ItemPadding = src.Toolbar.ItemPadding
	}

	if src.Undo.MaxBytes > 0 {
		dst.Undo.MaxBytes = src.Undo.MaxBytes
	}
	if src.Undo.MaxPerGlyph > 0 {
		dst.Undo.MaxPerGlyph = src.Undo.MaxPerGlyph
	}
	if src.Undo.MinIntervalMs > 0 {
		dst.Undo.MinIntervalMs = src.Undo.MinIntervalMs
	}
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvTelemetryOptIn)); v != "" {
		cfg.General.TelemetryOptIn = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvTelemetryURL)); v != "" {
		cfg.General.TelemetryURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvHistoryDir)); v != "" {
		cfg.General.HistoryDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

// EnvOverrideFor returns the env var that currently overrides key, e.g.
// "logging.level".
func EnvOverrideFor(key string) (string, bool) {
	name, ok := envKeys[key]
	if !ok || os.Getenv(name) == "" {
		return "", false
	}
	return name, true
}

// OverriddenKeys lists every config key currently overridden by the
// environment, sorted.
func OverriddenKeys() []string {
	var out []string
	for k := range envKeys {
		if _, ok := EnvOverrideFor(k); ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// String renders the effective config, for diagnostics.
func (c AppConfig) String() string {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "config_version: " + strconv.Itoa(c.ConfigVersion)
	}
	return string(data)
}
