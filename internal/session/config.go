/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package session

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"glyphedit/internal/config"
	applog "glyphedit/internal/log"
	"glyphedit/internal/tools"
	"glyphedit/internal/undo"
	"glyphedit/internal/widget"
)

// OptionsFromConfig turns the toolbar and undo sections of cfg into session
// options. base defaults to the built-in registry. Hotkeys for unknown tools
// are logged and skipped; a chord that does not parse is an error.
func OptionsFromConfig(cfg config.AppConfig, base *tools.Registry) ([]Option, error) {
	if base == nil {
		base = tools.DefaultRegistry()
	}
	log := applog.WithComponent("session")
	reg := base
	if len(cfg.Toolbar.Hotkeys) > 0 {
		names := make([]string, 0, len(cfg.Toolbar.Hotkeys))
		for n := range cfg.Toolbar.Hotkeys {
			names = append(names, n)
		}
		sort.Strings(names)
		overrides := make(map[tools.ToolID]tools.Hotkey, len(names))
		for _, n := range names {
			hk, err := tools.ParseHotkey(cfg.Toolbar.Hotkeys[n])
			if err != nil {
				return nil, fmt.Errorf("toolbar.hotkeys.%s: %w", n, err)
			}
			overrides[resolveTool(base, n)] = hk
		}
		var unknown []tools.ToolID
		reg, unknown = base.WithHotkeys(overrides)
		for _, id := range unknown {
			log.Warn("hotkey for unknown tool ignored", slog.String("tool", string(id)))
		}
	}
	opts := []Option{
		WithRegistry(reg),
		WithHistoryKeep(cfg.General.HistoryKeep),
		WithUndo(undo.Config{
			MaxBytes:    cfg.Undo.MaxBytes,
			MaxPerGlyph: cfg.Undo.MaxPerGlyph,
			MinInterval: cfg.Undo.MinInterval(),
		}),
	}
	var tb []widget.ToolbarOption
	if cfg.Toolbar.ItemSize > 0 {
		tb = append(tb, widget.WithItemSize(cfg.Toolbar.ItemSize))
	}
	tb = append(tb, widget.WithItemPadding(cfg.Toolbar.ItemPadding))
	return append(opts, WithToolbarOptions(tb...)), nil
}

// resolveTool maps a config key onto the registry's spelling of the tool.
func resolveTool(r *tools.Registry, name string) tools.ToolID {
	for _, d := range r.Descriptors() {
		if strings.EqualFold(string(d.Name), name) {
			return d.Name
		}
	}
	return tools.ToolID(name)
}
