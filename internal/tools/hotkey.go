/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package tools

import (
	"fmt"
	"strings"
)

// Mods is a set of modifier keys.
type Mods uint8

const (
	ModCtrl Mods = 1 << iota
	ModAlt
	ModShift
	ModMeta
)

var modNames = []struct {
	mod  Mods
	name string
}{
	{ModCtrl, "ctrl"},
	{ModAlt, "alt"},
	{ModShift, "shift"},
	{ModMeta, "meta"},
}

// KeyEvent is a key press as delivered by the window layer. Key is the
// logical key text ("p", "U", "space", "escape").
type KeyEvent struct {
	Key  string
	Mods Mods
}

// Hotkey is a key chord bound to a tool.
type Hotkey struct {
	Mods Mods
	Key  string // lower-case
}

// NewHotkey builds a hotkey; the key is normalised to lower case.
func NewHotkey(mods Mods, key string) Hotkey {
	return Hotkey{Mods: mods, Key: strings.ToLower(key)}
}

// Matches reports whether the key event triggers h. Modifiers must match
// exactly; the key compares case-insensitively so that shift+u matches an
// event reporting "U".
func (h Hotkey) Matches(ev KeyEvent) bool {
	return h.Key != "" && h.Mods == ev.Mods && strings.EqualFold(h.Key, ev.Key)
}

func (h Hotkey) String() string {
	var parts []string
	for _, m := range modNames {
		if h.Mods&m.mod != 0 {
			parts = append(parts, m.name)
		}
	}
	return strings.Join(append(parts, h.Key), "+")
}

// ParseHotkey parses chords such as "v", "shift+u" or "ctrl+alt+k".
func ParseHotkey(s string) (Hotkey, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return Hotkey{}, fmt.Errorf("empty hotkey")
	}
	// "+" on its own or as the last element is the plus key.
	var key string
	rest := s
	if strings.HasSuffix(s, "++") || s == "+" {
		key = "+"
		rest = strings.TrimSuffix(strings.TrimSuffix(s, "+"), "+")
	} else {
		i := strings.LastIndex(s, "+")
		key = s[i+1:]
		if i >= 0 {
			rest = s[:i]
		} else {
			rest = ""
		}
	}
	if key == "" {
		return Hotkey{}, fmt.Errorf("hotkey %q has no key", s)
	}
	var mods Mods
	if rest != "" {
		for _, part := range strings.Split(rest, "+") {
			m, ok := parseMod(part)
			if !ok {
				return Hotkey{}, fmt.Errorf("hotkey %q: unknown modifier %q", s, part)
			}
			mods |= m
		}
	}
	return Hotkey{Mods: mods, Key: key}, nil
}

// ParseKeyEvent parses the same chord syntax into a key event.
func ParseKeyEvent(s string) (KeyEvent, error) {
	h, err := ParseHotkey(s)
	if err != nil {
		return KeyEvent{}, err
	}
	return KeyEvent{Key: h.Key, Mods: h.Mods}, nil
}

func parseMod(s string) (Mods, bool) {
	switch strings.TrimSpace(s) {
	case "ctrl", "control":
		return ModCtrl, true
	case "alt", "option":
		return ModAlt, true
	case "shift":
		return ModShift, true
	case "meta", "cmd", "super":
		return ModMeta, true
	}
	return 0, false
}
