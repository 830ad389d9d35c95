//go:build fyne

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"strings"

	"fyne.io/fyne/v2"

	"glyphedit/internal/tools"
)

var modifierKeys = map[fyne.KeyName]bool{
	"LeftShift": true, "RightShift": true,
	"LeftControl": true, "RightControl": true,
	"LeftAlt": true, "RightAlt": true,
	"LeftSuper": true, "RightSuper": true,
}

// keyEvent converts a driver key into the editor's key event. Presses of
// modifier keys on their own are dropped.
func keyEvent(name fyne.KeyName, mods fyne.KeyModifier) (tools.KeyEvent, bool) {
	if name == "" || modifierKeys[name] {
		return tools.KeyEvent{}, false
	}
	var m tools.Mods
	if mods&fyne.KeyModifierControl != 0 {
		m |= tools.ModCtrl
	}
	if mods&fyne.KeyModifierAlt != 0 {
		m |= tools.ModAlt
	}
	if mods&fyne.KeyModifierShift != 0 {
		m |= tools.ModShift
	}
	if mods&fyne.KeyModifierSuper != 0 {
		m |= tools.ModMeta
	}
	return tools.KeyEvent{Key: strings.ToLower(string(name)), Mods: m}, true
}
