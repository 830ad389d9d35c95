/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"glyphedit/internal/tools"
	"glyphedit/internal/vector"
)

// Script is a parsed input replay: an ordered list of steps fed to an
// editing session one by one.

type Script struct {
	Steps []Step
}

// StepType indicates the kind of a script line.
// KeyDown:   key <chord>
// KeyUp:     keyup <chord>
// Click:     click <slot>         (press and release on a toolbar slot)
// MouseDown: down <x> <y>
// MouseUp:   up <x> <y>
// Command:   cmd <tool>           (external SetActiveTool)
// Preview:   preview on|off       (external SetPreviewVisibility)
// Note:      lines starting with ";" or "#" are comments

type StepType int

const (
	StepUnknown StepType = iota
	StepKeyDown
	StepKeyUp
	StepClick
	StepMouseDown
	StepMouseUp
	StepCommand
	StepPreview
)

func (t StepType) String() string {
	switch t {
	case StepKeyDown:
		return "key"
	case StepKeyUp:
		return "keyup"
	case StepClick:
		return "click"
	case StepMouseDown:
		return "down"
	case StepMouseUp:
		return "up"
	case StepCommand:
		return "cmd"
	case StepPreview:
		return "preview"
	}
	return "unknown"
}

// Step is one replayed input. Only the fields matching Type are set.

type Step struct {
	Type    StepType
	Key     tools.KeyEvent
	Slot    int
	Pos     vector.Pt
	Tool    tools.ToolID
	Preview bool
	Text    string // source text after trimming
	LineNo  int    // 1-based line number in the source
}

// Error represents a parse error with position context.

type Error struct {
	Line    int
	Column  int
	Message string
}
