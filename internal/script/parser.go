/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"bufio"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"glyphedit/internal/tools"
	"glyphedit/internal/vector"
)

var reStep = regexp.MustCompile(`^(?i)([a-z]+)\s*(.*)$`)

// Parse parses replay text into a Script.
// Supported syntax:
//   - key <chord> / keyup <chord>: chords use the hotkey syntax ("v", "shift+u").
//   - click <slot>: zero-based toolbar slot index.
//   - down <x> <y> / up <x> <y>: raw mouse events in window coordinates.
//   - cmd <tool>: tool name exactly as listed by the registry.
//   - preview on|off (also true/false, 1/0).
//
// Blank lines and comments (";" or "#") are skipped. A bad line yields an
// Error and parsing continues with the next one.
func Parse(input string) (Script, []Error) {
	var s Script
	var errs []Error

	scanner := bufio.NewScanner(strings.NewReader(input))
	lineNo := 0
	fail := func(col int, format string, args ...any) {
		errs = append(errs, Error{Line: lineNo, Column: col, Message: fmt.Sprintf(format, args...)})
	}

	for scanner.Scan() {
		lineNo++
		raw := strings.TrimRight(scanner.Text(), "\r\n")
		trim := strings.TrimSpace(raw)
		if trim == "" || strings.HasPrefix(trim, ";") || strings.HasPrefix(trim, "#") {
			continue
		}
		idx := reStep.FindStringSubmatchIndex(trim)
		if idx == nil {
			fail(1, "cannot parse %q", trim)
			continue
		}
		lead := len(raw) - len(strings.TrimLeftFunc(raw, unicode.IsSpace))
		verb := strings.ToLower(trim[idx[2]:idx[3]])
		arg := trim[idx[4]:idx[5]]
		argCol := lead + idx[4] + 1
		st := Step{Text: trim, LineNo: lineNo}

		switch verb {
		case "key", "keyup":
			ev, err := tools.ParseKeyEvent(arg)
			if err != nil {
				fail(argCol, "%v", err)
				continue
			}
			st.Type = StepKeyDown
			if verb == "keyup" {
				st.Type = StepKeyUp
			}
			st.Key = ev
		case "click":
			n, err := strconv.Atoi(arg)
			if err != nil || n < 0 {
				fail(argCol, "click needs a slot index, got %q", arg)
				continue
			}
			st.Type = StepClick
			st.Slot = n
		case "down", "up":
			p, err := parsePoint(arg)
			if err != nil {
				fail(argCol, "%s: %v", verb, err)
				continue
			}
			st.Type = StepMouseDown
			if verb == "up" {
				st.Type = StepMouseUp
			}
			st.Pos = p
		case "cmd":
			if arg == "" || strings.ContainsAny(arg, " \t") {
				fail(argCol, "cmd needs exactly one tool name")
				continue
			}
			st.Type = StepCommand
			st.Tool = tools.ToolID(arg)
		case "preview":
			on, ok := parseSwitch(arg)
			if !ok {
				fail(argCol, "preview needs on or off, got %q", arg)
				continue
			}
			st.Type = StepPreview
			st.Preview = on
		default:
			fail(1, "unknown step %q", trim[idx[2]:idx[3]])
			continue
		}
		s.Steps = append(s.Steps, st)
	}

	if err := scanner.Err(); err != nil {
		errs = append(errs, Error{Line: lineNo, Column: 1, Message: err.Error()})
	}
	return s, errs
}

func parsePoint(s string) (vector.Pt, error) {
	f := strings.Fields(s)
	if len(f) != 2 {
		return vector.Pt{}, fmt.Errorf("expected two coordinates, got %q", s)
	}
	x, err := strconv.ParseFloat(f[0], 64)
	if err != nil {
		return vector.Pt{}, fmt.Errorf("bad x %q", f[0])
	}
	y, err := strconv.ParseFloat(f[1], 64)
	if err != nil {
		return vector.Pt{}, fmt.Errorf("bad y %q", f[1])
	}
	return vector.Pt{X: x, Y: y}, nil
}

func parseSwitch(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "on", "true", "1", "yes":
		return true, true
	case "off", "false", "0", "no":
		return false, true
	}
	return false, false
}
