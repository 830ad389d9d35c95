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
	"io"
	"strings"

	"glyphedit/internal/command"
	"glyphedit/internal/script"
	"glyphedit/internal/widget"
)

// Apply feeds one replay step into the session.
func (s *Session) Apply(st script.Step) (Result, error) {
	switch st.Type {
	case script.StepKeyDown:
		return s.HandleInput(widget.KeyDown(st.Key)), nil
	case script.StepKeyUp:
		return s.HandleInput(widget.KeyUp(st.Key)), nil
	case script.StepMouseDown:
		return s.HandleInput(widget.MouseDown(st.Pos)), nil
	case script.StepMouseUp:
		return s.HandleInput(widget.MouseUp(st.Pos)), nil
	case script.StepClick:
		if st.Slot >= s.reg.Len() {
			return Result{}, fmt.Errorf("line %d: no toolbar slot %d", st.LineNo, st.Slot)
		}
		p := s.toolbar.SlotFrame(st.Slot).Center()
		down := s.HandleInput(widget.MouseDown(p))
		up := s.HandleInput(widget.MouseUp(p))
		return Result{
			Handled: down.Handled || up.Handled,
			Repaint: down.Repaint || up.Repaint,
			Emitted: append(down.Emitted, up.Emitted...),
		}, nil
	case script.StepCommand:
		return s.Dispatch(command.SetActiveTool(st.Tool)), nil
	case script.StepPreview:
		return s.Dispatch(command.SetPreviewVisibility(st.Preview)), nil
	}
	return Result{}, fmt.Errorf("line %d: unsupported step %s", st.LineNo, st.Type)
}

// Replay applies every step and writes one trace line per step:
//
//	3 key p -> Pen hidden=false [SetActiveTool(Pen)]
//
// It stops at the first step that cannot be applied.
func (s *Session) Replay(sc script.Script, w io.Writer) error {
	for _, st := range sc.Steps {
		res, err := s.Apply(st)
		if err != nil {
			return err
		}
		emitted := make([]string, 0, len(res.Emitted))
		for _, c := range res.Emitted {
			emitted = append(emitted, c.String())
		}
		if _, err := fmt.Fprintf(w, "%d %s -> %s hidden=%t [%s]\n",
			st.LineNo, st.Text, s.SelectedTool(), s.PanelHidden(), strings.Join(emitted, " ")); err != nil {
			return err
		}
	}
	return nil
}
