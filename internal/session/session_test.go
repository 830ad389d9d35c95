/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package session

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"glyphedit/internal/command"
	"glyphedit/internal/component"
	"glyphedit/internal/config"
	"glyphedit/internal/script"
	"glyphedit/internal/storage"
	"glyphedit/internal/tools"
	"glyphedit/internal/vector"
	"glyphedit/internal/widget"
)

type recorder struct{ got []command.Command }

func (r *recorder) Command(c command.Command) { r.got = append(r.got, c) }

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func key(s string) widget.Event {
	ev, err := tools.ParseKeyEvent(s)
	if err != nil {
		panic(err)
	}
	return widget.KeyDown(ev)
}

func keyUp(s string) widget.Event {
	ev, err := tools.ParseKeyEvent(s)
	if err != nil {
		panic(err)
	}
	return widget.KeyUp(ev)
}

func click(s *Session, i int) []command.Command {
	p := s.Toolbar().SlotFrame(i).Center()
	down := s.HandleInput(widget.MouseDown(p))
	up := s.HandleInput(widget.MouseUp(p))
	return append(down.Emitted, up.Emitted...)
}

func TestHotkeysAndClicksSelectTools(t *testing.T) {
	s := New()
	obs := &recorder{}
	s.Observe(obs)

	if s.SelectedTool() != tools.Select {
		t.Fatalf("expected Select initially, got %s", s.SelectedTool())
	}
	res := s.HandleInput(key("p"))
	if !res.Handled || !res.Repaint {
		t.Fatalf("expected handled repaint, got %+v", res)
	}
	if len(res.Emitted) != 1 || res.Emitted[0] != command.SetActiveTool(tools.Pen) {
		t.Fatalf("expected one SetActiveTool(Pen), got %v", res.Emitted)
	}
	if s.SelectedTool() != tools.Pen || s.Canvas().ActiveTool() != tools.Pen {
		t.Fatalf("expected Pen everywhere, got toolbar=%s canvas=%s", s.SelectedTool(), s.Canvas().ActiveTool())
	}

	res = s.HandleInput(key("shift+u"))
	if s.SelectedTool() != tools.Ellipse || len(res.Emitted) != 1 {
		t.Fatalf("expected Ellipse with one emission, got %s %v", s.SelectedTool(), res.Emitted)
	}

	got := click(s, 0)
	if s.SelectedTool() != tools.Select || len(got) != 1 || got[0].Tool != tools.Select {
		t.Fatalf("expected click to select Select once, got %s %v", s.SelectedTool(), got)
	}
	if len(obs.got) != 3 || s.Canvas().ToolChanges() != 3 {
		t.Fatalf("expected 3 deliveries, observer=%d canvas=%d", len(obs.got), s.Canvas().ToolChanges())
	}
}

func TestRedundantSelectionEmitsNothing(t *testing.T) {
	s := New()
	s.HandleInput(key("p"))
	res := s.HandleInput(key("p"))
	if !res.Handled || len(res.Emitted) != 0 {
		t.Fatalf("expected handled without emission, got %+v", res)
	}
	if got := click(s, 1); len(got) != 0 {
		t.Fatalf("expected no emission for re-clicking Pen, got %v", got)
	}
}

func TestDispatchDoesNotEcho(t *testing.T) {
	s := New()
	obs := &recorder{}
	s.Observe(obs)
	res := s.Dispatch(command.SetActiveTool(tools.Knife))
	if s.SelectedTool() != tools.Knife {
		t.Fatalf("expected Knife, got %s", s.SelectedTool())
	}
	if len(res.Emitted) != 1 || len(obs.got) != 1 {
		t.Fatalf("expected exactly one delivery, got emitted=%v observed=%v", res.Emitted, obs.got)
	}
	res = s.Dispatch(command.SetActiveTool("Lasso"))
	if s.SelectedTool() != tools.Knife {
		t.Fatalf("unknown tool changed selection to %s", s.SelectedTool())
	}
	if len(res.Emitted) != 1 || res.Repaint {
		t.Fatalf("expected the unknown command delivered once without repaint, got %+v", res)
	}
	if len(obs.got) != 2 {
		t.Fatalf("expected observers to still see the unknown command, got %v", obs.got)
	}
	if s.Canvas().ActiveTool() != tools.Knife || s.Canvas().ToolChanges() != 1 {
		t.Fatalf("expected canvas to keep Knife, got %s after %d changes", s.Canvas().ActiveTool(), s.Canvas().ToolChanges())
	}
}

func TestSpaceHoldHidesPanel(t *testing.T) {
	s := New()
	res := s.HandleInput(key("space"))
	if !res.Handled || len(res.Emitted) != 1 || res.Emitted[0] != command.SetPreviewVisibility(true) {
		t.Fatalf("expected preview on, got %+v", res)
	}
	if !s.PanelHidden() || !s.Canvas().PreviewActive() || !res.Repaint {
		t.Fatalf("expected hidden panel and active preview")
	}
	if res = s.HandleInput(key("space")); len(res.Emitted) != 0 {
		t.Fatalf("key repeat must not emit again, got %v", res.Emitted)
	}
	if res = s.HandleInput(key("m")); s.SelectedTool() != tools.Measure || len(res.Emitted) != 1 {
		t.Fatalf("expected hotkeys to work while hidden, got %s %v", s.SelectedTool(), res.Emitted)
	}
	res = s.HandleInput(keyUp("space"))
	if s.PanelHidden() || s.Canvas().PreviewActive() || len(res.Emitted) != 1 {
		t.Fatalf("expected panel shown again, got %+v", res)
	}
}

func TestCanvasClickIsNotHandled(t *testing.T) {
	s := New()
	res := s.HandleInput(widget.MouseDown(vector.Pt{X: 500, Y: 500}))
	if res.Handled || len(res.Emitted) != 0 {
		t.Fatalf("expected unhandled canvas click, got %+v", res)
	}
	if s.Size() != (vector.Size{W: 292, H: 40}) {
		t.Fatalf("expected 292x40 toolbar, got %+v", s.Size())
	}
}

func testRecords() []component.Record {
	return []component.Record{
		{Base: "a", Transform: [6]float64{1, 0, 0, 1, 0, 0}},
		{Base: "acutecomb", Transform: [6]float64{1, 0, 0, 1, 120, 0}},
	}
}

func TestTransformUndoRedoKeepsIDs(t *testing.T) {
	clk := &fakeClock{t: time.Unix(1000, 0)}
	s := New(WithClock(clk.now))
	l := s.SetGlyph("aacute", testRecords())
	mark := l.At(1).ID()

	moved := vector.Translate(130, 10)
	if err := s.SetComponentTransform("aacute", mark, moved); err != nil {
		t.Fatalf("SetComponentTransform: %v", err)
	}
	if !s.Changed("aacute") || !s.CanUndo("aacute") {
		t.Fatalf("expected changed glyph with undo available")
	}
	clk.advance(time.Second)
	if ok, err := s.Undo("aacute"); !ok || err != nil {
		t.Fatalf("Undo: ok=%v err=%v", ok, err)
	}
	got, _ := s.Glyph("aacute")
	if got.At(1).ID() != mark || !got.At(1).Transform.Equal(vector.Translate(120, 0)) {
		t.Fatalf("expected original transform with same id, got %+v", got.At(1))
	}
	if s.Changed("aacute") {
		t.Fatalf("expected no value change after undo")
	}
	if ok, _ := s.Redo("aacute"); !ok {
		t.Fatalf("expected redo")
	}
	got, _ = s.Glyph("aacute")
	if got.At(1).ID() != mark || !got.At(1).Transform.Equal(moved) {
		t.Fatalf("expected redone transform, got %+v", got.At(1))
	}
}

func TestNonFiniteTransformStaysUndoable(t *testing.T) {
	clk := &fakeClock{t: time.Unix(1000, 0)}
	s := New(WithClock(clk.now))
	l := s.SetGlyph("A", testRecords())
	id := l.At(0).ID()

	bad := vector.Affine2D{A: math.NaN(), B: math.Inf(1), D: 1}
	if err := s.SetComponentTransform("A", id, bad); err != nil {
		t.Fatalf("SetComponentTransform NaN: %v", err)
	}
	clk.advance(time.Second)
	if err := s.SetComponentTransform("A", id, vector.Identity); err != nil {
		t.Fatalf("edit after NaN: %v", err)
	}
	clk.advance(time.Second)
	if ok, err := s.Undo("A"); !ok || err != nil {
		t.Fatalf("Undo: ok=%v err=%v", ok, err)
	}
	got, _ := s.Glyph("A")
	if !got.At(0).Transform.Equal(bad) || got.At(0).ID() != id {
		t.Fatalf("expected NaN transform restored bit for bit, got %+v", got.At(0))
	}
	if ok, err := s.Undo("A"); !ok || err != nil {
		t.Fatalf("second Undo: ok=%v err=%v", ok, err)
	}
	got, _ = s.Glyph("A")
	if !got.At(0).Transform.Equal(vector.Identity) {
		t.Fatalf("expected identity after undoing both edits, got %+v", got.At(0).Transform)
	}
	if ok, err := s.Redo("A"); !ok || err != nil {
		t.Fatalf("Redo: ok=%v err=%v", ok, err)
	}
	got, _ = s.Glyph("A")
	if !got.At(0).Transform.Equal(bad) {
		t.Fatalf("expected NaN transform after redo, got %+v", got.At(0).Transform)
	}
}

func TestDragCoalescesIntoOneUndoStep(t *testing.T) {
	clk := &fakeClock{t: time.Unix(1000, 0)}
	s := New(WithClock(clk.now))
	l := s.SetGlyph("aacute", testRecords())
	id := l.At(1).ID()
	for i := 1; i <= 5; i++ {
		clk.advance(50 * time.Millisecond)
		if err := s.SetComponentTransform("aacute", id, vector.Translate(120+float64(i), 0)); err != nil {
			t.Fatalf("edit %d: %v", i, err)
		}
	}
	if ok, _ := s.Undo("aacute"); !ok {
		t.Fatalf("expected undo")
	}
	if s.CanUndo("aacute") {
		t.Fatalf("expected a single undo step for the drag")
	}
	if s.Changed("aacute") {
		t.Fatalf("expected the pre-drag state back")
	}
}

func TestEditErrors(t *testing.T) {
	s := New()
	l := s.SetGlyph("a", testRecords())
	if err := s.SetComponentTransform("b", l.At(0).ID(), vector.Identity); !errors.Is(err, ErrUnknownGlyph) {
		t.Fatalf("expected ErrUnknownGlyph, got %v", err)
	}
	if err := s.SetComponentTransform("a", component.New(s.alloc, "x", vector.Identity).ID(), vector.Identity); !errors.Is(err, ErrUnknownComponent) {
		t.Fatalf("expected ErrUnknownComponent, got %v", err)
	}
	if ok, err := s.Undo("a"); ok || err != nil {
		t.Fatalf("expected nothing to undo, got ok=%v err=%v", ok, err)
	}
	if _, err := s.Save(context.Background(), "a"); !errors.Is(err, ErrNoHistory) {
		t.Fatalf("expected ErrNoHistory, got %v", err)
	}
}

func TestImportExportGlyph(t *testing.T) {
	s := New()
	data := []byte(`[{"base":"o","transform":[1,0,0,1,0,0],"identifier":"x1"}]`)
	l, err := s.ImportGlyph("ocircumflex", data)
	if err != nil || l.Len() != 1 {
		t.Fatalf("ImportGlyph: %v", err)
	}
	out, err := s.ExportGlyph("ocircumflex")
	if err != nil {
		t.Fatalf("ExportGlyph: %v", err)
	}
	if strings.Contains(string(out), "identifier") {
		t.Fatalf("identifier must not be exported: %s", out)
	}
	if _, err := s.ImportGlyph("bad", []byte(`[{"transform":[1,0,0,1,0,0]}]`)); err == nil {
		t.Fatalf("expected invalid import to fail")
	}
	if names := s.Glyphs(); len(names) != 1 || names[0] != "ocircumflex" {
		t.Fatalf("unexpected glyphs %v", names)
	}
}

func TestAutosaveAndLoadLatest(t *testing.T) {
	h, err := storage.OpenHistory(t.TempDir())
	if err != nil {
		t.Fatalf("OpenHistory: %v", err)
	}
	t.Cleanup(func() { _ = h.Close() })

	s := New(WithHistory(h))
	l := s.SetGlyph("aacute", testRecords())
	s.SetGlyph("b", testRecords())
	if err := s.SetComponentTransform("aacute", l.At(1).ID(), vector.Translate(5, 5)); err != nil {
		t.Fatalf("edit: %v", err)
	}
	path, err := s.Autosave()
	if err != nil || path != h.Path() {
		t.Fatalf("Autosave: path=%s err=%v", path, err)
	}
	if s.Changed("aacute") {
		t.Fatalf("expected glyph marked saved")
	}
	names, err := h.Glyphs(context.Background())
	if err != nil || len(names) != 1 || names[0] != "aacute" {
		t.Fatalf("expected only the changed glyph stored, got %v (%v)", names, err)
	}

	fresh := New(WithHistory(h))
	ok, err := fresh.LoadLatest(context.Background(), "aacute")
	if !ok || err != nil {
		t.Fatalf("LoadLatest: ok=%v err=%v", ok, err)
	}
	got, _ := fresh.Glyph("aacute")
	if !got.At(1).Transform.Equal(vector.Translate(5, 5)) {
		t.Fatalf("expected stored transform, got %+v", got.At(1).Transform)
	}
	if ok, _ := fresh.LoadLatest(context.Background(), "missing"); ok {
		t.Fatalf("expected no snapshot for missing glyph")
	}
}

func TestSavePrunesToHistoryKeep(t *testing.T) {
	h, err := storage.OpenHistory(t.TempDir())
	if err != nil {
		t.Fatalf("OpenHistory: %v", err)
	}
	t.Cleanup(func() { _ = h.Close() })

	clk := &fakeClock{t: time.Unix(1000, 0)}
	s := New(WithHistory(h), WithHistoryKeep(2), WithClock(clk.now))
	l := s.SetGlyph("aacute", testRecords())
	ctx := context.Background()
	for i := 0; i < 4; i++ {
		clk.advance(time.Second)
		if err := s.SetComponentTransform("aacute", l.At(1).ID(), vector.Translate(float64(i), 0)); err != nil {
			t.Fatalf("edit %d: %v", i, err)
		}
		if _, err := s.Save(ctx, "aacute"); err != nil {
			t.Fatalf("Save %d: %v", i, err)
		}
	}
	snaps, err := h.ListSnapshots(ctx, "aacute", 0)
	if err != nil {
		t.Fatalf("ListSnapshots: %v", err)
	}
	if len(snaps) != 2 {
		t.Fatalf("expected 2 snapshots kept, got %d", len(snaps))
	}
	fresh := New(WithHistory(h))
	if ok, err := fresh.LoadLatest(ctx, "aacute"); !ok || err != nil {
		t.Fatalf("LoadLatest: ok=%v err=%v", ok, err)
	}
	got, _ := fresh.Glyph("aacute")
	if !got.At(1).Transform.Equal(vector.Translate(3, 0)) {
		t.Fatalf("expected newest snapshot kept, got %+v", got.At(1).Transform)
	}
}

func TestReplayTrace(t *testing.T) {
	sc, errs := script.Parse("key p\nclick 6\ncmd Knife\nkey space\nkeyup space\nclick 9")
	if len(errs) != 0 {
		t.Fatalf("parse errors: %+v", errs)
	}
	var buf bytes.Buffer
	err := New().Replay(sc, &buf)
	if err == nil || !strings.Contains(err.Error(), "no toolbar slot 9") {
		t.Fatalf("expected slot error, got %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{
		"1 key p -> Pen hidden=false [SetActiveTool(Pen)]",
		"2 click 6 -> Ellipse hidden=false [SetActiveTool(Ellipse)]",
		"3 cmd Knife -> Knife hidden=false [SetActiveTool(Knife)]",
		"4 key space -> Knife hidden=true [SetPreviewVisibility(true)]",
		"5 keyup space -> Knife hidden=false [SetPreviewVisibility(false)]",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %q", len(want), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.Toolbar.Hotkeys = map[string]string{"pen": "ctrl+p", "lasso": "l"}
	cfg.Toolbar.ItemSize = 20
	cfg.Toolbar.ItemPadding = 0
	opts, err := OptionsFromConfig(cfg, nil)
	if err != nil {
		t.Fatalf("OptionsFromConfig: %v", err)
	}
	s := New(opts...)
	if res := s.HandleInput(key("p")); res.Handled {
		t.Fatalf("plain p should no longer match")
	}
	s.HandleInput(key("ctrl+p"))
	if s.SelectedTool() != tools.Pen {
		t.Fatalf("expected Pen via ctrl+p, got %s", s.SelectedTool())
	}
	if s.Size() != (vector.Size{W: 140, H: 20}) {
		t.Fatalf("expected 140x20, got %+v", s.Size())
	}

	cfg.Toolbar.Hotkeys = map[string]string{"pen": "hyper+p"}
	if _, err := OptionsFromConfig(cfg, nil); err == nil {
		t.Fatalf("expected bad chord error")
	}
}
