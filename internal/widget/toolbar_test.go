/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package widget

import (
	"testing"

	"glyphedit/internal/command"
	"glyphedit/internal/paint"
	"glyphedit/internal/tools"
	"glyphedit/internal/vector"
)

type harness struct {
	tb *Toolbar
	q  *command.Queue
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	tb := NewToolbar(tools.DefaultRegistry())
	tb.Layout(Unbounded())
	return &harness{tb: tb, q: &command.Queue{}}
}

// send delivers ev and returns the commands it emitted plus the context.
func (h *harness) send(ev Event) ([]command.Command, *EventCtx) {
	ctx := NewEventCtx(h.q)
	h.tb.Event(ctx, ev)
	return h.q.Drain(), ctx
}

func (h *harness) click(i int) []command.Command {
	c := h.tb.SlotFrame(i).Center()
	out, _ := h.send(MouseDown(c))
	up, _ := h.send(MouseUp(c))
	return append(out, up...)
}

func key(s string) tools.KeyEvent {
	ev, err := tools.ParseKeyEvent(s)
	if err != nil {
		panic(err)
	}
	return ev
}

func TestToolbarStartsOnFirstTool(t *testing.T) {
	h := newHarness(t)
	if h.tb.Selected() != 0 || h.tb.SelectedTool() != tools.Select {
		t.Fatalf("expected Select at 0, got %s at %d", h.tb.SelectedTool(), h.tb.Selected())
	}
}

func TestToolbarScenario(t *testing.T) {
	h := newHarness(t)

	out, ctx := h.send(KeyDown(key("p")))
	if h.tb.SelectedTool() != tools.Pen {
		t.Fatalf("expected Pen after p, got %s", h.tb.SelectedTool())
	}
	if len(out) != 1 || out[0] != command.SetActiveTool(tools.Pen) {
		t.Fatalf("expected one SetActiveTool(pen), got %v", out)
	}
	if !ctx.IsHandled() || !ctx.PaintRequested() {
		t.Fatalf("expected hotkey to be handled and repaint requested")
	}

	out, _ = h.send(CommandEvent(command.SetActiveTool(tools.Ellipse)))
	if h.tb.SelectedTool() != tools.Ellipse {
		t.Fatalf("expected Ellipse after command, got %s", h.tb.SelectedTool())
	}
	if len(out) != 0 {
		t.Fatalf("external selection must not re-emit, got %v", out)
	}

	out = h.click(0)
	if h.tb.SelectedTool() != tools.Select {
		t.Fatalf("expected Select after click, got %s", h.tb.SelectedTool())
	}
	if len(out) != 1 || out[0] != command.SetActiveTool(tools.Select) {
		t.Fatalf("expected one SetActiveTool(select), got %v", out)
	}

	out, ctx = h.send(CommandEvent(command.SetActiveTool(tools.Select)))
	if h.tb.Selected() != 0 || len(out) != 0 || ctx.PaintRequested() {
		t.Fatalf("redundant command must be a no-op: sel=%d out=%v", h.tb.Selected(), out)
	}
}

func TestToolbarShiftChordSelectsEllipse(t *testing.T) {
	h := newHarness(t)
	h.send(KeyDown(key("shift+u")))
	if h.tb.SelectedTool() != tools.Ellipse {
		t.Fatalf("expected Ellipse, got %s", h.tb.SelectedTool())
	}
	h.send(KeyDown(key("u")))
	if h.tb.SelectedTool() != tools.Rectangle {
		t.Fatalf("expected Rectangle, got %s", h.tb.SelectedTool())
	}
}

func TestToolbarUnmatchedKeyIsNotHandled(t *testing.T) {
	h := newHarness(t)
	out, ctx := h.send(KeyDown(key("z")))
	if ctx.IsHandled() || len(out) != 0 || h.tb.Selected() != 0 {
		t.Fatalf("unmatched key must be ignored")
	}
}

func TestToolbarRedundantHotkeyDoesNotEmit(t *testing.T) {
	h := newHarness(t)
	out, ctx := h.send(KeyDown(key("v")))
	if len(out) != 0 {
		t.Fatalf("expected no emission, got %v", out)
	}
	if !ctx.IsHandled() {
		t.Fatalf("matched hotkey should still be handled")
	}
	h.click(2)
	if out := h.click(2); len(out) != 0 {
		t.Fatalf("re-click emitted %v", out)
	}
}

func TestToolbarUnknownToolIgnored(t *testing.T) {
	h := newHarness(t)
	h.send(KeyDown(key("m")))
	out, ctx := h.send(CommandEvent(command.SetActiveTool("lasso")))
	if h.tb.SelectedTool() != tools.Measure || len(out) != 0 || ctx.PaintRequested() {
		t.Fatalf("unknown tool changed state: %s %v", h.tb.SelectedTool(), out)
	}
}

func TestToolbarPreviewCommandIgnored(t *testing.T) {
	h := newHarness(t)
	out, _ := h.send(CommandEvent(command.SetPreviewVisibility(true)))
	if h.tb.Selected() != 0 || len(out) != 0 {
		t.Fatalf("toolbar reacted to preview command")
	}
}

func TestToolbarClickNeedsPressAndReleaseOnSameSlot(t *testing.T) {
	h := newHarness(t)
	h.send(MouseDown(h.tb.SlotFrame(1).Center()))
	out, _ := h.send(MouseUp(h.tb.SlotFrame(2).Center()))
	if h.tb.Selected() != 0 || len(out) != 0 {
		t.Fatalf("drag across slots must not select, got %d", h.tb.Selected())
	}

	// release without press
	out, _ = h.send(MouseUp(h.tb.SlotFrame(4).Center()))
	if h.tb.Selected() != 0 || len(out) != 0 {
		t.Fatalf("bare mouse-up must not select")
	}

	out = h.click(4)
	if h.tb.SelectedTool() != tools.Measure || len(out) != 1 {
		t.Fatalf("expected Measure and one emission, got %s %v", h.tb.SelectedTool(), out)
	}
}

func TestToolbarMouseHandledInsideOnly(t *testing.T) {
	h := newHarness(t)
	gap := vector.Pt{X: DefaultItemSize + DefaultItemPadding/2, Y: 10}
	if _, ctx := h.send(MouseDown(gap)); !ctx.IsHandled() {
		t.Fatalf("mouse-down in slot gap should be handled")
	}
	if _, ctx := h.send(MouseDown(vector.Pt{X: 10, Y: 100})); ctx.IsHandled() {
		t.Fatalf("mouse-down below toolbar should fall through")
	}
}

func TestToolbarSingleSelectionInvariant(t *testing.T) {
	h := newHarness(t)
	n := h.tb.Registry().Len()
	steps := []Event{
		KeyDown(key("e")), CommandEvent(command.SetActiveTool(tools.Preview)),
		KeyDown(key("shift+u")), CommandEvent(command.SetActiveTool("nope")),
		KeyDown(key("q")), MouseDown(vector.Pt{X: 500, Y: 500}),
		CommandEvent(command.SetActiveTool(tools.Rectangle)), KeyDown(key("v")),
	}
	for i, ev := range steps {
		h.send(ev)
		if s := h.tb.Selected(); s < 0 || s >= n {
			t.Fatalf("step %d: selection %d out of range", i, s)
		}
	}
	for i := 0; i < n; i++ {
		h.click(i)
		if h.tb.Selected() != i {
			t.Fatalf("expected %d after click, got %d", i, h.tb.Selected())
		}
	}
}

func TestToolbarTieBreak(t *testing.T) {
	reg, err := tools.NewRegistry(
		tools.Descriptor{Name: tools.Select, Hotkey: tools.NewHotkey(0, "v")},
		tools.Descriptor{Name: tools.Knife, Hotkey: tools.NewHotkey(0, "k")},
		tools.Descriptor{Name: tools.Pen, Hotkey: tools.NewHotkey(0, "k")},
	)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	tb := NewToolbar(reg)
	for range 3 {
		tb.Event(NewEventCtx(&command.Queue{}), KeyDown(key("k")))
		if tb.SelectedTool() != tools.Knife {
			t.Fatalf("expected first registered tool, got %s", tb.SelectedTool())
		}
	}
	if id, ok := tb.ToolForKeypress(key("k")); !ok || id != tools.Knife {
		t.Fatalf("ToolForKeypress: expected knife, got %s %v", id, ok)
	}
}

func TestToolbarLayoutSize(t *testing.T) {
	tb := NewToolbar(tools.DefaultRegistry())
	got := tb.Layout(Unbounded())
	want := vector.Size{W: 7*(DefaultItemSize+DefaultItemPadding) - DefaultItemPadding, H: DefaultItemSize}
	if got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
	got = tb.Layout(Constraints{Max: vector.Size{W: 100, H: 100}})
	if got.W != 100 {
		t.Fatalf("expected width clamped to 100, got %v", got.W)
	}

	small := NewToolbar(tools.DefaultRegistry(), WithItemSize(20), WithItemPadding(0))
	if got := small.Layout(Unbounded()); got.W != 140 || got.H != 20 {
		t.Fatalf("expected 140x20, got %v", got)
	}
}

func TestToolbarPaintHighlightsSelection(t *testing.T) {
	h := newHarness(t)
	h.send(KeyDown(key("e")))
	l := paint.NewList()
	h.tb.Paint(l)

	var bgs []vector.Color
	for _, op := range l.Ops {
		if op.Kind == paint.OpFill && (op.Color == bgDefault || op.Color == bgSelected) {
			bgs = append(bgs, op.Color)
		}
	}
	if len(bgs) != 7 {
		t.Fatalf("expected 7 slot backgrounds, got %d", len(bgs))
	}
	for i, c := range bgs {
		if (i == 2) != (c == bgSelected) {
			t.Fatalf("slot %d has wrong background %v", i, c)
		}
	}
}
