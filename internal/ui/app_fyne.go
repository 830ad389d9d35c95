//go:build fyne && cgo

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
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"glyphedit/internal/command"
	"glyphedit/internal/config"
	"glyphedit/internal/crash"
	"glyphedit/internal/export"
	applog "glyphedit/internal/log"
	"glyphedit/internal/paint"
	"glyphedit/internal/session"
	"glyphedit/internal/storage"
	"glyphedit/internal/telemetry"
	"glyphedit/internal/version"
	gw "glyphedit/internal/widget"
)

// Run starts the Fyne desktop shell: the floating tool strip over an empty
// work surface. dir, when set, holds the component history.
func Run(dir string) error {
	l := applog.WithComponent("ui")
	l.Info("starting UI", slog.String("dir", dir))

	var saver crash.Autosaver
	defer func() { crash.Recover(dir, saver) }()

	cfg, err := config.Load()
	if err != nil {
		l.Warn("config load failed; using defaults", slog.Any("err", err))
	}
	if dir == "" {
		dir = cfg.General.HistoryDir
	}
	opts, err := session.OptionsFromConfig(cfg, nil)
	if err != nil {
		return err
	}
	opts = append(opts, session.WithTelemetry(telemetry.Default()))
	if dir != "" {
		h, herr := storage.OpenHistory(dir)
		if herr != nil {
			l.Warn("history unavailable", slog.Any("err", herr))
		} else {
			defer func() { _ = h.Close() }()
			opts = append(opts, session.WithHistory(h))
		}
	}
	sess := session.New(opts...)
	saver = sess

	fyneApp := app.NewWithID("glyphedit")
	w := fyneApp.NewWindow("GlyphEdit " + version.String())
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 900)
	winH := prefs.IntWithFallback("window.height", 600)
	if winW < 400 {
		winW = 400
	}
	if winH < 300 {
		winH = 300
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	status := widget.NewLabel("")
	ec := NewEditorCanvas(sess)
	updateStatus := func() {
		mode := ""
		if sess.PanelHidden() {
			mode = "  (preview)"
		}
		status.SetText(fmt.Sprintf("Tool: %s%s", sess.SelectedTool(), mode))
	}
	ec.OnResult = func(session.Result) { updateStatus() }
	updateStatus()

	if dc, ok := w.Canvas().(desktop.Canvas); ok {
		dc.SetOnKeyDown(func(ev *fyne.KeyEvent) {
			if k, ok := keyEvent(ev.Name, currentModifiers()); ok {
				ec.Key(gw.KeyDown(k))
			}
		})
		dc.SetOnKeyUp(func(ev *fyne.KeyEvent) {
			if k, ok := keyEvent(ev.Name, currentModifiers()); ok {
				ec.Key(gw.KeyUp(k))
			}
		})
	}

	// File menu
	importItem := fyne.NewMenuItem("Import Components…", func() {
		dialog.ShowFileOpen(func(rc fyne.URIReadCloser, err error) {
			if err != nil || rc == nil {
				return
			}
			defer func() { _ = rc.Close() }()
			data, err := io.ReadAll(rc)
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			name := strings.TrimSuffix(rc.URI().Name(), rc.URI().Extension())
			list, err := sess.ImportGlyph(name, data)
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			status.SetText(fmt.Sprintf("Imported %s: %d components", name, list.Len()))
		}, w)
	})
	saveItem := fyne.NewMenuItem("Save All", func() {
		path, err := sess.Autosave()
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		status.SetText("Saved to " + path)
	})
	saveItem.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierControl}
	exportItem := fyne.NewMenuItem("Export Toolbar…", func() {
		dialog.ShowFileSave(func(wc fyne.URIWriteCloser, err error) {
			if err != nil || wc == nil {
				return
			}
			_ = wc.Close()
			pl := paint.NewList()
			sess.Panel().Paint(pl)
			if err := export.File(wc.URI().Path(), pl, export.Options{Scale: 2}); err != nil {
				dialog.ShowError(err, w)
				return
			}
			status.SetText("Exported " + filepath.Base(wc.URI().Path()))
		}, w)
	})
	fileMenu := fyne.NewMenu("File", importItem, saveItem, fyne.NewMenuItemSeparator(), exportItem)

	// Tools menu: the same commands another view would put on the bus.
	var toolItems []*fyne.MenuItem
	for _, d := range sess.Registry().Descriptors() {
		id := d.Name
		toolItems = append(toolItems, fyne.NewMenuItem(fmt.Sprintf("%s\t%s", id, d.Hotkey), func() {
			ec.Dispatch(sess.Dispatch(command.SetActiveTool(id)))
		}))
	}
	toolsMenu := fyne.NewMenu("Tools", toolItems...)
	previewItem := fyne.NewMenuItem("Toggle Preview", func() {
		ec.Dispatch(sess.Dispatch(command.SetPreviewVisibility(!sess.PanelHidden())))
	})
	viewMenu := fyne.NewMenu("View", previewItem)
	w.SetMainMenu(fyne.NewMainMenu(fileMenu, toolsMenu, viewMenu))

	w.SetContent(container.NewBorder(nil, status, nil, nil, ec))

	w.SetCloseIntercept(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		if _, err := sess.Autosave(); err != nil && !errors.Is(err, session.ErrNoHistory) {
			l.Error("save on close failed", slog.Any("err", err))
		}
		w.Close()
	})

	telemetry.Default().Event(telemetry.EventSessionStarted, map[string]any{"ui": "fyne"})
	w.ShowAndRun()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	telemetry.Default().Flush(ctx)
	return nil
}

func currentModifiers() fyne.KeyModifier {
	if drv, ok := fyne.CurrentApp().Driver().(desktop.Driver); ok {
		return drv.CurrentKeyModifiers()
	}
	return 0
}
