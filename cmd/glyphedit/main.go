/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"glyphedit/internal/config"
	"glyphedit/internal/crash"
	"glyphedit/internal/export"
	applog "glyphedit/internal/log"
	"glyphedit/internal/pack"
	"glyphedit/internal/paint"
	"glyphedit/internal/script"
	"glyphedit/internal/session"
	"glyphedit/internal/storage"
	"glyphedit/internal/telemetry"
	"glyphedit/internal/ui"
	"glyphedit/internal/version"
)

func usage() {
	fmt.Println("GlyphEdit — glyph component editor core")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  glyphedit version|-v|--version             Show version")
	fmt.Println("  glyphedit config                           Print the effective configuration")
	fmt.Println("  glyphedit tools                            List tools and hotkeys in toolbar order")
	fmt.Println("  glyphedit replay <file>                    Feed an input script through a session and print the trace")
	fmt.Println("  glyphedit roundtrip <in.json> [out.json]   Import and re-export a component list")
	fmt.Println("  glyphedit icons <out.svg|png|pdf>          Render the toolbar")
	fmt.Println("  glyphedit sheet <out.png>                  Render a labelled sheet of all tools")
	fmt.Println("  glyphedit history <dir> [glyph]            List stored glyphs or the snapshots of one glyph")
	fmt.Println("  glyphedit history <dir> <glyph> prune <n>  Keep only the n newest snapshots of glyph")
	fmt.Println("  glyphedit pack export|install <dir> <zip>  Move stored glyphs between workspaces")
	fmt.Println("  glyphedit ui [<dir>]                       Launch desktop UI (build with -tags fyne for full UI)")
}

func fail(l *slog.Logger, msg string, err error) {
	l.Error(msg, slog.Any("err", err))
	fmt.Println("Error:", err)
	os.Exit(1)
}

func main() {
	cfg, cfgErr := config.Load()
	applog.Init(cfg.Logging.Options())
	l := applog.WithComponent("cli")
	if cfgErr != nil {
		l.Warn("config load failed; using defaults", slog.Any("err", cfgErr))
	}

	tcfg := telemetry.FromEnv()
	tcfg.OptIn = cfg.General.TelemetryOptIn
	if cfg.General.TelemetryURL != "" {
		tcfg.EventsURL = cfg.General.TelemetryURL
	}
	telemetry.SetDefault(telemetry.New(tcfg))
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		telemetry.Default().Flush(ctx)
		telemetry.Default().Close()
	}()

	var saver crash.Autosaver
	defer func() { crash.Recover(cfg.General.HistoryDir, saver) }()

	newSession := func(extra ...session.Option) *session.Session {
		opts, err := session.OptionsFromConfig(cfg, nil)
		if err != nil {
			fail(l, "invalid toolbar config", err)
		}
		s := session.New(append(opts, extra...)...)
		saver = s
		return s
	}

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println("GlyphEdit — glyph component editor core")
			fmt.Println(version.String())
			return
		case "config":
			fmt.Print(cfg.String())
			for _, k := range config.OverriddenKeys() {
				env, _ := config.EnvOverrideFor(k)
				fmt.Printf("# %s overridden by %s\n", k, env)
			}
			return
		case "tools":
			s := newSession()
			for i, d := range s.Registry().Descriptors() {
				marker := " "
				if i == s.Toolbar().Selected() {
					marker = "*"
				}
				fmt.Printf("%s %-10s %s\n", marker, d.Name, d.Hotkey)
			}
			return
		case "replay":
			if len(args) < 3 {
				fmt.Println("replay requires <file>")
				usage()
				os.Exit(2)
			}
			data, err := os.ReadFile(args[2])
			if err != nil {
				fail(l, "read script failed", err)
			}
			sc, errs := script.Parse(string(data))
			for _, e := range errs {
				fmt.Printf("%s:%d:%d: %s\n", args[2], e.Line, e.Column, e.Message)
			}
			if len(errs) > 0 {
				os.Exit(1)
			}
			l.Info("replay", slog.String("file", args[2]), slog.Int("steps", len(sc.Steps)))
			if err := newSession().Replay(sc, os.Stdout); err != nil {
				fail(l, "replay failed", err)
			}
			return
		case "roundtrip":
			if len(args) < 3 {
				fmt.Println("roundtrip requires <in.json>")
				usage()
				os.Exit(2)
			}
			in := args[2]
			data, err := os.ReadFile(in)
			if err != nil {
				fail(l, "read components failed", err)
			}
			s := newSession()
			name := filepath.Base(in)
			list, err := s.ImportGlyph(name, data)
			if err != nil {
				fail(l, "import failed", err)
			}
			out, err := s.ExportGlyph(name)
			if err != nil {
				fail(l, "export failed", err)
			}
			if len(args) >= 4 {
				if err := os.WriteFile(args[3], out, 0o644); err != nil {
					fail(l, "write components failed", err)
				}
				fmt.Printf("Wrote %d components to %s\n", list.Len(), args[3])
				return
			}
			_, _ = os.Stdout.Write(out)
			return
		case "icons":
			if len(args) < 3 {
				fmt.Println("icons requires <out.svg|png|pdf>")
				usage()
				os.Exit(2)
			}
			pl := paint.NewList()
			newSession().Panel().Paint(pl)
			if err := export.File(args[2], pl, export.Options{Scale: 2, Title: "GlyphEdit tools"}); err != nil {
				fail(l, "export failed", err)
			}
			fmt.Println("Wrote", args[2])
			return
		case "sheet":
			if len(args) < 3 {
				fmt.Println("sheet requires <out.png>")
				usage()
				os.Exit(2)
			}
			f, err := os.Create(args[2])
			if err != nil {
				fail(l, "create sheet failed", err)
			}
			err = export.SheetPNG(f, newSession().Registry(), export.Options{})
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				fail(l, "render sheet failed", err)
			}
			fmt.Println("Wrote", args[2])
			return
		case "history":
			if len(args) < 3 {
				fmt.Println("history requires <dir>")
				usage()
				os.Exit(2)
			}
			h, err := storage.OpenHistory(args[2])
			if err != nil {
				fail(l, "open history failed", err)
			}
			defer func() { _ = h.Close() }()
			ctx := context.Background()
			if len(args) < 4 {
				v, err := h.SchemaVersion(ctx)
				if err != nil {
					fail(l, "read schema version failed", err)
				}
				names, err := h.Glyphs(ctx)
				if err != nil {
					fail(l, "list glyphs failed", err)
				}
				fmt.Printf("# %s (schema v%d)\n", h.Path(), v)
				for _, n := range names {
					fmt.Println(n)
				}
				return
			}
			if len(args) >= 6 && args[4] == "prune" {
				keep, err := strconv.Atoi(args[5])
				if err != nil || keep <= 0 {
					fmt.Println("prune requires a positive snapshot count")
					os.Exit(2)
				}
				n, err := h.Prune(ctx, args[3], keep)
				if err != nil {
					fail(l, "prune failed", err)
				}
				fmt.Printf("Deleted %d snapshot(s) of %s\n", n, args[3])
				return
			}
			snaps, err := h.ListSnapshots(ctx, args[3], 0)
			if err != nil {
				fail(l, "list snapshots failed", err)
			}
			for _, sn := range snaps {
				fmt.Printf("%s  %s  %d bytes  session %s\n", sn.TS.Format(time.RFC3339), sn.ID, len(sn.Blob), sn.Session)
			}
			return
		case "pack":
			if len(args) < 5 || (args[2] != "export" && args[2] != "install") {
				fmt.Println("pack requires export|install, <dir> and <zip>")
				usage()
				os.Exit(2)
			}
			h, err := storage.OpenHistory(args[3])
			if err != nil {
				fail(l, "open history failed", err)
			}
			defer func() { _ = h.Close() }()
			if args[2] == "export" {
				n, err := pack.Export(context.Background(), h, args[4])
				if err != nil {
					fail(l, "pack export failed", err)
				}
				fmt.Printf("Exported %d glyphs to %s\n", n, args[4])
				return
			}
			n, err := pack.Install(context.Background(), h, args[4])
			if err != nil {
				fail(l, "pack install failed", err)
			}
			fmt.Printf("Installed %d glyphs into %s\n", n, h.Path())
			return
		case "ui":
			var dir string
			if len(args) >= 3 {
				dir = args[2]
			}
			if err := ui.Run(dir); err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		}
	}

	usage()
}
