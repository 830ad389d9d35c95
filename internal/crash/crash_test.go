/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crash /*

package crash

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"glyphedit/internal/storage"
)

func TestWriteReportInTempDir(t *testing.T) {
	path, err := writeReport("", "boom", []byte("stacktrace"))
	if err != nil {
		t.Fatalf("writeReport error: %v", err)
	}
	t.Cleanup(func() { _ = os.Remove(path) })
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	s := string(b)
	if !strings.Contains(s, "GlyphEdit Crash Report") || !strings.Contains(s, "Panic: boom") {
		t.Fatalf("unexpected report: %s", s)
	}
}

func TestWriteReportInWorkspace(t *testing.T) {
	root := t.TempDir()
	path, err := writeReport(root, "kaboom", []byte("stack"))
	if err != nil {
		t.Fatalf("writeReport error: %v", err)
	}
	if want := filepath.Join(root, storage.DirName, storage.CrashDirName); filepath.Dir(path) != want {
		t.Fatalf("expected report under %s, got %s", want, path)
	}
}

type fakeSaver struct {
	called bool
	err    error
}

func (f *fakeSaver) Autosave() (string, error) {
	f.called = true
	return "saved", f.err
}

func TestRecoverWritesReportAutosavesAndExits(t *testing.T) {
	oldStderr := os.Stderr
	devnull, _ := os.Open(os.DevNull)
	os.Stderr = devnull
	defer func() {
		os.Stderr = oldStderr
		_ = devnull.Close()
	}()

	code := 0
	oldExit := exitFn
	exitFn = func(c int) { code = c }
	defer func() { exitFn = oldExit }()

	root := t.TempDir()
	saver := &fakeSaver{err: errors.New("disk full")}
	func() {
		defer Recover(root, saver)
		panic("boom")
	}()

	if code != 2 {
		t.Fatalf("expected exit code 2, got %d", code)
	}
	if !saver.called {
		t.Fatalf("expected autosave attempt")
	}
	entries, err := os.ReadDir(filepath.Join(root, storage.DirName, storage.CrashDirName))
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected one crash report, got %v (err=%v)", entries, err)
	}
}

func TestRecoverWithoutPanicIsNoop(t *testing.T) {
	oldExit := exitFn
	exitFn = func(int) { t.Fatalf("exit must not be called") }
	defer func() { exitFn = oldExit }()
	func() {
		defer Recover("", nil)
	}()
}
