// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package perf

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseMode(t *testing.T) {
	for _, s := range []string{"", "cpu", "heap", "allocs"} {
		if _, err := ParseMode(s); err != nil {
			t.Fatalf("%q should parse: %v", s, err)
		}
	}
	if _, err := ParseMode("trace"); err == nil {
		t.Fatalf("unknown mode should fail")
	}
}

func TestRunWritesProfile(t *testing.T) {
	dir := t.TempDir()
	calls := 0
	work := func() error {
		calls++
		buf := make([][]byte, 0, 64)
		for i := 0; i < 64; i++ {
			buf = append(buf, make([]byte, 1024))
		}
		_ = buf
		return nil
	}
	for _, m := range []Mode{ModeCPU, ModeHeap, ModeAllocs} {
		if err := Run(work, m, dir); err != nil {
			t.Fatalf("%s: %v", m, err)
		}
		if _, err := os.Stat(filepath.Join(dir, string(m)+".pprof")); err != nil {
			t.Fatalf("%s profile missing: %v", m, err)
		}
	}
	if calls != 3 {
		t.Fatalf("work should run once per mode, got %d", calls)
	}
}

func TestRunReturnsWorkError(t *testing.T) {
	boom := errors.New("boom")
	if err := Run(func() error { return boom }, ModeNone, ""); !errors.Is(err, boom) {
		t.Fatalf("got %v", err)
	}
	if err := Run(func() error { return boom }, ModeHeap, t.TempDir()); !errors.Is(err, boom) {
		t.Fatalf("got %v", err)
	}
}
