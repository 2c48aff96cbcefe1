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

// Package perf 以 runtime/pprof 包住一段工作並寫出 profile，給 CLI 的 -p 旗標使用。
package perf

import (
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"

	"github.com/zintix-labs/slotengine/errs"
)

// DefaultDir pprof 檔案寫入路徑
const DefaultDir = "build/profiling"

// Mode : "" 不做 profiling；cpu、heap、allocs 各寫出一個 <mode>.pprof
type Mode string

const (
	ModeNone   Mode = ""
	ModeCPU    Mode = "cpu"
	ModeHeap   Mode = "heap"
	ModeAllocs Mode = "allocs"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeNone, ModeCPU, ModeHeap, ModeAllocs:
		return m, nil
	default:
		return ModeNone, errs.Warnf("unknown pprof mode %q (want cpu|heap|allocs)", s)
	}
}

// Run 依 mode 執行 exe 並寫出 profile。exe 的錯誤優先回傳。
//
// Usage like:
//
//	go run ./cmd/run -p cpu
func Run(exe func() error, mode Mode, dir string) error {
	if mode == ModeNone {
		return exe()
	}
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errs.Wrap(err, "create pprof dir failed")
	}
	f, err := os.Create(filepath.Join(dir, string(mode)+".pprof"))
	if err != nil {
		return errs.Wrapf(err, "create %s.pprof failed", mode)
	}
	defer f.Close()

	switch mode {
	case ModeCPU:
		// 可作為 PGO 的 default.pgo
		if err := pprof.StartCPUProfile(f); err != nil {
			return errs.Wrap(err, "start cpu profile failed")
		}
		err := exe()
		pprof.StopCPUProfile()
		return err
	case ModeHeap:
		if err := exe(); err != nil {
			return err
		}
		// 盡量讓快照只剩 live objects
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			return errs.Wrap(err, "write heap profile failed")
		}
		return nil
	default:
		if err := exe(); err != nil {
			return err
		}
		if err := pprof.Lookup("allocs").WriteTo(f, 0); err != nil {
			return errs.Wrap(err, "write allocs profile failed")
		}
		return nil
	}
}
