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

// ops 開發用任務，取代 Makefile：
//
//	go run ./scripts test          # 只列出 ok / FAIL
//	go run ./scripts test-detail   # -v，過濾 [no test files]
//	go run ./scripts sim [flags]   # 轉給 ./cmd/run
//	go run ./scripts svr [flags]   # 轉給 ./cmd/svr
//	go run ./scripts pgo           # 跑一次 cpu profile 並複製成 cmd/svr/default.pgo
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const (
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorReset  = "\033[0m"
)

func printc(color, msg string) { fmt.Printf("%s%s%s\n", color, msg, colorReset) }

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run ./scripts [test|test-detail|sim|svr|pgo] [args...]")
		os.Exit(1)
	}
	var err error
	switch task, args := os.Args[1], os.Args[2:]; task {
	case "test":
		err = goTest(summaryOnly, "./...", "-cover", "-count=1")
	case "test-detail":
		err = goTest(skipNoTests, "./...", "-v", "-count=1")
	case "sim":
		err = passthrough(append([]string{"run", "./cmd/run"}, args...)...)
	case "svr":
		err = passthrough(append([]string{"run", "./cmd/svr"}, args...)...)
	case "pgo":
		err = pgo()
	default:
		printc(colorYellow, "Unknown task: "+task)
		os.Exit(1)
	}
	if err != nil {
		printc(colorRed, err.Error())
		os.Exit(1)
	}
}

// lineFilter 回傳 false 表示略過該行
type lineFilter func(line string) bool

func summaryOnly(line string) bool {
	return strings.HasPrefix(line, "ok") || strings.HasPrefix(line, "FAIL") ||
		strings.Contains(line, "build failed") || strings.Contains(line, "setup failed")
}

func skipNoTests(line string) bool {
	return !strings.Contains(line, "[no test files]")
}

func goTest(keep lineFilter, args ...string) error {
	if err := exec.Command("go", "clean", "-testcache").Run(); err != nil {
		printc(colorRed, "go clean -testcache failed: "+err.Error())
	}
	cmd := exec.Command("go", append([]string{"test"}, args...)...)
	out, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	// 編譯錯誤寫在 stderr，一起過濾
	cmd.Stderr = cmd.Stdout
	if err := cmd.Start(); err != nil {
		return err
	}
	colorize(out, keep)
	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("tests finished with errors: %w", err)
	}
	return nil
}

func colorize(r io.Reader, keep lineFilter) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		switch {
		case !keep(line):
		case strings.HasPrefix(line, "ok"):
			printc(colorGreen, line)
		case strings.HasPrefix(line, "FAIL"), strings.Contains(line, "failed"):
			printc(colorRed, line)
		default:
			fmt.Println(line)
		}
	}
}

func passthrough(args ...string) error {
	cmd := exec.Command("go", args...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	return cmd.Run()
}

func pgo() error {
	printc(colorGreen, "profiling classic_fruits for PGO")
	if err := passthrough("run", "./cmd/run", "-game", "1", "-spins", "5000000", "-worker", "4", "-pb=false", "-p", "cpu"); err != nil {
		return err
	}
	src := filepath.Join("build", "profiling", "cpu.pprof")
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	for _, dst := range []string{"cmd/svr/default.pgo", "cmd/run/default.pgo"} {
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			return err
		}
		printc(colorGreen, "wrote "+dst)
	}
	return nil
}
