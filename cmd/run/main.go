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

// Command run 在本機以命令列跑模擬並輸出統計報表。
//
//	go run ./cmd/run -game 1 -bet 10 -spins 1000000 -worker 4
//	go run ./cmd/run -cfg ./my_game.yaml -format json
//	go run ./cmd/run -game 2 -player 1000 -bets 200 -spins 1500
package main

import (
	"fmt"
	"os"

	"github.com/zintix-labs/slotengine/sdk/perf"
	"go.uber.org/automaxprocs/maxprocs"
)

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	undo, _ := maxprocs.Set()
	defer undo()

	if err := perf.Run(func() error { return execute(cfg, os.Stdout) }, cfg.pprof, ""); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
