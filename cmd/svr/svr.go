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

// Command svr 啟動 HTTP 服務。
//
//	go run ./cmd/svr -addr :5808 -log dev
//	go run ./cmd/svr -config ./svr.yaml
//
// 旗標覆寫設定檔；未指定 config_dir 時只載入內建示範遊戲。
package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/zintix-labs/slotengine"
	"github.com/zintix-labs/slotengine/demo/demo_configs"
	"github.com/zintix-labs/slotengine/sdk/core"
	"github.com/zintix-labs/slotengine/server"
	"github.com/zintix-labs/slotengine/server/logger"
	"github.com/zintix-labs/slotengine/server/svrcfg"
)

func main() {
	sCfg, closeLog, err := loadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer closeLog()

	undo, _ := maxprocs.Set(maxprocs.Logger(func(format string, a ...any) {
		sCfg.Log.Info(fmt.Sprintf(format, a...))
	}))
	defer undo()

	if err := server.Run(context.Background(), sCfg); err != nil {
		closeLog()
		os.Exit(1)
	}
}

type flags struct {
	config    string
	addr      string
	logMode   string
	pool      int
	cors      string
	configDir string
}

func parseFlags(args []string) (*flags, error) {
	f := new(flags)
	fset := flag.NewFlagSet("svr", flag.ContinueOnError)
	fset.StringVar(&f.config, "config", "", "server config file (yaml)")
	fset.StringVar(&f.addr, "addr", "", "listen address, default "+svrcfg.DefaultAddr)
	fset.StringVar(&f.logMode, "log", "", "log mode: dev|prod|silence")
	fset.IntVar(&f.pool, "pool", 0, "machines per game")
	fset.StringVar(&f.cors, "cors", "", "comma separated allowed origins")
	fset.StringVar(&f.configDir, "games", "", "extra game config directory")
	if err := fset.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

// loadConfig 設定檔 → 旗標 → 預設值
func loadConfig(args []string) (*svrcfg.SvrCfg, func(), error) {
	f, err := parseFlags(args)
	if err != nil {
		return nil, nil, err
	}
	sCfg := new(svrcfg.SvrCfg)
	file := new(svrcfg.File)
	if f.config != "" {
		data, err := os.ReadFile(f.config)
		if err != nil {
			return nil, nil, err
		}
		if file, err = svrcfg.ParseFile(data); err != nil {
			return nil, nil, err
		}
		if err := sCfg.Apply(file); err != nil {
			return nil, nil, err
		}
	}
	if f.addr != "" {
		sCfg.Addr = f.addr
	}
	if f.pool != 0 {
		sCfg.PoolSize = f.pool
	}
	if f.cors != "" {
		sCfg.AllowedOrigins = strings.Split(f.cors, ",")
	}
	if f.configDir != "" {
		file.ConfigDir = f.configDir
	}
	modeName := file.LogMode
	if f.logMode != "" {
		modeName = f.logMode
	}
	mode, err := logger.ParseMode(modeName)
	if err != nil {
		return nil, nil, err
	}

	srcs := []fs.FS{demo_configs.FS}
	if file.ConfigDir != "" {
		srcs = append(srcs, os.DirFS(file.ConfigDir))
	}
	if sCfg.Engine, err = slotengine.New(core.Default(), srcs...); err != nil {
		return nil, nil, err
	}

	log, ah := logger.NewAsync(4096, mode, os.Stdout)
	sCfg.Log = log
	return sCfg, ah.Close, nil
}
