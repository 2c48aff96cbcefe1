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

// Package svrcfg 服務設定：可由 YAML 檔載入，再由 CLI flag 覆寫，最後 Valid 補預設值並檢查。
package svrcfg

import (
	"bytes"
	"log/slog"
	"time"

	"github.com/zintix-labs/slotengine"
	"github.com/zintix-labs/slotengine/dto"
	"github.com/zintix-labs/slotengine/errs"
	"github.com/zintix-labs/slotengine/server/logger"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAddr         = ":5808"
	DefaultPoolSize     = 4
	DefaultSessionLimit = 10000
	DefaultSpinTimeout  = 5 * time.Second
)

// File 設定檔內容
type File struct {
	Addr           string   `yaml:"addr"`
	LogMode        string   `yaml:"log_mode"`
	PoolSize       int      `yaml:"pool_size"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	SessionLimit   int      `yaml:"session_limit"`
	SpinTimeout    string   `yaml:"spin_timeout"`
	ConfigDir      string   `yaml:"config_dir"` // 遊戲設定目錄；空白使用內建 demo 設定
	Sim            struct {
		MaxRounds  int `yaml:"max_rounds"`
		MaxPlayers int `yaml:"max_players"`
		MaxWorkers int `yaml:"max_workers"`
	} `yaml:"sim"`
}

// ParseFile 嚴格解析設定檔，未知欄位視為錯誤。
func ParseFile(data []byte) (*File, error) {
	f := new(File)
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(f); err != nil {
		return nil, errs.Config("failed to parse server config: %v", err)
	}
	return f, nil
}

type SvrCfg struct {
	Log            *slog.Logger
	Addr           string
	PoolSize       int // 每款遊戲的機台數
	AllowedOrigins []string
	SessionLimit   int
	SpinTimeout    time.Duration
	Sim            dto.SimLimits
	Engine         *slotengine.Engine
}

// Apply 把設定檔的非零值套用到 sc。
func (sc *SvrCfg) Apply(f *File) error {
	if f == nil {
		return nil
	}
	if f.Addr != "" {
		sc.Addr = f.Addr
	}
	if f.PoolSize != 0 {
		sc.PoolSize = f.PoolSize
	}
	if len(f.AllowedOrigins) > 0 {
		sc.AllowedOrigins = f.AllowedOrigins
	}
	if f.SessionLimit != 0 {
		sc.SessionLimit = f.SessionLimit
	}
	if f.SpinTimeout != "" {
		d, err := time.ParseDuration(f.SpinTimeout)
		if err != nil {
			return errs.Config("invalid spin_timeout %q: %v", f.SpinTimeout, err)
		}
		sc.SpinTimeout = d
	}
	if f.Sim.MaxRounds != 0 {
		sc.Sim.MaxRounds = f.Sim.MaxRounds
	}
	if f.Sim.MaxPlayers != 0 {
		sc.Sim.MaxPlayers = f.Sim.MaxPlayers
	}
	if f.Sim.MaxWorkers != 0 {
		sc.Sim.MaxWorkers = f.Sim.MaxWorkers
	}
	return nil
}

// Valid 補上預設值並檢查必要欄位。
func (sc *SvrCfg) Valid() error {
	if sc.Log != nil {
		if ah, ok := sc.Log.Handler().(*logger.AsyncHandler); ok && !ah.Ready() {
			return errs.NewFatal("nil log handler: async handler is not ready")
		}
	} else {
		sc.Log = slog.New(logger.NewHandler(logger.ModeSilence, nil))
	}
	if sc.Engine == nil {
		return errs.Config("engine is required")
	}
	if sc.Addr == "" {
		sc.Addr = DefaultAddr
	}
	if sc.PoolSize == 0 {
		sc.PoolSize = DefaultPoolSize
	}
	// 資源管理：1 <= PoolSize <= 64
	sc.PoolSize = min(64, max(1, sc.PoolSize))
	if sc.SessionLimit <= 0 {
		sc.SessionLimit = DefaultSessionLimit
	}
	if sc.SpinTimeout <= 0 {
		sc.SpinTimeout = DefaultSpinTimeout
	}
	if sc.Sim.MaxRounds <= 0 {
		sc.Sim.MaxRounds = 1_000_000
	}
	if sc.Sim.MaxPlayers <= 0 {
		sc.Sim.MaxPlayers = 100_000
	}
	if sc.Sim.MaxWorkers <= 0 {
		sc.Sim.MaxWorkers = 4
	}
	return nil
}
