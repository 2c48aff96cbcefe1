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

// Package demo 以內建的示範遊戲設定組裝 Engine 與服務設定，供 CLI 與測試直接使用。
package demo

import (
	"os"

	"github.com/zintix-labs/slotengine"
	"github.com/zintix-labs/slotengine/demo/demo_configs"
	"github.com/zintix-labs/slotengine/errs"
	"github.com/zintix-labs/slotengine/sdk/core"
	"github.com/zintix-labs/slotengine/server/logger"
	"github.com/zintix-labs/slotengine/server/svrcfg"
)

// NewEngine 只載入內建示範遊戲
func NewEngine() (*slotengine.Engine, error) {
	e, err := slotengine.New(core.Default(), demo_configs.FS)
	if err != nil {
		return nil, errs.Wrap(err, "new demo engine failed")
	}
	return e, nil
}

// NewServerConfig 示範服務設定：dev log、每款遊戲一台機台。
func NewServerConfig() (*svrcfg.SvrCfg, error) {
	e, err := NewEngine()
	if err != nil {
		return nil, err
	}
	log, _ := logger.NewAsync(1024, logger.ModeDev, os.Stdout)
	return &svrcfg.SvrCfg{
		Log:      log,
		PoolSize: 1,
		Engine:   e,
	}, nil
}
